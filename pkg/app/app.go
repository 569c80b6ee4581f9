// Package app 提供应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/dustreveal/pkg/config"
	"github.com/decker502/dustreveal/pkg/embedded"
	"github.com/decker502/dustreveal/pkg/game"
	"github.com/decker502/dustreveal/pkg/scenes"
	"github.com/decker502/dustreveal/pkg/utils"
)

// DefaultConfigPath 嵌入资源中的默认遮罩配置
const DefaultConfigPath = "data/overlay.yaml"

// 桌面端默认窗口尺寸（竖屏手机比例）
const (
	WindowWidth  = 390
	WindowHeight = 844
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 磁盘上的遮罩配置文件，为空时使用嵌入的默认配置
	ConfigPath string
	// ForceMount 非触摸设备上也挂载遮罩
	ForceMount bool
	// ForceCelebration 无论日期都播放烟花
	ForceCelebration bool
	// Title 遮罩下方应用页面的标题
	Title string
}

// App 是应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *game.SceneManager
	audioManager *game.AudioManager
	listeners    *game.ListenerRegistry
	overlay      *config.OverlayConfig

	overlayMounted bool
	revealed       bool

	onResize                 func(width, height int)
	fullscreenEnabled        bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 使用嵌入配置时，调用此函数前必须先调用 embedded.Init()。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	overlayCfg, err := loadOverlayConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("遮罩配置加载失败: %w", err)
	}

	title := cfg.Title
	if title == "" {
		title = "Dust Reveal"
	}

	a := &App{
		sceneManager: game.NewSceneManager(),
		listeners:    game.NewListenerRegistry(),
		overlay:      overlayCfg,
	}

	// 初始化音频上下文
	audioContext := audio.NewContext(48000)
	a.audioManager = game.NewAudioManager(audioContext, overlayCfg.Sound)
	log.Printf("[App] AudioManager initialized")

	a.registerListeners()

	host := scenes.NewHostScene(title)
	a.sceneManager.SetSceneFactory(func(name string) game.Scene {
		switch name {
		case scenes.SceneHost:
			return host
		case scenes.SceneOverlay:
			return a.newOverlay(host, cfg.ForceCelebration)
		}
		return nil
	})

	if utils.ShouldMountOverlay(cfg.ForceMount) {
		a.sceneManager.Load(scenes.SceneOverlay)
	}
	if a.sceneManager.GetCurrentScene() == nil {
		log.Printf("[App] Overlay not mounted, showing application directly")
		a.sceneManager.Load(scenes.SceneHost)
	}

	return a, nil
}

// loadOverlayConfig 读取磁盘配置；未指定路径时读取嵌入配置，嵌入资源不可用时使用默认值
func loadOverlayConfig(path string) (*config.OverlayConfig, error) {
	if path != "" {
		return config.LoadOverlayConfig(path)
	}
	if !embedded.IsInitialized() || !embedded.Exists(DefaultConfigPath) {
		log.Printf("[Config] 嵌入配置不可用，使用默认遮罩配置")
		return config.DefaultOverlayConfig(), nil
	}
	data, err := embedded.ReadFile(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	cfg, err := config.ParseOverlayConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", DefaultConfigPath, err)
	}
	log.Printf("[Config] 加载遮罩配置: %s", DefaultConfigPath)
	return cfg, nil
}

// newOverlay 创建遮罩场景，失败时返回 nil（调用方退回应用页面）
func (a *App) newOverlay(host *scenes.HostScene, forceCelebration bool) game.Scene {
	face, err := utils.LoadFontFace(a.overlay.Celebration.FontPath, a.overlay.Celebration.FontSize)
	if err != nil {
		log.Printf("[App] 字体加载失败，烟花阶段不绘制文字: %v", err)
	} else if missing, _ := utils.MissingGlyphs(a.overlay.Celebration.FontPath, a.overlay.Celebration.Text); len(missing) > 0 {
		log.Printf("[App] Warning: font has no glyphs for %q, set celebration.fontPath to a matching TTF", string(missing))
	}

	width, height := a.sceneManager.Size()
	overlay, err := scenes.NewOverlayScene(scenes.OverlayOptions{
		Config:            a.overlay,
		Width:             width,
		Height:            height,
		Face:              face,
		Underlay:          host,
		OnComplete:        a.onRevealComplete,
		OnFireworkSpawned: func(x, y float64) { a.audioManager.PlayPop() },
		ForceCelebration:  forceCelebration,
	})
	if err != nil {
		log.Printf("[App] Overlay unavailable: %v", err)
		return nil
	}
	a.overlayMounted = true
	return overlay
}

// onRevealComplete 遮罩完成后卸载遮罩，只保留应用页面
func (a *App) onRevealComplete() {
	a.revealed = true
	log.Printf("[App] Reveal complete, unmounting overlay")
	a.sceneManager.Load(scenes.SceneHost)
}

// toggleSound 开关烟花音效
func (a *App) toggleSound() {
	enabled := !a.audioManager.SoundEnabled()
	a.audioManager.SetSoundEnabled(enabled)
	log.Printf("[App] Sound enabled: %v", enabled)
}

// registerListeners 注册宿主事件监听，单个失败只记录日志
func (a *App) registerListeners() {
	a.listeners.Register("fullscreen", func() error {
		if utils.IsMobile() {
			return errors.New("fullscreen toggle is not supported on mobile")
		}
		a.fullscreenEnabled = true
		return nil
	})
	a.listeners.Register("resize", func() error {
		if a.sceneManager == nil {
			return errors.New("scene manager not initialized")
		}
		a.onResize = a.sceneManager.Resize
		return nil
	})
}

// Update 更新应用逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(WindowWidth, WindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", WindowWidth, WindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if a.fullscreenEnabled && inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	// M 切换音效
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		a.toggleSound()
	}

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 逻辑尺寸跟随窗口尺寸，遮罩始终铺满视口
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth < 1 {
		outsideWidth = 1
	}
	if outsideHeight < 1 {
		outsideHeight = 1
	}
	if a.onResize != nil {
		a.onResize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// OverlayMounted 启动时是否挂载了遮罩
func (a *App) OverlayMounted() bool {
	return a.overlayMounted
}

// Revealed 遮罩是否已经完成
func (a *App) Revealed() bool {
	return a.revealed
}
