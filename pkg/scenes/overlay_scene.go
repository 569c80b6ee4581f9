package scenes

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font"

	"github.com/decker502/dustreveal/internal/particle"
	"github.com/decker502/dustreveal/pkg/config"
	"github.com/decker502/dustreveal/pkg/game"
	"github.com/decker502/dustreveal/pkg/mask"
	"github.com/decker502/dustreveal/pkg/reveal"
	"github.com/decker502/dustreveal/pkg/utils"
)

// OverlayOptions 遮罩场景构造参数
type OverlayOptions struct {
	Config *config.OverlayConfig
	Width  int
	Height int

	Clock   game.Clock
	Rand    particle.Rand
	Face    font.Face
	Pointer utils.PointerSource // nil 时读取 ebiten 输入

	// Underlay 遮罩下方的应用场景，只绘制不更新
	Underlay game.Scene

	OnComplete        func()
	OnFireworkSpawned func(x, y float64)
	ForceCelebration  bool
}

// OverlayScene 覆盖在应用之上的刮开遮罩
//
// 把指针输入翻译成控制器的触摸事件，每个 tick 驱动一次帧调度器，
// 并在遮罩像素变化时上传到 GPU 纹理。
type OverlayScene struct {
	controller *reveal.Controller
	scheduler  *game.FrameScheduler
	drag       *utils.DragManager
	underlay   game.Scene

	visible bool
	opacity float64

	texture         *ebiten.Image
	uploadedVersion uint64
	uploaded        bool
}

// NewOverlayScene 创建遮罩场景
// 控制器创建失败时返回错误，调用方应直接进入应用
func NewOverlayScene(opts OverlayOptions) (*OverlayScene, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultOverlayConfig()
	}

	s := &OverlayScene{
		scheduler: game.NewFrameScheduler(opts.Clock),
		drag:      utils.NewDragManager(opts.Pointer),
		underlay:  opts.Underlay,
	}

	surface := mask.NewSurface(opts.Width, opts.Height, cfg.Mask.Color.NRGBA(), cfg.Mask.StrokeWidth)
	controller, err := reveal.NewController(surface, reveal.Options{
		Config:            cfg,
		Clock:             opts.Clock,
		Rand:              opts.Rand,
		Scheduler:         s.scheduler,
		Presenter:         s,
		Face:              opts.Face,
		OnComplete:        opts.OnComplete,
		OnFireworkSpawned: opts.OnFireworkSpawned,
		ForceCelebration:  opts.ForceCelebration,
	})
	if err != nil {
		s.scheduler.Stop()
		return nil, fmt.Errorf("failed to create reveal controller: %w", err)
	}
	s.controller = controller

	log.Printf("[Overlay] Mounted %dx%d", opts.Width, opts.Height)
	return s, nil
}

// SetOverlayVisible 实现 reveal.Presenter
func (s *OverlayScene) SetOverlayVisible(visible bool) {
	s.visible = visible
}

// SetOverlayOpacity 实现 reveal.Presenter
func (s *OverlayScene) SetOverlayOpacity(opacity float64) {
	s.opacity = opacity
}

// Visible 遮罩当前是否可见
func (s *OverlayScene) Visible() bool { return s.visible }

// Opacity 遮罩当前透明度
func (s *OverlayScene) Opacity() float64 { return s.opacity }

// Controller 返回底层的揭开控制器
func (s *OverlayScene) Controller() *reveal.Controller { return s.controller }

// Update 处理输入并驱动帧调度器
func (s *OverlayScene) Update(deltaTime float64) {
	s.handleInput()
	s.scheduler.Tick()
}

func (s *OverlayScene) handleInput() {
	s.drag.Update()
	info := s.drag.GetInfo()

	switch info.State {
	case utils.DragStateStarted:
		s.controller.TouchStart(float64(info.CurrentX), float64(info.CurrentY))
	case utils.DragStateDragging:
		if info.Moved {
			s.controller.TouchMove(float64(info.CurrentX), float64(info.CurrentY))
		}
	case utils.DragStateEnded:
		s.controller.TouchEnd()
	}
}

// Draw 先绘制下层应用，再按当前透明度叠加遮罩
func (s *OverlayScene) Draw(screen *ebiten.Image) {
	if s.underlay != nil {
		s.underlay.Draw(screen)
	}
	if !s.visible || s.opacity <= 0 {
		return
	}

	surface := s.controller.Surface()
	w, h := surface.Width(), surface.Height()
	if w == 0 || h == 0 {
		return
	}

	if s.texture != nil {
		if b := s.texture.Bounds(); b.Dx() != w || b.Dy() != h {
			s.texture.Deallocate()
			s.texture = nil
		}
	}
	if s.texture == nil {
		s.texture = ebiten.NewImage(w, h)
		s.uploaded = false
	}
	if !s.uploaded || surface.Version() != s.uploadedVersion {
		// image.RGBA 与 ebiten 一样使用预乘 alpha，可直接上传
		s.texture.WritePixels(surface.Pixels().Pix)
		s.uploadedVersion = surface.Version()
		s.uploaded = true
	}

	op := &ebiten.DrawImageOptions{}
	op.ColorScale.ScaleAlpha(float32(s.opacity))
	screen.DrawImage(s.texture, op)
}

// Resize 实现 game.Resizable
func (s *OverlayScene) Resize(width, height int) {
	s.controller.Resize(width, height)
	if s.underlay != nil {
		if r, ok := s.underlay.(game.Resizable); ok {
			r.Resize(width, height)
		}
	}
}

// Unmount 实现 game.Unmountable，卸载后不再有任何帧回调
func (s *OverlayScene) Unmount() {
	s.controller.Close()
	s.scheduler.Stop()
	if s.texture != nil {
		s.texture.Deallocate()
		s.texture = nil
	}
	log.Printf("[Overlay] Unmounted (phase=%s)", s.controller.Phase())
}
