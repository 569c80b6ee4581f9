package scenes

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Scene names understood by the application's scene factory.
const (
	SceneOverlay = "overlay"
	SceneHost    = "host"
)

// hostBackground 应用页面背景色
var hostBackground = color.RGBA{R: 250, G: 240, B: 230, A: 255}

// HostScene 被遮罩挡住的应用页面
// 遮罩完成（或未挂载）后成为唯一的活动场景
type HostScene struct {
	title  string
	width  int
	height int
	frames int
}

// NewHostScene 创建应用页面场景
func NewHostScene(title string) *HostScene {
	return &HostScene{title: title}
}

// Update 统计已运行的帧数
func (h *HostScene) Update(deltaTime float64) {
	h.frames++
}

// Draw 绘制页面背景和说明文字
func (h *HostScene) Draw(screen *ebiten.Image) {
	screen.Fill(hostBackground)
	ebitenutil.DebugPrintAt(screen, h.title, 16, 16)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%dx%d", h.width, h.height), 16, 36)
}

// Resize 实现 game.Resizable
func (h *HostScene) Resize(width, height int) {
	h.width, h.height = width, height
}

// Frames 已更新的帧数
func (h *HostScene) Frames() int { return h.frames }
