// Package mask 实现可擦除的灰尘遮罩层
//
// Surface 持有一块 RGBA 像素缓冲：初始化时整层填充半透明灰色，
// 指针拖拽路径以 destination-out 方式擦除（被擦除像素的 alpha 置零）。
// 擦除后的像素只有在 Initialize/Resize 时才会重新变为不透明。
//
// 烟花阶段复用同一块缓冲作为画布（拖尾、粒子、文字均为 source-over）。
package mask

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

var (
	// ErrNoStroke 没有打开的笔画时调用 ExtendStroke/EndStroke
	ErrNoStroke = errors.New("mask: no stroke in progress")
	// ErrStrokeOpen 已有笔画时再次调用 BeginStroke
	ErrStrokeOpen = errors.New("mask: stroke already in progress")
)

// CompositeMode 当前合成模式
type CompositeMode int

const (
	// CompositeSourceOver 正常绘制
	CompositeSourceOver CompositeMode = iota
	// CompositeDestinationOut 擦除
	CompositeDestinationOut
)

// String 返回合成模式名称
func (m CompositeMode) String() string {
	switch m {
	case CompositeSourceOver:
		return "source-over"
	case CompositeDestinationOut:
		return "destination-out"
	default:
		return "unknown"
	}
}

// Point 遮罩坐标系中的点（像素）
type Point struct {
	X, Y float64
}

// Surface 可擦除的遮罩层
type Surface struct {
	img         *image.RGBA
	dc          *gg.Context // 绘制到 img 上（source-over），零尺寸时为 nil
	fill        color.NRGBA
	strokeWidth float64

	mode     CompositeMode
	stroking bool
	last     Point

	version uint64 // 每次像素变化递增，供上层判断是否需要重新上传纹理
}

// NewSurface 创建并初始化遮罩层
//
// 参数：
//   - width, height: 视口尺寸（像素），负数按 0 处理
//   - fill: 遮罩颜色（非预乘）
//   - strokeWidth: 擦除笔触宽度
func NewSurface(width, height int, fill color.NRGBA, strokeWidth float64) *Surface {
	s := &Surface{
		fill:        fill,
		strokeWidth: strokeWidth,
	}
	s.Initialize(width, height)
	return s
}

// Initialize 重新分配像素缓冲并整层填充遮罩颜色
// 之前的擦除进度和打开的笔画全部丢弃
func (s *Surface) Initialize(width, height int) {
	s.allocate(width, height)
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(s.fill), image.Point{}, draw.Src)
}

// Resize 以新尺寸重新初始化（擦除进度丢失）
func (s *Surface) Resize(width, height int) {
	log.Printf("[Mask] Resize %dx%d -> %dx%d, erased pixels discarded", s.Width(), s.Height(), width, height)
	s.Initialize(width, height)
}

// ResizeTransparent 以新尺寸重新分配为全透明缓冲（烟花阶段使用）
func (s *Surface) ResizeTransparent(width, height int) {
	s.allocate(width, height)
}

func (s *Surface) allocate(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
	s.dc = nil
	if width > 0 && height > 0 {
		s.dc = gg.NewContextForRGBA(s.img)
	}
	s.mode = CompositeSourceOver
	s.stroking = false
	s.version++
}

// Width 缓冲宽度
func (s *Surface) Width() int { return s.img.Bounds().Dx() }

// Height 缓冲高度
func (s *Surface) Height() int { return s.img.Bounds().Dy() }

// Pixels 返回底层像素缓冲（只读使用）
func (s *Surface) Pixels() *image.RGBA { return s.img }

// Version 像素版本号
func (s *Surface) Version() uint64 { return s.version }

// Mode 当前合成模式
func (s *Surface) Mode() CompositeMode { return s.mode }

// Stroking 是否有打开的笔画
func (s *Surface) Stroking() bool { return s.stroking }

// StrokeWidth 擦除笔触宽度
func (s *Surface) StrokeWidth() float64 { return s.strokeWidth }

// BeginStroke 在 p 处打开一条擦除路径
// 仅记录起点，本身不擦除任何像素
func (s *Surface) BeginStroke(p Point) error {
	if s.stroking {
		return ErrStrokeOpen
	}
	s.stroking = true
	s.mode = CompositeDestinationOut
	s.last = p
	return nil
}

// ExtendStroke 从上一个点到 p 追加一段线段并立即擦除
func (s *Surface) ExtendStroke(p Point) error {
	if !s.stroking {
		return ErrNoStroke
	}
	s.eraseSegment(s.last, p)
	s.last = p
	return nil
}

// EndStroke 关闭当前路径，无直接视觉效果
func (s *Surface) EndStroke() error {
	if !s.stroking {
		return ErrNoStroke
	}
	s.stroking = false
	s.mode = CompositeSourceOver
	return nil
}

// LastPoint 当前笔画最后一个点
func (s *Surface) LastPoint() Point { return s.last }

// eraseSegment 将线段加粗为圆头路径，在其覆盖范围内执行 destination-out
//
// 先用 gg 在一个只覆盖线段包围盒的临时上下文中描边得到 alpha 蒙版，
// 只有蒙版覆盖到的像素被擦除，包围盒内路径以外的像素保持不变。
func (s *Surface) eraseSegment(from, to Point) {
	if s.dc == nil {
		return
	}

	half := s.strokeWidth / 2
	minX := math.Floor(math.Min(from.X, to.X) - half - 1)
	minY := math.Floor(math.Min(from.Y, to.Y) - half - 1)
	maxX := math.Ceil(math.Max(from.X, to.X) + half + 1)
	maxY := math.Ceil(math.Max(from.Y, to.Y) + half + 1)

	area := image.Rect(int(minX), int(minY), int(maxX), int(maxY))
	clipped := area.Intersect(s.img.Bounds())
	if clipped.Empty() {
		return
	}

	brush := gg.NewContext(area.Dx(), area.Dy())
	brush.SetRGBA(1, 1, 1, 1)
	ox, oy := float64(area.Min.X), float64(area.Min.Y)
	if from == to {
		// 零长度线段只留下一个圆头
		brush.DrawCircle(from.X-ox, from.Y-oy, half)
		brush.Fill()
	} else {
		brush.SetLineWidth(s.strokeWidth)
		brush.SetLineCap(gg.LineCapRound)
		brush.SetLineJoin(gg.LineJoinRound)
		brush.DrawLine(from.X-ox, from.Y-oy, to.X-ox, to.Y-oy)
		brush.Stroke()
	}

	s.destinationOut(brush.AsMask(), area.Min, clipped)
	s.version++
}

// destinationOut 在 r 范围内按蒙版覆盖度缩小目标像素：dst = dst * (1 - mask)
// 预乘 alpha 下四个通道同比例缩放，蒙版完全覆盖的像素 alpha 精确为 0。
func (s *Surface) destinationOut(stencil *image.Alpha, origin image.Point, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		mi := stencil.PixOffset(r.Min.X-origin.X, y-origin.Y)
		di := s.img.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x, mi, di = x+1, mi+1, di+4 {
			m := uint32(stencil.Pix[mi])
			if m == 0 {
				continue
			}
			keep := 255 - m
			px := s.img.Pix[di : di+4 : di+4]
			for c := range px {
				px[c] = uint8((uint32(px[c])*keep + 127) / 255)
			}
		}
	}
}

// Clear 将整层清为全透明
func (s *Surface) Clear() {
	draw.Draw(s.img, s.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
	s.version++
}

// FillRect 以 source-over 方式用 c 覆盖整层（烟花拖尾）
func (s *Surface) FillRect(c color.NRGBA) {
	if s.dc == nil {
		return
	}
	s.dc.SetColor(c)
	s.dc.DrawRectangle(0, 0, float64(s.Width()), float64(s.Height()))
	s.dc.Fill()
	s.version++
}

// FillCircle 以 source-over 方式绘制实心圆
func (s *Surface) FillCircle(x, y, r float64, c color.NRGBA) {
	if s.dc == nil || r <= 0 {
		return
	}
	s.dc.SetColor(c)
	s.dc.DrawCircle(x, y, r)
	s.dc.Fill()
	s.version++
}

// DrawTextCentered 以整层中心为锚点绘制文字
func (s *Surface) DrawTextCentered(text string, face font.Face, c color.NRGBA) {
	if s.dc == nil || face == nil || text == "" {
		return
	}
	s.dc.SetFontFace(face)
	s.dc.SetColor(c)
	s.dc.DrawStringAnchored(text, float64(s.Width())/2, float64(s.Height())/2, 0.5, 0.5)
	s.version++
}

// SavePNG 导出当前像素（调试和回放工具使用）
func (s *Surface) SavePNG(path string) error {
	if s.dc == nil {
		return gg.SavePNG(path, s.img)
	}
	return s.dc.SavePNG(path)
}
