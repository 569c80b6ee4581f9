package mask

import (
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"
)

var dust = color.NRGBA{R: 150, G: 150, B: 150, A: 204}

func TestNewSurfaceIsOpaque(t *testing.T) {
	s := NewSurface(20, 10, dust, 40)

	if s.Width() != 20 || s.Height() != 10 {
		t.Fatalf("size = %dx%d, want 20x10", s.Width(), s.Height())
	}
	if got := Estimate(s); got != 0 {
		t.Errorf("fresh surface cleared fraction = %v, want 0", got)
	}
	c := s.Pixels().RGBAAt(3, 4)
	if c.A != 204 {
		t.Errorf("pixel alpha = %d, want 204", c.A)
	}
	if s.Mode() != CompositeSourceOver {
		t.Errorf("mode = %v, want source-over", s.Mode())
	}
}

func TestStrokeRequiresBegin(t *testing.T) {
	s := NewSurface(10, 10, dust, 4)

	if err := s.ExtendStroke(Point{1, 1}); !errors.Is(err, ErrNoStroke) {
		t.Errorf("ExtendStroke without begin: err = %v, want ErrNoStroke", err)
	}
	if err := s.EndStroke(); !errors.Is(err, ErrNoStroke) {
		t.Errorf("EndStroke without begin: err = %v, want ErrNoStroke", err)
	}
	if err := s.BeginStroke(Point{1, 1}); err != nil {
		t.Fatalf("BeginStroke failed: %v", err)
	}
	if err := s.BeginStroke(Point{2, 2}); !errors.Is(err, ErrStrokeOpen) {
		t.Errorf("second BeginStroke: err = %v, want ErrStrokeOpen", err)
	}
	if s.Mode() != CompositeDestinationOut {
		t.Errorf("mode during stroke = %v, want destination-out", s.Mode())
	}
	if err := s.EndStroke(); err != nil {
		t.Errorf("EndStroke failed: %v", err)
	}
	if s.Stroking() {
		t.Error("stroke should be closed")
	}
}

func TestBeginStrokeDoesNotErase(t *testing.T) {
	s := NewSurface(50, 50, dust, 40)
	if err := s.BeginStroke(Point{25, 25}); err != nil {
		t.Fatal(err)
	}
	if got := Estimate(s); got != 0 {
		t.Errorf("cleared fraction after BeginStroke = %v, want 0", got)
	}
}

func TestExtendStrokeErasesBand(t *testing.T) {
	// 宽 4 的水平线，y=10 对齐像素边界：第 8~11 行被完全擦除
	s := NewSurface(100, 100, dust, 4)
	mustStroke(t, s, Point{-10, 10}, Point{110, 10})

	for x := 0; x < 100; x += 7 {
		for _, y := range []int{8, 9, 10, 11} {
			if a := s.Pixels().RGBAAt(x, y).A; a != 0 {
				t.Fatalf("pixel (%d,%d) alpha = %d, want 0", x, y, a)
			}
		}
		for _, y := range []int{5, 14, 50} {
			if a := s.Pixels().RGBAAt(x, y).A; a != 204 {
				t.Fatalf("pixel (%d,%d) alpha = %d, want untouched 204", x, y, a)
			}
		}
	}

	got := Estimate(s)
	if got < 0.04 || got > 0.06 {
		t.Errorf("cleared fraction = %v, want about 0.04", got)
	}
}

func TestErasedPixelsStayTransparent(t *testing.T) {
	s := NewSurface(60, 60, dust, 10)

	prev := 0.0
	strokes := [][2]Point{
		{{0, 10}, {60, 10}},
		{{0, 10}, {60, 10}}, // 重复擦除同一区域
		{{30, 0}, {30, 60}},
		{{0, 0}, {60, 60}},
	}
	for i, st := range strokes {
		mustStroke(t, s, st[0], st[1])
		got := Estimate(s)
		if got < prev {
			t.Fatalf("stroke %d: cleared fraction decreased from %v to %v", i, prev, got)
		}
		prev = got
	}
}

func TestZeroLengthSegmentErasesDot(t *testing.T) {
	s := NewSurface(40, 40, dust, 10)
	mustStroke(t, s, Point{20, 20}, Point{20, 20})

	if a := s.Pixels().RGBAAt(20, 20).A; a != 0 {
		t.Errorf("center alpha = %d, want 0", a)
	}
	if a := s.Pixels().RGBAAt(2, 2).A; a != 204 {
		t.Errorf("far pixel alpha = %d, want 204", a)
	}
}

func TestDiagonalStrokeErasesOnlyPath(t *testing.T) {
	s := NewSurface(100, 100, dust, 10)
	mustStroke(t, s, Point{10, 10}, Point{90, 90})

	for _, p := range []image.Point{{50, 50}, {30, 30}, {70, 70}} {
		if a := s.Pixels().RGBAAt(p.X, p.Y).A; a != 0 {
			t.Errorf("on-path pixel %v alpha = %d, want 0", p, a)
		}
	}
	// 包围盒内但远离线段的角落保持不透明
	for _, p := range []image.Point{{88, 12}, {12, 88}, {70, 20}} {
		if a := s.Pixels().RGBAAt(p.X, p.Y).A; a != 204 {
			t.Errorf("off-path pixel %v alpha = %d, want untouched 204", p, a)
		}
	}

	// 113 x 10 的带状区域约占 11%
	got := Estimate(s)
	if got < 0.08 || got > 0.16 {
		t.Errorf("cleared fraction = %v, want about 0.11", got)
	}
}

func TestDotKeepsCornersOfBoundingBox(t *testing.T) {
	s := NewSurface(40, 40, dust, 10)
	mustStroke(t, s, Point{20, 20}, Point{20, 20})

	// (15,15) 与 (24,24) 在包围盒内，但像素中心距圆心约 6.4 > 半径 5
	for _, p := range []image.Point{{15, 15}, {24, 24}, {15, 24}, {24, 15}} {
		if a := s.Pixels().RGBAAt(p.X, p.Y).A; a != 204 {
			t.Errorf("corner pixel %v alpha = %d, want 204", p, a)
		}
	}

	got := Estimate(s)
	if got < 0.02 || got > 0.06 {
		t.Errorf("cleared fraction = %v, want about 0.04", got)
	}
}

func TestStrokeOutsideBoundsIsNoop(t *testing.T) {
	s := NewSurface(20, 20, dust, 4)
	mustStroke(t, s, Point{-100, -100}, Point{-50, -80})
	if got := Estimate(s); got != 0 {
		t.Errorf("cleared fraction = %v, want 0", got)
	}
}

func TestResizeResetsErasure(t *testing.T) {
	s := NewSurface(50, 50, dust, 20)
	mustStroke(t, s, Point{0, 25}, Point{50, 25})
	if Estimate(s) == 0 {
		t.Fatal("expected some erasure before resize")
	}

	if err := s.BeginStroke(Point{0, 0}); err != nil {
		t.Fatal(err)
	}
	s.Resize(80, 30)

	if s.Width() != 80 || s.Height() != 30 {
		t.Errorf("size after resize = %dx%d, want 80x30", s.Width(), s.Height())
	}
	if got := Estimate(s); got != 0 {
		t.Errorf("cleared fraction after resize = %v, want 0", got)
	}
	if s.Stroking() {
		t.Error("resize should close the open stroke")
	}
}

func TestZeroSizedSurface(t *testing.T) {
	s := NewSurface(0, 0, dust, 40)

	if got := Estimate(s); got != 0 {
		t.Errorf("Estimate on empty surface = %v, want 0", got)
	}
	mustStroke(t, s, Point{0, 0}, Point{10, 10})
	s.FillRect(color.NRGBA{A: 25})
	s.FillCircle(1, 1, 2, color.NRGBA{R: 255, A: 255})
	s.DrawTextCentered("x", nil, color.NRGBA{A: 255})

	neg := NewSurface(-5, 10, dust, 40)
	if neg.Width() != 0 {
		t.Errorf("negative width should clamp to 0, got %d", neg.Width())
	}
}

func TestClearAndPaint(t *testing.T) {
	s := NewSurface(30, 30, dust, 10)
	s.Clear()
	if got := Estimate(s); got != 1 {
		t.Fatalf("cleared fraction after Clear = %v, want 1", got)
	}

	v := s.Version()
	s.FillCircle(15, 15, 5, color.NRGBA{R: 255, A: 255})
	if s.Version() == v {
		t.Error("FillCircle should bump the version")
	}
	if c := s.Pixels().RGBAAt(15, 15); c.R != 255 || c.A != 255 {
		t.Errorf("circle center = %+v, want opaque red", c)
	}

	s.FillRect(color.NRGBA{A: 255})
	if c := s.Pixels().RGBAAt(0, 0); c.A != 255 || c.R != 0 {
		t.Errorf("after FillRect corner = %+v, want opaque black", c)
	}
}

func TestEstimateImageSubImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	img.SetRGBA(2, 2, color.RGBA{})
	img.SetRGBA(3, 2, color.RGBA{})

	sub := img.SubImage(image.Rect(2, 2, 4, 4)).(*image.RGBA)
	if got := EstimateImage(sub); got != 0.5 {
		t.Errorf("EstimateImage(sub) = %v, want 0.5", got)
	}
	if got := EstimateImage(img); got != 0.02 {
		t.Errorf("EstimateImage(img) = %v, want 0.02", got)
	}
}

func TestSavePNG(t *testing.T) {
	s := NewSurface(8, 8, dust, 4)
	path := filepath.Join(t.TempDir(), "mask.png")
	if err := s.SavePNG(path); err != nil {
		t.Errorf("SavePNG failed: %v", err)
	}
}

func mustStroke(t *testing.T, s *Surface, from, to Point) {
	t.Helper()
	if err := s.BeginStroke(from); err != nil {
		t.Fatalf("BeginStroke: %v", err)
	}
	if err := s.ExtendStroke(to); err != nil {
		t.Fatalf("ExtendStroke: %v", err)
	}
	if err := s.EndStroke(); err != nil {
		t.Fatalf("EndStroke: %v", err)
	}
}
