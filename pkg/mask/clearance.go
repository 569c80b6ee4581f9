package mask

import "image"

// Estimate 返回遮罩中完全透明像素的占比
// 只在笔画结束时调用（O(width×height)）
func Estimate(s *Surface) float64 {
	if s == nil {
		return 0
	}
	return EstimateImage(s.img)
}

// EstimateImage 统计 alpha 恰好为 0 的像素占比，零面积返回 0
func EstimateImage(img *image.RGBA) float64 {
	if img == nil {
		return 0
	}
	b := img.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return 0
	}

	cleared := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 3; i < len(row); i += 4 {
			if row[i] == 0 {
				cleared++
			}
		}
	}
	return float64(cleared) / float64(total)
}
