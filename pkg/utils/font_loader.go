package utils

import (
	"fmt"
	"os"
	"unicode"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
)

// LoadFontFace 加载 TTF 字体
//
// path 为空时使用内置的 Go Bold 字体（不含中日韩字形，显示中文需要配置字体文件）。
//
// 参数：
//   - path: TTF 文件路径，可为空
//   - size: 字号（点，72 DPI 下等于像素）
func LoadFontFace(path string, size float64) (font.Face, error) {
	data := gobold.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file %s: %w", path, err)
		}
		data = b
	}
	return ParseFontFace(data, size)
}

// MissingGlyphs 返回 text 中字体没有字形的字符（空白除外，按出现顺序去重）
//
// path 为空时检查内置的 Go Bold 字体。
func MissingGlyphs(path, text string) ([]rune, error) {
	data := gobold.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file %s: %w", path, err)
		}
		data = b
	}
	ttf, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	var missing []rune
	seen := make(map[rune]bool)
	for _, r := range text {
		if unicode.IsSpace(r) || seen[r] {
			continue
		}
		seen[r] = true
		if ttf.Index(r) == 0 {
			missing = append(missing, r)
		}
	}
	return missing, nil
}

// ParseFontFace 从 TTF 数据创建字体
func ParseFontFace(data []byte, size float64) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid font size %v", size)
	}
	ttf, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
