package config

import (
	"fmt"
	"image/color"
	"os"
	"time"
	_ "time/tzdata" // 移动端没有系统时区数据库

	"gopkg.in/yaml.v3"
)

// RGBA 配置文件中的颜色（非预乘，0-255）
type RGBA struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
	A uint8 `yaml:"a"`
}

// NRGBA 转换为 color.NRGBA
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// MaskConfig 灰尘遮罩层配置
type MaskConfig struct {
	Color       RGBA    `yaml:"color"`       // 遮罩颜色，默认 rgba(150,150,150,0.8)
	StrokeWidth float64 `yaml:"strokeWidth"` // 擦除笔触宽度（像素）
}

// RevealConfig 揭开判定与淡出配置
type RevealConfig struct {
	MaxStrokes     int     `yaml:"maxStrokes"`     // 达到该笔画数即揭开
	ClearThreshold float64 `yaml:"clearThreshold"` // 清除面积占比阈值 (0, 1]
	FadeStep       float64 `yaml:"fadeStep"`       // 每帧透明度递减量
}

// CelebrationConfig 纪念日烟花配置
type CelebrationConfig struct {
	Month            int     `yaml:"month"`            // 1-12
	Day              int     `yaml:"day"`              // 1-31
	TimeZone         string  `yaml:"timeZone"`         // IANA 时区名
	UTCOffsetHours   float64 `yaml:"utcOffsetHours"`   // 时区加载失败时使用的固定偏移
	DurationSeconds  float64 `yaml:"durationSeconds"`  // 烟花持续时间（墙钟秒）
	SpawnProbability float64 `yaml:"spawnProbability"` // 每帧生成新烟花的概率
	TrailAlpha       float64 `yaml:"trailAlpha"`       // 每帧覆盖的黑色拖尾透明度
	Text             string  `yaml:"text"`             // 居中显示的文字
	FontPath         string  `yaml:"fontPath"`         // 可选 TTF 字体路径，为空时使用内置字体
	FontSize         float64 `yaml:"fontSize"`
}

// FireworkConfig 单个烟花的粒子参数
type FireworkConfig struct {
	ParticleCount int     `yaml:"particleCount"`
	Gravity       float64 `yaml:"gravity"`     // 每帧加到垂直速度上的值
	MinSpeed      float64 `yaml:"minSpeed"`    // 像素/帧
	MaxSpeed      float64 `yaml:"maxSpeed"`    // 像素/帧（不含）
	MinLifespan   int     `yaml:"minLifespan"` // 帧
	MaxLifespan   int     `yaml:"maxLifespan"` // 帧（不含）
	MinRadius     float64 `yaml:"minRadius"`
	MaxRadius     float64 `yaml:"maxRadius"`
}

// SoundConfig 烟花音效配置
type SoundConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // 0.0 ~ 1.0
}

// OverlayConfig 刮开遮罩的完整配置
type OverlayConfig struct {
	Mask        MaskConfig        `yaml:"mask"`
	Reveal      RevealConfig      `yaml:"reveal"`
	Celebration CelebrationConfig `yaml:"celebration"`
	Firework    FireworkConfig    `yaml:"firework"`
	Sound       SoundConfig       `yaml:"sound"`
}

// DefaultOverlayConfig 返回默认配置
func DefaultOverlayConfig() *OverlayConfig {
	cfg := &OverlayConfig{
		Sound: SoundConfig{Enabled: true, Volume: 0.6},
	}
	applyOverlayDefaults(cfg)
	return cfg
}

// LoadOverlayConfig 从磁盘加载遮罩配置
func LoadOverlayConfig(path string) (*OverlayConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read overlay config file %s: %w", path, err)
	}

	cfg, err := ParseOverlayConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseOverlayConfig 解析 YAML 数据（嵌入资源走这里）
func ParseOverlayConfig(data []byte) (*OverlayConfig, error) {
	var cfg OverlayConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse overlay config YAML: %w", err)
	}

	applyOverlayDefaults(&cfg)

	if err := validateOverlayConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid overlay config: %w", err)
	}
	return &cfg, nil
}

// applyOverlayDefaults 为缺失字段填充默认值
func applyOverlayDefaults(cfg *OverlayConfig) {
	if cfg.Mask.Color == (RGBA{}) {
		cfg.Mask.Color = RGBA{R: 150, G: 150, B: 150, A: 204}
	}
	if cfg.Mask.StrokeWidth == 0 {
		cfg.Mask.StrokeWidth = 40
	}

	if cfg.Reveal.MaxStrokes == 0 {
		cfg.Reveal.MaxStrokes = 3
	}
	if cfg.Reveal.ClearThreshold == 0 {
		cfg.Reveal.ClearThreshold = 0.3
	}
	if cfg.Reveal.FadeStep == 0 {
		cfg.Reveal.FadeStep = 0.05
	}

	c := &cfg.Celebration
	if c.Month == 0 && c.Day == 0 {
		c.Month, c.Day = 7, 21
	}
	if c.TimeZone == "" && c.UTCOffsetHours == 0 {
		c.TimeZone = "Asia/Shanghai"
		c.UTCOffsetHours = 8
	}
	if c.DurationSeconds == 0 {
		c.DurationSeconds = 5
	}
	if c.SpawnProbability == 0 {
		c.SpawnProbability = 0.1
	}
	if c.TrailAlpha == 0 {
		c.TrailAlpha = 0.1
	}
	// 默认文字必须能用内置 Go Bold 绘制
	if c.Text == "" {
		c.Text = "Happy Birthday!"
	}
	if c.FontSize == 0 {
		c.FontSize = 48
	}

	f := &cfg.Firework
	if f.ParticleCount == 0 {
		f.ParticleCount = 30
	}
	if f.Gravity == 0 {
		f.Gravity = 0.02
	}
	if f.MinSpeed == 0 && f.MaxSpeed == 0 {
		f.MinSpeed, f.MaxSpeed = 2, 7
	}
	if f.MinLifespan == 0 && f.MaxLifespan == 0 {
		f.MinLifespan, f.MaxLifespan = 30, 60
	}
	if f.MinRadius == 0 && f.MaxRadius == 0 {
		f.MinRadius, f.MaxRadius = 1, 3
	}
}

// validateOverlayConfig 校验取值范围
func validateOverlayConfig(cfg *OverlayConfig) error {
	if cfg.Mask.StrokeWidth < 0 {
		return fmt.Errorf("mask.strokeWidth cannot be negative")
	}
	if cfg.Reveal.MaxStrokes < 0 {
		return fmt.Errorf("reveal.maxStrokes cannot be negative")
	}
	if cfg.Reveal.ClearThreshold < 0 || cfg.Reveal.ClearThreshold > 1 {
		return fmt.Errorf("reveal.clearThreshold must be within [0, 1], got %v", cfg.Reveal.ClearThreshold)
	}
	if cfg.Reveal.FadeStep <= 0 || cfg.Reveal.FadeStep > 1 {
		return fmt.Errorf("reveal.fadeStep must be within (0, 1], got %v", cfg.Reveal.FadeStep)
	}

	c := cfg.Celebration
	if c.Month < 1 || c.Month > 12 {
		return fmt.Errorf("celebration.month must be within [1, 12], got %d", c.Month)
	}
	if c.Day < 1 || c.Day > 31 {
		return fmt.Errorf("celebration.day must be within [1, 31], got %d", c.Day)
	}
	if c.DurationSeconds < 0 {
		return fmt.Errorf("celebration.durationSeconds cannot be negative")
	}
	if c.SpawnProbability < 0 || c.SpawnProbability > 1 {
		return fmt.Errorf("celebration.spawnProbability must be within [0, 1], got %v", c.SpawnProbability)
	}
	if c.TrailAlpha < 0 || c.TrailAlpha > 1 {
		return fmt.Errorf("celebration.trailAlpha must be within [0, 1], got %v", c.TrailAlpha)
	}
	if c.FontSize < 0 {
		return fmt.Errorf("celebration.fontSize cannot be negative")
	}

	f := cfg.Firework
	if f.ParticleCount < 0 {
		return fmt.Errorf("firework.particleCount cannot be negative")
	}
	if f.MaxSpeed < f.MinSpeed {
		return fmt.Errorf("firework speed range is inverted: [%v, %v)", f.MinSpeed, f.MaxSpeed)
	}
	if f.MinLifespan <= 0 || f.MaxLifespan < f.MinLifespan {
		return fmt.Errorf("firework lifespan range is invalid: [%d, %d)", f.MinLifespan, f.MaxLifespan)
	}
	if f.MinRadius < 0 || f.MaxRadius < f.MinRadius {
		return fmt.Errorf("firework radius range is invalid: [%v, %v)", f.MinRadius, f.MaxRadius)
	}

	if cfg.Sound.Volume < 0 || cfg.Sound.Volume > 1 {
		return fmt.Errorf("sound.volume must be within [0, 1], got %v", cfg.Sound.Volume)
	}
	return nil
}

// Location 返回判定纪念日所用的时区
// 时区名无法加载时退回固定偏移
func (c CelebrationConfig) Location() *time.Location {
	if c.TimeZone != "" {
		if loc, err := time.LoadLocation(c.TimeZone); err == nil {
			return loc
		}
	}
	offset := int(c.UTCOffsetHours * 3600)
	return time.FixedZone(fmt.Sprintf("UTC%+g", c.UTCOffsetHours), offset)
}

// Duration 烟花阶段的墙钟时长
func (c CelebrationConfig) Duration() time.Duration {
	return time.Duration(c.DurationSeconds * float64(time.Second))
}

// IsCelebrationDate 判断 t 在参考时区下是否为纪念日
func (c CelebrationConfig) IsCelebrationDate(t time.Time) bool {
	local := t.In(c.Location())
	return int(local.Month()) == c.Month && local.Day() == c.Day
}
