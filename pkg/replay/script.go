// Package replay 以无头方式回放手势脚本
//
// 脚本描述视口、日期和若干笔画，回放时使用手动时钟和固定种子的随机源驱动揭开控制器，
// 因此同一个脚本每次得到相同的结果。
package replay

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Point 笔画上的一个点（视口坐标）
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Stroke 一次按下到抬起的拖动
type Stroke struct {
	Points []Point `yaml:"points"`

	// HoldFrames 抬起前额外停留的帧数
	HoldFrames int `yaml:"holdFrames"`
}

// Resize 在指定帧改变视口尺寸
type Resize struct {
	Frame  int `yaml:"frame"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Script 手势脚本
type Script struct {
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Start   string `yaml:"start"` // RFC3339，为空时使用 2025-01-01T12:00:00+08:00
	Seed    int64  `yaml:"seed"`
	FrameMS int    `yaml:"frameMs"` // 每帧的墙钟毫秒数

	// MaxFrames 笔画结束后最多继续运行的帧数
	MaxFrames        int      `yaml:"maxFrames"`
	ForceCelebration bool     `yaml:"forceCelebration"`
	Strokes          []Stroke `yaml:"strokes"`
	Resizes          []Resize `yaml:"resizes"`

	startTime time.Time
}

const defaultStart = "2025-01-01T12:00:00+08:00"

// LoadScript 从磁盘加载脚本
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read replay script %s: %w", path, err)
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseScript 解析 YAML 脚本并填充默认值
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse replay script YAML: %w", err)
	}

	if s.Start == "" {
		s.Start = defaultStart
	}
	start, err := time.Parse(time.RFC3339, s.Start)
	if err != nil {
		return nil, fmt.Errorf("invalid start time %q: %w", s.Start, err)
	}
	s.startTime = start

	if s.FrameMS == 0 {
		s.FrameMS = 16
	}
	if s.MaxFrames == 0 {
		s.MaxFrames = 1000
	}
	if s.Seed == 0 {
		s.Seed = 1
	}

	if s.Width < 0 || s.Height < 0 {
		return nil, fmt.Errorf("viewport cannot be negative: %dx%d", s.Width, s.Height)
	}
	if s.FrameMS < 0 || s.MaxFrames < 0 {
		return nil, fmt.Errorf("frameMs and maxFrames cannot be negative")
	}
	for i, st := range s.Strokes {
		if len(st.Points) == 0 {
			return nil, fmt.Errorf("stroke %d has no points", i)
		}
	}
	return &s, nil
}

// StartTime 回放起始时间
func (s *Script) StartTime() time.Time { return s.startTime }

// FrameInterval 每帧推进的时长
func (s *Script) FrameInterval() time.Duration {
	return time.Duration(s.FrameMS) * time.Millisecond
}
