package game

import "time"

// Clock 时间来源
// 纪念日判定和烟花计时都通过 Clock 读取当前时间，测试可注入 ManualClock
type Clock interface {
	Now() time.Time
}

// SystemClock 系统墙钟
type SystemClock struct{}

// Now 返回当前系统时间
func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock 手动推进的时钟（测试和回放工具使用）
type ManualClock struct {
	now time.Time
}

// NewManualClock 创建从 start 开始的手动时钟
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now 返回当前设定时间
func (c *ManualClock) Now() time.Time { return c.now }

// Advance 向前推进 d
func (c *ManualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// Set 直接设定时间
func (c *ManualClock) Set(t time.Time) { c.now = t }
