package game

import (
	"log"
	"sort"
	"time"
)

// FrameID RequestFrame 返回的句柄
type FrameID uint64

// TimerID AfterFunc 返回的句柄
type TimerID uint64

type frameRequest struct {
	id FrameID
	fn func()
}

type timer struct {
	id       TimerID
	deadline time.Time
	fn       func()
}

// FrameScheduler 协作式帧调度器
//
// 宿主循环（ebiten 的 Update）每帧调用一次 Tick：
//   - 先触发所有到期的定时器（按截止时间顺序）
//   - 再执行本帧之前请求的帧回调；回调内再次请求的帧在下一次 Tick 执行
//
// 所有回调都在调用 Tick 的 goroutine 上同步执行，不需要加锁。
// Stop 之后不会再有任何回调被执行。
type FrameScheduler struct {
	clock   Clock
	nextID  uint64
	frames  []frameRequest
	timers  []timer
	stopped bool

	running   []frameRequest // 当前 Tick 正在执行的批次
	cancelled map[FrameID]struct{}
}

// NewFrameScheduler 创建帧调度器
func NewFrameScheduler(clock Clock) *FrameScheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &FrameScheduler{clock: clock}
}

// RequestFrame 请求在下一次 Tick 执行 fn
// 调度器已停止时返回 0 且 fn 永远不会执行
func (s *FrameScheduler) RequestFrame(fn func()) FrameID {
	if s.stopped || fn == nil {
		return 0
	}
	s.nextID++
	id := FrameID(s.nextID)
	s.frames = append(s.frames, frameRequest{id: id, fn: fn})
	return id
}

// CancelFrame 取消尚未执行的帧请求
// 在 Tick 执行回调期间取消同一批次中的请求同样有效
func (s *FrameScheduler) CancelFrame(id FrameID) {
	for i, f := range s.frames {
		if f.id == id {
			s.frames = append(s.frames[:i], s.frames[i+1:]...)
			return
		}
	}
	for _, f := range s.running {
		if f.id == id {
			if s.cancelled == nil {
				s.cancelled = make(map[FrameID]struct{})
			}
			s.cancelled[id] = struct{}{}
			return
		}
	}
}

// AfterFunc 在墙钟经过 d 之后的第一次 Tick 执行 fn
func (s *FrameScheduler) AfterFunc(d time.Duration, fn func()) TimerID {
	if s.stopped || fn == nil {
		return 0
	}
	s.nextID++
	id := TimerID(s.nextID)
	s.timers = append(s.timers, timer{id: id, deadline: s.clock.Now().Add(d), fn: fn})
	return id
}

// CancelTimer 取消尚未触发的定时器
func (s *FrameScheduler) CancelTimer(id TimerID) {
	for i, t := range s.timers {
		if t.id == id {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return
		}
	}
}

// Tick 推进一帧
func (s *FrameScheduler) Tick() {
	if s.stopped {
		return
	}
	now := s.clock.Now()

	s.fireTimers(now)

	// 只执行本帧开始前已登记的请求
	s.running = s.frames
	s.frames = nil
	for _, f := range s.running {
		if s.stopped {
			break
		}
		if _, ok := s.cancelled[f.id]; ok {
			continue
		}
		f.fn()
	}
	s.running = nil
	s.cancelled = nil
}

func (s *FrameScheduler) fireTimers(now time.Time) {
	if len(s.timers) == 0 {
		return
	}
	sort.SliceStable(s.timers, func(i, j int) bool {
		return s.timers[i].deadline.Before(s.timers[j].deadline)
	})

	for len(s.timers) > 0 && !s.stopped {
		t := s.timers[0]
		if now.Before(t.deadline) {
			return
		}
		s.timers = s.timers[1:]
		t.fn()
	}
}

// Stop 取消所有帧请求和定时器，之后的请求全部忽略
func (s *FrameScheduler) Stop() {
	if s.stopped {
		return
	}
	pending := len(s.frames) + len(s.timers)
	s.frames = nil
	s.running = nil
	s.timers = nil
	s.stopped = true
	log.Printf("[Scheduler] Stopped, %d pending callbacks dropped", pending)
}

// Stopped 是否已停止
func (s *FrameScheduler) Stopped() bool { return s.stopped }

// Pending 未执行的帧请求和定时器总数
func (s *FrameScheduler) Pending() int {
	return len(s.frames) + len(s.timers)
}
