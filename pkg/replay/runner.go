package replay

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/font"

	"github.com/decker502/dustreveal/pkg/config"
	"github.com/decker502/dustreveal/pkg/game"
	"github.com/decker502/dustreveal/pkg/mask"
	"github.com/decker502/dustreveal/pkg/reveal"
)

// Options 回放参数
type Options struct {
	Config *config.OverlayConfig // nil 时使用默认配置
	Face   font.Face
	// FrameDir 非空时把遮罩帧导出为 PNG
	FrameDir string
	// FrameEvery 每隔多少帧导出一次（默认 1）
	FrameEvery int
}

// Transition 一次阶段转换及其发生时间（相对起点）
type Transition struct {
	From, To reveal.Phase
	Frame    int
	Elapsed  time.Duration
}

// Result 回放结果
type Result struct {
	Strokes         int
	ClearedFraction float64
	Phase           reveal.Phase
	Completed       bool
	Frames          int
	Elapsed         time.Duration // 完成时刻（未完成时为回放总时长）
	Transitions     []Transition
	Fireworks       int // 生成的烟花总数
	PeakFireworks   int // 同时存活烟花数的峰值
	FramesWritten   int
}

// presenter 记录最后一次呈现状态
type presenter struct {
	visible bool
	opacity float64
}

func (p *presenter) SetOverlayVisible(v bool)    { p.visible = v }
func (p *presenter) SetOverlayOpacity(o float64) { p.opacity = o }

type runner struct {
	script     *Script
	opts       Options
	clock      *game.ManualClock
	scheduler  *game.FrameScheduler
	controller *reveal.Controller
	result     *Result
	frame      int
}

// Run 回放脚本
func Run(script *Script, opts Options) (*Result, error) {
	if script == nil {
		return nil, fmt.Errorf("replay: nil script")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultOverlayConfig()
	}
	if opts.FrameEvery <= 0 {
		opts.FrameEvery = 1
	}
	if opts.FrameDir != "" {
		if err := os.MkdirAll(opts.FrameDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create frame dir: %w", err)
		}
	}

	r := &runner{
		script: script,
		opts:   opts,
		clock:  game.NewManualClock(script.StartTime()),
		result: &Result{},
	}
	r.scheduler = game.NewFrameScheduler(r.clock)
	defer r.scheduler.Stop()

	surface := mask.NewSurface(script.Width, script.Height, cfg.Mask.Color.NRGBA(), cfg.Mask.StrokeWidth)
	controller, err := reveal.NewController(surface, reveal.Options{
		Config:    cfg,
		Clock:     r.clock,
		Rand:      rand.New(rand.NewSource(script.Seed)),
		Scheduler: r.scheduler,
		Presenter: &presenter{},
		Face:      opts.Face,
		OnComplete: func() {
			r.result.Completed = true
			r.result.Elapsed = r.clock.Now().Sub(script.StartTime())
		},
		OnPhaseChange: func(from, to reveal.Phase) {
			r.result.Transitions = append(r.result.Transitions, Transition{
				From:    from,
				To:      to,
				Frame:   r.frame,
				Elapsed: r.clock.Now().Sub(script.StartTime()),
			})
		},
		OnFireworkSpawned: func(x, y float64) { r.result.Fireworks++ },
		ForceCelebration:  script.ForceCelebration,
	})
	if err != nil {
		return nil, err
	}
	r.controller = controller

	for _, st := range script.Strokes {
		if err := r.playStroke(st); err != nil {
			return nil, err
		}
	}
	for i := 0; i < script.MaxFrames && !r.result.Completed; i++ {
		if err := r.step(); err != nil {
			return nil, err
		}
	}

	session := controller.Session()
	r.result.Strokes = session.StrokeCount
	r.result.ClearedFraction = session.ClearedFraction
	r.result.Phase = session.Phase
	r.result.Frames = r.frame
	if !r.result.Completed {
		r.result.Elapsed = r.clock.Now().Sub(script.StartTime())
	}
	log.Printf("[Replay] %d frames, phase=%s, completed=%v", r.frame, session.Phase, r.result.Completed)
	return r.result, nil
}

func (r *runner) playStroke(st Stroke) error {
	first := st.Points[0]
	r.controller.TouchStart(first.X, first.Y)
	if err := r.step(); err != nil {
		return err
	}
	for _, p := range st.Points[1:] {
		r.controller.TouchMove(p.X, p.Y)
		if err := r.step(); err != nil {
			return err
		}
	}
	for i := 0; i < st.HoldFrames; i++ {
		if err := r.step(); err != nil {
			return err
		}
	}
	r.controller.TouchEnd()
	return r.step()
}

// step 推进一帧：处理到期的尺寸变化，驱动调度器，按需导出 PNG
func (r *runner) step() error {
	r.frame++
	r.clock.Advance(r.script.FrameInterval())

	for _, rs := range r.script.Resizes {
		if rs.Frame == r.frame {
			r.controller.Resize(rs.Width, rs.Height)
		}
	}

	r.scheduler.Tick()

	if n := r.controller.FireworkCount(); n > r.result.PeakFireworks {
		r.result.PeakFireworks = n
	}

	if r.opts.FrameDir != "" && r.frame%r.opts.FrameEvery == 0 {
		surface := r.controller.Surface()
		if surface.Width() == 0 || surface.Height() == 0 {
			return nil
		}
		path := filepath.Join(r.opts.FrameDir, fmt.Sprintf("frame_%05d.png", r.frame))
		if err := surface.SavePNG(path); err != nil {
			return fmt.Errorf("failed to write frame %d: %w", r.frame, err)
		}
		r.result.FramesWritten++
	}
	return nil
}
