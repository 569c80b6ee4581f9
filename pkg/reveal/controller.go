// Package reveal 实现刮开遮罩的状态机
//
// Controller 负责笔画计数、阈值判定、淡出动画、纪念日烟花以及最终的完成通知。
// 所有方法都必须在同一个 goroutine（宿主的帧循环）上调用。
package reveal

import (
	"errors"
	"image/color"
	"log"
	"math/rand"
	"time"

	"golang.org/x/image/font"

	"github.com/decker502/dustreveal/internal/particle"
	"github.com/decker502/dustreveal/pkg/config"
	"github.com/decker502/dustreveal/pkg/game"
	"github.com/decker502/dustreveal/pkg/mask"
)

// ErrSurfaceUnavailable 无法获得绘制表面，遮罩不应挂载
var ErrSurfaceUnavailable = errors.New("reveal: drawing surface unavailable")

// ErrSchedulerRequired 未提供帧调度器
var ErrSchedulerRequired = errors.New("reveal: frame scheduler required")

// opacityEpsilon 以下的透明度视为 0，吸收浮点累积误差
const opacityEpsilon = 1e-9

// Scheduler 控制器依赖的帧调度能力
type Scheduler interface {
	RequestFrame(fn func()) game.FrameID
	CancelFrame(id game.FrameID)
	AfterFunc(d time.Duration, fn func()) game.TimerID
	CancelTimer(id game.TimerID)
}

// Presenter 遮罩呈现层能力（由宿主实现）
// 控制器从不直接操作宿主界面，只通过该接口设置显隐和透明度
type Presenter interface {
	SetOverlayVisible(visible bool)
	SetOverlayOpacity(opacity float64)
}

type nopPresenter struct{}

func (nopPresenter) SetOverlayVisible(bool)    {}
func (nopPresenter) SetOverlayOpacity(float64) {}

// Options 控制器构造参数
type Options struct {
	Config    *config.OverlayConfig // nil 时使用默认配置
	Clock     game.Clock            // nil 时使用系统时钟
	Rand      particle.Rand         // nil 时使用以当前时间为种子的随机源
	Scheduler Scheduler             // 必填
	Presenter Presenter             // nil 时忽略呈现调用
	Face      font.Face             // 烟花文字字体，nil 时不绘制文字

	// OnComplete 进入 Completed 时调用，且只调用一次
	OnComplete func()
	// OnPhaseChange 每次阶段转换后调用（可选）
	OnPhaseChange func(from, to Phase)
	// OnFireworkSpawned 每生成一个烟花调用（可选，用于音效）
	OnFireworkSpawned func(x, y float64)

	// ForceCelebration 无论日期都进入烟花阶段（调试用）
	ForceCelebration bool
}

// Controller 揭开状态机
type Controller struct {
	cfg       *config.OverlayConfig
	surface   *mask.Surface
	clock     game.Clock
	rng       particle.Rand
	scheduler Scheduler
	presenter Presenter
	face      font.Face
	params    particle.Params

	onComplete        func()
	onPhaseChange     func(from, to Phase)
	onFireworkSpawned func(x, y float64)
	forceCelebration  bool

	session Session

	fadeFrames int
	frameID    game.FrameID
	timerID    game.TimerID

	fireworks        []*particle.Firework
	celebrationStart time.Time

	completed bool
	closed    bool
}

// NewController 创建揭开控制器
//
// surface 为 nil 表示宿主无法提供绘制表面，返回 ErrSurfaceUnavailable；
// 调用方应放弃挂载遮罩，并且永远不会收到完成通知。
func NewController(surface *mask.Surface, opts Options) (*Controller, error) {
	if surface == nil {
		return nil, ErrSurfaceUnavailable
	}
	if opts.Scheduler == nil {
		return nil, ErrSchedulerRequired
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultOverlayConfig()
	}
	clock := opts.Clock
	if clock == nil {
		clock = game.SystemClock{}
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	presenter := opts.Presenter
	if presenter == nil {
		presenter = nopPresenter{}
	}

	c := &Controller{
		cfg:               cfg,
		surface:           surface,
		clock:             clock,
		rng:               rng,
		scheduler:         opts.Scheduler,
		presenter:         presenter,
		face:              opts.Face,
		params:            paramsFromConfig(cfg.Firework),
		onComplete:        opts.OnComplete,
		onPhaseChange:     opts.OnPhaseChange,
		onFireworkSpawned: opts.OnFireworkSpawned,
		forceCelebration:  opts.ForceCelebration,
		session: Session{
			Phase:   PhaseMasked,
			Opacity: 1,
		},
	}

	presenter.SetOverlayOpacity(1)
	presenter.SetOverlayVisible(true)
	return c, nil
}

func paramsFromConfig(f config.FireworkConfig) particle.Params {
	return particle.Params{
		ParticleCount: f.ParticleCount,
		Gravity:       f.Gravity,
		MinSpeed:      f.MinSpeed,
		MaxSpeed:      f.MaxSpeed,
		MinLifespan:   f.MinLifespan,
		MaxLifespan:   f.MaxLifespan,
		MinRadius:     f.MinRadius,
		MaxRadius:     f.MaxRadius,
	}
}

// Session 返回当前状态副本
func (c *Controller) Session() Session { return c.session }

// Phase 当前阶段
func (c *Controller) Phase() Phase { return c.session.Phase }

// Surface 返回遮罩层
func (c *Controller) Surface() *mask.Surface { return c.surface }

// TouchStart 主触点按下：笔画数加一并打开擦除路径
// 已有打开的笔画时（第二个触点）忽略
func (c *Controller) TouchStart(x, y float64) {
	if !c.acceptsInput() || c.surface.Stroking() {
		return
	}
	c.session.StrokeCount++
	if err := c.surface.BeginStroke(mask.Point{X: x, Y: y}); err != nil {
		log.Printf("[Reveal] BeginStroke failed: %v", err)
	}
}

// TouchMove 主触点移动：延长当前笔画
func (c *Controller) TouchMove(x, y float64) {
	if !c.acceptsInput() || !c.surface.Stroking() {
		return
	}
	if err := c.surface.ExtendStroke(mask.Point{X: x, Y: y}); err != nil {
		log.Printf("[Reveal] ExtendStroke failed: %v", err)
	}
}

// TouchEnd 主触点抬起：关闭笔画，重新估算清除面积并判定是否揭开
func (c *Controller) TouchEnd() {
	if !c.acceptsInput() || !c.surface.Stroking() {
		return
	}
	if err := c.surface.EndStroke(); err != nil {
		log.Printf("[Reveal] EndStroke failed: %v", err)
		return
	}

	c.session.ClearedFraction = mask.Estimate(c.surface)
	log.Printf("[Reveal] Stroke %d ended, cleared %.1f%%", c.session.StrokeCount, c.session.ClearedFraction*100)

	if c.thresholdReached() {
		c.beginFadeOut()
	}
}

func (c *Controller) acceptsInput() bool {
	return !c.closed && c.session.Phase == PhaseMasked
}

// thresholdReached 笔画数与清除占比任一达到阈值即可揭开
func (c *Controller) thresholdReached() bool {
	return c.session.StrokeCount >= c.cfg.Reveal.MaxStrokes ||
		c.session.ClearedFraction >= c.cfg.Reveal.ClearThreshold
}

// Resize 视口尺寸变化
//
// Masked 阶段重新铺满遮罩，已擦除的区域丢失但笔画计数保留；
// 若正有笔画进行中，则在新遮罩上从最后一个点继续。
func (c *Controller) Resize(width, height int) {
	if c.closed {
		return
	}
	switch c.session.Phase {
	case PhaseMasked:
		stroking := c.surface.Stroking()
		last := c.surface.LastPoint()
		c.surface.Resize(width, height)
		if stroking {
			if err := c.surface.BeginStroke(last); err != nil {
				log.Printf("[Reveal] Resume stroke after resize failed: %v", err)
			}
		}
	case PhaseFadingOut:
		c.surface.Resize(width, height)
	case PhaseCelebrating:
		c.surface.ResizeTransparent(width, height)
	}
}

func (c *Controller) setPhase(to Phase) {
	from := c.session.Phase
	if from == to {
		return
	}
	c.session.Phase = to
	log.Printf("[Reveal] Phase %s -> %s", from, to)
	if c.onPhaseChange != nil {
		c.onPhaseChange(from, to)
	}
}

// beginFadeOut 进入淡出阶段，从下一帧开始递减透明度
func (c *Controller) beginFadeOut() {
	c.setPhase(PhaseFadingOut)
	c.session.Opacity = 1
	c.fadeFrames = 0
	c.frameID = c.scheduler.RequestFrame(c.fadeFrame)
}

// fadeFrame 淡出的单帧：透明度按固定步长递减，到 0 后隐藏遮罩并判定日期
func (c *Controller) fadeFrame() {
	if c.closed || c.session.Phase != PhaseFadingOut {
		return
	}

	c.fadeFrames++
	opacity := 1 - float64(c.fadeFrames)*c.cfg.Reveal.FadeStep
	if opacity < opacityEpsilon {
		opacity = 0
	}
	c.session.Opacity = opacity
	c.presenter.SetOverlayOpacity(opacity)

	if opacity > 0 {
		c.frameID = c.scheduler.RequestFrame(c.fadeFrame)
		return
	}

	c.frameID = 0
	c.presenter.SetOverlayVisible(false)

	if c.isCelebrationDay() {
		c.beginCelebration()
		return
	}
	c.complete()
}

func (c *Controller) isCelebrationDay() bool {
	return c.forceCelebration || c.cfg.Celebration.IsCelebrationDate(c.clock.Now())
}

// complete 进入终止阶段并触发完成回调（只触发一次）
func (c *Controller) complete() {
	if c.completed {
		return
	}
	c.completed = true
	c.cancelPending()
	c.setPhase(PhaseCompleted)
	if c.onComplete != nil {
		c.onComplete()
	}
}

func (c *Controller) cancelPending() {
	if c.frameID != 0 {
		c.scheduler.CancelFrame(c.frameID)
		c.frameID = 0
	}
	if c.timerID != 0 {
		c.scheduler.CancelTimer(c.timerID)
		c.timerID = 0
	}
}

// Close 卸载时调用：取消所有挂起的帧和定时器，不触发完成回调
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.cancelPending()
	c.fireworks = nil
}

// Completed 是否已经触发完成回调
func (c *Controller) Completed() bool { return c.completed }

var celebrationTextColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
