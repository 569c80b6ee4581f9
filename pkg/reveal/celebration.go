package reveal

import (
	"image/color"
	"log"
	"time"

	"github.com/decker502/dustreveal/internal/particle"
)

// beginCelebration 进入烟花阶段
// 遮罩层被清空后重新显示，第一帧立即绘制，墙钟计时器到期后结束
func (c *Controller) beginCelebration() {
	c.setPhase(PhaseCelebrating)

	c.surface.Clear()
	c.session.Opacity = 1
	c.presenter.SetOverlayOpacity(1)
	c.presenter.SetOverlayVisible(true)

	c.celebrationStart = c.clock.Now()
	c.timerID = c.scheduler.AfterFunc(c.cfg.Celebration.Duration(), c.finishCelebration)
	log.Printf("[Reveal] Celebration started, lasts %v", c.cfg.Celebration.Duration())

	c.celebrationFrame()
}

// celebrationFrame 烟花的单帧：拖尾、按概率生成、先更新后绘制、丢弃燃尽的烟花、绘制文字
func (c *Controller) celebrationFrame() {
	if c.closed || c.session.Phase != PhaseCelebrating {
		return
	}

	trail := color.NRGBA{A: uint8(c.cfg.Celebration.TrailAlpha*255 + 0.5)}
	c.surface.FillRect(trail)

	if c.rng.Float64() < c.cfg.Celebration.SpawnProbability {
		c.spawnFirework()
	}

	live := c.fireworks[:0]
	for _, f := range c.fireworks {
		f.Update()
		f.Render(c.surface)
		if !f.IsSpent() {
			live = append(live, f)
		}
	}
	// 清掉尾部残留引用
	for i := len(live); i < len(c.fireworks); i++ {
		c.fireworks[i] = nil
	}
	c.fireworks = live

	c.surface.DrawTextCentered(c.cfg.Celebration.Text, c.face, celebrationTextColor)

	c.frameID = c.scheduler.RequestFrame(c.celebrationFrame)
}

// spawnFirework 在视口上半部分随机位置生成烟花
func (c *Controller) spawnFirework() {
	x := c.rng.Float64() * float64(c.surface.Width())
	y := c.rng.Float64() * float64(c.surface.Height()) * 0.5
	c.fireworks = append(c.fireworks, particle.NewFirework(x, y, c.params, c.rng))
	if c.onFireworkSpawned != nil {
		c.onFireworkSpawned(x, y)
	}
}

// finishCelebration 计时器到期：停止帧循环、隐藏遮罩、完成
func (c *Controller) finishCelebration() {
	c.timerID = 0
	if c.closed || c.session.Phase != PhaseCelebrating {
		return
	}
	if c.frameID != 0 {
		c.scheduler.CancelFrame(c.frameID)
		c.frameID = 0
	}
	elapsed := c.clock.Now().Sub(c.celebrationStart)
	log.Printf("[Reveal] Celebration finished after %v, %d fireworks still live", elapsed, len(c.fireworks))

	c.fireworks = nil
	c.presenter.SetOverlayVisible(false)
	c.complete()
}

// FireworkCount 当前存活的烟花数
func (c *Controller) FireworkCount() int { return len(c.fireworks) }

// CelebrationStart 烟花阶段开始时间（未进入时为零值）
func (c *Controller) CelebrationStart() time.Time { return c.celebrationStart }
