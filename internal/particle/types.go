// Package particle implements the celebratory firework simulation:
// short-lived bursts of decaying particles advanced once per frame.
//
// All quantities are per-frame (not per-second): velocity is pixels/frame,
// gravity is added to the vertical velocity every frame, and ages and
// lifespans are counted in frames.
package particle

import "image/color"

// Canvas is the drawing target particles render onto.
type Canvas interface {
	// FillCircle draws a filled disc blended source-over.
	FillCircle(x, y, r float64, c color.NRGBA)
}

// Rand is the random source used when spawning.
// *math/rand.Rand satisfies it; tests inject deterministic sequences.
type Rand interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
}

// Params controls how a Firework spawns its particles.
type Params struct {
	ParticleCount int     // particles per burst
	Gravity       float64 // added to VY every frame
	MinSpeed      float64 // [MinSpeed, MaxSpeed)
	MaxSpeed      float64
	MinLifespan   int // [MinLifespan, MaxLifespan) frames
	MaxLifespan   int
	MinRadius     float64 // [MinRadius, MaxRadius)
	MaxRadius     float64
}

// DefaultParams 返回默认烟花参数：30 个粒子，速度 2~7，寿命 30~60 帧
func DefaultParams() Params {
	return Params{
		ParticleCount: 30,
		Gravity:       0.02,
		MinSpeed:      2,
		MaxSpeed:      7,
		MinLifespan:   30,
		MaxLifespan:   60,
		MinRadius:     1,
		MaxRadius:     3,
	}
}

// between returns a value in [lo, hi).
func between(rng Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
