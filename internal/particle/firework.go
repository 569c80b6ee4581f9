package particle

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Firework is an origin-centered burst that exclusively owns its particles.
// The particle collection only shrinks; a Firework with no particles is spent.
type Firework struct {
	X, Y      float64
	Color     color.NRGBA
	particles []Particle
}

// NewFirework spawns a burst at (x, y).
// Every particle gets a uniformly random direction and speed and shares
// one randomly chosen fully saturated hue.
func NewFirework(x, y float64, params Params, rng Rand) *Firework {
	f := &Firework{
		X:     x,
		Y:     y,
		Color: hueColor(rng.Float64() * 360),
	}

	f.particles = make([]Particle, 0, params.ParticleCount)
	for i := 0; i < params.ParticleCount; i++ {
		angle := rng.Float64() * 2 * math.Pi
		speed := between(rng, params.MinSpeed, params.MaxSpeed)
		f.particles = append(f.particles, Particle{
			X:        x,
			Y:        y,
			VX:       math.Cos(angle) * speed,
			VY:       math.Sin(angle) * speed,
			Radius:   between(rng, params.MinRadius, params.MaxRadius),
			Color:    f.Color,
			Lifespan: params.MinLifespan + int(rng.Float64()*float64(params.MaxLifespan-params.MinLifespan)),
			Gravity:  params.Gravity,
		})
	}
	return f
}

// hueColor 等价于 hsl(h, 100%, 50%)
func hueColor(h float64) color.NRGBA {
	r, g, b := colorful.Hsl(h, 1, 0.5).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// Update advances every particle one frame, then drops the expired ones.
// Survivors are compacted into the same backing array.
func (f *Firework) Update() {
	for i := range f.particles {
		f.particles[i].Update()
	}

	alive := f.particles[:0]
	for _, p := range f.particles {
		if !p.IsExpired() {
			alive = append(alive, p)
		}
	}
	f.particles = alive
}

// Render draws every remaining particle.
func (f *Firework) Render(c Canvas) {
	for i := range f.particles {
		f.particles[i].Render(c)
	}
}

// IsSpent reports whether every particle has expired.
func (f *Firework) IsSpent() bool {
	return len(f.particles) == 0
}

// Len 返回存活粒子数
func (f *Firework) Len() int {
	return len(f.particles)
}

// Particles returns a copy of the live particles.
func (f *Firework) Particles() []Particle {
	out := make([]Particle, len(f.particles))
	copy(out, f.particles)
	return out
}
