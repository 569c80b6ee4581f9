package particle

import "image/color"

// Particle is a single decaying point owned by a Firework.
type Particle struct {
	X, Y     float64
	VX, VY   float64
	Radius   float64
	Color    color.NRGBA // inherited from the owning Firework, alpha ignored
	Age      int         // frames lived, never decreases
	Lifespan int         // frames until expiry
	Gravity  float64
}

// Update advances the particle by one frame.
// Position moves by the current velocity before gravity is applied.
func (p *Particle) Update() {
	p.X += p.VX
	p.Y += p.VY
	p.VY += p.Gravity
	p.Age++
}

// IsExpired reports whether the particle has reached its lifespan.
func (p *Particle) IsExpired() bool {
	return p.Age >= p.Lifespan
}

// Alpha 线性淡出：1 - age/lifespan，钳制到 [0, 1]
func (p *Particle) Alpha() float64 {
	if p.Lifespan <= 0 {
		return 0
	}
	a := 1 - float64(p.Age)/float64(p.Lifespan)
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}

// Render draws the particle as a filled disc faded by its age.
func (p *Particle) Render(c Canvas) {
	alpha := p.Alpha()
	if alpha <= 0 {
		return
	}
	col := p.Color
	col.A = uint8(alpha*255 + 0.5)
	c.FillCircle(p.X, p.Y, p.Radius, col)
}
