package field

import "math"

// particle is one mote orbiting the field center. Particles never die
// permanently: a drained or escaped particle respawns near the center.
type particle struct {
	x, y    float64
	vx, vy  float64
	life    float64
	maxLife float64
	size    float64
}

const (
	particleLifeMin = 4.0
	particleLifeMax = 12.0
	particleSizeMin = 1.0
	particleSizeMax = 3.5
	respawnRadius   = 24.0
	lifeFloor       = 0.05
)

// updateParticles integrates the vortex: centripetal pull toward the
// center, tangential twist with a slow breathing modulation, a noise
// turbulence term so idle motion never looks periodic, and the decaying
// player impulse. Caller holds the lock.
func (v *Visualizer) updateParticles(dt float64) {
	cx, cy := v.cfg.Width/2, v.cfg.Height/2
	breath := 1 + v.cfg.BreathAmplitude*math.Sin(v.time*2*math.Pi*v.cfg.BreathFrequency)

	for i := range v.particles {
		p := &v.particles[i]

		ox, oy := p.x-cx, p.y-cy
		r := math.Hypot(ox, oy)
		if r < 1e-9 {
			// Exactly on center: no direction to orbit, nudge out.
			ox, oy, r = 1, 0, 1
		}
		ux, uy := ox/r, oy/r // radial unit
		tx, ty := -uy, ux    // tangential unit

		twist := v.cfg.TwistBase * breath * r
		turb := (v.noise.Eval3(p.x*v.cfg.TurbulenceScale, p.y*v.cfg.TurbulenceScale, v.time*0.3) - 0.5) *
			2 * v.cfg.TurbulenceForce

		ax := -ux*v.cfg.CentripetalPull*r + tx*twist + tx*turb
		ay := -uy*v.cfg.CentripetalPull*r + ty*twist + ty*turb

		if v.impulseStrength > 0 {
			ax += v.impulseX * v.impulseStrength
			ay += v.impulseY * v.impulseStrength
		}

		p.vx = (p.vx + ax*dt) * 0.98
		p.vy = (p.vy + ay*dt) * 0.98
		p.x += p.vx * dt
		p.y += p.vy * dt

		// Clamp runaways to the rim instead of losing them.
		ox, oy = p.x-cx, p.y-cy
		if r = math.Hypot(ox, oy); r > v.cfg.MaxRadius {
			scale := v.cfg.MaxRadius / r
			p.x = cx + ox*scale
			p.y = cy + oy*scale
			p.vx *= 0.5
			p.vy *= 0.5
		}

		p.life -= dt
		if p.life < lifeFloor || math.IsNaN(p.x) || math.IsNaN(p.y) {
			v.respawnParticle(p)
		}
	}
}

// respawnParticle resets a particle near the center with a fresh life.
func (v *Visualizer) respawnParticle(p *particle) {
	angle := v.rng.Float64() * 2 * math.Pi
	radius := v.rng.Float64() * respawnRadius
	cx, cy := v.cfg.Width/2, v.cfg.Height/2

	p.x = cx + math.Cos(angle)*radius
	p.y = cy + math.Sin(angle)*radius
	p.vx = 0
	p.vy = 0
	p.maxLife = particleLifeMin + v.rng.Float64()*(particleLifeMax-particleLifeMin)
	p.life = p.maxLife
	p.size = particleSizeMin + v.rng.Float64()*(particleSizeMax-particleSizeMin)
}
