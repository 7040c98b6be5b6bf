package sim

// restitution is the velocity fraction kept on a boundary bounce.
const restitution = 0.5

// newCore builds the player core at the field center.
func newCore(cfg Config) *Core {
	return &Core{
		ID:        newID("core"),
		Pos:       cfg.center(),
		Radius:    cfg.CoreRadius,
		Energy:    clamp(cfg.StartEnergy, 0, cfg.MaxEnergy),
		MaxEnergy: cfg.MaxEnergy,
		// Harmony starts at 1 so continuous score accrues from the
		// first tick; patterns only ever raise it.
		HarmonyLevel: 1,
		Frequency:    1,
		Amplitude:    1,
		Balance:      EnergyBalance{Calm: 1.0 / 3, Vibrant: 1.0 / 3, Intense: 1.0 / 3},
		Effects:      make(map[string]bool),
	}
}

// updateCore integrates physics and energy for one tick. Order matters:
// gravity, friction, speed clamp, position, boundary bounce, decay.
func (e *Engine) updateCore(dt float64) {
	c := e.core

	c.Vel.X += e.cfg.GravityX * dt
	c.Vel.Y += e.cfg.GravityY * dt

	// Friction is a per-second damping fraction. Never inverts the
	// velocity even on a huge dt spike.
	damp := 1 - e.cfg.Friction*dt
	if damp < 0 {
		damp = 0
	}
	c.Vel = c.Vel.Scale(damp)

	// Clamp speed by uniform scaling so direction is preserved.
	if speed := c.Vel.Length(); speed > e.cfg.MaxSpeed {
		c.Vel = c.Vel.Scale(e.cfg.MaxSpeed / speed)
	}

	c.Pos = c.Pos.Add(c.Vel.Scale(dt))
	e.bounceOffBounds(c)

	decay := e.cfg.DecayRate
	if c.Effects["stability"] {
		decay *= 0.5
	}
	if c.Balance.Deviation() > e.cfg.ImbalanceThreshold {
		decay += e.cfg.ImbalancePenalty
	}
	c.Energy = clamp(c.Energy-decay*dt, 0, c.MaxEnergy)

	// Brightness tracks the energy fraction; floor keeps the core
	// visible even when nearly drained.
	c.Brightness = 0.3 + 0.7*(c.Energy/c.MaxEnergy)
}

// bounceOffBounds reflects the core off field edges, keeping the full
// radius inside and losing half the velocity on the bounced axis.
func (e *Engine) bounceOffBounds(c *Core) {
	if c.Pos.X < c.Radius {
		c.Pos.X = c.Radius
		c.Vel.X = -c.Vel.X * restitution
	} else if c.Pos.X > e.cfg.FieldWidth-c.Radius {
		c.Pos.X = e.cfg.FieldWidth - c.Radius
		c.Vel.X = -c.Vel.X * restitution
	}
	if c.Pos.Y < c.Radius {
		c.Pos.Y = c.Radius
		c.Vel.Y = -c.Vel.Y * restitution
	} else if c.Pos.Y > e.cfg.FieldHeight-c.Radius {
		c.Pos.Y = e.cfg.FieldHeight - c.Radius
		c.Vel.Y = -c.Vel.Y * restitution
	}
}

// shiftBalance moves a fraction of the balance mass toward one energy
// type. Used by wave emission and amplifier pickups so play style is
// reflected in the balance score multiplier.
func (e *Engine) shiftBalance(toward EnergyType, amount float64) {
	b := &e.core.Balance
	total := b.Total()
	if total < vecEpsilon {
		return
	}
	moved := 0.0
	for _, t := range EnergyTypes {
		if t == toward {
			continue
		}
		comp := b.component(t)
		take := *comp * amount
		*comp -= take
		moved += take
	}
	*b.component(toward) += moved
}

// pullBalanceToCenter nudges each component toward an even third.
func (e *Engine) pullBalanceToCenter(factor float64) {
	b := &e.core.Balance
	third := b.Total() / 3
	b.Calm += (third - b.Calm) * factor
	b.Vibrant += (third - b.Vibrant) * factor
	b.Intense += (third - b.Intense) * factor
}
