package sim

// updateCollisions runs one collision pass. The cooldown gates the
// whole pass: after a hit, nothing is evaluated until it elapses, so a
// cluster of overlapping dissonances drains energy once, not per tick.
// At most one contact is processed per tick, first match wins.
func (e *Engine) updateCollisions(dt float64) {
	if e.hitCooldown > 0 {
		e.hitCooldown -= dt
		if e.hitCooldown < 0 {
			e.hitCooldown = 0
		}
		return
	}

	c := e.core
	for _, d := range e.dissonances {
		if !d.Active {
			continue
		}
		if c.Pos.Distance(d.Pos) >= c.Radius+d.effectiveRadius() {
			continue
		}
		e.hitDissonance(d)
		return
	}

	for _, a := range e.amplifiers {
		if !a.Active {
			continue
		}
		if c.Pos.Distance(a.Pos) >= c.Radius+a.Radius {
			continue
		}
		a.Active = false
		e.collectAmplifier(a)
		e.bus.Emit(EventPowerupCollected, e.tickCount, PowerupPayload{
			AmplifierID: a.ID,
			Kind:        a.Kind.String(),
			Value:       a.Value,
			Duration:    a.Duration,
		})
		return
	}
}

// hitDissonance drains energy, knocks the core back and starts the
// invulnerability cooldown. The hit consumes the dissonance.
func (e *Engine) hitDissonance(d *Dissonance) {
	c := e.core
	c.Energy = clamp(c.Energy-d.DisruptionLevel, 0, c.MaxEnergy)

	// Knockback along the contact normal. A perfectly concentric
	// overlap has no direction; skip the push rather than invent one.
	if dir, ok := c.Pos.Sub(d.Pos).Normalize(); ok {
		c.Vel = c.Vel.Add(dir.Scale(e.cfg.KnockbackForce))
	}

	d.Active = false
	e.hitCooldown = e.cfg.CollisionCooldown
	e.bus.Emit(EventCoreCollision, e.tickCount, CollisionPayload{
		DissonanceID: d.ID,
		Kind:         d.Kind.String(),
		Damage:       d.DisruptionLevel,
		EnergyAfter:  c.Energy,
	})
}

// updateScore accrues continuous score: harmony level scaled by how
// balanced the energy split is. A perfectly balanced core earns the
// full rate, a fully imbalanced one earns half.
func (e *Engine) updateScore(dt float64) {
	multiplier := 1 - 0.5*e.core.Balance.Deviation()
	e.score += dt * float64(e.core.HarmonyLevel) * 0.5 * multiplier

	e.updateBalanceBonus(dt)
}

// updateBalanceBonus awards a one-shot bonus after the balance has
// stayed inside the imbalance threshold for a full interval. Leaving
// balance re-arms the bonus.
func (e *Engine) updateBalanceBonus(dt float64) {
	if e.core.Balance.Deviation() < e.cfg.ImbalanceThreshold {
		e.balancedFor += dt
		if e.balancedFor >= e.cfg.BalancedInterval && !e.balancedSent {
			e.balancedSent = true
			e.score += e.cfg.BalanceBonus
			e.bus.Emit(EventEnergyBalanced, e.tickCount, BalancePayload{
				Deviation: e.core.Balance.Deviation(),
				Bonus:     e.cfg.BalanceBonus,
			})
		}
		return
	}
	e.balancedFor = 0
	e.balancedSent = false
}
