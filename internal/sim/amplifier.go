package sim

const (
	amplifierRadius   = 14
	amplifierLifeTime = 10
)

// timedEffect is the reversal record for a duration-limited amplifier.
// It lives on the engine and is polled every tick; when Remaining hits
// zero the stored deltas are subtracted, restoring the core exactly.
// Reset drops the whole list so stale reversals never touch a new run.
type timedEffect struct {
	Kind      AmplifierKind
	Tag       string
	Remaining float64

	deltaFrequency float64
	deltaAmplitude float64
	deltaRadius    float64
}

// updateAmplifiers spawns, ages and expires pickups.
func (e *Engine) updateAmplifiers(dt float64) {
	e.amplifierTimer += dt
	if e.cfg.AmplifierRate > 0 {
		interval := 1 / e.cfg.AmplifierRate
		// Same carry-over rule as dissonances: at the cap the timer
		// keeps accumulating instead of draining.
		for e.amplifierTimer >= interval && len(e.amplifiers) < e.cfg.Limits.MaxAmplifiers {
			e.amplifierTimer -= interval
			e.amplifiers = append(e.amplifiers, e.spawnAmplifier())
		}
	}

	for _, a := range e.amplifiers {
		a.Age += dt
		if a.Age >= a.LifeTime {
			a.Active = false
		}
	}

	n := 0
	for _, a := range e.amplifiers {
		if a.Active {
			e.amplifiers[n] = a
			n++
		}
	}
	e.amplifiers = e.amplifiers[:n]

	e.updateEffects(dt)
}

// spawnAmplifier samples a kind from the fixed weight table with one
// uniform draw over the cumulative distribution.
func (e *Engine) spawnAmplifier() *Amplifier {
	kind := e.sampleAmplifierKind()
	a := &Amplifier{
		ID:       newID("amp"),
		Kind:     kind,
		Energy:   EnergyTypes[e.rng.Intn(len(EnergyTypes))],
		Pos:      e.randomSpawnPos(),
		Radius:   amplifierRadius,
		Value:    amplifierValue(kind),
		LifeTime: amplifierLifeTime,
		Active:   true,
	}
	if amplifierTimed(kind) {
		a.Duration = e.cfg.AmplifierDuration
	}
	return a
}

func (e *Engine) sampleAmplifierKind() AmplifierKind {
	r := e.rng.Float64()
	acc := 0.0
	for _, w := range amplifierWeights {
		acc += w.Weight
		if r < acc {
			return w.Kind
		}
	}
	// Float64 returns values in [0, 1); rounding can still leave r at
	// the tail of the table.
	return amplifierWeights[len(amplifierWeights)-1].Kind
}

// amplifierValue is the per-kind effect magnitude.
func amplifierValue(k AmplifierKind) float64 {
	switch k {
	case AmplifierEnergy:
		return 25
	case AmplifierFrequency:
		return 0.5
	case AmplifierAmplitude:
		return 0.3
	case AmplifierExpansion:
		return 6
	default:
		return 1
	}
}

// amplifierTimed reports whether the kind applies a reverting effect.
func amplifierTimed(k AmplifierKind) bool {
	switch k {
	case AmplifierFrequency, AmplifierAmplitude, AmplifierClarity,
		AmplifierExpansion, AmplifierStability:
		return true
	default:
		return false
	}
}

// collectAmplifier applies a picked-up amplifier to the core.
func (e *Engine) collectAmplifier(a *Amplifier) {
	c := e.core
	switch a.Kind {
	case AmplifierEnergy:
		c.Energy = clamp(c.Energy+a.Value, 0, c.MaxEnergy)
		e.shiftBalance(a.Energy, 0.05)
	case AmplifierResonance:
		// Instant: a free wave of the amplifier's energy type.
		e.emitWave(c.Pos, a.Energy)
	case AmplifierBalance:
		e.pullBalanceToCenter(e.cfg.BalancePullFactor)
	default:
		e.applyTimedEffect(a)
	}
}

// applyTimedEffect mutates the core and records the exact deltas so the
// expiry can undo them.
func (e *Engine) applyTimedEffect(a *Amplifier) {
	fx := &timedEffect{
		Kind:      a.Kind,
		Tag:       a.Kind.String(),
		Remaining: a.Duration,
	}
	c := e.core
	switch a.Kind {
	case AmplifierFrequency:
		fx.deltaFrequency = a.Value
		c.Frequency += a.Value
	case AmplifierAmplitude:
		fx.deltaAmplitude = a.Value
		c.Amplitude += a.Value
	case AmplifierExpansion:
		fx.deltaRadius = a.Value
		c.Radius += a.Value
	case AmplifierClarity, AmplifierStability:
		// Tag-only effects; behavior keys off Effects membership.
	}
	c.Effects[fx.Tag] = true
	e.effects = append(e.effects, fx)
}

// updateEffects counts down timed effects and reverses the expired
// ones. The tag is cleared only when no other effect of the same kind
// is still running.
func (e *Engine) updateEffects(dt float64) {
	n := 0
	for _, fx := range e.effects {
		fx.Remaining -= dt
		if fx.Remaining > 0 {
			e.effects[n] = fx
			n++
			continue
		}
		c := e.core
		c.Frequency -= fx.deltaFrequency
		c.Amplitude -= fx.deltaAmplitude
		c.Radius -= fx.deltaRadius
		if !e.effectTagActive(fx) {
			delete(c.Effects, fx.Tag)
		}
	}
	e.effects = e.effects[:n]
}

// effectTagActive reports whether another live effect shares fx's tag.
func (e *Engine) effectTagActive(expired *timedEffect) bool {
	for _, fx := range e.effects {
		if fx != expired && fx.Remaining > 0 && fx.Tag == expired.Tag {
			return true
		}
	}
	return false
}
