package sim

import (
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"
)

// maxTickDt caps a single integration step. A stalled driver catching
// up delivers one clamped step instead of tunneling entities through
// each other.
const maxTickDt = 0.25

// Engine owns the whole simulation state behind one RWMutex. Commands
// and Tick may be called from any goroutine, but the tick body itself
// is single-threaded: subsystems run in a fixed order and no events are
// delivered while the lock is held.
type Engine struct {
	mu  sync.RWMutex
	cfg Config

	phase Phase
	core  *Core

	dissonances []*Dissonance
	amplifiers  []*Amplifier
	waves       []*Wave
	resonators  []*Resonator
	connections []*Connection
	patterns    []*Pattern

	effects       []*timedEffect
	knownPatterns map[string]bool

	dissonanceTimer float64
	amplifierTimer  float64
	hitCooldown     float64

	score        float64
	balancedFor  float64
	balancedSent bool
	patternsDone int

	tickCount uint64
	tickSeed  int64
	rng       *rand.Rand

	bus      *Bus
	eventLog *EventLog
	pool     *SnapshotPool

	fps        float64
	lastTickAt time.Time
	startedAt  time.Time
}

// NewEngine builds an engine in the loading phase. No goroutines start
// here; the caller drives ticks.
func NewEngine(cfg Config) *Engine {
	cfg = cfg.normalized()
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e := &Engine{
		cfg:           cfg,
		phase:         PhaseLoading,
		rng:           rand.New(rand.NewSource(seed)),
		tickSeed:      seed,
		bus:           NewBus(),
		pool:          NewSnapshotPool(),
		knownPatterns: make(map[string]bool),
	}
	e.publishSnapshot()
	return e
}

// Ready moves the engine out of the loading phase once the presentation
// collaborator has its assets. A no-op in any other phase.
func (e *Engine) Ready() {
	e.mu.Lock()
	if e.phase == PhaseLoading {
		e.phase = PhaseMenu
		e.publishSnapshot()
	}
	e.mu.Unlock()
}

// Subscribe registers an event callback. Callbacks run after each tick
// or command, outside the engine lock, in emission order.
func (e *Engine) Subscribe(fn func(Event)) {
	e.bus.Subscribe(fn)
}

// AttachEventLog wires the NDJSON sink. Every bus event is appended;
// tick boundary records go to the sink only, not to subscribers.
func (e *Engine) AttachEventLog(el *EventLog) {
	e.mu.Lock()
	e.eventLog = el
	e.mu.Unlock()
	e.bus.Subscribe(func(ev Event) { el.Append(ev) })
}

// Start begins a session from the menu. A nil override keeps the
// engine's config; zero fields in an override fall back to defaults.
// Starting from any other phase is a logged no-op.
func (e *Engine) Start(overrides *Config) {
	e.mu.Lock()
	if e.phase != PhaseMenu {
		log.Printf("⚠️ start ignored in phase %s", e.phase)
		e.mu.Unlock()
		return
	}
	if overrides != nil {
		cfg := overrides.normalized()
		cfg.Seed = e.cfg.Seed
		if overrides.Seed != 0 {
			cfg.Seed = overrides.Seed
		}
		e.cfg = cfg
	}
	seed := e.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e.rng = rand.New(rand.NewSource(seed))
	e.tickSeed = seed

	e.resetWorld()
	e.core = newCore(e.cfg)
	e.resonators = newResonatorRing(e.cfg)
	e.phase = PhasePlaying
	e.startedAt = time.Now()

	log.Printf("🎮 session started (seed=%d, resonators=%d)", seed, len(e.resonators))
	e.bus.Emit(EventGameStarted, e.tickCount, StartedPayload{
		Seed:       seed,
		Resonators: len(e.resonators),
	})
	e.publishSnapshot()
	e.mu.Unlock()
	e.bus.Drain()
}

// Pause freezes the simulation. Pausing twice is a no-op: the second
// call emits nothing.
func (e *Engine) Pause() {
	e.mu.Lock()
	if e.phase != PhasePlaying {
		log.Printf("⚠️ pause ignored in phase %s", e.phase)
		e.mu.Unlock()
		return
	}
	e.phase = PhasePaused
	e.bus.Emit(EventGamePaused, e.tickCount, nil)
	e.publishSnapshot()
	e.mu.Unlock()
	e.bus.Drain()
}

// Resume continues a paused session.
func (e *Engine) Resume() {
	e.mu.Lock()
	if e.phase != PhasePaused {
		log.Printf("⚠️ resume ignored in phase %s", e.phase)
		e.mu.Unlock()
		return
	}
	e.phase = PhasePlaying
	e.bus.Emit(EventGameResumed, e.tickCount, nil)
	e.publishSnapshot()
	e.mu.Unlock()
	e.bus.Drain()
}

// End aborts a running or paused session into game over.
func (e *Engine) End() {
	e.mu.Lock()
	if e.phase != PhasePlaying && e.phase != PhasePaused {
		log.Printf("⚠️ end ignored in phase %s", e.phase)
		e.mu.Unlock()
		return
	}
	e.finish(PhaseGameOver, "ended")
	e.publishSnapshot()
	e.mu.Unlock()
	e.bus.Drain()
}

// Reset returns to the menu from any phase and discards all world
// state, including pending timed effects: a stale reversal must never
// touch a fresh core.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.resetWorld()
	e.core = nil
	e.resonators = nil
	e.phase = PhaseMenu
	log.Printf("🔄 session reset")
	e.publishSnapshot()
	e.mu.Unlock()
	e.bus.Drain()
}

// resetWorld clears every collection and counter for a fresh session.
func (e *Engine) resetWorld() {
	e.dissonances = e.dissonances[:0]
	e.amplifiers = e.amplifiers[:0]
	e.waves = e.waves[:0]
	e.connections = e.connections[:0]
	e.patterns = e.patterns[:0]
	e.effects = e.effects[:0]
	e.knownPatterns = make(map[string]bool)
	e.dissonanceTimer = 0
	e.amplifierTimer = 0
	e.hitCooldown = 0
	e.score = 0
	e.balancedFor = 0
	e.balancedSent = false
	e.patternsDone = 0
	e.tickCount = 0
}

// finish ends the session. Caller holds the lock.
func (e *Engine) finish(phase Phase, reason string) {
	if e.phase.terminal() {
		return
	}
	e.phase = phase
	log.Printf("🏁 session finished: %s (score=%.1f)", reason, e.score)
	e.bus.Emit(EventGameEnded, e.tickCount, EndedPayload{
		Reason:   reason,
		Score:    e.score,
		Harmony:  e.harmonyLevel(),
		Patterns: e.patternsDone,
	})
}

func (e *Engine) harmonyLevel() int {
	if e.core == nil {
		return 0
	}
	return e.core.HarmonyLevel
}

// Tick advances the simulation by dt seconds. Outside the playing
// phase only the FPS meter moves. Non-positive dt is a no-op; an
// oversized dt is clamped to one bounded step.
func (e *Engine) Tick(dt float64) {
	e.mu.Lock()
	e.measureFPS()

	if e.phase != PhasePlaying || dt <= 0 {
		e.publishSnapshot()
		e.mu.Unlock()
		e.bus.Drain()
		return
	}
	if dt > maxTickDt {
		dt = maxTickDt
	}

	// Reseed per tick and record the seed in the tick record, so a run
	// can be replayed from the event log.
	e.tickSeed = e.rng.Int63()
	e.rng = rand.New(rand.NewSource(e.tickSeed))
	e.tickCount++

	e.updateCore(dt)
	e.updateDissonances(dt)
	e.updateAmplifiers(dt)
	e.updateWaves(dt)
	if e.phase == PhasePlaying { // a pattern may have ended the session
		e.updateCollisions(dt)
		e.updateScore(dt)
		e.checkDepletion()
	}

	e.appendTickRecord(dt)
	e.publishSnapshot()
	e.mu.Unlock()
	e.bus.Drain()
}

// checkDepletion ends the session once energy reaches zero. Runs after
// every energy-mutating path inside the tick; the phase change makes it
// fire exactly once.
func (e *Engine) checkDepletion() {
	if e.core == nil || e.core.Energy > 0 {
		return
	}
	e.bus.Emit(EventEnergyDepleted, e.tickCount, DepletedPayload{Score: e.score})
	e.finish(PhaseGameOver, "energy depleted")
}

// appendTickRecord writes the tick boundary to the file sink only.
// Subscribers never see tick records; they would drown real events.
func (e *Engine) appendTickRecord(dt float64) {
	if e.eventLog == nil {
		return
	}
	e.eventLog.Append(Event{
		Version:   eventVersion,
		Type:      EventTick,
		TypeName:  EventTick.String(),
		Tick:      e.tickCount,
		Timestamp: time.Now().UnixNano(),
		Payload: encodePayload(TickPayload{
			Seed:    e.tickSeed,
			Dt:      dt,
			Score:   e.score,
			Objects: len(e.dissonances) + len(e.amplifiers) + len(e.waves),
		}),
	})
}

// measureFPS keeps a smoothed ticks-per-second figure from wall-clock
// arrival times. Caller holds the lock.
func (e *Engine) measureFPS() {
	now := time.Now()
	if !e.lastTickAt.IsZero() {
		if elapsed := now.Sub(e.lastTickAt).Seconds(); elapsed > 0 {
			inst := 1 / elapsed
			if e.fps == 0 {
				e.fps = inst
			} else {
				e.fps = e.fps*0.9 + inst*0.1
			}
		}
	}
	e.lastTickAt = now
}

// ApplyImpulse pushes the core in a direction, costing a fixed amount
// of energy. A zero direction is a no-op: no energy is consumed and no
// velocity changes.
func (e *Engine) ApplyImpulse(dir Vec) {
	e.mu.Lock()
	if e.phase != PhasePlaying {
		log.Printf("⚠️ impulse ignored in phase %s", e.phase)
		e.mu.Unlock()
		return
	}
	unit, ok := dir.Normalize()
	if !ok {
		e.mu.Unlock()
		return
	}
	e.core.Vel = e.core.Vel.Add(unit.Scale(e.cfg.ImpulseForce))
	e.core.Energy = clamp(e.core.Energy-e.cfg.ImpulseEnergyCost, 0, e.core.MaxEnergy)
	e.checkDepletion()
	e.publishSnapshot()
	e.mu.Unlock()
	e.bus.Drain()
}

// GenerateWave emits a wavefront of the given energy type from the
// core, costing wave energy and shifting the balance toward that type.
// Insufficient energy is a logged no-op.
func (e *Engine) GenerateWave(energy EnergyType) {
	e.mu.Lock()
	if e.phase != PhasePlaying {
		log.Printf("⚠️ wave ignored in phase %s", e.phase)
		e.mu.Unlock()
		return
	}
	if e.core.Energy < e.cfg.WaveEnergyCost {
		log.Printf("⚠️ wave ignored: energy %.1f below cost %.1f", e.core.Energy, e.cfg.WaveEnergyCost)
		e.mu.Unlock()
		return
	}
	if w := e.emitWave(e.core.Pos, energy); w != nil {
		e.core.Energy = clamp(e.core.Energy-e.cfg.WaveEnergyCost, 0, e.core.MaxEnergy)
		e.shiftBalance(energy, 0.1)
		e.checkDepletion()
	}
	e.publishSnapshot()
	e.mu.Unlock()
	e.bus.Drain()
}

// Snapshot returns the latest published world snapshot. Lock-free; the
// pointer stays valid for at least two more ticks.
func (e *Engine) Snapshot() *Snapshot {
	return e.pool.AcquireRead()
}

// Phase returns the current lifecycle phase.
func (e *Engine) Phase() Phase {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.phase
}

// Score returns the accumulated session score.
func (e *Engine) Score() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.score
}

// FPS returns the smoothed tick rate.
func (e *Engine) FPS() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.fps
}

// HarmonyLevel returns the core's harmony level, 0 when no session.
func (e *Engine) HarmonyLevel() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.harmonyLevel()
}

// Config returns a copy of the active tuning.
func (e *Engine) Config() Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg
}

// Stats returns counters for the debug endpoint.
func (e *Engine) Stats() map[string]any {
	e.mu.RLock()
	defer e.mu.RUnlock()
	stats := map[string]any{
		"phase":       e.phase.String(),
		"tick":        e.tickCount,
		"score":       e.score,
		"fps":         e.fps,
		"harmony":     e.harmonyLevel(),
		"patterns":    e.patternsDone,
		"dissonances": len(e.dissonances),
		"amplifiers":  len(e.amplifiers),
		"waves":       len(e.waves),
		"connections": len(e.connections),
		"resonators":  len(e.resonators),
	}
	if e.eventLog != nil {
		stats["event_log"] = e.eventLog.Stats()
	}
	return stats
}

// publishSnapshot copies world state into the next pool slot. Caller
// holds the lock.
func (e *Engine) publishSnapshot() {
	s := e.pool.AcquireWrite()
	s.Tick = e.tickCount
	s.Timestamp = time.Now().UnixNano()
	s.Seed = e.tickSeed
	s.Phase = e.phase.String()
	s.Score = e.score
	s.FPS = e.fps

	if c := e.core; c != nil {
		effects := make([]string, 0, len(c.Effects))
		for tag := range c.Effects {
			effects = append(effects, tag)
		}
		sort.Strings(effects)
		s.Core = CoreSnapshot{
			ID:         c.ID,
			Pos:        c.Pos,
			Vel:        c.Vel,
			Radius:     c.Radius,
			Energy:     c.Energy,
			MaxEnergy:  c.MaxEnergy,
			Harmony:    c.HarmonyLevel,
			Frequency:  c.Frequency,
			Amplitude:  c.Amplitude,
			Balance:    c.Balance,
			Brightness: c.Brightness,
			Effects:    effects,
		}
	} else {
		s.Core = CoreSnapshot{}
	}

	for _, d := range e.dissonances {
		s.Dissonances = append(s.Dissonances, DissonanceSnapshot{
			ID:       d.ID,
			Kind:     d.Kind.String(),
			Shape:    d.Shape.String(),
			Pos:      d.Pos,
			Radius:   d.effectiveRadius(),
			Rotation: d.Rotation,
			Opacity:  d.Opacity,
			Counters: d.Counters.String(),
		})
	}
	for _, a := range e.amplifiers {
		s.Amplifiers = append(s.Amplifiers, AmplifierSnapshot{
			ID:     a.ID,
			Kind:   a.Kind.String(),
			Energy: a.Energy.String(),
			Pos:    a.Pos,
			Radius: a.Radius,
			Value:  a.Value,
		})
	}
	for _, r := range e.resonators {
		s.Resonators = append(s.Resonators, ResonatorSnapshot{
			ID:          r.ID,
			Pos:         r.Pos,
			Energy:      r.Energy.String(),
			Radius:      r.Radius,
			Activated:   r.Activated,
			Intensity:   r.Intensity,
			Connections: append([]string(nil), r.Connections...),
		})
	}
	for _, w := range e.waves {
		s.Waves = append(s.Waves, WaveSnapshot{
			ID:      w.ID,
			Origin:  w.Origin,
			Energy:  w.Energy.String(),
			Radius:  w.Radius,
			Opacity: w.Opacity,
		})
	}
	for _, c := range e.connections {
		s.Connections = append(s.Connections, ConnectionSnapshot{
			ID:         c.ID,
			Resonators: c.Resonators,
			Energy:     c.Energy.String(),
			Intensity:  c.Intensity,
		})
	}
	for _, p := range e.patterns {
		s.Patterns = append(s.Patterns, PatternSnapshot{
			ID:         p.ID,
			Name:       p.Name,
			Energy:     p.Energy.String(),
			Resonators: append([]string(nil), p.Resonators...),
			Value:      p.Value,
		})
	}

	e.pool.PublishWrite()
}
