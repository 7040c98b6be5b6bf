package sim

import (
	"math"
	"math/rand"
	"testing"
)

// TestAmplifierWeightsSumToOne guards the spawn distribution table.
func TestAmplifierWeightsSumToOne(t *testing.T) {
	sum := 0.0
	seen := map[AmplifierKind]bool{}
	for _, w := range amplifierWeights {
		sum += w.Weight
		if seen[w.Kind] {
			t.Errorf("kind %s listed twice", w.Kind)
		}
		seen[w.Kind] = true
	}
	approx(t, sum, 1, 1e-12, "weight sum")
	if len(seen) != 8 {
		t.Errorf("expected 8 kinds, got %d", len(seen))
	}
}

// TestAmplifierKindSampling draws a large sample and checks each kind
// lands near its configured weight.
func TestAmplifierKindSampling(t *testing.T) {
	e := NewEngine(quietConfig())
	e.mu.Lock()
	e.rng = rand.New(rand.NewSource(7))
	counts := map[AmplifierKind]int{}
	const n = 100000
	for i := 0; i < n; i++ {
		counts[e.sampleAmplifierKind()]++
	}
	e.mu.Unlock()

	for _, w := range amplifierWeights {
		got := float64(counts[w.Kind]) / n
		if math.Abs(got-w.Weight) > 0.01 {
			t.Errorf("kind %s: sampled %.3f, weight %.3f", w.Kind, got, w.Weight)
		}
	}
}

// TestTimedEffectReversesExactly applies a frequency boost and checks
// the core returns to exactly its prior value after the duration, with
// the effect tag present only while the boost runs.
func TestTimedEffectReversesExactly(t *testing.T) {
	cfg := quietConfig()
	cfg.AmplifierDuration = 0.5
	e := startedEngine(t, cfg)

	e.mu.Lock()
	e.collectAmplifier(&Amplifier{Kind: AmplifierFrequency, Value: 0.5, Duration: cfg.AmplifierDuration})
	e.mu.Unlock()
	e.Tick(1.0 / 60)

	snap := e.Snapshot()
	approx(t, snap.Core.Frequency, 1.5, 1e-9, "boosted frequency")
	if !containsString(snap.Core.Effects, "frequency") {
		t.Error("frequency tag missing while effect runs")
	}

	for i := 0; i < 60; i++ { // well past 0.5s
		e.Tick(1.0 / 60)
	}

	snap = e.Snapshot()
	if snap.Core.Frequency != 1 {
		t.Errorf("frequency not restored exactly: %v", snap.Core.Frequency)
	}
	if containsString(snap.Core.Effects, "frequency") {
		t.Error("frequency tag survived expiry")
	}
}

// TestOverlappingEffectsKeepTag verifies a tag stays set while a second
// effect of the same kind is still running.
func TestOverlappingEffectsKeepTag(t *testing.T) {
	cfg := quietConfig()
	e := startedEngine(t, cfg)

	e.mu.Lock()
	e.collectAmplifier(&Amplifier{Kind: AmplifierExpansion, Value: 6, Duration: 0.2})
	e.collectAmplifier(&Amplifier{Kind: AmplifierExpansion, Value: 6, Duration: 5})
	baseRadius := e.core.Radius - 12
	e.mu.Unlock()

	// First effect expires, second keeps running.
	for i := 0; i < 30; i++ {
		e.Tick(1.0 / 60)
	}

	snap := e.Snapshot()
	approx(t, snap.Core.Radius, baseRadius+6, 1e-9, "one boost left")
	if !containsString(snap.Core.Effects, "expansion") {
		t.Error("expansion tag cleared while an effect is still live")
	}
}

// TestResonanceAmplifierEmitsFreeWave verifies the resonance pickup
// emits a wave without the usual energy cost.
func TestResonanceAmplifierEmitsFreeWave(t *testing.T) {
	cfg := quietConfig()
	e := startedEngine(t, cfg)

	e.mu.Lock()
	e.collectAmplifier(&Amplifier{Kind: AmplifierResonance, Energy: EnergyVibrant})
	waves, energy := len(e.waves), e.core.Energy
	e.mu.Unlock()

	if waves != 1 {
		t.Errorf("expected 1 wave, got %d", waves)
	}
	approx(t, energy, cfg.StartEnergy, 1e-9, "free wave must not cost energy")
}

// TestBalanceAmplifierPullsToCenter verifies the balance pickup moves
// the split toward an even third.
func TestBalanceAmplifierPullsToCenter(t *testing.T) {
	e := startedEngine(t, quietConfig())

	e.mu.Lock()
	e.core.Balance = EnergyBalance{Calm: 0.8, Vibrant: 0.1, Intense: 0.1}
	before := e.core.Balance.Deviation()
	e.collectAmplifier(&Amplifier{Kind: AmplifierBalance})
	after := e.core.Balance.Deviation()
	total := e.core.Balance.Total()
	e.mu.Unlock()

	if after >= before {
		t.Errorf("deviation should shrink: %v -> %v", before, after)
	}
	approx(t, total, 1, 1e-9, "balance mass conserved")
}

// TestAmplifierExpiry verifies uncollected amplifiers disappear after
// their lifetime.
func TestAmplifierExpiry(t *testing.T) {
	e := startedEngine(t, quietConfig())

	e.mu.Lock()
	e.amplifiers = append(e.amplifiers, &Amplifier{
		ID:       newID("amp"),
		Kind:     AmplifierEnergy,
		Pos:      Vec{X: 10, Y: 10}, // far from the core
		Radius:   amplifierRadius,
		LifeTime: 0.1,
		Active:   true,
	})
	e.mu.Unlock()

	for i := 0; i < 12; i++ {
		e.Tick(1.0 / 60)
	}

	if got := len(e.Snapshot().Amplifiers); got != 0 {
		t.Errorf("expected expired amplifier to be removed, %d remain", got)
	}
}

// TestAmplifierSpawnTimerCarriesOverAtCap mirrors the dissonance rule:
// spawn time accumulated at the cap refills a freed slot immediately.
func TestAmplifierSpawnTimerCarriesOverAtCap(t *testing.T) {
	cfg := quietConfig()
	cfg.AmplifierRate = 1 // one per second
	cfg.Limits.MaxAmplifiers = 1
	cfg.MinSpawnDistance = 10000
	e := startedEngine(t, cfg)

	e.mu.Lock()
	e.core.Pos = Vec{X: -10000, Y: -10000}
	e.mu.Unlock()

	for i := 0; i < 12; i++ {
		e.Tick(0.25)
	}
	if got := len(e.Snapshot().Amplifiers); got != 1 {
		t.Fatalf("expected the cap to hold 1 amplifier, got %d", got)
	}

	e.mu.Lock()
	e.amplifiers = e.amplifiers[:0]
	e.mu.Unlock()

	e.Tick(0.01)
	if got := len(e.Snapshot().Amplifiers); got != 1 {
		t.Errorf("freed slot should refill immediately, got %d", got)
	}
}

// TestTimedKindTable pins down which kinds revert and which are
// instant.
func TestTimedKindTable(t *testing.T) {
	timed := []AmplifierKind{AmplifierFrequency, AmplifierAmplitude, AmplifierClarity, AmplifierExpansion, AmplifierStability}
	instant := []AmplifierKind{AmplifierEnergy, AmplifierResonance, AmplifierBalance}
	for _, k := range timed {
		if !amplifierTimed(k) {
			t.Errorf("%s should be timed", k)
		}
	}
	for _, k := range instant {
		if amplifierTimed(k) {
			t.Errorf("%s should be instant", k)
		}
	}
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
