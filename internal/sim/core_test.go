package sim

import (
	"math"
	"testing"
)

// TestZeroImpulseIsNoOp verifies a zero-direction impulse consumes no
// energy and leaves velocity untouched.
func TestZeroImpulseIsNoOp(t *testing.T) {
	e := startedEngine(t, quietConfig())

	before := e.Snapshot().Core
	e.ApplyImpulse(Vec{})
	e.ApplyImpulse(Vec{X: 1e-12, Y: -1e-12})

	after := e.Snapshot().Core
	if after.Vel != before.Vel {
		t.Errorf("velocity changed: %v -> %v", before.Vel, after.Vel)
	}
	if after.Energy != before.Energy {
		t.Errorf("energy consumed by zero impulse: %v -> %v", before.Energy, after.Energy)
	}
}

// TestImpulseNormalizesDirection verifies impulse magnitude is fixed
// regardless of the input vector's length.
func TestImpulseNormalizesDirection(t *testing.T) {
	cfg := quietConfig()
	e := startedEngine(t, cfg)

	e.ApplyImpulse(Vec{X: 1000, Y: 0})

	core := e.Snapshot().Core
	approx(t, core.Vel.X, cfg.ImpulseForce, 1e-9, "impulse velocity")
	approx(t, core.Energy, cfg.StartEnergy-cfg.ImpulseEnergyCost, 1e-9, "impulse energy cost")
}

// TestSpeedClampPreservesDirection verifies the speed cap scales the
// velocity uniformly.
func TestSpeedClampPreservesDirection(t *testing.T) {
	cfg := quietConfig()
	e := startedEngine(t, cfg)

	e.mu.Lock()
	e.core.Vel = Vec{X: 3000, Y: 4000}
	e.mu.Unlock()

	e.Tick(1.0 / 60)

	vel := e.Snapshot().Core.Vel
	speed := vel.Length()
	if speed > cfg.MaxSpeed+1e-6 {
		t.Errorf("speed %v exceeds cap %v", speed, cfg.MaxSpeed)
	}
	// Direction preserved: 3:4 ratio.
	approx(t, vel.Y/vel.X, 4.0/3.0, 1e-9, "velocity direction")
}

// TestBoundaryBounce verifies the core reflects off an edge with half
// its speed and stays fully inside the field.
func TestBoundaryBounce(t *testing.T) {
	cfg := quietConfig()
	e := startedEngine(t, cfg)

	e.mu.Lock()
	e.core.Pos = Vec{X: cfg.CoreRadius + 1, Y: cfg.FieldHeight / 2}
	e.core.Vel = Vec{X: -200, Y: 0}
	e.mu.Unlock()

	e.Tick(0.1)

	core := e.Snapshot().Core
	if core.Pos.X < cfg.CoreRadius {
		t.Errorf("core left the field: x=%v", core.Pos.X)
	}
	if core.Vel.X <= 0 {
		t.Errorf("velocity should have flipped positive, got %v", core.Vel.X)
	}
	// Half the speed survives the bounce (friction also applies).
	if core.Vel.X > 100 {
		t.Errorf("bounce kept too much speed: %v", core.Vel.X)
	}
}

// TestGravityApplies verifies configured gravity accelerates the core.
func TestGravityApplies(t *testing.T) {
	cfg := quietConfig()
	cfg.GravityY = 50
	e := startedEngine(t, cfg)

	e.Tick(0.1)

	if vy := e.Snapshot().Core.Vel.Y; vy <= 0 {
		t.Errorf("gravity should pull +Y, got vy=%v", vy)
	}
}

// TestWaveCostAndRefusal verifies wave emission deducts energy and is
// refused when energy is below the cost.
func TestWaveCostAndRefusal(t *testing.T) {
	cfg := quietConfig()
	e := startedEngine(t, cfg)

	e.GenerateWave(EnergyVibrant)
	snap := e.Snapshot()
	if len(snap.Waves) != 1 {
		t.Fatalf("expected 1 wave, got %d", len(snap.Waves))
	}
	approx(t, snap.Core.Energy, cfg.StartEnergy-cfg.WaveEnergyCost, 1e-9, "wave energy cost")

	// Drain below the cost: the command must refuse.
	e.mu.Lock()
	e.core.Energy = cfg.WaveEnergyCost - 1
	e.mu.Unlock()
	e.GenerateWave(EnergyVibrant)

	e.mu.RLock()
	waves, energy := len(e.waves), e.core.Energy
	e.mu.RUnlock()
	if waves != 1 {
		t.Errorf("underfunded wave was emitted, got %d waves", waves)
	}
	approx(t, energy, cfg.WaveEnergyCost-1, 1e-9, "refused wave must not deduct")
}

// TestWaveShiftsBalance verifies emitting a wave moves the balance
// toward its energy type.
func TestWaveShiftsBalance(t *testing.T) {
	e := startedEngine(t, quietConfig())

	before := e.Snapshot().Core.Balance
	e.GenerateWave(EnergyIntense)
	after := e.Snapshot().Core.Balance

	if after.Intense <= before.Intense {
		t.Errorf("intense share should grow: %v -> %v", before.Intense, after.Intense)
	}
	approx(t, after.Total(), before.Total(), 1e-9, "balance mass conserved")
}

// TestNormalizeEpsilon covers the zero-vector guard directly.
func TestNormalizeEpsilon(t *testing.T) {
	if _, ok := (Vec{}).Normalize(); ok {
		t.Error("zero vector should not normalize")
	}
	if _, ok := (Vec{X: 1e-12}).Normalize(); ok {
		t.Error("sub-epsilon vector should not normalize")
	}
	unit, ok := (Vec{X: 3, Y: 4}).Normalize()
	if !ok {
		t.Fatal("non-zero vector failed to normalize")
	}
	approx(t, unit.Length(), 1, 1e-12, "unit length")
	approx(t, math.Atan2(unit.Y, unit.X), math.Atan2(4, 3), 1e-12, "direction")
}
