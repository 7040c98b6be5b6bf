package sim

import (
	"fmt"

	"github.com/google/uuid"
)

// newID builds a prefixed unique identifier, e.g. "wave_5f3a...".
// The prefix makes event logs and snapshots readable at a glance.
func newID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}

// Core is the single player-guided entity. All mutation happens inside
// the engine tick or under the engine lock.
type Core struct {
	ID           string
	Pos          Vec
	Vel          Vec
	Radius       float64
	Energy       float64
	MaxEnergy    float64
	HarmonyLevel int
	Frequency    float64
	Amplitude    float64
	Balance      EnergyBalance
	Brightness   float64
	// Effects holds the visual tags of currently active amplifier
	// effects (e.g. "clarity"). The timed reversal records live on the
	// engine, not here.
	Effects map[string]bool
}

// DissonanceKind selects the movement behavior of an obstacle.
type DissonanceKind uint8

const (
	DissonanceStatic DissonanceKind = iota
	DissonanceMoving
	DissonancePulsating
	DissonanceDisruptive
)

func (k DissonanceKind) String() string {
	switch k {
	case DissonanceStatic:
		return "static"
	case DissonanceMoving:
		return "moving"
	case DissonancePulsating:
		return "pulsating"
	case DissonanceDisruptive:
		return "disruptive"
	default:
		return "unknown"
	}
}

// DissonanceShape is purely presentational.
type DissonanceShape uint8

const (
	ShapeTriangle DissonanceShape = iota
	ShapeSquare
	ShapeSpike
	ShapeShard
)

func (s DissonanceShape) String() string {
	switch s {
	case ShapeTriangle:
		return "triangle"
	case ShapeSquare:
		return "square"
	case ShapeSpike:
		return "spike"
	case ShapeShard:
		return "shard"
	default:
		return "unknown"
	}
}

// Dissonance is a hostile obstacle. Colliding with the core drains
// DisruptionLevel energy and knocks the core back.
type Dissonance struct {
	ID              string
	Kind            DissonanceKind
	Shape           DissonanceShape
	Pos             Vec
	Vel             Vec
	Radius          float64
	Rotation        float64
	RotationSpeed   float64
	PulseFrequency  float64
	PulsePhase      float64
	Counters        EnergyType
	DisruptionLevel float64
	Opacity         float64
	Age             float64
	LifeTime        float64
	Active          bool
}

// effectiveRadius is the collision radius including the pulse swell of
// pulsating kinds.
func (d *Dissonance) effectiveRadius() float64 {
	if d.Kind != DissonancePulsating {
		return d.Radius
	}
	return d.Radius * (1 + 0.25*sin01(d.Age*d.PulseFrequency+d.PulsePhase))
}

// AmplifierKind selects the pickup effect.
type AmplifierKind uint8

const (
	AmplifierEnergy AmplifierKind = iota
	AmplifierFrequency
	AmplifierAmplitude
	AmplifierResonance
	AmplifierBalance
	AmplifierClarity
	AmplifierExpansion
	AmplifierStability
)

func (k AmplifierKind) String() string {
	switch k {
	case AmplifierEnergy:
		return "energy"
	case AmplifierFrequency:
		return "frequency"
	case AmplifierAmplitude:
		return "amplitude"
	case AmplifierResonance:
		return "resonance"
	case AmplifierBalance:
		return "balance"
	case AmplifierClarity:
		return "clarity"
	case AmplifierExpansion:
		return "expansion"
	case AmplifierStability:
		return "stability"
	default:
		return "unknown"
	}
}

// amplifierWeights is the fixed spawn distribution. Cumulative sampling
// walks this table with one uniform draw; weights sum to 1.0.
var amplifierWeights = []struct {
	Kind   AmplifierKind
	Weight float64
}{
	{AmplifierEnergy, 0.25},
	{AmplifierFrequency, 0.15},
	{AmplifierAmplitude, 0.15},
	{AmplifierResonance, 0.10},
	{AmplifierBalance, 0.10},
	{AmplifierClarity, 0.10},
	{AmplifierExpansion, 0.10},
	{AmplifierStability, 0.05},
}

// Amplifier is a beneficial pickup.
type Amplifier struct {
	ID       string
	Kind     AmplifierKind
	Energy   EnergyType
	Pos      Vec
	Radius   float64
	Value    float64
	Duration float64
	Age      float64
	LifeTime float64
	Active   bool
}

// Resonator is a fixed node activated by passing wavefronts.
type Resonator struct {
	ID          string
	Pos         Vec
	Energy      EnergyType
	Radius      float64
	Activated   bool
	Intensity   float64
	Connections []string
}

// Wave is an expanding circular wavefront emitted from the core.
type Wave struct {
	ID          string
	Origin      Vec
	Energy      EnergyType
	Radius      float64
	MaxRadius   float64
	Speed       float64
	Opacity     float64
	baseOpacity float64
	Age         float64
	LifeTime    float64
	// Triggered records resonators this wavefront has already
	// activated, so one wave fires each resonator at most once.
	Triggered map[string]bool
	Active    bool
}

// Connection links two co-activated resonators of the same energy.
type Connection struct {
	ID         string
	Resonators [2]string
	Energy     EnergyType
	Intensity  float64
	Age        float64
	// Duration < 0 means the connection persists until an endpoint
	// deactivates.
	Duration float64
	Active   bool
}

func (c *Connection) touches(resonatorID string) bool {
	return c.Resonators[0] == resonatorID || c.Resonators[1] == resonatorID
}

// Pattern is a recognized group of three or more connections sharing an
// energy type. Identity is the sorted resonator id set.
type Pattern struct {
	ID          string
	Name        string
	Energy      EnergyType
	Resonators  []string // sorted
	Connections []string
	Value       float64
	ActiveTime  float64
}

// patternName derives a display name from energy type and group size.
func patternName(e EnergyType, size int) string {
	switch size {
	case 3:
		return e.String() + " triad"
	case 4:
		return e.String() + " quartet"
	case 5:
		return e.String() + " quintet"
	default:
		return fmt.Sprintf("%s ring of %d", e, size)
	}
}
