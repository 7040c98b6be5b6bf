package sim

// EnergyType classifies waves, resonators and amplifiers. Connections
// only form between resonators of the same type.
type EnergyType uint8

const (
	EnergyCalm EnergyType = iota
	EnergyVibrant
	EnergyIntense
)

// EnergyTypes lists all types in round-robin order, used when seeding
// the resonator ring and when sampling random entity energies.
var EnergyTypes = [...]EnergyType{EnergyCalm, EnergyVibrant, EnergyIntense}

func (e EnergyType) String() string {
	switch e {
	case EnergyCalm:
		return "calm"
	case EnergyVibrant:
		return "vibrant"
	case EnergyIntense:
		return "intense"
	default:
		return "unknown"
	}
}

// ParseEnergyType maps the wire name back to the type. Unknown names
// fall back to calm so a sloppy client cannot wedge a command.
func ParseEnergyType(s string) EnergyType {
	switch s {
	case "vibrant":
		return EnergyVibrant
	case "intense":
		return EnergyIntense
	default:
		return EnergyCalm
	}
}

// EnergyBalance tracks how the core's energy is distributed across the
// three types. Components are fractions that sum to ~1.
type EnergyBalance struct {
	Calm    float64 `json:"calm"`
	Vibrant float64 `json:"vibrant"`
	Intense float64 `json:"intense"`
}

// Total returns the sum of the three components.
func (b EnergyBalance) Total() float64 {
	return b.Calm + b.Vibrant + b.Intense
}

// Deviation returns the normalized absolute deviation from a perfect
// even split, in [0, 1]. 0 means perfectly balanced. A drained balance
// (total ~0) counts as fully imbalanced.
func (b EnergyBalance) Deviation() float64 {
	total := b.Total()
	if total < vecEpsilon {
		return 1
	}
	mean := total / 3
	dev := abs(b.Calm-mean) + abs(b.Vibrant-mean) + abs(b.Intense-mean)
	return clamp(dev/total, 0, 1)
}

// component returns an addressable view of one balance slot.
func (b *EnergyBalance) component(e EnergyType) *float64 {
	switch e {
	case EnergyVibrant:
		return &b.Vibrant
	case EnergyIntense:
		return &b.Intense
	default:
		return &b.Calm
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
