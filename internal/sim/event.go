package sim

import (
	"encoding/json"
	"log"
)

// EventType identifies what happened. uint8 keeps event records small;
// the String form is what goes over the wire and into the log file.
type EventType uint8

const (
	EventTick EventType = iota // internal tick boundary record
	EventGameStarted
	EventGamePaused
	EventGameResumed
	EventGameEnded
	EventCoreCollision
	EventPowerupCollected
	EventResonatorActivated
	EventResonatorConnected
	EventPatternCompleted
	EventHarmonyIncreased
	EventEnergyBalanced
	EventEnergyDepleted
)

func (t EventType) String() string {
	switch t {
	case EventTick:
		return "TICK"
	case EventGameStarted:
		return "GAME_STARTED"
	case EventGamePaused:
		return "GAME_PAUSED"
	case EventGameResumed:
		return "GAME_RESUMED"
	case EventGameEnded:
		return "GAME_ENDED"
	case EventCoreCollision:
		return "CORE_COLLISION"
	case EventPowerupCollected:
		return "POWERUP_COLLECTED"
	case EventResonatorActivated:
		return "RESONATOR_ACTIVATED"
	case EventResonatorConnected:
		return "RESONATOR_CONNECTED"
	case EventPatternCompleted:
		return "PATTERN_COMPLETED"
	case EventHarmonyIncreased:
		return "HARMONY_INCREASED"
	case EventEnergyBalanced:
		return "ENERGY_BALANCED"
	case EventEnergyDepleted:
		return "ENERGY_DEPLETED"
	default:
		return "UNKNOWN"
	}
}

// Event is one record on the bus. Sequence is monotonically increasing
// per engine; subscribers always observe events in sequence order.
type Event struct {
	Version   uint8           `json:"v"`
	Sequence  uint64          `json:"seq"`
	Type      EventType       `json:"-"`
	TypeName  string          `json:"type"`
	Tick      uint64          `json:"tick"`
	Timestamp int64           `json:"ts"` // unix nanos
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const eventVersion = 1

// encodePayload marshals a typed payload. Marshal failures are logged
// and produce a nil payload rather than dropping the event.
func encodePayload(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("⚠️ event payload marshal failed: %v", err)
		return nil
	}
	return data
}

// Typed payloads. One struct per event type that carries data.

type StartedPayload struct {
	Seed       int64 `json:"seed"`
	Resonators int   `json:"resonators"`
}

type EndedPayload struct {
	Reason   string  `json:"reason"`
	Score    float64 `json:"score"`
	Harmony  int     `json:"harmony"`
	Patterns int     `json:"patterns"`
}

type CollisionPayload struct {
	DissonanceID string  `json:"dissonanceId"`
	Kind         string  `json:"kind"`
	Damage       float64 `json:"damage"`
	EnergyAfter  float64 `json:"energyAfter"`
}

type PowerupPayload struct {
	AmplifierID string  `json:"amplifierId"`
	Kind        string  `json:"kind"`
	Value       float64 `json:"value"`
	Duration    float64 `json:"duration,omitempty"`
}

type ResonatorActivatedPayload struct {
	ResonatorID string `json:"resonatorId"`
	WaveID      string `json:"waveId"`
	Energy      string `json:"energy"`
}

type ConnectionPayload struct {
	ConnectionID string    `json:"connectionId"`
	Resonators   [2]string `json:"resonators"`
	Energy       string    `json:"energy"`
}

type PatternPayload struct {
	PatternID  string   `json:"patternId"`
	Name       string   `json:"name"`
	Energy     string   `json:"energy"`
	Resonators []string `json:"resonators"`
	Value      float64  `json:"value"`
}

type HarmonyPayload struct {
	Level    int `json:"level"`
	Patterns int `json:"patterns"`
}

type BalancePayload struct {
	Deviation float64 `json:"deviation"`
	Bonus     float64 `json:"bonus"`
}

type DepletedPayload struct {
	Score float64 `json:"score"`
}

type TickPayload struct {
	Seed    int64   `json:"seed"`
	Dt      float64 `json:"dt"`
	Score   float64 `json:"score"`
	Objects int     `json:"objects"`
}
