package sim

// Phase is the lifecycle state of the session. Transitions happen only
// through engine commands and the tick itself; invalid command/phase
// pairs are logged no-ops.
type Phase uint8

const (
	PhaseLoading Phase = iota
	PhaseMenu
	PhasePlaying
	PhasePaused
	PhaseGameOver
	PhaseVictory
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseMenu:
		return "menu"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseGameOver:
		return "game_over"
	case PhaseVictory:
		return "victory"
	default:
		return "unknown"
	}
}

// terminal reports whether the phase ends a session.
func (p Phase) terminal() bool {
	return p == PhaseGameOver || p == PhaseVictory
}
