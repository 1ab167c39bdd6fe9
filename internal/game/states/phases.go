package states

import "fmt"

// Phase is the interaction phase of a board session
type Phase int

const (
	// PhaseIdle - nothing is held; draw or select to pick a piece up
	PhaseIdle Phase = iota

	// PhaseHolding - exactly one piece is held and follows the pointer
	PhaseHolding
)

// String returns the string representation of a Phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseHolding:
		return "Holding"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// CanDraw returns true if a piece may be drawn from the pool in this phase
func (p Phase) CanDraw() bool {
	return p == PhaseIdle
}

// CanPlace returns true if a place or stack command has something to act on
func (p Phase) CanPlace() bool {
	return p == PhaseHolding
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p Phase) AllowedTransitions() []Phase {
	switch p {
	case PhaseIdle:
		return []Phase{PhaseHolding}
	case PhaseHolding:
		return []Phase{PhaseIdle}
	default:
		return []Phase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p Phase) CanTransitionTo(target Phase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}

// ParsePhase converts a string to a Phase
func ParsePhase(s string) Phase {
	switch s {
	case "Holding":
		return PhaseHolding
	default:
		return PhaseIdle
	}
}

// Origin records where the held piece came from
type Origin int

const (
	OriginNone Origin = iota
	OriginPool
	OriginBoard
)

func (o Origin) String() string {
	switch o {
	case OriginPool:
		return "pool"
	case OriginBoard:
		return "board"
	default:
		return "none"
	}
}
