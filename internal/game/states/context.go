package states

import (
	"time"

	"github.com/mitchelldurbincs/HiveBoard/internal/game/core"
)

// SelectionContext carries what the states need to know about the current selection
type SelectionContext struct {
	// SessionID identifies the board session for published events
	SessionID string

	// Held is the piece currently following the pointer, or core.NoPiece
	Held core.PieceID

	// Origin is where Held was picked up from
	Origin Origin

	// HeldSince is when the current piece was picked up
	HeldSince time.Time
}

// NewSelectionContext creates an empty selection for a session
func NewSelectionContext(sessionID string) *SelectionContext {
	return &SelectionContext{
		SessionID: sessionID,
		Held:      core.NoPiece,
	}
}

// Hold records a piece as the pending selection. The machine still has to
// transition to PhaseHolding for it to take effect.
func (sc *SelectionContext) Hold(piece core.PieceID, origin Origin) {
	sc.Held = piece
	sc.Origin = origin
}

// IsHolding reports whether a piece is recorded
func (sc *SelectionContext) IsHolding() bool {
	return sc.Held != core.NoPiece
}

// HeldFor returns how long the current piece has been held
func (sc *SelectionContext) HeldFor() time.Duration {
	if sc.HeldSince.IsZero() {
		return 0
	}
	return time.Since(sc.HeldSince)
}

func (sc *SelectionContext) clear() {
	sc.Held = core.NoPiece
	sc.Origin = OriginNone
	sc.HeldSince = time.Time{}
}
