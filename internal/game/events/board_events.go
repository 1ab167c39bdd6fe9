package events

import (
	"github.com/mitchelldurbincs/HiveBoard/internal/game/core"
)

// Event type constants
const (
	TypeSessionStarted    = "session.started"
	TypePieceDrawn        = "piece.drawn"
	TypePieceSelected     = "piece.selected"
	TypePiecePlaced       = "piece.placed"
	TypePieceStacked      = "piece.stacked"
	TypeSelectionReleased = "selection.released"
	TypePoolAdvanced      = "pool.advanced"
	TypePoolExhausted     = "pool.exhausted"
	TypeGridExpanded      = "grid.expanded"
	TypeCommandApplied    = "command.applied"
	TypeCommandRejected   = "command.rejected"
	TypeStateTransition   = "state.transition"
)

// SessionStartedEvent is published once when a board engine is created
type SessionStartedEvent struct {
	BaseEvent
	PoolSize   int
	PoolGroups int
}

// NewSessionStartedEvent creates a new SessionStartedEvent
func NewSessionStartedEvent(sessionID string, poolSize, poolGroups int) *SessionStartedEvent {
	return &SessionStartedEvent{
		BaseEvent:  newBase(TypeSessionStarted, sessionID),
		PoolSize:   poolSize,
		PoolGroups: poolGroups,
	}
}

// PieceDrawnEvent is published when a new piece leaves the pool
type PieceDrawnEvent struct {
	BaseEvent
	Piece     core.PieceID
	Kind      core.Kind
	Remaining int
}

// NewPieceDrawnEvent creates a new PieceDrawnEvent
func NewPieceDrawnEvent(sessionID string, piece core.PieceID, kind core.Kind, remaining int) *PieceDrawnEvent {
	return &PieceDrawnEvent{
		BaseEvent: newBase(TypePieceDrawn, sessionID),
		Piece:     piece,
		Kind:      kind,
		Remaining: remaining,
	}
}

// PieceSelectedEvent is published when a piece already on the board is picked up
type PieceSelectedEvent struct {
	BaseEvent
	Piece     core.PieceID
	Requested core.PieceID
	Kind      core.Kind
}

// NewPieceSelectedEvent creates a new PieceSelectedEvent. Requested is the
// piece the caller named; Piece is the top of its stack.
func NewPieceSelectedEvent(sessionID string, piece, requested core.PieceID, kind core.Kind) *PieceSelectedEvent {
	return &PieceSelectedEvent{
		BaseEvent: newBase(TypePieceSelected, sessionID),
		Piece:     piece,
		Requested: requested,
		Kind:      kind,
	}
}

// PiecePlacedEvent is published when the held piece lands on a grid cell
type PiecePlacedEvent struct {
	BaseEvent
	Piece     core.PieceID
	Kind      core.Kind
	Coord     core.Axial
	Uncovered core.PieceID
}

// NewPiecePlacedEvent creates a new PiecePlacedEvent
func NewPiecePlacedEvent(sessionID string, piece core.PieceID, kind core.Kind, coord core.Axial, uncovered core.PieceID) *PiecePlacedEvent {
	return &PiecePlacedEvent{
		BaseEvent: newBase(TypePiecePlaced, sessionID),
		Piece:     piece,
		Kind:      kind,
		Coord:     coord,
		Uncovered: uncovered,
	}
}

// PieceStackedEvent is published when the held piece is stacked on another
type PieceStackedEvent struct {
	BaseEvent
	Piece     core.PieceID
	On        core.PieceID
	Height    int
	Uncovered core.PieceID
}

// NewPieceStackedEvent creates a new PieceStackedEvent
func NewPieceStackedEvent(sessionID string, piece, on core.PieceID, height int, uncovered core.PieceID) *PieceStackedEvent {
	return &PieceStackedEvent{
		BaseEvent: newBase(TypePieceStacked, sessionID),
		Piece:     piece,
		On:        on,
		Height:    height,
		Uncovered: uncovered,
	}
}

// SelectionReleasedEvent is published when the held piece is let go
type SelectionReleasedEvent struct {
	BaseEvent
	Piece  core.PieceID
	Reason string
}

// NewSelectionReleasedEvent creates a new SelectionReleasedEvent
func NewSelectionReleasedEvent(sessionID string, piece core.PieceID, reason string) *SelectionReleasedEvent {
	return &SelectionReleasedEvent{
		BaseEvent: newBase(TypeSelectionReleased, sessionID),
		Piece:     piece,
		Reason:    reason,
	}
}

// PoolAdvancedEvent is published when the pool cursor moves to another group
type PoolAdvancedEvent struct {
	BaseEvent
	Kind   core.Kind
	Cursor int
}

// NewPoolAdvancedEvent creates a new PoolAdvancedEvent
func NewPoolAdvancedEvent(sessionID string, kind core.Kind, cursor int) *PoolAdvancedEvent {
	return &PoolAdvancedEvent{
		BaseEvent: newBase(TypePoolAdvanced, sessionID),
		Kind:      kind,
		Cursor:    cursor,
	}
}

// PoolExhaustedEvent is published when the last piece is drawn
type PoolExhaustedEvent struct {
	BaseEvent
	PiecesDrawn int
}

// NewPoolExhaustedEvent creates a new PoolExhaustedEvent
func NewPoolExhaustedEvent(sessionID string, drawn int) *PoolExhaustedEvent {
	return &PoolExhaustedEvent{
		BaseEvent:   newBase(TypePoolExhausted, sessionID),
		PiecesDrawn: drawn,
	}
}

// GridExpandedEvent is published when placing a piece materializes new cells
type GridExpandedEvent struct {
	BaseEvent
	Center  core.Axial
	Created []core.Axial
	Total   int
}

// NewGridExpandedEvent creates a new GridExpandedEvent
func NewGridExpandedEvent(sessionID string, center core.Axial, created []core.Axial, total int) *GridExpandedEvent {
	return &GridExpandedEvent{
		BaseEvent: newBase(TypeGridExpanded, sessionID),
		Center:    center,
		Created:   created,
		Total:     total,
	}
}

// CommandAppliedEvent is published after every accepted command.
// It carries exactly what is needed to replay the command.
type CommandAppliedEvent struct {
	BaseEvent
	Seq     int
	Command string
	Piece   core.PieceID
	Coord   *core.Axial
}

// NewCommandAppliedEvent creates a new CommandAppliedEvent
func NewCommandAppliedEvent(sessionID string, seq int, command string, piece core.PieceID, coord *core.Axial) *CommandAppliedEvent {
	return &CommandAppliedEvent{
		BaseEvent: newBase(TypeCommandApplied, sessionID),
		Seq:       seq,
		Command:   command,
		Piece:     piece,
		Coord:     coord,
	}
}

// CommandRejectedEvent is published when a command leaves the board unchanged
type CommandRejectedEvent struct {
	BaseEvent
	Command string
	Err     error
}

// NewCommandRejectedEvent creates a new CommandRejectedEvent
func NewCommandRejectedEvent(sessionID, command string, err error) *CommandRejectedEvent {
	return &CommandRejectedEvent{
		BaseEvent: newBase(TypeCommandRejected, sessionID),
		Command:   command,
		Err:       err,
	}
}

// StateTransitionEvent is published when the interaction state machine changes phase
type StateTransitionEvent struct {
	BaseEvent
	FromPhase string
	ToPhase   string
	Reason    string
}

// NewStateTransitionEvent creates a new StateTransitionEvent
func NewStateTransitionEvent(sessionID, fromPhase, toPhase, reason string) *StateTransitionEvent {
	return &StateTransitionEvent{
		BaseEvent: newBase(TypeStateTransition, sessionID),
		FromPhase: fromPhase,
		ToPhase:   toPhase,
		Reason:    reason,
	}
}
