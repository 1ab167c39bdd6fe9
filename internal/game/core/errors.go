package core

import (
	"errors"
	"fmt"
)

var (
	ErrStackViolation     = errors.New("cannot unstack a covered piece")
	ErrTargetCovered      = errors.New("target piece is already covered")
	ErrOutOfPieces        = errors.New("piece pool is exhausted")
	ErrUnmaterializedCell = errors.New("cell not materialized")
	ErrCellOccupied       = errors.New("cell already occupied")
	ErrCellOnGrid         = errors.New("cell belongs to the grid")
	ErrPieceNotPlaced     = errors.New("piece is not placed")
	ErrUnknownPiece       = errors.New("unknown piece")
	ErrUnknownCell        = errors.New("unknown cell")
	ErrNothingHeld        = errors.New("no piece is held")
	ErrAlreadyHolding     = errors.New("a piece is already held")
	ErrInvalidKind        = errors.New("invalid piece kind")
	ErrInvalidInventory   = errors.New("invalid pool inventory")
)

// CommandError wraps a rejected board command with the context it was issued in
type CommandError struct {
	Command string
	Piece   PieceID
	Coord   *Axial
	Err     error
}

func (e *CommandError) Error() string {
	switch {
	case e.Coord != nil && e.Piece != NoPiece:
		return fmt.Sprintf("%s piece %d at %s: %v", e.Command, e.Piece, e.Coord, e.Err)
	case e.Coord != nil:
		return fmt.Sprintf("%s at %s: %v", e.Command, e.Coord, e.Err)
	case e.Piece != NoPiece:
		return fmt.Sprintf("%s piece %d: %v", e.Command, e.Piece, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// WrapCommandError attaches command context to err. A nil err stays nil.
func WrapCommandError(command string, piece PieceID, coord *Axial, err error) error {
	if err == nil {
		return nil
	}
	return &CommandError{Command: command, Piece: piece, Coord: coord, Err: err}
}
