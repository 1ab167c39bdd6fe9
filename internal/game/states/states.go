package states

import (
	"errors"
	"time"
)

var (
	errNoHeldPiece = errors.New("holding requires a held piece")
	errNoOrigin    = errors.New("holding requires a known origin")
)

// IdleState is the resting phase: no piece follows the pointer
type IdleState struct{}

func NewIdleState() State {
	return &IdleState{}
}

func (s *IdleState) Phase() Phase {
	return PhaseIdle
}

func (s *IdleState) Enter(ctx *SelectionContext) error {
	ctx.clear()
	return nil
}

func (s *IdleState) Exit(ctx *SelectionContext) error {
	return nil
}

func (s *IdleState) Validate(ctx *SelectionContext) error {
	return nil
}

// HoldingState is entered after a draw or a board selection
type HoldingState struct{}

func NewHoldingState() State {
	return &HoldingState{}
}

func (s *HoldingState) Phase() Phase {
	return PhaseHolding
}

func (s *HoldingState) Enter(ctx *SelectionContext) error {
	ctx.HeldSince = time.Now()
	return nil
}

func (s *HoldingState) Exit(ctx *SelectionContext) error {
	return nil
}

func (s *HoldingState) Validate(ctx *SelectionContext) error {
	if !ctx.IsHolding() {
		return errNoHeldPiece
	}
	if ctx.Origin == OriginNone {
		return errNoOrigin
	}
	return nil
}
