// Package rules lists the commands the board would currently accept. It
// knows the placement and stacking mechanics only; game rules such as
// movement or the queen deadline are not modelled.
package rules

import (
	"github.com/mitchelldurbincs/HiveBoard/internal/game"
	"github.com/mitchelldurbincs/HiveBoard/internal/game/core"
	"github.com/mitchelldurbincs/HiveBoard/internal/game/states"
)

// LegalMoveCalculator computes available commands from a snapshot
type LegalMoveCalculator struct{}

// NewLegalMoveCalculator creates a new legal move calculator
func NewLegalMoveCalculator() *LegalMoveCalculator {
	return &LegalMoveCalculator{}
}

// Moves is every argument each command would accept right now.
// Place and Stack are only filled while a piece is held.
type Moves struct {
	Draw   bool
	Next   core.Kind
	Select []core.PieceID
	Place  []core.Axial
	Stack  []core.PieceID
}

// Compute derives the available moves. The result is a pure function of the
// snapshot, so it can be evaluated off the engine lock.
func (lmc *LegalMoveCalculator) Compute(snap game.Snapshot) Moves {
	var m Moves
	onGrid := make(map[core.CellID]core.Axial)
	for _, c := range snap.Cells {
		if c.OnGrid {
			onGrid[c.ID] = c.Coord
		}
	}

	// Tower tops standing on the grid, and which grid cells are taken
	occupied := make(map[core.CellID]core.PieceID)
	var tops []core.PieceID
	for _, p := range snap.Pieces {
		if _, ok := onGrid[p.Cell]; ok {
			occupied[p.Cell] = p.ID
		}
		if !p.IsPlaced() || p.CoveredBy != core.NoPiece {
			continue
		}
		if _, ok := onGrid[bottomCell(snap.Pieces, p.ID)]; ok {
			tops = append(tops, p.ID)
		}
	}

	if snap.Phase != states.PhaseHolding {
		m.Draw = len(snap.Pool) > 0
		if m.Draw {
			m.Next = snap.Pool[snap.Cursor].Kind
		}
		m.Select = tops
		return m
	}

	held := snap.Held
	m.Select = []core.PieceID{held}
	for _, c := range snap.Cells {
		if !c.OnGrid {
			continue
		}
		if owner, taken := occupied[c.ID]; !taken || owner == held {
			m.Place = append(m.Place, c.Coord)
		}
	}
	for _, top := range tops {
		if top != held {
			m.Stack = append(m.Stack, top)
		}
	}
	return m
}

// bottomCell follows Covers links down to the tower's base cell
func bottomCell(pieces []core.Piece, id core.PieceID) core.CellID {
	for steps := 0; steps < len(pieces); steps++ {
		below := pieces[id].Covers
		if below == core.NoPiece {
			return pieces[id].Cell
		}
		id = below
	}
	return core.NoCell
}
