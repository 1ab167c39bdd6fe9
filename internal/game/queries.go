package game

import (
	"github.com/mitchelldurbincs/HiveBoard/internal/game/core"
	"github.com/mitchelldurbincs/HiveBoard/internal/game/pool"
	"github.com/mitchelldurbincs/HiveBoard/internal/game/states"
)

// Snapshot is a read-only copy of the whole board, taken under the engine lock
type Snapshot struct {
	Session     string
	Phase       states.Phase
	Held        core.PieceID
	Origin      states.Origin
	StagingCell core.CellID
	Pool        []pool.Group
	Cursor      int
	Remaining   int
	Cells       []core.Cell
	Pieces      []core.Piece
	Applied     int
}

// Snapshot copies the current board state
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Snapshot{
		Session:     e.sessionID,
		Phase:       e.machine.CurrentPhase(),
		Held:        e.selection.Held,
		Origin:      e.selection.Origin,
		StagingCell: e.staging,
		Pool:        e.pool.Groups(),
		Cursor:      e.pool.Cursor(),
		Remaining:   e.pool.Remaining(),
		Cells:       e.grid.Cells(),
		Pieces:      e.table.Pieces(),
		Applied:     e.seq,
	}
}

// Phase returns the current interaction phase
func (e *Engine) Phase() states.Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.CurrentPhase()
}

// Held returns the piece currently held, if any
func (e *Engine) Held() (core.PieceID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.machine.CurrentPhase() != states.PhaseHolding {
		return core.NoPiece, false
	}
	return e.selection.Held, true
}

// PoolPeek returns the kind the next draw would produce
func (e *Engine) PoolPeek() (core.Kind, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pool.Peek()
}

// PoolRemaining returns how many pieces are left to draw
func (e *Engine) PoolRemaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pool.Remaining()
}

// Cells returns every cell in the arena, including the staging and badge cells
func (e *Engine) Cells() []core.Cell {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.Cells()
}

// GridCells returns only the cells that have coordinates
func (e *Engine) GridCells() []core.Cell {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.GridCells()
}

// CellAt looks up a materialized grid cell
func (e *Engine) CellAt(coord core.Axial) (core.Cell, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id, ok := e.grid.CellAt(coord)
	if !ok {
		return core.Cell{}, false
	}
	return e.grid.Cell(id)
}

// Pieces returns every piece drawn so far in creation order
func (e *Engine) Pieces() []core.Piece {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.table.Pieces()
}

// Piece returns a single piece
func (e *Engine) Piece(id core.PieceID) (core.Piece, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.table.Piece(id)
}

// PieceAt returns the piece standing directly on the grid cell at coord
func (e *Engine) PieceAt(coord core.Axial) (core.PieceID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pieceAt(coord)
}

func (e *Engine) pieceAt(coord core.Axial) (core.PieceID, bool) {
	cell, ok := e.grid.CellAt(coord)
	if !ok {
		return core.NoPiece, false
	}
	return e.table.OccupantOf(cell)
}

// TopAt returns the top of the tower standing on coord
func (e *Engine) TopAt(coord core.Axial) (core.PieceID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	bottom, ok := e.pieceAt(coord)
	if !ok {
		return core.NoPiece, false
	}
	return e.table.TopOfStack(bottom), true
}

// TopOfStack resolves a piece to the outermost piece of its tower
func (e *Engine) TopOfStack(id core.PieceID) core.PieceID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.table.TopOfStack(id)
}

// StackOf lists the tower containing id from bottom to top
func (e *Engine) StackOf(id core.PieceID) []core.PieceID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.table.Tower(id)
}

// History returns the recorded phase transitions
func (e *Engine) History() []states.Transition {
	return e.machine.GetHistory()
}
