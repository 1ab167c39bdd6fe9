// Package game is the board engine: it owns the grid, every piece drawn so
// far and the pool, and applies selection, placement and stacking commands
// one at a time.
package game

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mitchelldurbincs/HiveBoard/internal/game/core"
	"github.com/mitchelldurbincs/HiveBoard/internal/game/events"
	"github.com/mitchelldurbincs/HiveBoard/internal/game/pool"
	"github.com/mitchelldurbincs/HiveBoard/internal/game/states"
)

// Command names used in errors, events and the journal
const (
	CommandSelect  = "select"
	CommandDraw    = "draw"
	CommandPlace   = "place"
	CommandStack   = "stack"
	CommandAdvance = "advance"
)

// Config holds everything needed to create an Engine
type Config struct {
	// SessionID is generated when empty
	SessionID string
	Inventory []pool.Group
	// Anchor maps grid coordinates to display anchors; nil uses DefaultLayout
	Anchor        core.AnchorFunc
	StagingAnchor core.Point
	StackOffset   core.Point
	HistorySize   int
	// Publisher receives board events; may be nil
	Publisher events.Publisher
}

// DefaultConfig returns the standard inventory and the default layout
func DefaultConfig() Config {
	return Config{
		Inventory:     pool.StandardInventory(),
		Anchor:        DefaultLayout().Anchor,
		StagingAnchor: core.Point{X: 50, Y: 50},
		StackOffset:   core.Point{X: 0, Y: -12},
		HistorySize:   states.DefaultHistorySize,
	}
}

// Engine is the board façade. All mutation goes through its commands;
// queries return copies and never change state.
type Engine struct {
	mu sync.Mutex

	sessionID string
	grid      *core.Grid
	table     *core.Table
	pool      *pool.Pool
	staging   core.CellID

	selection *states.SelectionContext
	machine   *states.StateMachine

	publisher events.Publisher
	outbox    *outbox
	seq       int
	drawn     int
}

// NewEngine creates a board session in the Idle phase
func NewEngine(cfg Config) (*Engine, error) {
	p, err := pool.New(cfg.Inventory)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if cfg.SessionID == "" {
		cfg.SessionID = uuid.NewString()
	}
	if cfg.Anchor == nil {
		cfg.Anchor = DefaultLayout().Anchor
	}

	grid := core.NewGrid(cfg.Anchor)
	box := &outbox{}
	selection := states.NewSelectionContext(cfg.SessionID)

	e := &Engine{
		sessionID: cfg.SessionID,
		grid:      grid,
		table:     core.NewTable(grid, cfg.StackOffset),
		pool:      p,
		staging:   grid.AddDetached(cfg.StagingAnchor),
		selection: selection,
		machine:   states.NewStateMachine(selection, box, cfg.HistorySize),
		publisher: cfg.Publisher,
		outbox:    box,
	}

	if e.publisher != nil {
		e.publisher.Publish(events.NewSessionStartedEvent(e.sessionID, p.Remaining(), len(p.Groups())))
	}
	return e, nil
}

// SessionID returns the identifier carried by every event of this session
func (e *Engine) SessionID() string {
	return e.sessionID
}

// SelectPiece picks up a piece already on the board. The top of the
// piece's stack is what gets held. Re-selecting the held piece releases it
// when it came from the pool and does nothing when it came from the board.
func (e *Engine) SelectPiece(id core.PieceID) error {
	e.mu.Lock()
	err := e.selectPiece(id)
	e.finish(CommandSelect, id, nil, err)
	e.mu.Unlock()
	e.flush()
	return err
}

func (e *Engine) selectPiece(id core.PieceID) error {
	piece, ok := e.table.Piece(id)
	if !ok {
		return core.WrapCommandError(CommandSelect, id, nil, core.ErrUnknownPiece)
	}
	if !piece.IsPlaced() {
		return core.WrapCommandError(CommandSelect, id, nil, core.ErrPieceNotPlaced)
	}
	top := e.table.TopOfStack(id)

	if e.machine.CurrentPhase() == states.PhaseHolding {
		if top != e.selection.Held {
			return core.WrapCommandError(CommandSelect, id, nil, core.ErrAlreadyHolding)
		}
		if e.selection.Origin == states.OriginPool {
			return e.release("pool piece re-selected")
		}
		return nil
	}

	e.selection.Hold(top, states.OriginBoard)
	if err := e.machine.TransitionTo(states.PhaseHolding, "piece selected"); err != nil {
		return core.WrapCommandError(CommandSelect, id, nil, err)
	}
	topPiece, _ := e.table.Piece(top)
	e.outbox.Publish(events.NewPieceSelectedEvent(e.sessionID, top, id, topPiece.Kind))
	return nil
}

// DrawFromPool creates a piece of the kind under the pool cursor, puts it on
// the staging cell and holds it. An exhausted pool yields ErrOutOfPieces.
func (e *Engine) DrawFromPool() (core.PieceID, error) {
	e.mu.Lock()
	id, err := e.drawFromPool()
	e.finish(CommandDraw, id, nil, err)
	e.mu.Unlock()
	e.flush()
	return id, err
}

func (e *Engine) drawFromPool() (core.PieceID, error) {
	if e.machine.CurrentPhase() == states.PhaseHolding {
		return core.NoPiece, core.WrapCommandError(CommandDraw, core.NoPiece, nil, core.ErrAlreadyHolding)
	}
	kind, err := e.pool.Draw()
	if err != nil {
		return core.NoPiece, core.WrapCommandError(CommandDraw, core.NoPiece, nil, err)
	}
	// Kinds coming out of a validated pool are always valid
	id, err := e.table.NewPiece(kind)
	if err != nil {
		return core.NoPiece, core.WrapCommandError(CommandDraw, core.NoPiece, nil, err)
	}
	if _, err := e.table.PlaceOnCell(id, e.staging); err != nil {
		return id, core.WrapCommandError(CommandDraw, id, nil, err)
	}
	e.drawn++

	e.selection.Hold(id, states.OriginPool)
	if err := e.machine.TransitionTo(states.PhaseHolding, "piece drawn"); err != nil {
		return id, core.WrapCommandError(CommandDraw, id, nil, err)
	}

	e.outbox.Publish(events.NewPieceDrawnEvent(e.sessionID, id, kind, e.pool.Remaining()))
	if e.pool.Exhausted() {
		e.outbox.Publish(events.NewPoolExhaustedEvent(e.sessionID, e.drawn))
	}
	return id, nil
}

// PlaceHeldAt puts the held piece on the grid cell at coord and returns to Idle
func (e *Engine) PlaceHeldAt(coord core.Axial) error {
	e.mu.Lock()
	held := e.selection.Held
	err := e.placeHeldAt(coord)
	e.finish(CommandPlace, held, &coord, err)
	e.mu.Unlock()
	e.flush()
	return err
}

func (e *Engine) placeHeldAt(coord core.Axial) error {
	if !e.machine.CurrentPhase().CanPlace() {
		return core.WrapCommandError(CommandPlace, core.NoPiece, &coord, core.ErrNothingHeld)
	}
	held := e.selection.Held
	cell, ok := e.grid.CellAt(coord)
	if !ok {
		return core.WrapCommandError(CommandPlace, held, &coord, core.ErrUnmaterializedCell)
	}
	placement, err := e.table.PlaceOnCell(held, cell)
	if err != nil {
		return core.WrapCommandError(CommandPlace, held, &coord, err)
	}

	piece, _ := e.table.Piece(held)
	e.outbox.Publish(events.NewPiecePlacedEvent(e.sessionID, held, piece.Kind, coord, placement.Uncovered))
	e.publishExpansion(coord, placement.Expanded)
	return e.release("piece placed")
}

// StackHeldOn stacks the held piece on top of target's tower and returns to
// Idle. Targeting the held piece's own tower releases it without moving.
func (e *Engine) StackHeldOn(target core.PieceID) error {
	e.mu.Lock()
	err := e.stackHeldOn(target)
	e.finish(CommandStack, target, nil, err)
	e.mu.Unlock()
	e.flush()
	return err
}

func (e *Engine) stackHeldOn(target core.PieceID) error {
	if !e.machine.CurrentPhase().CanPlace() {
		return core.WrapCommandError(CommandStack, target, nil, core.ErrNothingHeld)
	}
	held := e.selection.Held
	if _, ok := e.table.Piece(target); !ok {
		return core.WrapCommandError(CommandStack, target, nil, core.ErrUnknownPiece)
	}
	top := e.table.TopOfStack(target)
	if top == held {
		return e.release("stacked on itself")
	}

	placement, err := e.table.StackOn(held, top)
	if err != nil {
		return core.WrapCommandError(CommandStack, target, nil, err)
	}
	e.outbox.Publish(events.NewPieceStackedEvent(e.sessionID, held, top, len(e.table.Tower(held)), placement.Uncovered))
	return e.release("piece stacked")
}

// AdvancePoolCursor moves the pool cursor to the next group and returns the
// kind now under it. It is allowed in any phase.
func (e *Engine) AdvancePoolCursor() (core.Kind, error) {
	e.mu.Lock()
	kind, err := e.advancePoolCursor()
	e.finish(CommandAdvance, core.NoPiece, nil, err)
	e.mu.Unlock()
	e.flush()
	return kind, err
}

func (e *Engine) advancePoolCursor() (core.Kind, error) {
	kind, ok := e.pool.Advance()
	if !ok {
		return 0, core.WrapCommandError(CommandAdvance, core.NoPiece, nil, core.ErrOutOfPieces)
	}
	e.outbox.Publish(events.NewPoolAdvancedEvent(e.sessionID, kind, e.pool.Cursor()))
	return kind, nil
}

func (e *Engine) release(reason string) error {
	held := e.selection.Held
	if err := e.machine.TransitionTo(states.PhaseIdle, reason); err != nil {
		return err
	}
	e.outbox.Publish(events.NewSelectionReleasedEvent(e.sessionID, held, reason))
	return nil
}

func (e *Engine) publishExpansion(center core.Axial, created []core.CellID) {
	if len(created) == 0 {
		return
	}
	coords := make([]core.Axial, 0, len(created))
	for _, id := range created {
		if c, ok := e.grid.Cell(id); ok {
			coords = append(coords, c.Coord)
		}
	}
	e.outbox.Publish(events.NewGridExpandedEvent(e.sessionID, center, coords, e.grid.Len()))
}

// finish records the outcome of a command. Must be called with mu held.
func (e *Engine) finish(command string, piece core.PieceID, coord *core.Axial, err error) {
	if err != nil {
		e.outbox.Publish(events.NewCommandRejectedEvent(e.sessionID, command, err))
		return
	}
	e.seq++
	e.outbox.Publish(events.NewCommandAppliedEvent(e.sessionID, e.seq, command, piece, coord))
}

// flush hands buffered events to the publisher outside the lock, so
// subscribers may query the engine.
func (e *Engine) flush() {
	pending := e.outbox.drain()
	if e.publisher == nil {
		return
	}
	for _, ev := range pending {
		e.publisher.Publish(ev)
	}
}

// IsRejection reports whether err came from a command the engine refused
func IsRejection(err error) bool {
	var cmdErr *core.CommandError
	return errors.As(err, &cmdErr)
}

// outbox buffers events produced while the engine lock is held
type outbox struct {
	mu      sync.Mutex
	pending []events.Event
}

func (o *outbox) Publish(ev events.Event) {
	o.mu.Lock()
	o.pending = append(o.pending, ev)
	o.mu.Unlock()
}

func (o *outbox) drain() []events.Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := o.pending
	o.pending = nil
	return out
}
