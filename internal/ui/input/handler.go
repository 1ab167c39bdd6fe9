// Package input turns console lines into board commands. It stands in for
// the window layer: clicks arrive as surface coordinates and are mapped to
// hexes with the same layout the engine anchors cells with.
package input

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HiveBoard/internal/game"
	"github.com/mitchelldurbincs/HiveBoard/internal/game/core"
	"github.com/mitchelldurbincs/HiveBoard/internal/game/dump"
	"github.com/mitchelldurbincs/HiveBoard/internal/game/rules"
)

var (
	// ErrQuit is returned by Execute for the quit command
	ErrQuit = errors.New("quit requested")
	// ErrUsage is returned for malformed commands
	ErrUsage = errors.New("usage")
)

const helpText = `Commands:
  draw               draw the next piece from the pool and hold it
  next               advance the pool cursor to the next kind
  select <id>        pick up the top of the stack containing piece <id>
  place <col> <row>  put the held piece on the cell at (col,row)
  stack <id>         put the held piece on top of piece <id>'s stack
  click <x> <y>      select, place or stack at a surface point
  moves              list what each command would accept now
  dump [text|yaml]   print the board
  help               show this help
  quit               leave`

// Handler applies text commands to an engine and reports outcomes to out
type Handler struct {
	engine     *game.Engine
	moveCalc   *rules.LegalMoveCalculator
	layout     game.Layout
	out        io.Writer
	logger     zerolog.Logger
	dumpFormat dump.Format
}

// NewHandler creates a handler. layout must be the one the engine anchors with
// for click commands to land on the right hex.
func NewHandler(engine *game.Engine, layout game.Layout, out io.Writer, logger zerolog.Logger) *Handler {
	return &Handler{
		engine:     engine,
		moveCalc:   rules.NewLegalMoveCalculator(),
		layout:     layout,
		out:        out,
		logger:     logger.With().Str("component", "input").Logger(),
		dumpFormat: dump.FormatText,
	}
}

// SetDumpFormat changes the format used by a bare "dump"
func (h *Handler) SetDumpFormat(f dump.Format) {
	h.dumpFormat = f
}

// Run reads commands from r until quit, EOF or ctx is done. Rejected and
// malformed commands are reported and the loop continues.
func (h *Handler) Run(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	h.prompt()
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := h.Execute(scanner.Text())
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			h.report(err)
		}
		h.prompt()
	}
	return scanner.Err()
}

// Execute runs a single command line. Blank lines are ignored.
func (h *Handler) Execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	h.logger.Debug().Str("command", cmd).Strs("args", args).Msg("Console command")

	switch cmd {
	case "draw", "d":
		return h.draw()
	case "next", "n":
		return h.next()
	case "select", "s":
		id, err := pieceArg(cmd, args)
		if err != nil {
			return err
		}
		return h.selectPiece(id)
	case "place", "p":
		coord, err := coordArgs(cmd, args)
		if err != nil {
			return err
		}
		return h.place(coord)
	case "stack":
		id, err := pieceArg(cmd, args)
		if err != nil {
			return err
		}
		return h.stack(id)
	case "click", "c":
		p, err := pointArgs(cmd, args)
		if err != nil {
			return err
		}
		return h.click(p)
	case "moves", "m":
		h.moves()
		return nil
	case "dump":
		format := h.dumpFormat
		if len(args) > 0 {
			f, err := dump.ParseFormat(args[0])
			if err != nil {
				return fmt.Errorf("%w: dump [text|yaml]: %v", ErrUsage, err)
			}
			format = f
		}
		return dump.Write(h.out, h.engine.Snapshot(), format)
	case "help", "?":
		fmt.Fprintln(h.out, helpText)
		return nil
	case "quit", "exit", "q":
		return ErrQuit
	default:
		return fmt.Errorf("%w: unknown command %q, try help", ErrUsage, cmd)
	}
}

func (h *Handler) draw() error {
	id, err := h.engine.DrawFromPool()
	if err != nil {
		return err
	}
	piece, _ := h.engine.Piece(id)
	fmt.Fprintf(h.out, "Drew %s (piece %d), %s left\n",
		piece.Kind, id, humanize.Comma(int64(h.engine.PoolRemaining())))
	return nil
}

func (h *Handler) next() error {
	kind, err := h.engine.AdvancePoolCursor()
	if err != nil {
		return err
	}
	fmt.Fprintf(h.out, "Next draw: %s\n", kind)
	return nil
}

func (h *Handler) selectPiece(id core.PieceID) error {
	if err := h.engine.SelectPiece(id); err != nil {
		return err
	}
	if held, ok := h.engine.Held(); ok {
		fmt.Fprintf(h.out, "Holding piece %d\n", held)
	} else {
		fmt.Fprintln(h.out, "Released")
	}
	return nil
}

func (h *Handler) place(coord core.Axial) error {
	held, _ := h.engine.Held()
	if err := h.engine.PlaceHeldAt(coord); err != nil {
		return err
	}
	fmt.Fprintf(h.out, "Placed piece %d at %s\n", held, coord)
	return nil
}

func (h *Handler) stack(target core.PieceID) error {
	held, _ := h.engine.Held()
	if err := h.engine.StackHeldOn(target); err != nil {
		return err
	}
	height := len(h.engine.StackOf(held))
	fmt.Fprintf(h.out, "Piece %d is now %s in its stack\n", held, humanize.Ordinal(height))
	return nil
}

// click acts on the hex under p the way a mouse press would: while holding,
// it stacks onto an occupied hex or places on an empty one; otherwise it
// picks up whatever is on top there.
func (h *Handler) click(p core.Point) error {
	coord := h.layout.Nearest(p)
	top, occupied := h.engine.TopAt(coord)

	if _, holding := h.engine.Held(); holding {
		if occupied {
			return h.stack(top)
		}
		return h.place(coord)
	}
	if !occupied {
		fmt.Fprintf(h.out, "Nothing at %s\n", coord)
		return nil
	}
	return h.selectPiece(top)
}

func (h *Handler) moves() {
	m := h.moveCalc.Compute(h.engine.Snapshot())
	if m.Draw {
		fmt.Fprintf(h.out, "draw: %s\n", m.Next)
	}
	if len(m.Select) > 0 {
		fmt.Fprintf(h.out, "select: %s\n", joinIDs(m.Select))
	}
	if len(m.Place) > 0 {
		coords := make([]string, len(m.Place))
		for i, c := range m.Place {
			coords[i] = c.String()
		}
		fmt.Fprintf(h.out, "place: %s\n", strings.Join(coords, " "))
	}
	if len(m.Stack) > 0 {
		fmt.Fprintf(h.out, "stack: %s\n", joinIDs(m.Stack))
	}
}

func joinIDs(ids []core.PieceID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(int(id))
	}
	return strings.Join(parts, " ")
}

func (h *Handler) report(err error) {
	switch {
	case errors.Is(err, core.ErrOutOfPieces):
		fmt.Fprintln(h.out, "The pool is empty")
	case errors.Is(err, ErrUsage):
		fmt.Fprintln(h.out, err)
	case game.IsRejection(err):
		fmt.Fprintf(h.out, "Rejected: %v\n", err)
	default:
		h.logger.Error().Err(err).Msg("Command failed")
		fmt.Fprintf(h.out, "Error: %v\n", err)
	}
}

func (h *Handler) prompt() {
	fmt.Fprint(h.out, "> ")
}

func pieceArg(cmd string, args []string) (core.PieceID, error) {
	if len(args) != 1 {
		return core.NoPiece, fmt.Errorf("%w: %s <piece id>", ErrUsage, cmd)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return core.NoPiece, fmt.Errorf("%w: %s <piece id>: %q is not a number", ErrUsage, cmd, args[0])
	}
	return core.PieceID(n), nil
}

func coordArgs(cmd string, args []string) (core.Axial, error) {
	if len(args) != 2 {
		return core.Axial{}, fmt.Errorf("%w: %s <col> <row>", ErrUsage, cmd)
	}
	col, err1 := strconv.Atoi(args[0])
	row, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		return core.Axial{}, fmt.Errorf("%w: %s <col> <row> takes integers", ErrUsage, cmd)
	}
	return core.Axial{Col: col, Row: row}, nil
}

func pointArgs(cmd string, args []string) (core.Point, error) {
	if len(args) != 2 {
		return core.Point{}, fmt.Errorf("%w: %s <x> <y>", ErrUsage, cmd)
	}
	x, err1 := strconv.ParseFloat(args[0], 64)
	y, err2 := strconv.ParseFloat(args[1], 64)
	if err1 != nil || err2 != nil {
		return core.Point{}, fmt.Errorf("%w: %s <x> <y> takes numbers", ErrUsage, cmd)
	}
	return core.Point{X: x, Y: y}, nil
}
