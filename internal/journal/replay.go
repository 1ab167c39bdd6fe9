package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/mitchelldurbincs/HiveBoard/internal/game"
)

var (
	// ErrUnknownCommand is returned for entries no engine command matches
	ErrUnknownCommand = errors.New("unknown journal command")
	// ErrReplayDiverged is returned when a replayed draw creates a different piece
	ErrReplayDiverged = errors.New("replay diverged from journal")
)

// Replay applies entries to e in order. The engine must start from the same
// inventory the journal was recorded with; piece ids are allocated in draw
// order, so the same commands rebuild the same board. It returns how many
// entries were applied before any failure.
func Replay(ctx context.Context, e *game.Engine, entries []Entry) (int, error) {
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := apply(e, entry); err != nil {
			return i, fmt.Errorf("replaying entry %d (%s): %w", entry.Seq, entry.Command, err)
		}
	}
	return len(entries), nil
}

func apply(e *game.Engine, entry Entry) error {
	switch entry.Command {
	case game.CommandSelect:
		return e.SelectPiece(entry.Piece)
	case game.CommandDraw:
		id, err := e.DrawFromPool()
		if err != nil {
			return err
		}
		if id != entry.Piece {
			return fmt.Errorf("%w: drew piece %d, journal has %d", ErrReplayDiverged, id, entry.Piece)
		}
		return nil
	case game.CommandPlace:
		if entry.Coord == nil {
			return fmt.Errorf("place entry %d has no coordinate", entry.Seq)
		}
		return e.PlaceHeldAt(*entry.Coord)
	case game.CommandStack:
		return e.StackHeldOn(entry.Piece)
	case game.CommandAdvance:
		_, err := e.AdvancePoolCursor()
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, entry.Command)
	}
}
