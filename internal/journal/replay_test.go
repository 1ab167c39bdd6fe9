package journal

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/HiveBoard/internal/game"
	"github.com/mitchelldurbincs/HiveBoard/internal/game/core"
	"github.com/mitchelldurbincs/HiveBoard/internal/game/events"
	"github.com/mitchelldurbincs/HiveBoard/internal/testutil"
)

func recordedEntries(rec *testutil.EventRecorder) []Entry {
	var entries []Entry
	for _, ev := range rec.Events() {
		if applied, ok := ev.(*events.CommandAppliedEvent); ok {
			entries = append(entries, FromEvent(applied))
		}
	}
	return entries
}

func playSession(t *testing.T, e *game.Engine) {
	t.Helper()
	a := testutil.DrawAndPlace(t, e, core.Axial{})
	b := testutil.DrawAndPlace(t, e, core.Axial{Col: 1, Row: 0})
	_, err := e.AdvancePoolCursor()
	require.NoError(t, err)
	testutil.DrawAndPlace(t, e, core.Axial{Col: 0, Row: 1})
	require.NoError(t, e.SelectPiece(a))
	require.NoError(t, e.StackHeldOn(b))

	// Rejected commands never reach the journal
	assert.Error(t, e.PlaceHeldAt(core.Axial{Col: 9, Row: 9}))
}

func TestReplayRebuildsTheBoard(t *testing.T) {
	original, rec := testutil.NewTestEngine(t)
	playSession(t, original)
	entries := recordedEntries(rec)
	require.Len(t, entries, 9)

	fresh, _ := testutil.NewTestEngine(t)
	n, err := Replay(context.Background(), fresh, entries)
	require.NoError(t, err)
	assert.Equal(t, len(entries), n)

	want := original.Snapshot()
	got := fresh.Snapshot()
	assert.Equal(t, want.Pieces, got.Pieces)
	assert.Equal(t, want.Cells, got.Cells)
	assert.Equal(t, want.Pool, got.Pool)
	assert.Equal(t, want.Cursor, got.Cursor)
	assert.Equal(t, want.Phase, got.Phase)
}

func TestReplayThroughFileStore(t *testing.T) {
	original, rec := testutil.NewTestEngine(t)
	playSession(t, original)

	ctx := context.Background()
	store, err := OpenFile(filepath.Join(t.TempDir(), "j.jsonl"), testutil.NopLogger())
	require.NoError(t, err)
	defer store.Close()
	for _, e := range recordedEntries(rec) {
		require.NoError(t, store.Append(ctx, e))
	}

	entries, err := store.Entries(ctx, testutil.TestSessionID)
	require.NoError(t, err)

	fresh, _ := testutil.NewTestEngine(t)
	_, err = Replay(ctx, fresh, entries)
	require.NoError(t, err)
	assert.Equal(t, original.Snapshot().Pieces, fresh.Snapshot().Pieces)
}

func TestReplayFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("diverged draw", func(t *testing.T) {
		e, _ := testutil.NewTestEngine(t)
		n, err := Replay(ctx, e, []Entry{{Seq: 1, Command: game.CommandDraw, Piece: 5}})
		assert.ErrorIs(t, err, ErrReplayDiverged)
		assert.Equal(t, 0, n)
	})

	t.Run("unknown command", func(t *testing.T) {
		e, _ := testutil.NewTestEngine(t)
		_, err := Replay(ctx, e, []Entry{{Seq: 1, Command: "teleport"}})
		assert.ErrorIs(t, err, ErrUnknownCommand)
	})

	t.Run("engine rejection", func(t *testing.T) {
		e, _ := testutil.NewTestEngine(t)
		n, err := Replay(ctx, e, []Entry{
			{Seq: 1, Command: game.CommandDraw, Piece: 0},
			{Seq: 2, Command: game.CommandDraw, Piece: 1},
		})
		assert.ErrorIs(t, err, core.ErrAlreadyHolding)
		assert.Equal(t, 1, n)
	})

	t.Run("place without coordinate", func(t *testing.T) {
		e, _ := testutil.NewTestEngine(t)
		_, err := Replay(ctx, e, []Entry{
			{Seq: 1, Command: game.CommandDraw, Piece: 0},
			{Seq: 2, Command: game.CommandPlace, Piece: 0},
		})
		assert.ErrorContains(t, err, "no coordinate")
	})

	t.Run("cancelled", func(t *testing.T) {
		e, _ := testutil.NewTestEngine(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		n, err := Replay(cctx, e, []Entry{{Seq: 1, Command: game.CommandDraw}})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, n)
	})
}
