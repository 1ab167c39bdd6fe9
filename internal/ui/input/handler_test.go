package input_test

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/HiveBoard/internal/game"
	"github.com/mitchelldurbincs/HiveBoard/internal/game/core"
	"github.com/mitchelldurbincs/HiveBoard/internal/game/dump"
	"github.com/mitchelldurbincs/HiveBoard/internal/game/states"
	"github.com/mitchelldurbincs/HiveBoard/internal/testutil"
	"github.com/mitchelldurbincs/HiveBoard/internal/ui/input"
)

func newHandler(t *testing.T) (*input.Handler, *game.Engine, *bytes.Buffer) {
	t.Helper()
	e, _ := testutil.NewTestEngine(t)
	var out bytes.Buffer
	return input.NewHandler(e, game.DefaultLayout(), &out, testutil.NopLogger()), e, &out
}

func TestExecuteDrawAndPlace(t *testing.T) {
	h, e, out := newHandler(t)

	require.NoError(t, h.Execute("draw"))
	assert.Contains(t, out.String(), "Drew Queen (piece 0), 10 left")
	assert.Equal(t, states.PhaseHolding, e.Phase())

	require.NoError(t, h.Execute("place 0 0"))
	assert.Contains(t, out.String(), "Placed piece 0 at (0,0)")

	top, ok := e.TopAt(core.Axial{})
	require.True(t, ok)
	assert.Equal(t, core.PieceID(0), top)
}

func TestExecuteNext(t *testing.T) {
	h, e, out := newHandler(t)

	require.NoError(t, h.Execute("next"))
	assert.Contains(t, out.String(), "Next draw: Spider")

	kind, ok := e.PoolPeek()
	require.True(t, ok)
	assert.Equal(t, core.KindSpider, kind)
}

func TestExecuteSelectAndStack(t *testing.T) {
	h, e, out := newHandler(t)
	require.NoError(t, h.Execute("draw"))
	require.NoError(t, h.Execute("place 0 0"))
	require.NoError(t, h.Execute("draw"))
	require.NoError(t, h.Execute("place 1 0"))

	require.NoError(t, h.Execute("select 1"))
	assert.Contains(t, out.String(), "Holding piece 1")

	require.NoError(t, h.Execute("stack 0"))
	assert.Contains(t, out.String(), "Piece 1 is now 2nd in its stack")
	assert.Equal(t, []core.PieceID{0, 1}, e.StackOf(0))
}

func TestExecuteReturnsRejections(t *testing.T) {
	h, _, _ := newHandler(t)

	err := h.Execute("place 0 0")
	assert.ErrorIs(t, err, core.ErrNothingHeld)
	assert.True(t, game.IsRejection(err))

	err = h.Execute("select 42")
	assert.ErrorIs(t, err, core.ErrUnknownPiece)
}

func TestExecuteUsageErrors(t *testing.T) {
	h, _, _ := newHandler(t)

	for _, line := range []string{
		"select",
		"select x",
		"place 1",
		"place a b",
		"stack",
		"click 1",
		"dump json",
		"fly 1 2",
	} {
		t.Run(line, func(t *testing.T) {
			assert.ErrorIs(t, h.Execute(line), input.ErrUsage)
		})
	}
}

func TestExecuteMisc(t *testing.T) {
	h, _, out := newHandler(t)

	assert.NoError(t, h.Execute("   "))
	assert.ErrorIs(t, h.Execute("quit"), input.ErrQuit)
	assert.ErrorIs(t, h.Execute("EXIT"), input.ErrQuit)

	require.NoError(t, h.Execute("help"))
	assert.Contains(t, out.String(), "place <col> <row>")
}

func TestExecuteMoves(t *testing.T) {
	h, _, out := newHandler(t)

	require.NoError(t, h.Execute("moves"))
	assert.Equal(t, "draw: Queen\n", out.String())

	require.NoError(t, h.Execute("draw"))
	out.Reset()
	require.NoError(t, h.Execute("moves"))
	assert.Equal(t, "select: 0\nplace: (0,0)\n", out.String())
}

func TestExecuteDump(t *testing.T) {
	h, _, out := newHandler(t)
	require.NoError(t, h.Execute("draw"))
	require.NoError(t, h.Execute("place 0 0"))

	require.NoError(t, h.Execute("dump"))
	assert.Contains(t, out.String(), "Grid debug")

	out.Reset()
	require.NoError(t, h.Execute("dump yaml"))
	assert.Contains(t, out.String(), "session: "+testutil.TestSessionID)

	out.Reset()
	h.SetDumpFormat(dump.FormatYAML)
	require.NoError(t, h.Execute("dump"))
	assert.Contains(t, out.String(), "phase: Idle")
}

func TestClick(t *testing.T) {
	h, e, out := newHandler(t)
	layout := game.DefaultLayout()
	at := func(c core.Axial) string {
		p := layout.Anchor(c)
		return strings.Join([]string{"click", ftoa(p.X), ftoa(p.Y)}, " ")
	}

	// Nothing held, nothing there
	require.NoError(t, h.Execute(at(core.Axial{})))
	assert.Contains(t, out.String(), "Nothing at (0,0)")

	// Holding, empty hex: place
	require.NoError(t, h.Execute("draw"))
	require.NoError(t, h.Execute(at(core.Axial{})))
	queen, ok := e.TopAt(core.Axial{})
	require.True(t, ok)

	// Idle, occupied hex: select
	require.NoError(t, h.Execute(at(core.Axial{})))
	held, ok := e.Held()
	require.True(t, ok)
	assert.Equal(t, queen, held)

	// Holding, same hex: stacking on itself releases
	require.NoError(t, h.Execute(at(core.Axial{})))
	assert.Equal(t, states.PhaseIdle, e.Phase())

	// Holding, occupied hex: stack
	require.NoError(t, h.Execute("draw"))
	require.NoError(t, h.Execute(at(core.Axial{})))
	top, _ := e.TopAt(core.Axial{})
	assert.NotEqual(t, queen, top)
	assert.Len(t, e.StackOf(queen), 2)
}

func TestRun(t *testing.T) {
	h, e, out := newHandler(t)

	script := strings.Join([]string{
		"draw",
		"place 5 5",
		"place 0 0",
		"bogus",
		"quit",
		"draw",
	}, "\n")
	require.NoError(t, h.Run(context.Background(), strings.NewReader(script)))

	text := out.String()
	assert.Contains(t, text, "Rejected:")
	assert.Contains(t, text, "unknown command")
	assert.Equal(t, 1, len(e.Pieces()), "lines after quit are not executed")
	assert.Equal(t, states.PhaseIdle, e.Phase())
}

func TestRunReportsEmptyPool(t *testing.T) {
	e, _ := testutil.NewTestEngine(t)
	for i := 0; i < 11; i++ {
		testutil.DrawAndPlace(t, e, core.Axial{Col: i, Row: 0})
	}
	var out bytes.Buffer
	h := input.NewHandler(e, game.DefaultLayout(), &out, testutil.NopLogger())

	require.NoError(t, h.Run(context.Background(), strings.NewReader("draw\nnext\n")))
	assert.Equal(t, 2, strings.Count(out.String(), "The pool is empty"))
}

func TestRunStopsOnCancel(t *testing.T) {
	h, e, _ := newHandler(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.Run(ctx, strings.NewReader("draw\n"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, e.Pieces())
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
