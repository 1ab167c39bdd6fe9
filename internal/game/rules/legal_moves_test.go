package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/HiveBoard/internal/game/core"
	"github.com/mitchelldurbincs/HiveBoard/internal/game/rules"
	"github.com/mitchelldurbincs/HiveBoard/internal/testutil"
)

func TestComputeFreshBoard(t *testing.T) {
	e, _ := testutil.NewTestEngine(t)
	m := rules.NewLegalMoveCalculator().Compute(e.Snapshot())

	assert.True(t, m.Draw)
	assert.Equal(t, core.KindQueen, m.Next)
	assert.Empty(t, m.Select)
	assert.Empty(t, m.Place)
	assert.Empty(t, m.Stack)
}

func TestComputeHoldingFromPool(t *testing.T) {
	e, _ := testutil.NewTestEngine(t)
	lmc := rules.NewLegalMoveCalculator()

	held, err := e.DrawFromPool()
	require.NoError(t, err)

	m := lmc.Compute(e.Snapshot())
	assert.False(t, m.Draw)
	assert.Equal(t, []core.PieceID{held}, m.Select)
	assert.Equal(t, []core.Axial{{}}, m.Place, "only the origin exists")
	assert.Empty(t, m.Stack, "the staged piece is not on the grid")
}

func TestComputeWithTowers(t *testing.T) {
	e, _ := testutil.NewTestEngine(t)
	lmc := rules.NewLegalMoveCalculator()

	a := testutil.DrawAndPlace(t, e, core.Axial{})
	b := testutil.DrawAndPlace(t, e, core.Axial{Col: 1, Row: 0})
	require.NoError(t, e.SelectPiece(b))
	require.NoError(t, e.StackHeldOn(a))

	// Idle: only the tower top can be picked up
	m := lmc.Compute(e.Snapshot())
	assert.True(t, m.Draw)
	assert.Equal(t, []core.PieceID{b}, m.Select)

	c, err := e.DrawFromPool()
	require.NoError(t, err)
	m = lmc.Compute(e.Snapshot())

	assert.Equal(t, []core.PieceID{b}, m.Stack)
	assert.NotContains(t, m.Place, core.Axial{}, "origin is taken by the tower")
	assert.Contains(t, m.Place, core.Axial{Col: 1, Row: 0}, "vacated cell is free again")
	assert.Len(t, m.Place, len(e.GridCells())-1)

	// Every listed target is accepted by the engine
	require.NoError(t, e.PlaceHeldAt(m.Place[0]))
	_, err = e.DrawFromPool()
	require.NoError(t, err)
	m = lmc.Compute(e.Snapshot())
	require.NotEmpty(t, m.Stack)
	assert.Contains(t, m.Stack, c)
	assert.NoError(t, e.StackHeldOn(m.Stack[0]))
}

func TestComputeHoldingBoardPiece(t *testing.T) {
	e, _ := testutil.NewTestEngine(t)
	a := testutil.DrawAndPlace(t, e, core.Axial{})
	require.NoError(t, e.SelectPiece(a))

	m := rules.NewLegalMoveCalculator().Compute(e.Snapshot())
	assert.Contains(t, m.Place, core.Axial{}, "a piece may be put back on its own cell")
	assert.Empty(t, m.Stack)
}

func TestComputeExhaustedPool(t *testing.T) {
	e, _ := testutil.NewTestEngine(t)
	for i := 0; i < 11; i++ {
		testutil.DrawAndPlace(t, e, core.Axial{Col: i, Row: 0})
	}

	m := rules.NewLegalMoveCalculator().Compute(e.Snapshot())
	assert.False(t, m.Draw)
	assert.Len(t, m.Select, 11)
}
