package dump_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mitchelldurbincs/HiveBoard/internal/game"
	"github.com/mitchelldurbincs/HiveBoard/internal/game/core"
	"github.com/mitchelldurbincs/HiveBoard/internal/game/dump"
	"github.com/mitchelldurbincs/HiveBoard/internal/testutil"
)

// stackedBoard has a spider on top of the queen at the origin
func stackedBoard(t *testing.T) game.Snapshot {
	t.Helper()
	e, _ := testutil.NewTestEngine(t)
	queen := testutil.DrawAndPlace(t, e, core.Axial{})
	_, err := e.DrawFromPool()
	require.NoError(t, err)
	require.NoError(t, e.StackHeldOn(queen))
	return e.Snapshot()
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    dump.Format
		wantErr bool
	}{
		{"", dump.FormatText, false},
		{"text", dump.FormatText, false},
		{" YAML ", dump.FormatYAML, false},
		{"json", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := dump.ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLayer(t *testing.T) {
	pieces := []core.Piece{
		{ID: 0, Covers: core.NoPiece},
		{ID: 1, Covers: 0},
		{ID: 2, Covers: 1},
	}
	assert.Equal(t, 1, dump.Layer(pieces, 0))
	assert.Equal(t, 2, dump.Layer(pieces, 1))
	assert.Equal(t, 3, dump.Layer(pieces, 2))
	assert.Equal(t, 0, dump.Layer(pieces, core.NoPiece))
}

func TestText(t *testing.T) {
	snap := stackedBoard(t)

	var buf bytes.Buffer
	require.NoError(t, dump.Text(&buf, snap))
	out := buf.String()

	assert.Contains(t, out, "Grid debug:")
	assert.Contains(t, out, "Piece debug: 2 pieces, 9 left in pool")
	assert.Contains(t, out, "staging")
	assert.Contains(t, out, "(0,0)")
	assert.Contains(t, out, "Queen")
	assert.Contains(t, out, "Spider")
	assert.Contains(t, out, "1st")
	assert.Contains(t, out, "2nd")
	assert.NotContains(t, out, "Holding piece")
}

func TestTextWhileHolding(t *testing.T) {
	e, _ := testutil.NewTestEngine(t)
	_, err := e.DrawFromPool()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, dump.Write(&buf, e.Snapshot(), dump.FormatText))
	assert.Contains(t, buf.String(), "Holding piece 0 from pool")
}

func TestYAML(t *testing.T) {
	snap := stackedBoard(t)

	var buf bytes.Buffer
	require.NoError(t, dump.Write(&buf, snap, dump.FormatYAML))

	var doc struct {
		Session string `yaml:"session"`
		Phase   string `yaml:"phase"`
		Held    *int   `yaml:"held"`
		Applied int    `yaml:"applied"`
		Pool    struct {
			Remaining int `yaml:"remaining"`
		} `yaml:"pool"`
		Cells []struct {
			Label     string         `yaml:"label"`
			Col       *int           `yaml:"col"`
			Neighbors map[string]int `yaml:"neighbors"`
		} `yaml:"cells"`
		Pieces []struct {
			Kind      string `yaml:"kind"`
			Layer     int    `yaml:"layer"`
			Covers    int    `yaml:"covers"`
			CoveredBy int    `yaml:"covered_by"`
		} `yaml:"pieces"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, testutil.TestSessionID, doc.Session)
	assert.Equal(t, "Idle", doc.Phase)
	assert.Nil(t, doc.Held)
	assert.Equal(t, 4, doc.Applied)
	assert.Equal(t, 9, doc.Pool.Remaining)
	assert.Len(t, doc.Cells, len(snap.Cells))

	require.Len(t, doc.Pieces, 2)
	assert.Equal(t, "Queen", doc.Pieces[0].Kind)
	assert.Equal(t, 1, doc.Pieces[0].Layer)
	assert.Equal(t, 1, doc.Pieces[0].CoveredBy)
	assert.Equal(t, "Spider", doc.Pieces[1].Kind)
	assert.Equal(t, 2, doc.Pieces[1].Layer)
	assert.Equal(t, 0, doc.Pieces[1].Covers)

	var origin bool
	for _, c := range doc.Cells {
		if c.Label == "(0,0)" {
			origin = true
			require.NotNil(t, c.Col)
			assert.Equal(t, 0, *c.Col)
			assert.Len(t, c.Neighbors, core.DirectionCount)
		}
	}
	assert.True(t, origin, "origin cell present")
}
