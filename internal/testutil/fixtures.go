package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/HiveBoard/internal/game"
	"github.com/mitchelldurbincs/HiveBoard/internal/game/core"
)

// TestSessionID is the session every fixture engine uses
const TestSessionID = "test-session"

// GridAnchor is a simple anchor function with round numbers
func GridAnchor(c core.Axial) core.Point {
	return core.Point{X: float64(c.Col * 75), Y: float64(c.Row * 86)}
}

// TestConfig returns the default engine config with a fixed session and anchor
func TestConfig() game.Config {
	cfg := game.DefaultConfig()
	cfg.SessionID = TestSessionID
	cfg.Anchor = GridAnchor
	return cfg
}

// NewTestEngine creates an engine over the standard inventory. The returned
// recorder sees every event the engine publishes.
func NewTestEngine(t *testing.T) (*game.Engine, *EventRecorder) {
	t.Helper()
	rec := &EventRecorder{}
	cfg := TestConfig()
	cfg.Publisher = rec
	e, err := game.NewEngine(cfg)
	require.NoError(t, err)
	return e, rec
}

// DrawAndPlace draws the next piece and places it at coord
func DrawAndPlace(t *testing.T, e *game.Engine, coord core.Axial) core.PieceID {
	t.Helper()
	id, err := e.DrawFromPool()
	require.NoError(t, err)
	require.NoError(t, e.PlaceHeldAt(coord))
	return id
}
