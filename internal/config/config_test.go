package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/HiveBoard/internal/game/core"
	"github.com/mitchelldurbincs/HiveBoard/internal/game/pool"
	"github.com/mitchelldurbincs/HiveBoard/internal/journal"
)

func resetGlobals() {
	cfg = nil
	v = nil
}

func TestInit(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	configContent := `
board:
  pool:
    - kind: Q
      count: 1
    - kind: ant
      count: 2
  staging_anchor: [10, 20]
  history_size: 32
logging:
  level: debug
journal:
  backend: file
  path: /tmp/hive.jsonl
`
	err := os.WriteFile(configFile, []byte(configContent), 0644)
	require.NoError(t, err)

	resetGlobals()
	err = Init(configFile)
	require.NoError(t, err)

	c := Get()
	require.Len(t, c.Board.Pool, 2)
	assert.Equal(t, "ant", c.Board.Pool[1].Kind)
	assert.Equal(t, [2]float64{10, 20}, c.Board.StagingAnchor)
	assert.Equal(t, [2]float64{0, -12}, c.Board.StackOffset, "unset keys keep defaults")
	assert.Equal(t, 32, c.Board.HistorySize)
	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, "file", c.Journal.Backend)
	assert.Equal(t, configFile, ConfigFilePath())

	inventory, err := c.Inventory()
	require.NoError(t, err)
	assert.Equal(t, []pool.Group{{Kind: core.KindQueen, Count: 1}, {Kind: core.KindAnt, Count: 2}}, inventory)
}

func TestInitWithDefaults(t *testing.T) {
	resetGlobals()

	// A missing explicit file falls back to defaults
	err := Init("/non/existent/path/config.yaml")
	require.NoError(t, err)

	c := Get()
	inventory, err := c.Inventory()
	require.NoError(t, err)
	assert.Equal(t, pool.StandardInventory(), inventory)
	assert.Equal(t, [2]float64{50, 50}, c.Board.StagingAnchor)
	assert.Equal(t, 256, c.Board.HistorySize)
	assert.Equal(t, 50.0, c.Board.HexRadius)
	assert.Equal(t, [2]float64{400, 300}, c.Board.Origin)
	assert.Equal(t, "info", c.Logging.Level)
	assert.Equal(t, "console", c.Logging.Format)
	assert.Equal(t, "none", c.Journal.Backend)
	assert.Equal(t, "text", c.Development.DumpFormat)
	assert.False(t, c.Development.VerboseEvents)
}

func TestEnvironmentVariables(t *testing.T) {
	resetGlobals()

	t.Setenv("HIVE_BOARD_HISTORY_SIZE", "64")
	t.Setenv("HIVE_JOURNAL_BACKEND", "sqlite")
	t.Setenv("HIVE_JOURNAL_PATH", "/tmp/hive.db")
	t.Setenv("HIVE_DEVELOPMENT_VERBOSE_EVENTS", "true")

	err := Init("")
	require.NoError(t, err)

	c := Get()
	assert.Equal(t, 64, c.Board.HistorySize)
	assert.True(t, c.Development.VerboseEvents)
	assert.Equal(t, journal.Config{Backend: journal.BackendSQLite, Path: "/tmp/hive.db"}, c.JournalStoreConfig())
}

func TestSet(t *testing.T) {
	resetGlobals()

	err := Init("")
	require.NoError(t, err)

	require.NoError(t, Set("board.history_size", 8))
	require.NoError(t, Set("development.dump_format", "yaml"))

	c := Get()
	assert.Equal(t, 8, c.Board.HistorySize)
	assert.Equal(t, "yaml", c.Development.DumpFormat)

	// An invalid value is reported and the last valid config is kept
	err = Set("logging.format", "xml")
	assert.ErrorContains(t, err, "logging.format")
	assert.Equal(t, "console", Get().Logging.Format)
	assert.Equal(t, 8, Get().Board.HistorySize)
}

func TestGetHelpers(t *testing.T) {
	resetGlobals()

	err := Init("")
	require.NoError(t, err)

	require.NoError(t, Set("test.string", "hello"))
	require.NoError(t, Set("test.int", 42))
	require.NoError(t, Set("test.bool", true))
	require.NoError(t, Set("test.float", 3.14))

	assert.Equal(t, "hello", GetString("test.string"))
	assert.Equal(t, 42, GetInt("test.int"))
	assert.Equal(t, true, GetBool("test.bool"))
	assert.Equal(t, 3.14, GetFloat64("test.float"))
	assert.Same(t, v, GetViper())
}

func TestLoadEnvironmentConfig(t *testing.T) {
	tmpDir := t.TempDir()

	baseConfig := filepath.Join(tmpDir, "config.yaml")
	baseContent := `
board:
  history_size: 100
logging:
  level: info
`
	err := os.WriteFile(baseConfig, []byte(baseContent), 0644)
	require.NoError(t, err)

	envConfig := filepath.Join(tmpDir, "config.dev.yaml")
	envContent := `
board:
  history_size: 10
development:
  dump_format: yaml
logging:
  level: debug
`
	err = os.WriteFile(envConfig, []byte(envContent), 0644)
	require.NoError(t, err)

	oldWd, _ := os.Getwd()
	_ = os.Chdir(tmpDir)
	defer func() { _ = os.Chdir(oldWd) }()

	resetGlobals()
	err = Init(baseConfig)
	require.NoError(t, err)

	err = LoadEnvironmentConfig("dev")
	require.NoError(t, err)

	c := Get()
	assert.Equal(t, 10, c.Board.HistorySize)
	assert.Equal(t, "yaml", c.Development.DumpFormat)
	assert.Equal(t, "debug", c.Logging.Level)

	assert.NoError(t, LoadEnvironmentConfig(""))
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		resetGlobals()
		require.NoError(t, Init(""))
		c := *Get()
		c.Board.Pool = append([]PoolGroupConfig(nil), c.Board.Pool...)
		return &c
	}

	require.NoError(t, Validate(valid()))

	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"empty pool", func(c *Config) { c.Board.Pool = nil }, "at least one group"},
		{"bad kind", func(c *Config) { c.Board.Pool[0].Kind = "dragon" }, "board.pool[0].kind"},
		{"zero count", func(c *Config) { c.Board.Pool[1].Count = 0 }, "board.pool[1].count"},
		{"history size", func(c *Config) { c.Board.HistorySize = 0 }, "history_size"},
		{"hex radius", func(c *Config) { c.Board.HexRadius = -1 }, "hex_radius"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"backend", func(c *Config) { c.Journal.Backend = "s3" }, "journal.backend"},
		{"journal path", func(c *Config) { c.Journal = JournalConfig{Backend: "file"} }, "journal.path"},
		{"dump format", func(c *Config) { c.Development.DumpFormat = "xml" }, "dump_format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := Validate(c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestInitRejectsInvalidFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("board:\n  history_size: -1\n"), 0644))

	resetGlobals()
	err := Init(configFile)
	assert.ErrorContains(t, err, "config validation failed")
}

func TestInitRejectsMalformedFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("board:\n  pool: [this is: : broken\n"), 0644))

	resetGlobals()
	err := Init(configFile)
	require.Error(t, err)
	assert.ErrorContains(t, err, "error reading config file")
	assert.Nil(t, cfg, "defaults are not substituted for a broken file")
}

func TestEngineConfig(t *testing.T) {
	resetGlobals()
	require.NoError(t, Init(""))

	c := Get()
	ec, err := c.EngineConfig()
	require.NoError(t, err)
	assert.Equal(t, pool.StandardInventory(), ec.Inventory)
	assert.Equal(t, core.Point{X: 50, Y: 50}, ec.StagingAnchor)
	assert.Equal(t, core.Point{X: 0, Y: -12}, ec.StackOffset)
	assert.Equal(t, 256, ec.HistorySize)
	assert.Equal(t, c.Layout().Anchor(core.Axial{Col: 1, Row: 0}), ec.Anchor(core.Axial{Col: 1, Row: 0}))
	assert.Equal(t, core.Point{X: 400, Y: 300}, c.Layout().Anchor(core.Axial{}))

	c.Board.Pool = []PoolGroupConfig{{Kind: "?", Count: 1}}
	_, err = c.EngineConfig()
	assert.ErrorIs(t, err, core.ErrInvalidKind)
}

func TestWatchConfig(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("logging:\n  level: info\n"), 0644))

	resetGlobals()
	require.NoError(t, Init(configFile))

	changed := make(chan error, 64)
	WatchConfig(func(err error) { changed <- err })

	// waitFor drains reload notifications until cond holds
	waitFor := func(what string, cond func(err error) bool) {
		t.Helper()
		timeout := time.After(5 * time.Second)
		for {
			select {
			case err := <-changed:
				if cond(err) {
					return
				}
			case <-timeout:
				t.Fatalf("%s was not observed", what)
			}
		}
	}

	require.NoError(t, os.WriteFile(configFile, []byte("logging:\n  level: warn\n"), 0644))
	waitFor("valid reload", func(err error) bool {
		return err == nil && Get().Logging.Level == "warn"
	})

	require.NoError(t, os.WriteFile(configFile, []byte("board:\n  history_size: 0\nlogging:\n  level: warn\n"), 0644))
	waitFor("rejected reload", func(err error) bool { return err != nil })
	assert.Equal(t, 256, Get().Board.HistorySize, "an invalid reload keeps the previous config")
}
