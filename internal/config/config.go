package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mitchelldurbincs/HiveBoard/internal/game"
	"github.com/mitchelldurbincs/HiveBoard/internal/game/core"
	"github.com/mitchelldurbincs/HiveBoard/internal/game/dump"
	"github.com/mitchelldurbincs/HiveBoard/internal/game/pool"
	"github.com/mitchelldurbincs/HiveBoard/internal/journal"
)

// Config holds all configuration for the application
type Config struct {
	Board       BoardConfig       `mapstructure:"board"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Journal     JournalConfig     `mapstructure:"journal"`
	Development DevelopmentConfig `mapstructure:"development"`
}

// BoardConfig holds the engine and layout settings
type BoardConfig struct {
	Pool          []PoolGroupConfig `mapstructure:"pool"`
	StagingAnchor [2]float64        `mapstructure:"staging_anchor"`
	StackOffset   [2]float64        `mapstructure:"stack_offset"`
	HistorySize   int               `mapstructure:"history_size"`
	HexRadius     float64           `mapstructure:"hex_radius"`
	Origin        [2]float64        `mapstructure:"origin"`
}

// PoolGroupConfig is one entry of the starting pool. Kind accepts a symbol
// ("Q") or a name ("queen").
type PoolGroupConfig struct {
	Kind  string `mapstructure:"kind"`
	Count int    `mapstructure:"count"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// JournalConfig selects where applied commands are recorded
type JournalConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

// DevelopmentConfig holds development/debug settings
type DevelopmentConfig struct {
	DumpFormat    string `mapstructure:"dump_format"`
	VerboseEvents bool   `mapstructure:"verbose_events"`
}

var (
	// Global config instance, swapped whole on reload
	cfg   *Config
	cfgMu sync.RWMutex
	v     *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Board defaults
	inventory := pool.StandardInventory()
	groups := make([]map[string]interface{}, 0, len(inventory))
	for _, g := range inventory {
		groups = append(groups, map[string]interface{}{"kind": g.Kind.Symbol(), "count": g.Count})
	}
	v.SetDefault("board.pool", groups)
	v.SetDefault("board.staging_anchor", []float64{50, 50})
	v.SetDefault("board.stack_offset", []float64{0, -12})
	v.SetDefault("board.history_size", 256)

	layout := game.DefaultLayout()
	v.SetDefault("board.hex_radius", layout.Radius)
	v.SetDefault("board.origin", []float64{layout.Origin.X, layout.Origin.Y})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Journal defaults
	v.SetDefault("journal.backend", string(journal.BackendNone))
	v.SetDefault("journal.path", "")

	// Development defaults
	v.SetDefault("development.dump_format", string(dump.FormatText))
	v.SetDefault("development.verbose_events", false)
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/hive-board")
	}

	v.SetEnvPrefix("HIVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !isMissingFile(err) {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return reload()
}

// isMissingFile reports whether a read failed only because there was no
// config file to read. Anything else, such as a malformed file, is an error.
func isMissingFile(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// decode unmarshals and validates the current viper state into a new Config
func decode() (*Config, error) {
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := Validate(c); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}

// reload decodes the viper state and swaps it in only if it is valid
func reload() error {
	loaded, err := decode()
	if err != nil {
		return err
	}
	cfgMu.Lock()
	cfg = loaded
	cfgMu.Unlock()
	return nil
}

// Get returns the global config instance
func Get() *Config {
	cfgMu.RLock()
	c := cfg
	cfgMu.RUnlock()
	if c != nil {
		return c
	}
	if err := Init(""); err != nil {
		panic("failed to initialize config with defaults: " + err.Error())
	}
	cfgMu.RLock()
	defer cfgMu.RUnlock()
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig loads environment-specific config overlay
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)

	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil && !isMissingFile(err) {
		return fmt.Errorf("error merging environment config %s: %w", envFile, err)
	}

	return reload()
}

// Set overrides a key at runtime. The override is kept in viper even when
// the result is invalid, but Get keeps returning the last valid config.
func Set(key string, value interface{}) error {
	v.Set(key, value)
	if err := reload(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// GetString gets a string value from config
func GetString(key string) string {
	return v.GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return v.GetInt(key)
}

// GetBool gets a bool value from config
func GetBool(key string) bool {
	return v.GetBool(key)
}

// GetFloat64 gets a float64 value from config
func GetFloat64(key string) float64 {
	return v.GetFloat64(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of config file. Only settings read after
// the change see new values; a running engine keeps its inventory. onChange
// gets the reload error, and on error the previous config stays in place.
func WatchConfig(onChange func(err error)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		err := reload()
		if onChange != nil {
			onChange(err)
		}
	})
	v.WatchConfig()
}

// Inventory converts the configured pool into engine groups
func (c *Config) Inventory() ([]pool.Group, error) {
	groups := make([]pool.Group, 0, len(c.Board.Pool))
	for i, g := range c.Board.Pool {
		kind, err := core.ParseKind(g.Kind)
		if err != nil {
			return nil, fmt.Errorf("board.pool[%d]: %w", i, err)
		}
		groups = append(groups, pool.Group{Kind: kind, Count: g.Count})
	}
	return groups, nil
}

// Layout returns the hex layout used for anchors and click mapping
func (c *Config) Layout() game.Layout {
	return game.Layout{
		Radius: c.Board.HexRadius,
		Origin: core.Point{X: c.Board.Origin[0], Y: c.Board.Origin[1]},
	}
}

// EngineConfig builds the engine settings. The publisher is left for the caller.
func (c *Config) EngineConfig() (game.Config, error) {
	inventory, err := c.Inventory()
	if err != nil {
		return game.Config{}, err
	}
	ec := game.DefaultConfig()
	ec.Inventory = inventory
	ec.Anchor = c.Layout().Anchor
	ec.StagingAnchor = core.Point{X: c.Board.StagingAnchor[0], Y: c.Board.StagingAnchor[1]}
	ec.StackOffset = core.Point{X: c.Board.StackOffset[0], Y: c.Board.StackOffset[1]}
	ec.HistorySize = c.Board.HistorySize
	return ec, nil
}

// JournalStoreConfig returns the journal backend selection
func (c *Config) JournalStoreConfig() journal.Config {
	return journal.Config{Backend: journal.Backend(c.Journal.Backend), Path: c.Journal.Path}
}

// Validate validates the configuration values
func Validate(c *Config) error {
	// Validate board settings
	if len(c.Board.Pool) == 0 {
		return fmt.Errorf("board.pool must list at least one group")
	}
	for i, g := range c.Board.Pool {
		if _, err := core.ParseKind(g.Kind); err != nil {
			return fmt.Errorf("board.pool[%d].kind: %w", i, err)
		}
		if g.Count <= 0 {
			return fmt.Errorf("board.pool[%d].count must be positive", i)
		}
	}
	if c.Board.HistorySize <= 0 {
		return fmt.Errorf("board.history_size must be positive")
	}
	if c.Board.HexRadius <= 0 {
		return fmt.Errorf("board.hex_radius must be positive")
	}

	// Validate logging
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be console or json")
	}

	// Validate journal
	switch journal.Backend(c.Journal.Backend) {
	case journal.BackendNone:
	case journal.BackendFile, journal.BackendSQLite:
		if c.Journal.Path == "" {
			return fmt.Errorf("journal.path is required for backend %s", c.Journal.Backend)
		}
	default:
		return fmt.Errorf("journal.backend must be none, file or sqlite")
	}

	if _, err := dump.ParseFormat(c.Development.DumpFormat); err != nil {
		return fmt.Errorf("development.dump_format: %w", err)
	}

	return nil
}
