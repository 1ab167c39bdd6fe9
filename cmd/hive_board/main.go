package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/HiveBoard/internal/config"
	"github.com/mitchelldurbincs/HiveBoard/internal/game"
	"github.com/mitchelldurbincs/HiveBoard/internal/game/dump"
	"github.com/mitchelldurbincs/HiveBoard/internal/game/events"
	"github.com/mitchelldurbincs/HiveBoard/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/HiveBoard/internal/journal"
	"github.com/mitchelldurbincs/HiveBoard/internal/ui/input"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	journalBackend := flag.String("journal", "", "Journal backend (none, file, sqlite) (empty to use config default)")
	journalPath := flag.String("journal-path", "", "Journal file or database path (empty to use config default)")
	resume := flag.String("resume", "", "Session ID to replay from the journal before accepting commands")
	env := flag.String("env", "", "Environment config overlay to merge (config.<env>.yaml)")
	flag.Parse()

	// Initialize configuration
	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if err := config.LoadEnvironmentConfig(*env); err != nil {
		log.Fatal().Err(err).Msg("Failed to load environment config")
	}

	// Flags override the file and environment through the same validation.
	// The path goes first so a backend switch sees it.
	overrides := []struct{ key, value string }{
		{"logging.level", *logLevel},
		{"journal.path", *journalPath},
		{"journal.backend", *journalBackend},
	}
	for _, o := range overrides {
		if o.value == "" {
			continue
		}
		if err := config.Set(o.key, o.value); err != nil {
			log.Fatal().Err(err).Str("key", o.key).Msg("Invalid command line override")
		}
	}

	cfg := config.Get()
	jcfg := cfg.JournalStoreConfig()

	setupLogging(cfg.Logging.Level, cfg.Logging.Format)

	if path := config.ConfigFilePath(); path != "" {
		config.WatchConfig(func(err error) {
			if err != nil {
				log.Error().Err(err).Str("config", path).Msg("Ignoring invalid config change")
				return
			}
			c := config.Get()
			setupLogging(c.Logging.Level, c.Logging.Format)
			log.Info().Str("config", path).Str("log_level", c.Logging.Level).Msg("Configuration reloaded")
		})
	}

	store, err := journal.New(jcfg, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Str("backend", string(jcfg.Backend)).Msg("Failed to open journal")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close journal")
		}
	}()

	// Event bus with logging; the journal subscribes once any replay is done
	bus := events.NewEventBus()
	eventLevel := zerolog.DebugLevel
	if cfg.Development.VerboseEvents {
		eventLevel = zerolog.InfoLevel
	}
	logSub := subscribers.NewLoggerSubscriber("board-logger", log.Logger, eventLevel)
	logSub.SetDevMode(cfg.Development.VerboseEvents)
	bus.Subscribe(logSub)

	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid board configuration")
	}
	engineCfg.Publisher = bus
	engineCfg.SessionID = *resume

	engine, err := game.NewEngine(engineCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create board engine")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *resume != "" {
		entries, err := store.Entries(ctx, *resume)
		if err != nil {
			log.Fatal().Err(err).Str("session_id", *resume).Msg("Failed to read journal")
		}
		start := time.Now()
		n, err := journal.Replay(ctx, engine, entries)
		if err != nil {
			log.Fatal().Err(err).Int("applied", n).Msg("Failed to replay session")
		}
		log.Info().
			Str("session_id", *resume).
			Int("commands", n).
			Dur("duration", time.Since(start)).
			Msg("Session replayed")
	}

	bus.Subscribe(subscribers.NewJournalSubscriber("journal", store, log.Logger))

	log.Info().
		Str("session_id", engine.SessionID()).
		Str("journal", string(jcfg.Backend)).
		Int("pool_remaining", engine.PoolRemaining()).
		Msg("Board session started")

	handler := input.NewHandler(engine, cfg.Layout(), os.Stdout, log.Logger)
	if format, err := dump.ParseFormat(cfg.Development.DumpFormat); err == nil {
		handler.SetDumpFormat(format)
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	done := make(chan error, 1)
	go func() {
		done <- handler.Run(ctx, os.Stdin)
	}()

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	case err := <-done:
		if err != nil {
			log.Error().Err(err).Msg("Console input failed")
		}
	}

	log.Info().
		Str("session_id", engine.SessionID()).
		Int("commands", engine.Snapshot().Applied).
		Int64("journaled", store.Stats().TotalWritten).
		Msg("Board session ended")
}

func setupLogging(level, format string) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || logLevel == zerolog.NoLevel {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	// Logs go to stderr so console output on stdout stays readable
	if format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}
}
