package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HiveBoard/internal/game/events"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

func (ls *LoggerSubscriber) levelEvent(l zerolog.Logger) *zerolog.Event {
	switch ls.logLevel {
	case zerolog.DebugLevel:
		return l.Debug()
	case zerolog.WarnLevel:
		return l.Warn()
	case zerolog.ErrorLevel:
		return l.Error()
	default:
		return l.Info()
	}
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("session_id", event.SessionID()).
		Time("timestamp", event.Timestamp()).
		Logger()

	var logEvent *zerolog.Event
	if rejected, ok := event.(*events.CommandRejectedEvent); ok {
		// Rejections are always worth a warning regardless of the configured level
		logEvent = eventLogger.Warn().
			Str("command", rejected.Command).
			Err(rejected.Err)
	} else {
		logEvent = ls.levelEvent(eventLogger)
	}

	// Add event-specific fields based on type
	switch e := event.(type) {
	case *events.SessionStartedEvent:
		logEvent.
			Int("pool_size", e.PoolSize).
			Int("pool_groups", e.PoolGroups)

	case *events.PieceDrawnEvent:
		logEvent.
			Int("piece_id", int(e.Piece)).
			Str("kind", e.Kind.String()).
			Int("remaining", e.Remaining)

	case *events.PieceSelectedEvent:
		logEvent.
			Int("piece_id", int(e.Piece)).
			Int("requested_id", int(e.Requested)).
			Str("kind", e.Kind.String())

	case *events.PiecePlacedEvent:
		logEvent.
			Int("piece_id", int(e.Piece)).
			Str("kind", e.Kind.String()).
			Int("col", e.Coord.Col).
			Int("row", e.Coord.Row).
			Int("uncovered", int(e.Uncovered))

	case *events.PieceStackedEvent:
		logEvent.
			Int("piece_id", int(e.Piece)).
			Int("on", int(e.On)).
			Int("height", e.Height).
			Int("uncovered", int(e.Uncovered))

	case *events.SelectionReleasedEvent:
		logEvent.
			Int("piece_id", int(e.Piece)).
			Str("reason", e.Reason)

	case *events.PoolAdvancedEvent:
		logEvent.
			Str("kind", e.Kind.String()).
			Int("cursor", e.Cursor)

	case *events.PoolExhaustedEvent:
		logEvent.Int("pieces_drawn", e.PiecesDrawn)

	case *events.GridExpandedEvent:
		logEvent.
			Str("center", e.Center.String()).
			Int("cells_created", len(e.Created)).
			Int("total_cells", e.Total)

	case *events.CommandAppliedEvent:
		logEvent.
			Int("seq", e.Seq).
			Str("command", e.Command).
			Int("piece_id", int(e.Piece))
		if e.Coord != nil {
			logEvent.Str("coord", e.Coord.String())
		}

	case *events.StateTransitionEvent:
		logEvent.
			Str("from", e.FromPhase).
			Str("to", e.ToPhase).
			Str("reason", e.Reason)
	}

	// In dev mode, also log the full event as JSON
	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Board event")
}
