package subscribers

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HiveBoard/internal/game/events"
	"github.com/mitchelldurbincs/HiveBoard/internal/journal"
)

// JournalSubscriber appends every applied command to a journal store
type JournalSubscriber struct {
	id     string
	store  journal.Store
	logger zerolog.Logger
}

// NewJournalSubscriber creates a subscriber writing to store
func NewJournalSubscriber(id string, store journal.Store, logger zerolog.Logger) *JournalSubscriber {
	return &JournalSubscriber{
		id:     id,
		store:  store,
		logger: logger.With().Str("subscriber", "journal").Logger(),
	}
}

// ID returns the subscriber's unique identifier
func (js *JournalSubscriber) ID() string {
	return js.id
}

// InterestedIn returns true only for applied commands
func (js *JournalSubscriber) InterestedIn(eventType string) bool {
	return eventType == events.TypeCommandApplied
}

// HandleEvent writes the command to the store. Write failures are logged;
// the board keeps going without a journal entry.
func (js *JournalSubscriber) HandleEvent(event events.Event) {
	applied, ok := event.(*events.CommandAppliedEvent)
	if !ok {
		return
	}
	if err := js.store.Append(context.Background(), journal.FromEvent(applied)); err != nil {
		js.logger.Error().
			Err(err).
			Str("session_id", applied.SessionID()).
			Int("seq", applied.Seq).
			Msg("Failed to journal command")
	}
}
