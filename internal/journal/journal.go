// Package journal records applied board commands so a session can be
// replayed onto a fresh engine.
package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HiveBoard/internal/game/core"
	"github.com/mitchelldurbincs/HiveBoard/internal/game/events"
)

var (
	// ErrNotConfigured is returned when a store is used after Close
	ErrNotConfigured = errors.New("journal not configured")
	// ErrInvalidBackend is returned when an unknown backend is requested
	ErrInvalidBackend = errors.New("invalid journal backend")
	// ErrMissingPath is returned when a persistent backend has no path
	ErrMissingPath = errors.New("journal path is required")
)

// Backend names a journal storage implementation
type Backend string

const (
	// BackendNone disables journaling
	BackendNone Backend = "none"
	// BackendFile writes one protojson object per line
	BackendFile Backend = "file"
	// BackendSQLite writes rows to a SQLite database
	BackendSQLite Backend = "sqlite"
)

// Config selects and configures a backend
type Config struct {
	Backend Backend
	Path    string
}

// Entry is one applied command. Coord is nil for commands without a target cell.
type Entry struct {
	Seq     int
	Session string
	Command string
	Piece   core.PieceID
	Coord   *core.Axial
	At      time.Time
}

// FromEvent converts an applied-command event into a journal entry
func FromEvent(e *events.CommandAppliedEvent) Entry {
	entry := Entry{
		Seq:     e.Seq,
		Session: e.SessionID(),
		Command: e.Command,
		Piece:   e.Piece,
		At:      e.Timestamp(),
	}
	if e.Coord != nil {
		c := *e.Coord
		entry.Coord = &c
	}
	return entry
}

// Store persists journal entries
type Store interface {
	// Append writes a single entry
	Append(ctx context.Context, entry Entry) error

	// Entries returns the entries of a session in sequence order.
	// An empty session returns every entry.
	Entries(ctx context.Context, session string) ([]Entry, error)

	// Close releases the underlying resources
	Close() error

	// Stats returns write and read counters
	Stats() Stats
}

// Stats contains counters about journal operations
type Stats struct {
	TotalWritten  int64
	TotalRead     int64
	WriteErrors   int64
	ReadErrors    int64
	LastWriteTime time.Time
}

// NullStore discards everything
type NullStore struct{}

func (NullStore) Append(context.Context, Entry) error { return nil }

func (NullStore) Entries(context.Context, string) ([]Entry, error) { return nil, nil }

func (NullStore) Close() error { return nil }

func (NullStore) Stats() Stats { return Stats{} }

// New creates a store for the configured backend
func New(cfg Config, logger zerolog.Logger) (Store, error) {
	switch cfg.Backend {
	case BackendNone, "":
		return NullStore{}, nil
	case BackendFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("%w for backend %s", ErrMissingPath, cfg.Backend)
		}
		return OpenFile(cfg.Path, logger)
	case BackendSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("%w for backend %s", ErrMissingPath, cfg.Backend)
		}
		return OpenSQLite(cfg.Path, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidBackend, cfg.Backend)
	}
}
