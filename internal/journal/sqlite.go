package journal

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/mitchelldurbincs/HiveBoard/internal/game/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS commands (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session TEXT NOT NULL,
	seq INTEGER NOT NULL,
	command TEXT NOT NULL,
	piece INTEGER NOT NULL,
	pos_col INTEGER,
	pos_row INTEGER,
	at_unix_nano INTEGER NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_commands_session_seq ON commands(session, seq);
`

type commandRow struct {
	Session    string        `db:"session"`
	Seq        int           `db:"seq"`
	Command    string        `db:"command"`
	Piece      int           `db:"piece"`
	Col        sql.NullInt64 `db:"pos_col"`
	Row        sql.NullInt64 `db:"pos_row"`
	AtUnixNano int64         `db:"at_unix_nano"`
}

// SQLiteStore keeps the journal in a SQLite database
type SQLiteStore struct {
	conn   *sqlx.DB
	logger zerolog.Logger

	mu    sync.RWMutex
	stats Stats
}

// OpenSQLite opens or creates a journal database at path
func OpenSQLite(path string, logger zerolog.Logger) (*SQLiteStore, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate journal db: %w", err)
	}
	return &SQLiteStore{
		conn:   conn,
		logger: logger.With().Str("component", "sqlite_journal").Str("path", path).Logger(),
	}, nil
}

// Append inserts one entry
func (s *SQLiteStore) Append(ctx context.Context, entry Entry) error {
	row := commandRow{
		Session:    entry.Session,
		Seq:        entry.Seq,
		Command:    entry.Command,
		Piece:      int(entry.Piece),
		AtUnixNano: entry.At.UnixNano(),
	}
	if entry.Coord != nil {
		row.Col = sql.NullInt64{Int64: int64(entry.Coord.Col), Valid: true}
		row.Row = sql.NullInt64{Int64: int64(entry.Coord.Row), Valid: true}
	}

	_, err := s.conn.NamedExecContext(ctx, `INSERT INTO commands
		(session, seq, command, piece, pos_col, pos_row, at_unix_nano)
		VALUES (:session, :seq, :command, :piece, :pos_col, :pos_row, :at_unix_nano)`, row)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.stats.WriteErrors++
		return fmt.Errorf("insert journal entry %d: %w", entry.Seq, err)
	}
	s.stats.TotalWritten++
	s.stats.LastWriteTime = time.Now()
	s.logger.Debug().
		Str("session", entry.Session).
		Int("seq", entry.Seq).
		Str("command", entry.Command).
		Msg("Journal entry stored")
	return nil
}

// Entries returns stored entries in sequence order
func (s *SQLiteStore) Entries(ctx context.Context, session string) ([]Entry, error) {
	var rows []commandRow
	var err error
	if session == "" {
		err = s.conn.SelectContext(ctx, &rows, `SELECT session, seq, command, piece, pos_col, pos_row, at_unix_nano
			FROM commands ORDER BY id`)
	} else {
		err = s.conn.SelectContext(ctx, &rows, `SELECT session, seq, command, piece, pos_col, pos_row, at_unix_nano
			FROM commands WHERE session = ? ORDER BY seq`, session)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.stats.ReadErrors++
		return nil, fmt.Errorf("select journal entries: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, r := range rows {
		e := Entry{
			Seq:     r.Seq,
			Session: r.Session,
			Command: r.Command,
			Piece:   core.PieceID(r.Piece),
			At:      time.Unix(0, r.AtUnixNano).UTC(),
		}
		if r.Col.Valid && r.Row.Valid {
			e.Coord = &core.Axial{Col: int(r.Col.Int64), Row: int(r.Row.Int64)}
		}
		entries = append(entries, e)
	}
	s.stats.TotalRead += int64(len(entries))
	return entries, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

// Stats returns journal statistics
func (s *SQLiteStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}
