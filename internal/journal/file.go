package journal

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/HiveBoard/internal/game/core"
)

// FileStore appends entries to a single file, one protojson object per line
type FileStore struct {
	path   string
	logger zerolog.Logger

	mu    sync.RWMutex
	file  *os.File
	stats Stats
}

// OpenFile opens path for appending, creating it and its directory if needed
func OpenFile(path string, logger zerolog.Logger) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file: %w", err)
	}
	return &FileStore{
		path:   path,
		logger: logger.With().Str("component", "file_journal").Str("path", path).Logger(),
		file:   f,
	}, nil
}

// Append writes one entry and syncs the file
func (fs *FileStore) Append(ctx context.Context, entry Entry) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.file == nil {
		return ErrNotConfigured
	}

	msg, err := entryToStruct(entry)
	if err != nil {
		fs.stats.WriteErrors++
		return fmt.Errorf("failed to encode entry %d: %w", entry.Seq, err)
	}
	data, err := protojson.Marshal(msg)
	if err != nil {
		fs.stats.WriteErrors++
		return fmt.Errorf("failed to marshal entry %d: %w", entry.Seq, err)
	}
	if _, err := fs.file.Write(append(data, '\n')); err != nil {
		fs.stats.WriteErrors++
		return fmt.Errorf("failed to write entry %d: %w", entry.Seq, err)
	}
	if err := fs.file.Sync(); err != nil {
		fs.logger.Warn().Err(err).Msg("Failed to sync journal file")
	}

	fs.stats.TotalWritten++
	fs.stats.LastWriteTime = time.Now()
	return nil
}

// Entries reads the file back. A non-empty session filters and orders by
// sequence; an empty one returns every line in file order.
func (fs *FileStore) Entries(ctx context.Context, session string) ([]Entry, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	f, err := os.Open(fs.path)
	if err != nil {
		fs.stats.ReadErrors++
		return nil, fmt.Errorf("failed to open journal file: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var msg structpb.Struct
		if err := protojson.Unmarshal(line, &msg); err != nil {
			fs.stats.ReadErrors++
			return nil, fmt.Errorf("failed to unmarshal journal line: %w", err)
		}
		entry, err := entryFromStruct(&msg)
		if err != nil {
			fs.stats.ReadErrors++
			return nil, err
		}
		if session == "" || entry.Session == session {
			entries = append(entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		fs.stats.ReadErrors++
		return nil, fmt.Errorf("error reading journal file: %w", err)
	}

	if session != "" {
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Seq < entries[j].Seq })
	}
	fs.stats.TotalRead += int64(len(entries))
	return entries, nil
}

// Close closes the file. Further appends fail with ErrNotConfigured.
func (fs *FileStore) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.file == nil {
		return nil
	}
	err := fs.file.Close()
	fs.file = nil
	return err
}

// Stats returns journal statistics
func (fs *FileStore) Stats() Stats {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.stats
}

func entryToStruct(e Entry) (*structpb.Struct, error) {
	fields := map[string]interface{}{
		"seq":     e.Seq,
		"session": e.Session,
		"command": e.Command,
		"piece":   int(e.Piece),
		"at":      e.At.UTC().Format(time.RFC3339Nano),
	}
	if e.Coord != nil {
		fields["col"] = e.Coord.Col
		fields["row"] = e.Coord.Row
	}
	return structpb.NewStruct(fields)
}

func entryFromStruct(msg *structpb.Struct) (Entry, error) {
	f := msg.GetFields()
	entry := Entry{
		Seq:     int(f["seq"].GetNumberValue()),
		Session: f["session"].GetStringValue(),
		Command: f["command"].GetStringValue(),
		Piece:   core.PieceID(f["piece"].GetNumberValue()),
	}
	if entry.Command == "" {
		return Entry{}, fmt.Errorf("journal entry %d has no command", entry.Seq)
	}
	col, hasCol := f["col"]
	row, hasRow := f["row"]
	if hasCol && hasRow {
		c := core.Axial{Col: int(col.GetNumberValue()), Row: int(row.GetNumberValue())}
		entry.Coord = &c
	}
	if at := f["at"].GetStringValue(); at != "" {
		t, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return Entry{}, fmt.Errorf("journal entry %d has bad timestamp: %w", entry.Seq, err)
		}
		entry.At = t
	}
	return entry, nil
}
