// Package store handles SQLite persistence of the reading history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/quickread/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed-width UTC so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store wraps SQLite access for reading history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS reads (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			words_read INTEGER NOT NULL,
			total_words INTEGER NOT NULL,
			wpm INTEGER NOT NULL,
			words_per_flash INTEGER NOT NULL,
			completed INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_reads_ended_at ON reads(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRead stores a finished or abandoned reading session. An empty ID is
// replaced with a new UUID, which is returned.
func (s *Store) InsertRead(ctx context.Context, rec model.ReadRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reads (id, source, started_at, ended_at, words_read, total_words, wpm, words_per_flash, completed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Source,
		formatTime(rec.StartedAt),
		formatTime(rec.EndedAt),
		rec.WordsRead,
		rec.TotalWords,
		rec.WPM,
		rec.WordsPerFlash,
		boolToInt(rec.Completed),
	)
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// ListReads returns reads filtered by the history filter, oldest first.
func (s *Store) ListReads(ctx context.Context, filter model.HistoryFilter) ([]model.ReadRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, formatTime(*filter.Since))
	}
	query := fmt.Sprintf(`SELECT id, source, started_at, ended_at, words_read, total_words, wpm, words_per_flash, completed
		FROM reads
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var reads []model.ReadRecord
	for rows.Next() {
		var rec model.ReadRecord
		var startedAt, endedAt string
		var completed int
		if err := rows.Scan(&rec.ID, &rec.Source, &startedAt, &endedAt, &rec.WordsRead, &rec.TotalWords, &rec.WPM, &rec.WordsPerFlash, &completed); err != nil {
			return nil, err
		}
		if rec.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, err
		}
		if rec.EndedAt, err = time.Parse(timeLayout, endedAt); err != nil {
			return nil, err
		}
		rec.Completed = completed != 0
		reads = append(reads, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if filter.Last > 0 && len(reads) > filter.Last {
		reads = reads[len(reads)-filter.Last:]
	}
	return reads, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
