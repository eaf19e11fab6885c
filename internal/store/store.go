// Package store persists computed verse alignments in SQLite, keyed by verse
// reference and target language. The alignment engine itself is stateless;
// this cache is the external collaborator that avoids re-running inference
// for verses already aligned.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/lexalign/lexalign/internal"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS verse_alignments (
		id TEXT NOT NULL,
		verse_reference TEXT NOT NULL,
		language_code TEXT NOT NULL,
		alignment_json TEXT NOT NULL,
		method TEXT NOT NULL,
		average_confidence REAL NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (verse_reference, language_code)
	);

	CREATE INDEX IF NOT EXISTS idx_alignments_method ON verse_alignments(method);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveAlignment stores (or replaces) the alignment for a verse and target
// language pair.
func (s *Store) SaveAlignment(ctx context.Context, verseRef, languageCode string, d internal.DualAlignment) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode alignment: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO verse_alignments
		 (id, verse_reference, language_code, alignment_json, method, average_confidence, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), normalizeKey(verseRef), languageCode, string(payload),
		d.Method, d.AverageConfidence, time.Now())
	return err
}

// GetAlignment returns the cached alignment for a verse and language pair,
// or found=false when none exists.
func (s *Store) GetAlignment(ctx context.Context, verseRef, languageCode string) (*internal.DualAlignment, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT alignment_json FROM verse_alignments WHERE verse_reference = ? AND language_code = ?`,
		normalizeKey(verseRef), languageCode).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var d internal.DualAlignment
	if err := json.Unmarshal([]byte(payload), &d); err != nil {
		return nil, false, fmt.Errorf("failed to decode alignment: %w", err)
	}
	return &d, true, nil
}

// Entry is a row from the verse_alignments table, without the JSON payload.
type Entry struct {
	ID                string
	VerseReference    string
	LanguageCode      string
	Method            string
	AverageConfidence float64
	UpdatedAt         time.Time
}

// List returns all cached alignments ordered by most recently updated.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, verse_reference, language_code, method, average_confidence, updated_at
		 FROM verse_alignments ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.VerseReference, &e.LanguageCode, &e.Method, &e.AverageConfidence, &e.UpdatedAt); err != nil {
			return nil, err
		}
		results = append(results, e)
	}
	return results, rows.Err()
}

// Delete removes the cached alignment for one verse and language pair.
func (s *Store) Delete(ctx context.Context, verseRef, languageCode string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM verse_alignments WHERE verse_reference = ? AND language_code = ?`,
		normalizeKey(verseRef), languageCode)
	return err
}

// Clear removes all cached alignments and returns the number removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM verse_alignments`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Stats summarises the alignment cache.
type Stats struct {
	TotalEntries    int
	EmbeddingBacked int
	FallbackBacked  int
	MeanConfidence  float64
}

func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN method = 'embedding' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN method != 'embedding' THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(average_confidence), 0)
		FROM verse_alignments`).Scan(
		&stats.TotalEntries,
		&stats.EmbeddingBacked,
		&stats.FallbackBacked,
		&stats.MeanConfidence,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeKey trims whitespace and applies Unicode NFC normalization for
// consistent cache key comparison.
func normalizeKey(key string) string {
	return norm.NFC.String(strings.TrimSpace(key))
}
