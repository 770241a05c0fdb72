// Copyright (c) 2025 Selene Forge
// SPDX-License-Identifier: MIT

// Package library persists papers from successful analysis reports in a
// local SQLite database so earlier findings stay searchable across sessions.
package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/seleneforge/astroscope/internal/report"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotFound indicates no paper matched the lookup.
	ErrNotFound = errors.New("paper not found")
)

// =============================================================================
// TYPES
// =============================================================================

// Entry is one stored paper plus the topic that surfaced it.
type Entry struct {
	ID        int64
	Topic     string
	Title     string
	URL       string
	Authors   string
	Published time.Time
	Summary   string
	SavedAt   time.Time
}

// Library is the paper store. Safe for concurrent use.
type Library struct {
	db *sql.DB
	mu sync.RWMutex
}

// =============================================================================
// SETUP
// =============================================================================

const schema = `
CREATE TABLE IF NOT EXISTS papers (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	topic      TEXT NOT NULL,
	title      TEXT NOT NULL,
	url        TEXT NOT NULL,
	authors    TEXT NOT NULL DEFAULT '',
	published  TIMESTAMP,
	summary    TEXT NOT NULL DEFAULT '',
	saved_at   TIMESTAMP NOT NULL,
	UNIQUE(topic, url)
);
CREATE INDEX IF NOT EXISTS idx_papers_topic ON papers(topic);
CREATE INDEX IF NOT EXISTS idx_papers_saved_at ON papers(saved_at);
`

// Open creates or opens the library database at path.
func Open(path string) (*Library, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create library directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}

	// SQLite allows one writer; a single connection avoids lock churn.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("configure library: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init library schema: %w", err)
	}

	return &Library{db: db}, nil
}

// Close releases the database.
func (l *Library) Close() error {
	return l.db.Close()
}

// =============================================================================
// WRITES
// =============================================================================

// SavePapers upserts the papers of one report under its topic. Re-running a
// topic refreshes the stored copies instead of duplicating them.
func (l *Library) SavePapers(ctx context.Context, topic string, papers []report.Paper) error {
	if len(papers) == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO papers (topic, title, url, authors, published, summary, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(topic, url) DO UPDATE SET
			title = excluded.title,
			authors = excluded.authors,
			published = excluded.published,
			summary = excluded.summary,
			saved_at = excluded.saved_at`)
	if err != nil {
		return fmt.Errorf("prepare save: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, p := range papers {
		var published any
		if !p.Published.IsZero() {
			published = p.Published.Time.UTC()
		}
		if _, err := stmt.ExecContext(ctx, topic, p.Title, p.URL, p.AuthorLine(), published, p.Summary, now); err != nil {
			return fmt.Errorf("save paper %q: %w", p.Title, err)
		}
	}

	return tx.Commit()
}

// Delete removes one stored paper by ID.
func (l *Library) Delete(ctx context.Context, id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	res, err := l.db.ExecContext(ctx, `DELETE FROM papers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete paper: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear removes every stored paper.
func (l *Library) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.db.ExecContext(ctx, `DELETE FROM papers`)
	if err != nil {
		return fmt.Errorf("clear library: %w", err)
	}
	return nil
}

// =============================================================================
// READS
// =============================================================================

const selectColumns = `id, topic, title, url, authors, published, summary, saved_at`

// List returns stored papers newest-first, capped at limit (0 = no cap).
func (l *Library) List(ctx context.Context, limit int) ([]Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	query := `SELECT ` + selectColumns + ` FROM papers ORDER BY saved_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list papers: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Search finds papers whose topic, title, authors, or summary contain the
// term, case-insensitively.
func (l *Library) Search(ctx context.Context, term string) ([]Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	pattern := "%" + escapeLike(term) + "%"
	rows, err := l.db.QueryContext(ctx, `
		SELECT `+selectColumns+` FROM papers
		WHERE topic LIKE ? ESCAPE '\'
		   OR title LIKE ? ESCAPE '\'
		   OR authors LIKE ? ESCAPE '\'
		   OR summary LIKE ? ESCAPE '\'
		ORDER BY saved_at DESC, id DESC`,
		pattern, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("search papers: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Get returns one stored paper by ID.
func (l *Library) Get(ctx context.Context, id int64) (*Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	row := l.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM papers WHERE id = ?`, id)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get paper: %w", err)
	}
	return entry, nil
}

// Count returns the number of stored papers.
func (l *Library) Count(ctx context.Context) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var n int
	if err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM papers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count papers: %w", err)
	}
	return n, nil
}

// =============================================================================
// HELPERS
// =============================================================================

type scannable interface {
	Scan(dest ...any) error
}

func scanEntry(row scannable) (*Entry, error) {
	var e Entry
	var published sql.NullTime
	if err := row.Scan(&e.ID, &e.Topic, &e.Title, &e.URL, &e.Authors, &published, &e.Summary, &e.SavedAt); err != nil {
		return nil, err
	}
	if published.Valid {
		e.Published = published.Time
	}
	return &e, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan paper: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// escapeLike escapes LIKE wildcards in user-supplied search terms.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
