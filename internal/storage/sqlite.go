// Package storage provides a SQLite-backed chart library.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/handbeat/internal/chart"
)

// ErrNotFound is returned when no chart has the requested slug.
var ErrNotFound = errors.New("storage: chart not found")

// Store manages the SQLite database connection for the chart library.
type Store struct {
	db *sql.DB
}

// ChartEntry describes a stored chart without its notes.
type ChartEntry struct {
	ID        int64
	Slug      string
	Title     string
	Artist    string
	Audio     string
	Notes     int
	Duration  float64
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS charts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			slug TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			artist TEXT NOT NULL DEFAULT '',
			audio TEXT NOT NULL DEFAULT '',
			lanes INTEGER NOT NULL,
			layers INTEGER NOT NULL,
			note_count INTEGER NOT NULL DEFAULT 0,
			duration REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS notes (
			chart_id INTEGER NOT NULL REFERENCES charts(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			time REAL NOT NULL,
			lane INTEGER NOT NULL,
			layer INTEGER NOT NULL,
			hand TEXT NOT NULL,
			direction TEXT NOT NULL,
			grip INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (chart_id, seq)
		);
		CREATE INDEX IF NOT EXISTS idx_notes_order ON notes(chart_id, time, seq);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Slug derives a library key from a title: lower case, runs of anything but letters and
// digits collapsed to a single dash.
func Slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// SaveChart stores c under slug, replacing any chart already stored there.
// Notes keep their chart order through the seq column.
// Returns the ID of the chart record.
func (s *Store) SaveChart(slug string, c *chart.Chart) (int64, error) {
	if slug == "" {
		return 0, errors.New("storage: empty slug")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM notes WHERE chart_id IN (SELECT id FROM charts WHERE slug = ?)", slug); err != nil {
		return 0, fmt.Errorf("storage: cannot replace notes: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM charts WHERE slug = ?", slug); err != nil {
		return 0, fmt.Errorf("storage: cannot replace chart: %w", err)
	}

	result, err := tx.Exec(
		`INSERT INTO charts (slug, title, artist, audio, lanes, layers, note_count, duration)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		slug, c.Title, c.Artist, c.Audio, c.Lanes, c.Layers, c.Len(), c.Duration(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save chart: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get chart id: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO notes (chart_id, seq, time, lane, layer, hand, direction, grip)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot prepare note insert: %w", err)
	}
	defer stmt.Close()

	for _, n := range c.Notes() {
		if _, err := stmt.Exec(id, int(n.ID), n.Time, n.Lane, n.Layer, n.Hand.String(), n.Direction.String(), n.Grip); err != nil {
			return 0, fmt.Errorf("storage: cannot save note %d: %w", n.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit chart: %w", err)
	}
	return id, nil
}

// ListCharts returns every stored chart, ordered by title.
func (s *Store) ListCharts() ([]ChartEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, slug, title, artist, audio, note_count, duration, created_at
		 FROM charts
		 ORDER BY title COLLATE NOCASE, slug`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query charts: %w", err)
	}
	defer rows.Close()

	var entries []ChartEntry
	for rows.Next() {
		var e ChartEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Slug, &e.Title, &e.Artist, &e.Audio, &e.Notes, &e.Duration, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		// Parse the datetime - handle both time.Time and string
		switch v := createdAt.(type) {
		case time.Time:
			e.CreatedAt = v
		case string:
			if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
				e.CreatedAt = parsed
			}
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// LoadChart rebuilds the chart stored under slug.
func (s *Store) LoadChart(slug string) (*chart.Chart, error) {
	var (
		id   int64
		meta chart.Meta
	)
	err := s.db.QueryRow(
		"SELECT id, title, artist, audio, lanes, layers FROM charts WHERE slug = ?",
		slug,
	).Scan(&id, &meta.Title, &meta.Artist, &meta.Audio, &meta.Lanes, &meta.Layers)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query chart: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT time, lane, layer, hand, direction, grip
		 FROM notes
		 WHERE chart_id = ?
		 ORDER BY time, seq`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query notes: %w", err)
	}
	defer rows.Close()

	var notes []chart.Note
	for rows.Next() {
		var (
			n         chart.Note
			hand, dir string
		)
		if err := rows.Scan(&n.Time, &n.Lane, &n.Layer, &hand, &dir, &n.Grip); err != nil {
			return nil, fmt.Errorf("storage: cannot scan note: %w", err)
		}
		if n.Hand, err = chart.ParseHand(hand); err != nil {
			return nil, fmt.Errorf("storage: chart %q: %w", slug, err)
		}
		if n.Direction, err = chart.ParseDirection(dir); err != nil {
			return nil, fmt.Errorf("storage: chart %q: %w", slug, err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	c, err := chart.New(meta, notes)
	if err != nil {
		return nil, fmt.Errorf("storage: chart %q: %w", slug, err)
	}
	return c, nil
}

// DeleteChart removes the chart stored under slug.
func (s *Store) DeleteChart(slug string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM notes WHERE chart_id IN (SELECT id FROM charts WHERE slug = ?)", slug); err != nil {
		return fmt.Errorf("storage: cannot delete notes: %w", err)
	}
	result, err := tx.Exec("DELETE FROM charts WHERE slug = ?", slug)
	if err != nil {
		return fmt.Errorf("storage: cannot delete chart: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, slug)
	}
	return tx.Commit()
}
