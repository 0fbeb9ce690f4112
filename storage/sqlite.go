// Package storage persists generated presets in SQLite so they join the
// preset library on the next launch. Uses the pure-Go modernc.org/sqlite
// driver.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pthm-cable/nebula/config"
)

// ErrNotFound is returned when a preset ID is not in the store.
var ErrNotFound = errors.New("storage: preset not found")

// Store manages the SQLite database holding saved presets.
type Store struct {
	db *sql.DB
}

// SavedPreset is one stored preset with the prompt that produced it.
type SavedPreset struct {
	Config    config.ParticleConfig
	Prompt    string
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path. It creates the
// parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS presets (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			prompt TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_presets_created ON presets(created_at DESC);
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

// SavePreset stores p under its ID, replacing any earlier preset with the
// same ID.
func (s *Store) SavePreset(p config.ParticleConfig, prompt string, createdAt time.Time) error {
	if p.ID == "" {
		return errors.New("storage: preset has no ID")
	}
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("storage: cannot encode preset: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO presets (id, name, prompt, body, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   prompt = excluded.prompt,
		   body = excluded.body,
		   created_at = excluded.created_at`,
		p.ID, p.Name, prompt, string(body), createdAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save preset: %w", err)
	}
	return nil
}

// Presets returns up to limit saved presets, newest first. A non-positive
// limit returns all of them.
func (s *Store) Presets(limit int) ([]SavedPreset, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.Query(
		`SELECT prompt, body, created_at
		 FROM presets
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query presets: %w", err)
	}
	defer rows.Close()

	var out []SavedPreset
	for rows.Next() {
		sp, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// PresetByID returns the preset with the given ID.
func (s *Store) PresetByID(id string) (SavedPreset, error) {
	row := s.db.QueryRow(
		`SELECT prompt, body, created_at FROM presets WHERE id = ?`, id,
	)
	sp, err := scanPreset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SavedPreset{}, ErrNotFound
	}
	return sp, err
}

// DeletePreset removes the preset with the given ID.
func (s *Store) DeletePreset(id string) error {
	res, err := s.db.Exec(`DELETE FROM presets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete preset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot count deleted rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPreset(sc scanner) (SavedPreset, error) {
	var (
		sp      SavedPreset
		body    string
		created int64
	)
	if err := sc.Scan(&sp.Prompt, &body, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SavedPreset{}, err
		}
		return SavedPreset{}, fmt.Errorf("storage: cannot scan row: %w", err)
	}
	if err := json.Unmarshal([]byte(body), &sp.Config); err != nil {
		return SavedPreset{}, fmt.Errorf("storage: cannot decode preset: %w", err)
	}
	sp.CreatedAt = time.UnixMilli(created)
	return sp, nil
}
