// Package storage provides SQLite-based persistence for player preferences.
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

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for preference persistence.
type Store struct {
	db *sql.DB
}

// Preference is a stored key/value pair with an optional expiry.
type Preference struct {
	Key       string
	Value     string
	ExpiresAt time.Time // Zero means never
	UpdatedAt time.Time
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

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS preferences (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			expires_at INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_preferences_expires ON preferences(expires_at);
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

// SetPreference stores value under key, replacing any previous value.
// A zero expiresAt keeps the preference forever.
func (s *Store) SetPreference(key, value string, expiresAt time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO preferences (key, value, expires_at, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			updated_at = CURRENT_TIMESTAMP`,
		key, value, unixOrZero(expiresAt),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save preference %q: %w", key, err)
	}
	return nil
}

// Preference returns the value stored under key.
// Missing and expired (as of now) preferences report ok == false.
func (s *Store) Preference(key string, now time.Time) (value string, ok bool, err error) {
	var expiresAt int64
	err = s.db.QueryRow(
		"SELECT value, expires_at FROM preferences WHERE key = ?",
		key,
	).Scan(&value, &expiresAt)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot query preference %q: %w", key, err)
	}

	if expiresAt != 0 && expiresAt <= now.Unix() {
		return "", false, nil
	}
	return value, true, nil
}

// DeletePreference removes key. Deleting a missing key is not an error.
func (s *Store) DeletePreference(key string) error {
	_, err := s.db.Exec("DELETE FROM preferences WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("storage: cannot delete preference %q: %w", key, err)
	}
	return nil
}

// Preferences lists all unexpired preferences whose key starts with prefix,
// ordered by key.
func (s *Store) Preferences(prefix string, now time.Time) ([]Preference, error) {
	rows, err := s.db.Query(
		`SELECT key, value, expires_at, updated_at
		 FROM preferences
		 WHERE instr(key, ?) = 1
		   AND (expires_at = 0 OR expires_at > ?)
		 ORDER BY key`,
		prefix, now.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query preferences: %w", err)
	}
	defer rows.Close()

	var prefs []Preference
	for rows.Next() {
		var p Preference
		var expiresAt int64
		var updatedAt any
		if err := rows.Scan(&p.Key, &p.Value, &expiresAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if expiresAt != 0 {
			p.ExpiresAt = time.Unix(expiresAt, 0)
		}

		// Parse the datetime - handle both time.Time and string
		switch v := updatedAt.(type) {
		case time.Time:
			p.UpdatedAt = v
		case string:
			if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
				p.UpdatedAt = parsed
			}
		}
		prefs = append(prefs, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return prefs, nil
}

// PurgeExpired deletes preferences that expired before now.
// Returns the number of removed rows.
func (s *Store) PurgeExpired(now time.Time) (int64, error) {
	res, err := s.db.Exec(
		"DELETE FROM preferences WHERE expires_at != 0 AND expires_at <= ?",
		now.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot purge preferences: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count purged rows: %w", err)
	}
	return n, nil
}

// DeletePrefix removes every preference whose key starts with prefix.
func (s *Store) DeletePrefix(prefix string) error {
	if strings.TrimSpace(prefix) == "" {
		return errors.New("storage: refusing to delete with empty prefix")
	}
	_, err := s.db.Exec("DELETE FROM preferences WHERE instr(key, ?) = 1", prefix)
	if err != nil {
		return fmt.Errorf("storage: cannot delete preferences: %w", err)
	}
	return nil
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
