package resume

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Store saves playback positions in SQLite under XDG_STATE_HOME or
// ~/.local/state.
type Store struct {
	db  *sql.DB
	log *zap.Logger
	mu  sync.Mutex
}

// Open opens or creates the position database at path. An empty path uses
// the default state location.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			log.Warn("pragma failed", zap.String("pragma", p), zap.Error(err))
		}
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, log: log}, nil
}

func ensureSchema(db *sql.DB) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS positions (
		path       TEXT PRIMARY KEY,
		seconds    INTEGER NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(schema)
	return err
}

// Position returns the stored position for path if any.
func (s *Store) Position(path string) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var seconds int
	err := s.db.QueryRow("SELECT seconds FROM positions WHERE path = ?", path).Scan(&seconds)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return seconds, true, nil
}

// SavePosition stores the position for path. Zero clears it.
func (s *Store) SavePosition(path string, seconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seconds <= 0 {
		_, err := s.db.Exec("DELETE FROM positions WHERE path = ?", path)
		return err
	}
	_, err := s.db.Exec(`INSERT INTO positions (path, seconds, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(path) DO UPDATE SET seconds = excluded.seconds, updated_at = CURRENT_TIMESTAMP`, path, seconds)
	if err == nil {
		s.log.Debug("position saved", zap.String("path", path), zap.Int("seconds", seconds))
	}
	return err
}

// Clear removes the position for path.
func (s *Store) Clear(path string) error {
	return s.SavePosition(path, 0)
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DefaultPath returns the default database location.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "deck", "positions.db"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "deck", "positions.db"), nil
}
