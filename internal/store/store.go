// Package store persists session scores and simple numeric settings in
// a local sqlite database.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS scores (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at INTEGER NOT NULL,
	ended_at   INTEGER NOT NULL,
	score      REAL    NOT NULL,
	harmony    INTEGER NOT NULL,
	patterns   INTEGER NOT NULL,
	reason     TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scores_score ON scores(score DESC);

CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value REAL NOT NULL
);
`

// Store wraps the sqlite handle. Safe for concurrent use; sqlx pools
// connections and WAL mode keeps readers off the writer's back.
type Store struct {
	db *sqlx.DB
}

// Score is one finished session.
type Score struct {
	ID        int64   `db:"id" json:"id"`
	StartedAt int64   `db:"started_at" json:"startedAt"`
	EndedAt   int64   `db:"ended_at" json:"endedAt"`
	Score     float64 `db:"score" json:"score"`
	Harmony   int     `db:"harmony" json:"harmony"`
	Patterns  int     `db:"patterns" json:"patterns"`
	Reason    string  `db:"reason" json:"reason"`
}

// Open opens (or creates) the database and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveScore records a finished session and returns its row id.
func (s *Store) SaveScore(sc Score) (int64, error) {
	if sc.EndedAt == 0 {
		sc.EndedAt = time.Now().Unix()
	}
	res, err := s.db.NamedExec(`
		INSERT INTO scores (started_at, ended_at, score, harmony, patterns, reason)
		VALUES (:started_at, :ended_at, :score, :harmony, :patterns, :reason)`, sc)
	if err != nil {
		return 0, fmt.Errorf("failed to save score: %w", err)
	}
	return res.LastInsertId()
}

// TopScores returns the n best sessions, highest score first.
func (s *Store) TopScores(n int) ([]Score, error) {
	if n <= 0 {
		n = 10
	}
	var scores []Score
	if err := s.db.Select(&scores, `
		SELECT * FROM scores ORDER BY score DESC, ended_at ASC LIMIT ?`, n); err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	return scores, nil
}

// GetSetting reads a numeric setting, returning the fallback when the
// key is absent.
func (s *Store) GetSetting(key string, fallback float64) (float64, error) {
	var value float64
	err := s.db.Get(&value, `SELECT value FROM settings WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return fallback, fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, nil
}

// PutSetting upserts a numeric setting.
func (s *Store) PutSetting(key string, value float64) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}
