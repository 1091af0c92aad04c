// internal/store/sqlite.go
//
// SQLite implementation of the Store interface.
// Responsibilities:
//   - Opening SQLite with safe defaults (busy timeout, WAL for file databases).
//   - Applying embedded migrations (idempotent, recorded in _migrations).
//   - One row per session holding its active round, upserted on every save.
//
// Rounds never outlive the process: the rounds table is cleared on open.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessnumber/assets"
	"github.com/robalobadob/guessnumber/internal/game"
)

type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens dsn, migrates it, and clears leftover rounds.
func NewSQLiteStore(dsn string) (Store, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`DELETE FROM rounds`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("clear rounds: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

// openDB opens (and creates if missing) a SQLite database.
//
//   - Ensures the parent directory exists for plain file paths (e.g. ./data/rounds.db).
//   - Configures busy timeout and WAL journaling.
//   - Pins the pool to one connection so in-memory databases stay shared.
func openDB(dsn string) (*sql.DB, error) {
	if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
		dir := filepath.Dir(dsn)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite3", dsn+sep+"_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// migrate applies the embedded schema scripts.
//
//   - Uses a _migrations table to track applied files.
//   - Executes each script in lexical order inside its own transaction.
//   - Skips scripts already applied.
func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	migrations, err := assets.Migrations()
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	for _, m := range migrations {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, m.Name).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", m.Name).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", m.Name, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, m.Name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", m.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", m.Name, err)
		}
		log.Info().Str("migration", m.Name).Msg("applied")
	}
	return nil
}

func (s *sqliteStore) Save(ctx context.Context, sessionID string, st game.State) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO rounds (session_id, target, attempts, status, last_feedback, message, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(session_id) DO UPDATE SET
            target        = excluded.target,
            attempts      = excluded.attempts,
            status        = excluded.status,
            last_feedback = excluded.last_feedback,
            message       = excluded.message,
            updated_at    = excluded.updated_at`,
		sessionID, st.Target, st.Attempts, string(st.Status), string(st.LastFeedback), st.Message,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save round: %w", err)
	}
	return nil
}

func (s *sqliteStore) Get(ctx context.Context, sessionID string) (game.State, error) {
	var st game.State
	var status, feedback string
	err := s.db.QueryRowContext(ctx, `
        SELECT target, attempts, status, last_feedback, message
        FROM rounds WHERE session_id=?`, sessionID,
	).Scan(&st.Target, &st.Attempts, &status, &feedback, &st.Message)
	if errors.Is(err, sql.ErrNoRows) {
		return game.State{}, ErrNotFound
	}
	if err != nil {
		return game.State{}, fmt.Errorf("get round: %w", err)
	}
	st.Status = game.Status(status)
	st.LastFeedback = game.Feedback(feedback)
	return st, nil
}

func (s *sqliteStore) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM rounds WHERE session_id=?`, sessionID); err != nil {
		return fmt.Errorf("delete round: %w", err)
	}
	return nil
}

func (s *sqliteStore) Close() error { return s.db.Close() }
