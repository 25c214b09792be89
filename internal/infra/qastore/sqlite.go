package qastore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure Go driver, registers "sqlite"

	"github.com/yanqian/askbook/internal/domain/qa"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS qa_pairs (
	question_key TEXT PRIMARY KEY,
	question     TEXT NOT NULL,
	answer       TEXT NOT NULL,
	created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at   DATETIME DEFAULT CURRENT_TIMESTAMP
);`

const sqliteUpsert = `
INSERT INTO qa_pairs (question_key, question, answer)
VALUES (?, ?, ?)
ON CONFLICT (question_key) DO UPDATE SET
	question = excluded.question,
	answer = excluded.answer,
	updated_at = CURRENT_TIMESTAMP`

// SQLiteStorage keeps one row per pair in an embedded SQLite database.
type SQLiteStorage struct {
	db *sql.DB
}

// OpenSQLiteStorage opens (creating if needed) the database at path and
// migrates the schema. Use ":memory:" for a throwaway database.
func OpenSQLiteStorage(ctx context.Context, path string) (*SQLiteStorage, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// single writer; also keeps ":memory:" on one connection
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

// LoadAll implements qa.Storage in insertion order.
func (s *SQLiteStorage) LoadAll(ctx context.Context) ([]qa.Pair, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT question, answer FROM qa_pairs ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pairs := []qa.Pair{}
	for rows.Next() {
		var p qa.Pair
		if err := rows.Scan(&p.Question, &p.Answer); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

// Persist implements qa.RowStorage.
func (s *SQLiteStorage) Persist(ctx context.Context, pair qa.Pair) error {
	_, err := s.db.ExecContext(ctx, sqliteUpsert, qa.NormalizeKey(pair.Question), pair.Question, pair.Answer)
	return err
}

// PersistAll implements qa.Storage, replacing every row in one transaction.
func (s *SQLiteStorage) PersistAll(ctx context.Context, pairs []qa.Pair) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM qa_pairs`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, sqliteUpsert)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, p := range pairs {
		if _, err = stmt.ExecContext(ctx, qa.NormalizeKey(p.Question), p.Question, p.Answer); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Close releases the database handle.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

var _ qa.RowStorage = (*SQLiteStorage)(nil)
