package qastore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/askbook/internal/domain/qa"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS qa_pairs (
	id           BIGSERIAL PRIMARY KEY,
	question_key TEXT NOT NULL UNIQUE,
	question     TEXT NOT NULL,
	answer       TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const postgresUpsert = `
INSERT INTO qa_pairs (question_key, question, answer)
VALUES ($1, $2, $3)
ON CONFLICT (question_key) DO UPDATE SET
	question = EXCLUDED.question,
	answer = EXCLUDED.answer,
	updated_at = NOW()`

// PostgresStorage implements qa.RowStorage using pgx.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage constructs the storage and makes sure the table exists.
func NewPostgresStorage(ctx context.Context, pool *pgxpool.Pool) (*PostgresStorage, error) {
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}
	return &PostgresStorage{pool: pool}, nil
}

// LoadAll implements qa.Storage in insertion order.
func (s *PostgresStorage) LoadAll(ctx context.Context) ([]qa.Pair, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT question, answer
		FROM qa_pairs
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pairs := []qa.Pair{}
	for rows.Next() {
		pair, err := scanPair(rows)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
	return pairs, rows.Err()
}

// Persist implements qa.RowStorage.
func (s *PostgresStorage) Persist(ctx context.Context, pair qa.Pair) error {
	_, err := s.pool.Exec(ctx, postgresUpsert, qa.NormalizeKey(pair.Question), pair.Question, pair.Answer)
	return err
}

// PersistAll implements qa.Storage, replacing every row in one transaction.
func (s *PostgresStorage) PersistAll(ctx context.Context, pairs []qa.Pair) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM qa_pairs`); err != nil {
			return err
		}
		batch := &pgx.Batch{}
		for _, p := range pairs {
			batch.Queue(postgresUpsert, qa.NormalizeKey(p.Question), p.Question, p.Answer)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}

// Close releases the pool.
func (s *PostgresStorage) Close() error {
	s.pool.Close()
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPair(row rowScanner) (qa.Pair, error) {
	var pair qa.Pair
	if err := row.Scan(&pair.Question, &pair.Answer); err != nil {
		return qa.Pair{}, err
	}
	return pair, nil
}

var _ qa.RowStorage = (*PostgresStorage)(nil)
