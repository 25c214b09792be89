package qa

import "context"

// Storage is the durable home of the question/answer pairs. Implementations
// return an empty slice, not an error, when nothing has been stored yet.
type Storage interface {
	LoadAll(ctx context.Context) ([]Pair, error)
	// PersistAll replaces the durable contents with pairs.
	PersistAll(ctx context.Context, pairs []Pair) error
	Close() error
}

// RowStorage can durably write a single pair keyed by NormalizeKey(pair.Question).
// The store prefers it over rewriting the whole mapping.
type RowStorage interface {
	Storage
	Persist(ctx context.Context, pair Pair) error
}
