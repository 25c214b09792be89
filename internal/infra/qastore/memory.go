package qastore

import (
	"context"
	"sync"

	"github.com/yanqian/askbook/internal/domain/qa"
)

// MemoryStorage keeps pairs in process memory. Useful for tests and throwaway sessions.
type MemoryStorage struct {
	mu    sync.RWMutex
	pairs []qa.Pair
	byKey map[string]int
}

// NewMemoryStorage constructs an empty storage, optionally seeded with pairs.
func NewMemoryStorage(seed ...qa.Pair) *MemoryStorage {
	s := &MemoryStorage{byKey: make(map[string]int)}
	for _, p := range seed {
		s.putLocked(p)
	}
	return s
}

// LoadAll implements qa.Storage.
func (s *MemoryStorage) LoadAll(_ context.Context) ([]qa.Pair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]qa.Pair, len(s.pairs))
	copy(out, s.pairs)
	return out, nil
}

// PersistAll implements qa.Storage.
func (s *MemoryStorage) PersistAll(_ context.Context, pairs []qa.Pair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pairs = nil
	s.byKey = make(map[string]int, len(pairs))
	for _, p := range pairs {
		s.putLocked(p)
	}
	return nil
}

// Persist implements qa.RowStorage.
func (s *MemoryStorage) Persist(_ context.Context, pair qa.Pair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(pair)
	return nil
}

// Close implements qa.Storage.
func (s *MemoryStorage) Close() error { return nil }

func (s *MemoryStorage) putLocked(pair qa.Pair) {
	key := qa.NormalizeKey(pair.Question)
	if i, ok := s.byKey[key]; ok {
		s.pairs[i] = pair
		return
	}
	s.byKey[key] = len(s.pairs)
	s.pairs = append(s.pairs, pair)
}

var _ qa.RowStorage = (*MemoryStorage)(nil)
