package qa

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/yanqian/askbook/pkg/errors"
	"github.com/yanqian/askbook/pkg/similarity"
)

// Service exposes the question/answer store.
type Service interface {
	Load(ctx context.Context) error
	Lookup(ctx context.Context, question string) (LookupResult, error)
	Record(ctx context.Context, question, answer string) (Pair, error)
	GetExact(question string) (string, bool)
	FindSimilar(question string, threshold float64, maxResults int) []Match
	Upsert(ctx context.Context, question, answer string) (Pair, error)
	Pairs() []Pair
	Len() int
}

type state int

const (
	stateUninitialized state = iota
	stateReady
)

// store is driven by a single operator; it does no locking.
type store struct {
	cfg     Config
	storage Storage
	logger  *slog.Logger

	state   state
	entries []Pair
	index   map[string]int
}

// NewService wires up the QA store. Load must be called before use.
func NewService(cfg Config, storage Storage, logger *slog.Logger) Service {
	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = similarity.DefaultMaxResults
	}
	if cfg.DuplicatePolicy == "" {
		cfg.DuplicatePolicy = DuplicateUpdate
	}
	return &store{
		cfg:     cfg,
		storage: storage,
		logger:  logger.With("component", "qa.store"),
		index:   make(map[string]int),
	}
}

func (s *store) Load(ctx context.Context) error {
	if s.state == stateReady {
		return nil
	}
	pairs, err := s.storage.LoadAll(ctx)
	if err != nil {
		return apperrors.Wrap(CodeStorage, "load failed", err)
	}
	for _, p := range pairs {
		key := NormalizeKey(p.Question)
		if key == "" {
			s.logger.Warn("skipping stored pair with blank question")
			continue
		}
		if i, ok := s.index[key]; ok {
			s.entries[i].Answer = p.Answer
			continue
		}
		s.index[key] = len(s.entries)
		s.entries = append(s.entries, p)
	}
	s.state = stateReady
	s.logger.Info("qa store loaded", "pairs", len(s.entries))
	return nil
}

func (s *store) Lookup(ctx context.Context, question string) (LookupResult, error) {
	if err := s.ready(); err != nil {
		return LookupResult{}, err
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return LookupResult{}, apperrors.Wrap(CodeInvalidInput, "question cannot be empty", nil)
	}
	if i, ok := s.index[NormalizeKey(question)]; ok {
		entry := s.entries[i]
		return LookupResult{Kind: LookupExact, Question: entry.Question, Answer: entry.Answer}, nil
	}
	matches := s.FindSimilar(question, s.cfg.SimilarityThreshold, s.cfg.MaxSuggestions)
	if len(matches) == 0 {
		return LookupResult{Kind: LookupNoMatch}, nil
	}
	s.logger.Debug("similar questions found", "count", len(matches), "best_score", matches[0].Score)
	return LookupResult{Kind: LookupSuggestions, Suggestions: matches}, nil
}

func (s *store) Record(ctx context.Context, question, answer string) (Pair, error) {
	pair, err := s.Upsert(ctx, question, answer)
	if err != nil {
		return Pair{}, err
	}
	s.logger.Info("qa pair recorded", "question", pair.Question, "pairs", len(s.entries))
	return pair, nil
}

func (s *store) GetExact(question string) (string, bool) {
	if s.state != stateReady {
		return "", false
	}
	i, ok := s.index[NormalizeKey(question)]
	if !ok {
		return "", false
	}
	return s.entries[i].Answer, true
}

func (s *store) FindSimilar(question string, threshold float64, maxResults int) []Match {
	if s.state != stateReady {
		return []Match{}
	}
	keys := make([]string, len(s.entries))
	for i, entry := range s.entries {
		keys[i] = NormalizeKey(entry.Question)
	}
	ranked := similarity.BestMatches(NormalizeKey(question), keys, threshold, maxResults)
	out := make([]Match, 0, len(ranked))
	for _, m := range ranked {
		entry := s.entries[m.Index]
		out = append(out, Match{Question: entry.Question, Answer: entry.Answer, Score: m.Score})
	}
	return out
}

// Upsert validates and stores the pair, then writes it through to storage.
// A storage failure leaves the in-memory mapping already changed; callers
// should treat the store as inconsistent and reload.
func (s *store) Upsert(ctx context.Context, question, answer string) (Pair, error) {
	if err := s.ready(); err != nil {
		return Pair{}, err
	}
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" {
		return Pair{}, apperrors.Wrap(CodeInvalidInput, "question cannot be empty", nil)
	}
	if answer == "" {
		return Pair{}, apperrors.Wrap(CodeInvalidInput, "answer cannot be empty", nil)
	}

	key := NormalizeKey(question)
	i, exists := s.index[key]
	switch {
	case exists && s.cfg.DuplicatePolicy == DuplicateReject:
		return Pair{}, apperrors.Wrap(CodeDuplicateQuestion, "question already stored: "+s.entries[i].Question, nil)
	case exists:
		s.entries[i].Answer = answer
	default:
		i = len(s.entries)
		s.index[key] = i
		s.entries = append(s.entries, Pair{Question: question, Answer: answer})
	}
	pair := s.entries[i]

	if err := s.persist(ctx, pair); err != nil {
		s.logger.Error("qa persist failed", "question", pair.Question, "error", err)
		return Pair{}, apperrors.Wrap(CodeStorage, "persist failed", err)
	}
	return pair, nil
}

func (s *store) Pairs() []Pair {
	out := make([]Pair, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *store) Len() int {
	return len(s.entries)
}

func (s *store) persist(ctx context.Context, pair Pair) error {
	if rows, ok := s.storage.(RowStorage); ok {
		return rows.Persist(ctx, pair)
	}
	return s.storage.PersistAll(ctx, s.Pairs())
}

func (s *store) ready() error {
	if s.state != stateReady {
		return apperrors.Wrap(CodeNotReady, "qa store used before load", nil)
	}
	return nil
}
