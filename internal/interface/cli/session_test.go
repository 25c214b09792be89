package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/askbook/internal/domain/qa"
	"github.com/yanqian/askbook/internal/infra/qastore"
	apperrors "github.com/yanqian/askbook/pkg/errors"
)

func TestSession_LearnsThenAnswersExactly(t *testing.T) {
	storage := qastore.NewMemoryStorage()
	out, err := runSession(t, storage, "What is the capital of France?\nParis\nwhat is the capital of france?\nquit\n")
	require.NoError(t, err)

	require.Contains(t, out, "I don't know that one yet.")
	require.Contains(t, out, "Saved:")
	require.Equal(t, 1, strings.Count(out, "What is the answer?"))
	require.Contains(t, out, "Bye.")

	pairs, err := storage.LoadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, []qa.Pair{{Question: "What is the capital of France?", Answer: "Paris"}}, pairs)
}

func TestSession_AcceptsClosestMatch(t *testing.T) {
	storage := qastore.NewMemoryStorage(qa.Pair{Question: "What is the capital of France?", Answer: "Paris"})
	out, err := runSession(t, storage, "What's the capital of France\n\nexit\n")
	require.NoError(t, err)

	require.Contains(t, out, "Closest match:")
	require.Contains(t, out, "What is the capital of France?")
	require.Contains(t, out, "Paris")
	require.NotContains(t, out, "What is the answer?")
}

func TestSession_RejectedSuggestionRecordsNewPair(t *testing.T) {
	storage := qastore.NewMemoryStorage(qa.Pair{Question: "What is the capital of France?", Answer: "Paris"})
	_, err := runSession(t, storage, "What's the capital of France\nn\nStill Paris\n")
	require.NoError(t, err)

	pairs, err := storage.LoadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, []qa.Pair{
		{Question: "What is the capital of France?", Answer: "Paris"},
		{Question: "What's the capital of France", Answer: "Still Paris"},
	}, pairs)
}

func TestSession_RepromptsOnEmptyAnswer(t *testing.T) {
	storage := qastore.NewMemoryStorage()
	out, err := runSession(t, storage, "\nNew question?\n\n   \nAn answer\n")
	require.NoError(t, err)

	require.Equal(t, 2, strings.Count(out, "The answer cannot be empty."))
	pairs, err := storage.LoadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, []qa.Pair{{Question: "New question?", Answer: "An answer"}}, pairs)
}

func TestSession_StorageFailureEndsSession(t *testing.T) {
	out, err := runSession(t, &failingStorage{}, "Anything?\nSomething\nnever read\n")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, qa.CodeStorage))
	require.Contains(t, out, "Could not save the answer")
}

func TestSession_StopsOnEOFAndCancel(t *testing.T) {
	_, err := runSession(t, qastore.NewMemoryStorage(), "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := loadedService(t, qastore.NewMemoryStorage())
	var out bytes.Buffer
	require.NoError(t, NewSession(svc, strings.NewReader("Question?\n"), &out, newTestLogger()).Run(ctx))
	require.NotContains(t, out.String(), "Question:")
}

func TestPrinter_PairsAndSuggestions(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out)

	p.Pairs(nil)
	require.Contains(t, out.String(), "No questions stored yet.")

	out.Reset()
	p.Lookup(qa.LookupResult{Kind: qa.LookupSuggestions, Suggestions: []qa.Match{
		{Question: "A?", Answer: "a", Score: 0.91},
		{Question: "B?", Answer: "b", Score: 0.7},
	}})
	require.Contains(t, out.String(), "(0.91)")
	require.Contains(t, out.String(), "2. B?")

	out.Reset()
	p.Lookup(qa.LookupResult{Kind: qa.LookupNoMatch})
	require.Contains(t, out.String(), "No stored question is close enough.")
}

func runSession(t *testing.T, storage qa.Storage, input string) (string, error) {
	t.Helper()
	svc := loadedService(t, storage)
	var out bytes.Buffer
	err := NewSession(svc, strings.NewReader(input), &out, newTestLogger()).Run(context.Background())
	return out.String(), err
}

func loadedService(t *testing.T, storage qa.Storage) qa.Service {
	t.Helper()
	svc := qa.NewService(qa.Config{SimilarityThreshold: 0.6, MaxSuggestions: 3}, storage, newTestLogger())
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type failingStorage struct{}

func (failingStorage) LoadAll(context.Context) ([]qa.Pair, error) { return nil, nil }

func (failingStorage) PersistAll(context.Context, []qa.Pair) error {
	return errors.New("read-only filesystem")
}

func (failingStorage) Close() error { return nil }
