package bootstrap

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/askbook/internal/domain/qa"
	"github.com/yanqian/askbook/internal/infra/config"
	"github.com/yanqian/askbook/internal/infra/qastore"
	"github.com/yanqian/askbook/internal/interface/cli"
)

func TestAppRunReturnsWhenSessionEnds(t *testing.T) {
	app, svc := newTestApp(t, strings.NewReader("Why?\nBecause.\nquit\n"))

	require.NoError(t, app.Run(context.Background()))
	answer, ok := svc.GetExact("why?")
	require.True(t, ok)
	require.Equal(t, "Because.", answer)
	require.Same(t, svc, app.Service())
}

func TestAppRunReturnsOnCancel(t *testing.T) {
	reader, writer := io.Pipe()
	defer writer.Close()
	app, _ := newTestApp(t, reader)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, app.Run(ctx))
}

func newTestApp(t *testing.T, in io.Reader) (*App, qa.Service) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := qa.NewService(qa.Config{SimilarityThreshold: 0.6, MaxSuggestions: 3}, qastore.NewMemoryStorage(), logger)
	require.NoError(t, svc.Load(context.Background()))
	session := cli.NewSession(svc, in, &bytes.Buffer{}, logger)
	cfg := &config.Config{Storage: config.StorageConfig{Backend: config.BackendMemory}}
	return NewApp(cfg, logger, svc, session), svc
}
