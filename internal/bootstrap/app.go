package bootstrap

import (
	"context"
	"log/slog"

	"github.com/yanqian/askbook/internal/domain/qa"
	"github.com/yanqian/askbook/internal/infra/config"
	"github.com/yanqian/askbook/internal/interface/cli"
)

// App encapsulates the interactive session lifecycle.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	svc     qa.Service
	session *cli.Session
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, svc qa.Service, session *cli.Session) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), svc: svc, session: session}
}

// Service exposes the loaded store to one-shot commands.
func (a *App) Service() qa.Service {
	return a.svc
}

// Run starts the interactive session and blocks until it ends or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("interactive session starting", "backend", a.cfg.Storage.Backend)
		errCh <- a.session.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		// the session may still be blocked reading input; the process is
		// about to exit so it is left behind
		a.logger.Info("shutdown signal received")
		return nil
	case err := <-errCh:
		return err
	}
}
