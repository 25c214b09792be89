package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/askbook/internal/domain/qa"
	"github.com/yanqian/askbook/internal/infra/config"
	"github.com/yanqian/askbook/internal/infra/qastore"
	"github.com/yanqian/askbook/internal/interface/cli"
	"github.com/yanqian/askbook/pkg/logger"
)

func provideLogger(cfg *config.Config) *slog.Logger {
	return logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
}

func provideQAConfig(cfg *config.Config) qa.Config {
	return qa.Config{
		SimilarityThreshold: cfg.QA.SimilarityThreshold,
		MaxSuggestions:      cfg.QA.MaxSuggestions,
		DuplicatePolicy:     qa.DuplicatePolicy(cfg.QA.DuplicatePolicy),
	}
}

// provideStorage opens the configured backend. Unlike a cache, the store has
// nowhere else to keep answers, so a backend that cannot be reached is fatal.
func provideStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (qa.Storage, func(), error) {
	var (
		storage qa.Storage
		err     error
	)
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		storage = qastore.NewMemoryStorage()
	case config.BackendFile:
		storage = qastore.NewOsFileStorage(cfg.Storage.File.Path)
	case config.BackendSQLite:
		storage, err = qastore.OpenSQLiteStorage(ctx, cfg.Storage.SQLite.Path)
	case config.BackendPostgres:
		storage, err = providePostgresStorage(ctx, cfg)
	case config.BackendValkey:
		storage, err = provideValkeyStorage(ctx, cfg)
	case config.BackendObject:
		storage, err = qastore.NewObjectStorage(qastore.ObjectOptions{
			Endpoint:  cfg.Storage.Object.Endpoint,
			AccessKey: cfg.Storage.Object.AccessKey,
			SecretKey: cfg.Storage.Object.SecretKey,
			Bucket:    cfg.Storage.Object.Bucket,
			Region:    cfg.Storage.Object.Region,
			Key:       cfg.Storage.Object.Key,
		}, logger)
	default:
		err = fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
	}
	logger.Info("qa storage enabled", "backend", cfg.Storage.Backend)

	cleanup := func() {
		if err := storage.Close(); err != nil {
			logger.Warn("failed to close storage", "error", err)
		}
	}
	return storage, cleanup, nil
}

func providePostgresStorage(ctx context.Context, cfg *config.Config) (*qastore.PostgresStorage, error) {
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(cfg.Storage.Postgres.DSN))
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.Storage.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Storage.Postgres.MaxConns
	}
	if cfg.Storage.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Storage.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	storage, err := qastore.NewPostgresStorage(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return storage, nil
}

func provideValkeyStorage(ctx context.Context, cfg *config.Config) (*qastore.ValkeyStorage, error) {
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		return nil, err
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return qastore.NewValkeyStorage(client, cfg.Storage.Valkey.Key), nil
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Storage.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Storage.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Storage.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

// provideQAService builds the store and loads it, so everything downstream
// sees a ready store.
func provideQAService(ctx context.Context, cfg qa.Config, storage qa.Storage, logger *slog.Logger) (qa.Service, error) {
	svc := qa.NewService(cfg, storage, logger)
	if err := svc.Load(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

func provideSession(svc qa.Service, in io.Reader, out io.Writer, logger *slog.Logger) *cli.Session {
	return cli.NewSession(svc, in, out, logger)
}
