//go:build wireinject
// +build wireinject

package main

import (
	"context"
	"io"

	"github.com/google/wire"

	"github.com/yanqian/askbook/internal/bootstrap"
	"github.com/yanqian/askbook/internal/infra/config"
)

func initializeApp(ctx context.Context, opts config.Options, in io.Reader, out io.Writer) (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		provideLogger,
		provideQAConfig,
		provideStorage,
		provideQAService,
		provideSession,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
