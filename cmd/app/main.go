package main

import (
	"context"
	"log"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yanqian/askbook/internal/bootstrap"
	"github.com/yanqian/askbook/internal/infra/config"
	"github.com/yanqian/askbook/internal/interface/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Fatalf("askbook stopped with error: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	var opts config.Options

	root := &cobra.Command{
		Use:           "askbook",
		Short:         "Ask questions and teach the answers you were missing.",
		Long:          "askbook answers questions from a stored list, suggests close matches, and learns new answers as you go.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(app *bootstrap.App) error {
				return app.Run(cmd.Context())
			})
		},
	}
	root.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default configs/config.yaml)")
	root.PersistentFlags().StringVarP(&opts.Backend, "backend", "b", "", "storage backend: file, sqlite, postgres, valkey, object or memory")

	root.AddCommand(
		newAskCmd(&opts),
		newAddCmd(&opts),
		newListCmd(&opts),
	)
	return root
}

func newAskCmd(opts *config.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question...>",
		Short: "Look up a single question without learning",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *opts, func(app *bootstrap.App) error {
				res, err := app.Service().Lookup(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				cli.NewPrinter(cmd.OutOrStdout()).Lookup(res)
				return nil
			})
		},
	}
}

func newAddCmd(opts *config.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "add <question> <answer>",
		Short: "Store or replace the answer to a question",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *opts, func(app *bootstrap.App) error {
				pair, err := app.Service().Upsert(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				cli.NewPrinter(cmd.OutOrStdout()).Recorded(pair)
				return nil
			})
		},
	}
}

func newListCmd(opts *config.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every stored question and answer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, *opts, func(app *bootstrap.App) error {
				cli.NewPrinter(cmd.OutOrStdout()).Pairs(app.Service().Pairs())
				return nil
			})
		},
	}
}

func withApp(cmd *cobra.Command, opts config.Options, run func(*bootstrap.App) error) error {
	app, cleanup, err := initializeApp(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer cleanup()
	return run(app)
}
