package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pressmark/internal/config"
	"pressmark/internal/inbox"
	"pressmark/internal/logging"
	"pressmark/internal/runner"
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the resolver loop until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *inbox.Store) error {
				eng, err := buildEngine(cfg, store)
				if err != nil {
					return err
				}
				logger, err := logging.NewFromConfig(cfg)
				if err != nil {
					return fmt.Errorf("init logger: %w", err)
				}

				r, err := runner.New(cfg, store, eng, runner.Options{Logger: logger})
				if err != nil {
					return err
				}

				signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer cancel()
				return r.Run(signalCtx)
			})
		},
	}
}
