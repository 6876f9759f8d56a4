package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"pressmark/internal/config"
	"pressmark/internal/engine"
	"pressmark/internal/inbox"
	"pressmark/internal/logging"
	"pressmark/internal/provider/discogs"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Run one OCR and lookup pass over eligible items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *inbox.Store) error {
				eng, err := buildEngine(cfg, store)
				if err != nil {
					return err
				}

				ocrStats, err := eng.DrainOCR(cmd.Context())
				if err != nil {
					return err
				}
				lookupStats, err := eng.DrainLookup(cmd.Context())
				if err != nil {
					return err
				}

				rows := [][]string{
					{"OCR processed", strconv.Itoa(ocrStats.Processed)},
					{"OCR errored", strconv.Itoa(ocrStats.Errored)},
					{"Lookups processed", strconv.Itoa(lookupStats.Processed)},
					{"Committed", strconv.Itoa(lookupStats.Committed)},
					{"Needs review", strconv.Itoa(lookupStats.NeedsReview)},
					{"Errored", strconv.Itoa(lookupStats.Errored)},
				}
				out := renderTable([]string{"Pass", "Count"}, rows,
					[]columnAlignment{alignLeft, alignRight})
				fmt.Fprintln(cmd.OutOrStdout(), out)
				if lookupStats.Halted {
					fmt.Fprintln(cmd.OutOrStdout(), "Pass halted early: the provider rate limit was hit")
				}
				return nil
			})
		},
	}
}

func buildEngine(cfg *config.Config, store *inbox.Store) (*engine.Engine, error) {
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	searcher, err := discogs.New(cfg.Provider.Token, cfg.Provider.BaseURL,
		discogs.WithUserAgent(cfg.Provider.UserAgent),
		discogs.WithRequestsPerMinute(cfg.Provider.RequestsPerMinute),
	)
	if err != nil {
		return nil, fmt.Errorf("init provider: %w", err)
	}

	opts := engine.OptionsFromConfig(cfg)
	opts.Logger = logger
	return engine.New(store, searcher, opts), nil
}
