package main

import (
	"fmt"
	"lemmony/internal/config"
	"lemmony/internal/directory"
	"lemmony/pkg/aggregator/lemmyverse"
	"lemmony/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// directoryCommand constructs the 'directory' subcommand that prints the
// filtered actor list, communities first, one actor URL per line.
func directoryCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "directory",
		Short: "Prints the filtered communities and magazines of the aggregator",
		RunE: func(cmd *cobra.Command, args []string) error {
			applyFilterFlags(cmd, cfg)
			if err := cfg.ValidateAggregator(); err != nil {
				return err
			}
			ctx := cmd.Context()

			fetcher := directory.New(
				lemmyverse.New(aggregatorHTTPClient(cfg, nil), cfg.Aggregator.BaseURL),
				directory.NewOptions(cfg),
				nil,
			)
			dir, err := fetcher.Fetch(ctx)
			if err != nil {
				return err //nolint: wrapcheck
			}

			for _, actor := range dir.All() {
				fmt.Fprintln(cmd.OutOrStdout(), actor.ActorID)
			}
			logger.Info(ctx, "listed directory",
				zap.Int("communities", len(dir.Communities)),
				zap.Int("magazines", len(dir.Magazines)))

			return nil
		},
	}

	addFilterFlags(cmd)

	return cmd
}
