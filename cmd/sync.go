package main

import (
	"context"
	"fmt"
	"lemmony/internal/config"
	"lemmony/internal/directory"
	"lemmony/internal/report"
	"lemmony/internal/syncer"
	"lemmony/pkg/aggregator/lemmyverse"
	"lemmony/pkg/instance/lemmy"
	"lemmony/pkg/logger"
	"lemmony/pkg/metrics"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const metricsPushTimeout = 10 * time.Second

// syncCommand constructs the 'sync' subcommand that fetches the directory,
// makes the local instance discover missing communities and follows them.
func syncCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Discovers and follows every community listed by the aggregator",
		RunE: func(cmd *cobra.Command, args []string) error {
			applyLocalFlags(cmd, cfg)
			applyFilterFlags(cmd, cfg)
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			if err := promptPassword(cmd, cfg); err != nil {
				return err
			}
			for _, validate := range []func() error{cfg.ValidateLocal, cfg.ValidateAggregator, cfg.ValidateStore} {
				if err := validate(); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx = logger.WithFields(ctx, zap.String("runID", uuid.NewString()))

			return runSync(ctx, cmd, cfg, dryRun)
		},
	}

	addLocalFlags(cmd)
	addFilterFlags(cmd)
	cmd.Flags().Bool("dry-run", false, "Fetch and enumerate without issuing discovery or follow calls")

	return cmd
}

func runSync(ctx context.Context, cmd *cobra.Command, cfg *config.Config, dryRun bool) error {
	recorder, err := metrics.New()
	if err != nil {
		return err //nolint: wrapcheck
	}
	defer func() {
		if err := recorder.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Warn(ctx, "could not shutdown metrics", zap.Error(err))
		}
	}()

	store, err := getStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("could not open %s store: %w", cfg.Store.Driver, err)
	}
	defer closeStore(ctx, store)

	logger.Info(ctx, "fetching directory", zap.String("aggregator", cfg.Aggregator.BaseURL))
	fetcher := directory.New(
		lemmyverse.New(aggregatorHTTPClient(cfg, recorder), cfg.Aggregator.BaseURL),
		directory.NewOptions(cfg),
		recorder,
	)
	dir, err := fetcher.Fetch(ctx)
	if err != nil {
		return err //nolint: wrapcheck
	}

	client := lemmy.New(localHTTPClient(cfg, recorder), cfg.LocalBaseURL(), lemmy.WithSearchPath(cfg.Local.SearchPath))
	s := syncer.New(client, store, syncer.NewOptions(cfg, dryRun), recorder)

	logger.Info(ctx, "synchronizing", zap.String("local", cfg.Local.Host), zap.Bool("dryRun", dryRun))
	rep, runErr := s.Run(ctx, dir.All())

	style := ""
	if isTerminal(os.Stdout) {
		style = report.AutoStyle
	}
	if err := report.Render(cmd.OutOrStdout(), rep, style); err != nil {
		logger.Warn(ctx, "could not render report", zap.Error(err))
	}

	if cfg.Metrics.PushgatewayURL != "" {
		pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsPushTimeout)
		defer cancel()
		if err := recorder.Push(pushCtx, cfg.Metrics.PushgatewayURL, cfg.Metrics.Job); err != nil {
			logger.Warn(ctx, "could not push metrics", zap.Error(err))
		}
	}

	return runErr //nolint: wrapcheck
}
