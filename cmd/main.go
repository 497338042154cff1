// Package main provides the lemmony CLI. It wires subcommands (sync,
// directory, login, migrate), loads configuration and initializes logging.
package main

import (
	"context"
	"lemmony/internal/config"
	"lemmony/pkg/logger"
	"lemmony/pkg/metrics"
	"lemmony/pkg/storage"
	"lemmony/pkg/storage/postgres"
	"lemmony/pkg/storage/redis"
	"lemmony/pkg/transport"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// getPostgres creates a PostgreSQL client using configuration values.
func getPostgres(ctx context.Context, cfg *config.Config) (*postgres.PgSQL, error) {
	db := cfg.Store.Database

	return postgres.New(ctx, postgres.Options{ //nolint: wrapcheck
		Username:        db.Username,
		Password:        db.Password,
		Host:            db.Host,
		Port:            db.Port,
		Database:        db.DatabaseName,
		SslMode:         db.SslMode,
		MaxConnections:  db.MaxConnections,
		ConnMaxLifetime: db.ConnMaxLifetime,
		TTL:             cfg.Store.TTL,
	})
}

// getStore opens the processed store selected by the store driver.
func getStore(ctx context.Context, cfg *config.Config) (storage.ProcessedStore, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pgsql, err := getPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}

		return pgsql, nil
	case config.StoreDriverRedis:
		r := cfg.Store.Redis
		store, err := redis.New(ctx, r.Addr, r.Password, r.DB, redis.WithPrefix(r.Prefix), redis.WithTTL(cfg.Store.TTL))
		if err != nil {
			return nil, err //nolint: wrapcheck
		}

		return store, nil
	default:
		return storage.Nop{}, nil
	}
}

// closeStore closes store and logs the failure, if any.
func closeStore(ctx context.Context, store storage.ProcessedStore) {
	if err := store.Close(); err != nil {
		logger.Warn(ctx, "could not close processed store", zap.Error(err))
	}
}

// aggregatorHTTPClient builds the client used for the public directory.
func aggregatorHTTPClient(cfg *config.Config, recorder *metrics.Recorder) *http.Client {
	opts := transport.Options{
		Timeout:   cfg.Aggregator.Timeout,
		UserAgent: cfg.UserAgent,
	}
	if recorder != nil {
		opts.Observer = recorder.ObserveRequest
	}

	return transport.New(opts)
}

// localHTTPClient builds the client used for the local instance.
func localHTTPClient(cfg *config.Config, recorder *metrics.Recorder) *http.Client {
	opts := transport.Options{
		Timeout:           cfg.Local.Timeout,
		UserAgent:         cfg.UserAgent,
		RequestsPerSecond: cfg.Local.RequestsPerSecond,
	}
	if recorder != nil {
		opts.Observer = recorder.ObserveRequest
	}

	return transport.New(opts)
}

// main sets up the root Cobra command and registers subcommands before
// executing the CLI. Configuration is loaded once flags are parsed.
func main() {
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:          "lemmony",
		Short:        "Subscribes a Lemmy or kbin instance to every community known to lemmyverse.net",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			loaded, err := config.Load(configPath)
			if err != nil {
				return err //nolint: wrapcheck
			}
			*cfg = *loaded

			return logger.Setup(cfg.Environment, cfg.Debug)
		},
	}
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			logger.Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		syncCommand(cfg),
		directoryCommand(cfg),
		loginCommand(cfg),
		migrateCommand(cfg),
	)

	// cobra prints the error, the logger may not be set up when config loading fails
	err := rootCmd.ExecuteContext(ctx)
	logger.Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
