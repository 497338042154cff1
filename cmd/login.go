package main

import (
	"fmt"
	"lemmony/internal/config"
	"lemmony/pkg/instance/lemmy"
	"lemmony/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// loginCommand constructs the 'login' subcommand that logs in to the local
// instance and prints the session token.
func loginCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Logs in to the local instance and prints the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			applyLocalFlags(cmd, cfg)
			if err := promptPassword(cmd, cfg); err != nil {
				return err
			}
			if err := cfg.ValidateLocal(); err != nil {
				return err
			}
			ctx := cmd.Context()

			client := lemmy.New(localHTTPClient(cfg, nil), cfg.LocalBaseURL())
			session, err := client.Login(ctx, cfg.Local.Username, cfg.Local.Password)
			if err != nil {
				return err //nolint: wrapcheck
			}
			if !session.ExpiresAt.IsZero() {
				logger.Info(ctx, "logged in", zap.Time("expiresAt", session.ExpiresAt))
			}

			fmt.Fprintln(cmd.OutOrStdout(), session.Token)

			return nil
		},
	}

	addLocalFlags(cmd)

	return cmd
}
