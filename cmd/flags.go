package main

import (
	"fmt"
	"lemmony/internal/config"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// addLocalFlags registers the flags selecting the local instance and account.
func addLocalFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("local", "l", "", "Local instance hostname, e.g. lemmy.co.uk")
	cmd.Flags().StringP("username", "u", "", "Local instance username")
	cmd.Flags().StringP("password", "p", "", "Local instance password, prompted for when omitted on a terminal")
}

// addFilterFlags registers the include and exclude instance lists. Values are
// comma separated and flags can be repeated.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("include", "i", nil, "Only consider these instances")
	cmd.Flags().StringSliceP("exclude", "e", nil, "Never consider these instances, wins over --include")
}

// applyLocalFlags overrides cfg with the local flags that were set.
func applyLocalFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("local") {
		cfg.Local.Host, _ = cmd.Flags().GetString("local")
	}
	if cmd.Flags().Changed("username") {
		cfg.Local.Username, _ = cmd.Flags().GetString("username")
	}
	if cmd.Flags().Changed("password") {
		cfg.Local.Password, _ = cmd.Flags().GetString("password")
	}
}

// applyFilterFlags overrides cfg with the filter flags that were set.
func applyFilterFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("include") {
		cfg.Filter.Include, _ = cmd.Flags().GetStringSlice("include")
	}
	if cmd.Flags().Changed("exclude") {
		cfg.Filter.Exclude, _ = cmd.Flags().GetStringSlice("exclude")
	}
}

// promptPassword reads the password without echo when none is configured and
// stdin is a terminal.
func promptPassword(cmd *cobra.Command, cfg *config.Config) error {
	fd := int(os.Stdin.Fd()) //nolint: gosec
	if cfg.Local.Password != "" || !term.IsTerminal(fd) {
		return nil
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Password for %s@%s: ", cfg.Local.Username, cfg.Local.Host)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("could not read password: %w", err)
	}
	cfg.Local.Password = strings.TrimRight(string(b), "\r\n")

	return nil
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint: gosec
}
