package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cgmis/internal/identity"
	"cgmis/internal/session"
)

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print sign-in changes made by other processes",
		Long: `Follows the session slot in local storage and prints the signed-in user
whenever another process signs in or out. Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ctx := cmd.Context()
			if u, err := a.sessions.GetCurrentUser(ctx); err == nil {
				printIdentity(cmd, u)
			}
			err := a.sessions.Watch(ctx, func(u *identity.Identity) {
				printIdentity(cmd, u)
			})
			if errors.Is(err, session.ErrNotWatchable) {
				return fmt.Errorf("storage backend %q cannot be watched: %w", a.cfg.StorageBackend, err)
			}
			if err == nil {
				fmt.Fprintln(out, "stopped")
			}
			return err
		},
	}
}

func printIdentity(cmd *cobra.Command, u *identity.Identity) {
	ts := time.Now().Format(time.TimeOnly)
	if u == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s signed out\n", ts)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s signed in as %s <%s>\n", ts, u.DisplayName(), u.Email)
}
