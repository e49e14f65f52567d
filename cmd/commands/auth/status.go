package auth

import (
	"errors"
	"fmt"
	"os"

	"nathanbeddoewebdev/conform/internal/services/auth"
	"nathanbeddoewebdev/conform/internal/tui"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show stored package feed tokens",
		Long: `Show which package feeds have stored tokens.

Example:
  conform auth status`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := auth.DefaultStore()

			// Use TUI in interactive terminal.
			if term.IsTerminal(int(os.Stdout.Fd())) {
				if err := tui.RunAuthStatus(store); err != nil {
					return fmt.Errorf("auth status failed: %w", err)
				}
				return nil
			}

			// Non-interactive fallback.
			for _, feed := range auth.KnownFeeds {
				_, err := store.GetToken(feed)
				switch {
				case err == nil:
					fmt.Fprintf(cmd.OutOrStdout(), "%s: token stored\n", feed)
				case errors.Is(err, auth.ErrTokenNotFound):
					fmt.Fprintf(cmd.OutOrStdout(), "%s: no token\n", feed)
				default:
					fmt.Fprintf(cmd.OutOrStdout(), "%s: error (%v)\n", feed, err)
				}
			}
			return nil
		},
		SilenceUsage: true,
	}

	return cmd
}
