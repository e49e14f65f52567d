package auth

import (
	"fmt"
	"os"
	"strings"

	"nathanbeddoewebdev/conform/internal/services/auth"
	"nathanbeddoewebdev/conform/internal/tui"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login [feed]",
		Short: "Store a package feed token",
		Long: `Store a token for a package feed using the local keychain. The feed
defaults to ` + auth.DefaultFeed + `.

Examples:
  conform auth login
  conform auth login github
  conform auth login azure --token $TOKEN`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runLogin,
		SilenceUsage: true,
	}

	cmd.Flags().String("token", "", "Feed token (optional, overrides prompt)")

	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	feed := auth.DefaultFeed
	if len(args) > 0 {
		feed = auth.NormalizeFeed(args[0])
	}
	if feed == "" {
		return fmt.Errorf("feed is required")
	}

	token, err := cmd.Flags().GetString("token")
	if err != nil {
		return err
	}
	token = strings.TrimSpace(token)

	store := auth.DefaultStore()

	if token == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		result, err := tui.RunAuthLogin(feed, store)
		if err != nil {
			return err
		}
		if result == nil || !result.Saved {
			fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved token for feed %s\n", feed)
		return nil
	}

	if token == "" {
		fmt.Fprint(cmd.OutOrStdout(), "Enter feed token: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		token = strings.TrimSpace(string(raw))
	}

	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	if err := store.SetToken(feed, token); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved token for feed %s\n", feed)
	return nil
}
