package auth

import (
	"errors"
	"fmt"

	"nathanbeddoewebdev/conform/internal/services/auth"

	"github.com/spf13/cobra"
)

func LogoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout [feed]",
		Short: "Remove a stored package feed token",
		Long: `Remove the stored token for a package feed. The feed defaults to
` + auth.DefaultFeed + `.

Examples:
  conform auth logout
  conform auth logout github`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runLogout,
		SilenceUsage: true,
	}
	return cmd
}

func runLogout(cmd *cobra.Command, args []string) error {
	feed := auth.DefaultFeed
	if len(args) > 0 {
		feed = auth.NormalizeFeed(args[0])
	}
	if feed == "" {
		return fmt.Errorf("feed is required")
	}

	store := auth.DefaultStore()
	err := store.DeleteToken(feed)
	switch {
	case err == nil:
		fmt.Fprintf(cmd.OutOrStdout(), "Removed token for feed %s\n", feed)
		return nil
	case errors.Is(err, auth.ErrTokenNotFound):
		fmt.Fprintf(cmd.OutOrStdout(), "No token stored for feed %s\n", feed)
		return nil
	default:
		return err
	}
}
