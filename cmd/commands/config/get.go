package config

import (
	"fmt"
	"os"
	"strings"

	"nathanbeddoewebdev/conform/internal/config"
	"nathanbeddoewebdev/conform/internal/tui"
	"nathanbeddoewebdev/conform/internal/util"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

// GetCommand returns the "config get" command.
func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Get a configuration value",
		Long: "Get a persistent configuration value.\n\n" +
			"Without a key in a terminal this opens an interactive viewer where\n" +
			"all settings can be browsed and edited.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  conform config get                      # interactive viewer\n" +
			"  conform config get default-toolchain    # print a single value",
		Args:         cobra.MaximumNArgs(1),
		RunE:         runGet,
		SilenceUsage: true,
	}

	return cmd
}

func runGet(cmd *cobra.Command, args []string) error {
	key := ""
	if len(args) > 0 {
		key = strings.TrimSpace(args[0])
	}

	// No key: open the interactive viewer.
	if key == "" {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			if err := tui.RunConfigView(); err != nil {
				return fmt.Errorf("config view failed: %w", err)
			}
			return nil
		}

		// Non-interactive: list all values.
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		for _, spec := range config.Keys {
			value := spec.Get(cfg)
			if value == "" {
				value = "(not set)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", spec.Name, value)
		}
		return nil
	}

	spec := config.Lookup(util.NormalizeKey(key))
	if spec == nil {
		return fmt.Errorf("unknown configuration key %q (valid: %s)", key, strings.Join(config.KeyNames(), ", "))
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	value := spec.Get(cfg)
	if value == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "not set")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), value)
	}
	return nil
}
