package config

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/conform/internal/config"
	"nathanbeddoewebdev/conform/internal/toolchains"
	"nathanbeddoewebdev/conform/internal/util"

	"github.com/spf13/cobra"
)

// SetCommand returns the "config set" command.
func SetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: "Set a persistent configuration value.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  conform config set default-toolchain dotnet\n" +
			"  conform config set default-runbook docs/migration.md",
		Args:         cobra.ExactArgs(2),
		RunE:         runSet,
		SilenceUsage: true,
	}

	return cmd
}

// normalizers adjust a value before validation and save. Keys absent
// from the map keep the raw value; default-runbook stays untouched
// because paths are case sensitive.
var normalizers = map[string]func(string) string{
	"default-toolchain": util.NormalizeKey,
	"debug":             util.NormalizeKey,
}

// validators maps key names to optional pre-save validation functions.
var validators = map[string]func(value string) error{
	"default-toolchain": validateToolchain,
	"debug":             validateBool,
}

func runSet(cmd *cobra.Command, args []string) error {
	key := util.NormalizeKey(args[0])
	value := strings.TrimSpace(args[1])

	spec := config.Lookup(key)
	if spec == nil {
		return fmt.Errorf("unknown configuration key %q (valid: %s)", args[0], strings.Join(config.KeyNames(), ", "))
	}

	if normalize, ok := normalizers[spec.Name]; ok {
		value = normalize(value)
	}
	if validate, ok := validators[spec.Name]; ok {
		if err := validate(value); err != nil {
			return err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	spec.Set(cfg, value)
	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s set to %q\n", spec.Name, value)
	return nil
}

// validateToolchain checks that the given name is a registered toolchain.
func validateToolchain(name string) error {
	registered := toolchains.List()
	for _, t := range registered {
		if t == name {
			return nil
		}
	}
	return fmt.Errorf("unknown toolchain %q (registered: %s)", name, strings.Join(registered, ", "))
}

func validateBool(value string) error {
	if value != "true" && value != "false" {
		return fmt.Errorf("debug must be true or false")
	}
	return nil
}
