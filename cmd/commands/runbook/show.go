package runbook

import (
	"fmt"
	"os"
	"strings"

	"nathanbeddoewebdev/conform/internal/runbook"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func ShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [runbook]",
		Short: "Render a runbook to the terminal",
		Long: `Render a runbook's markdown to the terminal.

Without an argument the current directory is scanned and a lone
runbook is shown. When output is piped the raw file is written
instead.

Examples:
  conform runbook show
  conform runbook show docs/migration.md`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runShow,
		SilenceUsage: true,
	}
	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	path, err := resolveRunbookArg(args)
	if err != nil {
		return err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		_, err = cmd.OutOrStdout().Write(src)
		return err
	}

	return renderMarkdown(cmd, string(src))
}

// renderMarkdown pretty-prints markdown for the current terminal
// width.
func renderMarkdown(cmd *cobra.Command, src string) error {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 100
	}
	if width > 120 {
		width = 120
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return err
	}
	out, err := renderer.Render(src)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

// resolveRunbookArg picks the runbook to operate on: the positional
// argument when given, otherwise a lone discovery hit under the
// current directory.
func resolveRunbookArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	found, err := runbook.Discover(".")
	if err != nil {
		return "", err
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("no runbook found under the current directory; pass a path")
	case 1:
		return found[0].Path, nil
	default:
		paths := make([]string, len(found))
		for i, f := range found {
			paths[i] = f.Path
		}
		return "", fmt.Errorf("multiple runbooks found (%s); pass one", strings.Join(paths, ", "))
	}
}
