package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"nathanbeddoewebdev/conform/internal/journal"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func ShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "Render a run journal to the terminal",
		Long: `Render a run's journal to the terminal.

Without an argument the most recent journal under the target's
.conform directory is shown. When output is piped the raw file is
written instead.

Examples:
  conform journal show
  conform journal show 1b9d6bcd
  conform journal show --errors
  conform journal show -t ./services/billing`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runShow,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("target", "t", ".", "Target directory the run wrote artifacts under")
	cmd.Flags().Bool("errors", false, "Show the error summary instead of the journal")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	target, _ := cmd.Flags().GetString("target")
	errorsDoc, _ := cmd.Flags().GetBool("errors")

	runID := ""
	if len(args) > 0 {
		runID = args[0]
	}

	path, err := resolveArtifact(target, runID, errorsDoc)
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

// resolveArtifact locates the journal or error-summary file for a run,
// falling back to the most recently modified artifact when no run id
// is given.
func resolveArtifact(target, runID string, errorsDoc bool) (string, error) {
	kind, prefix := "journal", "journal-"
	if errorsDoc {
		kind, prefix = "error summary", "errors-"
	}

	if runID != "" {
		path := journal.JournalPath(target, runID)
		if errorsDoc {
			path = journal.SummaryPath(target, runID)
		}
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("no %s for run %s under %s", kind, runID, journal.ArtifactDir(target))
		}
		return path, nil
	}

	dir := journal.ArtifactDir(target)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("no run artifacts under %s", dir)
	}

	var candidates []os.DirEntry
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), prefix) && strings.HasSuffix(e.Name(), ".md") {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no %s found under %s", kind, dir)
	}

	sort.Slice(candidates, func(i, j int) bool {
		ii, _ := candidates[i].Info()
		ji, _ := candidates[j].Info()
		if ii == nil || ji == nil {
			return candidates[i].Name() > candidates[j].Name()
		}
		return ii.ModTime().After(ji.ModTime())
	})
	return filepath.Join(dir, candidates[0].Name()), nil
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
