package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nathanbeddoewebdev/conform/internal/domain"
	"nathanbeddoewebdev/conform/internal/journal"
	"nathanbeddoewebdev/conform/internal/runner"
	"nathanbeddoewebdev/conform/internal/tui/components"
	"nathanbeddoewebdev/conform/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// tailLimit caps how many recent journal entries the progress view keeps.
const tailLimit = 50

// --- Messages ---

type phaseStartedMsg struct {
	name    string
	planned int
}

type entryAppendedMsg struct {
	entry journal.Entry
}

type runFinishedMsg struct {
	result runner.Result
}

// runDoneMsg is sent once Run returns, after any runFinishedMsg. It
// carries the error the CLI layer needs to report.
type runDoneMsg struct {
	result *runner.Result
	err    error
}

// channelObserver forwards runner events into the Bubbletea program.
type channelObserver struct {
	ch chan<- tea.Msg
}

func (o channelObserver) PhaseStarted(name string, planned int) {
	o.ch <- phaseStartedMsg{name: name, planned: planned}
}

func (o channelObserver) EntryAppended(e journal.Entry) {
	o.ch <- entryAppendedMsg{entry: e}
}

func (o channelObserver) RunFinished(res runner.Result) {
	o.ch <- runFinishedMsg{result: res}
}

// --- Progress model ---

type phaseProgress struct {
	name    string
	planned int
	done    int
	warned  int
	failed  int
}

type progressModel struct {
	info     journal.RunInfo
	expected []string
	events   <-chan tea.Msg
	cancel   context.CancelFunc

	spinner spinner.Model
	phases  []phaseProgress
	tail    []journal.Entry
	started time.Time

	width  int
	height int

	result   *runner.Result
	runErr   error
	finished bool
	aborting bool
}

// RunProgress executes a run inside a full-screen progress view. The
// returned result and error are exactly what runner.Run produced; a
// session the user killed before the run finished returns ErrAborted.
func RunProgress(ctx context.Context, opts runner.Options) (*runner.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tea.Msg, 32)
	opts.Observer = channelObserver{ch: events}

	go func() {
		res, err := runner.New(opts).Run(ctx)
		events <- runDoneMsg{result: res, err: err}
	}()

	m := newProgressModel(opts.Info, opts.CheckOnly, events, cancel)
	p := tea.NewProgram(m, tea.WithAltScreen())

	result, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to run progress view: %w", err)
	}

	final := result.(progressModel)
	if !final.finished {
		return final.result, ErrAborted
	}
	return final.result, final.runErr
}

func newProgressModel(info journal.RunInfo, checkOnly bool, events <-chan tea.Msg, cancel context.CancelFunc) progressModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(styles.Blue)

	expected := runner.Phases()
	if checkOnly {
		expected = expected[:1]
	}

	return progressModel{
		info:     info,
		expected: expected,
		events:   events,
		cancel:   cancel,
		spinner:  s,
		started:  time.Now(),
	}
}

// waitForEvent blocks on the next runner event. Re-armed after every
// received message.
func waitForEvent(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			if m.aborting {
				// Second press abandons the view; the run keeps its
				// journal regardless.
				return m, tea.Quit
			}
			m.aborting = true
			m.cancel()
			return m, nil
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case phaseStartedMsg:
		m.phases = append(m.phases, phaseProgress{name: msg.name, planned: msg.planned})
		return m, waitForEvent(m.events)

	case entryAppendedMsg:
		m.noteEntry(msg.entry)
		m.tail = append(m.tail, msg.entry)
		if len(m.tail) > tailLimit {
			m.tail = m.tail[len(m.tail)-tailLimit:]
		}
		return m, waitForEvent(m.events)

	case runFinishedMsg:
		m.result = &msg.result
		return m, waitForEvent(m.events)

	case runDoneMsg:
		if msg.result != nil {
			m.result = msg.result
		}
		m.runErr = msg.err
		m.finished = true
		return m, tea.Quit
	}

	return m, nil
}

// noteEntry updates the current phase's counters. Remediation and
// re-run entries can push done past planned; the view shows the honest
// count.
func (m *progressModel) noteEntry(e journal.Entry) {
	if len(m.phases) == 0 {
		return
	}
	p := &m.phases[len(m.phases)-1]
	p.done++
	switch e.Status {
	case domain.StatusWarning:
		p.warned++
	case domain.StatusFailed:
		p.failed++
	}
}

func (m progressModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := components.Header(m.width, "run", m.info.Toolchain)
	footer := components.Footer(m.width, []components.KeyBinding{
		{Key: "ctrl+c", Desc: "abort"},
	})

	status := ""
	if m.aborting && !m.finished {
		status = components.StatusBar(m.width, "Aborting after the current action...", true)
	}

	headerH := lipgloss.Height(header)
	footerH := lipgloss.Height(footer)
	statusH := 0
	if status != "" {
		statusH = lipgloss.Height(status)
	}
	contentH := m.height - headerH - footerH - statusH
	if contentH < 1 {
		contentH = 1
	}

	content := m.renderContent(contentH)

	parts := []string{header, content}
	if status != "" {
		parts = append(parts, status)
	}
	parts = append(parts, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m progressModel) renderContent(height int) string {
	var lines []string

	lines = append(lines,
		styles.MutedText.Render(fmt.Sprintf("Runbook: %s", m.info.Runbook)),
		styles.MutedText.Render(fmt.Sprintf("Target: %s  Run: %s  Elapsed: %s",
			m.info.Target, m.info.RunID, formatElapsed(time.Since(m.started)))),
		"",
	)

	for _, name := range m.expected {
		lines = append(lines, m.renderPhaseLine(name))
	}
	lines = append(lines, "")

	// Recent journal entries fill the remaining rows.
	remaining := height - len(lines)
	if remaining > 0 {
		tail := m.tail
		if len(tail) > remaining {
			tail = tail[len(tail)-remaining:]
		}
		for _, e := range tail {
			lines = append(lines, m.renderEntryLine(e))
		}
	}

	for i := range lines {
		lines[i] = ansi.Truncate(lines[i], m.width, "…")
	}

	body := strings.Join(lines, "\n")
	return lipgloss.NewStyle().
		Width(m.width).
		Height(height).
		Padding(0, 2).
		Render(body)
}

// renderPhaseLine draws one phase with its marker:
//
//	✓ validate      6/6
//	● packages      2/5
//	  references
func (m progressModel) renderPhaseLine(name string) string {
	idx := -1
	for i, p := range m.phases {
		if p.name == name {
			idx = i
			break
		}
	}

	if idx == -1 {
		return "  " + styles.MutedText.Render(fmt.Sprintf("%-12s", name))
	}

	p := m.phases[idx]
	counts := fmt.Sprintf("%d/%d", p.done, p.planned)

	current := idx == len(m.phases)-1 && !m.finished
	switch {
	case p.failed > 0:
		return styles.ErrorText.Render("✗") + " " + fmt.Sprintf("%-12s", name) + styles.ErrorText.Render(counts)
	case current:
		return m.spinner.View() + " " + fmt.Sprintf("%-12s", name) + styles.MutedText.Render(counts)
	case p.warned > 0:
		return styles.WarningText.Render("!") + " " + fmt.Sprintf("%-12s", name) + styles.WarningText.Render(counts)
	default:
		return styles.SuccessText.Render("✓") + " " + fmt.Sprintf("%-12s", name) + styles.MutedText.Render(counts)
	}
}

func (m progressModel) renderEntryLine(e journal.Entry) string {
	sym := statusSymbol(e.Status)
	line := fmt.Sprintf("%3d %s %s", e.Step, styles.StatusStyle(string(e.Status)).Render(sym), e.Action)
	if e.Decision != "" {
		line += styles.MutedText.Render("  " + e.Decision)
	}
	return line
}

func statusSymbol(s domain.Status) string {
	switch s {
	case domain.StatusSuccess:
		return "✓"
	case domain.StatusWarning:
		return "!"
	case domain.StatusFailed:
		return "✗"
	default:
		return "·"
	}
}

func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}
