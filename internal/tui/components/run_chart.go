package components

import (
	"fmt"

	"nathanbeddoewebdev/conform/internal/tui/styles"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/lipgloss"
)

// chartHeight is the fixed height for all run sparklines.
const chartHeight = 5

// RunSparkline renders a single-series sparkline with a label header,
// used for run history trends (durations, warning counts).
// Returns a muted placeholder if data is empty.
func RunSparkline(label string, data []float64, width int, suffix string) string {
	if len(data) == 0 {
		return styles.MutedText.Render(label + ": no data")
	}

	plotWidth := width - 4
	if plotWidth < 10 {
		plotWidth = 10
	}
	if plotWidth > len(data) {
		plotWidth = max(len(data), 10)
	}

	sl := sparkline.New(plotWidth, chartHeight,
		sparkline.WithStyle(lipgloss.NewStyle().Foreground(styles.Blue)),
	)
	sl.PushAll(data)
	sl.Draw()
	chart := sl.View()

	// Summary line: current (latest), min, max.
	current := data[len(data)-1]
	min, max := minMax(data)
	summary := styles.MutedText.Render(
		fmt.Sprintf("  cur: %s  min: %s  max: %s",
			formatValue(current, suffix),
			formatValue(min, suffix),
			formatValue(max, suffix),
		),
	)

	header := styles.Label.Render(label)
	return lipgloss.JoinVertical(lipgloss.Left, header, chart, summary)
}

// minMax returns the minimum and maximum values from a slice.
func minMax(data []float64) (float64, float64) {
	if len(data) == 0 {
		return 0, 0
	}
	min, max := data[0], data[0]
	for _, v := range data[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// formatValue renders a float with an optional suffix, using human-readable
// formatting for large values.
func formatValue(v float64, suffix string) string {
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("%.1fG%s", v/1_000_000_000, suffix)
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM%s", v/1_000_000, suffix)
	case v >= 1_000:
		return fmt.Sprintf("%.1fK%s", v/1_000, suffix)
	default:
		return fmt.Sprintf("%.1f%s", v, suffix)
	}
}
