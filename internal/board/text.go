package board

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Leganyst/production-board/internal/layout"
	"github.com/Leganyst/production-board/internal/model"
)

var (
	rowTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#101F38"))
	rulerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#86868B"))
	noteStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8860B"))

	statusStyle = map[model.ProductionStatus]lipgloss.Style{
		model.StatusNotStarted: lipgloss.NewStyle().Foreground(lipgloss.Color("#4A90E2")),
		model.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("#F5A623")),
		model.StatusFinished:   lipgloss.NewStyle().Foreground(lipgloss.Color("#7ED321")),
	}
	statusGlyph = map[model.ProductionStatus]rune{
		model.StatusNotStarted: '░',
		model.StatusInProgress: '▓',
		model.StatusFinished:   '█',
	}
)

// Text renders the frame for a terminal of the given column count. Every
// lane becomes one line of cells, one cell per 1/cellsPerHour hour.
func Text(f *Frame, columns int) string {
	cellsPerHour := (columns - 2) / int(layout.RowSpan.Hours())
	if cellsPerHour < 1 {
		cellsPerHour = 1
	}
	cells := cellsPerHour * int(layout.RowSpan.Hours())
	cellPx := f.Geometry.Scale.PxPerHour / float64(cellsPerHour)

	var b strings.Builder
	for i, row := range f.Rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(rowTitleStyle.Render(row.Label))
		b.WriteString("\n")
		b.WriteString(rulerStyle.Render(ruler(row.Window, cellsPerHour)))
		b.WriteString("\n")

		for _, lane := range row.Lanes {
			b.WriteString(laneLine(lane, cells, cellPx))
			b.WriteString("\n")
		}
		for _, lane := range row.Lanes {
			for _, bar := range lane {
				b.WriteString(fmt.Sprintf("  L%d %-10s %s %s\n",
					bar.Lane+1,
					bar.Entry.ProductName,
					layout.FormatRange(layout.TimeRange{Start: bar.Start, End: bar.End}),
					bar.Entry.Status.Label(),
				))
			}
		}
		for _, ov := range row.Overlays {
			b.WriteString(noteStyle.Render(fmt.Sprintf("  ✎ %s @%s", oneLine(ov.Payload.Text), layout.FormatClock(ov.Entry.StartTime))))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func ruler(window layout.TimeRange, cellsPerHour int) string {
	var b strings.Builder
	for _, label := range layout.HourLabels(window) {
		cell := label
		if len(cell) > cellsPerHour {
			cell = strings.TrimSuffix(cell, ":00")
		}
		if len(cell) > cellsPerHour {
			cell = "|"
		}
		b.WriteString(cell)
		b.WriteString(strings.Repeat(" ", cellsPerHour-len(cell)))
	}
	return b.String()
}

func laneLine(lane []BarView, cells int, cellPx float64) string {
	line := make([]rune, cells)
	for i := range line {
		line[i] = '·'
	}
	styles := make([]lipgloss.Style, cells)
	styled := make([]bool, cells)

	for _, bar := range lane {
		from := int(math.Floor(bar.Left / cellPx))
		to := int(math.Ceil((bar.Left + bar.Width) / cellPx))
		from, to = max(from, 0), min(to, cells)
		glyph, ok := statusGlyph[bar.Entry.Status]
		if !ok {
			glyph = statusGlyph[model.StatusNotStarted]
		}
		for c := from; c < to; c++ {
			line[c] = glyph
			styles[c] = statusStyle[bar.Entry.Status]
			styled[c] = true
		}
		if bar.SplitStart && from < to {
			line[from] = '<'
		}
		if bar.SplitEnd && from < to {
			line[to-1] = '>'
		}
	}

	var b strings.Builder
	for i, r := range line {
		if styled[i] {
			b.WriteString(styles[i].Render(string(r)))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
