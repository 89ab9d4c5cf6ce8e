package board

import (
	"fmt"
	"io"
	"strings"

	"github.com/Leganyst/production-board/internal/layout"
	"github.com/Leganyst/production-board/internal/model"
)

const headerHeight = 24.0

var statusFill = map[model.ProductionStatus]string{
	model.StatusNotStarted: "#DCEBFF",
	model.StatusInProgress: "#FFE3B3",
	model.StatusFinished:   "#D5F5DC",
}

// WriteSVG draws the frame as a standalone SVG document.
func WriteSVG(w io.Writer, f *Frame) error {
	_, err := io.WriteString(w, SVG(f))
	return err
}

// SVG renders the frame: a header with hour labels, one band per row with
// its label, bars per lane and annotation overlays on top.
func SVG(f *Frame) string {
	width := f.LabelWidth + f.ContentWidth
	height := headerHeight + f.Height
	px := f.Geometry.Scale.PxPerHour

	var svg strings.Builder
	svg.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="%.0f" height="%.0f" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="#FFFFFF"/>
<defs>
<style>
.hour { font-family: sans-serif; font-size: 11px; fill: #86868B; }
.label { font-family: sans-serif; font-size: 13px; font-weight: bold; fill: #1D1D1F; }
.bar-text { font-family: sans-serif; font-size: 12px; fill: #1D1D1F; }
.note-text { font-family: sans-serif; font-size: 12px; fill: #3A3A3C; }
</style>
</defs>
`, width, height))

	if len(f.Rows) > 0 {
		for i, label := range layout.HourLabels(f.Rows[0].Window) {
			x := f.LabelWidth + float64(i)*px
			svg.WriteString(fmt.Sprintf(`<text class="hour" x="%.1f" y="16">%s</text>`+"\n", x+4, label))
		}
	}

	for _, row := range f.Rows {
		y := headerHeight + row.Top
		svg.WriteString(fmt.Sprintf(`<g class="row" data-day="%s">`+"\n", row.Day))
		svg.WriteString(fmt.Sprintf(`<rect x="0" y="%.1f" width="%.1f" height="%.1f" fill="#FAFAFA" stroke="#E5E5EA"/>`+"\n",
			y, width, row.Height))
		svg.WriteString(fmt.Sprintf(`<text class="label" x="8" y="%.1f">%s</text>`+"\n", y+20, escapeXML(row.Label)))

		for h := 1; h < int(layout.RowSpan.Hours()); h++ {
			x := f.LabelWidth + float64(h)*px
			svg.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#F0F0F2"/>`+"\n",
				x, y, x, y+row.Height))
		}

		for _, lane := range row.Lanes {
			for _, bar := range lane {
				drawBar(&svg, f.LabelWidth, y, bar)
			}
		}
		for _, ov := range row.Overlays {
			drawOverlay(&svg, f.LabelWidth, y, ov)
		}
		svg.WriteString("</g>\n")
	}

	svg.WriteString("</svg>")
	return svg.String()
}

func drawBar(svg *strings.Builder, offsetX, rowY float64, bar BarView) {
	x, y := offsetX+bar.Left, rowY+bar.Top
	fill, ok := statusFill[bar.Entry.Status]
	if !ok {
		fill = statusFill[model.StatusNotStarted]
	}

	class := "bar"
	if bar.SplitStart {
		class += " split-start"
	}
	if bar.SplitEnd {
		class += " split-end"
	}

	svg.WriteString(fmt.Sprintf(`<g class="%s" data-id="%s">`+"\n", class, bar.Entry.ID))
	svg.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="6" fill="%s" stroke="#8E8E93"/>`+"\n",
		x, y, bar.Width, bar.Height, fill))
	svg.WriteString(fmt.Sprintf(`<text class="bar-text" x="%.1f" y="%.1f">%s</text>`+"\n",
		x+6, y+18, escapeXML(bar.Entry.ProductName)))
	svg.WriteString(fmt.Sprintf(`<text class="bar-text" x="%.1f" y="%.1f">%s</text>`+"\n",
		x+6, y+36, escapeXML(layout.FormatRange(layout.TimeRange{Start: bar.Start, End: bar.End}))))
	if bar.Entry.ScheduleNumber != "" {
		svg.WriteString(fmt.Sprintf(`<text class="bar-text" x="%.1f" y="%.1f">%s</text>`+"\n",
			x+6, y+54, escapeXML(bar.Entry.ScheduleNumber)))
	}
	svg.WriteString("</g>\n")
}

func drawOverlay(svg *strings.Builder, offsetX, rowY float64, ov Overlay) {
	x, y := offsetX+ov.Left, rowY+ov.Top
	w, h := ov.Width*ov.Scale, ov.Height*ov.Scale

	color := ov.Payload.Color
	if color == "" {
		color = "#FFF59D"
	}

	svg.WriteString(fmt.Sprintf(`<g class="annotation" data-id="%s">`+"\n", ov.Entry.ID))
	switch {
	case ov.Entry.ProductName == model.SentinelShape && ov.Payload.Type == "circle":
		svg.WriteString(fmt.Sprintf(`<ellipse cx="%.1f" cy="%.1f" rx="%.1f" ry="%.1f" fill="none" stroke="%s" stroke-width="3"/>`+"\n",
			x+w/2, y+h/2, w/2, h/2, escapeXML(color)))
	case ov.Entry.ProductName == model.SentinelShape:
		svg.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="%s" stroke-width="3"/>`+"\n",
			x, y, w, h, escapeXML(color)))
	default:
		svg.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="#C7B500"/>`+"\n",
			x, y, w, h, escapeXML(color)))
	}
	for i, line := range strings.Split(ov.Payload.Text, "\n") {
		svg.WriteString(fmt.Sprintf(`<text class="note-text" x="%.1f" y="%.1f">%s</text>`+"\n",
			x+8, y+20+float64(i)*16, escapeXML(line)))
	}
	svg.WriteString("</g>\n")
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
