// Package board turns a snapshot of schedule entries into the rows, lanes
// and overlays of the production board, and tracks drag gestures on it.
package board

import (
	"time"

	"github.com/Leganyst/production-board/internal/config"
	"github.com/Leganyst/production-board/internal/layout"
	"github.com/Leganyst/production-board/internal/model"
)

// RenderContext carries everything one render pass needs. It is built per
// pass and never shared between passes.
type RenderContext struct {
	Cursor   layout.Day
	Days     layout.DayRange
	Loc      *time.Location
	Geometry layout.Geometry

	LabelWidth     float64
	ContentWidth   float64
	RowMinHeight   float64
	AnnotationSize layout.AnnotationSize

	entries []model.ScheduleEntry
}

// NewRenderContext sizes a pass for a container of the given pixel width.
// A width <= 0 falls back to the configured default.
func NewRenderContext(cfg config.BoardConfig, cursor layout.Day, width float64) *RenderContext {
	if width <= 0 {
		width = float64(cfg.Rows.DefaultWidth)
	}
	scale := layout.NewScale(width-cfg.Layout.LabelWidth, cfg.Layout.MinPxPerHour)

	return &RenderContext{
		Cursor: cursor,
		Days:   layout.VisibleRange(cursor, cfg.Rows.DaysBefore, cfg.Rows.Visible),
		Loc:    cfg.Location(),
		Geometry: layout.Geometry{
			Scale:      scale,
			BaseMargin: cfg.Layout.BaseMargin,
			LaneHeight: cfg.Layout.LaneHeight,
			BarHeight:  cfg.Layout.BarHeight,
		},
		LabelWidth:   cfg.Layout.LabelWidth,
		ContentWidth: scale.RowWidth(),
		RowMinHeight: cfg.Layout.RowMinHeight,
		AnnotationSize: layout.AnnotationSize{
			Width:  cfg.Annotation.Width,
			Height: cfg.Annotation.Height,
		},
	}
}

// Window is the time range the store must load for this pass.
func (rc *RenderContext) Window() layout.TimeRange {
	return rc.Days.Window(rc.Loc)
}

// WithEntries sets the snapshot rendered by Render.
func (rc *RenderContext) WithEntries(entries []model.ScheduleEntry) *RenderContext {
	rc.entries = entries
	return rc
}

// Frame is the output of one pass. Coordinates are relative to the top-left
// corner of the first row's content area, right of the label column.
type Frame struct {
	Cursor       layout.Day
	Geometry     layout.Geometry
	LabelWidth   float64
	ContentWidth float64
	Height       float64
	Rows         []Row
}

type Row struct {
	Day    layout.Day
	Label  string
	Window layout.TimeRange
	Top    float64
	Height float64
	Lanes  [][]BarView
	// Overlays of annotations owned by this production day.
	Overlays []Overlay
}

// BarView is a placed production entry.
type BarView struct {
	layout.Bar
	Entry model.ScheduleEntry
}

// Overlay is a placed sticky note or shape.
type Overlay struct {
	layout.Placement
	Entry   model.ScheduleEntry
	Payload model.AnnotationPayload
}

// Render lays out every visible row.
func (rc *RenderContext) Render() *Frame {
	var production, annotations []model.ScheduleEntry
	for _, e := range rc.entries {
		e = e.In(rc.Loc)
		if e.IsAnnotation() {
			annotations = append(annotations, e)
			continue
		}
		production = append(production, e)
	}

	f := &Frame{
		Cursor:       rc.Cursor,
		Geometry:     rc.Geometry,
		LabelWidth:   rc.LabelWidth,
		ContentWidth: rc.ContentWidth,
	}

	top := 0.0
	for _, day := range rc.Days.Days() {
		row := rc.renderRow(day, production, annotations)
		row.Top = top
		top += row.Height
		f.Rows = append(f.Rows, row)
	}
	f.Height = top
	return f
}

func (rc *RenderContext) renderRow(day layout.Day, production, annotations []model.ScheduleEntry) Row {
	window := day.Window(rc.Loc)
	row := Row{
		Day:    day,
		Label:  layout.RowLabel(day),
		Window: window,
		Lanes:  [][]BarView{},
	}

	for i, lane := range layout.PackLanes(layout.InRow(production, window)) {
		var bars []BarView
		for _, e := range lane {
			bar, ok := rc.Geometry.PlaceBar(window, e.Span(), i)
			if !ok {
				continue
			}
			bars = append(bars, BarView{Bar: bar, Entry: e})
		}
		row.Lanes = append(row.Lanes, bars)
	}

	for _, e := range annotations {
		if layout.ProductionDayKey(e.StartTime) != day {
			continue
		}
		payload := e.Notes().Annotation
		p := rc.Geometry.PlaceAnnotation(window, e.Span(), payload.Position(), rc.AnnotationSize)
		row.Overlays = append(row.Overlays, Overlay{Placement: p, Entry: e, Payload: payload})
	}

	row.Height = rc.Geometry.RowHeight(len(row.Lanes), rc.RowMinHeight)
	return row
}

// RowAt returns the index of the row containing the vertical offset y.
func (f *Frame) RowAt(y float64) (int, bool) {
	for i, r := range f.Rows {
		if y >= r.Top && y < r.Top+r.Height {
			return i, true
		}
	}
	return -1, false
}

// RowOf returns the index of the row showing day.
func (f *Frame) RowOf(day layout.Day) (int, bool) {
	for i, r := range f.Rows {
		if r.Day == day {
			return i, true
		}
	}
	return -1, false
}

// Bars lists every placed bar of the frame in row then lane order.
func (f *Frame) Bars() []BarView {
	var out []BarView
	for _, r := range f.Rows {
		for _, lane := range r.Lanes {
			out = append(out, lane...)
		}
	}
	return out
}
