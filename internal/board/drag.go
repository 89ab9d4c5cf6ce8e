package board

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/Leganyst/production-board/internal/layout"
	"github.com/Leganyst/production-board/internal/model"
)

var (
	ErrDragInProgress = errors.New("another drag is in progress")
	ErrDragInactive   = errors.New("no drag in progress")
)

type DragState int

const (
	DragIdle DragState = iota
	// DragPending: pointer is down but has not moved past the threshold.
	DragPending
	DragActive
	DragCommitted
	DragCancelled
)

func (s DragState) String() string {
	switch s {
	case DragIdle:
		return "idle"
	case DragPending:
		return "pending"
	case DragActive:
		return "active"
	case DragCommitted:
		return "committed"
	case DragCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Point is a pointer position in frame coordinates.
type Point struct {
	X float64
	Y float64
}

// DragKind tells what is being dragged.
type DragKind int

const (
	DragBar DragKind = iota
	DragAnnotation
)

// DropResult is the outcome of a committed drag. For bars only the new time
// range matters; annotations also carry their new box position.
type DropResult struct {
	EntryID uuid.UUID
	Kind    DragKind
	Day     layout.Day
	// DayChanged is true when the entry was dropped on another row.
	DayChanged bool
	Start      time.Time
	End        *time.Time
	// Box position relative to the target row, annotations only.
	X float64
	Y float64
}

// Drag tracks a single pointer gesture. The zero value is not usable; call
// NewDrag.
type Drag struct {
	threshold float64

	state  DragState
	kind   DragKind
	entry  model.ScheduleEntry
	origin Point // pointer position at Begin
	grab   Point // pointer offset from the dragged element's top-left
	last   Point
}

// NewDrag returns an idle tracker that activates once the pointer travels
// thresholdPx.
func NewDrag(thresholdPx float64) *Drag {
	return &Drag{threshold: thresholdPx}
}

func (d *Drag) State() DragState { return d.state }

func (d *Drag) busy() bool {
	return d.state == DragPending || d.state == DragActive
}

// BeginBar starts dragging a placed bar from pointer position p. The grab
// offset is taken from the entry's unclamped start, so a split bar keeps its
// start when dropped.
func (d *Drag) BeginBar(f *Frame, bar BarView, p Point) error {
	idx, ok := f.RowAt(p.Y)
	if !ok {
		return ErrDragInactive
	}
	row := f.Rows[idx]
	left := f.Geometry.Scale.Offset(row.Window.Start, bar.Start)
	return d.begin(DragBar, bar.Entry, p, Point{X: p.X - left, Y: p.Y - row.Top - bar.Top})
}

// BeginAnnotation starts dragging an overlay from pointer position p.
func (d *Drag) BeginAnnotation(f *Frame, ov Overlay, p Point) error {
	row, ok := f.RowOf(layout.ProductionDayKey(ov.Entry.StartTime))
	if !ok {
		return ErrDragInactive
	}
	top := f.Rows[row].Top + ov.Top
	return d.begin(DragAnnotation, ov.Entry, p, Point{X: p.X - ov.Left, Y: p.Y - top})
}

func (d *Drag) begin(kind DragKind, entry model.ScheduleEntry, p, grab Point) error {
	if d.busy() {
		return ErrDragInProgress
	}
	d.state = DragPending
	d.kind = kind
	d.entry = entry
	d.origin = p
	d.grab = grab
	d.last = p
	return nil
}

// Move records the pointer and activates the drag past the threshold.
func (d *Drag) Move(p Point) (DragState, error) {
	if !d.busy() {
		return d.state, ErrDragInactive
	}
	d.last = p
	if d.state == DragPending && math.Hypot(p.X-d.origin.X, p.Y-d.origin.Y) >= d.threshold {
		d.state = DragActive
	}
	return d.state, nil
}

// Cancel abandons the gesture.
func (d *Drag) Cancel() {
	if d.busy() {
		d.state = DragCancelled
	}
}

// Release ends the gesture at p. It returns nil without error when the
// pointer never passed the threshold or was released outside every row;
// the drag is then cancelled and nothing must be written.
func (d *Drag) Release(f *Frame, p Point) (*DropResult, error) {
	if !d.busy() {
		return nil, ErrDragInactive
	}
	if _, err := d.Move(p); err != nil {
		return nil, err
	}
	if d.state == DragPending {
		d.state = DragCancelled
		return nil, nil
	}

	idx, ok := f.RowAt(p.Y)
	if !ok || p.X < 0 || p.X > f.ContentWidth {
		d.state = DragCancelled
		return nil, nil
	}
	row := f.Rows[idx]
	scale := f.Geometry.Scale

	left := p.X - d.grab.X
	start := scale.SnapAt(row.Window.Start, left)
	res := &DropResult{
		EntryID:    d.entry.ID,
		Kind:       d.kind,
		Day:        row.Day,
		DayChanged: layout.ProductionDayKey(d.entry.StartTime) != row.Day,
		Start:      start,
	}
	if d.entry.EndTime != nil {
		end := start.Add(d.entry.EndTime.Sub(d.entry.StartTime))
		res.End = &end
	}

	if d.kind == DragAnnotation {
		res.X = math.Max(0, left)
		if res.DayChanged {
			res.Y = f.Geometry.BaseMargin
		} else {
			// a box kept on its own row keeps its time
			res.Y = math.Max(0, p.Y-d.grab.Y-row.Top)
			res.Start = d.entry.StartTime
			res.End = d.entry.EndTime
		}
	}

	d.state = DragCommitted
	return res, nil
}
