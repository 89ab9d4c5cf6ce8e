package layout

import (
	"math"
	"time"
)

const (
	// MinPxPerHour keeps hour columns legible on narrow containers.
	MinPxPerHour = 60.0
	// SnapStep is the drop granularity for dragged entries.
	SnapStep = 15 * time.Minute
)

// Scale maps durations to horizontal pixels.
type Scale struct {
	PxPerHour float64
}

// NewScale divides the available width across the 24 hour columns, floored
// at minPxPerHour (MinPxPerHour when minPxPerHour <= 0).
func NewScale(availableWidth, minPxPerHour float64) Scale {
	if minPxPerHour <= 0 {
		minPxPerHour = MinPxPerHour
	}
	px := availableWidth / RowSpan.Hours()
	if math.IsNaN(px) || px < minPxPerHour {
		px = minPxPerHour
	}
	return Scale{PxPerHour: px}
}

// RowWidth is the pixel width of a full production-day row.
func (s Scale) RowWidth() float64 {
	return s.PxPerHour * RowSpan.Hours()
}

// MinWidth is the narrowest bar the renderer draws (MinVisualDuration wide).
func (s Scale) MinWidth() float64 {
	return s.Pixels(MinVisualDuration)
}

// Pixels converts a duration to a pixel length.
func (s Scale) Pixels(d time.Duration) float64 {
	return d.Hours() * s.PxPerHour
}

// Duration converts a pixel length back to a duration.
func (s Scale) Duration(px float64) time.Duration {
	if s.PxPerHour <= 0 {
		return 0
	}
	return time.Duration(math.Round(px / s.PxPerHour * float64(time.Hour)))
}

// Offset is the pixel position of t relative to dayStart. It is not clamped.
func (s Scale) Offset(dayStart, t time.Time) float64 {
	return s.Pixels(t.Sub(dayStart))
}

// TimeAt converts a pixel offset within a row back to an instant.
func (s Scale) TimeAt(dayStart time.Time, px float64) time.Time {
	return dayStart.Add(s.Duration(px))
}

// SnapAt converts a pixel offset to an instant rounded to the nearest
// SnapStep boundary counted from dayStart.
func (s Scale) SnapAt(dayStart time.Time, px float64) time.Time {
	return Snap(dayStart, s.TimeAt(dayStart, px), SnapStep)
}

// Snap rounds t to the nearest multiple of step counted from ref.
func Snap(ref, t time.Time, step time.Duration) time.Time {
	if step <= 0 {
		return t
	}
	steps := math.Round(float64(t.Sub(ref)) / float64(step))
	return ref.Add(time.Duration(steps) * step)
}

// Geometry holds the constants of one render pass.
type Geometry struct {
	Scale      Scale
	BaseMargin float64
	LaneHeight float64
	BarHeight  float64
}

// Bar is the pixel placement of one production entry inside its row.
type Bar struct {
	Lane   int
	Left   float64
	Top    float64
	Width  float64
	Height float64
	// SplitStart marks a bar continuing from the previous row.
	SplitStart bool
	// SplitEnd marks a bar continuing into the next row.
	SplitEnd bool
	Start    time.Time
	End      time.Time
}

// LaneTop returns the vertical offset of a lane.
func (g Geometry) LaneTop(lane int) float64 {
	return g.BaseMargin + float64(lane)*g.LaneHeight
}

// PlaceBar projects an entry onto a row. The entry range is clamped to the
// row and flagged when it continues past either edge. ok is false when the
// entry does not intersect the row or its range is reversed; such bars are
// not drawn.
func (g Geometry) PlaceBar(row TimeRange, iv Interval, lane int) (Bar, bool) {
	start, end := iv.Start, iv.ActualEnd()
	if end.Before(start) {
		return Bar{}, false
	}
	if !start.Before(row.End) || !end.After(row.Start) {
		return Bar{}, false
	}

	cs, ce := row.Clamp(start), row.Clamp(end)
	width := g.Scale.Pixels(ce.Sub(cs))
	if minW := g.Scale.MinWidth(); width < minW {
		width = minW
	}
	if width <= 0 {
		return Bar{}, false
	}

	return Bar{
		Lane:       lane,
		Left:       g.Scale.Offset(row.Start, cs),
		Top:        g.LaneTop(lane),
		Width:      width,
		Height:     g.BarHeight,
		SplitStart: start.Before(row.Start),
		SplitEnd:   end.After(row.End),
		Start:      start,
		End:        end,
	}, true
}

// RowHeight is the height of a row holding the given number of lanes.
func (g Geometry) RowHeight(lanes int, minHeight float64) float64 {
	if lanes < 1 {
		lanes = 1
	}
	h := float64(lanes)*g.LaneHeight + 2*g.BaseMargin
	if h < minHeight {
		return minHeight
	}
	return h
}
