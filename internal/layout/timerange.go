package layout

import (
	"errors"
	"time"
)

var ErrInvalidTimeRange = errors.New("invalid time range")

// TimeRange is a half-open interval [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange builds a range and rejects zero bounds.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if start.IsZero() || end.IsZero() {
		return TimeRange{}, ErrInvalidTimeRange
	}
	return TimeRange{Start: start, End: end}, nil
}

// NormalizeTimeRange swaps reversed bounds and converts both to loc.
// An empty range after normalization is rejected.
func NormalizeTimeRange(start, end time.Time, loc *time.Location) (TimeRange, error) {
	if start.IsZero() || end.IsZero() {
		return TimeRange{}, ErrInvalidTimeRange
	}
	if end.Before(start) {
		start, end = end, start
	}
	if loc != nil {
		start = start.In(loc)
		end = end.In(loc)
	}
	if !end.After(start) {
		return TimeRange{}, ErrInvalidTimeRange
	}
	return TimeRange{Start: start, End: end}, nil
}

// Duration returns End-Start.
func (tr TimeRange) Duration() time.Duration {
	return tr.End.Sub(tr.Start)
}

// Overlaps reports whether two half-open ranges share any instant.
// Ranges that only touch at a boundary do not overlap.
func (tr TimeRange) Overlaps(other TimeRange) bool {
	return tr.Start.Before(other.End) && other.Start.Before(tr.End)
}

// Clamp limits t to [tr.Start, tr.End].
func (tr TimeRange) Clamp(t time.Time) time.Time {
	if t.Before(tr.Start) {
		return tr.Start
	}
	if t.After(tr.End) {
		return tr.End
	}
	return t
}

// SplitHours cuts the range into consecutive one-hour ticks.
// A trailing piece shorter than an hour is dropped.
func (tr TimeRange) SplitHours() []TimeRange {
	if !tr.End.After(tr.Start) {
		return []TimeRange{}
	}
	var ticks []TimeRange
	for cur := tr.Start; !cur.Add(time.Hour).After(tr.End); cur = cur.Add(time.Hour) {
		ticks = append(ticks, TimeRange{Start: cur, End: cur.Add(time.Hour)})
	}
	return ticks
}
