package layout

import (
	"slices"
	"time"
)

const (
	// DefaultSpan is assumed for entries that have no end time.
	DefaultSpan = time.Hour
	// MinVisualDuration keeps short bars wide enough to tell apart.
	MinVisualDuration = 45 * time.Minute
)

// Interval is the time range of one schedule entry as seen by the layout.
// A zero End means the entry has no end time.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Spanned is implemented by anything the layout engine can place.
type Spanned interface {
	Span() Interval
}

// ActualEnd returns End, or Start+DefaultSpan when End is absent.
func (iv Interval) ActualEnd() time.Time {
	if iv.End.IsZero() {
		return iv.Start.Add(DefaultSpan)
	}
	return iv.End
}

// EffectiveEnd extends the actual end to at least Start+MinVisualDuration.
// Only lane placement uses it; the displayed range is never changed.
func (iv Interval) EffectiveEnd() time.Time {
	end := iv.ActualEnd()
	if floor := iv.Start.Add(MinVisualDuration); floor.After(end) {
		return floor
	}
	return end
}

// Range returns [Start, ActualEnd).
func (iv Interval) Range() TimeRange {
	return TimeRange{Start: iv.Start, End: iv.ActualEnd()}
}

// PackLanes assigns entries to lanes with a greedy first-fit pass over the
// entries ordered by start time. An entry joins the first lane whose last
// entry's effective end is not after its start; otherwise it opens a new
// lane. Equal start times keep their input order. The input is not modified.
func PackLanes[T Spanned](entries []T) [][]T {
	if len(entries) == 0 {
		return [][]T{}
	}

	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return a.Span().Start.Compare(b.Span().Start)
	})

	var lanes [][]T
	for _, e := range sorted {
		start := e.Span().Start
		placed := false
		for i, lane := range lanes {
			last := lane[len(lane)-1]
			if !last.Span().EffectiveEnd().After(start) {
				lanes[i] = append(lane, e)
				placed = true
				break
			}
		}
		if !placed {
			lanes = append(lanes, []T{e})
		}
	}
	return lanes
}

// InRow keeps the entries whose actual range intersects the row window.
// Entries spanning the cutover appear in both adjacent rows.
func InRow[T Spanned](entries []T, row TimeRange) []T {
	var out []T
	for _, e := range entries {
		iv := e.Span()
		if iv.Start.IsZero() {
			continue
		}
		if iv.Range().Overlaps(row) {
			out = append(out, e)
		}
	}
	return out
}
