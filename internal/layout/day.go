package layout

import (
	"fmt"
	"time"
)

// CutoverHour is the local hour at which one production day ends and the
// next begins.
const CutoverHour = 6

// RowSpan is the fixed length of one production-day row.
const RowSpan = 24 * time.Hour

// Day is a date-only production-day key.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// ProductionDayKey buckets a timestamp into its production day. Times before
// the cutover hour belong to the previous calendar day. The timestamp's own
// location is used, so callers convert to the board's zone first.
func ProductionDayKey(t time.Time) Day {
	if t.Hour() < CutoverHour {
		t = t.AddDate(0, 0, -1)
	}
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// DateOf returns the calendar date of t without applying the cutover.
func DateOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// ParseDay parses a YYYY-MM-DD key.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Day{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero reports whether d is the zero key.
func (d Day) IsZero() bool {
	return d == Day{}
}

// AddDays shifts the key by n calendar days.
func (d Day) AddDays(n int) Day {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 12, 0, 0, 0, time.UTC))
}

// Before reports whether d is earlier than other.
func (d Day) Before(other Day) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// Weekday returns the weekday of the calendar date.
func (d Day) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC).Weekday()
}

// Start returns the cutover instant that opens the production day in loc.
func (d Day) Start(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, d.Month, d.Day, CutoverHour, 0, 0, 0, loc)
}

// Window returns the row range [Start, Start+24h).
func (d Day) Window(loc *time.Location) TimeRange {
	start := d.Start(loc)
	return TimeRange{Start: start, End: start.Add(RowSpan)}
}

// DayRange is an inclusive range of production days.
type DayRange struct {
	First Day
	Last  Day
}

// Days lists every key in the range in order.
func (r DayRange) Days() []Day {
	var out []Day
	for d := r.First; !r.Last.Before(d); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out
}

// Window covers the first day's cutover through the end of the last row.
func (r DayRange) Window(loc *time.Location) TimeRange {
	return TimeRange{Start: r.First.Start(loc), End: r.Last.Window(loc).End}
}

// VisibleRange returns the rows shown around a cursor date: `before` days
// ahead of it and `count` rows in total.
func VisibleRange(cursor Day, before, count int) DayRange {
	if count < 1 {
		count = 1
	}
	first := cursor.AddDays(-before)
	return DayRange{First: first, Last: first.AddDays(count - 1)}
}
