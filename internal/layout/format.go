package layout

import (
	"fmt"
	"time"
)

var jaWeekdays = map[time.Weekday]string{
	time.Sunday:    "日",
	time.Monday:    "月",
	time.Tuesday:   "火",
	time.Wednesday: "水",
	time.Thursday:  "木",
	time.Friday:    "金",
	time.Saturday:  "土",
}

// RowLabel formats a production day as "M/D (曜)".
func RowLabel(d Day) string {
	return fmt.Sprintf("%d/%d (%s)", int(d.Month), d.Day, jaWeekdays[d.Weekday()])
}

// HourLabels returns the 24 column headings of a row, starting at the
// cutover hour ("6:00" … "5:00").
func HourLabels(row TimeRange) []string {
	ticks := row.SplitHours()
	labels := make([]string, 0, len(ticks))
	for _, t := range ticks {
		labels = append(labels, fmt.Sprintf("%d:00", t.Start.Hour()))
	}
	return labels
}

// FormatStamp formats an instant as "M/D HH:MM"; zero prints "-".
func FormatStamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%d/%d %s", int(t.Month()), t.Day(), t.Format("15:04"))
}

// FormatClock formats the time of day without padding the hour ("8:05").
func FormatClock(t time.Time) string {
	return fmt.Sprintf("%d:%02d", t.Hour(), t.Minute())
}

// FormatRange formats an entry range as "M/D HH:MM–HH:MM", or with both
// dates when it spans calendar days.
func FormatRange(tr TimeRange) string {
	if DateOf(tr.Start) == DateOf(tr.End) {
		return fmt.Sprintf("%s–%s", FormatStamp(tr.Start), tr.End.Format("15:04"))
	}
	return fmt.Sprintf("%s–%s", FormatStamp(tr.Start), FormatStamp(tr.End))
}
