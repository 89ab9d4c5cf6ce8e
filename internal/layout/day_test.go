package layout

import (
	"testing"
	"time"
)

func TestProductionDayKey_Cutover(t *testing.T) {
	before := ProductionDayKey(mustTime(t, 2025, 1, 2, 5, 59))
	at := ProductionDayKey(mustTime(t, 2025, 1, 2, 6, 0))

	if before != (Day{2025, time.January, 1}) {
		t.Fatalf("05:59 expected previous day, got %v", before)
	}
	if at != (Day{2025, time.January, 2}) {
		t.Fatalf("06:00 expected same day, got %v", at)
	}
}

func TestProductionDayKey_YearBoundary(t *testing.T) {
	got := ProductionDayKey(mustTime(t, 2025, 1, 1, 3, 0))
	if got.String() != "2024-12-31" {
		t.Fatalf("expected 2024-12-31, got %s", got)
	}
}

func TestProductionDayKey_Idempotent(t *testing.T) {
	loc := time.FixedZone("JST", 9*60*60)
	for _, ts := range []time.Time{
		time.Date(2025, 6, 1, 0, 0, 0, 0, loc),
		time.Date(2025, 6, 1, 5, 59, 59, 0, loc),
		time.Date(2025, 6, 1, 6, 0, 0, 0, loc),
		time.Date(2025, 6, 1, 23, 59, 0, 0, loc),
	} {
		key := ProductionDayKey(ts)
		if again := ProductionDayKey(key.Start(loc)); again != key {
			t.Fatalf("key of day start differs: %v vs %v", again, key)
		}
	}
}

func TestProductionDayKey_UsesTimestampLocation(t *testing.T) {
	utc := mustTime(t, 2025, 1, 1, 22, 0)
	jst := time.FixedZone("JST", 9*60*60)

	if got := ProductionDayKey(utc); got.String() != "2025-01-01" {
		t.Fatalf("expected 2025-01-01 in UTC, got %s", got)
	}
	// 07:00 on Jan 2 in JST.
	if got := ProductionDayKey(utc.In(jst)); got.String() != "2025-01-02" {
		t.Fatalf("expected 2025-01-02 in JST, got %s", got)
	}
}

func TestDay_Window(t *testing.T) {
	w := Day{2025, 1, 1}.Window(time.UTC)
	if !w.Start.Equal(mustTime(t, 2025, 1, 1, 6, 0)) {
		t.Fatalf("unexpected start %v", w.Start)
	}
	if !w.End.Equal(mustTime(t, 2025, 1, 2, 6, 0)) {
		t.Fatalf("unexpected end %v", w.End)
	}
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2025-02-28")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.AddDays(1).String() != "2025-03-01" {
		t.Fatalf("expected 2025-03-01, got %s", d.AddDays(1))
	}
	if _, err := ParseDay("28/02/2025"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestVisibleRange(t *testing.T) {
	r := VisibleRange(Day{2025, 1, 10}, 1, 6)
	days := r.Days()
	if len(days) != 6 {
		t.Fatalf("expected 6 days, got %d", len(days))
	}
	if days[0].String() != "2025-01-09" || days[5].String() != "2025-01-14" {
		t.Fatalf("unexpected range %v..%v", days[0], days[5])
	}
	w := r.Window(time.UTC)
	if !w.End.Equal(mustTime(t, 2025, 1, 15, 6, 0)) {
		t.Fatalf("unexpected window end %v", w.End)
	}
}
