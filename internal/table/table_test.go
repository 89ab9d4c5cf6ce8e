package table

import (
	"testing"
	"time"

	"github.com/Leganyst/production-board/internal/model"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	p := Paginate(items, 2, 2)
	if len(p.Items) != 2 || p.Items[0] != 3 || !p.HasNext || !p.HasPrev || p.Total != 5 {
		t.Fatalf("unexpected page %+v", p)
	}

	last := Paginate(items, 3, 2)
	if len(last.Items) != 1 || last.HasNext {
		t.Fatalf("unexpected last page %+v", last)
	}

	past := Paginate(items, 9, 2)
	if len(past.Items) != 0 || past.HasNext {
		t.Fatalf("expected empty page, got %+v", past)
	}

	def := Paginate(items, 0, 0)
	if def.Page != 1 || def.PageSize != defaultPageSize || len(def.Items) != 5 {
		t.Fatalf("unexpected defaults %+v", def)
	}
}

func TestRows_SkipsAnnotationsAndSorts(t *testing.T) {
	loc := time.FixedZone("JST", 9*60*60)
	remote := uint(88)
	end := time.Date(2025, time.January, 6, 14, 0, 0, 0, loc)
	entries := []model.ScheduleEntry{
		{ProductName: "late", StartTime: time.Date(2025, time.January, 6, 9, 0, 0, 0, loc), RemoteID: &remote},
		{ProductName: model.SentinelMemo, StartTime: time.Date(2025, time.January, 6, 7, 0, 0, 0, loc)},
		{ProductName: "early", ScheduleNumber: "010625_001", StartTime: time.Date(2025, time.January, 6, 3, 0, 0, 0, time.UTC), EndTime: &end, Status: model.StatusInProgress},
	}

	rows := Rows(entries, loc)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	// 03:00 UTC is 12:00 JST, after the 09:00 entry.
	if rows[0].ProductName != "late" || rows[1].ProductName != "early" {
		t.Fatalf("rows not ordered by start: %q, %q", rows[0].ProductName, rows[1].ProductName)
	}
	if rows[0].ScheduleNumber != "88" || rows[0].End != "-" {
		t.Fatalf("unexpected fallback fields %+v", rows[0])
	}
	if rows[1].Start != "1/6 12:00" || rows[1].End != "1/6 14:00" || rows[1].Status != "生産中" {
		t.Fatalf("unexpected formatted row %+v", rows[1])
	}
}
