package table

import (
	"cmp"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Leganyst/production-board/internal/layout"
	"github.com/Leganyst/production-board/internal/model"
)

// Row is one line of the schedule table.
type Row struct {
	ID             uuid.UUID
	ScheduleNumber string
	ProductName    string
	Line           string
	Day            layout.Day
	Start          string
	End            string
	Quantity       *float64
	TotalQuantity  *float64
	Status         string
	Sync           string
	Notes          string
}

// Rows lists production entries ordered by start, annotations left out.
// Times are shown in loc.
func Rows(entries []model.ScheduleEntry, loc *time.Location) []Row {
	production := make([]model.ScheduleEntry, 0, len(entries))
	for _, e := range entries {
		if !e.IsAnnotation() {
			production = append(production, e.In(loc))
		}
	}
	slices.SortStableFunc(production, func(a, b model.ScheduleEntry) int {
		return cmp.Compare(a.StartTime.UnixNano(), b.StartTime.UnixNano())
	})

	rows := make([]Row, 0, len(production))
	for _, e := range production {
		end := "-"
		if e.EndTime != nil {
			end = layout.FormatStamp(*e.EndTime)
		}
		number := e.ScheduleNumber
		if number == "" && e.RemoteID != nil {
			number = strconv.FormatUint(uint64(*e.RemoteID), 10)
		}
		if number == "" {
			number = "-"
		}
		rows = append(rows, Row{
			ID:             e.ID,
			ScheduleNumber: number,
			ProductName:    e.ProductName,
			Line:           e.Line,
			Day:            layout.ProductionDayKey(e.StartTime),
			Start:          layout.FormatStamp(e.StartTime),
			End:            end,
			Quantity:       e.Quantity,
			TotalQuantity:  e.TotalQuantity,
			Status:         e.Status.Label(),
			Sync:           e.SyncStatus.Label(),
			Notes:          e.NotesText,
		})
	}
	return rows
}
