package kintone

import (
	"time"

	"github.com/Leganyst/production-board/internal/model"
)

// Field codes of the production schedule app.
const (
	FieldRecordID       = "$id"
	FieldProductName    = "製品名"
	FieldItemName       = "品名"
	FieldLine           = "分類"
	FieldStart          = "開始日時1"
	FieldEnd            = "総終了日時"
	FieldStatus         = "生産状況"
	FieldNotes          = "内製造備考1"
	FieldEfficiency     = "製綿能率1"
	FieldQuantity       = "生産数量1"
	FieldTotalQuantity  = "総個数"
	FieldScheduleNumber = "スケジュール番号"
)

// EntryFromRecord converts a remote record. ok is false for records without
// a product name, which are skipped.
func EntryFromRecord(rec Record) (e model.ScheduleEntry, ok bool, err error) {
	name := rec.String(FieldProductName)
	if name == "" {
		name = rec.String(FieldItemName)
	}
	if name == "" {
		return model.ScheduleEntry{}, false, nil
	}

	id, hasID := rec.ID()
	start, hasStart, err := rec.Time(FieldStart)
	if err != nil {
		return model.ScheduleEntry{}, false, err
	}
	if !hasStart {
		return model.ScheduleEntry{}, false, nil
	}

	e = model.ScheduleEntry{
		ScheduleNumber: rec.String(FieldScheduleNumber),
		ProductName:    name,
		Line:           rec.String(FieldLine),
		StartTime:      start,
		Quantity:       rec.Number(FieldQuantity),
		TotalQuantity:  rec.Number(FieldTotalQuantity),
	}
	if hasID {
		e.RemoteID = &id
	}
	end, hasEnd, err := rec.Time(FieldEnd)
	if err != nil {
		return model.ScheduleEntry{}, false, err
	}
	if hasEnd {
		e.EndTime = &end
	}
	if eff := rec.String(FieldEfficiency); eff != "" {
		e.Efficiency = &eff
	}
	// unknown labels fall back to not started
	e.Status, _ = model.NormalizeStatus(rec.String(FieldStatus))

	if err := e.SetNotes(model.DecodeNotes(name, rec.String(FieldNotes))); err != nil {
		return model.ScheduleEntry{}, false, err
	}
	return e, true, nil
}

// RecordFromEntry builds the fields written on push.
func RecordFromEntry(e model.ScheduleEntry) (Record, error) {
	notes, err := e.Notes().Encode()
	if err != nil {
		return nil, err
	}

	rec := Record{
		FieldProductName:   Value(e.ProductName),
		FieldLine:          Value(e.Line),
		FieldStart:         Value(formatTime(e.StartTime)),
		FieldEnd:           Value(nil),
		FieldStatus:        Value(e.Status.Label()),
		FieldNotes:         Value(notes),
		FieldEfficiency:    Value(e.Efficiency),
		FieldQuantity:      Value(e.Quantity),
		FieldTotalQuantity: Value(e.TotalQuantity),
	}
	if e.EndTime != nil {
		rec[FieldEnd] = Value(formatTime(*e.EndTime))
	}
	if e.ScheduleNumber != "" {
		rec[FieldScheduleNumber] = Value(e.ScheduleNumber)
	}
	return rec, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
