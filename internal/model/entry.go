package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Leganyst/production-board/internal/layout"
)

var ErrNotesKindMismatch = errors.New("notes kind does not match product")

// schedule_entries
type ScheduleEntry struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	// Record id in the business database; nil until first pushed.
	RemoteID *uint `gorm:"index"`

	// MMDDYY_NNN, sequence restarts every day.
	ScheduleNumber string `gorm:"type:varchar(32);index"`

	ProductName string `gorm:"type:varchar(128);not null;index"`
	Line        string `gorm:"type:varchar(64)"`

	StartTime time.Time  `gorm:"not null;index"`
	EndTime   *time.Time `gorm:""`

	// Production day of StartTime, kept for day filters.
	ProductionDay datatypes.Date `gorm:"index"`

	Quantity      *float64 `gorm:""`
	TotalQuantity *float64 `gorm:""`
	Efficiency    *string  `gorm:"type:varchar(16)"`

	Status ProductionStatus `gorm:"type:varchar(32);not null;default:'not_started'"`

	// Plain notes of production entries.
	NotesText string `gorm:"column:notes;type:text"`
	// Payload of MMO/SHAP entries.
	Annotation datatypes.JSON `gorm:"type:json"`

	SyncStatus SyncStatus `gorm:"type:varchar(16);not null;default:'pending';index"`
	// Bumped by every local edit. A push marks only the revision it sent.
	Revision int64 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeCreate assigns an id when the caller did not.
func (e *ScheduleEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// IsAnnotation reports whether the entry is a sticky note or shape.
func (e *ScheduleEntry) IsAnnotation() bool {
	return IsAnnotationProduct(e.ProductName)
}

// Span implements layout.Spanned.
func (e ScheduleEntry) Span() layout.Interval {
	iv := layout.Interval{Start: e.StartTime}
	if e.EndTime != nil {
		iv.End = *e.EndTime
	}
	return iv
}

// Range returns [start, actual end) with the default span for open entries.
func (e ScheduleEntry) Range() layout.TimeRange {
	return e.Span().Range()
}

// Duration is the actual span used when an entry is moved.
func (e ScheduleEntry) Duration() time.Duration {
	return e.Range().Duration()
}

// In returns a copy with its times expressed in loc.
func (e ScheduleEntry) In(loc *time.Location) ScheduleEntry {
	e.StartTime = e.StartTime.In(loc)
	if e.EndTime != nil {
		end := e.EndTime.In(loc)
		e.EndTime = &end
	}
	return e
}

// SetTimes stores new bounds and recomputes the production day in loc.
func (e *ScheduleEntry) SetTimes(start time.Time, end *time.Time, loc *time.Location) {
	e.StartTime = start.UTC()
	if end != nil {
		u := end.UTC()
		e.EndTime = &u
	} else {
		e.EndTime = nil
	}
	e.ProductionDay = DayColumn(layout.ProductionDayKey(start.In(loc)))
}

// Day returns the production day stored on the entry.
func (e ScheduleEntry) Day() layout.Day {
	return layout.DateOf(time.Time(e.ProductionDay))
}

// Notes decodes the notes of the entry according to its kind.
func (e ScheduleEntry) Notes() Notes {
	if !e.IsAnnotation() {
		return PlainNotes(e.NotesText)
	}
	var p AnnotationPayload
	if len(e.Annotation) > 0 && string(e.Annotation) != "null" {
		if err := json.Unmarshal(e.Annotation, &p); err == nil {
			return AnnotationNotes(p)
		}
	}
	return DecodeNotes(e.ProductName, e.NotesText)
}

// SetNotes stores notes of the matching kind.
func (e *ScheduleEntry) SetNotes(n Notes) error {
	switch {
	case n.Kind == NotesAnnotation && e.IsAnnotation():
		b, err := json.Marshal(n.Annotation)
		if err != nil {
			return fmt.Errorf("encode annotation: %w", err)
		}
		e.Annotation = datatypes.JSON(b)
		e.NotesText = n.Annotation.Text
		return nil
	case n.Kind == NotesPlain && !e.IsAnnotation():
		e.NotesText = n.Text
		e.Annotation = nil
		return nil
	}
	return ErrNotesKindMismatch
}

// DayColumn converts a production day key to its column value.
func DayColumn(d layout.Day) datatypes.Date {
	return datatypes.Date(time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC))
}
