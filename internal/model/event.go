package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Тип события журнала доски.
type EventType string

const (
	EventEntryCreated  EventType = "entry_created"
	EventEntryMoved    EventType = "entry_moved"
	EventEntryDeleted  EventType = "entry_deleted"
	EventNotesUpdated  EventType = "notes_updated"
	EventStatusChanged EventType = "status_changed"
	EventSyncPull      EventType = "sync_pull"
	EventSyncPush      EventType = "sync_push"
)

// board_events, журнал изменений доски
type Event struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Type EventType `gorm:"type:varchar(32);not null;index"`

	// Запись, к которой относится событие; nil для запусков синхронизации.
	EntryID *uuid.UUID `gorm:"type:uuid;index"`

	Details datatypes.JSON `gorm:"type:json"`

	CreatedAt time.Time `gorm:"not null;index"`
}

func (Event) TableName() string { return "board_events" }

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// NewEvent builds an event with details encoded as JSON. Details that cannot
// be encoded are dropped.
func NewEvent(typ EventType, entryID *uuid.UUID, details any) *Event {
	ev := &Event{Type: typ, EntryID: entryID}
	if details != nil {
		if b, err := json.Marshal(details); err == nil {
			ev.Details = datatypes.JSON(b)
		}
	}
	return ev
}
