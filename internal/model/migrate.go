package model

import "gorm.io/gorm"

// AutoMigrate creates or updates every table of the board store.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&ScheduleEntry{},
		&Product{},
		&Event{},
	)
}
