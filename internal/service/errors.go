package service

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrEntryNotFound = errors.New("entry not found")
	ErrNotAnnotation = errors.New("entry is not an annotation")
	ErrInvalidEntry  = errors.New("invalid entry")
	ErrUnknownStatus = errors.New("unknown production status")
)

// storeErr maps repository errors onto the service errors.
func storeErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrEntryNotFound
	}
	return err
}
