package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/production-board/internal/layout"
	"github.com/Leganyst/production-board/internal/model"
)

type EntryRepository interface {
	// Entries whose span intersects [from, to), ordered by start.
	ListByRange(ctx context.Context, from, to time.Time) ([]model.ScheduleEntry, error)
	// Every entry, ordered by start.
	ListAll(ctx context.Context) ([]model.ScheduleEntry, error)
	// Entries of one production day.
	ListByDay(ctx context.Context, day layout.Day) ([]model.ScheduleEntry, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.ScheduleEntry, error)
	// Create assigns a schedule number when empty and marks the entry pending.
	Create(ctx context.Context, entry *model.ScheduleEntry) error
	// Move the entry in time.
	UpdateTime(ctx context.Context, id uuid.UUID, start time.Time, end *time.Time) error
	// Replace notes of the entry.
	UpdateNotes(ctx context.Context, id uuid.UUID, notes model.Notes) error
	// Move the entry and replace its notes in one transaction.
	UpdateTimeAndNotes(ctx context.Context, id uuid.UUID, start time.Time, end *time.Time, notes model.Notes) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ProductionStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Entries not yet mirrored to the business database.
	ListPending(ctx context.Context) ([]model.ScheduleEntry, error)
	// Store the remote id and mark the entry synced when its revision is
	// still the pushed one. synced is false when it was edited meanwhile.
	MarkSynced(ctx context.Context, id uuid.UUID, remoteID uint, revision int64) (synced bool, err error)
	// Insert or overwrite the local copy of a remote record.
	UpsertRemote(ctx context.Context, entry *model.ScheduleEntry) error
}

type GormEntryRepository struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

// NewGormEntryRepository stores times in UTC and computes production days in loc.
func NewGormEntryRepository(db *gorm.DB, loc *time.Location) *GormEntryRepository {
	if loc == nil {
		loc = time.Local
	}
	return &GormEntryRepository{db: db, loc: loc, now: time.Now}
}

// WithClock replaces the clock used for schedule numbers.
func (r *GormEntryRepository) WithClock(now func() time.Time) *GormEntryRepository {
	r.now = now
	return r
}

func (r *GormEntryRepository) ListByRange(ctx context.Context, from, to time.Time) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	from, to = from.UTC(), to.UTC()
	err := r.db.WithContext(ctx).
		Where("start_time < ?", to).
		Where("(end_time IS NOT NULL AND end_time > ?) OR (end_time IS NULL AND start_time > ?)",
			from, from.Add(-layout.DefaultSpan)).
		Order("start_time ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return r.localize(entries), nil
}

func (r *GormEntryRepository) ListAll(ctx context.Context) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	if err := r.db.WithContext(ctx).Order("start_time ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return r.localize(entries), nil
}

func (r *GormEntryRepository) ListByDay(ctx context.Context, day layout.Day) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Where("production_day = ?", model.DayColumn(day)).
		Order("start_time ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return r.localize(entries), nil
}

func (r *GormEntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ScheduleEntry, error) {
	var e model.ScheduleEntry
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	e = e.In(r.loc)
	return &e, nil
}

func (r *GormEntryRepository) Create(ctx context.Context, entry *model.ScheduleEntry) error {
	entry.SetTimes(entry.StartTime, entry.EndTime, r.loc)
	if entry.Status == "" {
		entry.Status = model.StatusNotStarted
	}
	entry.SyncStatus = model.SyncPending

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if entry.ScheduleNumber == "" {
			number, err := r.nextScheduleNumber(tx)
			if err != nil {
				return err
			}
			entry.ScheduleNumber = number
		}
		return tx.Create(entry).Error
	})
}

// nextScheduleNumber returns MMDDYY_NNN for today, NNN restarting at 001.
func (r *GormEntryRepository) nextScheduleNumber(tx *gorm.DB) (string, error) {
	prefix := r.now().In(r.loc).Format("010206")
	var count int64
	err := tx.Model(&model.ScheduleEntry{}).
		Where("schedule_number LIKE ?", prefix+"_%").
		Count(&count).Error
	if err != nil {
		return "", fmt.Errorf("count schedule numbers: %w", err)
	}
	return fmt.Sprintf("%s_%03d", prefix, count+1), nil
}

func (r *GormEntryRepository) UpdateTime(ctx context.Context, id uuid.UUID, start time.Time, end *time.Time) error {
	return r.update(ctx, id, touched(r.timeValues(start, end)))
}

func (r *GormEntryRepository) UpdateNotes(ctx context.Context, id uuid.UUID, notes model.Notes) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.updateNotes(tx, id, notes, map[string]any{})
	})
}

func (r *GormEntryRepository) UpdateTimeAndNotes(
	ctx context.Context,
	id uuid.UUID,
	start time.Time,
	end *time.Time,
	notes model.Notes,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.updateNotes(tx, id, notes, r.timeValues(start, end))
	})
}

func (r *GormEntryRepository) timeValues(start time.Time, end *time.Time) map[string]any {
	var moved model.ScheduleEntry
	moved.SetTimes(start, end, r.loc)
	return map[string]any{
		"start_time":     moved.StartTime,
		"end_time":       moved.EndTime,
		"production_day": moved.ProductionDay,
	}
}

// updateNotes writes notes of the matching kind together with values.
func (r *GormEntryRepository) updateNotes(tx *gorm.DB, id uuid.UUID, notes model.Notes, values map[string]any) error {
	var e model.ScheduleEntry
	if err := tx.First(&e, "id = ?", id).Error; err != nil {
		return err
	}
	if err := e.SetNotes(notes); err != nil {
		return err
	}
	values["notes"] = e.NotesText
	values["annotation"] = e.Annotation
	return tx.Model(&model.ScheduleEntry{}).
		Where("id = ?", id).
		Updates(touched(values)).Error
}

func (r *GormEntryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ProductionStatus) error {
	if !status.Valid() {
		return fmt.Errorf("unknown production status %q", status)
	}
	return r.update(ctx, id, touched(map[string]any{"status": status}))
}

func (r *GormEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.ScheduleEntry{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormEntryRepository) ListPending(ctx context.Context) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Where("sync_status IN ?", []model.SyncStatus{model.SyncPending, model.SyncModified}).
		Order("start_time ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return r.localize(entries), nil
}

func (r *GormEntryRepository) MarkSynced(ctx context.Context, id uuid.UUID, remoteID uint, revision int64) (bool, error) {
	synced := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.ScheduleEntry{}).
			Where("id = ? AND revision = ?", id, revision).
			Updates(map[string]any{
				"sync_status": model.SyncSynced,
				"remote_id":   remoteID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			synced = true
			return nil
		}

		// edited while the push was in flight: keep the id so the next
		// push updates the record, and leave the edit unsynced
		res = tx.Model(&model.ScheduleEntry{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"sync_status": model.SyncModified,
				"remote_id":   remoteID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return synced, err
}

func (r *GormEntryRepository) UpsertRemote(ctx context.Context, entry *model.ScheduleEntry) error {
	if entry.RemoteID == nil {
		return fmt.Errorf("upsert remote: entry has no remote id")
	}
	entry.SetTimes(entry.StartTime, entry.EndTime, r.loc)
	entry.SyncStatus = model.SyncSynced

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.ScheduleEntry
		err := tx.Where("remote_id = ?", *entry.RemoteID).Take(&existing).Error
		switch {
		case err == nil:
			entry.ID = existing.ID
			entry.CreatedAt = existing.CreatedAt
			entry.Revision = existing.Revision + 1
			return tx.Model(&existing).Select("*").Omit("id", "created_at").Updates(entry).Error
		case isNotFound(err):
			return tx.Create(entry).Error
		default:
			return err
		}
	})
}

func (r *GormEntryRepository) update(ctx context.Context, id uuid.UUID, values map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&model.ScheduleEntry{}).
		Where("id = ?", id).
		Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormEntryRepository) localize(entries []model.ScheduleEntry) []model.ScheduleEntry {
	for i := range entries {
		entries[i] = entries[i].In(r.loc)
	}
	return entries
}

// touched adds the bookkeeping of a local edit to values: never-pushed
// entries stay pending, the rest are flagged modified, and the revision moves.
func touched(values map[string]any) map[string]any {
	values["sync_status"] = gorm.Expr("CASE WHEN sync_status = ? THEN ? ELSE ? END",
		model.SyncPending, model.SyncPending, model.SyncModified)
	values["revision"] = gorm.Expr("revision + 1")
	return values
}
