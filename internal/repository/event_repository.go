package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Leganyst/production-board/internal/model"
)

type EventRepository interface {
	// Добавить событие в журнал доски.
	Record(ctx context.Context, ev *model.Event) error
	// Последние события первыми, плюс общее количество.
	ListRecent(ctx context.Context, limit, offset int) ([]model.Event, int64, error)
	// Удалить события старше before; возвращает число удалённых.
	Prune(ctx context.Context, before time.Time) (int64, error)
}

type GormEventRepository struct {
	db *gorm.DB
}

func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

func (r *GormEventRepository) Record(ctx context.Context, ev *model.Event) error {
	return r.db.WithContext(ctx).Create(ev).Error
}

func (r *GormEventRepository) ListRecent(ctx context.Context, limit, offset int) ([]model.Event, int64, error) {
	var (
		events []model.Event
		total  int64
	)

	q := r.db.WithContext(ctx).Model(&model.Event{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if err := q.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *GormEventRepository) Prune(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", before).Delete(&model.Event{})
	return res.RowsAffected, res.Error
}
