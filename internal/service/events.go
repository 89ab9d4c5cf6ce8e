package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Leganyst/production-board/internal/model"
	"github.com/Leganyst/production-board/internal/repository"
)

// eventLog appends to the board change log. A failed append is logged and
// never fails the change itself.
type eventLog struct {
	repo   repository.EventRepository
	logger *zap.Logger
}

func (l eventLog) record(ctx context.Context, typ model.EventType, entryID *uuid.UUID, details any) {
	if l.repo == nil {
		return
	}
	if err := l.repo.Record(ctx, model.NewEvent(typ, entryID, details)); err != nil {
		l.logger.Warn("record board event failed", zap.String("type", string(typ)), zap.Error(err))
	}
}

func (l eventLog) recent(ctx context.Context, limit, offset int) ([]model.Event, int64, error) {
	if l.repo == nil {
		return nil, 0, nil
	}
	return l.repo.ListRecent(ctx, limit, offset)
}
