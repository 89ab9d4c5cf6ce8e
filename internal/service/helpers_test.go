package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Leganyst/production-board/internal/config"
	"github.com/Leganyst/production-board/internal/model"
	"github.com/Leganyst/production-board/internal/repository"
)

type testEnv struct {
	db       *gorm.DB
	loc      *time.Location
	cfg      config.BoardConfig
	entries  *repository.GormEntryRepository
	products *repository.GormProductRepository
	events   *repository.GormEventRepository
	board    *BoardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, model.AutoMigrate(db))

	cfg := config.DefaultBoardConfig()
	loc := cfg.Location()

	entries := repository.NewGormEntryRepository(db, loc).
		WithClock(func() time.Time { return time.Date(2025, time.January, 6, 10, 0, 0, 0, loc) })
	products := repository.NewGormProductRepository(db)
	events := repository.NewGormEventRepository(db)
	_, err = products.Seed(t.Context(), model.DefaultProducts)
	require.NoError(t, err)

	return &testEnv{
		db:       db,
		loc:      loc,
		cfg:      cfg,
		entries:  entries,
		products: products,
		events:   events,
		board:    NewBoardService(entries, products, config.StaticBoard(cfg), zap.NewNop()).WithEvents(events),
	}
}

func (e *testEnv) at(day, hour, min int) time.Time {
	return time.Date(2025, time.January, day, hour, min, 0, 0, e.loc)
}

func ptr[T any](v T) *T { return &v }
