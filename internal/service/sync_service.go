package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Leganyst/production-board/internal/config"
	"github.com/Leganyst/production-board/internal/kintone"
	"github.com/Leganyst/production-board/internal/model"
	"github.com/Leganyst/production-board/internal/repository"
)

// RemoteStore is the business database the board mirrors.
type RemoteStore interface {
	GetRecords(ctx context.Context, app kintone.App, query string) ([]kintone.Record, error)
	AddRecord(ctx context.Context, app kintone.App, rec kintone.Record) (uint, error)
	UpdateRecord(ctx context.Context, app kintone.App, id uint, rec kintone.Record) error
	DeleteRecord(ctx context.Context, app kintone.App, id uint) error
}

// SyncService moves entries between the local store and the business
// database. The remote side wins on pull.
type SyncService struct {
	entries     repository.EntryRepository
	remote      RemoteStore
	memoApp     bool
	concurrency int
	events      eventLog
	logger      *zap.Logger
}

// NewSyncService returns a service that fails with kintone.ErrNotConfigured
// when remote is nil.
func NewSyncService(
	entries repository.EntryRepository,
	remote RemoteStore,
	cfg config.KintoneConfig,
	logger *zap.Logger,
) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &SyncService{
		entries:     entries,
		remote:      remote,
		memoApp:     cfg.MemoAppID > 0 && cfg.MemoAppID != cfg.AppID,
		concurrency: concurrency,
		events:      eventLog{logger: logger},
		logger:      logger,
	}
}

// WithEvents records sync runs and remote deletes in the board log.
func (s *SyncService) WithEvents(events repository.EventRepository) *SyncService {
	s.events = eventLog{repo: events, logger: s.logger}
	return s
}

type PullReport struct {
	Imported int
	Skipped  int
	Failed   int
}

type PushReport struct {
	Added   int
	Updated int
	Failed  int
	// Errors of the failed entries, in no particular order.
	Errors []error
}

func (s *SyncService) apps() []kintone.App {
	if s.memoApp {
		return []kintone.App{kintone.AppSchedule, kintone.AppMemo}
	}
	return []kintone.App{kintone.AppSchedule}
}

func (s *SyncService) appFor(e model.ScheduleEntry) kintone.App {
	if s.memoApp && e.IsAnnotation() {
		return kintone.AppMemo
	}
	return kintone.AppSchedule
}

// Pull imports every remote record, upserting by record id. Records without
// a product name or start are skipped.
func (s *SyncService) Pull(ctx context.Context) (PullReport, error) {
	var rep PullReport
	if s.remote == nil {
		return rep, kintone.ErrNotConfigured
	}

	for _, app := range s.apps() {
		records, err := s.remote.GetRecords(ctx, app, "")
		if err != nil {
			return rep, fmt.Errorf("fetch records: %w", err)
		}
		s.logger.Debug("records fetched", zap.Int("app", int(app)), zap.Int("count", len(records)))

		for _, rec := range records {
			e, ok, err := kintone.EntryFromRecord(rec)
			if err != nil {
				rep.Failed++
				s.logger.Warn("record not imported", zap.String("record", rec.String(kintone.FieldRecordID)), zap.Error(err))
				continue
			}
			if !ok || e.RemoteID == nil {
				rep.Skipped++
				continue
			}
			if err := s.entries.UpsertRemote(ctx, &e); err != nil {
				if ctx.Err() != nil {
					return rep, ctx.Err()
				}
				rep.Failed++
				s.logger.Warn("record not stored", zap.Uint("record", *e.RemoteID), zap.Error(err))
				continue
			}
			rep.Imported++
		}
	}

	s.logger.Info("pull finished",
		zap.Int("imported", rep.Imported),
		zap.Int("skipped", rep.Skipped),
		zap.Int("failed", rep.Failed),
	)
	s.events.record(ctx, model.EventSyncPull, nil, rep)
	return rep, nil
}

// Push sends pending and modified entries, at most concurrency at a time.
// A failed entry stays unsynced and does not stop the others.
func (s *SyncService) Push(ctx context.Context) (PushReport, error) {
	var rep PushReport
	if s.remote == nil {
		return rep, kintone.ErrNotConfigured
	}

	pending, err := s.entries.ListPending(ctx)
	if err != nil {
		return rep, fmt.Errorf("list pending: %w", err)
	}

	var mu sync.Mutex
	record := func(added bool, err error) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case err != nil:
			rep.Failed++
			rep.Errors = append(rep.Errors, err)
		case added:
			rep.Added++
		default:
			rep.Updated++
		}
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.concurrency)
	for _, e := range pending {
		eg.Go(func() error {
			if egCtx.Err() != nil {
				return egCtx.Err()
			}
			added, err := s.pushOne(egCtx, e)
			if err != nil {
				s.logger.Warn("push failed", zap.Stringer("id", e.ID), zap.Error(err))
			}
			record(added, err)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return rep, err
	}

	s.logger.Info("push finished",
		zap.Int("added", rep.Added),
		zap.Int("updated", rep.Updated),
		zap.Int("failed", rep.Failed),
	)
	s.events.record(ctx, model.EventSyncPush, nil, map[string]int{
		"added":   rep.Added,
		"updated": rep.Updated,
		"failed":  rep.Failed,
	})
	return rep, nil
}

func (s *SyncService) pushOne(ctx context.Context, e model.ScheduleEntry) (added bool, err error) {
	rec, err := kintone.RecordFromEntry(e)
	if err != nil {
		return false, fmt.Errorf("entry %s: %w", e.ID, err)
	}
	app := s.appFor(e)

	remoteID := uint(0)
	if e.RemoteID != nil {
		remoteID = *e.RemoteID
		if err := s.remote.UpdateRecord(ctx, app, remoteID, rec); err != nil {
			return false, fmt.Errorf("update record %d: %w", remoteID, err)
		}
	} else {
		remoteID, err = s.remote.AddRecord(ctx, app, rec)
		if err != nil {
			return false, fmt.Errorf("add entry %s: %w", e.ID, err)
		}
		added = true
	}

	synced, err := s.entries.MarkSynced(ctx, e.ID, remoteID, e.Revision)
	if err != nil {
		return added, fmt.Errorf("mark %s synced: %w", e.ID, err)
	}
	if !synced {
		s.logger.Debug("entry edited during push, left modified",
			zap.String("entry_id", e.ID.String()),
			zap.Uint("remote_id", remoteID),
		)
	}
	return added, nil
}

// DeleteEverywhere removes the remote record of an entry, when it has one,
// and then the local entry.
func (s *SyncService) DeleteEverywhere(ctx context.Context, id uuid.UUID) error {
	e, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return storeErr(err)
	}
	if e.RemoteID != nil {
		if s.remote == nil {
			return kintone.ErrNotConfigured
		}
		var apiErr *kintone.APIError
		err := s.remote.DeleteRecord(ctx, s.appFor(*e), *e.RemoteID)
		// already gone remotely
		if err != nil && !(errors.As(err, &apiErr) && apiErr.Status == 404) {
			return fmt.Errorf("delete record %d: %w", *e.RemoteID, err)
		}
	}
	if err := s.entries.Delete(ctx, id); err != nil {
		return storeErr(err)
	}
	s.events.record(ctx, model.EventEntryDeleted, &id, map[string]any{"remote_id": e.RemoteID})
	return nil
}
