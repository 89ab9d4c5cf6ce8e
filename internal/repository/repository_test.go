package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Leganyst/production-board/internal/layout"
	"github.com/Leganyst/production-board/internal/model"
)

var jst = time.FixedZone("JST", 9*60*60)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := model.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func at(day, hour, min int) time.Time {
	return time.Date(2025, time.January, day, hour, min, 0, 0, jst)
}

func ptr[T any](v T) *T { return &v }

func newEntryRepo(t *testing.T) *GormEntryRepository {
	t.Helper()
	return NewGormEntryRepository(newTestDB(t), jst).
		WithClock(func() time.Time { return at(17, 10, 0) })
}

func mustCreate(t *testing.T, repo *GormEntryRepository, e *model.ScheduleEntry) {
	t.Helper()
	if err := repo.Create(context.Background(), e); err != nil {
		t.Fatalf("create %s: %v", e.ProductName, err)
	}
}

func TestEntryRepository_CreateAssignsNumberAndDay(t *testing.T) {
	repo := newEntryRepo(t)
	ctx := context.Background()

	first := &model.ScheduleEntry{ProductName: "FS450D", StartTime: at(6, 3, 0), EndTime: ptr(at(6, 5, 0))}
	second := &model.ScheduleEntry{ProductName: "FS250C", StartTime: at(6, 8, 0)}
	mustCreate(t, repo, first)
	mustCreate(t, repo, second)

	if first.ScheduleNumber != "011725_001" || second.ScheduleNumber != "011725_002" {
		t.Fatalf("unexpected numbers %q %q", first.ScheduleNumber, second.ScheduleNumber)
	}
	if first.ID == uuid.Nil {
		t.Fatalf("expected id to be assigned")
	}

	got, err := repo.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	// 03:00 belongs to the previous production day.
	if want := (layout.Day{Year: 2025, Month: time.January, Day: 5}); got.Day() != want {
		t.Fatalf("production day = %v, want %v", got.Day(), want)
	}
	if got.SyncStatus != model.SyncPending || got.Status != model.StatusNotStarted {
		t.Fatalf("unexpected statuses %q %q", got.SyncStatus, got.Status)
	}
	if !got.StartTime.Equal(at(6, 3, 0)) || got.StartTime.Location() != jst {
		t.Fatalf("start not round-tripped in board zone: %v", got.StartTime)
	}
}

func TestEntryRepository_ListByRangeIncludesOverlaps(t *testing.T) {
	repo := newEntryRepo(t)
	ctx := context.Background()

	crossing := &model.ScheduleEntry{ProductName: "crossing", StartTime: at(5, 22, 0), EndTime: ptr(at(6, 8, 0))}
	inside := &model.ScheduleEntry{ProductName: "inside", StartTime: at(6, 9, 0), EndTime: ptr(at(6, 10, 0))}
	open := &model.ScheduleEntry{ProductName: "open", StartTime: at(6, 5, 30)}
	before := &model.ScheduleEntry{ProductName: "before", StartTime: at(5, 20, 0), EndTime: ptr(at(6, 6, 0))}
	after := &model.ScheduleEntry{ProductName: "after", StartTime: at(7, 6, 0)}
	for _, e := range []*model.ScheduleEntry{crossing, inside, open, before, after} {
		mustCreate(t, repo, e)
	}

	window := layout.Day{Year: 2025, Month: time.January, Day: 6}.Window(jst)
	got, err := repo.ListByRange(ctx, window.Start, window.End)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	var names []string
	for _, e := range got {
		names = append(names, e.ProductName)
	}
	want := []string{"crossing", "open", "inside"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}

func TestEntryRepository_UpdateTimeMarksModified(t *testing.T) {
	repo := newEntryRepo(t)
	ctx := context.Background()

	e := &model.ScheduleEntry{ProductName: "FS360F", StartTime: at(6, 8, 0), EndTime: ptr(at(6, 10, 0))}
	mustCreate(t, repo, e)

	// never pushed: stays pending
	if err := repo.UpdateTime(ctx, e.ID, at(7, 2, 0), ptr(at(7, 4, 0))); err != nil {
		t.Fatalf("update time: %v", err)
	}
	got, _ := repo.GetByID(ctx, e.ID)
	if got.SyncStatus != model.SyncPending {
		t.Fatalf("sync status = %q, want pending", got.SyncStatus)
	}
	if want := (layout.Day{Year: 2025, Month: time.January, Day: 6}); got.Day() != want {
		t.Fatalf("production day = %v, want %v", got.Day(), want)
	}

	if synced, err := repo.MarkSynced(ctx, e.ID, 42, got.Revision); err != nil || !synced {
		t.Fatalf("mark synced: %v %v", synced, err)
	}
	if err := repo.UpdateTime(ctx, e.ID, at(7, 8, 0), nil); err != nil {
		t.Fatalf("update time: %v", err)
	}
	got, _ = repo.GetByID(ctx, e.ID)
	if got.SyncStatus != model.SyncModified || got.EndTime != nil {
		t.Fatalf("unexpected entry after move: %+v", got)
	}
	if got.RemoteID == nil || *got.RemoteID != 42 {
		t.Fatalf("remote id lost: %v", got.RemoteID)
	}

	if err := repo.UpdateTime(ctx, uuid.New(), at(7, 8, 0), nil); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEntryRepository_MarkSyncedStaleRevision(t *testing.T) {
	repo := newEntryRepo(t)
	ctx := context.Background()

	e := &model.ScheduleEntry{ProductName: "FS021", StartTime: at(6, 8, 0)}
	mustCreate(t, repo, e)
	pushed, _ := repo.GetByID(ctx, e.ID)

	// edited after the push read it
	if err := repo.UpdateTime(ctx, e.ID, at(6, 12, 0), nil); err != nil {
		t.Fatalf("update time: %v", err)
	}
	synced, err := repo.MarkSynced(ctx, e.ID, 77, pushed.Revision)
	if err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	if synced {
		t.Fatal("stale revision marked synced")
	}

	got, _ := repo.GetByID(ctx, e.ID)
	if got.SyncStatus != model.SyncModified {
		t.Fatalf("sync status = %q, want modified", got.SyncStatus)
	}
	if got.RemoteID == nil || *got.RemoteID != 77 {
		t.Fatalf("remote id = %v, want 77", got.RemoteID)
	}
	if !got.StartTime.Equal(at(6, 12, 0)) {
		t.Fatalf("start = %v, edit lost", got.StartTime)
	}

	synced, err = repo.MarkSynced(ctx, e.ID, 77, got.Revision)
	if err != nil || !synced {
		t.Fatalf("mark current revision: %v %v", synced, err)
	}
	if _, err := repo.MarkSynced(ctx, uuid.New(), 1, 0); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEntryRepository_UpdateTimeAndNotesIsAtomic(t *testing.T) {
	repo := newEntryRepo(t)
	ctx := context.Background()

	memo := &model.ScheduleEntry{ProductName: model.SentinelMemo, StartTime: at(6, 7, 0)}
	plain := &model.ScheduleEntry{ProductName: "FS021", StartTime: at(6, 7, 0)}
	mustCreate(t, repo, memo)
	mustCreate(t, repo, plain)

	payload := model.AnnotationPayload{Text: "belt"}.WithPosition(40, 10)
	if err := repo.UpdateTimeAndNotes(ctx, memo.ID, at(7, 9, 0), nil, model.AnnotationNotes(payload)); err != nil {
		t.Fatalf("update memo: %v", err)
	}
	got, _ := repo.GetByID(ctx, memo.ID)
	if !got.StartTime.Equal(at(7, 9, 0)) {
		t.Fatalf("start = %v, want moved", got.StartTime)
	}
	if pos := got.Notes().Annotation.Position(); pos == nil || pos.X != 40 {
		t.Fatalf("unexpected position %+v", pos)
	}
	if got.Revision != 1 {
		t.Fatalf("revision = %d, want 1", got.Revision)
	}

	// notes of the wrong kind roll the move back
	err := repo.UpdateTimeAndNotes(ctx, plain.ID, at(7, 9, 0), nil, model.AnnotationNotes(payload))
	if !errors.Is(err, model.ErrNotesKindMismatch) {
		t.Fatalf("expected kind mismatch, got %v", err)
	}
	got, _ = repo.GetByID(ctx, plain.ID)
	if !got.StartTime.Equal(at(6, 7, 0)) || got.Revision != 0 {
		t.Fatalf("partial write: start %v revision %d", got.StartTime, got.Revision)
	}
}

func TestEntryRepository_UpdateNotesByKind(t *testing.T) {
	repo := newEntryRepo(t)
	ctx := context.Background()

	memo := &model.ScheduleEntry{ProductName: model.SentinelMemo, StartTime: at(6, 7, 0)}
	plain := &model.ScheduleEntry{ProductName: "FS021", StartTime: at(6, 7, 0)}
	mustCreate(t, repo, memo)
	mustCreate(t, repo, plain)

	payload := model.AnnotationPayload{Text: "check belt"}.WithPosition(300, 12).WithSize(260, 140)
	if err := repo.UpdateNotes(ctx, memo.ID, model.AnnotationNotes(payload)); err != nil {
		t.Fatalf("update memo notes: %v", err)
	}
	got, _ := repo.GetByID(ctx, memo.ID)
	notes := got.Notes()
	if notes.Kind != model.NotesAnnotation || notes.Annotation.Text != "check belt" {
		t.Fatalf("unexpected notes %+v", notes)
	}
	pos := notes.Annotation.Position()
	if pos == nil || pos.X != 300 || pos.Width != 260 {
		t.Fatalf("unexpected position %+v", pos)
	}

	if err := repo.UpdateNotes(ctx, plain.ID, model.AnnotationNotes(payload)); !errors.Is(err, model.ErrNotesKindMismatch) {
		t.Fatalf("expected kind mismatch, got %v", err)
	}
	if err := repo.UpdateNotes(ctx, plain.ID, model.PlainNotes("rush order")); err != nil {
		t.Fatalf("update plain notes: %v", err)
	}
	got, _ = repo.GetByID(ctx, plain.ID)
	if got.Notes().Text != "rush order" {
		t.Fatalf("unexpected plain notes %+v", got.Notes())
	}
}

func TestEntryRepository_PendingAndUpsertRemote(t *testing.T) {
	repo := newEntryRepo(t)
	ctx := context.Background()

	local := &model.ScheduleEntry{ProductName: "FS450K", StartTime: at(6, 8, 0)}
	mustCreate(t, repo, local)

	remote := &model.ScheduleEntry{RemoteID: ptr(uint(7)), ProductName: "FS250CE", StartTime: at(6, 12, 0), Status: model.StatusInProgress}
	if err := repo.UpsertRemote(ctx, remote); err != nil {
		t.Fatalf("insert remote: %v", err)
	}
	firstID := remote.ID

	pending, err := repo.ListPending(ctx)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != local.ID {
		t.Fatalf("unexpected pending %+v", pending)
	}

	again := &model.ScheduleEntry{RemoteID: ptr(uint(7)), ProductName: "FS250CE", StartTime: at(6, 13, 0), Status: model.StatusFinished}
	if err := repo.UpsertRemote(ctx, again); err != nil {
		t.Fatalf("update remote: %v", err)
	}
	if again.ID != firstID {
		t.Fatalf("upsert created a duplicate: %v != %v", again.ID, firstID)
	}
	all, _ := repo.ListAll(ctx)
	if len(all) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(all))
	}
	got, _ := repo.GetByID(ctx, firstID)
	if got.Status != model.StatusFinished || !got.StartTime.Equal(at(6, 13, 0)) {
		t.Fatalf("remote changes not applied: %+v", got)
	}

	if err := repo.UpsertRemote(ctx, &model.ScheduleEntry{ProductName: "x", StartTime: at(6, 1, 0)}); err == nil {
		t.Fatalf("expected error for entry without remote id")
	}
}

func TestEntryRepository_DeleteAndStatus(t *testing.T) {
	repo := newEntryRepo(t)
	ctx := context.Background()

	e := &model.ScheduleEntry{ProductName: "FS021B", StartTime: at(6, 8, 0)}
	mustCreate(t, repo, e)

	if err := repo.UpdateStatus(ctx, e.ID, model.StatusInProgress); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if err := repo.UpdateStatus(ctx, e.ID, "paused"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
	if err := repo.Delete(ctx, e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, e.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestEntryRepository_ListByDay(t *testing.T) {
	repo := newEntryRepo(t)
	ctx := context.Background()

	mustCreate(t, repo, &model.ScheduleEntry{ProductName: "late", StartTime: at(7, 4, 0)})
	mustCreate(t, repo, &model.ScheduleEntry{ProductName: "next", StartTime: at(7, 6, 0)})

	got, err := repo.ListByDay(ctx, layout.Day{Year: 2025, Month: time.January, Day: 6})
	if err != nil {
		t.Fatalf("list by day: %v", err)
	}
	if len(got) != 1 || got[0].ProductName != "late" {
		t.Fatalf("unexpected entries %+v", got)
	}
}

func TestProductRepository_SeedIsIdempotent(t *testing.T) {
	repo := NewGormProductRepository(newTestDB(t))
	ctx := context.Background()

	n, err := repo.Seed(ctx, model.DefaultProducts)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != int64(len(model.DefaultProducts)) {
		t.Fatalf("seeded %d, want %d", n, len(model.DefaultProducts))
	}
	n, err = repo.Seed(ctx, model.DefaultProducts)
	if err != nil || n != 0 {
		t.Fatalf("second seed = %d, %v", n, err)
	}

	w, ok, err := repo.GetWeight(ctx, "FS450D")
	if err != nil || !ok || w != 450 {
		t.Fatalf("weight = %v %v %v", w, ok, err)
	}
	if _, ok, err := repo.GetWeight(ctx, "unknown"); err != nil || ok {
		t.Fatalf("unknown product = %v %v", ok, err)
	}

	list, err := repo.List(ctx)
	if err != nil || len(list) != len(model.DefaultProducts) {
		t.Fatalf("list = %d, %v", len(list), err)
	}
}

func TestEventRepository_ListAndPrune(t *testing.T) {
	repo := NewGormEventRepository(newTestDB(t))
	ctx := context.Background()

	id := uuid.New()
	for i, typ := range []model.EventType{model.EventEntryCreated, model.EventEntryMoved, model.EventSyncPush} {
		ev := model.NewEvent(typ, nil, map[string]int{"n": i})
		if typ != model.EventSyncPush {
			ev.EntryID = &id
		}
		ev.CreatedAt = at(10+i, 12, 0)
		if err := repo.Record(ctx, ev); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	events, total, err := repo.ListRecent(ctx, 2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(events) != 2 {
		t.Fatalf("total=%d len=%d, want 3 and 2", total, len(events))
	}
	if events[0].Type != model.EventSyncPush || events[1].Type != model.EventEntryMoved {
		t.Fatalf("unexpected order: %s, %s", events[0].Type, events[1].Type)
	}
	if string(events[0].Details) != `{"n":2}` {
		t.Fatalf("details = %s", events[0].Details)
	}

	n, err := repo.Prune(ctx, at(11, 0, 0))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 1 {
		t.Fatalf("pruned %d, want 1", n)
	}
}
