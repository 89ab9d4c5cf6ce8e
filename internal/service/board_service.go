package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Leganyst/production-board/internal/board"
	"github.com/Leganyst/production-board/internal/config"
	"github.com/Leganyst/production-board/internal/layout"
	"github.com/Leganyst/production-board/internal/model"
	"github.com/Leganyst/production-board/internal/repository"
	"github.com/Leganyst/production-board/internal/table"
)

// AnnotationSpan is given to sticky notes and shapes created without an end.
const AnnotationSpan = 4 * time.Hour

// BoardService is the store side of the board: it loads snapshots for render
// passes and applies the writes produced by gestures and forms.
type BoardService struct {
	entries  repository.EntryRepository
	products repository.ProductRepository
	board    config.BoardSource
	events   eventLog
	logger   *zap.Logger
}

func NewBoardService(
	entries repository.EntryRepository,
	products repository.ProductRepository,
	board config.BoardSource,
	logger *zap.Logger,
) *BoardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoardService{
		entries:  entries,
		products: products,
		board:    board,
		events:   eventLog{logger: logger},
		logger:   logger,
	}
}

// WithEvents records every change in the board log.
func (s *BoardService) WithEvents(events repository.EventRepository) *BoardService {
	s.events = eventLog{repo: events, logger: s.logger}
	return s
}

// History lists the board log, most recent first.
func (s *BoardService) History(ctx context.Context, limit, offset int) ([]model.Event, int64, error) {
	events, total, err := s.events.recent(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

func (s *BoardService) loc() *time.Location {
	return s.board.Board().Location()
}

// LoadEntries returns every entry intersecting the rows of days.
func (s *BoardService) LoadEntries(ctx context.Context, days layout.DayRange) ([]model.ScheduleEntry, error) {
	w := days.Window(s.loc())
	entries, err := s.entries.ListByRange(ctx, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("load entries %s..%s: %w", days.First, days.Last, err)
	}
	return entries, nil
}

// RenderDays runs one render pass around cursor for a container width in
// pixels; width <= 0 uses the configured default.
func (s *BoardService) RenderDays(ctx context.Context, cursor layout.Day, width float64) (*board.Frame, error) {
	rc := board.NewRenderContext(s.board.Board(), cursor, width)
	entries, err := s.LoadEntries(ctx, rc.Days)
	if err != nil {
		return nil, err
	}
	return rc.WithEntries(entries).Render(), nil
}

// UpdateEntryTime moves an entry. A nil end keeps the entry open-ended.
func (s *BoardService) UpdateEntryTime(ctx context.Context, id uuid.UUID, start time.Time, end *time.Time) error {
	if err := checkTimes(start, end); err != nil {
		return err
	}
	if err := s.entries.UpdateTime(ctx, id, start, end); err != nil {
		s.logger.Warn("update entry time failed", zap.Stringer("id", id), zap.Error(err))
		return storeErr(err)
	}
	s.logger.Debug("entry moved", zap.Stringer("id", id), zap.Time("start", start))
	s.events.record(ctx, model.EventEntryMoved, &id, map[string]any{"start": start, "end": end})
	return nil
}

func checkTimes(start time.Time, end *time.Time) error {
	if start.IsZero() {
		return fmt.Errorf("%w: start time is required", ErrInvalidEntry)
	}
	if end != nil && end.Before(start) {
		return layout.ErrInvalidTimeRange
	}
	return nil
}

// UpdateEntryNotes replaces the notes of an entry. The notes kind must match
// the entry: annotation payloads only for sticky notes and shapes.
func (s *BoardService) UpdateEntryNotes(ctx context.Context, id uuid.UUID, notes model.Notes) error {
	err := s.entries.UpdateNotes(ctx, id, notes)
	if errors.Is(err, model.ErrNotesKindMismatch) {
		return fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	if err != nil {
		s.logger.Warn("update entry notes failed", zap.Stringer("id", id), zap.Error(err))
		return storeErr(err)
	}
	s.events.record(ctx, model.EventNotesUpdated, &id, nil)
	return nil
}

// UpdateEntryStatus normalizes a status label and stores it.
func (s *BoardService) UpdateEntryStatus(ctx context.Context, id uuid.UUID, label string) error {
	st, ok := model.NormalizeStatus(label)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, label)
	}
	if err := s.entries.UpdateStatus(ctx, id, st); err != nil {
		return storeErr(err)
	}
	s.events.record(ctx, model.EventStatusChanged, &id, map[string]any{"status": st})
	return nil
}

func (s *BoardService) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	if err := s.entries.Delete(ctx, id); err != nil {
		return storeErr(err)
	}
	s.logger.Info("entry deleted", zap.Stringer("id", id))
	s.events.record(ctx, model.EventEntryDeleted, &id, nil)
	return nil
}

// NewEntry is the input of AddEntry.
type NewEntry struct {
	ProductName   string
	Line          string
	Start         time.Time
	End           *time.Time
	Quantity      *float64
	TotalQuantity *float64
	Efficiency    *string
	Status        string
	// Notes is plain text for production entries and an encoded or plain
	// payload for annotations.
	Notes string
}

// AddEntry validates and stores a new entry. A production entry without an
// end gets one from quantity × unit weight / 1000 / efficiency hours when
// the product is in the weight master.
func (s *BoardService) AddEntry(ctx context.Context, in NewEntry) (*model.ScheduleEntry, error) {
	name := strings.TrimSpace(in.ProductName)
	if name == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrInvalidEntry)
	}
	if in.Start.IsZero() {
		return nil, fmt.Errorf("%w: start time is required", ErrInvalidEntry)
	}
	if in.End != nil && in.End.Before(in.Start) {
		return nil, layout.ErrInvalidTimeRange
	}
	st, ok := model.NormalizeStatus(in.Status)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, in.Status)
	}

	e := &model.ScheduleEntry{
		ProductName:   name,
		Line:          in.Line,
		StartTime:     in.Start,
		EndTime:       in.End,
		Quantity:      in.Quantity,
		TotalQuantity: in.TotalQuantity,
		Efficiency:    in.Efficiency,
		Status:        st,
	}

	if e.EndTime == nil {
		end, err := s.estimateEnd(ctx, e)
		if err != nil {
			return nil, err
		}
		e.EndTime = end
	}
	if err := e.SetNotes(model.DecodeNotes(name, in.Notes)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	if err := s.entries.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}
	s.logger.Info("entry added",
		zap.Stringer("id", e.ID),
		zap.String("product", e.ProductName),
		zap.String("number", e.ScheduleNumber),
	)
	s.events.record(ctx, model.EventEntryCreated, &e.ID, map[string]any{
		"product": e.ProductName,
		"number":  e.ScheduleNumber,
	})
	return e, nil
}

func (s *BoardService) estimateEnd(ctx context.Context, e *model.ScheduleEntry) (*time.Time, error) {
	if e.IsAnnotation() {
		end := e.StartTime.Add(AnnotationSpan)
		return &end, nil
	}
	if e.Quantity == nil || *e.Quantity <= 0 {
		return nil, nil
	}
	weight, ok, err := s.products.GetWeight(ctx, e.ProductName)
	if err != nil {
		return nil, fmt.Errorf("product weight: %w", err)
	}
	if !ok || weight <= 0 {
		return nil, nil
	}
	hours := ProductionHours(*e.Quantity, weight, e.Efficiency)
	end := e.StartTime.Add(time.Duration(hours * float64(time.Hour))).Round(time.Minute)
	return &end, nil
}

// ProductionHours is the run length for quantity units of the given weight.
// A missing or unparsable efficiency counts as 1.
func ProductionHours(quantity, weightKg float64, efficiency *string) float64 {
	eff := 1.0
	if efficiency != nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(*efficiency), 64); err == nil && v > 0 {
			eff = v
		}
	}
	return quantity * weightKg / 1000 / eff
}

// ApplyDrop writes the outcome of a committed drag. On error nothing was
// written and the caller re-renders from the store.
func (s *BoardService) ApplyDrop(ctx context.Context, drop board.DropResult) error {
	if drop.Kind == board.DragAnnotation {
		return s.MoveAnnotation(ctx, drop)
	}
	return s.MoveEntry(ctx, drop)
}

// MoveEntry stores the snapped start of a dropped bar, keeping its duration.
func (s *BoardService) MoveEntry(ctx context.Context, drop board.DropResult) error {
	return s.UpdateEntryTime(ctx, drop.EntryID, drop.Start, drop.End)
}

// MoveAnnotation stores a new box position. Dropping on another row also
// moves the annotation's time so it belongs to that production day.
func (s *BoardService) MoveAnnotation(ctx context.Context, drop board.DropResult) error {
	e, err := s.annotation(ctx, drop.EntryID)
	if err != nil {
		return err
	}
	notes := model.AnnotationNotes(e.Notes().Annotation.WithPosition(drop.X, drop.Y))
	if !drop.DayChanged {
		return s.UpdateEntryNotes(ctx, e.ID, notes)
	}

	// another row: time and position go in together
	if err := checkTimes(drop.Start, drop.End); err != nil {
		return err
	}
	err = s.entries.UpdateTimeAndNotes(ctx, e.ID, drop.Start, drop.End, notes)
	if errors.Is(err, model.ErrNotesKindMismatch) {
		return fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	if err != nil {
		s.logger.Warn("move annotation failed", zap.Stringer("id", e.ID), zap.Error(err))
		return storeErr(err)
	}
	s.events.record(ctx, model.EventEntryMoved, &e.ID, map[string]any{"start": drop.Start, "end": drop.End})
	s.events.record(ctx, model.EventNotesUpdated, &e.ID, nil)
	return nil
}

// ResizeAnnotation stores a new box size and zoom factor. The factor is
// clamped; sizes <= 0 keep the current size.
func (s *BoardService) ResizeAnnotation(ctx context.Context, id uuid.UUID, width, height, scale float64) error {
	e, err := s.annotation(ctx, id)
	if err != nil {
		return err
	}
	payload := e.Notes().Annotation
	if width > 0 && height > 0 {
		payload = payload.WithSize(width, height)
	}
	if payload.X == nil {
		// first manual edit pins the derived placement
		rc := board.NewRenderContext(s.board.Board(), e.Day(), 0)
		derived := rc.Geometry.PlaceAnnotation(e.Day().Window(rc.Loc), e.Span(), nil, rc.AnnotationSize)
		payload = payload.WithPosition(derived.Left, derived.Top)
	}
	payload = payload.WithScale(scale)
	return s.UpdateEntryNotes(ctx, id, model.AnnotationNotes(payload))
}

func (s *BoardService) annotation(ctx context.Context, id uuid.UUID) (*model.ScheduleEntry, error) {
	e, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	if !e.IsAnnotation() {
		return nil, ErrNotAnnotation
	}
	return e, nil
}

// CopyPreviousDayAnnotations copies the sticky notes and shapes of the day
// before onto day, shifted by 24h, with their status reset. It returns the
// number of copies.
func (s *BoardService) CopyPreviousDayAnnotations(ctx context.Context, day layout.Day) (int, error) {
	prev, err := s.entries.ListByDay(ctx, day.AddDays(-1))
	if err != nil {
		return 0, fmt.Errorf("list previous day: %w", err)
	}

	copied := 0
	for _, src := range prev {
		if !src.IsAnnotation() {
			continue
		}
		start := src.StartTime.AddDate(0, 0, 1)
		var end *time.Time
		if src.EndTime != nil {
			v := src.EndTime.AddDate(0, 0, 1)
			end = &v
		}
		dst := &model.ScheduleEntry{
			ProductName: src.ProductName,
			Line:        src.Line,
			StartTime:   start,
			EndTime:     end,
			Status:      model.StatusNotStarted,
		}
		if err := dst.SetNotes(src.Notes()); err != nil {
			return copied, err
		}
		if err := s.entries.Create(ctx, dst); err != nil {
			return copied, fmt.Errorf("copy annotation %s: %w", src.ID, err)
		}
		copied++
	}
	s.logger.Info("annotations copied", zap.Stringer("day", day), zap.Int("count", copied))
	return copied, nil
}

// ListTable returns one page of the production entries table.
func (s *BoardService) ListTable(ctx context.Context, page, pageSize int) (table.Page[table.Row], error) {
	all, err := s.entries.ListAll(ctx)
	if err != nil {
		return table.Page[table.Row]{}, fmt.Errorf("list entries: %w", err)
	}
	return table.Paginate(table.Rows(all, s.loc()), page, pageSize), nil
}
