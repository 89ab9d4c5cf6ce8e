package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	boardv1 "github.com/Leganyst/production-board/internal/api/board/v1"
	"github.com/Leganyst/production-board/internal/kintone"
	"github.com/Leganyst/production-board/internal/layout"
	"github.com/Leganyst/production-board/internal/model"
)

// BoardServer exposes BoardService and SyncService over gRPC.
type BoardServer struct {
	boardv1.UnimplementedBoardServiceServer

	board  *BoardService
	sync   *SyncService
	logger *zap.Logger
}

func NewBoardServer(board *BoardService, sync *SyncService, logger *zap.Logger) *BoardServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoardServer{board: board, sync: sync, logger: logger}
}

// grpcErr maps service errors onto status codes.
func grpcErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInvalidEntry),
		errors.Is(err, ErrUnknownStatus),
		errors.Is(err, layout.ErrInvalidTimeRange):
		return status.Errorf(codes.InvalidArgument, "%s: %v", op, err)
	case errors.Is(err, ErrEntryNotFound):
		return status.Errorf(codes.NotFound, "%s: %v", op, err)
	case errors.Is(err, ErrNotAnnotation), errors.Is(err, kintone.ErrNotConfigured):
		return status.Errorf(codes.FailedPrecondition, "%s: %v", op, err)
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, op)
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, op)
	}
	return status.Errorf(codes.Internal, "%s: %v", op, err)
}

func (s *BoardServer) ListEntries(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	from, err := dayField(req, "from")
	if err != nil {
		return nil, err
	}
	to := from
	if hasField(req, "to") {
		if to, err = dayField(req, "to"); err != nil {
			return nil, err
		}
	}
	if to.Before(from) {
		return nil, status.Error(codes.InvalidArgument, "to must not be before from")
	}

	entries, err := s.board.LoadEntries(ctx, layout.DayRange{First: from, Last: to})
	if err != nil {
		return nil, grpcErr("list entries", err)
	}
	loc := s.board.loc()
	list := make([]any, 0, len(entries))
	for _, e := range entries {
		list = append(list, entryValue(e.In(loc)))
	}
	return newStruct(map[string]any{"entries": list})
}

func (s *BoardServer) AddEntry(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	start, err := timeField(req, "start")
	if err != nil {
		return nil, err
	}
	end, err := optTimeField(req, "end")
	if err != nil {
		return nil, err
	}
	in := NewEntry{
		ProductName:   stringField(req, "product_name"),
		Line:          stringField(req, "line"),
		Start:         start,
		End:           end,
		Quantity:      optNumberField(req, "quantity"),
		TotalQuantity: optNumberField(req, "total_quantity"),
		Status:        stringField(req, "status"),
		Notes:         stringField(req, "notes"),
	}
	if hasField(req, "efficiency") {
		eff := stringField(req, "efficiency")
		in.Efficiency = &eff
	}

	e, err := s.board.AddEntry(ctx, in)
	if err != nil {
		return nil, grpcErr("add entry", err)
	}
	return newStruct(map[string]any{"entry": entryValue(e.In(s.board.loc()))})
}

func (s *BoardServer) UpdateEntryTime(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := idField(req)
	if err != nil {
		return nil, err
	}
	start, err := timeField(req, "start")
	if err != nil {
		return nil, err
	}
	end, err := optTimeField(req, "end")
	if err != nil {
		return nil, err
	}
	if err := s.board.UpdateEntryTime(ctx, id, start, end); err != nil {
		return nil, grpcErr("update entry time", err)
	}
	return &structpb.Struct{}, nil
}

func (s *BoardServer) UpdateEntryNotes(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := idField(req)
	if err != nil {
		return nil, err
	}
	notes := model.PlainNotes(stringField(req, "notes"))
	if v, ok := req.GetFields()["annotation"]; ok {
		payload, err := annotationPayload(v)
		if err != nil {
			return nil, err
		}
		notes = model.AnnotationNotes(payload)
	}
	if err := s.board.UpdateEntryNotes(ctx, id, notes); err != nil {
		return nil, grpcErr("update entry notes", err)
	}
	return &structpb.Struct{}, nil
}

func (s *BoardServer) UpdateEntryStatus(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := idField(req)
	if err != nil {
		return nil, err
	}
	if err := s.board.UpdateEntryStatus(ctx, id, stringField(req, "status")); err != nil {
		return nil, grpcErr("update entry status", err)
	}
	return &structpb.Struct{}, nil
}

func (s *BoardServer) DeleteEntry(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := idField(req)
	if err != nil {
		return nil, err
	}
	if req.GetFields()["remote"].GetBoolValue() {
		err = s.sync.DeleteEverywhere(ctx, id)
	} else {
		err = s.board.DeleteEntry(ctx, id)
	}
	if err != nil {
		return nil, grpcErr("delete entry", err)
	}
	return &structpb.Struct{}, nil
}

func (s *BoardServer) RenderDays(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	cursor, err := dayField(req, "cursor")
	if err != nil {
		return nil, err
	}
	width := 0.0
	if w := optNumberField(req, "width"); w != nil {
		width = *w
	}
	f, err := s.board.RenderDays(ctx, cursor, width)
	if err != nil {
		return nil, grpcErr("render days", err)
	}
	return newStruct(frameValue(f))
}

func (s *BoardServer) CopyPreviousDayAnnotations(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	day, err := dayField(req, "day")
	if err != nil {
		return nil, err
	}
	n, err := s.board.CopyPreviousDayAnnotations(ctx, day)
	if err != nil {
		return nil, grpcErr("copy annotations", err)
	}
	return newStruct(map[string]any{"copied": n})
}

func (s *BoardServer) ListTable(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	page, size := 0, 0
	if v := optNumberField(req, "page"); v != nil {
		page = int(*v)
	}
	if v := optNumberField(req, "page_size"); v != nil {
		size = int(*v)
	}
	p, err := s.board.ListTable(ctx, page, size)
	if err != nil {
		return nil, grpcErr("list table", err)
	}
	rows := make([]any, 0, len(p.Items))
	for _, r := range p.Items {
		rows = append(rows, tableRowValue(r))
	}
	return newStruct(map[string]any{
		"rows":      rows,
		"page":      p.Page,
		"page_size": p.PageSize,
		"total":     p.Total,
		"has_next":  p.HasNext,
		"has_prev":  p.HasPrev,
	})
}

func (s *BoardServer) SyncPull(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	r, err := s.sync.Pull(ctx)
	if err != nil {
		return nil, grpcErr("sync pull", err)
	}
	return newStruct(map[string]any{
		"imported": r.Imported,
		"skipped":  r.Skipped,
		"failed":   r.Failed,
	})
}

func (s *BoardServer) SyncPush(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	r, err := s.sync.Push(ctx)
	if err != nil {
		return nil, grpcErr("sync push", err)
	}
	errs := make([]any, 0, len(r.Errors))
	for _, e := range r.Errors {
		errs = append(errs, e.Error())
	}
	return newStruct(map[string]any{
		"added":   r.Added,
		"updated": r.Updated,
		"failed":  r.Failed,
		"errors":  errs,
	})
}

func idField(req *structpb.Struct) (uuid.UUID, error) {
	id, err := uuid.Parse(stringField(req, "id"))
	if err != nil {
		return uuid.Nil, status.Error(codes.InvalidArgument, "id must be a uuid")
	}
	return id, nil
}
