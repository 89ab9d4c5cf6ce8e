package service

import (
	"encoding/json"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Leganyst/production-board/internal/board"
	"github.com/Leganyst/production-board/internal/layout"
	"github.com/Leganyst/production-board/internal/model"
	"github.com/Leganyst/production-board/internal/table"
)

func newStruct(m map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return s, nil
}

func hasField(req *structpb.Struct, key string) bool {
	v, ok := req.GetFields()[key]
	if !ok {
		return false
	}
	_, null := v.GetKind().(*structpb.Value_NullValue)
	return !null
}

func stringField(req *structpb.Struct, key string) string {
	return req.GetFields()[key].GetStringValue()
}

func optNumberField(req *structpb.Struct, key string) *float64 {
	v, ok := req.GetFields()[key]
	if !ok {
		return nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return nil
	}
	return &n.NumberValue
}

func timeField(req *structpb.Struct, key string) (time.Time, error) {
	raw := stringField(req, key)
	if raw == "" {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "%s is required", key)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "%s: %v", key, err)
	}
	return t, nil
}

func optTimeField(req *structpb.Struct, key string) (*time.Time, error) {
	if !hasField(req, key) || stringField(req, key) == "" {
		return nil, nil
	}
	t, err := timeField(req, key)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func dayField(req *structpb.Struct, key string) (layout.Day, error) {
	d, err := layout.ParseDay(stringField(req, key))
	if err != nil {
		return layout.Day{}, status.Errorf(codes.InvalidArgument, "%s: %v", key, err)
	}
	return d, nil
}

func annotationPayload(v *structpb.Value) (model.AnnotationPayload, error) {
	var p model.AnnotationPayload
	st := v.GetStructValue()
	if st == nil {
		return p, status.Error(codes.InvalidArgument, "annotation must be an object")
	}
	b, err := json.Marshal(st.AsMap())
	if err != nil {
		return p, status.Errorf(codes.InvalidArgument, "annotation: %v", err)
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return p, status.Errorf(codes.InvalidArgument, "annotation: %v", err)
	}
	return p, nil
}

func stamp(t time.Time) string {
	return t.Format(time.RFC3339)
}

func optFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func entryValue(e model.ScheduleEntry) map[string]any {
	m := map[string]any{
		"id":              e.ID.String(),
		"schedule_number": e.ScheduleNumber,
		"product_name":    e.ProductName,
		"line":            e.Line,
		"start":           stamp(e.StartTime),
		"end":             nil,
		"production_day":  e.Day().String(),
		"quantity":        optFloat(e.Quantity),
		"total_quantity":  optFloat(e.TotalQuantity),
		"status":          string(e.Status),
		"sync_status":     string(e.SyncStatus),
		"annotation":      e.IsAnnotation(),
		"remote_id":       nil,
	}
	if e.EndTime != nil {
		m["end"] = stamp(*e.EndTime)
	}
	if e.RemoteID != nil {
		m["remote_id"] = *e.RemoteID
	}
	if e.Efficiency != nil {
		m["efficiency"] = *e.Efficiency
	}
	if notes, err := e.Notes().Encode(); err == nil {
		m["notes"] = notes
	}
	return m
}

func frameValue(f *board.Frame) map[string]any {
	rows := make([]any, 0, len(f.Rows))
	for _, r := range f.Rows {
		lanes := make([]any, 0, len(r.Lanes))
		for _, lane := range r.Lanes {
			bars := make([]any, 0, len(lane))
			for _, b := range lane {
				bars = append(bars, map[string]any{
					"id":           b.Entry.ID.String(),
					"product_name": b.Entry.ProductName,
					"status":       string(b.Entry.Status),
					"left":         b.Left,
					"top":          b.Top,
					"width":        b.Width,
					"height":       b.Height,
					"split_start":  b.SplitStart,
					"split_end":    b.SplitEnd,
					"start":        stamp(b.Start),
					"end":          stamp(b.End),
				})
			}
			lanes = append(lanes, bars)
		}
		overlays := make([]any, 0, len(r.Overlays))
		for _, o := range r.Overlays {
			overlays = append(overlays, map[string]any{
				"id":     o.Entry.ID.String(),
				"kind":   o.Entry.ProductName,
				"text":   o.Payload.Text,
				"type":   o.Payload.Type,
				"color":  o.Payload.Color,
				"left":   o.Left,
				"top":    o.Top,
				"width":  o.Width,
				"height": o.Height,
				"scale":  o.Scale,
				"stored": o.Stored,
			})
		}
		rows = append(rows, map[string]any{
			"day":      r.Day.String(),
			"label":    r.Label,
			"top":      r.Top,
			"height":   r.Height,
			"lanes":    lanes,
			"overlays": overlays,
		})
	}
	return map[string]any{
		"cursor":        f.Cursor.String(),
		"label_width":   f.LabelWidth,
		"content_width": f.ContentWidth,
		"px_per_hour":   f.Geometry.Scale.PxPerHour,
		"height":        f.Height,
		"rows":          rows,
	}
}

func tableRowValue(r table.Row) map[string]any {
	return map[string]any{
		"id":              r.ID.String(),
		"schedule_number": r.ScheduleNumber,
		"product_name":    r.ProductName,
		"line":            r.Line,
		"day":             r.Day.String(),
		"start":           r.Start,
		"end":             r.End,
		"quantity":        optFloat(r.Quantity),
		"total_quantity":  optFloat(r.TotalQuantity),
		"status":          r.Status,
		"sync":            r.Sync,
		"notes":           r.Notes,
	}
}
