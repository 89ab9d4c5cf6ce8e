package service

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	boardv1 "github.com/Leganyst/production-board/internal/api/board/v1"
	"github.com/Leganyst/production-board/internal/config"
)

func newTestClient(t *testing.T, env *testEnv, remote RemoteStore) *boardv1.BoardServiceClient {
	t.Helper()

	syncSvc := NewSyncService(env.entries, remote, config.KintoneConfig{AppID: 506}, nil)
	srv := grpc.NewServer()
	boardv1.RegisterBoardServiceServer(srv, NewBoardServer(env.board, syncSvc, nil))

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
		srv.Stop()
	})
	return boardv1.NewBoardServiceClient(conn)
}

func call(t *testing.T, c *boardv1.BoardServiceClient, method string, in map[string]any) (*structpb.Struct, error) {
	t.Helper()
	req, err := structpb.NewStruct(in)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()
	return c.Call(ctx, method, req)
}

func codeOf(err error) codes.Code {
	return status.Code(err)
}

func TestBoardServer_AddListRender(t *testing.T) {
	env := newTestEnv(t)
	c := newTestClient(t, env, newFakeRemote())

	out, err := call(t, c, boardv1.MethodAddEntry, map[string]any{
		"product_name": "A",
		"line":         "L1",
		"start":        env.at(6, 8, 0).Format(time.RFC3339),
		"end":          env.at(6, 10, 0).Format(time.RFC3339),
		"status":       "生産中",
	})
	require.NoError(t, err)
	entry := out.GetFields()["entry"].GetStructValue().AsMap()
	assert.Equal(t, "in_progress", entry["status"])
	assert.Equal(t, "010625_001", entry["schedule_number"])
	assert.Equal(t, "2025-01-06", entry["production_day"])

	out, err = call(t, c, boardv1.MethodListEntries, map[string]any{"from": "2025-01-06"})
	require.NoError(t, err)
	assert.Len(t, out.GetFields()["entries"].GetListValue().GetValues(), 1)

	out, err = call(t, c, boardv1.MethodRenderDays, map[string]any{"cursor": "2025-01-06"})
	require.NoError(t, err)
	frame := out.AsMap()
	assert.Equal(t, 60.0, frame["px_per_hour"])
	rows := frame["rows"].([]any)
	require.Len(t, rows, 6)
	row := rows[1].(map[string]any)
	assert.Equal(t, "2025-01-06", row["day"])
	lanes := row["lanes"].([]any)
	require.Len(t, lanes, 1)
	bar := lanes[0].([]any)[0].(map[string]any)
	assert.Equal(t, 120.0, bar["left"])
	assert.Equal(t, 120.0, bar["width"])
	assert.Equal(t, entry["id"], bar["id"])
}

func TestBoardServer_ErrorCodes(t *testing.T) {
	env := newTestEnv(t)
	c := newTestClient(t, env, newFakeRemote())

	out, err := call(t, c, boardv1.MethodAddEntry, map[string]any{
		"product_name": "A",
		"start":        env.at(6, 8, 0).Format(time.RFC3339),
	})
	require.NoError(t, err)
	id := out.GetFields()["entry"].GetStructValue().GetFields()["id"].GetStringValue()

	tests := []struct {
		name   string
		method string
		in     map[string]any
		want   codes.Code
	}{
		{"bad id", boardv1.MethodUpdateEntryTime, map[string]any{"id": "nope", "start": "2025-01-06T08:00:00+09:00"}, codes.InvalidArgument},
		{"bad time", boardv1.MethodUpdateEntryTime, map[string]any{"id": id, "start": "yesterday"}, codes.InvalidArgument},
		{"end before start", boardv1.MethodUpdateEntryTime, map[string]any{"id": id, "start": "2025-01-06T08:00:00+09:00", "end": "2025-01-06T07:00:00+09:00"}, codes.InvalidArgument},
		{"unknown entry", boardv1.MethodUpdateEntryTime, map[string]any{"id": uuid.NewString(), "start": "2025-01-06T08:00:00+09:00"}, codes.NotFound},
		{"missing product", boardv1.MethodAddEntry, map[string]any{"start": "2025-01-06T08:00:00+09:00"}, codes.InvalidArgument},
		{"unknown status", boardv1.MethodUpdateEntryStatus, map[string]any{"id": id, "status": "lost"}, codes.InvalidArgument},
		{"annotation on production entry", boardv1.MethodUpdateEntryNotes, map[string]any{"id": id, "annotation": map[string]any{"text": "x"}}, codes.InvalidArgument},
		{"bad cursor", boardv1.MethodRenderDays, map[string]any{"cursor": "06/01/2025"}, codes.InvalidArgument},
		{"inverted range", boardv1.MethodListEntries, map[string]any{"from": "2025-01-06", "to": "2025-01-05"}, codes.InvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := call(t, c, tt.method, tt.in)
			assert.Equal(t, tt.want, codeOf(err), "%v", err)
		})
	}
}

func TestBoardServer_AnnotationNotesAndTable(t *testing.T) {
	env := newTestEnv(t)
	c := newTestClient(t, env, newFakeRemote())

	out, err := call(t, c, boardv1.MethodAddEntry, map[string]any{
		"product_name": "MMO",
		"start":        env.at(6, 9, 0).Format(time.RFC3339),
		"notes":        "check oven",
	})
	require.NoError(t, err)
	memo := out.GetFields()["entry"].GetStructValue().AsMap()
	assert.Equal(t, true, memo["annotation"])
	assert.Equal(t, env.at(6, 13, 0).Format(time.RFC3339), memo["end"])

	_, err = call(t, c, boardv1.MethodUpdateEntryNotes, map[string]any{
		"id":         memo["id"],
		"annotation": map[string]any{"text": "check oven", "x": 30, "y": 12, "width": 260, "height": 140},
	})
	require.NoError(t, err)

	id, err := uuid.Parse(memo["id"].(string))
	require.NoError(t, err)
	stored, err := env.entries.GetByID(t.Context(), id)
	require.NoError(t, err)
	p := stored.Notes().Annotation
	require.NotNil(t, p.X)
	assert.Equal(t, 30.0, *p.X)
	require.NotNil(t, p.Width)
	assert.Equal(t, 260.0, *p.Width)

	out, err = call(t, c, boardv1.MethodListTable, map[string]any{"page": 1})
	require.NoError(t, err)
	assert.Empty(t, out.GetFields()["rows"].GetListValue().GetValues())
	assert.Equal(t, 0.0, out.GetFields()["total"].GetNumberValue())
}

func TestBoardServer_DeleteAndSync(t *testing.T) {
	env := newTestEnv(t)
	remote := newFakeRemote()
	c := newTestClient(t, env, remote)

	out, err := call(t, c, boardv1.MethodAddEntry, map[string]any{
		"product_name": "A",
		"start":        env.at(6, 8, 0).Format(time.RFC3339),
		"end":          env.at(6, 9, 0).Format(time.RFC3339),
	})
	require.NoError(t, err)
	id := out.GetFields()["entry"].GetStructValue().GetFields()["id"].GetStringValue()

	out, err = call(t, c, boardv1.MethodSyncPush, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, out.GetFields()["added"].GetNumberValue())

	_, err = call(t, c, boardv1.MethodDeleteEntry, map[string]any{"id": id, "remote": true})
	require.NoError(t, err)
	assert.Equal(t, []uint{101}, remote.deleted)

	_, err = call(t, c, boardv1.MethodDeleteEntry, map[string]any{"id": id})
	assert.Equal(t, codes.NotFound, codeOf(err))
}

func TestBoardServer_SyncNotConfigured(t *testing.T) {
	env := newTestEnv(t)
	c := newTestClient(t, env, nil)

	_, err := call(t, c, boardv1.MethodSyncPull, nil)
	assert.Equal(t, codes.FailedPrecondition, codeOf(err))
	_, err = call(t, c, boardv1.MethodSyncPush, nil)
	assert.Equal(t, codes.FailedPrecondition, codeOf(err))
}
