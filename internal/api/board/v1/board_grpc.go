// Package boardv1 registers board.v1.BoardService (api/board/v1/board.proto).
// Every method takes and returns google.protobuf.Struct, so the descriptors
// are declared here instead of generated.
package boardv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "board.v1.BoardService"

const (
	MethodListEntries                = "ListEntries"
	MethodAddEntry                   = "AddEntry"
	MethodUpdateEntryTime            = "UpdateEntryTime"
	MethodUpdateEntryNotes           = "UpdateEntryNotes"
	MethodUpdateEntryStatus          = "UpdateEntryStatus"
	MethodDeleteEntry                = "DeleteEntry"
	MethodRenderDays                 = "RenderDays"
	MethodCopyPreviousDayAnnotations = "CopyPreviousDayAnnotations"
	MethodListTable                  = "ListTable"
	MethodSyncPull                   = "SyncPull"
	MethodSyncPush                   = "SyncPush"
)

// FullMethod returns the /service/method path of m.
func FullMethod(m string) string {
	return "/" + ServiceName + "/" + m
}

type BoardServiceServer interface {
	ListEntries(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddEntry(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateEntryTime(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateEntryNotes(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateEntryStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteEntry(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RenderDays(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CopyPreviousDayAnnotations(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListTable(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SyncPull(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SyncPush(context.Context, *structpb.Struct) (*structpb.Struct, error)
	mustEmbedUnimplementedBoardServiceServer()
}

// UnimplementedBoardServiceServer must be embedded by implementations.
type UnimplementedBoardServiceServer struct{}

func unimplemented(m string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", m)
}

func (UnimplementedBoardServiceServer) ListEntries(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodListEntries)
}
func (UnimplementedBoardServiceServer) AddEntry(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodAddEntry)
}
func (UnimplementedBoardServiceServer) UpdateEntryTime(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodUpdateEntryTime)
}
func (UnimplementedBoardServiceServer) UpdateEntryNotes(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodUpdateEntryNotes)
}
func (UnimplementedBoardServiceServer) UpdateEntryStatus(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodUpdateEntryStatus)
}
func (UnimplementedBoardServiceServer) DeleteEntry(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodDeleteEntry)
}
func (UnimplementedBoardServiceServer) RenderDays(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodRenderDays)
}
func (UnimplementedBoardServiceServer) CopyPreviousDayAnnotations(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodCopyPreviousDayAnnotations)
}
func (UnimplementedBoardServiceServer) ListTable(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodListTable)
}
func (UnimplementedBoardServiceServer) SyncPull(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodSyncPull)
}
func (UnimplementedBoardServiceServer) SyncPush(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodSyncPush)
}
func (UnimplementedBoardServiceServer) mustEmbedUnimplementedBoardServiceServer() {}

type call func(BoardServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(method string, fn call) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return fn(srv.(BoardServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return fn(srv.(BoardServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var BoardService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BoardServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodListEntries, BoardServiceServer.ListEntries),
		unary(MethodAddEntry, BoardServiceServer.AddEntry),
		unary(MethodUpdateEntryTime, BoardServiceServer.UpdateEntryTime),
		unary(MethodUpdateEntryNotes, BoardServiceServer.UpdateEntryNotes),
		unary(MethodUpdateEntryStatus, BoardServiceServer.UpdateEntryStatus),
		unary(MethodDeleteEntry, BoardServiceServer.DeleteEntry),
		unary(MethodRenderDays, BoardServiceServer.RenderDays),
		unary(MethodCopyPreviousDayAnnotations, BoardServiceServer.CopyPreviousDayAnnotations),
		unary(MethodListTable, BoardServiceServer.ListTable),
		unary(MethodSyncPull, BoardServiceServer.SyncPull),
		unary(MethodSyncPush, BoardServiceServer.SyncPush),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "board/v1/board.proto",
}

func RegisterBoardServiceServer(s grpc.ServiceRegistrar, srv BoardServiceServer) {
	s.RegisterService(&BoardService_ServiceDesc, srv)
}

// BoardServiceClient calls methods by name.
type BoardServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewBoardServiceClient(cc grpc.ClientConnInterface) *BoardServiceClient {
	return &BoardServiceClient{cc: cc}
}

// Call invokes method with in and returns the response struct.
func (c *BoardServiceClient) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
