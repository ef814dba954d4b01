package grpc

import (
	"context"

	"github.com/mastimed/mobilegestion/internal/usecase"
	"github.com/mastimed/mobilegestion/pkg/e"
	"github.com/mastimed/mobilegestion/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// LedgerServiceName — полное имя сервиса, оно же имя в health-сервисе.
const LedgerServiceName = "inventory.v1.Ledger"

// LedgerServiceServer — read-only доступ к складу. Сообщения — well-known типы
// protobuf, поэтому сервис описан вручную без сгенерированного кода.
type LedgerServiceServer interface {
	GetProduct(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ListLowStock(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetSummary(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

type LedgerService struct {
	ledger usecase.LedgerUC
	logger logger.Logger
}

func NewLedgerService(ledger usecase.LedgerUC, logger logger.Logger) *LedgerService {
	return &LedgerService{ledger: ledger, logger: logger}
}

func (g *LedgerService) GetProduct(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	const op = "grpc.GetProduct"

	product, ok := g.ledger.Product(req.GetValue())
	if !ok {
		return nil, GRPCErrorResponse(e.Wrap(op, e.ErrProductNotFound))
	}

	res, err := toStruct(toGRPCProduct(product))
	if err != nil {
		g.logger.Errorf(e.Wrap(op, err), "%s", op)
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	return res, nil
}

func (g *LedgerService) ListLowStock(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	const op = "grpc.ListLowStock"

	products := g.ledger.LowStockList()
	res, err := toStruct(map[string]any{
		"total":    len(products),
		"products": toArrGRPCProduct(products),
	})
	if err != nil {
		g.logger.Errorf(e.Wrap(op, err), "%s", op)
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	return res, nil
}

func (g *LedgerService) GetSummary(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	const op = "grpc.GetSummary"

	res, err := toStruct(toGRPCSummary(g.ledger.Summary()))
	if err != nil {
		g.logger.Errorf(e.Wrap(op, err), "%s", op)
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	return res, nil
}

func RegisterLedgerServiceServer(s grpc.ServiceRegistrar, srv LedgerServiceServer) {
	s.RegisterService(&ledgerServiceDesc, srv)
}

var ledgerServiceDesc = grpc.ServiceDesc{
	ServiceName: LedgerServiceName,
	HandlerType: (*LedgerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetProduct", Handler: getProductHandler},
		{MethodName: "ListLowStock", Handler: listLowStockHandler},
		{MethodName: "GetSummary", Handler: getSummaryHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "inventory/v1/ledger.proto",
}

func getProductHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LedgerServiceServer).GetProduct(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + LedgerServiceName + "/GetProduct"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(LedgerServiceServer).GetProduct(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func listLowStockHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LedgerServiceServer).ListLowStock(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + LedgerServiceName + "/ListLowStock"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(LedgerServiceServer).ListLowStock(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func getSummaryHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LedgerServiceServer).GetSummary(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + LedgerServiceName + "/GetSummary"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(LedgerServiceServer).GetSummary(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}
