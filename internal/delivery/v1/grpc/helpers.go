package grpc

import (
	"errors"

	"github.com/mastimed/mobilegestion/internal/domain"
	"github.com/mastimed/mobilegestion/pkg/e"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func GRPCErrorResponse(err error) error {
	switch {
	case errors.Is(err, e.ErrProductNotFound):
		return status.Error(codes.NotFound, e.ErrProductNotFound.Error())
	case errors.Is(err, e.ErrValidation), errors.Is(err, e.ErrStatusBadRequest):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, e.ErrInternalServerError.Error())
	}
}

// Цены передаются строками, чтобы не терять точность в double.
func toGRPCProduct(p domain.Product) map[string]any {
	return map[string]any{
		"id":                  p.ID,
		"name":                p.Name,
		"type":                string(p.Type),
		"stock":               p.Stock,
		"low_stock_threshold": p.LowStockThreshold,
		"purchase_price":      p.PurchasePrice.String(),
		"selling_price":       p.SellingPrice.String(),
		"low_stock":           p.IsLowStock(),
	}
}

func toArrGRPCProduct(prs []domain.Product) []any {
	res := make([]any, len(prs))
	for i, p := range prs {
		res[i] = toGRPCProduct(p)
	}

	return res
}

func toGRPCSummary(s domain.Summary) map[string]any {
	return map[string]any{
		"inventory_value": s.InventoryValue.String(),
		"realized_profit": s.RealizedProfit.String(),
		"product_count":   s.ProductCount,
		"sale_count":      s.SaleCount,
		"low_stock_count": s.LowStockCount,
	}
}

func toStruct(m map[string]any) (*structpb.Struct, error) {
	res, err := structpb.NewStruct(m)
	if err != nil {
		return nil, e.Wrap("grpc.toStruct", err)
	}

	return res, nil
}
