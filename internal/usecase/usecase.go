package usecase

import (
	"github.com/mastimed/mobilegestion/internal/domain"
	"github.com/shopspring/decimal"
)

// LedgerUC — операции склада, доступные слоям доставки.
type LedgerUC interface {
	AddProduct(fields domain.ProductFields) domain.Product
	AdjustStock(productID string, delta int)
	DeleteProduct(productID string) bool
	RecordSale(productID string, quantity int) (domain.Sale, error)

	Product(productID string) (domain.Product, bool)
	Products() []domain.Product
	Sales() []domain.Sale
	LowStockList() []domain.Product
	FilteredList(query string) []domain.Product
	InventoryValue() decimal.Decimal
	RealizedProfit() decimal.Decimal
	Summary() domain.Summary
}
