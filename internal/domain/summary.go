package domain

import "github.com/shopspring/decimal"

// Summary — сводные показатели склада
type Summary struct {
	InventoryValue decimal.Decimal // капитал, замороженный в остатках
	RealizedProfit decimal.Decimal // накопленная маржа по продажам
	ProductCount   int
	SaleCount      int
	LowStockCount  int
}
