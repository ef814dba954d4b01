package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale — запись о продаже. Название и цены копируются из товара в момент продажи,
// поэтому последующее изменение или удаление товара запись не затрагивает.
type Sale struct {
	ID            string
	ProductID     string
	ProductName   string
	Quantity      int
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	Timestamp     time.Time
}

func NewSale(id string, product *Product, quantity int, at time.Time) *Sale {
	return &Sale{
		ID:            id,
		ProductID:     product.ID,
		ProductName:   product.Name,
		Quantity:      quantity,
		PurchasePrice: product.PurchasePrice,
		SellingPrice:  product.SellingPrice,
		Timestamp:     at,
	}
}

// Revenue — выручка по продаже.
func (s *Sale) Revenue() decimal.Decimal {
	return s.SellingPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

// Profit — маржа по продаже: (цена продажи - закупочная цена) * количество.
func (s *Sale) Profit() decimal.Decimal {
	return s.SellingPrice.Sub(s.PurchasePrice).Mul(decimal.NewFromInt(int64(s.Quantity)))
}
