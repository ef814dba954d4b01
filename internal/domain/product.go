package domain

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ProductType описывает вид товара магазина
type ProductType string

const (
	ProductTypePhone ProductType = "phone"
	ProductTypePart  ProductType = "part"
)

// ParseProductType разбирает тип товара без учёта регистра.
func ParseProductType(s string) (ProductType, bool) {
	switch ProductType(strings.ToLower(strings.TrimSpace(s))) {
	case ProductTypePhone:
		return ProductTypePhone, true
	case ProductTypePart:
		return ProductTypePart, true
	default:
		return "", false
	}
}

// ProductFields — все поля товара, кроме идентификатора.
type ProductFields struct {
	Name              string
	Type              ProductType
	Stock             int
	LowStockThreshold int
	PurchasePrice     decimal.Decimal
	SellingPrice      decimal.Decimal
}

// Product описывает товар на складе.
// Stock никогда не бывает отрицательным.
type Product struct {
	ID                string
	Name              string
	Type              ProductType
	Stock             int
	LowStockThreshold int
	PurchasePrice     decimal.Decimal
	SellingPrice      decimal.Decimal
}

func NewProduct(id string, fields ProductFields) *Product {
	return &Product{
		ID:                id,
		Name:              fields.Name,
		Type:              fields.Type,
		Stock:             max(0, fields.Stock),
		LowStockThreshold: fields.LowStockThreshold,
		PurchasePrice:     fields.PurchasePrice,
		SellingPrice:      fields.SellingPrice,
	}
}

// IsLowStock сообщает, что остаток опустился до порога или ниже.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}

// StockValue — закупочная стоимость остатка.
func (p *Product) StockValue() decimal.Decimal {
	return p.PurchasePrice.Mul(decimal.NewFromInt(int64(p.Stock)))
}

// AdjustStock меняет остаток на delta, не опускаясь ниже нуля.
// При переполнении остаток останавливается на math.MaxInt.
func (p *Product) AdjustStock(delta int) {
	if delta > 0 && p.Stock > math.MaxInt-delta {
		p.Stock = math.MaxInt
		return
	}

	p.Stock = max(0, p.Stock+delta)
}
