package domain

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseProductType(t *testing.T) {
	tests := []struct {
		in   string
		want ProductType
		ok   bool
	}{
		{"phone", ProductTypePhone, true},
		{" PART ", ProductTypePart, true},
		{"Phone", ProductTypePhone, true},
		{"tablet", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseProductType(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestProductAdjustStockClampsAtZero(t *testing.T) {
	p := NewProduct("1", ProductFields{Name: "OnePlus 11", Stock: 3})

	p.AdjustStock(-10)
	assert.Equal(t, 0, p.Stock)

	p.AdjustStock(4)
	assert.Equal(t, 4, p.Stock)
}

func TestProductAdjustStockSaturates(t *testing.T) {
	p := NewProduct("1", ProductFields{Name: "OnePlus 11", Stock: 5})

	p.AdjustStock(math.MaxInt)
	assert.Equal(t, math.MaxInt, p.Stock)

	p.AdjustStock(1)
	assert.Equal(t, math.MaxInt, p.Stock)

	p.AdjustStock(-math.MaxInt)
	assert.Equal(t, 0, p.Stock)
}

func TestProductIsLowStockAtThreshold(t *testing.T) {
	p := NewProduct("1", ProductFields{Stock: 5, LowStockThreshold: 5})
	assert.True(t, p.IsLowStock())

	p.AdjustStock(1)
	assert.False(t, p.IsLowStock())
}

func TestSaleSnapshotsProduct(t *testing.T) {
	p := NewProduct("3", ProductFields{
		Name:          "Batterie Google Pixel 7",
		Type:          ProductTypePart,
		Stock:         4,
		PurchasePrice: decimal.NewFromInt(450),
		SellingPrice:  decimal.NewFromInt(800),
	})
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	s := NewSale("s1", p, 2, at)
	p.Name = "renamed"
	p.SellingPrice = decimal.NewFromInt(1)

	assert.Equal(t, "Batterie Google Pixel 7", s.ProductName)
	assert.True(t, s.SellingPrice.Equal(decimal.NewFromInt(800)))
	assert.True(t, s.Profit().Equal(decimal.NewFromInt(700)))
	assert.True(t, s.Revenue().Equal(decimal.NewFromInt(1600)))
	assert.Equal(t, at, s.Timestamp)
}
