package app

import (
	"github.com/mastimed/mobilegestion/internal/domain"
	"github.com/shopspring/decimal"
)

// seedProducts — начальный ассортимент магазина. Идентификаторы фиксированы.
func seedProducts() []domain.Product {
	return []domain.Product{
		newSeed("1", "Écran iPhone 14 Pro", domain.ProductTypePart, 12, 10, 1500, 2500),
		newSeed("2", "Samsung Galaxy S23", domain.ProductTypePhone, 8, 5, 6000, 9000),
		newSeed("3", "Batterie Google Pixel 7", domain.ProductTypePart, 4, 5, 450, 800),
		newSeed("4", "iPhone 15 Pro Max", domain.ProductTypePhone, 15, 5, 11000, 14500),
		newSeed("5", "Connecteur de charge USB-C", domain.ProductTypePart, 25, 20, 50, 200),
		newSeed("6", "OnePlus 11", domain.ProductTypePhone, 3, 4, 5500, 7500),
	}
}

func newSeed(id, name string, t domain.ProductType, stock, threshold int, purchase, selling int64) domain.Product {
	return *domain.NewProduct(id, domain.ProductFields{
		Name:              name,
		Type:              t,
		Stock:             stock,
		LowStockThreshold: threshold,
		PurchasePrice:     decimal.NewFromInt(purchase),
		SellingPrice:      decimal.NewFromInt(selling),
	})
}
