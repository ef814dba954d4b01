package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mastimed/mobilegestion/internal/domain"
	"github.com/mastimed/mobilegestion/pkg/e"
	"github.com/shopspring/decimal"
)

// ValidationError — ошибка проверки поля формы. Message показывается пользователю.
// Совпадает с e.ErrValidation через errors.Is, причина доступна через Unwrap.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func newValidationError(field, message string, cause error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: cause}
}

func (v *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

func (v *ValidationError) Is(target error) bool {
	return target == e.ErrValidation
}

func (v *ValidationError) Unwrap() error {
	return v.Err
}

const (
	msgAllFieldsRequired  = "All fields are required."
	msgNameRequired       = "Product name is required."
	msgNonNegativeNumbers = "Stock and price values must be non-negative numbers."
	msgUnknownType        = "Product type must be phone or part."
	msgInvalidQuantity    = "Please enter a valid quantity."
	msgInvalidDelta       = "Stock adjustment must be a whole number."
	msgStockTooLarge      = "Stock values cannot exceed 1000000000."
	msgDeltaTooLarge      = "Stock adjustment cannot exceed 1000000000 in either direction."
	msgPriceTooLarge      = "Prices cannot exceed 1000000000."
	msgPricePrecision     = "Prices must have at most 2 decimal places."
)

const (
	maxStock = 1_000_000_000

	// Длинные цены отсекаются до разбора, огромные порядки вроде "1e5000000"
	// до сравнения: масштабирование такого decimal стоит секунды CPU.
	maxPriceLen   = 32
	maxPriceScale = 2
)

var maxPrice = decimal.NewFromInt(1_000_000_000)

// ValidateProductForm проверяет форму добавления товара и возвращает поля для AddProduct.
// Пустой тип трактуется как телефон.
func ValidateProductForm(form *ProductForm) (domain.ProductFields, error) {
	required := []struct {
		field string
		value string
	}{
		{"name", form.Name},
		{"stock", form.Stock},
		{"low_stock_threshold", form.LowStockThreshold},
		{"purchase_price", form.PurchasePrice},
		{"selling_price", form.SellingPrice},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) != "" {
			continue
		}
		if r.field == "name" {
			return domain.ProductFields{}, newValidationError(r.field, msgNameRequired, e.ErrProductNameRequired)
		}
		return domain.ProductFields{}, newValidationError(r.field, msgAllFieldsRequired, e.ErrMissingFields)
	}

	productType := domain.ProductTypePhone
	if strings.TrimSpace(form.Type) != "" {
		t, ok := domain.ParseProductType(form.Type)
		if !ok {
			return domain.ProductFields{}, newValidationError("type", msgUnknownType, e.ErrUnknownProductType)
		}
		productType = t
	}

	stock, err := parseNonNegativeInt("stock", form.Stock)
	if err != nil {
		return domain.ProductFields{}, err
	}

	threshold, err := parseNonNegativeInt("low_stock_threshold", form.LowStockThreshold)
	if err != nil {
		return domain.ProductFields{}, err
	}

	purchase, err := parseNonNegativeDecimal("purchase_price", form.PurchasePrice)
	if err != nil {
		return domain.ProductFields{}, err
	}

	selling, err := parseNonNegativeDecimal("selling_price", form.SellingPrice)
	if err != nil {
		return domain.ProductFields{}, err
	}

	return domain.ProductFields{
		Name:              strings.TrimSpace(form.Name),
		Type:              productType,
		Stock:             stock,
		LowStockThreshold: threshold,
		PurchasePrice:     purchase,
		SellingPrice:      selling,
	}, nil
}

// ValidateSaleQuantity разбирает количество для продажи и сверяет его с текущим остатком.
// RecordSale повторяет проверку остатка на случай устаревшего состояния клиента.
func ValidateSaleQuantity(raw string, stock int) (int, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || qty <= 0 {
		return 0, newValidationError("quantity", msgInvalidQuantity, e.ErrInvalidQuantity)
	}

	if qty > stock {
		return 0, newValidationError(
			"quantity",
			fmt.Sprintf("Quantity cannot exceed available stock (%d).", stock),
			e.ErrInsufficientStock,
		)
	}

	return qty, nil
}

// ParseStockDelta разбирает изменение остатка; знак допускается любой.
func ParseStockDelta(raw string) (int, error) {
	delta, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, newValidationError("delta", msgInvalidDelta, e.ErrInvalidNumber)
	}

	if delta > maxStock || delta < -maxStock {
		return 0, newValidationError("delta", msgDeltaTooLarge, e.ErrStockOutOfRange)
	}

	return delta, nil
}

func parseNonNegativeInt(field, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 0 {
		return 0, newValidationError(field, msgNonNegativeNumbers, e.ErrInvalidNumber)
	}

	if v > maxStock {
		return 0, newValidationError(field, msgStockTooLarge, e.ErrStockOutOfRange)
	}

	return v, nil
}

func parseNonNegativeDecimal(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) > maxPriceLen {
		return decimal.Zero, newValidationError(field, msgPriceTooLarge, e.ErrInvalidPrice)
	}

	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return decimal.Zero, newValidationError(field, msgNonNegativeNumbers, e.ErrInvalidNumber)
	}

	if d.Exponent() < -maxPriceScale {
		return decimal.Zero, newValidationError(field, msgPricePrecision, e.ErrPricePrecision)
	}

	if d.Exponent() > 0 && d.NumDigits()+int(d.Exponent()) > 10 {
		return decimal.Zero, newValidationError(field, msgPriceTooLarge, e.ErrInvalidPrice)
	}

	if d.GreaterThan(maxPrice) {
		return decimal.Zero, newValidationError(field, msgPriceTooLarge, e.ErrInvalidPrice)
	}

	return d, nil
}
