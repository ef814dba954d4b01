package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jimlawless/whereami"
	"github.com/mastimed/mobilegestion/internal/domain"
	"github.com/mastimed/mobilegestion/internal/usecase"
	"github.com/mastimed/mobilegestion/pkg/e"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// ProductResponse — товар в ответе API. Цены сериализуются строками.
type ProductResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Type              string          `json:"type"`
	Stock             int             `json:"stock"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	PurchasePrice     decimal.Decimal `json:"purchase_price"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	LowStock          bool            `json:"low_stock"`
}

// ProductListResponse — список товаров. Query позволяет клиенту отличить
// пустой склад от пустого результата поиска.
type ProductListResponse struct {
	Query    string            `json:"query"`
	Total    int               `json:"total"`
	Products []ProductResponse `json:"products"`
}

type SaleResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Quantity      int             `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Profit        decimal.Decimal `json:"profit"`
	Timestamp     time.Time       `json:"timestamp"`
}

type SaleListResponse struct {
	Total int            `json:"total"`
	Sales []SaleResponse `json:"sales"`
}

type SummaryResponse struct {
	InventoryValue decimal.Decimal `json:"inventory_value"`
	RealizedProfit decimal.Decimal `json:"realized_profit"`
	ProductCount   int             `json:"product_count"`
	SaleCount      int             `json:"sale_count"`
	LowStockCount  int             `json:"low_stock_count"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// ToHTTPResponse сопоставляет ошибку со статусом и сообщением для клиента.
func ToHTTPResponse(err error) (int, string) {
	var verr *usecase.ValidationError

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Message
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrInsufficientStock):
		return http.StatusUnprocessableEntity, e.ErrInsufficientStock.Error()
	case errors.Is(err, e.ErrInvalidQuantity):
		return http.StatusUnprocessableEntity, e.ErrInvalidQuantity.Error()
	case errors.Is(err, e.ErrInvalidSale):
		return http.StatusUnprocessableEntity, e.ErrInvalidSale.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	resp := NewErrorResponse(code, msg)

	var verr *usecase.ValidationError
	if errors.As(err, &verr) {
		resp.Field = verr.Field
	}

	WriteSuccess(w, code, resp)
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parseForm разбирает тело формы: urlencoded или multipart.
func parseForm(r *http.Request) error {
	const maxMemory = 1 << 20

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), e.Join(e.ErrStatusBadRequest, err))
	}

	return nil
}

func parseProductForm(r *http.Request) (*usecase.ProductForm, error) {
	if err := parseForm(r); err != nil {
		return nil, err
	}

	return usecase.NewProductForm(
		r.FormValue("name"),
		r.FormValue("type"),
		r.FormValue("stock"),
		r.FormValue("low_stock_threshold"),
		r.FormValue("purchase_price"),
		r.FormValue("selling_price"),
	), nil
}

func toProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		Type:              string(p.Type),
		Stock:             p.Stock,
		LowStockThreshold: p.LowStockThreshold,
		PurchasePrice:     p.PurchasePrice,
		SellingPrice:      p.SellingPrice,
		LowStock:          p.IsLowStock(),
	}
}

func toArrProductResponse(products []domain.Product) []ProductResponse {
	res := make([]ProductResponse, len(products))
	for i, p := range products {
		res[i] = toProductResponse(p)
	}

	return res
}

func toSaleResponse(s domain.Sale) SaleResponse {
	return SaleResponse{
		ID:            s.ID,
		ProductID:     s.ProductID,
		ProductName:   s.ProductName,
		Quantity:      s.Quantity,
		PurchasePrice: s.PurchasePrice,
		SellingPrice:  s.SellingPrice,
		Profit:        s.Profit(),
		Timestamp:     s.Timestamp,
	}
}

func toArrSaleResponse(sales []domain.Sale) []SaleResponse {
	res := make([]SaleResponse, len(sales))
	for i, s := range sales {
		res[i] = toSaleResponse(s)
	}

	return res
}

func toSummaryResponse(s domain.Summary) SummaryResponse {
	return SummaryResponse{
		InventoryValue: s.InventoryValue,
		RealizedProfit: s.RealizedProfit,
		ProductCount:   s.ProductCount,
		SaleCount:      s.SaleCount,
		LowStockCount:  s.LowStockCount,
	}
}
