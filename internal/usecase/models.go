package usecase

import (
	"time"

	"github.com/mastimed/mobilegestion/internal/domain"
)

// LEDGER

// ProductForm — сырые значения формы добавления товара до валидации.
type ProductForm struct {
	Name              string
	Type              string
	Stock             string
	LowStockThreshold string
	PurchasePrice     string
	SellingPrice      string
}

// EVENTS

// EventType — вид изменения склада
type EventType string

const (
	EventProductAdded   EventType = "product.added"
	EventStockAdjusted  EventType = "product.stock_adjusted"
	EventProductDeleted EventType = "product.deleted"
	EventSaleRecorded   EventType = "sale.recorded"
)

const eventPayloadTimeForm = time.RFC3339Nano

// LedgerEvent описывает одно применённое изменение склада.
type LedgerEvent struct {
	ID         string
	Type       EventType
	ProductID  string
	OccurredAt time.Time
	Data       map[string]any
}

// INFRASTRUCTURE

// WriteMessageReq — запрос на отправку события в брокер.
type WriteMessageReq struct {
	Event *LedgerEvent
}

// MAPPERS

func NewProductForm(name, productType, stock, threshold, purchasePrice, sellingPrice string) *ProductForm {
	return &ProductForm{
		Name:              name,
		Type:              productType,
		Stock:             stock,
		LowStockThreshold: threshold,
		PurchasePrice:     purchasePrice,
		SellingPrice:      sellingPrice,
	}
}

func NewWriteMessageReq(event *LedgerEvent) *WriteMessageReq {
	return &WriteMessageReq{Event: event}
}

func newLedgerEvent(id string, eventType EventType, productID string, at time.Time, data map[string]any) *LedgerEvent {
	return &LedgerEvent{
		ID:         id,
		Type:       eventType,
		ProductID:  productID,
		OccurredAt: at,
		Data:       data,
	}
}

func productAddedData(p *domain.Product) map[string]any {
	return map[string]any{
		"name":                p.Name,
		"type":                string(p.Type),
		"stock":               p.Stock,
		"low_stock_threshold": p.LowStockThreshold,
		"purchase_price":      p.PurchasePrice.String(),
		"selling_price":       p.SellingPrice.String(),
	}
}

func stockAdjustedData(delta, before, after int) map[string]any {
	return map[string]any{
		"delta":        delta,
		"stock_before": before,
		"stock_after":  after,
	}
}

func productDeletedData(p *domain.Product) map[string]any {
	return map[string]any{
		"name":  p.Name,
		"stock": p.Stock,
	}
}

func saleRecordedData(s *domain.Sale, stockAfter int) map[string]any {
	return map[string]any{
		"sale_id":        s.ID,
		"product_name":   s.ProductName,
		"quantity":       s.Quantity,
		"purchase_price": s.PurchasePrice.String(),
		"selling_price":  s.SellingPrice.String(),
		"profit":         s.Profit().String(),
		"timestamp":      s.Timestamp.UTC().Format(eventPayloadTimeForm),
		"stock_after":    stockAfter,
	}
}
