package usecase

import (
	"cmp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mastimed/mobilegestion/internal/domain"
	"github.com/mastimed/mobilegestion/pkg/e"
	"github.com/mastimed/mobilegestion/pkg/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Ledger владеет товарами и продажами магазина и применяет к ним правила склада.
// Каждая операция выполняется целиком под мьютексом, до начала следующей.
// Чтения возвращают копии, изменить состояние можно только через методы Ledger.
type Ledger struct {
	mu       sync.RWMutex
	products []*domain.Product // последние добавленные первыми
	sales    []*domain.Sale    // последние продажи первыми

	events EventPublisher
	logger logger.Logger
	now    func() time.Time
	newID  func() string
}

// LedgerOption настраивает Ledger.
type LedgerOption func(*Ledger)

// WithClock подменяет источник времени продаж и событий.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator подменяет генератор идентификаторов.
func WithIDGenerator(newID func() string) LedgerOption {
	return func(l *Ledger) { l.newID = newID }
}

// NewLedger создаёт склад с начальным списком товаров в заданном порядке.
func NewLedger(seed []domain.Product, events EventPublisher, logger logger.Logger, opts ...LedgerOption) *Ledger {
	if events == nil {
		events = NopPublisher{}
	}

	l := &Ledger{
		products: make([]*domain.Product, 0, len(seed)),
		events:   events,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}

	for i := range seed {
		p := seed[i]
		p.Stock = max(0, p.Stock)
		l.products = append(l.products, &p)
	}

	return l
}

// AddProduct присваивает товару новый уникальный идентификатор и ставит его в начало списка.
// Поля должны быть заранее проверены ValidateProductForm.
func (l *Ledger) AddProduct(fields domain.ProductFields) domain.Product {
	l.mu.Lock()
	defer l.mu.Unlock()

	product := domain.NewProduct(l.uniqueProductID(), fields)
	l.products = slices.Insert(l.products, 0, product)

	l.publish(EventProductAdded, product.ID, productAddedData(product))

	return *product
}

// AdjustStock меняет остаток на delta с ограничением снизу нулём.
// Неизвестный productID игнорируется.
func (l *Ledger) AdjustStock(productID string, delta int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	product := l.find(productID)
	if product == nil {
		l.logger.Debugf("adjust stock: product %s not found, ignoring", productID)
		return
	}

	before := product.Stock
	product.AdjustStock(delta)

	l.publish(EventStockAdjusted, product.ID, stockAdjustedData(delta, before, product.Stock))
}

// DeleteProduct удаляет товар и сообщает, был ли он удалён. Продажи этого
// товара остаются без изменений. Неизвестный productID игнорируется.
func (l *Ledger) DeleteProduct(productID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexOf(productID)
	if idx < 0 {
		l.logger.Debugf("delete product: product %s not found, ignoring", productID)
		return false
	}

	product := l.products[idx]
	l.products = slices.Delete(l.products, idx, idx+1)

	l.publish(EventProductDeleted, product.ID, productDeletedData(product))

	return true
}

// RecordSale проверяет наличие товара, количество и остаток, затем атомарно
// добавляет запись о продаже и списывает остаток. При ошибке состояние не меняется.
func (l *Ledger) RecordSale(productID string, quantity int) (domain.Sale, error) {
	const op = "Ledger.RecordSale"

	l.mu.Lock()
	defer l.mu.Unlock()

	product := l.find(productID)
	if product == nil {
		return domain.Sale{}, e.Wrap(op, e.Join(e.ErrInvalidSale, e.ErrProductNotFound))
	}

	if quantity <= 0 {
		return domain.Sale{}, e.Wrap(op, e.Join(e.ErrInvalidSale, e.ErrInvalidQuantity))
	}

	if quantity > product.Stock {
		return domain.Sale{}, e.Wrap(op, e.Join(e.ErrInvalidSale, e.ErrInsufficientStock))
	}

	sale := domain.NewSale(l.newID(), product, quantity, l.now())
	l.sales = slices.Insert(l.sales, 0, sale)
	product.AdjustStock(-quantity)

	l.publish(EventSaleRecorded, product.ID, saleRecordedData(sale, product.Stock))

	return *sale, nil
}

// Product возвращает копию товара по идентификатору.
func (l *Ledger) Product(productID string) (domain.Product, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	product := l.find(productID)
	if product == nil {
		return domain.Product{}, false
	}

	return *product, true
}

// Products возвращает копию списка товаров.
func (l *Ledger) Products() []domain.Product {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return copyProducts(l.products, func(*domain.Product) bool { return true })
}

// Sales возвращает копию списка продаж, последние первыми.
func (l *Ledger) Sales() []domain.Sale {
	l.mu.RLock()
	defer l.mu.RUnlock()

	res := make([]domain.Sale, len(l.sales))
	for i, s := range l.sales {
		res[i] = *s
	}

	return res
}

// LowStockList возвращает товары с остатком не выше порога, самые срочные первыми.
func (l *Ledger) LowStockList() []domain.Product {
	l.mu.RLock()
	defer l.mu.RUnlock()

	res := copyProducts(l.products, (*domain.Product).IsLowStock)
	slices.SortStableFunc(res, func(a, b domain.Product) int {
		return cmp.Compare(a.Stock, b.Stock)
	})

	return res
}

// FilteredList возвращает товары, название которых содержит query без учёта регистра.
// Пустой query возвращает все товары.
func (l *Ledger) FilteredList(query string) []domain.Product {
	// cases.Caser хранит состояние, поэтому создаётся на каждый вызов
	lower := cases.Lower(language.Und)
	needle := lower.String(query)

	l.mu.RLock()
	defer l.mu.RUnlock()

	return copyProducts(l.products, func(p *domain.Product) bool {
		return strings.Contains(lower.String(p.Name), needle)
	})
}

// InventoryValue — сумма purchasePrice * stock по всем товарам.
func (l *Ledger) InventoryValue() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.inventoryValue()
}

// RealizedProfit — сумма маржи по всем продажам по ценам на момент продажи.
func (l *Ledger) RealizedProfit() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.realizedProfit()
}

// Summary собирает сводку по одному согласованному состоянию склада.
func (l *Ledger) Summary() domain.Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	lowStock := 0
	for _, p := range l.products {
		if p.IsLowStock() {
			lowStock++
		}
	}

	return domain.Summary{
		InventoryValue: l.inventoryValue(),
		RealizedProfit: l.realizedProfit(),
		ProductCount:   len(l.products),
		SaleCount:      len(l.sales),
		LowStockCount:  lowStock,
	}
}

func (l *Ledger) inventoryValue() decimal.Decimal {
	total := decimal.Zero
	for _, p := range l.products {
		total = total.Add(p.StockValue())
	}

	return total
}

func (l *Ledger) realizedProfit() decimal.Decimal {
	total := decimal.Zero
	for _, s := range l.sales {
		total = total.Add(s.Profit())
	}

	return total
}

// uniqueProductID генерирует идентификатор, не занятый текущими товарами.
func (l *Ledger) uniqueProductID() string {
	for {
		id := l.newID()
		if l.indexOf(id) < 0 {
			return id
		}
	}
}

func (l *Ledger) indexOf(productID string) int {
	return slices.IndexFunc(l.products, func(p *domain.Product) bool {
		return p.ID == productID
	})
}

func (l *Ledger) find(productID string) *domain.Product {
	if idx := l.indexOf(productID); idx >= 0 {
		return l.products[idx]
	}

	return nil
}

// publish вызывается под блокировкой записи, поэтому порядок событий совпадает с порядком изменений.
func (l *Ledger) publish(eventType EventType, productID string, data map[string]any) {
	event := newLedgerEvent(l.newID(), eventType, productID, l.now(), data)
	if err := l.events.Publish(event); err != nil {
		l.logger.Warnf("failed to publish %s event for product %s: %v", eventType, productID, err)
	}
}

func copyProducts(products []*domain.Product, keep func(*domain.Product) bool) []domain.Product {
	res := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if keep(p) {
			res = append(res, *p)
		}
	}

	return res
}
