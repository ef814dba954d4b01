package usecase

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/mastimed/mobilegestion/internal/domain"
	"github.com/mastimed/mobilegestion/pkg/e"
	"github.com/mastimed/mobilegestion/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*LedgerEvent
	err    error
}

func (r *recordingPublisher) Publish(event *LedgerEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

func (r *recordingPublisher) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]EventType, len(r.events))
	for i, ev := range r.events {
		res[i] = ev.Type
	}
	return res
}

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func testLogger() logger.Logger {
	return logger.New(io.Discard, slog.LevelDebug)
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func battery() domain.Product {
	return domain.Product{
		ID:                "3",
		Name:              "Batterie Google Pixel 7",
		Type:              domain.ProductTypePart,
		Stock:             4,
		LowStockThreshold: 5,
		PurchasePrice:     dec(450),
		SellingPrice:      dec(800),
	}
}

func onePlus() domain.Product {
	return domain.Product{
		ID:                "6",
		Name:              "OnePlus 11",
		Type:              domain.ProductTypePhone,
		Stock:             3,
		LowStockThreshold: 4,
		PurchasePrice:     dec(5500),
		SellingPrice:      dec(7500),
	}
}

func galaxy() domain.Product {
	return domain.Product{
		ID:                "2",
		Name:              "Samsung Galaxy S23",
		Type:              domain.ProductTypePhone,
		Stock:             8,
		LowStockThreshold: 5,
		PurchasePrice:     dec(6000),
		SellingPrice:      dec(9000),
	}
}

func newTestLedger(t *testing.T, seed ...domain.Product) (*Ledger, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	l := NewLedger(seed, pub, testLogger(),
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(sequentialIDs()),
	)
	return l, pub
}

func TestAddProductPrependsWithUniqueID(t *testing.T) {
	l, pub := newTestLedger(t, galaxy())

	p := l.AddProduct(domain.ProductFields{
		Name:          "iPhone 15 Pro Max",
		Type:          domain.ProductTypePhone,
		Stock:         15,
		PurchasePrice: dec(11000),
		SellingPrice:  dec(14500),
	})

	products := l.Products()
	require.Len(t, products, 2)
	assert.Equal(t, p.ID, products[0].ID)
	assert.Equal(t, "2", products[1].ID)
	assert.NotEqual(t, "2", p.ID)
	assert.Equal(t, []EventType{EventProductAdded}, pub.types())
}

func TestAddProductSkipsTakenIDs(t *testing.T) {
	ids := []string{"2", "2", "fresh"}
	i := 0
	l := NewLedger([]domain.Product{galaxy()}, nil, testLogger(), WithIDGenerator(func() string {
		id := ids[min(i, len(ids)-1)]
		i++
		return id
	}))

	p := l.AddProduct(domain.ProductFields{Name: "Pixel 8"})
	assert.Equal(t, "fresh", p.ID)
}

func TestAddProductIDsDistinct(t *testing.T) {
	l := NewLedger(nil, nil, testLogger())

	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		p := l.AddProduct(domain.ProductFields{Name: "Part", Stock: i})
		_, dup := seen[p.ID]
		require.False(t, dup, "duplicate id %s", p.ID)
		seen[p.ID] = struct{}{}
	}
}

func TestAddProductIncreasesInventoryValue(t *testing.T) {
	l, _ := newTestLedger(t, battery(), galaxy())
	before := l.InventoryValue()

	l.AddProduct(domain.ProductFields{Name: "Écran", Stock: 10, PurchasePrice: dec(100), SellingPrice: dec(150)})

	assert.True(t, l.InventoryValue().Sub(before).Equal(dec(1000)))
}

func TestAdjustStockClampsAtZero(t *testing.T) {
	l, pub := newTestLedger(t, onePlus())

	l.AdjustStock("6", 5)
	p, ok := l.Product("6")
	require.True(t, ok)
	assert.Equal(t, 8, p.Stock)

	l.AdjustStock("6", -100)
	p, _ = l.Product("6")
	assert.Equal(t, 0, p.Stock)

	require.Len(t, pub.events, 2)
	assert.Equal(t, 0, pub.events[1].Data["stock_after"])
	assert.Equal(t, 8, pub.events[1].Data["stock_before"])
}

func TestAdjustStockUnknownIDIsNoop(t *testing.T) {
	l, pub := newTestLedger(t, onePlus())

	l.AdjustStock("missing", -1)

	assert.Equal(t, []domain.Product{onePlus()}, l.Products())
	assert.Empty(t, pub.events)
}

func TestDeleteProductKeepsSales(t *testing.T) {
	l, pub := newTestLedger(t, battery(), galaxy())

	_, err := l.RecordSale("3", 1)
	require.NoError(t, err)
	salesBefore := l.Sales()

	assert.True(t, l.DeleteProduct("3"))

	_, ok := l.Product("3")
	assert.False(t, ok)
	assert.Len(t, l.Products(), 1)
	assert.Equal(t, salesBefore, l.Sales())
	assert.Equal(t, []EventType{EventSaleRecorded, EventProductDeleted}, pub.types())
}

func TestDeleteProductUnknownIDIsNoop(t *testing.T) {
	l, pub := newTestLedger(t, battery())

	assert.False(t, l.DeleteProduct("missing"))

	assert.Len(t, l.Products(), 1)
	assert.Empty(t, pub.events)
}

func TestRecordSaleSeedScenario(t *testing.T) {
	l, pub := newTestLedger(t, battery())
	profitBefore := l.RealizedProfit()

	sale, err := l.RecordSale("3", 2)
	require.NoError(t, err)

	p, _ := l.Product("3")
	assert.Equal(t, 2, p.Stock)
	assert.Equal(t, 2, sale.Quantity)
	assert.Equal(t, "3", sale.ProductID)
	assert.Equal(t, "Batterie Google Pixel 7", sale.ProductName)
	assert.True(t, sale.PurchasePrice.Equal(dec(450)))
	assert.True(t, sale.SellingPrice.Equal(dec(800)))
	assert.Equal(t, fixedNow, sale.Timestamp)
	assert.True(t, l.RealizedProfit().Sub(profitBefore).Equal(dec(700)))

	require.Len(t, pub.events, 1)
	assert.Equal(t, EventSaleRecorded, pub.events[0].Type)
	assert.Equal(t, sale.ID, pub.events[0].Data["sale_id"])
}

func TestRecordSaleProfitIncrease(t *testing.T) {
	l, _ := newTestLedger(t)
	p := l.AddProduct(domain.ProductFields{Name: "Connecteur USB-C", Stock: 10, PurchasePrice: dec(50), SellingPrice: dec(80)})

	_, err := l.RecordSale(p.ID, 3)
	require.NoError(t, err)

	assert.True(t, l.RealizedProfit().Equal(dec(90)))
}

func TestRecordSaleOverStock(t *testing.T) {
	l, pub := newTestLedger(t, onePlus())

	_, err := l.RecordSale("6", 999)
	require.ErrorIs(t, err, e.ErrInvalidSale)
	assert.ErrorIs(t, err, e.ErrInsufficientStock)

	p, _ := l.Product("6")
	assert.Equal(t, 3, p.Stock)
	assert.Empty(t, l.Sales())
	assert.Empty(t, pub.events)
}

func TestRecordSaleRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		productID string
		quantity  int
		cause     error
	}{
		{"unknown product", "missing", 1, e.ErrProductNotFound},
		{"zero quantity", "6", 0, e.ErrInvalidQuantity},
		{"negative quantity", "6", -2, e.ErrInvalidQuantity},
		{"above stock", "6", 4, e.ErrInsufficientStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newTestLedger(t, onePlus())

			_, err := l.RecordSale(tt.productID, tt.quantity)
			require.ErrorIs(t, err, e.ErrInvalidSale)
			assert.ErrorIs(t, err, tt.cause)
			assert.Equal(t, []domain.Product{onePlus()}, l.Products())
			assert.Empty(t, l.Sales())
		})
	}
}

func TestRecordSaleWholeStock(t *testing.T) {
	l, _ := newTestLedger(t, onePlus())

	_, err := l.RecordSale("6", 3)
	require.NoError(t, err)

	p, _ := l.Product("6")
	assert.Equal(t, 0, p.Stock)

	_, err = l.RecordSale("6", 1)
	assert.ErrorIs(t, err, e.ErrInvalidSale)
}

func TestSalesNewestFirst(t *testing.T) {
	l, _ := newTestLedger(t, galaxy())

	first, err := l.RecordSale("2", 1)
	require.NoError(t, err)
	second, err := l.RecordSale("2", 2)
	require.NoError(t, err)

	sales := l.Sales()
	require.Len(t, sales, 2)
	assert.Equal(t, second.ID, sales[0].ID)
	assert.Equal(t, first.ID, sales[1].ID)
}

func TestSaleSnapshotSurvivesProductChanges(t *testing.T) {
	l, _ := newTestLedger(t, galaxy())

	_, err := l.RecordSale("2", 1)
	require.NoError(t, err)
	l.AdjustStock("2", 100)
	l.DeleteProduct("2")

	sales := l.Sales()
	require.Len(t, sales, 1)
	assert.Equal(t, "Samsung Galaxy S23", sales[0].ProductName)
	assert.True(t, l.RealizedProfit().Equal(dec(3000)))
}

func TestReadsReturnCopies(t *testing.T) {
	l, _ := newTestLedger(t, galaxy())

	products := l.Products()
	products[0].Stock = 1000

	p, _ := l.Product("2")
	assert.Equal(t, 8, p.Stock)
}

func TestLowStockListSortedAscending(t *testing.T) {
	screen := domain.Product{ID: "1", Name: "Écran iPhone 14 Pro", Stock: 12, LowStockThreshold: 10, PurchasePrice: dec(1500)}
	l, _ := newTestLedger(t, screen, galaxy(), battery(), onePlus())

	low := l.LowStockList()
	require.Len(t, low, 2)
	assert.Equal(t, "6", low[0].ID)
	assert.Equal(t, "3", low[1].ID)

	for _, p := range low {
		assert.LessOrEqual(t, p.Stock, p.LowStockThreshold)
	}

	l.AdjustStock("1", -2)
	low = l.LowStockList()
	require.Len(t, low, 3)
	assert.Equal(t, "1", low[2].ID)
}

func TestFilteredListCaseInsensitive(t *testing.T) {
	screen := domain.Product{ID: "1", Name: "Écran iPhone 14 Pro"}
	l, _ := newTestLedger(t, screen, galaxy(), battery())

	got := l.FilteredList("IPHONE")
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	got = l.FilteredList("écran")
	require.Len(t, got, 1)

	assert.Len(t, l.FilteredList(""), 3)
	assert.Empty(t, l.FilteredList("nokia"))
}

func TestFilteredListLowercasesWithoutFolding(t *testing.T) {
	cable := domain.Product{ID: "1", Name: "Câble Straße"}
	l, _ := newTestLedger(t, cable)

	assert.Empty(t, l.FilteredList("strasse"))
	assert.Empty(t, l.FilteredList("ss"))
	assert.Len(t, l.FilteredList("STRAßE"), 1)
	assert.Len(t, l.FilteredList("CÂBLE"), 1)
}

func TestAdjustStockLargeRestockDoesNotEmptyProduct(t *testing.T) {
	l, _ := newTestLedger(t, battery())

	delta, err := ParseStockDelta(strconv.Itoa(math.MaxInt))
	require.Error(t, err)
	assert.Zero(t, delta)

	l.AdjustStock("3", math.MaxInt)
	p, ok := l.Product("3")
	require.True(t, ok)
	assert.Equal(t, math.MaxInt, p.Stock)

	l.AdjustStock("3", 1)
	p, _ = l.Product("3")
	assert.Equal(t, math.MaxInt, p.Stock)
}

func TestSummary(t *testing.T) {
	l, _ := newTestLedger(t, battery(), galaxy())

	_, err := l.RecordSale("2", 1)
	require.NoError(t, err)

	s := l.Summary()
	// 450*4 + 6000*7
	assert.True(t, s.InventoryValue.Equal(dec(43800)), s.InventoryValue.String())
	assert.True(t, s.RealizedProfit.Equal(dec(3000)))
	assert.Equal(t, 2, s.ProductCount)
	assert.Equal(t, 1, s.SaleCount)
	assert.Equal(t, 1, s.LowStockCount)
}

func TestPublishFailureDoesNotFailOperation(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("outbox is full")}
	l := NewLedger([]domain.Product{galaxy()}, pub, testLogger())

	_, err := l.RecordSale("2", 1)
	require.NoError(t, err)

	p, _ := l.Product("2")
	assert.Equal(t, 7, p.Stock)
}

func TestNewLedgerClampsNegativeSeedStock(t *testing.T) {
	broken := galaxy()
	broken.Stock = -3

	l, _ := newTestLedger(t, broken)
	p, _ := l.Product("2")
	assert.Equal(t, 0, p.Stock)
}

func TestConcurrentOperationsKeepStockNonNegative(t *testing.T) {
	l := NewLedger([]domain.Product{galaxy()}, nil, testLogger())

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := l.RecordSale("2", 1); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
		go func() {
			defer wg.Done()
			l.AdjustStock("2", -1)
		}()
	}
	wg.Wait()

	p, _ := l.Product("2")
	assert.GreaterOrEqual(t, p.Stock, 0)
	assert.Len(t, l.Sales(), success)
	assert.LessOrEqual(t, success, 8)
}
