package app

import (
	"io"
	"log/slog"
	"testing"
	"time"

	config "github.com/mastimed/mobilegestion/internal/cfg"
	"github.com/mastimed/mobilegestion/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(seed bool) *config.Config {
	return &config.Config{
		Http: config.HTTPConfig{
			Port:         "0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			IdleTimeout:  time.Second,
		},
		Grpc:            config.GRPCConfig{Port: "0", NetworkMode: "tcp"},
		Ledger:          config.LedgerCfg{Seed: seed},
		LogLevel:        "info",
		ShutdownTimeout: time.Second,
	}
}

func TestSeedProducts(t *testing.T) {
	products := seedProducts()
	require.Len(t, products, 6)

	ids := make(map[string]struct{}, len(products))
	for i, p := range products {
		ids[p.ID] = struct{}{}
		assert.Equal(t, string(rune('1'+i)), p.ID)
		assert.GreaterOrEqual(t, p.Stock, 0)
	}
	assert.Len(t, ids, 6)

	pixel := products[2]
	assert.Equal(t, "Batterie Google Pixel 7", pixel.Name)
	assert.True(t, pixel.IsLowStock())
}

func TestNewAppSeedsLedger(t *testing.T) {
	a, err := NewApp(testConfig(true), logger.New(io.Discard, slog.LevelError))
	require.NoError(t, err)

	assert.Nil(t, a.outbox)
	assert.Len(t, a.ledger.Products(), 6)

	low := a.ledger.LowStockList()
	require.Len(t, low, 2)
	assert.Equal(t, "6", low[0].ID)
	assert.Equal(t, "3", low[1].ID)

	sale, err := a.ledger.RecordSale("3", 2)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(700).Equal(sale.Profit()))
}

func TestNewAppWithoutSeed(t *testing.T) {
	a, err := NewApp(testConfig(false), logger.New(io.Discard, slog.LevelError))
	require.NoError(t, err)

	assert.Empty(t, a.ledger.Products())
	assert.True(t, a.ledger.InventoryValue().IsZero())
}
