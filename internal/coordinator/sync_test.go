package coordinator

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/catalog"
	"github.com/GoldenInvestBI/FUSION-BEEF/internal/events"
	"github.com/GoldenInvestBI/FUSION-BEEF/internal/store"
	"github.com/GoldenInvestBI/FUSION-BEEF/pkg/database"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openStore(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func seeded(sku, name, cost string, at time.Time) catalog.Item {
	price := decimal.RequireFromString(cost)
	return catalog.Item{
		SKU:           sku,
		Name:          name,
		Category:      "Bovinos",
		CostPrice:     price,
		ResalePrice:   price.Mul(decimal.RequireFromString("1.6")).Round(2),
		MarkupPercent: decimal.NewFromInt(60),
		Availability:  catalog.InStock,
		ImageURL:      "https://portal.example/img/" + sku + ".jpg",
		SourceURL:     "https://portal.example/p/" + sku,
		ObservedAt:    at,
	}
}

func TestSyncAgainstStore(t *testing.T) {
	db := openStore(t)
	ctx := context.Background()
	seededAt := runAt.Add(-24 * time.Hour)

	initial := store.New(db, store.WithClock(func() time.Time { return seededAt }))
	for _, o := range initial.ApplyPlan(ctx, catalog.Plan{Insert: []catalog.Item{
		seeded("A", "Picanha", "100.00", seededAt),
		seeded("B", "Fraldinha", "50.00", seededAt),
	}}) {
		require.True(t, o.Succeeded(), o.Reason)
	}

	gateway := store.New(db, store.WithWorkers(2), store.WithClock(func() time.Time { return runAt }))
	notifier := &recordingNotifier{}
	source := records(
		catalog.RawRecord{Category: "Bovinos", SKU: "A", Name: "Picanha", PriceText: "R$ 120,00/kg", BadgeText: "RESFRIADO",
			ImageURL: "https://portal.example/img/A.jpg", SourceURL: "https://portal.example/p/A"},
		catalog.RawRecord{Category: "Suínos", SKU: "C", Name: "Lombo", PriceText: "R$ 30,00", BadgeText: "CONGELADO",
			ImageURL: "https://portal.example/img/C.jpg", SourceURL: "https://portal.example/p/C"},
	)
	c := newTestCoordinator(source, gateway, notifier, nil)
	runs := 0
	c.newID = func() string {
		runs++
		return fmt.Sprintf("run-%d", runs)
	}

	summary, err := c.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, catalog.StatusSuccess, summary.Status)
	assert.Equal(t, 2, summary.Found)
	assert.Equal(t, 1, summary.Added)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 1, summary.MarkedUnavailable)
	assert.Equal(t, 2, summary.InStockTotal)

	require.Len(t, summary.PriceChanges, 1)
	assert.Equal(t, "A", summary.PriceChanges[0].SKU)
	assert.True(t, decimal.NewFromInt(20).Equal(summary.PriceChanges[0].DeltaPercent))
	assert.Equal(t, []catalog.StockChange{{SKU: "B", Name: "Fraldinha"}}, summary.NewlyUnavailable)

	assert.Equal(t,
		[]events.Kind{events.ScrapeSuccess, events.StockChange, events.PriceChange, events.LowStock},
		notifier.kinds())

	b, err := gateway.GetProduct(ctx, "B")
	require.NoError(t, err)
	assert.False(t, b.InStock)

	a, err := gateway.GetProduct(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "192", a.ResalePrice.String())

	logs, err := gateway.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "run-1", logs[0].RunID)
	assert.Equal(t, string(catalog.StatusSuccess), logs[0].Status)
	assert.Equal(t, 1, logs[0].ProductsAdded)

	// replaying the same records changes nothing
	again, err := c.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.StatusSuccess, again.Status)
	assert.Zero(t, again.Added)
	assert.Zero(t, again.MarkedUnavailable)
	assert.Empty(t, again.PriceChanges)
	assert.Empty(t, again.NewlyUnavailable)
	assert.Equal(t, 2, again.InStockTotal)
}
