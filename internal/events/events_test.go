package events

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/catalog"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(sku, price string, inStock bool) catalog.Product {
	return catalog.Product{
		Item:    catalog.Item{SKU: sku, Name: "Produto " + sku, CostPrice: decimal.RequireFromString(price)},
		InStock: inStock,
	}
}

func item(sku, price string, availability catalog.Availability) catalog.Item {
	return catalog.Item{SKU: sku, Name: "Produto " + sku, CostPrice: decimal.RequireFromString(price), Availability: availability}
}

func allApplied(plan catalog.Plan) []catalog.Outcome {
	var out []catalog.Outcome
	for _, i := range plan.Insert {
		out = append(out, catalog.Outcome{SKU: i.SKU, Result: catalog.Inserted})
	}
	for _, u := range plan.Update {
		out = append(out, catalog.Outcome{SKU: u.New.SKU, Result: catalog.Updated})
	}
	for _, sku := range plan.MarkUnavailable {
		out = append(out, catalog.Outcome{SKU: sku, Result: catalog.MarkedUnavailable})
	}
	return out
}

func TestMaterialPriceChangeFiltering(t *testing.T) {
	snapshot := []catalog.Product{product("SMALL", "100.00", true), product("BIG", "100.00", true)}
	plan := catalog.Plan{Update: []catalog.Update{
		{Old: snapshot[0], New: item("SMALL", "100.50", catalog.InStock)},
		{Old: snapshot[1], New: item("BIG", "102.00", catalog.InStock)},
	}}

	d := Derive(DefaultConfig(), plan, allApplied(plan), snapshot)

	require.Len(t, d.PriceChanges, 1)
	assert.Equal(t, "BIG", d.PriceChanges[0].SKU)
	assert.Equal(t, "2", d.PriceChanges[0].DeltaPercent.String())
	assert.Equal(t, 2, d.SignificantChanges)
}

func TestMaterialThresholdIsInclusive(t *testing.T) {
	old := product("A", "100", true)
	plan := catalog.Plan{Update: []catalog.Update{{Old: old, New: item("A", "99", catalog.InStock)}}}

	d := Derive(DefaultConfig(), plan, allApplied(plan), []catalog.Product{old})
	require.Len(t, d.PriceChanges, 1)
	assert.Equal(t, "-1", d.PriceChanges[0].DeltaPercent.String())

	// 0.995% shows as 1.00 but stays below the threshold
	old = product("A", "200", true)
	plan = catalog.Plan{Update: []catalog.Update{{Old: old, New: item("A", "201.99", catalog.InStock)}}}

	d = Derive(DefaultConfig(), plan, allApplied(plan), []catalog.Product{old})
	assert.Empty(t, d.PriceChanges)
	assert.Equal(t, 1, d.SignificantChanges)
}

func TestPriceChangeFromZeroIsMaterial(t *testing.T) {
	old := product("A", "0", true)
	plan := catalog.Plan{Update: []catalog.Update{{Old: old, New: item("A", "5", catalog.InStock)}}}

	d := Derive(DefaultConfig(), plan, allApplied(plan), []catalog.Product{old})
	require.Len(t, d.PriceChanges, 1)
	assert.True(t, d.PriceChanges[0].DeltaPercent.IsZero())
}

func TestSignificanceThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SignificanceThreshold = decimal.NewFromInt(5)
	old := product("A", "100", true)
	plan := catalog.Plan{Update: []catalog.Update{{Old: old, New: item("A", "103", catalog.InStock)}}}

	d := Derive(cfg, plan, allApplied(plan), []catalog.Product{old})
	assert.Zero(t, d.SignificantChanges)
	assert.Empty(t, d.PriceChanges)

	plan.Update[0].New = item("A", "106", catalog.InStock)
	d = Derive(cfg, plan, allApplied(plan), []catalog.Product{old})
	assert.Equal(t, 1, d.SignificantChanges)
	assert.Len(t, d.PriceChanges, 1)
}

func TestDeriveScenario(t *testing.T) {
	snapshot := []catalog.Product{product("A", "10", true), product("B", "20", true)}
	plan := catalog.Plan{
		Insert:          []catalog.Item{item("C", "5", catalog.InStock)},
		Update:          []catalog.Update{{Old: snapshot[0], New: item("A", "12", catalog.InStock)}},
		MarkUnavailable: []string{"B"},
	}

	d := Derive(DefaultConfig(), plan, allApplied(plan), snapshot)

	require.Len(t, d.PriceChanges, 1)
	assert.Equal(t, "A", d.PriceChanges[0].SKU)
	assert.Equal(t, "20", d.PriceChanges[0].DeltaPercent.String())
	assert.Equal(t, []catalog.StockChange{{SKU: "B", Name: "Produto B"}}, d.NewlyUnavailable)
	assert.Empty(t, d.NewlyAvailable)
	assert.Equal(t, 2, d.InStockTotal)
	assert.True(t, d.LowStock)
}

func TestStockTransitions(t *testing.T) {
	snapshot := []catalog.Product{product("UP", "1", false), product("DOWN", "1", true), product("SAME", "1", true)}
	plan := catalog.Plan{Update: []catalog.Update{
		{Old: snapshot[0], New: item("UP", "1", catalog.InStock)},
		{Old: snapshot[1], New: item("DOWN", "1", catalog.OutOfStock)},
		{Old: snapshot[2], New: item("SAME", "1", catalog.InStock)},
	}}

	d := Derive(DefaultConfig(), plan, allApplied(plan), snapshot)
	assert.Equal(t, []catalog.StockChange{{SKU: "UP", Name: "Produto UP"}}, d.NewlyAvailable)
	assert.Equal(t, []catalog.StockChange{{SKU: "DOWN", Name: "Produto DOWN"}}, d.NewlyUnavailable)
	assert.Empty(t, d.PriceChanges)
}

func TestFailedOutcomesProduceNoEvents(t *testing.T) {
	snapshot := []catalog.Product{product("A", "10", true), product("B", "20", true)}
	plan := catalog.Plan{
		Update:          []catalog.Update{{Old: snapshot[0], New: item("A", "50", catalog.OutOfStock)}},
		MarkUnavailable: []string{"B"},
	}
	outcomes := []catalog.Outcome{
		{SKU: "A", Result: catalog.Failed, Reason: "boom"},
		{SKU: "B", Result: catalog.Failed, Reason: "boom"},
	}

	d := Derive(DefaultConfig(), plan, outcomes, snapshot)
	assert.Empty(t, d.PriceChanges)
	assert.Empty(t, d.NewlyUnavailable)
	assert.Equal(t, 2, d.InStockTotal)
}

func TestLowStockThreshold(t *testing.T) {
	var snapshot []catalog.Product
	for i := 0; i < 50; i++ {
		snapshot = append(snapshot, product(fmt.Sprintf("S%02d", i), "1", true))
	}
	cfg := DefaultConfig()

	d := Derive(cfg, catalog.Plan{}, nil, snapshot)
	assert.Equal(t, 50, d.InStockTotal)
	assert.False(t, d.LowStock)

	plan := catalog.Plan{MarkUnavailable: []string{"S00"}}
	d = Derive(cfg, plan, allApplied(plan), snapshot)
	assert.Equal(t, 49, d.InStockTotal)
	assert.True(t, d.LowStock)

	cfg.LowStockThreshold = 0
	d = Derive(cfg, plan, allApplied(plan), snapshot)
	assert.False(t, d.LowStock)
}

type recordingNotifier struct {
	calls [][]Payload
	err   error
}

func (r *recordingNotifier) Notify(_ context.Context, payloads []Payload) error {
	r.calls = append(r.calls, payloads)
	return r.err
}

func kinds(payloads []Payload) []Kind {
	var out []Kind
	for _, p := range payloads {
		out = append(out, p.Kind)
	}
	return out
}

func TestEmitSendsOneBatch(t *testing.T) {
	notifier := &recordingNotifier{}
	e := NewEmitter(DefaultConfig(), notifier)
	e.now = func() time.Time { return time.Date(2024, 5, 10, 6, 30, 0, 0, time.UTC) }

	var gone []catalog.StockChange
	for i := 0; i < 12; i++ {
		gone = append(gone, catalog.StockChange{SKU: fmt.Sprintf("G%02d", i), Name: "Costela"})
	}
	summary := catalog.Summary{
		RunID:            "run-1",
		Status:           catalog.StatusSuccess,
		Found:            20,
		NewlyUnavailable: gone,
		PriceChanges: []catalog.PriceChange{{
			SKU: "A", Name: "Picanha", OldPrice: decimal.NewFromInt(10), NewPrice: decimal.NewFromInt(12),
			DeltaPercent: decimal.NewFromInt(20),
		}},
		InStockTotal: 8,
		LowStock:     true,
	}

	require.NoError(t, e.Emit(context.Background(), summary))
	require.Len(t, notifier.calls, 1)

	batch := notifier.calls[0]
	assert.Equal(t, []Kind{ScrapeSuccess, StockChange, PriceChange, LowStock}, kinds(batch))
	assert.Contains(t, batch[0].Body, "10/05/2024 06:30:00")
	assert.Contains(t, batch[1].Body, "Produtos Fora de Estoque (12)")
	assert.Contains(t, batch[1].Body, "... e mais 2 produtos")
	assert.Equal(t, 10, strings.Count(batch[1].Body, "- **Costela**"))
	assert.Contains(t, batch[2].Body, "📈 +R$ 2.00 (+20.0%)")
	assert.Contains(t, batch[3].Body, "Apenas **8 produtos**")
}

func TestEmitFailedRun(t *testing.T) {
	notifier := &recordingNotifier{err: fmt.Errorf("unreachable")}
	e := NewEmitter(DefaultConfig(), notifier)

	err := e.Emit(context.Background(), catalog.Summary{
		Status:   catalog.StatusFailed,
		Error:    "no raw records obtained",
		HaltedAt: catalog.StageCollecting,
		LowStock: true,
	})
	assert.Error(t, err)
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, []Kind{ScrapeFailure}, kinds(notifier.calls[0]))
	assert.Contains(t, notifier.calls[0][0].Body, "no raw records obtained")
}

func TestPartialRunTitle(t *testing.T) {
	e := NewEmitter(DefaultConfig(), &recordingNotifier{})
	payloads := e.Payloads(catalog.Summary{Status: catalog.StatusPartial, Failed: 2})
	require.Len(t, payloads, 1)
	assert.Contains(t, payloads[0].Title, "Falhas")
}
