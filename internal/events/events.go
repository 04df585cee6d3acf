// Package events derives notable events from an applied plan and hands them
// to a notifier, once per run.
package events

import (
	"context"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/catalog"
	"github.com/GoldenInvestBI/FUSION-BEEF/internal/pricing"

	"github.com/shopspring/decimal"
)

// Kind identifies the type of a notification payload
type Kind string

const (
	ScrapeSuccess Kind = "scrape_success"
	ScrapeFailure Kind = "scrape_failure"
	StockChange   Kind = "stock_change"
	PriceChange   Kind = "price_change"
	LowStock      Kind = "low_stock"
)

// Payload is one notification handed to a Notifier
type Payload struct {
	Kind  Kind                   `json:"kind"`
	Title string                 `json:"title"`
	Body  string                 `json:"body"`
	Data  map[string]interface{} `json:"data"`
}

// Notifier delivers a run's payloads. It is called once per run with the whole batch.
type Notifier interface {
	Notify(ctx context.Context, payloads []Payload) error
}

// Config holds the event thresholds
type Config struct {
	// MaterialThreshold is the minimum |delta%| of a significant change to be listed and notified
	MaterialThreshold decimal.Decimal
	// SignificanceThreshold is the |delta%| a change must exceed to be a price change at all
	SignificanceThreshold decimal.Decimal
	// LowStockThreshold raises a low stock alert when fewer products are in stock
	LowStockThreshold int
}

// DefaultConfig returns a 1% material threshold, any nonzero change as
// significant, and a low stock alert below 50 products.
func DefaultConfig() Config {
	return Config{
		MaterialThreshold:     decimal.NewFromInt(1),
		SignificanceThreshold: decimal.Zero,
		LowStockThreshold:     50,
	}
}

// Derived holds everything the emitter derived from one run
type Derived struct {
	PriceChanges       []catalog.PriceChange
	SignificantChanges int
	NewlyUnavailable   []catalog.StockChange
	NewlyAvailable     []catalog.StockChange
	InStockTotal       int
	LowStock           bool
}

// Derive computes price changes, stock transitions and the in-stock total
// after the successful outcomes of plan are applied on top of snapshot.
// Failed mutations produce no events.
func Derive(cfg Config, plan catalog.Plan, outcomes []catalog.Outcome, snapshot []catalog.Product) Derived {
	applied := make(map[string]bool, len(outcomes))
	for _, o := range outcomes {
		if o.Succeeded() {
			applied[o.SKU] = true
		}
	}

	inStock := make(map[string]bool, len(snapshot)+len(plan.Insert))
	names := make(map[string]string, len(snapshot))
	for _, p := range snapshot {
		inStock[p.SKU] = p.InStock
		names[p.SKU] = p.Name
	}

	var d Derived
	for _, item := range plan.Insert {
		if applied[item.SKU] {
			inStock[item.SKU] = item.Available()
		}
	}

	for _, u := range plan.Update {
		if !applied[u.New.SKU] {
			continue
		}
		inStock[u.New.SKU] = u.New.Available()

		switch {
		case u.Old.InStock && !u.New.Available():
			d.NewlyUnavailable = append(d.NewlyUnavailable, catalog.StockChange{SKU: u.New.SKU, Name: u.New.Name})
		case !u.Old.InStock && u.New.Available():
			d.NewlyAvailable = append(d.NewlyAvailable, catalog.StockChange{SKU: u.New.SKU, Name: u.New.Name})
		}

		change, significant, material := priceChange(cfg, u)
		if significant {
			d.SignificantChanges++
		}
		if material {
			d.PriceChanges = append(d.PriceChanges, change)
		}
	}

	for _, sku := range plan.MarkUnavailable {
		if !applied[sku] {
			continue
		}
		inStock[sku] = false
		d.NewlyUnavailable = append(d.NewlyUnavailable, catalog.StockChange{SKU: sku, Name: names[sku]})
	}

	for _, ok := range inStock {
		if ok {
			d.InStockTotal++
		}
	}
	d.LowStock = cfg.LowStockThreshold > 0 && d.InStockTotal < cfg.LowStockThreshold
	return d
}

// priceChange compares cost prices. A change from zero is always material.
func priceChange(cfg Config, u catalog.Update) (change catalog.PriceChange, significant, material bool) {
	oldPrice, newPrice := u.Old.CostPrice, u.New.CostPrice
	if oldPrice.Equal(newPrice) {
		return change, false, false
	}

	change = catalog.PriceChange{SKU: u.New.SKU, Name: u.New.Name, OldPrice: oldPrice, NewPrice: newPrice}
	delta, ok := pricing.DeltaPercent(oldPrice, newPrice)
	if !ok {
		return change, true, true
	}
	change.DeltaPercent = delta.Round(2)

	magnitude := delta.Abs()
	significant = magnitude.GreaterThan(cfg.SignificanceThreshold)
	return change, significant, significant && magnitude.GreaterThanOrEqual(cfg.MaterialThreshold)
}
