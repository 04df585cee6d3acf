// Package catalog holds the data model shared by every stage of a sync run:
// raw scraped records, canonical items, persisted products and the plan that
// reconciles them.
package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Availability is the stock state of an item as observed on the supplier portal
type Availability string

const (
	InStock    Availability = "in_stock"
	OutOfStock Availability = "out_of_stock"
)

// RawRecord is one product as extracted by the scraping collaborator, before any cleaning
type RawRecord struct {
	Category  string `json:"category"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	PriceText string `json:"price"`
	BadgeText string `json:"badge"`
	ImageURL  string `json:"image_url"`
	SourceURL string `json:"source_url"`
}

// Batch is the output of one collection pass
type Batch struct {
	Records []RawRecord
	// EmptyCategories lists categories that were visited but yielded no records
	EmptyCategories []string
}

// Item is the canonical, write-once representation of a product observed in a run
type Item struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	ResalePrice   decimal.Decimal `json:"resale_price"`
	MarkupPercent decimal.Decimal `json:"markup_percent"`
	Availability  Availability    `json:"availability"`
	ImageURL      string          `json:"image_url,omitempty"`
	SourceURL     string          `json:"source_url"`
	ObservedAt    time.Time       `json:"observed_at"`
}

// Available reports whether the item was observed with an in-stock badge
func (i Item) Available() bool {
	return i.Availability == InStock
}

// Product is the last known persisted state of a SKU
type Product struct {
	Item
	InStock        bool      `json:"in_stock"`
	ImageLocalPath string    `json:"image_local_path,omitempty"`
	FirstSeenAt    time.Time `json:"first_seen_at"`
	LastSeenAt     time.Time `json:"last_seen_at"`
	LastUpdatedAt  time.Time `json:"last_updated_at"`
}

// SameData reports whether the canonical fields of p already match item.
// Observation timestamps are not part of the comparison.
func (p Product) SameData(item Item) bool {
	return p.Name == item.Name &&
		p.Category == item.Category &&
		p.CostPrice.Equal(item.CostPrice) &&
		p.ResalePrice.Equal(item.ResalePrice) &&
		p.MarkupPercent.Equal(item.MarkupPercent) &&
		p.InStock == item.Available() &&
		p.ImageURL == item.ImageURL &&
		p.SourceURL == item.SourceURL
}
