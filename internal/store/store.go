// Package store is the persistence gateway of the catalog. It loads the
// snapshot used for reconciliation and applies plans one SKU per transaction.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/catalog"
	"github.com/GoldenInvestBI/FUSION-BEEF/internal/model"
	"github.com/GoldenInvestBI/FUSION-BEEF/prometheus"

	"go.opentelemetry.io/otel"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("github.com/GoldenInvestBI/FUSION-BEEF/internal/store")

// ErrNotFound is returned when a SKU has no persisted row
var ErrNotFound = errors.New("product not found")

// Store implements catalog persistence on gorm
type Store struct {
	db      *gorm.DB
	workers int
	now     func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithWorkers bounds the number of SKUs written concurrently
func WithWorkers(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a store on db
func New(db *gorm.DB, opts ...Option) *Store {
	s := &Store{db: db, workers: 4, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping checks that the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// LoadSnapshot returns every non-deleted product
func (s *Store) LoadSnapshot(ctx context.Context) ([]catalog.Product, error) {
	ctx, span := tracer.Start(ctx, "store.LoadSnapshot")
	defer span.End()
	defer prometheus.TrackDBOperation("load_snapshot")(time.Now())

	var rows []model.Product
	if err := s.db.WithContext(ctx).Order("sku").Find(&rows).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load catalog snapshot: %w", err)
	}

	products := make([]catalog.Product, len(rows))
	for i, row := range rows {
		products[i] = toDomain(row)
	}
	return products, nil
}

func toDomain(row model.Product) catalog.Product {
	availability := catalog.OutOfStock
	if row.InStock {
		availability = catalog.InStock
	}
	return catalog.Product{
		Item: catalog.Item{
			SKU:           row.SKU,
			Name:          row.Name,
			Category:      row.Category,
			CostPrice:     row.CostPrice,
			ResalePrice:   row.ResalePrice,
			MarkupPercent: row.MarkupPercent,
			Availability:  availability,
			ImageURL:      row.ImageURL,
			SourceURL:     row.SourceURL,
			ObservedAt:    row.LastSeenAt,
		},
		InStock:        row.InStock,
		ImageLocalPath: row.ImageLocalPath,
		FirstSeenAt:    row.FirstSeenAt,
		LastSeenAt:     row.LastSeenAt,
		LastUpdatedAt:  row.LastUpdatedAt,
	}
}

func newRow(item catalog.Item) model.Product {
	return model.Product{
		SKU:           item.SKU,
		Name:          item.Name,
		Category:      item.Category,
		CostPrice:     item.CostPrice,
		ResalePrice:   item.ResalePrice,
		MarkupPercent: item.MarkupPercent,
		InStock:       item.Available(),
		ImageURL:      item.ImageURL,
		SourceURL:     item.SourceURL,
		FirstSeenAt:   item.ObservedAt,
		LastSeenAt:    item.ObservedAt,
		LastUpdatedAt: item.ObservedAt,
	}
}

// dataColumns are the canonical columns written when an item changed
func dataColumns(item catalog.Item) map[string]interface{} {
	return map[string]interface{}{
		"name":            item.Name,
		"category":        item.Category,
		"cost_price":      item.CostPrice,
		"resale_price":    item.ResalePrice,
		"markup_percent":  item.MarkupPercent,
		"in_stock":        item.Available(),
		"image_url":       item.ImageURL,
		"source_url":      item.SourceURL,
		"last_seen_at":    item.ObservedAt,
		"last_updated_at": item.ObservedAt,
	}
}
