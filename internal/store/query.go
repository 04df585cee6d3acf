package store

import (
	"context"
	"errors"
	"strings"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/model"

	"gorm.io/gorm"
)

// ProductFilter narrows ListProducts
type ProductFilter struct {
	Category    string
	Search      string
	InStockOnly bool
	Limit       int
	Offset      int
}

// ListProducts returns products matching filter, most recently updated first
func (s *Store) ListProducts(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	query := s.db.WithContext(ctx).Model(&model.Product{})

	if filter.InStockOnly {
		query = query.Where("in_stock = ?", true)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(sku) LIKE ?)", pattern, pattern)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var products []model.Product
	err := query.Order("last_updated_at desc").Order("sku").Find(&products).Error
	return products, err
}

// GetProduct returns the product with the given SKU
func (s *Store) GetProduct(ctx context.Context, sku string) (model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).Where("sku = ?", sku).Take(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return product, ErrNotFound
	}
	return product, err
}

// Categories returns the distinct categories that have products in stock
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("in_stock = ? AND category <> ?", true, "").
		Distinct().
		Order("category").
		Pluck("category", &categories).Error
	return categories, err
}

// CountInStock returns the number of products currently in stock
func (s *Store) CountInStock(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Product{}).Where("in_stock = ?", true).Count(&count).Error
	return count, err
}
