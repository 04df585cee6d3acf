package store

import (
	"context"
	"fmt"
	"time"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/model"
)

// Purge soft deletes products that have been unavailable since before cutoff.
// Rows are kept for audit and revived if the SKU is seen again.
func (s *Store) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("in_stock = ? AND last_updated_at < ?", false, cutoff).
		Delete(&model.Product{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to purge unavailable products: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// SetImagePath records the local copy of a product image
func (s *Store) SetImagePath(ctx context.Context, sku, path string) error {
	res := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("sku = ?", sku).
		UpdateColumn("image_local_path", path)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
