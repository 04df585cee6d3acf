package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/model"
	"github.com/GoldenInvestBI/FUSION-BEEF/internal/pricing"
	"github.com/GoldenInvestBI/FUSION-BEEF/prometheus"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Markup returns the stored default markup, or fallback when none was set
func (s *Store) Markup(ctx context.Context, fallback decimal.Decimal) (decimal.Decimal, error) {
	var setting model.Setting
	err := s.db.WithContext(ctx).Where(&model.Setting{Key: model.SettingDefaultMarkup}).Take(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fallback, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read markup setting: %w", err)
	}
	markup, err := decimal.NewFromString(setting.Value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid stored markup %q: %w", setting.Value, err)
	}
	return markup, nil
}

// Settings returns every stored setting
func (s *Store) Settings(ctx context.Context) ([]model.Setting, error) {
	var settings []model.Setting
	err := s.db.WithContext(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&settings).Error
	return settings, err
}

// SetMarkup stores a new default markup and reprices every product with it.
// It returns the number of products repriced.
func (s *Store) SetMarkup(ctx context.Context, markup decimal.Decimal) (int, error) {
	if err := pricing.ValidateDefaultMarkup(markup); err != nil {
		return 0, err
	}
	defer prometheus.TrackDBOperation("reprice")(time.Now())

	repriced := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		setting := model.Setting{Key: model.SettingDefaultMarkup, Value: markup.String()}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&setting).Error
		if err != nil {
			return err
		}

		var rows []model.Product
		return tx.Select("id", "cost_price").FindInBatches(&rows, 200, func(_ *gorm.DB, _ int) error {
			for _, row := range rows {
				err := tx.Model(&model.Product{}).Where("id = ?", row.ID).Updates(map[string]interface{}{
					"resale_price":   pricing.ResalePrice(row.CostPrice, markup),
					"markup_percent": markup,
				}).Error
				if err != nil {
					return err
				}
				repriced++
			}
			return nil
		}).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to reprice catalog: %w", err)
	}
	return repriced, nil
}
