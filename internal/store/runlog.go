package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/catalog"
	"github.com/GoldenInvestBI/FUSION-BEEF/internal/model"
)

// StartRun opens the scrape log row of a run
func (s *Store) StartRun(ctx context.Context, runID string, startedAt time.Time) error {
	row := model.ScrapeLog{
		RunID:     runID,
		Status:    string(catalog.StatusRunning),
		StartedAt: startedAt,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to open scrape log: %w", err)
	}
	return nil
}

// FinishRun completes the scrape log row of a run with its summary
func (s *Store) FinishRun(ctx context.Context, summary catalog.Summary) error {
	details, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode run summary: %w", err)
	}

	res := s.db.WithContext(ctx).Model(&model.ScrapeLog{}).
		Where("run_id = ?", summary.RunID).
		Updates(map[string]interface{}{
			"status":           string(summary.Status),
			"halted_at":        string(summary.HaltedAt),
			"products_found":   summary.Found,
			"products_added":   summary.Added,
			"products_updated": summary.Updated,
			"products_removed": summary.MarkedUnavailable,
			"products_failed":  summary.Failed,
			"records_rejected": len(summary.Rejections),
			"price_changes":    len(summary.PriceChanges),
			"error_message":    summary.Error,
			"details":          string(details),
			"completed_at":     summary.CompletedAt,
			"duration_seconds": int(summary.Duration().Seconds()),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to complete scrape log: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("scrape log for run %s: %w", summary.RunID, ErrNotFound)
	}
	return nil
}

// ListRuns returns the most recent scrape logs, newest first
func (s *Store) ListRuns(ctx context.Context, limit int) ([]model.ScrapeLog, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []model.ScrapeLog
	err := s.db.WithContext(ctx).Order("started_at desc").Limit(limit).Find(&runs).Error
	return runs, err
}
