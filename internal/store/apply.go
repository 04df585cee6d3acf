package store

import (
	"context"
	"errors"
	"time"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/catalog"
	"github.com/GoldenInvestBI/FUSION-BEEF/internal/model"
	"github.com/GoldenInvestBI/FUSION-BEEF/pkg/logger"
	"github.com/GoldenInvestBI/FUSION-BEEF/prometheus"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ApplyPlan applies every mutation of plan and reports one outcome per SKU,
// in plan order: inserts, then updates, then mark-unavailable. Each SKU is
// written in its own transaction, so a failure never affects other SKUs.
// Applying the same plan twice leaves the catalog unchanged the second time.
func (s *Store) ApplyPlan(ctx context.Context, plan catalog.Plan) []catalog.Outcome {
	ctx, span := tracer.Start(ctx, "store.ApplyPlan")
	defer span.End()
	span.SetAttributes(
		attribute.Int("plan.insert", len(plan.Insert)),
		attribute.Int("plan.update", len(plan.Update)),
		attribute.Int("plan.mark_unavailable", len(plan.MarkUnavailable)),
	)

	log := logger.FromCtx(ctx)
	at := s.now()
	type job struct {
		sku    string
		op     string
		result catalog.Result
		apply  func(context.Context) error
	}
	var jobs []job
	for _, item := range plan.Insert {
		jobs = append(jobs, job{item.SKU, "insert", catalog.Inserted, func(ctx context.Context) error {
			return s.insert(ctx, item)
		}})
	}
	for _, u := range plan.Update {
		jobs = append(jobs, job{u.New.SKU, "update", catalog.Updated, func(ctx context.Context) error {
			return s.update(ctx, u.New)
		}})
	}
	for _, sku := range plan.MarkUnavailable {
		jobs = append(jobs, job{sku, "mark_unavailable", catalog.MarkedUnavailable, func(ctx context.Context) error {
			return s.markUnavailable(ctx, sku, at)
		}})
	}

	outcomes := make([]catalog.Outcome, len(jobs))
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, j := range jobs {
		g.Go(func() error {
			defer prometheus.TrackDBOperation(j.op)(time.Now())

			err := j.apply(ctx)
			if err == nil {
				outcomes[i] = catalog.Outcome{SKU: j.sku, Result: j.result}
				prometheus.RecordMutation(string(j.result))
				return nil
			}

			perr := &catalog.PersistenceError{SKU: j.sku, Op: j.op, Err: err}
			log.Warn("Failed to apply mutation", zap.String("sku", j.sku), zap.String("op", j.op), zap.Error(err))
			outcomes[i] = catalog.Outcome{SKU: j.sku, Result: catalog.Failed, Reason: perr.Error()}
			prometheus.RecordMutation(string(catalog.Failed))
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (s *Store) insert(ctx context.Context, item catalog.Item) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Product
		err := tx.Unscoped().Where("sku = ?", item.SKU).Take(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row := newRow(item)
			return tx.Create(&row).Error
		}
		if err != nil {
			return err
		}

		if !existing.DeletedAt.Valid && toDomain(existing).SameData(item) {
			return tx.Model(&existing).UpdateColumn("last_seen_at", item.ObservedAt).Error
		}

		// soft deleted rows come back on their next sighting
		columns := dataColumns(item)
		columns["deleted_at"] = nil
		if existing.ImageURL != item.ImageURL {
			columns["image_local_path"] = ""
		}
		return tx.Unscoped().Model(&existing).Updates(columns).Error
	})
}

func (s *Store) update(ctx context.Context, item catalog.Item) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row model.Product
		err := tx.Where("sku = ?", item.SKU).Take(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if toDomain(row).SameData(item) {
			return tx.Model(&row).UpdateColumn("last_seen_at", item.ObservedAt).Error
		}

		columns := dataColumns(item)
		if row.ImageURL != item.ImageURL {
			columns["image_local_path"] = ""
		}
		return tx.Model(&row).Updates(columns).Error
	})
}

func (s *Store) markUnavailable(ctx context.Context, sku string, at time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Product{}).
			Where("sku = ? AND in_stock = ?", sku, true).
			Updates(map[string]interface{}{"in_stock": false, "last_updated_at": at})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		// already unavailable is a no-op, a missing row is not
		var count int64
		if err := tx.Model(&model.Product{}).Where("sku = ?", sku).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return nil
	})
}
