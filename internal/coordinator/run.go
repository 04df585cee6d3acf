package coordinator

import (
	"context"
	"fmt"
	"time"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/catalog"
	"github.com/GoldenInvestBI/FUSION-BEEF/internal/events"
	"github.com/GoldenInvestBI/FUSION-BEEF/internal/normalize"
	"github.com/GoldenInvestBI/FUSION-BEEF/internal/reconcile"
	"github.com/GoldenInvestBI/FUSION-BEEF/prometheus"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// run holds the state of one pass through the state machine
type run struct {
	*Coordinator
	log     *zap.Logger
	summary catalog.Summary

	batch    catalog.Batch
	items    []catalog.Item
	snapshot []catalog.Product
	plan     catalog.Plan
	outcomes []catalog.Outcome
}

// execute walks Collecting -> Normalizing -> Reconciling -> Persisting -> Notifying -> Done.
// Any stage may halt the run, which then notifies the failure and ends in Failed.
func (r *run) execute(ctx context.Context) error {
	stages := []struct {
		stage catalog.Stage
		fn    func(context.Context) error
	}{
		{catalog.StageCollecting, r.collect},
		{catalog.StageNormalizing, r.normalize},
		{catalog.StageReconciling, r.reconcile},
		{catalog.StagePersisting, r.persist},
	}
	for _, s := range stages {
		if err := r.step(ctx, s.stage, s.fn); err != nil {
			return r.fail(ctx, s.stage, err)
		}
	}

	r.summary.Status = catalog.StatusSuccess
	if len(r.summary.Rejections) > 0 || len(r.summary.Duplicates) > 0 || r.summary.Failed > 0 {
		r.summary.Status = catalog.StatusPartial
	}
	_ = r.step(ctx, catalog.StageNotifying, r.notify)
	r.summary.Stage = catalog.StageDone
	return nil
}

func (r *run) step(ctx context.Context, stage catalog.Stage, fn func(context.Context) error) error {
	r.summary.Stage = stage
	r.log.Debug("Entering stage", zap.String("stage", string(stage)))

	ctx, span := tracer.Start(ctx, "stage."+string(stage))
	defer span.End()
	defer prometheus.TrackStage(string(stage))(time.Now())

	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (r *run) fail(ctx context.Context, stage catalog.Stage, err error) error {
	stageErr := &catalog.StageError{Stage: stage, Err: err}
	r.summary.Status = catalog.StatusFailed
	r.summary.HaltedAt = stage
	r.summary.Error = err.Error()
	r.log.Error("Catalog sync failed", zap.String("stage", string(stage)), zap.Error(err))

	_ = r.step(ctx, catalog.StageNotifying, r.notify)
	r.summary.Stage = catalog.StageFailed
	return stageErr
}

func (r *run) collect(ctx context.Context) error {
	batch, err := r.source.Collect(ctx)
	if err != nil {
		return fmt.Errorf("collect raw records: %w", err)
	}
	r.batch = batch
	r.summary.Found = len(batch.Records)
	r.summary.EmptyCategories = batch.EmptyCategories

	for _, category := range batch.EmptyCategories {
		r.log.Warn("Category yielded no records", zap.String("category", category))
	}
	if len(batch.Records) == 0 {
		return catalog.ErrNoRecords
	}
	r.log.Info("Raw records collected", zap.Int("found", r.summary.Found))
	return nil
}

func (r *run) normalize(ctx context.Context) error {
	markup, err := r.gateway.Markup(ctx, r.opts.DefaultMarkup)
	if err != nil {
		r.log.Warn("Falling back to default markup", zap.Error(err))
		markup = r.opts.DefaultMarkup
	}

	n := normalize.New(r.opts.Policy, markup, r.summary.StartedAt)
	res, err := n.All(ctx, r.batch.Records, r.opts.Workers)
	if err != nil {
		return err
	}

	for _, rej := range res.Rejections {
		r.summary.Rejections = append(r.summary.Rejections, rej.Rejection())
		prometheus.RecordRejection(string(rej.Reason))
		r.log.Warn("Record rejected", zap.Int("index", rej.Index), zap.String("sku", rej.SKU),
			zap.String("reason", string(rej.Reason)), zap.String("detail", rej.Detail))
	}
	r.items = res.Items
	r.summary.Usable = len(res.Items)
	if len(res.Items) == 0 {
		return catalog.ErrNoUsableRecords
	}
	r.log.Info("Records normalized",
		zap.Int("usable", len(res.Items)),
		zap.Int("rejected", len(res.Rejections)),
		zap.String("markup", markup.String()))
	return nil
}

func (r *run) reconcile(ctx context.Context) error {
	snapshot, err := r.gateway.LoadSnapshot(ctx)
	if err != nil {
		return err
	}
	r.snapshot = snapshot

	plan, duplicates := reconcile.Reconcile(r.items, snapshot)
	for _, d := range duplicates {
		r.log.Warn("Duplicate SKU in run, keeping later record",
			zap.String("sku", d.SKU), zap.String("dropped", d.Dropped), zap.String("kept", d.Kept))
	}
	r.summary.Duplicates = duplicates

	if err := reconcile.Validate(plan); err != nil {
		return err
	}
	r.plan = plan
	r.log.Info("Plan computed",
		zap.Int("insert", len(plan.Insert)),
		zap.Int("update", len(plan.Update)),
		zap.Int("mark_unavailable", len(plan.MarkUnavailable)))
	return nil
}

func (r *run) persist(ctx context.Context) error {
	r.outcomes = r.gateway.ApplyPlan(ctx, r.plan)

	for _, o := range r.outcomes {
		switch o.Result {
		case catalog.Inserted:
			r.summary.Added++
		case catalog.Updated:
			r.summary.Updated++
		case catalog.MarkedUnavailable:
			r.summary.MarkedUnavailable++
		case catalog.Failed:
			r.summary.Failed++
			r.summary.Failures = append(r.summary.Failures, o)
		}
	}
	if r.plan.Size() > 0 && r.summary.Failed == len(r.outcomes) {
		return fmt.Errorf("%w: %d of %d", catalog.ErrAllMutationsFailed, r.summary.Failed, r.plan.Size())
	}

	d := events.Derive(r.emitter.Config(), r.plan, r.outcomes, r.snapshot)
	r.summary.PriceChanges = d.PriceChanges
	r.summary.NewlyUnavailable = d.NewlyUnavailable
	r.summary.NewlyAvailable = d.NewlyAvailable
	r.summary.InStockTotal = d.InStockTotal
	r.summary.LowStock = d.LowStock

	prometheus.RecordPriceChanges("significant", d.SignificantChanges)
	prometheus.RecordPriceChanges("material", len(d.PriceChanges))
	prometheus.UpdateProductsInStock(d.InStockTotal)

	r.summary.AssetFailures = r.localizeImages(ctx)
	return nil
}

// localizeImages downloads images of applied inserts and of updates whose
// image changed or was never stored. It returns the number of failures.
func (r *run) localizeImages(ctx context.Context) int {
	if r.opts.Assets == nil {
		return 0
	}

	applied := make(map[string]bool, len(r.outcomes))
	for _, o := range r.outcomes {
		applied[o.SKU] = o.Succeeded()
	}
	var wanted []catalog.Item
	for _, item := range r.plan.Insert {
		if applied[item.SKU] && item.ImageURL != "" {
			wanted = append(wanted, item)
		}
	}
	for _, u := range r.plan.Update {
		if applied[u.New.SKU] && u.New.ImageURL != "" &&
			(u.Old.ImageURL != u.New.ImageURL || u.Old.ImageLocalPath == "") {
			wanted = append(wanted, u.New)
		}
	}
	if len(wanted) == 0 {
		return 0
	}

	ctx, span := tracer.Start(ctx, "assets.localize")
	defer span.End()
	span.SetAttributes(attribute.Int("assets.wanted", len(wanted)))

	failed := make([]bool, len(wanted))
	var g errgroup.Group
	g.SetLimit(r.opts.AssetWorkers)
	for i, item := range wanted {
		g.Go(func() error {
			path, err := r.opts.Assets.Fetch(ctx, item.ImageURL, item.SKU)
			if err == nil {
				err = r.gateway.SetImagePath(ctx, item.SKU, path)
			}
			if err != nil {
				failed[i] = true
				r.log.Warn("Image not stored", zap.String("sku", item.SKU), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	count := 0
	for _, f := range failed {
		if f {
			count++
		}
	}
	return count
}

func (r *run) notify(ctx context.Context) error {
	err := r.emitter.Emit(ctx, r.summary)
	if err != nil {
		r.summary.NotifyError = err.Error()
		r.log.Error("Notification delivery failed", zap.Error(err))
	}
	return err
}

// finish stamps the summary and closes the scrape log
func (r *run) finish(ctx context.Context) {
	r.summary.CompletedAt = r.now()
	prometheus.RecordRun(string(r.summary.Status), r.summary.CompletedAt)

	if err := r.gateway.FinishRun(context.WithoutCancel(ctx), r.summary); err != nil {
		r.log.Warn("Failed to complete scrape log", zap.Error(err))
	}

	r.log.Info("Catalog sync finished",
		zap.String("status", string(r.summary.Status)),
		zap.Int("found", r.summary.Found),
		zap.Int("added", r.summary.Added),
		zap.Int("updated", r.summary.Updated),
		zap.Int("marked_unavailable", r.summary.MarkedUnavailable),
		zap.Int("failed", r.summary.Failed),
		zap.Int("price_changes", len(r.summary.PriceChanges)),
		zap.Duration("duration", r.summary.Duration()))
}
