// Package coordinator sequences one catalog sync run:
// collecting, normalizing, reconciling, persisting and notifying.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/catalog"
	"github.com/GoldenInvestBI/FUSION-BEEF/internal/events"
	"github.com/GoldenInvestBI/FUSION-BEEF/internal/normalize"
	"github.com/GoldenInvestBI/FUSION-BEEF/internal/store"
	"github.com/GoldenInvestBI/FUSION-BEEF/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/GoldenInvestBI/FUSION-BEEF/internal/coordinator")

// ErrRunInProgress is returned when a run is requested while another is active
var ErrRunInProgress = errors.New("a catalog sync is already running")

// Source yields the raw records of one run
type Source interface {
	Collect(ctx context.Context) (catalog.Batch, error)
}

// Gateway is the persistence the coordinator needs
type Gateway interface {
	TryLock(ctx context.Context) (release func(), err error)
	LoadSnapshot(ctx context.Context) ([]catalog.Product, error)
	ApplyPlan(ctx context.Context, plan catalog.Plan) []catalog.Outcome
	Markup(ctx context.Context, fallback decimal.Decimal) (decimal.Decimal, error)
	StartRun(ctx context.Context, runID string, startedAt time.Time) error
	FinishRun(ctx context.Context, summary catalog.Summary) error
	SetImagePath(ctx context.Context, sku, path string) error
}

// AssetFetcher stores a local copy of a product image
type AssetFetcher interface {
	Fetch(ctx context.Context, imageURL, sku string) (string, error)
}

// Options tunes a Coordinator
type Options struct {
	Policy        normalize.Policy
	DefaultMarkup decimal.Decimal
	Workers       int
	// Assets is optional; without it image references are kept remote
	Assets       AssetFetcher
	AssetWorkers int
}

// Coordinator runs catalog syncs, at most one at a time
type Coordinator struct {
	source  Source
	gateway Gateway
	emitter *events.Emitter
	opts    Options

	active sync.Mutex
	now    func() time.Time
	newID  func() string
}

// New creates a coordinator
func New(source Source, gateway Gateway, emitter *events.Emitter, opts Options) *Coordinator {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.AssetWorkers < 1 {
		opts.AssetWorkers = 1
	}
	return &Coordinator{
		source:  source,
		gateway: gateway,
		emitter: emitter,
		opts:    opts,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() string { return uuid.New().String() },
	}
}

// Run executes one sync pass and returns its summary. The summary is always
// populated; for failed runs the error is a *catalog.StageError naming the
// stage that halted the run. Only lock contention (ErrRunInProgress or
// store.ErrLocked) returns an empty summary.
func (c *Coordinator) Run(ctx context.Context) (catalog.Summary, error) {
	if !c.active.TryLock() {
		return catalog.Summary{}, ErrRunInProgress
	}
	defer c.active.Unlock()

	release, lockErr := c.gateway.TryLock(ctx)
	if errors.Is(lockErr, store.ErrLocked) {
		return catalog.Summary{}, lockErr
	}
	if lockErr == nil {
		defer release()
	}

	r := &run{
		Coordinator: c,
		log:         logger.FromCtx(ctx),
		summary: catalog.Summary{
			RunID:     c.newID(),
			Status:    catalog.StatusRunning,
			StartedAt: c.now(),
		},
	}
	r.log = r.log.With(zap.String("run_id", r.summary.RunID))
	ctx = logger.WithLogger(ctx, r.log)

	ctx, span := tracer.Start(ctx, "catalog.sync", trace.WithAttributes(attribute.String("run.id", r.summary.RunID)))
	defer span.End()

	if err := c.gateway.StartRun(ctx, r.summary.RunID, r.summary.StartedAt); err != nil {
		r.log.Warn("Failed to open scrape log", zap.Error(err))
	}
	r.log.Info("Catalog sync started")

	var runErr error
	if lockErr != nil {
		runErr = r.fail(ctx, catalog.StageCollecting, fmt.Errorf("acquire run lock: %w", lockErr))
	} else {
		runErr = r.execute(ctx)
	}
	r.finish(ctx)
	span.SetAttributes(attribute.String("run.status", string(r.summary.Status)))
	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, runErr.Error())
	}

	return r.summary, runErr
}
