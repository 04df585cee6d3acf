package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/assets"
	"github.com/GoldenInvestBI/FUSION-BEEF/internal/coordinator"
	"github.com/GoldenInvestBI/FUSION-BEEF/internal/events"
	"github.com/GoldenInvestBI/FUSION-BEEF/internal/normalize"
	"github.com/GoldenInvestBI/FUSION-BEEF/internal/notify"
	"github.com/GoldenInvestBI/FUSION-BEEF/internal/source"
	"github.com/GoldenInvestBI/FUSION-BEEF/internal/store"
	"github.com/GoldenInvestBI/FUSION-BEEF/pkg/config"
	"github.com/GoldenInvestBI/FUSION-BEEF/pkg/database"
	"github.com/GoldenInvestBI/FUSION-BEEF/pkg/logger"
	"github.com/GoldenInvestBI/FUSION-BEEF/pkg/telemetry"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds the wired components shared by the commands
type app struct {
	cfg         *config.Config
	log         *zap.Logger
	db          *gorm.DB
	store       *store.Store
	coordinator *coordinator.Coordinator
	shutdown    func(context.Context) error
}

// newApp connects to the database. The coordinator is only built when
// withPipeline is set.
func newApp(ctx context.Context, cfg *config.Config, withPipeline bool) (*app, error) {
	log := logger.GetLogger()

	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, errors.Join(err, shutdown(ctx))
	}
	log.Info("Database connection established", zap.String("db_name", cfg.DB.DBName))

	a := &app{
		cfg:      cfg,
		log:      log,
		db:       db,
		store:    store.New(db, store.WithWorkers(cfg.Sync.Workers)),
		shutdown: shutdown,
	}
	if !withPipeline {
		return a, nil
	}

	a.coordinator, err = a.newCoordinator()
	if err != nil {
		return nil, errors.Join(err, a.close(ctx))
	}
	return a, nil
}

func (a *app) newCoordinator() (*coordinator.Coordinator, error) {
	cfg := a.cfg

	policy, err := config.LoadPolicy(cfg.Sync.PolicyFile)
	if err != nil {
		return nil, err
	}

	var src coordinator.Source
	switch cfg.Sync.SourceKind {
	case "html":
		src = source.HTMLDir{Dir: cfg.Sync.SourcePath, Categories: policy.Categories}
	default:
		src = source.JSONFile{Path: cfg.Sync.SourcePath, Categories: policy.Categories}
	}

	notifier, err := notify.New(cfg.Notify, a.log)
	if err != nil {
		return nil, err
	}
	emitter := events.NewEmitter(events.Config{
		MaterialThreshold:     cfg.Sync.MaterialThreshold,
		SignificanceThreshold: cfg.Sync.SignificanceThreshold,
		LowStockThreshold:     cfg.Sync.LowStockThreshold,
	}, notifier)

	opts := coordinator.Options{
		Policy:        normalize.NewPolicy(policy.InStockTokens, policy.OutOfStockTokens),
		DefaultMarkup: cfg.Sync.DefaultMarkup,
		Workers:       cfg.Sync.Workers,
	}
	if cfg.Assets.Enabled {
		opts.Assets = assets.NewFetcher(cfg.Assets)
		opts.AssetWorkers = cfg.Assets.Workers
	}

	a.log.Info("Catalog sync pipeline ready",
		zap.String("source_kind", cfg.Sync.SourceKind),
		zap.String("source_path", cfg.Sync.SourcePath),
		zap.String("notify", strings.Join(cfg.Notify.Transports, ",")),
		zap.Bool("assets", cfg.Assets.Enabled))
	return coordinator.New(src, a.store, emitter, opts), nil
}

func (a *app) close(ctx context.Context) error {
	var errs []error
	if sqlDB, err := a.db.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	}
	errs = append(errs, a.shutdown(ctx))
	return errors.Join(errs...)
}
