package coordinator

import (
	"context"
	"errors"
	"time"

	"github.com/GoldenInvestBI/FUSION-BEEF/pkg/logger"

	"go.uber.org/zap"
)

// Schedule runs a sync every interval until ctx is cancelled. A tick that
// lands while a run is still active is skipped.
func (c *Coordinator) Schedule(ctx context.Context, interval time.Duration) {
	log := logger.FromCtx(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("Scheduled catalog sync enabled", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			summary, err := c.Run(ctx)
			switch {
			case errors.Is(err, ErrRunInProgress):
				log.Info("Skipping scheduled sync, previous run still active")
			case err != nil:
				log.Error("Scheduled sync failed", zap.String("run_id", summary.RunID), zap.Error(err))
			}
		}
	}
}
