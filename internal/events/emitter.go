package events

import (
	"context"
	"time"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/catalog"
)

// Emitter turns run summaries into notification batches
type Emitter struct {
	cfg      Config
	notifier Notifier
	now      func() time.Time
}

// NewEmitter creates an emitter delivering through notifier
func NewEmitter(cfg Config, notifier Notifier) *Emitter {
	return &Emitter{cfg: cfg, notifier: notifier, now: time.Now}
}

// Config returns the emitter thresholds
func (e *Emitter) Config() Config {
	return e.cfg
}

// Payloads builds the notification batch for a finished run: one run
// outcome payload, plus stock, price and low stock payloads when relevant.
func (e *Emitter) Payloads(summary catalog.Summary) []Payload {
	at := e.now()
	if summary.Status == catalog.StatusFailed {
		return []Payload{failurePayload(summary, at)}
	}

	payloads := []Payload{successPayload(summary, at)}
	if len(summary.NewlyUnavailable) > 0 || len(summary.NewlyAvailable) > 0 {
		payloads = append(payloads, stockPayload(summary, at))
	}
	if len(summary.PriceChanges) > 0 {
		payloads = append(payloads, pricePayload(summary, at))
	}
	if summary.LowStock {
		payloads = append(payloads, lowStockPayload(summary, e.cfg.LowStockThreshold, at))
	}
	return payloads
}

// Emit delivers the batch for summary in a single notifier call
func (e *Emitter) Emit(ctx context.Context, summary catalog.Summary) error {
	return e.notifier.Notify(ctx, e.Payloads(summary))
}
