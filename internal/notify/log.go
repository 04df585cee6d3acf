package notify

import (
	"context"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/events"
	"github.com/GoldenInvestBI/FUSION-BEEF/prometheus"

	"go.uber.org/zap"
)

// Log writes payloads to the structured log
type Log struct {
	log *zap.Logger
}

// NewLog creates a log notifier
func NewLog(log *zap.Logger) *Log {
	return &Log{log: log}
}

// Notify logs every payload of the batch
func (l *Log) Notify(_ context.Context, payloads []events.Payload) error {
	for _, p := range payloads {
		l.log.Info("Notification",
			zap.String("kind", string(p.Kind)),
			zap.String("title", p.Title),
			zap.Any("data", p.Data))
		prometheus.RecordNotification("log", nil)
	}
	return nil
}
