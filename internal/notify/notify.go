// Package notify implements the transports that deliver run notifications.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/events"
	"github.com/GoldenInvestBI/FUSION-BEEF/pkg/config"

	"go.uber.org/zap"
)

// Multi delivers every batch to all of its notifiers
type Multi []events.Notifier

// Notify calls each notifier and joins their errors
func (m Multi) Notify(ctx context.Context, payloads []events.Payload) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, payloads); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// New builds the notifier for the configured transports. Unknown transports
// are an error; transports missing their settings are skipped with a warning.
func New(cfg config.NotifyConfig, log *zap.Logger) (events.Notifier, error) {
	var multi Multi
	for _, transport := range cfg.Transports {
		switch transport {
		case "log":
			multi = append(multi, NewLog(log))
		case "http":
			n, err := NewHTTP(cfg.HTTP)
			if err != nil {
				log.Warn("HTTP notifications disabled", zap.Error(err))
				continue
			}
			multi = append(multi, n)
		case "smtp":
			n, err := NewSMTP(cfg.SMTP)
			if err != nil {
				log.Warn("Email notifications disabled", zap.Error(err))
				continue
			}
			multi = append(multi, n)
		default:
			return nil, fmt.Errorf("unknown notification transport %q", transport)
		}
	}
	if len(multi) == 0 {
		log.Warn("No notification transport configured, falling back to log")
		multi = append(multi, NewLog(log))
	}
	return multi, nil
}
