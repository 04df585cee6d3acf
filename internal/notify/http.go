package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/catalog"
	"github.com/GoldenInvestBI/FUSION-BEEF/internal/events"
	"github.com/GoldenInvestBI/FUSION-BEEF/pkg/config"
	"github.com/GoldenInvestBI/FUSION-BEEF/prometheus"

	"github.com/go-resty/resty/v2"
)

// message is the body accepted by the notification API
type message struct {
	AppID   string `json:"appId"`
	UserID  string `json:"userId"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// HTTP posts each payload to the owner notification API with a bearer token
type HTTP struct {
	client *resty.Client
	cfg    config.HTTPNotifyConfig
}

// NewHTTP creates an HTTP notifier. Every endpoint setting is required.
func NewHTTP(cfg config.HTTPNotifyConfig) (*HTTP, error) {
	if cfg.URL == "" || cfg.APIKey == "" || cfg.OwnerID == "" || cfg.AppID == "" {
		return nil, errors.New("notification API url, key, owner id and app id are required")
	}
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")
	return &HTTP{client: client, cfg: cfg}, nil
}

// Notify posts the payloads one by one. A failed post does not stop the rest.
func (h *HTTP) Notify(ctx context.Context, payloads []events.Payload) error {
	var errs []error
	for _, p := range payloads {
		err := h.post(ctx, p)
		prometheus.RecordNotification("http", err)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Kind, err))
		}
	}
	if len(errs) > 0 {
		return &catalog.NotificationError{Transport: "http", Err: errors.Join(errs...)}
	}
	return nil
}

func (h *HTTP) post(ctx context.Context, p events.Payload) error {
	res, err := h.client.R().
		SetContext(ctx).
		SetBody(message{
			AppID:   h.cfg.AppID,
			UserID:  h.cfg.OwnerID,
			Title:   p.Title,
			Content: p.Body,
		}).
		Post(h.cfg.URL)
	if err != nil {
		return err
	}
	if res.IsError() {
		return fmt.Errorf("unexpected status %d", res.StatusCode())
	}
	return nil
}
