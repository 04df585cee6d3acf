// Package assets downloads product images to local storage.
package assets

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/GoldenInvestBI/FUSION-BEEF/pkg/config"
	"github.com/GoldenInvestBI/FUSION-BEEF/prometheus"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

var allowedExt = map[string]bool{"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true}

// ErrNoImage is returned for an empty image URL
var ErrNoImage = errors.New("no image url")

// Fetcher downloads images at a bounded rate and stores them as <sku>.<ext>
type Fetcher struct {
	client  *resty.Client
	limiter *rate.Limiter
	dir     string
	prefix  string
}

// NewFetcher creates a fetcher from configuration
func NewFetcher(cfg config.AssetsConfig) *Fetcher {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	client := resty.New().SetTimeout(cfg.Timeout)
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}
	if cfg.Referer != "" {
		client.SetHeader("Referer", cfg.Referer)
	}

	return &Fetcher{
		client:  client,
		limiter: rate.NewLimiter(limit, burst),
		dir:     cfg.Dir,
		prefix:  strings.TrimSuffix(cfg.PublicPrefix, "/"),
	}
}

// Fetch downloads imageURL and returns the public path of the stored copy
func (f *Fetcher) Fetch(ctx context.Context, imageURL, sku string) (string, error) {
	if strings.TrimSpace(imageURL) == "" {
		return "", ErrNoImage
	}
	name, err := FileName(imageURL, sku)
	if err != nil {
		return "", err
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return "", err
	}

	res, err := f.client.R().SetContext(ctx).Get(imageURL)
	if err != nil {
		prometheus.RecordAssetDownload("error")
		return "", fmt.Errorf("download %s: %w", imageURL, err)
	}
	if res.IsError() {
		prometheus.RecordAssetDownload("error")
		return "", fmt.Errorf("download %s: status %d", imageURL, res.StatusCode())
	}

	if err := f.write(name, res.Body()); err != nil {
		prometheus.RecordAssetDownload("error")
		return "", err
	}
	prometheus.RecordAssetDownload("success")
	return f.prefix + "/" + name, nil
}

func (f *Fetcher) write(name string, data []byte) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}
	tmp, err := os.CreateTemp(f.dir, "."+name+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(f.dir, name))
}

// FileName derives "<sku>.<ext>" from the image URL, ignoring its query
// string. Extensions outside jpg, jpeg, png, gif and webp become jpg.
func FileName(imageURL, sku string) (string, error) {
	u, err := url.Parse(imageURL)
	if err != nil {
		return "", fmt.Errorf("invalid image url: %w", err)
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(u.Path), "."))
	if !allowedExt[ext] {
		ext = "jpg"
	}
	return safeName(sku) + "." + ext, nil
}

func safeName(sku string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, sku)
}
