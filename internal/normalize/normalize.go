// Package normalize turns raw scraped records into canonical catalog items.
package normalize

import (
	"strings"
	"time"
	"unicode"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/catalog"
	"github.com/GoldenInvestBI/FUSION-BEEF/internal/pricing"
	"github.com/shopspring/decimal"
)

// Normalizer converts raw records observed in one run
type Normalizer struct {
	policy     Policy
	markup     decimal.Decimal
	observedAt time.Time
}

// New creates a normalizer that prices items with markup and stamps them with observedAt
func New(policy Policy, markup decimal.Decimal, observedAt time.Time) *Normalizer {
	return &Normalizer{policy: policy, markup: markup, observedAt: observedAt}
}

// Normalize converts the raw record at position index. A non-nil error is
// always a *catalog.ExtractionError.
func (n *Normalizer) Normalize(index int, raw catalog.RawRecord) (catalog.Item, error) {
	sku := strings.TrimSpace(raw.SKU)
	if sku == "" {
		return catalog.Item{}, &catalog.ExtractionError{Index: index, Reason: catalog.MissingIdentity}
	}

	name := collapseSpaces(raw.Name)
	if name == "" {
		return catalog.Item{}, &catalog.ExtractionError{Index: index, SKU: sku, Reason: catalog.MissingName}
	}

	cost, err := ParsePrice(raw.PriceText)
	if err != nil {
		return catalog.Item{}, &catalog.ExtractionError{
			Index: index, SKU: sku, Reason: catalog.UnparsablePrice, Detail: err.Error(),
		}
	}

	if err := pricing.Validate(cost, n.markup); err != nil {
		return catalog.Item{}, &catalog.ExtractionError{
			Index: index, SKU: sku, Reason: catalog.InvalidMarkup, Detail: n.markup.String(),
		}
	}

	return catalog.Item{
		SKU:           sku,
		Name:          name,
		Category:      collapseSpaces(raw.Category),
		CostPrice:     cost,
		ResalePrice:   pricing.ResalePrice(cost, n.markup),
		MarkupPercent: n.markup,
		Availability:  n.policy.Availability(raw.BadgeText),
		ImageURL:      strings.TrimSpace(raw.ImageURL),
		SourceURL:     strings.TrimSpace(raw.SourceURL),
		ObservedAt:    n.observedAt,
	}, nil
}

func collapseSpaces(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
