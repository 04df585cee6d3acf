package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/catalog"

	"github.com/PuerkitoBio/goquery"
)

// HTMLDir extracts records from saved category listing pages, one
// "<category>.html" file per category. A page may name its category with a
// data-category attribute on <body>.
type HTMLDir struct {
	Dir        string
	Categories []string
}

// Collect parses every page in the directory
func (s HTMLDir) Collect(ctx context.Context) (catalog.Batch, error) {
	files, err := filepath.Glob(filepath.Join(s.Dir, "*.html"))
	if err != nil {
		return catalog.Batch{}, err
	}
	sort.Strings(files)

	var batch catalog.Batch
	var reported []string
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return catalog.Batch{}, err
		}
		category, records, err := parsePage(file)
		if err != nil {
			return catalog.Batch{}, err
		}
		if len(records) == 0 {
			reported = append(reported, category)
		}
		batch.Records = append(batch.Records, records...)
	}
	batch.EmptyCategories = mergeEmpty(reported, s.Categories, batch.Records)
	return batch, nil
}

func parsePage(file string) (string, []catalog.RawRecord, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse %s: %w", file, err)
	}

	category := strings.TrimSpace(doc.Find("body").AttrOr("data-category", ""))
	if category == "" {
		category = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}
	return category, extract(doc, category), nil
}

func extract(doc *goquery.Document, category string) []catalog.RawRecord {
	var records []catalog.RawRecord
	doc.Find(".product-item").Each(func(_ int, item *goquery.Selection) {
		link := item.Find("a.product-item-link").First()

		name := text(link)
		if name == "" {
			name = text(item.Find(".product-name").First())
		}

		sku := item.AttrOr("data-sku", "")
		if sku == "" {
			sku = strings.TrimPrefix(text(item.Find(".sku").First()), "SKU:")
		}

		var badges []string
		item.Find(".product-label, .stock-badge").Each(func(_ int, b *goquery.Selection) {
			if t := text(b); t != "" {
				badges = append(badges, t)
			}
		})

		img := item.Find("img.product-image").First()
		image := img.AttrOr("src", "")
		if image == "" {
			image = img.AttrOr("data-src", "")
		}

		records = append(records, catalog.RawRecord{
			Category:  category,
			SKU:       strings.TrimSpace(sku),
			Name:      name,
			PriceText: text(item.Find(".price").First()),
			BadgeText: strings.Join(badges, " "),
			ImageURL:  image,
			SourceURL: link.AttrOr("href", ""),
		})
	})
	return records
}

func text(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}
