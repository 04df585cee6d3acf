// Package source adapts scraper output into raw record batches.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/catalog"
)

// JSONFile reads a batch exported by the scraper as JSON. The file holds
// either an array of records or an object with "records" and
// "empty_categories".
type JSONFile struct {
	Path       string
	Categories []string
}

type jsonBatch struct {
	Records         []catalog.RawRecord `json:"records"`
	EmptyCategories []string            `json:"empty_categories"`
}

// Collect reads the file
func (s JSONFile) Collect(ctx context.Context) (catalog.Batch, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Batch{}, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return catalog.Batch{}, fmt.Errorf("failed to read records file: %w", err)
	}

	var batch jsonBatch
	if len(data) > 0 && data[0] == '[' {
		err = json.Unmarshal(data, &batch.Records)
	} else {
		err = json.Unmarshal(data, &batch)
	}
	if err != nil {
		return catalog.Batch{}, fmt.Errorf("failed to decode records file %s: %w", s.Path, err)
	}

	return catalog.Batch{
		Records:         batch.Records,
		EmptyCategories: mergeEmpty(batch.EmptyCategories, s.Categories, batch.Records),
	}, nil
}

// mergeEmpty adds the expected categories that yielded no records
func mergeEmpty(reported, expected []string, records []catalog.RawRecord) []string {
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		seen[r.Category] = true
	}
	empty := make(map[string]bool, len(reported))
	for _, c := range reported {
		empty[c] = true
	}
	for _, c := range expected {
		if !seen[c] {
			empty[c] = true
		}
	}

	out := make([]string, 0, len(empty))
	for c := range empty {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
