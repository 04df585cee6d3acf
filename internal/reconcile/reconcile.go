// Package reconcile diffs the items of one run against the persisted catalog.
//
// Reconcile is a pure function of its two inputs. It must be given the
// complete item set of a run: any SKU missing from items is considered
// unseen and, if it was in stock, is marked unavailable.
package reconcile

import (
	"sort"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/catalog"
)

// Reconcile computes the plan for items against snapshot. Items sharing a SKU
// are deduplicated, the later occurrence winning; discarded ones are returned
// as duplicates. Every collection of the plan is sorted by SKU.
func Reconcile(items []catalog.Item, snapshot []catalog.Product) (catalog.Plan, []catalog.Duplicate) {
	latest, duplicates := dedupe(items)

	prior := make(map[string]catalog.Product, len(snapshot))
	for _, p := range snapshot {
		prior[p.SKU] = p
	}

	var plan catalog.Plan
	for _, sku := range sortedKeys(latest) {
		item := latest[sku]
		if old, ok := prior[sku]; ok {
			plan.Update = append(plan.Update, catalog.Update{Old: old, New: item})
			continue
		}
		plan.Insert = append(plan.Insert, item)
	}

	for _, sku := range sortedKeys(prior) {
		if _, seen := latest[sku]; seen {
			continue
		}
		// already unavailable products are not re-emitted
		if prior[sku].InStock {
			plan.MarkUnavailable = append(plan.MarkUnavailable, sku)
		}
	}

	return plan, duplicates
}

func dedupe(items []catalog.Item) (map[string]catalog.Item, []catalog.Duplicate) {
	latest := make(map[string]catalog.Item, len(items))
	var duplicates []catalog.Duplicate
	for _, item := range items {
		if earlier, ok := latest[item.SKU]; ok {
			duplicates = append(duplicates, catalog.Duplicate{
				SKU:     item.SKU,
				Dropped: earlier.Name,
				Kept:    item.Name,
			})
		}
		latest[item.SKU] = item
	}
	return latest, duplicates
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
