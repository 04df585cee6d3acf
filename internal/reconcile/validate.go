package reconcile

import (
	"github.com/GoldenInvestBI/FUSION-BEEF/internal/catalog"
)

// Validate checks that no SKU occurs more than once across the plan.
// The returned error is a *catalog.InvariantViolation.
func Validate(plan catalog.Plan) error {
	seen := make(map[string][]string, plan.Size())
	var order []string

	add := func(sku, collection string) {
		if _, ok := seen[sku]; !ok {
			order = append(order, sku)
		}
		seen[sku] = append(seen[sku], collection)
	}
	for _, item := range plan.Insert {
		add(item.SKU, "insert")
	}
	for _, u := range plan.Update {
		if u.Old.SKU != u.New.SKU {
			return &catalog.InvariantViolation{SKU: u.New.SKU, Collections: []string{"update(" + u.Old.SKU + ")"}}
		}
		add(u.New.SKU, "update")
	}
	for _, sku := range plan.MarkUnavailable {
		add(sku, "mark_unavailable")
	}

	for _, sku := range order {
		if len(seen[sku]) > 1 {
			return &catalog.InvariantViolation{SKU: sku, Collections: seen[sku]}
		}
	}
	return nil
}
