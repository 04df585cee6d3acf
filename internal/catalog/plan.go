package catalog

// Update pairs the prior persisted state of a SKU with its newly observed item
type Update struct {
	Old Product `json:"old"`
	New Item    `json:"new"`
}

// Plan is the set of mutations computed for one run.
// A SKU appears in at most one of the three collections.
type Plan struct {
	Insert          []Item   `json:"insert"`
	Update          []Update `json:"update"`
	MarkUnavailable []string `json:"mark_unavailable"`
}

// Size returns the total number of mutations in the plan
func (p Plan) Size() int {
	return len(p.Insert) + len(p.Update) + len(p.MarkUnavailable)
}

// Duplicate records an item discarded because a later record carried the same SKU
type Duplicate struct {
	SKU     string `json:"sku"`
	Dropped string `json:"dropped_name"`
	Kept    string `json:"kept_name"`
}

// Result is the per-SKU result of applying a plan mutation
type Result string

const (
	Inserted          Result = "inserted"
	Updated           Result = "updated"
	MarkedUnavailable Result = "marked_unavailable"
	Failed            Result = "failed"
)

// Outcome is what the persistence gateway reports for one mutation
type Outcome struct {
	SKU    string `json:"sku"`
	Result Result `json:"result"`
	Reason string `json:"reason,omitempty"`
}

// Succeeded reports whether the mutation was applied
func (o Outcome) Succeeded() bool {
	return o.Result != Failed
}
