package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the terminal status of a run
type Status string

const (
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

// Stage is a step of the run state machine
type Stage string

const (
	StageCollecting  Stage = "collecting"
	StageNormalizing Stage = "normalizing"
	StageReconciling Stage = "reconciling"
	StagePersisting  Stage = "persisting"
	StageNotifying   Stage = "notifying"
	StageDone        Stage = "done"
	StageFailed      Stage = "failed"
)

// PriceChange describes a cost price movement of an updated SKU
type PriceChange struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	OldPrice     decimal.Decimal `json:"old_price"`
	NewPrice     decimal.Decimal `json:"new_price"`
	DeltaPercent decimal.Decimal `json:"delta_percent"`
}

// StockChange names a SKU whose availability flipped during the run
type StockChange struct {
	SKU  string `json:"sku"`
	Name string `json:"name"`
}

// Rejection is an extraction error as surfaced in the summary
type Rejection struct {
	Index  int          `json:"index"`
	SKU    string       `json:"sku,omitempty"`
	Reason RejectReason `json:"reason"`
	Detail string       `json:"detail,omitempty"`
}

// Summary is the externally visible result of one run. It is always produced,
// including for failed runs.
type Summary struct {
	RunID             string        `json:"run_id"`
	Status            Status        `json:"status"`
	Stage             Stage         `json:"stage"`
	HaltedAt          Stage         `json:"halted_at,omitempty"`
	Error             string        `json:"error,omitempty"`
	Found             int           `json:"found"`
	Usable            int           `json:"usable"`
	Added             int           `json:"added"`
	Updated           int           `json:"updated"`
	MarkedUnavailable int           `json:"marked_unavailable"`
	Failed            int           `json:"failed"`
	PriceChanges      []PriceChange `json:"price_changes"`
	NewlyUnavailable  []StockChange `json:"newly_unavailable"`
	NewlyAvailable    []StockChange `json:"newly_available"`
	InStockTotal      int           `json:"in_stock_total"`
	LowStock          bool          `json:"low_stock"`
	Rejections        []Rejection   `json:"rejections,omitempty"`
	Duplicates        []Duplicate   `json:"duplicates,omitempty"`
	Failures          []Outcome     `json:"failures,omitempty"`
	EmptyCategories   []string      `json:"empty_categories,omitempty"`
	AssetFailures     int           `json:"asset_failures"`
	NotifyError       string        `json:"notify_error,omitempty"`
	StartedAt         time.Time     `json:"started_at"`
	CompletedAt       time.Time     `json:"completed_at"`
}

// Duration returns how long the run took
func (s Summary) Duration() time.Duration {
	if s.CompletedAt.IsZero() {
		return 0
	}
	return s.CompletedAt.Sub(s.StartedAt)
}
