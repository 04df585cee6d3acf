package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// RejectReason classifies why a raw record could not be normalized
type RejectReason string

const (
	MissingIdentity RejectReason = "missing_identity"
	MissingName     RejectReason = "missing_name"
	UnparsablePrice RejectReason = "unparsable_price"
	InvalidMarkup   RejectReason = "invalid_markup"
)

// ErrNoRecords is returned when a collection pass yields nothing at all
var ErrNoRecords = errors.New("no raw records obtained")

// ErrNoUsableRecords is returned when every raw record was rejected
var ErrNoUsableRecords = errors.New("no usable records after normalization")

// ErrAllMutationsFailed is returned when a non-empty plan could not be applied at all
var ErrAllMutationsFailed = errors.New("every mutation of the plan failed")

// ExtractionError is a per-record normalization failure. It never aborts a run.
type ExtractionError struct {
	Index  int
	SKU    string
	Reason RejectReason
	Detail string
}

func (e *ExtractionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("record %d (sku %q): %s", e.Index, e.SKU, e.Reason)
	}
	return fmt.Sprintf("record %d (sku %q): %s: %s", e.Index, e.SKU, e.Reason, e.Detail)
}

// Rejection converts the error into its summary form
func (e *ExtractionError) Rejection() Rejection {
	return Rejection{Index: e.Index, SKU: e.SKU, Reason: e.Reason, Detail: e.Detail}
}

// InvariantViolation signals a plan where a SKU landed in more than one collection
type InvariantViolation struct {
	SKU         string
	Collections []string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("reconciliation invariant violated: sku %q appears in %s",
		e.SKU, strings.Join(e.Collections, ", "))
}

// PersistenceError is a failure to apply one mutation
type PersistenceError struct {
	SKU string
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.SKU, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NotificationError wraps a delivery failure of a notifier
type NotificationError struct {
	Transport string
	Err       error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification via %s failed: %v", e.Transport, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}

// StageError marks the stage at which a run halted
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
