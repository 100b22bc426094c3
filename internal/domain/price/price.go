package price

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// deleteConfirmPhrase must be typed (any case) before a price record delete
// is allowed to run.
const deleteConfirmPhrase = "confirm"

// Sentinel errors for price record operations.
var (
	// ErrNoRecordID is returned when Save is called without an existing
	// record id. Creating a lone history record is not supported by the
	// backing service; new prices enter through the batch submit.
	ErrNoRecordID = errors.New("price record id is required")
	// ErrInvalidPrice is returned when a price is not a positive decimal.
	ErrInvalidPrice = errors.New("price must be a positive number")
	// ErrConfirmationMismatch is returned when the typed deletion
	// confirmation is not the word "confirm".
	ErrConfirmationMismatch = errors.New(`type "confirm" to delete a price record`)
)

// Record is a dated price for a (market, product) pair, owned by the remote
// service.
type Record struct {
	ID    string
	Price decimal.Decimal
	Date  time.Time
}

// PendingEdit is an unsaved, in-memory price value awaiting batch
// submission. Pending edits are keyed by product id; there is never more
// than one per product.
type PendingEdit struct {
	ProductID string
	Price     decimal.Decimal
}

// Batch is one submit cycle's worth of pending edits for a market and date.
type Batch struct {
	MarketID string
	Date     time.Time
	Edits    []PendingEdit
}

// History defines price record operations against the backing service.
type History interface {
	List(ctx context.Context, marketID, productID string) ([]Record, error)
	Update(ctx context.Context, recordID string, value decimal.Decimal, date time.Time) error
	Delete(ctx context.Context, recordID string) error
}

// Submitter posts one batch of pending edits to the backing service.
type Submitter interface {
	Submit(ctx context.Context, b Batch) error
}

// HistoryService wraps History with the admin-side validation gates.
type HistoryService struct {
	history History
}

// NewHistoryService creates a HistoryService backed by the given History.
func NewHistoryService(history History) *HistoryService {
	return &HistoryService{history: history}
}

// List returns the price history for a (market, product) pair.
func (s *HistoryService) List(ctx context.Context, marketID, productID string) ([]Record, error) {
	return s.history.List(ctx, marketID, productID)
}

// Save updates an existing price record in place. A record id is required:
// the backing service has no endpoint for creating a single history record,
// so new prices must go through the batch submit instead.
func (s *HistoryService) Save(ctx context.Context, recordID string, value decimal.Decimal, date time.Time) error {
	if recordID == "" {
		return ErrNoRecordID
	}
	if !value.IsPositive() {
		return ErrInvalidPrice
	}
	return s.history.Update(ctx, recordID, value, date)
}

// Delete removes a price record after verifying the typed confirmation.
// The confirmation must equal "confirm", compared case-insensitively;
// nothing is sent to the service until it matches.
func (s *HistoryService) Delete(ctx context.Context, recordID, confirmation string) error {
	if !strings.EqualFold(confirmation, deleteConfirmPhrase) {
		return ErrConfirmationMismatch
	}
	return s.history.Delete(ctx, recordID)
}
