// Package ledger holds the in-memory set of pending price edits for one
// market and date, and drives the confirm-then-submit cycle against the
// remote service.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Unknow2778/farm-admin/internal/domain/price"
	"github.com/Unknow2778/farm-admin/internal/notify"
)

// State is the ledger's position in the edit/submit cycle.
type State uint8

const (
	// StateIdle means no pending edits exist.
	StateIdle State = iota
	// StateEditing means at least one pending edit exists.
	StateEditing
	// StateConfirmPending means a submit was requested and awaits explicit
	// confirmation.
	StateConfirmPending
	// StateSubmitting means the batch request is in flight. Further submit
	// requests are ignored until it completes.
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEditing:
		return "editing"
	case StateConfirmPending:
		return "confirm-pending"
	case StateSubmitting:
		return "submitting"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Sentinel errors for ledger operations.
var (
	// ErrInvalidPrice is returned when a raw price value does not parse to a
	// positive decimal.
	ErrInvalidPrice = errors.New("price must be a positive number")
	// ErrNothingPending is returned when a submit is requested with no
	// pending edits.
	ErrNothingPending = errors.New("no pending price edits to submit")
)

// Ledger accumulates pending price edits keyed by product id. Manual edits
// and sheet imports feed the same collection; nothing persists until the
// batch is confirmed and the service accepts it.
type Ledger struct {
	marketID  string
	date      time.Time
	submitter price.Submitter
	notifier  notify.Notifier
	onRefresh func(context.Context)
	lg        *zap.Logger

	mu      sync.Mutex
	state   State
	pending map[string]decimal.Decimal
}

// Option customises a Ledger.
type Option func(*Ledger)

// WithNotifier sets the sink for user-facing notices.
func WithNotifier(n notify.Notifier) Option {
	return func(l *Ledger) { l.notifier = n }
}

// WithLogger sets the diagnostic logger.
func WithLogger(lg *zap.Logger) Option {
	return func(l *Ledger) { l.lg = lg }
}

// WithRefresh sets a hook that runs after every successful submit, once the
// service has become the source of truth for the new prices.
func WithRefresh(fn func(context.Context)) Option {
	return func(l *Ledger) { l.onRefresh = fn }
}

// New creates a Ledger for one market and date.
func New(marketID string, date time.Time, submitter price.Submitter, opts ...Option) *Ledger {
	l := &Ledger{
		marketID:  marketID,
		date:      date,
		submitter: submitter,
		notifier:  notify.Discard{},
		lg:        zap.NewNop(),
		pending:   make(map[string]decimal.Decimal),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// State returns the ledger's current state.
func (l *Ledger) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Len returns the number of pending edits.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Pending returns a copy of the pending edits.
func (l *Ledger) Pending() []price.PendingEdit {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// PendingFor returns the pending price for a product, if any.
func (l *Ledger) PendingFor(productID string) (decimal.Decimal, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.pending[productID]
	return v, ok
}

// SetPrice upserts the pending edit for a product. An empty raw value
// removes any existing edit for the product; a value that does not parse to
// a positive decimal is rejected with a notice and leaves the collection
// unchanged.
func (l *Ledger) SetPrice(productID, raw string) error {
	raw = strings.TrimSpace(raw)

	l.mu.Lock()
	defer l.mu.Unlock()

	if raw == "" {
		delete(l.pending, productID)
		if len(l.pending) == 0 && l.state == StateEditing {
			l.state = StateIdle
		}
		return nil
	}

	v, err := decimal.NewFromString(raw)
	if err != nil || !v.IsPositive() {
		l.notifier.Error("Invalid price", fmt.Sprintf("%q is not a positive number", raw))
		return ErrInvalidPrice
	}

	l.pending[productID] = v
	if l.state == StateIdle {
		l.state = StateEditing
	}
	return nil
}

// Replace swaps the whole pending collection for the given edits, dropping
// whatever was pending before. Edits without a positive price are ignored.
// It returns the size of the resulting collection.
func (l *Ledger) Replace(edits []price.PendingEdit) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pending = make(map[string]decimal.Decimal, len(edits))
	for _, e := range edits {
		if e.ProductID == "" || !e.Price.IsPositive() {
			continue
		}
		l.pending[e.ProductID] = e.Price
	}

	if l.state != StateSubmitting {
		if len(l.pending) == 0 {
			l.state = StateIdle
		} else {
			l.state = StateEditing
		}
	}
	return len(l.pending)
}

// RequestSubmit moves the ledger to the confirmation step. It fails with a
// notice when nothing is pending.
func (l *Ledger) RequestSubmit() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == StateSubmitting {
		return nil
	}
	if len(l.pending) == 0 {
		l.notifier.Error("Nothing to submit", "enter at least one price first")
		return ErrNothingPending
	}
	l.state = StateConfirmPending
	return nil
}

// CancelSubmit abandons the confirmation step and returns to editing.
func (l *Ledger) CancelSubmit() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == StateConfirmPending {
		l.state = StateEditing
	}
}

// ConfirmSubmit sends the full pending collection as one batch. A call while
// a submit is already in flight is a no-op. The collection is cleared only
// after the service accepts the batch; on any failure the edits are retained
// so the user can retry.
func (l *Ledger) ConfirmSubmit(ctx context.Context) error {
	l.mu.Lock()
	if l.state == StateSubmitting {
		l.mu.Unlock()
		return nil
	}
	if len(l.pending) == 0 {
		l.mu.Unlock()
		l.notifier.Error("Nothing to submit", "enter at least one price first")
		return ErrNothingPending
	}
	batch := price.Batch{
		MarketID: l.marketID,
		Date:     l.date,
		Edits:    l.snapshotLocked(),
	}
	l.state = StateSubmitting
	l.mu.Unlock()

	// The lock is not held across the network call so the ledger stays
	// inspectable while the request is outstanding.
	err := l.submitter.Submit(ctx, batch)

	l.mu.Lock()
	if err != nil {
		l.state = StateEditing
		l.mu.Unlock()
		l.lg.Warn("Price batch rejected",
			zap.String("market_id", l.marketID),
			zap.Int("edits", len(batch.Edits)),
			zap.Error(err),
		)
		l.notifier.Error("Error updating prices", err.Error())
		return err
	}
	l.pending = make(map[string]decimal.Decimal)
	l.state = StateIdle
	l.mu.Unlock()

	l.lg.Info("Price batch accepted",
		zap.String("market_id", l.marketID),
		zap.Int("edits", len(batch.Edits)),
	)
	l.notifier.Info("Prices updated", fmt.Sprintf("%d prices saved", len(batch.Edits)))

	if l.onRefresh != nil {
		l.onRefresh(ctx)
	}
	return nil
}

// snapshotLocked copies the pending map. Callers must hold l.mu.
func (l *Ledger) snapshotLocked() []price.PendingEdit {
	edits := make([]price.PendingEdit, 0, len(l.pending))
	for id, v := range l.pending {
		edits = append(edits, price.PendingEdit{ProductID: id, Price: v})
	}
	return edits
}
