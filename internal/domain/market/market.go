package market

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/Unknow2778/farm-admin/internal/domain/product"
)

// Sentinel errors for market operations.
var (
	// ErrNotFound is returned when a requested market does not exist.
	ErrNotFound = errors.New("market not found")
	// ErrEmptyFields is returned when a new market is missing its name or place.
	ErrEmptyFields = errors.New("market name and place are required")
	// ErrPlaceMismatch is returned when the typed deletion confirmation does
	// not match the market's place.
	ErrPlaceMismatch = errors.New("market place confirmation mismatch")
)

// Market is a physical location where products are sold. It is the root
// scope for price records.
type Market struct {
	ID        string
	Name      string
	Place     string
	CreatedAt time.Time
}

// OverviewItem pairs a product with its current price at one market.
type OverviewItem struct {
	Product      product.Product
	CurrentPrice decimal.Decimal
}

// Overview is one market together with its currently priced products.
type Overview struct {
	Market   Market
	Products []OverviewItem
}

// Repository defines market operations against the backing service.
type Repository interface {
	List(ctx context.Context) ([]Market, error)
	Create(ctx context.Context, name, place string) error
	Delete(ctx context.Context, id string) error
	Overview(ctx context.Context) ([]Overview, error)
}

// Service wraps a Repository with the admin-side safety gates.
type Service struct {
	repo Repository
}

// NewService creates a market Service backed by the given Repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all registered markets.
func (s *Service) List(ctx context.Context) ([]Market, error) {
	return s.repo.List(ctx)
}

// Overview returns every market with its currently priced products.
func (s *Service) Overview(ctx context.Context) ([]Overview, error) {
	return s.repo.Overview(ctx)
}

// Create registers a new market after trivial field validation.
func (s *Service) Create(ctx context.Context, name, place string) error {
	if name == "" || place == "" {
		return ErrEmptyFields
	}
	return s.repo.Create(ctx, name, place)
}

// Delete removes a market after verifying that typedPlace matches the
// market's place verbatim. The gate is checked before any request is made.
func (s *Service) Delete(ctx context.Context, m Market, typedPlace string) error {
	if typedPlace != m.Place {
		return ErrPlaceMismatch
	}
	return s.repo.Delete(ctx, m.ID)
}
