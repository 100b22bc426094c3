package product

import (
	"context"
	"sort"
	"time"

	"github.com/go-faster/errors"
)

// Sentinel errors for catalog operations.
var (
	// ErrNotFound is returned when a requested product does not exist.
	ErrNotFound = errors.New("product not found")
	// ErrEmptyFields is returned when a new product is missing its name or
	// category.
	ErrEmptyFields = errors.New("product name and category are required")
	// ErrNameMismatch is returned when the typed deletion confirmation does
	// not match the product's name.
	ErrNameMismatch = errors.New("product name confirmation mismatch")
)

// Unit enumerates how a product's price is quoted.
type Unit string

const (
	// UnitKilogram prices the product per kilogram.
	UnitKilogram Unit = "kg"
	// UnitPiece prices the product per item.
	UnitPiece Unit = "piece"
)

// Product represents a catalog item sold at the markets. The catalog is
// owned by the remote service; local copies are never authoritative.
type Product struct {
	ID         string
	Name       string
	BaseUnit   Unit
	InDemand   bool
	Priority   int
	CategoryID string
	ImageURL   string
	CreatedAt  time.Time
}

// Category groups products in the catalog.
type Category struct {
	ID   string
	Name string
}

// New holds the fields for creating a catalog product. Image upload is
// handled out of band by the backing service.
type New struct {
	Name       string
	CategoryID string
	BaseUnit   Unit
}

// Update holds the mutable fields of an existing product.
type Update struct {
	Name       string
	CategoryID string
	BaseUnit   Unit
	InDemand   bool
	Priority   int
}

// Repository defines catalog operations against the backing service.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, p New) error
	Update(ctx context.Context, id string, u Update) error
	Delete(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]Category, error)
}

// Service wraps a Repository with the admin-side safety gates.
type Service struct {
	repo Repository
}

// NewService creates a catalog Service backed by the given Repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the catalog in display order.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

// Create registers a new catalog product after trivial field validation.
func (s *Service) Create(ctx context.Context, p New) error {
	if p.Name == "" || p.CategoryID == "" {
		return ErrEmptyFields
	}
	return s.repo.Create(ctx, p)
}

// Update replaces a product's mutable fields.
func (s *Service) Update(ctx context.Context, id string, u Update) error {
	return s.repo.Update(ctx, id, u)
}

// Categories returns the catalog's category list.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return s.repo.Categories(ctx)
}

// Delete removes a product after verifying that typedName matches the
// product's name verbatim. The gate is checked before any request is made.
func (s *Service) Delete(ctx context.Context, p Product, typedName string) error {
	if typedName != p.Name {
		return ErrNameMismatch
	}
	return s.repo.Delete(ctx, p.ID)
}

// SortByPriority orders products by descending priority. The sort is stable
// so products with equal priority keep their catalog order.
func SortByPriority(products []Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Priority > products[j].Priority
	})
}
