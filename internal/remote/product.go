package remote

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/Unknow2778/farm-admin/internal/domain/product"
	"github.com/Unknow2778/farm-admin/internal/gateway"
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository against the markets API.
type ProductRepository struct {
	gw *gateway.Gateway
}

// NewProductRepository returns a ProductRepository on the given gateway.
func NewProductRepository(gw *gateway.Gateway) *ProductRepository {
	return &ProductRepository{gw: gw}
}

// List returns the full catalog, ordered by descending priority.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	res := r.gw.Fetch(ctx, "/markets/products")
	if err := res.Err("list products"); err != nil {
		return nil, err
	}

	var body struct {
		Products []productView `json:"products"`
	}
	if err := res.Decode(&body); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}

	out := make([]product.Product, len(body.Products))
	for i, v := range body.Products {
		out[i] = v.toDomain()
	}
	product.SortByPriority(out)
	return out, nil
}

// Create registers a new catalog product.
func (r *ProductRepository) Create(ctx context.Context, p product.New) error {
	payload := map[string]any{
		"name":       p.Name,
		"categoryId": p.CategoryID,
		"baseUnit":   string(p.BaseUnit),
	}
	res := r.gw.Create(ctx, "/markets/addProduct", payload)
	if res.Status != http.StatusCreated {
		if err := res.Err("add product"); err != nil {
			return err
		}
		return errors.Errorf("add product: unexpected status %d", res.Status)
	}
	return nil
}

// Update replaces a product's mutable fields.
func (r *ProductRepository) Update(ctx context.Context, id string, u product.Update) error {
	payload := map[string]any{
		"name":       u.Name,
		"categoryId": u.CategoryID,
		"baseUnit":   string(u.BaseUnit),
		"isInDemand": u.InDemand,
		"priority":   u.Priority,
	}
	res := r.gw.Replace(ctx, "/markets/updateProduct/"+id, payload)
	return res.Err("update product")
}

// Delete removes a product from the catalog.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	res := r.gw.Remove(ctx, "/markets/deleteProduct/"+id)
	return res.Err("delete product")
}

// Categories returns the catalog's category list.
func (r *ProductRepository) Categories(ctx context.Context) ([]product.Category, error) {
	res := r.gw.Fetch(ctx, "/markets/categories")
	if err := res.Err("list categories"); err != nil {
		return nil, err
	}

	var body struct {
		Categories []categoryView `json:"categories"`
	}
	if err := res.Decode(&body); err != nil {
		return nil, errors.Wrap(err, "decode categories")
	}

	out := make([]product.Category, len(body.Categories))
	for i, v := range body.Categories {
		out[i] = product.Category{ID: v.ID, Name: v.Name}
	}
	return out, nil
}
