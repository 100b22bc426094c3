package store

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Unknow2778/farm-admin/internal/domain/market"
	"github.com/Unknow2778/farm-admin/internal/domain/product"
)

type mockMarkets struct {
	markets []market.Market
	err     error
}

func (m *mockMarkets) List(context.Context) ([]market.Market, error) { return m.markets, m.err }

func (m *mockMarkets) Create(context.Context, string, string) error { return nil }

func (m *mockMarkets) Delete(context.Context, string) error { return nil }
func (m *mockMarkets) Overview(context.Context) ([]market.Overview, error) {
	return nil, nil
}

type mockProducts struct {
	products []product.Product
	err      error
}

func (m *mockProducts) List(context.Context) ([]product.Product, error) { return m.products, m.err }

func (m *mockProducts) Create(context.Context, product.New) error { return nil }

func (m *mockProducts) Update(context.Context, string, product.Update) error {
	return nil
}

func (m *mockProducts) Delete(context.Context, string) error { return nil }
func (m *mockProducts) Categories(context.Context) ([]product.Category, error) {
	return nil, nil
}

func TestRefresh_ReplacesWholesale(t *testing.T) {
	markets := &mockMarkets{markets: []market.Market{{ID: "m1", Name: "RMC Central"}}}
	products := &mockProducts{products: []product.Product{
		{ID: "p1", Name: "onion", Priority: 1},
		{ID: "p2", Name: "tomato", Priority: 5},
	}}
	s := New(markets, products)
	s.SetMarkets([]market.Market{{ID: "stale"}})

	require.NoError(t, s.Refresh(context.Background()))

	ms := s.Markets()
	require.Len(t, ms, 1)
	assert.Equal(t, "m1", ms[0].ID, "stale entries replaced, not merged")

	ps := s.Products()
	require.Len(t, ps, 2)
	assert.Equal(t, "tomato", ps[0].Name, "products ordered by descending priority")
}

func TestRefresh_FailureKeepsCache(t *testing.T) {
	markets := &mockMarkets{err: errors.New("connection refused")}
	products := &mockProducts{}
	s := New(markets, products)
	s.SetMarkets([]market.Market{{ID: "m1"}})
	s.SetProducts([]product.Product{{ID: "p1"}})

	require.Error(t, s.Refresh(context.Background()))
	assert.Len(t, s.Markets(), 1, "previous cache kept on failure")
	assert.Len(t, s.Products(), 1)
}

func TestLookupsByID(t *testing.T) {
	s := New(&mockMarkets{}, &mockProducts{})
	s.SetMarkets([]market.Market{{ID: "m1", Place: "Guntur"}})
	s.SetProducts([]product.Product{{ID: "p1", Name: "tomato"}})

	m, ok := s.MarketByID("m1")
	require.True(t, ok)
	assert.Equal(t, "Guntur", m.Place)

	_, ok = s.MarketByID("nope")
	assert.False(t, ok)

	p, ok := s.ProductByID("p1")
	require.True(t, ok)
	assert.Equal(t, "tomato", p.Name)

	_, ok = s.ProductByID("nope")
	assert.False(t, ok)
}

func TestAccessorsCopy(t *testing.T) {
	s := New(&mockMarkets{}, &mockProducts{})
	s.SetProducts([]product.Product{{ID: "p1", Name: "tomato"}})

	got := s.Products()
	got[0].Name = "mutated"

	fresh := s.Products()
	assert.Equal(t, "tomato", fresh[0].Name, "callers get a copy, not the cache")
}
