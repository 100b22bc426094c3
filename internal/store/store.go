// Package store caches catalog data shared across admin commands so that
// navigating between views does not re-fetch on every step. The cache is
// never authoritative: Refresh replaces it wholesale from the service.
package store

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Unknow2778/farm-admin/internal/domain/market"
	"github.com/Unknow2778/farm-admin/internal/domain/product"
)

// Store holds the shared market and product lists. It is created once at
// startup and passed to whatever needs catalog data.
type Store struct {
	markets  market.Repository
	products product.Repository

	mu sync.RWMutex
	ms []market.Market
	ps []product.Product
}

// New creates a Store over the given repositories.
func New(markets market.Repository, products product.Repository) *Store {
	return &Store{markets: markets, products: products}
}

// Markets returns a copy of the cached market list.
func (s *Store) Markets() []market.Market {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]market.Market, len(s.ms))
	copy(out, s.ms)
	return out
}

// Products returns a copy of the cached product list, ordered by descending
// priority.
func (s *Store) Products() []product.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]product.Product, len(s.ps))
	copy(out, s.ps)
	return out
}

// MarketByID looks up a cached market.
func (s *Store) MarketByID(id string) (market.Market, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.ms {
		if m.ID == id {
			return m, true
		}
	}
	return market.Market{}, false
}

// ProductByID looks up a cached product.
func (s *Store) ProductByID(id string) (product.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.ps {
		if p.ID == id {
			return p, true
		}
	}
	return product.Product{}, false
}

// SetMarkets replaces the cached market list.
func (s *Store) SetMarkets(ms []market.Market) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ms = ms
}

// SetProducts replaces the cached product list.
func (s *Store) SetProducts(ps []product.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ps = ps
}

// Refresh fetches markets and products concurrently and replaces the cache
// wholesale. On any failure the previous cache is kept untouched.
func (s *Store) Refresh(ctx context.Context) error {
	var (
		ms []market.Market
		ps []product.Product
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ms, err = s.markets.List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		ps, err = s.products.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	product.SortByPriority(ps)

	s.mu.Lock()
	s.ms, s.ps = ms, ps
	s.mu.Unlock()
	return nil
}
