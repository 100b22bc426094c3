package remote

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/Unknow2778/farm-admin/internal/domain/market"
	"github.com/Unknow2778/farm-admin/internal/gateway"
)

var _ market.Repository = (*MarketRepository)(nil)

// MarketRepository implements market.Repository against the markets API.
type MarketRepository struct {
	gw *gateway.Gateway
}

// NewMarketRepository returns a MarketRepository on the given gateway.
func NewMarketRepository(gw *gateway.Gateway) *MarketRepository {
	return &MarketRepository{gw: gw}
}

// List returns all registered markets.
func (r *MarketRepository) List(ctx context.Context) ([]market.Market, error) {
	res := r.gw.Fetch(ctx, "/markets/allMarkets")
	if err := res.Err("list markets"); err != nil {
		return nil, err
	}

	var body struct {
		Markets []marketView `json:"markets"`
	}
	if err := res.Decode(&body); err != nil {
		return nil, errors.Wrap(err, "decode markets")
	}

	out := make([]market.Market, len(body.Markets))
	for i, v := range body.Markets {
		out[i] = v.toDomain()
	}
	return out, nil
}

// Create registers a new market.
func (r *MarketRepository) Create(ctx context.Context, name, place string) error {
	payload := map[string]string{"name": name, "place": place}
	res := r.gw.Create(ctx, "/markets/addMarket", payload)
	if res.Status != http.StatusCreated {
		if err := res.Err("add market"); err != nil {
			return err
		}
		return errors.Errorf("add market: unexpected status %d", res.Status)
	}
	return nil
}

// Delete removes a market.
func (r *MarketRepository) Delete(ctx context.Context, id string) error {
	res := r.gw.Remove(ctx, "/markets/deleteMarket/"+id)
	return res.Err("delete market")
}

// Overview returns every market with its products and their current prices.
func (r *MarketRepository) Overview(ctx context.Context) ([]market.Overview, error) {
	res := r.gw.Fetch(ctx, "/markets/allMarketProducts")
	if err := res.Err("fetch overview"); err != nil {
		return nil, err
	}

	var body struct {
		MarketProducts []struct {
			Market   marketView `json:"market"`
			Products []struct {
				Product      productView     `json:"product"`
				CurrentPrice decimal.Decimal `json:"currentPrice"`
			} `json:"products"`
		} `json:"marketProducts"`
	}
	if err := res.Decode(&body); err != nil {
		return nil, errors.Wrap(err, "decode overview")
	}

	out := make([]market.Overview, len(body.MarketProducts))
	for i, mp := range body.MarketProducts {
		items := make([]market.OverviewItem, len(mp.Products))
		for j, p := range mp.Products {
			items[j] = market.OverviewItem{
				Product:      p.Product.toDomain(),
				CurrentPrice: p.CurrentPrice,
			}
		}
		out[i] = market.Overview{Market: mp.Market.toDomain(), Products: items}
	}
	return out, nil
}
