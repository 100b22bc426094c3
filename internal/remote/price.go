package remote

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/Unknow2778/farm-admin/internal/domain/price"
	"github.com/Unknow2778/farm-admin/internal/gateway"
)

var (
	_ price.History   = (*PriceRepository)(nil)
	_ price.Submitter = (*PriceRepository)(nil)
)

// PriceRepository implements price.History and price.Submitter against the
// markets API.
type PriceRepository struct {
	gw *gateway.Gateway
}

// NewPriceRepository returns a PriceRepository on the given gateway.
func NewPriceRepository(gw *gateway.Gateway) *PriceRepository {
	return &PriceRepository{gw: gw}
}

// List returns the price history for a (market, product) pair.
func (r *PriceRepository) List(ctx context.Context, marketID, productID string) ([]price.Record, error) {
	path := "/markets/allPriceByMarketProduct/" + marketID + "?productId=" + url.QueryEscape(productID)
	res := r.gw.Fetch(ctx, path)
	if err := res.Err("list price history"); err != nil {
		return nil, err
	}

	var body struct {
		Prices []priceView `json:"prices"`
	}
	if err := res.Decode(&body); err != nil {
		return nil, errors.Wrap(err, "decode price history")
	}

	out := make([]price.Record, len(body.Prices))
	for i, v := range body.Prices {
		out[i] = price.Record{ID: v.ID, Price: v.Price, Date: v.Date}
	}
	return out, nil
}

// Update replaces one price record's value and date.
func (r *PriceRepository) Update(ctx context.Context, recordID string, value decimal.Decimal, date time.Time) error {
	payload := map[string]string{
		"price": value.String(),
		"date":  date.Format(dateLayout),
	}
	res := r.gw.Replace(ctx, "/markets/updateMarketProductPrice/"+recordID, payload)
	return res.Err("update price record")
}

// Delete removes one price record.
func (r *PriceRepository) Delete(ctx context.Context, recordID string) error {
	res := r.gw.Remove(ctx, "/markets/deleteMarketProductPrice/"+recordID)
	return res.Err("delete price record")
}

// Submit posts one batch of pending edits for a market and date. Only a 201
// from the service counts as accepted.
func (r *PriceRepository) Submit(ctx context.Context, b price.Batch) error {
	type editPayload struct {
		ProductID string `json:"productId"`
		Price     string `json:"price"`
	}
	edits := make([]editPayload, len(b.Edits))
	for i, e := range b.Edits {
		edits[i] = editPayload{ProductID: e.ProductID, Price: e.Price.String()}
	}

	payload := map[string]any{
		"date":     b.Date.Format(dateLayout),
		"marketId": b.MarketID,
		"products": edits,
	}
	res := r.gw.Create(ctx, "/markets/addProductPrice", payload)
	if res.Status != http.StatusCreated {
		if err := res.Err("submit price batch"); err != nil {
			return err
		}
		return errors.Errorf("submit price batch: unexpected status %d", res.Status)
	}
	return nil
}
