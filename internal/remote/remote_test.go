package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Unknow2778/farm-admin/internal/domain/price"
	"github.com/Unknow2778/farm-admin/internal/domain/product"
	"github.com/Unknow2778/farm-admin/internal/gateway"
)

// apiCall records one request the fake backend received.
type apiCall struct {
	Method string
	Path   string
	Query  string
	Body   string
}

// fakeAPI is an httptest-backed stand-in for the markets service.
type fakeAPI struct {
	srv    *httptest.Server
	calls  []apiCall
	status int
	body   string
}

func newFakeAPI(t *testing.T, status int, body string) *fakeAPI {
	t.Helper()
	f := &fakeAPI{status: status, body: body}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		f.calls = append(f.calls, apiCall{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Body:   string(raw),
		})
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(f.body))
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) gateway() *gateway.Gateway {
	return gateway.New(f.srv.URL)
}

func (f *fakeAPI) lastCall(t *testing.T) apiCall {
	t.Helper()
	require.NotEmpty(t, f.calls)
	return f.calls[len(f.calls)-1]
}

func newProduct(name, categoryID string) product.New {
	return product.New{Name: name, CategoryID: categoryID, BaseUnit: product.UnitKilogram}
}

func productUpdate(name string, priority int) product.Update {
	return product.Update{
		Name:       name,
		CategoryID: "cat-1",
		BaseUnit:   product.UnitKilogram,
		InDemand:   true,
		Priority:   priority,
	}
}

// --- products ---

func TestProductRepository_List(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, `{"products":[
		{"_id":"p1","name":"onion","baseUnit":"kg","priority":1},
		{"_id":"p2","name":"tomato","baseUnit":"kg","priority":5,"isInDemand":true},
		{"_id":"p3","name":"egg","baseUnit":"piece","priority":1}
	]}`)

	got, err := NewProductRepository(api.gateway()).List(context.Background())
	require.NoError(t, err)

	call := api.lastCall(t)
	assert.Equal(t, http.MethodGet, call.Method)
	assert.Equal(t, "/markets/products", call.Path)

	// Descending priority, stable within ties.
	require.Len(t, got, 3)
	assert.Equal(t, "tomato", got[0].Name)
	assert.Equal(t, "onion", got[1].Name)
	assert.Equal(t, "egg", got[2].Name)
	assert.True(t, got[0].InDemand)
}

func TestProductRepository_ListError(t *testing.T) {
	api := newFakeAPI(t, http.StatusInternalServerError, `{"error":"boom"}`)

	_, err := NewProductRepository(api.gateway()).List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestProductRepository_CreateRequires201(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, `{}`)
	repo := NewProductRepository(api.gateway())

	err := repo.Create(context.Background(), newProduct("tomato", "cat-1"))
	require.Error(t, err, "a 200 is not a created product")

	api.status = http.StatusCreated
	require.NoError(t, repo.Create(context.Background(), newProduct("tomato", "cat-1")))

	call := api.lastCall(t)
	assert.Equal(t, http.MethodPost, call.Method)
	assert.Equal(t, "/markets/addProduct", call.Path)
	assert.JSONEq(t, `{"name":"tomato","categoryId":"cat-1","baseUnit":"kg"}`, call.Body)
}

func TestProductRepository_Update(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, `{}`)
	repo := NewProductRepository(api.gateway())

	err := repo.Update(context.Background(), "p1", productUpdate("tomato", 7))
	require.NoError(t, err)

	call := api.lastCall(t)
	assert.Equal(t, http.MethodPut, call.Method)
	assert.Equal(t, "/markets/updateProduct/p1", call.Path)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(call.Body), &body))
	assert.Equal(t, "tomato", body["name"])
	assert.Equal(t, float64(7), body["priority"])
	assert.Equal(t, true, body["isInDemand"])
}

func TestProductRepository_Categories(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, `{"categories":[{"_id":"c1","name":"vegetables"}]}`)

	got, err := NewProductRepository(api.gateway()).Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "vegetables", got[0].Name)
}

// --- markets ---

func TestMarketRepository_List(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, `{"markets":[
		{"_id":"m1","name":"RMC Central","place":"Guntur","createdAt":"2024-11-02T10:00:00Z"}
	]}`)

	got, err := NewMarketRepository(api.gateway()).List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "RMC Central", got[0].Name)
	assert.Equal(t, "Guntur", got[0].Place)
	assert.Equal(t, 2024, got[0].CreatedAt.Year())
}

func TestMarketRepository_CreateAndDelete(t *testing.T) {
	api := newFakeAPI(t, http.StatusCreated, `{}`)
	repo := NewMarketRepository(api.gateway())

	require.NoError(t, repo.Create(context.Background(), "RMC Central", "Guntur"))
	call := api.lastCall(t)
	assert.Equal(t, "/markets/addMarket", call.Path)
	assert.JSONEq(t, `{"name":"RMC Central","place":"Guntur"}`, call.Body)

	api.status = http.StatusOK
	require.NoError(t, repo.Delete(context.Background(), "m1"))
	call = api.lastCall(t)
	assert.Equal(t, http.MethodDelete, call.Method)
	assert.Equal(t, "/markets/deleteMarket/m1", call.Path)
}

func TestMarketRepository_Overview(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, `{"marketProducts":[{
		"market":{"_id":"m1","name":"RMC Central","place":"Guntur"},
		"products":[{"product":{"_id":"p1","name":"tomato","baseUnit":"kg"},"currentPrice":42.5}]
	}]}`)

	got, err := NewMarketRepository(api.gateway()).Overview(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "RMC Central", got[0].Market.Name)
	require.Len(t, got[0].Products, 1)
	assert.Equal(t, "tomato", got[0].Products[0].Product.Name)
	assert.True(t, decimal.RequireFromString("42.5").Equal(got[0].Products[0].CurrentPrice))
}

// --- prices ---

func TestPriceRepository_List(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, `{"prices":[
		{"_id":"pr1","price":45,"date":"2025-03-14T00:00:00Z"},
		{"_id":"pr2","price":48.5,"date":"2025-03-15T00:00:00Z"}
	]}`)

	got, err := NewPriceRepository(api.gateway()).List(context.Background(), "m1", "p 1")
	require.NoError(t, err)

	call := api.lastCall(t)
	assert.Equal(t, "/markets/allPriceByMarketProduct/m1", call.Path)
	assert.Equal(t, "productId=p+1", call.Query)

	require.Len(t, got, 2)
	assert.Equal(t, "pr1", got[0].ID)
	assert.True(t, decimal.RequireFromString("48.5").Equal(got[1].Price))
}

func TestPriceRepository_Update(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, `{}`)
	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	err := NewPriceRepository(api.gateway()).
		Update(context.Background(), "pr1", decimal.RequireFromString("48.50"), date)
	require.NoError(t, err)

	call := api.lastCall(t)
	assert.Equal(t, http.MethodPut, call.Method)
	assert.Equal(t, "/markets/updateMarketProductPrice/pr1", call.Path)
	// decimal.String() drops trailing zeros, so "48.50" goes out as "48.5".
	assert.JSONEq(t, `{"price":"48.5","date":"2025-03-14"}`, call.Body)
}

func TestPriceRepository_Delete(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, `{}`)

	err := NewPriceRepository(api.gateway()).Delete(context.Background(), "pr1")
	require.NoError(t, err)

	call := api.lastCall(t)
	assert.Equal(t, http.MethodDelete, call.Method)
	assert.Equal(t, "/markets/deleteMarketProductPrice/pr1", call.Path)
}

func TestPriceRepository_Submit(t *testing.T) {
	api := newFakeAPI(t, http.StatusCreated, `{}`)
	batch := price.Batch{
		MarketID: "m1",
		Date:     time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Edits: []price.PendingEdit{
			{ProductID: "p1", Price: decimal.RequireFromString("45")},
		},
	}

	require.NoError(t, NewPriceRepository(api.gateway()).Submit(context.Background(), batch))

	call := api.lastCall(t)
	assert.Equal(t, http.MethodPost, call.Method)
	assert.Equal(t, "/markets/addProductPrice", call.Path)
	assert.JSONEq(t, `{
		"date":"2025-03-14",
		"marketId":"m1",
		"products":[{"productId":"p1","price":"45"}]
	}`, call.Body)
}

func TestPriceRepository_SubmitRejectsNon201(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"200 is not accepted", http.StatusOK, `{}`},
		{"server error with message", http.StatusInternalServerError, `{"error":"db down"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t, tt.status, tt.body)
			err := NewPriceRepository(api.gateway()).Submit(context.Background(), price.Batch{
				MarketID: "m1",
				Date:     time.Now(),
				Edits:    []price.PendingEdit{{ProductID: "p1", Price: decimal.NewFromInt(1)}},
			})
			require.Error(t, err)
		})
	}
}
