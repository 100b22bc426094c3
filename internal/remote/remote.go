// Package remote implements the domain repositories on top of the markets
// API gateway. Every entity is owned by the remote service: repositories
// never cache, and callers re-fetch after each mutation.
package remote

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Unknow2778/farm-admin/internal/domain/market"
	"github.com/Unknow2778/farm-admin/internal/domain/product"
)

// dateLayout is the wire format for price dates.
const dateLayout = "2006-01-02"

// productView mirrors the backend's product document.
type productView struct {
	ID         string    `json:"_id"`
	Name       string    `json:"name"`
	BaseUnit   string    `json:"baseUnit"`
	IsInDemand bool      `json:"isInDemand"`
	Priority   int       `json:"priority"`
	CategoryID string    `json:"categoryId"`
	ImageURL   string    `json:"imageURL"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (v productView) toDomain() product.Product {
	return product.Product{
		ID:         v.ID,
		Name:       v.Name,
		BaseUnit:   product.Unit(v.BaseUnit),
		InDemand:   v.IsInDemand,
		Priority:   v.Priority,
		CategoryID: v.CategoryID,
		ImageURL:   v.ImageURL,
		CreatedAt:  v.CreatedAt,
	}
}

// categoryView mirrors the backend's category document.
type categoryView struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// marketView mirrors the backend's market document.
type marketView struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Place     string    `json:"place"`
	CreatedAt time.Time `json:"createdAt"`
}

func (v marketView) toDomain() market.Market {
	return market.Market{
		ID:        v.ID,
		Name:      v.Name,
		Place:     v.Place,
		CreatedAt: v.CreatedAt,
	}
}

// priceView mirrors the backend's price record document.
type priceView struct {
	ID    string          `json:"_id"`
	Price decimal.Decimal `json:"price"`
	Date  time.Time       `json:"date"`
}
