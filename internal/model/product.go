package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices and totals are serialised as plain JSON numbers so documents
	// written to the remote store keep the shape the collections already have.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents an item in the store catalogue.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	Dimensions  string          `json:"dimensions"`
	ImageURL    string          `json:"imageUrl"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ProductRequest represents the request payload for creating or updating a product.
type ProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Dimensions  string          `json:"dimensions"`
	ImageURL    string          `json:"imageUrl"`
}
