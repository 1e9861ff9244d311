package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// Valid reports whether s is a known invoice status.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// InvoiceItem is one billed line of an invoice. Price is a snapshot of the
// product price at billing time and is never recomputed from the catalogue.
type InvoiceItem struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Amount returns the line amount (price * quantity).
func (i InvoiceItem) Amount() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Invoice represents a customer bill. Customer fields are a contact snapshot
// taken at billing time; there is no separate customer entity.
type Invoice struct {
	ID           string          `json:"id"`
	CustomerName string          `json:"customerName"`
	Address      string          `json:"address,omitempty"`
	Phone        string          `json:"phone,omitempty"`
	Items        []InvoiceItem   `json:"items"`
	Total        decimal.Decimal `json:"total"`
	Date         time.Time       `json:"date"`
	Status       InvoiceStatus   `json:"status"`
}

// InvoiceRequest represents the request payload for creating an invoice.
type InvoiceRequest struct {
	CustomerName string               `json:"customerName" validate:"required"`
	Address      string               `json:"address"`
	Phone        string               `json:"phone"`
	Items        []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

// InvoiceItemRequest is a single selected product line in an invoice request.
type InvoiceItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}
