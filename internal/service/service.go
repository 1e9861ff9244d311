package service

import (
	"context"

	"om-traders/internal/model"
)

// ProductService defines operations for catalogue management. The service
// keeps an in-memory copy of the product list for the lifetime of the
// process, refreshed in full after every mutation.
type ProductService interface {
	// Products returns the cached product list, loading it on first use.
	Products(ctx context.Context) ([]model.Product, error)

	// Refresh reloads the cached list from storage. Idempotent; on failure
	// the previous cached list is retained.
	Refresh(ctx context.Context) error

	// Ready reports whether the cache has been populated at least once.
	Ready() bool

	// Add creates a new product from the request fields.
	Add(ctx context.Context, req *model.ProductRequest) (*model.Product, error)

	// Update upserts an existing product.
	Update(ctx context.Context, product *model.Product) error

	// Delete removes a product by ID. Unknown IDs are not an error.
	Delete(ctx context.Context, id string) error
}

// InvoiceService defines operations for billing.
type InvoiceService interface {
	// CreateInvoice assembles and persists an invoice from a selection of
	// products and quantities, decrementing catalogue stock.
	CreateInvoice(ctx context.Context, req *model.InvoiceRequest) (*model.Invoice, error)

	// Invoices returns all invoices, newest first.
	Invoices(ctx context.Context) ([]model.Invoice, error)

	// GetByID retrieves a single invoice.
	GetByID(ctx context.Context, id string) (*model.Invoice, error)

	// MarkPaid transitions a pending invoice to paid.
	MarkPaid(ctx context.Context, id string) (*model.Invoice, error)
}

// StatsService derives dashboard figures from the catalogue and invoices.
type StatsService interface {
	Dashboard(ctx context.Context) (*model.DashboardStats, error)
}

// CategoryService defines operations for product categories.
type CategoryService interface {
	Categories(ctx context.Context) ([]model.Category, error)
	Add(ctx context.Context, req *model.CategoryRequest) (*model.Category, error)
}
