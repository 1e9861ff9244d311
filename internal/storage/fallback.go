package storage

import (
	"context"
	"fmt"
	"sync"

	"om-traders/internal/model"

	"github.com/rs/zerolog"
)

// Fallback routes each call to the remote store first and retries against the
// local store on any remote failure. The caller observes the result of
// whichever backend served the call; remote failures are logged, never
// surfaced. Data written during a fallback window stays local and is not
// reconciled when the remote store recovers.
type Fallback struct {
	remote Backend // nil when no remote store is configured
	local  Backend
	logger zerolog.Logger

	mu       sync.RWMutex
	degraded bool
}

// NewFallback creates a store that prefers remote and falls back to local.
// A nil remote backend pins all calls to the local store.
func NewFallback(remote, local Backend, logger zerolog.Logger) *Fallback {
	return &Fallback{
		remote: remote,
		local:  local,
		logger: logger.With().Str("store", "fallback").Logger(),
	}
}

// UsingFallback reports whether the local store is currently active. This is
// advisory only; it must not gate correctness.
func (f *Fallback) UsingFallback() bool {
	if f.remote == nil {
		return true
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.degraded
}

func (f *Fallback) setDegraded(degraded bool) {
	f.mu.Lock()
	if f.degraded != degraded {
		if degraded {
			f.logger.Warn().Msg("remote store unavailable, serving from local store")
		} else {
			f.logger.Info().Msg("remote store available again")
		}
	}
	f.degraded = degraded
	f.mu.Unlock()
}

// run executes op against the remote store when one is configured, retrying
// against the local store on failure. The local result is what the caller sees.
func (f *Fallback) run(op string, remoteFn, localFn func() error) error {
	if f.remote != nil {
		err := remoteFn()
		if err == nil {
			f.setDegraded(false)
			return nil
		}
		f.logger.Warn().
			Err(err).
			Str("operation", op).
			Msg("remote store call failed, retrying against local store")
		f.setDegraded(true)
	}
	return localFn()
}

func (f *Fallback) GetProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := f.run("get_products",
		func() (err error) { products, err = f.remote.GetProducts(ctx); return },
		func() (err error) { products, err = f.local.GetProducts(ctx); return },
	)
	return products, err
}

func (f *Fallback) SaveProduct(ctx context.Context, product *model.Product) error {
	return f.run("save_product",
		func() error { return f.remote.SaveProduct(ctx, product) },
		func() error { return f.local.SaveProduct(ctx, product) },
	)
}

func (f *Fallback) DeleteProduct(ctx context.Context, id string) error {
	return f.run("delete_product",
		func() error { return f.remote.DeleteProduct(ctx, id) },
		func() error { return f.local.DeleteProduct(ctx, id) },
	)
}

func (f *Fallback) GetInvoices(ctx context.Context) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := f.run("get_invoices",
		func() (err error) { invoices, err = f.remote.GetInvoices(ctx); return },
		func() (err error) { invoices, err = f.local.GetInvoices(ctx); return },
	)
	return invoices, err
}

func (f *Fallback) SaveInvoice(ctx context.Context, invoice *model.Invoice) error {
	return f.run("save_invoice",
		func() error { return f.remote.SaveInvoice(ctx, invoice) },
		func() error { return f.local.SaveInvoice(ctx, invoice) },
	)
}

func (f *Fallback) UpdateInvoiceStatus(ctx context.Context, id string, status model.InvoiceStatus) error {
	if !status.Valid() {
		return fmt.Errorf("unknown invoice status %q", status)
	}
	return f.run("update_invoice_status",
		func() error { return f.remote.UpdateInvoiceStatus(ctx, id, status) },
		func() error { return f.local.UpdateInvoiceStatus(ctx, id, status) },
	)
}

func (f *Fallback) GetCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := f.run("get_categories",
		func() (err error) { categories, err = f.remote.GetCategories(ctx); return },
		func() (err error) { categories, err = f.local.GetCategories(ctx); return },
	)
	return categories, err
}

func (f *Fallback) SaveCategory(ctx context.Context, category *model.Category) error {
	return f.run("save_category",
		func() error { return f.remote.SaveCategory(ctx, category) },
		func() error { return f.local.SaveCategory(ctx, category) },
	)
}
