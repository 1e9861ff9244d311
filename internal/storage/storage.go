package storage

import (
	"context"
	"fmt"

	"om-traders/internal/config"
	"om-traders/internal/model"

	"github.com/rs/zerolog"
)

// Collection names shared by both backends. The remote store uses them as
// Mongo collection names; the local store uses them as key-value keys.
const (
	CollectionProducts   = "products"
	CollectionInvoices   = "invoices"
	CollectionCategories = "categories"
)

// Backend is the uniform CRUD contract over products, invoices and
// categories, independent of which store serves the call.
//
// SaveProduct and SaveInvoice are upserts keyed by ID: an existing document
// with the same ID is replaced (UpdatedAt refreshed for products), otherwise
// the document is inserted; a missing ID is assigned along with creation
// timestamps. DeleteProduct and UpdateInvoiceStatus are silent no-ops when
// the ID does not exist.
type Backend interface {
	GetProducts(ctx context.Context) ([]model.Product, error)
	SaveProduct(ctx context.Context, product *model.Product) error
	DeleteProduct(ctx context.Context, id string) error

	GetInvoices(ctx context.Context) ([]model.Invoice, error)
	SaveInvoice(ctx context.Context, invoice *model.Invoice) error
	UpdateInvoiceStatus(ctx context.Context, id string, status model.InvoiceStatus) error

	GetCategories(ctx context.Context) ([]model.Category, error)
	SaveCategory(ctx context.Context, category *model.Category) error
}

// Store is the contract exposed to the rest of the application: the Backend
// operations plus an advisory flag reporting whether the local fallback path
// is currently serving calls. The flag must never gate correctness.
type Store interface {
	Backend

	// UsingFallback reports whether the local store is currently active,
	// either because no remote store is configured or because the last
	// remote call failed.
	UsingFallback() bool
}

// New builds the application store from configuration: a local SQLite store,
// optionally fronted by the remote document-store API with per-call fallback.
func New(cfg *config.Config, logger zerolog.Logger) (Store, func() error, error) {
	local, err := OpenLocal(cfg.Local.Path, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open local store: %w", err)
	}

	var remote Backend
	if cfg.Remote.Enabled {
		remote = NewRemote(cfg.Remote, logger)
	} else {
		logger.Info().Msg("remote store disabled, using local store only")
	}

	return NewFallback(remote, local, logger), local.Close, nil
}
