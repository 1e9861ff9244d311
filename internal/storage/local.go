package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"om-traders/internal/model"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// Local is the fallback store: a SQLite-backed key-value area with one row
// per collection, each holding the JSON-serialised array of that entity kind.
// Writes are whole-collection read-modify-write; there are no partial updates.
type Local struct {
	db     *sql.DB
	logger zerolog.Logger
}

// OpenLocal creates or opens the local store at the given path.
func OpenLocal(path string, logger zerolog.Logger) (*Local, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to local store: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY errors under concurrent handlers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply pragma %q: %w", pragma, err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS collections (
			name TEXT PRIMARY KEY,
			data TEXT NOT NULL
		)
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Local{
		db:     db,
		logger: logger.With().Str("store", "local").Logger(),
	}, nil
}

// Close closes the underlying database.
func (l *Local) Close() error {
	return l.db.Close()
}

// readCollection deserialises one collection. A missing row or an unparsable
// value is treated as an empty collection, never as an error; decoding goes
// through a scratch slice so a value that fails partway through never leaks
// partial entities to the caller.
func readCollection[T any](ctx context.Context, l *Local, name string) ([]T, error) {
	var data string
	err := l.db.QueryRowContext(ctx,
		`SELECT data FROM collections WHERE name = ?`, name,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read collection %s: %w", name, err)
	}

	var items []T
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		l.logger.Warn().
			Err(err).
			Str("collection", name).
			Msg("collection value is unparsable, treating as empty")
		return nil, nil
	}
	return items, nil
}

// writeCollection serialises the whole collection and replaces the stored value.
func (l *Local) writeCollection(ctx context.Context, name string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialise collection %s: %w", name, err)
	}

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO collections (name, data) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data
	`, name, string(data))
	if err != nil {
		return fmt.Errorf("failed to write collection %s: %w", name, err)
	}
	return nil
}

// GetProducts returns all products. Order is unspecified.
func (l *Local) GetProducts(ctx context.Context) ([]model.Product, error) {
	products, err := readCollection[model.Product](ctx, l, CollectionProducts)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

// SaveProduct upserts a product by ID, stamping UpdatedAt. A product with no
// ID is inserted with a fresh ID and creation timestamp.
func (l *Local) SaveProduct(ctx context.Context, product *model.Product) error {
	products, err := l.GetProducts(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if product.ID == "" {
		product.ID = uuid.NewString()
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	replaced := false
	for i := range products {
		if products[i].ID == product.ID {
			products[i] = *product
			replaced = true
			break
		}
	}
	if !replaced {
		if product.CreatedAt.IsZero() {
			product.CreatedAt = now
		}
		products = append(products, *product)
	}

	return l.writeCollection(ctx, CollectionProducts, products)
}

// DeleteProduct removes a product by ID. Missing IDs are a silent no-op.
func (l *Local) DeleteProduct(ctx context.Context, id string) error {
	products, err := l.GetProducts(ctx)
	if err != nil {
		return err
	}

	kept := products[:0]
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(products) {
		l.logger.Debug().Str("product_id", id).Msg("delete of unknown product ignored")
		return nil
	}

	return l.writeCollection(ctx, CollectionProducts, kept)
}

// GetInvoices returns all invoices. Order is unspecified; callers sort.
func (l *Local) GetInvoices(ctx context.Context) ([]model.Invoice, error) {
	invoices, err := readCollection[model.Invoice](ctx, l, CollectionInvoices)
	if err != nil {
		return nil, err
	}
	if invoices == nil {
		invoices = []model.Invoice{}
	}
	return invoices, nil
}

// SaveInvoice upserts an invoice by ID so a retried save cannot duplicate it.
func (l *Local) SaveInvoice(ctx context.Context, invoice *model.Invoice) error {
	invoices, err := l.GetInvoices(ctx)
	if err != nil {
		return err
	}

	if invoice.ID == "" {
		invoice.ID = uuid.NewString()
	}

	replaced := false
	for i := range invoices {
		if invoices[i].ID == invoice.ID {
			invoices[i] = *invoice
			replaced = true
			break
		}
	}
	if !replaced {
		invoices = append(invoices, *invoice)
	}

	return l.writeCollection(ctx, CollectionInvoices, invoices)
}

// UpdateInvoiceStatus mutates one invoice's status in place. Missing IDs are
// a silent no-op.
func (l *Local) UpdateInvoiceStatus(ctx context.Context, id string, status model.InvoiceStatus) error {
	invoices, err := l.GetInvoices(ctx)
	if err != nil {
		return err
	}

	for i := range invoices {
		if invoices[i].ID == id {
			invoices[i].Status = status
			return l.writeCollection(ctx, CollectionInvoices, invoices)
		}
	}

	l.logger.Debug().Str("invoice_id", id).Msg("status update of unknown invoice ignored")
	return nil
}

// GetCategories returns all categories.
func (l *Local) GetCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := readCollection[model.Category](ctx, l, CollectionCategories)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return categories, nil
}

// SaveCategory upserts a category by ID.
func (l *Local) SaveCategory(ctx context.Context, category *model.Category) error {
	categories, err := l.GetCategories(ctx)
	if err != nil {
		return err
	}

	if category.ID == "" {
		category.ID = uuid.NewString()
	}

	replaced := false
	for i := range categories {
		if categories[i].ID == category.ID {
			categories[i] = *category
			replaced = true
			break
		}
	}
	if !replaced {
		categories = append(categories, *category)
	}

	return l.writeCollection(ctx, CollectionCategories, categories)
}
