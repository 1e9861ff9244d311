package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"om-traders/internal/config"
	"om-traders/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Remote is a client for the document-store data API. Every operation is a
// POST of <base>/<action> with a JSON body naming the data source, database
// and collection, authenticated with an api-key header.
type Remote struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	dataSource string
	database   string
	logger     zerolog.Logger
}

// NewRemote creates a remote store client from configuration. The HTTP client
// carries an explicit timeout so a hung request degrades to the fallback path
// instead of blocking the caller indefinitely.
func NewRemote(cfg config.RemoteConfig, logger zerolog.Logger) *Remote {
	return &Remote{
		client: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		dataSource: cfg.DataSource,
		database:   cfg.Database,
		logger:     logger.With().Str("store", "remote").Logger(),
	}
}

// apiRequest is the request body shared by all data API actions.
type apiRequest struct {
	DataSource string         `json:"dataSource"`
	Database   string         `json:"database"`
	Collection string         `json:"collection"`
	Filter     map[string]any `json:"filter,omitempty"`
	Document   any            `json:"document,omitempty"`
	Update     any            `json:"update,omitempty"`
	Upsert     bool           `json:"upsert,omitempty"`
}

// call posts one data API action and decodes the response into out when
// out is non-nil. Any non-2xx response is an error.
func (r *Remote) call(ctx context.Context, action string, req apiRequest, out any) error {
	req.DataSource = r.dataSource
	req.Database = r.database

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", action, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/"+action, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", action, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", r.apiKey)

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s request returned status %d: %s", action, resp.StatusCode, snippet)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", action, err)
	}
	return nil
}

// GetProducts returns all products from the remote collection.
func (r *Remote) GetProducts(ctx context.Context) ([]model.Product, error) {
	var result struct {
		Documents []model.Product `json:"documents"`
	}
	err := r.call(ctx, "find", apiRequest{Collection: CollectionProducts}, &result)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to fetch products")
		return nil, err
	}
	if result.Documents == nil {
		result.Documents = []model.Product{}
	}
	return result.Documents, nil
}

// SaveProduct upserts a product by ID. New products (empty ID) are inserted
// with fresh identity and timestamps; existing ones are replaced with
// UpdatedAt refreshed.
func (r *Remote) SaveProduct(ctx context.Context, product *model.Product) error {
	now := time.Now().UTC()
	if product.ID == "" {
		product.ID = uuid.NewString()
		product.CreatedAt = now
		product.UpdatedAt = now
		if err := r.call(ctx, "insertOne", apiRequest{
			Collection: CollectionProducts,
			Document:   product,
		}, nil); err != nil {
			r.logger.Error().Err(err).Str("product_id", product.ID).Msg("failed to insert product")
			return err
		}
		return nil
	}

	product.UpdatedAt = now
	if err := r.call(ctx, "updateOne", apiRequest{
		Collection: CollectionProducts,
		Filter:     map[string]any{"id": product.ID},
		Update:     map[string]any{"$set": product},
		Upsert:     true,
	}, nil); err != nil {
		r.logger.Error().Err(err).Str("product_id", product.ID).Msg("failed to update product")
		return err
	}
	return nil
}

// DeleteProduct removes a product by ID. The data API acknowledges a delete
// of a missing document with a zero count, so this is naturally a no-op.
func (r *Remote) DeleteProduct(ctx context.Context, id string) error {
	if err := r.call(ctx, "deleteOne", apiRequest{
		Collection: CollectionProducts,
		Filter:     map[string]any{"id": id},
	}, nil); err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return err
	}
	return nil
}

// GetInvoices returns all invoices from the remote collection.
func (r *Remote) GetInvoices(ctx context.Context) ([]model.Invoice, error) {
	var result struct {
		Documents []model.Invoice `json:"documents"`
	}
	err := r.call(ctx, "find", apiRequest{Collection: CollectionInvoices}, &result)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to fetch invoices")
		return nil, err
	}
	if result.Documents == nil {
		result.Documents = []model.Invoice{}
	}
	return result.Documents, nil
}

// SaveInvoice upserts an invoice by ID so a retried save cannot duplicate it.
func (r *Remote) SaveInvoice(ctx context.Context, invoice *model.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.NewString()
	}
	if err := r.call(ctx, "updateOne", apiRequest{
		Collection: CollectionInvoices,
		Filter:     map[string]any{"id": invoice.ID},
		Update:     map[string]any{"$set": invoice},
		Upsert:     true,
	}, nil); err != nil {
		r.logger.Error().Err(err).Str("invoice_id", invoice.ID).Msg("failed to save invoice")
		return err
	}
	return nil
}

// UpdateInvoiceStatus mutates one invoice's status in place.
func (r *Remote) UpdateInvoiceStatus(ctx context.Context, id string, status model.InvoiceStatus) error {
	if err := r.call(ctx, "updateOne", apiRequest{
		Collection: CollectionInvoices,
		Filter:     map[string]any{"id": id},
		Update:     map[string]any{"$set": map[string]any{"status": status}},
	}, nil); err != nil {
		r.logger.Error().Err(err).Str("invoice_id", id).Msg("failed to update invoice status")
		return err
	}
	return nil
}

// GetCategories returns all categories from the remote collection.
func (r *Remote) GetCategories(ctx context.Context) ([]model.Category, error) {
	var result struct {
		Documents []model.Category `json:"documents"`
	}
	err := r.call(ctx, "find", apiRequest{Collection: CollectionCategories}, &result)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to fetch categories")
		return nil, err
	}
	if result.Documents == nil {
		result.Documents = []model.Category{}
	}
	return result.Documents, nil
}

// SaveCategory upserts a category by ID.
func (r *Remote) SaveCategory(ctx context.Context, category *model.Category) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	if err := r.call(ctx, "updateOne", apiRequest{
		Collection: CollectionCategories,
		Filter:     map[string]any{"id": category.ID},
		Update:     map[string]any{"$set": category},
		Upsert:     true,
	}, nil); err != nil {
		r.logger.Error().Err(err).Str("category_id", category.ID).Msg("failed to save category")
		return err
	}
	return nil
}
