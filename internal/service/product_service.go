package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"om-traders/internal/model"
	"om-traders/internal/notify"
	"om-traders/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// productService implements ProductService. The cached list is refreshed in
// full after every mutation rather than patched incrementally; at catalogue
// scale the simplicity is worth more than the extra fetch.
type productService struct {
	store    storage.Store
	notifier notify.Notifier
	validate *validator.Validate
	logger   zerolog.Logger

	mu    sync.RWMutex
	cache []model.Product
	ready bool
}

// NewProductService creates a new product service.
func NewProductService(store storage.Store, notifier notify.Notifier, logger zerolog.Logger) ProductService {
	return &productService{
		store:    store,
		notifier: notifier,
		validate: validator.New(),
		logger:   logger.With().Str("service", "product").Logger(),
	}
}

// Products returns the cached product list, loading it on first use. When the
// cache has never been populated and the load fails, the error is returned;
// once populated, a failed refresh leaves the stale list available.
func (s *productService) Products(ctx context.Context) ([]model.Product, error) {
	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()

	if !ready {
		if err := s.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	products := make([]model.Product, len(s.cache))
	copy(products, s.cache)
	return products, nil
}

// Refresh reloads the cached list from storage. On failure the previous
// cached list is retained and an error notification is raised.
func (s *productService) Refresh(ctx context.Context) error {
	products, err := s.store.GetProducts(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to refresh product list")
		s.notifier.Error("Error", "Failed to fetch products")
		return fmt.Errorf("failed to refresh products: %w", err)
	}

	s.mu.Lock()
	s.cache = products
	s.ready = true
	s.mu.Unlock()

	s.logger.Debug().Int("count", len(products)).Msg("product list refreshed")
	return nil
}

// Ready reports whether the cache has been populated at least once.
func (s *productService) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Add creates a new product from the request fields, persists it and
// refreshes the cached list.
func (s *productService) Add(ctx context.Context, req *model.ProductRequest) (*model.Product, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &model.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		Dimensions:  req.Dimensions,
		ImageURL:    req.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.SaveProduct(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("name", req.Name).Msg("failed to add product")
		s.notifier.Error("Error", "Failed to add product")
		return nil, fmt.Errorf("failed to add product: %w", err)
	}

	s.refreshAfterMutation(ctx)
	s.notifier.Success("Product added", fmt.Sprintf("%s has been added successfully.", product.Name))
	return product, nil
}

// Update upserts an existing product and refreshes the cached list.
func (s *productService) Update(ctx context.Context, product *model.Product) error {
	if product == nil || product.ID == "" {
		return model.ErrProductNotFound
	}
	if product.Name == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "Product name is required")
	}
	if product.Price.IsNegative() {
		return model.NewDomainError(model.ErrCodeMissingField, "Product price cannot be negative")
	}
	if product.Stock < 0 {
		return model.NewDomainError(model.ErrCodeInvalidQuantity, "Product stock cannot be negative")
	}

	if err := s.store.SaveProduct(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("product_id", product.ID).Msg("failed to update product")
		s.notifier.Error("Error", "Failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}

	s.refreshAfterMutation(ctx)
	s.notifier.Success("Product updated", fmt.Sprintf("%s has been updated successfully.", product.Name))
	return nil
}

// Delete removes a product by ID and refreshes the cached list. Deleting an
// unknown ID is not an error.
func (s *productService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		s.notifier.Error("Error", "Failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.refreshAfterMutation(ctx)
	s.notifier.Success("Product deleted", "The product has been deleted successfully.")
	return nil
}

// refreshAfterMutation refetches the list after a successful write. The write
// already succeeded, so a failed refetch only leaves the cache stale; it is
// logged by Refresh and not surfaced.
func (s *productService) refreshAfterMutation(ctx context.Context) {
	_ = s.Refresh(ctx)
}

func (s *productService) validateRequest(req *model.ProductRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeMissingField, "Product request is required")
	}
	if err := s.validate.Struct(req); err != nil {
		s.logger.Warn().Err(err).Msg("invalid product request")
		return model.NewDomainError(model.ErrCodeMissingField, "Please fill in all required fields")
	}
	if req.Price.IsNegative() {
		return model.NewDomainError(model.ErrCodeMissingField, "Product price cannot be negative")
	}
	return nil
}
