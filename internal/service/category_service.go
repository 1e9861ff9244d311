package service

import (
	"context"
	"fmt"

	"om-traders/internal/model"
	"om-traders/internal/notify"
	"om-traders/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// categoryService implements CategoryService. Categories are simple named
// groupings with no cached state.
type categoryService struct {
	store    storage.Store
	notifier notify.Notifier
	logger   zerolog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(store storage.Store, notifier notify.Notifier, logger zerolog.Logger) CategoryService {
	return &categoryService{
		store:    store,
		notifier: notifier,
		logger:   logger.With().Str("service", "category").Logger(),
	}
}

func (s *categoryService) Categories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.store.GetCategories(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch categories")
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

func (s *categoryService) Add(ctx context.Context, req *model.CategoryRequest) (*model.Category, error) {
	if req == nil || req.Name == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Category name is required")
	}

	category := &model.Category{
		ID:   uuid.NewString(),
		Name: req.Name,
	}
	if err := s.store.SaveCategory(ctx, category); err != nil {
		s.logger.Error().Err(err).Str("name", req.Name).Msg("failed to save category")
		s.notifier.Error("Error", "Failed to add category")
		return nil, fmt.Errorf("failed to save category: %w", err)
	}
	return category, nil
}
