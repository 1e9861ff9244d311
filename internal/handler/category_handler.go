package handler

import (
	"encoding/json"
	"net/http"

	"om-traders/internal/model"
	"om-traders/internal/service"

	"github.com/rs/zerolog"
)

// CategoryHandler handles category-related HTTP requests.
type CategoryHandler struct {
	service service.CategoryService
	logger  zerolog.Logger
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(service service.CategoryService, logger zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		logger:  logger.With().Str("handler", "category").Logger(),
	}
}

// List handles GET /api/categories requests.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError,
			"failed to retrieve categories", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// Create handles POST /api/categories requests.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON,
			"invalid request body", h.logger)
		return
	}

	category, err := h.service.Add(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, "failed to create category", h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}
