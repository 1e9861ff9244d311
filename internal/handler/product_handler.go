package handler

import (
	"encoding/json"
	"net/http"

	"om-traders/internal/model"
	"om-traders/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/products requests.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Products(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError,
			"failed to retrieve products", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// Create handles POST /api/products requests.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON,
			"invalid request body", h.logger)
		return
	}

	product, err := h.service.Add(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, "failed to create product", h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// Update handles PUT /api/products/{id} requests.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField,
			"product ID is required", h.logger)
		return
	}

	var product model.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON,
			"invalid request body", h.logger)
		return
	}
	product.ID = id

	if err := h.service.Update(r.Context(), &product); err != nil {
		writeDomainError(w, err, "failed to update product", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /api/products/{id} requests. Deleting an unknown
// product succeeds; the end state is the same either way.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField,
			"product ID is required", h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err, "failed to delete product", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
