package handler

import (
	"encoding/json"
	"net/http"

	"om-traders/internal/document"
	"om-traders/internal/model"
	"om-traders/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// InvoiceHandler handles billing-related HTTP requests.
type InvoiceHandler struct {
	invoices service.InvoiceService
	products service.ProductService
	logger   zerolog.Logger
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(invoices service.InvoiceService, products service.ProductService, logger zerolog.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoices: invoices,
		products: products,
		logger:   logger.With().Str("handler", "invoice").Logger(),
	}
}

// List handles GET /api/invoices requests. Invoices come back newest first.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.invoices.Invoices(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError,
			"failed to retrieve invoices", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

// Create handles POST /api/invoices requests: invoice assembly.
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.InvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON,
			"invalid request body", h.logger)
		return
	}

	invoice, err := h.invoices.CreateInvoice(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, "failed to create invoice", h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, invoice)
}

// MarkPaid handles POST /api/invoices/{id}/pay requests.
func (h *InvoiceHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField,
			"invoice ID is required", h.logger)
		return
	}

	invoice, err := h.invoices.MarkPaid(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "failed to update invoice", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

// Document handles GET /api/invoices/{id}/document requests, returning the
// printable plain-text form of the invoice.
func (h *InvoiceHandler) Document(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField,
			"invoice ID is required", h.logger)
		return
	}

	invoice, err := h.invoices.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "failed to retrieve invoice", h.logger)
		return
	}

	products, err := h.products.Products(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError,
			"failed to retrieve products", h.logger)
		return
	}

	text, err := document.RenderInvoice(invoice, products)
	if err != nil {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError,
			"failed to render invoice", h.logger)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(text))
}
