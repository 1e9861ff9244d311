package router

import (
	"net/http"

	"om-traders/internal/handler"
	"om-traders/internal/middleware"
	"om-traders/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates the HTTP router with all routes and middleware configured.
// The health endpoint stays outside API key auth and reports which storage
// path is serving calls, for advisory display only.
func New(
	productHandler *handler.ProductHandler,
	invoiceHandler *handler.InvoiceHandler,
	categoryHandler *handler.CategoryHandler,
	statsHandler *handler.StatsHandler,
	store storage.Store,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if store.UsingFallback() {
			w.Write([]byte(`{"status": "healthy", "storage": "local"}`))
			return
		}
		w.Write([]byte(`{"status": "healthy", "storage": "remote"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(apiKey, logger))

		r.Get("/products", productHandler.List)
		r.Post("/products", productHandler.Create)
		r.Put("/products/{id}", productHandler.Update)
		r.Delete("/products/{id}", productHandler.Delete)

		r.Get("/invoices", invoiceHandler.List)
		r.Post("/invoices", invoiceHandler.Create)
		r.Post("/invoices/{id}/pay", invoiceHandler.MarkPaid)
		r.Get("/invoices/{id}/document", invoiceHandler.Document)

		r.Get("/categories", categoryHandler.List)
		r.Post("/categories", categoryHandler.Create)

		r.Get("/stats", statsHandler.Dashboard)
	})

	return r
}
