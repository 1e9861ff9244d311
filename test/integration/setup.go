package integration

import (
	"net/http"
	"path/filepath"
	"testing"

	"om-traders/internal/config"
	"om-traders/internal/handler"
	"om-traders/internal/notify"
	"om-traders/internal/router"
	"om-traders/internal/service"
	"om-traders/internal/storage"

	"github.com/rs/zerolog"
)

const testAPIKey = "integration-test-key"

// TestApp is a fully wired application instance backed by a throwaway
// SQLite file, exercised through its HTTP router.
type TestApp struct {
	Handler http.Handler
	Store   storage.Store
}

// SetupTestApp wires the whole stack the way main does: local store,
// optional remote backend, services, handlers and router. When remote is
// nil the store runs local-only.
func SetupTestApp(t *testing.T, remote storage.Backend) *TestApp {
	t.Helper()

	logger := zerolog.Nop()

	local, err := storage.OpenLocal(filepath.Join(t.TempDir(), "om-traders.db"), logger)
	if err != nil {
		t.Fatalf("failed to open local store: %v", err)
	}
	t.Cleanup(func() { local.Close() })

	store := storage.NewFallback(remote, local, logger)
	notifier := notify.NewLogNotifier(logger)

	billing := config.BillingConfig{
		RequireAddress:    true,
		RequirePhone:      true,
		LowStockThreshold: 5,
	}

	productService := service.NewProductService(store, notifier, logger)
	invoiceService := service.NewInvoiceService(store, productService, notifier, billing, logger)
	categoryService := service.NewCategoryService(store, notifier, logger)
	statsService := service.NewStatsService(store, billing.LowStockThreshold, logger)

	productHandler := handler.NewProductHandler(productService, logger)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, productService, logger)
	categoryHandler := handler.NewCategoryHandler(categoryService, logger)
	statsHandler := handler.NewStatsHandler(statsService, logger)

	return &TestApp{
		Handler: router.New(
			productHandler, invoiceHandler, categoryHandler, statsHandler,
			store, testAPIKey, logger,
		),
		Store: store,
	}
}
