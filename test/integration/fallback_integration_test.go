package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"om-traders/internal/config"
	"om-traders/internal/model"
	"om-traders/internal/storage"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenRemote points a real remote client at a server that fails every
// call, so each operation takes the fallback path.
func brokenRemote(t *testing.T) storage.Backend {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	return storage.NewRemote(config.RemoteConfig{
		Enabled:    true,
		BaseURL:    server.URL,
		APIKey:     "remote-key",
		DataSource: "Cluster0",
		Database:   "om_traders",
		Timeout:    2,
	}, zerolog.Nop())
}

func TestFallback_RemoteDownAppStillWorks(t *testing.T) {
	app := SetupTestApp(t, brokenRemote(t))

	// Every operation silently lands on the local store.
	rec := doRequest(t, app, http.MethodPost, "/api/products", model.ProductRequest{
		Name: "Pipe 2in", Price: decimal.NewFromInt(150), Stock: 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var product model.Product
	decodeBody(t, rec, &product)

	rec = doRequest(t, app, http.MethodPost, "/api/invoices", model.InvoiceRequest{
		CustomerName: "Asha",
		Address:      "Niphad, Nashik",
		Phone:        "9999999999",
		Items:        []model.InvoiceItemRequest{{ProductID: product.ID, Quantity: 3}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var invoice model.Invoice
	decodeBody(t, rec, &invoice)
	assert.True(t, invoice.Total.Equal(decimal.NewFromInt(450)))

	// The advisory flag reports the degraded path.
	assert.True(t, app.Store.UsingFallback())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	health := httptest.NewRecorder()
	app.Handler.ServeHTTP(health, req)
	require.Equal(t, http.StatusOK, health.Code)
	assert.JSONEq(t, `{"status": "healthy", "storage": "local"}`, health.Body.String())
}

func TestFallback_HealthyRemoteServesCalls(t *testing.T) {
	// A second local store stands in for a healthy remote backend; the
	// fallback layer only needs the Backend contract.
	remote, err := storage.OpenLocal(filepath.Join(t.TempDir(), "remote.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { remote.Close() })

	app := SetupTestApp(t, remote)

	rec := doRequest(t, app, http.MethodPost, "/api/products", model.ProductRequest{
		Name: "Wire Roll", Price: decimal.NewFromInt(900), Stock: 3,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.False(t, app.Store.UsingFallback())

	// The write landed on the remote backend.
	products, err := remote.GetProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Wire Roll", products[0].Name)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	health := httptest.NewRecorder()
	app.Handler.ServeHTTP(health, req)
	assert.JSONEq(t, `{"status": "healthy", "storage": "remote"}`, health.Body.String())
}
