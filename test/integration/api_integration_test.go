package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"om-traders/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, app *TestApp, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testAPIKey)

	rec := httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestBillingFlow(t *testing.T) {
	app := SetupTestApp(t, nil)

	// Add a product to the catalogue.
	rec := doRequest(t, app, http.MethodPost, "/api/products", model.ProductRequest{
		Name:     "Pipe 2in",
		Price:    decimal.NewFromInt(150),
		Category: "Plumbing",
		Stock:    10,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var product model.Product
	decodeBody(t, rec, &product)
	require.NotEmpty(t, product.ID)

	// Bill three units to a customer.
	rec = doRequest(t, app, http.MethodPost, "/api/invoices", model.InvoiceRequest{
		CustomerName: "Asha",
		Address:      "Niphad, Nashik",
		Phone:        "9999999999",
		Items: []model.InvoiceItemRequest{
			{ProductID: product.ID, Quantity: 3},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var invoice model.Invoice
	decodeBody(t, rec, &invoice)
	assert.True(t, invoice.Total.Equal(decimal.NewFromFloat(450.00)),
		"expected total 450.00, got %s", invoice.Total)
	assert.Equal(t, model.InvoiceStatusPending, invoice.Status)
	require.Len(t, invoice.Items, 1)
	assert.True(t, invoice.Items[0].Price.Equal(decimal.NewFromInt(150)))

	// Stock is decremented.
	rec = doRequest(t, app, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var products []model.Product
	decodeBody(t, rec, &products)
	require.Len(t, products, 1)
	assert.Equal(t, 7, products[0].Stock)

	// A later price change does not rewrite the stored invoice.
	products[0].Price = decimal.NewFromInt(999)
	rec = doRequest(t, app, http.MethodPut, "/api/products/"+product.ID, products[0])
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, app, http.MethodGet, "/api/invoices", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var invoices []model.Invoice
	decodeBody(t, rec, &invoices)
	require.Len(t, invoices, 1)
	assert.True(t, invoices[0].Total.Equal(decimal.NewFromFloat(450.00)))
	assert.True(t, invoices[0].Items[0].Price.Equal(decimal.NewFromInt(150)))

	// Mark the invoice paid.
	rec = doRequest(t, app, http.MethodPost, "/api/invoices/"+invoice.ID+"/pay", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var paid model.Invoice
	decodeBody(t, rec, &paid)
	assert.Equal(t, model.InvoiceStatusPaid, paid.Status)

	// Paying again is a no-op.
	rec = doRequest(t, app, http.MethodPost, "/api/invoices/"+invoice.ID+"/pay", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// The printable document reflects the stored bill.
	rec = doRequest(t, app, http.MethodGet, "/api/invoices/"+invoice.ID+"/document", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Om Traders")
	assert.Contains(t, rec.Body.String(), "Name: Asha")
	assert.Contains(t, rec.Body.String(), "Pipe 2in")
	assert.Contains(t, rec.Body.String(), "Four Hundred Fifty Rupees Only")
}

func TestBillingFlow_InsufficientStockRejectsWholeInvoice(t *testing.T) {
	app := SetupTestApp(t, nil)

	rec := doRequest(t, app, http.MethodPost, "/api/products", model.ProductRequest{
		Name: "Elbow Joint", Price: decimal.NewFromFloat(35.50), Stock: 4,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var product model.Product
	decodeBody(t, rec, &product)

	rec = doRequest(t, app, http.MethodPost, "/api/invoices", model.InvoiceRequest{
		CustomerName: "Ravi",
		Address:      "Nashik",
		Phone:        "8888888888",
		Items: []model.InvoiceItemRequest{
			{ProductID: product.ID, Quantity: 5},
		},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp model.ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, model.ErrCodeInsufficientStock, resp.Error)

	// Stock is untouched and no invoice exists.
	rec = doRequest(t, app, http.MethodGet, "/api/products", nil)
	var products []model.Product
	decodeBody(t, rec, &products)
	require.Len(t, products, 1)
	assert.Equal(t, 4, products[0].Stock)

	rec = doRequest(t, app, http.MethodGet, "/api/invoices", nil)
	var invoices []model.Invoice
	decodeBody(t, rec, &invoices)
	assert.Empty(t, invoices)
}

func TestBillingFlow_RepeatedProductLinesCheckedAgainstCombinedStock(t *testing.T) {
	app := SetupTestApp(t, nil)

	rec := doRequest(t, app, http.MethodPost, "/api/products", model.ProductRequest{
		Name: "Pipe 2in", Price: decimal.NewFromInt(150), Stock: 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var product model.Product
	decodeBody(t, rec, &product)

	// Two lines of 6 each fit individually but oversell together.
	rec = doRequest(t, app, http.MethodPost, "/api/invoices", model.InvoiceRequest{
		CustomerName: "Asha",
		Address:      "Niphad, Nashik",
		Phone:        "9999999999",
		Items: []model.InvoiceItemRequest{
			{ProductID: product.ID, Quantity: 6},
			{ProductID: product.ID, Quantity: 6},
		},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	var resp model.ErrorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, model.ErrCodeInsufficientStock, resp.Error)

	// Stock is untouched and no invoice was written.
	rec = doRequest(t, app, http.MethodGet, "/api/products", nil)
	var products []model.Product
	decodeBody(t, rec, &products)
	require.Len(t, products, 1)
	assert.Equal(t, 10, products[0].Stock)

	// A combined quantity within stock bills both lines and deducts once.
	rec = doRequest(t, app, http.MethodPost, "/api/invoices", model.InvoiceRequest{
		CustomerName: "Asha",
		Address:      "Niphad, Nashik",
		Phone:        "9999999999",
		Items: []model.InvoiceItemRequest{
			{ProductID: product.ID, Quantity: 4},
			{ProductID: product.ID, Quantity: 3},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var invoice model.Invoice
	decodeBody(t, rec, &invoice)
	assert.True(t, invoice.Total.Equal(decimal.NewFromInt(1050)))

	rec = doRequest(t, app, http.MethodGet, "/api/products", nil)
	decodeBody(t, rec, &products)
	require.Len(t, products, 1)
	assert.Equal(t, 3, products[0].Stock)
}

func TestCategoriesAndStats(t *testing.T) {
	app := SetupTestApp(t, nil)

	rec := doRequest(t, app, http.MethodPost, "/api/categories", model.CategoryRequest{Name: "Electricals"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, app, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var categories []model.Category
	decodeBody(t, rec, &categories)
	require.Len(t, categories, 1)
	assert.Equal(t, "Electricals", categories[0].Name)

	// Seed a product and an invoice, then check the dashboard.
	rec = doRequest(t, app, http.MethodPost, "/api/products", model.ProductRequest{
		Name: "Wire Roll", Price: decimal.NewFromInt(900), Stock: 3,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var product model.Product
	decodeBody(t, rec, &product)

	rec = doRequest(t, app, http.MethodPost, "/api/invoices", model.InvoiceRequest{
		CustomerName: "Meena",
		Address:      "Nashik",
		Phone:        "7777777777",
		Items:        []model.InvoiceItemRequest{{ProductID: product.ID, Quantity: 2}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, app, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats model.DashboardStats
	decodeBody(t, rec, &stats)
	assert.Equal(t, 1, stats.TotalProducts)
	assert.Equal(t, 1, stats.TotalInvoices)
	assert.True(t, stats.TotalRevenue.Equal(decimal.NewFromInt(1800)))
	require.Len(t, stats.TopProducts, 1)
	assert.Equal(t, 2, stats.TopProducts[0].TotalSold)
	// Stock 1 after the sale, under the threshold of 5.
	require.Len(t, stats.LowStock, 1)
	assert.Equal(t, product.ID, stats.LowStock[0].ID)
}

func TestAuth(t *testing.T) {
	app := SetupTestApp(t, nil)

	// Health endpoint needs no key.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "healthy", "storage": "local"}`, rec.Body.String())

	// API routes reject a missing key.
	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec = httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// And a wrong key.
	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec = httptest.NewRecorder()
	app.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
