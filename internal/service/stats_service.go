package service

import (
	"context"
	"fmt"
	"sort"

	"om-traders/internal/model"
	"om-traders/internal/storage"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const topProductCount = 5

// statsService implements StatsService by aggregating over the full product
// and invoice collections on every call. Figures are derived from invoice
// line snapshots, so later price changes do not rewrite history.
type statsService struct {
	store             storage.Store
	lowStockThreshold int
	logger            zerolog.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(store storage.Store, lowStockThreshold int, logger zerolog.Logger) StatsService {
	return &statsService{
		store:             store,
		lowStockThreshold: lowStockThreshold,
		logger:            logger.With().Str("service", "stats").Logger(),
	}
}

// Dashboard computes the dashboard summary: entity counts, total revenue
// across all invoices, the five best-selling products by units sold, and the
// products running low on stock.
func (s *statsService) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	products, err := s.store.GetProducts(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch products for dashboard")
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	invoices, err := s.store.GetInvoices(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch invoices for dashboard")
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	revenue := decimal.Zero
	sales := make(map[string]*model.ProductSales)
	for _, invoice := range invoices {
		revenue = revenue.Add(invoice.Total)
		for _, item := range invoice.Items {
			product, ok := byID[item.ProductID]
			if !ok {
				// Product deleted since the invoice was written; it no
				// longer appears in top sellers, matching the dashboard.
				continue
			}
			entry := sales[product.ID]
			if entry == nil {
				entry = &model.ProductSales{ID: product.ID, Name: product.Name}
				sales[product.ID] = entry
			}
			entry.TotalSold += item.Quantity
			entry.Revenue = entry.Revenue.Add(item.Amount())
		}
	}

	top := make([]model.ProductSales, 0, len(sales))
	for _, entry := range sales {
		top = append(top, *entry)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].TotalSold != top[j].TotalSold {
			return top[i].TotalSold > top[j].TotalSold
		}
		return top[i].Name < top[j].Name
	})
	if len(top) > topProductCount {
		top = top[:topProductCount]
	}

	var lowStock []model.Product
	for _, p := range products {
		if p.Stock < s.lowStockThreshold {
			lowStock = append(lowStock, p)
		}
	}

	return &model.DashboardStats{
		TotalProducts: len(products),
		TotalInvoices: len(invoices),
		TotalRevenue:  revenue,
		TopProducts:   top,
		LowStock:      lowStock,
	}, nil
}
