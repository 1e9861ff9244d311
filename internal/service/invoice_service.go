package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"om-traders/internal/config"
	"om-traders/internal/model"
	"om-traders/internal/notify"
	"om-traders/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// invoiceService implements InvoiceService.
type invoiceService struct {
	store    storage.Store
	products ProductService
	notifier notify.Notifier
	validate *validator.Validate
	billing  config.BillingConfig
	logger   zerolog.Logger
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(
	store storage.Store,
	products ProductService,
	notifier notify.Notifier,
	billing config.BillingConfig,
	logger zerolog.Logger,
) InvoiceService {
	return &invoiceService{
		store:    store,
		products: products,
		notifier: notifier,
		validate: validator.New(),
		billing:  billing,
		logger:   logger.With().Str("service", "invoice").Logger(),
	}
}

// CreateInvoice assembles an invoice from the selected products, decrements
// catalogue stock and persists the result.
//
// Line prices are snapshots of the current product price; later price changes
// do not affect stored invoices. Available stock is re-checked here, at
// commit time, so an invoice can never drive stock negative. The stock
// decrements are a sequence of independent product saves, not a transaction:
// if one fails partway the invoice is not persisted, the decrements already
// applied are not rolled back, and the error reports exactly which items were
// applied so the damage is visible.
func (s *invoiceService) CreateInvoice(ctx context.Context, req *model.InvoiceRequest) (*model.Invoice, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	products, err := s.products.Products(ctx)
	if err != nil {
		s.notifier.Error("Error", "Failed to create invoice")
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	// Resolve every line before any write so a bad selection rejects whole.
	// Quantities are summed per product so a product appearing on several
	// lines is checked against its stock once, for the combined amount.
	items := make([]model.InvoiceItem, 0, len(req.Items))
	requested := make(map[string]int, len(req.Items))
	total := decimal.Zero
	for _, line := range req.Items {
		product, ok := byID[line.ProductID]
		if !ok {
			s.logger.Warn().Str("product_id", line.ProductID).Msg("invoiced product not found")
			s.notifier.Error("Error", "Invalid quantity or insufficient stock")
			return nil, model.ErrProductNotFound
		}
		if line.Quantity <= 0 {
			s.notifier.Error("Error", "Invalid quantity or insufficient stock")
			return nil, model.ErrInvalidQuantity
		}
		requested[line.ProductID] += line.Quantity
		if requested[line.ProductID] > product.Stock {
			s.logger.Warn().
				Str("product_id", product.ID).
				Int("requested", requested[line.ProductID]).
				Int("available", product.Stock).
				Msg("requested quantity exceeds stock")
			s.notifier.Error("Error", "Invalid quantity or insufficient stock")
			return nil, model.ErrInsufficientStock
		}

		item := model.InvoiceItem{
			ProductID: product.ID,
			Quantity:  line.Quantity,
			Price:     product.Price,
		}
		items = append(items, item)
		total = total.Add(item.Amount())
	}

	// Decrement stock once per distinct product, by the combined quantity.
	// Collect per-product outcomes so a partial failure is explicit rather
	// than silent.
	var applied, failed []string
	decremented := make(map[string]bool, len(requested))
	for _, item := range items {
		if decremented[item.ProductID] {
			continue
		}
		decremented[item.ProductID] = true

		product := byID[item.ProductID]
		product.Stock -= requested[item.ProductID]
		if err := s.products.Update(ctx, &product); err != nil {
			s.logger.Error().
				Err(err).
				Str("product_id", item.ProductID).
				Strs("applied", applied).
				Msg("stock decrement failed partway through invoice assembly")
			failed = append(failed, item.ProductID)
			break
		}
		applied = append(applied, item.ProductID)
	}
	if len(failed) > 0 {
		s.notifier.Error("Error", "Failed to create invoice")
		return nil, fmt.Errorf(
			"stock decrement failed for product %s (decremented: %s); invoice not created",
			failed[0], strings.Join(applied, ", "),
		)
	}

	invoice := &model.Invoice{
		ID:           uuid.NewString(),
		CustomerName: req.CustomerName,
		Address:      req.Address,
		Phone:        req.Phone,
		Items:        items,
		Total:        total,
		Date:         time.Now().UTC(),
		Status:       model.InvoiceStatusPending,
	}

	if err := s.store.SaveInvoice(ctx, invoice); err != nil {
		s.logger.Error().
			Err(err).
			Str("invoice_id", invoice.ID).
			Strs("stock_decremented", applied).
			Msg("failed to persist invoice after stock decrement")
		s.notifier.Error("Error", "Failed to create invoice")
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	s.logger.Info().
		Str("invoice_id", invoice.ID).
		Str("customer", invoice.CustomerName).
		Str("total", invoice.Total.StringFixed(2)).
		Int("item_count", len(items)).
		Msg("invoice created")
	s.notifier.Success("Invoice created",
		fmt.Sprintf("Invoice for %s has been created successfully.", invoice.CustomerName))

	return invoice, nil
}

// Invoices returns all invoices sorted by date, newest first.
func (s *invoiceService) Invoices(ctx context.Context) ([]model.Invoice, error) {
	invoices, err := s.store.GetInvoices(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch invoices")
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	sort.Slice(invoices, func(i, j int) bool {
		return invoices[i].Date.After(invoices[j].Date)
	})
	return invoices, nil
}

// GetByID retrieves a single invoice.
func (s *invoiceService) GetByID(ctx context.Context, id string) (*model.Invoice, error) {
	invoices, err := s.store.GetInvoices(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("invoice_id", id).Msg("failed to fetch invoices")
		return nil, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	for i := range invoices {
		if invoices[i].ID == id {
			return &invoices[i], nil
		}
	}
	return nil, model.ErrInvoiceNotFound
}

// MarkPaid transitions a pending invoice to paid. Paying an already-paid
// invoice is a no-op; there is no transition out of paid.
func (s *invoiceService) MarkPaid(ctx context.Context, id string) (*model.Invoice, error) {
	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if invoice.Status == model.InvoiceStatusPaid {
		return invoice, nil
	}
	if invoice.Status != model.InvoiceStatusPending {
		return nil, model.ErrInvalidStatus
	}

	if err := s.store.UpdateInvoiceStatus(ctx, id, model.InvoiceStatusPaid); err != nil {
		s.logger.Error().Err(err).Str("invoice_id", id).Msg("failed to mark invoice paid")
		s.notifier.Error("Error", "Failed to update invoice")
		return nil, fmt.Errorf("failed to mark invoice paid: %w", err)
	}

	invoice.Status = model.InvoiceStatusPaid
	s.notifier.Success("Invoice updated",
		fmt.Sprintf("Invoice for %s has been marked as paid.", invoice.CustomerName))
	return invoice, nil
}

func (s *invoiceService) validateRequest(req *model.InvoiceRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeMissingField, "Invoice request is required")
	}
	if err := s.validate.Struct(req); err != nil {
		s.logger.Warn().Err(err).Msg("invalid invoice request")
		s.notifier.Error("Error", "Please fill in all required fields")
		return model.NewDomainError(model.ErrCodeMissingField, "Please fill in all required fields")
	}
	if s.billing.RequireAddress && strings.TrimSpace(req.Address) == "" {
		s.notifier.Error("Error", "Please fill in all required fields")
		return model.NewDomainError(model.ErrCodeMissingField, "Customer address is required")
	}
	if s.billing.RequirePhone && strings.TrimSpace(req.Phone) == "" {
		s.notifier.Error("Error", "Please fill in all required fields")
		return model.NewDomainError(model.ErrCodeMissingField, "Customer phone is required")
	}
	return nil
}
