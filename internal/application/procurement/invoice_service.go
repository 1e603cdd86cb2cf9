package procurement

import (
	"context"

	"github.com/fleet/backend/internal/domain/inventory"
	"github.com/fleet/backend/internal/domain/procurement"
	"github.com/fleet/backend/internal/domain/shared"
	"github.com/fleet/backend/internal/infrastructure/event"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InvoiceService handles invoice operations
type InvoiceService struct {
	invoiceRepo procurement.InvoiceRepository
	orderRepo   procurement.PurchaseOrderRepository
	itemRepo    inventory.InventoryItemRepository
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo procurement.InvoiceRepository,
	orderRepo procurement.PurchaseOrderRepository,
	itemRepo inventory.InventoryItemRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		orderRepo:   orderRepo,
		itemRepo:    itemRepo,
		events:      events,
		logger:      logger,
	}
}

// Create creates an invoice, independent when req.PurchaseOrderID is nil
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	if req.PurchaseOrderID != nil && *req.PurchaseOrderID != uuid.Nil {
		if _, err := s.orderRepo.FindByID(ctx, *req.PurchaseOrderID); err != nil {
			return nil, translateNotFound(err, "Purchase order")
		}
	}

	exists, err := s.invoiceRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.AlreadyExists("Invoice with this code already exists")
	}

	invoice, err := procurement.NewInvoice(req.Code, req.Concept, req.Amount, req.PurchaseOrderID)
	if err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	s.publish(ctx, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// CreateForOrder creates an invoice owned by orderID
func (s *InvoiceService) CreateForOrder(ctx context.Context, orderID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	req.PurchaseOrderID = &orderID
	return s.Create(ctx, req)
}

// GetByID retrieves an invoice with its assigned items
func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*InvoiceDetailResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, "Invoice")
	}
	items, total, err := s.itemRepo.FindAll(ctx, inventory.ItemFilter{
		Filter:    shared.Filter{Page: 1, PageSize: detailItemLimit, OrderBy: "serial_number", OrderDir: "asc"},
		InvoiceID: &invoice.ID,
	})
	if err != nil {
		return nil, err
	}
	return &InvoiceDetailResponse{
		InvoiceResponse: ToInvoiceResponse(invoice),
		Items:           toItemSummaries(items),
		ItemsTotal:      total,
	}, nil
}

// List lists live invoices
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	invoices, total, err := s.invoiceRepo.FindAll(ctx, procurement.InvoiceFilter{
		Filter:          filter.toDomain(),
		PurchaseOrderID: filter.PurchaseOrderID,
		IndependentOnly: filter.IndependentOnly,
	})
	if err != nil {
		return nil, 0, err
	}
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses, total, nil
}

// ListForOrder lists the invoices of one order, failing if the order does not exist
func (s *InvoiceService) ListForOrder(ctx context.Context, orderID uuid.UUID, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	if _, err := s.orderRepo.FindByID(ctx, orderID); err != nil {
		return nil, 0, translateNotFound(err, "Purchase order")
	}
	filter.PurchaseOrderID = &orderID
	filter.IndependentOnly = false
	return s.List(ctx, filter)
}

// Update changes concept and amount
func (s *InvoiceService) Update(ctx context.Context, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, "Invoice")
	}
	if err := invoice.Update(req.Concept, req.Amount); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Delete clears the invoice link of its items and logically deletes it
func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID) (*DeleteResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, "Invoice")
	}
	if err := invoice.Delete(); err != nil {
		return nil, err
	}

	detached, err := s.invoiceRepo.DeleteCascade(ctx, invoice)
	if err != nil {
		return nil, err
	}
	for _, e := range invoice.GetDomainEvents() {
		if deleted, ok := e.(*procurement.InvoiceDeletedEvent); ok {
			deleted.DetachedItems = detached.Items
		}
	}
	s.publish(ctx, invoice)

	s.logger.Info("invoice deleted",
		zap.String("code", invoice.Code),
		zap.Int64("detached_items", detached.Items),
	)
	return &DeleteResponse{ID: invoice.ID, Code: invoice.Code, DetachedItems: detached.Items}, nil
}

func (s *InvoiceService) publish(ctx context.Context, invoice *procurement.Invoice) {
	if err := event.PublishPending(ctx, s.events, invoice); err != nil {
		s.logger.Warn("failed to publish invoice events", zap.Error(err))
	}
}
