package procurement

import (
	"context"
	"errors"

	"github.com/fleet/backend/internal/domain/inventory"
	"github.com/fleet/backend/internal/domain/procurement"
	"github.com/fleet/backend/internal/domain/shared"
	"github.com/fleet/backend/internal/infrastructure/event"
	"github.com/fleet/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// detailItemLimit caps the items embedded in a detail response; the full list is paginated separately
const detailItemLimit = 100

// PurchaseOrderService handles purchase order operations
type PurchaseOrderService struct {
	orderRepo   procurement.PurchaseOrderRepository
	invoiceRepo procurement.InvoiceRepository
	projectRepo procurement.ProjectRepository
	itemRepo    inventory.InventoryItemRepository
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	orderRepo procurement.PurchaseOrderRepository,
	invoiceRepo procurement.InvoiceRepository,
	projectRepo procurement.ProjectRepository,
	itemRepo inventory.InventoryItemRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *PurchaseOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseOrderService{
		orderRepo:   orderRepo,
		invoiceRepo: invoiceRepo,
		projectRepo: projectRepo,
		itemRepo:    itemRepo,
		events:      events,
		logger:      logger,
	}
}

// Create creates a new purchase order
func (s *PurchaseOrderService) Create(ctx context.Context, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	exists, err := s.orderRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.AlreadyExists("Purchase order with this code already exists")
	}
	if err := s.checkProject(ctx, req.ProjectID); err != nil {
		return nil, err
	}

	order, err := procurement.NewPurchaseOrder(req.Code, req.Supplier, req.ProjectID, req.Amount)
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		order.Notes = req.Notes
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publish(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByID retrieves an order with its invoices and directly assigned items
func (s *PurchaseOrderService) GetByID(ctx context.Context, id uuid.UUID) (*PurchaseOrderDetailResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, "Purchase order")
	}

	invoices, _, err := s.invoiceRepo.FindAll(ctx, procurement.InvoiceFilter{
		Filter:          shared.Filter{Page: 1, PageSize: 100, OrderBy: "code", OrderDir: "asc"},
		PurchaseOrderID: &order.ID,
	})
	if err != nil {
		return nil, err
	}
	items, total, err := s.itemRepo.FindAll(ctx, inventory.ItemFilter{
		Filter:          shared.Filter{Page: 1, PageSize: detailItemLimit, OrderBy: "serial_number", OrderDir: "asc"},
		PurchaseOrderID: &order.ID,
	})
	if err != nil {
		return nil, err
	}

	detail := &PurchaseOrderDetailResponse{
		PurchaseOrderResponse: ToPurchaseOrderResponse(order),
		Invoices:              make([]InvoiceResponse, len(invoices)),
		Items:                 toItemSummaries(items),
		ItemsTotal:            total,
	}
	for i := range invoices {
		detail.Invoices[i] = ToInvoiceResponse(&invoices[i])
	}
	return detail, nil
}

// List lists live purchase orders
func (s *PurchaseOrderService) List(ctx context.Context, filter OrderListFilter) ([]PurchaseOrderResponse, int64, error) {
	orders, total, err := s.orderRepo.FindAll(ctx, procurement.OrderFilter{
		Filter:          filter.toDomain(),
		ProjectID:       filter.ProjectID,
		IndependentOnly: filter.IndependentOnly,
	})
	if err != nil {
		return nil, 0, err
	}
	responses := make([]PurchaseOrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToPurchaseOrderResponse(&orders[i])
	}
	return responses, total, nil
}

// Update changes supplier, project, amount and notes
func (s *PurchaseOrderService) Update(ctx context.Context, id uuid.UUID, req UpdatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, "Purchase order")
	}
	if err := s.checkProject(ctx, req.ProjectID); err != nil {
		return nil, err
	}
	if err := order.Update(req.Supplier, req.ProjectID, req.Amount, req.Notes); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Delete detaches the order's invoices and items and logically deletes it.
// Invoices survive as independent invoices; items keep their invoice link.
func (s *PurchaseOrderService) Delete(ctx context.Context, id uuid.UUID) (result *DeleteResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_order", "delete",
		attribute.String("purchase_order.id", id.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, "Purchase order")
	}
	if err := order.Delete(); err != nil {
		return nil, err
	}

	detached, err := s.orderRepo.DeleteCascade(ctx, order)
	if err != nil {
		return nil, err
	}
	for _, e := range order.GetDomainEvents() {
		if deleted, ok := e.(*procurement.PurchaseOrderDeletedEvent); ok {
			deleted.DetachedInvoices = detached.Invoices
			deleted.DetachedItems = detached.Items
		}
	}
	s.publish(ctx, order)

	s.logger.Info("purchase order deleted",
		zap.String("code", order.Code),
		zap.Int64("detached_invoices", detached.Invoices),
		zap.Int64("detached_items", detached.Items),
	)

	return &DeleteResponse{
		ID:               order.ID,
		Code:             order.Code,
		DetachedInvoices: detached.Invoices,
		DetachedItems:    detached.Items,
	}, nil
}

func (s *PurchaseOrderService) checkProject(ctx context.Context, projectID *uuid.UUID) error {
	if projectID == nil || *projectID == uuid.Nil {
		return nil
	}
	if _, err := s.projectRepo.FindByID(ctx, *projectID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.InvalidInput("project_id does not reference an existing project")
		}
		return err
	}
	return nil
}

func (s *PurchaseOrderService) publish(ctx context.Context, order *procurement.PurchaseOrder) {
	if err := event.PublishPending(ctx, s.events, order); err != nil {
		s.logger.Warn("failed to publish purchase order events", zap.Error(err))
	}
}

func translateNotFound(err error, resource string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NotFound(resource)
	}
	return err
}
