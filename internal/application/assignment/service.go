// Package assignment links inventory items to purchase orders and invoices.
package assignment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fleet/backend/internal/domain/assignment"
	"github.com/fleet/backend/internal/domain/inventory"
	"github.com/fleet/backend/internal/domain/procurement"
	"github.com/fleet/backend/internal/domain/shared"
	"github.com/fleet/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// AssignmentService validates and applies assignment requests.
// It holds no locks: the repository's conditional update is the only
// arbiter between concurrent requests for the same item.
type AssignmentService struct {
	assignments assignment.Repository
	orders      procurement.PurchaseOrderRepository
	invoices    procurement.InvoiceRepository
	items       inventory.InventoryItemRepository
	events      shared.EventPublisher
	metrics     *telemetry.Metrics
	logger      *zap.Logger
}

// NewAssignmentService creates a new AssignmentService
func NewAssignmentService(
	assignments assignment.Repository,
	orders procurement.PurchaseOrderRepository,
	invoices procurement.InvoiceRepository,
	items inventory.InventoryItemRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		assignments: assignments,
		orders:      orders,
		invoices:    invoices,
		items:       items,
		events:      events,
		logger:      logger,
	}
}

// SetMetrics sets the Prometheus collectors
func (s *AssignmentService) SetMetrics(m *telemetry.Metrics) {
	s.metrics = m
}

// AssignToPurchaseOrder links items directly to an order
func (s *AssignmentService) AssignToPurchaseOrder(ctx context.Context, orderID uuid.UUID, rawIDs []string) (*ResultDTO, error) {
	ids, err := ParseItemIDs(rawIDs)
	if err != nil {
		return nil, err
	}
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.assign(ctx, assignment.OrderTarget(order), ids)
}

// AssignToInvoice links items to an invoice, independent or not
func (s *AssignmentService) AssignToInvoice(ctx context.Context, invoiceID uuid.UUID, rawIDs []string) (*ResultDTO, error) {
	ids, err := ParseItemIDs(rawIDs)
	if err != nil {
		return nil, err
	}
	invoice, err := s.findInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return s.assign(ctx, assignment.InvoiceTarget(invoice), ids)
}

// AssignToOrderInvoice links items to an invoice reached through its order.
// The invoice must belong to that order.
func (s *AssignmentService) AssignToOrderInvoice(ctx context.Context, orderID, invoiceID uuid.UUID, rawIDs []string) (*ResultDTO, error) {
	ids, err := ParseItemIDs(rawIDs)
	if err != nil {
		return nil, err
	}
	invoice, err := s.findOrderInvoice(ctx, orderID, invoiceID)
	if err != nil {
		return nil, err
	}
	return s.assign(ctx, assignment.InvoiceTarget(invoice), ids)
}

// Preview classifies a batch against a target without writing anything
func (s *AssignmentService) Preview(ctx context.Context, req PreviewRequest) (*ResultDTO, error) {
	targetType, err := assignment.ParseTargetType(req.TargetType)
	if err != nil {
		return nil, err
	}
	targetID, err := uuid.Parse(strings.TrimSpace(req.TargetID))
	if err != nil {
		return nil, shared.InvalidInput("target_id must be a UUID")
	}
	ids, err := ParseItemIDs(req.InventoryIDs)
	if err != nil {
		return nil, err
	}
	return s.PreviewItems(ctx, targetType, targetID, ids)
}

// PreviewItems is Preview for already parsed IDs. An empty batch yields an empty result.
func (s *AssignmentService) PreviewItems(ctx context.Context, targetType assignment.TargetType, targetID uuid.UUID, ids []uuid.UUID) (*ResultDTO, error) {
	target, err := s.loadTarget(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}
	snapshots, err := s.assignments.LoadOwnership(ctx, ids)
	if err != nil {
		return nil, err
	}
	return ToResultDTO(assignment.Partition(ids, snapshots, target)), nil
}

// assign partitions the batch, persists the available part and reports the rest.
// The returned DTO is non-nil whenever the batch was processed, including
// when a *ConflictError is returned alongside it.
func (s *AssignmentService) assign(ctx context.Context, target assignment.Target, ids []uuid.UUID) (dto *ResultDTO, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "assignment", "assign",
		attribute.String("target.type", target.Type.String()),
		attribute.String("target.code", target.Code),
		attribute.Int("items.requested", len(ids)),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	snapshots, err := s.assignments.LoadOwnership(ctx, ids)
	if err != nil {
		return nil, err
	}
	result := assignment.Partition(ids, snapshots, target)

	if len(result.Available) > 0 {
		result, err = s.assignments.Link(ctx, result)
		if err != nil {
			return nil, fmt.Errorf("assign to %s %s: %w", target.Type, target.Code, err)
		}
	}

	s.publishAssigned(ctx, result)
	if s.metrics != nil {
		s.metrics.ObserveAssignment(target.Type.String(),
			len(result.Available), len(result.AlreadyAssigned), len(result.Unavailable), len(result.Missing))
	}
	span.SetAttributes(
		attribute.Int("items.linked", len(result.Available)),
		attribute.Int("items.conflicts", len(result.Unavailable)),
	)

	s.logger.Info("assignment processed",
		zap.String("target_type", target.Type.String()),
		zap.String("target_code", target.Code),
		zap.Int("linked", len(result.Available)),
		zap.Int("already_assigned", len(result.AlreadyAssigned)),
		zap.Int("conflicts", len(result.Unavailable)),
		zap.Int("missing", len(result.Missing)),
	)

	dto = ToResultDTO(result)
	if result.HasConflicts() {
		return dto, assignment.NewConflictError(result)
	}
	return dto, nil
}

func (s *AssignmentService) publishAssigned(ctx context.Context, result assignment.Result) {
	if s.events == nil || len(result.Available) == 0 {
		return
	}
	events := make([]shared.DomainEvent, len(result.Available))
	for i, item := range result.Available {
		events[i] = inventory.NewInventoryAssignedEvent(item.ItemID, item.SerialNumber,
			result.Target.Type.String(), result.Target.ID, result.Target.Code)
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish assignment events", zap.Error(err))
	}
}

// Unassign clears one link of an item. Clearing an empty slot succeeds without changes.
func (s *AssignmentService) Unassign(ctx context.Context, itemID uuid.UUID, slot assignment.TargetType) (*UnassignResult, error) {
	return s.unassign(ctx, itemID, slot, nil)
}

// UnassignFromPurchaseOrder clears the order link of an item held by orderID
func (s *AssignmentService) UnassignFromPurchaseOrder(ctx context.Context, orderID, itemID uuid.UUID) (*UnassignResult, error) {
	if _, err := s.findOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return s.unassign(ctx, itemID, assignment.TargetPurchaseOrder, &orderID)
}

// UnassignFromInvoice clears the invoice link of an item held by invoiceID
func (s *AssignmentService) UnassignFromInvoice(ctx context.Context, invoiceID, itemID uuid.UUID) (*UnassignResult, error) {
	if _, err := s.findInvoice(ctx, invoiceID); err != nil {
		return nil, err
	}
	return s.unassign(ctx, itemID, assignment.TargetInvoice, &invoiceID)
}

// UnassignFromOrderInvoice is UnassignFromInvoice reached through the invoice's order
func (s *AssignmentService) UnassignFromOrderInvoice(ctx context.Context, orderID, invoiceID, itemID uuid.UUID) (*UnassignResult, error) {
	if _, err := s.findOrderInvoice(ctx, orderID, invoiceID); err != nil {
		return nil, err
	}
	return s.unassign(ctx, itemID, assignment.TargetInvoice, &invoiceID)
}

// unassign clears slot. With a non-nil owner the item must currently be held
// by owner, otherwise the item is reported as not found under that owner.
func (s *AssignmentService) unassign(ctx context.Context, itemID uuid.UUID, slot assignment.TargetType, owner *uuid.UUID) (*UnassignResult, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, translateNotFound(err, "Inventory item")
	}

	changed, err := s.assignments.Unlink(ctx, itemID, slot, owner)
	if err != nil {
		return nil, err
	}
	if !changed && owner != nil {
		return nil, shared.NotFound("Inventory item linked to this " + strings.ToLower(strings.ReplaceAll(slot.String(), "_", " ")))
	}

	previous := item.PurchaseOrderID
	if slot == assignment.TargetInvoice {
		previous = item.InvoiceID
	}
	if changed {
		if slot == assignment.TargetInvoice {
			item.InvoiceID = nil
		} else {
			item.PurchaseOrderID = nil
		}
		s.publishUnassigned(ctx, itemID, slot, previous, owner)
		if s.metrics != nil {
			s.metrics.ObserveUnassignment(slot.String())
		}
	}

	return &UnassignResult{
		ItemID:          item.ID,
		SerialNumber:    item.SerialNumber,
		Slot:            slot.String(),
		Changed:         changed,
		PurchaseOrderID: item.PurchaseOrderID,
		InvoiceID:       item.InvoiceID,
	}, nil
}

func (s *AssignmentService) publishUnassigned(ctx context.Context, itemID uuid.UUID, slot assignment.TargetType, previous, owner *uuid.UUID) {
	if s.events == nil {
		return
	}
	targetID := uuid.Nil
	if owner != nil {
		targetID = *owner
	} else if previous != nil {
		targetID = *previous
	}
	if err := s.events.Publish(ctx, inventory.NewInventoryUnassignedEvent(itemID, slot.String(), targetID)); err != nil {
		s.logger.Warn("failed to publish unassignment event", zap.Error(err))
	}
}

func (s *AssignmentService) loadTarget(ctx context.Context, targetType assignment.TargetType, id uuid.UUID) (assignment.Target, error) {
	switch targetType {
	case assignment.TargetPurchaseOrder:
		order, err := s.findOrder(ctx, id)
		if err != nil {
			return assignment.Target{}, err
		}
		return assignment.OrderTarget(order), nil
	case assignment.TargetInvoice:
		invoice, err := s.findInvoice(ctx, id)
		if err != nil {
			return assignment.Target{}, err
		}
		return assignment.InvoiceTarget(invoice), nil
	}
	return assignment.Target{}, shared.InvalidInput("target type must be PURCHASE_ORDER or INVOICE")
}

func (s *AssignmentService) findOrder(ctx context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, "Purchase order")
	}
	return order, nil
}

func (s *AssignmentService) findInvoice(ctx context.Context, id uuid.UUID) (*procurement.Invoice, error) {
	invoice, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, "Invoice")
	}
	return invoice, nil
}

func (s *AssignmentService) findOrderInvoice(ctx context.Context, orderID, invoiceID uuid.UUID) (*procurement.Invoice, error) {
	if _, err := s.findOrder(ctx, orderID); err != nil {
		return nil, err
	}
	invoice, err := s.findInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !invoice.BelongsTo(orderID) {
		return nil, shared.NotFound("Invoice of this purchase order")
	}
	return invoice, nil
}

// ParseItemIDs validates and de-duplicates raw item IDs, keeping first-seen order
func ParseItemIDs(raw []string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, shared.InvalidInput("inventoryIds must contain at least one id")
	}
	if len(raw) > MaxBatchSize {
		return nil, shared.InvalidInput(fmt.Sprintf("inventoryIds cannot contain more than %d ids", MaxBatchSize))
	}
	ids := make([]uuid.UUID, 0, len(raw))
	seen := make(map[uuid.UUID]struct{}, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(strings.TrimSpace(r))
		if err != nil || id == uuid.Nil {
			return nil, shared.InvalidInput(fmt.Sprintf("invalid inventory id %q", r))
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func translateNotFound(err error, resource string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NotFound(resource)
	}
	return err
}
