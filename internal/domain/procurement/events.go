package procurement

import (
	"github.com/fleet/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypePurchaseOrder = "PurchaseOrder"
	AggregateTypeInvoice       = "Invoice"
)

// Event type constants
const (
	EventTypePurchaseOrderCreated = "PurchaseOrderCreated"
	EventTypePurchaseOrderDeleted = "PurchaseOrderDeleted"
	EventTypeInvoiceCreated       = "InvoiceCreated"
	EventTypeInvoiceDeleted       = "InvoiceDeleted"
)

// PurchaseOrderCreatedEvent is raised when a new purchase order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID       `json:"order_id"`
	Code      string          `json:"code"`
	Supplier  string          `json:"supplier"`
	ProjectID *uuid.UUID      `json:"project_id,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(order *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		Code:            order.Code,
		Supplier:        order.Supplier,
		ProjectID:       order.ProjectID,
		Amount:          order.Amount,
	}
}

// PurchaseOrderDeletedEvent is raised when a purchase order is logically deleted
type PurchaseOrderDeletedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
	Code    string    `json:"code"`
	// DetachedInvoices and DetachedItems are filled once the cascade ran
	DetachedInvoices int64 `json:"detached_invoices"`
	DetachedItems    int64 `json:"detached_items"`
}

// NewPurchaseOrderDeletedEvent creates a new PurchaseOrderDeletedEvent
func NewPurchaseOrderDeletedEvent(order *PurchaseOrder) *PurchaseOrderDeletedEvent {
	return &PurchaseOrderDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderDeleted, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		Code:            order.Code,
	}
}

// InvoiceCreatedEvent is raised when an invoice is registered
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID       uuid.UUID       `json:"invoice_id"`
	Code            string          `json:"code"`
	PurchaseOrderID *uuid.UUID      `json:"purchase_order_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(invoice *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, invoice.ID),
		InvoiceID:       invoice.ID,
		Code:            invoice.Code,
		PurchaseOrderID: invoice.PurchaseOrderID,
		Amount:          invoice.Amount,
	}
}

// InvoiceDeletedEvent is raised when an invoice is logically deleted
type InvoiceDeletedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID `json:"invoice_id"`
	Code          string    `json:"code"`
	DetachedItems int64     `json:"detached_items"`
}

// NewInvoiceDeletedEvent creates a new InvoiceDeletedEvent
func NewInvoiceDeletedEvent(invoice *Invoice) *InvoiceDeletedEvent {
	return &InvoiceDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceDeleted, AggregateTypeInvoice, invoice.ID),
		InvoiceID:       invoice.ID,
		Code:            invoice.Code,
	}
}
