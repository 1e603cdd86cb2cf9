package procurement

import (
	"strings"
	"time"

	"github.com/fleet/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrder is a supplier order that owns invoices and directly assigned items.
// It is either independent or bound to a project.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	shared.SoftDelete
	Code      string
	Supplier  string
	ProjectID *uuid.UUID
	Amount    decimal.Decimal
	Notes     string
}

// NewPurchaseOrder creates a new purchase order
func NewPurchaseOrder(code, supplier string, projectID *uuid.UUID, amount decimal.Decimal) (*PurchaseOrder, error) {
	code = strings.TrimSpace(code)
	supplier = strings.TrimSpace(supplier)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_CODE", "Order code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_CODE", "Order code cannot exceed 50 characters")
	}
	if supplier == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	if projectID != nil && *projectID == uuid.Nil {
		projectID = nil
	}

	order := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SoftDelete:        shared.Live(),
		Code:              code,
		Supplier:          supplier,
		ProjectID:         projectID,
		Amount:            amount,
	}

	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))

	return order, nil
}

// IsIndependent reports whether the order is not bound to a project
func (o *PurchaseOrder) IsIndependent() bool {
	return o.ProjectID == nil
}

// Update changes the mutable header fields of the order
func (o *PurchaseOrder) Update(supplier string, projectID *uuid.UUID, amount decimal.Decimal, notes string) error {
	if o.IsDeleted() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a deleted purchase order")
	}
	supplier = strings.TrimSpace(supplier)
	if supplier == "" {
		return shared.NewDomainError("INVALID_SUPPLIER", "Supplier cannot be empty")
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	if projectID != nil && *projectID == uuid.Nil {
		projectID = nil
	}

	o.Supplier = supplier
	o.ProjectID = projectID
	o.Amount = amount
	o.Notes = notes
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// Delete logically deletes the order. Detaching invoices and items is done by
// the repository in the same transaction.
func (o *PurchaseOrder) Delete() error {
	if o.IsDeleted() {
		return shared.NewDomainError("INVALID_STATE", "Purchase order is already deleted")
	}
	now := time.Now()
	o.MarkDeleted(now)
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderDeletedEvent(o))
	return nil
}
