package procurement

import (
	"strings"
	"time"

	"github.com/fleet/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is a supplier invoice. It belongs to a purchase order or stands alone.
type Invoice struct {
	shared.BaseAggregateRoot
	shared.SoftDelete
	Code            string
	Concept         string
	Amount          decimal.Decimal
	PurchaseOrderID *uuid.UUID
}

// NewInvoice creates a new invoice. A nil orderID makes it independent.
func NewInvoice(code, concept string, amount decimal.Decimal, orderID *uuid.UUID) (*Invoice, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_CODE", "Invoice code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_INVOICE_CODE", "Invoice code cannot exceed 50 characters")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	if orderID != nil && *orderID == uuid.Nil {
		orderID = nil
	}

	invoice := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SoftDelete:        shared.Live(),
		Code:              code,
		Concept:           strings.TrimSpace(concept),
		Amount:            amount,
		PurchaseOrderID:   orderID,
	}

	invoice.AddDomainEvent(NewInvoiceCreatedEvent(invoice))

	return invoice, nil
}

// IsIndependent reports whether the invoice has no owning purchase order
func (i *Invoice) IsIndependent() bool {
	return i.PurchaseOrderID == nil
}

// BelongsTo reports whether the invoice is owned by the given order
func (i *Invoice) BelongsTo(orderID uuid.UUID) bool {
	return i.PurchaseOrderID != nil && *i.PurchaseOrderID == orderID
}

// Update changes concept and amount
func (i *Invoice) Update(concept string, amount decimal.Decimal) error {
	if i.IsDeleted() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a deleted invoice")
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	i.Concept = strings.TrimSpace(concept)
	i.Amount = amount
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// Delete logically deletes the invoice
func (i *Invoice) Delete() error {
	if i.IsDeleted() {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already deleted")
	}
	now := time.Now()
	i.MarkDeleted(now)
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceDeletedEvent(i))
	return nil
}
