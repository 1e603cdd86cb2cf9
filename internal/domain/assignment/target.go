package assignment

import (
	"strings"

	"github.com/fleet/backend/internal/domain/procurement"
	"github.com/fleet/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TargetType identifies which item slot an assignment writes
type TargetType string

const (
	// TargetPurchaseOrder writes the item's purchase order link
	TargetPurchaseOrder TargetType = "PURCHASE_ORDER"
	// TargetInvoice writes the item's invoice link
	TargetInvoice TargetType = "INVOICE"
)

// IsValid checks if the target type is known
func (t TargetType) IsValid() bool {
	return t == TargetPurchaseOrder || t == TargetInvoice
}

// String returns the string representation of TargetType
func (t TargetType) String() string {
	return string(t)
}

// ParseTargetType accepts the canonical names plus the short forms used by route params
func ParseTargetType(s string) (TargetType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PURCHASE_ORDER", "PURCHASE-ORDER", "PO", "ORDER":
		return TargetPurchaseOrder, nil
	case "INVOICE", "FACTURA":
		return TargetInvoice, nil
	}
	return "", shared.InvalidInput("target type must be PURCHASE_ORDER or INVOICE")
}

// Target is the order or invoice items are being assigned to
type Target struct {
	Type TargetType
	ID   uuid.UUID
	Code string
	// PurchaseOrderID is the order owning an invoice target; nil for order
	// targets and independent invoices.
	PurchaseOrderID *uuid.UUID
}

// OrderTarget builds a target for direct assignment to a purchase order
func OrderTarget(order *procurement.PurchaseOrder) Target {
	return Target{
		Type: TargetPurchaseOrder,
		ID:   order.ID,
		Code: order.Code,
	}
}

// InvoiceTarget builds a target for assignment to an invoice
func InvoiceTarget(invoice *procurement.Invoice) Target {
	return Target{
		Type:            TargetInvoice,
		ID:              invoice.ID,
		Code:            invoice.Code,
		PurchaseOrderID: invoice.PurchaseOrderID,
	}
}

// Link is a reference to the order or invoice currently holding an item
type Link struct {
	ID   uuid.UUID
	Code string
}

// Ownership is a snapshot of an item's current links, enough to classify it
type Ownership struct {
	ItemID        uuid.UUID
	SerialNumber  string
	PurchaseOrder *Link
	Invoice       *Link
	// InvoiceOrderID is the order that owns the item's current invoice, if any
	InvoiceOrderID *uuid.UUID
}

func (o Ownership) invoiceOwnedBy(orderID uuid.UUID) bool {
	return o.InvoiceOrderID != nil && *o.InvoiceOrderID == orderID
}
