package assignment

import "github.com/google/uuid"

// Classification is the outcome of checking one item against one target
type Classification string

const (
	// Available items are free for the target slot and will be linked
	Available Classification = "available"
	// AlreadyAssigned items already point at the target; re-assigning is a no-op success
	AlreadyAssigned Classification = "already-assigned"
	// Unavailable items belong to another order or invoice and are left untouched
	Unavailable Classification = "unavailable"
)

// Conflict names the owner that keeps an item from being assigned
type Conflict struct {
	ItemID       uuid.UUID  `json:"item_id"`
	SerialNumber string     `json:"serial_number"`
	OwnerType    TargetType `json:"owner_type"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	OwnerCode    string     `json:"owner_code"`
}

// Decision is the classification of an item plus the conflict for unavailable ones
type Decision struct {
	Classification Classification
	Conflict       *Conflict
}

// Classify decides whether item can take target. It has no side effects.
func Classify(item Ownership, target Target) Decision {
	switch target.Type {
	case TargetPurchaseOrder:
		return classifyForOrder(item, target)
	case TargetInvoice:
		return classifyForInvoice(item, target)
	}
	return Decision{Classification: Unavailable}
}

func classifyForOrder(item Ownership, target Target) Decision {
	if item.PurchaseOrder != nil {
		if item.PurchaseOrder.ID == target.ID {
			return Decision{Classification: AlreadyAssigned}
		}
		return unavailable(item, TargetPurchaseOrder, *item.PurchaseOrder)
	}
	// An invoiced item may only join the order that owns its invoice.
	if item.Invoice != nil && !item.invoiceOwnedBy(target.ID) {
		return unavailable(item, TargetInvoice, *item.Invoice)
	}
	return Decision{Classification: Available}
}

func classifyForInvoice(item Ownership, target Target) Decision {
	if item.Invoice != nil {
		if item.Invoice.ID == target.ID {
			return Decision{Classification: AlreadyAssigned}
		}
		return unavailable(item, TargetInvoice, *item.Invoice)
	}
	// An item on an order may only take an invoice of that same order.
	if item.PurchaseOrder != nil {
		if target.PurchaseOrderID == nil || *target.PurchaseOrderID != item.PurchaseOrder.ID {
			return unavailable(item, TargetPurchaseOrder, *item.PurchaseOrder)
		}
	}
	return Decision{Classification: Available}
}

func unavailable(item Ownership, ownerType TargetType, owner Link) Decision {
	return Decision{
		Classification: Unavailable,
		Conflict: &Conflict{
			ItemID:       item.ItemID,
			SerialNumber: item.SerialNumber,
			OwnerType:    ownerType,
			OwnerID:      owner.ID,
			OwnerCode:    owner.Code,
		},
	}
}
