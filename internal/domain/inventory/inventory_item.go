package inventory

import (
	"strings"
	"time"

	"github.com/fleet/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ItemStatus is the lifecycle status of an inventory item
type ItemStatus string

const (
	// StatusAlta marks an item in active service
	StatusAlta ItemStatus = "ALTA"
	// StatusBaja marks a decommissioned item
	StatusBaja ItemStatus = "BAJA"
	// StatusPropuesta marks an item proposed for incorporation
	StatusPropuesta ItemStatus = "PROPUESTA"
)

// IsValid checks if the status is a known value
func (s ItemStatus) IsValid() bool {
	switch s {
	case StatusAlta, StatusBaja, StatusPropuesta:
		return true
	}
	return false
}

// String returns the string representation of ItemStatus
func (s ItemStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether a status change is allowed.
// Items are never deleted; BAJA is reversible by going back to ALTA.
func (s ItemStatus) CanTransitionTo(target ItemStatus) bool {
	switch s {
	case StatusPropuesta:
		return target == StatusAlta || target == StatusBaja
	case StatusAlta:
		return target == StatusBaja
	case StatusBaja:
		return target == StatusAlta
	}
	return false
}

// ParseItemStatus normalizes and validates a status string
func ParseItemStatus(s string) (ItemStatus, error) {
	status := ItemStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", shared.NewDomainError("INVALID_STATUS", "Status must be one of ALTA, BAJA, PROPUESTA")
	}
	return status, nil
}

// InventoryItem is a single tracked asset (vehicle or equipment) of the fleet.
// It may be linked to at most one purchase order and at most one invoice.
type InventoryItem struct {
	shared.BaseAggregateRoot
	SerialNumber    string
	ActiveNumber    string
	ModelID         uuid.UUID
	Status          ItemStatus
	Plate           string
	Comments        string
	PurchaseOrderID *uuid.UUID
	InvoiceID       *uuid.UUID
}

// NewInventoryItem creates a new inventory item in PROPUESTA status unless a status is given
func NewInventoryItem(serialNumber, activeNumber string, modelID uuid.UUID, status ItemStatus) (*InventoryItem, error) {
	serialNumber = strings.TrimSpace(serialNumber)
	if serialNumber == "" {
		return nil, shared.NewDomainError("INVALID_SERIAL_NUMBER", "Serial number cannot be empty")
	}
	if len(serialNumber) > 100 {
		return nil, shared.NewDomainError("INVALID_SERIAL_NUMBER", "Serial number cannot exceed 100 characters")
	}
	if modelID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MODEL", "Model ID cannot be empty")
	}
	if status == "" {
		status = StatusPropuesta
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Status must be one of ALTA, BAJA, PROPUESTA")
	}

	item := &InventoryItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SerialNumber:      serialNumber,
		ActiveNumber:      strings.TrimSpace(activeNumber),
		ModelID:           modelID,
		Status:            status,
	}

	item.AddDomainEvent(NewInventoryItemCreatedEvent(item))

	return item, nil
}

// UpdateDetails changes the descriptive fields of the item
func (i *InventoryItem) UpdateDetails(activeNumber, plate, comments string) {
	i.ActiveNumber = strings.TrimSpace(activeNumber)
	i.Plate = strings.TrimSpace(plate)
	i.Comments = comments
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// ChangeModel re-points the item to another vehicle model
func (i *InventoryItem) ChangeModel(modelID uuid.UUID) error {
	if modelID == uuid.Nil {
		return shared.NewDomainError("INVALID_MODEL", "Model ID cannot be empty")
	}
	i.ModelID = modelID
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// ChangeStatus moves the item to a new lifecycle status
func (i *InventoryItem) ChangeStatus(status ItemStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Status must be one of ALTA, BAJA, PROPUESTA")
	}
	if i.Status == status {
		return nil
	}
	if !i.Status.CanTransitionTo(status) {
		return shared.NewDomainError("INVALID_STATE", "Cannot change status from "+string(i.Status)+" to "+string(status))
	}

	from := i.Status
	i.Status = status
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewInventoryStatusChangedEvent(i, from))

	return nil
}

// IsAssignedToPurchaseOrder reports whether the item holds a purchase order link
func (i *InventoryItem) IsAssignedToPurchaseOrder() bool {
	return i.PurchaseOrderID != nil
}

// IsAssignedToInvoice reports whether the item holds an invoice link
func (i *InventoryItem) IsAssignedToInvoice() bool {
	return i.InvoiceID != nil
}
