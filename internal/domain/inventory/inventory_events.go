package inventory

import (
	"github.com/fleet/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeInventoryItem = "InventoryItem"

// Event type constants
const (
	EventTypeInventoryItemCreated   = "InventoryItemCreated"
	EventTypeInventoryStatusChanged = "InventoryStatusChanged"
	EventTypeInventoryAssigned      = "InventoryAssigned"
	EventTypeInventoryUnassigned    = "InventoryUnassigned"
)

// InventoryItemCreatedEvent is raised when an item is registered
type InventoryItemCreatedEvent struct {
	shared.BaseDomainEvent
	ItemID       uuid.UUID  `json:"item_id"`
	SerialNumber string     `json:"serial_number"`
	ModelID      uuid.UUID  `json:"model_id"`
	Status       ItemStatus `json:"status"`
}

// NewInventoryItemCreatedEvent creates a new InventoryItemCreatedEvent
func NewInventoryItemCreatedEvent(item *InventoryItem) *InventoryItemCreatedEvent {
	return &InventoryItemCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInventoryItemCreated, AggregateTypeInventoryItem, item.ID),
		ItemID:          item.ID,
		SerialNumber:    item.SerialNumber,
		ModelID:         item.ModelID,
		Status:          item.Status,
	}
}

// InventoryStatusChangedEvent is raised when an item changes lifecycle status
type InventoryStatusChangedEvent struct {
	shared.BaseDomainEvent
	ItemID       uuid.UUID  `json:"item_id"`
	SerialNumber string     `json:"serial_number"`
	From         ItemStatus `json:"from"`
	To           ItemStatus `json:"to"`
}

// NewInventoryStatusChangedEvent creates a new InventoryStatusChangedEvent
func NewInventoryStatusChangedEvent(item *InventoryItem, from ItemStatus) *InventoryStatusChangedEvent {
	return &InventoryStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInventoryStatusChanged, AggregateTypeInventoryItem, item.ID),
		ItemID:          item.ID,
		SerialNumber:    item.SerialNumber,
		From:            from,
		To:              item.Status,
	}
}

// InventoryAssignedEvent is raised for every item newly linked to an order or invoice
type InventoryAssignedEvent struct {
	shared.BaseDomainEvent
	ItemID       uuid.UUID `json:"item_id"`
	SerialNumber string    `json:"serial_number"`
	TargetType   string    `json:"target_type"`
	TargetID     uuid.UUID `json:"target_id"`
	TargetCode   string    `json:"target_code"`
}

// NewInventoryAssignedEvent creates a new InventoryAssignedEvent
func NewInventoryAssignedEvent(itemID uuid.UUID, serial, targetType string, targetID uuid.UUID, targetCode string) *InventoryAssignedEvent {
	return &InventoryAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInventoryAssigned, AggregateTypeInventoryItem, itemID),
		ItemID:          itemID,
		SerialNumber:    serial,
		TargetType:      targetType,
		TargetID:        targetID,
		TargetCode:      targetCode,
	}
}

// InventoryUnassignedEvent is raised when an order or invoice link is cleared
type InventoryUnassignedEvent struct {
	shared.BaseDomainEvent
	ItemID     uuid.UUID `json:"item_id"`
	TargetType string    `json:"target_type"`
	TargetID   uuid.UUID `json:"target_id"`
}

// NewInventoryUnassignedEvent creates a new InventoryUnassignedEvent
func NewInventoryUnassignedEvent(itemID uuid.UUID, targetType string, targetID uuid.UUID) *InventoryUnassignedEvent {
	return &InventoryUnassignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInventoryUnassigned, AggregateTypeInventoryItem, itemID),
		ItemID:          itemID,
		TargetType:      targetType,
		TargetID:        targetID,
	}
}
