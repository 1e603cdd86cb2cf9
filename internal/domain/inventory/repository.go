package inventory

import (
	"context"

	"github.com/fleet/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ItemFilter narrows inventory listings
type ItemFilter struct {
	shared.Filter
	Status          ItemStatus
	ModelID         *uuid.UUID
	PurchaseOrderID *uuid.UUID
	InvoiceID       *uuid.UUID
	// UnassignedOnly keeps items with neither an order nor an invoice link
	UnassignedOnly bool
}

// InventoryItemRepository defines persistence for inventory items
type InventoryItemRepository interface {
	// FindByID finds an item by ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error)

	// FindByIDs finds all items whose ID is in ids; unknown IDs are skipped
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]InventoryItem, error)

	// FindAll lists items matching the filter and returns the total count
	FindAll(ctx context.Context, filter ItemFilter) ([]InventoryItem, int64, error)

	// ExistsBySerialNumber checks whether a serial number is taken
	ExistsBySerialNumber(ctx context.Context, serialNumber string) (bool, error)

	// Save creates or updates an item, without touching its order or invoice links
	Save(ctx context.Context, item *InventoryItem) error
}

// VehicleModelRepository defines persistence for the model catalog
type VehicleModelRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*VehicleModel, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]VehicleModel, int64, error)
	Save(ctx context.Context, model *VehicleModel) error
}
