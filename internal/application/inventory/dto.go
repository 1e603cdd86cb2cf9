package inventory

import (
	"time"

	"github.com/fleet/backend/internal/domain/inventory"
	"github.com/fleet/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CreateVehicleModelRequest represents a request to add a catalog model
type CreateVehicleModelRequest struct {
	Brand string `json:"brand" binding:"required,min=1,max=100"`
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Year  int    `json:"year" binding:"omitempty,min=1900,max=2100"`
}

// VehicleModelResponse represents a catalog model in API responses
type VehicleModelResponse struct {
	ID          uuid.UUID `json:"id"`
	Brand       string    `json:"brand"`
	Name        string    `json:"name"`
	Year        int       `json:"year"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateItemRequest represents a request to register an inventory item
type CreateItemRequest struct {
	SerialNumber string    `json:"serial_number" binding:"required,min=1,max=100"`
	ActiveNumber string    `json:"active_number" binding:"max=100"`
	ModelID      uuid.UUID `json:"model_id" binding:"required"`
	Status       string    `json:"status" binding:"omitempty,oneof=ALTA BAJA PROPUESTA alta baja propuesta"`
	Plate        string    `json:"plate" binding:"max=20"`
	Comments     string    `json:"comments" binding:"max=2000"`
}

// UpdateItemRequest represents a request to change the descriptive fields of an item.
// Assignment links are not editable here.
type UpdateItemRequest struct {
	ActiveNumber string     `json:"active_number" binding:"max=100"`
	Plate        string     `json:"plate" binding:"max=20"`
	Comments     string     `json:"comments" binding:"max=2000"`
	ModelID      *uuid.UUID `json:"model_id"`
}

// ChangeStatusRequest represents a lifecycle status change
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ALTA BAJA PROPUESTA alta baja propuesta"`
}

// ItemListFilter represents filter options for inventory lists
type ItemListFilter struct {
	Search          string     `form:"search"`
	Status          string     `form:"status" binding:"omitempty,oneof=ALTA BAJA PROPUESTA alta baja propuesta"`
	ModelID         *uuid.UUID `form:"model_id"`
	PurchaseOrderID *uuid.UUID `form:"purchase_order_id"`
	InvoiceID       *uuid.UUID `form:"invoice_id"`
	Unassigned      bool       `form:"unassigned"`
	Page            int        `form:"page" binding:"omitempty,min=1"`
	PageSize        int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy         string     `form:"order_by"`
	OrderDir        string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ModelListFilter represents filter options for model lists
type ModelListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ItemResponse represents an inventory item in API responses
type ItemResponse struct {
	ID              uuid.UUID  `json:"id"`
	SerialNumber    string     `json:"serial_number"`
	ActiveNumber    string     `json:"active_number"`
	ModelID         uuid.UUID  `json:"model_id"`
	Status          string     `json:"status"`
	Plate           string     `json:"plate"`
	Comments        string     `json:"comments"`
	PurchaseOrderID *uuid.UUID `json:"purchase_order_id"`
	InvoiceID       *uuid.UUID `json:"invoice_id"`
	Version         int        `json:"version"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ToItemResponse converts a domain InventoryItem to ItemResponse
func ToItemResponse(i *inventory.InventoryItem) ItemResponse {
	return ItemResponse{
		ID:              i.ID,
		SerialNumber:    i.SerialNumber,
		ActiveNumber:    i.ActiveNumber,
		ModelID:         i.ModelID,
		Status:          i.Status.String(),
		Plate:           i.Plate,
		Comments:        i.Comments,
		PurchaseOrderID: i.PurchaseOrderID,
		InvoiceID:       i.InvoiceID,
		Version:         i.Version,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}

// ToVehicleModelResponse converts a domain VehicleModel to VehicleModelResponse
func ToVehicleModelResponse(m *inventory.VehicleModel) VehicleModelResponse {
	return VehicleModelResponse{
		ID:          m.ID,
		Brand:       m.Brand,
		Name:        m.Name,
		Year:        m.Year,
		DisplayName: m.DisplayName(),
		CreatedAt:   m.CreatedAt,
	}
}

func (f ItemListFilter) toDomain() (inventory.ItemFilter, error) {
	filter := inventory.ItemFilter{
		Filter:          shared.DefaultFilter(),
		ModelID:         f.ModelID,
		PurchaseOrderID: f.PurchaseOrderID,
		InvoiceID:       f.InvoiceID,
		UnassignedOnly:  f.Unassigned,
	}
	filter.Search = f.Search
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		filter.OrderBy = f.OrderBy
		filter.OrderDir = "asc"
	}
	if f.OrderDir != "" {
		filter.OrderDir = f.OrderDir
	}
	if f.Status != "" {
		status, err := inventory.ParseItemStatus(f.Status)
		if err != nil {
			return inventory.ItemFilter{}, err
		}
		filter.Status = status
	}
	return filter, nil
}
