package models

import (
	"github.com/fleet/backend/internal/domain/inventory"
	"github.com/google/uuid"
)

// VehicleModelModel is the persistence model for the vehicle model catalog
type VehicleModelModel struct {
	BaseModel
	Brand string `gorm:"type:varchar(100);not null;index:idx_vehicle_models_brand_name,priority:1"`
	Name  string `gorm:"type:varchar(100);not null;index:idx_vehicle_models_brand_name,priority:2"`
	Year  int    `gorm:"not null;default:0"`
	// SearchKey is the folded brand and name
	SearchKey string `gorm:"type:varchar(200);not null;default:'';index"`
}

// TableName returns the table name for GORM
func (VehicleModelModel) TableName() string {
	return "vehicle_models"
}

// ToDomain converts the persistence model to a domain VehicleModel
func (m *VehicleModelModel) ToDomain() *inventory.VehicleModel {
	return &inventory.VehicleModel{
		BaseEntity: m.BaseModel.ToDomain(),
		Brand:      m.Brand,
		Name:       m.Name,
		Year:       m.Year,
	}
}

// VehicleModelModelFromDomain creates a persistence model from a domain VehicleModel
func VehicleModelModelFromDomain(v *inventory.VehicleModel) *VehicleModelModel {
	m := &VehicleModelModel{Brand: v.Brand, Name: v.Name, Year: v.Year}
	m.FromDomainBaseEntity(v.BaseEntity)
	return m
}

// InventoryItemModel is the persistence model for the InventoryItem aggregate.
// PurchaseOrderID and InvoiceID are only written through the assignment
// repository's conditional updates.
type InventoryItemModel struct {
	AggregateModel
	SerialNumber    string               `gorm:"type:varchar(100);not null;uniqueIndex"`
	ActiveNumber    string               `gorm:"type:varchar(100);index"`
	ModelID         uuid.UUID            `gorm:"type:uuid;not null;index"`
	Status          inventory.ItemStatus `gorm:"type:varchar(20);not null;default:'PROPUESTA';index"`
	Plate           string               `gorm:"type:varchar(30)"`
	Comments        string               `gorm:"type:text"`
	PurchaseOrderID *uuid.UUID           `gorm:"type:uuid;index"`
	InvoiceID       *uuid.UUID           `gorm:"type:uuid;index"`
	// SearchKey is the accent- and case-folded concatenation of the searchable columns
	SearchKey string `gorm:"type:varchar(400);not null;default:'';index"`
}

// TableName returns the table name for GORM
func (InventoryItemModel) TableName() string {
	return "inventory_items"
}

// ToDomain converts the persistence model to a domain InventoryItem
func (m *InventoryItemModel) ToDomain() *inventory.InventoryItem {
	return &inventory.InventoryItem{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		SerialNumber:      m.SerialNumber,
		ActiveNumber:      m.ActiveNumber,
		ModelID:           m.ModelID,
		Status:            m.Status,
		Plate:             m.Plate,
		Comments:          m.Comments,
		PurchaseOrderID:   m.PurchaseOrderID,
		InvoiceID:         m.InvoiceID,
	}
}

// InventoryItemModelFromDomain creates a persistence model from a domain InventoryItem
func InventoryItemModelFromDomain(item *inventory.InventoryItem, searchKey string) *InventoryItemModel {
	m := &InventoryItemModel{
		SerialNumber:    item.SerialNumber,
		ActiveNumber:    item.ActiveNumber,
		ModelID:         item.ModelID,
		Status:          item.Status,
		Plate:           item.Plate,
		Comments:        item.Comments,
		PurchaseOrderID: item.PurchaseOrderID,
		InvoiceID:       item.InvoiceID,
		SearchKey:       searchKey,
	}
	m.FromDomainAggregateRoot(item.BaseAggregateRoot)
	return m
}

