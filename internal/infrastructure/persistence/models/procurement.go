package models

import (
	"github.com/fleet/backend/internal/domain/procurement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProjectModel is the persistence model for projects
type ProjectModel struct {
	BaseModel
	SoftDeleteModel
	Code string `gorm:"type:varchar(50);not null;uniqueIndex:idx_projects_code_live,where:deleted_at IS NULL"`
	Name string `gorm:"type:varchar(200);not null"`
	// SearchKey is the folded code and name
	SearchKey string `gorm:"type:varchar(300);not null;default:'';index"`
}

// TableName returns the table name for GORM
func (ProjectModel) TableName() string {
	return "projects"
}

// ToDomain converts the persistence model to a domain Project
func (m *ProjectModel) ToDomain() *procurement.Project {
	return &procurement.Project{
		BaseEntity: m.BaseModel.ToDomain(),
		SoftDelete: m.ToDomainSoftDelete(),
		Code:       m.Code,
		Name:       m.Name,
	}
}

// ProjectModelFromDomain creates a persistence model from a domain Project
func ProjectModelFromDomain(p *procurement.Project) *ProjectModel {
	m := &ProjectModel{Code: p.Code, Name: p.Name}
	m.FromDomainBaseEntity(p.BaseEntity)
	m.FromDomainSoftDelete(p.SoftDelete)
	return m
}

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate.
// Code is unique among live orders only.
type PurchaseOrderModel struct {
	AggregateModel
	SoftDeleteModel
	Code      string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_purchase_orders_code_live,where:deleted_at IS NULL"`
	Supplier  string          `gorm:"type:varchar(200);not null"`
	ProjectID *uuid.UUID      `gorm:"type:uuid;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Notes     string          `gorm:"type:text"`
	// SearchKey is the folded code and supplier
	SearchKey string `gorm:"type:varchar(300);not null;default:'';index"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder
func (m *PurchaseOrderModel) ToDomain() *procurement.PurchaseOrder {
	return &procurement.PurchaseOrder{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		SoftDelete:        m.ToDomainSoftDelete(),
		Code:              m.Code,
		Supplier:          m.Supplier,
		ProjectID:         m.ProjectID,
		Amount:            m.Amount,
		Notes:             m.Notes,
	}
}

// PurchaseOrderModelFromDomain creates a persistence model from a domain PurchaseOrder
func PurchaseOrderModelFromDomain(o *procurement.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{
		Code:      o.Code,
		Supplier:  o.Supplier,
		ProjectID: o.ProjectID,
		Amount:    o.Amount,
		Notes:     o.Notes,
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.FromDomainSoftDelete(o.SoftDelete)
	return m
}

// InvoiceModel is the persistence model for the Invoice aggregate
type InvoiceModel struct {
	AggregateModel
	SoftDeleteModel
	Code            string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoices_code_live,where:deleted_at IS NULL"`
	Concept         string          `gorm:"type:varchar(500)"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PurchaseOrderID *uuid.UUID      `gorm:"type:uuid;index"`
	// SearchKey is the folded code and concept
	SearchKey string `gorm:"type:varchar(600);not null;default:'';index"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *procurement.Invoice {
	return &procurement.Invoice{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		SoftDelete:        m.ToDomainSoftDelete(),
		Code:              m.Code,
		Concept:           m.Concept,
		Amount:            m.Amount,
		PurchaseOrderID:   m.PurchaseOrderID,
	}
}

// InvoiceModelFromDomain creates a persistence model from a domain Invoice
func InvoiceModelFromDomain(i *procurement.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		Code:            i.Code,
		Concept:         i.Concept,
		Amount:          i.Amount,
		PurchaseOrderID: i.PurchaseOrderID,
	}
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.FromDomainSoftDelete(i.SoftDelete)
	return m
}
