package procurement

import (
	"context"

	"github.com/fleet/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DetachResult reports how many rows a cascading delete unlinked
type DetachResult struct {
	Invoices int64
	Items    int64
}

// ProjectRepository defines persistence for projects
type ProjectRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Project, int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, project *Project) error
}

// OrderFilter narrows purchase order listings
type OrderFilter struct {
	shared.Filter
	ProjectID       *uuid.UUID
	IndependentOnly bool
}

// PurchaseOrderRepository defines persistence for purchase orders.
// Logically deleted orders are invisible to every finder.
type PurchaseOrderRepository interface {
	// FindByID finds a live order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByCode finds a live order by its human code
	FindByCode(ctx context.Context, code string) (*PurchaseOrder, error)

	// FindAll lists live orders and returns the total count
	FindAll(ctx context.Context, filter OrderFilter) ([]PurchaseOrder, int64, error)

	// ExistsByCode checks whether a live order already uses the code
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// Save creates or updates an order
	Save(ctx context.Context, order *PurchaseOrder) error

	// DeleteCascade detaches the order's invoices and items, then persists the
	// logically deleted order, all in one transaction
	DeleteCascade(ctx context.Context, order *PurchaseOrder) (DetachResult, error)
}

// InvoiceFilter narrows invoice listings
type InvoiceFilter struct {
	shared.Filter
	PurchaseOrderID *uuid.UUID
	IndependentOnly bool
}

// InvoiceRepository defines persistence for invoices
type InvoiceRepository interface {
	// FindByID finds a live invoice by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindAll lists live invoices and returns the total count
	FindAll(ctx context.Context, filter InvoiceFilter) ([]Invoice, int64, error)

	// ExistsByCode checks whether a live invoice already uses the code
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// Save creates or updates an invoice
	Save(ctx context.Context, invoice *Invoice) error

	// DeleteCascade detaches the invoice's items and persists the deleted invoice
	DeleteCascade(ctx context.Context, invoice *Invoice) (DetachResult, error)
}
