package procurement

import (
	"time"

	"github.com/fleet/backend/internal/domain/inventory"
	"github.com/fleet/backend/internal/domain/procurement"
	"github.com/fleet/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	Code string `json:"code" binding:"required,min=1,max=50"`
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListFilter carries the paging and search query parameters shared by list endpoints
type ListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f ListFilter) toDomain() shared.Filter {
	filter := shared.DefaultFilter()
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
	return filter
}

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	Code      string          `json:"code" binding:"required,min=1,max=50"`
	Supplier  string          `json:"supplier" binding:"required,min=1,max=200"`
	ProjectID *uuid.UUID      `json:"project_id"`
	Amount    decimal.Decimal `json:"amount"`
	Notes     string          `json:"notes" binding:"max=2000"`
}

// UpdatePurchaseOrderRequest represents a request to update a purchase order header
type UpdatePurchaseOrderRequest struct {
	Supplier  string          `json:"supplier" binding:"required,min=1,max=200"`
	ProjectID *uuid.UUID      `json:"project_id"`
	Amount    decimal.Decimal `json:"amount"`
	Notes     string          `json:"notes" binding:"max=2000"`
}

// OrderListFilter represents filter options for purchase order lists
type OrderListFilter struct {
	ListFilter
	ProjectID       *uuid.UUID `form:"project_id"`
	IndependentOnly bool       `form:"independent"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID          uuid.UUID       `json:"id"`
	Code        string          `json:"code"`
	Supplier    string          `json:"supplier"`
	ProjectID   *uuid.UUID      `json:"project_id"`
	Independent bool            `json:"independent"`
	Amount      decimal.Decimal `json:"amount"`
	Notes       string          `json:"notes"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// PurchaseOrderDetailResponse is an order with its invoices and directly assigned items
type PurchaseOrderDetailResponse struct {
	PurchaseOrderResponse
	Invoices   []InvoiceResponse `json:"invoices"`
	Items      []ItemSummary     `json:"items"`
	ItemsTotal int64             `json:"items_total"`
}

// CreateInvoiceRequest represents a request to create an invoice.
// PurchaseOrderID is ignored when the invoice is created under an order route.
type CreateInvoiceRequest struct {
	Code            string          `json:"code" binding:"required,min=1,max=50"`
	Concept         string          `json:"concept" binding:"max=500"`
	Amount          decimal.Decimal `json:"amount"`
	PurchaseOrderID *uuid.UUID      `json:"purchase_order_id"`
}

// UpdateInvoiceRequest represents a request to update an invoice
type UpdateInvoiceRequest struct {
	Concept string          `json:"concept" binding:"max=500"`
	Amount  decimal.Decimal `json:"amount"`
}

// InvoiceListFilter represents filter options for invoice lists
type InvoiceListFilter struct {
	ListFilter
	PurchaseOrderID *uuid.UUID `form:"purchase_order_id"`
	IndependentOnly bool       `form:"independent"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID              uuid.UUID       `json:"id"`
	Code            string          `json:"code"`
	Concept         string          `json:"concept"`
	Amount          decimal.Decimal `json:"amount"`
	PurchaseOrderID *uuid.UUID      `json:"purchase_order_id"`
	Independent     bool            `json:"independent"`
	Version         int             `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// InvoiceDetailResponse is an invoice with its assigned items
type InvoiceDetailResponse struct {
	InvoiceResponse
	Items      []ItemSummary `json:"items"`
	ItemsTotal int64         `json:"items_total"`
}

// ItemSummary is the compact item view embedded in order and invoice details
type ItemSummary struct {
	ID           uuid.UUID `json:"id"`
	SerialNumber string    `json:"serial_number"`
	ActiveNumber string    `json:"active_number"`
	Plate        string    `json:"plate"`
	Status       string    `json:"status"`
}

// DeleteResponse reports what a cascading delete detached
type DeleteResponse struct {
	ID               uuid.UUID `json:"id"`
	Code             string    `json:"code"`
	DetachedInvoices int64     `json:"detached_invoices"`
	DetachedItems    int64     `json:"detached_items"`
}

// ToProjectResponse converts a domain Project to ProjectResponse
func ToProjectResponse(p *procurement.Project) ProjectResponse {
	return ProjectResponse{
		ID:        p.ID,
		Code:      p.Code,
		Name:      p.Name,
		Enabled:   p.Enabled,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ToPurchaseOrderResponse converts a domain PurchaseOrder to PurchaseOrderResponse
func ToPurchaseOrderResponse(o *procurement.PurchaseOrder) PurchaseOrderResponse {
	return PurchaseOrderResponse{
		ID:          o.ID,
		Code:        o.Code,
		Supplier:    o.Supplier,
		ProjectID:   o.ProjectID,
		Independent: o.IsIndependent(),
		Amount:      o.Amount,
		Notes:       o.Notes,
		Version:     o.Version,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// ToInvoiceResponse converts a domain Invoice to InvoiceResponse
func ToInvoiceResponse(i *procurement.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:              i.ID,
		Code:            i.Code,
		Concept:         i.Concept,
		Amount:          i.Amount,
		PurchaseOrderID: i.PurchaseOrderID,
		Independent:     i.IsIndependent(),
		Version:         i.Version,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}

func toItemSummaries(items []inventory.InventoryItem) []ItemSummary {
	out := make([]ItemSummary, len(items))
	for i := range items {
		out[i] = ItemSummary{
			ID:           items[i].ID,
			SerialNumber: items[i].SerialNumber,
			ActiveNumber: items[i].ActiveNumber,
			Plate:        items[i].Plate,
			Status:       items[i].Status.String(),
		}
	}
	return out
}
