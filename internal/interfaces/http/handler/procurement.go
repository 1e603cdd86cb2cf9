package handler

import (
	"context"

	procurementapp "github.com/fleet/backend/internal/application/procurement"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProjectService is what the project routes need
type ProjectService interface {
	Create(ctx context.Context, req procurementapp.CreateProjectRequest) (*procurementapp.ProjectResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*procurementapp.ProjectResponse, error)
	List(ctx context.Context, filter procurementapp.ListFilter) ([]procurementapp.ProjectResponse, int64, error)
}

// PurchaseOrderService is what the purchase order routes need
type PurchaseOrderService interface {
	Create(ctx context.Context, req procurementapp.CreatePurchaseOrderRequest) (*procurementapp.PurchaseOrderResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*procurementapp.PurchaseOrderDetailResponse, error)
	List(ctx context.Context, filter procurementapp.OrderListFilter) ([]procurementapp.PurchaseOrderResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req procurementapp.UpdatePurchaseOrderRequest) (*procurementapp.PurchaseOrderResponse, error)
	Delete(ctx context.Context, id uuid.UUID) (*procurementapp.DeleteResponse, error)
}

// InvoiceService is what the invoice routes need
type InvoiceService interface {
	Create(ctx context.Context, req procurementapp.CreateInvoiceRequest) (*procurementapp.InvoiceResponse, error)
	CreateForOrder(ctx context.Context, orderID uuid.UUID, req procurementapp.CreateInvoiceRequest) (*procurementapp.InvoiceResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*procurementapp.InvoiceDetailResponse, error)
	List(ctx context.Context, filter procurementapp.InvoiceListFilter) ([]procurementapp.InvoiceResponse, int64, error)
	ListForOrder(ctx context.Context, orderID uuid.UUID, filter procurementapp.InvoiceListFilter) ([]procurementapp.InvoiceResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req procurementapp.UpdateInvoiceRequest) (*procurementapp.InvoiceResponse, error)
	Delete(ctx context.Context, id uuid.UUID) (*procurementapp.DeleteResponse, error)
}

// ProcurementHandler serves projects, purchase orders and invoices
type ProcurementHandler struct {
	BaseHandler
	projects ProjectService
	orders   PurchaseOrderService
	invoices InvoiceService
}

// NewProcurementHandler creates a new ProcurementHandler
func NewProcurementHandler(projects ProjectService, orders PurchaseOrderService, invoices InvoiceService) *ProcurementHandler {
	return &ProcurementHandler{projects: projects, orders: orders, invoices: invoices}
}

// CreateProject handles POST /projects
func (h *ProcurementHandler) CreateProject(c *gin.Context) {
	var req procurementapp.CreateProjectRequest
	if !h.BindJSON(c, &req) {
		return
	}
	project, err := h.projects.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, project)
}

// GetProject handles GET /projects/:id
func (h *ProcurementHandler) GetProject(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	project, err := h.projects.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, project)
}

// ListProjects handles GET /projects
func (h *ProcurementHandler) ListProjects(c *gin.Context) {
	var filter procurementapp.ListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	projects, total, err := h.projects.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, projects, total, page, pageSize)
}

// CreatePurchaseOrder handles POST /purchase-orders
func (h *ProcurementHandler) CreatePurchaseOrder(c *gin.Context) {
	var req procurementapp.CreatePurchaseOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orders.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// GetPurchaseOrder handles GET /purchase-orders/:id
func (h *ProcurementHandler) GetPurchaseOrder(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// ListPurchaseOrders handles GET /purchase-orders
func (h *ProcurementHandler) ListPurchaseOrders(c *gin.Context) {
	var filter procurementapp.OrderListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	orders, total, err := h.orders.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}

// UpdatePurchaseOrder handles PUT /purchase-orders/:id
func (h *ProcurementHandler) UpdatePurchaseOrder(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req procurementapp.UpdatePurchaseOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orders.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// DeletePurchaseOrder handles DELETE /purchase-orders/:id. Its invoices and
// items are detached, not deleted.
func (h *ProcurementHandler) DeletePurchaseOrder(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	result, err := h.orders.Delete(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// CreateOrderInvoice handles POST /purchase-orders/:id/invoices
func (h *ProcurementHandler) CreateOrderInvoice(c *gin.Context) {
	orderID, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req procurementapp.CreateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	invoice, err := h.invoices.CreateForOrder(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// ListOrderInvoices handles GET /purchase-orders/:id/invoices
func (h *ProcurementHandler) ListOrderInvoices(c *gin.Context) {
	orderID, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var filter procurementapp.InvoiceListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	invoices, total, err := h.invoices.ListForOrder(c.Request.Context(), orderID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, invoices, total, page, pageSize)
}

// CreateInvoice handles POST /invoices
func (h *ProcurementHandler) CreateInvoice(c *gin.Context) {
	var req procurementapp.CreateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	invoice, err := h.invoices.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// GetInvoice handles GET /invoices/:id
func (h *ProcurementHandler) GetInvoice(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	invoice, err := h.invoices.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// ListInvoices handles GET /invoices
func (h *ProcurementHandler) ListInvoices(c *gin.Context) {
	var filter procurementapp.InvoiceListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	invoices, total, err := h.invoices.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, invoices, total, page, pageSize)
}

// UpdateInvoice handles PUT /invoices/:id
func (h *ProcurementHandler) UpdateInvoice(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req procurementapp.UpdateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	invoice, err := h.invoices.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// DeleteInvoice handles DELETE /invoices/:id
func (h *ProcurementHandler) DeleteInvoice(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	result, err := h.invoices.Delete(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
