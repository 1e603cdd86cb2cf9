package handler

import (
	"context"

	inventoryapp "github.com/fleet/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InventoryService is what the inventory routes need
type InventoryService interface {
	Create(ctx context.Context, req inventoryapp.CreateItemRequest) (*inventoryapp.ItemResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*inventoryapp.ItemResponse, error)
	List(ctx context.Context, filter inventoryapp.ItemListFilter) ([]inventoryapp.ItemResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req inventoryapp.UpdateItemRequest) (*inventoryapp.ItemResponse, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, req inventoryapp.ChangeStatusRequest) (*inventoryapp.ItemResponse, error)
}

// VehicleModelService is what the model catalog routes need
type VehicleModelService interface {
	Create(ctx context.Context, req inventoryapp.CreateVehicleModelRequest) (*inventoryapp.VehicleModelResponse, error)
	List(ctx context.Context, filter inventoryapp.ModelListFilter) ([]inventoryapp.VehicleModelResponse, int64, error)
}

// InventoryHandler serves inventory items and the vehicle model catalog
type InventoryHandler struct {
	BaseHandler
	items  InventoryService
	models VehicleModelService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(items InventoryService, models VehicleModelService) *InventoryHandler {
	return &InventoryHandler{items: items, models: models}
}

// Create handles POST /inventories
func (h *InventoryHandler) Create(c *gin.Context) {
	var req inventoryapp.CreateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.items.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// GetByID handles GET /inventories/:id
func (h *InventoryHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	item, err := h.items.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// List handles GET /inventories
func (h *InventoryHandler) List(c *gin.Context) {
	var filter inventoryapp.ItemListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	items, total, err := h.items.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, items, total, page, pageSize)
}

// Update handles PUT /inventories/:id
func (h *InventoryHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.UpdateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.items.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// ChangeStatus handles PATCH /inventories/:id/status
func (h *InventoryHandler) ChangeStatus(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.ChangeStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.items.ChangeStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// CreateModel handles POST /models
func (h *InventoryHandler) CreateModel(c *gin.Context) {
	var req inventoryapp.CreateVehicleModelRequest
	if !h.BindJSON(c, &req) {
		return
	}
	model, err := h.models.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, model)
}

// ListModels handles GET /models
func (h *InventoryHandler) ListModels(c *gin.Context) {
	var filter inventoryapp.ModelListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	models, total, err := h.models.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, models, total, page, pageSize)
}
