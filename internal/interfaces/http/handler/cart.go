package handler

import (
	"context"

	appassignment "github.com/fleet/backend/internal/application/assignment"
	cartapp "github.com/fleet/backend/internal/application/cart"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartService is what the selection cart routes need
type CartService interface {
	List(ctx context.Context, sessionID string) (*cartapp.CartResponse, error)
	Add(ctx context.Context, sessionID string, req cartapp.AddItemsRequest) (*cartapp.CartResponse, error)
	Remove(ctx context.Context, sessionID string, itemID uuid.UUID) (*cartapp.CartResponse, error)
	Clear(ctx context.Context, sessionID string) error
	Preview(ctx context.Context, sessionID string, query cartapp.PreviewQuery) (*appassignment.ResultDTO, error)
}

// CartHandler serves the per-session selection cart
type CartHandler struct {
	BaseHandler
	service CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(service CartService) *CartHandler {
	return &CartHandler{service: service}
}

// Get handles GET /carts/:session
func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.service.List(c.Request.Context(), c.Param("session"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// AddItems handles POST /carts/:session/items
func (h *CartHandler) AddItems(c *gin.Context) {
	var req cartapp.AddItemsRequest
	if !h.BindJSON(c, &req) {
		return
	}
	cart, err := h.service.Add(c.Request.Context(), c.Param("session"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// RemoveItem handles DELETE /carts/:session/items/:inventoryId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, ok := h.ParamUUID(c, "inventoryId")
	if !ok {
		return
	}
	cart, err := h.service.Remove(c.Request.Context(), c.Param("session"), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// Clear handles DELETE /carts/:session and DELETE /carts/:session/items
func (h *CartHandler) Clear(c *gin.Context) {
	sessionID := c.Param("session")
	if err := h.service.Clear(c.Request.Context(), sessionID); err != nil {
		h.HandleError(c, err)
		return
	}
	cart, err := h.service.List(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// Preview handles GET /carts/:session/preview?target_type=&target_id=
func (h *CartHandler) Preview(c *gin.Context) {
	var query cartapp.PreviewQuery
	if !h.BindQuery(c, &query) {
		return
	}
	result, err := h.service.Preview(c.Request.Context(), c.Param("session"), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
