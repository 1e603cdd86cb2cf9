package handler

import (
	"context"

	assignmentapp "github.com/fleet/backend/internal/application/assignment"
	"github.com/fleet/backend/internal/domain/assignment"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AssignmentService is what the assignment routes need from the application layer
type AssignmentService interface {
	AssignToPurchaseOrder(ctx context.Context, orderID uuid.UUID, rawIDs []string) (*assignmentapp.ResultDTO, error)
	AssignToInvoice(ctx context.Context, invoiceID uuid.UUID, rawIDs []string) (*assignmentapp.ResultDTO, error)
	AssignToOrderInvoice(ctx context.Context, orderID, invoiceID uuid.UUID, rawIDs []string) (*assignmentapp.ResultDTO, error)
	Preview(ctx context.Context, req assignmentapp.PreviewRequest) (*assignmentapp.ResultDTO, error)
	Unassign(ctx context.Context, itemID uuid.UUID, slot assignment.TargetType) (*assignmentapp.UnassignResult, error)
	UnassignFromPurchaseOrder(ctx context.Context, orderID, itemID uuid.UUID) (*assignmentapp.UnassignResult, error)
	UnassignFromInvoice(ctx context.Context, invoiceID, itemID uuid.UUID) (*assignmentapp.UnassignResult, error)
	UnassignFromOrderInvoice(ctx context.Context, orderID, invoiceID, itemID uuid.UUID) (*assignmentapp.UnassignResult, error)
}

// AssignmentHandler links inventory items to purchase orders and invoices
type AssignmentHandler struct {
	BaseHandler
	service AssignmentService
}

// NewAssignmentHandler creates a new AssignmentHandler
func NewAssignmentHandler(service AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

// AssignToPurchaseOrder handles POST /purchase-orders/:id/inventories
func (h *AssignmentHandler) AssignToPurchaseOrder(c *gin.Context) {
	orderID, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req assignmentapp.AssignItemsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.AssignToPurchaseOrder(c.Request.Context(), orderID, req.InventoryIDs)
	h.AssignmentResult(c, result, err)
}

// AssignToInvoice handles POST /invoices/:id/inventories
func (h *AssignmentHandler) AssignToInvoice(c *gin.Context) {
	invoiceID, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req assignmentapp.AssignItemsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.AssignToInvoice(c.Request.Context(), invoiceID, req.InventoryIDs)
	h.AssignmentResult(c, result, err)
}

// AssignToOrderInvoice handles POST /purchase-orders/:id/invoices/:invoiceId/inventories
func (h *AssignmentHandler) AssignToOrderInvoice(c *gin.Context) {
	orderID, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	invoiceID, ok := h.ParamUUID(c, "invoiceId")
	if !ok {
		return
	}
	var req assignmentapp.AssignItemsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.AssignToOrderInvoice(c.Request.Context(), orderID, invoiceID, req.InventoryIDs)
	h.AssignmentResult(c, result, err)
}

// Preview handles POST /assignments/preview
func (h *AssignmentHandler) Preview(c *gin.Context) {
	var req assignmentapp.PreviewRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Preview(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// UnassignFromPurchaseOrder handles DELETE /purchase-orders/:id/inventories/:inventoryId
func (h *AssignmentHandler) UnassignFromPurchaseOrder(c *gin.Context) {
	orderID, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.ParamUUID(c, "inventoryId")
	if !ok {
		return
	}
	h.unassignResult(c)(h.service.UnassignFromPurchaseOrder(c.Request.Context(), orderID, itemID))
}

// UnassignFromInvoice handles DELETE /invoices/:id/inventories/:inventoryId
func (h *AssignmentHandler) UnassignFromInvoice(c *gin.Context) {
	invoiceID, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.ParamUUID(c, "inventoryId")
	if !ok {
		return
	}
	h.unassignResult(c)(h.service.UnassignFromInvoice(c.Request.Context(), invoiceID, itemID))
}

// UnassignFromOrderInvoice handles DELETE /purchase-orders/:id/invoices/:invoiceId/inventories/:inventoryId
func (h *AssignmentHandler) UnassignFromOrderInvoice(c *gin.Context) {
	orderID, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	invoiceID, ok := h.ParamUUID(c, "invoiceId")
	if !ok {
		return
	}
	itemID, ok := h.ParamUUID(c, "inventoryId")
	if !ok {
		return
	}
	h.unassignResult(c)(h.service.UnassignFromOrderInvoice(c.Request.Context(), orderID, invoiceID, itemID))
}

// ClearPurchaseOrder handles DELETE /inventories/:id/purchase-order
func (h *AssignmentHandler) ClearPurchaseOrder(c *gin.Context) {
	h.clearSlot(c, assignment.TargetPurchaseOrder)
}

// ClearInvoice handles DELETE /inventories/:id/invoice
func (h *AssignmentHandler) ClearInvoice(c *gin.Context) {
	h.clearSlot(c, assignment.TargetInvoice)
}

func (h *AssignmentHandler) clearSlot(c *gin.Context, slot assignment.TargetType) {
	itemID, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	h.unassignResult(c)(h.service.Unassign(c.Request.Context(), itemID, slot))
}

func (h *AssignmentHandler) unassignResult(c *gin.Context) func(*assignmentapp.UnassignResult, error) {
	return func(result *assignmentapp.UnassignResult, err error) {
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, result)
	}
}
