package handler

import (
	"context"

	identityapp "github.com/fleet/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserService is what the user administration routes need
type UserService interface {
	Create(ctx context.Context, input identityapp.CreateUserInput) (*identityapp.UserDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*identityapp.UserDTO, error)
	List(ctx context.Context, filter identityapp.UserListFilter) ([]identityapp.UserDTO, int64, error)
	Update(ctx context.Context, id uuid.UUID, input identityapp.UpdateUserInput) (*identityapp.UserDTO, error)
	ChangeRole(ctx context.Context, id uuid.UUID, input identityapp.ChangeRoleInput) (*identityapp.UserDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserHandler serves back-office user accounts
type UserHandler struct {
	BaseHandler
	service UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Create handles POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var input identityapp.CreateUserInput
	if !h.BindJSON(c, &input) {
		return
	}
	user, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// GetByID handles GET /users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	user, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// List handles GET /users
func (h *UserHandler) List(c *gin.Context) {
	var filter identityapp.UserListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	users, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, users, total, page, pageSize)
}

// Update handles PUT /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var input identityapp.UpdateUserInput
	if !h.BindJSON(c, &input) {
		return
	}
	user, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ChangeRole handles PUT /users/:id/role
func (h *UserHandler) ChangeRole(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var input identityapp.ChangeRoleInput
	if !h.BindJSON(c, &input) {
		return
	}
	user, err := h.service.ChangeRole(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Delete handles DELETE /users/:id. The account is disabled, not removed.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"id": id, "deleted": true})
}
