package handler

import (
	identityapp "github.com/dokan/papershop/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// UserHandler manages the users of an organization
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create adds a user.
// POST /users
func (h *UserHandler) Create(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	var req identityapp.CreateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.userService.Create(c.Request.Context(), p.TenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns the organization's users.
// GET /users
func (h *UserHandler) List(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	users, err := h.userService.List(c.Request.Context(), p.TenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, users)
}

// ChangeRole assigns a new role.
// PUT /users/:id/role
func (h *UserHandler) ChangeRole(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	userID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req identityapp.ChangeRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.userService.ChangeRole(c.Request.Context(), p.TenantID, p.UserID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Deactivate disables a user's sign-in.
// DELETE /users/:id
func (h *UserHandler) Deactivate(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	userID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.userService.Deactivate(c.Request.Context(), p.TenantID, p.UserID, userID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
