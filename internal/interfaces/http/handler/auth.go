package handler

import (
	identityapp "github.com/dokan/papershop/internal/application/identity"
	"github.com/dokan/papershop/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler serves sign-up, sign-in and token rotation
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register opens a shop account and signs its admin in.
// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req identityapp.RegisterOrganizationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.authService.RegisterOrganization(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Login exchanges credentials for a token pair.
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Refresh rotates a refresh token.
// POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identityapp.RefreshRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Logout revokes the presented access token and the optional refresh token.
// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req identityapp.LogoutRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	req.AccessJTI = claims.ID
	req.AccessTTL = claims.GetRemainingTTL()

	if err := h.authService.Logout(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Me returns the signed-in user.
// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	resp, err := h.authService.Me(c.Request.Context(), p.TenantID, p.UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
