package handler

import (
	identityapp "github.com/dokan/papershop/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// OrganizationHandler serves the shop settings
type OrganizationHandler struct {
	BaseHandler
	orgService *identityapp.OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler
func NewOrganizationHandler(orgService *identityapp.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// Get GET /organization
func (h *OrganizationHandler) Get(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	resp, err := h.orgService.Get(c.Request.Context(), p.TenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update PUT /organization
func (h *OrganizationHandler) Update(c *gin.Context) {
	p, ok := h.caller(c)
	if !ok {
		return
	}
	var req identityapp.UpdateOrganizationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.orgService.Update(c.Request.Context(), p.TenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
