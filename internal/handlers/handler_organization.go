package handlers

import (
	"net/http"

	portssvc "github.com/bizbooks/ledger-backend/internal/core/ports/services"
	"github.com/bizbooks/ledger-backend/internal/dto"
	"github.com/gin-gonic/gin"
)

type organizationHandler struct {
	orgService portssvc.OrganizationSvcFacade
}

func newOrganizationHandler(orgService portssvc.OrganizationSvcFacade) *organizationHandler {
	return &organizationHandler{orgService: orgService}
}

func (h *organizationHandler) createOrganization(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	org, err := h.orgService.CreateOrganization(c.Request.Context(), req, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToOrganizationResponse(org))
}

func (h *organizationHandler) getOrganization(c *gin.Context) {
	orgID := c.Param("orgID")

	org, err := h.orgService.GetOrganizationByID(c.Request.Context(), orgID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}

func (h *organizationHandler) listOrganizations(c *gin.Context) {
	limit, offset := parseLimitOffset(c, 50)

	orgs, err := h.orgService.ListOrganizations(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]dto.OrganizationResponse, len(orgs))
	for i := range orgs {
		responses[i] = dto.ToOrganizationResponse(&orgs[i])
	}
	c.JSON(http.StatusOK, gin.H{"organizations": responses})
}
