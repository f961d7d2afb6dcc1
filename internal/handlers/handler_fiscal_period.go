package handlers

import (
	"net/http"

	portssvc "github.com/bizbooks/ledger-backend/internal/core/ports/services"
	"github.com/bizbooks/ledger-backend/internal/dto"
	"github.com/gin-gonic/gin"
)

type fiscalPeriodHandler struct {
	periodService portssvc.FiscalPeriodSvcFacade
}

func newFiscalPeriodHandler(periodService portssvc.FiscalPeriodSvcFacade) *fiscalPeriodHandler {
	return &fiscalPeriodHandler{periodService: periodService}
}

func registerFiscalPeriodRoutes(group *gin.RouterGroup, periodService portssvc.FiscalPeriodSvcFacade) {
	h := newFiscalPeriodHandler(periodService)

	periods := group.Group("/periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("", h.listPeriods)
		periods.POST("/:periodID/close", h.closePeriod)
	}
}

func (h *fiscalPeriodHandler) createPeriod(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	orgID := c.Param("orgID")

	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	period, err := h.periodService.CreatePeriod(c.Request.Context(), orgID, req, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToFiscalPeriodResponse(period))
}

func (h *fiscalPeriodHandler) listPeriods(c *gin.Context) {
	periods, err := h.periodService.ListPeriods(c.Request.Context(), c.Param("orgID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"periods": dto.ToFiscalPeriodResponses(periods)})
}

func (h *fiscalPeriodHandler) closePeriod(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.periodService.ClosePeriod(c.Request.Context(), c.Param("orgID"), c.Param("periodID"), caller); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
