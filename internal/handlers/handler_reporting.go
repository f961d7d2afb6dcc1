package handlers

import (
	"net/http"
	"time"

	portssvc "github.com/bizbooks/ledger-backend/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(reportingService portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: reportingService}
}

func registerReportingRoutes(group *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := group.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
	}
}

func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	asOf := time.Now().UTC()
	if v := c.Query("asOf"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "asOf must be an RFC3339 timestamp"})
			return
		}
		asOf = parsed
	}

	rows, err := h.reportingService.GetTrialBalance(c.Request.Context(), c.Param("orgID"), asOf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"asOf": asOf, "rows": rows})
}
