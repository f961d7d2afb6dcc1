package handlers

import (
	"net/http"

	portssvc "github.com/bizbooks/ledger-backend/internal/core/ports/services"
	"github.com/bizbooks/ledger-backend/internal/dto"
	"github.com/gin-gonic/gin"
)

type budgetHandler struct {
	budgetService portssvc.BudgetSvcFacade
}

func newBudgetHandler(budgetService portssvc.BudgetSvcFacade) *budgetHandler {
	return &budgetHandler{budgetService: budgetService}
}

func registerBudgetRoutes(group *gin.RouterGroup, budgetService portssvc.BudgetSvcFacade) {
	h := newBudgetHandler(budgetService)

	budgets := group.Group("/budgets")
	{
		budgets.POST("", h.createBudget)
		budgets.GET("", h.listBudgets)
		budgets.GET("/:budgetID", h.getBudget)
		budgets.PUT("/:budgetID/status", h.setBudgetStatus)
		budgets.GET("/:budgetID/variance", h.analyzeVariance)
	}
}

func (h *budgetHandler) createBudget(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	orgID := c.Param("orgID")

	var req dto.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), orgID, req, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToBudgetResponse(budget))
}

func (h *budgetHandler) getBudget(c *gin.Context) {
	budget, err := h.budgetService.GetBudgetByID(c.Request.Context(), c.Param("orgID"), c.Param("budgetID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

func (h *budgetHandler) listBudgets(c *gin.Context) {
	limit, offset := parseLimitOffset(c, 50)

	budgets, err := h.budgetService.ListBudgets(c.Request.Context(), c.Param("orgID"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budgets": dto.ToBudgetResponses(budgets)})
}

func (h *budgetHandler) setBudgetStatus(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	var req dto.UpdateBudgetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	budget, err := h.budgetService.SetBudgetStatus(c.Request.Context(), c.Param("orgID"), c.Param("budgetID"), req.Status, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

func (h *budgetHandler) analyzeVariance(c *gin.Context) {
	report, err := h.budgetService.Analyze(c.Request.Context(), c.Param("orgID"), c.Param("budgetID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
