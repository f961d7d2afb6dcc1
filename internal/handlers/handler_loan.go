package handlers

import (
	"net/http"

	portssvc "github.com/bizbooks/ledger-backend/internal/core/ports/services"
	"github.com/bizbooks/ledger-backend/internal/dto"
	"github.com/gin-gonic/gin"
)

type loanHandler struct {
	loanService portssvc.LoanSvcFacade
}

func newLoanHandler(loanService portssvc.LoanSvcFacade) *loanHandler {
	return &loanHandler{loanService: loanService}
}

func registerLoanRoutes(group *gin.RouterGroup, loanService portssvc.LoanSvcFacade) {
	h := newLoanHandler(loanService)

	loans := group.Group("/loans")
	{
		loans.POST("", h.createLoan)
		loans.GET("", h.listLoans)
		loans.GET("/:loanID", h.getLoan)
		loans.GET("/:loanID/schedule", h.getSchedule)
		loans.POST("/:loanID/payments", h.processPayment)
	}
}

func (h *loanHandler) createLoan(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	orgID := c.Param("orgID")

	var req dto.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	loan, err := h.loanService.CreateLoan(c.Request.Context(), orgID, req, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToLoanResponse(loan))
}

func (h *loanHandler) getLoan(c *gin.Context) {
	loan, err := h.loanService.GetLoanByID(c.Request.Context(), c.Param("orgID"), c.Param("loanID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

func (h *loanHandler) listLoans(c *gin.Context) {
	limit, offset := parseLimitOffset(c, 50)

	loans, err := h.loanService.ListLoans(c.Request.Context(), c.Param("orgID"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"loans": dto.ToLoanResponses(loans)})
}

func (h *loanHandler) getSchedule(c *gin.Context) {
	loanID := c.Param("loanID")

	rows, err := h.loanService.GetSchedule(c.Request.Context(), c.Param("orgID"), loanID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ScheduleResponse{LoanID: loanID, Rows: rows})
}

func (h *loanHandler) processPayment(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	var req dto.LoanPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	loan, entry, err := h.loanService.ProcessLoanPayment(c.Request.Context(), c.Param("orgID"), c.Param("loanID"), req, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.LoanPaymentResponse{
		Loan:  dto.ToLoanResponse(loan),
		Entry: dto.ToEntryResponse(entry),
	})
}
