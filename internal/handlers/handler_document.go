package handlers

import (
	"net/http"

	"github.com/bizbooks/ledger-backend/internal/core/domain"
	portssvc "github.com/bizbooks/ledger-backend/internal/core/ports/services"
	"github.com/bizbooks/ledger-backend/internal/dto"
	"github.com/gin-gonic/gin"
)

type documentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func newDocumentHandler(paymentService portssvc.PaymentSvcFacade) *documentHandler {
	return &documentHandler{paymentService: paymentService}
}

func registerDocumentRoutes(group *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newDocumentHandler(paymentService)

	documents := group.Group("/documents")
	{
		documents.POST("", h.createDocument)
		documents.GET("", h.listDocuments)
		documents.GET("/:docID", h.getDocument)
		documents.POST("/:docID/cancel", h.cancelDocument)
		documents.POST("/:docID/payments", h.applyPayment)
	}
}

func (h *documentHandler) createDocument(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	orgID := c.Param("orgID")

	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	doc, err := h.paymentService.CreateDocument(c.Request.Context(), orgID, req, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

func (h *documentHandler) getDocument(c *gin.Context) {
	doc, err := h.paymentService.GetDocumentByID(c.Request.Context(), c.Param("orgID"), c.Param("docID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

func (h *documentHandler) listDocuments(c *gin.Context) {
	limit, offset := parseLimitOffset(c, 50)

	var kind *domain.DocumentKind
	if k := c.Query("kind"); k != "" {
		dk := domain.DocumentKind(k)
		if dk != domain.Invoice && dk != domain.Bill {
			c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be INVOICE or BILL"})
			return
		}
		kind = &dk
	}

	docs, err := h.paymentService.ListDocuments(c.Request.Context(), c.Param("orgID"), kind, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": dto.ToDocumentResponses(docs)})
}

func (h *documentHandler) cancelDocument(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	doc, err := h.paymentService.CancelDocument(c.Request.Context(), c.Param("orgID"), c.Param("docID"), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

func (h *documentHandler) applyPayment(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	var req dto.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	doc, entry, err := h.paymentService.ApplyPayment(c.Request.Context(), c.Param("orgID"), c.Param("docID"), req, caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.PaymentResponse{
		Document: dto.ToDocumentResponse(doc),
		Entry:    dto.ToEntryResponse(entry),
	})
}
