package handlers

import (
	portssvc "github.com/bizbooks/ledger-backend/internal/core/ports/services"
	"github.com/bizbooks/ledger-backend/internal/middleware"
	"github.com/bizbooks/ledger-backend/pkg/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to entity route registrations.
// Every route requires the caller identity forwarded by the authorization layer.
func setupAPIV1Routes(r *gin.Engine, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1", middleware.CallerIdentity())

	registerCurrencyRoutes(v1, services.Currency)
	registerOrganizationRoutes(v1, services)
}

// registerOrganizationRoutes registers organization CRUD plus all org-scoped resources.
func registerOrganizationRoutes(v1 *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newOrganizationHandler(services.Organization)

	orgs := v1.Group("/organizations")
	{
		orgs.POST("", h.createOrganization)
		orgs.GET("", h.listOrganizations)
		orgs.GET("/:orgID", h.getOrganization)
	}

	scoped := orgs.Group("/:orgID")
	registerAccountRoutes(scoped, services.Account)
	registerJournalRoutes(scoped, services.Journal)
	registerDocumentRoutes(scoped, services.Payment)
	registerLoanRoutes(scoped, services.Loan)
	registerBudgetRoutes(scoped, services.Budget)
	registerFiscalPeriodRoutes(scoped, services.FiscalPeriod)
	registerReportingRoutes(scoped, services.Reporting)
}
