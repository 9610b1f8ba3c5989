package handlers

import (
	"github.com/SscSPs/smb_books_app/cmd/docs"
	portssvc "github.com/SscSPs/smb_books_app/internal/core/ports/services"
	"github.com/SscSPs/smb_books_app/internal/middleware"
	"github.com/SscSPs/smb_books_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// apiMiddleware runs after authentication on every /api/v1 route.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	apiMiddleware ...gin.HandlerFunc,
) {
	registerHomeRoutes(r)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services, apiMiddleware)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	apiMiddleware []gin.HandlerFunc,
) {
	chain := append([]gin.HandlerFunc{middleware.AuthMiddleware(cfg.JWTSecret)}, apiMiddleware...)
	v1 := r.Group("/api/v1", chain...)

	RegisterCompanyRoutes(v1, services)
}

// RegisterCompanyRoutes registers the company list and every company-scoped
// route under /companies/:company_id on an authenticated group.
func RegisterCompanyRoutes(v1 *gin.RouterGroup, services *portssvc.ServiceContainer) {
	registerDecimalValidation()

	company := v1.Group("/companies/:company_id")
	registerCompanyRoutes(v1, company, services.Company)
	registerAccountRoutes(company, services.Account, services.Ledger)
	registerJournalRoutes(company, services.Ledger)
	registerPartyRoutes(company, services.Party, services.Settlement)
	registerInventoryRoutes(company, services.Inventory)
	registerOrderRoutes(company, services.Order, services.Settlement)
	registerSettlementRoutes(company, services.Settlement)
	registerBankRoutes(company, services.Reconciliation)
	registerReportingRoutes(company, services.Reporting)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
