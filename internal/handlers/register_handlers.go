package handlers

import (
	"regexp"

	"github.com/kursboard/kursboard/cmd/docs"
	"github.com/kursboard/kursboard/internal/adapters/realtime"
	"github.com/kursboard/kursboard/internal/core/domain"
	portssvc "github.com/kursboard/kursboard/internal/core/ports/services"
	"github.com/kursboard/kursboard/internal/middleware"
	"github.com/kursboard/kursboard/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// registerCustomValidators installs the binding-level validators the DTOs
// reference. Must run before any route binds a tagged request.
func registerCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("currencycode", func(fl validator.FieldLevel) bool {
			return currencyCodePattern.MatchString(fl.Field().String())
		})
	}
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	hub *realtime.Hub,
) {
	registerCustomValidators()

	// Add health check route
	r.GET("/", getHome)
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Register public authentication routes
	registerAuthRoutes(r, cfg, services)

	// Public read-only surface and the websocket endpoints
	registerPublicRoutes(r, services, hub)
	registerWebsocketRoutes(r, cfg, hub)

	// Setup API v1 admin routes with Auth Middleware, passing service interfaces
	setupAdminRoutes(r, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// registerPublicRoutes wires the anonymous read path: the visible rate map
// and the published advice posts.
func registerPublicRoutes(r *gin.Engine, services *portssvc.ServiceContainer, hub *realtime.Hub) {
	rateHandler := newRateHandler(services.Rate)
	adviceHandler := newAdviceHandler(services.Advice)

	public := r.Group("/api/v1")
	{
		public.GET("/rates", rateHandler.listVisibleRates)
		public.GET("/advice", adviceHandler.listPublishedAdvice)
	}
}

// setupAdminRoutes configures the /api/v1/admin group. Every route requires
// a valid session token; mutating groups additionally pass the capability
// gate so a denied attempt is audited before it is rejected.
func setupAdminRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	admin := r.Group("/api/v1/admin", middleware.AuthMiddleware(cfg.JWTSecret))

	registerAdminRateRoutes(admin, services)
	registerActivityRoutes(admin, services)
	registerAdminAdviceRoutes(admin, services)
	registerPublishRoutes(admin, services)
}

func registerAdminRateRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newRateHandler(services.Rate)
	manageRates := middleware.RequireCapability(services.Access, services.Audit, domain.CapabilityManageRates)

	rates := rg.Group("/rates", manageRates)
	{
		rates.GET("", h.listAllRates)
		rates.POST("", h.updateRates)
		rates.GET("/:code/history", h.getRateHistory)
		rates.PATCH("/:code/visibility", h.setVisibility)
		rates.PATCH("/:code/active", h.setActive)
	}

	currencies := rg.Group("/currencies", manageRates)
	{
		currencies.POST("", h.createCurrency)
	}
}

func registerActivityRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newActivityHandler(services.Audit)
	viewAudit := middleware.RequireCapability(services.Access, services.Audit, domain.CapabilityViewAudit)

	activity := rg.Group("/activity", viewAudit)
	{
		activity.GET("", h.listActivity)
	}
}

func registerAdminAdviceRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newAdviceHandler(services.Advice)
	manageAdvice := middleware.RequireCapability(services.Access, services.Audit, domain.CapabilityManageAdvice)

	advice := rg.Group("/advice", manageAdvice)
	{
		advice.GET("", h.listAllAdvice)
		advice.POST("", h.createAdvice)
		advice.PATCH("/:postID", h.updateAdvice)
	}
}

func registerPublishRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newPublishHandler(services.Publish)
	publishSocial := middleware.RequireCapability(services.Access, services.Audit, domain.CapabilityPublishSocial)

	publish := rg.Group("/publish", publishSocial)
	{
		publish.POST("", h.publishSummary)
	}
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
