package http

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/rafabene/scribe-backend/internal/domain/ports"
	"github.com/rafabene/scribe-backend/internal/handlers/dto"
	"github.com/rafabene/scribe-backend/internal/handlers/middleware"
	"github.com/rafabene/scribe-backend/internal/infrastructure/i18n"
)

// Router reúne handlers e middlewares da API
type Router struct {
	Logger      ports.Logger
	I18n        *i18n.Service
	CORSOrigins []string
	BaseURL     string
	Identity    middleware.IdentityResolver
	Errors      *ErrorMapper
	Profile     *ProfileHandler
	Billing     *BillingHandler
	Health      *HealthHandler
	Swagger     bool
}

// Engine monta o gin.Engine com todas as rotas
func (r *Router) Engine() *gin.Engine {
	dto.RegisterJSONFieldNames()

	engine := gin.New()
	engine.Use(
		middleware.RequestID(r.Logger),
		middleware.RequestLogger(r.Logger),
		middleware.Recovery(r.Logger, r.Errors.Respond),
		middleware.CORS(r.CORSOrigins),
		middleware.NewI18nMiddleware(r.I18n).DetectLanguage(),
		func(c *gin.Context) {
			c.Set(dto.BaseURLContextKey, r.BaseURL)
			c.Next()
		},
	)

	engine.GET("/health", r.Health.Health)
	engine.GET("/plans", r.Billing.ListPlans)

	if r.Swagger {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authenticated := engine.Group("/")
	authenticated.Use(middleware.Authenticate(r.Identity, r.Errors.Respond))
	{
		authenticated.GET("/user/profile", r.Profile.GetProfile)
		authenticated.PUT("/user/profile", r.Profile.UpdateProfile)
		authenticated.POST("/create-checkout-session", r.Billing.CreateCheckoutSession)
	}

	return engine
}
