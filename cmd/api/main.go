package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	_ "github.com/rafabene/scribe-backend/docs"
	"github.com/rafabene/scribe-backend/internal/domain/entities"
	httphandlers "github.com/rafabene/scribe-backend/internal/handlers/http"
	"github.com/rafabene/scribe-backend/internal/infrastructure/config"
	"github.com/rafabene/scribe-backend/internal/infrastructure/i18n"
	"github.com/rafabene/scribe-backend/internal/infrastructure/identity"
	"github.com/rafabene/scribe-backend/internal/infrastructure/logging"
	"github.com/rafabene/scribe-backend/internal/infrastructure/payments"
	"github.com/rafabene/scribe-backend/internal/infrastructure/persistence/postgres"
	"github.com/rafabene/scribe-backend/internal/services"
)

// @title                       Scribe API
// @version                     1.0
// @description                 Backend do assistente de escrita: perfil, preferências e assinatura.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	logger := logging.NewSlogLogger(cfg.Logging.Level)
	logger.Info("starting scribe backend",
		"env", cfg.Env,
		"auth_provider", cfg.Auth.Provider,
	)

	db, err := postgres.NewDatabaseConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		log.Fatal(err)
	}

	i18nService, err := i18n.NewService(cfg.I18n.LocalesDir, cfg.I18n.DefaultLanguage)
	if err != nil {
		logger.Error("failed to initialize i18n", "error", err)
		log.Fatal(err)
	}
	logger.Info("i18n initialized",
		"default_language", i18nService.GetDefaultLanguage(),
		"supported_languages", i18nService.GetSupportedLanguages(),
	)

	verifier, err := identity.NewVerifier(context.Background(), cfg.Auth, logger)
	if err != nil {
		logger.Error("failed to initialize token verifier", "error", err)
		log.Fatal(err)
	}

	gateway := payments.NewStripeGateway(cfg.Stripe, "", logger)
	catalog := entities.NewPlanCatalog(cfg.Stripe.LitePriceID, cfg.Stripe.ProPriceID)
	if !catalog.HasPaidPlans() {
		logger.Warn("no stripe price ids configured, checkout accepts any price id")
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	prefsRepo := postgres.NewPreferencesRepository(db)
	uow := postgres.NewUnitOfWork(db)

	// Services
	identityService := services.NewIdentityService(verifier, userRepo, uow, logger)
	profileService := services.NewProfileService(userRepo, profileRepo, prefsRepo, uow, logger)
	billingService := services.NewBillingService(userRepo, gateway, catalog, logger)

	// Handlers
	errorMapper := httphandlers.NewErrorMapper(logger)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := &httphandlers.Router{
		Logger:      logger,
		I18n:        i18nService,
		CORSOrigins: cfg.CORS.Origins(),
		BaseURL:     cfg.Server.BaseURL,
		Identity:    identityService,
		Errors:      errorMapper,
		Profile:     httphandlers.NewProfileHandler(profileService, errorMapper),
		Billing:     httphandlers.NewBillingHandler(billingService, errorMapper),
		Health:      httphandlers.NewHealthHandler(userRepo, logger),
		Swagger:     cfg.Env != "production",
	}

	srv := &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           router.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			"host", cfg.Server.Host,
			"port", cfg.Server.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("server exited")
}
