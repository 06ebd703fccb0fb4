package main

import (
	"os"
	"strings"
	"time"

	"github.com/bizfolio/bizfolio-api/internal/application/service"
	"github.com/bizfolio/bizfolio-api/internal/config"
	"github.com/bizfolio/bizfolio-api/internal/infrastructure/database"
	infraRepo "github.com/bizfolio/bizfolio-api/internal/infrastructure/repository"
	"github.com/bizfolio/bizfolio-api/internal/presentation/http/handler"
	"github.com/bizfolio/bizfolio-api/internal/presentation/http/routes"
	"github.com/bizfolio/bizfolio-api/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()

	setupLogger(cfg)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	if err := database.SeedDefaultData(db); err != nil {
		log.Fatal().Err(err).Msg("failed to seed default data")
	}

	// JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours, cfg.JWT.RefreshExpiryHours)

	// Repositories
	userRepo := infraRepo.NewUserRepository(db)
	settingsRepo := infraRepo.NewSettingsRepository(db)
	clientRepo := infraRepo.NewClientRepository(db)
	leadRepo := infraRepo.NewLeadRepository(db)
	quotationRepo := infraRepo.NewQuotationRepository(db)
	invoiceRepo := infraRepo.NewInvoiceRepository(db)
	paymentRepo := infraRepo.NewPaymentRepository(db)
	contractRepo := infraRepo.NewContractRepository(db)
	counterRepo := infraRepo.NewCounterRepository(db)
	dashboardRepo := infraRepo.NewDashboardRepository(db)
	idempotencyRepo := infraRepo.NewIdempotencyRepository(db)

	// Services
	numbering := service.NewNumberingService(counterRepo)
	authService := service.NewAuthService(userRepo, jwtManager)
	settingsService := service.NewSettingsService(settingsRepo)
	clientService := service.NewClientService(clientRepo)
	leadService := service.NewLeadService(leadRepo, clientRepo)
	quotationService := service.NewQuotationService(quotationRepo, invoiceRepo, clientRepo, settingsRepo, numbering)
	invoiceService := service.NewInvoiceService(invoiceRepo, paymentRepo, clientRepo, settingsRepo, numbering)
	paymentService := service.NewPaymentService(paymentRepo, invoiceRepo, numbering)
	contractService := service.NewContractService(contractRepo, clientRepo, numbering)
	dashboardService := service.NewDashboardService(dashboardRepo)

	// Handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Client:    handler.NewClientHandler(clientService),
		Lead:      handler.NewLeadHandler(leadService),
		Quotation: handler.NewQuotationHandler(quotationService),
		Invoice:   handler.NewInvoiceHandler(invoiceService, paymentService),
		Payment:   handler.NewPaymentHandler(paymentService),
		Contract:  handler.NewContractHandler(contractService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Settings:  handler.NewSettingsHandler(settingsService),
	}

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	log.Info().
		Str("env", cfg.App.Env).
		Str("port", cfg.App.Port).
		Msg("starting server")

	if err := router.Run(":" + cfg.App.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.App.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.App.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
