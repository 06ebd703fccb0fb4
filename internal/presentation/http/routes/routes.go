package routes

import (
	"time"

	"github.com/bizfolio/bizfolio-api/internal/config"
	domainRepo "github.com/bizfolio/bizfolio-api/internal/domain/repository"
	"github.com/bizfolio/bizfolio-api/internal/presentation/http/handler"
	"github.com/bizfolio/bizfolio-api/internal/presentation/http/middleware"
	"github.com/bizfolio/bizfolio-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Client    *handler.ClientHandler
	Lead      *handler.LeadHandler
	Quotation *handler.QuotationHandler
	Invoice   *handler.InvoiceHandler
	Payment   *handler.PaymentHandler
	Contract  *handler.ContractHandler
	Dashboard *handler.DashboardHandler
	Settings  *handler.SettingsHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		// Replay protection for retried and queued writes
		protected.Use(middleware.Idempotency(deps.IdempotencyRepo))

		registerProtectedRoutes(protected, h)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	// Profile
	protected.GET("/profile", h.Auth.Me)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Settings
	protected.GET("/settings", h.Settings.Get)
	protected.PUT("/settings", h.Settings.Update)

	// Dashboard
	protected.GET("/dashboard", h.Dashboard.Summary)

	// Clients
	clients := protected.Group("/clients")
	{
		clients.GET("", h.Client.List)
		clients.POST("", h.Client.Create)
		clients.GET("/:id", h.Client.Get)
		clients.PUT("/:id", h.Client.Update)
		clients.DELETE("/:id", h.Client.Delete)
	}

	// Leads
	leads := protected.Group("/leads")
	{
		leads.GET("", h.Lead.List)
		leads.POST("", h.Lead.Create)
		leads.GET("/:id", h.Lead.Get)
		leads.PUT("/:id", h.Lead.Update)
		leads.DELETE("/:id", h.Lead.Delete)
		leads.POST("/:id/convert", h.Lead.Convert)
	}

	// Quotations
	quotations := protected.Group("/quotations")
	{
		quotations.GET("", h.Quotation.List)
		quotations.POST("", h.Quotation.Create)
		quotations.GET("/:id", h.Quotation.Get)
		quotations.PUT("/:id", h.Quotation.Update)
		quotations.POST("/:id/send", h.Quotation.Send)
		quotations.POST("/:id/view", h.Quotation.MarkViewed)
		quotations.POST("/:id/approve", h.Quotation.Approve)
		quotations.POST("/:id/reject", h.Quotation.Reject)
		quotations.POST("/:id/revise", h.Quotation.Revise)
		quotations.POST("/:id/convert", h.Quotation.Convert)
	}

	// Invoices
	invoices := protected.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.POST("", h.Invoice.Create)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.PUT("/:id", h.Invoice.Update)
		invoices.POST("/:id/send", h.Invoice.Send)
		invoices.POST("/:id/cancel", h.Invoice.Cancel)
		invoices.POST("/:id/revise", h.Invoice.Revise)
		invoices.GET("/:id/payments", h.Invoice.ListPayments)
		invoices.POST("/:id/payments", h.Invoice.ApplyPayment)
	}

	// Payments
	payments := protected.Group("/payments")
	{
		payments.GET("/:id", h.Payment.Get)
		payments.POST("/:id/void", h.Payment.Void)
	}

	// AMC contracts
	contracts := protected.Group("/contracts")
	{
		contracts.GET("", h.Contract.List)
		contracts.POST("", h.Contract.Create)
		contracts.GET("/:id", h.Contract.Get)
		contracts.POST("/:id/activate", h.Contract.Activate)
		contracts.POST("/:id/renew", h.Contract.Renew)
	}

	// Service visits
	protected.POST("/visits/:visit_id/complete", h.Contract.CompleteVisit)
}
