package routes

import (
	"log"

	"notaria-digital/internal/adapters/http/handlers"
	"notaria-digital/internal/adapters/http/middleware"
	"notaria-digital/internal/adapters/payment"
	"notaria-digital/internal/adapters/persistence/repositories"
	"notaria-digital/internal/adapters/render"
	"notaria-digital/internal/config"
	"notaria-digital/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	requestRepo := repositories.NewRequestRepository(db)

	// Payment processor is chosen once at startup from config
	var processor payment.Processor
	if cfg.Payment.Simulated() {
		log.Println("💳 Payment mode: simulated (no gateway configured)")
		processor = payment.NewSimulatedProcessor()
	} else {
		log.Printf("💳 Payment mode: external gateway at %s", cfg.Payment.BaseURL)
		processor = payment.NewMacroProcessor(cfg.Payment.BaseURL, cfg.Payment.APIKey, cfg.Payment.ReturnURL)
	}

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo)
	requestService := services.NewRequestService(requestRepo, processor)
	certificateService := services.NewCertificateService(requestRepo, render.NewConstanciaRenderer())

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	requestHandler := handlers.NewRequestHandler(requestService, certificateService)
	paymentHandler := handlers.NewPaymentHandler(requestService, cfg)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Auth routes (public + protected)
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Payment webhook (authenticated by shared secret, not a user session)
	apiV1.Post("/payments/confirm", paymentHandler.Confirm)

	// User management routes (Admin only)
	userRoutes := apiV1.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	userRoutes.Use(middleware.AdminOnly())
	setupUserRoutes(userRoutes, userHandler)

	// Request lifecycle routes (Authenticated users)
	requestRoutes := apiV1.Group("/requests")
	requestRoutes.Use(middleware.AuthMiddleware(cfg))
	setupRequestRoutes(requestRoutes, requestHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupUserRoutes configures user management routes (Admin only)
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.List)
	router.Post("/", handler.Create)
}

// setupRequestRoutes configures request lifecycle routes
func setupRequestRoutes(router fiber.Router, handler *handlers.RequestHandler) {
	// Client routes
	router.Post("/", handler.Create)
	router.Get("/", handler.ListOwned)

	// Staff routes
	router.Get("/all", middleware.StaffOnly(), handler.ListAll)

	// Owner or staff
	router.Get("/:id", handler.Get)
	router.Post("/:id/pay", handler.Pay)
	router.Get("/:id/pdf", handler.Certificate)

	// Staff-only transitions
	router.Post("/:id/approve", middleware.StaffOnly(), handler.Approve)
	router.Post("/:id/reject", middleware.StaffOnly(), handler.Reject)
	router.Post("/:id/validate-pdf", middleware.StaffOnly(), handler.ValidatePDF)
}
