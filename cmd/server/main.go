package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"notaria-digital/internal/adapters/http/middleware"
	"notaria-digital/internal/adapters/http/routes"
	"notaria-digital/internal/adapters/persistence/models"
	"notaria-digital/internal/adapters/persistence/repositories"
	"notaria-digital/internal/config"
	"notaria-digital/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// @title Notaría Digital API
// @version 1.0
// @description API de trámites notariales: solicitudes de copias de escritura, pagos y constancias.

// @contact.name API Support
// @contact.email soporte@notariadigital.ar

// @host tramites.notariadigital.ar
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed default accounts
	if err := config.NewSeeder(db).Run(cfg.IsDev()); err != nil {
		log.Printf("⚠️ Warning: Failed to seed default accounts: %v", err)
	}

	// Start reminder digest (08:30 daily)
	reminderService := services.NewReminderService(repositories.NewRequestRepository(db))
	reminderService.Start()
	defer reminderService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Notaría Digital API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
