package api

import (
	"time"

	"flowsync/configs"
	"flowsync/internal/config"
	"flowsync/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// NewApp builds the Fiber app with the global middleware chain and all
// routes registered.
func NewApp(d *config.Dependencies, cfg configs.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "FlowSync API",
		ErrorHandler: middleware.ErrorResponder,
		BodyLimit:    1 << 20,
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.RequestLogger())
	app.Use(middleware.Metrics())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowCredentials: true,
	}))
	// RATE_LIMIT_MAX=0 disables the limiter; tests rely on it
	if cfg.RateLimitMax > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimitMax,
			Expiration: 1 * time.Minute,
		}))
	}

	RegisterRoutes(app, d)
	return app
}
