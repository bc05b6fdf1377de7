package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"customize-api/internal/config"
	"customize-api/internal/handler"
	"customize-api/internal/middleware"
	"customize-api/internal/registry"
	"customize-api/internal/repository"
	"customize-api/internal/service"
	"customize-api/internal/service/auth"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redis, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	reg := registry.Default()

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, reg, redis, cfg)
	handlers := handler.NewHandlers(services)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, services.Auth)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService auth.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.Post("/login", h.Auth.Login)

	protected := v1.Group("", middleware.AuthRequired(authService))

	protected.Get("/users/me", h.Auth.Me)

	changesets := protected.Group("/changesets")
	changesets.Post("/", h.Changeset.Create)
	changesets.Get("/", h.Changeset.List)
	changesets.Get("/:uuid", h.Changeset.Get)
	changesets.Put("/:uuid", h.Changeset.Update)
	changesets.Patch("/:uuid", h.Changeset.Update)
	changesets.Delete("/:uuid", h.Changeset.Delete)

	audit := protected.Group("/audit")
	audit.Get("/recent", h.Changeset.RecentActivity)

	settings := protected.Group("/settings")
	settings.Get("/", h.Setting.List)
	settings.Get("/:id", h.Setting.Get)
	settings.Put("/:id", h.Setting.Update)

	panels := protected.Group("/panels")
	panels.Get("/", h.Customize.ListPanels)
	panels.Get("/:id", h.Customize.GetPanel)

	sections := protected.Group("/sections")
	sections.Get("/", h.Customize.ListSections)
	sections.Get("/:id", h.Customize.GetSection)

	controls := protected.Group("/controls")
	controls.Get("/", h.Customize.ListControls)
	controls.Get("/:id", h.Customize.GetControl)

	partials := protected.Group("/partials")
	partials.Get("/", h.Customize.ListPartials)
	partials.Get("/:id", h.Customize.GetPartial)
}
