package server

import (
	"context"
	"log"

	"digestly-be/internal/bootstrap"
	"digestly-be/internal/config"
	"digestly-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	// Initialize Fiber App
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024, // 1MB
		ErrorHandler: serverutils.NewErrorHandler(container.Logger),
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	// Routes
	registerRoutes(app, cfg, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("✅ Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func registerRoutes(app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	api := app.Group("/api")

	api.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(serverutils.SuccessResponse("ok", fiber.Map{"status": "up"}))
	})

	c.PublicController.RegisterRoutes(api)

	teams := api.Group("/teams/:teamId",
		serverutils.NewJwtMiddleware(cfg.App.JwtSecret),
		serverutils.NewTeamAccessMiddleware(c.TeamService),
	)
	c.DigestController.RegisterRoutes(teams)
	c.BlockController.RegisterRoutes(teams)
	c.BookmarkController.RegisterRoutes(teams)

	c.DigestSocketHandler.RegisterRoutes(api)
}
