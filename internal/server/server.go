package server

import (
	"log"
	"os"

	"bookbodh-be/internal/bootstrap"
	"bookbodh-be/internal/config"
	"bookbodh-be/internal/pkg/serverutils"

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
	app := fiber.New(fiber.Config{
		BodyLimit: cfg.App.MaxUploadBytes,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization",
	}))

	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware())

	if cfg.App.JwtSecret == "" {
		log.Println("Warning: JWT_SECRET is not set, protected routes will reject every request")
	}
	if err := os.MkdirAll(cfg.App.UploadDir, 0o755); err != nil {
		log.Printf("Warning: could not create upload dir %s: %v", cfg.App.UploadDir, err)
	}

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
	log.Printf("Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func registerRoutes(app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	auth := serverutils.NewJwtMiddleware(cfg.App.JwtSecret)

	c.HealthController.RegisterRoutes(app)

	api := app.Group("/api")
	c.HealthController.RegisterRoutes(api)

	c.BookController.RegisterRoutes(api, auth)
	c.ChatController.RegisterRoutes(api, auth)
	c.DiagnosticsController.RegisterRoutes(api, auth)

	c.StatusHandler.RegisterRoutes(api)
}
