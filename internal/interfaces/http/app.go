package http

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/almacen-api/pkg/logger"
)

// AppOptions opciones del servidor fuera de las rutas de negocio.
type AppOptions struct {
	Name        string
	Log         *logger.Logger
	Metrics     nethttp.Handler                 // nil = sin /metrics
	SwaggerFile string                          // "" = sin /docs
	Ready       func(ctx context.Context) error // chequeo de /health; nil = siempre ok
}

// NewApp arma la aplicación Fiber con middlewares, /health, /metrics, /docs y las rutas de la API.
func NewApp(opts AppOptions, deps RouterDeps) *fiber.App {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      opts.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(RequestLogger(log.Component("http")))

	// Swagger UI: http://localhost:<port>/docs
	if opts.SwaggerFile != "" {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: opts.SwaggerFile,
			Path:     "docs",
			Title:    "Almacén API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if opts.Ready != nil {
			if err := opts.Ready(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "service": opts.Name})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": opts.Name})
	})
	if opts.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(opts.Metrics))
	}

	Router(app, deps)
	return app
}
