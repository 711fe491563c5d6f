package http

import (
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/sst-manager-api/internal/application/dispatch"
	"github.com/jhoicas/sst-manager-api/internal/application/dto"
	"github.com/jhoicas/sst-manager-api/pkg/logger"
	"github.com/jhoicas/sst-manager-api/pkg/metrics"
)

// APIStatus texto de GET /api/.
const APIStatus = "API SST-MANAGER En línea"

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName     string
	Dispatcher  *dispatch.Dispatcher
	JWTSecret   string
	CORSOrigins string
	SwaggerFile string           // vacío o inexistente = sin /docs
	Metrics     *metrics.Metrics // nil = sin /metrics
	Log         *logger.Logger
}

// NewApp crea la aplicación Fiber con middlewares globales, /health, /metrics, /docs y la API.
func NewApp(deps RouterDeps) *fiber.App {
	log := deps.Log.Named("http")
	app := fiber.New(fiber.Config{
		AppName:      deps.AppName,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
			}
			if code >= fiber.StatusInternalServerError {
				log.Error().Err(err).Str("request_id", GetRequestID(c)).Str("path", c.Path()).Msg("error no controlado")
			}
			return c.Status(code).JSON(dto.ErrorResponse{Code: errorCode(code), Message: err.Error()})
		},
	})
	app.Use(recover.New())
	app.Use(RequestID())
	origins := deps.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))

	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	// Swagger UI en local: http://localhost:<port>/docs
	if deps.SwaggerFile != "" {
		if _, err := os.Stat(deps.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: deps.SwaggerFile,
				Path:     "docs",
				Title:    "SST Manager API",
			}))
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	Router(app, deps)
	return app
}

// Router registra las rutas de la API. Todo lo que no es la raíz pasa por el despachador.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", Identify(deps.JWTSecret))
	if deps.Metrics != nil {
		api.Use(deps.Metrics.Inflight("/api"))
	}

	status := func(c *fiber.Ctx) error {
		return c.JSON(dto.StatusResponse{Status: fiber.StatusOK, Info: APIStatus})
	}
	api.Get("/", status)

	h := NewResourceHandler(deps.Dispatcher)
	api.All("/:resource/:action?/:id?/:view?", h.Serve)
}

func errorCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return dispatch.CodeNotFound
	case fiber.StatusMethodNotAllowed:
		return dispatch.CodeMethod
	case fiber.StatusBadRequest:
		return dispatch.CodeValidation
	}
	return dispatch.CodeInternal
}
