// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"catalog-service/internal/app/service"
	"catalog-service/internal/auth"
	"catalog-service/internal/transport/httpserver/dto"
	"catalog-service/internal/transport/httpserver/handler"
	"catalog-service/internal/transport/httpserver/middleware"
	"catalog-service/internal/validator"
	"catalog-service/web"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         int
	BodyLimit    int
	Debug        bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TemplatesDir string // empty: use the templates embedded in the binary
}

// Services bundles the application services the HTTP layer exposes.
type Services struct {
	Search          *service.SearchService
	Catalog         *service.CatalogService
	Carousels       *service.CarouselService
	Recommendations *service.RecommendationService
	Tagging         *service.TaggingService
	Tokens          *auth.TokenManager
}

// Route is one entry of the static route table.
type Route struct {
	Method       string
	Path         string
	RequiresAuth bool
	Handler      fiber.Handler
}

// Server wraps Fiber app with handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with all routes configured. readiness lists
// the dependencies /readyz pings.
func NewServer(
	cfg ServerConfig,
	svc Services,
	readiness map[string]middleware.Pinger,
	v *validator.Validator,
	logger *zap.Logger,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "catalog-service",
		BodyLimit:    cfg.BodyLimit,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		ErrorHandler: errorHandler(logger),
		Views:        newViews(cfg),
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	// Health checks first so probes answer even when later middleware is slow.
	app.Use(middleware.NewHealthCheck(readiness, logger))

	app.Use(requestid.New())
	app.Use(middleware.Recover(logger))
	app.Use(middleware.Metrics())
	app.Use(middleware.Logger(logger))
	app.Use(cors.New())
	app.Use(compress.New())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	requireBearer := middleware.RequireBearer(svc.Tokens, logger)
	for _, r := range Routes(svc, v, logger) {
		handlers := []fiber.Handler{r.Handler}
		if r.RequiresAuth {
			handlers = []fiber.Handler{requireBearer, r.Handler}
		}
		app.Add(r.Method, r.Path, handlers...)
	}

	return &Server{
		App:    app,
		Logger: logger,
	}
}

// Routes returns the route table. Static product paths come before /products/:id
// because Fiber matches in registration order.
func Routes(svc Services, v *validator.Validator, logger *zap.Logger) []Route {
	products := handler.NewProductHandler(svc.Search, svc.Catalog, v, logger)
	recommendations := handler.NewRecommendationHandler(svc.Recommendations, svc.Carousels, v, logger)
	categories := handler.NewCategoryHandler(svc.Catalog, v, logger)
	tokens := handler.NewAuthHandler(svc.Tokens, v, logger)
	tagging := handler.NewTaggingHandler(svc.Tagging, v, logger)
	storefront := handler.NewStorefrontHandler(svc.Carousels, logger)

	return []Route{
		{Method: fiber.MethodGet, Path: "/api/v1/products", Handler: products.ListAll},
		{Method: fiber.MethodGet, Path: "/api/v1/products/page", Handler: products.ListPaged},
		{Method: fiber.MethodGet, Path: "/api/v1/products/search", Handler: products.Search},
		{Method: fiber.MethodGet, Path: "/api/v1/products/carousels", Handler: recommendations.Carousels},
		{Method: fiber.MethodGet, Path: "/api/v1/products/recommendations", Handler: recommendations.FromHistory},
		{Method: fiber.MethodGet, Path: "/api/v1/products/category/:categoryId", Handler: products.ListByCategory},
		{Method: fiber.MethodGet, Path: "/api/v1/products/:id/similar", Handler: recommendations.Similar},
		{Method: fiber.MethodGet, Path: "/api/v1/products/:id/detail", RequiresAuth: true, Handler: recommendations.Detail},
		{Method: fiber.MethodPost, Path: "/api/v1/products/:id/tags/ai", Handler: tagging.GenerateTags},
		{Method: fiber.MethodGet, Path: "/api/v1/products/:id", Handler: products.Get},
		{Method: fiber.MethodPost, Path: "/api/v1/products", Handler: products.Create},
		{Method: fiber.MethodPut, Path: "/api/v1/products/:id", Handler: products.Update},
		{Method: fiber.MethodDelete, Path: "/api/v1/products/:id", Handler: products.Delete},

		{Method: fiber.MethodGet, Path: "/api/v1/categories", Handler: categories.Tree},
		{Method: fiber.MethodPost, Path: "/api/v1/categories", Handler: categories.Create},

		{Method: fiber.MethodPost, Path: "/api/v1/admin/tagging/run", Handler: tagging.RunBatch},

		{Method: fiber.MethodGet, Path: "/api/public/auth/token", Handler: tokens.IssueToken},

		{Method: fiber.MethodGet, Path: "/storefront", Handler: storefront.Render},
	}
}

func newViews(cfg ServerConfig) fiber.Views {
	if cfg.TemplatesDir != "" {
		engine := html.New(cfg.TemplatesDir, ".html")
		engine.Reload(cfg.Debug)
		return engine
	}

	return html.NewFileSystem(http.FS(web.Templates()), ".html")
}

// errorHandler handles errors returned by Fiber itself (unknown route, body too
// large) and anything a handler returns instead of writing a response.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		switch {
		case code == fiber.StatusNotFound:
			logger.Debug("route not found",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
		case code >= 500:
			logger.Error("server error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		default:
			logger.Warn("client error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		}

		return c.Status(code).JSON(dto.ErrorResponse{
			Error: message,
			Code:  errorCode(code),
		})
	}
}

func errorCode(status int) string {
	switch {
	case status == fiber.StatusNotFound:
		return handler.CodeNotFound
	case status == fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case status == fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	case status >= 500:
		return handler.CodeInternal
	default:
		return handler.CodeInvalidParams
	}
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	s.Logger.Info("starting HTTP server", zap.Int("port", port))

	return s.App.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.Logger.Info("shutting down HTTP server")

	return s.App.Shutdown()
}
