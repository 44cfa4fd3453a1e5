package api

import (
	"time"

	"statement-parser/docs"
	"statement-parser/internal/api/handlers"
	"statement-parser/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type RouterConfig struct {
	BodyLimit    int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// SetupRouter builds the fiber app. docHandler and validator are optional:
// without a database the history routes are not mounted, and without a
// validator the API is public.
func SetupRouter(
	cfg RouterConfig,
	extractionHandler *handlers.ExtractionHandler,
	docHandler *handlers.DocumentHandler,
	validator middleware.TokenValidator,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.BodyLimit,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	// Importing docs registers the swagger document in its init().
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	var apiHandlers []fiber.Handler
	if validator != nil {
		apiHandlers = append(apiHandlers, middleware.AuthMiddleware(validator, appLogger))
	} else {
		appLogger.Warn("JWT_SECRET_KEY not set, API routes are public")
	}
	api := app.Group("/api", apiHandlers...)

	api.Post("/file-transaction", extractionHandler.ExtractTransactions)

	if docHandler != nil {
		documents := api.Group("/v1/documents")
		documents.Get("", docHandler.ListDocuments)
		documents.Get("/:id/transactions", docHandler.GetDocumentTransactions)
	}

	return app
}
