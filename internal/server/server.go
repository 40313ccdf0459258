// Package server assembles the Fiber application and its storage.
package server

import (
	"errors"
	"fmt"
	"time"

	"katalog/internal/config"
	"katalog/internal/handlers"
	"katalog/internal/middleware"
	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Dependencies are the collaborators wired into the HTTP application.
type Dependencies struct {
	Repository  repositories.ProductRepository
	Publisher   services.EventPublisher // optional
	Logger      zerolog.Logger
	LinkBaseURL string
}

// NewApp builds the Fiber app with middleware and all routes registered.
func NewApp(deps Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "katalog",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(deps.Logger),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(deps.Logger))

	productService := services.NewProductService(deps.Repository, deps.Publisher, deps.Logger)

	productHandler := handlers.NewProductHandler(productService, deps.LinkBaseURL, deps.Logger)
	healthHandler := handlers.NewHealthHandler(deps.Repository, deps.Publisher != nil)

	healthHandler.RegisterRoutes(app)
	productHandler.RegisterRoutes(app)

	return app
}

// errorHandler renders errors that escape handlers, including recovered panics
// and unmatched routes, as JSON.
func errorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}
		if code >= fiber.StatusInternalServerError {
			logger.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		}
		return c.Status(code).JSON(fiber.Map{"message": message})
	}
}

// OpenRepository creates the product repository selected by cfg.DBDriver.
// The returned close function releases the database handle.
func OpenRepository(cfg config.Config, logger zerolog.Logger) (repositories.ProductRepository, func() error, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverMemory:
		return repositories.NewMemoryProductRepository(), func() error { return nil }, nil
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DatabaseDSN)
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseDSN)
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(&logger, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get database handle: %w", err)
	}

	if cfg.DBAutoMigrate {
		if err := db.AutoMigrate(&models.Product{}); err != nil {
			sqlDB.Close()
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	logger.Info().Str("driver", cfg.DBDriver).Msg("database connected")
	return repositories.NewGORMProductRepository(db), sqlDB.Close, nil
}
