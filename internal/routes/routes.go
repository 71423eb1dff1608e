package routes

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/clearstream/clearstream/internal/config"
	"github.com/clearstream/clearstream/internal/middleware"
	"github.com/clearstream/clearstream/internal/processing"
	"github.com/clearstream/clearstream/internal/transactions"
)

// Deps aggregates shared dependencies required to wire routes. DB and Cache
// may be nil: Postgres only backs the snapshot report sink and Redis only
// backs idempotency replay, so the API degrades rather than refuses to start.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
	Proc   *processing.Processor
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	handler := transactions.NewHandler(d.Proc, d.Logger)

	api := app.Group("/api/v1")
	RegisterTransactionRoutes(api, handler)

	return nil
}
