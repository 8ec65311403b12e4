package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"go.uber.org/zap"

	"poolbooking_backend/internals/configs"
	"poolbooking_backend/internals/middlewares/logger"
)

// SetupMiddlewares installs the app-wide chain. Order matters: recover sits
// inside the request logger so a panic is still logged with its request id.
func SetupMiddlewares(app *fiber.App, cfg *configs.Config, log *zap.Logger) {
	app.Use(logger.LoggerMiddleware(log))
	app.Use(RecoveryMiddleware(!cfg.IsProduction()))
	app.Use(CorsMiddleware(cfg.CorsOrigins))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
}
