package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Stevennnncz/ProyectoDiseno/internals/middlewares/logger"
)

func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}
