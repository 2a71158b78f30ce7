package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"studyhub/logger"
)

// LoggingMiddleware logs one line per request with status and latency.
func LoggingMiddleware(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		log.Info("request",
			"ip", c.IP(),
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"latency", time.Since(start).String(),
		)
		return err
	}
}
