package middleware

import (
	"log/slog"
	"time"

	"nfeditor/metrics"

	"github.com/gofiber/fiber/v2"
)

// RequestLogger logs every request and records its duration. Handler
// errors are rendered here through the app ErrorHandler so the logged
// status is the one sent to the client.
func RequestLogger(logger *slog.Logger, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if err := c.Next(); err != nil {
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		elapsed := time.Since(start)
		code := c.Response().StatusCode()
		route := c.Route().Path

		m.RecordRequest(c.Method(), route, code, elapsed)
		logger.Info("request",
			"method", c.Method(),
			"path", c.Path(),
			"route", route,
			"status", code,
			"duration", elapsed,
		)
		return nil
	}
}
