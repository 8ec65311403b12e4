package logger

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	helper "poolbooking_backend/internals/helpers"
)

// RequestTimeout bounds every request's context.
const RequestTimeout = 5 * time.Second

// LoggerMiddleware tags each request with an id, bounds its context and logs
// the outcome through zap.
func LoggerMiddleware(log *zap.Logger) fiber.Handler {
	log = log.Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()

		reqID := c.Get(fiber.HeaderXRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Locals(helper.LocRequestID, reqID)
		c.Set(fiber.HeaderXRequestID, reqID)

		ctx, cancel := context.WithTimeout(c.UserContext(), RequestTimeout)
		defer cancel()
		c.SetUserContext(ctx)

		err := c.Next()
		if err != nil {
			// render now so the logged status is the one the client sees
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		fields := []zap.Field{
			zap.String("request_id", reqID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
		}
		switch {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
		return nil
	}
}
