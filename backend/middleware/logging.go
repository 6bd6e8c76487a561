package middleware

import (
	"time"

	"akatsuki/backend/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func LoggingMiddleware(logger *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Передаем управление следующему обработчику
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		kv := []interface{}{
			"ip", c.IP(),
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start),
			"user_agent", c.Get(fiber.HeaderUserAgent),
		}
		if uid, ok := c.Locals(utils.UserIDKey).(uint); ok {
			kv = append(kv, "user_id", uid)
		}
		if err != nil {
			kv = append(kv, "error", err)
		}

		switch {
		case status >= 500:
			logger.Errorw("request", kv...)
		case status >= 400:
			logger.Warnw("request", kv...)
		default:
			logger.Infow("request", kv...)
		}

		return err
	}
}
