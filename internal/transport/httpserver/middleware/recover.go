package middleware

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"catalog-service/internal/transport/httpserver/dto"
)

// Recover turns a handler panic into a 500 response carrying the request id, so a
// client report can be matched to the logged stack.
func Recover(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				fields := []zap.Field{
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()),
					zap.String("method", c.Method()),
					zap.String("route", routeLabel(c)),
				}
				if rid := requestID(c); rid != "" {
					fields = append(fields, zap.String("request_id", rid))
				}
				logger.Error("panic recovered", fields...)

				err = c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
					Error:   "internal server error",
					Code:    "INTERNAL_ERROR",
					Details: requestID(c),
				})
			}
		}()

		return c.Next()
	}
}

func requestID(c *fiber.Ctx) string {
	rid, _ := c.Locals("requestid").(string)
	return rid
}
