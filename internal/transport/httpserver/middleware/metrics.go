package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"catalog-service/internal/metrics"
)

// Metrics records request count and latency per route template, so /products/7
// and /products/8 share the /api/v1/products/:id series.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		metrics.RecordHTTPRequest(c.Method(), routeLabel(c), status, time.Since(start))

		return err
	}
}

// routeLabel is the matched route template, or "unmatched" when only
// middleware ran.
func routeLabel(c *fiber.Ctx) string {
	if r := c.Route(); r != nil && r.Path != "/" {
		return r.Path
	}
	return "unmatched"
}
