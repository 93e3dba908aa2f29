package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics cuenta las solicitudes por método, ruta registrada y status.
// Se usa la plantilla de la ruta (/api/orders/:id) para no crear una serie por id.
func RequestMetrics(counter *prometheus.CounterVec) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		if route == "" || route == "/" {
			route = "unmatched"
		}
		counter.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		return err
	}
}
