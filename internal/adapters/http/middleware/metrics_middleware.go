// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"notekeep/pkg/metrics"
)

// NewMetricsMiddleware создает промежуточное ПО сбора HTTP метрик.
// Метки используют шаблон маршрута, а не сырой путь, чтобы ограничить
// кардинальность.
func NewMetricsMiddleware(m *metrics.Metrics) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		m.RequestsInFlight.Inc()
		start := time.Now()

		err := ctx.Next()

		m.RequestsInFlight.Dec()

		path := ctx.Route().Path
		method := ctx.Method()
		status := strconv.Itoa(ctx.Response().StatusCode())

		m.RequestsTotal.WithLabelValues(method, path, status).Inc()
		m.RequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

		return err
	}
}
