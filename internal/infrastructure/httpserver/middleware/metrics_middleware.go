package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records a request counter and a latency observation per request.
// The endpoint label is the registered route template, so confirmation URLs
// carrying distinct tokens collapse into a single series.
func Metrics(requests *prometheus.CounterVec, durations *prometheus.HistogramVec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			method := c.Request().Method
			timer := prometheus.NewTimer(prometheus.ObserverFunc(func(seconds float64) {
				durations.WithLabelValues(method, routeLabel(c)).Observe(seconds)
			}))

			err := next(c)

			timer.ObserveDuration()
			requests.WithLabelValues(method, routeLabel(c), strconv.Itoa(c.Response().Status)).Inc()
			return err
		}
	}
}

// routeLabel is the matched route template; requests that matched no route
// share one fixed label.
func routeLabel(c echo.Context) string {
	if path := c.Path(); path != "" {
		return path
	}
	return "unmatched"
}
