package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// healthCheck answers 200 with an empty body whenever the process can serve
// the request. Dependency probes run for log visibility only; a failing
// probe never changes the response.
func (s *Server) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	for _, hc := range s.healthCheckers {
		if hc == nil {
			continue
		}
		if err := hc.Check(ctx); err != nil && s.logger != nil {
			s.logger.WithField("dependency", hc.Name()).WithError(err).Warn("dependency probe failed")
		}
	}

	return c.NoContent(http.StatusOK)
}
