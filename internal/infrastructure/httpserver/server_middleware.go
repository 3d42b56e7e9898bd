package httpserver

import (
	"github.com/labstack/echo/v4/middleware"

	customMiddleware "github.com/quillpost/newsletter/internal/infrastructure/httpserver/middleware"
)

func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORS())
	s.echo.Use(middleware.RequestID())

	s.echo.Use(customMiddleware.Metrics(GetRequestsTotal(), GetRequestDuration()))
	s.echo.Use(customMiddleware.RequestLogging(s.logger))
}
