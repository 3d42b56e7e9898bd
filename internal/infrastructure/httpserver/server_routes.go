package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health_check", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	s.echo.POST("/subscriptions", s.subscribe)
	s.echo.GET("/subscriptions/confirm", s.confirmSubscription)
}
