package httpserver

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/quillpost/newsletter/internal/core/ports"
)

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSCertFile  string
	TLSKeyFile   string
}

type ServerDeps struct {
	SubscriptionService ports.SubscriptionService
	HealthCheckers      []ports.HealthChecker
}

type Server struct {
	echo            *echo.Echo
	config          *ServerConfig
	logger          *logrus.Logger
	subscriptionSvc ports.SubscriptionService
	healthCheckers  []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()
	e.HideBanner = true

	server := &Server{
		echo:            e,
		config:          serverConfig,
		logger:          logger,
		subscriptionSvc: deps.SubscriptionService,
		healthCheckers:  deps.HealthCheckers,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
