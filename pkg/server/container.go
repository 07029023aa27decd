package server

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"triplewhale-order-proxy/internal/config"
	"triplewhale-order-proxy/internal/handlers"
	"triplewhale-order-proxy/internal/metrics"
	"triplewhale-order-proxy/internal/proxy"
)

// Container holds all application dependencies. It is built once per process
// and not modified afterwards, so concurrent invocations can share it.
type Container struct {
	Config       *config.Config
	Serverless   *config.ServerlessConfig
	Logger       *logrus.Logger
	Metrics      *metrics.Metrics
	Proxy        *proxy.Client
	OrderHandler *handlers.OrderHandler
	DebugHandler *handlers.DebugHandler

	httpClient *http.Client
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := config.NewLogger(cfg)
	serverless := config.GetServerlessConfig()
	m := metrics.New()

	// Zero timeout leaves the transport default in place
	httpClient := &http.Client{Timeout: cfg.Upstream.Timeout}

	client := proxy.NewClient(proxy.ClientConfig{
		Endpoint:   cfg.Upstream.URL,
		APIKey:     cfg.Upstream.APIKey,
		HTTPClient: httpClient,
		Recorder:   m,
	}, logger)

	if !client.Configured() {
		logger.Warn("TRIPLEWHALE_API_KEY environment variable is not set")
	}

	logger.WithFields(logrus.Fields{
		"environment":     cfg.Environment,
		"deployment_mode": serverless.DeploymentMode(),
		"upstream_url":    cfg.Upstream.URL,
	}).Debug("Container initialized")

	return &Container{
		Config:       cfg,
		Serverless:   serverless,
		Logger:       logger,
		Metrics:      m,
		Proxy:        client,
		OrderHandler: handlers.NewOrderHandler(client, m, logger),
		DebugHandler: handlers.NewDebugHandler(cfg.Upstream.APIKey, serverless),
		httpClient:   httpClient,
	}, nil
}

// RouterConfig returns the route wiring for the local server
func (c *Container) RouterConfig() *handlers.RouterConfig {
	return &handlers.RouterConfig{
		OrderHandler:   c.OrderHandler,
		DebugHandler:   c.DebugHandler,
		MetricsHandler: c.Metrics.Handler(),
		Logger:         c.Logger,
	}
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}
	return nil
}
