package server

import (
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/username-relay/relay-service/pkg/configuration"
	"github.com/username-relay/relay-service/pkg/controller"
	"github.com/username-relay/relay-service/pkg/middleware"
	"github.com/username-relay/relay-service/pkg/relay"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// HealthPath is the route of the health endpoint.
const HealthPath = "/api/v1/health"

type ServerOption = func(server *RelayServer)

// WithRelayClient makes the server relay the check requests with the given client
// instead of a client for the configured remote service.
func WithRelayClient(client controller.RelayClient) ServerOption {
	return func(server *RelayServer) {
		server.client = client
	}
}

// RelayServer bundles configuration, and HTTP server objects in a single
// location.
type RelayServer struct {
	config      *configuration.Registry
	router      *gin.Engine
	httpServer  *http.Server
	routesSetup sync.Once
	client      controller.RelayClient
}

// New creates a new RelayServer object with reasonable defaults.
func New(config *configuration.Registry, options ...ServerOption) *RelayServer {
	gin.DefaultWriter = io.MultiWriter(os.Stdout)

	// Disable logging for the health endpoint so that our logs aren't overwhelmed
	ginRouter := gin.New()
	ginRouter.ContextWithFallback = true
	ginRouter.Use(
		gin.LoggerWithWriter(gin.DefaultWriter, HealthPath),
		middleware.Recovery(gin.DefaultErrorWriter),
		cors.New(corsConfig(config)),
	)

	srv := &RelayServer{
		config: config,
		router: ginRouter,
	}
	for _, opt := range options {
		opt(srv)
	}
	if srv.client == nil {
		srv.client = relay.NewClient(config)
	}

	srv.httpServer = &http.Server{
		Addr: srv.config.GetHTTPAddress(),
		// Good practice to set timeouts to avoid Slowloris attacks.
		WriteTimeout: srv.config.GetHTTPWriteTimeout(),
		ReadTimeout:  srv.config.GetHTTPReadTimeout(),
		IdleTimeout:  srv.config.GetHTTPIdleTimeout(),
		Handler:      srv.router,
	}
	if srv.config.GetHTTPCompressResponses() {
		srv.router.Use(gzip.Gzip(gzip.DefaultCompression))
	}
	return srv
}

func corsConfig(config *configuration.Registry) cors.Config {
	c := cors.Config{
		AllowMethods: config.GetCORSAllowedMethods(),
		AllowHeaders: config.GetCORSAllowedHeaders(),
	}
	origins := config.GetCORSAllowedOrigins()
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = origins
	return c
}

// Config returns the app server's config object.
func (srv *RelayServer) Config() *configuration.Registry {
	return srv.config
}

// HTTPServer returns the app server's HTTP server.
func (srv *RelayServer) HTTPServer() *http.Server {
	return srv.httpServer
}

// Engine returns the app server's HTTP router.
func (srv *RelayServer) Engine() *gin.Engine {
	return srv.router
}

// GetRegisteredRoutes returns all registered routes formatted with their
// methods and paths.
func (srv *RelayServer) GetRegisteredRoutes() string {
	var sb strings.Builder

	for _, routeInfo := range srv.router.Routes() {
		sb.WriteString("ROUTE: ")
		sb.WriteString("\tRoute Path: ")
		sb.WriteString(routeInfo.Path)
		sb.WriteString("\n\tMethod: ")
		sb.WriteString(routeInfo.Method)
		sb.WriteString("\n")
	}
	return sb.String()
}
