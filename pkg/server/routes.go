package server

import (
	"net/http"

	"github.com/username-relay/relay-service/pkg/assets"
	"github.com/username-relay/relay-service/pkg/controller"
	"github.com/username-relay/relay-service/pkg/errors"
	"github.com/username-relay/relay-service/pkg/metrics"
	"github.com/username-relay/relay-service/pkg/middleware"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// SetupRoutes registers handlers for various URL paths. You can call this
// function more than once but only the first call will have an effect.
func (srv *RelayServer) SetupRoutes(reg *prometheus.Registry) error {
	var err error
	srv.routesSetup.Do(func() {
		metrics.RegisterCustomMetrics(reg)
		srv.router.Use(
			middleware.InstrumentHandlerInFlight(metrics.HTTPInFlightGauge),
			middleware.InstrumentHandlerCounter(metrics.HTTPRequestsCounterVec),
			middleware.InstrumentHandlerDuration(metrics.HTTPRequestDurationHistogramVec),
		)

		// the test page and its script and stylesheet, served from /
		var staticHandler static.ServeFileSystem
		staticHandler, err = assets.ServeEmbedContent()
		if err != nil {
			err = pkgerrors.Wrap(err, "unable to load the static content")
			return
		}
		srv.router.Use(readOnly(static.Serve("/", staticHandler)))

		healthCheckCtrl := controller.NewHealthCheck(srv.Config(), controller.NewHealthChecker(srv.Config()))
		checkCtrl := controller.NewCheck(srv.client)

		srv.router.GET(HealthPath, healthCheckCtrl.GetHandler)
		srv.router.POST("/check", checkCtrl.PostHandler)

		srv.router.NoRoute(func(ctx *gin.Context) {
			errors.AbortWithError(ctx, http.StatusNotFound, pkgerrors.New("not found"), ctx.Request.URL.Path)
		})
	})
	return err
}

// readOnly runs the given handler for GET and HEAD requests only.
func readOnly(handler gin.HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.Method == http.MethodGet || ctx.Request.Method == http.MethodHead {
			handler(ctx)
		}
	}
}
