package server

import (
	"context"
	"net/http"
	"time"

	"github.com/username-relay/relay-service/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StartMetricsServer returns a new Gin server exposing the `/metrics` endpoint
// associated with the given Prometheus registry, listening on the given address.
func StartMetricsServer(reg *prometheus.Registry, address string) (*http.Server, *gin.Engine) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/metrics", gin.WrapH(promhttp.InstrumentMetricHandler(
		reg, promhttp.HandlerFor(reg, promhttp.HandlerOpts{
			DisableCompression: true,
		}),
	)))
	log.Infof(context.TODO(), "starting the metrics server on %s", address)
	srv := &http.Server{
		Addr:              address,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 2 * time.Second,
	}
	go func() {
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(context.TODO(), err, err.Error())
		}
	}()
	return srv, router
}
