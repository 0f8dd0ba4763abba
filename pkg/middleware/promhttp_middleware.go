package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// see https://pkg.go.dev/github.com/prometheus/client_golang/prometheus/promhttp#example-InstrumentHandlerDuration

// InstrumentHandlerInFlight tracks the number of requests being served.
func InstrumentHandlerInFlight(gauge prometheus.Gauge) gin.HandlerFunc {
	return func(c *gin.Context) {
		gauge.Inc()
		defer gauge.Dec()
		c.Next()
	}
}

// InstrumentHandlerCounter counts the requests by status code, method and path.
func InstrumentHandlerCounter(counter *prometheus.CounterVec) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			counter.With(requestLabels(c)).Inc()
		}()
		c.Next()
	}
}

// InstrumentHandlerDuration observes the time taken to serve the requests, in seconds.
func InstrumentHandlerDuration(histVec *prometheus.HistogramVec) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			histVec.With(requestLabels(c)).Observe(time.Since(start).Seconds())
		}()
		c.Next()
	}
}

func requestLabels(c *gin.Context) prometheus.Labels {
	return prometheus.Labels{
		"code":   strconv.Itoa(c.Writer.Status()),
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}
}
