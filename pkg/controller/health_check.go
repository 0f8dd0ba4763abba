package controller

import (
	"net/http"

	"github.com/username-relay/relay-service/pkg/configuration"
	"github.com/username-relay/relay-service/pkg/relay"

	"github.com/gin-gonic/gin"
)

type HealthCheckConfig interface {
	GetEnvironment() string
}

// Health is the payload of the health endpoint.
type Health struct {
	Alive       bool   `json:"alive"`
	Environment string `json:"environment"`
	Revision    string `json:"revision"`
	BuildTime   string `json:"build_time"`
	StartTime   string `json:"start_time"`
}

// HealthCheck implements the health endpoint.
type HealthCheck struct {
	config  HealthCheckConfig
	checker HealthChecker
}

// NewHealthCheck returns a new HealthCheck instance.
func NewHealthCheck(config HealthCheckConfig, checker HealthChecker) *HealthCheck {
	return &HealthCheck{
		config:  config,
		checker: checker,
	}
}

func (hc *HealthCheck) getHealthInfo() *Health {
	return &Health{
		Alive:       hc.checker.Alive(),
		Environment: hc.config.GetEnvironment(),
		Revision:    configuration.Commit,
		BuildTime:   configuration.BuildTime,
		StartTime:   configuration.StartTime,
	}
}

// GetHandler returns a default heath check result.
func (hc *HealthCheck) GetHandler(ctx *gin.Context) {
	healthInfo := hc.getHealthInfo()
	if healthInfo.Alive {
		ctx.JSON(http.StatusOK, healthInfo)
	} else {
		ctx.JSON(http.StatusServiceUnavailable, healthInfo)
	}
}

type HealthChecker interface {
	Alive() bool
}

// NewHealthChecker returns a checker which reports the service alive as long
// as a remote service is configured.
func NewHealthChecker(config relay.RemoteConfiguration) HealthChecker {
	return &healthCheckerImpl{config: config}
}

type healthCheckerImpl struct {
	config relay.RemoteConfiguration
}

func (c *healthCheckerImpl) Alive() bool {
	return c.config.GetRemoteURL() != "" && c.config.GetRemoteTimeout() > 0
}
