package controller_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/username-relay/relay-service/pkg/configuration"
	"github.com/username-relay/relay-service/pkg/controller"
	"github.com/username-relay/relay-service/test"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type TestHealthCheckSuite struct {
	test.UnitTestSuite
}

func TestRunHealthCheckSuite(t *testing.T) {
	suite.Run(t, &TestHealthCheckSuite{test.UnitTestSuite{}})
}

func (s *TestHealthCheckSuite) SetupTest() {
	s.Config.GetViperInstance().Set("environment", configuration.UnitTestsEnvironment)
	s.Config.GetViperInstance().Set("remote.url", configuration.DefaultRemoteURL)
	s.Config.GetViperInstance().Set("remote.timeout", configuration.DefaultRemoteTimeout)
}

func (s *TestHealthCheckSuite) getHealth(checker controller.HealthChecker) *httptest.ResponseRecorder {
	req, err := http.NewRequest(http.MethodGet, "/api/v1/health", nil)
	require.NoError(s.T(), err)
	rr := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rr)
	ctx.Request = req

	controller.NewHealthCheck(s.Config, checker).GetHandler(ctx)
	return rr
}

func (s *TestHealthCheckSuite) TestHealthPayload() {
	// given
	commit, buildTime := configuration.Commit, configuration.BuildTime
	configuration.Commit, configuration.BuildTime = "3f2c9e1", "2024-05-02T10:00:00Z"
	defer func() {
		configuration.Commit, configuration.BuildTime = commit, buildTime
	}()

	// when
	rr := s.getHealth(controller.NewHealthChecker(s.Config))

	// then
	require.Equal(s.T(), http.StatusOK, rr.Code)
	assert.Equal(s.T(), "application/json; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.JSONEq(s.T(), `{
		"alive": true,
		"environment": "unit-tests",
		"revision": "3f2c9e1",
		"build_time": "2024-05-02T10:00:00Z",
		"start_time": "`+configuration.StartTime+`"
	}`, rr.Body.String())
}

func (s *TestHealthCheckSuite) TestRemoteConfiguration() {
	for _, tc := range []struct {
		name           string
		remoteURL      string
		remoteTimeout  string
		expectedStatus int
		expectedAlive  bool
	}{
		{"remote service configured", "https://remote.example.com/check", "30s", http.StatusOK, true},
		{"no remote url", "", "30s", http.StatusServiceUnavailable, false},
		{"no remote timeout", "https://remote.example.com/check", "0s", http.StatusServiceUnavailable, false},
	} {
		s.Run(tc.name, func() {
			s.Config.GetViperInstance().Set("remote.url", tc.remoteURL)
			s.Config.GetViperInstance().Set("remote.timeout", tc.remoteTimeout)
			defer s.SetupTest()

			rr := s.getHealth(controller.NewHealthChecker(s.Config))

			assert.Equal(s.T(), tc.expectedStatus, rr.Code)
			health := controller.Health{}
			require.NoError(s.T(), json.Unmarshal(rr.Body.Bytes(), &health))
			assert.Equal(s.T(), tc.expectedAlive, health.Alive)
			assert.Equal(s.T(), configuration.UnitTestsEnvironment, health.Environment)
		})
	}
}

func (s *TestHealthCheckSuite) TestEnvironmentIsReported() {
	s.Config.GetViperInstance().Set("environment", configuration.DefaultEnvironment)
	defer s.SetupTest()

	rr := s.getHealth(controller.NewHealthChecker(s.Config))

	health := controller.Health{}
	require.NoError(s.T(), json.Unmarshal(rr.Body.Bytes(), &health))
	assert.False(s.T(), s.Config.IsTestingMode())
	assert.Equal(s.T(), "prod", health.Environment)
	assert.Equal(s.T(), configuration.Commit, health.Revision)
}

func (s *TestHealthCheckSuite) TestCheckerDecidesStatus() {
	for _, alive := range []bool{true, false} {
		rr := s.getHealth(staticHealthChecker(alive))

		health := controller.Health{}
		require.NoError(s.T(), json.Unmarshal(rr.Body.Bytes(), &health))
		assert.Equal(s.T(), alive, health.Alive)
		if alive {
			assert.Equal(s.T(), http.StatusOK, rr.Code)
		} else {
			assert.Equal(s.T(), http.StatusServiceUnavailable, rr.Code)
		}
	}
}

type staticHealthChecker bool

func (c staticHealthChecker) Alive() bool {
	return bool(c)
}
