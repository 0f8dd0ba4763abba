package test

import (
	"github.com/username-relay/relay-service/pkg/configuration"
	"github.com/username-relay/relay-service/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

// UnitTestSuite is the base test suite for unit tests.
type UnitTestSuite struct {
	suite.Suite
	Config *configuration.Registry
}

// SetupSuite sets the suite up and sets testmode.
func (s *UnitTestSuite) SetupSuite() {
	log.Init("relay-service-testing")
	gin.SetMode(gin.TestMode)

	s.Config = configuration.CreateEmptyRegistry()
	s.Config.GetViperInstance().Set("environment", configuration.UnitTestsEnvironment)
}

// TearDownSuite tears down the test suite.
func (s *UnitTestSuite) TearDownSuite() {
	s.Config = nil
}
