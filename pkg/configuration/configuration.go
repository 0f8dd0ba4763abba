// Package configuration is in charge of the validation and extraction of all
// the configuration details from a configuration file or environment variables.
package configuration

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

var (
	// Commit current build commit set by build script.
	Commit = "0"
	// BuildTime set by build script in ISO 8601 (UTC) format:
	// YYYY-MM-DDThh:mm:ssTZD (see https://www.w3.org/TR/NOTE-datetime for
	// details).
	BuildTime = "0"
	// StartTime in ISO 8601 (UTC) format.
	StartTime = time.Now().UTC().Format("2006-01-02T15:04:05Z")
)

const (
	// EnvPrefix will be used for environment variable name prefixing.
	EnvPrefix = "RELAY"

	prodEnvironment = "prod"
	// DefaultEnvironment is the environment used when none is configured.
	DefaultEnvironment = prodEnvironment
	// UnitTestsEnvironment is the environment used by unit tests.
	UnitTestsEnvironment = "unit-tests"
)

const (
	varEnvironment = "environment"

	varHTTPAddress = "http.address"
	// DefaultHTTPAddress is the address and port string that your service will
	// be exported to by default.
	DefaultHTTPAddress = "0.0.0.0:5000"

	varHTTPIdleTimeout = "http.idle_timeout"
	// DefaultHTTPIdleTimeout specifies the default timeout for HTTP idling.
	DefaultHTTPIdleTimeout = time.Second * 15

	varHTTPCompressResponses = "http.compress"
	// DefaultHTTPCompressResponses compresses HTTP responses for clients that
	// support it via the 'Accept-Encoding' header.
	DefaultHTTPCompressResponses = true

	varHTTPWriteTimeout = "http.write_timeout"
	// DefaultHTTPWriteTimeout specifies the default timeout for HTTP writes. It
	// has to outlast the remote timeout so timeouts reach the caller.
	DefaultHTTPWriteTimeout = time.Second * 75

	varHTTPReadTimeout = "http.read_timeout"
	// DefaultHTTPReadTimeout specifies the default timeout for HTTP reads.
	DefaultHTTPReadTimeout = time.Second * 15

	varLogLevel = "log.level"
	// DefaultLogLevel is the default log level used in your service.
	DefaultLogLevel = "info"

	varLogJSON = "log.json"
	// DefaultLogJSON is a switch to toggle on and off JSON log output.
	DefaultLogJSON = false

	varGracefulTimeout = "graceful_timeout"
	// DefaultGracefulTimeout is the duration for which the server gracefully
	// waits for existing connections to finish.
	DefaultGracefulTimeout = time.Second * 15

	varMetricsAddress = "metrics.address"
	// DefaultMetricsAddress is the address the Prometheus metrics are served on.
	DefaultMetricsAddress = "0.0.0.0:8083"

	varRemoteURL = "remote.url"
	// DefaultRemoteURL is the username availability service every check is
	// relayed to.
	DefaultRemoteURL = "https://srqqxvhbzuvfjexvbkbq.supabase.co/functions/v1/check-api-username"

	varRemoteTimeout = "remote.timeout"
	// DefaultRemoteTimeout bounds a single call to the remote service.
	DefaultRemoteTimeout = time.Second * 60

	varCORSAllowedOrigins = "cors.allowed_origins"
	varCORSAllowedMethods = "cors.allowed_methods"
	varCORSAllowedHeaders = "cors.allowed_headers"
)

var (
	// DefaultCORSAllowedOrigins allows every origin.
	DefaultCORSAllowedOrigins = []string{"*"}
	// DefaultCORSAllowedMethods lists the methods allowed on every route.
	DefaultCORSAllowedMethods = []string{"GET", "POST", "OPTIONS"}
	// DefaultCORSAllowedHeaders lists the request headers allowed on every route.
	DefaultCORSAllowedHeaders = []string{"Content-Type", "Authorization"}
)

// Registry encapsulates the Viper configuration registry which stores the
// configuration data in-memory.
type Registry struct {
	v *viper.Viper
}

// CreateEmptyRegistry creates an initial, empty registry.
func CreateEmptyRegistry() *Registry {
	c := Registry{
		v: viper.New(),
	}
	c.v.SetEnvPrefix(EnvPrefix)
	c.v.AutomaticEnv()
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	c.v.SetTypeByDefaultValue(true)
	c.setConfigDefaults()
	return &c
}

// New creates a configuration reader object using a configurable configuration
// file path. If the provided config file path is empty, a default configuration
// will be created.
func New(configFilePath string) (*Registry, error) {
	c := CreateEmptyRegistry()
	if configFilePath != "" {
		c.v.SetConfigType("yaml")
		c.v.SetConfigFile(configFilePath)
		err := c.v.ReadInConfig() // Find and read the config file
		if err != nil {           // Handle errors reading the config file
			return nil, errors.Wrapf(err, "failed to read config file '%s'", configFilePath)
		}
	}
	return c, nil
}

func (c *Registry) setConfigDefaults() {
	c.v.SetDefault(varEnvironment, DefaultEnvironment)

	c.v.SetDefault(varHTTPAddress, DefaultHTTPAddress)
	c.v.SetDefault(varHTTPCompressResponses, DefaultHTTPCompressResponses)
	c.v.SetDefault(varHTTPWriteTimeout, DefaultHTTPWriteTimeout)
	c.v.SetDefault(varHTTPReadTimeout, DefaultHTTPReadTimeout)
	c.v.SetDefault(varHTTPIdleTimeout, DefaultHTTPIdleTimeout)
	c.v.SetDefault(varGracefulTimeout, DefaultGracefulTimeout)

	c.v.SetDefault(varLogLevel, DefaultLogLevel)
	c.v.SetDefault(varLogJSON, DefaultLogJSON)

	c.v.SetDefault(varMetricsAddress, DefaultMetricsAddress)

	c.v.SetDefault(varRemoteURL, DefaultRemoteURL)
	c.v.SetDefault(varRemoteTimeout, DefaultRemoteTimeout)

	c.v.SetDefault(varCORSAllowedOrigins, DefaultCORSAllowedOrigins)
	c.v.SetDefault(varCORSAllowedMethods, DefaultCORSAllowedMethods)
	c.v.SetDefault(varCORSAllowedHeaders, DefaultCORSAllowedHeaders)
}

// GetViperInstance returns the underlying Viper instance.
func (c *Registry) GetViperInstance() *viper.Viper {
	return c.v
}

// GetEnvironment returns the environment such as prod, stage, unit-tests, dev, etc
func (c *Registry) GetEnvironment() string {
	return c.v.GetString(varEnvironment)
}

// IsTestingMode returns if the service runs in unit-tests environment
func (c *Registry) IsTestingMode() bool {
	return c.GetEnvironment() == UnitTestsEnvironment
}

// GetHTTPAddress returns the HTTP address (as set via default, config file, or
// environment variable) that the relay server binds to (e.g. "0.0.0.0:5000")
func (c *Registry) GetHTTPAddress() string {
	return c.v.GetString(varHTTPAddress)
}

// GetHTTPCompressResponses returns true if HTTP responses should be compressed
// for clients that support it via the 'Accept-Encoding' header.
func (c *Registry) GetHTTPCompressResponses() bool {
	return c.v.GetBool(varHTTPCompressResponses)
}

// GetHTTPWriteTimeout returns the duration for the write timeout.
func (c *Registry) GetHTTPWriteTimeout() time.Duration {
	return c.v.GetDuration(varHTTPWriteTimeout)
}

// GetHTTPReadTimeout returns the duration for the read timeout.
func (c *Registry) GetHTTPReadTimeout() time.Duration {
	return c.v.GetDuration(varHTTPReadTimeout)
}

// GetHTTPIdleTimeout returns the duration for the idle timeout.
func (c *Registry) GetHTTPIdleTimeout() time.Duration {
	return c.v.GetDuration(varHTTPIdleTimeout)
}

// GetGracefulTimeout returns the duration for which the server gracefully
// waits for existing connections to finish - e.g. 15s or 1m.
func (c *Registry) GetGracefulTimeout() time.Duration {
	return c.v.GetDuration(varGracefulTimeout)
}

// GetLogLevel returns the logging level (as set via config file or environment
// variable)
func (c *Registry) GetLogLevel() string {
	return c.v.GetString(varLogLevel)
}

// IsLogJSON returns if we should log json format (as set via config file or
// environment variable)
func (c *Registry) IsLogJSON() bool {
	return c.v.GetBool(varLogJSON)
}

// GetMetricsAddress returns the address the metrics server binds to.
func (c *Registry) GetMetricsAddress() string {
	return c.v.GetString(varMetricsAddress)
}

// GetRemoteURL returns the URL of the username availability service.
func (c *Registry) GetRemoteURL() string {
	return c.v.GetString(varRemoteURL)
}

// GetRemoteTimeout returns the time a single remote call may take.
func (c *Registry) GetRemoteTimeout() time.Duration {
	return c.v.GetDuration(varRemoteTimeout)
}

func (c *Registry) GetCORSAllowedOrigins() []string {
	return c.v.GetStringSlice(varCORSAllowedOrigins)
}

func (c *Registry) GetCORSAllowedMethods() []string {
	return c.v.GetStringSlice(varCORSAllowedMethods)
}

func (c *Registry) GetCORSAllowedHeaders() []string {
	return c.v.GetStringSlice(varCORSAllowedHeaders)
}
