package configuration_test

import (
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/username-relay/relay-service/pkg/configuration"
	"github.com/username-relay/relay-service/test"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getDefaultConfiguration returns a configuration registry without anything but
// defaults set. Remember that environment variables can overwrite defaults, so
// please ensure to properly unset envionment variables using
// UnsetEnvVarAndRestore().
func getDefaultConfiguration(t *testing.T) *configuration.Registry {
	config, err := configuration.New("")
	require.NoError(t, err)
	return config
}

// getFileConfiguration returns a configuration based on defaults, the given
// file content and overwrites by environment variables.
func getFileConfiguration(t *testing.T, content string) *configuration.Registry {
	tmpFile, err := os.CreateTemp(os.TempDir(), "configFile-")
	require.NoError(t, err)
	defer os.Remove(tmpFile.Name())
	_, err = tmpFile.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())
	config, err := configuration.New(tmpFile.Name())
	require.NoError(t, err)
	return config
}

func envKey(name string) string {
	return configuration.EnvPrefix + "_" + name
}

func TestNew(t *testing.T) {
	t.Run("default configuration", func(t *testing.T) {
		reg, err := configuration.New("")
		require.NoError(t, err)
		require.NotNil(t, reg)
	})

	t.Run("non existing file path", func(t *testing.T) {
		u, err := uuid.NewV4()
		require.NoError(t, err)
		reg, err := configuration.New(u.String())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file '"+u.String()+"'")
		require.Nil(t, reg)
	})

	t.Run("invalid file content", func(t *testing.T) {
		tmpFile, err := os.CreateTemp(os.TempDir(), "configFile-")
		require.NoError(t, err)
		defer os.Remove(tmpFile.Name())
		_, err = tmpFile.WriteString("http: [unclosed")
		require.NoError(t, err)
		require.NoError(t, tmpFile.Close())

		reg, err := configuration.New(tmpFile.Name())
		require.Error(t, err)
		require.Nil(t, reg)
	})
}

func TestGetHTTPAddress(t *testing.T) {
	key := envKey("HTTP_ADDRESS")

	t.Run("default", func(t *testing.T) {
		resetFunc := test.UnsetEnvVarAndRestore(t, key)
		defer resetFunc()
		config := getDefaultConfiguration(t)
		assert.Equal(t, configuration.DefaultHTTPAddress, config.GetHTTPAddress())
	})

	t.Run("file", func(t *testing.T) {
		resetFunc := test.UnsetEnvVarAndRestore(t, key)
		defer resetFunc()
		u, err := uuid.NewV4()
		require.NoError(t, err)
		newVal := u.String()
		config := getFileConfiguration(t, "http:\n  address: \""+newVal+"\"\n")
		assert.Equal(t, newVal, config.GetHTTPAddress())
	})

	t.Run("env overwrite", func(t *testing.T) {
		u, err := uuid.NewV4()
		require.NoError(t, err)
		newVal := u.String()
		resetFunc := test.SetEnvVarAndRestore(t, key, newVal)
		defer resetFunc()
		config := getDefaultConfiguration(t)
		assert.Equal(t, newVal, config.GetHTTPAddress())
	})
}

func TestGetLogLevel(t *testing.T) {
	key := envKey("LOG_LEVEL")

	t.Run("default", func(t *testing.T) {
		resetFunc := test.UnsetEnvVarAndRestore(t, key)
		defer resetFunc()
		config := getDefaultConfiguration(t)
		assert.Equal(t, configuration.DefaultLogLevel, config.GetLogLevel())
	})

	t.Run("file", func(t *testing.T) {
		resetFunc := test.UnsetEnvVarAndRestore(t, key)
		defer resetFunc()
		config := getFileConfiguration(t, "log:\n  level: \"debug\"\n")
		assert.Equal(t, "debug", config.GetLogLevel())
	})

	t.Run("env overwrite", func(t *testing.T) {
		resetFunc := test.SetEnvVarAndRestore(t, key, "error")
		defer resetFunc()
		config := getDefaultConfiguration(t)
		assert.Equal(t, "error", config.GetLogLevel())
	})
}

func TestIsLogJSON(t *testing.T) {
	key := envKey("LOG_JSON")

	t.Run("default", func(t *testing.T) {
		resetFunc := test.UnsetEnvVarAndRestore(t, key)
		defer resetFunc()
		config := getDefaultConfiguration(t)
		assert.Equal(t, configuration.DefaultLogJSON, config.IsLogJSON())
	})

	t.Run("file", func(t *testing.T) {
		resetFunc := test.UnsetEnvVarAndRestore(t, key)
		defer resetFunc()
		newVal := !configuration.DefaultLogJSON
		config := getFileConfiguration(t, "log:\n  json: "+strconv.FormatBool(newVal)+"\n")
		assert.Equal(t, newVal, config.IsLogJSON())
	})

	t.Run("env overwrite", func(t *testing.T) {
		newVal := !configuration.DefaultLogJSON
		resetFunc := test.SetEnvVarAndRestore(t, key, strconv.FormatBool(newVal))
		defer resetFunc()
		config := getDefaultConfiguration(t)
		assert.Equal(t, newVal, config.IsLogJSON())
	})
}

func TestDurations(t *testing.T) {
	var durationtests = []struct {
		name         string
		envName      string
		fileSection  string
		fileKey      string
		defaultValue time.Duration
		getter       func(*configuration.Registry) time.Duration
	}{
		{"graceful timeout", "GRACEFUL_TIMEOUT", "", "graceful_timeout", configuration.DefaultGracefulTimeout, (*configuration.Registry).GetGracefulTimeout},
		{"http write timeout", "HTTP_WRITE_TIMEOUT", "http", "write_timeout", configuration.DefaultHTTPWriteTimeout, (*configuration.Registry).GetHTTPWriteTimeout},
		{"http read timeout", "HTTP_READ_TIMEOUT", "http", "read_timeout", configuration.DefaultHTTPReadTimeout, (*configuration.Registry).GetHTTPReadTimeout},
		{"http idle timeout", "HTTP_IDLE_TIMEOUT", "http", "idle_timeout", configuration.DefaultHTTPIdleTimeout, (*configuration.Registry).GetHTTPIdleTimeout},
		{"remote timeout", "REMOTE_TIMEOUT", "remote", "timeout", configuration.DefaultRemoteTimeout, (*configuration.Registry).GetRemoteTimeout},
	}
	for _, tt := range durationtests {
		t.Run(tt.name, func(t *testing.T) {
			key := envKey(tt.envName)

			t.Run("default", func(t *testing.T) {
				resetFunc := test.UnsetEnvVarAndRestore(t, key)
				defer resetFunc()
				config := getDefaultConfiguration(t)
				assert.Equal(t, tt.defaultValue, tt.getter(config))
			})

			t.Run("file", func(t *testing.T) {
				resetFunc := test.UnsetEnvVarAndRestore(t, key)
				defer resetFunc()
				newVal := 333 * time.Second
				content := tt.fileKey + ": \"" + newVal.String() + "\"\n"
				if tt.fileSection != "" {
					content = tt.fileSection + ":\n  " + content
				}
				config := getFileConfiguration(t, content)
				assert.Equal(t, newVal, tt.getter(config))
			})

			t.Run("env overwrite", func(t *testing.T) {
				newVal := 666 * time.Second
				resetFunc := test.SetEnvVarAndRestore(t, key, newVal.String())
				defer resetFunc()
				config := getDefaultConfiguration(t)
				assert.Equal(t, newVal, tt.getter(config))
			})
		})
	}
}

func TestGetHTTPCompressResponses(t *testing.T) {
	key := envKey("HTTP_COMPRESS")

	t.Run("default", func(t *testing.T) {
		resetFunc := test.UnsetEnvVarAndRestore(t, key)
		defer resetFunc()
		config := getDefaultConfiguration(t)
		assert.Equal(t, configuration.DefaultHTTPCompressResponses, config.GetHTTPCompressResponses())
	})

	t.Run("env overwrite", func(t *testing.T) {
		newVal := !configuration.DefaultHTTPCompressResponses
		resetFunc := test.SetEnvVarAndRestore(t, key, strconv.FormatBool(newVal))
		defer resetFunc()
		config := getDefaultConfiguration(t)
		assert.Equal(t, newVal, config.GetHTTPCompressResponses())
	})
}

func TestRemote(t *testing.T) {
	key := envKey("REMOTE_URL")

	t.Run("default", func(t *testing.T) {
		resetFunc := test.UnsetEnvVarAndRestore(t, key)
		defer resetFunc()
		config := getDefaultConfiguration(t)
		assert.Equal(t, configuration.DefaultRemoteURL, config.GetRemoteURL())
	})

	t.Run("file", func(t *testing.T) {
		resetFunc := test.UnsetEnvVarAndRestore(t, key)
		defer resetFunc()
		config := getFileConfiguration(t, "remote:\n  url: \"https://remote.example.com/check\"\n")
		assert.Equal(t, "https://remote.example.com/check", config.GetRemoteURL())
	})
}

func TestCORS(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		config := getDefaultConfiguration(t)
		assert.Equal(t, []string{"*"}, config.GetCORSAllowedOrigins())
		assert.Equal(t, []string{"GET", "POST", "OPTIONS"}, config.GetCORSAllowedMethods())
		assert.Equal(t, []string{"Content-Type", "Authorization"}, config.GetCORSAllowedHeaders())
	})

	t.Run("file", func(t *testing.T) {
		config := getFileConfiguration(t, "cors:\n  allowed_origins:\n  - https://a.example.com\n  - https://b.example.com\n")
		assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, config.GetCORSAllowedOrigins())
	})
}

func TestEnvironment(t *testing.T) {
	key := envKey("ENVIRONMENT")
	resetFunc := test.UnsetEnvVarAndRestore(t, key)
	defer resetFunc()

	t.Run("default is prod", func(t *testing.T) {
		config := getDefaultConfiguration(t)
		assert.Equal(t, configuration.DefaultEnvironment, config.GetEnvironment())
		assert.False(t, config.IsTestingMode())
	})

	t.Run("unit-tests", func(t *testing.T) {
		config := configuration.CreateEmptyRegistry()
		config.GetViperInstance().Set("environment", configuration.UnitTestsEnvironment)
		assert.True(t, config.IsTestingMode())
	})
}

func TestGetMetricsAddress(t *testing.T) {
	key := envKey("METRICS_ADDRESS")
	resetFunc := test.SetEnvVarAndRestore(t, key, "127.0.0.1:9999")
	defer resetFunc()
	config := getDefaultConfiguration(t)
	assert.Equal(t, "127.0.0.1:9999", config.GetMetricsAddress())
}
