package test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// UnsetEnvVarAndRestore unsets the given environment variable with the key (if
// present). It returns a function to be called whenever you want to restore the
// original environment.
//
//	func TestFoo(t *testing.T) {
//	    restoreFunc := test.UnsetEnvVarAndRestore(t, "RELAY_HTTP_ADDRESS")
//	    defer restoreFunc()
//	    ...
//	}
func UnsetEnvVarAndRestore(t *testing.T, key string) func() {
	restore := restoreFunc(t, key)
	require.NoError(t, os.Unsetenv(key))
	return restore
}

// SetEnvVarAndRestore sets the given environment variable and returns a
// function restoring its previous state.
func SetEnvVarAndRestore(t *testing.T, key, newValue string) func() {
	restore := restoreFunc(t, key)
	require.NoError(t, os.Setenv(key, newValue))
	return restore
}

func restoreFunc(t *testing.T, key string) func() {
	original, present := os.LookupEnv(key)
	return func() {
		if present {
			require.NoError(t, os.Setenv(key, original))
			return
		}
		require.NoError(t, os.Unsetenv(key))
	}
}
