package test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/username-relay/relay-service/pkg/errors"
	"github.com/username-relay/relay-service/pkg/username"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertError asserts that the provided response contains the expected error envelope
func AssertError(t *testing.T, actualResponse *httptest.ResponseRecorder, expectedErrorCode int, message, details string) {
	assert.Equal(t, expectedErrorCode, actualResponse.Code, "handler returned wrong status code")

	data := &errors.Error{}
	err := json.Unmarshal(actualResponse.Body.Bytes(), &data)
	require.NoError(t, err)

	assert.Equal(t, &errors.Error{
		Status:  http.StatusText(expectedErrorCode),
		Code:    expectedErrorCode,
		Message: message,
		Details: details,
	}, data)
}

// AssertRelayError asserts that the provided response is a relay error with the expected status and message
func AssertRelayError(t *testing.T, actualResponse *httptest.ResponseRecorder, expectedCode int, expectedMessage string) {
	assert.Equal(t, expectedCode, actualResponse.Code, "handler returned wrong status code")
	assert.Equal(t, "application/json; charset=utf-8", actualResponse.Header().Get("Content-Type"))

	data := username.ErrorResponse{}
	err := json.Unmarshal(actualResponse.Body.Bytes(), &data)
	require.NoError(t, err)
	assert.Equal(t, expectedMessage, data.Error)
}
