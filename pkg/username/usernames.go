package username

import (
	"errors"
)

// MaxUsernames is the largest batch a single check request may carry.
const MaxUsernames = 10

var (
	// ErrMissingFields is returned when the credentials or the usernames are missing.
	ErrMissingFields = errors.New("all fields required")
	// ErrTooManyUsernames is returned when more than MaxUsernames are requested.
	ErrTooManyUsernames = errors.New("maximum 10 usernames")
)

// CheckRequest is the body accepted by the check endpoint.
type CheckRequest struct {
	APIKey    string   `json:"api_key"`
	TokenName string   `json:"token_name"`
	Usernames []string `json:"usernames"`
}

// RemoteRequest is the body sent to the remote availability service. The
// credentials travel as headers.
type RemoteRequest struct {
	Usernames []string `json:"usernames"`
}

// CheckResult is the availability of a single username as reported by the
// remote service.
type CheckResult struct {
	Username  string `json:"username"`
	Available bool   `json:"available"`
	// Error is set when the remote service could not check the username.
	Error string `json:"error,omitempty"`
}

// CheckResponse is the successful answer of the remote service. The quota
// figures are optional and only echoed.
type CheckResponse struct {
	Results           []CheckResult `json:"results"`
	RemainingRequests *int          `json:"remaining_requests,omitempty"`
	DailyLimit        *int          `json:"daily_limit,omitempty"`
}

// ErrorResponse is the body of every failed check.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Validate checks the structural constraints of a request: credentials and at
// least one username first, then the batch size. The usernames themselves are
// not inspected.
func Validate(req CheckRequest) error {
	if req.APIKey == "" || req.TokenName == "" || len(req.Usernames) == 0 {
		return ErrMissingFields
	}
	if len(req.Usernames) > MaxUsernames {
		return ErrTooManyUsernames
	}
	return nil
}
