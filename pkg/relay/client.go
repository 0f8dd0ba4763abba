package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/username-relay/relay-service/pkg/log"
	"github.com/username-relay/relay-service/pkg/metrics"
	"github.com/username-relay/relay-service/pkg/username"
)

const (
	// HeaderAPIKey carries the caller's API key to the remote service.
	HeaderAPIKey = "x-api-key"
	// HeaderTokenName carries the caller's token name to the remote service.
	HeaderTokenName = "x-token-name"

	// diagnosticBodyLength is the number of characters of the remote body
	// written to the debug log.
	diagnosticBodyLength = 200
)

// RemoteConfiguration is the part of the configuration the client needs.
type RemoteConfiguration interface {
	GetRemoteURL() string
	GetRemoteTimeout() time.Duration
}

// Client relays check requests to the remote availability service.
type Client struct {
	url        string
	httpClient *http.Client
}

type ClientOption = func(client *Client)

// WithHTTPClient makes the client send its requests with the given HTTP
// client. Its timeout is replaced by the configured remote timeout.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = httpClient
	}
}

// NewClient returns a client for the configured remote service.
func NewClient(cfg RemoteConfiguration, opts ...ClientOption) *Client {
	c := &Client{
		url:        cfg.GetRemoteURL(),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.httpClient.Timeout = cfg.GetRemoteTimeout()
	return c
}

// Check forwards the usernames and credentials of the request to the remote
// service and classifies the way the call ended. It never retries.
func (c *Client) Check(ctx context.Context, req username.CheckRequest) Outcome {
	payload, err := json.Marshal(username.RemoteRequest{Usernames: req.Usernames})
	if err != nil {
		return UnexpectedError(err)
	}
	remoteReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return UnexpectedError(err)
	}
	remoteReq.Header.Set("Content-Type", "application/json")
	remoteReq.Header.Set(HeaderAPIKey, req.APIKey)
	remoteReq.Header.Set(HeaderTokenName, req.TokenName)

	start := time.Now()
	resp, err := c.httpClient.Do(remoteReq)
	if err != nil {
		metrics.ObserveRemoteRequest(0, time.Since(start))
		return classifyTransportFailure(err)
	}
	defer resp.Body.Close()

	// the client timeout also covers reading the body
	body, err := io.ReadAll(resp.Body)
	metrics.ObserveRemoteRequest(resp.StatusCode, time.Since(start))
	if err != nil {
		return classifyTransportFailure(err)
	}

	log.Debugf(ctx, "remote response: status=%d headers=%v body=%s", resp.StatusCode, resp.Header, truncate(string(body), diagnosticBodyLength))

	if resp.StatusCode != http.StatusOK {
		return remoteError(resp.StatusCode, remoteErrorMessage(resp.StatusCode, body))
	}
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return decodeError(resp.StatusCode, err)
	}
	// any json is relayed, the typed view is only filled when the body fits it
	response := &username.CheckResponse{}
	if err := json.Unmarshal(body, response); err != nil {
		response = nil
	}
	return success(resp.StatusCode, body, response)
}

func classifyTransportFailure(err error) Outcome {
	if isTimeout(err) {
		return timeout(err)
	}
	return transportError(err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// remoteErrorMessage extracts the "error" field of a failed remote answer.
// Answers which are not a json object are quoted instead. Error values which
// are not strings are relayed as their json text.
func remoteErrorMessage(status int, body []byte) string {
	var remote map[string]json.RawMessage
	if err := json.Unmarshal(body, &remote); err != nil || remote == nil {
		return fmt.Sprintf("server error: %d - %s", status, truncate(string(body), errorSnippetLength))
	}
	value, found := remote["error"]
	if !found || string(value) == "null" {
		return fmt.Sprintf("server error: %d", status)
	}
	var message string
	if err := json.Unmarshal(value, &message); err == nil {
		return message
	}
	compact := &bytes.Buffer{}
	if err := json.Compact(compact, value); err != nil {
		return string(value)
	}
	return compact.String()
}

// truncate keeps the first n characters (not bytes) of s.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
