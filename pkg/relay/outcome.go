package relay

import (
	"fmt"
	"net/http"

	"github.com/username-relay/relay-service/pkg/username"
)

// Kind tags the way a relayed check ended.
type Kind int

const (
	// Success means the remote service answered 200 with a json body.
	Success Kind = iota
	// RemoteError means the remote service answered with any other status.
	RemoteError
	// Timeout means the remote service did not answer in time.
	Timeout
	// TransportError means the remote service could not be reached.
	TransportError
	// DecodeError means the remote service answered 200 with a body which is not json.
	DecodeError
	// Unexpected covers every other failure.
	Unexpected
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case RemoteError:
		return "remote_error"
	case Timeout:
		return "timeout"
	case TransportError:
		return "transport_error"
	case DecodeError:
		return "decode_error"
	case Unexpected:
		return "unexpected"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

const (
	timeoutMessage = "request timed out, try again"
	// errorSnippetLength is the number of characters of a non-json remote body
	// quoted back to the caller.
	errorSnippetLength = 100
)

// Outcome is the result of a relayed check. Only the fields relevant for its
// Kind are set.
type Outcome struct {
	Kind Kind
	// RemoteStatus is the status code the remote service answered with, zero
	// when no answer was received.
	RemoteStatus int
	// Body holds the raw remote body of a Success.
	Body []byte
	// Response is the decoded remote body of a Success, nil when the body is
	// valid json of another shape.
	Response *username.CheckResponse
	// Message is the error message of a RemoteError.
	Message string
	// Err is the cause of a Timeout, TransportError, DecodeError or Unexpected.
	Err error
}

// StatusCode is the status code the caller is answered with.
func (o Outcome) StatusCode() int {
	switch o.Kind {
	case Success:
		return http.StatusOK
	case RemoteError:
		return o.RemoteStatus
	case Timeout:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// ErrorMessage is the message returned to the caller for every Kind but Success.
func (o Outcome) ErrorMessage() string {
	switch o.Kind {
	case RemoteError:
		return o.Message
	case Timeout:
		return timeoutMessage
	case TransportError:
		return "connection error: " + o.Err.Error()
	case DecodeError:
		return "error reading response: " + o.Err.Error()
	case Unexpected:
		return "unexpected error: " + o.Err.Error()
	default:
		return ""
	}
}

func success(status int, body []byte, response *username.CheckResponse) Outcome {
	return Outcome{Kind: Success, RemoteStatus: status, Body: body, Response: response}
}

func remoteError(status int, message string) Outcome {
	return Outcome{Kind: RemoteError, RemoteStatus: status, Message: message}
}

func timeout(err error) Outcome {
	return Outcome{Kind: Timeout, Err: err}
}

func transportError(err error) Outcome {
	return Outcome{Kind: TransportError, Err: err}
}

func decodeError(status int, err error) Outcome {
	return Outcome{Kind: DecodeError, RemoteStatus: status, Err: err}
}

// UnexpectedError wraps a failure outside of the relay taxonomy.
func UnexpectedError(err error) Outcome {
	return Outcome{Kind: Unexpected, Err: err}
}
