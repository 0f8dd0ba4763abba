package controller

import (
	"context"
	"net/http"

	relaycontext "github.com/username-relay/relay-service/pkg/context"
	"github.com/username-relay/relay-service/pkg/errors"
	"github.com/username-relay/relay-service/pkg/log"
	"github.com/username-relay/relay-service/pkg/metrics"
	"github.com/username-relay/relay-service/pkg/relay"
	"github.com/username-relay/relay-service/pkg/username"

	"github.com/gin-gonic/gin"
)

// RelayClient forwards a validated check request to the remote service.
type RelayClient interface {
	Check(ctx context.Context, req username.CheckRequest) relay.Outcome
}

// Check implements the check endpoint, which relays username availability
// checks to the remote service.
type Check struct {
	client RelayClient
}

// NewCheck returns a new Check instance.
func NewCheck(client RelayClient) *Check {
	return &Check{
		client: client,
	}
}

// PostHandler validates the check request, relays it and answers with the
// remote body or with a {"error": ...} body.
func (c *Check) PostHandler(ctx *gin.Context) {
	var req username.CheckRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Error(ctx, err, "invalid check request body")
		outcome := relay.UnexpectedError(err)
		metrics.RecordOutcome(metrics.OutcomeBadRequest, outcome.StatusCode())
		errors.AbortWithMessage(ctx, outcome.StatusCode(), outcome.ErrorMessage())
		return
	}
	ctx.Set(relaycontext.TokenNameKey, req.TokenName)
	ctx.Set(relaycontext.UsernameCountKey, len(req.Usernames))

	if err := username.Validate(req); err != nil {
		log.Infof(ctx, "rejected check request: %s", err.Error())
		metrics.RecordOutcome(metrics.OutcomeValidation, http.StatusBadRequest)
		errors.AbortWithMessage(ctx, http.StatusBadRequest, err.Error())
		return
	}

	outcome := c.client.Check(ctx, req)
	code := outcome.StatusCode()
	metrics.RecordOutcome(outcome.Kind.String(), code)

	switch outcome.Kind {
	case relay.Success:
		if outcome.Response != nil {
			log.Infof(ctx, "checked %d usernames, %d results", len(req.Usernames), len(outcome.Response.Results))
		} else {
			log.Infof(ctx, "checked %d usernames, relayed a %d bytes answer", len(req.Usernames), len(outcome.Body))
		}
		ctx.Data(code, "application/json; charset=utf-8", outcome.Body)
	case relay.RemoteError:
		log.Infof(ctx, "remote service answered %d: %s", code, outcome.ErrorMessage())
		errors.AbortWithMessage(ctx, code, outcome.ErrorMessage())
	case relay.Timeout:
		log.Error(ctx, outcome.Err, "remote service timed out")
		errors.AbortWithMessage(ctx, code, outcome.ErrorMessage())
	default:
		log.Errorf(ctx, outcome.Err, "check failed: %s", outcome.Kind)
		errors.AbortWithMessage(ctx, code, outcome.ErrorMessage())
	}
}
