package errors

import (
	"net/http"

	"github.com/username-relay/relay-service/pkg/username"

	"github.com/gin-gonic/gin"
)

// Error is the envelope used for failures of the operational endpoints.
type Error struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
}

// AbortWithError stops the chain and writes a json error envelope with the given code.
func AbortWithError(ctx *gin.Context, code int, err error, details string) {
	ctx.AbortWithStatusJSON(code, &Error{
		Status:  http.StatusText(code),
		Code:    code,
		Message: err.Error(),
		Details: details,
	})
}

// AbortWithMessage stops the chain and writes the relay error body, {"error": message}.
func AbortWithMessage(ctx *gin.Context, code int, message string) {
	ctx.AbortWithStatusJSON(code, username.ErrorResponse{Error: message})
}
