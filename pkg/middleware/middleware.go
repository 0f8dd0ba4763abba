package middleware

import (
	"fmt"
	"io"
	"net/http"

	"github.com/username-relay/relay-service/pkg/errors"
	"github.com/username-relay/relay-service/pkg/log"
	"github.com/username-relay/relay-service/pkg/relay"

	"github.com/gin-gonic/gin"
)

// Recovery returns a middleware which recovers from any panic in the chain and
// answers with the {"error": "unexpected error: ..."} body and a 500 status.
// The stack of the panic is written to out.
func Recovery(out io.Writer) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(out, func(c *gin.Context, recovered interface{}) {
		err, ok := recovered.(error)
		if !ok {
			err = fmt.Errorf("%v", recovered)
		}
		log.Error(c, err, "recovered from panic")
		outcome := relay.UnexpectedError(err)
		if c.Writer.Written() {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		errors.AbortWithMessage(c, outcome.StatusCode(), outcome.ErrorMessage())
	})
}
