package httpapi

import (
	"errors"
	"net/http"

	"marketSignals/internal/metrics"
	"marketSignals/internal/ports"

	"github.com/gin-gonic/gin"
)

// statusClientClosedRequest is the non-standard status nginx uses when the
// client goes away before the response is written.
const statusClientClosedRequest = 499

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// statusFor maps a service error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ports.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ports.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ports.ErrMalformedInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ports.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ports.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, ports.ErrContextCanceled):
		return statusClientClosedRequest
	case ports.IsUpstream(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// outcomeFor classifies an error for the request counter.
func outcomeFor(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ports.ErrInvalidRequest):
		return metrics.OutcomeBadRequest
	case errors.Is(err, ports.ErrMalformedInput):
		return metrics.OutcomeMalformed
	case ports.IsUpstream(err), errors.Is(err, ports.ErrNotFound), errors.Is(err, ports.ErrTimeout):
		return metrics.OutcomeUpstream
	default:
		return metrics.OutcomeInternal
	}
}

func errorLabel(status int) string {
	switch status {
	case http.StatusUnprocessableEntity:
		return "malformed upstream data"
	case http.StatusBadGateway:
		return "upstream error"
	case statusClientClosedRequest:
		return "request canceled"
	default:
		return http.StatusText(status)
	}
}

// writeError aborts the request with the mapped status and a JSON body.
func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	c.AbortWithStatusJSON(status, errorBody{Error: errorLabel(status), Detail: err.Error()})
}
