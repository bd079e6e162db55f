package generation

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/futig/resomate/internal/entity"
	pkghttp "github.com/futig/resomate/pkg/http"
)

// classifyFailure derives a user-facing category from the error an exhausted cascade ended with
func classifyFailure(err error) entity.FailureKind {
	var netErr net.Error

	switch {
	case err == nil:
		return entity.FailureGeneralError
	case pkghttp.IsStatus(err, http.StatusTooManyRequests):
		return entity.FailureRateLimited
	case errors.Is(err, context.DeadlineExceeded),
		pkghttp.IsStatus(err, http.StatusRequestTimeout),
		pkghttp.IsStatus(err, http.StatusGatewayTimeout),
		errors.As(err, &netErr) && netErr.Timeout():
		return entity.FailureServiceTimeout
	case errors.Is(err, entity.ErrEmptyContent):
		return entity.FailureEmptyContent
	default:
		return entity.FailureGeneralError
	}
}

func failureMessage(kind entity.FailureKind) string {
	switch kind {
	case entity.FailureServiceTimeout:
		return "The generation service took too long to respond. Please try again."
	case entity.FailureRateLimited:
		return "Too many generation requests right now. Please wait a moment and try again."
	case entity.FailureEmptyContent:
		return "The generation service returned no usable content. Please try again."
	default:
		return "Content generation failed. Please try again."
	}
}
