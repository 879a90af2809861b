package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/executehq/concierge/pkg/llm"
)

var (
	// ErrRateLimited matches a gateway response with status 429.
	ErrRateLimited = errors.New("gateway rate limit exceeded")

	// ErrPaymentRequired matches a gateway response with status 402.
	ErrPaymentRequired = errors.New("gateway payment required")

	// ErrMissingAPIKey is returned by Stream when no API key is configured.
	ErrMissingAPIKey = errors.New("gateway api key is not configured")
)

// StatusError is returned when the gateway answers with a non-200 status.
type StatusError struct {
	StatusCode int

	// Body is the start of the response body, kept for logging.
	Body string
}

// Error implements error.
func (e *StatusError) Error() string {
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("gateway returned status %d: %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("gateway returned status %d", e.StatusCode)
}

// Is maps rate limit and payment statuses onto their sentinel errors.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	case ErrPaymentRequired:
		return e.StatusCode == http.StatusPaymentRequired
	}
	return false
}

// Message returns the "error" field of a JSON error body, if any.
func (e *StatusError) Message() string {
	var resp llm.ErrorResponse
	if err := json.Unmarshal([]byte(e.Body), &resp); err != nil {
		return ""
	}
	return resp.Error
}

// Category is the human facing class of a failed chat request.
type Category int

const (
	// CategoryNone is the category of a nil error.
	CategoryNone Category = iota

	// CategoryRateLimited means the caller should try again later.
	CategoryRateLimited

	// CategoryPaymentRequired means the service is unavailable until the
	// account is topped up.
	CategoryPaymentRequired

	// CategoryCancelled means the caller gave up on the request.
	CategoryCancelled

	// CategoryGeneric covers every other transport or status failure.
	CategoryGeneric
)

// Classify maps any error returned by Stream or Complete onto a Category.
func Classify(err error) Category {
	switch {
	case err == nil:
		return CategoryNone
	case errors.Is(err, ErrRateLimited):
		return CategoryRateLimited
	case errors.Is(err, ErrPaymentRequired):
		return CategoryPaymentRequired
	case errors.Is(err, context.Canceled):
		return CategoryCancelled
	default:
		return CategoryGeneric
	}
}

func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryRateLimited:
		return "rate_limited"
	case CategoryPaymentRequired:
		return "payment_required"
	case CategoryCancelled:
		return "cancelled"
	default:
		return "generic"
	}
}

// Message is the text shown to a chat user whose request failed.
func (c Category) Message() string {
	switch c {
	case CategoryNone:
		return ""
	case CategoryRateLimited:
		return "Too many requests right now, please try again later."
	case CategoryPaymentRequired:
		return "The service is unavailable, please contact support."
	case CategoryCancelled:
		return "The request was cancelled."
	default:
		return "Something went wrong, please try again."
	}
}

// HTTPStatus is the status the chat endpoint answers with for c.
func (c Category) HTTPStatus() int {
	switch c {
	case CategoryNone:
		return http.StatusOK
	case CategoryRateLimited:
		return http.StatusTooManyRequests
	case CategoryPaymentRequired:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// ResponseMessage is the "error" body the chat endpoint answers with for c.
func (c Category) ResponseMessage() string {
	switch c {
	case CategoryNone:
		return ""
	case CategoryRateLimited:
		return "Rate limits exceeded, please try again later."
	case CategoryPaymentRequired:
		return "Payment required, please add funds to your workspace."
	default:
		return "AI gateway error"
	}
}
