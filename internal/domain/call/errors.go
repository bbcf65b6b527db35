package call

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/felixgeelhaar/gong-mcp/internal/domain/failure"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrAccessDenied = errors.New("access denied")
	ErrRateLimited  = errors.New("rate limited")
)

// APIError is a backend error response that maps to no sentinel.
type APIError struct {
	StatusCode int
	RequestID  string
	Message    string
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("gong api error (status %d, request %s): %s", e.StatusCode, e.RequestID, e.Message)
	}
	return fmt.Sprintf("gong api error (status %d): %s", e.StatusCode, e.Message)
}

// Is makes a 404 response match ErrNotFound while keeping its body.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// noCallsFound is the phrase Gong uses when a call filter matches nothing.
const noCallsFound = "no calls found"

// NoCallsMatched reports whether err is Gong's 404 answer to a call filter
// that matched no call. Other 404s, such as a wrong base URL path, are not.
func NoCallsMatched(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) &&
		apiErr.StatusCode == http.StatusNotFound &&
		strings.Contains(strings.ToLower(apiErr.Message), noCallsFound)
}

// Failure translates a repository error into an api_error envelope.
// Envelopes pass through unchanged. context is merged into the envelope
// context and may be nil.
func Failure(err error, context map[string]any) *failure.Error {
	if fe, ok := failure.As(err); ok {
		return fe
	}

	ctx := map[string]any{"error": err.Error()}
	for k, v := range context {
		ctx[k] = v
	}

	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		ctx["status"] = apiErr.StatusCode
		if apiErr.RequestID != "" {
			ctx["requestId"] = apiErr.RequestID
		}
		return failure.APIError("Gong API request failed", ctx)
	case errors.Is(err, ErrAccessDenied):
		ctx["status"] = http.StatusUnauthorized
		return failure.APIError("Gong API rejected the credentials", ctx)
	case errors.Is(err, ErrRateLimited):
		ctx["status"] = http.StatusTooManyRequests
		return failure.APIError("Gong API rate limit exceeded", ctx)
	case errors.Is(err, ErrNotFound):
		ctx["status"] = http.StatusNotFound
		return failure.APIError("Gong API returned not found", ctx)
	default:
		return failure.APIError("Gong API request failed", ctx)
	}
}
