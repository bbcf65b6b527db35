package call_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/gong-mcp/internal/domain/call"
	"github.com/felixgeelhaar/gong-mcp/internal/domain/failure"
)

func TestFailure(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus any
	}{
		{name: "api error", err: &call.APIError{StatusCode: 500, RequestID: "r-1", Message: "boom"}, wantStatus: 500},
		{name: "wrapped access denied", err: fmt.Errorf("list users: %w", call.ErrAccessDenied), wantStatus: http.StatusUnauthorized},
		{name: "rate limited", err: call.ErrRateLimited, wantStatus: http.StatusTooManyRequests},
		{name: "transport failure", err: errors.New("dial tcp: connection refused"), wantStatus: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := call.Failure(tt.err, map[string]any{"operation": "test"})
			assert.Equal(t, failure.KindAPIError, fe.Kind)
			assert.Equal(t, tt.wantStatus, fe.Context["status"])
			assert.Equal(t, "test", fe.Context["operation"])
			assert.Equal(t, tt.err.Error(), fe.Context["error"])
		})
	}
}

func TestFailure_PassesEnvelopeThrough(t *testing.T) {
	want := failure.NotConfigured()
	assert.Same(t, want, call.Failure(fmt.Errorf("wrapped: %w", want), nil))
}

func TestNoCallsMatched(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"gong empty search", &call.APIError{StatusCode: http.StatusNotFound, Message: "No calls found corresponding to the provided filters"}, true},
		{"wrapped", fmt.Errorf("listing calls: %w", &call.APIError{StatusCode: http.StatusNotFound, Message: "no calls found"}), true},
		{"other 404 body", &call.APIError{StatusCode: http.StatusNotFound, Message: "404 page not found"}, false},
		{"phrase on another status", &call.APIError{StatusCode: http.StatusBadRequest, Message: "No calls found"}, false},
		{"bare sentinel", call.ErrNotFound, false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, call.NoCallsMatched(tt.err))
		})
	}
}

func TestAPIError_IsNotFound(t *testing.T) {
	assert.True(t, errors.Is(&call.APIError{StatusCode: http.StatusNotFound}, call.ErrNotFound))
	assert.False(t, errors.Is(&call.APIError{StatusCode: http.StatusBadGateway}, call.ErrNotFound))
}
