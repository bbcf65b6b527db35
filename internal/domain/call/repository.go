package call

import "context"

// Repository is the outbound port to the Gong API. Implementations make
// exactly one backend request per method call and never retry or cache.
type Repository interface {
	ListUsers(ctx context.Context) ([]User, error)
	// GetTranscript returns ErrNotFound when the call has no transcript.
	GetTranscript(ctx context.Context, callID string) (*Transcript, error)
	SearchCalls(ctx context.Context, filters SearchFilters) (*Page, error)
}
