package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/felixgeelhaar/gong-mcp/internal/domain/call"
	"github.com/felixgeelhaar/gong-mcp/internal/infrastructure/resilience"
)

type stubRepo struct {
	listUsersCalled     bool
	getTranscriptCalled bool
	searchCalled        bool
	callCount           int
	err                 error
	delay               time.Duration
}

func (s *stubRepo) wait(ctx context.Context) error {
	if s.delay == 0 {
		return nil
	}
	select {
	case <-time.After(s.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *stubRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	s.listUsersCalled = true
	s.callCount++
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return []domain.User{{ID: "u-1"}}, nil
}

func (s *stubRepo) GetTranscript(_ context.Context, callID string) (*domain.Transcript, error) {
	s.getTranscriptCalled = true
	s.callCount++
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Transcript{CallID: callID}, nil
}

func (s *stubRepo) SearchCalls(_ context.Context, filters domain.SearchFilters) (*domain.Page, error) {
	s.searchCalled = true
	s.callCount++
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Page{Cursor: filters.Cursor}, nil
}

func testConfig() resilience.Config {
	cfg := resilience.DefaultConfig()
	cfg.Rate = 0
	return cfg
}

func TestResilientRepository_DelegatesToInner(t *testing.T) {
	inner := &stubRepo{}
	repo := resilience.NewResilientRepository(inner, testConfig())
	defer func() { _ = repo.Close() }()

	users, err := repo.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.True(t, inner.listUsersCalled)

	tr, err := repo.GetTranscript(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, "c-1", tr.CallID)
	assert.True(t, inner.getTranscriptCalled)

	page, err := repo.SearchCalls(context.Background(), domain.SearchFilters{Cursor: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "abc", page.Cursor)
	assert.True(t, inner.searchCalled)
}

func TestResilientRepository_NotFoundPassesThroughWithoutRetry(t *testing.T) {
	inner := &stubRepo{err: domain.ErrNotFound}
	repo := resilience.NewResilientRepository(inner, testConfig())
	defer func() { _ = repo.Close() }()

	_, err := repo.GetTranscript(context.Background(), "c-404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, inner.callCount)
}

func TestResilientRepository_ClientErrorsDoNotTrip(t *testing.T) {
	inner := &stubRepo{err: &domain.APIError{StatusCode: 400, Message: "bad filter"}}
	cfg := testConfig()
	cfg.FailureThreshold = 2
	repo := resilience.NewResilientRepository(inner, cfg)
	defer func() { _ = repo.Close() }()

	for i := 0; i < 5; i++ {
		_, err := repo.SearchCalls(context.Background(), domain.SearchFilters{})
		var apiErr *domain.APIError
		require.True(t, errors.As(err, &apiErr))
	}
	assert.Equal(t, 5, inner.callCount)
}

func TestResilientRepository_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := &stubRepo{err: &domain.APIError{StatusCode: 503, Message: "unavailable"}}
	cfg := testConfig()
	cfg.FailureThreshold = 2
	cfg.HalfOpenTimeout = time.Minute
	repo := resilience.NewResilientRepository(inner, cfg)
	defer func() { _ = repo.Close() }()

	for i := 0; i < 4; i++ {
		_, err := repo.ListUsers(context.Background())
		require.Error(t, err)
	}
	assert.Equal(t, 2, inner.callCount, "open breaker must short-circuit")
}

func TestResilientRepository_Timeout(t *testing.T) {
	inner := &stubRepo{delay: time.Second}
	cfg := testConfig()
	cfg.Timeout = 20 * time.Millisecond
	repo := resilience.NewResilientRepository(inner, cfg)
	defer func() { _ = repo.Close() }()

	_, err := repo.ListUsers(context.Background())
	assert.Error(t, err)
}

func TestResilientRepository_Close(t *testing.T) {
	inner := &stubRepo{}
	repo := resilience.NewResilientRepository(inner, testConfig())

	require.NoError(t, repo.Close())
	_, err := repo.ListUsers(context.Background())
	assert.ErrorIs(t, err, resilience.ErrClosed)
	assert.Zero(t, inner.callCount)
}

func TestResilientRepository_CancelledContext(t *testing.T) {
	inner := &stubRepo{}
	repo := resilience.NewResilientRepository(inner, resilience.DefaultConfig())
	defer func() { _ = repo.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.GetTranscript(ctx, "c-1")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, inner.callCount)
}
