// Package resilience decorates the Gong repository with a client-side
// rate limit, a per-request timeout, and a circuit breaker. Requests are
// never retried: one repository call is at most one backend request.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/timeout"
	"golang.org/x/time/rate"

	domain "github.com/felixgeelhaar/gong-mcp/internal/domain/call"
)

var ErrClosed = errors.New("resilient repository closed")

type Config struct {
	Timeout time.Duration

	// Circuit breaker
	FailureThreshold uint32
	SuccessThreshold uint32
	HalfOpenTimeout  time.Duration

	// Rate limit: Rate requests per Interval. Rate 0 disables limiting.
	Rate     int
	Interval time.Duration
}

// DefaultConfig stays under Gong's documented 3 requests per second.
func DefaultConfig() Config {
	return Config{
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 1,
		HalfOpenTimeout:  30 * time.Second,
		Rate:             3,
		Interval:         time.Second,
	}
}

// outcome carries a result through the breaker. Errors that say nothing
// about backend health travel here so they do not trip the breaker.
type outcome struct {
	value any
	err   error
}

// ResilientRepository implements call.Repository.
type ResilientRepository struct {
	inner   domain.Repository
	cb      circuitbreaker.CircuitBreaker[outcome]
	tm      timeout.Timeout[outcome]
	limiter *rate.Limiter
	timeout time.Duration
	closed  atomic.Bool
}

func NewResilientRepository(inner domain.Repository, cfg Config) *ResilientRepository {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 1
	}

	var limiter *rate.Limiter
	if cfg.Rate > 0 && cfg.Interval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.Interval/time.Duration(cfg.Rate)), cfg.Rate)
	}

	return &ResilientRepository{
		inner: inner,
		cb: circuitbreaker.New[outcome](circuitbreaker.Config{
			MaxRequests: cfg.SuccessThreshold,
			Timeout:     cfg.HalfOpenTimeout,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
		}),
		tm:      timeout.New[outcome](timeout.Config{DefaultTimeout: cfg.Timeout}),
		limiter: limiter,
		timeout: cfg.Timeout,
	}
}

func (r *ResilientRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	v, err := r.execute(ctx, func(ctx context.Context) (any, error) {
		return r.inner.ListUsers(ctx)
	})
	if err != nil {
		return nil, err
	}
	users, _ := v.([]domain.User)
	return users, nil
}

func (r *ResilientRepository) GetTranscript(ctx context.Context, callID string) (*domain.Transcript, error) {
	v, err := r.execute(ctx, func(ctx context.Context) (any, error) {
		return r.inner.GetTranscript(ctx, callID)
	})
	if err != nil {
		return nil, err
	}
	t, _ := v.(*domain.Transcript)
	return t, nil
}

func (r *ResilientRepository) SearchCalls(ctx context.Context, filters domain.SearchFilters) (*domain.Page, error) {
	v, err := r.execute(ctx, func(ctx context.Context) (any, error) {
		return r.inner.SearchCalls(ctx, filters)
	})
	if err != nil {
		return nil, err
	}
	page, _ := v.(*domain.Page)
	return page, nil
}

// Close rejects further requests.
func (r *ResilientRepository) Close() error {
	r.closed.Store(true)
	return nil
}

func (r *ResilientRepository) execute(ctx context.Context, fn func(context.Context) (any, error)) (any, error) {
	if r.closed.Load() {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limit: %w", err)
		}
	}

	out, err := r.cb.Execute(ctx, func(ctx context.Context) (outcome, error) {
		return r.tm.Execute(ctx, r.timeout, func(ctx context.Context) (outcome, error) {
			v, err := fn(ctx)
			if err != nil && !countsAsFailure(err) {
				return outcome{err: err}, nil
			}
			return outcome{value: v}, err
		})
	})
	if err != nil {
		return nil, err
	}
	return out.value, out.err
}

// countsAsFailure reports whether err indicates an unhealthy backend.
// Missing records, rejected credentials, and client-side 4xx responses
// are answers, not outages.
func countsAsFailure(err error) bool {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrAccessDenied) {
		return false
	}
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
		return false
	}
	return true
}
