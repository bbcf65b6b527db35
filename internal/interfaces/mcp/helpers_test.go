package mcp_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	callapp "github.com/felixgeelhaar/gong-mcp/internal/application/call"
	statusapp "github.com/felixgeelhaar/gong-mcp/internal/application/status"
	userapp "github.com/felixgeelhaar/gong-mcp/internal/application/user"
	"github.com/felixgeelhaar/gong-mcp/internal/domain/account"
	domain "github.com/felixgeelhaar/gong-mcp/internal/domain/call"
	mcpiface "github.com/felixgeelhaar/gong-mcp/internal/interfaces/mcp"
)

const (
	testAccessKey = "key-abc123"
	testSecret    = "secret-xyz789"
)

type mockRepo struct {
	mu          sync.Mutex
	users       []domain.User
	transcripts map[string]*domain.Transcript
	page        *domain.Page
	err         error

	calls       int
	lastFilters domain.SearchFilters
}

func newMockRepo() *mockRepo {
	return &mockRepo{transcripts: map[string]*domain.Transcript{}}
}

func (m *mockRepo) ListUsers(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.users, nil
}

func (m *mockRepo) GetTranscript(_ context.Context, callID string) (*domain.Transcript, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	t, ok := m.transcripts[callID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (m *mockRepo) SearchCalls(_ context.Context, filters domain.SearchFilters) (*domain.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastFilters = filters
	if m.err != nil {
		return nil, m.err
	}
	return m.page, nil
}

type observation struct {
	operation, target, outcome string
}

type recordingObserver struct {
	mu   sync.Mutex
	seen []observation
}

func (o *recordingObserver) ObserveRequest(_ context.Context, operation, target, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, observation{operation, target, outcome})
}

func testCredentials(t *testing.T) *account.Credentials {
	t.Helper()
	creds, err := account.NewCredentials("https://us-1.api.gong.io", testAccessKey, testSecret)
	require.NoError(t, err)
	return creds
}

// newTestServer wires a configured server over repo. A nil repo yields an
// unconfigured server.
func newTestServer(t *testing.T, repo *mockRepo, observers ...mcpiface.RequestObserver) *mcpiface.Server {
	t.Helper()
	info := statusapp.ServerInfo{Name: "gong-mcp", Version: "test"}
	if repo == nil {
		missing := []string{account.EnvBaseURL, account.EnvAccessKey, account.EnvAccessKeySecret}
		return mcpiface.NewServer("gong-mcp", "test", mcpiface.ServerOptions{
			CheckStatus:   statusapp.NewCheckStatus(nil, missing, info),
			ListUsers:     userapp.NewListUsers(nil),
			GetTranscript: callapp.NewGetTranscript(nil),
			SearchCalls:   callapp.NewSearchCalls(nil),
			Observers:     observers,
		})
	}

	creds := testCredentials(t)
	return mcpiface.NewServer("gong-mcp", "test", mcpiface.ServerOptions{
		Credentials:   creds,
		CheckStatus:   statusapp.NewCheckStatus(creds, nil, info),
		ListUsers:     userapp.NewListUsers(repo),
		GetTranscript: callapp.NewGetTranscript(repo),
		SearchCalls:   callapp.NewSearchCalls(repo),
		Observers:     observers,
	})
}

func mustTime(t *testing.T, s string) *time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return &ts
}
