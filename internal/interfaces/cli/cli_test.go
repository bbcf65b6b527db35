package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	callapp "github.com/felixgeelhaar/gong-mcp/internal/application/call"
	exportapp "github.com/felixgeelhaar/gong-mcp/internal/application/export"
	statusapp "github.com/felixgeelhaar/gong-mcp/internal/application/status"
	userapp "github.com/felixgeelhaar/gong-mcp/internal/application/user"
	"github.com/felixgeelhaar/gong-mcp/internal/domain/account"
	domain "github.com/felixgeelhaar/gong-mcp/internal/domain/call"
	"github.com/felixgeelhaar/gong-mcp/internal/infrastructure/journal"
	"github.com/felixgeelhaar/gong-mcp/internal/interfaces/cli"
	mcpiface "github.com/felixgeelhaar/gong-mcp/internal/interfaces/mcp"
)

const testSecret = "cli-secret-value"

type fakeRepo struct {
	users       []domain.User
	transcripts map[string]*domain.Transcript
	page        *domain.Page
	err         error
	lastFilters domain.SearchFilters
}

func (f *fakeRepo) ListUsers(context.Context) ([]domain.User, error) {
	return f.users, f.err
}

func (f *fakeRepo) GetTranscript(_ context.Context, id string) (*domain.Transcript, error) {
	if f.err != nil {
		return nil, f.err
	}
	if t, ok := f.transcripts[id]; ok {
		return t, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRepo) SearchCalls(_ context.Context, filters domain.SearchFilters) (*domain.Page, error) {
	f.lastFilters = filters
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

type fixture struct {
	deps    *cli.Dependencies
	repo    *fakeRepo
	journal *journal.Store
	out     *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, journal.InitSchema(db))
	store := journal.NewStore(db, nil)

	creds, err := account.NewCredentials("https://api.gong.io", "cli-key", testSecret)
	require.NoError(t, err)

	repo := &fakeRepo{transcripts: map[string]*domain.Transcript{}}
	getTranscript := callapp.NewGetTranscript(repo)
	checkStatus := statusapp.NewCheckStatus(creds, nil, statusapp.ServerInfo{Name: "gong-mcp", Version: "test"})

	srv := mcpiface.NewServer("gong-mcp", "test", mcpiface.ServerOptions{
		Credentials:   creds,
		CheckStatus:   checkStatus,
		ListUsers:     userapp.NewListUsers(repo),
		GetTranscript: getTranscript,
		SearchCalls:   callapp.NewSearchCalls(repo),
		Observers:     []mcpiface.RequestObserver{store},
	})

	out := &bytes.Buffer{}
	return &fixture{
		deps: &cli.Dependencies{
			MCPServer:        srv,
			CheckStatus:      checkStatus,
			ExportTranscript: exportapp.NewExportTranscript(getTranscript),
			Journal:          store,
			Credentials:      creds,
			Transport:        "stdio",
			Host:             "127.0.0.1",
			Port:             8080,
			OpsPort:          8081,
			Out:              out,
		},
		repo:    repo,
		journal: store,
		out:     out,
	}
}

func (f *fixture) run(args ...string) error {
	f.out.Reset()
	root := cli.NewRootCmd(f.deps)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func TestVersion(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.run("version"))
	assert.Contains(t, f.out.String(), "gong-mcp dev (commit: none")

	require.NoError(t, f.run("version", "--short"))
	assert.Equal(t, "dev\n", f.out.String())
}

func TestStatus(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.run("status"))
	assert.Equal(t, "Configured (https://api.gong.io)\n", f.out.String())

	require.NoError(t, f.run("status", "--format", "json"))
	var report statusapp.Report
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &report))
	assert.True(t, report.Configured)
	assert.NotContains(t, f.out.String(), testSecret)
}

func TestStatus_InvalidBaseURL(t *testing.T) {
	f := newFixture(t)
	f.deps.CheckStatus = statusapp.NewCheckStatus(nil, nil, statusapp.ServerInfo{Name: "gong-mcp", Version: "test"}).
		WithInvalid([]string{account.EnvBaseURL})

	require.NoError(t, f.run("status"))
	assert.Equal(t, "Not configured.\nInvalid: GONG_BASE_URL\n", f.out.String())
}

func TestUsers(t *testing.T) {
	f := newFixture(t)
	f.repo.users = []domain.User{{ID: "u-1", FirstName: "Ada", LastName: "Lovelace", EmailAddress: "ada@example.com", Active: true}}

	require.NoError(t, f.run("users"))
	assert.Contains(t, f.out.String(), "ID")
	assert.Contains(t, f.out.String(), "Ada Lovelace")
	assert.Contains(t, f.out.String(), "ada@example.com")

	require.NoError(t, f.run("users", "--format", "json"))
	var out userapp.ListUsersOutput
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &out))
	assert.Equal(t, 1, out.Count)
}

func TestUsers_ErrorIsRedacted(t *testing.T) {
	f := newFixture(t)
	f.repo.err = errors.New("upstream echoed " + testSecret)

	err := f.run("users")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), testSecret)
}

func TestTranscript(t *testing.T) {
	f := newFixture(t)
	f.repo.transcripts["c-1"] = &domain.Transcript{
		CallID: "c-1",
		Monologues: []domain.Monologue{
			{SpeakerID: "s1", Topic: "Intro", Sentences: []domain.Sentence{{StartMs: 0, EndMs: 900, Text: "Hello"}}},
			{SpeakerID: "s2", Sentences: []domain.Sentence{{StartMs: 61000, EndMs: 62000, Text: "Hi"}}},
		},
	}

	require.NoError(t, f.run("transcript", "c-1"))
	assert.Contains(t, f.out.String(), "# Transcript c-1")
	assert.Contains(t, f.out.String(), "## Intro")

	require.NoError(t, f.run("transcript", "c-1", "--format", "txt"))
	assert.Contains(t, f.out.String(), "[01:01] Speaker s2: Hi")

	require.Error(t, f.run("transcript", "missing"))
	require.Error(t, f.run("transcript", "c-1", "--format", "pdf"))
	require.Error(t, f.run("transcript"))
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	f.repo.page = &domain.Page{
		Calls:  []domain.Call{{MetaData: domain.MetaData{ID: "c-9", Title: "Renewal", Duration: 90 * time.Second}}},
		Cursor: "page-2",
	}

	require.NoError(t, f.run("search", "--from", "2024-01-01T00:00:00Z", "--user", "u1", "--user", "u2", "--call-id", "c-9"))
	assert.Contains(t, f.out.String(), "Renewal")
	assert.Contains(t, f.out.String(), "90s")
	assert.Contains(t, f.out.String(), "--cursor page-2")
	assert.Equal(t, "2024-01-01T00:00:00Z", f.repo.lastFilters.FromDateTime)
	assert.Equal(t, []string{"u1", "u2"}, f.repo.lastFilters.PrimaryUserIDs)
	assert.Equal(t, []string{"c-9"}, f.repo.lastFilters.CallIDs)

	require.NoError(t, f.run("search", "--format", "json", "--cursor", "page-2"))
	var list callapp.CallList
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &list))
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, "page-2", f.repo.lastFilters.Cursor)
}

func TestJournal(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.run("users"))

	require.NoError(t, f.run("journal", "list", "--format", "json"))
	var entries []journal.Entry
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, mcpiface.OpReadResource, entries[0].Operation)
	assert.Equal(t, journal.OutcomeOK, entries[0].Outcome)

	require.NoError(t, f.run("journal", "list"))
	assert.Contains(t, f.out.String(), "OPERATION")
	assert.Contains(t, f.out.String(), mcpiface.OpReadResource)

	require.NoError(t, f.journal.Append(context.Background(), journal.Entry{
		Operation: mcpiface.OpCallTool,
		Outcome:   journal.OutcomeOK,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}))
	require.NoError(t, f.run("journal", "prune", "--older-than", "24h"))
	assert.Equal(t, "Pruned 1 entries older than 24h0m0s\n", f.out.String())
}

func TestJournal_Disabled(t *testing.T) {
	f := newFixture(t)
	f.deps.Journal = nil

	require.Error(t, f.run("journal", "list"))
	require.Error(t, f.run("journal", "prune"))
}

func TestServe_UnknownTransport(t *testing.T) {
	f := newFixture(t)
	err := f.run("serve", "--transport", "carrier-pigeon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown transport")
}

func TestServe_OpsPortCollision(t *testing.T) {
	f := newFixture(t)
	err := f.run("serve", "--transport", "http", "--port", "9000", "--ops-port", "9000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collides")
}
