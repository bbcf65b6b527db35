// Package mcp implements the MCP server interface layer.
// It translates between MCP protocol concepts (resources, resource
// templates, tools) and application use cases, following the Ports &
// Adapters pattern. Server is the adapter facade: every failure it returns
// is a *failure.Error scrubbed of credential material.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mcpfw "github.com/felixgeelhaar/mcp-go"
	"github.com/invopop/jsonschema"
	"github.com/prometheus/client_golang/prometheus"

	callapp "github.com/felixgeelhaar/gong-mcp/internal/application/call"
	statusapp "github.com/felixgeelhaar/gong-mcp/internal/application/status"
	userapp "github.com/felixgeelhaar/gong-mcp/internal/application/user"
	"github.com/felixgeelhaar/gong-mcp/internal/domain/account"
	domain "github.com/felixgeelhaar/gong-mcp/internal/domain/call"
	"github.com/felixgeelhaar/gong-mcp/internal/domain/failure"
)

const (
	mimeJSON  = "application/json"
	outcomeOK = "ok"

	OpListResources         = "list_resources"
	OpListResourceTemplates = "list_resource_templates"
	OpReadResource          = "read_resource"
	OpListTools             = "list_tools"
	OpCallTool              = "call_tool"
)

// Instructions is the guidance advertised to clients.
const Instructions = "Gong call data: read gong://status to check configuration, " +
	"gong://users for the user list, gong://calls/{callId}/transcript for a transcript, " +
	"and use the search_calls tool to page through calls. Requires GONG_BASE_URL, " +
	"GONG_ACCESS_KEY and GONG_ACCESS_KEY_SECRET."

// RequestObserver is told about every facade operation once it completes.
// outcome is "ok" or the failure kind.
type RequestObserver interface {
	ObserveRequest(ctx context.Context, operation, target, outcome string, elapsed time.Duration)
}

type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MimeType    string `json:"mimeType"`
}

type ResourceTemplate struct {
	URITemplate string `json:"uriTemplate"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MimeType    string `json:"mimeType"`
}

type Tool struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"inputSchema"`
}

var resources = []Resource{
	{
		URI:         StatusURI,
		Name:        "Gong Status",
		Description: "Whether the Gong API is configured. Readable without configuration.",
		MimeType:    mimeJSON,
	},
	{
		URI:         UsersURI,
		Name:        "Gong Users",
		Description: "Users of the Gong company account",
		MimeType:    mimeJSON,
	},
}

var resourceTemplates = []ResourceTemplate{
	{
		URITemplate: TranscriptURITemplate,
		Name:        "Call Transcript",
		Description: "Flattened, speaker-tagged transcript of a Gong call",
		MimeType:    mimeJSON,
	},
}

const searchCallsDescription = "Search Gong calls by date range, workspace, call IDs, or host user IDs. " +
	"Results are paginated: pass nextCursor back as cursor to fetch the next page."

// ServerOptions groups the collaborators passed to NewServer. Credentials
// is nil when the adapter is unconfigured.
type ServerOptions struct {
	Credentials   *account.Credentials
	CheckStatus   *statusapp.CheckStatus
	ListUsers     *userapp.ListUsers
	GetTranscript *callapp.GetTranscript
	SearchCalls   *callapp.SearchCalls

	Observers []RequestObserver
	Gatherer  prometheus.Gatherer
	Logger    *slog.Logger
}

// Server wraps the mcp-go server and exposes Gong data as MCP resources
// and tools.
type Server struct {
	inner *mcpfw.Server

	creds         *account.Credentials
	checkStatus   *statusapp.CheckStatus
	listUsers     *userapp.ListUsers
	getTranscript *callapp.GetTranscript
	searchCalls   *callapp.SearchCalls

	observers []RequestObserver
	gatherer  prometheus.Gatherer
	logger    *slog.Logger

	name    string
	version string
}

// NewServer creates a new MCP server wired to application use cases.
func NewServer(name, version string, opts ServerOptions) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	checkStatus := opts.CheckStatus
	if checkStatus == nil {
		checkStatus = statusapp.NewCheckStatus(opts.Credentials, nil, statusapp.ServerInfo{Name: name, Version: version})
	}

	s := &Server{
		name:          name,
		version:       version,
		creds:         opts.Credentials,
		checkStatus:   checkStatus,
		listUsers:     opts.ListUsers,
		getTranscript: opts.GetTranscript,
		searchCalls:   opts.SearchCalls,
		observers:     opts.Observers,
		gatherer:      opts.Gatherer,
		logger:        logger,
	}

	srv := mcpfw.NewServer(mcpfw.ServerInfo{
		Name:    name,
		Version: version,
	}, mcpfw.WithInstructions(Instructions))

	s.registerTools(srv)
	s.registerResources(srv)

	s.inner = srv
	return s
}

func (s *Server) Name() string    { return s.name }
func (s *Server) Version() string { return s.version }

// Inner returns the underlying mcp-go server for transport integration.
func (s *Server) Inner() *mcpfw.Server { return s.inner }

// ServeStdio starts the MCP server on stdio transport.
func (s *Server) ServeStdio(ctx context.Context) error {
	return mcpfw.ServeStdio(ctx, s.inner, s.serveOptions()...)
}

// configured reports whether credentials were supplied at startup.
func (s *Server) configured() bool { return s.creds != nil }

// --- Facade operations ---

// ListResources is static and never touches the backend.
func (s *Server) ListResources(ctx context.Context) []Resource {
	defer s.observe(ctx, OpListResources, "", time.Now(), nil)
	out := make([]Resource, len(resources))
	copy(out, resources)
	return out
}

// ListResourceTemplates is static and never touches the backend.
func (s *Server) ListResourceTemplates(ctx context.Context) []ResourceTemplate {
	defer s.observe(ctx, OpListResourceTemplates, "", time.Now(), nil)
	out := make([]ResourceTemplate, len(resourceTemplates))
	copy(out, resourceTemplates)
	return out
}

// ListTools describes search_calls with a schema reflected from
// SearchCallsToolInput.
func (s *Server) ListTools(ctx context.Context) []Tool {
	defer s.observe(ctx, OpListTools, "", time.Now(), nil)
	return []Tool{{
		Name:        SearchCallsTool,
		Description: searchCallsDescription,
		InputSchema: SearchCallsSchema(),
	}}
}

// ReadResource routes uri and returns its pretty-printed JSON content.
func (s *Server) ReadResource(ctx context.Context, uri string) (content *mcpfw.ResourceContent, err error) {
	defer func(start time.Time) {
		err = s.fail(err)
		s.observe(ctx, OpReadResource, uri, start, err)
	}(time.Now())

	addr, err := ParseAddress(uri)
	if err != nil {
		return nil, err
	}

	var payload any
	switch addr.Kind {
	case AddressStatus:
		payload = s.checkStatus.Execute()

	case AddressUsers:
		if !s.configured() || s.listUsers == nil {
			return nil, failure.NotConfigured()
		}
		out, err := s.listUsers.Execute(ctx)
		if err != nil {
			return nil, err
		}
		payload = out

	case AddressTranscript:
		if !s.configured() || s.getTranscript == nil {
			return nil, failure.NotConfigured()
		}
		out, err := s.getTranscript.Execute(ctx, callapp.GetTranscriptInput{CallID: addr.CallID})
		if err != nil {
			return nil, err
		}
		payload = out.Transcript
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", addr.Kind, err)
	}
	return &mcpfw.ResourceContent{
		URI:      uri,
		MimeType: mimeJSON,
		Text:     string(data),
	}, nil
}

// CallTool dispatches a tool call with raw JSON arguments.
func (s *Server) CallTool(ctx context.Context, name string, args json.RawMessage) (result json.RawMessage, err error) {
	defer func(start time.Time) {
		err = s.fail(err)
		s.observe(ctx, OpCallTool, name, start, err)
	}(time.Now())

	switch name {
	case SearchCallsTool:
		filters, err := ParseSearchArguments(args)
		if err != nil {
			return nil, err
		}
		list, err := s.search(ctx, filters)
		if err != nil {
			return nil, err
		}
		return json.Marshal(list)
	default:
		return nil, failure.UnknownTool(name)
	}
}

// HandleSearchCalls is the typed search_calls handler registered with
// mcp-go.
func (s *Server) HandleSearchCalls(ctx context.Context, input SearchCallsToolInput) (list *callapp.CallList, err error) {
	defer func(start time.Time) {
		err = s.fail(err)
		s.observe(ctx, OpCallTool, SearchCallsTool, start, err)
	}(time.Now())

	return s.search(ctx, input.Filters())
}

func (s *Server) search(ctx context.Context, filters domain.SearchFilters) (*callapp.CallList, error) {
	if !s.configured() || s.searchCalls == nil {
		return nil, failure.NotConfigured()
	}
	return s.searchCalls.Execute(ctx, callapp.SearchCallsInput{Filters: filters})
}

// --- Failure handling and observation ---

// fail converts err into a scrubbed envelope. Anything that is not an
// envelope yet is reported as api_error.
func (s *Server) fail(err error) error {
	if err == nil {
		return nil
	}
	fe, ok := failure.As(err)
	if !ok {
		fe = failure.APIError("Request failed", map[string]any{"error": err.Error()})
	}
	return fe.Redact(s.creds.Secrets()...)
}

func (s *Server) observe(ctx context.Context, operation, target string, start time.Time, err error) {
	elapsed := time.Since(start)
	outcome := outcomeOK
	if err != nil {
		outcome = string(failure.KindOf(err))
		level := slog.LevelDebug
		if failure.KindOf(err) == failure.KindAPIError {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "request failed",
			"operation", operation, "target", target, "kind", outcome, "error", err)
	} else {
		s.logger.Debug("request served", "operation", operation, "target", target, "elapsed", elapsed)
	}
	for _, o := range s.observers {
		o.ObserveRequest(ctx, operation, target, outcome, elapsed)
	}
}

// --- mcp-go registration ---
//
// The registrations advertise the resources and tools capabilities and
// serve clients of Inner() that bypass Middleware.

// protocolError hands the envelope JSON to the protocol client as the
// error text.
type protocolError struct {
	envelope *failure.Error
}

func (e *protocolError) Error() string { return string(e.envelope.JSON()) }
func (e *protocolError) Unwrap() error { return e.envelope }

func toProtocolError(err error) error {
	if fe, ok := failure.As(err); ok {
		return &protocolError{envelope: fe}
	}
	return err
}

func (s *Server) registerTools(srv *mcpfw.Server) {
	srv.Tool(SearchCallsTool).
		Description(searchCallsDescription).
		Handler(func(ctx context.Context, input SearchCallsToolInput) (*callapp.CallList, error) {
			list, err := s.HandleSearchCalls(ctx, input)
			if err != nil {
				return nil, toProtocolError(err)
			}
			return list, nil
		})
}

func (s *Server) registerResources(srv *mcpfw.Server) {
	for _, r := range resources {
		srv.Resource(r.URI).
			Name(r.Name).
			Description(r.Description).
			MimeType(r.MimeType).
			Handler(s.readResourceHandler)
	}
	for _, t := range resourceTemplates {
		srv.Resource(t.URITemplate).
			Name(t.Name).
			Description(t.Description).
			MimeType(t.MimeType).
			Handler(s.readResourceHandler)
	}
}

// readResourceHandler routes on the full URI; template params extracted
// by mcp-go are not needed.
func (s *Server) readResourceHandler(ctx context.Context, uri string, _ map[string]string) (*mcpfw.ResourceContent, error) {
	content, err := s.ReadResource(ctx, uri)
	if err != nil {
		return nil, toProtocolError(err)
	}
	return content, nil
}
