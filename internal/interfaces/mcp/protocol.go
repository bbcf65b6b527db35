package mcp

import (
	"context"
	"encoding/json"
	"errors"

	mcpfw "github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/protocol"

	"github.com/felixgeelhaar/gong-mcp/internal/domain/failure"
)

type readParams struct {
	URI string `json:"uri"`
}

type callParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Middleware answers resource and tool requests from the facade before
// mcp-go routes them, so clients get the facade's URI parsing, argument
// validation and envelopes on every transport. Failures become JSON-RPC
// errors carrying the envelope as data. Other methods pass through.
func (s *Server) Middleware() mcpfw.Middleware {
	return func(next mcpfw.MiddlewareHandlerFunc) mcpfw.MiddlewareHandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			var (
				result any
				err    error
			)
			switch req.Method {
			case protocol.MethodResourcesList:
				result = map[string]any{"resources": s.ListResources(ctx)}
			case protocol.MethodResourcesTemplatesList:
				result = map[string]any{"resourceTemplates": s.ListResourceTemplates(ctx)}
			case protocol.MethodToolsList:
				result = map[string]any{"tools": s.ListTools(ctx)}
			case protocol.MethodResourcesRead:
				result, err = s.readRequest(ctx, req.Params)
			case protocol.MethodToolsCall:
				result, err = s.callRequest(ctx, req.Params)
			default:
				return passThrough(ctx, req, next)
			}
			if err != nil {
				return protocol.NewErrorResponse(req.ID, rpcError(err)), nil
			}
			return protocol.NewResponse(req.ID, result), nil
		}
	}
}

// serveOptions is shared by the stdio and HTTP transports.
func (s *Server) serveOptions() []mcpfw.ServeOption {
	return []mcpfw.ServeOption{mcpfw.WithMiddleware(mcpfw.Recover(), s.Middleware())}
}

func (s *Server) readRequest(ctx context.Context, raw json.RawMessage) (any, error) {
	var p readParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	content, err := s.ReadResource(ctx, p.URI)
	if err != nil {
		return nil, err
	}
	return map[string]any{"contents": []*mcpfw.ResourceContent{content}}, nil
}

func (s *Server) callRequest(ctx context.Context, raw json.RawMessage) (any, error) {
	var p callParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	result, err := s.CallTool(ctx, p.Name, p.Arguments)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"content": []map[string]any{{"type": "text", "text": string(result)}},
	}, nil
}

func decodeParams(raw json.RawMessage, dst any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return failure.InvalidParams("params", nil, "request params are malformed")
	}
	return nil
}

// passThrough turns a returned *protocol.Error into a response; the HTTP
// transport would report it as an internal error otherwise.
func passThrough(ctx context.Context, req *protocol.Request, next mcpfw.MiddlewareHandlerFunc) (*protocol.Response, error) {
	resp, err := next(ctx, req)
	var perr *protocol.Error
	if err != nil && errors.As(err, &perr) {
		return protocol.NewErrorResponse(req.ID, perr), nil
	}
	return resp, err
}

// rpcError wraps an envelope in a JSON-RPC error. The facade has already
// scrubbed it.
func rpcError(err error) *protocol.Error {
	fe, ok := failure.As(err)
	if !ok {
		fe = failure.APIError("Request failed", nil)
	}
	return (&protocol.Error{Code: RPCCode(fe.Kind), Message: fe.Message}).WithData(fe)
}

// RPCCode maps a failure kind onto a JSON-RPC error code.
func RPCCode(kind failure.Kind) int {
	switch kind {
	case failure.KindInvalidURI, failure.KindInvalidParams:
		return protocol.CodeInvalidParams
	case failure.KindResourceNotFound:
		return protocol.CodeNotFound
	case failure.KindNotConfigured:
		return protocol.CodeInvalidRequest
	default:
		return protocol.CodeInternalError
	}
}
