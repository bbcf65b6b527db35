// Package failure defines the closed taxonomy of request-time failures the
// adapter reports to protocol clients. Every failure carries a
// machine-readable kind, a short message, and structured context.
package failure

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type Kind string

const (
	KindNotConfigured    Kind = "not_configured"
	KindInvalidURI       Kind = "invalid_uri"
	KindResourceNotFound Kind = "resource_not_found"
	KindInvalidParams    Kind = "invalid_params"
	KindAPIError         Kind = "api_error"
)

// Kinds lists every kind in a stable order.
var Kinds = []Kind{
	KindNotConfigured,
	KindInvalidURI,
	KindResourceNotFound,
	KindInvalidParams,
	KindAPIError,
}

// Error is the envelope surfaced to callers: {kind, message, context}.
// Context must never hold credential material.
type Error struct {
	Kind    Kind           `json:"kind"`
	Message string         `json:"message"`
	Context map[string]any `json:"context"`
}

func New(kind Kind, message string, context map[string]any) *Error {
	if context == nil {
		context = map[string]any{}
	}
	return &Error{Kind: kind, Message: message, Context: context}
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// JSON renders the envelope. Context values that fail to marshal are
// replaced by their fmt representation.
func (e *Error) JSON() []byte {
	data, err := json.Marshal(e)
	if err == nil {
		return data
	}
	ctx := make(map[string]any, len(e.Context))
	for k, v := range e.Context {
		ctx[k] = fmt.Sprint(v)
	}
	data, _ = json.Marshal(&Error{Kind: e.Kind, Message: e.Message, Context: ctx})
	return data
}

// Redact returns a copy with every occurrence of the given secrets
// replaced in the message and in context values, nested ones included.
func (e *Error) Redact(secrets ...string) *Error {
	out := &Error{Kind: e.Kind, Message: scrub(e.Message, secrets), Context: make(map[string]any, len(e.Context))}
	for k, v := range e.Context {
		out.Context[k] = redactValue(v, secrets)
	}
	return out
}

// redactValue copies containers rather than editing them in place; the
// caller's envelope stays untouched.
func redactValue(v any, secrets []string) any {
	switch t := v.(type) {
	case string:
		return scrub(t, secrets)
	case []string:
		out := make([]string, len(t))
		for i, s := range t {
			out[i] = scrub(s, secrets)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = redactValue(item, secrets)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = redactValue(item, secrets)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, item := range t {
			out[k] = scrub(item, secrets)
		}
		return out
	case json.RawMessage:
		return json.RawMessage(scrub(string(t), secrets))
	case error:
		return scrub(t.Error(), secrets)
	case fmt.Stringer:
		return scrub(t.String(), secrets)
	default:
		return v
	}
}

func scrub(s string, secrets []string) string {
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		s = strings.ReplaceAll(s, secret, "[REDACTED]")
	}
	return s
}

// As extracts an envelope from err.
func As(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// KindOf returns the kind of err, or "" when err is not an envelope.
func KindOf(err error) Kind {
	if fe, ok := As(err); ok {
		return fe.Kind
	}
	return ""
}

// --- Constructors ---

func NotConfigured() *Error {
	return New(KindNotConfigured,
		"Gong API is not configured. Set GONG_BASE_URL, GONG_ACCESS_KEY, and GONG_ACCESS_KEY_SECRET.",
		nil)
}

func InvalidURI(uri, reason, message string) *Error {
	return New(KindInvalidURI, message, map[string]any{
		"uri":    uri,
		"reason": reason,
	})
}

func ResourceNotFound(message string, context map[string]any) *Error {
	return New(KindResourceNotFound, message, context)
}

// InvalidParams reports a malformed argument. value is the attempted value
// as received.
func InvalidParams(field string, value any, message string) *Error {
	ctx := map[string]any{}
	if field != "" {
		ctx["field"] = field
	}
	if value != nil {
		ctx["value"] = value
	}
	return New(KindInvalidParams, message, ctx)
}

func UnknownTool(name string) *Error {
	return New(KindInvalidParams, "unknown tool: "+name, map[string]any{"tool": name})
}

func APIError(message string, context map[string]any) *Error {
	return New(KindAPIError, message, context)
}
