package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	domain "github.com/felixgeelhaar/gong-mcp/internal/domain/call"
	"github.com/felixgeelhaar/gong-mcp/internal/domain/failure"
)

const SearchCallsTool = "search_calls"

// SearchCallsToolInput is the search_calls argument object. Every field is
// optional; the schema advertised to clients is reflected from it.
type SearchCallsToolInput struct {
	FromDateTime   *string  `json:"from_date_time,omitempty" jsonschema:"format=date-time,description=Only calls started at or after this ISO-8601 date-time"`
	ToDateTime     *string  `json:"to_date_time,omitempty" jsonschema:"format=date-time,description=Only calls started at or before this ISO-8601 date-time"`
	WorkspaceID    *string  `json:"workspace_id,omitempty" jsonschema:"description=Restrict the search to one Gong workspace"`
	CallIDs        []string `json:"call_ids,omitempty" jsonschema:"description=Only these call IDs"`
	PrimaryUserIDs []string `json:"primary_user_ids,omitempty" jsonschema:"description=Only calls hosted by these user IDs"`
	Cursor         *string  `json:"cursor,omitempty" jsonschema:"description=Pagination cursor returned as nextCursor by a previous search"`
}

// Filters converts the tool input into domain search filters.
func (in SearchCallsToolInput) Filters() domain.SearchFilters {
	return domain.SearchFilters{
		FromDateTime:   deref(in.FromDateTime),
		ToDateTime:     deref(in.ToDateTime),
		WorkspaceID:    deref(in.WorkspaceID),
		CallIDs:        in.CallIDs,
		PrimaryUserIDs: in.PrimaryUserIDs,
		Cursor:         deref(in.Cursor),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type argKind int

const (
	argString argKind = iota
	argStringArray
)

// searchArgs declares each search_calls parameter in schema order.
var searchArgs = []struct {
	name string
	kind argKind
}{
	{"from_date_time", argString},
	{"to_date_time", argString},
	{"workspace_id", argString},
	{"call_ids", argStringArray},
	{"primary_user_ids", argStringArray},
	{"cursor", argString},
}

// ParseSearchArguments decodes raw tool arguments into typed filters.
// Empty or null arguments mean no filter and unknown keys are ignored.
// A non-object payload or a field of the wrong type is invalid_params
// with the offending field in the context.
func ParseSearchArguments(raw json.RawMessage) (domain.SearchFilters, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return domain.SearchFilters{}, nil
	}

	var fields map[string]json.RawMessage
	if trimmed[0] != '{' || json.Unmarshal(trimmed, &fields) != nil {
		return domain.SearchFilters{}, failure.InvalidParams("arguments", string(trimmed),
			"search_calls arguments must be a JSON object")
	}

	for _, arg := range searchArgs {
		value, ok := fields[arg.name]
		if !ok {
			continue
		}
		if err := checkArg(arg.name, arg.kind, value); err != nil {
			return domain.SearchFilters{}, err
		}
	}

	var input SearchCallsToolInput
	if err := json.Unmarshal(trimmed, &input); err != nil {
		return domain.SearchFilters{}, failure.InvalidParams("arguments", string(trimmed),
			fmt.Sprintf("search_calls arguments could not be decoded: %v", err))
	}
	return input.Filters(), nil
}

func checkArg(name string, kind argKind, value json.RawMessage) error {
	var v any
	if err := json.Unmarshal(value, &v); err != nil {
		return failure.InvalidParams(name, string(value), name+" is not valid JSON")
	}
	if v == nil {
		return nil
	}

	switch kind {
	case argString:
		if _, ok := v.(string); !ok {
			return failure.InvalidParams(name, v, name+" must be a string")
		}
	case argStringArray:
		items, ok := v.([]any)
		if !ok {
			return failure.InvalidParams(name, v, name+" must be an array of strings")
		}
		for i, item := range items {
			if _, ok := item.(string); !ok {
				fe := failure.InvalidParams(name, v, name+" must be an array of strings")
				fe.Context["index"] = i
				return fe
			}
		}
	}
	return nil
}

// SearchCallsSchema is the JSON Schema of the search_calls arguments.
func SearchCallsSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}
	s := r.Reflect(&SearchCallsToolInput{})
	s.Version = ""
	return s
}
