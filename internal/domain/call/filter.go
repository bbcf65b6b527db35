package call

import (
	"strings"
	"time"

	"github.com/felixgeelhaar/gong-mcp/internal/domain/failure"
)

// SearchFilters narrows a call search. Every field is optional and the
// zero value means "first page of every reachable call". JSON names
// match the search_calls tool parameters.
type SearchFilters struct {
	FromDateTime   string   `json:"from_date_time,omitempty"`
	ToDateTime     string   `json:"to_date_time,omitempty"`
	WorkspaceID    string   `json:"workspace_id,omitempty"`
	CallIDs        []string `json:"call_ids,omitempty"`
	PrimaryUserIDs []string `json:"primary_user_ids,omitempty"`
	// Cursor is an opaque backend pagination token, forwarded verbatim.
	Cursor string `json:"cursor,omitempty"`
}

// IsEmpty reports whether no filter is set.
func (f SearchFilters) IsEmpty() bool {
	return f.FromDateTime == "" && f.ToDateTime == "" && f.WorkspaceID == "" &&
		len(f.CallIDs) == 0 && len(f.PrimaryUserIDs) == 0 && f.Cursor == ""
}

// Normalize trims text fields, drops blanks, and validates the date range.
// The cursor is left untouched. Failures are invalid_params envelopes.
func (f SearchFilters) Normalize() (SearchFilters, error) {
	out := SearchFilters{
		FromDateTime:   strings.TrimSpace(f.FromDateTime),
		ToDateTime:     strings.TrimSpace(f.ToDateTime),
		WorkspaceID:    strings.TrimSpace(f.WorkspaceID),
		CallIDs:        compact(f.CallIDs),
		PrimaryUserIDs: compact(f.PrimaryUserIDs),
		Cursor:         f.Cursor,
	}

	from, err := parseDateTime("from_date_time", out.FromDateTime)
	if err != nil {
		return SearchFilters{}, err
	}
	to, err := parseDateTime("to_date_time", out.ToDateTime)
	if err != nil {
		return SearchFilters{}, err
	}
	if from != nil && to != nil && from.After(*to) {
		fe := failure.InvalidParams("from_date_time", out.FromDateTime,
			"from_date_time must not be after to_date_time")
		fe.Context["to_date_time"] = out.ToDateTime
		return SearchFilters{}, fe
	}
	return out, nil
}

func parseDateTime(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, failure.InvalidParams(field, value, field+" must be an ISO-8601 date-time (RFC 3339)")
	}
	return &t, nil
}

func compact(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
