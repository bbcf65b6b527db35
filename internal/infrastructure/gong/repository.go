package gong

import (
	"context"
	"fmt"
	"time"

	domain "github.com/felixgeelhaar/gong-mcp/internal/domain/call"
)

// Repository implements call.Repository against the Gong API.
// Each method issues exactly one request.
type Repository struct {
	client *Client
}

func NewRepository(client *Client) *Repository {
	return &Repository{client: client}
}

// ListUsers returns the first page of users.
func (r *Repository) ListUsers(ctx context.Context) ([]domain.User, error) {
	resp, err := r.client.ListUsers(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	users := make([]domain.User, 0, len(resp.Users))
	for _, dto := range resp.Users {
		users = append(users, mapUser(dto))
	}
	return users, nil
}

func (r *Repository) GetTranscript(ctx context.Context, callID string) (*domain.Transcript, error) {
	resp, err := r.client.GetTranscripts(ctx, TranscriptsRequest{
		Filter: CallsFilter{CallIDs: []string{callID}},
	})
	if err != nil {
		return nil, fmt.Errorf("getting transcript %s: %w", callID, err)
	}

	for _, ct := range resp.CallTranscripts {
		if ct.CallID == callID {
			t := mapTranscript(ct)
			return &t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *Repository) SearchCalls(ctx context.Context, filters domain.SearchFilters) (*domain.Page, error) {
	resp, err := r.client.ListCallsExtensive(ctx, ExtensiveCallsRequest{
		Cursor: filters.Cursor,
		Filter: CallsFilterWithOwners{
			CallsFilter: CallsFilter{
				FromDateTime: filters.FromDateTime,
				ToDateTime:   filters.ToDateTime,
				WorkspaceID:  filters.WorkspaceID,
				CallIDs:      filters.CallIDs,
			},
			PrimaryUserIDs: filters.PrimaryUserIDs,
		},
		ContentSelector: &ContentSelector{
			ExposedFields: ExposedFields{
				Parties: true,
				Content: &ContentFields{Structure: true},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("searching calls: %w", err)
	}

	calls := make([]domain.Call, 0, len(resp.Calls))
	for _, dto := range resp.Calls {
		calls = append(calls, mapCall(dto))
	}
	return &domain.Page{
		Calls:        calls,
		Cursor:       resp.Records.Cursor,
		TotalRecords: resp.Records.TotalRecords,
	}, nil
}

// --- DTO → Domain mapping ---

func mapUser(dto UserDTO) domain.User {
	u := domain.User{
		ID:           dto.ID,
		EmailAddress: dto.EmailAddress,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		Title:        dto.Title,
		PhoneNumber:  dto.PhoneNumber,
		ManagerID:    dto.ManagerID,
		Created:      parseTime(dto.Created),
	}
	if dto.Active != nil {
		u.Active = *dto.Active
	}
	return u
}

func mapTranscript(dto CallTranscriptDTO) domain.Transcript {
	t := domain.Transcript{
		CallID:     dto.CallID,
		Monologues: make([]domain.Monologue, 0, len(dto.Transcript)),
	}
	for _, m := range dto.Transcript {
		mono := domain.Monologue{
			SpeakerID: m.SpeakerID,
			Sentences: make([]domain.Sentence, 0, len(m.Sentences)),
		}
		if m.Topic != nil {
			mono.Topic = *m.Topic
		}
		for _, s := range m.Sentences {
			mono.Sentences = append(mono.Sentences, domain.Sentence{
				StartMs: s.Start,
				EndMs:   s.End,
				Text:    s.Text,
			})
		}
		t.Monologues = append(t.Monologues, mono)
	}
	return t
}

func mapCall(dto CallDTO) domain.Call {
	var c domain.Call
	if md := dto.MetaData; md != nil {
		c.MetaData = domain.MetaData{
			ID:            md.ID,
			URL:           md.URL,
			Title:         md.Title,
			Scheduled:     parseTime(md.Scheduled),
			Started:       parseTime(md.Started),
			Duration:      time.Duration(md.Duration) * time.Second,
			PrimaryUserID: md.PrimaryUserID,
			Direction:     domain.Direction(md.Direction),
			System:        md.System,
			Scope:         md.Scope,
			Media:         md.Media,
			Language:      md.Language,
			WorkspaceID:   md.WorkspaceID,
			Purpose:       md.Purpose,
			MeetingURL:    md.MeetingURL,
			IsPrivate:     md.IsPrivate,
		}
	}
	for _, p := range dto.Parties {
		c.Parties = append(c.Parties, domain.Party{
			ID:           p.ID,
			EmailAddress: p.EmailAddress,
			Name:         p.Name,
			Title:        p.Title,
			UserID:       p.UserID,
			SpeakerID:    p.SpeakerID,
			Affiliation:  domain.Affiliation(p.Affiliation),
			PhoneNumber:  p.PhoneNumber,
		})
	}
	return c
}

// parseTime accepts RFC 3339 with or without fractional seconds.
// Unparseable values are treated as absent.
func parseTime(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return nil
	}
	return &t
}
