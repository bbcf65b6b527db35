// Package flatten projects nested Gong payloads into flat, LLM-friendly
// shapes. Every function here is pure: the same input always yields the
// same output, with no I/O and no hidden state.
package flatten

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/gong-mcp/internal/domain/call"
)

const untitled = "Untitled"

// Call is the flat projection of one backend call record.
type Call struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Summary         string  `json:"summary"`
	URL             string  `json:"url,omitempty"`
	Scheduled       string  `json:"scheduled,omitempty"`
	Started         string  `json:"started,omitempty"`
	Ended           string  `json:"ended,omitempty"`
	DurationSeconds int64   `json:"durationSeconds"`
	Direction       string  `json:"direction,omitempty"`
	System          string  `json:"system,omitempty"`
	Scope           string  `json:"scope,omitempty"`
	Media           string  `json:"media,omitempty"`
	Language        string  `json:"language,omitempty"`
	Purpose         string  `json:"purpose,omitempty"`
	MeetingURL      string  `json:"meetingUrl,omitempty"`
	WorkspaceID     string  `json:"workspaceId,omitempty"`
	PrimaryUserID   string  `json:"primaryUserId,omitempty"`
	IsPrivate       bool    `json:"isPrivate"`
	Parties         []Party `json:"parties"`
}

type Party struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Title       string `json:"title,omitempty"`
	Affiliation string `json:"affiliation,omitempty"`
	SpeakerID   string `json:"speakerId,omitempty"`
	UserID      string `json:"userId,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// Calls flattens records in backend order.
func Calls(calls []call.Call) []Call {
	out := make([]Call, len(calls))
	for i, c := range calls {
		out[i] = toCall(c)
	}
	return out
}

func toCall(c call.Call) Call {
	m := c.MetaData
	title := strings.TrimSpace(m.Title)
	if title == "" {
		title = untitled
	}

	parties := make([]Party, len(c.Parties))
	for i, p := range c.Parties {
		parties[i] = Party{
			ID:          p.ID,
			Name:        p.Name,
			Email:       p.EmailAddress,
			Title:       p.Title,
			Affiliation: string(p.Affiliation),
			SpeakerID:   p.SpeakerID,
			UserID:      p.UserID,
			PhoneNumber: p.PhoneNumber,
		}
	}

	return Call{
		ID:              m.ID,
		Title:           title,
		Summary:         summary(title, m),
		URL:             m.URL,
		Scheduled:       formatTime(m.Scheduled),
		Started:         formatTime(m.Started),
		Ended:           formatTime(m.Ended()),
		DurationSeconds: int64(m.Duration / time.Second),
		Direction:       string(m.Direction),
		System:          m.System,
		Scope:           m.Scope,
		Media:           m.Media,
		Language:        m.Language,
		Purpose:         m.Purpose,
		MeetingURL:      m.MeetingURL,
		WorkspaceID:     m.WorkspaceID,
		PrimaryUserID:   m.PrimaryUserID,
		IsPrivate:       m.IsPrivate,
		Parties:         parties,
	}
}

// summary renders "<title> | <start> - <end> (<duration>)". The window is
// printed in the call's own offset so output never depends on the host zone.
func summary(title string, m call.MetaData) string {
	start := m.Started
	if start == nil {
		start = m.Scheduled
	}
	if start == nil {
		return title + " | time unknown"
	}
	end := start.Add(m.Duration)
	window := start.Format("2006-01-02 15:04")
	if sameDay(*start, end) {
		window += " - " + end.Format("15:04")
	} else {
		window += " - " + end.Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("%s | %s %s (%s)", title, window, start.Format("-07:00"), formatDuration(m.Duration))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh%02dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
