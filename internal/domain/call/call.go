// Package call models the Gong payloads the adapter consumes: call
// records, transcripts, and users, plus the Repository port that
// fetches them. Shapes mirror the backend's nesting; flattening for
// LLM consumption happens in the application layer.
package call

import "time"

type Direction string

const (
	DirectionInbound    Direction = "Inbound"
	DirectionOutbound   Direction = "Outbound"
	DirectionConference Direction = "Conference"
	DirectionUnknown    Direction = "Unknown"
)

type Affiliation string

const (
	AffiliationInternal Affiliation = "Internal"
	AffiliationExternal Affiliation = "External"
	AffiliationUnknown  Affiliation = "Unknown"
)

// Call is one record of the extensive call listing.
type Call struct {
	MetaData MetaData
	Parties  []Party
}

// MetaData is the identity and scheduling block of a call. Every field is
// optional on the wire; zero values mean absent.
type MetaData struct {
	ID            string
	URL           string
	Title         string
	Scheduled     *time.Time
	Started       *time.Time
	Duration      time.Duration
	PrimaryUserID string
	Direction     Direction
	System        string
	Scope         string
	Media         string
	Language      string
	WorkspaceID   string
	Purpose       string
	MeetingURL    string
	IsPrivate     bool
}

// Ended derives the end time from start and duration.
func (m MetaData) Ended() *time.Time {
	if m.Started == nil {
		return nil
	}
	end := m.Started.Add(m.Duration)
	return &end
}

// Party is a call participant.
type Party struct {
	ID           string
	EmailAddress string
	Name         string
	Title        string
	UserID       string
	SpeakerID    string
	Affiliation  Affiliation
	PhoneNumber  string
}

// Page is one page of calls plus the opaque cursor of the next page.
type Page struct {
	Calls        []Call
	Cursor       string
	TotalRecords int
}

// HasMore reports whether the backend returned a continuation cursor.
func (p Page) HasMore() bool { return p.Cursor != "" }
