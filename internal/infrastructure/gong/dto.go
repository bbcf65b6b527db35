// Package gong is the anti-corruption layer over the Gong v2 REST API.
// DTOs mirror the wire format; Repository maps them onto the call domain.
package gong

// --- Shared ---

type Records struct {
	TotalRecords      int    `json:"totalRecords"`
	CurrentPageSize   int    `json:"currentPageSize"`
	CurrentPageNumber int    `json:"currentPageNumber"`
	Cursor            string `json:"cursor,omitempty"`
}

type ErrorResponse struct {
	RequestID string   `json:"requestId"`
	Errors    []string `json:"errors"`
}

// --- Users ---

type UsersResponse struct {
	RequestID string    `json:"requestId"`
	Records   Records   `json:"records"`
	Users     []UserDTO `json:"users"`
}

type UserDTO struct {
	ID           string  `json:"id"`
	EmailAddress string  `json:"emailAddress"`
	Created      *string `json:"created,omitempty"`
	Active       *bool   `json:"active,omitempty"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Title        string  `json:"title"`
	PhoneNumber  string  `json:"phoneNumber"`
	ManagerID    string  `json:"managerId"`
}

// --- Transcripts ---

type CallsFilter struct {
	FromDateTime string   `json:"fromDateTime,omitempty"`
	ToDateTime   string   `json:"toDateTime,omitempty"`
	WorkspaceID  string   `json:"workspaceId,omitempty"`
	CallIDs      []string `json:"callIds,omitempty"`
}

type TranscriptsRequest struct {
	Cursor string      `json:"cursor,omitempty"`
	Filter CallsFilter `json:"filter"`
}

type TranscriptsResponse struct {
	RequestID       string              `json:"requestId"`
	Records         Records             `json:"records"`
	CallTranscripts []CallTranscriptDTO `json:"callTranscripts"`
}

type CallTranscriptDTO struct {
	CallID     string         `json:"callId"`
	Transcript []MonologueDTO `json:"transcript"`
}

type MonologueDTO struct {
	SpeakerID string        `json:"speakerId"`
	Topic     *string       `json:"topic,omitempty"`
	Sentences []SentenceDTO `json:"sentences"`
}

type SentenceDTO struct {
	Start int64  `json:"start"`
	End   int64  `json:"end"`
	Text  string `json:"text"`
}

// --- Extensive calls ---

type CallsFilterWithOwners struct {
	CallsFilter
	PrimaryUserIDs []string `json:"primaryUserIds,omitempty"`
}

type ExtensiveCallsRequest struct {
	Cursor          string                `json:"cursor,omitempty"`
	Filter          CallsFilterWithOwners `json:"filter"`
	ContentSelector *ContentSelector      `json:"contentSelector,omitempty"`
}

type ContentSelector struct {
	ExposedFields ExposedFields `json:"exposedFields"`
}

type ExposedFields struct {
	Parties bool           `json:"parties"`
	Content *ContentFields `json:"content,omitempty"`
}

type ContentFields struct {
	Structure bool `json:"structure"`
}

type ExtensiveCallsResponse struct {
	RequestID string    `json:"requestId"`
	Records   Records   `json:"records"`
	Calls     []CallDTO `json:"calls"`
}

type CallDTO struct {
	MetaData *MetaDataDTO `json:"metaData,omitempty"`
	Parties  []PartyDTO   `json:"parties,omitempty"`
}

type MetaDataDTO struct {
	ID            string  `json:"id"`
	URL           string  `json:"url"`
	Title         string  `json:"title"`
	Scheduled     *string `json:"scheduled,omitempty"`
	Started       *string `json:"started,omitempty"`
	Duration      int64   `json:"duration"`
	PrimaryUserID string  `json:"primaryUserId"`
	Direction     string  `json:"direction"`
	System        string  `json:"system"`
	Scope         string  `json:"scope"`
	Media         string  `json:"media"`
	Language      string  `json:"language"`
	WorkspaceID   string  `json:"workspaceId"`
	Purpose       string  `json:"purpose"`
	MeetingURL    string  `json:"meetingUrl"`
	IsPrivate     bool    `json:"isPrivate"`
}

type PartyDTO struct {
	ID           string `json:"id"`
	EmailAddress string `json:"emailAddress"`
	Name         string `json:"name"`
	Title        string `json:"title"`
	UserID       string `json:"userId"`
	SpeakerID    string `json:"speakerId"`
	Affiliation  string `json:"affiliation"`
	PhoneNumber  string `json:"phoneNumber"`
}
