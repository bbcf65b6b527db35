package mcp

import (
	"strings"

	"github.com/felixgeelhaar/gong-mcp/internal/domain/failure"
)

const (
	StatusURI             = "gong://status"
	UsersURI              = "gong://users"
	TranscriptURITemplate = "gong://calls/{callId}/transcript"

	transcriptPrefix = "gong://calls/"
	transcriptSuffix = "/transcript"
)

// Reasons carried in the context of invalid_uri failures.
const (
	ReasonUnknownResource   = "unknown_resource"
	ReasonMalformedTemplate = "malformed_template"
	ReasonMissingCallID     = "missing_call_id"
)

type AddressKind int

const (
	AddressStatus AddressKind = iota + 1
	AddressUsers
	AddressTranscript
)

func (k AddressKind) String() string {
	switch k {
	case AddressStatus:
		return "status"
	case AddressUsers:
		return "users"
	case AddressTranscript:
		return "transcript"
	default:
		return "unknown"
	}
}

// Address is a parsed resource URI. CallID is set only for transcripts.
type Address struct {
	Kind   AddressKind
	CallID string
}

// ParseAddress routes a raw resource URI. Matching is exact and
// case-sensitive. The call id is returned as written between the
// literal prefix and suffix.
func ParseAddress(raw string) (Address, error) {
	switch raw {
	case StatusURI:
		return Address{Kind: AddressStatus}, nil
	case UsersURI:
		return Address{Kind: AddressUsers}, nil
	}

	if !strings.HasPrefix(raw, transcriptPrefix) {
		return Address{}, failure.InvalidURI(raw, ReasonUnknownResource, "Unknown resource: "+raw)
	}
	rest := strings.TrimPrefix(raw, transcriptPrefix)
	if !strings.HasSuffix(rest, transcriptSuffix) {
		return Address{}, failure.InvalidURI(raw, ReasonMalformedTemplate,
			"Transcript addresses must have the form "+TranscriptURITemplate)
	}
	id := strings.TrimSuffix(rest, transcriptSuffix)
	if strings.TrimSpace(id) == "" {
		return Address{}, failure.InvalidURI(raw, ReasonMissingCallID, "Call ID cannot be empty")
	}
	return Address{Kind: AddressTranscript, CallID: id}, nil
}

// TranscriptURI builds the address of a call's transcript.
func TranscriptURI(callID string) string {
	return transcriptPrefix + callID + transcriptSuffix
}
