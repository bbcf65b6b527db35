package call

import (
	"context"
	"errors"
	"strings"

	"github.com/felixgeelhaar/gong-mcp/internal/application/flatten"
	domain "github.com/felixgeelhaar/gong-mcp/internal/domain/call"
	"github.com/felixgeelhaar/gong-mcp/internal/domain/failure"
)

type GetTranscriptInput struct {
	CallID string
}

type GetTranscriptOutput struct {
	Transcript flatten.Transcript
}

type GetTranscript struct {
	repo domain.Repository
}

func NewGetTranscript(repo domain.Repository) *GetTranscript {
	return &GetTranscript{repo: repo}
}

func (uc *GetTranscript) Execute(ctx context.Context, input GetTranscriptInput) (*GetTranscriptOutput, error) {
	if uc.repo == nil {
		return nil, failure.NotConfigured()
	}

	callID := strings.TrimSpace(input.CallID)
	if callID == "" {
		return nil, failure.InvalidParams("call_id", input.CallID, "call id cannot be empty")
	}

	transcript, err := uc.repo.GetTranscript(ctx, callID)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && transcript == nil) {
		return nil, failure.ResourceNotFound("No transcript found for this call", map[string]any{
			"callId": callID,
		})
	}
	if err != nil {
		return nil, domain.Failure(err, map[string]any{
			"operation": "get_transcript",
			"callId":    callID,
		})
	}

	return &GetTranscriptOutput{Transcript: flatten.TranscriptOf(*transcript)}, nil
}
