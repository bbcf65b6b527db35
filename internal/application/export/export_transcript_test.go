package export_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	callapp "github.com/felixgeelhaar/gong-mcp/internal/application/call"
	"github.com/felixgeelhaar/gong-mcp/internal/application/export"
	"github.com/felixgeelhaar/gong-mcp/internal/application/flatten"
	domain "github.com/felixgeelhaar/gong-mcp/internal/domain/call"
	"github.com/felixgeelhaar/gong-mcp/internal/domain/failure"
)

type transcriptRepo struct {
	transcript *domain.Transcript
	err        error
}

func (r *transcriptRepo) ListUsers(_ context.Context) ([]domain.User, error) { return nil, nil }

func (r *transcriptRepo) GetTranscript(_ context.Context, _ string) (*domain.Transcript, error) {
	return r.transcript, r.err
}

func (r *transcriptRepo) SearchCalls(_ context.Context, _ domain.SearchFilters) (*domain.Page, error) {
	return nil, nil
}

func newExporter(repo domain.Repository) *export.ExportTranscript {
	return export.NewExportTranscript(callapp.NewGetTranscript(repo))
}

func sample() *domain.Transcript {
	return &domain.Transcript{
		CallID: "c-1",
		Monologues: []domain.Monologue{
			{SpeakerID: "s1", Topic: "Intro", Sentences: []domain.Sentence{{StartMs: 0, Text: "Hi all."}, {StartMs: 2000, Text: "Let's start."}}},
			{SpeakerID: "s2", Topic: "Intro", Sentences: []domain.Sentence{{StartMs: 65000, Text: "Sounds good."}}},
			{SpeakerID: "s1", Topic: "Pricing", Sentences: []domain.Sentence{{StartMs: 3723000, Text: "About pricing."}}},
		},
	}
}

func TestExportTranscript_Markdown(t *testing.T) {
	out, err := newExporter(&transcriptRepo{transcript: sample()}).Execute(context.Background(), export.ExportTranscriptInput{
		CallID: "c-1",
		Format: export.FormatMarkdown,
	})
	require.NoError(t, err)

	assert.Equal(t, export.FormatMarkdown, out.Format)
	assert.Contains(t, out.Content, "# Transcript c-1")
	assert.Contains(t, out.Content, "## Intro")
	assert.Contains(t, out.Content, "## Pricing")
	assert.Contains(t, out.Content, "**Speaker s2** [01:05]")
	assert.Contains(t, out.Content, "**Speaker s1** [1:02:03]")
}

func TestExportTranscript_Text(t *testing.T) {
	out, err := newExporter(&transcriptRepo{transcript: sample()}).Execute(context.Background(), export.ExportTranscriptInput{
		CallID: "c-1",
		Format: export.FormatText,
	})
	require.NoError(t, err)
	assert.Contains(t, out.Content, "[00:02] Speaker s1: Let's start.\n")
}

func TestExportTranscript_DefaultsToJSON(t *testing.T) {
	out, err := newExporter(&transcriptRepo{transcript: sample()}).Execute(context.Background(), export.ExportTranscriptInput{
		CallID: "c-1",
	})
	require.NoError(t, err)
	assert.Equal(t, export.FormatJSON, out.Format)

	var got flatten.Transcript
	require.NoError(t, json.Unmarshal([]byte(out.Content), &got))
	assert.Equal(t, 4, got.SentenceCount)
	assert.Equal(t, 3, got.MonologueCount)
}

func TestExportTranscript_UnsupportedFormat(t *testing.T) {
	_, err := newExporter(&transcriptRepo{transcript: sample()}).Execute(context.Background(), export.ExportTranscriptInput{
		CallID: "c-1",
		Format: "pdf",
	})
	assert.ErrorIs(t, err, export.ErrUnsupportedFormat)
}

func TestExportTranscript_PropagatesFailure(t *testing.T) {
	_, err := newExporter(&transcriptRepo{err: domain.ErrNotFound}).Execute(context.Background(), export.ExportTranscriptInput{
		CallID: "c-404",
	})
	assert.Equal(t, failure.KindResourceNotFound, failure.KindOf(err))
}
