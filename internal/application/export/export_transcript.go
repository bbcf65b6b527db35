package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	callapp "github.com/felixgeelhaar/gong-mcp/internal/application/call"
	"github.com/felixgeelhaar/gong-mcp/internal/application/flatten"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
)

type ExportTranscriptInput struct {
	CallID string
	Format Format
}

type ExportTranscriptOutput struct {
	Content string
	Format  Format
}

// ExportTranscript renders a flattened transcript for humans.
type ExportTranscript struct {
	getTranscript *callapp.GetTranscript
}

func NewExportTranscript(getTranscript *callapp.GetTranscript) *ExportTranscript {
	return &ExportTranscript{getTranscript: getTranscript}
}

func (uc *ExportTranscript) Execute(ctx context.Context, input ExportTranscriptInput) (*ExportTranscriptOutput, error) {
	f := input.Format
	if f == "" {
		f = FormatJSON
	}
	if f != FormatJSON && f != FormatMarkdown && f != FormatText {
		return nil, ErrUnsupportedFormat
	}

	out, err := uc.getTranscript.Execute(ctx, callapp.GetTranscriptInput{CallID: input.CallID})
	if err != nil {
		return nil, err
	}

	var content string
	switch f {
	case FormatMarkdown:
		content = formatMarkdown(out.Transcript)
	case FormatText:
		content = formatText(out.Transcript)
	default:
		data, err := json.MarshalIndent(out.Transcript, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding transcript: %w", err)
		}
		content = string(data) + "\n"
	}

	return &ExportTranscriptOutput{Content: content, Format: f}, nil
}

func formatMarkdown(t flatten.Transcript) string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "# Transcript %s\n\n", t.CallID)
	_, _ = fmt.Fprintf(&b, "**Speakers:** %d · **Monologues:** %d · **Sentences:** %d\n\n",
		t.SpeakerCount, t.MonologueCount, t.SentenceCount)

	topic := ""
	for i, s := range t.Sentences {
		if s.Topic != "" && s.Topic != topic {
			topic = s.Topic
			_, _ = fmt.Fprintf(&b, "## %s\n\n", topic)
		}
		if i == 0 || t.Sentences[i-1].SpeakerID != s.SpeakerID {
			_, _ = fmt.Fprintf(&b, "\n**%s** [%s]\n", speakerLabel(s.SpeakerID), timestamp(s.StartMs))
		}
		_, _ = fmt.Fprintf(&b, "%s\n", s.Text)
	}
	return b.String()
}

func formatText(t flatten.Transcript) string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "Call %s\n", t.CallID)
	for _, s := range t.Sentences {
		_, _ = fmt.Fprintf(&b, "[%s] %s: %s\n", timestamp(s.StartMs), speakerLabel(s.SpeakerID), s.Text)
	}
	return b.String()
}

func speakerLabel(id string) string {
	if id == "" {
		return "Unknown speaker"
	}
	return "Speaker " + id
}

// timestamp renders a millisecond offset as h:mm:ss or mm:ss.
func timestamp(ms int64) string {
	total := ms / 1000
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
