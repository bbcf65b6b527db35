package flatten

import "github.com/felixgeelhaar/gong-mcp/internal/domain/call"

type Transcript struct {
	CallID         string     `json:"callId"`
	Sentences      []Sentence `json:"sentences"`
	SpeakerCount   int        `json:"speakerCount"`
	SentenceCount  int        `json:"sentenceCount"`
	MonologueCount int        `json:"monologueCount"`
}

type Sentence struct {
	SpeakerID string `json:"speakerId"`
	Topic     string `json:"topic,omitempty"`
	Text      string `json:"text"`
	StartMs   int64  `json:"startMs"`
	EndMs     int64  `json:"endMs"`
}

// TranscriptOf walks monologues in order and emits one sentence record
// per backend sentence, tagged with its speaker and topic. Both counts
// are derived from the flat sequence: speakerCount is the number of
// distinct speaker ids, monologueCount the number of maximal runs of
// consecutive sentences sharing a speaker id.
func TranscriptOf(t call.Transcript) Transcript {
	sentences := make([]Sentence, 0)
	for _, mono := range t.Monologues {
		for _, s := range mono.Sentences {
			sentences = append(sentences, Sentence{
				SpeakerID: mono.SpeakerID,
				Topic:     mono.Topic,
				Text:      s.Text,
				StartMs:   s.StartMs,
				EndMs:     s.EndMs,
			})
		}
	}

	return Transcript{
		CallID:         t.CallID,
		Sentences:      sentences,
		SpeakerCount:   countSpeakers(sentences),
		SentenceCount:  len(sentences),
		MonologueCount: countRuns(sentences),
	}
}

func countSpeakers(sentences []Sentence) int {
	seen := make(map[string]struct{})
	for _, s := range sentences {
		seen[s.SpeakerID] = struct{}{}
	}
	return len(seen)
}

func countRuns(sentences []Sentence) int {
	runs := 0
	for i, s := range sentences {
		if i == 0 || sentences[i-1].SpeakerID != s.SpeakerID {
			runs++
		}
	}
	return runs
}
