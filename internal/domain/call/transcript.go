package call

// Transcript is the backend's nested transcript for one call: a sequence
// of monologues, each a speaker's run of sentences.
type Transcript struct {
	CallID     string
	Monologues []Monologue
}

type Monologue struct {
	SpeakerID string
	Topic     string
	Sentences []Sentence
}

// Sentence offsets are milliseconds from the start of the call.
type Sentence struct {
	StartMs int64
	EndMs   int64
	Text    string
}
