package schema

// QuoteStyle identifies which quotation mark convention matched.
type QuoteStyle string

const (
	QuoteStyleDouble QuoteStyle = "double" // ASCII "..."
	QuoteStyleSmart  QuoteStyle = "smart"  // typographic “...”
	QuoteStyleSingle QuoteStyle = "single" // '...' (length-gated, see internal/quote)
)

// QuoteMatch is one detected span of dialogue.
type QuoteMatch struct {
	FullSpan  Span       `json:"full_span"`
	InnerText string     `json:"inner_text"`
	Start     int        `json:"start"`
	End       int        `json:"end"`
	Style     QuoteStyle `json:"style"`
}

// SpeakerMethod identifies which rule attributed a quote to a speaker.
type SpeakerMethod string

const (
	SpeakerMethodPattern    SpeakerMethod = "pattern"
	SpeakerMethodPronoun    SpeakerMethod = "pronoun"
	SpeakerMethodAdjacent   SpeakerMethod = "adjacent"
	SpeakerMethodTurnTaking SpeakerMethod = "turn-taking"
)

// SpeakerCandidate is a proposed speaker attribution for a QuoteMatch.
// EntityID is empty when the speaker could not be resolved to a known
// entity (e.g. an unresolved pronoun), in which case Name still records
// the surface form that was found.
type SpeakerCandidate struct {
	EntityID   string        `json:"entity_id,omitempty"`
	Name       string        `json:"name"`
	Start      int           `json:"start"`
	End        int           `json:"end"`
	Method     SpeakerMethod `json:"method"`
	Confidence float64       `json:"confidence"`
}
