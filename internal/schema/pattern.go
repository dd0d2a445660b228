package schema

import "time"

// PatternAction is what a LearnedPattern does when it matches: set a
// type, adjust confidence, or reject the candidate outright. Exactly one
// of these should be non-zero per spec §4.6.
type PatternAction struct {
	SetType       EntityType `json:"set_type,omitempty"`
	SetConfidence float64    `json:"set_confidence,omitempty"`
	Reject        bool       `json:"reject,omitempty"`

	// RewriteCanonical marks a canonical_change pattern: TextPattern is
	// matched against the candidate's canonical form and, on match, the
	// canonical is rewritten to the first capture group.
	RewriteCanonical bool `json:"rewrite_canonical,omitempty"`
}

// PatternStats tracks how a learned pattern has performed since it was
// mined, used for confidence decay/boost (spec §4.6).
type PatternStats struct {
	Applied     int        `json:"applied"`
	Validated   int        `json:"validated"`
	Rejected    int        `json:"rejected"`
	LastApplied *time.Time `json:"last_applied,omitempty"`
}

// LearnedPattern is a rule mined from one or more corrections, applied to
// future documents before the Quality Filter runs (spec §4.6).
type LearnedPattern struct {
	ID                string        `json:"id"`
	Type              PatternType   `json:"type"`
	TextPattern       string        `json:"text_pattern"`
	Condition         string        `json:"condition,omitempty"`
	Action            PatternAction `json:"action"`
	Stats             PatternStats  `json:"stats"`
	SourceCorrections []string      `json:"source_corrections"`
	Active            bool          `json:"active"`
	Confidence        float64       `json:"confidence"`
}

// Signature is the dedup key for learned patterns: patterns with an
// identical (type, text pattern, condition) are merged rather than
// duplicated (spec §4.6).
func (p *LearnedPattern) Signature() string {
	return string(p.Type) + "\x00" + p.TextPattern + "\x00" + p.Condition
}
