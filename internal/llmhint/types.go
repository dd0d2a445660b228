// Package llmhint accepts extraction output an external LLM-assisted step
// already produced and converts it into the core's RawRelation shape, so it
// flows through internal/relate's ordinary type-guard/dedup path tagged
// source=LLM_HINT — never specially privileged (SPEC_FULL §4.7).
package llmhint

// ExtractedEntity is the wire shape an upstream LLM-hint generator must
// produce for one entity mention.
type ExtractedEntity struct {
	Label      string   `json:"label"`
	Kind       string   `json:"kind"`
	Aliases    []string `json:"aliases,omitempty"`
	Confidence float64  `json:"confidence"`
}

// ExtractedRelation is the wire shape an upstream LLM-hint generator must
// produce for one relation.
type ExtractedRelation struct {
	Subject        string  `json:"subject"`
	SubjectKind    string  `json:"subjectKind,omitempty"`
	Object         string  `json:"object"`
	ObjectKind     string  `json:"objectKind,omitempty"`
	Verb           string  `json:"verb"`
	RelationType   string  `json:"relationType"`
	Manner         string  `json:"manner,omitempty"`
	Location       string  `json:"location,omitempty"`
	Time           string  `json:"time,omitempty"`
	Recipient      string  `json:"recipient,omitempty"`
	Confidence     float64 `json:"confidence"`
	SourceSentence string  `json:"sourceSentence"`
}

// ExtractionResult is the unified response shape parsed from one hint
// generation call.
type ExtractionResult struct {
	Entities  []ExtractedEntity   `json:"entities"`
	Relations []ExtractedRelation `json:"relations"`
}
