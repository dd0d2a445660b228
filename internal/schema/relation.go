package schema

import "strings"

// EvidenceSpan is one textual grounding for a Relation: the document,
// character span, sentence, and which source produced it.
type EvidenceSpan struct {
	DocID         string         `json:"doc_id"`
	Span          Span           `json:"span"`
	SentenceIndex int            `json:"sentence_index"`
	Source        EvidenceSource `json:"source"`
}

// Span is a character range with its covered text.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Qualifiers are optional modifiers attached to a Relation: time, place,
// the reporting source (e.g. for hearsay), and manner.
type Qualifiers struct {
	Time   string `json:"time,omitempty"`
	Place  string `json:"place,omitempty"`
	Source string `json:"source,omitempty"`
	Manner string `json:"manner,omitempty"`
}

// Relation is an edge in the extraction graph: subj --pred--> obj, with
// evidence grounding it in the source text.
type Relation struct {
	ID         string         `json:"id"`
	Subj       string         `json:"subj"`
	Pred       Predicate      `json:"pred"`
	Obj        string         `json:"obj"`
	Evidence   []EvidenceSpan `json:"evidence"`
	Confidence float64        `json:"confidence"`
	Extractor  Extractor      `json:"extractor"`
	Qualifiers *Qualifiers    `json:"qualifiers,omitempty"`
	SubjSurface string        `json:"subj_surface,omitempty"`
	ObjSurface  string        `json:"obj_surface,omitempty"`

	// Negated is a supplemented field (SPEC_FULL §3): set when a
	// negation-family surface pattern matched (e.g. "X did not marry Y"),
	// kept distinct from the negation predicate family itself so
	// downstream consumers can filter negated facts without a family
	// lookup.
	Negated bool `json:"negated,omitempty"`

	Attrs map[string]string `json:"attrs,omitempty"`
}

// CanonicalKey computes the dedup/equality key for a relation: subject id,
// predicate, and object id joined with a separator that cannot appear in
// an entity id or predicate name, per Relation invariant (iii). Symmetric
// predicates are NOT normalized here — direction is always preserved
// (invariant (iv)); callers needing symmetric-aware lookups must check
// both orderings explicitly via IsSymmetric.
func CanonicalKey(subj string, pred Predicate, obj string) string {
	var b strings.Builder
	b.WriteString(subj)
	b.WriteRune('‖') // U+2016 DOUBLE VERTICAL LINE, disjoint from id/pred alphabets
	b.WriteString(string(pred))
	b.WriteRune('‖')
	b.WriteString(obj)
	return b.String()
}

// Key returns r's canonical key.
func (r *Relation) Key() string {
	return CanonicalKey(r.Subj, r.Pred, r.Obj)
}

// HasEvidence reports whether r carries at least one evidence span, as
// required by Relation invariant (ii) for all but manually added
// relations.
func (r *Relation) HasEvidence() bool {
	return len(r.Evidence) > 0
}
