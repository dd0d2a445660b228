package schema

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"
)

// Entity is a node in the extraction graph: a person, place, organization,
// or other recognized thing, identified by a deterministic id derived from
// its type and normalized canonical form.
type Entity struct {
	ID              string         `json:"id"`
	Type            EntityType     `json:"type"`
	Canonical       string         `json:"canonical"`
	Aliases         []string       `json:"aliases"`
	Tier            Tier           `json:"tier"`
	Confidence      float64        `json:"confidence"`
	Gender          Gender         `json:"gender"`
	Attrs           map[string]any `json:"attrs,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	QualityDecision *QualityDecision `json:"quality_decision,omitempty"`
	ManualOverride  bool           `json:"manual_override,omitempty"`
	Rejected        bool           `json:"rejected,omitempty"`

	// Source and MentionCount are supplemented fields (SPEC_FULL §3) not
	// present in the distilled spec; Source records which subsystem
	// produced the entity, MentionCount is a derived cache kept in sync by
	// the pipeline, never authoritative.
	Source       EntitySource `json:"source,omitempty"`
	MentionCount int          `json:"mention_count"`
}

// EntitySource records which subsystem produced an entity.
type EntitySource string

const (
	EntitySourceDictionary EntitySource = "dictionary"
	EntitySourcePromotion  EntitySource = "promotion"
	EntitySourceLLMHint    EntitySource = "llm_hint"
	EntitySourceManual     EntitySource = "manual"
)

// QualityDecision is the audit record attached to an entity by the Quality
// Filter (spec §4.1), whether it passed, was demoted, or rejected.
type QualityDecision struct {
	Passed      bool     `json:"passed"`
	Rules       []string `json:"rules"`
	FailedRules []string `json:"failed_rules,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

// TierForConfidence derives the tier implied by a confidence value, per
// Entity invariant (iii): tier=A requires confidence>=0.75, tier=B requires
// [0.55,0.75), tier=C is everything below.
func TierForConfidence(confidence float64) Tier {
	switch {
	case confidence >= 0.75:
		return TierA
	case confidence >= 0.55:
		return TierB
	default:
		return TierC
	}
}

// NormalizeCanonical lowercases and collapses whitespace in a canonical
// form for id derivation. It does not strip punctuation: "St. John" and
// "St John" are intentionally distinct canonical forms.
func NormalizeCanonical(canonical string) string {
	fields := strings.Fields(strings.ToLower(canonical))
	return strings.Join(fields, " ")
}

// EntityID derives the deterministic id for an entity: a pure function of
// (type, normalized canonical), per Entity invariant (iv). The id is
// opaque — callers must not parse it.
func EntityID(t EntityType, canonical string) string {
	norm := NormalizeCanonical(canonical)
	sum := sha1.Sum([]byte(string(t) + "\x00" + norm))
	return string(t) + "_" + hex.EncodeToString(sum[:])[:16]
}

// pronouns and deictics are never valid aliases (Entity invariant (ii)).
var pronounsAndDeictics = map[string]bool{
	"he": true, "him": true, "his": true, "himself": true,
	"she": true, "her": true, "hers": true, "herself": true,
	"it": true, "its": true, "itself": true,
	"they": true, "them": true, "their": true, "theirs": true, "themselves": true,
	"this": true, "that": true, "these": true, "those": true,
	"i": true, "me": true, "my": true, "mine": true, "myself": true,
	"you": true, "your": true, "yours": true, "yourself": true,
	"we": true, "us": true, "our": true, "ours": true, "ourselves": true,
	"who": true, "whom": true, "whose": true, "here": true, "there": true,
}

// IsPronounOrDeictic reports whether s (case-insensitively) is a pronoun
// or deictic term and therefore ineligible as an alias.
func IsPronounOrDeictic(s string) bool {
	return pronounsAndDeictics[strings.ToLower(strings.TrimSpace(s))]
}

// NewEntity constructs an Entity with its id derived and aliases filtered
// of the canonical form and of pronouns/deictics, enforcing invariants
// (i) and (ii) at construction time rather than trusting callers.
func NewEntity(t EntityType, canonical string, aliases []string, tier Tier, confidence float64, gender Gender, source EntitySource, now time.Time) *Entity {
	id := EntityID(t, canonical)
	cleaned := make([]string, 0, len(aliases))
	seen := map[string]bool{NormalizeCanonical(canonical): true}
	for _, a := range aliases {
		if IsPronounOrDeictic(a) {
			continue
		}
		norm := NormalizeCanonical(a)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		cleaned = append(cleaned, a)
	}
	return &Entity{
		ID:         id,
		Type:       t,
		Canonical:  canonical,
		Aliases:    cleaned,
		Tier:       tier,
		Confidence: confidence,
		Gender:     gender,
		Attrs:      map[string]any{},
		CreatedAt:  now,
		Source:     source,
	}
}
