// Package relate assembles raw relation candidates from upstream
// extractors into the deduped, type-guarded, canonical relation set (spec
// §4.4).
package relate

import (
	"sort"
	"strconv"
	"strings"

	"github.com/storygraph/corpus/internal/schema"
)

// RawRelation is an unnormalized relation proposal from an upstream
// extractor (dependency parse, regex pattern, dialogue/action/family
// heuristic, or an LLM hint converted by internal/llmhint).
type RawRelation struct {
	SubjID      string
	SubjType    schema.EntityType
	SubjSurface string
	PredRaw     string
	ObjID       string
	ObjType     schema.EntityType
	ObjSurface  string
	Evidence    schema.EvidenceSpan
	Confidence  float64
	Extractor   schema.Extractor
	Qualifiers  *schema.Qualifiers
	Negated     bool
}

// ViolationKind identifies why a raw relation was dropped.
type ViolationKind string

const (
	ViolationEmptyPredicate  ViolationKind = "empty_predicate"
	ViolationMissingEntity   ViolationKind = "missing_entity"
	ViolationTypeConstraint  ViolationKind = "type_constraint"
	ViolationUnknownPred     ViolationKind = "unknown_predicate"
)

// Violation records a dropped raw relation for Stats.TypeGuardViolations
// and audit purposes.
type Violation struct {
	Kind ViolationKind
	Raw  RawRelation
}

// canonicalNameFunc resolves an entity id to its canonical display form,
// lowercased, for canonical-key computation (spec §4.4).
type canonicalNameFunc func(entityID string) string

// Normalize implements spec §4.4 end to end: predicate canonicalization,
// type-guard enforcement, canonical-key dedup, and extractor-priority
// merge. It never panics or aborts on malformed input — bad relations are
// dropped and returned as violations.
func Normalize(raws []RawRelation, canonicalName canonicalNameFunc) ([]*schema.Relation, []Violation) {
	groups := map[string][]*schema.Relation{}
	var order []string
	var violations []Violation

	for _, raw := range raws {
		if raw.PredRaw == "" || raw.SubjID == "" || raw.ObjID == "" {
			kind := ViolationEmptyPredicate
			if raw.SubjID == "" || raw.ObjID == "" {
				kind = ViolationMissingEntity
			}
			violations = append(violations, Violation{Kind: kind, Raw: raw})
			continue
		}

		pred, ok := schema.CanonicalPredicate(raw.PredRaw)
		if !ok {
			violations = append(violations, Violation{Kind: ViolationUnknownPred, Raw: raw})
			continue
		}

		if !schema.CheckTypeGuard(pred, raw.SubjType, raw.ObjType) {
			violations = append(violations, Violation{Kind: ViolationTypeConstraint, Raw: raw})
			continue
		}

		key := schema.CanonicalKey(
			strings.ToLower(canonicalName(raw.SubjID)),
			pred,
			strings.ToLower(canonicalName(raw.ObjID)),
		)

		rel := &schema.Relation{
			ID:          key,
			Subj:        raw.SubjID,
			Pred:        pred,
			Obj:         raw.ObjID,
			Evidence:    []schema.EvidenceSpan{raw.Evidence},
			Confidence:  raw.Confidence,
			Extractor:   raw.Extractor,
			Qualifiers:  raw.Qualifiers,
			SubjSurface: raw.SubjSurface,
			ObjSurface:  raw.ObjSurface,
			Negated:     raw.Negated,
		}
		if inv, ok := schema.InverseOf(pred); ok {
			rel.Attrs = map[string]string{"inverse_of": string(inv)}
		}

		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], rel)
	}

	result := make([]*schema.Relation, 0, len(order))
	for _, key := range order {
		result = append(result, mergeGroup(groups[key]))
	}
	return result, violations
}

// mergeGroup collapses relations sharing a canonical key into one
// representative per spec §4.4's merge semantics: max confidence,
// deduplicated evidence union, extractor by priority.
func mergeGroup(group []*schema.Relation) *schema.Relation {
	rep := group[0]
	seenEvidence := map[string]bool{}
	var evidence []schema.EvidenceSpan

	best := rep
	for _, r := range group {
		if r.Confidence > best.Confidence {
			best = r
		}
		if r.Extractor.Priority() > rep.Extractor.Priority() {
			rep = r
		}
	}

	for _, r := range group {
		for _, e := range r.Evidence {
			evKey := e.DocID + ":" + strconv.Itoa(e.Span.Start) + "-" + strconv.Itoa(e.Span.End)
			if seenEvidence[evKey] {
				continue
			}
			seenEvidence[evKey] = true
			evidence = append(evidence, e)
		}
	}

	merged := *rep
	merged.Confidence = best.Confidence
	merged.Evidence = evidence
	return &merged
}

// SortedByKey returns relations sorted by canonical key for deterministic
// output ordering.
func SortedByKey(relations []*schema.Relation) []*schema.Relation {
	out := make([]*schema.Relation, len(relations))
	copy(out, relations)
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}
