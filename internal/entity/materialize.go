package entity

import (
	"sort"
	"strings"
	"time"

	"github.com/storygraph/corpus/internal/evidence"
	"github.com/storygraph/corpus/internal/pattern"
	"github.com/storygraph/corpus/internal/schema"
	"github.com/storygraph/corpus/internal/textnorm"
)

// mergeMaxDistance is the Levenshtein threshold for alias merging (spec
// §4.1 "Levenshtein distance ≤ 1").
const mergeMaxDistance = 1

// MergeAliases groups per-form signals into alias clusters: two forms
// merge iff they share the same entity type and are near-duplicates
// (substring or Levenshtein ≤1), per spec §4.1. On merge, the longer
// surface becomes canonical, signal scores take the component-wise max,
// and mention spans concatenate.
func MergeAliases(forms map[string]*evidence.Signals) []*evidence.Signals {
	keys := make([]string, 0, len(forms))
	for k := range forms {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	merged := make([]*evidence.Signals, 0, len(forms))
	consumed := make(map[string]bool, len(forms))

	for _, k := range keys {
		if consumed[k] {
			continue
		}
		base := forms[k]
		consumed[k] = true
		for _, other := range keys {
			if consumed[other] {
				continue
			}
			cand := forms[other]
			if cand.Type != base.Type {
				continue
			}
			if !textnorm.NearDuplicate(base.NormalizedForm, cand.NormalizedForm, mergeMaxDistance) {
				continue
			}
			base = mergeTwo(base, cand)
			consumed[other] = true
		}
		merged = append(merged, base)
	}
	return merged
}

func mergeTwo(a, b *evidence.Signals) *evidence.Signals {
	result := *a
	if len(b.BestSurface) > len(result.BestSurface) {
		result.BestSurface = b.BestSurface
		result.NormalizedForm = b.NormalizedForm
	}
	result.MentionCount = a.MentionCount + b.MentionCount
	result.NERScore = maxF(a.NERScore, b.NERScore)
	result.SyntaxScore = maxF(a.SyntaxScore, b.SyntaxScore)
	result.RoleScore = maxF(a.RoleScore, b.RoleScore)
	result.CorefScore = maxF(a.CorefScore, b.CorefScore)
	result.VocativeScore = maxF(a.VocativeScore, b.VocativeScore)
	result.Spans = append(append([]schema.EntitySpan{}, a.Spans...), b.Spans...)
	return &result
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// aliasSetFromSpans collects distinct surface forms (other than the
// canonical one) seen across a signal cluster's spans.
func aliasSetFromSpans(canonical string, spans []schema.EntitySpan) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range spans {
		if s.Surface == canonical || seen[s.Surface] {
			continue
		}
		seen[s.Surface] = true
		out = append(out, s.Surface)
	}
	return out
}

// SplitSignals implements spec §4.1's "two-first-names PERSON candidates
// whose second token is not a surname-shaped token are split into two
// entities instead of rejected" rule at the signal level, before
// Materialize ever runs the Quality Filter: a PERSON candidate whose best
// surface is two tokens, both recognized given names, is split into two
// single-token Signals clusters (one per name), each carrying the
// original cluster's scores so both halves promote independently. Returns
// ok=false when s isn't a splittable two-first-names candidate.
func SplitSignals(s *evidence.Signals) (first, second *evidence.Signals, ok bool) {
	if s.Type != schema.TypePerson {
		return nil, nil, false
	}
	a, b, split := SplitTwoFirstNames(s.BestSurface, CommonFirstNames)
	if !split {
		return nil, nil, false
	}
	return derivedSignal(s, a), derivedSignal(s, b), true
}

func derivedSignal(s *evidence.Signals, surface string) *evidence.Signals {
	return &evidence.Signals{
		NormalizedForm: strings.ToLower(surface),
		BestSurface:    surface,
		Type:           s.Type,
		MentionCount:   s.MentionCount,
		NERScore:       s.NERScore,
		SyntaxScore:    s.SyntaxScore,
		RoleScore:      s.RoleScore,
		CorefScore:     s.CorefScore,
		VocativeScore:  s.VocativeScore,
	}
}

// Materialize promotes a merged signal cluster into an Entity. Active
// learned patterns run first against the preliminary candidate (spec
// §4.6 "before the Quality Filter sees it"), so a pattern-corrected type
// or canonical form is what the Quality Filter and promotion scoring
// actually judge. A QualityDecision audit record is attached regardless
// of outcome (spec §4.1 "every rejection emits a QualityDecision record
// ... stored with the (rejected) entity"). Candidates at LevelReject are
// still materialized, tagged Rejected=true, per Entity invariant (v)
// ("never silently deleted").
func Materialize(s *evidence.Signals, patterns *pattern.Library, strictMode bool, now time.Time) *schema.Entity {
	confidence := evidence.CombinedScore(s)
	aliases := aliasSetFromSpans(s.BestSurface, s.Spans)
	e := schema.NewEntity(s.Type, s.BestSurface, aliases, schema.TierC, confidence, schema.GenderUnknown, schema.EntitySourcePromotion, now)
	e.MentionCount = s.MentionCount

	patternResult := pattern.Apply(patterns, e)

	level := evidence.Promote(s)
	rule, passed := Check(e.Canonical, e.Type, strictMode)

	// Tier must track confidence, not the promotion level directly
	// (Entity invariant (iii)): Promote's decision table can reach
	// "definite"/"likely" on strong individual signals (a subject of a
	// strong verb, say) while the weighted combined score still falls
	// short of that tier's confidence band. schema.TierForConfidence is
	// the single source of truth for the tier<->confidence mapping.
	e.Tier = schema.TierForConfidence(e.Confidence)
	// A HOUSE candidate stays at tier C unless a role word or title prefix
	// (a non-zero role score) corroborates it.
	if e.Type == schema.TypeHouse && s.RoleScore == 0 {
		e.Tier = schema.TierC
	}

	decision := &schema.QualityDecision{
		Passed: passed && level != evidence.LevelReject && !patternResult.Rejected,
		Rules:  []string{string(level)},
	}
	if !passed {
		decision.FailedRules = []string{string(rule)}
	}
	if level == evidence.LevelReject {
		decision.FailedRules = append(decision.FailedRules, "promotion_reject")
	}
	if patternResult.Rejected {
		decision.FailedRules = append(decision.FailedRules, "pattern_reject")
	}
	e.QualityDecision = decision
	if !decision.Passed {
		e.Rejected = true
	}
	return e
}
