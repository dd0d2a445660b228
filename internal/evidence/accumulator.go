// Package evidence implements the Evidence Accumulator: it collects
// per-mention signals for each normalized surface form across a document
// and decides whether, and at what tier, a mention should be promoted to
// an entity.
package evidence

import (
	"strings"

	"github.com/storygraph/corpus/internal/schema"
)

// strongAgentiveVerbs are lemmas that strongly imply their subject is an
// agent (person/org/creature), boosting syntax_score.
var strongAgentiveVerbs = map[string]bool{
	"say": true, "said": true, "ask": true, "tell": true, "order": true,
	"command": true, "lead": true, "rule": true, "fight": true, "kill": true,
	"marry": true, "betray": true, "promise": true, "threaten": true,
	"attack": true, "defend": true, "travel": true, "decide": true,
	"believe": true, "think": true, "know": true, "want": true,
}

// roleWords is the curated set boosting role_score when a mention is
// preceded by a kinship/occupation/title role noun.
var roleWords = map[string]bool{
	"father": true, "mother": true, "son": true, "daughter": true,
	"brother": true, "sister": true, "uncle": true, "aunt": true,
	"doctor": true, "king": true, "queen": true, "prince": true,
	"princess": true, "lord": true, "lady": true, "captain": true,
	"general": true, "knight": true, "senator": true, "president": true,
	"commander": true, "chief": true, "priest": true, "wizard": true,
}

// Signals is the accumulated signal vector for one normalized surface
// form, per spec §4.1.
type Signals struct {
	NormalizedForm string
	MentionCount   int
	NERScore       float64
	SyntaxScore    float64
	RoleScore      float64
	CorefScore     float64
	VocativeScore  float64

	// BestSurface is the longest surface form seen, used as the initial
	// canonical candidate before alias merging (internal/entity).
	BestSurface string

	// Type is the best NER-label-derived entity type seen for this form.
	Type schema.EntityType

	Spans []schema.EntitySpan
}

func saturate(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}

// Accumulator aggregates per-surface signals across a single document. It
// is not safe for concurrent use; each document gets its own instance
// (spec §5 per-document arena model).
type Accumulator struct {
	forms map[string]*Signals
}

// New returns an empty Accumulator.
func New() *Accumulator {
	return &Accumulator{forms: map[string]*Signals{}}
}

// normalize lowercases and trims a surface form, per spec §4.1 "Signals
// aggregated per normalized form (lowercased, trimmed)".
func normalize(surface string) string {
	return strings.ToLower(strings.TrimSpace(surface))
}

// Observe folds one mention's context into the accumulator, per the
// scoring rules of spec §4.1.
func (a *Accumulator) Observe(ctx schema.MentionContext, nerType schema.EntityType) {
	surface := ctx.Token.Text
	key := normalize(surface)
	if key == "" {
		return
	}

	s, ok := a.forms[key]
	if !ok {
		s = &Signals{NormalizedForm: key, BestSurface: surface, Type: schema.TypeUnknown}
		a.forms[key] = s
	}
	s.MentionCount++
	if len(surface) > len(s.BestSurface) {
		s.BestSurface = surface
	}
	if nerType != schema.TypeUnknown && s.Type == schema.TypeUnknown {
		s.Type = nerType
	}

	if nerType != schema.TypeUnknown {
		s.NERScore = saturate(s.NERScore + 0.3)
	}

	if ctx.IsVerbSubject {
		if strongAgentiveVerbs[ctx.VerbLemma] {
			s.SyntaxScore = saturate(s.SyntaxScore + 0.4)
		} else {
			s.SyntaxScore = saturate(s.SyntaxScore + 0.2)
		}
	} else if ctx.IsVerbObject {
		s.SyntaxScore = saturate(s.SyntaxScore + 0.15)
	}

	if ctx.HasTitle {
		s.RoleScore = saturate(s.RoleScore + 0.4)
	} else if roleWords[strings.ToLower(ctx.Title)] {
		s.RoleScore = saturate(s.RoleScore + 0.35)
	}

	if ctx.CorefLinksCount > 0 {
		s.CorefScore = saturate(s.CorefScore + 0.1*float64(ctx.CorefLinksCount))
	}

	if ctx.IsVocative {
		s.VocativeScore = saturate(s.VocativeScore + 0.3)
	}

	s.Spans = append(s.Spans, schema.EntitySpan{
		Start:         ctx.Token.Start,
		End:           ctx.Token.End,
		Surface:       surface,
		SentenceIndex: ctx.SentenceIndex,
	})
}

// CombinedScore computes spec §4.1's weighted combination plus the
// mention-count bonus, capped at 1.
func CombinedScore(s *Signals) float64 {
	score := 0.20*s.NERScore + 0.35*s.SyntaxScore + 0.20*s.RoleScore +
		0.15*s.CorefScore + 0.10*s.VocativeScore
	if s.MentionCount >= 3 {
		score += 0.20
	} else if s.MentionCount >= 2 {
		score += 0.10
	}
	return saturate(score)
}

// PromotionLevel is the tier-selecting outcome of the promotion decision
// table (spec §4.1).
type PromotionLevel string

const (
	LevelDefinite PromotionLevel = "definite"
	LevelLikely   PromotionLevel = "likely"
	LevelPossible PromotionLevel = "possible"
	LevelReject   PromotionLevel = "reject"
)

// Promote applies spec §4.1's promotion decision table (first match
// wins) to s's accumulated signals.
func Promote(s *Signals) PromotionLevel {
	score := CombinedScore(s)
	switch {
	case score >= 0.50,
		s.SyntaxScore >= 0.4 && s.NERScore >= 0.3,
		s.MentionCount >= 3 && s.NERScore >= 0.3:
		return LevelDefinite
	case score >= 0.30,
		s.MentionCount >= 2,
		s.NERScore >= 0.3 && s.RoleScore >= 0.2:
		return LevelLikely
	case s.NERScore >= 0.2:
		return LevelPossible
	default:
		return LevelReject
	}
}

// TierFor maps a promotion level to an entity tier (spec §4.1 "Tier
// mapping"). LevelReject has no corresponding tier; callers must check
// Promote's result before calling TierFor.
func TierFor(level PromotionLevel) schema.Tier {
	switch level {
	case LevelDefinite:
		return schema.TierA
	case LevelLikely:
		return schema.TierB
	default:
		return schema.TierC
	}
}

// Forms returns all accumulated per-surface signals, keyed by normalized
// form.
func (a *Accumulator) Forms() map[string]*Signals {
	return a.forms
}
