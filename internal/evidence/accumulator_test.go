package evidence

import (
	"testing"

	"github.com/storygraph/corpus/internal/schema"
)

func mention(text string, isSubj bool, verbLemma string) schema.MentionContext {
	return schema.MentionContext{
		Token:         schema.Token{Text: text, Start: 0, End: len(text)},
		IsVerbSubject: isSubj,
		VerbLemma:     verbLemma,
	}
}

func TestObserveAccumulatesPerNormalizedForm(t *testing.T) {
	a := New()
	a.Observe(mention("Aldric", true, "said"), schema.TypePerson)
	a.Observe(mention("aldric", true, "said"), schema.TypePerson)

	forms := a.Forms()
	if len(forms) != 1 {
		t.Fatalf("expected one normalized form, got %d", len(forms))
	}
	s := forms["aldric"]
	if s.MentionCount != 2 {
		t.Errorf("expected mention count 2, got %d", s.MentionCount)
	}
	if s.BestSurface != "Aldric" {
		t.Errorf("expected best surface 'Aldric', got %q", s.BestSurface)
	}
}

func TestObserveStrongAgentiveVerbBoostsSyntaxMoreThanWeak(t *testing.T) {
	strong := New()
	strong.Observe(mention("Aldric", true, "said"), schema.TypeUnknown)

	weak := New()
	weak.Observe(mention("Aldric", true, "walked"), schema.TypeUnknown)

	if strong.Forms()["aldric"].SyntaxScore <= weak.Forms()["aldric"].SyntaxScore {
		t.Errorf("expected strong agentive verb to boost syntax score more than a weak one")
	}
}

func TestCombinedScoreAddsMentionCountBonus(t *testing.T) {
	base := &Signals{NERScore: 0.3}
	twoMentions := &Signals{NERScore: 0.3, MentionCount: 2}
	threeMentions := &Signals{NERScore: 0.3, MentionCount: 3}

	if CombinedScore(twoMentions) <= CombinedScore(base) {
		t.Error("expected 2-mention bonus to raise combined score")
	}
	if CombinedScore(threeMentions) <= CombinedScore(twoMentions) {
		t.Error("expected 3-mention bonus to raise combined score further")
	}
}

func TestPromoteDecisionTable(t *testing.T) {
	tests := []struct {
		name string
		s    *Signals
		want PromotionLevel
	}{
		{"high combined score", &Signals{NERScore: 1, SyntaxScore: 1, RoleScore: 1}, LevelDefinite},
		{"strong syntax+ner without full score", &Signals{SyntaxScore: 0.4, NERScore: 0.3}, LevelDefinite},
		{"repeated mention with ner", &Signals{MentionCount: 3, NERScore: 0.3}, LevelDefinite},
		{"two mentions only", &Signals{MentionCount: 2}, LevelLikely},
		{"weak ner alone", &Signals{NERScore: 0.2}, LevelPossible},
		{"nothing", &Signals{}, LevelReject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Promote(tt.s); got != tt.want {
				t.Errorf("Promote(%+v) = %v, want %v", tt.s, got, tt.want)
			}
		})
	}
}

func TestTierForMapping(t *testing.T) {
	if TierFor(LevelDefinite) != schema.TierA {
		t.Error("expected LevelDefinite to map to TierA")
	}
	if TierFor(LevelLikely) != schema.TierB {
		t.Error("expected LevelLikely to map to TierB")
	}
	if TierFor(LevelPossible) != schema.TierC {
		t.Error("expected LevelPossible to map to TierC")
	}
}
