package entity

import (
	"testing"
	"time"

	"github.com/storygraph/corpus/internal/evidence"
	"github.com/storygraph/corpus/internal/schema"
)

func TestMergeAliasesCombinesNearDuplicateSameTypeForms(t *testing.T) {
	forms := map[string]*evidence.Signals{
		"aldric": {NormalizedForm: "aldric", BestSurface: "Aldric", Type: schema.TypePerson, MentionCount: 2},
		"aldrik": {NormalizedForm: "aldrik", BestSurface: "Aldrik", Type: schema.TypePerson, MentionCount: 1},
	}
	merged := MergeAliases(forms)
	if len(merged) != 1 {
		t.Fatalf("expected one merged cluster, got %d: %+v", len(merged), merged)
	}
	if merged[0].MentionCount != 3 {
		t.Errorf("expected merged mention count 3, got %d", merged[0].MentionCount)
	}
}

func TestMergeAliasesKeepsDifferentTypesSeparate(t *testing.T) {
	forms := map[string]*evidence.Signals{
		"arden": {NormalizedForm: "arden", BestSurface: "Arden", Type: schema.TypePlace, MentionCount: 1},
		"ardon": {NormalizedForm: "ardon", BestSurface: "Ardon", Type: schema.TypePerson, MentionCount: 1},
	}
	merged := MergeAliases(forms)
	if len(merged) != 2 {
		t.Fatalf("expected types to stay unmerged, got %d clusters", len(merged))
	}
}

func TestMaterializeAcceptedEntityIsNotRejected(t *testing.T) {
	s := &evidence.Signals{
		NormalizedForm: "aldric",
		BestSurface:    "Aldric",
		Type:           schema.TypePerson,
		MentionCount:   3,
		NERScore:       1,
		SyntaxScore:    1,
		RoleScore:      1,
	}
	e := Materialize(s, nil, false, time.Now())
	if e.Rejected {
		t.Errorf("expected a strongly-evidenced entity to be accepted, got %+v", e.QualityDecision)
	}
	if e.Canonical != "Aldric" {
		t.Errorf("expected canonical 'Aldric', got %q", e.Canonical)
	}
}

// TestMaterializeTierMatchesConfidenceBandEvenAtDefiniteLevel covers
// Entity invariant (iii): a signal cluster can reach promotion level
// "definite" purely via the syntax>=0.4 && ner>=0.3 shortcut in the
// decision table while its weighted combined score stays well under
// tier A's 0.75 floor. Tier must follow the confidence band, not the
// promotion level, in that case.
func TestMaterializeTierMatchesConfidenceBandEvenAtDefiniteLevel(t *testing.T) {
	s := &evidence.Signals{
		NormalizedForm: "aldric",
		BestSurface:    "Aldric",
		Type:           schema.TypePerson,
		MentionCount:   1,
		NERScore:       0.3,
		SyntaxScore:    0.4,
	}
	e := Materialize(s, nil, false, time.Now())
	if e.Confidence >= 0.55 {
		t.Fatalf("test setup expected a low combined score, got %v", e.Confidence)
	}
	if e.Tier != schema.TierC {
		t.Errorf("tier = %s with confidence %v, want C (invariant (iii) requires tier<->confidence consistency)", e.Tier, e.Confidence)
	}
}

func TestMaterializeWeakEvidenceIsRejectedNotDropped(t *testing.T) {
	s := &evidence.Signals{
		NormalizedForm: "it",
		BestSurface:    "it",
		Type:           schema.TypeUnknown,
		MentionCount:   1,
	}
	e := Materialize(s, nil, false, time.Now())
	if !e.Rejected {
		t.Error("expected weak-evidence candidate to be rejected")
	}
	if e.ID == "" {
		t.Error("rejected entities must still be materialized with an id, never silently dropped")
	}
}
