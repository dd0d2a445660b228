package override

import (
	"testing"
	"time"

	"github.com/storygraph/corpus/internal/schema"
)

func newGraph() *Graph {
	return &Graph{
		Entities: map[string]*schema.Entity{
			"p1": {ID: "p1", Type: schema.TypePerson, Canonical: "Eddard Stark", Aliases: []string{"Ned"}},
			"p2": {ID: "p2", Type: schema.TypePerson, Canonical: "Robert Baratheon"},
		},
		Relations: map[string]*schema.Relation{},
	}
}

func at(sec int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, sec, 0, time.UTC)
}

func TestReplayEntityTypeChangesType(t *testing.T) {
	g := newGraph()
	conflicts := Replay(g, []schema.Correction{
		{ID: "c1", Type: schema.CorrectionEntityType, Timestamp: at(0), EntityID: "p1",
			After: map[string]any{"type": "HOUSE"}},
	})
	if len(conflicts) != 0 {
		t.Fatalf("unexpected conflicts: %+v", conflicts)
	}
	if g.Entities["p1"].Type != schema.TypeHouse {
		t.Errorf("type = %s, want house", g.Entities["p1"].Type)
	}
	if !g.Entities["p1"].ManualOverride {
		t.Errorf("expected ManualOverride to be set")
	}
}

func TestReplayEntityMergeAbsorbsAliasesAndRewritesRelations(t *testing.T) {
	g := newGraph()
	g.Relations["r1"] = &schema.Relation{ID: "r1", Subj: "p2", Pred: schema.PredAllies, Obj: "p1"}

	conflicts := Replay(g, []schema.Correction{
		{ID: "c1", Type: schema.CorrectionEntityMerge, Timestamp: at(0), EntityIDs: []string{"p1", "p2"}},
	})
	if len(conflicts) != 0 {
		t.Fatalf("unexpected conflicts: %+v", conflicts)
	}
	if _, ok := g.Entities["p2"]; ok {
		t.Errorf("expected p2 to be absorbed and removed")
	}
	if g.Relations["r1"].Subj != "p1" {
		t.Errorf("relation subj = %s, want rewritten to p1", g.Relations["r1"].Subj)
	}
	found := false
	for _, a := range g.Entities["p1"].Aliases {
		if a == "Robert Baratheon" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected absorbed canonical to become an alias, aliases=%v", g.Entities["p1"].Aliases)
	}
}

func TestReplayAppliesInTimestampOrderNotInputOrder(t *testing.T) {
	g := newGraph()
	conflicts := Replay(g, []schema.Correction{
		{ID: "later", Type: schema.CorrectionCanonicalChange, Timestamp: at(10), EntityID: "p1",
			After: map[string]any{"canonical": "Ned Stark"}},
		{ID: "earlier", Type: schema.CorrectionCanonicalChange, Timestamp: at(5), EntityID: "p1",
			After: map[string]any{"canonical": "Lord Stark"}},
	})
	if len(conflicts) != 0 {
		t.Fatalf("unexpected conflicts: %+v", conflicts)
	}
	if g.Entities["p1"].Canonical != "Ned Stark" {
		t.Errorf("canonical = %q, want last-applied-by-time value", g.Entities["p1"].Canonical)
	}
}

func TestReplayEntitySplitAlwaysConflicts(t *testing.T) {
	g := newGraph()
	conflicts := Replay(g, []schema.Correction{
		{ID: "c1", Type: schema.CorrectionEntitySplit, Timestamp: at(0), EntityID: "p1"},
	})
	if len(conflicts) != 1 || conflicts[0].Reason != schema.ConflictUnsupported {
		t.Fatalf("conflicts = %+v, want one unsupported conflict", conflicts)
	}
}

func TestReplayRelationAddMissingEntityConflicts(t *testing.T) {
	g := newGraph()
	conflicts := Replay(g, []schema.Correction{
		{ID: "c1", Type: schema.CorrectionRelationAdd, Timestamp: at(0),
			After: map[string]any{"subj": "p1", "pred": "allies_with", "obj": "ghost"}},
	})
	if len(conflicts) != 1 || conflicts[0].Reason != schema.ConflictTargetMissing {
		t.Fatalf("conflicts = %+v, want target_missing", conflicts)
	}
}

func TestReplayAliasAddThenRemoveIsIdempotent(t *testing.T) {
	g := newGraph()
	corrections := []schema.Correction{
		{ID: "c1", Type: schema.CorrectionAliasAdd, Timestamp: at(0), EntityID: "p1",
			After: map[string]any{"alias": "The Quiet Wolf"}},
		{ID: "c2", Type: schema.CorrectionAliasRemove, Timestamp: at(1), EntityID: "p1",
			After: map[string]any{"alias": "The Quiet Wolf"}},
	}
	Replay(g, corrections)
	Replay(g, corrections)
	for _, a := range g.Entities["p1"].Aliases {
		if a == "The Quiet Wolf" {
			t.Errorf("expected alias to be removed after replay, aliases=%v", g.Entities["p1"].Aliases)
		}
	}
}
