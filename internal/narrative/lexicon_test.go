package narrative

import (
	"testing"

	"github.com/storygraph/corpus/internal/schema"
)

func TestLookupKnownVerb(t *testing.T) {
	lex, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer lex.Close()

	m, ok := lex.Lookup("killed")
	if !ok {
		t.Fatalf("expected 'killed' to resolve")
	}
	if m.Predicate != schema.PredKills {
		t.Errorf("Predicate = %s, want kills", m.Predicate)
	}
	if m.EventClass != EventDeath {
		t.Errorf("EventClass = %s, want death", m.EventClass)
	}
}

func TestLookupUnknownVerb(t *testing.T) {
	lex, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer lex.Close()

	if _, ok := lex.Lookup("xyzzyverb"); ok {
		t.Errorf("expected unknown verb to not resolve")
	}
}

func TestAddVerbOverlayShadowsLookup(t *testing.T) {
	lex, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer lex.Close()

	lex.AddVerb("whispers", EventDialogue, schema.PredSpeaksTo, Transitive)
	m, ok := lex.Lookup("whispers")
	if !ok || m.Predicate != schema.PredSpeaksTo {
		t.Fatalf("expected overlay verb to resolve to speaks_to, got %+v, %v", m, ok)
	}
}
