package dictionary

import (
	"testing"

	"github.com/storygraph/corpus/internal/schema"
)

func TestCompileAndLookup(t *testing.T) {
	entities := []RegisteredEntity{
		{ID: "p1", Label: "Eddard Stark", Type: schema.TypePerson, Aliases: []string{"Ned Stark", "Lord Stark"}},
		{ID: "p2", Label: "Catelyn Stark", Type: schema.TypePerson},
		{ID: "h1", Label: "House Stark", Type: schema.TypeHouse},
	}

	dict, err := Compile(entities)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	ids := dict.Lookup("Eddard Stark")
	if len(ids) != 1 || ids[0] != "p1" {
		t.Errorf("Lookup 'Eddard Stark' = %v, want [p1]", ids)
	}

	ids = dict.Lookup("Ned Stark")
	if len(ids) != 1 || ids[0] != "p1" {
		t.Errorf("Lookup 'Ned Stark' (alias) = %v, want [p1]", ids)
	}

	if dict.Type("h1") != schema.TypeHouse {
		t.Errorf("Type(h1) = %v, want HOUSE", dict.Type("h1"))
	}
	if dict.Type("missing") != schema.TypeUnknown {
		t.Errorf("Type(missing) = %v, want UNKNOWN", dict.Type("missing"))
	}
}

func TestScanFindsAllMentionsWithOriginalOffsets(t *testing.T) {
	entities := []RegisteredEntity{
		{ID: "p1", Label: "Daenerys", Type: schema.TypePerson},
		{ID: "pl1", Label: "King's Landing", Type: schema.TypePlace},
	}
	dict, err := Compile(entities)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	text := "Daenerys sailed toward King's Landing at dawn."
	matches := dict.Scan(text)
	if len(matches) != 2 {
		t.Fatalf("Scan found %d matches, want 2: %+v", len(matches), matches)
	}
	for _, m := range matches {
		got := text[m.Start:m.End]
		if got != m.MatchedText {
			t.Errorf("span mismatch: text[%d:%d]=%q, MatchedText=%q", m.Start, m.End, got, m.MatchedText)
		}
	}
}

func TestSelectBestPrefersHigherPriorityType(t *testing.T) {
	entities := []RegisteredEntity{
		{ID: "event1", Label: "Winter", Type: schema.TypeEvent},
		{ID: "person1", Label: "Winter", Type: schema.TypePerson},
	}
	dict, err := Compile(entities)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	best := dict.SelectBest([]string{"event1", "person1"})
	if best != "person1" {
		t.Errorf("SelectBest = %s, want person1 (PERSON outranks EVENT)", best)
	}
}
