package entity

import (
	"testing"

	"github.com/storygraph/corpus/internal/schema"
)

func TestCheckRejectsAllDigits(t *testing.T) {
	if _, ok := Check("1923", schema.TypeOrg, false); ok {
		t.Errorf("expected all-digits candidate to be rejected")
	}
	if _, ok := Check("1923", schema.TypeDate, false); !ok {
		t.Errorf("DATE-typed all-digits candidate should pass")
	}
}

func TestCheckRejectsPronoun(t *testing.T) {
	if _, ok := Check("she", schema.TypePerson, false); ok {
		t.Errorf("expected pronoun to be rejected")
	}
}

func TestCheckRequiresCapitalizationForPerson(t *testing.T) {
	if _, ok := Check("eddard", schema.TypePerson, false); ok {
		t.Errorf("expected lowercase PERSON candidate without title to be rejected")
	}
	if _, ok := Check("Eddard", schema.TypePerson, false); !ok {
		t.Errorf("expected capitalized PERSON candidate to pass")
	}
}

func TestCheckRaceRequiresDemonymOrCurated(t *testing.T) {
	if _, ok := Check("Westerosi", schema.TypeRace, false); !ok {
		t.Errorf("expected demonym-suffixed race to pass")
	}
	if _, ok := Check("Elf", schema.TypeRace, false); !ok {
		t.Errorf("expected curated race to pass")
	}
	if _, ok := Check("Running", schema.TypeRace, false); ok {
		t.Errorf("expected gerund-shaped race candidate to be rejected")
	}
}

func TestCheckRejectsRoleDescriptor(t *testing.T) {
	if _, ok := Check("the stranger", schema.TypePerson, false); ok {
		t.Errorf("expected role descriptor 'the stranger' to be rejected")
	}
}

func TestSplitTwoFirstNames(t *testing.T) {
	firstNames := map[string]bool{"jon": true, "robert": true}
	a, b, ok := SplitTwoFirstNames("Jon Robert", firstNames)
	if !ok || a != "Jon" || b != "Robert" {
		t.Errorf("SplitTwoFirstNames('Jon Robert') = %q, %q, %v", a, b, ok)
	}
	_, _, ok = SplitTwoFirstNames("Jon Snow", firstNames)
	if ok {
		t.Errorf("expected 'Jon Snow' (surname-shaped second token) to not split")
	}
}
