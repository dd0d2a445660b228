package quote

import (
	"testing"

	"github.com/storygraph/corpus/internal/resolve"
	"github.com/storygraph/corpus/internal/schema"
)

func TestAttributeOneTrailingVerbBeforeNamePattern(t *testing.T) {
	text := `"I will go north," said Jon.`
	matches := Detect(text)
	lookup := func(surface string) (string, bool) {
		if surface == "Jon" {
			return "p_jon", true
		}
		return "", false
	}
	cand := AttributeOne(text, matches[0], lookup, resolve.NewStack())
	if cand.EntityID != "p_jon" {
		t.Fatalf("AttributeOne = %+v, want p_jon", cand)
	}
	if cand.Method != schema.SpeakerMethodPattern || cand.Confidence != 0.9 {
		t.Errorf("method/confidence = %s/%v, want pattern/0.9", cand.Method, cand.Confidence)
	}
}

func TestAttributeOneLeadingNameVerbPattern(t *testing.T) {
	text := `Jon said, "I will go north."`
	matches := Detect(text)
	lookup := func(surface string) (string, bool) {
		if surface == "Jon" {
			return "p_jon", true
		}
		return "", false
	}
	cand := AttributeOne(text, matches[0], lookup, resolve.NewStack())
	if cand.EntityID != "p_jon" {
		t.Fatalf("AttributeOne = %+v, want p_jon", cand)
	}
	if cand.Method != schema.SpeakerMethodPattern || cand.Confidence != 0.9 {
		t.Errorf("method/confidence = %s/%v, want pattern/0.9", cand.Method, cand.Confidence)
	}
}

func TestAttributeOnePronounSpeakerResolvesViaSalience(t *testing.T) {
	text := `"Stop!" she shouted.`
	matches := Detect(text)
	lookup := func(surface string) (string, bool) { return "", false }

	stack := resolve.NewStack()
	stack.Register("p_hermione", "Hermione", schema.TypePerson, schema.GenderFemale, schema.NumberSingular, schema.RoleSubject, 0, 0)

	cand := AttributeOne(text, matches[0], lookup, stack)
	if cand.EntityID != "p_hermione" {
		t.Fatalf("AttributeOne = %+v, want p_hermione via pronoun resolution", cand)
	}
	if cand.Method != schema.SpeakerMethodPronoun || cand.Confidence != 0.7 {
		t.Errorf("method/confidence = %s/%v, want pronoun/0.7", cand.Method, cand.Confidence)
	}
}

func TestAttributeOnePronounSpeakerUnresolvedWhenAmbiguous(t *testing.T) {
	text := `"Stop!" she shouted.`
	matches := Detect(text)
	lookup := func(surface string) (string, bool) { return "", false }

	stack := resolve.NewStack()
	stack.Register("p_hermione", "Hermione", schema.TypePerson, schema.GenderFemale, schema.NumberSingular, schema.RoleSubject, 0, 0)
	stack.Register("p_ginny", "Ginny", schema.TypePerson, schema.GenderFemale, schema.NumberSingular, schema.RoleSubject, 0, 0)

	cand := AttributeOne(text, matches[0], lookup, stack)
	if cand.EntityID != "" {
		t.Fatalf("AttributeOne = %+v, want unresolved under ambiguity", cand)
	}
}

func TestAttributeOneUnmatchedReturnsNilSpeaker(t *testing.T) {
	text := `"This quote has no nearby speaker cue at all."`
	matches := Detect(text)
	lookup := func(surface string) (string, bool) { return "", false }
	cand := AttributeOne(text, matches[0], lookup, resolve.NewStack())
	if cand.EntityID != "" {
		t.Errorf("AttributeOne = %+v, want unattributed", cand)
	}
}

func TestApplyTurnTakingSkipsWhenMoreThanTwoSpeakersActive(t *testing.T) {
	candidates := []schema.SpeakerCandidate{
		{EntityID: "a"},
		{EntityID: "b"},
		{EntityID: "c"},
		{}, // three distinct speakers active in window -> no turn-taking guess
	}
	out := ApplyTurnTaking(candidates)
	if out[3].EntityID != "" {
		t.Errorf("turn-taking assigned %q, want left unattributed with 3 active speakers", out[3].EntityID)
	}
}
