package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/storygraph/corpus/internal/narrative"
	"github.com/storygraph/corpus/internal/schema"
	"github.com/storygraph/corpus/pkg/patternlib"
)

func tok(i int, text, lemma, pos, dep string, head, start, end int, ent string) schema.Token {
	return schema.Token{I: i, Text: text, Lemma: lemma, POS: pos, Dep: dep, Head: head, Start: start, End: end, Ent: ent}
}

// buildDoc assembles a tiny two-sentence document: "Aldric attacked Barric.
// He fled." with dependency tags wired so Aldric is nsubj/attacked,
// Barric is dobj/attacked, and "He" is a subject pronoun resolvable back
// to Aldric via salience.
func buildDoc() *schema.ParseResponse {
	s1 := schema.Sentence{
		Index: 0,
		Text:  "Aldric attacked Barric.",
		Start: 0,
		End:   24,
		Tokens: []schema.Token{
			tok(0, "Aldric", "Aldric", "PROPN", "nsubj", 1, 0, 6, "PERSON"),
			tok(1, "attacked", "attack", "VERB", "ROOT", 1, 7, 15, ""),
			tok(2, "Barric", "Barric", "PROPN", "dobj", 1, 16, 22, "PERSON"),
		},
	}
	s2 := schema.Sentence{
		Index: 1,
		Text:  "He fled.",
		Start: 25,
		End:   33,
		Tokens: []schema.Token{
			tok(0, "He", "he", "PRON", "nsubj", 1, 25, 27, ""),
			tok(1, "fled", "flee", "VERB", "ROOT", 1, 28, 32, ""),
		},
	}
	return &schema.ParseResponse{
		DocID:     "doc-1",
		Text:      "Aldric attacked Barric. He fled.",
		Sentences: []schema.Sentence{s1, s2},
	}
}

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	lex, err := narrative.Load()
	if err != nil {
		t.Fatalf("narrative.Load: %v", err)
	}
	return New(nil, lex, nil, nil, nil, nil)
}

// TestProcessRejectsOutOfBoundsTokenSpan covers SPEC_FULL §7 error kind 1:
// malformed input is fatal per document, surfaced as a typed
// PipelineError rather than silently truncated or panicking.
func TestProcessRejectsOutOfBoundsTokenSpan(t *testing.T) {
	p := newTestPipeline(t)
	doc := &schema.ParseResponse{
		DocID: "doc-bad-span",
		Text:  "Short.",
		Sentences: []schema.Sentence{{
			Index: 0,
			Text:  "Short.",
			Start: 0,
			End:   6,
			Tokens: []schema.Token{
				tok(0, "Short", "short", "ADJ", "ROOT", 0, 0, 100, ""),
			},
		}},
	}

	_, err := p.Process(context.Background(), Input{Doc: doc})
	if err == nil {
		t.Fatal("expected an error for an out-of-bounds token span, got nil")
	}
	var pErr *PipelineError
	if !errors.As(err, &pErr) {
		t.Fatalf("expected a *PipelineError, got %T: %v", err, err)
	}
	if pErr.Stage != "validate" {
		t.Errorf("expected Stage=validate, got %q", pErr.Stage)
	}
}

// TestProcessRejectsNonMonotonicSentenceSpans covers the same error kind
// for sentence ranges that go backwards.
func TestProcessRejectsNonMonotonicSentenceSpans(t *testing.T) {
	p := newTestPipeline(t)
	doc := &schema.ParseResponse{
		DocID: "doc-bad-order",
		Text:  "One. Two.",
		Sentences: []schema.Sentence{
			{Index: 0, Text: "One.", Start: 5, End: 9},
			{Index: 1, Text: "Two.", Start: 0, End: 4},
		},
	}

	_, err := p.Process(context.Background(), Input{Doc: doc})
	if err == nil {
		t.Fatal("expected an error for non-monotonic sentence spans, got nil")
	}
}

// TestProcessRejectsInvalidHeadIndex covers the third malformed-input
// shape: a dependency head index outside the sentence's token range.
func TestProcessRejectsInvalidHeadIndex(t *testing.T) {
	p := newTestPipeline(t)
	doc := &schema.ParseResponse{
		DocID: "doc-bad-head",
		Text:  "Aldric left.",
		Sentences: []schema.Sentence{{
			Index: 0,
			Text:  "Aldric left.",
			Start: 0,
			End:   12,
			Tokens: []schema.Token{
				tok(0, "Aldric", "Aldric", "PROPN", "nsubj", 9, 0, 6, "PERSON"),
				tok(1, "left", "leave", "VERB", "ROOT", 1, 7, 11, ""),
			},
		}},
	}

	_, err := p.Process(context.Background(), Input{Doc: doc})
	if err == nil {
		t.Fatal("expected an error for an out-of-range head index, got nil")
	}
}

func TestProcessMaterializesRepeatedMentionsAsEntities(t *testing.T) {
	p := newTestPipeline(t)
	res, err := p.Process(context.Background(), Input{Doc: buildDoc()})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(res.Entities) == 0 {
		t.Fatal("expected at least one materialized entity")
	}

	var sawAldric, sawBarric bool
	for _, e := range res.Entities {
		switch e.Canonical {
		case "Aldric":
			sawAldric = true
		case "Barric":
			sawBarric = true
		}
	}
	if !sawAldric || !sawBarric {
		t.Errorf("expected Aldric and Barric as entities, got %+v", res.Entities)
	}
}

func TestProcessExtractsDependencyRelation(t *testing.T) {
	p := newTestPipeline(t)
	res, err := p.Process(context.Background(), Input{Doc: buildDoc()})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	found := false
	for _, r := range res.Relations {
		if r.Pred == schema.PredFightsAgainst {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a fights_against relation from 'attacked', got %+v", res.Relations)
	}
}

func TestProcessReplaysEntityTypeCorrection(t *testing.T) {
	p := newTestPipeline(t)
	doc := buildDoc()

	first, err := p.Process(context.Background(), Input{Doc: doc})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	var aldricID string
	for id, e := range first.Entities {
		if e.Canonical == "Aldric" {
			aldricID = id
		}
	}
	if aldricID == "" {
		t.Fatal("Aldric was not materialized")
	}

	corrections := []schema.Correction{{
		ID:        "c1",
		Type:      schema.CorrectionEntityType,
		Timestamp: time.Now(),
		EntityID:  aldricID,
		After:     map[string]any{"type": "HOUSE"},
	}}

	second, err := p.Process(context.Background(), Input{Doc: doc, Corrections: corrections})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if e, ok := second.Entities[aldricID]; !ok || e.Type != schema.TypeHouse {
		t.Errorf("expected Aldric's type corrected to HOUSE, got %+v", second.Entities[aldricID])
	}
}

func TestProcessAttributesQuoteToNearbySpeaker(t *testing.T) {
	p := newTestPipeline(t)
	doc := &schema.ParseResponse{
		DocID: "doc-2",
		Text:  `"I will not yield," said Aldric.`,
		Sentences: []schema.Sentence{{
			Index: 0,
			Text:  `"I will not yield," said Aldric.`,
			Start: 0,
			End:   33,
			Tokens: []schema.Token{
				tok(0, "Aldric", "Aldric", "PROPN", "attr", 1, 25, 31, "PERSON"),
			},
		}},
	}

	res, err := p.Process(context.Background(), Input{Doc: doc})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(res.Speakers) != 1 {
		t.Fatalf("expected one speaker candidate, got %d", len(res.Speakers))
	}
	if res.Speakers[0].Name != "Aldric" {
		t.Errorf("expected Aldric attributed as speaker, got %+v", res.Speakers[0])
	}
}

// TestProcessAttributesQuoteToPronounSpeaker covers spec scenario 3
// ("Stop!" she shouted.): the dialogue tag pronoun is conventionally
// lowercase, so resolution must go through the salience resolver rather
// than requiring a capitalized subject.
func TestProcessAttributesQuoteToPronounSpeaker(t *testing.T) {
	p := newTestPipeline(t)
	doc := &schema.ParseResponse{
		DocID: "doc-pronoun-speaker",
		Text:  `Catelyn arrived first. "Stop!" she shouted.`,
		Sentences: []schema.Sentence{
			{
				Index: 0,
				Text:  `Catelyn arrived first.`,
				Start: 0,
				End:   23,
				Tokens: []schema.Token{
					tok(0, "Catelyn", "Catelyn", "PROPN", "nsubj", 1, 0, 7, "PERSON"),
					tok(1, "arrived", "arrive", "VERB", "ROOT", 1, 8, 15, ""),
				},
			},
			{
				Index: 1,
				Text:  `"Stop!" she shouted.`,
				Start: 23,
				End:   43,
				Tokens: []schema.Token{
					tok(0, "she", "she", "PRON", "nsubj", 1, 31, 34, ""),
					tok(1, "shouted", "shout", "VERB", "ROOT", 1, 35, 42, ""),
				},
			},
		},
	}

	res, err := p.Process(context.Background(), Input{Doc: doc})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(res.Speakers) != 1 {
		t.Fatalf("expected one speaker candidate, got %d", len(res.Speakers))
	}
	speaker := res.Speakers[0]
	if speaker.EntityID == "" || speaker.Method != schema.SpeakerMethodPronoun {
		t.Fatalf("expected pronoun-resolved speaker, got %+v", speaker)
	}
	if e, ok := res.Entities[speaker.EntityID]; !ok || e.Canonical != "Catelyn" {
		t.Errorf("expected speaker resolved to Catelyn, got %+v", e)
	}
}

// TestProcessSplitsTwoFirstNamesIntoSeparateEntities covers "Elimelech
// Naomi went to Moab." (two juxtaposed first names reported as one NER
// span upstream) materializing as two PERSON entities instead of one
// merged or rejected candidate.
func TestProcessSplitsTwoFirstNamesIntoSeparateEntities(t *testing.T) {
	p := newTestPipeline(t)
	doc := &schema.ParseResponse{
		DocID: "doc-3",
		Text:  "Elimelech Naomi traveled to Moab.",
		Sentences: []schema.Sentence{{
			Index: 0,
			Text:  "Elimelech Naomi traveled to Moab.",
			Start: 0,
			End:   34,
			Tokens: []schema.Token{
				tok(0, "Elimelech Naomi", "Elimelech Naomi", "PROPN", "nsubj", 1, 0, 16, "PERSON"),
				tok(1, "traveled", "travel", "VERB", "ROOT", 1, 17, 25, ""),
				tok(2, "to", "to", "ADP", "prep", 1, 26, 28, ""),
				tok(3, "Moab", "Moab", "PROPN", "pobj", 2, 29, 33, "PLACE"),
			},
		}},
	}

	res, err := p.Process(context.Background(), Input{Doc: doc})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	var sawElimelech, sawNaomi bool
	for _, e := range res.Entities {
		switch e.Canonical {
		case "Elimelech":
			sawElimelech = true
		case "Naomi":
			sawNaomi = true
		case "Elimelech Naomi":
			t.Errorf("expected the two-first-names candidate to be split, got unsplit entity %+v", e)
		}
	}
	if !sawElimelech || !sawNaomi {
		t.Errorf("expected separate Elimelech and Naomi entities, got %+v", res.Entities)
	}
}

// TestProcessExtractsDependencyPatternKinshipRelation covers "Aragorn,
// son of Arathorn, married Arwen." — a loaded dependency pattern walking
// the appositive "son of" chain should yield parent_of(Arathorn,
// Aragorn), independent of the hardcoded verb lexicon's SVO path.
func TestProcessExtractsDependencyPatternKinshipRelation(t *testing.T) {
	lex, err := narrative.Load()
	if err != nil {
		t.Fatalf("narrative.Load: %v", err)
	}
	surf := &patternlib.Library{
		Dependency: []patternlib.DependencyPattern{{
			ID:        "son_of_apposition",
			DepShape:  "appos:prep:pobj",
			Predicate: "parent_of",
			Family:    schema.FamilyKinship,
		}},
	}
	p := New(nil, lex, nil, surf, nil, nil)

	doc := &schema.ParseResponse{
		DocID: "doc-4",
		Text:  "Aragorn, son of Arathorn, married Arwen.",
		Sentences: []schema.Sentence{{
			Index: 0,
			Text:  "Aragorn, son of Arathorn, married Arwen.",
			Start: 0,
			End:   41,
			Tokens: []schema.Token{
				tok(0, "Aragorn", "Aragorn", "PROPN", "nsubj", 6, 0, 7, "PERSON"),
				tok(1, ",", ",", "PUNCT", "punct", 0, 7, 8, ""),
				tok(2, "son", "son", "NOUN", "appos", 0, 9, 12, ""),
				tok(3, "of", "of", "ADP", "prep", 2, 13, 15, ""),
				tok(4, "Arathorn", "Arathorn", "PROPN", "pobj", 3, 16, 24, "PERSON"),
				tok(5, ",", ",", "PUNCT", "punct", 0, 24, 25, ""),
				tok(6, "married", "married", "VERB", "ROOT", 6, 26, 33, ""),
				tok(7, "Arwen", "Arwen", "PROPN", "dobj", 6, 34, 39, "PERSON"),
			},
		}},
	}

	res, err := p.Process(context.Background(), Input{Doc: doc})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	found := false
	for _, r := range res.Relations {
		if r.Pred == schema.PredParentOf && r.SubjSurface == "Arathorn" && r.ObjSurface == "Aragorn" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected parent_of(Arathorn, Aragorn) from the son-of appositive pattern, got %+v", res.Relations)
	}
}

func TestRunAllProcessesEveryDocument(t *testing.T) {
	p := newTestPipeline(t)
	inputs := []Input{
		{Doc: buildDoc()},
		{Doc: buildDoc()},
		{Doc: buildDoc()},
	}
	results, errs := p.RunAll(context.Background(), inputs)
	for i, err := range errs {
		if err != nil {
			t.Errorf("doc %d: %v", i, err)
		}
		if results[i] == nil {
			t.Errorf("doc %d: nil result", i)
		}
	}
}
