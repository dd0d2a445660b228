package quote

import (
	"regexp"
	"strings"

	"github.com/storygraph/corpus/internal/resolve"
	"github.com/storygraph/corpus/internal/schema"
)

// speechVerbs is the lexicon of verbs that introduce reported speech,
// used by the trailing/leading name-verb attribution rules.
var speechVerbs = []string{
	"said", "says", "saying", "asked", "asks", "replied", "whispered",
	"shouted", "yelled", "cried", "muttered", "murmured", "declared",
	"stated", "answered", "called", "explained", "demanded", "exclaimed",
	"continued", "added", "interrupted",
}

var speechVerbAlternation = strings.Join(speechVerbs, "|")

// subjectVerbNames matches either a capitalized name or one of the
// personal pronouns from the closed coref map (spec §4.2); dialogue tags
// conventionally keep the pronoun lowercase ("Stop!" she shouted.), so
// the name alternative alone would never see a pronoun subject.
const subjectVerbNames = `[A-Z][\w'-]*|he|him|his|himself|she|her|hers|herself|they|them|their|theirs|themselves|it|its|itself`

var trailingVerbSubjectRe = regexp.MustCompile(`^[\s,]*(` + subjectVerbNames + `)\s+(` + speechVerbAlternation + `)\b`)
var trailingVerbBeforeNameRe = regexp.MustCompile(`^[\s,]*(` + speechVerbAlternation + `)\s+([A-Z][\w'-]*(?:\s+[A-Z][\w'-]*)?)`)
var leadingNameVerbRe = regexp.MustCompile(`([A-Z][\w'-]*(?:\s+[A-Z][\w'-]*)?)\s+(` + speechVerbAlternation + `)[\s,]*$`)

const attributionWindow = 100

// EntityLookup resolves a surface name to a known entity id, exact or
// partial match within the probe window; returns ("", false) on miss.
type EntityLookup func(surface string) (entityID string, ok bool)

// AttributeOne applies spec §4.3's three ordered attribution rules to a
// single quote, probing a window of text before and after it.
func AttributeOne(text string, q schema.QuoteMatch, lookup EntityLookup, resolver *resolve.Stack) schema.SpeakerCandidate {
	after := windowAfter(text, q.End, attributionWindow)
	before := windowBefore(text, q.Start, attributionWindow)

	if m := trailingVerbSubjectRe.FindStringSubmatch(after); m != nil {
		name := m[1]
		if schema.IsPronounOrDeictic(name) {
			// Pronoun speaker resolution (spec §4.3): resolve via the
			// salience resolver; success -> pronoun/0.7, failure -> leave
			// unattributed rather than guessing.
			if res := resolver.Resolve(name, q.End, 0); res.IsResolved() {
				return schema.SpeakerCandidate{EntityID: res.EntityID, Name: name, Start: q.End, End: q.End + len(m[0]), Method: schema.SpeakerMethodPronoun, Confidence: 0.7}
			}
			return schema.SpeakerCandidate{Name: name, Start: q.Start, End: q.End}
		}
		if id, ok := lookup(name); ok {
			return schema.SpeakerCandidate{EntityID: id, Name: name, Start: q.End, End: q.End + len(m[0]), Method: schema.SpeakerMethodPattern, Confidence: 0.9}
		}
	}

	if m := trailingVerbBeforeNameRe.FindStringSubmatch(after); m != nil {
		name := m[2]
		if !schema.IsPronounOrDeictic(name) {
			if id, ok := lookup(name); ok {
				return schema.SpeakerCandidate{EntityID: id, Name: name, Start: q.End, End: q.End + len(m[0]), Method: schema.SpeakerMethodPattern, Confidence: 0.9}
			}
		}
	}

	if m := leadingNameVerbRe.FindStringSubmatch(before); m != nil {
		name := m[1]
		if !schema.IsPronounOrDeictic(name) {
			if id, ok := lookup(name); ok {
				start := q.Start - len(before) + strings.Index(before, m[0])
				return schema.SpeakerCandidate{EntityID: id, Name: name, Start: start, End: start + len(m[0]), Method: schema.SpeakerMethodPattern, Confidence: 0.9}
			}
		}
	}

	return schema.SpeakerCandidate{Name: "", Start: q.Start, End: q.End}
}

func windowAfter(text string, pos, n int) string {
	end := pos + n
	if end > len(text) {
		end = len(text)
	}
	if pos > len(text) {
		pos = len(text)
	}
	return text[pos:end]
}

func windowBefore(text string, pos, n int) string {
	start := pos - n
	if start < 0 {
		start = 0
	}
	if pos > len(text) {
		pos = len(text)
	}
	return text[start:pos]
}

// ApplyTurnTaking implements spec §4.3's second pass: for each
// unattributed quote whose predecessor has a speaker, if exactly two
// distinct entity speakers are active in the previous 3 quotes + current,
// assign the quote to the other one (method=turn-taking, confidence 0.6).
func ApplyTurnTaking(candidates []schema.SpeakerCandidate) []schema.SpeakerCandidate {
	out := make([]schema.SpeakerCandidate, len(candidates))
	copy(out, candidates)

	for i, c := range out {
		if c.EntityID != "" {
			continue
		}
		windowStart := i - 3
		if windowStart < 0 {
			windowStart = 0
		}
		speakers := map[string]bool{}
		var order []string
		for j := windowStart; j < i; j++ {
			if id := out[j].EntityID; id != "" && !speakers[id] {
				speakers[id] = true
				order = append(order, id)
			}
		}
		if len(order) != 2 {
			continue
		}
		var prevSpeaker string
		if i > 0 {
			prevSpeaker = out[i-1].EntityID
		}
		if prevSpeaker == "" {
			continue
		}
		var other string
		for _, id := range order {
			if id != prevSpeaker {
				other = id
			}
		}
		if other == "" {
			continue
		}
		out[i].EntityID = other
		out[i].Method = schema.SpeakerMethodTurnTaking
		out[i].Confidence = 0.6
	}
	return out
}
