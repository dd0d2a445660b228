package resolve

import (
	"strings"

	"github.com/storygraph/corpus/internal/schema"
)

// UnresolvedReason explains why a coreference attempt failed, so callers
// can record it as a typed result rather than treating refusal as error.
type UnresolvedReason string

const (
	ReasonNoCandidates   UnresolvedReason = "no_candidates"
	ReasonTooFar         UnresolvedReason = "too_far"
	ReasonGenderMismatch UnresolvedReason = "gender_mismatch"
	ReasonAmbiguous      UnresolvedReason = "ambiguous"
)

// Method records which rule produced a resolution.
type Method string

const (
	MethodGenderUnique Method = "gender-unique"
	MethodSalience     Method = "salience"
)

// Result is the outcome of a resolution attempt: either a resolved entity
// id with a method and confidence, or an Unresolved reason.
type Result struct {
	EntityID   string
	Method     Method
	Confidence float64
	Unresolved UnresolvedReason
}

func (r Result) IsResolved() bool { return r.EntityID != "" }

// pronounInfo is the closed pronoun map (spec §4.2): gender it implies
// (empty = neutral/any), and whether it's plural.
type pronounInfo struct {
	gender schema.Gender
	plural bool
}

var pronouns = map[string]pronounInfo{
	"he": {schema.GenderMale, false}, "him": {schema.GenderMale, false},
	"his": {schema.GenderMale, false}, "himself": {schema.GenderMale, false},
	"she": {schema.GenderFemale, false}, "her": {schema.GenderFemale, false},
	"hers": {schema.GenderFemale, false}, "herself": {schema.GenderFemale, false},
	"they": {schema.GenderUnknown, true}, "them": {schema.GenderUnknown, true},
	"their": {schema.GenderUnknown, true}, "theirs": {schema.GenderUnknown, true},
	"themselves": {schema.GenderUnknown, true},
	"it":         {schema.GenderNeutral, false}, "its": {schema.GenderNeutral, false},
	"itself": {schema.GenderNeutral, false},
}

var neutralAllowedTypes = map[schema.EntityType]bool{
	schema.TypeOrg: true, schema.TypePlace: true, schema.TypeItem: true,
	schema.TypeWork: true, schema.TypeEvent: true,
}

// possessivePronouns marks pronoun surfaces treated as possessive for the
// sentence-start variant's "prefer last entity" rule.
var possessivePronouns = map[string]bool{
	"his": true, "her": true, "hers": true, "their": true, "theirs": true, "its": true,
}

// Resolve implements spec §4.2's resolution algorithm for a pronoun at
// character position pos in sentence sentenceIdx.
func (s *Stack) Resolve(pronoun string, pos, sentenceIdx int) Result {
	info, ok := pronouns[strings.ToLower(pronoun)]
	if !ok {
		return Result{Unresolved: ReasonNoCandidates}
	}

	allowNeutralTypes := info.gender == schema.GenderNeutral || info.plural
	entries := s.Sorted()

	var withinWindow []*schema.SalienceEntry
	for _, e := range entries {
		if pos-e.LastMentionPos <= recencyWindowChars {
			withinWindow = append(withinWindow, e)
		}
	}

	var typeFiltered []*schema.SalienceEntry
	for _, e := range withinWindow {
		if allowNeutralTypes {
			if neutralAllowedTypes[e.EntityType] {
				typeFiltered = append(typeFiltered, e)
			}
			continue
		}
		if e.EntityType == schema.TypePerson {
			typeFiltered = append(typeFiltered, e)
		}
	}

	var genderFiltered []*schema.SalienceEntry
	for _, e := range typeFiltered {
		if info.plural || info.gender == schema.GenderUnknown || info.gender == schema.GenderNeutral {
			genderFiltered = append(genderFiltered, e)
			continue
		}
		if e.Gender == schema.GenderUnknown || e.Gender == info.gender {
			genderFiltered = append(genderFiltered, e)
		}
	}

	if len(genderFiltered) == 0 {
		if len(withinWindow) == 0 && len(entries) > 0 {
			return Result{Unresolved: ReasonTooFar}
		}
		if len(typeFiltered) > 0 {
			return Result{Unresolved: ReasonGenderMismatch}
		}
		return Result{Unresolved: ReasonNoCandidates}
	}

	if len(genderFiltered) == 1 {
		return Result{EntityID: genderFiltered[0].EntityID, Method: MethodGenderUnique, Confidence: 0.85}
	}

	top, second := genderFiltered[0], genderFiltered[1]
	if top.Salience >= second.Salience*1.5 {
		return Result{EntityID: top.EntityID, Method: MethodSalience, Confidence: 0.75}
	}
	return Result{Unresolved: ReasonAmbiguous}
}

// IsPossessive reports whether surface is a possessive pronoun, used by
// the sentence-start variant to pick "last" vs "first" antecedent.
func IsPossessive(surface string) bool {
	return possessivePronouns[strings.ToLower(surface)]
}

// ResolveSentenceStart implements spec §4.2's sentence-start pronoun
// variant: prefer the first entity introduced in the previous sentence
// for subject pronouns, the last for possessives. prevSentenceEntities
// must be ordered by introduction order within that sentence.
// crossParagraph reduces confidence by 0.1. Falls back to Resolve on
// miss (empty prevSentenceEntities, or pronoun unknown).
func (s *Stack) ResolveSentenceStart(pronoun string, prevSentenceEntities []string, crossParagraph bool, pos, sentenceIdx int) Result {
	if len(prevSentenceEntities) == 0 {
		return s.Resolve(pronoun, pos, sentenceIdx)
	}
	var candidate string
	if IsPossessive(pronoun) {
		candidate = prevSentenceEntities[len(prevSentenceEntities)-1]
	} else {
		candidate = prevSentenceEntities[0]
	}
	if _, ok := s.Get(candidate); !ok {
		return s.Resolve(pronoun, pos, sentenceIdx)
	}
	conf := 0.85
	if crossParagraph {
		conf -= 0.1
	}
	return Result{EntityID: candidate, Method: MethodGenderUnique, Confidence: conf}
}

// roleNounToType is the closed whitelist for definite-description
// resolution (spec §4.2): "the senator" -> PERSON, "the company" -> ORG,
// "the kingdom" -> PLACE, etc.
var roleNounToType = map[string]schema.EntityType{
	"senator": schema.TypePerson, "king": schema.TypePerson, "queen": schema.TypePerson,
	"doctor": schema.TypePerson, "captain": schema.TypePerson, "general": schema.TypePerson,
	"company": schema.TypeOrg, "corporation": schema.TypeOrg, "guild": schema.TypeOrg,
	"kingdom": schema.TypePlace, "city": schema.TypePlace, "castle": schema.TypePlace,
	"house": schema.TypeHouse, "tribe": schema.TypeTribe,
}

// ResolveDefiniteDescription implements spec §4.2's "the <phrase>"
// resolution: if phrase's head noun maps to a type via the role-noun
// whitelist, search entries of that type whose salience dominates the
// runner-up by >10%.
func (s *Stack) ResolveDefiniteDescription(phrase string) Result {
	words := strings.Fields(strings.ToLower(phrase))
	if len(words) == 0 {
		return Result{Unresolved: ReasonNoCandidates}
	}
	head := words[len(words)-1]
	t, ok := roleNounToType[head]
	if !ok {
		return Result{Unresolved: ReasonNoCandidates}
	}

	var candidates []*schema.SalienceEntry
	for _, e := range s.Sorted() {
		if e.EntityType == t {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return Result{Unresolved: ReasonNoCandidates}
	}
	if len(candidates) == 1 {
		return Result{EntityID: candidates[0].EntityID, Method: MethodGenderUnique, Confidence: 0.8}
	}
	top, second := candidates[0], candidates[1]
	if top.Salience > second.Salience*1.10 {
		return Result{EntityID: top.EntityID, Method: MethodSalience, Confidence: 0.7}
	}
	return Result{Unresolved: ReasonAmbiguous}
}
