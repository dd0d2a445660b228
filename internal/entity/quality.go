// Package entity materializes promoted signal vectors into Entity values
// and applies the Quality Filter's rejection rules (spec §4.1).
package entity

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/storygraph/corpus/internal/schema"
	"github.com/storygraph/corpus/internal/textnorm"
)

// globalStopwords is the closed list the Quality Filter rejects outright:
// pronouns, determiners, high-frequency verbs, question words,
// prepositions, and discourse markers not already covered by
// textnorm.IsStopword's broader English stopword set.
var globalStopwords = map[string]bool{
	"he": true, "she": true, "it": true, "they": true, "we": true, "i": true,
	"this": true, "that": true, "these": true, "those": true,
	"the": true, "a": true, "an": true,
	"is": true, "was": true, "were": true, "are": true, "be": true, "been": true,
	"who": true, "what": true, "when": true, "where": true, "why": true, "how": true,
	"however": true, "therefore": true, "meanwhile": true, "nonetheless": true,
	"in": true, "on": true, "at": true, "by": true, "for": true, "with": true, "of": true,
}

var genericSingleWords = map[string]bool{
	"man": true, "woman": true, "thing": true, "person": true, "people": true,
	"someone": true, "something": true, "place": true, "time": true, "way": true,
}

var abstractPersonNouns = map[string]bool{
	"song": true, "darkness": true, "learning": true, "love": true,
	"hope": true, "fear": true, "justice": true, "peace": true, "war": true,
}

var raceDemonymSuffix = regexp.MustCompile(`(?i)(an|ian|ese|ish|i)$`)
var gerundSuffix = regexp.MustCompile(`(?i)ing$`)
var allCaps = regexp.MustCompile(`^[A-Z0-9]+$`)

// curatedRaces is a small closed set of recognized race/species names that
// bypass the demonym-suffix requirement.
var curatedRaces = map[string]bool{
	"elf": true, "elves": true, "dwarf": true, "dwarves": true, "orc": true,
	"hobbit": true, "giant": true, "fae": true, "fey": true,
}

// CommonFirstNames is the curated given-name gazetteer SplitTwoFirstNames
// checks both tokens against (spec §4.1's two-first-names split rule).
// Not exhaustive — a closed list kept small enough to stay precision-biased.
var CommonFirstNames = map[string]bool{
	"jon": true, "robert": true, "aldric": true, "barric": true,
	"elimelech": true, "naomi": true, "aragorn": true, "arwen": true,
	"john": true, "mary": true, "james": true, "sarah": true, "david": true,
	"ruth": true, "jacob": true, "rachel": true, "samuel": true, "hannah": true,
	"thomas": true, "elizabeth": true, "henry": true, "margaret": true,
	"william": true, "catherine": true, "richard": true, "eleanor": true,
}

var roleDescriptorPrefix = regexp.MustCompile(`(?i)^the\s+\w+$`)

// RejectionRule names one Quality Filter rule, used in QualityDecision
// audit records and in Stats.RejectionReasons.
type RejectionRule string

const (
	RuleAllDigits          RejectionRule = "all_digits"
	RuleTooShort           RejectionRule = "too_short"
	RuleGlobalStopword     RejectionRule = "global_stopword"
	RulePronoun            RejectionRule = "pronoun"
	RuleNotCapitalized     RejectionRule = "not_capitalized"
	RuleNotMostlyLetters   RejectionRule = "not_mostly_letters"
	RuleTypeSpecific       RejectionRule = "type_specific"
	RuleTooGeneric         RejectionRule = "too_generic"
	RuleStrictModeAllCaps  RejectionRule = "strict_all_caps"
	RuleRoleDescriptor     RejectionRule = "role_descriptor"
)

var allDigits = regexp.MustCompile(`^[0-9]+$`)

func isMostlyLetters(s string) bool {
	letters, nonSpace := 0, 0
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		nonSpace++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if nonSpace == 0 {
		return false
	}
	return float64(letters)/float64(nonSpace) >= 0.70
}

func isCapitalized(s string) bool {
	r := []rune(strings.TrimSpace(s))
	if len(r) == 0 {
		return false
	}
	return unicode.IsUpper(r[0])
}

// Check runs the Quality Filter's ordered rejection rules (spec §4.1)
// against a candidate surface/type pair. It returns ("", true) when the
// candidate passes, or the first triggering rule and false otherwise.
//
// strictMode enables rule (9): reject all-caps non-acronyms and
// too-short single words even when they'd otherwise pass.
func Check(surface string, t schema.EntityType, strictMode bool) (RejectionRule, bool) {
	trimmed := strings.TrimSpace(surface)
	lower := strings.ToLower(trimmed)

	if allDigits.MatchString(trimmed) && t != schema.TypeDate {
		return RuleAllDigits, false
	}
	if len(trimmed) < 2 {
		return RuleTooShort, false
	}
	if len(trimmed) == 2 && !allCaps.MatchString(trimmed) {
		return RuleTooShort, false
	}
	if globalStopwords[lower] || textnorm.IsStopword(lower) {
		return RuleGlobalStopword, false
	}
	if schema.IsPronounOrDeictic(trimmed) {
		return RulePronoun, false
	}

	needsCap := t == schema.TypePerson || t == schema.TypeOrg || t == schema.TypePlace ||
		t == schema.TypeHouse || t == schema.TypeTribe
	if needsCap {
		_, hasTitle := schema.MatchTitlePrefix(lower)
		if !isCapitalized(trimmed) && !hasTitle {
			return RuleNotCapitalized, false
		}
	}

	if t != schema.TypeDate && !isMostlyLetters(trimmed) {
		return RuleNotMostlyLetters, false
	}

	switch t {
	case schema.TypePerson:
		if abstractPersonNouns[lower] && isCapitalized(trimmed) {
			return RuleTypeSpecific, false
		}
	case schema.TypeRace:
		if gerundSuffix.MatchString(lower) {
			return RuleTypeSpecific, false
		}
		if !curatedRaces[lower] && !raceDemonymSuffix.MatchString(lower) {
			return RuleTypeSpecific, false
		}
	case schema.TypeItem:
		words := strings.Fields(lower)
		for _, w := range words {
			if schema.IsPronounOrDeictic(w) {
				return RuleTypeSpecific, false
			}
		}
	}

	if !strings.Contains(trimmed, " ") && genericSingleWords[lower] {
		return RuleTooGeneric, false
	}

	if roleDescriptorPrefix.MatchString(trimmed) {
		return RuleRoleDescriptor, false
	}

	if strictMode {
		if allCaps.MatchString(trimmed) && len(trimmed) > 1 {
			return RuleStrictModeAllCaps, false
		}
		if !strings.Contains(trimmed, " ") && len(trimmed) < 4 {
			return RuleStrictModeAllCaps, false
		}
	}

	return "", true
}

// surnameShaped is a loose heuristic for "does this token look like a
// surname" used by the two-first-names split rule: capitalized, no
// digits, not a curated title/role word.
func surnameShaped(tok string) bool {
	if !isCapitalized(tok) {
		return false
	}
	lower := strings.ToLower(tok)
	if roleWordsForSplit[lower] {
		return false
	}
	return true
}

var roleWordsForSplit = map[string]bool{
	"the": true, "of": true, "and": true,
}

// SplitTwoFirstNames implements spec §4.1's "two-first-names PERSON
// candidates whose second token is not a surname-shaped token are split
// into two entities instead of rejected" rule. It returns the two surface
// forms and true when candidate looks like two juxtaposed first names;
// otherwise ("", "", false).
func SplitTwoFirstNames(candidate string, firstNames map[string]bool) (string, string, bool) {
	parts := strings.Fields(candidate)
	if len(parts) != 2 {
		return "", "", false
	}
	a, b := parts[0], parts[1]
	if !firstNames[strings.ToLower(a)] {
		return "", "", false
	}
	if surnameShaped(b) && !firstNames[strings.ToLower(b)] {
		return "", "", false
	}
	if !firstNames[strings.ToLower(b)] {
		return "", "", false
	}
	return a, b, true
}
