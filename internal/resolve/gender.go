package resolve

import (
	"regexp"
	"strings"

	"github.com/storygraph/corpus/internal/schema"
)

// maleTitlePrefixes and femaleTitlePrefixes are curated title patterns
// (spec §4.2 "title-prefix patterns (Mr./Mrs./Sir/Lady/…)").
var maleTitlePrefixes = map[string]bool{
	"mr": true, "sir": true, "lord": true, "king": true, "prince": true,
	"duke": true, "father": true, "brother": true,
}

var femaleTitlePrefixes = map[string]bool{
	"mrs": true, "ms": true, "miss": true, "lady": true, "queen": true,
	"princess": true, "duchess": true, "mother": true, "sister": true, "dame": true,
}

// curatedMaleNames and curatedFemaleNames are small seed lists; production
// deployments are expected to extend these via internal/config or a
// pattern library, not by editing this table.
var curatedMaleNames = map[string]bool{
	"jon": true, "robert": true, "eddard": true, "tyrion": true, "jaime": true,
	"john": true, "james": true, "william": true, "henry": true, "edward": true,
}

var curatedFemaleNames = map[string]bool{
	"catelyn": true, "sansa": true, "arya": true, "daenerys": true, "cersei": true,
	"mary": true, "elizabeth": true, "anne": true, "margaret": true, "jane": true,
}

var sonPattern = regexp.MustCompile(`(?i)\btheir\s+son\b`)
var daughterPattern = regexp.MustCompile(`(?i)\btheir\s+daughter\b`)
var hisBrotherPattern = regexp.MustCompile(`(?i),\s*his\s+\w+`)
var herSisterPattern = regexp.MustCompile(`(?i),\s*her\s+\w+`)

// InferGender infers a Gender from a name and its surrounding context
// using curated name lists, title prefixes, and the "their son, X" /
// "X, his brother" context-learned rules (spec §4.2). Non-PERSON entities
// default to neutral (callers should not call this for those).
func InferGender(name string, titlePrefix string, contextBefore string) schema.Gender {
	lowerTitle := strings.ToLower(titlePrefix)
	if maleTitlePrefixes[lowerTitle] {
		return schema.GenderMale
	}
	if femaleTitlePrefixes[lowerTitle] {
		return schema.GenderFemale
	}

	if fields := strings.Fields(name); len(fields) > 0 {
		firstWord := strings.ToLower(fields[0])
		if curatedMaleNames[firstWord] {
			return schema.GenderMale
		}
		if curatedFemaleNames[firstWord] {
			return schema.GenderFemale
		}
	}

	if sonPattern.MatchString(contextBefore) || hisBrotherPattern.MatchString(contextBefore) {
		return schema.GenderMale
	}
	if daughterPattern.MatchString(contextBefore) || herSisterPattern.MatchString(contextBefore) {
		return schema.GenderFemale
	}

	return schema.GenderUnknown
}
