package schema

// EntitySpan (a.k.a. Mention) is an occurrence of an entity in text.
// Multiple spans per entity are allowed; callers must keep spans for a
// given entity ordered by Start.
type EntitySpan struct {
	EntityID      string `json:"entity_id"`
	Start         int    `json:"start"`
	End           int    `json:"end"`
	Surface       string `json:"surface"`
	SentenceIndex int    `json:"sentence_index"`
}

// MentionContext is the per-mention signal bundle the Evidence Accumulator
// and Quality Filter consume (spec §4.1), derived by mention collection
// (SPEC_FULL §4.8) from a token's dependency-parse neighborhood.
type MentionContext struct {
	Token           Token
	SentenceIndex   int
	IsVerbSubject   bool
	IsVerbObject    bool
	VerbLemma       string
	HasTitle        bool
	Title           string
	IsVocative      bool
	IsInDialogue    bool
	CorefLinksCount int
}

// nounPhraseHeadDeps lists the dependency labels that mark a token as a
// candidate noun-phrase head (SPEC_FULL §4.8).
var nounPhraseHeadDeps = map[string]bool{
	"nsubj": true, "nsubjpass": true, "dobj": true, "iobj": true,
	"pobj": true, "attr": true, "appos": true,
}

// IsMentionHeadCandidate reports whether tok is a candidate noun-phrase
// head: its dep is one of the recognized head labels, or it carries a
// non-"O" NER tag, and it is not itself a pronoun (pronouns are resolved,
// never promoted, per Entity invariant (ii)).
func IsMentionHeadCandidate(tok Token) bool {
	if tok.POS == "PRON" {
		return false
	}
	if nounPhraseHeadDeps[tok.Dep] {
		return true
	}
	return tok.Ent != "" && tok.Ent != "O"
}

// titlePrefixes is the closed list of honorific/title tokens SPEC_FULL
// §4.8 matches against the token immediately preceding a mention head.
var titlePrefixes = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "miss": true, "dr": true,
	"prof": true, "professor": true, "lord": true, "lady": true,
	"sir": true, "dame": true, "king": true, "queen": true,
	"prince": true, "princess": true, "duke": true, "duchess": true,
	"captain": true, "general": true, "admiral": true, "father": true,
	"mother": true, "brother": true, "sister": true, "saint": true, "st": true,
}

// MatchTitlePrefix reports whether prev (lowercased, punctuation-stripped
// by the caller) is a recognized title, returning the normalized title and
// true if so.
func MatchTitlePrefix(prev string) (string, bool) {
	if titlePrefixes[prev] {
		return prev, true
	}
	return "", false
}
