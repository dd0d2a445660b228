// Package dictionary provides a dual-purpose Aho-Corasick dictionary: one
// automaton serves both exact alias lookup and whole-document scanning, so
// the two paths always agree on what a surface form canonicalizes to.
package dictionary

import (
	"unicode"
	"unicode/utf8"

	"github.com/coregx/ahocorasick"

	"github.com/storygraph/corpus/internal/schema"
	"github.com/storygraph/corpus/internal/textnorm"
)

// RegisteredEntity is the input shape for dictionary compilation: an
// already-known entity and its surface forms.
type RegisteredEntity struct {
	ID      string
	Label   string
	Aliases []string
	Type    schema.EntityType
}

// entityInfo is the compiled, lookup-ready record for one entity.
type entityInfo struct {
	ID    string
	Label string
	Type  schema.EntityType
}

// Match is one detected entity mention in scanned text, with offsets into
// the ORIGINAL (not canonicalized) text.
type Match struct {
	Start       int
	End         int
	MatchedText string
	EntityIDs   []string
}

// Dictionary is an immutable, read-only Aho-Corasick dictionary: compiled
// once at process start (or per-document, for a dynamic in-document
// alias set) and shared across worker goroutines without locking, per
// spec §5's shared-lexicon resource model.
type Dictionary struct {
	ac           *ahocorasick.Automaton
	patterns     []string
	patternIndex map[string]int
	patternToIDs [][]string
	idToInfo     map[string]*entityInfo
}

func empty() *Dictionary {
	return &Dictionary{
		patternIndex: make(map[string]int),
		idToInfo:     make(map[string]*entityInfo),
	}
}

// Compile builds a Dictionary from a set of registered entities. Aliases
// and labels are canonicalized with textnorm.Canonicalize so compilation
// and scanning always use the identical normalization.
func Compile(entities []RegisteredEntity) (*Dictionary, error) {
	d := empty()

	for _, e := range entities {
		d.idToInfo[e.ID] = &entityInfo{ID: e.ID, Label: e.Label, Type: e.Type}

		surfaces := make([]string, 0, len(e.Aliases)+1)
		surfaces = append(surfaces, e.Label)
		surfaces = append(surfaces, e.Aliases...)

		for _, surface := range surfaces {
			key := textnorm.Canonicalize(surface)
			if key == "" {
				continue
			}
			if idx, exists := d.patternIndex[key]; exists {
				d.patternToIDs[idx] = appendUnique(d.patternToIDs[idx], e.ID)
				continue
			}
			idx := len(d.patterns)
			d.patterns = append(d.patterns, key)
			d.patternIndex[key] = idx
			d.patternToIDs = append(d.patternToIDs, []string{e.ID})
		}
	}

	automaton, err := ahocorasick.NewBuilder().
		AddStrings(d.patterns).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return nil, err
	}
	d.ac = automaton
	return d, nil
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

// Lookup returns the entity ids registered under surface (exact match
// after canonicalization).
func (d *Dictionary) Lookup(surface string) []string {
	idx, ok := d.patternIndex[textnorm.Canonicalize(surface)]
	if !ok {
		return nil
	}
	return d.patternToIDs[idx]
}

// Type returns the registered type for an entity id, or schema.TypeUnknown
// if the id is not known to this dictionary.
func (d *Dictionary) Type(id string) schema.EntityType {
	if info, ok := d.idToInfo[id]; ok {
		return info.Type
	}
	return schema.TypeUnknown
}

// Scan finds every occurrence of a registered surface form in text,
// mapping canonicalized-text offsets back to the original byte offsets so
// spans remain anchored to the source document.
func (d *Dictionary) Scan(text string) []Match {
	if d.ac == nil {
		return nil
	}
	canonical := textnorm.Canonicalize(text)
	offsetMap := buildOffsetMap(text)

	found := d.ac.FindAllOverlapping([]byte(canonical))
	result := make([]Match, 0, len(found))
	for _, m := range found {
		start := mapOffset(m.Start, offsetMap, len(text))
		end := mapOffset(m.End, offsetMap, len(text))
		if start >= len(text) || end > len(text) || start >= end {
			continue
		}
		result = append(result, Match{
			Start:       start,
			End:         end,
			MatchedText: text[start:end],
			EntityIDs:   d.patternToIDs[m.PatternID],
		})
	}
	return result
}

// buildOffsetMap maps every byte position in the canonicalized form of
// original back to the byte position in original it came from, so a match
// found against canonicalized text can be anchored to the source span.
func buildOffsetMap(original string) []int {
	mapping := make([]int, 0, len(original)+1)
	lastWasSpace := true
	pos := 0

	for _, ch := range original {
		runeLen := utf8.RuneLen(ch)
		c := unicode.ToLower(ch)
		if c == '’' || c == '‘' {
			c = '\''
		}
		if c == '–' || c == '—' {
			c = '-'
		}

		if unicode.IsLetter(c) || unicode.IsDigit(c) || isJoinerRune(c) {
			canonLen := utf8.RuneLen(c)
			for i := 0; i < canonLen; i++ {
				mapping = append(mapping, pos)
			}
			lastWasSpace = false
		} else if !lastWasSpace {
			mapping = append(mapping, pos)
			lastWasSpace = true
		}
		pos += runeLen
	}
	mapping = append(mapping, pos)
	return mapping
}

func isJoinerRune(r rune) bool {
	switch r {
	case '\'', '-', '.', '_', '/', '#', '&':
		return true
	default:
		return false
	}
}

func mapOffset(canonOffset int, mapping []int, originalLen int) int {
	if canonOffset >= len(mapping) {
		return originalLen
	}
	if canonOffset < 0 {
		return 0
	}
	return mapping[canonOffset]
}

// SelectBest picks the highest-priority entity among ids, using
// EntityTypePriority as the tiebreaker (spec §4.1's "more specific types
// win" promotion rule, generalized from the teacher's EntityKind.Priority).
func (d *Dictionary) SelectBest(ids []string) string {
	best := ""
	bestPriority := -1
	for _, id := range ids {
		info, ok := d.idToInfo[id]
		if !ok {
			continue
		}
		p := EntityTypePriority(info.Type)
		if p > bestPriority {
			best = id
			bestPriority = p
		}
	}
	return best
}

// EntityTypePriority ranks entity types for best-match selection when
// multiple known entities share a surface form.
func EntityTypePriority(t schema.EntityType) int {
	switch t {
	case schema.TypePerson:
		return 10
	case schema.TypePlace:
		return 8
	case schema.TypeHouse, schema.TypeTribe, schema.TypeOrg:
		return 7
	case schema.TypeCreature, schema.TypeSpecies, schema.TypeRace:
		return 6
	case schema.TypeItem, schema.TypeArtifact:
		return 5
	case schema.TypeWork, schema.TypeTitle:
		return 4
	case schema.TypeSpell, schema.TypeAbility:
		return 3
	case schema.TypeEvent:
		return 1
	default:
		return 2
	}
}
