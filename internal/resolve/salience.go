// Package resolve implements salience-based coreference resolution:
// personal pronouns and definite descriptions are resolved to previously
// introduced entities using a decaying salience stack (spec §4.2).
package resolve

import (
	"sort"

	"github.com/storygraph/corpus/internal/schema"
)

// Role-weighted salience increments (spec §4.2 "State").
const (
	roleWeightSubject = 3.0
	roleWeightObject  = 2.0
	roleWeightOther   = 1.0

	sentenceDecay  = 0.8
	paragraphDecay = 0.4
	pruneThreshold = 0.3

	recencyWindowChars = 500
)

// Stack maintains the per-document salience entries used to resolve
// pronouns and definite descriptions. It is not safe for concurrent use.
type Stack struct {
	entries map[string]*schema.SalienceEntry
}

// NewStack returns an empty salience stack.
func NewStack() *Stack {
	return &Stack{entries: map[string]*schema.SalienceEntry{}}
}

func roleWeight(role schema.GrammaticalRole) float64 {
	switch role {
	case schema.RoleSubject:
		return roleWeightSubject
	case schema.RoleObject:
		return roleWeightObject
	default:
		return roleWeightOther
	}
}

// Register records (or updates) a mention of entityID at the given
// position. Existing entries are updated in place and re-weighted;
// new entities get a fresh entry.
func (s *Stack) Register(entityID, name string, t schema.EntityType, gender schema.Gender, number schema.Number, role schema.GrammaticalRole, pos, sentenceIdx int) {
	e, ok := s.entries[entityID]
	if !ok {
		e = &schema.SalienceEntry{
			EntityID:   entityID,
			Name:       name,
			Gender:     gender,
			Number:     number,
			EntityType: t,
		}
		s.entries[entityID] = e
	}
	e.LastMentionPos = pos
	e.LastMentionSentence = sentenceIdx
	e.GrammaticalRole = role
	e.Salience += roleWeight(role)
}

// DecaySentence applies the sentence-boundary decay (0.8) and prunes
// entries that fall below the pruning threshold.
func (s *Stack) DecaySentence() {
	s.decay(sentenceDecay)
}

// DecayParagraph applies the paragraph-boundary decay (0.4) and prunes.
func (s *Stack) DecayParagraph() {
	s.decay(paragraphDecay)
}

// quoteDecay is the inter-quote decay factor applied during quote
// attribution's salience update (spec §4.3 "apply sentence-level
// salience decay (0.9) between quotes").
const quoteDecay = 0.9

// DecayQuote applies the inter-quote decay (0.9) and prunes.
func (s *Stack) DecayQuote() {
	s.decay(quoteDecay)
}

func (s *Stack) decay(factor float64) {
	for id, e := range s.entries {
		e.Salience *= factor
		if e.Salience < pruneThreshold {
			delete(s.entries, id)
		}
	}
}

// Sorted returns entries ordered per spec §4.2's deterministic ordering
// guarantee: primary by salience desc, secondary by last_mention_pos
// desc, tertiary by entity_id lexicographically.
func (s *Stack) Sorted() []*schema.SalienceEntry {
	out := make([]*schema.SalienceEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Salience != out[j].Salience {
			return out[i].Salience > out[j].Salience
		}
		if out[i].LastMentionPos != out[j].LastMentionPos {
			return out[i].LastMentionPos > out[j].LastMentionPos
		}
		return out[i].EntityID < out[j].EntityID
	})
	return out
}

// Get returns the current entry for an entity id, if tracked.
func (s *Stack) Get(entityID string) (*schema.SalienceEntry, bool) {
	e, ok := s.entries[entityID]
	return e, ok
}
