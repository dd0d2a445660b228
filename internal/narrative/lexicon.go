// Package narrative provides the verb lexicon that maps a verb's stem to
// the event class and relation predicate it implies, backed by an FST for
// compact, immutable, shareable storage (spec §4's narrative-event
// extraction path feeding internal/relate).
package narrative

import (
	"bytes"
	"sort"
	"strings"

	"github.com/blevesearch/vellum"

	"github.com/storygraph/corpus/internal/schema"
)

// EventClass is a coarse category of narrative event a verb implies,
// independent of the specific relation predicate it resolves to.
type EventClass string

const (
	EventBattle     EventClass = "battle"
	EventDuel       EventClass = "duel"
	EventDeath      EventClass = "death"
	EventTravel     EventClass = "travel"
	EventDiscovery  EventClass = "discovery"
	EventConceals   EventClass = "conceals"
	EventReveals    EventClass = "reveals"
	EventDeceives   EventClass = "deceives"
	EventState      EventClass = "state"
	EventTransform  EventClass = "transform"
	EventAcquire    EventClass = "acquire"
	EventTheft      EventClass = "theft"
	EventCause      EventClass = "cause"
	EventPrevent    EventClass = "prevent"
	EventAccusation EventClass = "accusation"
	EventDialogue   EventClass = "dialogue"
	EventBargain    EventClass = "bargain"
	EventPromise    EventClass = "promise"
	EventThreat     EventClass = "threat"
	EventBetrayal   EventClass = "betrayal"
	EventMeet       EventClass = "meet"
	EventRescue     EventClass = "rescue"
	EventCreate     EventClass = "create"
	EventTrial      EventClass = "trial"
)

// Transitivity records how the predicate's subject/object roles map onto
// the verb's syntactic arguments.
type Transitivity uint8

const (
	Intransitive Transitivity = iota
	Transitive
	Ditransitive
)

// VerbMatch is the lexicon's answer for a verb: which event it names,
// which relation predicate it implies, and its transitivity.
type VerbMatch struct {
	EventClass EventClass
	Predicate  schema.Predicate
	Transitivity Transitivity
}

type verbEntry struct {
	stem         string
	event        EventClass
	pred         schema.Predicate
	transitivity Transitivity
}

// verbEntries is the static stem -> (event, predicate, transitivity)
// table. Stems must be lowercase and, where irregular, include common
// inflected forms the simple Stem() suffix-stripper won't normalize on
// its own (e.g. "said", "told", "saw").
var verbEntries = []verbEntry{
	{"attack", EventBattle, schema.PredFightsAgainst, Transitive},
	{"battl", EventBattle, schema.PredFightsAgainst, Intransitive},
	{"defeat", EventBattle, schema.PredDefeats, Transitive},
	{"duel", EventDuel, schema.PredFightsAgainst, Intransitive},
	{"fight", EventBattle, schema.PredFightsAgainst, Transitive},
	{"fought", EventBattle, schema.PredFightsAgainst, Transitive},
	{"kill", EventDeath, schema.PredKills, Transitive},
	{"slay", EventDeath, schema.PredKills, Transitive},
	{"wound", EventBattle, schema.PredFightsAgainst, Transitive},

	{"approach", EventTravel, schema.PredTraveledTo, Intransitive},
	{"arriv", EventTravel, schema.PredTraveledTo, Intransitive},
	{"depart", EventTravel, schema.PredOriginatesIn, Intransitive},
	{"enter", EventTravel, schema.PredTraveledTo, Transitive},
	{"exit", EventTravel, schema.PredOriginatesIn, Transitive},
	{"journey", EventTravel, schema.PredTraveledTo, Intransitive},
	{"leav", EventTravel, schema.PredOriginatesIn, Transitive},
	{"sail", EventTravel, schema.PredTraveledTo, Intransitive},
	{"travel", EventTravel, schema.PredTraveledTo, Intransitive},
	{"visit", EventTravel, schema.PredTraveledTo, Transitive},

	{"conceal", EventConceals, schema.PredConceals, Transitive},
	{"discov", EventDiscovery, schema.PredReveals, Transitive},
	{"find", EventDiscovery, schema.PredReveals, Transitive},
	{"hid", EventConceals, schema.PredConceals, Transitive},
	{"learn", EventDiscovery, schema.PredReveals, Transitive},
	{"reveal", EventReveals, schema.PredReveals, Transitive},
	{"uncover", EventDiscovery, schema.PredReveals, Transitive},

	{"are", EventState, schema.PredEquals, Transitive},
	{"be", EventState, schema.PredEquals, Transitive},
	{"becam", EventTransform, schema.PredBecomes, Transitive},
	{"became", EventTransform, schema.PredBecomes, Transitive},
	{"become", EventTransform, schema.PredBecomes, Transitive},
	{"been", EventState, schema.PredEquals, Transitive},
	{"is", EventState, schema.PredEquals, Transitive},
	{"transform", EventTransform, schema.PredTransformsTo, Transitive},
	{"turn", EventTransform, schema.PredTransformsTo, Intransitive},
	{"was", EventState, schema.PredEquals, Transitive},
	{"were", EventState, schema.PredEquals, Transitive},

	{"give", EventAcquire, schema.PredGivesTo, Ditransitive},
	{"own", EventAcquire, schema.PredOwns, Transitive},
	{"steal", EventTheft, schema.PredSteals, Transitive},
	{"take", EventAcquire, schema.PredTakesFrom, Transitive},

	{"caus", EventCause, schema.PredCauses, Transitive},
	{"enabl", EventCause, schema.PredEnables, Transitive},
	{"prevent", EventPrevent, schema.PredPrevents, Transitive},

	{"accus", EventAccusation, schema.PredAccuses, Transitive},
	{"ask", EventDialogue, schema.PredSpeaksTo, Transitive},
	{"call", EventDialogue, schema.PredSpeaksTo, Transitive},
	{"command", EventDialogue, schema.PredCommands, Transitive},
	{"explain", EventDialogue, schema.PredSpeaksTo, Ditransitive},
	{"mention", EventDialogue, schema.PredMentions, Transitive},
	{"promis", EventPromise, schema.PredPromises, Ditransitive},
	{"said", EventDialogue, schema.PredSpeaksTo, Ditransitive},
	{"say", EventDialogue, schema.PredSpeaksTo, Ditransitive},
	{"shout", EventDialogue, schema.PredSpeaksTo, Transitive},
	{"speak", EventDialogue, schema.PredSpeaksTo, Intransitive},
	{"spoke", EventDialogue, schema.PredSpeaksTo, Intransitive},
	{"state", EventDialogue, schema.PredSpeaksTo, Transitive},
	{"suggest", EventDialogue, schema.PredSpeaksTo, Transitive},
	{"tell", EventDialogue, schema.PredSpeaksTo, Ditransitive},
	{"told", EventDialogue, schema.PredSpeaksTo, Ditransitive},
	{"threaten", EventThreat, schema.PredThreatens, Transitive},
	{"whisper", EventDialogue, schema.PredSpeaksTo, Transitive},

	{"alli", EventMeet, schema.PredAllies, Intransitive},
	{"betray", EventBetrayal, schema.PredBetrays, Transitive},
	{"deceiv", EventDeceives, schema.PredBetrays, Transitive},
	{"follow", EventMeet, schema.PredReportsTo, Transitive},
	{"join", EventMeet, schema.PredMemberOf, Transitive},
	{"serv", EventMeet, schema.PredReportsTo, Transitive},

	{"admir", EventMeet, schema.PredLoves, Transitive},
	{"fear", EventBattle, schema.PredFears, Transitive},
	{"hat", EventBattle, schema.PredHates, Transitive},
	{"lov", EventMeet, schema.PredLoves, Transitive},
	{"trust", EventMeet, schema.PredTrusts, Transitive},

	{"rescu", EventRescue, schema.PredRescues, Transitive},
	{"sav", EventRescue, schema.PredRescues, Transitive},

	{"encount", EventMeet, schema.PredMeets, Transitive},
	{"meet", EventMeet, schema.PredMeets, Transitive},

	{"build", EventCreate, schema.PredBuilds, Transitive},
	{"creat", EventCreate, schema.PredCreates, Transitive},
	{"destroy", EventDeath, schema.PredDestroys, Transitive},
	{"make", EventCreate, schema.PredCreates, Transitive},

	{"rul", EventTrial, schema.PredLeads, Transitive},
	{"lead", EventTrial, schema.PredLeads, Transitive},
	{"employ", EventTrial, schema.PredEmploys, Transitive},
	{"work", EventTrial, schema.PredWorksAt, Intransitive},
	{"marri", EventTrial, schema.PredMarriedTo, Transitive},
	{"wed", EventTrial, schema.PredMarriedTo, Transitive},
	{"inherit", EventAcquire, schema.PredInherits, Transitive},
	{"cast", EventCreate, schema.PredCasts, Transitive},
	{"wield", EventAcquire, schema.PredWields, Transitive},
}

// Lexicon is an immutable, FST-backed verb lexicon, safe for concurrent
// read-only use across worker goroutines (spec §5 shared-lexicon model).
type Lexicon struct {
	fst     *vellum.FST
	byIndex []verbEntry
	overlay map[string]VerbMatch
}

// Load builds a Lexicon from the static verb table.
func Load() (*Lexicon, error) {
	sorted := make([]verbEntry, len(verbEntries))
	copy(sorted, verbEntries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].stem < sorted[j].stem })

	var buf bytes.Buffer
	builder, err := vellum.New(&buf, nil)
	if err != nil {
		return nil, err
	}
	for i, entry := range sorted {
		if err := builder.Insert([]byte(entry.stem), uint64(i)); err != nil {
			return nil, err
		}
	}
	if err := builder.Close(); err != nil {
		return nil, err
	}

	fst, err := vellum.Load(buf.Bytes())
	if err != nil {
		return nil, err
	}

	return &Lexicon{fst: fst, byIndex: sorted, overlay: map[string]VerbMatch{}}, nil
}

// suffixes are stripped by Stem, longest-plausible-first per the
// teacher's simplistic-but-effective stemmer.
var suffixes = []string{"ing", "tion", "ness", "ed", "er", "es", "s"}

// Stem applies a simple suffix-stripping stemmer to a verb form.
func (l *Lexicon) Stem(word string) string {
	lower := strings.ToLower(word)
	for _, suffix := range suffixes {
		if strings.HasSuffix(lower, suffix) && len(lower) > len(suffix)+2 {
			return lower[:len(lower)-len(suffix)]
		}
	}
	return lower
}

// Lookup resolves a verb surface form to its VerbMatch, checking runtime
// overlay additions before the static FST.
func (l *Lexicon) Lookup(verb string) (VerbMatch, bool) {
	stem := l.Stem(verb)
	if m, ok := l.overlay[stem]; ok {
		return m, true
	}
	idx, found, err := l.fst.Get([]byte(stem))
	if err != nil || !found {
		return VerbMatch{}, false
	}
	if int(idx) >= len(l.byIndex) {
		return VerbMatch{}, false
	}
	e := l.byIndex[idx]
	return VerbMatch{EventClass: e.event, Predicate: e.pred, Transitivity: e.transitivity}, true
}

// AddVerb registers a runtime verb mapping that overlays (and, on stem
// collision, shadows) the static FST — used to fold in pattern-learned or
// document-local verb senses without rebuilding the shared FST.
func (l *Lexicon) AddVerb(verb string, event EventClass, pred schema.Predicate, transitivity Transitivity) {
	l.overlay[l.Stem(verb)] = VerbMatch{EventClass: event, Predicate: pred, Transitivity: transitivity}
}

// Close releases the underlying FST's resources.
func (l *Lexicon) Close() error {
	if l.fst == nil {
		return nil
	}
	return l.fst.Close()
}
