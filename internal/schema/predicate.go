package schema

// Predicate is a closed enum of canonical relation predicates, grouped by
// family. Each predicate declares allowed subject/object types; emission
// refuses type mismatches (spec §3 Relation invariant (i), §4.4).
type Predicate string

// PredicateFamily groups predicates that share type guards.
type PredicateFamily string

const (
	FamilyKinship       PredicateFamily = "kinship"
	FamilyEmployment    PredicateFamily = "employment"
	FamilyLocation      PredicateFamily = "location"
	FamilyCreation      PredicateFamily = "creation"
	FamilyOwnership     PredicateFamily = "ownership"
	FamilyEvent         PredicateFamily = "event"
	FamilyCommunication PredicateFamily = "communication"
	FamilyComparison    PredicateFamily = "comparison"
	FamilyCausation     PredicateFamily = "causation"
	FamilyPartWhole     PredicateFamily = "part_whole"
	FamilyIdentity      PredicateFamily = "identity"
	FamilyAbility       PredicateFamily = "ability"
	FamilyNegation      PredicateFamily = "negation"
	FamilyEmotional     PredicateFamily = "emotional"
)

// Kinship
const (
	PredParentOf    Predicate = "parent_of"
	PredChildOf     Predicate = "child_of"
	PredSiblingOf   Predicate = "sibling_of"
	PredMarriedTo   Predicate = "married_to"
	PredSpouseOf    Predicate = "spouse_of"
	PredGrandparent Predicate = "grandparent_of"
	PredAncestorOf  Predicate = "ancestor_of"
	PredDescendant  Predicate = "descendant_of"
	PredCousinOf    Predicate = "cousin_of"
	PredUncleAuntOf Predicate = "uncle_aunt_of"
)

// Employment
const (
	PredWorksAt   Predicate = "works_at"
	PredEmploys   Predicate = "employs"
	PredLeads     Predicate = "leads"
	PredReportsTo Predicate = "reports_to"
	PredMemberOf  Predicate = "member_of"
	PredServesAs  Predicate = "serves_as"
	PredCommands  Predicate = "commands"
	PredStudiesAt Predicate = "studies_at"
	PredTeachesAt Predicate = "teaches_at"
)

// Location
const (
	PredLocatedIn    Predicate = "located_in"
	PredTraveledTo   Predicate = "traveled_to"
	PredOriginatesIn Predicate = "originates_in"
	PredBornIn       Predicate = "born_in"
	PredDiedIn       Predicate = "died_in"
	PredContains     Predicate = "contains"
	PredNear         Predicate = "near"
)

// Creation
const (
	PredCreates    Predicate = "creates"
	PredDestroys   Predicate = "destroys"
	PredBuilds     Predicate = "builds"
	PredInventedBy Predicate = "invented_by"
	PredAuthoredBy Predicate = "authored_by"
)

// Ownership
const (
	PredOwns     Predicate = "owns"
	PredOwnedBy  Predicate = "owned_by"
	PredWields   Predicate = "wields"
	PredGivesTo  Predicate = "gives_to"
	PredTakesFrom Predicate = "takes_from"
	PredSteals   Predicate = "steals"
	PredInherits Predicate = "inherits"
)

// Event
const (
	PredParticipatesIn Predicate = "participates_in"
	PredAttends        Predicate = "attends"
	PredFightsAgainst  Predicate = "fights_against"
	PredDefeats        Predicate = "defeats"
	PredKills          Predicate = "kills"
	PredRescues        Predicate = "rescues"
	PredBetrays        Predicate = "betrays"
	PredAllies         Predicate = "allies_with"
	PredMeets          Predicate = "meets"
)

// Communication
const (
	PredSpeaksTo  Predicate = "speaks_to"
	PredMentions  Predicate = "mentions"
	PredReveals   Predicate = "reveals"
	PredConceals  Predicate = "conceals"
	PredPromises  Predicate = "promises"
	PredThreatens Predicate = "threatens"
	PredAccuses   Predicate = "accuses"
)

// Comparison
const (
	PredEquals    Predicate = "equals"
	PredSimilarTo Predicate = "similar_to"
	PredRivalOf   Predicate = "rival_of"
	PredOpposesOf Predicate = "opposes"
)

// Causation
const (
	PredCauses   Predicate = "causes"
	PredEnables  Predicate = "enables"
	PredPrevents Predicate = "prevents"
)

// PartWhole
const (
	PredPartOf  Predicate = "part_of"
	PredHasPart Predicate = "has_part"
)

// Identity
const (
	PredAliasOf     Predicate = "alias_of"
	PredTransformsTo Predicate = "transforms_into"
	PredBecomes     Predicate = "becomes"
)

// Ability
const (
	PredHasAbility Predicate = "has_ability"
	PredCasts      Predicate = "casts"
	PredKnows      Predicate = "knows"
)

// Negation (a relation whose assertion is explicitly negated in text)
const (
	PredNeverMarried Predicate = "never_married"
	PredDoesNotOwn   Predicate = "does_not_own"
)

// Emotional
const (
	PredLoves  Predicate = "loves"
	PredHates  Predicate = "hates"
	PredFears  Predicate = "fears"
	PredTrusts Predicate = "trusts"
)

// TypeGuard declares which subject/object entity types a predicate allows.
// A nil set means "any type" (used sparingly, only for broad predicates
// like equals/similar_to).
type TypeGuard struct {
	Family  PredicateFamily
	Subject map[EntityType]bool
	Object  map[EntityType]bool
}

func types(ts ...EntityType) map[EntityType]bool {
	m := make(map[EntityType]bool, len(ts))
	for _, t := range ts {
		m[t] = true
	}
	return m
}

var agents = types(TypePerson, TypeOrg, TypeHouse, TypeTribe, TypeCreature)
var persons = types(TypePerson)
var places = types(TypePlace)
var orgs = types(TypeOrg, TypeHouse, TypeTribe, TypePlace)

// Guards is the type-guard table for every canonical predicate. Relations
// whose subject or object type is disallowed are dropped (spec §4.4).
var Guards = map[Predicate]TypeGuard{
	PredParentOf:    {FamilyKinship, persons, persons},
	PredChildOf:     {FamilyKinship, persons, persons},
	PredSiblingOf:   {FamilyKinship, persons, persons},
	PredMarriedTo:   {FamilyKinship, persons, persons},
	PredSpouseOf:    {FamilyKinship, persons, persons},
	PredGrandparent: {FamilyKinship, persons, persons},
	PredAncestorOf:  {FamilyKinship, persons, persons},
	PredDescendant:  {FamilyKinship, persons, persons},
	PredCousinOf:    {FamilyKinship, persons, persons},
	PredUncleAuntOf: {FamilyKinship, persons, persons},

	PredWorksAt:   {FamilyEmployment, persons, orgs},
	PredEmploys:   {FamilyEmployment, orgs, persons},
	PredLeads:     {FamilyEmployment, agents, orgs},
	PredReportsTo: {FamilyEmployment, persons, agents},
	PredMemberOf:  {FamilyEmployment, agents, orgs},
	PredServesAs:  {FamilyEmployment, persons, types(TypeTitle)},
	PredCommands:  {FamilyEmployment, agents, agents},
	PredStudiesAt: {FamilyEmployment, persons, orgs},
	PredTeachesAt: {FamilyEmployment, persons, orgs},

	PredLocatedIn:    {FamilyLocation, types(TypePerson, TypeOrg, TypeItem, TypeEvent, TypeHouse, TypeTribe, TypeArtifact, TypeCreature), places},
	PredTraveledTo:   {FamilyLocation, agents, places},
	PredOriginatesIn: {FamilyLocation, agents, places},
	PredBornIn:       {FamilyLocation, persons, places},
	PredDiedIn:       {FamilyLocation, persons, places},
	PredContains:     {FamilyLocation, places, types(TypePerson, TypeOrg, TypeItem, TypePlace, TypeArtifact)},
	PredNear:         {FamilyLocation, places, places},

	PredCreates:    {FamilyCreation, agents, types(TypeItem, TypeWork, TypeArtifact, TypeSpell, TypeEvent)},
	PredDestroys:   {FamilyCreation, agents, types(TypeItem, TypePlace, TypeArtifact, TypeOrg)},
	PredBuilds:     {FamilyCreation, agents, types(TypeItem, TypePlace, TypeArtifact)},
	PredInventedBy: {FamilyCreation, types(TypeItem, TypeArtifact, TypeWork, TypeSpell), persons},
	PredAuthoredBy: {FamilyCreation, types(TypeWork), persons},

	PredOwns:      {FamilyOwnership, agents, types(TypeItem, TypePlace, TypeArtifact, TypeCreature)},
	PredOwnedBy:   {FamilyOwnership, types(TypeItem, TypePlace, TypeArtifact, TypeCreature), agents},
	PredWields:    {FamilyOwnership, persons, types(TypeItem, TypeArtifact)},
	PredGivesTo:   {FamilyOwnership, agents, agents},
	PredTakesFrom: {FamilyOwnership, agents, agents},
	PredSteals:    {FamilyOwnership, agents, agents},
	PredInherits:  {FamilyOwnership, persons, types(TypeItem, TypeArtifact, TypeTitle, TypePlace)},

	PredParticipatesIn: {FamilyEvent, agents, types(TypeEvent)},
	PredAttends:        {FamilyEvent, persons, types(TypeEvent)},
	PredFightsAgainst:  {FamilyEvent, agents, agents},
	PredDefeats:        {FamilyEvent, agents, agents},
	PredKills:          {FamilyEvent, agents, types(TypePerson, TypeCreature)},
	PredRescues:        {FamilyEvent, agents, agents},
	PredBetrays:        {FamilyEvent, persons, agents},
	PredAllies:         {FamilyEvent, agents, agents},
	PredMeets:          {FamilyEvent, agents, agents},

	PredSpeaksTo:  {FamilyCommunication, persons, persons},
	PredMentions:  {FamilyCommunication, persons, agents},
	PredReveals:   {FamilyCommunication, persons, types(TypePerson, TypeOrg, TypeItem, TypeEvent)},
	PredConceals:  {FamilyCommunication, persons, types(TypePerson, TypeOrg, TypeItem, TypeEvent)},
	PredPromises:  {FamilyCommunication, persons, persons},
	PredThreatens: {FamilyCommunication, persons, agents},
	PredAccuses:   {FamilyCommunication, persons, persons},

	PredEquals:    {FamilyComparison, nil, nil},
	PredSimilarTo: {FamilyComparison, nil, nil},
	PredRivalOf:   {FamilyComparison, agents, agents},
	PredOpposesOf: {FamilyComparison, agents, agents},

	PredCauses:   {FamilyCausation, nil, nil},
	PredEnables:  {FamilyCausation, nil, nil},
	PredPrevents: {FamilyCausation, nil, nil},

	PredPartOf:  {FamilyPartWhole, nil, nil},
	PredHasPart: {FamilyPartWhole, nil, nil},

	PredAliasOf:      {FamilyIdentity, nil, nil},
	PredTransformsTo: {FamilyIdentity, nil, nil},
	PredBecomes:      {FamilyIdentity, nil, nil},

	PredHasAbility: {FamilyAbility, persons, types(TypeAbility, TypeSpell)},
	PredCasts:      {FamilyAbility, persons, types(TypeSpell)},
	PredKnows:      {FamilyAbility, persons, types(TypeSpell, TypeAbility, TypePerson)},

	PredNeverMarried: {FamilyNegation, persons, persons},
	PredDoesNotOwn:   {FamilyNegation, agents, types(TypeItem, TypeArtifact)},

	PredLoves:  {FamilyEmotional, persons, agents},
	PredHates:  {FamilyEmotional, persons, agents},
	PredFears:  {FamilyEmotional, persons, agents},
	PredTrusts: {FamilyEmotional, persons, agents},
}

// symmetricPredicates never collapse (A,p,B) with (B,p,A) into one relation
// (spec §3 Relation invariant (iv), §4.4).
var symmetricPredicates = map[Predicate]bool{
	PredMarriedTo: true, PredSiblingOf: true, PredSpouseOf: true,
	PredCousinOf: true, PredAllies: true, PredRivalOf: true,
	PredEquals: true, PredSimilarTo: true, PredNear: true,
	PredMeets: true, PredNeverMarried: true, PredFightsAgainst: true,
}

// IsSymmetric reports whether p is a symmetric predicate (spec D1).
func IsSymmetric(p Predicate) bool {
	return symmetricPredicates[p]
}

// inversePairs maps a predicate to its semantic inverse. Per spec §9 this
// is recorded only as an enrichment hint (Relation.attrs["inverse_of"]);
// it is never used to merge relations.
var inversePairs = map[Predicate]Predicate{
	PredParentOf:   PredChildOf,
	PredChildOf:    PredParentOf,
	PredEmploys:    PredWorksAt,
	PredWorksAt:    PredEmploys,
	PredOwns:       PredOwnedBy,
	PredOwnedBy:    PredOwns,
	PredInventedBy: PredCreates,
	PredAuthoredBy: PredCreates,
}

// InverseOf returns the recorded inverse predicate, if any.
func InverseOf(p Predicate) (Predicate, bool) {
	inv, ok := inversePairs[p]
	return inv, ok
}

// canonicalAliases rewrites predicate synonyms while preserving direction
// (spec §4.4 "predicate canonicalization"). Inverse pairs like child_of /
// parent_of are intentionally NOT listed here — they stay distinct.
var canonicalAliases = map[string]Predicate{
	"heads":         PredLeads,
	"runs":          PredLeads,
	"rules":         PredLeads,
	"governs":       PredLeads,
	"employed_at":   PredWorksAt,
	"works_for":     PredWorksAt,
	"wed_to":        PredMarriedTo,
	"married":       PredMarriedTo,
	"wife_of":       PredSpouseOf,
	"husband_of":    PredSpouseOf,
	"fights":        PredFightsAgainst,
	"battles":       PredFightsAgainst,
	"slays":         PredKills,
	"kills_by":      PredKills,
	"travels_to":    PredTraveledTo,
	"arrives_at":    PredTraveledTo,
	"departs_from":  PredOriginatesIn,
	"lives_in":      PredLocatedIn,
	"resides_in":    PredLocatedIn,
	"belongs_to":    PredOwnedBy,
	"possesses":     PredOwns,
	"constructs":    PredCreates,
	"makes":         PredCreates,
	"tells":         PredSpeaksTo,
	"says_to":       PredSpeaksTo,
	"whispers_to":   PredSpeaksTo,
	"shouts_at":     PredSpeaksTo,
	"reports_to":    PredReportsTo,
	"serves_under":  PredReportsTo,
	"allied_with":   PredAllies,
	"friends_with":  PredAllies,
	"enemy_of":      PredRivalOf,
	"hostile_to":    PredOpposesOf,
	"caused_by":     PredCauses,
	"resulted_in":   PredCauses,
	"member":        PredMemberOf,
	"part_of_house": PredPartOf,
	"transforms":    PredTransformsTo,
	"turns_into":    PredTransformsTo,
}

// CanonicalPredicate resolves a raw predicate surface form to its
// canonical Predicate, or ("", false) if unrecognized by either the
// alias table or the guard table directly.
func CanonicalPredicate(raw string) (Predicate, bool) {
	if p, ok := canonicalAliases[raw]; ok {
		return p, true
	}
	p := Predicate(raw)
	if _, ok := Guards[p]; ok {
		return p, true
	}
	return "", false
}

// CheckTypeGuard reports whether subjType/objType satisfy pred's guard.
// A nil Subject/Object set in the guard means "any type is allowed".
func CheckTypeGuard(pred Predicate, subjType, objType EntityType) bool {
	g, ok := Guards[pred]
	if !ok {
		return false
	}
	if g.Subject != nil && !g.Subject[subjType] {
		return false
	}
	if g.Object != nil && !g.Object[objType] {
		return false
	}
	return true
}
