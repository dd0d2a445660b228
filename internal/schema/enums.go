// Package schema defines the extraction graph's data model: entities,
// mentions, relations, quotes, salience entries, corrections, and learned
// patterns. All identifiers are opaque, stable, deterministic strings
// derived from canonical form and type.
package schema

import "strings"

// EntityType is a closed enum of recognized entity categories.
type EntityType string

const (
	TypePerson    EntityType = "PERSON"
	TypeOrg       EntityType = "ORG"
	TypePlace     EntityType = "PLACE"
	TypeDate      EntityType = "DATE"
	TypeTime      EntityType = "TIME"
	TypeWork      EntityType = "WORK"
	TypeItem      EntityType = "ITEM"
	TypeEvent     EntityType = "EVENT"
	TypeRace      EntityType = "RACE"
	TypeSpecies   EntityType = "SPECIES"
	TypeHouse     EntityType = "HOUSE"
	TypeTribe     EntityType = "TRIBE"
	TypeTitle     EntityType = "TITLE"
	TypeArtifact  EntityType = "ARTIFACT"
	TypeCreature  EntityType = "CREATURE"
	TypeAbility   EntityType = "ABILITY"
	TypeSpell     EntityType = "SPELL"
	TypeUnknown   EntityType = "UNKNOWN"
)

// ValidTypes is the closed set of recognized entity types.
var ValidTypes = map[EntityType]bool{
	TypePerson: true, TypeOrg: true, TypePlace: true, TypeDate: true,
	TypeTime: true, TypeWork: true, TypeItem: true, TypeEvent: true,
	TypeRace: true, TypeSpecies: true, TypeHouse: true, TypeTribe: true,
	TypeTitle: true, TypeArtifact: true, TypeCreature: true,
	TypeAbility: true, TypeSpell: true,
}

// IsValidType reports whether s names a recognized entity type.
func IsValidType(s string) bool {
	return ValidTypes[EntityType(strings.ToUpper(s))]
}

// Tier is the quality class assigned to an entity.
type Tier string

const (
	TierA Tier = "A" // core, high evidence
	TierB Tier = "B" // supporting
	TierC Tier = "C" // candidate
)

// Gender is used for pronoun/coreference agreement.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderNeutral Gender = "neutral"
	GenderUnknown Gender = "unknown"
)

// EvidenceSource identifies which pipeline stage produced an evidence span.
type EvidenceSource string

const (
	SourceRaw     EvidenceSource = "RAW"
	SourceRule    EvidenceSource = "RULE"
	SourceLLMHint EvidenceSource = "LLM_HINT"
)

// Extractor identifies which upstream component proposed a relation.
type Extractor string

const (
	ExtractorDep             Extractor = "dep"
	ExtractorRegex           Extractor = "regex"
	ExtractorFictionDialogue Extractor = "fiction-dialogue"
	ExtractorFictionAction   Extractor = "fiction-action"
	ExtractorFictionFamily   Extractor = "fiction-family"
	ExtractorManual          Extractor = "manual"

	// ExtractorLLMHint tags relations converted from an external LLM-assisted
	// hint (see internal/llmhint); it is never privileged over dep/regex.
	ExtractorLLMHint Extractor = "llm-hint"
)

// extractorPriority orders extractors for merge-representative selection:
// dep > regex > everything else, per spec §4.4 merge semantics.
var extractorPriority = map[Extractor]int{
	ExtractorDep:             3,
	ExtractorRegex:           2,
	ExtractorFictionDialogue: 1,
	ExtractorFictionAction:   1,
	ExtractorFictionFamily:   1,
	ExtractorManual:          1,
	ExtractorLLMHint:         0,
}

// Priority returns the merge priority of an extractor: higher wins when
// choosing which extractor tag survives a dedup merge.
func (e Extractor) Priority() int {
	if p, ok := extractorPriority[e]; ok {
		return p
	}
	return 0
}

// CorrectionType is a closed enum of user-correction kinds.
type CorrectionType string

const (
	CorrectionEntityType      CorrectionType = "entity_type"
	CorrectionEntityMerge     CorrectionType = "entity_merge"
	CorrectionEntitySplit     CorrectionType = "entity_split"
	CorrectionEntityReject    CorrectionType = "entity_reject"
	CorrectionEntityRestore   CorrectionType = "entity_restore"
	CorrectionAliasAdd        CorrectionType = "alias_add"
	CorrectionAliasRemove     CorrectionType = "alias_remove"
	CorrectionCanonicalChange CorrectionType = "canonical_change"
	CorrectionRelationAdd     CorrectionType = "relation_add"
	CorrectionRelationRemove  CorrectionType = "relation_remove"
	CorrectionRelationEdit    CorrectionType = "relation_edit"
)

// PatternType is a closed enum of learned-pattern categories.
type PatternType string

const (
	PatternEntityType       PatternType = "entity_type"
	PatternEntityName       PatternType = "entity_name"
	PatternRelation         PatternType = "relation"
	PatternConfidenceAdjust PatternType = "confidence"
)
