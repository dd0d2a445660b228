package schema

// GrammaticalRole classifies how an entity's most recent mention
// functioned in its sentence, used to break coreference ties.
type GrammaticalRole string

const (
	RoleSubject GrammaticalRole = "subject"
	RoleObject  GrammaticalRole = "object"
	RoleOther   GrammaticalRole = "other"
)

// Number is grammatical number, used for pronoun agreement.
type Number string

const (
	NumberSingular Number = "singular"
	NumberPlural   Number = "plural"
	NumberUnknown  Number = "unknown"
)

// SalienceEntry tracks one entity's standing in the salience stack that
// internal/resolve maintains while walking a document (spec §4.2). It is
// per-document, discarded after the run.
type SalienceEntry struct {
	EntityID            string          `json:"entity_id"`
	Name                string          `json:"name"`
	Gender              Gender          `json:"gender"`
	Number              Number          `json:"number"`
	LastMentionPos       int             `json:"last_mention_pos"`
	LastMentionSentence  int             `json:"last_mention_sentence"`
	Salience             float64         `json:"salience"`
	GrammaticalRole      GrammaticalRole `json:"grammatical_role"`
	EntityType           EntityType      `json:"entity_type"`
}
