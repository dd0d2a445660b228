package pipeline

import (
	"strings"

	"github.com/storygraph/corpus/internal/schema"
)

// buildSurfaceIndex maps every entity's normalized canonical form and
// aliases to its id, for O(1) surface -> entity lookups during
// coreference, relation extraction, and quote attribution.
func buildSurfaceIndex(entities map[string]*schema.Entity) map[string]string {
	idx := make(map[string]string, len(entities)*2)
	for id, e := range entities {
		idx[schema.NormalizeCanonical(e.Canonical)] = id
		for _, a := range e.Aliases {
			key := schema.NormalizeCanonical(a)
			if _, exists := idx[key]; !exists {
				idx[key] = id
			}
		}
	}
	return idx
}

// nerTypeFromTag converts a raw NER tag into a validated EntityType,
// falling back to Unknown for unrecognized or absent tags.
func nerTypeFromTag(ent string) schema.EntityType {
	if ent == "" || !schema.IsValidType(ent) {
		return schema.TypeUnknown
	}
	return schema.EntityType(strings.ToUpper(ent))
}

// sentenceIndexAt returns the index of the sentence containing character
// position pos, falling back to the last sentence's index (or 0 for an
// empty document) when pos falls past every known span.
func sentenceIndexAt(doc *schema.ParseResponse, pos int) int {
	for _, sent := range doc.Sentences {
		if pos >= sent.Start && pos <= sent.End {
			return sent.Index
		}
	}
	if n := len(doc.Sentences); n > 0 {
		return doc.Sentences[n-1].Index
	}
	return 0
}
