package llmhint

import (
	"strings"

	"github.com/storygraph/corpus/internal/relate"
	"github.com/storygraph/corpus/internal/schema"
)

// EntityResolver maps a hint's free-text entity label to the already
// materialized entity it refers to. ToRawRelations drops any relation
// whose subject or object doesn't resolve — hints never mint entities of
// their own, they only annotate ones the core pipeline already promoted.
type EntityResolver func(label string) (id string, entityType schema.EntityType, ok bool)

// ToRawRelations converts a parsed hint result into relate.RawRelation
// values tagged source=LLM_HINT / extractor=llm-hint, so they flow through
// internal/relate's ordinary type-guard and dedup path alongside
// dep/regex/dialogue extractor output, never specially privileged.
func ToRawRelations(result ExtractionResult, docID string, resolve EntityResolver) []relate.RawRelation {
	out := make([]relate.RawRelation, 0, len(result.Relations))
	for _, r := range result.Relations {
		subjID, subjType, ok := resolve(r.Subject)
		if !ok {
			continue
		}
		objID, objType, ok := resolve(r.Object)
		if !ok {
			continue
		}

		pred, ok := schema.CanonicalPredicate(strings.ToLower(r.RelationType))
		if !ok {
			pred, ok = schema.CanonicalPredicate(strings.ToLower(strings.ReplaceAll(r.Verb, " ", "_")))
			if !ok {
				continue
			}
		}

		out = append(out, relate.RawRelation{
			SubjID:      subjID,
			SubjType:    subjType,
			SubjSurface: r.Subject,
			PredRaw:     string(pred),
			ObjID:       objID,
			ObjType:     objType,
			ObjSurface:  r.Object,
			Confidence:  r.Confidence,
			Extractor:   schema.ExtractorLLMHint,
			Qualifiers: &schema.Qualifiers{
				Manner: r.Manner,
				Place:  r.Location,
				Time:   r.Time,
			},
			Evidence: schema.EvidenceSpan{
				DocID:  docID,
				Source: schema.SourceLLMHint,
				Span:   schema.Span{Text: r.SourceSentence},
			},
		})
	}
	return out
}
