package pipeline

import (
	"strings"

	"github.com/storygraph/corpus/internal/relate"
	"github.com/storygraph/corpus/internal/schema"
)

// extractDialogueRelations pairs each attributed quote with a directly
// addressed entity inside its text (spec's `is_vocative` signal: a
// single-word known-entity surface, matched case-insensitively, that forms
// a whole comma-separated segment of the quote, e.g. "Come with me,
// Naomi."), emitting a
// speaks_to relation from the resolved speaker to the addressee. Quotes
// without a resolved speaker, or with no addressee distinct from the
// speaker, yield nothing.
func extractDialogueRelations(doc *schema.ParseResponse, quotes []schema.QuoteMatch, speakers []schema.SpeakerCandidate, entities map[string]*schema.Entity, surfaceIndex map[string]string) []relate.RawRelation {
	var out []relate.RawRelation

	for i, q := range quotes {
		if i >= len(speakers) {
			break
		}
		sp := speakers[i]
		if sp.EntityID == "" {
			continue
		}
		speaker := entities[sp.EntityID]
		if speaker == nil {
			continue
		}

		addrID, addrSurface, ok := findVocativeAddressee(q.InnerText, surfaceIndex)
		if !ok || addrID == sp.EntityID {
			continue
		}
		addressee := entities[addrID]
		if addressee == nil {
			continue
		}

		out = append(out, relate.RawRelation{
			SubjID:      speaker.ID,
			SubjType:    speaker.Type,
			SubjSurface: speaker.Canonical,
			PredRaw:     string(schema.PredSpeaksTo),
			ObjID:       addressee.ID,
			ObjType:     addressee.Type,
			ObjSurface:  addrSurface,
			Confidence:  0.5,
			Extractor:   schema.ExtractorFictionDialogue,
			Evidence: schema.EvidenceSpan{
				DocID:  doc.DocID,
				Source: schema.SourceRule,
				Span:   schema.Span{Start: q.Start, End: q.End, Text: q.InnerText},
			},
		})
	}
	return out
}

// findVocativeAddressee looks for a known entity surface directly
// preceding a comma, or trailing the quote, within text — the vocative
// "Name," / "..., Name." shape.
func findVocativeAddressee(text string, surfaceIndex map[string]string) (id, surface string, ok bool) {
	trimmed := strings.TrimRight(strings.TrimSpace(text), ".!? ")
	parts := strings.Split(trimmed, ",")
	for _, part := range parts {
		candidate := strings.TrimSpace(part)
		if candidate == "" {
			continue
		}
		if strings.Contains(candidate, " ") {
			continue
		}
		if eid, found := surfaceIndex[schema.NormalizeCanonical(candidate)]; found {
			return eid, candidate, true
		}
	}
	return "", "", false
}
