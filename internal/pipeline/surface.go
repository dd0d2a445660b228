package pipeline

import (
	"github.com/storygraph/corpus/internal/relate"
	"github.com/storygraph/corpus/internal/schema"
	"github.com/storygraph/corpus/pkg/patternlib"
)

// extractSurfaceRelations runs the loaded regex pattern library against
// each sentence's raw text. A sentence only yields a candidate when two
// distinct entities from surfaceIndex appear in it, one on either side of
// the match start, matching the `regex` extractor described in spec §1
// and the pattern-library-malformed recovery in §7 (a pattern that never
// compiled is simply absent from lib.Surface and so never matches here).
func extractSurfaceRelations(doc *schema.ParseResponse, entities map[string]*schema.Entity, surfaceIndex map[string]string, lib *patternlib.Library) []relate.RawRelation {
	if lib == nil {
		return nil
	}
	var out []relate.RawRelation

	for _, sent := range doc.Sentences {
		pred, _, ok := lib.MatchSurface(sent.Text)
		if !ok {
			continue
		}

		subjTok, objTok := nearestEntityPair(sent, surfaceIndex)
		if subjTok == nil || objTok == nil {
			continue
		}
		subjID := surfaceIndex[schema.NormalizeCanonical(subjTok.Text)]
		objID := surfaceIndex[schema.NormalizeCanonical(objTok.Text)]
		subj, objE := entities[subjID], entities[objID]
		if subj == nil || objE == nil || subjID == objID {
			continue
		}

		out = append(out, relate.RawRelation{
			SubjID:      subj.ID,
			SubjType:    subj.Type,
			SubjSurface: subjTok.Text,
			PredRaw:     pred,
			ObjID:       objE.ID,
			ObjType:     objE.Type,
			ObjSurface:  objTok.Text,
			Confidence:  0.45,
			Extractor:   schema.ExtractorRegex,
			Evidence: schema.EvidenceSpan{
				DocID:         doc.DocID,
				SentenceIndex: sent.Index,
				Source:        schema.SourceRaw,
				Span:          schema.Span{Start: sent.Start, End: sent.End, Text: sent.Text},
			},
		})
	}
	return out
}

// nearestEntityPair returns the first two distinct known-entity tokens in
// sent, in sentence order.
func nearestEntityPair(sent schema.Sentence, surfaceIndex map[string]string) (first, second *schema.Token) {
	for i := range sent.Tokens {
		tok := &sent.Tokens[i]
		if _, ok := surfaceIndex[schema.NormalizeCanonical(tok.Text)]; !ok {
			continue
		}
		if first == nil {
			first = tok
		} else if tok.Text != first.Text {
			second = tok
			break
		}
	}
	return first, second
}
