package pipeline

import (
	"strings"

	"github.com/storygraph/corpus/internal/narrative"
	"github.com/storygraph/corpus/internal/relate"
	"github.com/storygraph/corpus/internal/schema"
	"github.com/storygraph/corpus/pkg/patternlib"
)

// extractDepRelations walks every verb token, looks its stem up in the
// narrative lexicon, and pairs a hit with its syntactic subject/object to
// produce a raw relation candidate (the dependency-parse extraction path
// feeding internal/relate). Both arguments must resolve
// to a known entity, directly or through the salience stack for
// pronouns, or the verb is skipped.
func extractDepRelations(doc *schema.ParseResponse, entities map[string]*schema.Entity, surfaceIndex map[string]string, lex *narrative.Lexicon, arena *Arena, stats *schema.Stats) []relate.RawRelation {
	if lex == nil {
		return nil
	}
	var out []relate.RawRelation

	for _, sent := range doc.Sentences {
		for _, tok := range sent.Tokens {
			if tok.POS != "VERB" {
				continue
			}
			vm, ok := lex.Lookup(strings.ToLower(tok.Lemma))
			if !ok {
				continue
			}

			subjTok, objTok := findArgs(sent, tok)
			if subjTok == nil || objTok == nil {
				continue
			}

			subjID, subjType, ok := resolveArgEntity(*subjTok, surfaceIndex, entities, arena, sent.Index, stats)
			if !ok {
				continue
			}
			objID, objType, ok := resolveArgEntity(*objTok, surfaceIndex, entities, arena, sent.Index, stats)
			if !ok {
				continue
			}

			out = append(out, relate.RawRelation{
				SubjID:      subjID,
				SubjType:    subjType,
				SubjSurface: subjTok.Text,
				PredRaw:     string(vm.Predicate),
				ObjID:       objID,
				ObjType:     objType,
				ObjSurface:  objTok.Text,
				Confidence:  0.6,
				Extractor:   schema.ExtractorDep,
				Evidence: schema.EvidenceSpan{
					DocID:         doc.DocID,
					SentenceIndex: sent.Index,
					Source:        schema.SourceRaw,
					Span:          schema.Span{Start: tok.Start, End: tok.End, Text: tok.Text},
				},
			})
		}
	}
	return out
}

// findArgs locates the nominal subject and object directly governed by
// verb within sent.
func findArgs(sent schema.Sentence, verb schema.Token) (subj, obj *schema.Token) {
	for i := range sent.Tokens {
		tok := &sent.Tokens[i]
		if tok.Head != verb.I || tok.I == verb.I {
			continue
		}
		switch tok.Dep {
		case "nsubj", "nsubjpass":
			subj = tok
		case "dobj", "pobj", "iobj":
			obj = tok
		}
	}
	return subj, obj
}

// resolveArgEntity resolves a dependency argument token to an entity id:
// directly through the surface index, or through the salience stack when
// the token is a pronoun. stats, if non-nil, records the coreference
// outcome for pronoun arguments (Stats.CorefOutcomes).
func resolveArgEntity(tok schema.Token, surfaceIndex map[string]string, entities map[string]*schema.Entity, arena *Arena, sentenceIdx int, stats *schema.Stats) (id string, t schema.EntityType, ok bool) {
	if tok.POS == "PRON" {
		res := arena.Salience.Resolve(tok.Text, tok.Start, sentenceIdx)
		if !res.IsResolved() {
			recordCorefOutcome(stats, "unresolved:"+string(res.Unresolved))
			return "", schema.TypeUnknown, false
		}
		e, found := entities[res.EntityID]
		if !found {
			recordCorefOutcome(stats, "unresolved:no_candidates")
			return "", schema.TypeUnknown, false
		}
		recordCorefOutcome(stats, "resolved:"+string(res.Method))
		return e.ID, e.Type, true
	}

	eid, found := surfaceIndex[schema.NormalizeCanonical(tok.Text)]
	if !found {
		return "", schema.TypeUnknown, false
	}
	e := entities[eid]
	return e.ID, e.Type, true
}

func recordCorefOutcome(stats *schema.Stats, key string) {
	if stats == nil {
		return
	}
	stats.CorefOutcomes[key]++
}

// parseDepShape splits a patternlib.DependencyPattern's DepShape
// "anchorDep:linkDep:argDep" into its three dependency labels. A shape
// describes a chain rooted at a known entity token: an anchor token the
// entity governs (dep==anchorDep), a link token the anchor governs
// (dep==linkDep), and an argument token the link governs (dep==argDep)
// resolving to the pattern's other entity. E.g. "appos:prep:pobj" walks
// "Aragorn, son of Arathorn" from Aragorn to "son" (appos) to "of"
// (prep) to "Arathorn" (pobj).
func parseDepShape(shape string) (anchorDep, linkDep, argDep string, ok bool) {
	parts := strings.Split(shape, ":")
	if len(parts) != 3 {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

// findChild returns the first token in sent directly governed by headIdx
// with the given dependency label.
func findChild(sent schema.Sentence, headIdx int, dep string) (schema.Token, bool) {
	for i := range sent.Tokens {
		tok := sent.Tokens[i]
		if tok.I == headIdx {
			continue
		}
		if tok.Head == headIdx && tok.Dep == dep {
			return tok, true
		}
	}
	return schema.Token{}, false
}

// familyExtractor maps a dependency pattern's predicate family to the
// fiction-domain extractor tag it's tagged with (spec §4.4's extractor
// priority table keeps these at the same low priority as regex/manual
// since they're heuristic, non-verb-governed extractions).
func familyExtractor(f schema.PredicateFamily) schema.Extractor {
	if f == schema.FamilyEvent {
		return schema.ExtractorFictionAction
	}
	return schema.ExtractorFictionFamily
}

// extractDependencyPatternRelations walks every known-entity token in the
// document looking for one of lib.Dependency's DepShape chains rooted at
// it (the dependency-pattern extraction path, distinct from
// extractDepRelations' verb-governed SVO path): an appositive/kinship
// construction like "Aragorn, son of Arathorn" yields a relation between
// the anchored entity and the chain's resolved argument entity.
func extractDependencyPatternRelations(doc *schema.ParseResponse, entities map[string]*schema.Entity, surfaceIndex map[string]string, lib *patternlib.Library) []relate.RawRelation {
	if lib == nil || len(lib.Dependency) == 0 {
		return nil
	}
	var out []relate.RawRelation

	for _, sent := range doc.Sentences {
		for i := range sent.Tokens {
			base := sent.Tokens[i]
			baseID, ok := surfaceIndex[schema.NormalizeCanonical(base.Text)]
			if !ok {
				continue
			}
			baseEnt := entities[baseID]
			if baseEnt == nil {
				continue
			}

			for _, dp := range lib.Dependency {
				anchorDep, linkDep, argDep, ok := parseDepShape(dp.DepShape)
				if !ok {
					continue
				}
				anchor, ok := findChild(sent, base.I, anchorDep)
				if !ok {
					continue
				}
				link, ok := findChild(sent, anchor.I, linkDep)
				if !ok {
					continue
				}
				arg, ok := findChild(sent, link.I, argDep)
				if !ok {
					continue
				}
				argID, ok := surfaceIndex[schema.NormalizeCanonical(arg.Text)]
				if !ok {
					continue
				}
				argEnt := entities[argID]
				if argEnt == nil || argEnt.ID == baseEnt.ID {
					continue
				}

				spanStart, spanEnd := anchor.Start, arg.End
				if spanEnd < spanStart {
					spanStart, spanEnd = spanEnd, spanStart
				}

				out = append(out, relate.RawRelation{
					SubjID:      argEnt.ID,
					SubjType:    argEnt.Type,
					SubjSurface: arg.Text,
					PredRaw:     dp.Predicate,
					ObjID:       baseEnt.ID,
					ObjType:     baseEnt.Type,
					ObjSurface:  base.Text,
					Confidence:  0.55,
					Extractor:   familyExtractor(dp.Family),
					Evidence: schema.EvidenceSpan{
						DocID:         doc.DocID,
						SentenceIndex: sent.Index,
						Source:        schema.SourceRule,
						Span:          schema.Span{Start: spanStart, End: spanEnd, Text: doc.Text[spanStart:spanEnd]},
					},
				})
			}
		}
	}
	return out
}
