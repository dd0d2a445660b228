package pipeline

import (
	"strings"

	"github.com/storygraph/corpus/internal/resolve"
	"github.com/storygraph/corpus/internal/schema"
)

// registerMentions walks doc's tokens in sentence order, registering
// every mention resolvable to an already-materialized entity into the
// arena's salience stack and decaying at each sentence boundary (spec
// §4.2). The first time a PERSON entity is seen it also gets its gender
// inferred from the preceding title and a short window of context.
func registerMentions(doc *schema.ParseResponse, entities map[string]*schema.Entity, surfaceIndex map[string]string, arena *Arena) {
	for _, sent := range doc.Sentences {
		for i, tok := range sent.Tokens {
			if tok.POS == "PRON" {
				continue
			}
			id, ok := surfaceIndex[schema.NormalizeCanonical(tok.Text)]
			if !ok {
				continue
			}
			e := entities[id]
			if e == nil {
				continue
			}

			if e.Type == schema.TypePerson && e.Gender == schema.GenderUnknown {
				title := ""
				if i > 0 {
					prev := sent.Tokens[i-1]
					if t, ok := schema.MatchTitlePrefix(strings.ToLower(strings.Trim(prev.Text, "."))); ok {
						title = t
					}
				}
				e.Gender = resolve.InferGender(e.Canonical, title, windowBefore(doc.Text, tok.Start, 80))
			}

			arena.Salience.Register(id, e.Canonical, e.Type, e.Gender, schema.NumberSingular, roleFor(tok), tok.Start, sent.Index)
		}
		arena.Salience.DecaySentence()
	}
}

// roleFor maps a token's dependency label to the grammatical role the
// salience stack uses to weight it.
func roleFor(tok schema.Token) schema.GrammaticalRole {
	switch tok.Dep {
	case "nsubj", "nsubjpass":
		return schema.RoleSubject
	case "dobj", "iobj", "pobj":
		return schema.RoleObject
	default:
		return schema.RoleOther
	}
}

func windowBefore(text string, pos, n int) string {
	start := pos - n
	if start < 0 {
		start = 0
	}
	if pos > len(text) {
		pos = len(text)
	}
	return text[start:pos]
}
