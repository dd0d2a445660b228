package pipeline

import (
	"strings"

	"github.com/storygraph/corpus/internal/schema"
)

// CollectMentions walks doc's sentences in order and builds one
// MentionContext per noun-phrase head token (SPEC_FULL §4.8). quotes must
// already be detected over doc.Text so IsInDialogue can be computed.
func CollectMentions(doc *schema.ParseResponse, quotes []schema.QuoteMatch) []schema.MentionContext {
	var out []schema.MentionContext

	for _, sent := range doc.Sentences {
		for i, tok := range sent.Tokens {
			if !schema.IsMentionHeadCandidate(tok) {
				continue
			}

			ctx := schema.MentionContext{
				Token:         tok,
				SentenceIndex: sent.Index,
				IsVerbSubject: tok.Dep == "nsubj" || tok.Dep == "nsubjpass",
				IsVerbObject:  tok.Dep == "dobj" || tok.Dep == "iobj" || tok.Dep == "pobj",
				IsVocative:    isVocative(sent, i),
				IsInDialogue:  insideAnyQuote(tok, quotes),
			}

			if headTok, ok := sent.TokenAt(tok.Head); ok && headTok.I != tok.I {
				ctx.VerbLemma = headTok.Lemma
			}

			if i > 0 {
				prev := sent.Tokens[i-1]
				word := strings.ToLower(strings.Trim(prev.Text, "."))
				if title, ok := schema.MatchTitlePrefix(word); ok {
					ctx.HasTitle = true
					ctx.Title = title
				} else {
					// Not a title: keep the word so the Evidence Accumulator
					// can match it against its role-word set.
					ctx.Title = word
				}
			}

			out = append(out, ctx)
		}
	}

	return out
}

// isVocative applies SPEC_FULL §4.8's heuristic: a trailing comma after the
// token combined with sentence-initial position.
func isVocative(sent schema.Sentence, tokIdx int) bool {
	if tokIdx != 0 {
		return false
	}
	if tokIdx+1 >= len(sent.Tokens) {
		return false
	}
	next := sent.Tokens[tokIdx+1]
	return next.Text == ","
}

func insideAnyQuote(tok schema.Token, quotes []schema.QuoteMatch) bool {
	for _, q := range quotes {
		if tok.Start >= q.Start && tok.End <= q.End {
			return true
		}
	}
	return false
}
