package pipeline

import (
	"fmt"

	"github.com/storygraph/corpus/internal/schema"
)

// validateInput checks doc against SPEC_FULL §7 error kind 1 ("Input
// malformed — token offsets out of bounds, head index invalid, sentence
// ranges non-monotonic"). It is fatal per document: Process surfaces the
// first violation found as a PipelineError rather than guessing at
// recovery, since there is no safe way to extract from spans that don't
// describe the document they claim to.
func validateInput(doc *schema.ParseResponse) error {
	n := len(doc.Text)
	prevEnd := -1
	for _, sent := range doc.Sentences {
		if sent.Start < 0 || sent.End > n || sent.Start > sent.End {
			return fmt.Errorf("sentence %d: span [%d,%d) out of bounds for document of length %d", sent.Index, sent.Start, sent.End, n)
		}
		if sent.Start < prevEnd {
			return fmt.Errorf("sentence %d: start %d precedes end %d of previous sentence (non-monotonic)", sent.Index, sent.Start, prevEnd)
		}
		prevEnd = sent.End

		for _, tok := range sent.Tokens {
			if tok.Start < 0 || tok.End > n || tok.Start > tok.End {
				return fmt.Errorf("sentence %d token %d: span [%d,%d) out of bounds for document of length %d", sent.Index, tok.I, tok.Start, tok.End, n)
			}
			if tok.Start < sent.Start || tok.End > sent.End {
				return fmt.Errorf("sentence %d token %d: span [%d,%d) outside sentence span [%d,%d)", sent.Index, tok.I, tok.Start, tok.End, sent.Start, sent.End)
			}
			if tok.Head < 0 || tok.Head >= len(sent.Tokens) {
				return fmt.Errorf("sentence %d token %d: head index %d out of range [0,%d)", sent.Index, tok.I, tok.Head, len(sent.Tokens))
			}
		}
	}
	return nil
}
