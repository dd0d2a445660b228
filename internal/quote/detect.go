// Package quote detects dialogue spans in narrative text and attributes
// each to a speaker (spec §4.3).
package quote

import (
	"regexp"
	"sort"

	"github.com/storygraph/corpus/internal/schema"
)

var (
	doubleQuoteRe = regexp.MustCompile(`"([^"\\]|\\.)*"`)
	smartQuoteRe  = regexp.MustCompile(`“[^”]*”`)
	singleQuoteRe = regexp.MustCompile(`'([^'\\]|\\.)*'`)
)

// minSingleQuoteInnerLen is spec §4.3's length gate that keeps a single
// quote from matching a bare apostrophe.
const minSingleQuoteInnerLen = 10

// Detect finds every dialogue span in text using three non-overlapping
// patterns (ASCII double, typographic, length-gated single), first match
// wins on span collision, and returns matches sorted by start position.
func Detect(text string) []schema.QuoteMatch {
	var candidates []schema.QuoteMatch

	for _, loc := range doubleQuoteRe.FindAllStringIndex(text, -1) {
		candidates = append(candidates, build(text, loc[0], loc[1], schema.QuoteStyleDouble))
	}
	for _, loc := range smartQuoteRe.FindAllStringIndex(text, -1) {
		candidates = append(candidates, build(text, loc[0], loc[1], schema.QuoteStyleSmart))
	}
	for _, loc := range singleQuoteRe.FindAllStringIndex(text, -1) {
		inner := text[loc[0]+1 : loc[1]-1]
		if len(inner) < minSingleQuoteInnerLen {
			continue
		}
		candidates = append(candidates, build(text, loc[0], loc[1], schema.QuoteStyleSingle))
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Start < candidates[j].Start })

	var result []schema.QuoteMatch
	lastEnd := -1
	for _, c := range candidates {
		if c.Start < lastEnd {
			continue // overlaps a higher-priority earlier match; first-match wins
		}
		result = append(result, c)
		lastEnd = c.End
	}
	return result
}

func build(text string, start, end int, style schema.QuoteStyle) schema.QuoteMatch {
	innerStart, innerEnd := start+1, end-1
	if innerEnd < innerStart {
		innerEnd = innerStart
	}
	// smart quotes are multi-byte runes (3 bytes each in UTF-8), so the
	// naive +1/-1 byte trim used for ASCII/single quotes would mis-slice;
	// recompute using rune widths for that style.
	if style == schema.QuoteStyleSmart {
		innerStart = start + len("“")
		innerEnd = end - len("”")
		if innerEnd < innerStart {
			innerEnd = innerStart
		}
	}
	return schema.QuoteMatch{
		FullSpan:  schema.Span{Start: start, End: end, Text: text[start:end]},
		InnerText: text[innerStart:innerEnd],
		Start:     start,
		End:       end,
		Style:     style,
	}
}
