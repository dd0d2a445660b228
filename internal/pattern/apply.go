package pattern

import "github.com/storygraph/corpus/internal/schema"

// ApplyResult reports what, if anything, a pattern did to an entity.
type ApplyResult struct {
	Rejected bool
	Pattern  *schema.LearnedPattern
}

// Apply runs the library's active patterns (confidence >= 0.5) against e,
// first-match-wins, before the Quality Filter sees it (spec §4.6
// "Application"). A matching pattern's effect is applied directly to e and
// recorded via attrs.patternModified; a Reject action instead reports
// Rejected without mutating e further.
func Apply(lib *Library, e *schema.Entity) ApplyResult {
	if lib == nil {
		return ApplyResult{}
	}
	for _, p := range lib.Active() {
		if p.Condition != "" && p.Condition != string(e.Type) {
			continue
		}
		matched, rewritten := matches(p, e.Canonical)
		if !matched {
			continue
		}

		switch {
		case p.Action.Reject:
			lib.mu.Lock()
			p.Stats.Applied++
			lib.mu.Unlock()
			return ApplyResult{Rejected: true, Pattern: p}
		case p.Action.SetType != "":
			e.Type = p.Action.SetType
		case p.Action.RewriteCanonical:
			if rewritten != "" {
				e.Canonical = rewritten
			}
		case p.Action.SetConfidence != 0:
			e.Confidence = clamp01(p.Action.SetConfidence)
		}

		lib.mu.Lock()
		p.Stats.Applied++
		lib.mu.Unlock()
		e.Attrs["patternModified"] = true
		e.Attrs["patternID"] = p.ID
		return ApplyResult{Pattern: p}
	}
	return ApplyResult{}
}

func matches(p *schema.LearnedPattern, canonical string) (matched bool, rewritten string) {
	re, ok := compiledCache[p.TextPattern]
	if !ok {
		return false, ""
	}
	switch p.Type {
	case schema.PatternEntityType, schema.PatternConfidenceAdjust:
		return re.MatchString(canonical), ""
	case schema.PatternEntityName:
		m := re.FindStringSubmatch(canonical)
		if m == nil {
			return false, ""
		}
		if len(m) > 1 {
			return true, m[1]
		}
		return true, ""
	default:
		return false, ""
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
