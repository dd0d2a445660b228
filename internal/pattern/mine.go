// Package pattern mines LearnedPatterns from corrections, merges them by
// signature, and applies the active set to newly extracted entities before
// the Quality Filter runs (spec §4.6).
package pattern

import (
	"regexp"
	"strings"

	"github.com/storygraph/corpus/internal/schema"
)

var curatedTemplates = []*regexp.Regexp{
	regexp.MustCompile(`^Kingdom of .+$`),
	regexp.MustCompile(`^House of .+$`),
	regexp.MustCompile(`^The .+$`),
	regexp.MustCompile(`^.+ Empire$`),
}

var (
	appositiveDropRe = regexp.MustCompile(`^(.+?),\s+the\s+.+$`)
	parentageDropRe  = regexp.MustCompile(`^(.+?)\s+(?:son|daughter)\s+of\s+.+$`)
	gerundRe         = regexp.MustCompile(`^[A-Z][a-z]+ing$`)
	allLowerSingleRe = regexp.MustCompile(`^[a-z]+$`)
	roleDescriptorRe = regexp.MustCompile(`(?i)^the\s+\w+$`)
)

// MineOne extracts at most one LearnedPattern from a single correction, per
// spec §4.6's per-category template matchers. Corrections that don't match
// any template produce nothing.
func MineOne(c schema.Correction) (*schema.LearnedPattern, bool) {
	switch c.Type {
	case schema.CorrectionEntityType:
		return mineEntityType(c)
	case schema.CorrectionCanonicalChange:
		return mineCanonicalChange(c)
	case schema.CorrectionEntityReject:
		return mineEntityReject(c)
	case schema.CorrectionEntityRestore:
		return mineEntityRestore(c)
	default:
		return nil, false
	}
}

func mineEntityType(c schema.Correction) (*schema.LearnedPattern, bool) {
	canonical, _ := c.Before["canonical"].(string)
	if canonical == "" {
		canonical, _ = c.After["canonical"].(string)
	}
	beforeType, _ := c.Before["type"].(string)
	afterType, _ := c.After["type"].(string)
	if canonical == "" || afterType == "" {
		return nil, false
	}

	for _, tmpl := range curatedTemplates {
		if tmpl.MatchString(canonical) {
			p := &schema.LearnedPattern{
				Type:              schema.PatternEntityType,
				TextPattern:       tmpl.String(),
				Condition:         beforeType,
				Action:            schema.PatternAction{SetType: schema.EntityType(afterType)},
				Confidence:        0.7,
				Active:            true,
				SourceCorrections: []string{c.ID},
			}
			return p, true
		}
	}
	return nil, false
}

func mineCanonicalChange(c schema.Correction) (*schema.LearnedPattern, bool) {
	before, _ := c.Before["canonical"].(string)
	after, _ := c.After["canonical"].(string)
	if before == "" || after == "" {
		return nil, false
	}

	if m := appositiveDropRe.FindStringSubmatch(before); m != nil && m[1] == after {
		return &schema.LearnedPattern{
			Type:              schema.PatternEntityName,
			TextPattern:       appositiveDropRe.String(),
			Action:            schema.PatternAction{RewriteCanonical: true},
			Confidence:        0.8,
			Active:            true,
			SourceCorrections: []string{c.ID},
		}, true
	}
	if m := parentageDropRe.FindStringSubmatch(before); m != nil && m[1] == after {
		return &schema.LearnedPattern{
			Type:              schema.PatternEntityName,
			TextPattern:       parentageDropRe.String(),
			Action:            schema.PatternAction{RewriteCanonical: true},
			Confidence:        0.75,
			Active:            true,
			SourceCorrections: []string{c.ID},
		}, true
	}
	return nil, false
}

func mineEntityReject(c schema.Correction) (*schema.LearnedPattern, bool) {
	canonical, _ := c.Before["canonical"].(string)
	if canonical == "" {
		return nil, false
	}
	entityType, _ := c.Before["type"].(string)

	if gerundRe.MatchString(canonical) {
		return &schema.LearnedPattern{
			Type:              schema.PatternEntityType,
			TextPattern:       gerundRe.String(),
			Condition:         entityType,
			Action:            schema.PatternAction{Reject: true},
			Confidence:        0.6,
			Active:            true,
			SourceCorrections: []string{c.ID},
		}, true
	}
	if !strings.Contains(canonical, " ") && allLowerSingleRe.MatchString(canonical) {
		return &schema.LearnedPattern{
			Type:              schema.PatternEntityType,
			TextPattern:       allLowerSingleRe.String(),
			Condition:         entityType,
			Action:            schema.PatternAction{Reject: true},
			Confidence:        0.65,
			Active:            true,
			SourceCorrections: []string{c.ID},
		}, true
	}
	return nil, false
}

// mineEntityRestore handles a user restoring an entity the Quality Filter
// had rejected. When the restored candidate is role-descriptor shaped
// ("the Elder", "the Widow" — RuleRoleDescriptor's own template), it
// mines a confidence-adjust pattern (spec §4.6) that sets the confidence
// of future candidates matching the shape to 0.6. entity.Materialize
// still runs the Quality Filter after the pattern, so such a candidate
// is still rejected; the pattern changes its confidence, not the verdict.
func mineEntityRestore(c schema.Correction) (*schema.LearnedPattern, bool) {
	canonical, _ := c.Before["canonical"].(string)
	if canonical == "" {
		canonical, _ = c.After["canonical"].(string)
	}
	if canonical == "" || !roleDescriptorRe.MatchString(canonical) {
		return nil, false
	}
	entityType, _ := c.Before["type"].(string)
	return &schema.LearnedPattern{
		Type:              schema.PatternConfidenceAdjust,
		TextPattern:       roleDescriptorRe.String(),
		Condition:         entityType,
		Action:            schema.PatternAction{SetConfidence: 0.6},
		Confidence:        0.6,
		Active:            true,
		SourceCorrections: []string{c.ID},
	}, true
}
