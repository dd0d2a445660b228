// Package patternlib loads the dependency- and surface-pattern JSON
// libraries the extraction core consumes as read-only data (spec §6
// "Pattern libraries (consumed)"). A family whitelist narrows which
// patterns are kept; a malformed regex drops only that one pattern,
// never the whole load (spec §7 error kind 2).
package patternlib

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/storygraph/corpus/internal/logging"
	"github.com/storygraph/corpus/internal/schema"
)

// DefaultFamilies is the family whitelist applied when the caller passes
// a nil/empty whitelist.
var DefaultFamilies = []schema.PredicateFamily{
	schema.FamilyLocation,
	schema.FamilyPartWhole,
	schema.FamilyEmployment,
	schema.FamilyCreation,
	schema.FamilyOwnership,
	schema.FamilyEvent,
	schema.FamilyKinship,
}

// DependencyPattern matches a fixed dependency-tree shape around a verb
// to a predicate, independent of surface wording.
type DependencyPattern struct {
	ID        string                 `json:"id"`
	DepShape  string                 `json:"dep_shape"`
	Predicate string                 `json:"predicate"`
	Family    schema.PredicateFamily `json:"family"`
	Examples  []string               `json:"examples"`
}

// SurfacePattern matches a compiled regex against raw sentence text.
type SurfacePattern struct {
	ID        string                 `json:"id"`
	Regex     string                 `json:"regex"`
	Predicate string                 `json:"predicate"`
	Family    schema.PredicateFamily `json:"family"`
	LemmaForm string                 `json:"lemma_form"`
	Examples  []string               `json:"examples"`

	compiled *regexp.Regexp
}

// Compiled returns the pattern's compiled regex.
func (p *SurfacePattern) Compiled() *regexp.Regexp { return p.compiled }

// Library is the loaded, family-filtered pattern set.
type Library struct {
	Dependency []DependencyPattern
	Surface    []SurfacePattern
}

// LoadFamilies reads dependency_patterns.json and surface_patterns.json
// from dir, keeping only patterns whose family is in whitelist (nil uses
// DefaultFamilies). A regex that fails to compile, or a predicate
// CanonicalPredicate doesn't recognize, drops that one pattern with a
// logged warning rather than aborting the load.
func LoadFamilies(dir string, whitelist []schema.PredicateFamily) (*Library, error) {
	if len(whitelist) == 0 {
		whitelist = DefaultFamilies
	}
	allowed := make(map[schema.PredicateFamily]bool, len(whitelist))
	for _, f := range whitelist {
		allowed[f] = true
	}

	lib := &Library{}

	depPatterns, err := loadDependencyPatterns(filepath.Join(dir, "dependency_patterns.json"))
	if err != nil {
		return nil, err
	}
	for _, p := range depPatterns {
		if !allowed[p.Family] {
			continue
		}
		if _, ok := schema.CanonicalPredicate(p.Predicate); !ok {
			logging.MustGlobal().Warn("dependency pattern: unknown predicate, dropped",
				logging.F("pattern_id", p.ID), logging.F("predicate", p.Predicate))
			continue
		}
		lib.Dependency = append(lib.Dependency, p)
	}

	surfPatterns, err := loadSurfacePatterns(filepath.Join(dir, "surface_patterns.json"))
	if err != nil {
		return nil, err
	}
	for _, p := range surfPatterns {
		if !allowed[p.Family] {
			continue
		}
		if _, ok := schema.CanonicalPredicate(p.Predicate); !ok {
			logging.MustGlobal().Warn("surface pattern: unknown predicate, dropped",
				logging.F("pattern_id", p.ID), logging.F("predicate", p.Predicate))
			continue
		}
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			logging.MustGlobal().Warn("surface pattern: regex failed to compile, dropped",
				logging.F("pattern_id", p.ID), logging.Err(err))
			continue
		}
		p.compiled = re
		lib.Surface = append(lib.Surface, p)
	}

	return lib, nil
}

func loadDependencyPatterns(path string) ([]DependencyPattern, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("patternlib: read %s: %w", path, err)
	}
	var patterns []DependencyPattern
	if err := json.Unmarshal(data, &patterns); err != nil {
		return nil, fmt.Errorf("patternlib: decode %s: %w", path, err)
	}
	return patterns, nil
}

func loadSurfacePatterns(path string) ([]SurfacePattern, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("patternlib: read %s: %w", path, err)
	}
	var patterns []SurfacePattern
	if err := json.Unmarshal(data, &patterns); err != nil {
		return nil, fmt.Errorf("patternlib: decode %s: %w", path, err)
	}
	return patterns, nil
}

// MatchSurface runs every loaded surface pattern against text, returning
// the first match's predicate and lemma form, in load order.
func (l *Library) MatchSurface(text string) (pred string, lemmaForm string, ok bool) {
	for _, p := range l.Surface {
		if p.compiled == nil {
			continue
		}
		if p.compiled.MatchString(text) {
			return p.Predicate, p.LemmaForm, true
		}
	}
	return "", "", false
}
