package patternlib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/storygraph/corpus/internal/schema"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadFamiliesFiltersByWhitelist(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "dependency_patterns.json", `[
		{"id":"d1","dep_shape":"nsubj>VERB>dobj","predicate":"located_in","family":"location","examples":["X is in Y"]},
		{"id":"d2","dep_shape":"nsubj>VERB>dobj","predicate":"parent_of","family":"kinship","examples":["X is father of Y"]}
	]`)
	writeFile(t, dir, "surface_patterns.json", `[]`)

	lib, err := LoadFamilies(dir, []schema.PredicateFamily{schema.FamilyLocation})
	require.NoError(t, err)
	require.Len(t, lib.Dependency, 1)
	require.Equal(t, "d1", lib.Dependency[0].ID)
}

func TestLoadFamiliesDropsUnknownPredicate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "dependency_patterns.json", `[
		{"id":"d1","dep_shape":"nsubj>VERB>dobj","predicate":"not_a_real_predicate","family":"location","examples":[]}
	]`)
	writeFile(t, dir, "surface_patterns.json", `[]`)

	lib, err := LoadFamilies(dir, []schema.PredicateFamily{schema.FamilyLocation})
	require.NoError(t, err)
	require.Empty(t, lib.Dependency)
}

func TestLoadFamiliesDropsBadRegexButKeepsRest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "dependency_patterns.json", `[]`)
	writeFile(t, dir, "surface_patterns.json", `[
		{"id":"s1","regex":"(unclosed","predicate":"located_in","family":"location","lemma_form":"in","examples":[]},
		{"id":"s2","regex":"lives in ([A-Z][a-z]+)","predicate":"located_in","family":"location","lemma_form":"live","examples":["He lives in Arden"]}
	]`)

	lib, err := LoadFamilies(dir, []schema.PredicateFamily{schema.FamilyLocation})
	require.NoError(t, err)
	require.Len(t, lib.Surface, 1)
	require.Equal(t, "s2", lib.Surface[0].ID)
}

func TestLoadFamiliesMissingFilesYieldsEmptyLibrary(t *testing.T) {
	dir := t.TempDir()
	lib, err := LoadFamilies(dir, nil)
	require.NoError(t, err)
	require.Empty(t, lib.Dependency)
	require.Empty(t, lib.Surface)
}

func TestMatchSurfaceReturnsFirstMatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "dependency_patterns.json", `[]`)
	writeFile(t, dir, "surface_patterns.json", `[
		{"id":"s1","regex":"lives in ([A-Z][a-z]+)","predicate":"located_in","family":"location","lemma_form":"live","examples":[]}
	]`)

	lib, err := LoadFamilies(dir, []schema.PredicateFamily{schema.FamilyLocation})
	require.NoError(t, err)

	pred, lemma, ok := lib.MatchSurface("Aldric lives in Arden.")
	require.True(t, ok)
	require.Equal(t, "located_in", pred)
	require.Equal(t, "live", lemma)

	_, _, ok = lib.MatchSurface("nothing matches here")
	require.False(t, ok)
}
