package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/storygraph/corpus/internal/schema"
)

func newTempStore(t *testing.T) *JSONFileStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.json")
	s, err := Open(path)
	require.NoError(t, err)
	return s
}

func TestOpenMissingFileStartsEmpty(t *testing.T) {
	s := newTempStore(t)
	entities, err := s.ListEntities()
	require.NoError(t, err)
	require.Empty(t, entities)
}

func TestUpsertAndGetEntityRoundTrips(t *testing.T) {
	s := newTempStore(t)
	e := &schema.Entity{ID: "e1", Canonical: "Aldric", Type: schema.TypePerson}
	require.NoError(t, s.UpsertEntity(e))

	got, err := s.GetEntity("e1")
	require.NoError(t, err)
	require.Equal(t, "Aldric", got.Canonical)

	reopened, err := Open(s.path)
	require.NoError(t, err)
	got2, err := reopened.GetEntity("e1")
	require.NoError(t, err)
	require.Equal(t, e.Canonical, got2.Canonical)
}

func TestGetEntityMissingReturnsErrNotFound(t *testing.T) {
	s := newTempStore(t)
	_, err := s.GetEntity("nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteEntityRemovesIt(t *testing.T) {
	s := newTempStore(t)
	require.NoError(t, s.UpsertEntity(&schema.Entity{ID: "e1", Canonical: "Aldric"}))
	require.NoError(t, s.DeleteEntity("e1"))
	_, err := s.GetEntity("e1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteEntityMissingReturnsErrNotFound(t *testing.T) {
	s := newTempStore(t)
	require.ErrorIs(t, s.DeleteEntity("nope"), ErrNotFound)
}

func TestAddCorrectionAssignsIDAndTimestamp(t *testing.T) {
	s := newTempStore(t)
	c, err := s.AddCorrection(schema.Correction{Type: schema.CorrectionEntityType, EntityID: "e1"})
	require.NoError(t, err)
	require.NotEmpty(t, c.ID)
	require.False(t, c.Timestamp.IsZero())

	all, err := s.ListCorrections()
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestAddLearnedPatternAssignsID(t *testing.T) {
	s := newTempStore(t)
	p, err := s.AddLearnedPattern(&schema.LearnedPattern{TextPattern: "X is the father of Y"})
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)

	all, err := s.ListLearnedPatterns()
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestExportImportRoundTrips(t *testing.T) {
	src := newTempStore(t)
	require.NoError(t, src.UpsertEntity(&schema.Entity{ID: "e1", Canonical: "Aldric"}))

	data, err := src.Export()
	require.NoError(t, err)

	dst := newTempStore(t)
	require.NoError(t, dst.Import(data))

	got, err := dst.GetEntity("e1")
	require.NoError(t, err)
	require.Equal(t, "Aldric", got.Canonical)
}

func TestCloseIsNoop(t *testing.T) {
	s := newTempStore(t)
	require.NoError(t, s.Close())
}
