// Package store persists the extraction graph: entities, relations,
// corrections, and learned patterns, as a single versioned document
// (spec §6 "Persistence"). JSONFileStore is the reference implementation.
package store

import (
	"errors"
	"time"

	"github.com/storygraph/corpus/internal/schema"
)

// ErrNotFound is returned when a lookup by id finds nothing.
var ErrNotFound = errors.New("store: not found")

// Document is the full persisted state for one corpus: every entity,
// relation, correction ever applied, and every pattern learned from
// those corrections.
type Document struct {
	Version         int                         `json:"version"`
	Entities        map[string]*schema.Entity   `json:"entities"`
	Relations       map[string]*schema.Relation `json:"relations"`
	Corrections     []schema.Correction         `json:"corrections"`
	LearnedPatterns []*schema.LearnedPattern    `json:"learned_patterns"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

// Storer is the persistence interface graphctl and any future
// service front-end depend on, so a different backing store can replace
// JSONFileStore without touching callers.
type Storer interface {
	UpsertEntity(e *schema.Entity) error
	GetEntity(id string) (*schema.Entity, error)
	DeleteEntity(id string) error
	ListEntities() ([]*schema.Entity, error)

	UpsertRelation(r *schema.Relation) error
	GetRelation(id string) (*schema.Relation, error)
	DeleteRelation(id string) error
	ListRelations() ([]*schema.Relation, error)

	AddCorrection(c schema.Correction) (schema.Correction, error)
	ListCorrections() ([]schema.Correction, error)

	AddLearnedPattern(p *schema.LearnedPattern) (*schema.LearnedPattern, error)
	ListLearnedPatterns() ([]*schema.LearnedPattern, error)

	Export() ([]byte, error)
	Import(data []byte) error
	Close() error
}
