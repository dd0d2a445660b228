package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/storygraph/corpus/internal/schema"
)

// JSONFileStore is a Storer backed by one JSON document on disk, guarded
// by a mutex the way the teacher's sqlite-backed store guarded its
// *sql.DB for concurrent WASM callbacks. Every mutating call flushes the
// whole document; this trades write-amplification for a persistence
// layer simple enough to audit and diff in source control.
type JSONFileStore struct {
	mu   sync.RWMutex
	path string
	doc  Document
}

// Open loads path into a JSONFileStore, or starts an empty document if
// path doesn't exist yet.
func Open(path string) (*JSONFileStore, error) {
	s := &JSONFileStore{
		path: path,
		doc: Document{
			Entities:  map[string]*schema.Entity{},
			Relations: map[string]*schema.Relation{},
		},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", path, err)
	}
	if s.doc.Entities == nil {
		s.doc.Entities = map[string]*schema.Entity{}
	}
	if s.doc.Relations == nil {
		s.doc.Relations = map[string]*schema.Relation{}
	}
	return s, nil
}

// flush serializes the document and writes it to path. Callers must hold
// s.mu for writing.
func (s *JSONFileStore) flush() error {
	s.doc.Version++
	s.doc.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", s.path, err)
	}
	return nil
}

func (s *JSONFileStore) UpsertEntity(e *schema.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Entities[e.ID] = e
	return s.flush()
}

func (s *JSONFileStore) GetEntity(id string) (*schema.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.doc.Entities[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func (s *JSONFileStore) DeleteEntity(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doc.Entities[id]; !ok {
		return ErrNotFound
	}
	delete(s.doc.Entities, id)
	return s.flush()
}

func (s *JSONFileStore) ListEntities() ([]*schema.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*schema.Entity, 0, len(s.doc.Entities))
	for _, e := range s.doc.Entities {
		out = append(out, e)
	}
	return out, nil
}

func (s *JSONFileStore) UpsertRelation(r *schema.Relation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Relations[r.Key()] = r
	return s.flush()
}

func (s *JSONFileStore) GetRelation(id string) (*schema.Relation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.doc.Relations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

func (s *JSONFileStore) DeleteRelation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doc.Relations[id]; !ok {
		return ErrNotFound
	}
	delete(s.doc.Relations, id)
	return s.flush()
}

func (s *JSONFileStore) ListRelations() ([]*schema.Relation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*schema.Relation, 0, len(s.doc.Relations))
	for _, r := range s.doc.Relations {
		out = append(out, r)
	}
	return out, nil
}

// AddCorrection appends c to the correction log, assigning it an id and
// timestamp if the caller left them zero.
func (s *JSONFileStore) AddCorrection(c schema.Correction) (schema.Correction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now()
	}
	s.doc.Corrections = append(s.doc.Corrections, c)
	if err := s.flush(); err != nil {
		return schema.Correction{}, err
	}
	return c, nil
}

func (s *JSONFileStore) ListCorrections() ([]schema.Correction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]schema.Correction, len(s.doc.Corrections))
	copy(out, s.doc.Corrections)
	return out, nil
}

// AddLearnedPattern appends p to the learned-pattern set, assigning it an
// id if the caller left it empty.
func (s *JSONFileStore) AddLearnedPattern(p *schema.LearnedPattern) (*schema.LearnedPattern, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.doc.LearnedPatterns = append(s.doc.LearnedPatterns, p)
	if err := s.flush(); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *JSONFileStore) ListLearnedPatterns() ([]*schema.LearnedPattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*schema.LearnedPattern, len(s.doc.LearnedPatterns))
	copy(out, s.doc.LearnedPatterns)
	return out, nil
}

// Export serializes the whole document, for backup or transfer.
func (s *JSONFileStore) Export() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.MarshalIndent(s.doc, "", "  ")
}

// Import replaces the document wholesale and flushes it to disk.
func (s *JSONFileStore) Import(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("store: import: %w", err)
	}
	s.doc = doc
	return s.flush()
}

// Close is a no-op: JSONFileStore holds no open resources between calls.
func (s *JSONFileStore) Close() error { return nil }
