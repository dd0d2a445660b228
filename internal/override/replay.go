// Package override replays persisted corrections against a freshly
// extracted graph so user edits survive re-extraction (spec §4.5).
package override

import (
	"sort"

	"github.com/storygraph/corpus/internal/schema"
)

// Graph is the minimal mutable view the Override Manager needs. The
// pipeline's in-memory graph satisfies this directly.
type Graph struct {
	Entities  map[string]*schema.Entity
	Relations map[string]*schema.Relation
}

// findEntity implements spec §4.5's matching policy: by id, then exact
// canonical name, then any alias.
func (g *Graph) findEntity(id, canonical string) (*schema.Entity, bool) {
	if id != "" {
		if e, ok := g.Entities[id]; ok {
			return e, true
		}
	}
	for _, e := range g.Entities {
		if e.Canonical == canonical {
			return e, true
		}
	}
	for _, e := range g.Entities {
		for _, a := range e.Aliases {
			if a == canonical {
				return e, true
			}
		}
	}
	return nil, false
}

// Replay applies corrections in ascending timestamp order (spec §4.5
// "Ordering") and returns the conflicts encountered along the way.
// Replay mutates g in place and never panics: unmatched or malformed
// corrections are recorded as conflicts, not errors.
func Replay(g *Graph, corrections []schema.Correction) []schema.Conflict {
	sorted := make([]schema.Correction, len(corrections))
	copy(sorted, corrections)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp.Before(sorted[j].Timestamp) })

	var conflicts []schema.Conflict
	for _, c := range sorted {
		if conflict := applyOne(g, c); conflict != nil {
			conflicts = append(conflicts, *conflict)
		}
	}
	return conflicts
}

func applyOne(g *Graph, c schema.Correction) *schema.Conflict {
	switch c.Type {
	case schema.CorrectionEntityType:
		return applyEntityType(g, c)
	case schema.CorrectionEntityMerge:
		return applyEntityMerge(g, c)
	case schema.CorrectionEntityReject:
		return applyEntityToggleRejected(g, c, true)
	case schema.CorrectionEntityRestore:
		return applyEntityToggleRejected(g, c, false)
	case schema.CorrectionAliasAdd:
		return applyAliasAdd(g, c)
	case schema.CorrectionAliasRemove:
		return applyAliasRemove(g, c)
	case schema.CorrectionCanonicalChange:
		return applyCanonicalChange(g, c)
	case schema.CorrectionRelationAdd:
		return applyRelationAdd(g, c)
	case schema.CorrectionRelationRemove:
		return applyRelationRemove(g, c)
	case schema.CorrectionRelationEdit:
		return applyRelationEdit(g, c)
	case schema.CorrectionEntitySplit:
		// entity_split is never replayed: split outcomes are unstable
		// under re-extraction (spec §4.5).
		return &schema.Conflict{CorrectionID: c.ID, Reason: schema.ConflictUnsupported, Detail: "entity_split is not replayable"}
	default:
		return &schema.Conflict{CorrectionID: c.ID, Reason: schema.ConflictUnsupported, Detail: string(c.Type)}
	}
}

func canonicalFromAfter(after map[string]any) string {
	if v, ok := after["canonical"].(string); ok {
		return v
	}
	return ""
}

func applyEntityType(g *Graph, c schema.Correction) *schema.Conflict {
	e, ok := g.findEntity(c.EntityID, canonicalFromAfter(c.Before))
	if !ok {
		return &schema.Conflict{CorrectionID: c.ID, Reason: schema.ConflictTargetMissing, Detail: c.EntityID}
	}
	if t, ok := c.After["type"].(string); ok {
		e.Type = schema.EntityType(t)
	}
	e.ManualOverride = true
	return nil
}

func applyEntityMerge(g *Graph, c schema.Correction) *schema.Conflict {
	if len(c.EntityIDs) == 0 {
		return &schema.Conflict{CorrectionID: c.ID, Reason: schema.ConflictTargetMissing}
	}
	primary, ok := g.Entities[c.EntityIDs[0]]
	if !ok {
		return &schema.Conflict{CorrectionID: c.ID, Reason: schema.ConflictTargetMissing, Detail: c.EntityIDs[0]}
	}

	absorbed := map[string]bool{}
	for _, id := range c.EntityIDs[1:] {
		other, ok := g.Entities[id]
		if !ok {
			continue
		}
		absorbed[id] = true
		primary.Aliases = unionStrings(primary.Aliases, append(other.Aliases, other.Canonical))
		delete(g.Entities, id)
	}

	for _, r := range g.Relations {
		if absorbed[r.Subj] {
			r.Subj = primary.ID
		}
		if absorbed[r.Obj] {
			r.Obj = primary.ID
		}
	}
	primary.ManualOverride = true
	return nil
}

func applyEntityToggleRejected(g *Graph, c schema.Correction, rejected bool) *schema.Conflict {
	e, ok := g.findEntity(c.EntityID, canonicalFromAfter(c.Before))
	if !ok {
		return &schema.Conflict{CorrectionID: c.ID, Reason: schema.ConflictTargetMissing, Detail: c.EntityID}
	}
	e.Rejected = rejected
	e.ManualOverride = true
	return nil
}

func applyAliasAdd(g *Graph, c schema.Correction) *schema.Conflict {
	e, ok := g.findEntity(c.EntityID, canonicalFromAfter(c.Before))
	if !ok {
		return &schema.Conflict{CorrectionID: c.ID, Reason: schema.ConflictTargetMissing, Detail: c.EntityID}
	}
	alias, _ := c.After["alias"].(string)
	e.Aliases = unionStrings(e.Aliases, []string{alias})
	e.ManualOverride = true
	return nil
}

func applyAliasRemove(g *Graph, c schema.Correction) *schema.Conflict {
	e, ok := g.findEntity(c.EntityID, canonicalFromAfter(c.Before))
	if !ok {
		return &schema.Conflict{CorrectionID: c.ID, Reason: schema.ConflictTargetMissing, Detail: c.EntityID}
	}
	alias, _ := c.After["alias"].(string)
	out := make([]string, 0, len(e.Aliases))
	for _, a := range e.Aliases {
		if a != alias {
			out = append(out, a)
		}
	}
	e.Aliases = out
	e.ManualOverride = true
	return nil
}

func applyCanonicalChange(g *Graph, c schema.Correction) *schema.Conflict {
	e, ok := g.findEntity(c.EntityID, canonicalFromAfter(c.Before))
	if !ok {
		return &schema.Conflict{CorrectionID: c.ID, Reason: schema.ConflictTargetMissing, Detail: c.EntityID}
	}
	newCanonical, _ := c.After["canonical"].(string)
	if newCanonical == "" {
		return &schema.Conflict{CorrectionID: c.ID, Reason: schema.ConflictUnsupported, Detail: "missing after.canonical"}
	}
	e.Aliases = unionStrings(e.Aliases, []string{e.Canonical})
	e.Canonical = newCanonical
	e.ManualOverride = true
	return nil
}

func applyRelationAdd(g *Graph, c schema.Correction) *schema.Conflict {
	subj, _ := c.After["subj"].(string)
	pred, _ := c.After["pred"].(string)
	obj, _ := c.After["obj"].(string)
	if subj == "" || obj == "" {
		return &schema.Conflict{CorrectionID: c.ID, Reason: schema.ConflictTargetMissing, Detail: "relation_add missing endpoint"}
	}
	if _, ok := g.Entities[subj]; !ok {
		return &schema.Conflict{CorrectionID: c.ID, Reason: schema.ConflictTargetMissing, Detail: "subj " + subj}
	}
	if _, ok := g.Entities[obj]; !ok {
		return &schema.Conflict{CorrectionID: c.ID, Reason: schema.ConflictTargetMissing, Detail: "obj " + obj}
	}
	key := schema.CanonicalKey(subj, schema.Predicate(pred), obj)
	if _, exists := g.Relations[key]; exists {
		return &schema.Conflict{CorrectionID: c.ID, Reason: schema.ConflictAlreadyApplied, Detail: key}
	}
	g.Relations[key] = &schema.Relation{
		ID: key, Subj: subj, Pred: schema.Predicate(pred), Obj: obj,
		Confidence: 1.0, Extractor: schema.ExtractorManual,
		Evidence: []schema.EvidenceSpan{{Source: schema.SourceRaw}},
	}
	return nil
}

func applyRelationRemove(g *Graph, c schema.Correction) *schema.Conflict {
	if c.RelationID != "" {
		if _, ok := g.Relations[c.RelationID]; ok {
			delete(g.Relations, c.RelationID)
			return nil
		}
	}
	subj, _ := c.Before["subj"].(string)
	pred, _ := c.Before["pred"].(string)
	obj, _ := c.Before["obj"].(string)
	key := schema.CanonicalKey(subj, schema.Predicate(pred), obj)
	if _, ok := g.Relations[key]; ok {
		delete(g.Relations, key)
		return nil
	}
	return &schema.Conflict{CorrectionID: c.ID, Reason: schema.ConflictTargetMissing, Detail: c.RelationID}
}

func applyRelationEdit(g *Graph, c schema.Correction) *schema.Conflict {
	r, ok := g.Relations[c.RelationID]
	if !ok {
		return &schema.Conflict{CorrectionID: c.ID, Reason: schema.ConflictTargetMissing, Detail: c.RelationID}
	}
	if pred, ok := c.After["pred"].(string); ok && pred != "" {
		r.Pred = schema.Predicate(pred)
	}
	if conf, ok := c.After["confidence"].(float64); ok {
		r.Confidence = conf
	}
	return nil
}

func unionStrings(a, b []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(a)+len(b))
	for _, s := range append(append([]string{}, a...), b...) {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
