// Package pipeline wires the extraction core's stages together: quote
// detection, mention collection, evidence accumulation, entity
// materialization, pattern application, coreference resolution, relation
// extraction and normalization, and correction replay, into one
// per-document Process call (SPEC_FULL §5).
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/storygraph/corpus/internal/config"
	"github.com/storygraph/corpus/internal/dictionary"
	"github.com/storygraph/corpus/internal/entity"
	"github.com/storygraph/corpus/internal/evidence"
	"github.com/storygraph/corpus/internal/llmhint"
	"github.com/storygraph/corpus/internal/logging"
	"github.com/storygraph/corpus/internal/narrative"
	"github.com/storygraph/corpus/internal/override"
	"github.com/storygraph/corpus/internal/pattern"
	"github.com/storygraph/corpus/internal/quote"
	"github.com/storygraph/corpus/internal/relate"
	"github.com/storygraph/corpus/internal/schema"
	"github.com/storygraph/corpus/pkg/patternlib"
)

// Pipeline holds the shared, mostly-immutable resources a document's
// extraction run draws on: the alias dictionary, the narrative verb
// lexicon, and the learned-pattern library, which is the one resource
// concurrent documents write to (spec §5 "Shared-resource policy").
type Pipeline struct {
	Dict            *dictionary.Dictionary
	Lexicon         *narrative.Lexicon
	Patterns        *pattern.Library
	SurfacePatterns *patternlib.Library
	Config          *config.Config
	Log             logging.Logger
}

// New builds a Pipeline. A nil cfg loads Config from the environment; a
// nil log discards output; a nil patterns starts an empty library. surf
// may be nil, which simply skips the regex-extractor stage.
func New(dict *dictionary.Dictionary, lex *narrative.Lexicon, patterns *pattern.Library, surf *patternlib.Library, cfg *config.Config, log logging.Logger) *Pipeline {
	if cfg == nil {
		cfg = config.Load()
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	if patterns == nil {
		patterns = pattern.NewLibrary()
	}
	return &Pipeline{Dict: dict, Lexicon: lex, Patterns: patterns, SurfacePatterns: surf, Config: cfg, Log: log}
}

// Input is one document's extraction request.
type Input struct {
	Doc         *schema.ParseResponse
	Corrections []schema.Correction

	// LLMHint is an optional raw hint response (SPEC_FULL §4.7); empty
	// skips hint parsing entirely.
	LLMHint string
}

// Result is one document's extracted, corrected graph.
type Result struct {
	DocID      string
	Entities   map[string]*schema.Entity
	Relations  map[string]*schema.Relation
	Quotes     []schema.QuoteMatch
	Speakers   []schema.SpeakerCandidate
	Conflicts  []schema.Conflict
	Violations []relate.Violation
	Stats      *schema.Stats
}

// PipelineError reports which stage of Process failed for which document.
type PipelineError struct {
	Stage string
	DocID string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline: stage %s failed for doc %s: %v", e.Stage, e.DocID, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// Process runs the full extraction pipeline for one document.
func (p *Pipeline) Process(ctx context.Context, in Input) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	doc := in.Doc
	if err := ctx.Err(); err != nil {
		return nil, &PipelineError{Stage: "start", DocID: doc.DocID, Err: err}
	}
	if err := validateInput(doc); err != nil {
		return nil, &PipelineError{Stage: "validate", DocID: doc.DocID, Err: err}
	}

	arena := GetArena()
	defer PutArena(arena)

	quotes := quote.Detect(doc.Text)
	mentions := CollectMentions(doc, quotes)

	acc := evidence.New()
	for _, m := range mentions {
		acc.Observe(m, nerTypeFromTag(m.Token.Ent))
	}

	stats := schema.NewStats()
	stats.StageCounts["mentions"] = len(mentions)
	stats.StageCounts["signal_clusters"] = len(acc.Forms())

	now := time.Now()
	merged := entity.MergeAliases(acc.Forms())
	entities := make(map[string]*schema.Entity, len(merged))
	for _, sig := range merged {
		if first, second, ok := entity.SplitSignals(sig); ok {
			for _, half := range []*evidence.Signals{first, second} {
				ent := entity.Materialize(half, p.Patterns, p.Config.PrecisionMode, now)
				entities[ent.ID] = ent
				recordMaterialization(stats, ent)
			}
			continue
		}
		ent := entity.Materialize(sig, p.Patterns, p.Config.PrecisionMode, now)
		entities[ent.ID] = ent
		recordMaterialization(stats, ent)
	}
	stats.StageCounts["entities_materialized"] = len(entities)

	surfaceIndex := buildSurfaceIndex(entities)
	registerMentions(doc, entities, surfaceIndex, arena)

	lookup := func(surface string) (string, bool) {
		id, ok := surfaceIndex[schema.NormalizeCanonical(surface)]
		return id, ok
	}
	speakers := make([]schema.SpeakerCandidate, 0, len(quotes))
	for _, q := range quotes {
		cand := quote.AttributeOne(doc.Text, q, lookup, arena.Salience)
		if cand.EntityID != "" {
			if e, ok := entities[cand.EntityID]; ok {
				arena.Salience.Register(cand.EntityID, e.Canonical, e.Type, e.Gender, schema.NumberSingular, schema.RoleSubject, q.End, sentenceIndexAt(doc, q.End))
			}
		}
		speakers = append(speakers, cand)
		arena.Salience.DecayQuote()
	}
	speakers = quote.ApplyTurnTaking(speakers)
	stats.StageCounts["quotes"] = len(quotes)

	raws := extractDepRelations(doc, entities, surfaceIndex, p.Lexicon, arena, stats)
	raws = append(raws, extractSurfaceRelations(doc, entities, surfaceIndex, p.SurfacePatterns)...)
	raws = append(raws, extractDependencyPatternRelations(doc, entities, surfaceIndex, p.SurfacePatterns)...)
	raws = append(raws, extractDialogueRelations(doc, quotes, speakers, entities, surfaceIndex)...)
	stats.StageCounts["raw_relations"] = len(raws)

	if in.LLMHint != "" {
		parsed, err := llmhint.ParseResponse(in.LLMHint)
		if err != nil {
			p.Log.Warn("llm hint parse failed", logging.F("doc_id", doc.DocID), logging.Err(err))
		} else {
			resolveLabel := func(label string) (string, schema.EntityType, bool) {
				id, ok := surfaceIndex[schema.NormalizeCanonical(label)]
				if !ok {
					return "", schema.TypeUnknown, false
				}
				return id, entities[id].Type, true
			}
			raws = append(raws, llmhint.ToRawRelations(parsed, doc.DocID, resolveLabel)...)
		}
	}

	canonicalName := func(id string) string {
		if e, ok := entities[id]; ok {
			return e.Canonical
		}
		return id
	}
	relations, violations := relate.Normalize(raws, canonicalName)
	stats.StageCounts["relations_final"] = len(relations)
	stats.TypeGuardViolations = len(violations)
	if len(raws) > 0 {
		stats.DedupRatio = 1 - float64(len(relations))/float64(len(raws))
	}

	relationsByID := make(map[string]*schema.Relation, len(relations))
	for _, r := range relations {
		relationsByID[r.Key()] = r
	}

	graph := &override.Graph{Entities: entities, Relations: relationsByID}
	conflicts := override.Replay(graph, in.Corrections)
	stats.StageCounts["conflicts"] = len(conflicts)

	if p.Config.DynamicPatterns {
		p.learnFrom(in.Corrections)
	}

	finalEntities := entities
	if p.Config.EntityFilter {
		finalEntities = make(map[string]*schema.Entity, len(entities))
		for id, e := range entities {
			if e.Rejected {
				continue
			}
			finalEntities[id] = e
		}
	}

	return &Result{
		DocID:      doc.DocID,
		Entities:   finalEntities,
		Relations:  relationsByID,
		Quotes:     quotes,
		Speakers:   speakers,
		Conflicts:  conflicts,
		Violations: violations,
		Stats:      stats,
	}, nil
}

// recordMaterialization tallies an entity's Quality Filter outcome into
// stats.RejectionReasons (SPEC_FULL §3's audit Stats block).
func recordMaterialization(stats *schema.Stats, e *schema.Entity) {
	if e.QualityDecision == nil {
		return
	}
	for _, rule := range e.QualityDecision.FailedRules {
		stats.RejectionReasons[rule]++
	}
}

// learnFrom mines a learned pattern from each correction and merges hits
// into the shared library concurrently; Library.Merge serializes the
// actual writes (spec §5 "Shared-resource policy", spec §4.6 "Mining").
func (p *Pipeline) learnFrom(corrections []schema.Correction) {
	var wg sync.WaitGroup
	for _, c := range corrections {
		learned, ok := pattern.MineOne(c)
		if !ok {
			continue
		}
		wg.Add(1)
		go func(lp *schema.LearnedPattern) {
			defer wg.Done()
			p.Patterns.Merge(lp)
		}(learned)
	}
	wg.Wait()
}

// RunAll processes multiple documents concurrently, bounded by
// GOMAXPROCS, and returns a result/error slice aligned with inputs. One
// document's error never aborts the others.
func (p *Pipeline) RunAll(ctx context.Context, inputs []Input) ([]*Result, []error) {
	results := make([]*Result, len(inputs))
	errs := make([]error, len(inputs))

	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	var wg sync.WaitGroup
	for i, in := range inputs {
		i, in := i, in
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			res, err := p.Process(ctx, in)
			results[i] = res
			errs[i] = err
		}()
	}
	wg.Wait()
	return results, errs
}
