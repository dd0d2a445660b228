package pipeline

import (
	"sync"

	"github.com/storygraph/corpus/internal/resolve"
	"github.com/storygraph/corpus/internal/schema"
)

// Arena holds per-document mutable state: entity spans and the salience
// stack. Relations reference entities by id, never by pointer, so an
// Arena's contents never form cycles (SPEC_FULL §5 "Memory shape").
// Arenas are pooled with sync.Pool to cut GC pressure when many
// documents are processed concurrently.
type Arena struct {
	Spans    []schema.EntitySpan
	Salience *resolve.Stack
}

func newArena() *Arena {
	return &Arena{Spans: make([]schema.EntitySpan, 0, 64), Salience: resolve.NewStack()}
}

func (a *Arena) reset() {
	a.Spans = a.Spans[:0]
	a.Salience = resolve.NewStack()
}

var arenaPool = sync.Pool{New: func() any { return newArena() }}

// GetArena retrieves an Arena from the pool, ready for a fresh document.
func GetArena() *Arena {
	return arenaPool.Get().(*Arena)
}

// PutArena returns an Arena to the pool after a document finishes
// processing.
func PutArena(a *Arena) {
	a.reset()
	arenaPool.Put(a)
}
