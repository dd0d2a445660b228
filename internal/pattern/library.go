package pattern

import (
	"sync"

	"github.com/storygraph/corpus/internal/schema"
)

// Library holds the learned-pattern set, keyed by signature for O(1)
// merge lookups (spec §4.6 "Deduplication"). It is the one mutable shared
// resource documents processed concurrently write to, so writes are
// serialized with mu (spec §5 "Shared-resource policy").
type Library struct {
	mu          sync.Mutex
	bySignature map[string]*schema.LearnedPattern
	order       []string
}

// NewLibrary returns an empty pattern library.
func NewLibrary() *Library {
	return &Library{bySignature: map[string]*schema.LearnedPattern{}}
}

// Merge adds a freshly mined pattern to the library. If a pattern with the
// same signature already exists, source corrections are unioned and
// confidence is raised by 0.05 up to a 0.95 cap; otherwise the pattern is
// inserted as-is.
func (l *Library) Merge(p *schema.LearnedPattern) *schema.LearnedPattern {
	l.mu.Lock()
	defer l.mu.Unlock()
	sig := p.Signature()
	if existing, ok := l.bySignature[sig]; ok {
		existing.SourceCorrections = unionStrings(existing.SourceCorrections, p.SourceCorrections)
		existing.Confidence = minF(existing.Confidence+0.05, 0.95)
		return existing
	}
	l.bySignature[sig] = p
	l.order = append(l.order, sig)
	return p
}

// Validate records a positive application outcome: confidence rises by
// 0.05 (cap 0.95).
func (l *Library) Validate(p *schema.LearnedPattern) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p.Stats.Validated++
	p.Confidence = minF(p.Confidence+0.05, 0.95)
}

// Reject records a negative application outcome: confidence drops by 0.1
// and the pattern deactivates below 0.3.
func (l *Library) Reject(p *schema.LearnedPattern) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p.Stats.Rejected++
	p.Confidence -= 0.1
	if p.Confidence < 0.3 {
		p.Active = false
	}
}

// Active returns all patterns with confidence >= 0.5 and Active set, in
// insertion order, per spec §4.6 "Application".
func (l *Library) Active() []*schema.LearnedPattern {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*schema.LearnedPattern, 0, len(l.order))
	for _, sig := range l.order {
		p := l.bySignature[sig]
		if p.Active && p.Confidence >= 0.5 {
			out = append(out, p)
		}
	}
	return out
}

// All returns every pattern in the library, active or not, in insertion
// order — used for persistence round-trips.
func (l *Library) All() []*schema.LearnedPattern {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*schema.LearnedPattern, 0, len(l.order))
	for _, sig := range l.order {
		out = append(out, l.bySignature[sig])
	}
	return out
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
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
