package schema

// Stats is the audit summary returned alongside every extraction graph
// (SPEC_FULL §3, §7 "user-visible failure"), giving a caller visibility
// into what the pipeline did without requiring it to diff the graph.
type Stats struct {
	StageCounts         map[string]int `json:"stage_counts"`
	RejectionReasons    map[string]int `json:"rejection_reasons"`
	DedupRatio          float64        `json:"dedup_ratio"`
	TypeGuardViolations int            `json:"type_guard_violations"`
	CorefOutcomes       map[string]int `json:"coref_outcomes"`
}

// NewStats returns a Stats with all maps initialized, ready to accumulate.
func NewStats() *Stats {
	return &Stats{
		StageCounts:      map[string]int{},
		RejectionReasons: map[string]int{},
		CorefOutcomes:    map[string]int{},
	}
}
