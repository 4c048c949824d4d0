// Package selection holds the accounting model for variable-selection
// benchmarks: which columns a method picked, which were truly nonzero,
// and the power/false-discovery arithmetic connecting the two.
package selection

// Result is an ordered set of design-matrix column indices returned by
// a selection method for one configuration (a Lasso penalty value, or
// one knockoff target-FDR level). Upstream callers do not guarantee
// ordering or deduplication; scoring treats it as a set.
type Result []int

// Support is the set of column indices with truly nonzero coefficients.
type Support map[int]bool

// NewSupport builds a Support from a list of indices.
func NewSupport(indices []int) Support {
	s := make(Support, len(indices))
	for _, idx := range indices {
		s[idx] = true
	}
	return s
}

// Indices returns the support as an unordered index slice.
func (s Support) Indices() []int {
	out := make([]int, 0, len(s))
	for idx := range s {
		out = append(out, idx)
	}
	return out
}

// TrialMetrics scores one Result against the true support.
type TrialMetrics struct {
	TruePositives  int
	FalsePositives int
	FalseNegatives int
	Selected       int     // distinct selected indices
	Power          float64 // TP / k
	FDP            float64 // FP / max(Selected, 1)
}

// AggregateMetrics is the mean of TrialMetrics across Monte-Carlo
// trials at one target-FDR level.
type AggregateMetrics struct {
	TargetFDR    float64
	Power        float64 // mean power across trials
	EmpiricalFDR float64 // mean FDP across trials
	MeanSelected float64 // mean selection size across trials
	Trials       int
}
