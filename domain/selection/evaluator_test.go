package selection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_BasicAccounting(t *testing.T) {
	truth := NewSupport([]int{1, 2, 3})
	m := Score(Result{2, 3, 4}, truth, 3)

	assert.Equal(t, 2, m.TruePositives)
	assert.Equal(t, 1, m.FalsePositives)
	assert.Equal(t, 1, m.FalseNegatives)
	assert.Equal(t, 3, m.Selected)
	assert.InDelta(t, 2.0/3.0, m.Power, 1e-12)
	assert.InDelta(t, 1.0/3.0, m.FDP, 1e-12)
}

func TestScore_EmptySelection(t *testing.T) {
	truth := NewSupport([]int{5, 9})
	m := Score(Result{}, truth, 2)

	assert.Equal(t, 0, m.TruePositives)
	assert.Equal(t, 0, m.FalsePositives)
	assert.Equal(t, 2, m.FalseNegatives)
	assert.Equal(t, 0.0, m.Power)
	assert.Equal(t, 0.0, m.FDP, "empty selection must yield FDP 0, not NaN")
	assert.False(t, math.IsNaN(m.FDP))
}

func TestScore_DuplicatesCollapse(t *testing.T) {
	truth := NewSupport([]int{1})
	m := Score(Result{1, 1, 7, 7, 7}, truth, 1)

	assert.Equal(t, 1, m.TruePositives)
	assert.Equal(t, 1, m.FalsePositives)
	assert.Equal(t, 2, m.Selected)
	assert.InDelta(t, 0.5, m.FDP, 1e-12)
}

func TestScore_RelabelingInvariance(t *testing.T) {
	// Shift every index by the same offset in both the selection and
	// the support; all five outputs must be unchanged.
	sel := Result{2, 3, 4, 10}
	truth := NewSupport([]int{1, 2, 3})
	base := Score(sel, truth, 3)

	const offset = 137
	shifted := make(Result, len(sel))
	for i, idx := range sel {
		shifted[i] = idx + offset
	}
	shiftedTruth := make(Support)
	for idx := range truth {
		shiftedTruth[idx+offset] = true
	}

	assert.Equal(t, base, Score(shifted, shiftedTruth, 3))
}

func TestScore_PerfectSelection(t *testing.T) {
	truth := NewSupport([]int{0, 1, 2, 3})
	m := Score(Result{3, 2, 1, 0}, truth, 4)

	assert.Equal(t, 4, m.TruePositives)
	assert.Equal(t, 0, m.FalsePositives)
	assert.Equal(t, 0, m.FalseNegatives)
	assert.Equal(t, 1.0, m.Power)
	assert.Equal(t, 0.0, m.FDP)
}

func TestNewSupport_SizeMatchesDistinctIndices(t *testing.T) {
	s := NewSupport([]int{4, 4, 8, 15})
	assert.Len(t, s, 3)
	assert.ElementsMatch(t, []int{4, 8, 15}, s.Indices())
}
