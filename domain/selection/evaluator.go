package selection

// Score compares one selection against the true support and returns the
// confusion counts plus derived rates. Pure function: duplicates in the
// selection collapse, and k (the true support size) fixes the power
// denominator even when the support map disagrees.
//
// An empty selection yields FDP = 0, not NaN: the max(|selection|, 1)
// divisor guards the degenerate case where a method selects nothing.
func Score(selected Result, truth Support, k int) TrialMetrics {
	seen := make(map[int]bool, len(selected))
	tp, fp := 0, 0
	for _, idx := range selected {
		if seen[idx] {
			continue
		}
		seen[idx] = true
		if truth[idx] {
			tp++
		} else {
			fp++
		}
	}

	fn := 0
	for idx := range truth {
		if !seen[idx] {
			fn++
		}
	}

	nSelected := tp + fp

	var power float64
	if k > 0 {
		power = float64(tp) / float64(k)
	}

	denom := nSelected
	if denom < 1 {
		denom = 1
	}
	fdp := float64(fp) / float64(denom)

	return TrialMetrics{
		TruePositives:  tp,
		FalsePositives: fp,
		FalseNegatives: fn,
		Selected:       nSelected,
		Power:          power,
		FDP:            fdp,
	}
}
