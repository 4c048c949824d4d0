package knockoff

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"knockoffbench/domain/core"
)

// The s-vector controls how decorrelated each knockoff copy is from its
// original column. Feasibility requires 0 < s_j and 2Σ - diag(s) ⪰ 0;
// larger s gives more separation and therefore more power.

// solveEqui returns the equicorrelated s-vector s_j = min(1, 2·λmin(Σ)),
// shrunk slightly below the feasibility boundary.
func solveEqui(sigma *mat.SymDense) ([]float64, error) {
	p := sigma.SymmetricDim()

	var eig mat.EigenSym
	if ok := eig.Factorize(sigma, false); !ok {
		return nil, core.NewFactorizationError("covariance eigendecomposition", p)
	}
	vals := eig.Values(nil)
	lmin := vals[0] // ascending order
	if lmin <= 0 {
		return nil, core.NewFactorizationError("covariance", p)
	}

	sj := math.Min(1, 2*lmin) * (1 - 1e-6)
	s := make([]float64, p)
	for j := range s {
		s[j] = sj
	}
	return s, nil
}

// solveMVR minimizes the reconstructability objective
// Tr((2Σ-D)⁻¹) + Σ_j 1/s_j by cyclic coordinate descent, starting from
// a shrunk equicorrelated point. The inverse of C = 2Σ-D is maintained
// with Sherman-Morrison rank-one updates, so each coordinate step costs
// O(p²).
func solveMVR(sigma *mat.SymDense, cycles int, tol float64) ([]float64, error) {
	p := sigma.SymmetricDim()

	s, err := solveEqui(sigma)
	if err != nil {
		return nil, err
	}
	// Start in the interior so coordinates can move both ways.
	for j := range s {
		s[j] *= 0.5
	}

	// C = 2Σ - D and its inverse.
	C := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			v := 2 * sigma.At(i, j)
			if i == j {
				v -= s[i]
			}
			C.SetSym(i, j, v)
		}
	}
	var ch mat.Cholesky
	if ok := ch.Factorize(C); !ok {
		return nil, core.NewFactorizationError("2*Sigma - diag(s)", p)
	}
	var cinvSym mat.SymDense
	if err := ch.InverseTo(&cinvSym); err != nil {
		return nil, core.NewFactorizationError("2*Sigma - diag(s)", p)
	}
	cinv := mat.DenseCopyOf(&cinvSym)

	col := make([]float64, p)
	for cycle := 0; cycle < cycles; cycle++ {
		maxStep := 0.0
		for j := 0; j < p; j++ {
			mat.Col(col, j, cinv)
			cj := col[j]
			vj := 0.0
			for i := range col {
				vj += col[i] * col[i]
			}
			if cj <= 0 || vj <= 0 {
				continue
			}

			// Closed-form minimizer of the single-coordinate objective
			// delta*v/(1-delta*c) + 1/(s_j+delta).
			sqv := math.Sqrt(vj)
			delta := (1 - sqv*s[j]) / (sqv + cj)

			// Stay strictly inside the feasible region.
			const edge = 1e-10
			if lo := edge - s[j]; delta < lo {
				delta = lo
			}
			if hi := (1 - edge) / cj; delta > hi {
				delta = hi
			}
			if math.Abs(delta) < 1e-14 {
				continue
			}

			// Sherman-Morrison: (C - delta e_j e_j')⁻¹ update.
			scale := delta / (1 - delta*cj)
			for a := 0; a < p; a++ {
				va := scale * col[a]
				if va == 0 {
					continue
				}
				row := cinv.RawRowView(a)
				for b := 0; b < p; b++ {
					row[b] += va * col[b]
				}
			}

			s[j] += delta
			if d := math.Abs(delta); d > maxStep {
				maxStep = d
			}
		}
		if maxStep < tol {
			break
		}
	}
	return s, nil
}
