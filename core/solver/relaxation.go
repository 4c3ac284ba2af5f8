package solver

import (
	"errors"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

var errRelaxationInfeasible = errors.New("relaxation infeasible")

// checkRelaxation solves the linear relaxation of the per-(half, category)
// count problem:
//
//	x[h][c] in [max(min_c, pins[h][c]), min(max_c, count_c)]
//	sum_h x[h][c] = count_c        for every category
//	sum_c x[h][c] = slots_h        for every half but the last
//
// An infeasible relaxation proves the integer problem infeasible. The
// constraint matrix is a network matrix, so a feasible relaxation also has
// an integral point. Adjacency is not modelled here.
// It returns errRelaxationInfeasible, nil, or any other solver error.
func checkRelaxation(st *state) error {
	nh, nc := len(st.halves), len(st.cats)
	nv := nh * nc
	idx := func(h, c int) int { return h*nc + c }

	counts := make([]int, nc)
	for c := range st.cats {
		counts[c] = len(st.stacks[c])
	}

	// G x <= h: upper and lower bound rows for every variable.
	g := mat.NewDense(2*nv, nv, nil)
	hv := make([]float64, 2*nv)
	for h := 0; h < nh; h++ {
		for c := 0; c < nc; c++ {
			v := idx(h, c)
			upper := min(st.bounds[c].Max, counts[c])
			lower := max(st.bounds[c].Min, st.pinsLeft[h][c])
			if lower > upper {
				return errRelaxationInfeasible
			}
			g.Set(2*v, v, 1)
			hv[2*v] = float64(upper)
			g.Set(2*v+1, v, -1)
			hv[2*v+1] = -float64(lower)
		}
	}

	// A x = b: category totals, then slot totals of all halves but the last
	// (implied by the others since dishes and slots have equal counts).
	rows := nc + nh - 1
	a := mat.NewDense(rows, nv, nil)
	b := make([]float64, rows)
	for c := 0; c < nc; c++ {
		for h := 0; h < nh; h++ {
			a.Set(c, idx(h, c), 1)
		}
		b[c] = float64(counts[c])
	}
	for h := 0; h < nh-1; h++ {
		for c := 0; c < nc; c++ {
			a.Set(nc+h, idx(h, c), 1)
		}
		b[nc+h] = float64(st.slotCount[h])
	}

	cost := make([]float64, nv)
	cStd, aStd, bStd := lp.Convert(cost, g, hv, a, b)
	_, _, err := lp.Simplex(cStd, aStd, bStd, 1e-7, nil)
	if errors.Is(err, lp.ErrInfeasible) {
		return errRelaxationInfeasible
	}
	return err
}
