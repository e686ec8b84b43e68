package prep

import (
	"fmt"
	"math"

	"github.com/probkit/dfonorm/internal/num"
	"github.com/probkit/dfonorm/internal/prob"
)

// BoundFacts flags per-variable bound degeneracy.
type BoundFacts struct {
	Infeasible []bool
	Fixed      []bool
	FixedValue []float64
}

// NormalizeBounds fills missing bounds with -Inf/+Inf, flags infeasible
// pairs (lb > ub), and detects fixed variables. The fixed test is a
// near-equality test, |ub-lb| < 2*eps, not exact equality, so bounds that
// coincide up to floating round-off still pin the variable. The pinned
// value is the midpoint (lb+ub)/2.
func NormalizeBounds(lb, ub []float64, n int) (nlb, nub []float64, facts BoundFacts, err error) {
	nlb, err = fillBound("lower", lb, n, math.Inf(-1))
	if err != nil {
		return
	}
	nub, err = fillBound("upper", ub, n, math.Inf(1))
	if err != nil {
		return
	}

	facts.Infeasible = make([]bool, n)
	facts.Fixed = make([]bool, n)
	facts.FixedValue = make([]float64, n)
	for i := 0; i < n; i++ {
		facts.Infeasible[i] = nlb[i] > nub[i]
		if facts.Infeasible[i] {
			continue
		}
		if math.Abs(nub[i]-nlb[i]) < 2*num.Eps {
			facts.Fixed[i] = true
			facts.FixedValue[i] = (nlb[i] + nub[i]) / 2
		}
	}
	return
}

func fillBound(kind string, v []float64, n int, missing float64) ([]float64, error) {
	if len(v) == 0 {
		return num.Filled(n, missing), nil
	}
	if len(v) != n {
		return nil, fmt.Errorf("%w: %s bound has length %d, want %d",
			prob.ErrInvalidBound, kind, len(v), n)
	}
	out := num.Clone(v)
	for i, x := range out {
		if math.IsNaN(x) {
			out[i] = missing
		}
	}
	return out, nil
}

// ProjectToBounds clips x into [lb, ub] elementwise and reports whether any
// coordinate moved. Infeasible pairs are left alone.
func ProjectToBounds(x, lb, ub []float64) (out []float64, moved bool) {
	out = num.Clone(x)
	for i := range out {
		if lb[i] > ub[i] {
			continue
		}
		if out[i] < lb[i] {
			out[i] = lb[i]
			moved = true
		} else if out[i] > ub[i] {
			out[i] = ub[i]
			moved = true
		}
	}
	return
}
