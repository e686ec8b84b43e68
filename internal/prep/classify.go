package prep

import (
	"github.com/probkit/dfonorm/internal/num"
	"github.com/probkit/dfonorm/internal/prob"
)

// Classify derives the problem type from a constraint set: nonlinear
// constraints dominate, then linear rows, then any finite bound. Pure
// function, applied both before and after reduction since eliminating
// fixed variables can remove the last constraint of a kind and demote the
// type.
func Classify(hasNonlinear bool, numLinearRows int, lb, ub []float64) prob.ProblemType {
	switch {
	case hasNonlinear:
		return prob.NonlinearlyConstrained
	case numLinearRows > 0:
		return prob.LinearlyConstrained
	case anyFiniteBound(lb) || anyFiniteBound(ub):
		return prob.BoundConstrained
	}
	return prob.Unconstrained
}

func anyFiniteBound(v []float64) bool {
	for _, x := range v {
		if num.IsFinite(x) {
			return true
		}
	}
	return false
}
