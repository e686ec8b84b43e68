package prep

import (
	"math"
	"testing"

	"github.com/probkit/dfonorm/internal/prob"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	inf := math.Inf(1)
	free := []float64{-inf, -inf}
	boxed := []float64{0, -inf}

	cases := []struct {
		name      string
		nonlinear bool
		linRows   int
		lb, ub    []float64
		want      prob.ProblemType
	}{
		{"no constraints", false, 0, free, []float64{inf, inf}, prob.Unconstrained},
		{"finite lower bound", false, 0, boxed, []float64{inf, inf}, prob.BoundConstrained},
		{"finite upper bound", false, 0, free, []float64{inf, 3}, prob.BoundConstrained},
		{"linear dominates bounds", false, 2, boxed, []float64{inf, inf}, prob.LinearlyConstrained},
		{"nonlinear dominates all", true, 2, boxed, []float64{1, 1}, prob.NonlinearlyConstrained},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.nonlinear, tc.linRows, tc.lb, tc.ub)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestClassifyMonotonicity(t *testing.T) {
	// Removing the nonlinear constraints from a nonlinearly-constrained
	// problem with a remaining linear row demotes it exactly one rank.
	lb := []float64{math.Inf(-1)}
	ub := []float64{math.Inf(1)}
	withNonl := Classify(true, 1, lb, ub)
	without := Classify(false, 1, lb, ub)

	assert.Equal(t, prob.NonlinearlyConstrained, withNonl)
	assert.Equal(t, prob.LinearlyConstrained, without)
}
