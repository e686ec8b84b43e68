package solve

import (
	"testing"

	"github.com/probkit/dfonorm/internal/prob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompatibilityMatrix(t *testing.T) {
	cases := []struct {
		solver string
		max    prob.ProblemType
	}{
		{SolverUOBYQA, prob.Unconstrained},
		{SolverNEWUOA, prob.Unconstrained},
		{SolverBOBYQA, prob.BoundConstrained},
		{SolverLINCOA, prob.LinearlyConstrained},
		{SolverCOBYLA, prob.NonlinearlyConstrained},
	}
	types := []prob.ProblemType{
		prob.Unconstrained, prob.BoundConstrained,
		prob.LinearlyConstrained, prob.NonlinearlyConstrained,
	}
	for _, tc := range cases {
		assert.True(t, KnownSolver(tc.solver))
		for _, ty := range types {
			assert.Equal(t, ty <= tc.max, Compatible(tc.solver, ty),
				"%s vs %v", tc.solver, ty)
		}
	}
	assert.False(t, KnownSolver("simplex"))
	assert.False(t, Compatible("simplex", prob.Unconstrained))
}

func TestSelectSolver(t *testing.T) {
	cases := []struct {
		name   string
		ptype  prob.ProblemType
		n      int
		maxfun int
		want   string
	}{
		// (n+1)(n+2)/2+1 for n=5 is 22.
		{"small unconstrained, ample budget", prob.Unconstrained, 5, 100, SolverUOBYQA},
		{"small unconstrained, budget just enough", prob.Unconstrained, 5, 22, SolverUOBYQA},
		{"small unconstrained, budget one short", prob.Unconstrained, 5, 21, SolverNEWUOA},
		{"unconstrained, tiny budget", prob.Unconstrained, 5, 7, SolverCOBYLA},
		{"large unconstrained", prob.Unconstrained, 20, 10000, SolverNEWUOA},
		{"univariate unconstrained", prob.Unconstrained, 1, 100, SolverNEWUOA},
		{"bound constrained", prob.BoundConstrained, 5, 100, SolverBOBYQA},
		{"bound constrained, tiny budget", prob.BoundConstrained, 5, 7, SolverCOBYLA},
		{"linearly constrained", prob.LinearlyConstrained, 5, 100, SolverLINCOA},
		{"linearly constrained, tiny budget", prob.LinearlyConstrained, 5, 7, SolverCOBYLA},
		{"nonlinearly constrained", prob.NonlinearlyConstrained, 5, 100, SolverCOBYLA},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := selectSolver(tc.ptype, tc.n, tc.maxfun)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMinMaxFun(t *testing.T) {
	assert.Equal(t, 22, minMaxFun(SolverUOBYQA, 5, 0))
	assert.Equal(t, 7, minMaxFun(SolverCOBYLA, 5, 0))
	assert.Equal(t, 12, minMaxFun(SolverNEWUOA, 5, 11))
	assert.Equal(t, 12, minMaxFun(SolverBOBYQA, 5, 11))
}
