package solve

import (
	"math"
	"testing"

	"github.com/probkit/dfonorm/internal/num"
	"github.com/probkit/dfonorm/internal/prep"
	"github.com/probkit/dfonorm/internal/prob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sphere(x []float64) float64 {
	var s float64
	for _, v := range x {
		s += v * v
	}
	return s
}

func unconstrained(n int) (*prep.Canonical, *prob.ProblemInfo) {
	inf := math.Inf(1)
	x0 := make([]float64, n)
	lb := make([]float64, n)
	ub := make([]float64, n)
	for i := range lb {
		lb[i], ub[i] = -inf, inf
	}
	can := &prep.Canonical{Objective: sphere, X0: x0, LB: lb, UB: ub}
	info := &prob.ProblemInfo{RawN: n, RefinedType: prob.Unconstrained}
	return can, info
}

func hasWarning(info *prob.ProblemInfo, id string) bool {
	for _, w := range info.Warnings {
		if w.ID == id {
			return true
		}
	}
	return false
}

func TestResolveDefaults(t *testing.T) {
	can, info := unconstrained(5)
	res, err := Resolve(prob.InvokeTop, prob.Options{}, can, info)
	require.NoError(t, err)

	assert.Equal(t, 2500, res.MaxFun)
	assert.Equal(t, 11, res.NPT)
	assert.Equal(t, 1.0, res.RhoBeg)
	assert.Equal(t, 1e-6, res.RhoEnd)
	assert.True(t, math.IsInf(res.FTarget, -1))
	assert.False(t, res.Scale)
	assert.Equal(t, SolverUOBYQA, res.Solver)
	assert.Equal(t, res.Solver, info.Solver)
	assert.Empty(t, info.Warnings)
}

func TestResolveTinyBudgetRaisedToSolverMinimum(t *testing.T) {
	// With maxfun=6 on a 5-variable problem the selector picks cobyla, whose
	// smallest workable budget is n+2=7; the budget is raised with a warning.
	can, info := unconstrained(5)
	res, err := Resolve(prob.InvokeTop, prob.Options{MaxFun: prob.IntOpt(6)}, can, info)
	require.NoError(t, err)

	assert.Equal(t, SolverCOBYLA, res.Solver)
	assert.Equal(t, 7, res.MaxFun)
	assert.True(t, hasWarning(info, optWarn("maxfun")))
}

func TestResolveInvalidScalarsCorrected(t *testing.T) {
	can, info := unconstrained(3)
	res, err := Resolve(prob.InvokeTop, prob.Options{
		RhoBeg:  prob.FloatOpt(-1),
		MaxFun:  prob.IntOpt(-5),
		FTarget: prob.FloatOpt(math.NaN()),
	}, can, info)
	require.NoError(t, err)

	assert.Equal(t, prob.DefaultRhoBeg, res.RhoBeg)
	assert.Equal(t, 1500, res.MaxFun)
	assert.True(t, math.IsInf(res.FTarget, -1))
	assert.True(t, hasWarning(info, optWarn("rhobeg")))
	assert.True(t, hasWarning(info, optWarn("maxfun")))
	assert.True(t, hasWarning(info, optWarn("ftarget")))
}

func TestResolveRhoEndLoweredToRhoBeg(t *testing.T) {
	can, info := unconstrained(3)
	res, err := Resolve(prob.InvokeTop, prob.Options{
		RhoBeg: prob.FloatOpt(0.5),
		RhoEnd: prob.FloatOpt(2.0),
	}, can, info)
	require.NoError(t, err)

	assert.Equal(t, 0.5, res.RhoBeg)
	assert.Equal(t, 0.5, res.RhoEnd)
	assert.True(t, hasWarning(info, optWarn("rhoend")))
}

func TestResolveNPTWindow(t *testing.T) {
	can, info := unconstrained(5)
	// Window for n=5 is [7, 21].
	res, err := Resolve(prob.InvokeTop, prob.Options{NPT: prob.IntOpt(50)}, can, info)
	require.NoError(t, err)
	assert.Equal(t, 11, res.NPT)
	assert.True(t, hasWarning(info, optWarn("npt")))

	can, info = unconstrained(5)
	res, err = Resolve(prob.InvokeTop, prob.Options{NPT: prob.IntOpt(15), Solver: SolverNEWUOA}, can, info)
	require.NoError(t, err)
	assert.Equal(t, 15, res.NPT)
	assert.Empty(t, info.Warnings)
}

func TestResolveNPTLoweredToFitBudget(t *testing.T) {
	can, info := unconstrained(5)
	res, err := Resolve(prob.InvokeTop, prob.Options{
		Solver: SolverNEWUOA,
		NPT:    prob.IntOpt(15),
		MaxFun: prob.IntOpt(12),
	}, can, info)
	require.NoError(t, err)

	// npt must leave one evaluation for the search: 12-1=11.
	assert.Equal(t, 11, res.NPT)
	assert.Equal(t, 12, res.MaxFun)
	assert.True(t, hasWarning(info, optWarn("npt")))
}

func TestResolveForcedSolverIncompatible(t *testing.T) {
	can, info := unconstrained(5)
	info.RefinedType = prob.BoundConstrained
	can.LB = []float64{0, 0, 0, 0, 0}
	can.UB = []float64{9, 9, 9, 9, 9}

	res, err := Resolve(prob.InvokeTop, prob.Options{Solver: SolverNEWUOA}, can, info)
	require.NoError(t, err)

	assert.Equal(t, SolverBOBYQA, res.Solver)
	assert.True(t, hasWarning(info, prob.WarnSolverReplaced))
}

func TestResolveUnknownSolverFallsBack(t *testing.T) {
	can, info := unconstrained(10)
	res, err := Resolve(prob.InvokeTop, prob.Options{Solver: "simplex"}, can, info)
	require.NoError(t, err)

	assert.Equal(t, SolverNEWUOA, res.Solver)
	assert.True(t, hasWarning(info, prob.WarnSolverReplaced))
}

func TestResolveDirectInvokerWins(t *testing.T) {
	can, info := unconstrained(5)
	info.RefinedType = prob.BoundConstrained
	can.LB = []float64{-1, -1, -1, -1, -1}
	can.UB = []float64{1, 1, 1, 1, 1}

	res, err := Resolve(prob.InvokeBOBYQA, prob.Options{Solver: SolverCOBYLA}, can, info)
	require.NoError(t, err)

	assert.Equal(t, SolverBOBYQA, res.Solver)
	assert.True(t, hasWarning(info, prob.WarnSolverReplaced))
}

func TestResolveBobyqaRhoBegClamp(t *testing.T) {
	can, info := unconstrained(2)
	info.RefinedType = prob.BoundConstrained
	can.LB = []float64{0, 0}
	can.UB = []float64{0.5, 4}

	res, err := Resolve(prob.InvokeTop, prob.Options{}, can, info)
	require.NoError(t, err)

	assert.Equal(t, SolverBOBYQA, res.Solver)
	assert.InDelta(t, 0.25, res.RhoBeg, 1e-15)
	assert.LessOrEqual(t, res.RhoEnd, res.RhoBeg)
	assert.True(t, hasWarning(info, optWarn("rhobeg")))
}

func TestResolveSubstantiallyScaledRadii(t *testing.T) {
	can, info := unconstrained(2)
	info.SubstantiallyScaled = true

	res, err := Resolve(prob.InvokeTop, prob.Options{
		RhoBeg: prob.FloatOpt(10),
		RhoEnd: prob.FloatOpt(1e-3),
	}, can, info)
	require.NoError(t, err)

	assert.Equal(t, 1.0, res.RhoBeg)
	assert.InDelta(t, 1e-4, res.RhoEnd, 1e-12)
}

func TestResolveAllFixedBoundsKeepRadiiAboveEpsilon(t *testing.T) {
	// Every variable pinned by coincident bounds: the zero-width pairs
	// survive to the resolver (no reduction runs), and the bobyqa clamp
	// must not push the radii below machine epsilon.
	p := &prob.Problem{
		Objective: sphere,
		X0:        []float64{1, 2},
		LB:        []float64{1, 2},
		UB:        []float64{1, 2},
	}
	_, res, info, err := Prepare(prob.InvokeTop, p, prob.Options{})
	require.NoError(t, err)

	assert.True(t, info.NoFreeX)
	assert.Equal(t, SolverBOBYQA, res.Solver)
	assert.GreaterOrEqual(t, res.RhoBeg, num.Eps)
	assert.GreaterOrEqual(t, res.RhoEnd, num.Eps)
	assert.LessOrEqual(t, res.RhoEnd, res.RhoBeg)
}

func TestPrepareEndToEnd(t *testing.T) {
	p := &prob.Problem{
		Objective: sphere,
		X0:        []float64{1, 2, 3},
		LB:        []float64{0, 0, 0},
		UB:        []float64{4, 4, 4},
	}
	can, res, info, err := Prepare(prob.InvokeTop, p, prob.Options{})
	require.NoError(t, err)

	assert.Equal(t, 3, can.N())
	assert.Equal(t, prob.BoundConstrained, info.RefinedType)
	assert.Equal(t, SolverBOBYQA, res.Solver)
	assert.Equal(t, SolverBOBYQA, info.Solver)
}
