package solve

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/mayfly"
	"github.com/probkit/dfonorm/internal/num"
	"github.com/probkit/dfonorm/internal/prep"
	"github.com/probkit/dfonorm/internal/prob"
)

// penaltyWeight scales the L1 constraint violation added to the objective
// for the penalty search. The adapters already bound every residual by
// HugeCon, so the penalized value stays finite.
const penaltyWeight = 1e8

// MayflyRunner drives the external mayfly optimizer on a canonical
// problem. The canonical objective is a black box to it; general
// constraints are folded in as an L1 penalty and bounds are passed to the
// library directly.
type MayflyRunner struct {
	PopSize int
	Seed    int64
}

// NewMayflyRunner returns a runner with the library's minimum viable
// population size.
func NewMayflyRunner(seed int64) *MayflyRunner {
	return &MayflyRunner{PopSize: 30, Seed: seed}
}

// Run executes the optimization and reports the canonical-space result.
func (m *MayflyRunner) Run(ctx context.Context, can *prep.Canonical, opts prob.Resolved) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := can.N()
	evals := 0
	eval := func(x []float64) float64 {
		evals++
		f := can.Objective(x)
		if v := penaltyViolation(can, x); v > 0 {
			f += penaltyWeight * v
		}
		return f
	}

	lo, hi := searchBox(can, opts.RhoBeg)

	config := mayfly.NewDefaultConfig()
	config.ObjectiveFunc = eval
	config.ProblemSize = n
	config.MaxIterations = max(1, opts.MaxFun/m.PopSize)
	config.NPop = m.PopSize
	// The library takes scalar bounds shared by all dimensions.
	config.LowerBound = lo
	config.UpperBound = hi
	config.Rand = rand.New(rand.NewSource(m.Seed))

	result, err := mayfly.Optimize(config)
	if err != nil {
		return nil, fmt.Errorf("mayfly run failed: %w", err)
	}

	x := result.GlobalBest.Position
	res := &Result{
		X:               x,
		F:               can.Objective(x),
		ConstrViolation: can.MaxViolation(x),
		NumEval:         evals,
	}
	switch {
	case res.F <= opts.FTarget:
		res.ExitFlag = ExitTargetReached
	case evals >= opts.MaxFun:
		res.ExitFlag = ExitBudgetSpent
	default:
		res.ExitFlag = ExitConverged
	}
	return res, nil
}

// penaltyViolation measures only the violations the library cannot enforce
// itself: linear rows and nonlinear residuals. Bound violations are handled
// by the search box.
func penaltyViolation(can *prep.Canonical, x []float64) float64 {
	var v float64
	for i, row := range can.AIneq {
		v += math.Max(0, rowDot(row, x)-can.BIneq[i])
	}
	for i, row := range can.AEq {
		v += math.Abs(rowDot(row, x) - can.BEq[i])
	}
	if can.NonlCon != nil {
		ineq, eq := can.NonlCon(x)
		for _, r := range ineq {
			v += math.Max(0, r)
		}
		for _, r := range eq {
			v += math.Abs(r)
		}
	}
	return v
}

func rowDot(a, x []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * x[i]
	}
	return s
}

// searchBox derives scalar search bounds for the library: finite bounds are
// taken as-is, unbounded dimensions fall back to a rhobeg-scaled box around
// the initial point.
func searchBox(can *prep.Canonical, rhobeg float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for i := range can.X0 {
		l, u := can.LB[i], can.UB[i]
		if !num.IsFinite(l) {
			l = can.X0[i] - 10*rhobeg
		}
		if !num.IsFinite(u) {
			u = can.X0[i] + 10*rhobeg
		}
		lo = math.Min(lo, l)
		hi = math.Max(hi, u)
	}
	if lo >= hi {
		lo, hi = lo-rhobeg, hi+rhobeg
	}
	return
}
