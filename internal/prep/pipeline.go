package prep

import (
	"fmt"
	"math"

	"github.com/probkit/dfonorm/internal/num"
	"github.com/probkit/dfonorm/internal/prob"
)

// Canonical is the solver-ready problem produced by Normalize. Depending on
// the facts discovered along the way it lives in a reduced and/or rescaled
// coordinate system; the companion ProblemInfo holds the inverse maps.
type Canonical struct {
	Objective func(x []float64) float64
	X0        []float64
	AIneq     [][]float64
	BIneq     []float64
	AEq       [][]float64
	BEq       []float64
	LB        []float64
	UB        []float64
	// NonlCon is nil when the problem has no nonlinear constraints.
	NonlCon func(x []float64) (ineq, eq []float64)
}

// N returns the canonical problem dimension.
func (c *Canonical) N() int { return len(c.X0) }

// NumLinear returns the number of surviving linear rows.
func (c *Canonical) NumLinear() int { return len(c.AIneq) + len(c.AEq) }

// HasNonlinear reports whether nonlinear constraints are present.
func (c *Canonical) HasNonlinear() bool { return c.NonlCon != nil }

// MaxViolation measures the worst constraint violation at x across bounds,
// linear rows and nonlinear residuals. Zero means feasible.
func (c *Canonical) MaxViolation(x []float64) float64 {
	var v float64
	for i := range x {
		v = math.Max(v, c.LB[i]-x[i])
		v = math.Max(v, x[i]-c.UB[i])
	}
	for i, row := range c.AIneq {
		v = math.Max(v, dot(row, x)-c.BIneq[i])
	}
	for i, row := range c.AEq {
		v = math.Max(v, math.Abs(dot(row, x)-c.BEq[i]))
	}
	if c.NonlCon != nil {
		ineq, eq := c.NonlCon(x)
		for _, r := range ineq {
			v = math.Max(v, r)
		}
		for _, r := range eq {
			v = math.Max(v, math.Abs(r))
		}
	}
	return math.Max(v, 0)
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// Normalize runs the full normalization pipeline: validate, wrap the
// evaluators with extreme barriers, classify degenerate linear rows and
// bounds, project x0 into the bounds, eliminate fixed variables, and
// (when scale is set) rescale bounded dimensions to [-1, 1]. The returned
// ProblemInfo carries the feasibility facts, the reversible transformation
// record, and the ordered diagnostics accumulated so far; options
// resolution and solver selection append to the same log afterward.
func Normalize(invoker prob.Invoker, p *prob.Problem, scale bool) (*Canonical, *prob.ProblemInfo, error) {
	if err := invoker.Validate(); err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, nil, fmt.Errorf("%w: nil problem", prob.ErrInvalidX0)
	}
	n := p.N()
	if n == 0 {
		return nil, nil, fmt.Errorf("%w: empty initial point", prob.ErrInvalidX0)
	}
	if !num.AllFinite(p.X0) {
		return nil, nil, fmt.Errorf("%w: initial point must be finite", prob.ErrInvalidX0)
	}

	obj, err := NewObjectiveAdapter(p.Objective)
	if err != nil {
		return nil, nil, err
	}
	con, err := NewConstraintAdapter(p.NonlCon)
	if err != nil {
		return nil, nil, err
	}

	ai, bi, ae, be, linFacts, err := NormalizeLinear(p.AIneq, p.BIneq, p.AEq, p.BEq, n)
	if err != nil {
		return nil, nil, err
	}
	lb, ub, bndFacts, err := NormalizeBounds(p.LB, p.UB, n)
	if err != nil {
		return nil, nil, err
	}

	info := &prob.ProblemInfo{
		RawN:    n,
		RawType: Classify(p.NonlCon != nil, len(p.AIneq)+len(p.AEq), lb, ub),
		Facts: prob.ConstraintFacts{
			InfeasibleLIneq: linFacts.InfeasibleIneq,
			TrivialLIneq:    linFacts.TrivialIneq,
			InfeasibleLEq:   linFacts.InfeasibleEq,
			TrivialLEq:      linFacts.TrivialEq,
			InfeasibleBound: bndFacts.Infeasible,
			Fixed:           bndFacts.Fixed,
			FixedValue:      bndFacts.FixedValue,
		},
	}

	if dropped := countTrue(linFacts.TrivialIneq) + countTrue(linFacts.TrivialEq); dropped > 0 {
		info.Warnf(prob.WarnTrivialDropped, "dropped %d trivial linear constraint row(s)", dropped)
	}
	if info.Facts.AnyInfeasible() {
		info.Infeasible = true
		info.Warnf(prob.WarnInfeasible, "problem is infeasible: contradictory bounds or linear constraints")
	}

	can := &Canonical{
		Objective: obj.Eval,
		AIneq:     ai, BIneq: bi,
		AEq: ae, BEq: be,
		LB: lb, UB: ub,
	}
	if con != nil {
		can.NonlCon = con.Eval
	}

	x0, moved := ProjectToBounds(p.X0, lb, ub)
	if moved {
		info.Warnf(prob.WarnX0Projected, "initial point projected onto the bound constraints")
	}
	can.X0 = x0

	numFixed := info.Facts.NumFixed()
	switch {
	case info.Infeasible:
		// Keep the flagged problem as-is; nothing to reduce or scale.

	case numFixed == n:
		// Every variable is pinned: nothing is left to optimize. Record
		// the violation at the one remaining point and stop transforming.
		info.NoFreeX = true
		pinned := num.Clone(info.Facts.FixedValue)
		info.ConstrV0 = can.MaxViolation(pinned)
		can.X0 = pinned
		info.Warnf(prob.WarnAllFixed,
			"all %d variables are fixed by their bounds; constraint violation at the remaining point is %.6g",
			n, info.ConstrV0)

	case numFixed > 0:
		ex := NewExpander(info.Facts.Fixed, info.Facts.FixedValue)
		info.Reduced = true
		info.FreeIndex = ex.Free()
		info.FixedIndex = ex.Fixed()

		can.X0 = ex.Slice(can.X0)
		can.LB = ex.Slice(can.LB)
		can.UB = ex.Slice(can.UB)
		can.AIneq, can.BIneq = ReduceLinear(can.AIneq, can.BIneq, ex)
		can.AEq, can.BEq = ReduceLinear(can.AEq, can.BEq, ex)
		can.Objective = ReducedObjective{Fn: can.Objective, Ex: ex}.Eval
		if can.NonlCon != nil {
			can.NonlCon = ReducedConstraint{Fn: can.NonlCon, Ex: ex}.Eval
		}
		info.Warnf(prob.WarnReduced, "eliminated %d variable(s) fixed by coincident bounds", numFixed)
	}

	info.RefinedType = Classify(can.HasNonlinear(), can.NumLinear(), can.LB, can.UB)

	if scale && !info.Infeasible && !info.NoFreeX {
		s, err := ComputeScaling(can.X0, can.LB, can.UB)
		if err != nil {
			return nil, nil, err
		}
		can.Objective = ScaledObjective{Fn: can.Objective, S: s}.Eval
		if can.NonlCon != nil {
			can.NonlCon = ScaledConstraint{Fn: can.NonlCon, S: s}.Eval
		}
		can.AIneq, can.BIneq = s.ApplyToLinear(can.AIneq, can.BIneq)
		can.AEq, can.BEq = s.ApplyToLinear(can.AEq, can.BEq)
		can.LB, can.UB = s.ApplyToBounds(can.LB, can.UB)
		can.X0 = s.FromOriginal(can.X0)

		info.Scaled = true
		info.ScalingFactor = s.Factor
		info.Shift = s.Shift
		if s.Substantial() {
			info.SubstantiallyScaled = true
			info.Warnf(prob.WarnSubstantialScale,
				"problem substantially scaled (factor spread %.3g); trust-region radii re-derived in scaled space",
				s.Ratio())
		}
	}

	return can, info, nil
}

func countTrue(v []bool) int {
	n := 0
	for _, b := range v {
		if b {
			n++
		}
	}
	return n
}
