// Package prep implements the normalization pipeline: it turns a raw user
// problem into a canonical, solver-ready problem plus the transformation
// record needed to map a solution back to the original variable space.
package prep

import (
	"math"

	"github.com/probkit/dfonorm/internal/prob"
)

// ObjectiveAdapter wraps a raw user objective with extreme-barrier
// clamping so downstream solver code always receives a finite scalar:
// NaN and values above HugeFun are replaced with HugeFun. No state is
// retained across calls.
type ObjectiveAdapter struct {
	fn prob.Objective
}

// NewObjectiveAdapter validates and wraps the raw objective.
func NewObjectiveAdapter(fn prob.Objective) (*ObjectiveAdapter, error) {
	if fn == nil {
		return nil, prob.ErrInvalidObjective
	}
	return &ObjectiveAdapter{fn: fn}, nil
}

// Eval evaluates the wrapped objective with barrier clamping applied.
func (a *ObjectiveAdapter) Eval(x []float64) float64 {
	f := a.fn(x)
	if math.IsNaN(f) || f > prob.HugeFun {
		return prob.HugeFun
	}
	return f
}

// ConstraintAdapter wraps a raw nonlinear constraint evaluator. Inequality
// and equality residuals are clamped into [-HugeCon, HugeCon] and NaN is
// replaced with HugeCon. Clamping the lower side matters too: a -Inf-like
// residual would masquerade as "deeply satisfied" inside interpolation
// arithmetic.
type ConstraintAdapter struct {
	fn prob.NonlinearConstraint
}

// NewConstraintAdapter validates and wraps the raw constraint function.
// A nil function is a valid absence of nonlinear constraints and yields a
// nil adapter.
func NewConstraintAdapter(fn prob.NonlinearConstraint) (*ConstraintAdapter, error) {
	if fn == nil {
		return nil, nil
	}
	return &ConstraintAdapter{fn: fn}, nil
}

// Eval evaluates the wrapped constraints with barrier clamping applied.
// The returned slices are fresh copies; the user function may retain or
// reuse its own buffers across calls.
func (a *ConstraintAdapter) Eval(x []float64) (ineq, eq []float64) {
	rawIneq, rawEq := a.fn(x)
	ineq = make([]float64, len(rawIneq))
	for i, c := range rawIneq {
		ineq[i] = clampCon(c)
	}
	eq = make([]float64, len(rawEq))
	for i, c := range rawEq {
		eq[i] = clampCon(c)
	}
	return ineq, eq
}

func clampCon(c float64) float64 {
	switch {
	case math.IsNaN(c):
		return prob.HugeCon
	case c > prob.HugeCon:
		return prob.HugeCon
	case c < -prob.HugeCon:
		return -prob.HugeCon
	}
	return c
}
