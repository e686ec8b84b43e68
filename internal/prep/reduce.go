package prep

import (
	"github.com/probkit/dfonorm/internal/num"
)

// Expander maps points between the reduced (free-variable) space and the
// full space. It carries the captured reduction parameters explicitly
// instead of hiding them in nested closures, so the mapping is testable in
// isolation and its ownership is clear.
type Expander struct {
	n          int
	free       []int
	fixed      []int
	fixedValue []float64 // full-length, meaningful at fixed indices
}

// NewExpander builds an expander from the fixed-variable facts.
func NewExpander(fixed []bool, fixedValue []float64) *Expander {
	e := &Expander{n: len(fixed), fixedValue: num.Clone(fixedValue)}
	for i, fx := range fixed {
		if fx {
			e.fixed = append(e.fixed, i)
		} else {
			e.free = append(e.free, i)
		}
	}
	return e
}

// Free and Fixed return the index partition of the original variables.
func (e *Expander) Free() []int  { return e.free }
func (e *Expander) Fixed() []int { return e.fixed }

// Expand scatters a reduced-space point into a fresh full-dimensional
// vector, filling fixed positions with their pinned values.
func (e *Expander) Expand(x []float64) []float64 {
	full := make([]float64, e.n)
	for k, i := range e.free {
		full[i] = x[k]
	}
	for _, i := range e.fixed {
		full[i] = e.fixedValue[i]
	}
	return full
}

// Slice gathers the free coordinates of a full-dimensional point.
func (e *Expander) Slice(x []float64) []float64 {
	return num.Gather(x, e.free)
}

// ReducedObjective evaluates a full-space objective at expanded points.
type ReducedObjective struct {
	Fn func(x []float64) float64
	Ex *Expander
}

func (r ReducedObjective) Eval(x []float64) float64 {
	return r.Fn(r.Ex.Expand(x))
}

// ReducedConstraint evaluates full-space nonlinear constraints at expanded
// points.
type ReducedConstraint struct {
	Fn func(x []float64) (ineq, eq []float64)
	Ex *Expander
}

func (r ReducedConstraint) Eval(x []float64) (ineq, eq []float64) {
	return r.Fn(r.Ex.Expand(x))
}

// ReduceLinear rewrites A·x (<=|=) b into the free-variable space:
// b' = b - A[:,fixed]·fixedValue and A' = A[:,free].
func ReduceLinear(a [][]float64, b []float64, e *Expander) ([][]float64, []float64) {
	outA := make([][]float64, len(a))
	outB := make([]float64, len(b))
	for i, row := range a {
		outB[i] = b[i]
		for _, j := range e.fixed {
			outB[i] -= row[j] * e.fixedValue[j]
		}
		outA[i] = num.Gather(row, e.free)
	}
	return outA, outB
}
