package prep

import (
	"fmt"
	"math"

	"github.com/probkit/dfonorm/internal/num"
	"github.com/probkit/dfonorm/internal/prob"
)

// substantialScaleRatio: above this factor spread the problem counts as
// substantially scaled and the trust-region radii are re-derived.
const substantialScaleRatio = 4.0

// Scaling is the affine change of variables x_original = Factor ⊙ x + Shift.
// Variables with two finite bounds map to [-1, 1]; all others keep factor 1
// and are shifted so the initial point maps to 0.
type Scaling struct {
	Factor []float64
	Shift  []float64
}

// ComputeScaling derives the scaling maps from the (possibly reduced)
// bounds and initial point. A factor collapsing below machine epsilon means
// a degenerate near-zero-width bound range; that is a defect upstream
// (fixed-variable detection should have caught it), not user error.
func ComputeScaling(x0, lb, ub []float64) (Scaling, error) {
	n := len(x0)
	s := Scaling{Factor: make([]float64, n), Shift: make([]float64, n)}
	for i := 0; i < n; i++ {
		if num.IsFinite(lb[i]) && num.IsFinite(ub[i]) {
			s.Factor[i] = (ub[i] - lb[i]) / 2
			s.Shift[i] = (lb[i] + ub[i]) / 2
		} else {
			s.Factor[i] = 1
			s.Shift[i] = x0[i]
		}
		if s.Factor[i] < num.Eps {
			return Scaling{}, fmt.Errorf("%w: scaling factor %.3e at variable %d below machine epsilon",
				prob.ErrUnexpected, s.Factor[i], i)
		}
	}
	return s, nil
}

// Ratio returns max(Factor)/min(Factor), the spread of the scaling.
func (s Scaling) Ratio() float64 {
	if len(s.Factor) == 0 {
		return 1
	}
	return num.Max(s.Factor) / num.Min(s.Factor)
}

// Substantial reports whether the spread warrants re-deriving rho radii.
func (s Scaling) Substantial() bool {
	return s.Ratio() > substantialScaleRatio
}

// ToOriginal maps a scaled-space point back: Factor ⊙ x + Shift.
func (s Scaling) ToOriginal(x []float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		out[i] = s.Factor[i]*x[i] + s.Shift[i]
	}
	return out
}

// FromOriginal maps an original-space point into the scaled space.
func (s Scaling) FromOriginal(x []float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		out[i] = (x[i] - s.Shift[i]) / s.Factor[i]
	}
	return out
}

// ScaledObjective composes a full-precision objective with the inverse
// affine map.
type ScaledObjective struct {
	Fn func(x []float64) float64
	S  Scaling
}

func (o ScaledObjective) Eval(x []float64) float64 {
	return o.Fn(o.S.ToOriginal(x))
}

// ScaledConstraint composes nonlinear constraints with the inverse map.
type ScaledConstraint struct {
	Fn func(x []float64) (ineq, eq []float64)
	S  Scaling
}

func (c ScaledConstraint) Eval(x []float64) (ineq, eq []float64) {
	return c.Fn(c.S.ToOriginal(x))
}

// ApplyToLinear absorbs the scaling into a linear system:
// A' = A·diag(Factor), b' = b - A·Shift.
func (s Scaling) ApplyToLinear(a [][]float64, b []float64) ([][]float64, []float64) {
	outA := make([][]float64, len(a))
	outB := make([]float64, len(b))
	for i, row := range a {
		outB[i] = b[i]
		outA[i] = make([]float64, len(row))
		for j, v := range row {
			outA[i][j] = v * s.Factor[j]
			outB[i] -= v * s.Shift[j]
		}
	}
	return outA, outB
}

// ApplyToBounds maps bounds into the scaled space: (bound - Shift)/Factor.
// Infinite bounds stay infinite.
func (s Scaling) ApplyToBounds(lb, ub []float64) (slb, sub []float64) {
	slb = make([]float64, len(lb))
	sub = make([]float64, len(ub))
	for i := range lb {
		slb[i] = scaleBound(lb[i], s.Shift[i], s.Factor[i])
		sub[i] = scaleBound(ub[i], s.Shift[i], s.Factor[i])
	}
	return
}

func scaleBound(b, shift, factor float64) float64 {
	if math.IsInf(b, 0) {
		return b
	}
	return (b - shift) / factor
}
