// Package prob defines the data model of the normalization pipeline:
// the raw user problem, the constraint facts derived from it, the resolved
// options, and the transformation record needed to map a canonical-space
// solution back to the user's variable space.
package prob

import "fmt"

// Extreme-barrier constants. Objective values above HugeFun and constraint
// values outside [-HugeCon, HugeCon] are clamped so that undefined or
// unbounded regions look merely very bad to a solver instead of poisoning
// its interpolation arithmetic with NaN or infinity.
const (
	HugeFun = 1e30
	HugeCon = 1e30
)

// Objective evaluates f(x) for a full-dimensional point x.
type Objective func(x []float64) float64

// NonlinearConstraint evaluates the nonlinear constraint residuals at x.
// Inequality values are satisfied when <= 0; equality values when == 0.
type NonlinearConstraint func(x []float64) (ineq, eq []float64)

// Problem is the raw user-supplied optimization problem.
// Linear constraints are AIneq·x <= BIneq and AEq·x = BEq.
// Missing bounds default to -Inf/+Inf during normalization.
type Problem struct {
	Objective Objective
	X0        []float64
	AIneq     [][]float64
	BIneq     []float64
	AEq       [][]float64
	BEq       []float64
	LB        []float64
	UB        []float64
	NonlCon   NonlinearConstraint
}

// N returns the dimension of the problem, taken from the initial point.
func (p *Problem) N() int { return len(p.X0) }

// ProblemType tags a problem by the richest constraint kind it carries.
// The order of the constants is the "constraint richness" order used for
// solver matching.
type ProblemType int

const (
	Unconstrained ProblemType = iota
	BoundConstrained
	LinearlyConstrained
	NonlinearlyConstrained
)

var typeNames = map[ProblemType]string{
	Unconstrained:          "unconstrained",
	BoundConstrained:       "bound-constrained",
	LinearlyConstrained:    "linearly-constrained",
	NonlinearlyConstrained: "nonlinearly-constrained",
}

func (t ProblemType) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("ProblemType(%d)", int(t))
}

// ParseProblemType maps a type name back to its tag.
func ParseProblemType(s string) (ProblemType, error) {
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidProblemType, s)
}

// ConstraintFacts records, per constraint row or per variable, what the
// normalization stages learned about degeneracy. Computed once, read-only
// afterward. Row flags are aligned with the ORIGINAL row order, including
// trivial rows that were dropped from the returned matrices.
type ConstraintFacts struct {
	InfeasibleLIneq []bool
	TrivialLIneq    []bool
	InfeasibleLEq   []bool
	TrivialLEq      []bool
	InfeasibleBound []bool
	Fixed           []bool
	// FixedValue holds, at each fixed index, the value the variable is
	// pinned to: (lb+ub)/2. Entries at free indices are zero.
	FixedValue []float64
}

// AnyInfeasible reports whether any row or bound was flagged infeasible.
func (f *ConstraintFacts) AnyInfeasible() bool {
	for _, set := range [][]bool{f.InfeasibleLIneq, f.InfeasibleLEq, f.InfeasibleBound} {
		for _, b := range set {
			if b {
				return true
			}
		}
	}
	return false
}

// NumFixed counts the variables pinned by coincident bounds.
func (f *ConstraintFacts) NumFixed() int {
	n := 0
	for _, b := range f.Fixed {
		if b {
			n++
		}
	}
	return n
}

// Diagnostic is one non-fatal pipeline message. IDs are stable strings so
// callers can filter without parsing messages.
type Diagnostic struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Diagnostic IDs emitted by the pipeline.
const (
	WarnOptionCorrected  = "RecoverableOptionWarning"
	WarnX0Projected      = "X0Projected"
	WarnInfeasible       = "ProblemInfeasible"
	WarnAllFixed         = "AllVariablesFixed"
	WarnReduced          = "VariablesReduced"
	WarnSubstantialScale = "SubstantiallyScaled"
	WarnSolverReplaced   = "SolverReplaced"
	WarnTrivialDropped   = "TrivialConstraintsDropped"
)
