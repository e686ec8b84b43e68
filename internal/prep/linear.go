package prep

import (
	"fmt"
	"math"

	"github.com/probkit/dfonorm/internal/num"
	"github.com/probkit/dfonorm/internal/prob"
)

// LinearFacts flags degenerate rows of the linear systems, aligned with the
// original row order (before trivial rows are dropped).
type LinearFacts struct {
	InfeasibleIneq []bool
	TrivialIneq    []bool
	InfeasibleEq   []bool
	TrivialEq      []bool
}

// NormalizeLinear validates A·x <= b and A·x = b against dimension n,
// classifies each row as infeasible, trivial, or regular, and returns the
// systems with trivial rows removed. Infeasible rows are kept so the whole
// problem can later be marked infeasible. Empty systems come back as
// zero-row matrices, never nil, to keep downstream arithmetic
// dimension-safe.
func NormalizeLinear(aIneq [][]float64, bIneq []float64, aEq [][]float64, bEq []float64, n int) (
	ai [][]float64, bi []float64, ae [][]float64, be []float64, facts LinearFacts, err error) {

	if err = checkLinearSystem("inequality", aIneq, bIneq, n); err != nil {
		return
	}
	if err = checkLinearSystem("equality", aEq, bEq, n); err != nil {
		return
	}

	facts.InfeasibleIneq, facts.TrivialIneq = classifyRows(aIneq, bIneq, false)
	facts.InfeasibleEq, facts.TrivialEq = classifyRows(aEq, bEq, true)

	ai, bi = dropRows(aIneq, bIneq, facts.TrivialIneq)
	ae, be = dropRows(aEq, bEq, facts.TrivialEq)
	return
}

func checkLinearSystem(kind string, a [][]float64, b []float64, n int) error {
	if len(a) != len(b) {
		return fmt.Errorf("%w: %s system has %d rows but %d right-hand sides",
			prob.ErrInvalidLinearConstraint, kind, len(a), len(b))
	}
	for i, row := range a {
		if len(row) != n {
			return fmt.Errorf("%w: %s row %d has %d columns, want %d",
				prob.ErrInvalidLinearConstraint, kind, i, len(row), n)
		}
	}
	return nil
}

// classifyRows applies the degenerate-row rules. For an inequality row with
// max |a_ij| = r: a zero row is infeasible when b < 0 and trivial otherwise;
// a nonzero row is infeasible when b/r = -Inf and trivial when b/r = +Inf.
// An equality zero row is infeasible when b != 0 and trivial when b = 0; a
// nonzero row is infeasible when |b/r| = Inf.
func classifyRows(a [][]float64, b []float64, equality bool) (infeasible, trivial []bool) {
	infeasible = make([]bool, len(a))
	trivial = make([]bool, len(a))
	for i, row := range a {
		r := num.MaxAbs(row)
		if r == 0 {
			if equality {
				infeasible[i] = b[i] != 0
				trivial[i] = b[i] == 0
			} else {
				infeasible[i] = b[i] < 0
				trivial[i] = b[i] >= 0
			}
			continue
		}
		q := b[i] / r
		if equality {
			infeasible[i] = math.IsInf(q, 0)
		} else {
			infeasible[i] = math.IsInf(q, -1)
			trivial[i] = math.IsInf(q, 1)
		}
	}
	return
}

func dropRows(a [][]float64, b []float64, drop []bool) ([][]float64, []float64) {
	outA := make([][]float64, 0, len(a))
	outB := make([]float64, 0, len(b))
	for i, row := range a {
		if drop[i] {
			continue
		}
		outA = append(outA, num.Clone(row))
		outB = append(outB, b[i])
	}
	return outA, outB
}
