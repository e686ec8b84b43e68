// Package solve resolves solver options against the normalized problem,
// selects a compatible solver from a data-driven decision table, and runs
// the chosen solver through a small registry boundary.
package solve

import (
	"fmt"

	"github.com/probkit/dfonorm/internal/prob"
)

// Canonical solver names.
const (
	SolverUOBYQA = "uobyqa"
	SolverNEWUOA = "newuoa"
	SolverBOBYQA = "bobyqa"
	SolverLINCOA = "lincoa"
	SolverCOBYLA = "cobyla"
)

// maxSupported is the solver/problem-type compatibility matrix: for each
// solver, the richest constraint type it supports. This table is the single
// source of truth; it validates user-forced choices and the selector's own
// output. Adding a solver means adding a row here and in the selector, not
// editing scattered control flow.
var maxSupported = map[string]prob.ProblemType{
	SolverUOBYQA: prob.Unconstrained,
	SolverNEWUOA: prob.Unconstrained,
	SolverBOBYQA: prob.BoundConstrained,
	SolverLINCOA: prob.LinearlyConstrained,
	SolverCOBYLA: prob.NonlinearlyConstrained,
}

// KnownSolver reports whether name is a canonical solver.
func KnownSolver(name string) bool {
	_, ok := maxSupported[name]
	return ok
}

// Compatible reports whether the solver supports the problem type.
func Compatible(solver string, t prob.ProblemType) bool {
	m, ok := maxSupported[solver]
	return ok && t <= m
}

// usesNPT reports whether the solver interpolates through an npt-point set.
func usesNPT(solver string) bool {
	switch solver {
	case SolverNEWUOA, SolverBOBYQA, SolverLINCOA:
		return true
	}
	return false
}

// minMaxFun is the smallest evaluation budget the solver can start with:
// one more than its initial sample count.
func minMaxFun(solver string, n, npt int) int {
	switch solver {
	case SolverUOBYQA:
		return (n+1)*(n+2)/2 + 1
	case SolverCOBYLA:
		return n + 2
	default:
		return npt + 1
	}
}

// selectSolver is the decision table keyed by problem type and evaluation
// budget. It returns the chosen solver name.
func selectSolver(t prob.ProblemType, n, maxfun int) (string, error) {
	switch t {
	case prob.Unconstrained:
		switch {
		case n >= 2 && n <= 8 && maxfun >= (n+1)*(n+2)/2+1:
			return SolverUOBYQA, nil
		case maxfun <= n+2:
			return SolverCOBYLA, nil
		default:
			return SolverNEWUOA, nil
		}
	case prob.BoundConstrained:
		if maxfun <= n+2 {
			return SolverCOBYLA, nil
		}
		return SolverBOBYQA, nil
	case prob.LinearlyConstrained:
		if maxfun <= n+2 {
			return SolverCOBYLA, nil
		}
		return SolverLINCOA, nil
	case prob.NonlinearlyConstrained:
		return SolverCOBYLA, nil
	}
	return "", fmt.Errorf("%w: no selection rule for problem type %v", prob.ErrUnexpected, t)
}
