package probfile

import (
	"fmt"
	"math"

	"github.com/probkit/dfonorm/internal/prob"
)

// Benchmark objectives available to problem files by name.
var objectives = map[string]prob.Objective{
	"sphere": func(x []float64) float64 {
		var s float64
		for _, v := range x {
			s += v * v
		}
		return s
	},
	"rosenbrock": func(x []float64) float64 {
		var s float64
		for i := 0; i+1 < len(x); i++ {
			s += 100*math.Pow(x[i+1]-x[i]*x[i], 2) + math.Pow(1-x[i], 2)
		}
		return s
	},
	"ackley": func(x []float64) float64 {
		n := float64(len(x))
		var sq, cs float64
		for _, v := range x {
			sq += v * v
			cs += math.Cos(2 * math.Pi * v)
		}
		return -20*math.Exp(-0.2*math.Sqrt(sq/n)) - math.Exp(cs/n) + 20 + math.E
	},
	"chrosen": func(x []float64) float64 {
		// Chained Rosenbrock, a common derivative-free test case.
		var s float64
		for i := 0; i+1 < len(x); i++ {
			s += 4*math.Pow(x[i]*x[i]-x[i+1], 2) + math.Pow(x[i]-1, 2)
		}
		return s
	},
}

// Named nonlinear constraint sets. Inequality residuals are satisfied when
// <= 0, equality residuals when == 0.
var constraints = map[string]prob.NonlinearConstraint{
	// Points inside the unit ball.
	"unit-disc": func(x []float64) (ineq, eq []float64) {
		var s float64
		for _, v := range x {
			s += v * v
		}
		return []float64{s - 1}, nil
	},
	// Points on the unit sphere.
	"unit-sphere": func(x []float64) (ineq, eq []float64) {
		var s float64
		for _, v := range x {
			s += v * v
		}
		return nil, []float64{s - 1}
	},
}

// LookupObjective resolves a catalog objective by name.
func LookupObjective(name string) (prob.Objective, error) {
	fn, ok := objectives[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown objective %q", prob.ErrInvalidObjective, name)
	}
	return fn, nil
}

// LookupConstraint resolves a catalog constraint set by name.
func LookupConstraint(name string) (prob.NonlinearConstraint, error) {
	fn, ok := constraints[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown constraint set %q", prob.ErrInvalidNonlinearConstraint, name)
	}
	return fn, nil
}
