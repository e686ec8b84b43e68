package prob

import "fmt"

// ProblemInfo is the reversible transformation record produced by the
// pipeline. It exclusively owns the fixed/free index sets and the
// scaling/shift vectors needed to map a canonical-space point back to the
// user's original variable space, plus the feasibility facts and the
// ordered diagnostic log. The caller consumes it read-only.
type ProblemInfo struct {
	// RawN is the dimension of the user's original problem.
	RawN int `json:"rawN"`

	// RawType and RefinedType classify the problem before and after
	// normalization; eliminating fixed variables or trivial rows can
	// demote the type.
	RawType     ProblemType `json:"rawType"`
	RefinedType ProblemType `json:"refinedType"`

	Facts ConstraintFacts `json:"facts"`

	// Infeasible is set when any bound or linear row is unsatisfiable.
	Infeasible bool `json:"infeasible"`

	// NoFreeX is set when every variable is fixed by its bounds. The
	// pipeline then records ConstrV0, the constraint violation at the one
	// remaining point, and skips reduction and scaling.
	NoFreeX  bool    `json:"noFreeX"`
	ConstrV0 float64 `json:"constrV0,omitempty"`

	// Reduced is set when fixed variables were eliminated. FreeIndex and
	// FixedIndex partition the original variable indices.
	Reduced    bool  `json:"reduced"`
	FreeIndex  []int `json:"freeIndex,omitempty"`
	FixedIndex []int `json:"fixedIndex,omitempty"`

	// Scaled is set when the affine rescaling ran. The maps are in the
	// reduced space: x_reduced = ScalingFactor ⊙ x_canonical + Shift.
	Scaled              bool      `json:"scaled"`
	SubstantiallyScaled bool      `json:"substantiallyScaled,omitempty"`
	ScalingFactor       []float64 `json:"scalingFactor,omitempty"`
	Shift               []float64 `json:"shift,omitempty"`

	// Solver is the final resolved solver name.
	Solver string `json:"solver"`

	// Warnings is the ordered diagnostic log. Ordering is observable and
	// deterministic: stages append strictly in pipeline order.
	Warnings []Diagnostic `json:"warnings"`
}

// Warnf appends a diagnostic to the ordered log.
func (pi *ProblemInfo) Warnf(id, format string, args ...any) {
	pi.Warnings = append(pi.Warnings, Diagnostic{ID: id, Message: fmt.Sprintf(format, args...)})
}

// Restore maps a canonical-space point back to the original variable space,
// undoing scaling first and then reduction. This is the one obligation the
// pipeline places on its caller before presenting a solution to the user.
func (pi *ProblemInfo) Restore(x []float64) ([]float64, error) {
	y := make([]float64, len(x))
	copy(y, x)

	if pi.Scaled {
		if len(x) != len(pi.ScalingFactor) {
			return nil, fmt.Errorf("%w: restore: point has %d coordinates, scaling map has %d",
				ErrUnexpected, len(x), len(pi.ScalingFactor))
		}
		for i := range y {
			y[i] = pi.ScalingFactor[i]*y[i] + pi.Shift[i]
		}
	}

	if !pi.Reduced {
		return y, nil
	}
	if len(y) != len(pi.FreeIndex) {
		return nil, fmt.Errorf("%w: restore: point has %d coordinates, %d variables are free",
			ErrUnexpected, len(y), len(pi.FreeIndex))
	}
	full := make([]float64, pi.RawN)
	for k, i := range pi.FreeIndex {
		full[i] = y[k]
	}
	for _, i := range pi.FixedIndex {
		full[i] = pi.Facts.FixedValue[i]
	}
	return full, nil
}
