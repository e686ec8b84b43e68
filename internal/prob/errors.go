package prob

import "errors"

// User-facing validation errors. The pipeline aborts immediately when one of
// these is raised; fixing the input and retrying is the expected recovery.
// Callers match with errors.Is.
var (
	ErrInvalidObjective           = errors.New("dfonorm: invalid objective")
	ErrInvalidX0                  = errors.New("dfonorm: invalid initial point")
	ErrInvalidLinearConstraint    = errors.New("dfonorm: invalid linear constraint")
	ErrInvalidBound               = errors.New("dfonorm: invalid bound")
	ErrInvalidNonlinearConstraint = errors.New("dfonorm: invalid nonlinear constraint")
	ErrInvalidOptions             = errors.New("dfonorm: invalid options")
	ErrInvalidProblemType         = errors.New("dfonorm: invalid problem type")
	ErrInvalidInvoker             = errors.New("dfonorm: invalid invoker")
)

// ErrUnexpected marks an internal invariant violation: a defect in this
// package, not user error. It must never occur in correct operation and is
// never silently coerced into a recoverable condition.
var ErrUnexpected = errors.New("dfonorm: unexpected internal error")
