package store

import (
	"fmt"
	"time"

	"github.com/probkit/dfonorm/internal/prob"
	"github.com/probkit/dfonorm/internal/solve"
)

// Report is the persistable record of one normalization (and optionally
// solve) run. The transformation record and the diagnostics come straight
// from the pipeline; Solution is nil for normalize-only runs.
type Report struct {
	// RunID uniquely identifies this run within a store.
	RunID string `json:"runId"`

	// Problem names the problem file the run was loaded from.
	Problem string `json:"problem"`

	// Invoker is the entry point that drove the pipeline.
	Invoker string `json:"invoker"`

	// CreatedAt records when the report was created.
	CreatedAt time.Time `json:"createdAt"`

	// Options is the fully resolved option set, including the solver name.
	Options prob.Resolved `json:"options"`

	// Info is the transformation record: feasibility facts, reduction and
	// scaling maps, and the ordered diagnostics.
	Info *prob.ProblemInfo `json:"info"`

	// Solution holds the canonical-space solver result, if the run solved.
	Solution *solve.Result `json:"solution,omitempty"`

	// X is the solution mapped back to the original variable space.
	X []float64 `json:"x,omitempty"`
}

// ReportInfo is report metadata without the full transformation record,
// for cheap listing.
type ReportInfo struct {
	RunID     string    `json:"runId"`
	Problem   string    `json:"problem"`
	Solver    string    `json:"solver"`
	CreatedAt time.Time `json:"createdAt"`
	Solved    bool      `json:"solved"`
}

// ToInfo converts a full Report to its metadata.
func (r *Report) ToInfo() ReportInfo {
	return ReportInfo{
		RunID:     r.RunID,
		Problem:   r.Problem,
		Solver:    r.Options.Solver,
		CreatedAt: r.CreatedAt,
		Solved:    r.Solution != nil,
	}
}

// Validate checks that the report carries the fields persistence relies on.
func (r *Report) Validate() error {
	if r.RunID == "" {
		return &ValidationError{Field: "RunID", Reason: "cannot be empty"}
	}
	if r.Info == nil {
		return &ValidationError{Field: "Info", Reason: "cannot be nil"}
	}
	if r.Options.Solver == "" {
		return &ValidationError{Field: "Options.Solver", Reason: "cannot be empty"}
	}
	if r.CreatedAt.IsZero() {
		return &ValidationError{Field: "CreatedAt", Reason: "cannot be zero"}
	}
	if r.Solution != nil && len(r.X) != r.Info.RawN {
		return &ValidationError{
			Field:  "X",
			Reason: fmt.Sprintf("length mismatch: got %d, problem dimension is %d", len(r.X), r.Info.RawN),
		}
	}
	return nil
}

// ValidationError represents a report validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}

// NewRunID derives a filesystem-safe run ID from the solver name and a
// timestamp.
func NewRunID(solver string, at time.Time) string {
	return fmt.Sprintf("%s-%s", solver, at.UTC().Format("20060102T150405.000"))
}
