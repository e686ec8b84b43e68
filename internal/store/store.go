// Package store persists normalization run reports and evaluation traces
// on the filesystem.
package store

// Store is the persistence boundary for run reports.
//
// Error handling conventions:
//   - Return nil error on success
//   - Return ErrNotFound if a report doesn't exist (for Load/Delete)
//   - Wrap underlying errors with context using fmt.Errorf("context: %w", err)
type Store interface {
	// SaveReport atomically saves a report under its run ID, overwriting
	// any previous report with the same ID. Implementations should use an
	// atomic write strategy (temp file + rename) to prevent corruption.
	SaveReport(report *Report) error

	// LoadReport retrieves the report for the given run ID.
	// Returns ErrNotFound if no report exists.
	LoadReport(runID string) (*Report, error)

	// ListReports returns metadata for all stored reports.
	// The returned slice may be empty.
	ListReports() ([]ReportInfo, error)

	// DeleteReport removes the report and any associated trace file.
	// Returns ErrNotFound if no report exists for this run ID.
	DeleteReport(runID string) error
}

// ErrNotFound is returned when a requested report does not exist.
// Use errors.Is(err, ErrNotFound) to check for this error.
var ErrNotFound = &NotFoundError{}

// NotFoundError represents a missing report error.
type NotFoundError struct {
	RunID string
}

func (e *NotFoundError) Error() string {
	if e.RunID != "" {
		return "report not found: " + e.RunID
	}
	return "report not found"
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}
