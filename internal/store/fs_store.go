package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FSStore implements the Store interface using filesystem persistence.
// Reports live in a flat directory structure: <baseDir>/runs/<runID>/
//
// Thread-safety: atomic file operations (rename) only, no locks needed.
type FSStore struct {
	baseDir string
}

// NewFSStore creates a filesystem store rooted at baseDir, creating the
// directory if needed.
func NewFSStore(baseDir string) (*FSStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &FSStore{baseDir: baseDir}, nil
}

func (fs *FSStore) runDir(runID string) string {
	return filepath.Join(fs.baseDir, "runs", runID)
}

func (fs *FSStore) reportPath(runID string) string {
	return filepath.Join(fs.runDir(runID), "report.json")
}

// TracePath returns the evaluation trace path for a run.
func (fs *FSStore) TracePath(runID string) string {
	return filepath.Join(fs.runDir(runID), "trace.jsonl")
}

// SaveReport atomically saves a report using the temp file + rename pattern.
func (fs *FSStore) SaveReport(report *Report) error {
	if report == nil {
		return fmt.Errorf("report cannot be nil")
	}
	if err := report.Validate(); err != nil {
		return fmt.Errorf("invalid report: %w", err)
	}

	runDir := fs.runDir(report.RunID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	finalPath := fs.reportPath(report.RunID)
	tempPath := finalPath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp report file: %w", err)
	}
	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename report file: %w", err)
	}

	slog.Debug("Report saved", "runID", report.RunID, "path", finalPath)
	return nil
}

// LoadReport reads and deserializes the report for runID.
func (fs *FSStore) LoadReport(runID string) (*Report, error) {
	data, err := os.ReadFile(fs.reportPath(runID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{RunID: runID}
		}
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to deserialize report: %w", err)
	}
	return &report, nil
}

// ListReports scans the runs directory and returns metadata for every
// readable report. Corrupt or foreign entries are skipped with a debug log.
func (fs *FSStore) ListReports() ([]ReportInfo, error) {
	runsDir := filepath.Join(fs.baseDir, "runs")
	entries, err := os.ReadDir(runsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []ReportInfo{}, nil
		}
		return nil, fmt.Errorf("failed to scan runs directory: %w", err)
	}

	infos := make([]ReportInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		report, err := fs.LoadReport(entry.Name())
		if err != nil {
			slog.Debug("Skipping unreadable report", "runID", entry.Name(), "error", err)
			continue
		}
		infos = append(infos, report.ToInfo())
	}
	return infos, nil
}

// DeleteReport removes the run directory and everything in it.
func (fs *FSStore) DeleteReport(runID string) error {
	runDir := fs.runDir(runID)
	if _, err := os.Stat(fs.reportPath(runID)); err != nil {
		if os.IsNotExist(err) {
			return &NotFoundError{RunID: runID}
		}
		return fmt.Errorf("failed to stat report: %w", err)
	}
	if err := os.RemoveAll(runDir); err != nil {
		return fmt.Errorf("failed to delete run directory: %w", err)
	}
	slog.Debug("Report deleted", "runID", runID)
	return nil
}
