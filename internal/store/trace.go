package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// TraceEntry is one objective evaluation, serialized as a JSON line in
// trace.jsonl. It records the canonical-space function value (after
// extreme-barrier clamping) and the constraint violation at that point.
type TraceEntry struct {
	// Eval is the evaluation counter, starting at 1.
	Eval int `json:"eval"`

	// F is the objective value at this evaluation.
	F float64 `json:"f"`

	// Violation is the worst constraint violation at this point, 0 when
	// feasible. Omitted for unconstrained problems.
	Violation float64 `json:"violation,omitempty"`

	// Timestamp records when the evaluation happened.
	Timestamp time.Time `json:"timestamp"`
}

// TraceWriter appends evaluation entries to a JSONL file. Buffered, and
// safe for concurrent use although the pipeline itself evaluates
// sequentially.
type TraceWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
	path   string
	count  int
}

// NewTraceWriter creates the trace file for a run at
// <baseDir>/runs/<runID>/trace.jsonl, truncating any previous trace.
func NewTraceWriter(baseDir, runID string) (*TraceWriter, error) {
	runDir := filepath.Join(baseDir, "runs", runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}
	path := filepath.Join(runDir, "trace.jsonl")
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	return &TraceWriter{
		file:   file,
		writer: bufio.NewWriterSize(file, 64*1024),
		path:   path,
	}, nil
}

// Record appends one evaluation to the trace.
func (t *TraceWriter) Record(f, violation float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.count++
	entry := TraceEntry{Eval: t.count, F: f, Violation: violation, Timestamp: time.Now()}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to serialize trace entry: %w", err)
	}
	if _, err := t.writer.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write trace entry: %w", err)
	}
	return nil
}

// Close flushes and closes the trace file.
func (t *TraceWriter) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.writer.Flush(); err != nil {
		t.file.Close()
		return fmt.Errorf("failed to flush trace: %w", err)
	}
	return t.file.Close()
}

// Path returns the trace file location.
func (t *TraceWriter) Path() string { return t.path }

// ReadTrace loads all entries from a trace file.
func ReadTrace(path string) ([]TraceEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer file.Close()

	var entries []TraceEntry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry TraceEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("failed to parse trace entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trace file: %w", err)
	}
	return entries, nil
}
