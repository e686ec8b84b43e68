package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceWriteAndRead(t *testing.T) {
	base := t.TempDir()
	tw, err := NewTraceWriter(base, "run-1")
	require.NoError(t, err)

	require.NoError(t, tw.Record(3.5, 0))
	require.NoError(t, tw.Record(1.25, 0.5))
	require.NoError(t, tw.Record(0.75, 0))
	require.NoError(t, tw.Close())

	assert.Equal(t, filepath.Join(base, "runs", "run-1", "trace.jsonl"), tw.Path())

	entries, err := ReadTrace(tw.Path())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, 1, entries[0].Eval)
	assert.Equal(t, 3, entries[2].Eval)
	assert.Equal(t, 3.5, entries[0].F)
	assert.Equal(t, 0.5, entries[1].Violation)
	assert.False(t, entries[1].Timestamp.IsZero())
}

func TestTraceTruncatesPreviousRun(t *testing.T) {
	base := t.TempDir()

	tw, err := NewTraceWriter(base, "run-1")
	require.NoError(t, err)
	require.NoError(t, tw.Record(1, 0))
	require.NoError(t, tw.Close())

	tw, err = NewTraceWriter(base, "run-1")
	require.NoError(t, err)
	require.NoError(t, tw.Record(2, 0))
	require.NoError(t, tw.Close())

	entries, err := ReadTrace(tw.Path())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 2.0, entries[0].F)
}

func TestReadTraceMissingFile(t *testing.T) {
	_, err := ReadTrace(filepath.Join(t.TempDir(), "trace.jsonl"))
	assert.Error(t, err)
}

func TestReadTraceSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.jsonl")
	content := "{\"eval\":1,\"f\":2}\n\n{\"eval\":2,\"f\":3}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	entries, err := ReadTrace(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 3.0, entries[1].F)
}
