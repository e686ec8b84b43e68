package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/probkit/dfonorm/internal/solve"
	"github.com/probkit/dfonorm/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSolveAllFixedSkipsSolver(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pinned.yaml")
	require.NoError(t, os.WriteFile(path, []byte("x0: [9, 9]\nlb: [1, 2]\nub: [1, 2]\n"), 0o644))

	origPath, origDataDir, origSave := solveProblemPath, solveDataDir, solveSave
	solveProblemPath = path
	solveDataDir = filepath.Join(dir, "data")
	solveSave = true
	defer func() {
		solveProblemPath, solveDataDir, solveSave = origPath, origDataDir, origSave
	}()

	// The pinned-point path must not reach a solver backend, so the command
	// succeeds without a maxfun-sized evaluation burn.
	require.NoError(t, runSolve(solveCmd, nil))

	st, err := store.NewFSStore(solveDataDir)
	require.NoError(t, err)
	infos, err := st.ListReports()
	require.NoError(t, err)
	require.Len(t, infos, 1)

	rep, err := st.LoadReport(infos[0].RunID)
	require.NoError(t, err)
	require.NotNil(t, rep.Solution)
	assert.Equal(t, 1, rep.Solution.NumEval)
	assert.Equal(t, solve.ExitConverged, rep.Solution.ExitFlag)
	assert.Equal(t, []float64{1, 2}, rep.X)
	// sphere at the pinned point [1, 2].
	assert.InDelta(t, 5.0, rep.Solution.F, 1e-12)
	assert.True(t, rep.Info.NoFreeX)
}
