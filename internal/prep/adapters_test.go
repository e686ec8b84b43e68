package prep

import (
	"math"
	"testing"

	"github.com/probkit/dfonorm/internal/prob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectiveAdapterRequiresFunction(t *testing.T) {
	_, err := NewObjectiveAdapter(nil)
	assert.ErrorIs(t, err, prob.ErrInvalidObjective)
}

func TestObjectiveAdapterExtremeBarrier(t *testing.T) {
	big := 1e280
	cases := []struct {
		name string
		raw  float64
		want float64
	}{
		{"finite passes through", 1.5, 1.5},
		{"NaN becomes barrier", math.NaN(), prob.HugeFun},
		{"huge becomes barrier", big * big, prob.HugeFun},
		{"above threshold clamped", 2 * prob.HugeFun, prob.HugeFun},
		{"negative infinity kept", math.Inf(-1), math.Inf(-1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := NewObjectiveAdapter(func([]float64) float64 { return tc.raw })
			require.NoError(t, err)
			got := a.Eval([]float64{0})
			if math.IsInf(tc.want, -1) {
				assert.True(t, math.IsInf(got, -1))
			} else {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestObjectiveAdapterNeverReturnsNaN(t *testing.T) {
	a, err := NewObjectiveAdapter(func(x []float64) float64 { return math.Sqrt(x[0]) })
	require.NoError(t, err)
	assert.Equal(t, prob.HugeFun, a.Eval([]float64{-1}))
}

func TestConstraintAdapterNilMeansAbsent(t *testing.T) {
	a, err := NewConstraintAdapter(nil)
	require.NoError(t, err)
	assert.Nil(t, a)
}

func TestConstraintAdapterClamping(t *testing.T) {
	a, err := NewConstraintAdapter(func([]float64) (ineq, eq []float64) {
		return []float64{math.NaN(), 2 * prob.HugeCon, -2 * prob.HugeCon, 0.5},
			[]float64{math.NaN(), math.Inf(1), math.Inf(-1), -3}
	})
	require.NoError(t, err)

	ineq, eq := a.Eval([]float64{0})
	assert.Equal(t, []float64{prob.HugeCon, prob.HugeCon, -prob.HugeCon, 0.5}, ineq)
	assert.Equal(t, []float64{prob.HugeCon, prob.HugeCon, -prob.HugeCon, -3}, eq)
}

func TestConstraintAdapterLeavesUserBuffersIntact(t *testing.T) {
	// The user function may hand out the same backing slices on every call;
	// clamping must happen on copies, not in place.
	retIneq := []float64{math.NaN(), 5}
	retEq := []float64{math.Inf(1)}
	a, err := NewConstraintAdapter(func([]float64) (ineq, eq []float64) {
		return retIneq, retEq
	})
	require.NoError(t, err)

	ineq, eq := a.Eval([]float64{0})
	assert.Equal(t, []float64{prob.HugeCon, 5}, ineq)
	assert.Equal(t, []float64{prob.HugeCon}, eq)

	assert.True(t, math.IsNaN(retIneq[0]))
	assert.Equal(t, 5.0, retIneq[1])
	assert.True(t, math.IsInf(retEq[0], 1))
}
