// Package num provides the small numeric predicates and slice helpers
// shared by every normalization stage.
package num

import "math"

// Eps is the machine epsilon for float64.
var Eps = math.Nextafter(1, 2) - 1

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// AllFinite reports whether every element of v is finite.
func AllFinite(v []float64) bool {
	for _, x := range v {
		if !IsFinite(x) {
			return false
		}
	}
	return true
}

// IsVector reports whether v has exactly n elements.
func IsVector(v []float64, n int) bool {
	return len(v) == n
}

// IsMatrix reports whether a is a dense matrix with the given column count.
// An empty matrix (zero rows) is always valid.
func IsMatrix(a [][]float64, cols int) bool {
	for _, row := range a {
		if len(row) != cols {
			return false
		}
	}
	return true
}

// MaxAbs returns the largest absolute value in v, or 0 for an empty slice.
func MaxAbs(v []float64) float64 {
	var m float64
	for _, x := range v {
		if a := math.Abs(x); a > m {
			m = a
		}
	}
	return m
}

// Min returns the smallest element of v. Panics on empty input.
func Min(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

// Max returns the largest element of v. Panics on empty input.
func Max(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

// Clone returns a copy of v. A nil input yields an empty, non-nil slice.
func Clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}

// CloneMatrix returns a deep copy of a. A nil input yields an empty,
// non-nil matrix so downstream arithmetic never sees a nil row set.
func CloneMatrix(a [][]float64) [][]float64 {
	out := make([][]float64, len(a))
	for i, row := range a {
		out[i] = Clone(row)
	}
	return out
}

// Filled returns a length-n slice with every element set to x.
func Filled(n int, x float64) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = x
	}
	return v
}

// Gather returns the elements of v at the given indices, in order.
func Gather(v []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for k, i := range idx {
		out[k] = v[i]
	}
	return out
}
