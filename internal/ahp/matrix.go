// Package ahp derives relative weights from a pairwise-comparison matrix using a
// single normalization-and-averaging pass of the Analytic Hierarchy Process.
package ahp

import (
	"fmt"
	"math"
)

// Matrix is a square table of pairwise importance ratios: entry (i,j) is how many
// times more important item i is than item j.
type Matrix [][]float64

// DefaultMatrix returns the comparison matrix for the seven default expense
// categories. A fresh copy is returned on every call.
func DefaultMatrix() Matrix {
	return Matrix{
		{1, 3, 5, 7, 9, 7, 5},
		{1.0 / 3, 1, 3, 5, 7, 5, 3},
		{1.0 / 5, 1.0 / 3, 1, 3, 5, 3, 1},
		{1.0 / 7, 1.0 / 5, 1.0 / 3, 1, 3, 1, 1.0 / 3},
		{1.0 / 9, 1.0 / 7, 1.0 / 5, 1.0 / 3, 1, 1.0 / 3, 1.0 / 5},
		{1.0 / 7, 1.0 / 5, 1.0 / 3, 1, 3, 1, 1.0 / 3},
		{1.0 / 5, 1.0 / 3, 1, 3, 5, 3, 1},
	}
}

// Size returns N for an N×N matrix.
func (m Matrix) Size() int { return len(m) }

// Clone returns a deep copy.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// Validate checks shape, finiteness and that every entry is a positive ratio. A row
// summing to zero reports ErrZeroRowSum ahead of ErrNonPositive. Reciprocity and
// consistency are not checked.
func (m Matrix) Validate() error {
	n := len(m)
	if n == 0 {
		return ErrEmpty
	}
	for i, row := range m {
		if len(row) != n {
			return fmt.Errorf("row %d has %d entries, want %d: %w", i, len(row), n, ErrNonSquare)
		}
		var sum float64
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("row %d: %w", i, ErrNaNInf)
			}
			sum += v
		}
		if sum == 0 {
			return fmt.Errorf("row %d: %w", i, ErrZeroRowSum)
		}
		for j, v := range row {
			if v <= 0 {
				return fmt.Errorf("entry (%d,%d) is %g: %w", i, j, v, ErrNonPositive)
			}
		}
	}
	return nil
}

// Reciprocity reports the largest deviation |m[i][j]*m[j][i] - 1| over all pairs.
// It is a diagnostic only; the calculator never rejects a non-reciprocal matrix.
func (m Matrix) Reciprocity() (float64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	var worst float64
	for i := range m {
		for j := i; j < len(m); j++ {
			if d := math.Abs(m[i][j]*m[j][i] - 1); d > worst {
				worst = d
			}
		}
	}
	return worst, nil
}
