package ahp

import (
	"fmt"
	"math"
)

// SumTolerance bounds how far a rescaled weight vector may drift from a total of 1.0.
const SumTolerance = 1e-9

// NormalizeRows divides every entry by its row sum. Scaling a whole row by a positive
// constant leaves that row of the result unchanged.
func NormalizeRows(m Matrix) (Matrix, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	norm := make(Matrix, len(m))
	for i, row := range m {
		var sum float64
		for _, v := range row {
			sum += v
		}
		norm[i] = make([]float64, len(row))
		for j, v := range row {
			norm[i][j] = v / sum
		}
	}
	return norm, nil
}

// OnePass runs one normalization-and-averaging step and returns the unscaled score
// per row:
//
//	norm[i][j] = m[i][j] / Σⱼ m[i][j]
//	colAvg[j]  = Σᵢ norm[i][j] / N
//	raw[i]     = Σⱼ norm[i][j] * colAvg[j]
//
// This approximates the principal eigenvector; it is not a converged solve. The
// scores do not sum to 1 in general.
func OnePass(m Matrix) ([]float64, error) {
	norm, err := NormalizeRows(m)
	if err != nil {
		return nil, err
	}
	n := len(norm)

	colAvg := make([]float64, n)
	for _, row := range norm {
		for j, v := range row {
			colAvg[j] += v
		}
	}
	for j := range colAvg {
		colAvg[j] /= float64(n)
	}

	raw := make([]float64, n)
	for i, row := range norm {
		var s float64
		for j, v := range row {
			// explicit conversion keeps the product unfused
			s += float64(v * colAvg[j])
		}
		raw[i] = s
	}
	return raw, nil
}

// ComputeWeights returns the one-pass scores rescaled to sum to 1.0 within
// SumTolerance. A zero row sum fails with ErrZeroRowSum.
func ComputeWeights(m Matrix) ([]float64, error) {
	raw, err := OnePass(m)
	if err != nil {
		return nil, err
	}
	w := Rescale(raw)
	if err := Validate(w); err != nil {
		return nil, fmt.Errorf("compute weights: %w", err)
	}
	return w, nil
}

// Sum returns the total of v.
func Sum(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}

// Rescale divides every element by the total. A zero total returns a copy unchanged.
func Rescale(v []float64) []float64 {
	out := append([]float64(nil), v...)
	total := Sum(v)
	if total == 0 {
		return out
	}
	for i := range out {
		out[i] /= total
	}
	return out
}

// Validate checks that w is a usable weight vector: non-negative, finite, summing to 1.
func Validate(w []float64) error {
	for i, v := range w {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("weight %d: %w", i, ErrNaNInf)
		}
		if v < 0 {
			return fmt.Errorf("negative weight at %d: %f", i, v)
		}
	}
	if s := Sum(w); math.Abs(s-1.0) > SumTolerance {
		return fmt.Errorf("weights sum to %.12f, must sum to 1.0", s)
	}
	return nil
}
