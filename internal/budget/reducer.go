package budget

import (
	"fmt"

	"github.com/MikeSquared-Agency/Apportion/internal/ahp"
)

// Action is a state transition understood by Reduce.
type Action interface {
	apply(State) (State, error)
}

// EditRank sets the rank of one category and re-sorts the list. Duplicate ranks are
// allowed. Existing weights stay attached to their categories.
type EditRank struct {
	Name string
	Rank int
}

// CalculateWeights computes weights from Matrix and attaches weight i to the category
// at position i of the rank-sorted list. When Rescale is false the unscaled one-pass
// scores are attached instead.
type CalculateWeights struct {
	Matrix  ahp.Matrix
	Rescale bool
}

// Reduce applies a to a copy of s. On error the returned State is the unchanged input.
func Reduce(s State, a Action) (State, error) {
	next, err := a.apply(s.Clone())
	if err != nil {
		return s, err
	}
	return next, nil
}

func (a EditRank) apply(s State) (State, error) {
	i := s.Find(a.Name)
	if i < 0 {
		return s, fmt.Errorf("%q: %w", a.Name, ErrUnknownCategory)
	}
	if a.Rank < 1 || a.Rank > s.Len() {
		return s, fmt.Errorf("rank %d not in [1, %d]: %w", a.Rank, s.Len(), ErrRankOutOfRange)
	}
	s.Categories[i].Rank = a.Rank
	s.sortByRank()
	return s, nil
}

func (a CalculateWeights) apply(s State) (State, error) {
	if a.Matrix.Size() != s.Len() {
		return s, fmt.Errorf("%d×%d matrix for %d categories: %w",
			a.Matrix.Size(), a.Matrix.Size(), s.Len(), ErrDimensionMismatch)
	}

	var (
		weights []float64
		err     error
	)
	if a.Rescale {
		weights, err = ahp.ComputeWeights(a.Matrix)
	} else {
		weights, err = ahp.OnePass(a.Matrix)
	}
	if err != nil {
		return s, fmt.Errorf("calculate weights: %w", err)
	}

	for i := range s.Categories {
		w := weights[i]
		s.Categories[i].Weight = &w
	}
	return s, nil
}
