// Package budget holds the ranked expense-category list and the transitions that
// change it. State values are never mutated in place; every transition returns a new
// State.
package budget

import (
	"errors"
	"sort"
)

var (
	ErrUnknownCategory   = errors.New("unknown category")
	ErrRankOutOfRange    = errors.New("rank out of range")
	ErrDimensionMismatch = errors.New("matrix size does not match category count")
)

// Category is one expense category. Weight stays nil until weights are calculated.
type Category struct {
	Name   string   `json:"name"`
	Rank   int      `json:"rank"`
	Weight *float64 `json:"weight,omitempty"`
}

// DefaultNames lists the seven expense categories in their initial order.
var DefaultNames = []string{
	"Housing",
	"Transportation",
	"Food",
	"Entertainment",
	"Utilities",
	"Clothing",
	"Other",
}

// State is the ordered category list. Order is always ascending by rank.
type State struct {
	Categories []Category `json:"categories"`
}

// NewState creates categories with ranks 1..N in the given order and no weights.
func NewState(names []string) State {
	cats := make([]Category, len(names))
	for i, name := range names {
		cats[i] = Category{Name: name, Rank: i + 1}
	}
	return State{Categories: cats}
}

// DefaultState returns the seven default categories ranked 1..7.
func DefaultState() State {
	return NewState(DefaultNames)
}

// Len returns the number of categories.
func (s State) Len() int { return len(s.Categories) }

// Find returns the index of the named category, or -1.
func (s State) Find(name string) int {
	for i, c := range s.Categories {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Weighted reports whether every category carries a weight. An empty list is not
// weighted.
func (s State) Weighted() bool {
	if len(s.Categories) == 0 {
		return false
	}
	for _, c := range s.Categories {
		if c.Weight == nil {
			return false
		}
	}
	return true
}

// Weights returns the weight per category in list order, 0 where unset.
func (s State) Weights() []float64 {
	out := make([]float64, len(s.Categories))
	for i, c := range s.Categories {
		if c.Weight != nil {
			out[i] = *c.Weight
		}
	}
	return out
}

// Clone returns a deep copy, including weight pointers.
func (s State) Clone() State {
	cats := make([]Category, len(s.Categories))
	for i, c := range s.Categories {
		cats[i] = c
		if c.Weight != nil {
			w := *c.Weight
			cats[i].Weight = &w
		}
	}
	return State{Categories: cats}
}

// sortByRank orders categories by rank; ties keep their current relative order.
func (s State) sortByRank() {
	sort.SliceStable(s.Categories, func(i, j int) bool {
		return s.Categories[i].Rank < s.Categories[j].Rank
	})
}
