// Package permdomain implements the permutation-solution problem domain: a
// job order subject to swap and insert moves, and the flow-shop makespan
// problem as its canonical objective.
package permdomain

import "localsearch/solution"

// Solution is an ordering of job IDs [0, n). The zero value is not usable;
// construct with New.
type Solution struct {
	order []int
}

var _ solution.Type[*Solution] = (*Solution)(nil)

// New wraps order as a permutation solution, taking ownership of the slice.
func New(order []int) *Solution {
	return &Solution{order: order}
}

// Identity returns the solution [0, 1, ..., n-1].
func Identity(n int) *Solution {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return &Solution{order: order}
}

// Order returns the underlying job order. Callers must not retain or
// mutate the returned slice outside of Apply/Undo.
func (s *Solution) Order() []int { return s.order }

// Len returns the number of jobs.
func (s *Solution) Len() int { return len(s.order) }

// Clone implements solution.Type.
func (s *Solution) Clone() *Solution {
	order := make([]int, len(s.order))
	copy(order, s.order)
	return &Solution{order: order}
}

// Equals implements solution.Type.
func (s *Solution) Equals(other *Solution) bool {
	if other == nil || len(s.order) != len(other.order) {
		return false
	}
	for i, v := range s.order {
		if other.order[i] != v {
			return false
		}
	}
	return true
}
