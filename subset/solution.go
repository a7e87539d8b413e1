// Package subset implements the subset-selection problem domain: a universe
// of integer IDs partitioned into selected/unselected sets, the swap move
// that transforms a selection in place, and the single-swap neighbourhood
// that generates such moves.
package subset

import (
	"sort"

	"localsearch/solution"
)

// Solution is a partition of a universe of integer IDs into disjoint
// selected and unselected sets. The zero value is not usable; construct
// with New or NewFromSelection.
type Solution struct {
	selected   map[int]struct{}
	unselected map[int]struct{}
}

var _ solution.Type[*Solution] = (*Solution)(nil)

// New builds a Solution over universe with no IDs selected.
func New(universe []int) *Solution {
	return NewFromSelection(universe, nil)
}

// NewFromSelection builds a Solution over universe with the IDs in
// selected marked selected; selected must be a subset of universe.
func NewFromSelection(universe []int, selected []int) *Solution {
	sel := make(map[int]struct{}, len(selected))
	for _, id := range selected {
		sel[id] = struct{}{}
	}
	unsel := make(map[int]struct{}, len(universe)-len(sel))
	for _, id := range universe {
		if _, ok := sel[id]; !ok {
			unsel[id] = struct{}{}
		}
	}
	return &Solution{selected: sel, unselected: unsel}
}

// Clone implements solution.Type.
func (s *Solution) Clone() *Solution {
	sel := make(map[int]struct{}, len(s.selected))
	for id := range s.selected {
		sel[id] = struct{}{}
	}
	unsel := make(map[int]struct{}, len(s.unselected))
	for id := range s.unselected {
		unsel[id] = struct{}{}
	}
	return &Solution{selected: sel, unselected: unsel}
}

// Equals implements solution.Type.
func (s *Solution) Equals(other *Solution) bool {
	if other == nil || len(s.selected) != len(other.selected) {
		return false
	}
	for id := range s.selected {
		if _, ok := other.selected[id]; !ok {
			return false
		}
	}
	return true
}

// NumSelectedIDs returns |selected|.
func (s *Solution) NumSelectedIDs() int { return len(s.selected) }

// Contains reports whether id is currently selected.
func (s *Solution) Contains(id int) bool {
	_, ok := s.selected[id]
	return ok
}

// SelectedIDs returns the currently selected IDs in ascending order.
func (s *Solution) SelectedIDs() []int { return sortedKeys(s.selected) }

// UnselectedIDs returns the currently unselected IDs in ascending order.
func (s *Solution) UnselectedIDs() []int { return sortedKeys(s.unselected) }

func sortedKeys(m map[int]struct{}) []int {
	out := make([]int, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

func (s *Solution) selectID(id int) {
	delete(s.unselected, id)
	s.selected[id] = struct{}{}
}

func (s *Solution) deselectID(id int) {
	delete(s.selected, id)
	s.unselected[id] = struct{}{}
}
