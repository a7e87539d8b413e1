// Package steepestdescent implements a steepest-descent neighbourhood
// search step: evaluate every move in every configured neighbourhood and
// accept the one with the largest improving delta, stopping the search
// once no improving move remains (a local optimum has been reached).
package steepestdescent

import (
	"localsearch/neigh"
	"localsearch/search"
	"localsearch/solution"
)

// Stepper is the steepest-descent search.Stepper.
type Stepper[S solution.Type[S]] struct{}

// New constructs a steepest-descent Stepper.
func New[S solution.Type[S]]() search.Stepper[S] {
	return Stepper[S]{}
}

// Step implements search.Stepper.
func (Stepper[S]) Step(ns *search.NeighbourhoodSearch[S]) error {
	cur, ok := ns.GetCurrentSolution()
	if !ok {
		return nil
	}
	var all []neigh.Move[S]
	for _, n := range ns.Neighbourhoods() {
		all = append(all, n.GetAllMoves(cur)...)
	}
	best, ok := ns.MoveWithLargestDelta(all, true)
	if !ok {
		ns.Stop()
		return nil
	}
	ns.AcceptMove(best)
	return nil
}
