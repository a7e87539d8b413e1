// Package randomdescent implements a random-descent neighbourhood search
// step: draw a single random move from a random neighbourhood and accept it
// iff it is a non-rejected improvement.
package randomdescent

import (
	"localsearch/search"
	"localsearch/solution"
)

// Stepper is the random-descent search.Stepper.
type Stepper[S solution.Type[S]] struct{}

// New constructs a random-descent Stepper.
func New[S solution.Type[S]]() search.Stepper[S] {
	return Stepper[S]{}
}

// Step implements search.Stepper.
func (Stepper[S]) Step(ns *search.NeighbourhoodSearch[S]) error {
	cur, ok := ns.GetCurrentSolution()
	neighbourhoods := ns.Neighbourhoods()
	if !ok || len(neighbourhoods) == 0 {
		return nil
	}
	n := neighbourhoods[ns.RNG().Intn(len(neighbourhoods))]
	move, ok := n.GetRandomMove(cur, ns.RNG())
	if !ok {
		return nil
	}
	if ns.IsImprovement(move) {
		ns.AcceptMove(move)
	} else {
		ns.RejectMove(move)
	}
	return nil
}
