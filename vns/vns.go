// Package vns implements a variable-neighbourhood-descent search step: an
// ordered list of neighbourhoods is tried in turn, descending steepest-first
// within whichever neighbourhood is currently active. Advancing to the next
// neighbourhood happens only once the active one yields no improving move;
// any improvement resets back to the first neighbourhood. The search stops
// once a full pass over every configured neighbourhood finds nothing to
// improve, mirroring a local optimum with respect to the union of
// neighbourhoods.
package vns

import (
	"localsearch/search"
	"localsearch/solution"
)

// Stepper is the variable-neighbourhood-descent search.Stepper. It carries
// the index of the currently active neighbourhood across steps, so each
// NeighbourhoodSearch must use its own Stepper instance.
type Stepper[S solution.Type[S]] struct {
	idx int
}

// New constructs a variable-neighbourhood-descent Stepper, starting from
// the first of the search's configured neighbourhoods.
func New[S solution.Type[S]]() *Stepper[S] {
	return &Stepper[S]{}
}

// Step implements search.Stepper.
func (st *Stepper[S]) Step(ns *search.NeighbourhoodSearch[S]) error {
	neighbourhoods := ns.Neighbourhoods()
	if len(neighbourhoods) == 0 {
		ns.Stop()
		return nil
	}
	if st.idx >= len(neighbourhoods) {
		st.idx = 0
	}

	cur, ok := ns.GetCurrentSolution()
	if !ok {
		return nil
	}

	moves := neighbourhoods[st.idx].GetAllMoves(cur)
	best, ok := ns.MoveWithLargestDelta(moves, true)
	if ok {
		ns.AcceptMove(best)
		st.idx = 0
		return nil
	}

	st.idx++
	if st.idx >= len(neighbourhoods) {
		// A full pass over every neighbourhood produced no improving move:
		// the current solution is a local optimum with respect to their
		// union.
		ns.Stop()
	}
	return nil
}
