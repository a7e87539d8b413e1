package subset

import (
	"math/rand"

	"localsearch/neigh"
)

// SingleSwapNeighbourhood generates SwapMove moves only: applying one
// preserves |selected|, so this neighbourhood only suits fixed-size subset
// problems. A set of fixed IDs, if given, is never added nor removed.
//
// SingleSwapNeighbourhood holds no mutable state and is safe to share
// across concurrently running searches, each driving its own *rand.Rand.
type SingleSwapNeighbourhood struct {
	fixedIDs map[int]struct{}
}

var _ neigh.Neighbourhood[*Solution] = SingleSwapNeighbourhood{}

// NewSingleSwapNeighbourhood creates a single-swap neighbourhood with no
// fixed IDs.
func NewSingleSwapNeighbourhood() SingleSwapNeighbourhood {
	return SingleSwapNeighbourhood{}
}

// NewSingleSwapNeighbourhoodWithFixedIDs creates a single-swap
// neighbourhood that never swaps any ID in fixedIDs.
func NewSingleSwapNeighbourhoodWithFixedIDs(fixedIDs []int) SingleSwapNeighbourhood {
	m := make(map[int]struct{}, len(fixedIDs))
	for _, id := range fixedIDs {
		m[id] = struct{}{}
	}
	return SingleSwapNeighbourhood{fixedIDs: m}
}

func (n SingleSwapNeighbourhood) candidates(s *Solution) (del, add []int) {
	del = s.SelectedIDs()
	add = s.UnselectedIDs()
	if len(n.fixedIDs) == 0 {
		return del, add
	}
	del = filterOut(del, n.fixedIDs)
	add = filterOut(add, n.fixedIDs)
	return del, add
}

func filterOut(ids []int, exclude map[int]struct{}) []int {
	out := ids[:0:0]
	for _, id := range ids {
		if _, skip := exclude[id]; !skip {
			out = append(out, id)
		}
	}
	return out
}

// GetRandomMove implements neigh.Neighbourhood.
func (n SingleSwapNeighbourhood) GetRandomMove(s *Solution, rng *rand.Rand) (neigh.Move[*Solution], bool) {
	del, add := n.candidates(s)
	if len(del) == 0 || len(add) == 0 {
		return nil, false
	}
	return NewSwapMove(add[rng.Intn(len(add))], del[rng.Intn(len(del))]), true
}

// GetAllMoves implements neigh.Neighbourhood.
func (n SingleSwapNeighbourhood) GetAllMoves(s *Solution) []neigh.Move[*Solution] {
	del, add := n.candidates(s)
	moves := make([]neigh.Move[*Solution], 0, len(del)*len(add))
	for _, d := range del {
		for _, a := range add {
			moves = append(moves, NewSwapMove(a, d))
		}
	}
	return moves
}
