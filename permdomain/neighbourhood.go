package permdomain

import (
	"math/rand"

	"localsearch/neigh"
)

// SwapNeighbourhood generates SwapMove moves between every pair of
// positions.
type SwapNeighbourhood struct{}

var _ neigh.Neighbourhood[*Solution] = SwapNeighbourhood{}

// GetRandomMove implements neigh.Neighbourhood.
func (SwapNeighbourhood) GetRandomMove(s *Solution, rng *rand.Rand) (neigh.Move[*Solution], bool) {
	n := s.Len()
	if n < 2 {
		return nil, false
	}
	i := rng.Intn(n)
	j := rng.Intn(n - 1)
	if j >= i {
		j++
	}
	return SwapMove{I: i, J: j}, true
}

// GetAllMoves implements neigh.Neighbourhood.
func (SwapNeighbourhood) GetAllMoves(s *Solution) []neigh.Move[*Solution] {
	n := s.Len()
	moves := make([]neigh.Move[*Solution], 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			moves = append(moves, SwapMove{I: i, J: j})
		}
	}
	return moves
}

// InsertNeighbourhood generates InsertMove moves between every pair of
// distinct positions.
type InsertNeighbourhood struct{}

var _ neigh.Neighbourhood[*Solution] = InsertNeighbourhood{}

// GetRandomMove implements neigh.Neighbourhood.
func (InsertNeighbourhood) GetRandomMove(s *Solution, rng *rand.Rand) (neigh.Move[*Solution], bool) {
	n := s.Len()
	if n < 2 {
		return nil, false
	}
	i := rng.Intn(n)
	j := rng.Intn(n - 1)
	if j >= i {
		j++
	}
	return InsertMove{From: i, To: j}, true
}

// GetAllMoves implements neigh.Neighbourhood.
func (InsertNeighbourhood) GetAllMoves(s *Solution) []neigh.Move[*Solution] {
	n := s.Len()
	moves := make([]neigh.Move[*Solution], 0, n*(n-1))
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				moves = append(moves, InsertMove{From: i, To: j})
			}
		}
	}
	return moves
}
