// Package tabusearch implements a tabu-search neighbourhood search step:
// a candidate list of random moves is sampled each step, each applied move
// is itself forbidden (tabu) for a tenure of iterations unless it satisfies
// the aspiration criterion of improving on the best solution found so far,
// and the best admissible candidate is accepted. A move that reverses a
// recently applied move is not made tabu.
package tabusearch

import (
	"localsearch/neigh"
	"localsearch/problem"
	"localsearch/search"
	"localsearch/solution"
)

// Stepper is the tabu-search search.Stepper. It carries state (the tabu
// list and iteration counter) across steps, so each NeighbourhoodSearch
// must use its own Stepper instance.
type Stepper[S solution.Type[S]] struct {
	cfg  Config
	tabu map[any]int
	iter int
}

// New constructs a tabu-search Stepper from cfg.
func New[S solution.Type[S]](cfg Config) (*Stepper[S], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Stepper[S]{cfg: cfg, tabu: make(map[any]int)}, nil
}

type candidate[S solution.Type[S]] struct {
	move  neigh.Move[S]
	delta float64
}

// Step implements search.Stepper.
func (s *Stepper[S]) Step(ns *search.NeighbourhoodSearch[S]) error {
	cur, ok := ns.GetCurrentSolution()
	neighbourhoods := ns.Neighbourhoods()
	if !ok || len(neighbourhoods) == 0 {
		return nil
	}
	curEval, _ := ns.GetCurrentSolutionEvaluation()
	bestEval, hasBest := ns.GetBestSolutionEvaluation()

	var bestAllowed, bestAny *candidate[S]
	for k := 0; k < s.cfg.CandidateListSize; k++ {
		n := neighbourhoods[ns.RNG().Intn(len(neighbourhoods))]
		move, ok := n.GetRandomMove(cur, ns.RNG())
		if !ok || !ns.ValidateMove(move) {
			continue
		}
		eval := ns.EvaluateMove(move)
		delta := problem.Delta(ns.Problem(), eval, curEval)
		cand := &candidate[S]{move: move, delta: delta}
		if bestAny == nil || delta > bestAny.delta {
			bestAny = cand
		}

		expiry, isTracked := s.tabu[move]
		isTabu := isTracked && expiry > s.iter
		aspiration := hasBest && problem.Delta(ns.Problem(), eval, bestEval) > 0
		if isTabu && !aspiration {
			continue
		}
		if bestAllowed == nil || delta > bestAllowed.delta {
			bestAllowed = cand
		}
	}

	chosen := bestAllowed
	if chosen == nil {
		chosen = bestAny
	}
	if chosen == nil {
		ns.Stop()
		return nil
	}

	// The chosen candidate is applied even when non-improving: tabu search
	// accepts the best admissible move each step to escape local optima.
	// The tabu list then records this same move value, not its reverse.
	ns.AcceptMove(chosen.move)

	tenure := s.cfg.Tenure
	if s.cfg.TenureRand > 0 {
		tenure += ns.RNG().Intn(s.cfg.TenureRand + 1)
	}
	s.tabu[chosen.move] = s.iter + tenure
	s.iter++
	return nil
}
