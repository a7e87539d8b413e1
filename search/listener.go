package search

import (
	"localsearch/problem"
	"localsearch/solution"
)

// Listener receives lifecycle callbacks from a Search[S]. Implementations
// that also want neighbourhood-specific callbacks should additionally
// satisfy NeighbourhoodListener[S]; the engine invokes the broader set only
// for listeners advertising that capability (checked with a type
// assertion), rather than requiring every listener to implement every
// callback.
type Listener[S solution.Type[S]] interface {
	SearchStarted(s *Search[S])
	SearchStopped(s *Search[S])
	StatusChanged(s *Search[S], oldStatus, newStatus Status)
	NewBestSolution(s *Search[S], newBest S, newBestEvaluation problem.Evaluation)
	StepCompleted(s *Search[S], numSteps int64)
}

// NeighbourhoodListener additionally receives the current-solution-modified
// callback fired by NeighbourhoodSearch[S].
type NeighbourhoodListener[S solution.Type[S]] interface {
	Listener[S]
	ModifiedCurrentSolution(ns *NeighbourhoodSearch[S], newCurrent S, newCurrentEvaluation problem.Evaluation)
}

// BaseListener is a no-op Listener implementation meant to be embedded by
// listeners that only care about a subset of callbacks.
type BaseListener[S solution.Type[S]] struct{}

func (BaseListener[S]) SearchStarted(*Search[S])                          {}
func (BaseListener[S]) SearchStopped(*Search[S])                          {}
func (BaseListener[S]) StatusChanged(*Search[S], Status, Status)          {}
func (BaseListener[S]) NewBestSolution(*Search[S], S, problem.Evaluation) {}
func (BaseListener[S]) StepCompleted(*Search[S], int64)                   {}

// BaseNeighbourhoodListener embeds BaseListener and additionally no-ops
// ModifiedCurrentSolution.
type BaseNeighbourhoodListener[S solution.Type[S]] struct {
	BaseListener[S]
}

func (BaseNeighbourhoodListener[S]) ModifiedCurrentSolution(*NeighbourhoodSearch[S], S, problem.Evaluation) {
}
