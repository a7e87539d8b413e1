package search

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"

	"localsearch/cache"
	"localsearch/neigh"
	"localsearch/problem"
	"localsearch/solution"
)

// Stepper implements one algorithm-specific decision per search step,
// against the primitives exposed by NeighbourhoodSearch. Concrete search
// algorithms (random descent, steepest descent, tabu search, ...) live in
// their own packages and each provide a Stepper, selected at construction
// time rather than through subclassing.
type Stepper[S solution.Type[S]] interface {
	Step(ns *NeighbourhoodSearch[S]) error
}

// NeighbourhoodSearch extends Search by adding a current solution,
// repeatedly modified by moves generated by one or more neighbourhoods, and
// the evaluated-move cache and accepted/rejected-move accounting used to
// drive that loop.
type NeighbourhoodSearch[S solution.Type[S]] struct {
	*Search[S]

	neighbourhoods []neigh.Neighbourhood[S]
	rng            *rand.Rand
	stepper        Stepper[S]

	cacheMu sync.Mutex
	cache   cache.EvaluatedMoveCache[S]

	curMu       sync.Mutex
	curSolution *S
	curEval     problem.Evaluation
	hasCur      bool

	numAccepted atomic.Int64
	numRejected atomic.Int64

	neighListenersMu sync.Mutex
	neighListeners   []NeighbourhoodListener[S]
}

// NewNeighbourhoodSearch constructs a NeighbourhoodSearch. rng must be
// non-nil; it is the search's private random source (per the engine's
// no-shared-RNG-state policy), never shared with other searches.
func NewNeighbourhoodSearch[S solution.Type[S]](
	name string,
	p problem.Problem[S],
	neighbourhoods []neigh.Neighbourhood[S],
	rng *rand.Rand,
	stepper Stepper[S],
	opts ...Option[S],
) (*NeighbourhoodSearch[S], error) {
	if rng == nil {
		return nil, fmt.Errorf("search: NewNeighbourhoodSearch: %w: rng", ErrNilInput)
	}
	if stepper == nil {
		return nil, fmt.Errorf("search: NewNeighbourhoodSearch: %w: stepper", ErrNilInput)
	}
	base, err := New(name, p, opts...)
	if err != nil {
		return nil, err
	}
	return &NeighbourhoodSearch[S]{
		Search:         base,
		neighbourhoods: neighbourhoods,
		rng:            rng,
		stepper:        stepper,
		cache:          cache.NewSingle[S](),
	}, nil
}

// Neighbourhoods returns the neighbourhoods configured for this search.
func (ns *NeighbourhoodSearch[S]) Neighbourhoods() []neigh.Neighbourhood[S] {
	return ns.neighbourhoods
}

// RNG returns the search's private random source.
func (ns *NeighbourhoodSearch[S]) RNG() *rand.Rand { return ns.rng }

// SetEvaluatedMoveCache installs a custom cache, replacing the default
// single-entry cache. Fails with ErrNotIdle unless the search is Idle.
func (ns *NeighbourhoodSearch[S]) SetEvaluatedMoveCache(c cache.EvaluatedMoveCache[S]) error {
	if c == nil {
		return fmt.Errorf("search: SetEvaluatedMoveCache: %w", ErrNilInput)
	}
	ns.statusMu.Lock()
	err := ns.assertIdleLocked("SetEvaluatedMoveCache")
	ns.statusMu.Unlock()
	if err != nil {
		return err
	}
	ns.cacheMu.Lock()
	ns.cache = c
	ns.cacheMu.Unlock()
	return nil
}

// AddSearchListener registers a listener, additionally capturing it for
// neighbourhood-specific callbacks if it implements NeighbourhoodListener.
func (ns *NeighbourhoodSearch[S]) AddSearchListener(l Listener[S]) error {
	if err := ns.Search.AddSearchListener(l); err != nil {
		return err
	}
	if nl, ok := l.(NeighbourhoodListener[S]); ok {
		ns.neighListenersMu.Lock()
		ns.neighListeners = append(ns.neighListeners, nl)
		ns.neighListenersMu.Unlock()
	}
	return nil
}

// RemoveSearchListener unregisters a listener, also removing it from the
// neighbourhood-listener list if applicable.
func (ns *NeighbourhoodSearch[S]) RemoveSearchListener(l Listener[S]) error {
	if err := ns.Search.RemoveSearchListener(l); err != nil {
		return err
	}
	if nl, ok := l.(NeighbourhoodListener[S]); ok {
		ns.neighListenersMu.Lock()
		for i, existing := range ns.neighListeners {
			if existing == nl {
				ns.neighListeners = append(ns.neighListeners[:i], ns.neighListeners[i+1:]...)
				break
			}
		}
		ns.neighListenersMu.Unlock()
	}
	return nil
}

func (ns *NeighbourhoodSearch[S]) fireModifiedCurrentSolution(newCur S, newEval problem.Evaluation) {
	ns.neighListenersMu.Lock()
	snap := make([]NeighbourhoodListener[S], len(ns.neighListeners))
	copy(snap, ns.neighListeners)
	ns.neighListenersMu.Unlock()
	for _, l := range snap {
		l.ModifiedCurrentSolution(ns, newCur, newEval)
	}
}

// GetNumAcceptedMoves returns the number of moves accepted during the
// current (or last) run, or InvalidCount while Initializing or before the
// first run.
func (ns *NeighbourhoodSearch[S]) GetNumAcceptedMoves() int64 {
	if ns.GetStatus() == Initializing || !ns.everRun.Load() {
		return InvalidCount
	}
	return ns.numAccepted.Load()
}

// GetNumRejectedMoves returns the number of moves rejected during the
// current (or last) run, or InvalidCount while Initializing or before the
// first run.
func (ns *NeighbourhoodSearch[S]) GetNumRejectedMoves() int64 {
	if ns.GetStatus() == Initializing || !ns.everRun.Load() {
		return InvalidCount
	}
	return ns.numRejected.Load()
}

// GetCurrentSolution returns a deep copy of the current solution, and
// whether one has been set yet (false only before the first run's
// initialization has produced one).
func (ns *NeighbourhoodSearch[S]) GetCurrentSolution() (S, bool) {
	ns.curMu.Lock()
	defer ns.curMu.Unlock()
	if !ns.hasCur {
		var zero S
		return zero, false
	}
	return (*ns.curSolution).Clone(), true
}

// GetCurrentSolutionEvaluation returns the evaluation of the current
// solution, and whether a current solution has been set yet.
func (ns *NeighbourhoodSearch[S]) GetCurrentSolutionEvaluation() (problem.Evaluation, bool) {
	ns.curMu.Lock()
	defer ns.curMu.Unlock()
	return ns.curEval, ns.hasCur
}

// SetCurrentSolution adopts solution as the current solution: it is
// deep-copied, the evaluated-move cache is cleared, the clone is evaluated
// and validated, and updateBestSolution is invoked if it is not rejected.
// Fails with ErrNotIdle unless the search is Idle.
func (ns *NeighbourhoodSearch[S]) SetCurrentSolution(sol S) error {
	ns.statusMu.Lock()
	err := ns.assertIdleLocked("SetCurrentSolution")
	ns.statusMu.Unlock()
	if err != nil {
		return err
	}
	ns.adjustCurrentSolution(sol)
	return nil
}

// adjustCurrentSolution does not check search status; it is used both from
// SetCurrentSolution (after verifying Idle) and from init() when no current
// solution has been set yet.
func (ns *NeighbourhoodSearch[S]) adjustCurrentSolution(sol S) {
	clone := sol.Clone()

	ns.cacheMu.Lock()
	ns.cache.Clear()
	ns.cacheMu.Unlock()

	eval := ns.Problem().Evaluate(clone)

	ns.curMu.Lock()
	ns.curSolution = &clone
	ns.curEval = eval
	ns.hasCur = true
	ns.curMu.Unlock()

	if !ns.Problem().RejectSolution(clone) {
		ns.updateBestSolution(clone, eval)
	}
}

// init validates configuration and, if no current solution is set,
// constructs a random initial one. Errors here surface from Start() as an
// InitError, with the search returning to Idle.
func (ns *NeighbourhoodSearch[S]) init() error {
	if len(ns.neighbourhoods) == 0 {
		return fmt.Errorf("no neighbourhoods configured")
	}
	ns.numAccepted.Store(0)
	ns.numRejected.Store(0)

	ns.curMu.Lock()
	hasCur := ns.hasCur
	ns.curMu.Unlock()
	if !hasCur {
		ns.adjustCurrentSolution(ns.Problem().CreateRandomSolution(ns.rng))
	}
	return nil
}

// Start runs the search until a stop criterion fires or Stop() is called,
// blocking for the run's duration. See package search's run() for the full
// lifecycle sequence.
func (ns *NeighbourhoodSearch[S]) Start() error {
	return ns.Search.run(ns.init, func() error { return ns.stepper.Step(ns) })
}

// EvaluateMove evaluates the neighbour obtained by applying move to the
// current solution, consulting (and populating) the evaluated-move cache.
// Prefers the problem's delta-evaluation path when available.
func (ns *NeighbourhoodSearch[S]) EvaluateMove(move neigh.Move[S]) problem.Evaluation {
	ns.cacheMu.Lock()
	if eval, ok := ns.cache.CachedEvaluation(move); ok {
		ns.cacheMu.Unlock()
		return eval
	}
	ns.cacheMu.Unlock()

	ns.curMu.Lock()
	cur := *ns.curSolution
	curEval := ns.curEval
	var eval problem.Evaluation
	if de, ok := ns.Problem().(problem.DeltaEvaluator[S]); ok {
		eval = de.EvaluateMove(move, cur, curEval)
	} else {
		move.Apply(cur)
		eval = ns.Problem().Evaluate(cur)
		move.Undo(cur)
	}
	ns.curMu.Unlock()

	ns.cacheMu.Lock()
	ns.cache.CacheEvaluation(move, eval)
	ns.cacheMu.Unlock()
	return eval
}

// ValidateMove validates the neighbour obtained by applying move to the
// current solution, consulting (and populating) the evaluated-move cache.
// Returns true iff the neighbour is NOT rejected.
func (ns *NeighbourhoodSearch[S]) ValidateMove(move neigh.Move[S]) bool {
	ns.cacheMu.Lock()
	if rejected, ok := ns.cache.CachedRejection(move); ok {
		ns.cacheMu.Unlock()
		return !rejected
	}
	ns.cacheMu.Unlock()

	ns.curMu.Lock()
	cur := *ns.curSolution
	var rejected bool
	if dv, ok := ns.Problem().(problem.DeltaValidator[S]); ok {
		curValidation := ns.Problem().Validate(cur)
		rejected = !dv.ValidateMove(move, cur, curValidation).Passed()
	} else {
		move.Apply(cur)
		rejected = ns.Problem().RejectSolution(cur)
		move.Undo(cur)
	}
	ns.curMu.Unlock()

	ns.cacheMu.Lock()
	ns.cache.CacheRejection(move, rejected)
	ns.cacheMu.Unlock()
	return !rejected
}

// IsImprovement reports whether applying move to the current solution
// yields a non-rejected neighbour with a strictly positive delta.
func (ns *NeighbourhoodSearch[S]) IsImprovement(move neigh.Move[S]) bool {
	if move == nil {
		return false
	}
	if !ns.ValidateMove(move) {
		return false
	}
	_, curEval := ns.currentSnapshot()
	return problem.Delta(ns.Problem(), ns.EvaluateMove(move), curEval) > 0
}

func (ns *NeighbourhoodSearch[S]) currentSnapshot() (S, problem.Evaluation) {
	ns.curMu.Lock()
	defer ns.curMu.Unlock()
	return *ns.curSolution, ns.curEval
}

// MoveWithLargestDelta scans moves and returns the non-rejected one with
// the greatest delta relative to the current solution (ties broken by
// iteration order), optionally restricted to delta > 0. ok is false if no
// qualifying move exists. The winning move's evaluation and rejection are
// re-cached before returning, to defend against mid-step cache eviction.
func (ns *NeighbourhoodSearch[S]) MoveWithLargestDelta(moves []neigh.Move[S], positiveOnly bool) (best neigh.Move[S], ok bool) {
	bestDelta := -math.MaxFloat64
	var bestEval problem.Evaluation
	_, curEval := ns.currentSnapshot()

	for _, m := range moves {
		if !ns.ValidateMove(m) {
			continue
		}
		eval := ns.EvaluateMove(m)
		delta := problem.Delta(ns.Problem(), eval, curEval)
		if delta > bestDelta && (!positiveOnly || delta > 0) {
			best = m
			bestDelta = delta
			bestEval = eval
			ok = true
		}
	}
	if ok {
		ns.cacheMu.Lock()
		ns.cache.CacheRejection(best, false)
		ns.cache.CacheEvaluation(best, bestEval)
		ns.cacheMu.Unlock()
	}
	return best, ok
}

// AcceptMove applies move to the current solution, updates its evaluation,
// clears the evaluated-move cache, calls updateBestSolution, increments the
// accepted-move counter and fires ModifiedCurrentSolution. Must never be
// called with a move that yields a rejected neighbour.
func (ns *NeighbourhoodSearch[S]) AcceptMove(move neigh.Move[S]) {
	eval := ns.EvaluateMove(move)

	ns.curMu.Lock()
	move.Apply(*ns.curSolution)
	ns.curEval = eval
	cur := *ns.curSolution
	ns.curMu.Unlock()

	ns.cacheMu.Lock()
	ns.cache.Clear()
	ns.cacheMu.Unlock()

	ns.updateBestSolution(cur, eval)
	ns.numAccepted.Add(1)
	if ns.Metrics() != nil {
		ns.Metrics().MoveAccepted()
	}
	ns.fireModifiedCurrentSolution(cur, eval)
}

// RejectMove only updates the rejected-move counter.
func (ns *NeighbourhoodSearch[S]) RejectMove(neigh.Move[S]) {
	ns.numRejected.Add(1)
	if ns.Metrics() != nil {
		ns.Metrics().MoveRejected()
	}
}
