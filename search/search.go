// Package search implements the abstract search lifecycle: the status
// state machine, the background stop-criterion checker integration,
// listener dispatch and best-solution tracking. NeighbourhoodSearch (see
// neighbourhood.go) builds the current-solution loop and move accounting on
// top of this core.
package search

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"localsearch/metrics"
	"localsearch/problem"
	"localsearch/searchlog"
	"localsearch/solution"
	"localsearch/stopcrit"
)

// invalidDuration is the duration-typed counterpart of InvalidCount.
const invalidDuration = time.Duration(InvalidCount)

// Search is the abstract search core: lifecycle, listeners, stop criteria
// and best-solution tracking, shared by every concrete search algorithm in
// this module via NeighbourhoodSearch.
type Search[S solution.Type[S]] struct {
	id   uuid.UUID
	name string
	prob problem.Problem[S]
	log  searchlog.Logger
	mtr  *metrics.Collector

	statusMu sync.Mutex
	status   Status

	listenersMu sync.Mutex
	listeners   []Listener[S]

	checker *stopcrit.Checker

	bestMu       sync.Mutex
	bestSolution *S
	bestEval     problem.Evaluation
	hasBest      bool
	minDelta     float64
	hasMinDelta  bool

	startNano           atomic.Int64
	stopNano            atomic.Int64
	everRun             atomic.Bool
	stepCount           atomic.Int64
	lastImprovementNano atomic.Int64
	stepsSinceImprove   atomic.Int64
}

// Option configures a Search at construction time.
type Option[S solution.Type[S]] func(*Search[S])

// WithLogger overrides the default no-op logger.
func WithLogger[S solution.Type[S]](l searchlog.Logger) Option[S] {
	return func(s *Search[S]) { s.log = l }
}

// WithMetrics attaches a Prometheus collector; nil is a documented no-op.
func WithMetrics[S solution.Type[S]](m *metrics.Collector) Option[S] {
	return func(s *Search[S]) { s.mtr = m }
}

// WithCheckPeriod overrides the default 1s background stop-checker period.
func WithCheckPeriod[S solution.Type[S]](d time.Duration) Option[S] {
	return func(s *Search[S]) { s.checker.SetPeriod(d) }
}

// New constructs a Search for the given problem. name defaults to
// "Search" if empty.
func New[S solution.Type[S]](name string, p problem.Problem[S], opts ...Option[S]) (*Search[S], error) {
	if p == nil {
		return nil, fmt.Errorf("search: %w: problem", ErrNilInput)
	}
	if name == "" {
		name = "Search"
	}
	s := &Search[S]{
		id:      uuid.New(),
		name:    name,
		prob:    p,
		log:     searchlog.NoOp(),
		checker: stopcrit.NewChecker(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.checker.OnPanic(func(r any) {
		s.log.Warn("stop criterion panicked, failing safe", "search", s.name, "recovered", r)
	})
	return s, nil
}

// ID returns the search's unique identifier, stable for its lifetime.
func (s *Search[S]) ID() uuid.UUID { return s.id }

// Name returns the search's configured name.
func (s *Search[S]) Name() string { return s.name }

// Problem returns the problem this search solves.
func (s *Search[S]) Problem() problem.Problem[S] { return s.prob }

// Logger returns the search's logging binding.
func (s *Search[S]) Logger() searchlog.Logger { return s.log }

// Metrics returns the search's attached metrics collector, possibly nil.
func (s *Search[S]) Metrics() *metrics.Collector { return s.mtr }

// GetStatus returns the current lifecycle status.
func (s *Search[S]) GetStatus() Status {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	return s.status
}

// assertIdleLocked must be called with statusMu held.
func (s *Search[S]) assertIdleLocked(op string) error {
	if s.status == Disposed {
		return fmt.Errorf("search: %s: %w", op, ErrDisposed)
	}
	if s.status != Idle {
		return fmt.Errorf("search: %s: %w", op, ErrNotIdle)
	}
	return nil
}

func (s *Search[S]) setStatus(newStatus Status) Status {
	s.statusMu.Lock()
	old := s.status
	s.status = newStatus
	s.statusMu.Unlock()
	if old != newStatus {
		s.log.Debug("status changed", "search", s.name, "from", old.String(), "to", newStatus.String())
		for _, l := range s.listenerSnapshot() {
			l.StatusChanged(s, old, newStatus)
		}
	}
	return old
}

func (s *Search[S]) listenerSnapshot() []Listener[S] {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	out := make([]Listener[S], len(s.listeners))
	copy(out, s.listeners)
	return out
}

// AddSearchListener registers a listener. Fails with ErrNotIdle unless the
// search is Idle.
func (s *Search[S]) AddSearchListener(l Listener[S]) error {
	if l == nil {
		return fmt.Errorf("search: AddSearchListener: %w", ErrNilInput)
	}
	s.statusMu.Lock()
	err := s.assertIdleLocked("AddSearchListener")
	s.statusMu.Unlock()
	if err != nil {
		return err
	}
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	for _, existing := range s.listeners {
		if existing == l {
			return nil
		}
	}
	s.listeners = append(s.listeners, l)
	return nil
}

// RemoveSearchListener unregisters a listener previously added with
// AddSearchListener. Fails with ErrNotIdle unless the search is Idle.
func (s *Search[S]) RemoveSearchListener(l Listener[S]) error {
	s.statusMu.Lock()
	err := s.assertIdleLocked("RemoveSearchListener")
	s.statusMu.Unlock()
	if err != nil {
		return err
	}
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	for i, existing := range s.listeners {
		if existing == l {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return nil
		}
	}
	return nil
}

// AddStopCriterion registers a stop criterion. Fails with ErrNotIdle unless
// the search is Idle.
func (s *Search[S]) AddStopCriterion(sc stopcrit.StopCriterion) error {
	if sc == nil {
		return fmt.Errorf("search: AddStopCriterion: %w", ErrNilInput)
	}
	s.statusMu.Lock()
	err := s.assertIdleLocked("AddStopCriterion")
	s.statusMu.Unlock()
	if err != nil {
		return err
	}
	s.checker.Add(sc)
	return nil
}

// RemoveStopCriterion unregisters a stop criterion. Fails with ErrNotIdle
// unless the search is Idle.
func (s *Search[S]) RemoveStopCriterion(sc stopcrit.StopCriterion) error {
	s.statusMu.Lock()
	err := s.assertIdleLocked("RemoveStopCriterion")
	s.statusMu.Unlock()
	if err != nil {
		return err
	}
	s.checker.Remove(sc)
	return nil
}

// SetStopCriterionCheckPeriod sets the background checker's polling period.
// Fails with ErrNotIdle unless the search is Idle.
func (s *Search[S]) SetStopCriterionCheckPeriod(d time.Duration) error {
	s.statusMu.Lock()
	err := s.assertIdleLocked("SetStopCriterionCheckPeriod")
	s.statusMu.Unlock()
	if err != nil {
		return err
	}
	s.checker.SetPeriod(d)
	return nil
}

// Stop requests termination. Idempotent and safe to call from any
// goroutine; it merely flips status to Terminating, the loop polls it.
func (s *Search[S]) Stop() {
	s.statusMu.Lock()
	switch s.status {
	case Running, Initializing:
		s.status = Terminating
	}
	s.statusMu.Unlock()
}

// Dispose releases the search's resources, transitioning Idle -> Disposed.
// Fails with ErrNotIdle if the search is active, and is idempotent once
// disposed.
func (s *Search[S]) Dispose() error {
	s.statusMu.Lock()
	if s.status == Disposed {
		s.statusMu.Unlock()
		return nil
	}
	if s.status != Idle {
		s.statusMu.Unlock()
		return fmt.Errorf("search: Dispose: %w", ErrNotIdle)
	}
	s.status = Disposed
	s.statusMu.Unlock()
	return nil
}

// GetBestSolution returns a deep copy of the best solution found so far,
// and whether one has been found yet. The search retains ownership of its
// internal copy.
func (s *Search[S]) GetBestSolution() (best S, ok bool) {
	s.bestMu.Lock()
	defer s.bestMu.Unlock()
	if !s.hasBest {
		return best, false
	}
	return (*s.bestSolution).Clone(), true
}

// GetBestSolutionEvaluation returns the evaluation of the current best
// solution, and whether one has been found yet.
func (s *Search[S]) GetBestSolutionEvaluation() (problem.Evaluation, bool) {
	s.bestMu.Lock()
	defer s.bestMu.Unlock()
	return s.bestEval, s.hasBest
}

// GetMinDelta returns the smallest strictly-positive improvement observed
// so far during the current (or last) run, or InvalidCount if none has
// been observed yet.
func (s *Search[S]) GetMinDelta() float64 {
	s.bestMu.Lock()
	defer s.bestMu.Unlock()
	if !s.hasMinDelta {
		return InvalidCount
	}
	return s.minDelta
}

// updateBestSolution is invoked whenever a non-rejected solution is
// observed. It compares eval against the incumbent using the problem's
// orientation, and on strict improvement deep-copies candidate into the
// incumbent, updates minDelta, resets the without-improvement counters and
// fires NewBestSolution listeners. Ties do not replace the incumbent.
func (s *Search[S]) updateBestSolution(candidate S, eval problem.Evaluation) {
	improved := false
	var deltaForMin float64
	s.bestMu.Lock()
	if !s.hasBest {
		improved = true
	} else {
		delta := problem.Delta(s.prob, eval, s.bestEval)
		if delta > 0 {
			improved = true
			deltaForMin = delta
		}
	}
	if improved {
		clone := candidate.Clone()
		s.bestSolution = &clone
		s.bestEval = eval
		s.hasBest = true
		if deltaForMin > 0 && (!s.hasMinDelta || deltaForMin < s.minDelta) {
			s.minDelta = deltaForMin
			s.hasMinDelta = true
		}
	}
	s.bestMu.Unlock()

	if improved {
		s.lastImprovementNano.Store(nowNano())
		s.stepsSinceImprove.Store(0)
		if s.mtr != nil {
			s.mtr.NewBestSolution(eval.Value())
		}
		snap := s.listenerSnapshot()
		for _, l := range snap {
			l.NewBestSolution(s, candidate, eval)
		}
	}
}

func nowNano() int64 { return time.Now().UnixNano() }

// Runtime implements stopcrit.SearchMetadata.
func (s *Search[S]) Runtime() time.Duration {
	status := s.GetStatus()
	if !s.everRun.Load() {
		return invalidDuration
	}
	start := s.startNano.Load()
	if status == Idle {
		stop := s.stopNano.Load()
		return time.Duration(stop - start)
	}
	return time.Duration(nowNano() - start)
}

// Steps implements stopcrit.SearchMetadata.
func (s *Search[S]) Steps() int64 {
	if s.GetStatus() == Initializing || !s.everRun.Load() {
		return InvalidCount
	}
	return s.stepCount.Load()
}

// TimeWithoutImprovement implements stopcrit.SearchMetadata.
func (s *Search[S]) TimeWithoutImprovement() time.Duration {
	status := s.GetStatus()
	if status == Initializing || !s.everRun.Load() {
		return invalidDuration
	}
	last := s.lastImprovementNano.Load()
	if status == Idle {
		return time.Duration(s.stopNano.Load() - last)
	}
	return time.Duration(nowNano() - last)
}

// StepsWithoutImprovement implements stopcrit.SearchMetadata.
func (s *Search[S]) StepsWithoutImprovement() int64 {
	if s.GetStatus() == Initializing || !s.everRun.Load() {
		return InvalidCount
	}
	return s.stepsSinceImprove.Load()
}

// GetRuntime is the exported external-interface alias for Runtime.
func (s *Search[S]) GetRuntime() time.Duration { return s.Runtime() }

// GetSteps is the exported external-interface alias for Steps.
func (s *Search[S]) GetSteps() int64 { return s.Steps() }

// GetTimeWithoutImprovement is the exported alias for TimeWithoutImprovement.
func (s *Search[S]) GetTimeWithoutImprovement() time.Duration { return s.TimeWithoutImprovement() }

// GetStepsWithoutImprovement is the exported alias for StepsWithoutImprovement.
func (s *Search[S]) GetStepsWithoutImprovement() int64 { return s.StepsWithoutImprovement() }

// run executes one full Start() lifecycle: Idle -> Initializing -> Running
// -> Terminating -> Idle, delegating algorithm-specific setup and stepping
// to initFn/stepFn. It is invoked by NeighbourhoodSearch.Start.
func (s *Search[S]) run(initFn func() error, stepFn func() error) error {
	s.statusMu.Lock()
	if err := s.assertIdleLocked("Start"); err != nil {
		s.statusMu.Unlock()
		return err
	}
	s.status = Initializing
	s.statusMu.Unlock()
	s.log.Debug("status changed", "search", s.name, "from", Idle.String(), "to", Initializing.String())
	for _, l := range s.listenerSnapshot() {
		l.StatusChanged(s, Idle, Initializing)
	}

	s.startNano.Store(nowNano())
	s.everRun.Store(true)
	s.stepCount.Store(0)
	s.lastImprovementNano.Store(s.startNano.Load())
	s.stepsSinceImprove.Store(0)
	s.bestMu.Lock()
	s.minDelta = 0
	s.hasMinDelta = false
	s.bestMu.Unlock()

	for _, l := range s.listenerSnapshot() {
		l.SearchStarted(s)
	}
	if s.mtr != nil {
		s.mtr.RunStarted()
	}

	if err := initFn(); err != nil {
		s.setStatus(Idle)
		s.stopNano.Store(nowNano())
		s.log.Warn("search init failed", "search", s.name, "err", err)
		return &InitError{Cause: err}
	}

	s.setStatus(Running)
	s.checker.StartChecking(s)

	for s.GetStatus() == Running {
		stepStart := time.Now()
		if err := stepFn(); err != nil {
			s.checker.StopChecking()
			s.setStatus(Idle)
			s.stopNano.Store(nowNano())
			s.log.Warn("search step failed", "search", s.name, "err", err)
			return err
		}
		s.stepCount.Add(1)
		s.stepsSinceImprove.Add(1)
		if s.mtr != nil {
			s.mtr.StepCompleted(time.Since(stepStart))
		}
		steps := s.stepCount.Load()
		for _, l := range s.listenerSnapshot() {
			l.StepCompleted(s, steps)
		}
		if s.checker.StopCriterionSatisfied(s) {
			s.Stop()
		}
	}

	s.checker.StopChecking()
	for _, l := range s.listenerSnapshot() {
		l.SearchStopped(s)
	}
	s.setStatus(Idle)
	s.stopNano.Store(nowNano())
	return nil
}
