// Package stopcrit implements stop criteria and the background checker
// that polls them on behalf of a running search.
package stopcrit

import (
	"sync"
	"time"
)

// SearchMetadata is the narrow, thread-safe view of a running search that
// stop criteria and the checker are allowed to read. Implemented by
// *search.Search[S]; kept interface-only here to avoid an import cycle
// between stopcrit and search.
type SearchMetadata interface {
	// Runtime returns the elapsed time since the current run started.
	Runtime() time.Duration
	// Steps returns the number of completed steps in the current run.
	Steps() int64
	// TimeWithoutImprovement returns the elapsed time since the best
	// solution was last improved during the current run.
	TimeWithoutImprovement() time.Duration
	// StepsWithoutImprovement returns the number of steps completed since
	// the best solution was last improved during the current run.
	StepsWithoutImprovement() int64
	// Stop requests termination of the search; idempotent, safe from any
	// goroutine.
	Stop()
}

// StopCriterion is a predicate over a search's live metadata that requests
// termination.
type StopCriterion interface {
	ShouldStop(meta SearchMetadata) bool
}

// DefaultCheckPeriod is the background checker's default polling interval.
const DefaultCheckPeriod = time.Second

// Checker owns a list of stop criteria and periodically polls them on a
// dedicated goroutine while a search is running. It also supports a
// synchronous, immediate poll for use in the search's own step loop.
//
// A Checker is not safe for concurrent mutation of its criteria list or
// period while checking is active; the owning search only mutates those
// while idle, per spec.
type Checker struct {
	mu       sync.Mutex
	criteria []StopCriterion
	period   time.Duration

	running bool
	done    chan struct{}
	wg      sync.WaitGroup

	onPanic func(recovered any)
}

// NewChecker creates a checker with the default check period.
func NewChecker() *Checker {
	return &Checker{period: DefaultCheckPeriod}
}

// Add appends a stop criterion.
func (c *Checker) Add(sc StopCriterion) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria = append(c.criteria, sc)
}

// Remove removes the first occurrence of sc, if present.
func (c *Checker) Remove(sc StopCriterion) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.criteria {
		if existing == sc {
			c.criteria = append(c.criteria[:i], c.criteria[i+1:]...)
			return
		}
	}
}

// SetPeriod sets the polling period used by StartChecking.
func (c *Checker) SetPeriod(period time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.period = period
}

// OnPanic installs a hook invoked (from the checker goroutine) whenever a
// stop criterion panics; the panic is otherwise swallowed and treated as
// "should stop", per the fail-safe propagation policy. Intended for the
// search to route the recovered value to its logger.
func (c *Checker) OnPanic(fn func(recovered any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onPanic = fn
}

// StopCriterionSatisfied synchronously polls every registered criterion,
// used by the search loop at each iteration for immediate reaction
// independent of the background period. A panicking criterion is treated
// as having requested a stop.
func (c *Checker) StopCriterionSatisfied(meta SearchMetadata) bool {
	c.mu.Lock()
	criteria := append([]StopCriterion(nil), c.criteria...)
	onPanic := c.onPanic
	c.mu.Unlock()
	for _, sc := range criteria {
		if evalCriterion(sc, meta, onPanic) {
			return true
		}
	}
	return false
}

func evalCriterion(sc StopCriterion, meta SearchMetadata, onPanic func(any)) (shouldStop bool) {
	defer func() {
		if r := recover(); r != nil {
			if onPanic != nil {
				onPanic(r)
			}
			shouldStop = true
		}
	}()
	return sc.ShouldStop(meta)
}

// StartChecking spawns a single background goroutine that, every period,
// evaluates every registered criterion against meta. On the first true
// result, it calls meta.Stop() and exits. If no criteria are registered,
// this is a no-op.
func (c *Checker) StartChecking(meta SearchMetadata) {
	c.mu.Lock()
	if len(c.criteria) == 0 {
		c.mu.Unlock()
		return
	}
	period := c.period
	c.done = make(chan struct{})
	done := c.done
	c.running = true
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if c.StopCriterionSatisfied(meta) {
					meta.Stop()
					return
				}
			}
		}
	}()
}

// StopChecking requests cancellation of the background goroutine, if any,
// and joins it. Idempotent; safe to call even if StartChecking was a no-op.
// Must complete before the owning search returns to idle.
func (c *Checker) StopChecking() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	done := c.done
	c.mu.Unlock()

	close(done)
	c.wg.Wait()
}
