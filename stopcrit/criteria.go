package stopcrit

import "time"

// MaxRuntime stops the search once its current run has been active for at
// least the given duration.
type MaxRuntime struct {
	Duration time.Duration
}

// ShouldStop implements StopCriterion.
func (c MaxRuntime) ShouldStop(meta SearchMetadata) bool {
	return meta.Runtime() >= c.Duration
}

// MaxSteps stops the search once it has completed at least the given
// number of steps during the current run.
type MaxSteps struct {
	Steps int64
}

// ShouldStop implements StopCriterion.
func (c MaxSteps) ShouldStop(meta SearchMetadata) bool {
	return meta.Steps() >= c.Steps
}

// MaxTimeWithoutImprovement stops the search once no improvement to the
// best solution has been observed for at least the given duration.
type MaxTimeWithoutImprovement struct {
	Duration time.Duration
}

// ShouldStop implements StopCriterion.
func (c MaxTimeWithoutImprovement) ShouldStop(meta SearchMetadata) bool {
	return meta.TimeWithoutImprovement() >= c.Duration
}

// MaxStepsWithoutImprovement stops the search once no improvement to the
// best solution has been observed for at least the given number of steps.
type MaxStepsWithoutImprovement struct {
	Steps int64
}

// ShouldStop implements StopCriterion.
func (c MaxStepsWithoutImprovement) ShouldStop(meta SearchMetadata) bool {
	return meta.StepsWithoutImprovement() >= c.Steps
}
