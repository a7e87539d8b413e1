package tabusearch

import "fmt"

// Config configures a tabu-search Stepper.
type Config struct {
	// Tenure is the number of iterations a move stays tabu after being
	// applied.
	Tenure int
	// TenureRand, if > 0, randomizes the tenure by adding a uniform
	// [0, TenureRand] jitter, to avoid cyclic behaviour.
	TenureRand int
	// CandidateListSize is the number of random candidate moves sampled
	// per step, across all configured neighbourhoods.
	CandidateListSize int
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Tenure:            7,
		TenureRand:        3,
		CandidateListSize: 50,
	}
}

// Validate checks that Config's fields are internally consistent.
func (c Config) Validate() error {
	if c.Tenure <= 0 {
		return fmt.Errorf("tabusearch: Tenure must be > 0 (got %d)", c.Tenure)
	}
	if c.TenureRand < 0 {
		return fmt.Errorf("tabusearch: TenureRand must be >= 0 (got %d)", c.TenureRand)
	}
	if c.CandidateListSize <= 0 {
		return fmt.Errorf("tabusearch: CandidateListSize must be > 0 (got %d)", c.CandidateListSize)
	}
	return nil
}
