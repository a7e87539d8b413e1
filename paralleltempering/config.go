package paralleltempering

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Config configures a parallel-tempering Run: a ladder of replicas at
// distinct temperatures, cooperating over periodic Metropolis swap
// attempts between temperature-adjacent replicas.
type Config struct {
	// Replicas is the number of cooperating replicas, each with its own
	// temperature, current solution and RNG. Must be >= 2 for swaps to be
	// meaningful.
	Replicas int `validate:"gte=2"`
	// MinTemp and MaxTemp bound the temperature ladder; replica i's
	// temperature is interpolated geometrically between them.
	MinTemp float64 `validate:"gt=0"`
	MaxTemp float64 `validate:"gt=0"`
	// StepsPerRound is the number of Metropolis steps each replica takes
	// before the orchestrator pauses to attempt swaps.
	StepsPerRound int64 `validate:"gt=0"`
}

// DefaultConfig returns a Config with reasonable defaults: 4 replicas
// spanning two temperature decades (0.5 to 50), swapping every 50 steps.
func DefaultConfig() Config {
	return Config{
		Replicas:      4,
		MinTemp:       0.5,
		MaxTemp:       50,
		StepsPerRound: 50,
	}
}

// Validate checks the declarative field constraints via struct tags, then
// the cross-field invariant (MaxTemp > MinTemp) that a tag cannot express.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("paralleltempering: %w", err)
	}
	if c.MaxTemp <= c.MinTemp {
		return fmt.Errorf("paralleltempering: MaxTemp must be > MinTemp (got %f <= %f)", c.MaxTemp, c.MinTemp)
	}
	return nil
}

// temperatures returns the geometrically spaced temperature ladder for n
// replicas between cfg.MinTemp and cfg.MaxTemp, ascending.
func (c Config) temperatures() []float64 {
	temps := make([]float64, c.Replicas)
	if c.Replicas == 1 {
		temps[0] = c.MinTemp
		return temps
	}
	ratio := c.MaxTemp / c.MinTemp
	for i := 0; i < c.Replicas; i++ {
		frac := float64(i) / float64(c.Replicas-1)
		temps[i] = c.MinTemp * math.Pow(ratio, frac)
	}
	return temps
}
