// Package electoral simulates Australian federal electoral divisions, each
// assigned a state and a winning party drawn from fixed categorical distributions.
package electoral

import (
	"fmt"
	"math/rand/v2"

	"github.com/nvandessel/simdata/internal/sampling"
)

// DefaultDivisionCount is the number of federal electoral divisions.
const DefaultDivisionCount = 151

// States lists the states and territories in distribution order.
var States = []string{
	"New South Wales",
	"Victoria",
	"Queensland",
	"South Australia",
	"Western Australia",
	"Tasmania",
	"Northern Territory",
	"Australian Capital Territory",
}

// StateWeights is the probability of each entry in States.
var StateWeights = []float64{0.25, 0.25, 0.15, 0.1, 0.1, 0.1, 0.025, 0.025}

// Parties lists the parties in distribution order.
var Parties = []string{"Labor", "Liberal", "Greens", "National", "Other"}

// PartyWeights is the probability of each entry in Parties.
var PartyWeights = []float64{0.40, 0.40, 0.05, 0.1, 0.05}

// Division is one simulated electoral division.
type Division struct {
	Name  string `json:"division"`
	State string `json:"state"`
	Party string `json:"party"`
}

// Config controls a division simulation.
type Config struct {
	Count   int
	States  sampling.Distribution[string]
	Parties sampling.Distribution[string]
}

// DefaultConfig returns the 151-division configuration.
func DefaultConfig() Config {
	states, err := sampling.New(States, StateWeights)
	if err != nil {
		panic(fmt.Sprintf("electoral: invalid default state weights: %v", err))
	}
	parties, err := sampling.New(Parties, PartyWeights)
	if err != nil {
		panic(fmt.Sprintf("electoral: invalid default party weights: %v", err))
	}
	return Config{
		Count:   DefaultDivisionCount,
		States:  states,
		Parties: parties,
	}
}

// DivisionName returns the placeholder name for the i-th division (1-based).
func DivisionName(i int) string {
	return fmt.Sprintf("Division %d", i)
}

// Simulate generates cfg.Count divisions. All states are drawn first, then all
// parties; callers that share rng must keep that order to reproduce a run.
func Simulate(cfg Config, rng *rand.Rand) ([]Division, error) {
	if cfg.Count <= 0 {
		return nil, fmt.Errorf("division count must be positive, got %d", cfg.Count)
	}
	if err := sampling.CheckCount(cfg.Count); err != nil {
		return nil, fmt.Errorf("division count: %w", err)
	}

	states, err := cfg.States.Draw(cfg.Count, rng)
	if err != nil {
		return nil, fmt.Errorf("sampling states: %w", err)
	}
	parties, err := cfg.Parties.Draw(cfg.Count, rng)
	if err != nil {
		return nil, fmt.Errorf("sampling parties: %w", err)
	}

	divisions := make([]Division, cfg.Count)
	for i := range divisions {
		divisions[i] = Division{
			Name:  DivisionName(i + 1),
			State: states[i],
			Party: parties[i],
		}
	}
	return divisions, nil
}
