package framework

import (
	"fmt"
	"strings"

	"golang.org/x/exp/rand"
)

// Policy is a binary maintenance rule over the maintainable states of a
// degradation chain. Bit j decides whether preventive maintenance is performed
// whenever the asset is observed in state j+1 (state 0, the best condition,
// and the absorbing failure state carry no bit).
type Policy struct {
	Bits []bool
}

func NewPolicy(bits []bool) *Policy {
	return &Policy{
		Bits: bits,
	}
}

// NewZeroPolicy returns the never-maintain policy of the given length. It is
// the baseline against which optimized policies are compared.
func NewZeroPolicy(length int) *Policy {
	return &Policy{
		Bits: make([]bool, length),
	}
}

// RandomPolicy draws a policy uniformly at random over the binary policy space.
func RandomPolicy(length int, rng *rand.Rand) *Policy {
	bits := make([]bool, length)
	for i := range bits {
		bits[i] = rng.Float64() < 0.5
	}
	return &Policy{
		Bits: bits,
	}
}

func (p *Policy) Len() int {
	return len(p.Bits)
}

func (p *Policy) Clone() *Policy {
	newBits := make([]bool, len(p.Bits))
	copy(newBits, p.Bits)
	return &Policy{
		Bits: newBits,
	}
}

// Validate checks the policy length against the chain size: one bit per state
// except the best and the absorbing one.
func (p *Policy) Validate(numStates int) error {
	if want := numStates - 2; len(p.Bits) != want {
		return fmt.Errorf("%w: got %d bits, want %d for a %d-state chain",
			ErrInvalidPolicyLength, len(p.Bits), want, numStates)
	}
	return nil
}

// Crossover produces two children by swapping the parents' suffixes after a
// single cut point drawn from rng.
func (p *Policy) Crossover(other *Policy, rng *rand.Rand) (*Policy, *Policy) {
	child1 := p.Clone()
	child2 := other.Clone()

	point := rng.Intn(len(p.Bits))
	for i := point; i < len(p.Bits); i++ {
		child1.Bits[i], child2.Bits[i] = child2.Bits[i], child1.Bits[i]
	}

	return child1, child2
}

// Mutate flips exactly one uniformly chosen bit with probability rate. At most
// one bit changes per call.
func (p *Policy) Mutate(rng *rand.Rand, rate float64) {
	if rng.Float64() < rate {
		i := rng.Intn(len(p.Bits))
		p.Bits[i] = !p.Bits[i]
	}
}

func (p *Policy) String() string {
	var sb strings.Builder
	for _, b := range p.Bits {
		if b {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Individual pairs a candidate policy with its estimated long-run cost per
// period. Lower fitness is better.
type Individual struct {
	Policy  *Policy
	Fitness float64
}

// CostModel bundles the cost structure of a maintenance scenario.
// RepairCostByState is indexed by the state occupied when the failure
// transition was drawn and must have one entry per chain state.
type CostModel struct {
	PreventiveCost     float64
	RepairCostByState  []float64
	ProductionLossCost float64
}

func (m CostModel) Validate(numStates int) error {
	if len(m.RepairCostByState) != numStates {
		return fmt.Errorf("%w: got %d repair costs, want %d",
			ErrInvalidCostModel, len(m.RepairCostByState), numStates)
	}
	if m.PreventiveCost < 0 {
		return fmt.Errorf("%w: negative preventive cost %g", ErrInvalidCostModel, m.PreventiveCost)
	}
	if m.ProductionLossCost < 0 {
		return fmt.Errorf("%w: negative production loss cost %g", ErrInvalidCostModel, m.ProductionLossCost)
	}
	for i, c := range m.RepairCostByState {
		if c < 0 {
			return fmt.Errorf("%w: negative repair cost %g for state %d", ErrInvalidCostModel, c, i)
		}
	}
	return nil
}

// SimulationConfig controls one Monte Carlo policy evaluation.
type SimulationConfig struct {
	NumTrials int
	Horizon   int
	Seed      uint64
}

func (c SimulationConfig) Validate() error {
	if c.NumTrials <= 0 {
		return fmt.Errorf("%w: trial count must be positive, got %d", ErrInvalidSimulationConfig, c.NumTrials)
	}
	if c.Horizon <= 0 {
		return fmt.Errorf("%w: horizon must be positive, got %d", ErrInvalidSimulationConfig, c.Horizon)
	}
	return nil
}

// GAConfig holds configuration parameters for the genetic search.
type GAConfig struct {
	PopulationSize int
	NumGenerations int
	MutationRate   float64
	Simulation     SimulationConfig
}

func (c GAConfig) Validate() error {
	if c.PopulationSize < 2 {
		return fmt.Errorf("%w: population size must be at least 2, got %d", ErrInvalidGAConfig, c.PopulationSize)
	}
	if c.NumGenerations < 1 {
		return fmt.Errorf("%w: generation count must be positive, got %d", ErrInvalidGAConfig, c.NumGenerations)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("%w: mutation rate must be in [0,1], got %g", ErrInvalidGAConfig, c.MutationRate)
	}
	return c.Simulation.Validate()
}
