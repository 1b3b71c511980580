package simulation

import (
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"

	"github.com/asset-sim/maintopt/pkg/maintenance/framework"
	"github.com/asset-sim/maintopt/pkg/maintenance/markov"
)

// Evaluator estimates the long-run average cost per period of a maintenance
// policy by Monte Carlo simulation of the managed chain.
type Evaluator struct {
	chain *markov.Chain
	costs framework.CostModel
}

func NewEvaluator(chain *markov.Chain, costs framework.CostModel) (*Evaluator, error) {
	if err := costs.Validate(chain.NumStates()); err != nil {
		return nil, err
	}
	return &Evaluator{
		chain: chain,
		costs: costs,
	}, nil
}

// Evaluate runs cfg.NumTrials independent trials of cfg.Horizon periods each,
// starting from the best state, and returns the mean per-period cost across
// trials. Results are deterministic for a fixed seed: every trial draws from
// its own sub-stream, so the estimate does not depend on how trials are
// scheduled across workers.
func (e *Evaluator) Evaluate(policy *framework.Policy, cfg framework.SimulationConfig) (float64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	effective, err := e.chain.Managed(policy)
	if err != nil {
		return 0, err
	}

	rates := make([]float64, cfg.NumTrials)

	numWorkers := runtime.NumCPU()
	if numWorkers > cfg.NumTrials {
		numWorkers = cfg.NumTrials
	}
	workChan := make(chan int, cfg.NumTrials)
	wg := &sync.WaitGroup{}

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range workChan {
				rates[t] = e.runTrial(policy, effective, cfg.Horizon, trialSeed(cfg.Seed, t))
			}
		}()
	}
	for t := 0; t < cfg.NumTrials; t++ {
		workChan <- t
	}
	close(workChan)
	wg.Wait()

	return stat.Mean(rates, nil), nil
}

// Baseline evaluates the never-maintain policy under the same configuration,
// for comparison reporting against an optimized policy.
func (e *Evaluator) Baseline(cfg framework.SimulationConfig) (float64, error) {
	return e.Evaluate(framework.NewZeroPolicy(e.chain.NumStates()-2), cfg)
}

// runTrial simulates one trajectory and returns its accumulated cost divided
// by the horizon.
func (e *Evaluator) runTrial(policy *framework.Policy, effective [][]float64, horizon int, seed uint64) float64 {
	sampler := newRowSampler(effective, rand.NewSource(seed))

	state := markov.BestState
	total := 0.0
	for step := 0; step < horizon; step++ {
		if e.maintainAt(policy, state) {
			total += e.costs.PreventiveCost
			state = markov.BestState
			continue
		}
		next := sampler.Next(state)
		if next == e.chain.AbsorbingState() {
			total += e.costs.RepairCostByState[state] + e.costs.ProductionLossCost
			state = markov.BestState
			continue
		}
		state = next
	}
	return total / float64(horizon)
}

// Trajectory simulates a single trial under the given policy and returns the
// full per-step state sequence (horizon+1 entries including the start state).
// Failures appear as visits to the absorbing state; the asset is repaired back
// to the best state on the following period, as in Evaluate.
func (e *Evaluator) Trajectory(policy *framework.Policy, horizon int, seed uint64) ([]int, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("%w: horizon must be positive, got %d", framework.ErrInvalidSimulationConfig, horizon)
	}
	effective, err := e.chain.Managed(policy)
	if err != nil {
		return nil, err
	}

	sampler := newRowSampler(effective, rand.NewSource(seed))
	states := make([]int, 0, horizon+1)
	state := markov.BestState
	states = append(states, state)
	for step := 0; step < horizon; step++ {
		if e.maintainAt(policy, state) {
			state = markov.BestState
			states = append(states, state)
			continue
		}
		next := sampler.Next(state)
		states = append(states, next)
		if next == e.chain.AbsorbingState() {
			state = markov.BestState
		} else {
			state = next
		}
	}
	return states, nil
}

// maintainAt reports whether the policy calls for preventive maintenance in
// the given state.
func (e *Evaluator) maintainAt(policy *framework.Policy, state int) bool {
	return state > markov.BestState && state < e.chain.AbsorbingState() && policy.Bits[state-1]
}
