package algorithms

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/exp/rand"
	"k8s.io/klog/v2"

	"github.com/asset-sim/maintopt/pkg/maintenance/framework"
)

const (
	Name = "GeneticMaintenance"
)

// FitnessFunc scores a candidate policy under the given simulation
// configuration; lower is better. The optimizer injects a fresh seed into the
// configuration for every evaluation, derived from the run seed, the
// generation and the population index, so parallel runs are reproducible.
type FitnessFunc func(policy *framework.Policy, cfg framework.SimulationConfig) (float64, error)

// Genetic is a single-objective genetic search over binary maintenance
// policies: truncation selection of the top half, sequential pairing with
// single-point crossover, and single-bit mutation, with the population capped
// at the configured size every generation.
type Genetic struct {
	cfg       framework.GAConfig
	policyLen int
	fitness   FitnessFunc
}

// Result holds the outcome of one optimization run.
type Result struct {
	BestPolicy *framework.Policy
	BestCost   float64

	// Trace records, per generation, the best cost observed up to and
	// including that generation. Fitness is re-sampled every generation, so
	// the running minimum is reported rather than the raw generation minimum;
	// the trace is non-increasing.
	Trace []float64
}

func NewGenetic(cfg framework.GAConfig, policyLen int, fitness FitnessFunc) (*Genetic, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if policyLen < 1 {
		return nil, fmt.Errorf("%w: policy length must be positive, got %d", framework.ErrInvalidGAConfig, policyLen)
	}
	if fitness == nil {
		return nil, fmt.Errorf("%w: fitness function is required", framework.ErrInvalidGAConfig)
	}
	return &Genetic{
		cfg:       cfg,
		policyLen: policyLen,
		fitness:   fitness,
	}, nil
}

// Optimize runs the genetic search and returns the best policy found, its
// evaluated cost and the per-generation trace. Any fitness-evaluation error
// aborts the run: a malformed model affects all individuals identically, so
// per-individual tolerance would only mask it.
func (g *Genetic) Optimize(ctx context.Context) (*Result, error) {
	logger := klog.FromContext(ctx)
	logger.V(2).Info("starting genetic search",
		"populationSize", g.cfg.PopulationSize,
		"generations", g.cfg.NumGenerations,
		"mutationRate", g.cfg.MutationRate,
		"trials", g.cfg.Simulation.NumTrials,
		"horizon", g.cfg.Simulation.Horizon)

	rng := rand.New(rand.NewSource(g.cfg.Simulation.Seed))

	population := make([]framework.Individual, g.cfg.PopulationSize)
	for i := range population {
		population[i] = framework.Individual{Policy: framework.RandomPolicy(g.policyLen, rng)}
	}

	best := framework.Individual{Fitness: math.Inf(1)}
	trace := make([]float64, 0, g.cfg.NumGenerations)

	for gen := 0; gen < g.cfg.NumGenerations; gen++ {
		if err := g.evaluate(population, gen); err != nil {
			return nil, err
		}
		sort.SliceStable(population, func(i, j int) bool {
			return population[i].Fitness < population[j].Fitness
		})
		if population[0].Fitness < best.Fitness {
			best = framework.Individual{
				Policy:  population[0].Policy.Clone(),
				Fitness: population[0].Fitness,
			}
		}
		trace = append(trace, best.Fitness)
		logger.V(2).Info("generation complete",
			"generation", gen,
			"generationBest", population[0].Fitness,
			"runBest", best.Fitness,
			"bestPolicy", best.Policy.String())

		survivors := population[:(g.cfg.PopulationSize+1)/2]
		offspring := g.recombine(survivors, rng)
		population = nextGeneration(survivors, offspring, g.cfg.PopulationSize)
	}

	// Final pass: re-evaluate the last population and keep whichever of its
	// minimum and the running best scores lower.
	if err := g.evaluate(population, g.cfg.NumGenerations); err != nil {
		return nil, err
	}
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].Fitness < population[j].Fitness
	})
	if population[0].Fitness < best.Fitness {
		best = framework.Individual{
			Policy:  population[0].Policy.Clone(),
			Fitness: population[0].Fitness,
		}
	}

	logger.V(2).Info("genetic search complete", "bestPolicy", best.Policy.String(), "bestCost", best.Fitness)

	return &Result{
		BestPolicy: best.Policy,
		BestCost:   best.Fitness,
		Trace:      trace,
	}, nil
}

// evaluate scores every individual in place, fanning the work out across a
// worker pool. Individuals share no simulation state; the first error wins.
func (g *Genetic) evaluate(population []framework.Individual, gen int) error {
	numWorkers := runtime.NumCPU()
	if numWorkers > len(population) {
		numWorkers = len(population)
	}
	workChan := make(chan int, len(population))
	wg := &sync.WaitGroup{}

	var mu sync.Mutex
	var firstErr error

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range workChan {
				cfg := g.cfg.Simulation
				cfg.Seed = evalSeed(g.cfg.Simulation.Seed, gen, i)
				cost, err := g.fitness(population[i].Policy, cfg)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					continue
				}
				population[i].Fitness = cost
			}
		}()
	}
	for i := range population {
		workChan <- i
	}
	close(workChan)
	wg.Wait()

	return firstErr
}

// recombine pairs survivors sequentially and produces two children per pair
// via single-point crossover followed by mutation. An odd trailing survivor is
// paired with itself.
func (g *Genetic) recombine(survivors []framework.Individual, rng *rand.Rand) []*framework.Policy {
	offspring := make([]*framework.Policy, 0, len(survivors)+1)
	for i := 0; i < len(survivors); i += 2 {
		parent1 := survivors[i].Policy
		parent2 := parent1
		if i+1 < len(survivors) {
			parent2 = survivors[i+1].Policy
		}

		child1, child2 := parent1.Crossover(parent2, rng)
		child1.Mutate(rng, g.cfg.MutationRate)
		child2.Mutate(rng, g.cfg.MutationRate)

		offspring = append(offspring, child1, child2)
	}
	return offspring
}

// nextGeneration concatenates survivors with only as many offspring as needed
// to refill the population to the configured size. Survivors keep their
// fitness for the log; it is re-sampled at the next evaluation regardless.
func nextGeneration(survivors []framework.Individual, offspring []*framework.Policy, size int) []framework.Individual {
	next := make([]framework.Individual, 0, size)
	next = append(next, survivors...)
	for _, child := range offspring {
		if len(next) == size {
			break
		}
		next = append(next, framework.Individual{Policy: child})
	}
	return next
}

// evalSeed derives the simulation seed for one fitness evaluation from the
// run seed, the generation and the population index, so that results do not
// depend on worker scheduling.
func evalSeed(base uint64, gen, idx int) uint64 {
	return base + uint64(gen)*0x9e3779b97f4a7c15 + uint64(idx)*0x517cc1b727220a95
}
