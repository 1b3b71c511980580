package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"k8s.io/klog/v2"

	"github.com/asset-sim/maintopt/pkg/maintenance/algorithms"
	"github.com/asset-sim/maintopt/pkg/maintenance/framework"
	"github.com/asset-sim/maintopt/pkg/maintenance/markov"
	"github.com/asset-sim/maintopt/pkg/maintenance/scenario"
	"github.com/asset-sim/maintopt/pkg/maintenance/simulation"
	"github.com/asset-sim/maintopt/pkg/maintenance/util"
)

func main() {
	popSize := flag.Int("population", 20, "number of candidate policies per generation")
	generations := flag.Int("generations", 30, "number of generations to evolve")
	mutationRate := flag.Float64("mutation-rate", 0.2, "probability that an offspring has one bit flipped")
	trials := flag.Int("trials", 500, "Monte Carlo trials per policy evaluation")
	horizon := flag.Int("horizon", 500, "periods per Monte Carlo trial")
	seed := flag.Uint64("seed", 42, "random seed for the whole run")
	chartDir := flag.String("chart-dir", "", "directory for HTML charts (empty disables rendering)")
	trajectoryLen := flag.Int("trajectory", 200, "length of the sample trajectory rendered under the best policy")
	klog.InitFlags(nil)
	flag.Parse()

	cfg := framework.GAConfig{
		PopulationSize: *popSize,
		NumGenerations: *generations,
		MutationRate:   *mutationRate,
		Simulation: framework.SimulationConfig{
			NumTrials: *trials,
			Horizon:   *horizon,
			Seed:      *seed,
		},
	}

	if err := run(context.Background(), cfg, *chartDir, *trajectoryLen); err != nil {
		klog.ErrorS(err, "optimization run failed")
		klog.FlushAndExit(klog.ExitFlushTimeout, 1)
	}
}

func run(ctx context.Context, cfg framework.GAConfig, chartDir string, trajectoryLen int) error {
	chain, err := scenario.Chain()
	if err != nil {
		return err
	}
	costs := scenario.Costs()

	// Diagnostics on the unmanaged chain.
	mtta, err := markov.MeanTimeToAbsorption(chain, markov.BestState)
	if err != nil {
		return err
	}
	klog.InfoS("unmanaged chain diagnostic", "meanTimeToFailurePeriods", mtta)

	pi, err := markov.StationaryDistribution(chain)
	if err != nil {
		return err
	}
	klog.V(2).InfoS("stationary distribution of the unmanaged chain", "pi", pi)

	evaluator, err := simulation.NewEvaluator(chain, costs)
	if err != nil {
		return err
	}

	baseline, err := evaluator.Baseline(cfg.Simulation)
	if err != nil {
		return err
	}
	klog.InfoS("baseline evaluated", "policy", framework.NewZeroPolicy(chain.NumStates()-2).String(), "costPerPeriod", baseline)

	genetic, err := algorithms.NewGenetic(cfg, chain.NumStates()-2, evaluator.Evaluate)
	if err != nil {
		return err
	}
	result, err := genetic.Optimize(ctx)
	if err != nil {
		return err
	}
	klog.InfoS("optimization finished",
		"bestPolicy", result.BestPolicy.String(),
		"bestCostPerPeriod", result.BestCost,
		"baselineCostPerPeriod", baseline,
		"savingPerPeriod", baseline-result.BestCost)

	if chartDir == "" {
		return nil
	}
	if err := os.MkdirAll(chartDir, 0o755); err != nil {
		return err
	}

	trajectory, err := evaluator.Trajectory(result.BestPolicy, trajectoryLen, cfg.Simulation.Seed)
	if err != nil {
		return err
	}

	if err := util.PlotConvergence(result.Trace, filepath.Join(chartDir, "convergence.html")); err != nil {
		return err
	}
	if err := util.PlotCostComparison(baseline, result.BestCost, filepath.Join(chartDir, "cost_comparison.html")); err != nil {
		return err
	}
	if err := util.PlotTrajectory(trajectory, filepath.Join(chartDir, "trajectory.html")); err != nil {
		return err
	}
	klog.InfoS("charts rendered", "dir", chartDir)

	return nil
}
