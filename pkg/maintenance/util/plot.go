package util

import (
	"fmt"
	"io"
	"strconv"

	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// PlotConvergence renders the per-generation best-cost trace of an
// optimization run as a line chart.
func PlotConvergence(trace []float64, path string) error {
	if len(trace) == 0 {
		return fmt.Errorf("trace is empty")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Genetic Search Convergence",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "generation",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "best cost per period",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	generations := make([]string, len(trace))
	points := make([]opts.LineData, len(trace))
	for i, v := range trace {
		generations[i] = strconv.Itoa(i)
		points[i] = opts.LineData{Value: v}
	}

	line.SetXAxis(generations).
		AddSeries("best cost", points).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}))

	return render(line, path)
}

// PlotCostComparison renders the baseline (never-maintain) cost next to the
// optimized policy's cost as a bar chart.
func PlotCostComparison(baseline, best float64, path string) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Policy Cost Comparison",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "cost per period",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	bar.SetXAxis([]string{"never maintain", "optimized"}).
		AddSeries("cost per period", []opts.BarData{
			{Value: baseline},
			{Value: best},
		})

	return render(bar, path)
}

// PlotTrajectory renders one simulated state sequence as a line chart; visits
// to the highest state are failures.
func PlotTrajectory(states []int, path string) error {
	if len(states) == 0 {
		return fmt.Errorf("trajectory is empty")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Simulated Degradation Trajectory",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "period",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "state",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	periods := make([]string, len(states))
	points := make([]opts.LineData, len(states))
	for i, s := range states {
		periods[i] = strconv.Itoa(i)
		points[i] = opts.LineData{Value: s}
	}

	line.SetXAxis(periods).
		AddSeries("state", points).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}))

	return render(line, path)
}

type renderer interface {
	Render(w io.Writer) error
}

func render(chart renderer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return chart.Render(f)
}
