package viz

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/topodyn/condense/internal/condense"
)

// maxTrajectorySeries bounds the number of snapshots rendered in the
// trajectory chart; long runs are subsampled evenly.
const maxTrajectorySeries = 8

// RenderHTML writes a single-page HTML report for a stored run: the
// contracting cloud at a handful of iterations, the connected-component
// count over time, and the persistence diagram of the last iteration
// that produced one.
func RenderHTML(name string, data condense.Result, w io.Writer) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("condensation run %s", name)

	trajectoryChart, err := trajectoryScatter(name, data)
	if err != nil {
		return err
	}
	page.AddCharts(trajectoryChart)

	if chart := componentCountLine(data); chart != nil {
		page.AddCharts(chart)
	}
	if chart := persistenceScatter(data); chart != nil {
		page.AddCharts(chart)
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// trajectoryScatter plots the point cloud at evenly spaced iterations.
// One-dimensional clouds are lifted to the x-axis.
func trajectoryScatter(name string, data condense.Result) (*charts.Scatter, error) {
	trajectory, ok := data[condense.TrajectoryKey]
	if !ok {
		return nil, fmt.Errorf("result has no trajectory under %q", condense.TrajectoryKey)
	}
	if len(trajectory.Shape) != 3 {
		return nil, fmt.Errorf("trajectory tensor has rank %d, want 3", len(trajectory.Shape))
	}
	steps := trajectory.Shape[2]

	stride := 1
	if steps > maxTrajectorySeries {
		stride = int(math.Ceil(float64(steps) / float64(maxTrajectorySeries)))
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Condensation trajectory",
			Subtitle: fmt.Sprintf("run=%s iterations=%d", name, steps-1),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "x"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "y"}),
	)

	for t := 0; t < steps; t += stride {
		X, err := trajectory.Snapshot(t)
		if err != nil {
			return nil, err
		}
		n, d := X.Dims()
		series := make([]opts.ScatterData, 0, n)
		for i := 0; i < n; i++ {
			y := 0.0
			if d > 1 {
				y = X.At(i, 1)
			}
			series = append(series, opts.ScatterData{Value: []interface{}{X.At(i, 0), y}})
		}
		scatter.AddSeries(fmt.Sprintf("t=%d", t), series,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 5}))
	}
	return scatter, nil
}

// componentCountLine derives the connected-component count per
// iteration from the diffusion-homology pairs. Nil when the run did not
// record them.
func componentCountLine(data condense.Result) *charts.Line {
	pairs, ok := data[DiffusionPairsKey]
	if !ok || len(pairs.Shape) != 2 {
		return nil
	}
	trajectory, ok := data[condense.TrajectoryKey]
	if !ok || len(trajectory.Shape) != 3 {
		return nil
	}
	n := trajectory.Shape[0]
	steps := trajectory.Shape[2]

	// deaths[t] = merges recorded at iteration t.
	deaths := make([]int, steps)
	for i := 0; i < pairs.Shape[0]; i++ {
		t := int(pairs.Data[2*i+1])
		if t >= 0 && t < steps {
			deaths[t]++
		}
	}

	x := make([]string, steps)
	y := make([]opts.LineData, steps)
	components := n
	for t := 0; t < steps; t++ {
		components -= deaths[t]
		x[t] = fmt.Sprintf("%d", t)
		y[t] = opts.LineData{Value: components}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Connected components over diffusion time"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "t"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "components"}),
	)
	line.SetXAxis(x).AddSeries("components", y)
	return line
}

// persistenceScatter renders the diagram of the last iteration that
// produced persistence points. Nil when no step did.
func persistenceScatter(data condense.Result) *charts.Scatter {
	last := -1
	var points condense.Tensor
	for key, tensor := range data {
		var t int
		if _, err := fmt.Sscanf(key, condense.PersistencePointsKeyFormat, &t); err != nil {
			continue
		}
		if t > last {
			last = t
			points = tensor
		}
	}
	if last < 0 || len(points.Shape) != 2 || points.Shape[1] != 3 {
		return nil
	}

	byDim := map[int][]opts.ScatterData{}
	maxDeath := 0.0
	for i := 0; i < points.Shape[0]; i++ {
		birth := points.Data[3*i]
		death := points.Data[3*i+1]
		dim := int(points.Data[3*i+2])
		if math.IsInf(death, 1) {
			continue
		}
		if death > maxDeath {
			maxDeath = death
		}
		byDim[dim] = append(byDim[dim], opts.ScatterData{Value: []interface{}{birth, death}})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "600px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Persistence diagram",
			Subtitle: fmt.Sprintf("iteration %d", last),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "birth", Max: float32(maxDeath * 1.05)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "death", Max: float32(maxDeath * 1.05)}),
	)
	for dim, series := range byDim {
		scatter.AddSeries(fmt.Sprintf("dim %d", dim), series,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))
	}
	return scatter
}

// DiffusionPairsKey re-exports the diffusion-homology result key for
// report consumers.
const DiffusionPairsKey = condense.DiffusionHomologyKey
