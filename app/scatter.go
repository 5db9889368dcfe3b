package app

import (
	"fmt"

	"statviz/adapters/stats/infer"
	"statviz/domain/core"
	"statviz/domain/dataset"
	"statviz/domain/plot"
	"statviz/domain/stats"
	"statviz/internal/expression"

	gstat "gonum.org/v1/gonum/stat"
)

// ScatterStats plots two numeric columns against each other with a fitted
// line and the correlation test in the subtitle.
func ScatterStats(t *dataset.Table, x, y core.VariableKey, opts stats.Options) (*AnalysisResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	xs, ys, err := t.CompleteCases(x, y)
	if err != nil {
		return nil, err
	}

	result, err := infer.CorrelateApproach(xs, ys, opts)
	if err != nil {
		if core.IsSkippable(err) {
			result = stats.Skipped(len(xs))
		} else {
			return nil, err
		}
	}

	spec := scatterSpec(t.Name, x, y, xs, ys)
	spec.Subtitle = expression.Subtitle(result)
	spec.Caption = expression.Caption(result, opts)

	return &AnalysisResult{Plot: spec, Result: result}, nil
}

func scatterSpec(name string, x, y core.VariableKey, xs, ys []float64) *plot.Spec {
	spec := plot.New(plot.Scatter, fmt.Sprintf("%s vs %s", y, x))
	spec.Config = plot.Config{XAxisLabel: x.String(), YAxisLabel: y.String()}

	points := plot.Series{Name: "observations", Kind: "points"}
	for i := range xs {
		points.Data = append(points.Data, plot.DataPoint{X: xs[i], Y: ys[i]})
	}
	spec.AddSeries(points)

	// Least-squares line across the observed x range.
	if len(xs) >= 2 {
		alpha, beta := gstat.LinearRegression(xs, ys, nil, false)
		minX, maxX := xs[0], xs[0]
		for _, v := range xs {
			if v < minX {
				minX = v
			}
			if v > maxX {
				maxX = v
			}
		}
		spec.AddSeries(plot.Series{
			Name: "fit",
			Kind: "line",
			Data: []plot.DataPoint{
				{X: minX, Y: alpha + beta*minX},
				{X: maxX, Y: alpha + beta*maxX},
			},
		})
	}

	if name != "" {
		spec.Title = fmt.Sprintf("%s: %s", name, spec.Title)
	}
	return spec
}
