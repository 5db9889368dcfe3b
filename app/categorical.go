package app

import (
	"fmt"

	"statviz/adapters/stats/infer"
	"statviz/domain/core"
	"statviz/domain/dataset"
	"statviz/domain/plot"
	"statviz/domain/stats"
	"statviz/internal/expression"
)

// PieStats summarizes one factor column as a pie chart with a chi-square
// goodness-of-fit test against equal (or caller-specified) proportions.
func PieStats(t *dataset.Table, x core.VariableKey, expected []float64, opts stats.Options) (*AnalysisResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	levels, counts, total, err := levelCounts(t, x)
	if err != nil {
		return nil, err
	}

	result, err := infer.ChiSquareGoodnessOfFit(counts, expected, opts)
	if err != nil {
		if core.IsSkippable(err) {
			result = stats.Skipped(total)
		} else {
			return nil, err
		}
	}

	spec := plot.New(plot.Pie, fmt.Sprintf("distribution of %s", x))
	slices := plot.Series{Name: x.String(), Kind: "slices"}
	for i, level := range levels {
		pct := 100 * counts[i] / float64(total)
		slices.Data = append(slices.Data, plot.DataPoint{
			X:     level,
			Y:     counts[i],
			Label: fmt.Sprintf("%s (%.1f%%)", level, pct),
		})
	}
	spec.AddSeries(slices)
	spec.Config = plot.Config{Categories: levels, ShowLegend: true}
	spec.Subtitle = expression.Subtitle(result)
	spec.Caption = expression.Caption(result, opts)

	return &AnalysisResult{Plot: spec, Result: result}, nil
}

// BarStats cross-tabulates two factor columns as a stacked bar chart with
// the matching association test: Pearson's chi-square, or McNemar when the
// design is paired.
func BarStats(t *dataset.Table, x, y core.VariableKey, opts stats.Options) (*AnalysisResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	xs, err := t.FactorColumn(x)
	if err != nil {
		return nil, err
	}
	ys, err := t.FactorColumn(y)
	if err != nil {
		return nil, err
	}

	var result *stats.TestResult
	if opts.Paired {
		result, err = infer.McNemar(xs, ys, opts)
	} else {
		result, err = infer.ChiSquareIndependence(xs, ys, opts)
	}
	if err != nil {
		if core.IsSkippable(err) {
			result = stats.Skipped(len(xs))
		} else {
			return nil, err
		}
	}

	xLevels, yLevels, counts, err := t.CrossTab(x, y)
	if err != nil {
		return nil, err
	}

	spec := plot.New(plot.Bar, fmt.Sprintf("%s by %s", y, x))
	spec.Config = plot.Config{
		XAxisLabel: x.String(),
		YAxisLabel: "proportion",
		Categories: yLevels,
		ShowLegend: true,
	}
	for j, yl := range yLevels {
		series := plot.Series{Name: yl, Kind: "bar"}
		for i, xl := range xLevels {
			colTotal := 0.0
			for jj := range yLevels {
				colTotal += counts[i][jj]
			}
			prop := 0.0
			if colTotal > 0 {
				prop = counts[i][j] / colTotal
			}
			series.Data = append(series.Data, plot.DataPoint{X: xl, Y: prop, Label: yl})
		}
		spec.AddSeries(series)
	}
	spec.Subtitle = expression.Subtitle(result)
	spec.Caption = expression.Caption(result, opts)

	return &AnalysisResult{Plot: spec, Result: result}, nil
}

func levelCounts(t *dataset.Table, x core.VariableKey) (levels []string, counts []float64, total int, err error) {
	labels, err := t.FactorColumn(x)
	if err != nil {
		return nil, nil, 0, err
	}

	levels, err = t.Levels(x)
	if err != nil {
		return nil, nil, 0, err
	}
	if len(levels) < 2 {
		return nil, nil, 0, core.NewTooFewLevelsError(x.String(), len(levels))
	}

	idx := make(map[string]int, len(levels))
	for i, l := range levels {
		idx[l] = i
	}
	counts = make([]float64, len(levels))
	for _, l := range labels {
		if l == "" {
			continue
		}
		counts[idx[l]]++
		total++
	}
	return levels, counts, total, nil
}
