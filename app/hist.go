package app

import (
	"fmt"
	"math"

	"statviz/adapters/stats/infer"
	"statviz/domain/core"
	"statviz/domain/dataset"
	"statviz/domain/plot"
	"statviz/domain/stats"
	"statviz/internal/expression"
)

// HistStats plots the distribution of one numeric column as a histogram and
// tests its location against testValue with the one-sample test family.
func HistStats(t *dataset.Table, x core.VariableKey, testValue float64, opts stats.Options) (*AnalysisResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	values, err := t.NumericColumn(x)
	if err != nil {
		return nil, err
	}
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}

	result, err := infer.OneSample(clean, testValue, opts)
	if err != nil {
		if core.IsSkippable(err) {
			result = stats.Skipped(len(clean))
		} else {
			return nil, err
		}
	}

	spec := histogramSpec(t.Name, x, clean, testValue)
	spec.Subtitle = expression.Subtitle(result)
	spec.Caption = expression.Caption(result, opts)

	return &AnalysisResult{Plot: spec, Result: result}, nil
}

func histogramSpec(name string, x core.VariableKey, values []float64, testValue float64) *plot.Spec {
	spec := plot.New(plot.Histogram, fmt.Sprintf("distribution of %s", x))
	spec.Config = plot.Config{XAxisLabel: x.String(), YAxisLabel: "count"}

	bins := plot.Series{Name: x.String(), Kind: "bins"}
	if len(values) > 0 {
		minV, maxV := values[0], values[0]
		for _, v := range values {
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}

		// Sturges' rule.
		binCount := int(math.Ceil(math.Log2(float64(len(values))))) + 1
		if binCount < 1 {
			binCount = 1
		}
		width := (maxV - minV) / float64(binCount)
		if width == 0 {
			width = 1
		}

		counts := make([]int, binCount)
		for _, v := range values {
			idx := int((v - minV) / width)
			if idx >= binCount {
				idx = binCount - 1
			}
			counts[idx]++
		}
		for i, c := range counts {
			center := minV + (float64(i)+0.5)*width
			bins.Data = append(bins.Data, plot.DataPoint{X: center, Y: c})
		}
	}
	spec.AddSeries(bins)

	// Reference line at the tested value.
	spec.AddSeries(plot.Series{
		Name: "test_value",
		Kind: "line",
		Data: []plot.DataPoint{{X: testValue, Y: 0, Label: fmt.Sprintf("mu = %g", testValue)}},
	})

	if name != "" {
		spec.Title = fmt.Sprintf("%s: %s", name, spec.Title)
	}
	return spec
}
