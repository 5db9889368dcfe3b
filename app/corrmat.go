package app

import (
	"math"

	"statviz/adapters/stats/infer"
	"statviz/domain/core"
	"statviz/domain/dataset"
	"statviz/domain/plot"
	"statviz/domain/stats"
	"statviz/internal/expression"
)

// CorrMat computes the pairwise correlation matrix of the named numeric
// columns (all numeric columns when keys is empty) and renders it as a
// heatmap. Cells whose adjusted p-value clears the alpha implied by the
// confidence level are marked significant.
func CorrMat(t *dataset.Table, keys []core.VariableKey, opts stats.Options) (*AnalysisResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if len(keys) == 0 {
		for _, key := range t.Keys() {
			col, _ := t.Column(key)
			if col.Type == dataset.TypeNumeric {
				keys = append(keys, key)
			}
		}
	}
	if len(keys) < 2 {
		return nil, core.NewInsufficientDataError(2, len(keys))
	}

	columns := make([][]float64, len(keys))
	for i, key := range keys {
		col, err := t.NumericColumn(key)
		if err != nil {
			return nil, err
		}
		columns[i] = col
	}

	method := stats.CorrPearson
	if opts.Approach == stats.Nonparametric {
		method = stats.CorrSpearman
	}

	cells, err := infer.CorrelationMatrix(keys, columns, method, opts)
	if err != nil {
		return nil, err
	}

	alpha := 1.0 - opts.ConfLevel
	spec := plot.New(plot.CorrelationHeat, "correlation matrix")
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	spec.Config = plot.Config{Categories: names, ShowLegend: true}

	heat := plot.Series{Name: string(method), Kind: "heatmap"}
	for _, cell := range cells {
		label := ""
		if !math.IsNaN(cell.Estimate) && cell.PAdjusted >= alpha {
			label = "ns" // crossed out in the rendered matrix
		}
		heat.Data = append(heat.Data, plot.DataPoint{
			X:     cell.VariableX.String(),
			Y:     cell.VariableY.String(),
			Z:     cell.Estimate,
			Label: label,
		})
	}
	spec.AddSeries(heat)
	spec.Subtitle = corrMatSubtitle(method, opts, len(cells))

	return &AnalysisResult{Plot: spec, Matrix: cells}, nil
}

func corrMatSubtitle(method stats.CorrelationMethod, opts stats.Options, comparisons int) string {
	adj := string(opts.Adjust)
	if opts.Adjust == stats.AdjustNone {
		adj = "no"
	}
	return string(method) + " correlations, " + adj + " adjustment across " +
		expression.FormatCount(comparisons) + " comparisons"
}
