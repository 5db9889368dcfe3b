package app

import (
	"fmt"
	"strings"

	"statviz/adapters/stats/infer"
	"statviz/domain/core"
	"statviz/domain/dataset"
	"statviz/domain/plot"
	"statviz/domain/stats"
	"statviz/internal/expression"
)

// CoefStats fits response ~ predictors by OLS and renders the coefficient
// dot-and-interval plot with per-term annotations.
func CoefStats(t *dataset.Table, response core.VariableKey, predictors []core.VariableKey, opts stats.Options) (*AnalysisResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(predictors) == 0 {
		return nil, core.NewInsufficientDataError(1, 0)
	}

	y, err := t.NumericColumn(response)
	if err != nil {
		return nil, err
	}

	terms := make([]string, len(predictors))
	columns := make([][]float64, len(predictors))
	for i, key := range predictors {
		col, err := t.NumericColumn(key)
		if err != nil {
			return nil, err
		}
		terms[i] = key.String()
		columns[i] = col
	}

	fit, err := infer.OLS(terms, columns, y, opts)
	if err != nil {
		return nil, err
	}

	spec := plot.New(plot.CoefficientDot, fmt.Sprintf("%s ~ %s", response, strings.Join(terms, " + ")))
	spec.Config = plot.Config{XAxisLabel: "estimate", YAxisLabel: "term"}

	intervals := plot.Series{Name: "coefficients", Kind: "intervals"}
	for _, coef := range fit.Coefficients {
		intervals.Data = append(intervals.Data, plot.DataPoint{
			X:     coef.Estimate,
			Y:     coef.Term,
			Low:   coef.CI.Lower,
			High:  coef.CI.Upper,
			Label: fmt.Sprintf("%.2f, %s", coef.Estimate, expression.FormatP(coef.PValue)),
		})
	}
	spec.AddSeries(intervals)
	spec.Subtitle = expression.RegressionSubtitle(fit)

	return &AnalysisResult{Plot: spec, Coefficients: fit.Coefficients}, nil
}
