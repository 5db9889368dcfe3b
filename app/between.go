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

// BetweenStats compares a numeric column across the levels of a factor
// column: violin/box plot with the omnibus test in the subtitle and, for
// more than two levels, pairwise post-hoc comparisons.
func BetweenStats(t *dataset.Table, x, y core.VariableKey, opts stats.Options) (*AnalysisResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	levels, groups, err := t.SplitByFactor(x, y)
	if err != nil {
		return nil, err
	}
	if len(levels) < 2 {
		return nil, core.NewTooFewLevelsError(x.String(), len(levels))
	}

	total := 0
	for _, g := range groups {
		total += len(g)
	}

	var result *stats.TestResult
	var pairwise []stats.PairwiseComparison
	if len(levels) == 2 {
		result, err = infer.BetweenTwo(groups[0], groups[1], opts)
	} else {
		result, err = infer.BetweenK(groups, opts)
		if err == nil {
			// Post-hoc failures degrade silently; the omnibus result stands.
			pairwise, _ = infer.Pairwise(levels, groups, opts)
		}
	}
	if err != nil {
		if core.IsSkippable(err) {
			result = stats.Skipped(total)
		} else {
			return nil, err
		}
	}

	spec := violinBoxSpec(t.Name, x, y, levels, groups)
	spec.Subtitle = expression.Subtitle(result)
	spec.Caption = expression.Caption(result, opts)

	return &AnalysisResult{Plot: spec, Result: result, Pairwise: pairwise}, nil
}

func violinBoxSpec(name string, x, y core.VariableKey, levels []string, groups [][]float64) *plot.Spec {
	spec := plot.New(plot.ViolinBox, fmt.Sprintf("%s by %s", y, x))
	spec.Config = plot.Config{
		XAxisLabel: x.String(),
		YAxisLabel: y.String(),
		Categories: make([]string, len(levels)),
	}

	violin := plot.Series{Name: y.String(), Kind: "violin"}
	box := plot.Series{Name: y.String(), Kind: "box"}
	for i, level := range levels {
		spec.Config.Categories[i] = fmt.Sprintf("%s (n = %d)", level, len(groups[i]))
		for _, v := range groups[i] {
			violin.Data = append(violin.Data, plot.DataPoint{X: level, Y: v})
		}
		m := infer.Describe(groups[i])
		box.Data = append(box.Data, plot.DataPoint{X: level, Y: m.Median, Label: level})
	}
	spec.AddSeries(violin)
	spec.AddSeries(box)
	if name != "" {
		spec.Title = fmt.Sprintf("%s: %s", name, spec.Title)
	}
	return spec
}
