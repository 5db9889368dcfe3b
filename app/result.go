// Package app contains the analysis entry points: each takes a table and
// column selectors, dispatches the appropriate statistical test, formats the
// annotation text, and builds the plot specification.
package app

import (
	"statviz/domain/plot"
	"statviz/domain/stats"
)

// AnalysisResult is the output of one entry point: the renderable plot with
// its annotation, plus the underlying numeric results.
type AnalysisResult struct {
	Plot         *plot.Spec                 `json:"plot"`
	Result       *stats.TestResult          `json:"result,omitempty"`
	Pairwise     []stats.PairwiseComparison `json:"pairwise,omitempty"`
	Matrix       []stats.CorrelationCell    `json:"matrix,omitempty"`
	Coefficients []stats.Coefficient        `json:"coefficients,omitempty"`
}

// GroupedResult holds one AnalysisResult per level of the grouping column,
// plus the combined grid plot.
type GroupedResult struct {
	Grid    *plot.Spec                 `json:"grid"`
	Levels  []string                   `json:"levels"`
	ByLevel map[string]*AnalysisResult `json:"by_level"`
}
