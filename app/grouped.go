package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"statviz/domain/core"
	"statviz/domain/dataset"
	"statviz/domain/plot"
	"statviz/domain/stats"
	"statviz/internal/expression"
)

// AnalysisFunc runs one entry point against a (sub)table.
type AnalysisFunc func(t *dataset.Table) (*AnalysisResult, error)

// Grouped repeats an analysis once per level of the grouping column,
// concurrently, and combines the per-level plots into a grid. A level whose
// analysis cannot run degrades to a panel with the sample-size annotation;
// validation errors still fail the whole call.
func Grouped(ctx context.Context, t *dataset.Table, groupKey core.VariableKey, run AnalysisFunc) (*GroupedResult, error) {
	levels, err := t.Levels(groupKey)
	if err != nil {
		return nil, err
	}
	if len(levels) < 2 {
		return nil, core.NewTooFewLevelsError(groupKey.String(), len(levels))
	}

	results := make([]*AnalysisResult, len(levels))
	g, ctx := errgroup.WithContext(ctx)
	for i, level := range levels {
		i, level := i, level
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			sub, err := t.Subset(groupKey, level)
			if err != nil {
				return err
			}
			sub.Name = fmt.Sprintf("%s = %s", groupKey, level)

			res, err := run(sub)
			if err != nil {
				if core.IsSkippable(err) {
					results[i] = degradedPanel(sub)
					return nil
				}
				return fmt.Errorf("level %q: %w", level, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	grid := plot.New(plot.Grid, fmt.Sprintf("%s, split by %s", t.Name, groupKey))
	byLevel := make(map[string]*AnalysisResult, len(levels))
	for i, level := range levels {
		panel := *results[i].Plot
		panel.Title = fmt.Sprintf("%s = %s", groupKey, level)
		grid.Panels = append(grid.Panels, panel)
		byLevel[level] = results[i]
	}

	return &GroupedResult{Grid: grid, Levels: levels, ByLevel: byLevel}, nil
}

// GroupedBetweenStats is BetweenStats repeated per level of groupKey.
func GroupedBetweenStats(ctx context.Context, t *dataset.Table, groupKey, x, y core.VariableKey, opts stats.Options) (*GroupedResult, error) {
	return Grouped(ctx, t, groupKey, func(sub *dataset.Table) (*AnalysisResult, error) {
		return BetweenStats(sub, x, y, opts)
	})
}

// GroupedScatterStats is ScatterStats repeated per level of groupKey.
func GroupedScatterStats(ctx context.Context, t *dataset.Table, groupKey, x, y core.VariableKey, opts stats.Options) (*GroupedResult, error) {
	return Grouped(ctx, t, groupKey, func(sub *dataset.Table) (*AnalysisResult, error) {
		return ScatterStats(sub, x, y, opts)
	})
}

// GroupedPieStats is PieStats repeated per level of groupKey.
func GroupedPieStats(ctx context.Context, t *dataset.Table, groupKey, x core.VariableKey, opts stats.Options) (*GroupedResult, error) {
	return Grouped(ctx, t, groupKey, func(sub *dataset.Table) (*AnalysisResult, error) {
		return PieStats(sub, x, nil, opts)
	})
}

func degradedPanel(sub *dataset.Table) *AnalysisResult {
	skipped := stats.Skipped(sub.Rows())
	spec := plot.New(plot.Empty, sub.Name)
	spec.Subtitle = expression.Subtitle(skipped)
	return &AnalysisResult{Plot: spec, Result: skipped}
}
