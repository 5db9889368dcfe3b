package app

import (
	"context"
	"fmt"
	"testing"

	"statviz/domain/core"
	"statviz/domain/dataset"
	"statviz/domain/plot"
	"statviz/domain/stats"
)

// segmentedTable has a clear group/score shift inside each of two segments.
func segmentedTable() *dataset.Table {
	rows := make([][]string, 0, 32)
	for _, segment := range []string{"east", "west"} {
		for i := 0; i < 8; i++ {
			rows = append(rows, []string{segment, "control", fmt.Sprintf("%d", 10+i%3)})
			rows = append(rows, []string{segment, "treatment", fmt.Sprintf("%d", 20+i%3)})
		}
	}
	return dataset.NewTable("regions", []string{"segment", "group", "score"}, rows)
}

func TestGroupedBetweenStats(t *testing.T) {
	tbl := segmentedTable()

	res, err := GroupedBetweenStats(context.Background(), tbl, "segment", "group", "score", testOpts())
	if err != nil {
		t.Fatalf("GroupedBetweenStats: %v", err)
	}

	if len(res.Levels) != 2 || res.Levels[0] != "east" || res.Levels[1] != "west" {
		t.Fatalf("expected sorted levels [east west], got %v", res.Levels)
	}
	if res.Grid.Type != plot.Grid {
		t.Errorf("expected grid plot, got %s", res.Grid.Type)
	}
	if len(res.Grid.Panels) != 2 {
		t.Fatalf("expected 2 panels, got %d", len(res.Grid.Panels))
	}
	for _, level := range res.Levels {
		sub, ok := res.ByLevel[level]
		if !ok {
			t.Fatalf("missing result for level %q", level)
		}
		if sub.Result.Test != stats.TestWelchT {
			t.Errorf("level %q: expected welch_t, got %s", level, sub.Result.Test)
		}
	}
	for _, panel := range res.Grid.Panels {
		if panel.Title != "segment = east" && panel.Title != "segment = west" {
			t.Errorf("unexpected panel title %q", panel.Title)
		}
	}
}

func TestGrouped_SkippableLevelDegradesToPanel(t *testing.T) {
	tbl := segmentedTable()

	run := func(sub *dataset.Table) (*AnalysisResult, error) {
		// Simulate an analysis that cannot run in one segment.
		if sub.Rows() > 0 {
			labels, _ := sub.FactorColumn("segment")
			if len(labels) > 0 && labels[0] == "west" {
				return nil, core.NewInsufficientDataError(100, sub.Rows())
			}
		}
		return BetweenStats(sub, "group", "score", testOpts())
	}

	res, err := Grouped(context.Background(), tbl, "segment", run)
	if err != nil {
		t.Fatalf("Grouped: %v", err)
	}

	east := res.ByLevel["east"]
	if east.Result.Test != stats.TestWelchT {
		t.Errorf("east should run normally, got %s", east.Result.Test)
	}

	west := res.ByLevel["west"]
	if west.Result.Test != stats.TestNone {
		t.Errorf("west should degrade, got %s", west.Result.Test)
	}
	if west.Plot.Type != plot.Empty {
		t.Errorf("degraded panel should be empty plot, got %s", west.Plot.Type)
	}
	if west.Plot.Subtitle != "n = 16" {
		t.Errorf("degraded subtitle = %q, expected n = 16", west.Plot.Subtitle)
	}
	if len(res.Grid.Panels) != 2 {
		t.Errorf("grid should still carry both panels, got %d", len(res.Grid.Panels))
	}
}

func TestGrouped_ValidationErrorFailsWholeCall(t *testing.T) {
	tbl := segmentedTable()

	run := func(sub *dataset.Table) (*AnalysisResult, error) {
		return nil, core.NewNotNumericError("score")
	}

	_, err := Grouped(context.Background(), tbl, "segment", run)
	if err == nil {
		t.Fatal("expected validation error to propagate")
	}
	if !core.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestGrouped_SingleLevelGroup(t *testing.T) {
	rows := [][]string{
		{"only", "a", "1"},
		{"only", "b", "2"},
	}
	tbl := dataset.NewTable("flat", []string{"segment", "group", "score"}, rows)

	_, err := Grouped(context.Background(), tbl, "segment", func(sub *dataset.Table) (*AnalysisResult, error) {
		return BetweenStats(sub, "group", "score", testOpts())
	})
	if err == nil {
		t.Fatal("expected error for single-level grouping column")
	}
	if !core.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}
