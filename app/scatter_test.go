package app

import (
	"fmt"
	"strings"
	"testing"

	"statviz/domain/dataset"
	"statviz/domain/plot"
	"statviz/domain/stats"
)

func pairedTable() *dataset.Table {
	rows := make([][]string, 0, 12)
	jitter := []float64{0.2, -0.1, 0.3, -0.2, 0.1, 0.0, -0.3, 0.2, 0.1, -0.1, 0.3, -0.2}
	for i, j := range jitter {
		x := float64(i + 1)
		rows = append(rows, []string{
			fmt.Sprintf("%g", x),
			fmt.Sprintf("%g", 2*x+j),
		})
	}
	return dataset.NewTable("pairs", []string{"x", "y"}, rows)
}

func TestScatterStats(t *testing.T) {
	tbl := pairedTable()

	res, err := ScatterStats(tbl, "x", "y", testOpts())
	if err != nil {
		t.Fatalf("ScatterStats: %v", err)
	}

	if res.Result.Test != stats.TestPearson {
		t.Errorf("expected pearson, got %s", res.Result.Test)
	}
	if res.Result.Effect.Estimate < 0.95 {
		t.Errorf("near-linear data should give r near 1, got %.4f", res.Result.Effect.Estimate)
	}
	if res.Plot.Type != plot.Scatter {
		t.Errorf("expected scatter plot, got %s", res.Plot.Type)
	}
	if len(res.Plot.Series) != 2 {
		t.Fatalf("expected points plus fit line, got %d series", len(res.Plot.Series))
	}
	if len(res.Plot.Series[0].Data) != 12 {
		t.Errorf("expected 12 points, got %d", len(res.Plot.Series[0].Data))
	}
	if res.Plot.Series[1].Kind != "line" || len(res.Plot.Series[1].Data) != 2 {
		t.Errorf("fit series malformed: %+v", res.Plot.Series[1])
	}
	if !strings.Contains(res.Plot.Subtitle, "Pearson") {
		t.Errorf("subtitle missing method: %s", res.Plot.Subtitle)
	}
}

func TestScatterStats_NonparametricUsesSpearman(t *testing.T) {
	tbl := pairedTable()
	opts := testOpts()
	opts.Approach = stats.Nonparametric

	res, err := ScatterStats(tbl, "x", "y", opts)
	if err != nil {
		t.Fatalf("ScatterStats: %v", err)
	}
	if res.Result.Test != stats.TestSpearman {
		t.Errorf("expected spearman, got %s", res.Result.Test)
	}
}

func TestScatterStats_ConstantColumnDegrades(t *testing.T) {
	rows := make([][]string, 0, 8)
	for i := 0; i < 8; i++ {
		rows = append(rows, []string{fmt.Sprintf("%d", i), "7"})
	}
	tbl := dataset.NewTable("flat", []string{"x", "y"}, rows)

	res, err := ScatterStats(tbl, "x", "y", testOpts())
	if err != nil {
		t.Fatalf("ScatterStats: %v", err)
	}
	if res.Result.Test != stats.TestNone {
		t.Errorf("expected skipped annotation, got %s", res.Result.Test)
	}
	if res.Plot.Subtitle != "n = 8" {
		t.Errorf("degraded subtitle = %q", res.Plot.Subtitle)
	}
}
