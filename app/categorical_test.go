package app

import (
	"strings"
	"testing"

	"statviz/domain/core"
	"statviz/domain/dataset"
	"statviz/domain/plot"
	"statviz/domain/stats"
)

func labelTable() *dataset.Table {
	rows := make([][]string, 0, 40)
	add := func(segment, channel string, count int) {
		for i := 0; i < count; i++ {
			rows = append(rows, []string{segment, channel})
		}
	}
	add("premium", "online", 12)
	add("premium", "store", 4)
	add("standard", "online", 5)
	add("standard", "store", 15)
	return dataset.NewTable("customers", []string{"segment", "channel"}, rows)
}

func TestPieStats(t *testing.T) {
	tbl := labelTable()

	res, err := PieStats(tbl, "segment", nil, testOpts())
	if err != nil {
		t.Fatalf("PieStats: %v", err)
	}

	if res.Result.Test != stats.TestChiSquareGof {
		t.Errorf("expected chi_square_gof, got %s", res.Result.Test)
	}
	if res.Result.N != 36 {
		t.Errorf("expected n = 36, got %d", res.Result.N)
	}
	if res.Plot.Type != plot.Pie {
		t.Errorf("expected pie plot, got %s", res.Plot.Type)
	}
	slices := res.Plot.Series[0]
	if len(slices.Data) != 2 {
		t.Fatalf("expected 2 slices, got %d", len(slices.Data))
	}
	// premium 16/36, standard 20/36.
	if !strings.Contains(slices.Data[0].Label, "44.4%") {
		t.Errorf("slice label missing percentage: %q", slices.Data[0].Label)
	}
}

func TestPieStats_SingleLevelIsValidationError(t *testing.T) {
	rows := [][]string{{"a"}, {"a"}, {"a"}, {"a"}}
	tbl := dataset.NewTable("flat", []string{"segment"}, rows)

	_, err := PieStats(tbl, "segment", nil, testOpts())
	if err == nil {
		t.Fatal("expected error for single-level column")
	}
	if !core.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestBarStats(t *testing.T) {
	tbl := labelTable()

	res, err := BarStats(tbl, "segment", "channel", testOpts())
	if err != nil {
		t.Fatalf("BarStats: %v", err)
	}

	if res.Result.Test != stats.TestChiSquare {
		t.Errorf("expected chi_square, got %s", res.Result.Test)
	}
	// Strong segment/channel association.
	if res.Result.PValue > 0.01 {
		t.Errorf("expected small p, got %.4f", res.Result.PValue)
	}
	if res.Plot.Type != plot.Bar {
		t.Errorf("expected bar plot, got %s", res.Plot.Type)
	}
	if len(res.Plot.Series) != 2 {
		t.Fatalf("expected one series per channel level, got %d", len(res.Plot.Series))
	}

	// Proportions within each segment sum to one.
	for i := range res.Plot.Series[0].Data {
		sum := 0.0
		for _, series := range res.Plot.Series {
			sum += series.Data[i].Y.(float64)
		}
		if sum < 0.999 || sum > 1.001 {
			t.Errorf("segment %v proportions sum to %.4f", res.Plot.Series[0].Data[i].X, sum)
		}
	}
}

func TestBarStats_PairedUsesMcNemar(t *testing.T) {
	rows := make([][]string, 0, 30)
	add := func(before, after string, count int) {
		for i := 0; i < count; i++ {
			rows = append(rows, []string{before, after})
		}
	}
	add("yes", "yes", 10)
	add("no", "no", 8)
	add("yes", "no", 7)
	add("no", "yes", 3)
	tbl := dataset.NewTable("repeat", []string{"before", "after"}, rows)

	opts := testOpts()
	opts.Paired = true
	res, err := BarStats(tbl, "before", "after", opts)
	if err != nil {
		t.Fatalf("BarStats: %v", err)
	}
	if res.Result.Test != stats.TestMcNemar {
		t.Errorf("expected mcnemar, got %s", res.Result.Test)
	}
}
