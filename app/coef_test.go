package app

import (
	"fmt"
	"strings"
	"testing"

	"statviz/domain/core"
	"statviz/domain/dataset"
	"statviz/domain/plot"
)

func TestCoefStats(t *testing.T) {
	rows := make([][]string, 0, 12)
	jitter := []float64{0.1, -0.2, 0.15, -0.1, 0.05, -0.05, 0.2, -0.15, 0.1, -0.1, 0.12, -0.08}
	for i, j := range jitter {
		x1 := float64(i + 1)
		x2 := float64((i*3)%7) + 1
		y := 5 + 2*x1 - x2 + j
		rows = append(rows, []string{
			fmt.Sprintf("%g", y),
			fmt.Sprintf("%g", x1),
			fmt.Sprintf("%g", x2),
		})
	}
	tbl := dataset.NewTable("model", []string{"outcome", "x1", "x2"}, rows)

	res, err := CoefStats(tbl, "outcome", []core.VariableKey{"x1", "x2"}, testOpts())
	if err != nil {
		t.Fatalf("CoefStats: %v", err)
	}

	if len(res.Coefficients) != 3 {
		t.Fatalf("expected intercept plus 2 terms, got %d", len(res.Coefficients))
	}
	if res.Coefficients[0].Term != "(Intercept)" {
		t.Errorf("first term %q, expected (Intercept)", res.Coefficients[0].Term)
	}
	slope := res.Coefficients[1]
	if slope.Estimate < 1.8 || slope.Estimate > 2.2 {
		t.Errorf("x1 slope %.4f far from 2", slope.Estimate)
	}
	if res.Plot.Type != plot.CoefficientDot {
		t.Errorf("expected coefficient plot, got %s", res.Plot.Type)
	}
	if len(res.Plot.Series[0].Data) != 3 {
		t.Errorf("expected 3 interval rows, got %d", len(res.Plot.Series[0].Data))
	}
	if !strings.Contains(res.Plot.Subtitle, "R2 =") {
		t.Errorf("subtitle missing fit summary: %s", res.Plot.Subtitle)
	}
	if !strings.Contains(res.Plot.Title, "outcome ~ x1 + x2") {
		t.Errorf("unexpected title: %s", res.Plot.Title)
	}
}

func TestCoefStats_NoPredictors(t *testing.T) {
	tbl := dataset.NewTable("model", []string{"outcome"}, [][]string{{"1"}, {"2"}, {"3"}})

	_, err := CoefStats(tbl, "outcome", nil, testOpts())
	if err == nil {
		t.Fatal("expected error without predictors")
	}
}

func TestCoefStats_FactorResponseIsValidationError(t *testing.T) {
	rows := [][]string{
		{"red", "1"}, {"green", "2"}, {"blue", "3"},
		{"red", "4"}, {"green", "5"}, {"blue", "6"},
	}
	tbl := dataset.NewTable("model", []string{"color", "x"}, rows)

	_, err := CoefStats(tbl, "color", []core.VariableKey{"x"}, testOpts())
	if err == nil {
		t.Fatal("expected error for factor response")
	}
	if !core.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}
