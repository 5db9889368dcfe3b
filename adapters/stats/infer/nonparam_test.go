package infer

import (
	"math"
	"testing"

	"statviz/domain/core"
	"statviz/domain/stats"
)

func TestMannWhitneyU_CompleteSeparation(t *testing.T) {
	// Every value in g2 exceeds every value in g1: U = 0, r_rb = 1.
	g1 := []float64{1, 2, 3}
	g2 := []float64{4, 5, 6}

	res, err := MannWhitneyU(g1, g2, testOptions())
	if err != nil {
		t.Fatalf("MannWhitneyU: %v", err)
	}

	if res.Test != stats.TestMannWhitney {
		t.Errorf("expected mann_whitney, got %s", res.Test)
	}
	if res.Statistic != 0 {
		t.Errorf("expected U = 0, got %.4f", res.Statistic)
	}
	if math.Abs(res.Effect.Estimate-1.0) > 1e-9 {
		t.Errorf("expected r_rb = 1, got %.4f", res.Effect.Estimate)
	}
	// Normal approximation: z = -4.5/sqrt(5.25), p about 0.0495.
	if res.PValue < 0.04 || res.PValue > 0.06 {
		t.Errorf("expected p near 0.05, got %.4f", res.PValue)
	}
}

func TestMannWhitneyU_Symmetry(t *testing.T) {
	g1 := []float64{1, 2, 3, 7}
	g2 := []float64{4, 5, 6, 9}

	a, err := MannWhitneyU(g1, g2, testOptions())
	if err != nil {
		t.Fatalf("MannWhitneyU: %v", err)
	}
	b, err := MannWhitneyU(g2, g1, testOptions())
	if err != nil {
		t.Fatalf("MannWhitneyU swapped: %v", err)
	}

	if math.Abs(a.PValue-b.PValue) > 1e-9 {
		t.Errorf("p should be symmetric in group order: %.6f vs %.6f", a.PValue, b.PValue)
	}
	if math.Abs(a.Effect.Estimate+b.Effect.Estimate) > 1e-9 {
		t.Errorf("rank-biserial should flip sign: %.4f vs %.4f", a.Effect.Estimate, b.Effect.Estimate)
	}
}

func TestMannWhitneyU_AllTiedIsSkippable(t *testing.T) {
	_, err := MannWhitneyU([]float64{2, 2, 2}, []float64{2, 2, 2}, testOptions())
	if err == nil {
		t.Fatal("expected error for fully tied data")
	}
	if !core.IsSkippable(err) {
		t.Errorf("expected skippable error, got %v", err)
	}
}

func TestWilcoxonSignedRank_CenteredData(t *testing.T) {
	// Symmetric around the test value, zero difference dropped.
	res, err := WilcoxonSignedRank([]float64{1, 2, 3, 4, 5}, 3.0, testOptions())
	if err != nil {
		t.Fatalf("WilcoxonSignedRank: %v", err)
	}

	if res.Test != stats.TestWilcoxonSigned {
		t.Errorf("expected wilcoxon_signed, got %s", res.Test)
	}
	if res.N != 4 {
		t.Errorf("expected n = 4 after dropping the zero difference, got %d", res.N)
	}
	// W+ sits at the distribution center, so the effect is zero and p is large.
	if math.Abs(res.Effect.Estimate) > 1e-9 {
		t.Errorf("expected r_rb = 0 for symmetric data, got %.4f", res.Effect.Estimate)
	}
	if res.PValue < 0.9 {
		t.Errorf("expected p near 1, got %.4f", res.PValue)
	}
}

func TestWilcoxonSignedRank_OneSidedShift(t *testing.T) {
	data := []float64{5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}

	res, err := WilcoxonSignedRank(data, 2.0, testOptions())
	if err != nil {
		t.Fatalf("WilcoxonSignedRank: %v", err)
	}
	// All differences positive: W+ = n(n+1)/2 and r_rb = 1.
	want := float64(12 * 13 / 2)
	if res.Statistic != want {
		t.Errorf("expected W = %.0f, got %.4f", want, res.Statistic)
	}
	if math.Abs(res.Effect.Estimate-1.0) > 1e-9 {
		t.Errorf("expected r_rb = 1, got %.4f", res.Effect.Estimate)
	}
	if res.PValue > 0.01 {
		t.Errorf("expected small p, got %.4f", res.PValue)
	}
}

func TestKruskalWallis_KnownStructure(t *testing.T) {
	groups := [][]float64{
		{1, 2, 3, 4, 5},
		{6, 7, 8, 9, 10},
		{11, 12, 13, 14, 15},
	}

	res, err := KruskalWallis(groups, testOptions())
	if err != nil {
		t.Fatalf("KruskalWallis: %v", err)
	}

	if res.Test != stats.TestKruskalWallis {
		t.Errorf("expected kruskal_wallis, got %s", res.Test)
	}
	if res.DF1 != 2 {
		t.Errorf("expected df = 2, got %.0f", res.DF1)
	}
	// Perfectly ordered groups maximize H, so the separated layout must
	// clear the 0.05 chi-square cut for 2 df.
	if res.Statistic < 5.991 {
		t.Errorf("expected H above the 0.05 critical value, got %.4f", res.Statistic)
	}
	if res.PValue > 0.05 {
		t.Errorf("expected significant p, got %.4f", res.PValue)
	}
	if res.Effect.Name != "epsilon2" {
		t.Errorf("expected epsilon2 effect, got %s", res.Effect.Name)
	}
	if res.Effect.Estimate < 0.8 || res.Effect.Estimate > 1.0 {
		t.Errorf("expected epsilon2 near 1 for full separation, got %.4f", res.Effect.Estimate)
	}
}

func TestKruskalWallis_TieCorrection(t *testing.T) {
	// Ties shrink the raw H; the corrected H must still be finite and the
	// p-value valid.
	groups := [][]float64{
		{1, 1, 2, 2},
		{2, 2, 3, 3},
		{3, 3, 4, 4},
	}

	res, err := KruskalWallis(groups, testOptions())
	if err != nil {
		t.Fatalf("KruskalWallis: %v", err)
	}
	if math.IsNaN(res.Statistic) || math.IsInf(res.Statistic, 0) {
		t.Fatalf("H not finite: %v", res.Statistic)
	}
	if res.PValue < 0 || res.PValue > 1 {
		t.Errorf("p out of range: %.4f", res.PValue)
	}
}

func TestDunnPairwise_AdjustedMonotone(t *testing.T) {
	levels := []string{"low", "mid", "high"}
	groups := [][]float64{
		{1, 2, 3, 4, 5, 6},
		{4, 5, 6, 7, 8, 9},
		{10, 11, 12, 13, 14, 15},
	}

	comparisons, err := DunnPairwise(levels, groups, testOptions())
	if err != nil {
		t.Fatalf("DunnPairwise: %v", err)
	}
	if len(comparisons) != 3 {
		t.Fatalf("expected 3 comparisons, got %d", len(comparisons))
	}
	for _, c := range comparisons {
		if c.PAdjusted < c.PValue {
			t.Errorf("%s vs %s: adjusted %.4f below raw %.4f", c.Level1, c.Level2, c.PAdjusted, c.PValue)
		}
		if c.PAdjusted > 1 {
			t.Errorf("%s vs %s: adjusted p above 1: %.4f", c.Level1, c.Level2, c.PAdjusted)
		}
	}
}
