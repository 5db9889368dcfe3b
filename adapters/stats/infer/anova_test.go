package infer

import (
	"math"
	"testing"

	"statviz/domain/core"
	"statviz/domain/stats"
)

func TestFisherANOVA_KnownValues(t *testing.T) {
	// Group means 2, 3, 4 with unit within-group variance:
	// SS_between = 6, SS_within = 6, F = 3 on (2, 6) df, eta2 = 0.5.
	groups := [][]float64{
		{1, 2, 3},
		{2, 3, 4},
		{3, 4, 5},
	}

	opts := testOptions()
	opts.BiasCorrect = false

	res, err := FisherANOVA(groups, opts)
	if err != nil {
		t.Fatalf("FisherANOVA: %v", err)
	}

	if res.Test != stats.TestFisherANOVA {
		t.Errorf("expected fisher_anova, got %s", res.Test)
	}
	if math.Abs(res.Statistic-3.0) > 1e-9 {
		t.Errorf("expected F = 3, got %.6f", res.Statistic)
	}
	if res.DF1 != 2 || res.DF2 != 6 {
		t.Errorf("expected df (2, 6), got (%.0f, %.0f)", res.DF1, res.DF2)
	}
	if res.Effect.Name != "eta2" || math.Abs(res.Effect.Estimate-0.5) > 1e-9 {
		t.Errorf("expected eta2 = 0.5, got %s = %.4f", res.Effect.Name, res.Effect.Estimate)
	}
	if res.N != 9 {
		t.Errorf("expected n = 9, got %d", res.N)
	}
}

func TestFisherANOVA_OmegaSquaredBiasCorrected(t *testing.T) {
	groups := [][]float64{
		{1, 2, 3},
		{2, 3, 4},
		{3, 4, 5},
	}

	res, err := FisherANOVA(groups, testOptions())
	if err != nil {
		t.Fatalf("FisherANOVA: %v", err)
	}

	if res.Effect.Name != "omega2" {
		t.Errorf("expected omega2 with bias correction, got %s", res.Effect.Name)
	}
	// omega2 = (SSb - df1*MSw) / (SSt + MSw) = (6-2)/(12+1).
	want := 4.0 / 13.0
	if math.Abs(res.Effect.Estimate-want) > 1e-9 {
		t.Errorf("expected omega2 = %.4f, got %.4f", want, res.Effect.Estimate)
	}
}

func TestWelchANOVA_DetectsShift(t *testing.T) {
	groups := [][]float64{
		{1.1, 2.3, 1.8, 2.7, 1.5, 2.2, 1.9, 2.4},
		{4.2, 5.1, 4.8, 5.5, 4.4, 5.3, 4.9, 5.7},
		{8.3, 9.2, 8.7, 9.8, 8.5, 9.4, 8.9, 9.6},
	}

	res, err := WelchANOVA(groups, testOptions())
	if err != nil {
		t.Fatalf("WelchANOVA: %v", err)
	}

	if res.Test != stats.TestWelchANOVA {
		t.Errorf("expected welch_anova, got %s", res.Test)
	}
	if res.PValue > 0.001 {
		t.Errorf("expected a clear separation, got p = %.6f", res.PValue)
	}
	if !res.HasDF2() {
		t.Error("Welch ANOVA should report a second df")
	}
	if res.Effect.Estimate < 0.5 {
		t.Errorf("expected large eta2, got %.4f", res.Effect.Estimate)
	}
}

func TestFisherANOVA_ConstantGroupsAreSkippable(t *testing.T) {
	groups := [][]float64{
		{3, 3, 3},
		{5, 5, 5},
	}
	_, err := FisherANOVA(groups, testOptions())
	if err == nil {
		t.Fatal("expected error for zero within-group variance")
	}
	if !core.IsSkippable(err) {
		t.Errorf("expected skippable error, got %v", err)
	}
}

func TestBetweenK_TinyGroupsDropped(t *testing.T) {
	// Single-observation group is dropped; two usable groups remain.
	groups := [][]float64{
		{1, 2, 3, 4},
		{9},
		{5, 6, 7, 8},
	}

	res, err := BetweenK(groups, testOptions())
	if err != nil {
		t.Fatalf("BetweenK: %v", err)
	}
	if len(res.GroupSizes) != 2 {
		t.Errorf("expected 2 usable groups, got %d", len(res.GroupSizes))
	}
	if res.N != 8 {
		t.Errorf("expected n = 8 after dropping tiny group, got %d", res.N)
	}
}

func TestBetweenK_TooFewLevelsIsValidationError(t *testing.T) {
	groups := [][]float64{
		{1, 2, 3, 4},
		{5},
	}
	_, err := BetweenK(groups, testOptions())
	if err == nil {
		t.Fatal("expected error with only one usable group")
	}
	if !core.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestPairwise_WelchFamilyAdjusted(t *testing.T) {
	levels := []string{"a", "b", "c"}
	groups := [][]float64{
		{1, 2, 3, 4, 5},
		{2, 3, 4, 5, 6},
		{9, 10, 11, 12, 13},
	}

	comparisons, err := Pairwise(levels, groups, testOptions())
	if err != nil {
		t.Fatalf("Pairwise: %v", err)
	}
	if len(comparisons) != 3 {
		t.Fatalf("expected 3 comparisons, got %d", len(comparisons))
	}
	for _, c := range comparisons {
		if c.PAdjusted < c.PValue {
			t.Errorf("%s vs %s: adjusted p %.4f below raw p %.4f", c.Level1, c.Level2, c.PAdjusted, c.PValue)
		}
	}
}

func TestPairwise_DunnForNonparametric(t *testing.T) {
	levels := []string{"a", "b", "c"}
	groups := [][]float64{
		{1, 2, 3, 4, 5},
		{4, 5, 6, 7, 8},
		{9, 10, 11, 12, 13},
	}

	opts := testOptions()
	opts.Approach = stats.Nonparametric

	comparisons, err := Pairwise(levels, groups, opts)
	if err != nil {
		t.Fatalf("Pairwise: %v", err)
	}
	if len(comparisons) != 3 {
		t.Fatalf("expected 3 comparisons, got %d", len(comparisons))
	}
	// The extreme pair should be the strongest.
	var extreme stats.PairwiseComparison
	for _, c := range comparisons {
		if c.Level1 == "a" && c.Level2 == "c" {
			extreme = c
		}
	}
	for _, c := range comparisons {
		if c.PValue < extreme.PValue-1e-12 {
			t.Errorf("expected a vs c to carry the smallest p, but %s vs %s has %.4f < %.4f",
				c.Level1, c.Level2, c.PValue, extreme.PValue)
		}
	}
}
