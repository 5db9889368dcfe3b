// Package expression formats statistical test results into the annotation
// lines embedded in plots: subtitles with the test statistic, p-value,
// effect size and interval, and captions with bootstrap or Bayes details.
package expression

import (
	"fmt"
	"math"
	"strings"

	"statviz/adapters/stats/infer"
	"statviz/domain/stats"
)

// testNames maps a test to its display name in the subtitle.
var testNames = map[stats.TestType]string{
	stats.TestStudentT:       "Student",
	stats.TestWelchT:         "Welch",
	stats.TestYuenT:          "Yuen",
	stats.TestMannWhitney:    "Mann-Whitney",
	stats.TestFisherANOVA:    "Fisher",
	stats.TestWelchANOVA:     "Welch",
	stats.TestKruskalWallis:  "Kruskal-Wallis",
	stats.TestPearson:        "Pearson",
	stats.TestSpearman:       "Spearman",
	stats.TestKendall:        "Kendall",
	stats.TestChiSquare:      "Pearson",
	stats.TestChiSquareGof:   "goodness-of-fit",
	stats.TestMcNemar:        "McNemar",
	stats.TestOneSampleT:     "Student",
	stats.TestWilcoxonSigned: "Wilcoxon",
	stats.TestTrimmedT:       "Tukey-McLaughlin",
}

// Subtitle renders the one-line annotation for a test result, e.g.
//
//	t Welch(24.32) = 2.14, p = 0.042, g = 0.81, CI95% [0.12, 1.43], n = 60
//
// A skipped test degrades to the sample size alone.
func Subtitle(res *stats.TestResult) string {
	if res == nil || res.Test == stats.TestNone {
		n := 0
		if res != nil {
			n = res.N
		}
		return fmt.Sprintf("n = %d", n)
	}

	parts := make([]string, 0, 4)
	parts = append(parts, statClause(res))
	parts = append(parts, FormatP(res.PValue))
	if res.Effect.Name != "" {
		parts = append(parts, effectClause(res.Effect))
	}
	parts = append(parts, fmt.Sprintf("n = %d", res.N))
	return strings.Join(parts, ", ")
}

// Caption renders the secondary annotation line: Bayes factor and bootstrap
// details when present, otherwise empty.
func Caption(res *stats.TestResult, opts stats.Options) string {
	if res == nil || res.Test == stats.TestNone {
		return ""
	}

	parts := make([]string, 0, 2)
	if res.BayesFactor > 0 && !math.IsInf(res.BayesFactor, 1) {
		parts = append(parts, fmt.Sprintf("log(BF10) = %.2f", math.Log(res.BayesFactor)))
	} else if math.IsInf(res.BayesFactor, 1) {
		parts = append(parts, "log(BF10) > 10")
	}
	if res.Effect.Name == "delta" || res.Test == stats.TestChiSquare {
		parts = append(parts, fmt.Sprintf("CI via %d bootstrap resamples, seed %d", opts.Bootstrap, opts.Seed))
	}
	return strings.Join(parts, ", ")
}

// RegressionSubtitle renders the model-level annotation for an OLS fit.
func RegressionSubtitle(fit *infer.OLSResult) string {
	return fmt.Sprintf("F(%s, %s) = %.2f, %s, R2 = %.2f, adj. R2 = %.2f, n = %d",
		formatDF(fit.DF1), formatDF(fit.DF2), fit.FStatistic,
		FormatP(fit.PValue), fit.RSquared, fit.AdjRSquared, fit.N)
}

// FormatCount renders an integer for embedding in annotation text.
func FormatCount(n int) string {
	return fmt.Sprintf("%d", n)
}

// FormatP pretty-prints a p-value with the conventional floor.
func FormatP(p float64) string {
	if p < 0.001 {
		return "p < 0.001"
	}
	return fmt.Sprintf("p = %.3f", p)
}

func statClause(res *stats.TestResult) string {
	label := res.StatLabel
	if name, ok := testNames[res.Test]; ok {
		label = fmt.Sprintf("%s %s", res.StatLabel, name)
	}

	switch {
	case res.HasDF1() && res.HasDF2():
		return fmt.Sprintf("%s(%s, %s) = %.2f", label, formatDF(res.DF1), formatDF(res.DF2), res.Statistic)
	case res.HasDF1():
		return fmt.Sprintf("%s(%s) = %.2f", label, formatDF(res.DF1), res.Statistic)
	default:
		return fmt.Sprintf("%s = %.2f", label, res.Statistic)
	}
}

func effectClause(e stats.EffectSize) string {
	level := int(math.Round(e.CI.Level * 100))
	if e.CI.Lower == e.CI.Upper {
		return fmt.Sprintf("%s = %.2f", e.Name, e.Estimate)
	}
	return fmt.Sprintf("%s = %.2f, CI%d%% [%.2f, %.2f]", e.Name, e.Estimate, level, e.CI.Lower, e.CI.Upper)
}

func formatDF(df float64) string {
	if df == math.Trunc(df) {
		return fmt.Sprintf("%d", int(df))
	}
	return fmt.Sprintf("%.2f", df)
}
