package expression

import (
	"math"
	"strings"
	"testing"

	"statviz/adapters/stats/infer"
	"statviz/domain/stats"
)

func TestSubtitle_WelchT(t *testing.T) {
	res := &stats.TestResult{
		Test:      stats.TestWelchT,
		StatLabel: "t",
		Statistic: 2.14,
		DF1:       24.32,
		DF2:       math.NaN(),
		PValue:    0.042,
		Effect: stats.EffectSize{
			Name:     "g",
			Estimate: 0.81,
			CI:       stats.ConfidenceInterval{Lower: 0.12, Upper: 1.43, Level: 0.95},
		},
		N: 60,
	}

	got := Subtitle(res)
	want := "t Welch(24.32) = 2.14, p = 0.042, g = 0.81, CI95% [0.12, 1.43], n = 60"
	if got != want {
		t.Errorf("subtitle\n got: %s\nwant: %s", got, want)
	}
}

func TestSubtitle_ANOVAWithTwoDF(t *testing.T) {
	res := &stats.TestResult{
		Test:      stats.TestFisherANOVA,
		StatLabel: "F",
		Statistic: 4.5,
		DF1:       2,
		DF2:       27,
		PValue:    0.02,
		Effect: stats.EffectSize{
			Name:     "eta2",
			Estimate: 0.25,
			CI:       stats.ConfidenceInterval{Lower: 0.05, Upper: 0.45, Level: 0.95},
		},
		N: 30,
	}

	got := Subtitle(res)
	if !strings.HasPrefix(got, "F Fisher(2, 27) = 4.50") {
		t.Errorf("unexpected stat clause: %s", got)
	}
	if !strings.Contains(got, "eta2 = 0.25") {
		t.Errorf("missing effect clause: %s", got)
	}
}

func TestSubtitle_SkippedDegradesToSampleSize(t *testing.T) {
	res := &stats.TestResult{Test: stats.TestNone, N: 17}
	if got := Subtitle(res); got != "n = 17" {
		t.Errorf("expected n = 17, got %q", got)
	}
	if got := Subtitle(nil); got != "n = 0" {
		t.Errorf("nil result should give n = 0, got %q", got)
	}
}

func TestFormatP(t *testing.T) {
	cases := map[float64]string{
		0.0423:  "p = 0.042",
		0.0005:  "p < 0.001",
		0.001:   "p = 0.001",
		0.99951: "p = 1.000",
	}
	for p, want := range cases {
		if got := FormatP(p); got != want {
			t.Errorf("FormatP(%v) = %q, expected %q", p, got, want)
		}
	}
}

func TestCaption(t *testing.T) {
	opts := stats.DefaultOptions()

	bayes := &stats.TestResult{Test: stats.TestWelchT, BayesFactor: math.E}
	if got := Caption(bayes, opts); got != "log(BF10) = 1.00" {
		t.Errorf("bayes caption = %q", got)
	}

	boot := &stats.TestResult{
		Test:   stats.TestYuenT,
		Effect: stats.EffectSize{Name: "delta"},
	}
	got := Caption(boot, opts)
	if !strings.Contains(got, "bootstrap resamples") || !strings.Contains(got, "seed 42") {
		t.Errorf("bootstrap caption = %q", got)
	}

	if got := Caption(&stats.TestResult{Test: stats.TestNone}, opts); got != "" {
		t.Errorf("skipped caption should be empty, got %q", got)
	}
}

func TestRegressionSubtitle(t *testing.T) {
	fit := &infer.OLSResult{
		FStatistic:  52.31,
		DF1:         1,
		DF2:         8,
		PValue:      0.0001,
		RSquared:    0.87,
		AdjRSquared: 0.85,
		N:           10,
	}

	got := RegressionSubtitle(fit)
	want := "F(1, 8) = 52.31, p < 0.001, R2 = 0.87, adj. R2 = 0.85, n = 10"
	if got != want {
		t.Errorf("regression subtitle\n got: %s\nwant: %s", got, want)
	}
}
