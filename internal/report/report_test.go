package report

import (
	"math"
	"strings"
	"testing"

	"statviz/app"
	"statviz/domain/plot"
	"statviz/domain/stats"
)

func sampleResult() *app.AnalysisResult {
	spec := plot.New(plot.ViolinBox, "score by group")
	spec.Subtitle = "t Welch(14.00) = 5.21, p < 0.001, g = 1.80, CI95% [1.00, 2.60], n = 16"
	spec.Caption = "log(BF10) = 4.20"

	return &app.AnalysisResult{
		Plot: spec,
		Result: &stats.TestResult{
			Test:      stats.TestWelchT,
			StatLabel: "t",
			Statistic: 5.21,
			DF1:       14,
			DF2:       math.NaN(),
			PValue:    0.0001,
			Effect: stats.EffectSize{
				Name:     "g",
				Estimate: 1.8,
				CI:       stats.ConfidenceInterval{Lower: 1.0, Upper: 2.6, Level: 0.95},
			},
			N: 16,
		},
		Pairwise: []stats.PairwiseComparison{
			{Level1: "a", Level2: "b", Statistic: 2.5, PValue: 0.02, PAdjusted: 0.06},
		},
	}
}

func TestMarkdown(t *testing.T) {
	r := NewRenderer("Analysis Report")

	md := r.Markdown("trial", "between", sampleResult())

	for _, want := range []string{
		"# Analysis Report",
		"**Dataset:** trial",
		"**Analysis:** between",
		"> t Welch(14.00)",
		"_log(BF10) = 4.20_",
		"### Test",
		"| Test | welch_t |",
		"| p-value | p < 0.001 |",
		"| Sample size | 16 |",
		"### Pairwise comparisons",
		"| a | b | 2.500 | p = 0.020 | p = 0.060 |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestMarkdown_SkippedTest(t *testing.T) {
	r := NewRenderer("Analysis Report")

	res := &app.AnalysisResult{
		Plot:   plot.New(plot.Empty, "degraded"),
		Result: stats.Skipped(9),
	}
	res.Plot.Subtitle = "n = 9"

	md := r.Markdown("trial", "between", res)
	if !strings.Contains(md, "Annotation skipped, 9.") {
		t.Errorf("skipped section missing:\n%s", md)
	}
}

func TestMarkdown_MatrixAndCoefficients(t *testing.T) {
	r := NewRenderer("Analysis Report")

	res := &app.AnalysisResult{
		Matrix: []stats.CorrelationCell{
			{VariableX: "a", VariableY: "b", Estimate: 0.72, PValue: 0.01, PAdjusted: 0.03, N: 20},
		},
		Coefficients: []stats.Coefficient{
			{Term: "(Intercept)", Estimate: 2.1, StdErr: 0.3, TValue: 7.0, PValue: 0.0001,
				CI: stats.ConfidenceInterval{Lower: 1.5, Upper: 2.7, Level: 0.95}},
		},
	}

	md := r.Markdown("metrics", "corrmat", res)
	if !strings.Contains(md, "### Correlation matrix") {
		t.Error("matrix section missing")
	}
	if !strings.Contains(md, "| a | b | 0.720 | p = 0.030 | 20 |") {
		t.Errorf("matrix row missing:\n%s", md)
	}
	if !strings.Contains(md, "| (Intercept) | 2.1000 |") {
		t.Errorf("coefficient row missing:\n%s", md)
	}
}

func TestGroupedMarkdown(t *testing.T) {
	r := NewRenderer("Analysis Report")

	single := sampleResult()
	grouped := &app.GroupedResult{
		Levels: []string{"east", "west"},
		ByLevel: map[string]*app.AnalysisResult{
			"east": single,
			"west": single,
		},
	}

	md := r.GroupedMarkdown("regions", "between", grouped)
	if !strings.Contains(md, "(grouped, 2 levels)") {
		t.Errorf("header missing level count:\n%s", md)
	}
	if !strings.Contains(md, "## east") || !strings.Contains(md, "## west") {
		t.Errorf("per-level sections missing:\n%s", md)
	}
}

func TestHTML(t *testing.T) {
	r := NewRenderer("Analysis Report")

	page := string(r.HTML(r.Markdown("trial", "between", sampleResult())))
	if !strings.Contains(page, "<html") {
		t.Error("expected a complete HTML page")
	}
	if !strings.Contains(page, "Analysis Report") {
		t.Error("page missing title")
	}
	if !strings.Contains(page, "<table") {
		t.Error("markdown table not rendered")
	}
}
