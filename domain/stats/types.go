package stats

import (
	"fmt"
	"math"

	"statviz/domain/core"
)

// TestType defines the statistical test performed
type TestType string

const (
	TestStudentT       TestType = "student_t"       // Student's two-sample t-test
	TestWelchT         TestType = "welch_t"         // Welch's unequal-variance t-test
	TestYuenT          TestType = "yuen_t"          // Yuen's trimmed-means t-test
	TestMannWhitney    TestType = "mann_whitney"    // Mann-Whitney U test
	TestFisherANOVA    TestType = "fisher_anova"    // Fisher's one-way ANOVA
	TestWelchANOVA     TestType = "welch_anova"     // Welch's heteroscedastic ANOVA
	TestKruskalWallis  TestType = "kruskal_wallis"  // Kruskal-Wallis rank sum test
	TestPearson        TestType = "pearson"         // Pearson correlation
	TestSpearman       TestType = "spearman"        // Spearman rank correlation
	TestKendall        TestType = "kendall"         // Kendall tau-b correlation
	TestChiSquare      TestType = "chi_square"      // Pearson chi-square of independence
	TestChiSquareGof   TestType = "chi_square_gof"  // Chi-square goodness of fit
	TestMcNemar        TestType = "mcnemar"         // McNemar's paired proportion test
	TestOneSampleT     TestType = "one_sample_t"    // One-sample t-test
	TestWilcoxonSigned TestType = "wilcoxon_signed" // Wilcoxon signed-rank test
	TestTrimmedT       TestType = "trimmed_t"       // One-sample trimmed-mean t-test
	TestOLS            TestType = "ols"             // Ordinary least squares fit
	TestNone           TestType = "none"            // Annotation skipped, n only
)

// ConfidenceInterval is a two-sided interval at the given level.
type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Level float64 `json:"level"` // e.g. 0.95
}

// EffectSize is a standardized effect estimate with its interval.
// INVARIANT: Name is one of the conventional symbols ("d", "g", "r",
// "r_rb", "eta2", "omega2", "epsilon2", "rho", "tau", "V", "g_cohen", "xi").
type EffectSize struct {
	Name     string             `json:"name"`
	Estimate float64            `json:"estimate"`
	CI       ConfidenceInterval `json:"ci"`
}

// TestResult holds the outcome of one statistical test in a shape all
// subtitle formatters and plot builders consume.
// INVARIANTS:
// - N always present and > 0 for a computed test
// - PValue in [0, 1]
// - DF1/DF2 are NaN when the test has no (second) degrees-of-freedom
type TestResult struct {
	Test        TestType               `json:"test"`
	StatLabel   string                 `json:"stat_label"` // "t", "F", "chi2", "U", "W", "z"
	Statistic   float64                `json:"statistic"`
	DF1         float64                `json:"df1"`
	DF2         float64                `json:"df2"`
	PValue      float64                `json:"p_value"`
	Effect      EffectSize             `json:"effect"`
	N           int                    `json:"n"`
	GroupSizes  []int                  `json:"group_sizes,omitempty"`
	BayesFactor float64                `json:"bayes_factor,omitempty"` // BF10; 0 when not computed
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	ComputedAt  core.Timestamp         `json:"computed_at"`
}

// HasDF1 reports whether the first degrees-of-freedom is meaningful.
func (r *TestResult) HasDF1() bool { return !math.IsNaN(r.DF1) }

// HasDF2 reports whether the second degrees-of-freedom is meaningful.
func (r *TestResult) HasDF2() bool { return !math.IsNaN(r.DF2) }

// Validate checks the result invariants.
func (r *TestResult) Validate() error {
	if r.Test == TestNone {
		return nil
	}
	if r.N <= 0 {
		return fmt.Errorf("N must be > 0, got %d", r.N)
	}
	if r.PValue < 0.0 || r.PValue > 1.0 {
		return fmt.Errorf("PValue must be in [0.0, 1.0], got %f", r.PValue)
	}
	return nil
}

// Skipped builds the degraded result used when a test cannot run: the plot
// keeps only the sample-size annotation.
func Skipped(n int) *TestResult {
	return &TestResult{
		Test:       TestNone,
		DF1:        math.NaN(),
		DF2:        math.NaN(),
		PValue:     1.0,
		N:          n,
		ComputedAt: core.Now(),
	}
}

// PairwiseComparison is one post-hoc comparison between two group levels.
type PairwiseComparison struct {
	Level1    string  `json:"level1"`
	Level2    string  `json:"level2"`
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	PAdjusted float64 `json:"p_adjusted"`
}

// Coefficient is one term of a fitted regression model.
type Coefficient struct {
	Term     string             `json:"term"`
	Estimate float64            `json:"estimate"`
	StdErr   float64            `json:"std_err"`
	TValue   float64            `json:"t_value"`
	PValue   float64            `json:"p_value"`
	CI       ConfidenceInterval `json:"ci"`
}

// CorrelationCell is one entry of a correlation matrix.
type CorrelationCell struct {
	VariableX core.VariableKey `json:"variable_x"`
	VariableY core.VariableKey `json:"variable_y"`
	Estimate  float64          `json:"estimate"`
	PValue    float64          `json:"p_value"`
	PAdjusted float64          `json:"p_adjusted"`
	N         int              `json:"n"`
}
