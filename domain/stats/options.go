package stats

import (
	"fmt"
)

// Approach selects the family of test used by an entry point.
type Approach string

const (
	Parametric    Approach = "parametric"
	Nonparametric Approach = "nonparametric"
	Robust        Approach = "robust"
)

// AdjustMethod is the multiple-comparison p-value adjustment.
type AdjustMethod string

const (
	AdjustHolm       AdjustMethod = "holm"
	AdjustBH         AdjustMethod = "BH"
	AdjustBonferroni AdjustMethod = "bonferroni"
	AdjustNone       AdjustMethod = "none"
)

// CorrelationMethod selects the correlation coefficient.
type CorrelationMethod string

const (
	CorrPearson  CorrelationMethod = "pearson"
	CorrSpearman CorrelationMethod = "spearman"
	CorrKendall  CorrelationMethod = "kendall"
)

// Options steer test selection and reporting. The zero value is not usable;
// start from DefaultOptions.
type Options struct {
	Approach      Approach     `json:"approach"`
	EqualVariance bool         `json:"equal_variance"` // Student's t / Fisher ANOVA when true
	Paired        bool         `json:"paired"`
	TrimFraction  float64      `json:"trim_fraction"` // robust path, per tail
	ConfLevel     float64      `json:"conf_level"`
	Bootstrap     int          `json:"bootstrap"` // replicates for bootstrap CIs
	Seed          int64        `json:"seed"`
	Adjust        AdjustMethod `json:"adjust"`
	BiasCorrect   bool         `json:"bias_correct"` // Hedges' g, bias-corrected Cramér's V
	BayesFactor   bool         `json:"bayes_factor"`
}

// DefaultOptions mirrors the conventional reporting defaults: Welch-style
// parametric tests, 95% intervals, Holm adjustment, seeded bootstrap.
func DefaultOptions() Options {
	return Options{
		Approach:      Parametric,
		EqualVariance: false,
		TrimFraction:  0.2,
		ConfLevel:     0.95,
		Bootstrap:     1000,
		Seed:          42,
		Adjust:        AdjustHolm,
		BiasCorrect:   true,
	}
}

// Validate checks option ranges before dispatch.
func (o Options) Validate() error {
	switch o.Approach {
	case Parametric, Nonparametric, Robust:
	default:
		return fmt.Errorf("unknown approach %q", o.Approach)
	}
	if o.ConfLevel <= 0 || o.ConfLevel >= 1 {
		return fmt.Errorf("conf_level must be in (0, 1), got %g", o.ConfLevel)
	}
	if o.TrimFraction < 0 || o.TrimFraction >= 0.5 {
		return fmt.Errorf("trim_fraction must be in [0, 0.5), got %g", o.TrimFraction)
	}
	if o.Bootstrap < 0 {
		return fmt.Errorf("bootstrap must be >= 0, got %d", o.Bootstrap)
	}
	switch o.Adjust {
	case AdjustHolm, AdjustBH, AdjustBonferroni, AdjustNone:
	default:
		return fmt.Errorf("unknown adjust method %q", o.Adjust)
	}
	return nil
}
