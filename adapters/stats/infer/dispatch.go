package infer

import (
	"sort"

	"statviz/domain/stats"
)

// BetweenTwo selects and runs the two-group comparison for the configured
// approach.
func BetweenTwo(group1, group2 []float64, opts stats.Options) (*stats.TestResult, error) {
	switch opts.Approach {
	case stats.Nonparametric:
		return MannWhitneyU(group1, group2, opts)
	case stats.Robust:
		return YuenT(group1, group2, opts)
	default:
		return TwoSampleT(group1, group2, opts)
	}
}

// BetweenK selects and runs the k-group comparison for the configured
// approach. The robust path runs Welch's ANOVA on trimmed groups.
func BetweenK(groups [][]float64, opts stats.Options) (*stats.TestResult, error) {
	switch opts.Approach {
	case stats.Nonparametric:
		return KruskalWallis(groups, opts)
	case stats.Robust:
		trimmed := make([][]float64, len(groups))
		for i, g := range groups {
			trimmed[i] = trimTails(g, opts.TrimFraction)
		}
		res, err := WelchANOVA(trimmed, opts)
		if err != nil {
			return nil, err
		}
		if res.Metadata == nil {
			res.Metadata = map[string]interface{}{}
		}
		res.Metadata["trim_fraction"] = opts.TrimFraction
		return res, nil
	default:
		if opts.EqualVariance {
			return FisherANOVA(groups, opts)
		}
		return WelchANOVA(groups, opts)
	}
}

// OneSample selects and runs the one-sample location test for the configured
// approach.
func OneSample(data []float64, testValue float64, opts stats.Options) (*stats.TestResult, error) {
	switch opts.Approach {
	case stats.Nonparametric:
		return WilcoxonSignedRank(data, testValue, opts)
	case stats.Robust:
		return TrimmedOneSampleT(data, testValue, opts)
	default:
		return OneSampleT(data, testValue, opts)
	}
}

// CorrelateApproach maps the approach onto a correlation method: parametric
// Pearson, nonparametric Spearman, robust winsorized Pearson.
func CorrelateApproach(x, y []float64, opts stats.Options) (*stats.TestResult, error) {
	switch opts.Approach {
	case stats.Nonparametric:
		return Correlate(x, y, stats.CorrSpearman, opts)
	case stats.Robust:
		wx := Winsorize(x, opts.TrimFraction)
		wy := Winsorize(y, opts.TrimFraction)
		res, err := Correlate(wx, wy, stats.CorrPearson, opts)
		if err != nil {
			return nil, err
		}
		res.Effect.Name = "r_w"
		if res.Metadata == nil {
			res.Metadata = map[string]interface{}{}
		}
		res.Metadata["winsorized"] = opts.TrimFraction
		return res, nil
	default:
		return Correlate(x, y, stats.CorrPearson, opts)
	}
}

// Pairwise selects the post-hoc family matching the omnibus approach.
func Pairwise(levels []string, groups [][]float64, opts stats.Options) ([]stats.PairwiseComparison, error) {
	if opts.Approach == stats.Nonparametric {
		return DunnPairwise(levels, groups, opts)
	}
	return TPairwise(levels, groups, opts)
}

func trimTails(data []float64, trim float64) []float64 {
	clean := dropNaN(data)
	sort.Float64s(clean)
	g := trimCount(len(clean), trim)
	if 2*g >= len(clean) {
		return clean
	}
	out := make([]float64, len(clean)-2*g)
	copy(out, clean[g:len(clean)-g])
	return out
}
