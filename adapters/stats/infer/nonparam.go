package infer

import (
	"math"

	"statviz/domain/core"
	"statviz/domain/stats"
)

// MannWhitneyU performs the two-sample rank sum test with tie correction,
// reporting the rank-biserial correlation as the effect.
func MannWhitneyU(group1, group2 []float64, opts stats.Options) (*stats.TestResult, error) {
	g1 := dropNaN(group1)
	g2 := dropNaN(group2)
	n1 := len(g1)
	n2 := len(g2)
	if n1 < 2 || n2 < 2 {
		return nil, core.NewInsufficientDataError(4, n1+n2)
	}

	combined := make([]float64, 0, n1+n2)
	combined = append(combined, g1...)
	combined = append(combined, g2...)
	ranks := Ranks(combined)

	r1 := 0.0
	for i := 0; i < n1; i++ {
		r1 += ranks[i]
	}
	u1 := r1 - float64(n1*(n1+1))/2.0

	n := float64(n1 + n2)
	meanU := float64(n1*n2) / 2.0

	// Tie-corrected variance of U.
	tieSum := 0.0
	for _, t := range tieGroups(combined) {
		tieSum += float64(t*t*t - t)
	}
	varU := float64(n1*n2) / 12.0 * ((n + 1) - tieSum/(n*(n-1)))
	if varU <= 0 {
		return nil, core.ErrDegenerateVariance
	}

	z := (u1 - meanU) / math.Sqrt(varU)
	dist := NewDistributions()
	pValue := 2 * (1 - dist.NormalCDF(math.Abs(z)))

	// Rank-biserial correlation and its normal-approximation interval.
	rrb := 1.0 - 2.0*u1/float64(n1*n2)
	seR := math.Sqrt((n + 1) / (3.0 * float64(n1*n2)))
	zq := dist.NormalQuantile(1.0 - (1.0-opts.ConfLevel)/2.0)
	lower := math.Max(-1, rrb-zq*seR)
	upper := math.Min(1, rrb+zq*seR)

	return &stats.TestResult{
		Test:      stats.TestMannWhitney,
		StatLabel: "U",
		Statistic: u1,
		DF1:       math.NaN(),
		DF2:       math.NaN(),
		PValue:    pValue,
		Effect: stats.EffectSize{
			Name:     "r_rb",
			Estimate: rrb,
			CI:       stats.ConfidenceInterval{Lower: lower, Upper: upper, Level: opts.ConfLevel},
		},
		N:          n1 + n2,
		GroupSizes: []int{n1, n2},
		Metadata:   map[string]interface{}{"z": z},
		ComputedAt: core.Now(),
	}, nil
}

// WilcoxonSignedRank tests whether a sample's location differs from
// testValue. Zero differences are dropped; ties get midranks.
func WilcoxonSignedRank(data []float64, testValue float64, opts stats.Options) (*stats.TestResult, error) {
	diffs := make([]float64, 0, len(data))
	for _, v := range dropNaN(data) {
		d := v - testValue
		if d != 0 {
			diffs = append(diffs, d)
		}
	}
	n := len(diffs)
	if n < 2 {
		return nil, core.NewInsufficientDataError(2, n)
	}

	abs := make([]float64, n)
	for i, d := range diffs {
		abs[i] = math.Abs(d)
	}
	ranks := Ranks(abs)

	wPlus := 0.0
	for i, d := range diffs {
		if d > 0 {
			wPlus += ranks[i]
		}
	}

	dist := NewDistributions()
	pValue := dist.WilcoxonSignedRankPValue(wPlus, n)

	// Matched-pairs rank-biserial correlation.
	total := float64(n*(n+1)) / 2.0
	rrb := 2.0*wPlus/total - 1.0
	seR := math.Sqrt(float64(2*n+1) / (3.0 * float64(n) * float64(n)))
	zq := dist.NormalQuantile(1.0 - (1.0-opts.ConfLevel)/2.0)

	return &stats.TestResult{
		Test:      stats.TestWilcoxonSigned,
		StatLabel: "W",
		Statistic: wPlus,
		DF1:       math.NaN(),
		DF2:       math.NaN(),
		PValue:    pValue,
		Effect: stats.EffectSize{
			Name:     "r_rb",
			Estimate: rrb,
			CI: stats.ConfidenceInterval{
				Lower: math.Max(-1, rrb-zq*seR),
				Upper: math.Min(1, rrb+zq*seR),
				Level: opts.ConfLevel,
			},
		},
		N:          n,
		Metadata:   map[string]interface{}{"test_value": testValue},
		ComputedAt: core.Now(),
	}, nil
}

// KruskalWallis performs the k-group rank sum test with tie correction,
// reporting epsilon squared as the effect.
func KruskalWallis(groups [][]float64, opts stats.Options) (*stats.TestResult, error) {
	clean, sizes, total, err := cleanGroups(groups)
	if err != nil {
		return nil, err
	}
	k := len(clean)

	combined := make([]float64, 0, total)
	for _, g := range clean {
		combined = append(combined, g...)
	}
	ranks := Ranks(combined)

	n := float64(total)
	h := 0.0
	offset := 0
	for _, g := range clean {
		rSum := 0.0
		for i := range g {
			rSum += ranks[offset+i]
		}
		h += rSum * rSum / float64(len(g))
		offset += len(g)
	}
	h = 12.0/(n*(n+1))*h - 3*(n+1)

	// Tie correction.
	tieSum := 0.0
	for _, t := range tieGroups(combined) {
		tieSum += float64(t*t*t - t)
	}
	correction := 1.0 - tieSum/(n*n*n-n)
	if correction <= 0 {
		return nil, core.ErrDegenerateVariance
	}
	h /= correction

	dist := NewDistributions()
	df := k - 1
	pValue := dist.ChiSquarePValue(h, df)

	epsilon2 := h * (n + 1) / (n*n - 1)
	if epsilon2 > 1 {
		epsilon2 = 1
	}
	effCI := fBasedEffectCI(epsilon2, n, float64(df), opts.ConfLevel, dist)

	return &stats.TestResult{
		Test:       stats.TestKruskalWallis,
		StatLabel:  "chi2",
		Statistic:  h,
		DF1:        float64(df),
		DF2:        math.NaN(),
		PValue:     pValue,
		Effect:     stats.EffectSize{Name: "epsilon2", Estimate: epsilon2, CI: effCI},
		N:          total,
		GroupSizes: sizes,
		ComputedAt: core.Now(),
	}, nil
}

// DunnPairwise runs Dunn's z-tests between every pair of group levels, with
// the configured p-value adjustment.
func DunnPairwise(levels []string, groups [][]float64, opts stats.Options) ([]stats.PairwiseComparison, error) {
	clean, _, total, err := cleanGroups(groups)
	if err != nil {
		return nil, err
	}
	if len(clean) != len(levels) {
		return nil, core.ErrLengthMismatch
	}

	combined := make([]float64, 0, total)
	for _, g := range clean {
		combined = append(combined, g...)
	}
	ranks := Ranks(combined)

	meanRanks := make([]float64, len(clean))
	offset := 0
	for i, g := range clean {
		sum := 0.0
		for j := range g {
			sum += ranks[offset+j]
		}
		meanRanks[i] = sum / float64(len(g))
		offset += len(g)
	}

	n := float64(total)
	tieSum := 0.0
	for _, t := range tieGroups(combined) {
		tieSum += float64(t*t*t - t)
	}
	tieCorr := tieSum / (12.0 * (n - 1))

	dist := NewDistributions()
	comparisons := make([]stats.PairwiseComparison, 0, len(clean)*(len(clean)-1)/2)
	for i := 0; i < len(clean)-1; i++ {
		for j := i + 1; j < len(clean); j++ {
			ni := float64(len(clean[i]))
			nj := float64(len(clean[j]))
			se := math.Sqrt((n*(n+1)/12.0 - tieCorr) * (1/ni + 1/nj))
			if se == 0 {
				continue
			}
			z := (meanRanks[i] - meanRanks[j]) / se
			p := 2 * (1 - dist.NormalCDF(math.Abs(z)))
			comparisons = append(comparisons, stats.PairwiseComparison{
				Level1:    levels[i],
				Level2:    levels[j],
				Statistic: z,
				PValue:    p,
			})
		}
	}

	applyAdjustment(comparisons, opts.Adjust)
	return comparisons, nil
}

// TPairwise runs Welch t-tests between every pair of group levels, with the
// configured p-value adjustment. The parametric post-hoc path.
func TPairwise(levels []string, groups [][]float64, opts stats.Options) ([]stats.PairwiseComparison, error) {
	if len(groups) != len(levels) {
		return nil, core.ErrLengthMismatch
	}

	comparisons := make([]stats.PairwiseComparison, 0, len(groups)*(len(groups)-1)/2)
	for i := 0; i < len(groups)-1; i++ {
		for j := i + 1; j < len(groups); j++ {
			res, err := TwoSampleT(groups[i], groups[j], opts)
			if err != nil {
				continue
			}
			comparisons = append(comparisons, stats.PairwiseComparison{
				Level1:    levels[i],
				Level2:    levels[j],
				Statistic: res.Statistic,
				PValue:    res.PValue,
			})
		}
	}
	if len(comparisons) == 0 {
		return nil, core.NewInsufficientDataError(2, 0)
	}

	applyAdjustment(comparisons, opts.Adjust)
	return comparisons, nil
}
