package infer

import (
	"math"

	"statviz/domain/core"
	"statviz/domain/stats"
)

// FisherANOVA performs the classic one-way ANOVA across k groups, reporting
// eta squared (or omega squared with bias correction) as the effect.
func FisherANOVA(groups [][]float64, opts stats.Options) (*stats.TestResult, error) {
	clean, sizes, total, err := cleanGroups(groups)
	if err != nil {
		return nil, err
	}
	k := len(clean)

	grandSum := 0.0
	for _, g := range clean {
		for _, v := range g {
			grandSum += v
		}
	}
	grandMean := grandSum / float64(total)

	ssBetween := 0.0
	ssWithin := 0.0
	for _, g := range clean {
		m := Describe(g)
		ssBetween += float64(m.N) * (m.Mean - grandMean) * (m.Mean - grandMean)
		ssWithin += float64(m.N-1) * m.Var
	}
	ssTotal := ssBetween + ssWithin
	if ssWithin == 0 {
		return nil, core.ErrDegenerateVariance
	}

	df1 := float64(k - 1)
	df2 := float64(total - k)
	msBetween := ssBetween / df1
	msWithin := ssWithin / df2
	fStat := msBetween / msWithin

	dist := NewDistributions()
	pValue := dist.FTestPValue(fStat, df1, df2)

	eta2 := ssBetween / ssTotal
	name := "eta2"
	estimate := eta2
	if opts.BiasCorrect {
		name = "omega2"
		estimate = (ssBetween - df1*msWithin) / (ssTotal + msWithin)
		if estimate < 0 {
			estimate = 0
		}
	}
	effCI := fBasedEffectCI(estimate, float64(total), df1, opts.ConfLevel, dist)

	return &stats.TestResult{
		Test:       stats.TestFisherANOVA,
		StatLabel:  "F",
		Statistic:  fStat,
		DF1:        df1,
		DF2:        df2,
		PValue:     pValue,
		Effect:     stats.EffectSize{Name: name, Estimate: estimate, CI: effCI},
		N:          total,
		GroupSizes: sizes,
		Metadata: map[string]interface{}{
			"ss_between": ssBetween,
			"ss_within":  ssWithin,
		},
		ComputedAt: core.Now(),
	}, nil
}

// WelchANOVA performs Welch's heteroscedastic one-way ANOVA.
func WelchANOVA(groups [][]float64, opts stats.Options) (*stats.TestResult, error) {
	clean, sizes, total, err := cleanGroups(groups)
	if err != nil {
		return nil, err
	}
	k := len(clean)

	weights := make([]float64, k)
	means := make([]float64, k)
	sumW := 0.0
	for i, g := range clean {
		m := Describe(g)
		if m.Var == 0 {
			return nil, core.ErrDegenerateVariance
		}
		weights[i] = float64(m.N) / m.Var
		means[i] = m.Mean
		sumW += weights[i]
	}

	weightedMean := 0.0
	for i := range clean {
		weightedMean += weights[i] * means[i] / sumW
	}

	numerator := 0.0
	for i := range clean {
		numerator += weights[i] * (means[i] - weightedMean) * (means[i] - weightedMean)
	}
	numerator /= float64(k - 1)

	lambda := 0.0
	for i, g := range clean {
		term := (1 - weights[i]/sumW) * (1 - weights[i]/sumW) / float64(len(g)-1)
		lambda += term
	}
	lambda *= 3.0 / (float64(k*k) - 1)

	fStat := numerator / (1 + 2*float64(k-2)*lambda/3.0)
	df1 := float64(k - 1)
	df2 := 1.0 / lambda

	dist := NewDistributions()
	pValue := dist.FTestPValue(fStat, df1, df2)

	// Effect: eta squared from the F approximation.
	eta2 := fStat * df1 / (fStat*df1 + df2)
	effCI := fBasedEffectCI(eta2, float64(total), df1, opts.ConfLevel, dist)

	return &stats.TestResult{
		Test:       stats.TestWelchANOVA,
		StatLabel:  "F",
		Statistic:  fStat,
		DF1:        df1,
		DF2:        df2,
		PValue:     pValue,
		Effect:     stats.EffectSize{Name: "eta2", Estimate: eta2, CI: effCI},
		N:          total,
		GroupSizes: sizes,
		ComputedAt: core.Now(),
	}, nil
}

// fBasedEffectCI is a normal-approximation interval for variance-explained
// effects, clamped to [0, 1].
func fBasedEffectCI(estimate, n, df1, level float64, dist *Distributions) stats.ConfidenceInterval {
	se := math.Sqrt(math.Max(0, 4*estimate*(1-estimate)*(1-estimate)*(n-df1-1)*(n-df1-1))) /
		math.Sqrt(math.Max(1, (n*n-1)*(3+n)))
	if se == 0 {
		se = math.Sqrt(2.0*df1) / n
	}
	z := dist.NormalQuantile(1.0 - (1.0-level)/2.0)

	lower := estimate - z*se
	upper := estimate + z*se
	if lower < 0 {
		lower = 0
	}
	if upper > 1 {
		upper = 1
	}
	return stats.ConfidenceInterval{Lower: lower, Upper: upper, Level: level}
}

func cleanGroups(groups [][]float64) (clean [][]float64, sizes []int, total int, err error) {
	clean = make([][]float64, 0, len(groups))
	sizes = make([]int, 0, len(groups))
	for _, g := range groups {
		c := dropNaN(g)
		if len(c) < 2 {
			continue
		}
		clean = append(clean, c)
		sizes = append(sizes, len(c))
		total += len(c)
	}
	if len(clean) < 2 {
		return nil, nil, 0, core.NewTooFewLevelsError("group", len(clean))
	}
	return clean, sizes, total, nil
}
