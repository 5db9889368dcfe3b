package infer

import (
	"math"

	"statviz/domain/core"
	"statviz/domain/stats"
)

// TwoSampleT performs Student's or Welch's two-sample t-test depending on the
// variance assumption, reporting Cohen's d (or Hedges' g when bias
// correction is on) with its interval.
func TwoSampleT(group1, group2 []float64, opts stats.Options) (*stats.TestResult, error) {
	g1 := dropNaN(group1)
	g2 := dropNaN(group2)
	if len(g1) < 2 || len(g2) < 2 {
		return nil, core.NewInsufficientDataError(4, len(g1)+len(g2))
	}

	m1 := Describe(g1)
	m2 := Describe(g2)
	if m1.Var == 0 && m2.Var == 0 {
		return nil, core.ErrDegenerateVariance
	}

	n1 := float64(m1.N)
	n2 := float64(m2.N)
	dist := NewDistributions()

	var tStat, df float64
	test := stats.TestWelchT
	if opts.EqualVariance {
		test = stats.TestStudentT
		pooled := ((n1-1)*m1.Var + (n2-1)*m2.Var) / (n1 + n2 - 2)
		tStat = (m1.Mean - m2.Mean) / math.Sqrt(pooled*(1/n1+1/n2))
		df = n1 + n2 - 2
	} else {
		se := math.Sqrt(m1.Var/n1 + m2.Var/n2)
		tStat = (m1.Mean - m2.Mean) / se
		// Welch-Satterthwaite degrees of freedom
		df = math.Pow(m1.Var/n1+m2.Var/n2, 2) /
			(math.Pow(m1.Var/n1, 2)/(n1-1) + math.Pow(m2.Var/n2, 2)/(n2-1))
	}

	pValue := dist.TTestPValue(tStat, df)
	effect := cohensD(m1, m2, opts, dist)

	result := &stats.TestResult{
		Test:       test,
		StatLabel:  "t",
		Statistic:  tStat,
		DF1:        df,
		DF2:        math.NaN(),
		PValue:     pValue,
		Effect:     effect,
		N:          m1.N + m2.N,
		GroupSizes: []int{m1.N, m2.N},
		Metadata: map[string]interface{}{
			"mean_1": m1.Mean,
			"mean_2": m2.Mean,
			"sd_1":   m1.StdDev,
			"sd_2":   m2.StdDev,
		},
		ComputedAt: core.Now(),
	}
	if opts.BayesFactor {
		result.BayesFactor = bicBayesFactorT(tStat, df, float64(result.N))
	}
	return result, nil
}

// cohensD computes the standardized mean difference and its interval via the
// large-sample normal approximation of the effect's standard error.
func cohensD(m1, m2 Moments, opts stats.Options, dist *Distributions) stats.EffectSize {
	n1 := float64(m1.N)
	n2 := float64(m2.N)

	pooledSD := math.Sqrt(((n1-1)*m1.Var + (n2-1)*m2.Var) / (n1 + n2 - 2))
	d := 0.0
	if pooledSD > 0 {
		d = (m1.Mean - m2.Mean) / pooledSD
	}

	name := "d"
	if opts.BiasCorrect {
		// Hedges' g correction factor
		d *= 1.0 - 3.0/(4.0*(n1+n2)-9.0)
		name = "g"
	}

	se := math.Sqrt((n1+n2)/(n1*n2) + d*d/(2*(n1+n2)))
	z := dist.NormalQuantile(1.0 - (1.0-opts.ConfLevel)/2.0)
	return stats.EffectSize{
		Name:     name,
		Estimate: d,
		CI: stats.ConfidenceInterval{
			Lower: d - z*se,
			Upper: d + z*se,
			Level: opts.ConfLevel,
		},
	}
}

// YuenT performs Yuen's two-sample test on trimmed means, the robust path
// for two-group comparison. The effect is the trimmed mean difference with a
// seeded bootstrap percentile interval.
func YuenT(group1, group2 []float64, opts stats.Options) (*stats.TestResult, error) {
	g1 := dropNaN(group1)
	g2 := dropNaN(group2)

	n1 := len(g1)
	n2 := len(g2)
	h1 := n1 - 2*trimCount(n1, opts.TrimFraction)
	h2 := n2 - 2*trimCount(n2, opts.TrimFraction)
	if h1 < 2 || h2 < 2 {
		return nil, core.NewInsufficientDataError(4, h1+h2)
	}

	mt1 := TrimmedMean(g1, opts.TrimFraction)
	mt2 := TrimmedMean(g2, opts.TrimFraction)
	sw1 := WinsorizedVariance(g1, opts.TrimFraction)
	sw2 := WinsorizedVariance(g2, opts.TrimFraction)

	d1 := float64(n1-1) * sw1 / float64(h1*(h1-1))
	d2 := float64(n2-1) * sw2 / float64(h2*(h2-1))
	if d1+d2 == 0 {
		return nil, core.ErrDegenerateVariance
	}

	tStat := (mt1 - mt2) / math.Sqrt(d1+d2)
	df := (d1 + d2) * (d1 + d2) /
		(d1*d1/float64(h1-1) + d2*d2/float64(h2-1))

	dist := NewDistributions()
	pValue := dist.TTestPValue(tStat, df)

	diff := mt1 - mt2
	lower, upper := bootstrapTwoSample(g1, g2, opts, func(a, b []float64) float64 {
		return TrimmedMean(a, opts.TrimFraction) - TrimmedMean(b, opts.TrimFraction)
	})

	return &stats.TestResult{
		Test:      stats.TestYuenT,
		StatLabel: "t",
		Statistic: tStat,
		DF1:       df,
		DF2:       math.NaN(),
		PValue:    pValue,
		Effect: stats.EffectSize{
			Name:     "delta",
			Estimate: diff,
			CI:       stats.ConfidenceInterval{Lower: lower, Upper: upper, Level: opts.ConfLevel},
		},
		N:          n1 + n2,
		GroupSizes: []int{n1, n2},
		Metadata: map[string]interface{}{
			"trimmed_mean_1": mt1,
			"trimmed_mean_2": mt2,
			"trim_fraction":  opts.TrimFraction,
		},
		ComputedAt: core.Now(),
	}, nil
}

// OneSampleT tests whether the mean differs from testValue.
func OneSampleT(data []float64, testValue float64, opts stats.Options) (*stats.TestResult, error) {
	clean := dropNaN(data)
	if len(clean) < 2 {
		return nil, core.NewInsufficientDataError(2, len(clean))
	}

	m := Describe(clean)
	if m.StdDev == 0 {
		return nil, core.ErrDegenerateVariance
	}

	n := float64(m.N)
	tStat := (m.Mean - testValue) / (m.StdDev / math.Sqrt(n))
	df := n - 1

	dist := NewDistributions()
	pValue := dist.TTestPValue(tStat, df)

	d := (m.Mean - testValue) / m.StdDev
	name := "d"
	if opts.BiasCorrect {
		d *= 1.0 - 3.0/(4.0*n-5.0)
		name = "g"
	}
	se := math.Sqrt(1/n + d*d/(2*n))
	z := dist.NormalQuantile(1.0 - (1.0-opts.ConfLevel)/2.0)

	result := &stats.TestResult{
		Test:      stats.TestOneSampleT,
		StatLabel: "t",
		Statistic: tStat,
		DF1:       df,
		DF2:       math.NaN(),
		PValue:    pValue,
		Effect: stats.EffectSize{
			Name:     name,
			Estimate: d,
			CI:       stats.ConfidenceInterval{Lower: d - z*se, Upper: d + z*se, Level: opts.ConfLevel},
		},
		N: m.N,
		Metadata: map[string]interface{}{
			"mean":       m.Mean,
			"sd":         m.StdDev,
			"test_value": testValue,
		},
		ComputedAt: core.Now(),
	}
	if opts.BayesFactor {
		result.BayesFactor = bicBayesFactorT(tStat, df, n)
	}
	return result, nil
}

// TrimmedOneSampleT is the robust one-sample path: a t-test on the trimmed
// mean with winsorized variance.
func TrimmedOneSampleT(data []float64, testValue float64, opts stats.Options) (*stats.TestResult, error) {
	clean := dropNaN(data)
	n := len(clean)
	h := n - 2*trimCount(n, opts.TrimFraction)
	if h < 2 {
		return nil, core.NewInsufficientDataError(2, h)
	}

	mt := TrimmedMean(clean, opts.TrimFraction)
	sw := WinsorizedVariance(clean, opts.TrimFraction)
	if sw == 0 {
		return nil, core.ErrDegenerateVariance
	}

	// Tukey-McLaughlin standard error for the trimmed mean.
	se := math.Sqrt(sw) / ((1 - 2*opts.TrimFraction) * math.Sqrt(float64(n)))

	tStat := (mt - testValue) / se
	df := float64(h - 1)

	dist := NewDistributions()
	pValue := dist.TTestPValue(tStat, df)

	diff := mt - testValue
	lower, upper := bootstrapOneSample(clean, opts, func(sample []float64) float64 {
		return TrimmedMean(sample, opts.TrimFraction) - testValue
	})

	return &stats.TestResult{
		Test:      stats.TestTrimmedT,
		StatLabel: "t",
		Statistic: tStat,
		DF1:       df,
		DF2:       math.NaN(),
		PValue:    pValue,
		Effect: stats.EffectSize{
			Name:     "delta",
			Estimate: diff,
			CI:       stats.ConfidenceInterval{Lower: lower, Upper: upper, Level: opts.ConfLevel},
		},
		N: n,
		Metadata: map[string]interface{}{
			"trimmed_mean":  mt,
			"trim_fraction": opts.TrimFraction,
			"test_value":    testValue,
		},
		ComputedAt: core.Now(),
	}, nil
}
