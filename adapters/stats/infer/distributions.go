package infer

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// Distributions provides unified access to the reference distributions used
// for p-values and critical values.
type Distributions struct{}

// NewDistributions creates a new distributions utility
func NewDistributions() *Distributions {
	return &Distributions{}
}

// TTestPValue computes the two-tailed p-value for a t-statistic.
func (sd *Distributions) TTestPValue(tStatistic, degreesOfFreedom float64) float64 {
	if degreesOfFreedom <= 0 {
		return 1.0
	}

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: degreesOfFreedom}
	return 2 * (1 - tDist.CDF(math.Abs(tStatistic)))
}

// TQuantile computes the quantile of Student's t-distribution.
func (sd *Distributions) TQuantile(p, degreesOfFreedom float64) float64 {
	if degreesOfFreedom <= 0 {
		return math.NaN()
	}
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: degreesOfFreedom}.Quantile(p)
}

// CorrelationPValue computes the two-tailed p-value for a correlation
// coefficient via the t transform.
func (sd *Distributions) CorrelationPValue(correlation float64, sampleSize int) float64 {
	if sampleSize < 3 {
		return 1.0
	}
	if math.Abs(correlation) >= 1 {
		return 0.0
	}

	df := float64(sampleSize - 2)
	tStatistic := correlation * math.Sqrt(df/(1-correlation*correlation))
	return sd.TTestPValue(tStatistic, df)
}

// FTestPValue computes the upper-tail p-value for an F-statistic.
func (sd *Distributions) FTestPValue(fStatistic, df1, df2 float64) float64 {
	if df1 <= 0 || df2 <= 0 {
		return 1.0
	}

	fDist := distuv.F{D1: df1, D2: df2}
	return 1 - fDist.CDF(fStatistic)
}

// ChiSquarePValue computes the upper-tail p-value for a chi-square statistic.
func (sd *Distributions) ChiSquarePValue(chiSquare float64, degreesOfFreedom int) float64 {
	if degreesOfFreedom <= 0 {
		return 1.0
	}

	chiDist := distuv.ChiSquared{K: float64(degreesOfFreedom)}
	return 1 - chiDist.CDF(chiSquare)
}

// NormalCDF computes the standard normal CDF.
func (sd *Distributions) NormalCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// NormalQuantile computes the standard normal quantile (inverse CDF).
func (sd *Distributions) NormalQuantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}

// BootstrapCI computes a percentile confidence interval from bootstrap
// replicates.
func (sd *Distributions) BootstrapCI(samples []float64, confidenceLevel float64) (lower, upper float64) {
	if len(samples) == 0 {
		return 0, 0
	}

	if confidenceLevel <= 0 || confidenceLevel >= 1 {
		confidenceLevel = 0.95
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	alpha := 1.0 - confidenceLevel
	lowerIdx := int(math.Round(float64(len(sorted)-1) * (alpha / 2.0)))
	upperIdx := int(math.Round(float64(len(sorted)-1) * (1.0 - alpha/2.0)))

	if lowerIdx >= len(sorted) {
		lowerIdx = len(sorted) - 1
	}
	if upperIdx >= len(sorted) {
		upperIdx = len(sorted) - 1
	}

	return sorted[lowerIdx], sorted[upperIdx]
}

// WilcoxonSignedRankPValue computes the two-tailed p-value for the Wilcoxon
// signed-rank statistic W+. Exact for small n, normal approximation above.
func (sd *Distributions) WilcoxonSignedRankPValue(wStatistic float64, n int) float64 {
	if n <= 0 {
		return 1.0
	}

	if n > 10 {
		meanW := float64(n*(n+1)) / 4.0
		stdW := math.Sqrt(float64(n*(n+1)*(2*n+1)) / 24.0)
		if stdW == 0 {
			return 1.0
		}
		z := (wStatistic - meanW) / stdW
		return 2 * (1 - sd.NormalCDF(math.Abs(z)))
	}

	return sd.wilcoxonExactTwoSidedPValue(wStatistic, n)
}

func (sd *Distributions) wilcoxonExactTwoSidedPValue(wStatistic float64, n int) float64 {
	// W+ is integer-valued when there are no ties/zeros (caller preprocessed).
	wObs := int(math.Round(wStatistic))
	if wObs < 0 {
		wObs = 0
	}

	totalRankSum := n * (n + 1) / 2
	if wObs > totalRankSum {
		wObs = totalRankSum
	}

	// Two-sided p-value uses symmetry: P(W+ <= w) with w = min(W+, total-W+).
	w := wObs
	if totalRankSum-wObs < w {
		w = totalRankSum - wObs
	}

	// Subset-sum counting over ranks 1..n: dp[s] = assignments with W+ = s.
	dp := make([]uint64, totalRankSum+1)
	dp[0] = 1
	for r := 1; r <= n; r++ {
		for s := totalRankSum; s >= r; s-- {
			dp[s] += dp[s-r]
		}
	}

	totalOutcomes := uint64(1) << uint(n)
	var cum uint64
	for s := 0; s <= w; s++ {
		cum += dp[s]
	}

	pTwoSide := 2 * float64(cum) / float64(totalOutcomes)
	if pTwoSide > 1.0 {
		pTwoSide = 1.0
	}
	return pTwoSide
}
