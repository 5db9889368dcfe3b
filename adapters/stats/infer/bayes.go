package infer

import (
	"math"
)

// BIC-approximation Bayes factors (Wagenmakers 2007). The alternative model
// explains R^2 of the variance; the BIC difference against the null reduces
// to a closed form in n and R^2.

// bicBayesFactorT converts a t-statistic into an approximate BF10.
func bicBayesFactorT(tStat, df, n float64) float64 {
	if df <= 0 || n <= 1 {
		return 0
	}
	r2 := tStat * tStat / (tStat*tStat + df)
	return bicBayesFactorR2(r2, n)
}

// bicBayesFactorCorrelation converts a correlation into an approximate BF10.
func bicBayesFactorCorrelation(r float64, n float64) float64 {
	if n <= 3 {
		return 0
	}
	return bicBayesFactorR2(r*r, n)
}

func bicBayesFactorR2(r2, n float64) float64 {
	if r2 >= 1 {
		return math.Inf(1)
	}
	// deltaBIC = n*ln(1-R^2) + ln(n); BF01 = exp(deltaBIC/2)
	deltaBIC := n*math.Log(1-r2) + math.Log(n)
	bf01 := math.Exp(deltaBIC / 2.0)
	if bf01 == 0 {
		return math.Inf(1)
	}
	return 1.0 / bf01
}
