package infer

import (
	"math"

	"statviz/domain/core"
	"statviz/domain/stats"

	gstat "gonum.org/v1/gonum/stat"
)

// Correlate computes the correlation between two paired numeric columns.
// Rows with a missing value on either side must already be dropped.
func Correlate(x, y []float64, method stats.CorrelationMethod, opts stats.Options) (*stats.TestResult, error) {
	if len(x) != len(y) {
		return nil, core.ErrLengthMismatch
	}
	n := len(x)
	if n < 4 {
		return nil, core.NewInsufficientDataError(4, n)
	}

	dist := NewDistributions()

	var (
		estimate  float64
		statLabel string
		statistic float64
		df        = math.NaN()
		pValue    float64
		test      stats.TestType
		effName   string
	)

	switch method {
	case stats.CorrKendall:
		test = stats.TestKendall
		effName = "tau"
		statLabel = "z"
		var z float64
		estimate, z = kendallTauB(x, y)
		statistic = z
		pValue = 2 * (1 - dist.NormalCDF(math.Abs(z)))

	case stats.CorrSpearman:
		test = stats.TestSpearman
		effName = "rho"
		statLabel = "t"
		estimate = gstat.Correlation(Ranks(x), Ranks(y), nil)
		df = float64(n - 2)
		statistic = tFromR(estimate, n)
		pValue = dist.CorrelationPValue(estimate, n)

	default:
		test = stats.TestPearson
		effName = "r"
		statLabel = "t"
		estimate = gstat.Correlation(x, y, nil)
		df = float64(n - 2)
		statistic = tFromR(estimate, n)
		pValue = dist.CorrelationPValue(estimate, n)
	}

	if math.IsNaN(estimate) {
		return nil, core.ErrDegenerateVariance
	}

	lower, upper := fisherZInterval(estimate, n, opts.ConfLevel, dist)

	result := &stats.TestResult{
		Test:      test,
		StatLabel: statLabel,
		Statistic: statistic,
		DF1:       df,
		DF2:       math.NaN(),
		PValue:    pValue,
		Effect: stats.EffectSize{
			Name:     effName,
			Estimate: estimate,
			CI:       stats.ConfidenceInterval{Lower: lower, Upper: upper, Level: opts.ConfLevel},
		},
		N:          n,
		ComputedAt: core.Now(),
	}
	if opts.BayesFactor && test == stats.TestPearson {
		result.BayesFactor = bicBayesFactorCorrelation(estimate, float64(n))
	}
	return result, nil
}

func tFromR(r float64, n int) float64 {
	if math.Abs(r) >= 1 {
		return math.Inf(int(math.Copysign(1, r)))
	}
	return r * math.Sqrt(float64(n-2)/(1-r*r))
}

// fisherZInterval computes the correlation CI via the Fisher z transform.
func fisherZInterval(r float64, n int, level float64, dist *Distributions) (lower, upper float64) {
	if n < 4 || math.Abs(r) >= 1 {
		return r, r
	}
	z := math.Atanh(r)
	se := 1.0 / math.Sqrt(float64(n-3))
	zq := dist.NormalQuantile(1.0 - (1.0-level)/2.0)
	return math.Tanh(z - zq*se), math.Tanh(z + zq*se)
}

// kendallTauB computes Kendall's tau-b with tie handling, plus the normal
// approximation z-statistic.
func kendallTauB(x, y []float64) (tau, z float64) {
	n := len(x)
	var concordant, discordant float64
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			dx := x[i] - x[j]
			dy := y[i] - y[j]
			s := dx * dy
			if s > 0 {
				concordant++
			} else if s < 0 {
				discordant++
			}
		}
	}

	n0 := float64(n*(n-1)) / 2.0
	tiesX := 0.0
	for _, t := range tieGroups(x) {
		tiesX += float64(t*(t-1)) / 2.0
	}
	tiesY := 0.0
	for _, t := range tieGroups(y) {
		tiesY += float64(t*(t-1)) / 2.0
	}

	denom := math.Sqrt((n0 - tiesX) * (n0 - tiesY))
	if denom == 0 {
		return math.NaN(), 0
	}
	tau = (concordant - discordant) / denom

	// Normal approximation ignoring tie variance terms.
	z = 3.0 * (concordant - discordant) / math.Sqrt(float64(n*(n-1)*(2*n+5))/2.0)
	return tau, z
}

// CorrelationMatrix computes all pairwise correlations among the named
// columns, with p-value adjustment across the upper triangle.
func CorrelationMatrix(keys []core.VariableKey, columns [][]float64, method stats.CorrelationMethod, opts stats.Options) ([]stats.CorrelationCell, error) {
	if len(keys) != len(columns) {
		return nil, core.ErrLengthMismatch
	}
	if len(keys) < 2 {
		return nil, core.NewInsufficientDataError(2, len(keys))
	}

	cells := make([]stats.CorrelationCell, 0, len(keys)*(len(keys)-1)/2)
	for i := 0; i < len(keys)-1; i++ {
		for j := i + 1; j < len(keys); j++ {
			x, y := pairwiseComplete(columns[i], columns[j])
			cell := stats.CorrelationCell{VariableX: keys[i], VariableY: keys[j], N: len(x)}
			res, err := Correlate(x, y, method, opts)
			if err != nil {
				cell.Estimate = math.NaN()
				cell.PValue = 1.0
			} else {
				cell.Estimate = res.Effect.Estimate
				cell.PValue = res.PValue
			}
			cells = append(cells, cell)
		}
	}

	raw := make([]float64, len(cells))
	for i, c := range cells {
		raw[i] = c.PValue
	}
	adjusted := AdjustPValues(raw, opts.Adjust)
	for i := range cells {
		cells[i].PAdjusted = adjusted[i]
	}
	return cells, nil
}

func pairwiseComplete(a, b []float64) (x, y []float64) {
	x = make([]float64, 0, len(a))
	y = make([]float64, 0, len(b))
	for i := range a {
		if i >= len(b) || math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	return x, y
}
