package infer

import (
	"math"

	"statviz/domain/core"
	"statviz/domain/stats"

	"gonum.org/v1/gonum/mat"
)

// OLSResult is a fitted least-squares model: per-term coefficients plus the
// overall F-test and fit summary.
type OLSResult struct {
	Coefficients []stats.Coefficient
	FStatistic   float64
	DF1          float64
	DF2          float64
	PValue       float64
	RSquared     float64
	AdjRSquared  float64
	N            int
}

// OLS fits response ~ intercept + predictors by QR-decomposed least squares.
// Rows with a missing value anywhere are dropped.
func OLS(terms []string, predictors [][]float64, response []float64, opts stats.Options) (*OLSResult, error) {
	if len(terms) != len(predictors) {
		return nil, core.ErrLengthMismatch
	}
	p := len(predictors)

	// Listwise deletion across response and all predictors.
	rows := make([]int, 0, len(response))
	for i, y := range response {
		if math.IsNaN(y) {
			continue
		}
		ok := true
		for _, col := range predictors {
			if i >= len(col) || math.IsNaN(col[i]) {
				ok = false
				break
			}
		}
		if ok {
			rows = append(rows, i)
		}
	}

	n := len(rows)
	k := p + 1 // intercept
	if n < k+2 {
		return nil, core.NewInsufficientDataError(k+2, n)
	}

	x := mat.NewDense(n, k, nil)
	y := mat.NewVecDense(n, nil)
	for r, i := range rows {
		x.Set(r, 0, 1.0)
		for c, col := range predictors {
			x.Set(r, c+1, col[i])
		}
		y.SetVec(r, response[i])
	}

	var qr mat.QR
	qr.Factorize(x)
	beta := mat.NewVecDense(k, nil)
	if err := qr.SolveVecTo(beta, false, y); err != nil {
		return nil, core.ErrDegenerateVariance
	}

	// Residual variance.
	fitted := mat.NewVecDense(n, nil)
	fitted.MulVec(x, beta)

	meanY := 0.0
	for r := 0; r < n; r++ {
		meanY += y.AtVec(r)
	}
	meanY /= float64(n)

	ssRes := 0.0
	ssTot := 0.0
	for r := 0; r < n; r++ {
		e := y.AtVec(r) - fitted.AtVec(r)
		ssRes += e * e
		d := y.AtVec(r) - meanY
		ssTot += d * d
	}
	if ssTot == 0 {
		return nil, core.ErrDegenerateVariance
	}

	dfRes := float64(n - k)
	sigma2 := ssRes / dfRes

	// Covariance of beta: sigma^2 (X'X)^-1.
	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, core.ErrDegenerateVariance
	}

	dist := NewDistributions()
	tCrit := dist.TQuantile(1.0-(1.0-opts.ConfLevel)/2.0, dfRes)

	allTerms := append([]string{"(Intercept)"}, terms...)
	coefs := make([]stats.Coefficient, k)
	for c := 0; c < k; c++ {
		est := beta.AtVec(c)
		se := math.Sqrt(sigma2 * xtxInv.At(c, c))
		t := est / se
		coefs[c] = stats.Coefficient{
			Term:     allTerms[c],
			Estimate: est,
			StdErr:   se,
			TValue:   t,
			PValue:   dist.TTestPValue(t, dfRes),
			CI: stats.ConfidenceInterval{
				Lower: est - tCrit*se,
				Upper: est + tCrit*se,
				Level: opts.ConfLevel,
			},
		}
	}

	r2 := 1.0 - ssRes/ssTot
	adjR2 := 1.0 - (1.0-r2)*float64(n-1)/dfRes
	df1 := float64(k - 1)
	fStat := (ssTot - ssRes) / df1 / sigma2

	return &OLSResult{
		Coefficients: coefs,
		FStatistic:   fStat,
		DF1:          df1,
		DF2:          dfRes,
		PValue:       dist.FTestPValue(fStat, df1, dfRes),
		RSquared:     r2,
		AdjRSquared:  adjR2,
		N:            n,
	}, nil
}
