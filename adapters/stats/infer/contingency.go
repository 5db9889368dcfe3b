package infer

import (
	"math"
	"sort"

	"statviz/domain/core"
	"statviz/domain/stats"
)

// ChiSquareIndependence performs Pearson's chi-square test on two paired
// label columns, reporting Cramér's V with a seeded bootstrap interval.
func ChiSquareIndependence(xs, ys []string, opts stats.Options) (*stats.TestResult, error) {
	xs, ys = completeLabelPairs(xs, ys)
	n := len(xs)
	if n < 4 {
		return nil, core.NewInsufficientDataError(4, n)
	}

	counts, rows, cols := crossCounts(xs, ys)
	if rows < 2 || cols < 2 {
		return nil, core.NewTooFewLevelsError("contingency", min(rows, cols))
	}

	chi2, err := pearsonChiSquare(counts)
	if err != nil {
		return nil, err
	}
	df := (rows - 1) * (cols - 1)

	dist := NewDistributions()
	pValue := dist.ChiSquarePValue(chi2, df)

	v := cramersV(chi2, n, rows, cols, opts.BiasCorrect)
	lower, upper := bootstrapPairs(xs, ys, opts, func(bx, by []string) float64 {
		c, r2, c2 := crossCounts(bx, by)
		bChi2, bErr := pearsonChiSquare(c)
		if bErr != nil || r2 < 2 || c2 < 2 {
			return 0
		}
		return cramersV(bChi2, len(bx), r2, c2, opts.BiasCorrect)
	})

	return &stats.TestResult{
		Test:      stats.TestChiSquare,
		StatLabel: "chi2",
		Statistic: chi2,
		DF1:       float64(df),
		DF2:       math.NaN(),
		PValue:    pValue,
		Effect: stats.EffectSize{
			Name:     "V",
			Estimate: v,
			CI:       stats.ConfidenceInterval{Lower: lower, Upper: upper, Level: opts.ConfLevel},
		},
		N:          n,
		Metadata:   map[string]interface{}{"rows": rows, "cols": cols},
		ComputedAt: core.Now(),
	}, nil
}

// ChiSquareGoodnessOfFit tests observed category counts against expected
// proportions. A nil expected slice means equal proportions.
func ChiSquareGoodnessOfFit(counts []float64, expected []float64, opts stats.Options) (*stats.TestResult, error) {
	k := len(counts)
	if k < 2 {
		return nil, core.NewTooFewLevelsError("categories", k)
	}

	total := 0.0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return nil, core.NewInsufficientDataError(1, 0)
	}

	if expected == nil {
		expected = make([]float64, k)
		for i := range expected {
			expected[i] = 1.0 / float64(k)
		}
	}
	if len(expected) != k {
		return nil, core.ErrLengthMismatch
	}

	chi2 := 0.0
	for i, c := range counts {
		e := expected[i] * total
		if e <= 0 {
			return nil, core.ErrDegenerateVariance
		}
		chi2 += (c - e) * (c - e) / e
	}
	df := k - 1

	dist := NewDistributions()
	pValue := dist.ChiSquarePValue(chi2, df)

	// Cramér's V for goodness of fit.
	v := math.Sqrt(chi2 / (total * float64(df)))
	seV := math.Sqrt((1 - v*v) / total)
	zq := dist.NormalQuantile(1.0 - (1.0-opts.ConfLevel)/2.0)

	return &stats.TestResult{
		Test:      stats.TestChiSquareGof,
		StatLabel: "chi2",
		Statistic: chi2,
		DF1:       float64(df),
		DF2:       math.NaN(),
		PValue:    pValue,
		Effect: stats.EffectSize{
			Name:     "V",
			Estimate: v,
			CI: stats.ConfidenceInterval{
				Lower: math.Max(0, v-zq*seV),
				Upper: math.Min(1, v+zq*seV),
				Level: opts.ConfLevel,
			},
		},
		N:          int(total),
		ComputedAt: core.Now(),
	}, nil
}

// McNemar performs the continuity-corrected paired proportion test on a 2x2
// table of paired labels, reporting Cohen's g.
func McNemar(before, after []string, opts stats.Options) (*stats.TestResult, error) {
	before, after = completeLabelPairs(before, after)
	n := len(before)
	if n < 4 {
		return nil, core.NewInsufficientDataError(4, n)
	}

	counts, rows, cols := crossCounts(before, after)
	if rows != 2 || cols != 2 {
		return nil, core.NewTooFewLevelsError("paired design", min(rows, cols))
	}

	b := counts[0][1]
	c := counts[1][0]
	if b+c == 0 {
		return nil, core.ErrDegenerateVariance
	}

	diff := math.Abs(b-c) - 1
	if diff < 0 {
		diff = 0
	}
	chi2 := diff * diff / (b + c)

	dist := NewDistributions()
	pValue := dist.ChiSquarePValue(chi2, 1)

	// Cohen's g: departure of the discordant proportion from one half.
	prop := b / (b + c)
	g := math.Abs(prop - 0.5)
	seG := math.Sqrt(prop * (1 - prop) / (b + c))
	zq := dist.NormalQuantile(1.0 - (1.0-opts.ConfLevel)/2.0)

	return &stats.TestResult{
		Test:      stats.TestMcNemar,
		StatLabel: "chi2",
		Statistic: chi2,
		DF1:       1,
		DF2:       math.NaN(),
		PValue:    pValue,
		Effect: stats.EffectSize{
			Name:     "g_cohen",
			Estimate: g,
			CI: stats.ConfidenceInterval{
				Lower: math.Max(0, g-zq*seG),
				Upper: math.Min(0.5, g+zq*seG),
				Level: opts.ConfLevel,
			},
		},
		N:          n,
		Metadata:   map[string]interface{}{"discordant_b": b, "discordant_c": c},
		ComputedAt: core.Now(),
	}, nil
}

// pearsonChiSquare computes the statistic from a counts matrix.
func pearsonChiSquare(counts [][]float64) (float64, error) {
	rowSums := make([]float64, len(counts))
	colSums := make([]float64, len(counts[0]))
	total := 0.0
	for i, row := range counts {
		for j, c := range row {
			rowSums[i] += c
			colSums[j] += c
			total += c
		}
	}
	if total == 0 {
		return 0, core.NewInsufficientDataError(1, 0)
	}

	chi2 := 0.0
	for i, row := range counts {
		for j, c := range row {
			expected := rowSums[i] * colSums[j] / total
			if expected == 0 {
				continue
			}
			chi2 += (c - expected) * (c - expected) / expected
		}
	}
	return chi2, nil
}

func cramersV(chi2 float64, n, rows, cols int, biasCorrect bool) float64 {
	nf := float64(n)
	if !biasCorrect {
		return math.Sqrt(chi2 / (nf * float64(min(rows, cols)-1)))
	}

	// Bergsma bias correction.
	phi2 := math.Max(0, chi2/nf-float64((rows-1)*(cols-1))/(nf-1))
	rc := float64(rows) - float64((rows-1)*(rows-1))/(nf-1)
	cc := float64(cols) - float64((cols-1)*(cols-1))/(nf-1)
	denom := math.Min(rc-1, cc-1)
	if denom <= 0 {
		return 0
	}
	return math.Sqrt(phi2 / denom)
}

// crossCounts tabulates paired labels. Both axes are indexed by sorted
// label order so cell positions do not depend on observation order; McNemar
// relies on the off-diagonal cells being the discordant ones.
func crossCounts(xs, ys []string) (counts [][]float64, rows, cols int) {
	xIdx := labelIndex(xs)
	yIdx := labelIndex(ys)

	counts = make([][]float64, len(xIdx))
	for i := range counts {
		counts[i] = make([]float64, len(yIdx))
	}
	for i := range xs {
		counts[xIdx[xs[i]]][yIdx[ys[i]]]++
	}
	return counts, len(xIdx), len(yIdx)
}

func labelIndex(labels []string) map[string]int {
	seen := make(map[string]bool, len(labels))
	uniq := make([]string, 0, 4)
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			uniq = append(uniq, l)
		}
	}
	sort.Strings(uniq)
	idx := make(map[string]int, len(uniq))
	for i, l := range uniq {
		idx[l] = i
	}
	return idx
}

func completeLabelPairs(xs, ys []string) ([]string, []string) {
	cx := make([]string, 0, len(xs))
	cy := make([]string, 0, len(ys))
	for i := range xs {
		if i >= len(ys) || xs[i] == "" || ys[i] == "" {
			continue
		}
		cx = append(cx, xs[i])
		cy = append(cy, ys[i])
	}
	return cx, cy
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
