package infer

import (
	"math/rand"

	"statviz/domain/stats"
)

// bootstrapOneSample computes a percentile CI for a statistic of one sample.
// Replicates are drawn with a seeded source so results are reproducible.
func bootstrapOneSample(data []float64, opts stats.Options, statistic func([]float64) float64) (lower, upper float64) {
	if opts.Bootstrap <= 0 || len(data) == 0 {
		v := statistic(data)
		return v, v
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	replicates := make([]float64, opts.Bootstrap)
	sample := make([]float64, len(data))

	for b := 0; b < opts.Bootstrap; b++ {
		for i := range sample {
			sample[i] = data[rng.Intn(len(data))]
		}
		replicates[b] = statistic(sample)
	}

	return NewDistributions().BootstrapCI(replicates, opts.ConfLevel)
}

// bootstrapTwoSample resamples both groups independently.
func bootstrapTwoSample(g1, g2 []float64, opts stats.Options, statistic func(a, b []float64) float64) (lower, upper float64) {
	if opts.Bootstrap <= 0 || len(g1) == 0 || len(g2) == 0 {
		v := statistic(g1, g2)
		return v, v
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	replicates := make([]float64, opts.Bootstrap)
	s1 := make([]float64, len(g1))
	s2 := make([]float64, len(g2))

	for b := 0; b < opts.Bootstrap; b++ {
		for i := range s1 {
			s1[i] = g1[rng.Intn(len(g1))]
		}
		for i := range s2 {
			s2[i] = g2[rng.Intn(len(g2))]
		}
		replicates[b] = statistic(s1, s2)
	}

	return NewDistributions().BootstrapCI(replicates, opts.ConfLevel)
}

// bootstrapPairs resamples paired label observations, for contingency effect
// size intervals.
func bootstrapPairs(xs, ys []string, opts stats.Options, statistic func(x, y []string) float64) (lower, upper float64) {
	if opts.Bootstrap <= 0 || len(xs) == 0 {
		v := statistic(xs, ys)
		return v, v
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	replicates := make([]float64, 0, opts.Bootstrap)
	sx := make([]string, len(xs))
	sy := make([]string, len(ys))

	for b := 0; b < opts.Bootstrap; b++ {
		for i := range sx {
			j := rng.Intn(len(xs))
			sx[i] = xs[j]
			sy[i] = ys[j]
		}
		replicates = append(replicates, statistic(sx, sy))
	}

	return NewDistributions().BootstrapCI(replicates, opts.ConfLevel)
}
