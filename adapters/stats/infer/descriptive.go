package infer

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// Moments bundles the descriptive statistics the tests and subtitles need.
type Moments struct {
	N      int
	Mean   float64
	StdDev float64
	Var    float64
	Median float64
}

// Describe computes sample moments for one column, ignoring NaNs.
func Describe(data []float64) Moments {
	clean := dropNaN(data)
	if len(clean) == 0 {
		return Moments{}
	}

	mean, _ := stats.Mean(clean)
	sd, _ := stats.StandardDeviationSample(clean)
	median, _ := stats.Median(clean)

	return Moments{
		N:      len(clean),
		Mean:   mean,
		StdDev: sd,
		Var:    sd * sd,
		Median: median,
	}
}

func dropNaN(data []float64) []float64 {
	clean := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	return clean
}

// trimCount returns the number of observations cut from each tail.
func trimCount(n int, trim float64) int {
	return int(math.Floor(trim * float64(n)))
}

// TrimmedMean computes the mean after removing the trim fraction from each
// tail.
func TrimmedMean(data []float64, trim float64) float64 {
	clean := dropNaN(data)
	sort.Float64s(clean)
	g := trimCount(len(clean), trim)
	kept := clean[g : len(clean)-g]
	if len(kept) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range kept {
		sum += v
	}
	return sum / float64(len(kept))
}

// WinsorizedVariance computes the sample variance after clamping each tail
// to the trim boundary values.
func WinsorizedVariance(data []float64, trim float64) float64 {
	clean := dropNaN(data)
	sort.Float64s(clean)
	n := len(clean)
	if n < 2 {
		return 0
	}
	g := trimCount(n, trim)

	w := make([]float64, n)
	copy(w, clean)
	for i := 0; i < g; i++ {
		w[i] = clean[g]
		w[n-1-i] = clean[n-1-g]
	}

	mean := 0.0
	for _, v := range w {
		mean += v
	}
	mean /= float64(n)

	sumSq := 0.0
	for _, v := range w {
		d := v - mean
		sumSq += d * d
	}
	return sumSq / float64(n-1)
}

// Winsorize clamps each tail of the data to the trim boundary values,
// preserving the original ordering.
func Winsorize(data []float64, trim float64) []float64 {
	clean := dropNaN(data)
	n := len(clean)
	if n == 0 {
		return clean
	}

	sorted := make([]float64, n)
	copy(sorted, clean)
	sort.Float64s(sorted)
	g := trimCount(n, trim)
	lo := sorted[g]
	hi := sorted[n-1-g]

	out := make([]float64, n)
	for i, v := range clean {
		switch {
		case v < lo:
			out[i] = lo
		case v > hi:
			out[i] = hi
		default:
			out[i] = v
		}
	}
	return out
}

// Ranks converts values to ranks, averaging over ties (midranks).
func Ranks(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return []float64{}
	}

	type pair struct {
		value float64
		index int
	}
	pairs := make([]pair, n)
	for i, v := range data {
		pairs[i] = pair{value: v, index: i}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].value < pairs[j].value })

	ranks := make([]float64, n)
	i := 0
	for i < n {
		j := i + 1
		for j < n && pairs[j].value == pairs[i].value {
			j++
		}
		avgRank := float64(i+1) + float64(j-i-1)/2.0
		for k := i; k < j; k++ {
			ranks[pairs[k].index] = avgRank
		}
		i = j
	}
	return ranks
}

// tieGroups returns the size of each tie group among the values.
func tieGroups(data []float64) []int {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	groups := []int{}
	i := 0
	for i < len(sorted) {
		j := i + 1
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		if j-i > 1 {
			groups = append(groups, j-i)
		}
		i = j
	}
	return groups
}
