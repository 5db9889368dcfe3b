package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"

	"statviz/domain/dataset"
)

// GeneratorConfig configures the synthetic dataset generator
type GeneratorConfig struct {
	RowCount    int     `json:"row_count"`
	GroupShift  float64 `json:"group_shift"`
	Correlation float64 `json:"correlation"`
	LevelCount  int     `json:"level_count"`
	MissingRate float64 `json:"missing_rate"`
	Seed        int64   `json:"seed"`
	DatasetName string  `json:"dataset_name"`
}

// DefaultConfig returns sensible defaults for synthetic data generation
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		RowCount:    120,
		GroupShift:  0.8,
		Correlation: 0.6,
		LevelCount:  3,
		MissingRate: 0.0,
		Seed:        42,
		DatasetName: "synthetic",
	}
}

// DataGenerator produces synthetic tables with known statistical structure.
// Two-group columns carry a fixed standardized mean shift, the numeric pair
// carries a fixed population correlation, and the categorical pair is built
// with unequal cell probabilities so independence tests have signal.
type DataGenerator struct {
	config GeneratorConfig
	rng    *rand.Rand
}

// NewDataGenerator creates a new synthetic data generator
func NewDataGenerator(config GeneratorConfig) *DataGenerator {
	return &DataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds the full synthetic table. Columns:
//
//	group      two-level factor ("control", "treatment")
//	outcome    numeric, mean shifted by GroupShift for "treatment"
//	x, y       numeric pair with population correlation Correlation
//	condition  k-level factor with per-level mean offsets on outcome_k
//	outcome_k  numeric, driven by condition
//	segment    categorical, dependent on group
//	noise      numeric, independent of everything
func (g *DataGenerator) Generate() (*dataset.Table, error) {
	if g.config.RowCount < 4 {
		return nil, fmt.Errorf("row count %d too small for synthetic design", g.config.RowCount)
	}
	if g.config.LevelCount < 2 {
		return nil, fmt.Errorf("level count must be at least 2, got %d", g.config.LevelCount)
	}

	n := g.config.RowCount
	header := []string{"group", "outcome", "x", "y", "condition", "outcome_k", "segment", "noise"}
	rows := make([][]string, 0, n)

	for i := 0; i < n; i++ {
		group := "control"
		shift := 0.0
		if i%2 == 1 {
			group = "treatment"
			shift = g.config.GroupShift
		}
		outcome := g.rng.NormFloat64() + shift

		x, y := g.correlatedPair()

		level := i % g.config.LevelCount
		condition := fmt.Sprintf("cond_%d", level+1)
		outcomeK := g.rng.NormFloat64() + float64(level)*0.5

		segment := g.dependentSegment(group)
		noise := g.rng.Float64() * 100

		rows = append(rows, []string{
			group,
			g.formatValue(outcome),
			g.formatValue(x),
			g.formatValue(y),
			condition,
			g.formatValue(outcomeK),
			segment,
			g.formatValue(noise),
		})
	}

	return dataset.NewTable(g.config.DatasetName, header, rows), nil
}

// TwoGroups generates just the paired slices for a two-sample design,
// without going through a table. Useful for unit tests of the test
// statistics themselves.
func (g *DataGenerator) TwoGroups(nPerGroup int) (control, treatment []float64) {
	control = make([]float64, nPerGroup)
	treatment = make([]float64, nPerGroup)
	for i := 0; i < nPerGroup; i++ {
		control[i] = g.rng.NormFloat64()
		treatment[i] = g.rng.NormFloat64() + g.config.GroupShift
	}
	return control, treatment
}

// CorrelatedSeries generates a numeric pair with the configured
// population correlation.
func (g *DataGenerator) CorrelatedSeries(n int) (xs, ys []float64) {
	xs = make([]float64, n)
	ys = make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i], ys[i] = g.correlatedPair()
	}
	return xs, ys
}

func (g *DataGenerator) correlatedPair() (float64, float64) {
	rho := g.config.Correlation
	z1 := g.rng.NormFloat64()
	z2 := g.rng.NormFloat64()
	x := z1
	y := rho*z1 + math.Sqrt(1-rho*rho)*z2
	return x, y
}

// dependentSegment draws a segment label whose distribution depends on
// the group, so group x segment tables depart from independence.
func (g *DataGenerator) dependentSegment(group string) string {
	p := g.rng.Float64()
	if group == "treatment" {
		switch {
		case p < 0.5:
			return "premium"
		case p < 0.8:
			return "standard"
		default:
			return "basic"
		}
	}
	switch {
	case p < 0.2:
		return "premium"
	case p < 0.5:
		return "standard"
	default:
		return "basic"
	}
}

func (g *DataGenerator) formatValue(v float64) string {
	if g.config.MissingRate > 0 && g.rng.Float64() < g.config.MissingRate {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
