package dataset

import (
	"math"
	"sort"

	"statviz/domain/core"
)

// Column holds one variable: the raw cells plus the inferred statistical type.
// An empty cell is a missing observation.
type Column struct {
	Key  core.VariableKey `json:"key"`
	Type StatisticalType  `json:"type"`
	Raw  []string         `json:"raw"`
}

// Table is a column-oriented data table: rows are observations, columns are
// variables. Construction infers a StatisticalType per column.
type Table struct {
	Name    string
	columns []Column
	index   map[core.VariableKey]int
	rows    int
}

// NewTable builds a table from a header row and string cell rows. Ragged rows
// are padded with missing cells.
func NewTable(name string, header []string, rows [][]string) *Table {
	t := &Table{
		Name:    name,
		columns: make([]Column, len(header)),
		index:   make(map[core.VariableKey]int, len(header)),
		rows:    len(rows),
	}

	for c, h := range header {
		raw := make([]string, len(rows))
		for r, row := range rows {
			if c < len(row) {
				raw[r] = row[c]
			}
		}
		key := core.VariableKey(h)
		t.columns[c] = Column{Key: key, Type: InferType(raw), Raw: raw}
		t.index[key] = c
	}
	return t
}

// FromColumns builds a table from pre-typed columns. All columns must have
// the same length.
func FromColumns(name string, cols []Column) (*Table, error) {
	t := &Table{
		Name:    name,
		columns: cols,
		index:   make(map[core.VariableKey]int, len(cols)),
	}
	for i, col := range cols {
		if i == 0 {
			t.rows = len(col.Raw)
		} else if len(col.Raw) != t.rows {
			return nil, core.ErrLengthMismatch
		}
		t.index[col.Key] = i
	}
	return t, nil
}

// Rows returns the observation count.
func (t *Table) Rows() int { return t.rows }

// Keys returns the variable keys in column order.
func (t *Table) Keys() []core.VariableKey {
	keys := make([]core.VariableKey, len(t.columns))
	for i, col := range t.columns {
		keys[i] = col.Key
	}
	return keys
}

// Column returns the column for a variable key.
func (t *Table) Column(key core.VariableKey) (Column, error) {
	idx, ok := t.index[key]
	if !ok {
		return Column{}, core.NewColumnNotFoundError(key.String())
	}
	return t.columns[idx], nil
}

// NumericColumn extracts a numeric column as float64 values, NaN for missing
// or unparseable cells.
func (t *Table) NumericColumn(key core.VariableKey) ([]float64, error) {
	col, err := t.Column(key)
	if err != nil {
		return nil, err
	}
	if col.Type != TypeNumeric && col.Type != TypeBinary {
		return nil, core.NewNotNumericError(key.String())
	}

	values := make([]float64, len(col.Raw))
	for i, cell := range col.Raw {
		v, ok := parseNumeric(cell)
		if !ok {
			v = math.NaN()
		}
		values[i] = v
	}
	return values, nil
}

// FactorColumn extracts a column as factor labels, "" for missing cells.
// Numeric columns are allowed: their values become labels, matching the
// common case of integer-coded groups.
func (t *Table) FactorColumn(key core.VariableKey) ([]string, error) {
	col, err := t.Column(key)
	if err != nil {
		return nil, err
	}
	labels := make([]string, len(col.Raw))
	for i, cell := range col.Raw {
		labels[i] = normalizeLabel(cell)
	}
	return labels, nil
}

// Levels returns the distinct non-missing labels of a factor column, sorted.
func (t *Table) Levels(key core.VariableKey) ([]string, error) {
	labels, err := t.FactorColumn(key)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	levels := make([]string, 0, 8)
	for _, l := range labels {
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		levels = append(levels, l)
	}
	sort.Strings(levels)
	return levels, nil
}

// CompleteCases filters two numeric columns down to rows where both are
// observed. Returned slices are index-aligned.
func (t *Table) CompleteCases(xKey, yKey core.VariableKey) (x, y []float64, err error) {
	xs, err := t.NumericColumn(xKey)
	if err != nil {
		return nil, nil, err
	}
	ys, err := t.NumericColumn(yKey)
	if err != nil {
		return nil, nil, err
	}

	x = make([]float64, 0, len(xs))
	y = make([]float64, 0, len(ys))
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		x = append(x, xs[i])
		y = append(y, ys[i])
	}
	return x, y, nil
}

// SplitByFactor splits a numeric column into per-level groups of a factor
// column, dropping missing observations on either side. Levels are returned
// in sorted order alongside the groups.
func (t *Table) SplitByFactor(factorKey, valueKey core.VariableKey) ([]string, [][]float64, error) {
	labels, err := t.FactorColumn(factorKey)
	if err != nil {
		return nil, nil, err
	}
	values, err := t.NumericColumn(valueKey)
	if err != nil {
		return nil, nil, err
	}
	if len(labels) != len(values) {
		return nil, nil, core.ErrLengthMismatch
	}

	byLevel := make(map[string][]float64)
	for i, label := range labels {
		if label == "" || math.IsNaN(values[i]) {
			continue
		}
		byLevel[label] = append(byLevel[label], values[i])
	}

	levels := make([]string, 0, len(byLevel))
	for level := range byLevel {
		levels = append(levels, level)
	}
	sort.Strings(levels)

	groups := make([][]float64, len(levels))
	for i, level := range levels {
		groups[i] = byLevel[level]
	}
	return levels, groups, nil
}

// Subset returns a new table containing only rows where the factor column
// equals the given level. Column types are preserved.
func (t *Table) Subset(factorKey core.VariableKey, level string) (*Table, error) {
	labels, err := t.FactorColumn(factorKey)
	if err != nil {
		return nil, err
	}

	keep := make([]int, 0, len(labels))
	for i, label := range labels {
		if label == level {
			keep = append(keep, i)
		}
	}

	cols := make([]Column, len(t.columns))
	for c, col := range t.columns {
		raw := make([]string, len(keep))
		for j, r := range keep {
			raw[j] = col.Raw[r]
		}
		cols[c] = Column{Key: col.Key, Type: col.Type, Raw: raw}
	}
	return FromColumns(t.Name, cols)
}

// CrossTab builds a contingency table of two factor columns: counts[i][j] is
// the number of rows with xLevels[i] and yLevels[j], missing rows dropped.
func (t *Table) CrossTab(xKey, yKey core.VariableKey) (xLevels, yLevels []string, counts [][]float64, err error) {
	xs, err := t.FactorColumn(xKey)
	if err != nil {
		return nil, nil, nil, err
	}
	ys, err := t.FactorColumn(yKey)
	if err != nil {
		return nil, nil, nil, err
	}

	xIdx := make(map[string]int)
	yIdx := make(map[string]int)
	type cell struct{ x, y string }
	cells := make(map[cell]float64)
	for i := range xs {
		if xs[i] == "" || ys[i] == "" {
			continue
		}
		if _, ok := xIdx[xs[i]]; !ok {
			xIdx[xs[i]] = 0
			xLevels = append(xLevels, xs[i])
		}
		if _, ok := yIdx[ys[i]]; !ok {
			yIdx[ys[i]] = 0
			yLevels = append(yLevels, ys[i])
		}
		cells[cell{xs[i], ys[i]}]++
	}

	sort.Strings(xLevels)
	sort.Strings(yLevels)
	for i, l := range xLevels {
		xIdx[l] = i
	}
	for j, l := range yLevels {
		yIdx[l] = j
	}

	counts = make([][]float64, len(xLevels))
	for i := range counts {
		counts[i] = make([]float64, len(yLevels))
	}
	for c, n := range cells {
		counts[xIdx[c.x]][yIdx[c.y]] = n
	}
	return xLevels, yLevels, counts, nil
}
