package dataset

import (
	"strconv"
	"strings"
	"time"
)

// StatisticalType defines variable types for analysis
type StatisticalType string

const (
	TypeNumeric     StatisticalType = "numeric"
	TypeCategorical StatisticalType = "categorical"
	TypeBinary      StatisticalType = "binary"
	TypeTimestamp   StatisticalType = "timestamp"
	TypeText        StatisticalType = "text"
	TypeUnknown     StatisticalType = "unknown"
)

// Inference thresholds. A column is typed numeric/timestamp when this share
// of its non-missing cells parses as such.
const (
	numericThreshold   = 0.8
	timestampThreshold = 0.8
	maxCategoryRatio   = 0.5
	maxCategories      = 100
)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
}

// InferType determines the statistical type of a column from its raw cells.
func InferType(raw []string) StatisticalType {
	var observed, numeric, timestamps int
	unique := make(map[string]bool)

	for _, cell := range raw {
		label := normalizeLabel(cell)
		if label == "" {
			continue
		}
		observed++
		unique[label] = true
		if _, ok := parseNumeric(cell); ok {
			numeric++
		}
		if isTimestamp(cell) {
			timestamps++
		}
	}

	if observed == 0 {
		return TypeUnknown
	}

	if float64(numeric)/float64(observed) >= numericThreshold {
		if len(unique) == 2 {
			return TypeBinary
		}
		return TypeNumeric
	}
	if float64(timestamps)/float64(observed) >= timestampThreshold {
		return TypeTimestamp
	}
	if len(unique) == 2 {
		return TypeBinary
	}
	if len(unique) <= maxCategories && float64(len(unique))/float64(observed) <= maxCategoryRatio {
		return TypeCategorical
	}
	return TypeText
}

// parseNumeric parses a cell as a float, tolerating surrounding whitespace,
// thousands separators and a leading currency sign.
func parseNumeric(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isTimestamp(cell string) bool {
	s := strings.TrimSpace(cell)
	if s == "" {
		return false
	}
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func normalizeLabel(cell string) string {
	s := strings.TrimSpace(cell)
	switch strings.ToLower(s) {
	case "na", "n/a", "null", "nan":
		return ""
	}
	return s
}
