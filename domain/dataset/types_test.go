package dataset

import "testing"

func TestInferType(t *testing.T) {
	cases := []struct {
		name string
		raw  []string
		want StatisticalType
	}{
		{"numeric", []string{"1.5", "2.0", "3.5", "4.0", "5.5"}, TypeNumeric},
		{"numeric with missing", []string{"1", "NA", "3", "", "5"}, TypeNumeric},
		{"currency", []string{"$1,200.50", "$980.00", "$1,450.25", "$2,000"}, TypeNumeric},
		{"binary labels", []string{"yes", "no", "yes", "no"}, TypeBinary},
		{"binary numeric", []string{"0", "1", "0", "1", "1"}, TypeBinary},
		{"categorical", []string{"a", "b", "c", "a", "b", "c", "a", "b"}, TypeCategorical},
		{"timestamps", []string{"2024-01-15", "2024-02-20", "2024-03-25"}, TypeTimestamp},
		{"all missing", []string{"", "NA", "null", "n/a"}, TypeUnknown},
		{"free text", []string{"one remark", "another note", "third comment", "fourth line"}, TypeText},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := InferType(tc.raw); got != tc.want {
				t.Errorf("InferType(%v) = %s, expected %s", tc.raw, got, tc.want)
			}
		})
	}
}

func TestParseNumeric(t *testing.T) {
	cases := []struct {
		cell string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{" 3.14 ", 3.14, true},
		{"$1,234.56", 1234.56, true},
		{"-7.5", -7.5, true},
		{"abc", 0, false},
		{"", 0, false},
	}

	for _, tc := range cases {
		v, ok := parseNumeric(tc.cell)
		if ok != tc.ok {
			t.Errorf("parseNumeric(%q) ok = %v, expected %v", tc.cell, ok, tc.ok)
			continue
		}
		if ok && v != tc.want {
			t.Errorf("parseNumeric(%q) = %v, expected %v", tc.cell, v, tc.want)
		}
	}
}

func TestNormalizeLabel(t *testing.T) {
	cases := map[string]string{
		"  premium  ": "premium",
		"NA":          "",
		"n/a":         "",
		"NULL":        "",
		"NaN":         "",
		"valid":       "valid",
	}
	for in, want := range cases {
		if got := normalizeLabel(in); got != want {
			t.Errorf("normalizeLabel(%q) = %q, expected %q", in, got, want)
		}
	}
}
