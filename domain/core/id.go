package core

// VariableKey names a dataset column. Analysis requests and results refer
// to columns through this type rather than raw strings.
type VariableKey string

// String returns the string representation
func (k VariableKey) String() string {
	return string(k)
}
