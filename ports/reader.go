package ports

import (
	"statviz/domain/dataset"
)

// DatasetReader loads tabular data into a typed table.
type DatasetReader interface {
	Read() (*dataset.Table, error)
}
