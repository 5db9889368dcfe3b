// Package excel reads CSV and Excel files into typed tables.
package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"statviz/domain/dataset"
	"statviz/internal/errors"
	"statviz/ports"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	sheet    string
	fileType string // "xlsx" or "csv"
}

var _ ports.DatasetReader = (*DataReader)(nil)

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, sheet: "Sheet1", fileType: fileType}
}

// WithSheet selects the worksheet read from an Excel file.
func (r *DataReader) WithSheet(sheet string) *DataReader {
	r.sheet = sheet
	return r
}

// Read loads the file into a typed table.
func (r *DataReader) Read() (*dataset.Table, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.IngestError(fmt.Sprintf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath), err)
	}

	switch r.fileType {
	case "csv":
		return r.readCSV()
	default:
		return r.readExcel()
	}
}

func (r *DataReader) readExcel() (*dataset.Table, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.IngestError("failed to open Excel file", err)
	}
	defer f.Close()

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, errors.IngestError(fmt.Sprintf("failed to read sheet %q", r.sheet), err)
	}
	return r.buildTable(rows)
}

func (r *DataReader) readCSV() (*dataset.Table, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.IngestError("failed to open CSV file", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // tolerate ragged rows, Table pads them
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.IngestError("failed to parse CSV", err)
	}
	return r.buildTable(rows)
}

func (r *DataReader) buildTable(rows [][]string) (*dataset.Table, error) {
	if len(rows) < 2 {
		return nil, errors.IngestError("file must have a header row and at least one data row", nil)
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		header[i] = h
	}

	name := strings.TrimSuffix(filepath.Base(r.filePath), filepath.Ext(r.filePath))
	return dataset.NewTable(name, header, rows[1:]), nil
}
