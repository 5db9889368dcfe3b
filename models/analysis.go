package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AnalysisStatus represents the lifecycle of a stored analysis run
type AnalysisStatus string

const (
	AnalysisStatusComplete AnalysisStatus = "complete"
	AnalysisStatusSkipped  AnalysisStatus = "skipped"
	AnalysisStatusFailed   AnalysisStatus = "failed"
)

// AnalysisRecord is one persisted analysis run: which entry point ran over
// which dataset with which options, and the full serialized result.
type AnalysisRecord struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	DatasetName string          `json:"dataset_name" db:"dataset_name"`
	EntryPoint  string          `json:"entry_point" db:"entry_point"`
	Options     json.RawMessage `json:"options" db:"options"`
	Result      json.RawMessage `json:"result" db:"result"`
	Subtitle    string          `json:"subtitle" db:"subtitle"`
	Status      AnalysisStatus  `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// NewAnalysisRecord creates a record with a fresh ID and timestamp.
func NewAnalysisRecord(datasetName, entryPoint string) *AnalysisRecord {
	return &AnalysisRecord{
		ID:          uuid.New(),
		DatasetName: datasetName,
		EntryPoint:  entryPoint,
		Status:      AnalysisStatusComplete,
		CreatedAt:   time.Now(),
	}
}
