package etl

import (
	"time"

	"github.com/piivault/piivault/internal/core"
)

// DataRecord represents a single record from the input dataset
type DataRecord struct {
	Text   string `csv:"text" parquet:"text" json:"text"`
	Source string `csv:"source" parquet:"source" json:"source"`
}

// OutputRecord is one anonymized record. The entities map travels with the
// record so each line of output is independently reversible.
type OutputRecord struct {
	Text        string            `json:"text"`
	Source      string            `json:"source,omitempty"`
	EntitiesMap *core.EntitiesMap `json:"entities_map"`
	EntityCount int               `json:"entity_count"`
}

// ProcessingResult represents the result of processing a dataset
type ProcessingResult struct {
	TotalRecords    int64         `json:"total_records"`
	ProcessedOK     int64         `json:"processed_ok"`
	ProcessedFailed int64         `json:"processed_failed"`
	EntitiesFound   int64         `json:"entities_found"`
	Duration        time.Duration `json:"duration"`
	AnalysisTime    time.Duration `json:"analysis_time"`
	WriteTime       time.Duration `json:"write_time"`
	Errors          []string      `json:"errors,omitempty"`
}

// Config contains ETL pipeline configuration
type Config struct {
	BatchSize      int  `yaml:"batch_size" mapstructure:"batch_size"`           // 1000
	WorkerCount    int  `yaml:"worker_count" mapstructure:"worker_count"`       // 4
	ValidateData   bool `yaml:"validate_data" mapstructure:"validate_data"`     // true
	MaxTextLength  int  `yaml:"max_text_length" mapstructure:"max_text_length"` // 100000
	ProgressReport int  `yaml:"progress_report" mapstructure:"progress_report"` // 1000
	FailFast       bool `yaml:"fail_fast" mapstructure:"fail_fast"`             // false
}

// DefaultConfig returns the documented pipeline defaults
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      1000,
		WorkerCount:    4,
		ValidateData:   true,
		MaxTextLength:  100000,
		ProgressReport: 1000,
	}
}

// ProcessingStats tracks real-time processing statistics
type ProcessingStats struct {
	StartTime      time.Time `json:"start_time"`
	RecordsRead    int64     `json:"records_read"`
	RecordsValid   int64     `json:"records_valid"`
	RecordsInvalid int64     `json:"records_invalid"`
	CurrentBatch   int64     `json:"current_batch"`
	ProcessingRate float64   `json:"processing_rate"` // records per second
}

// FileFormat represents supported file formats
type FileFormat string

const (
	FormatCSV     FileFormat = "csv"
	FormatParquet FileFormat = "parquet"
	FormatJSON    FileFormat = "json"
)

// DetectFileFormat detects file format from extension
func DetectFileFormat(filename string) FileFormat {
	switch {
	case len(filename) >= 4 && filename[len(filename)-4:] == ".csv":
		return FormatCSV
	case len(filename) >= 8 && filename[len(filename)-8:] == ".parquet":
		return FormatParquet
	case len(filename) >= 5 && filename[len(filename)-5:] == ".json":
		return FormatJSON
	case len(filename) >= 6 && filename[len(filename)-6:] == ".jsonl":
		return FormatJSON
	default:
		return FormatCSV // Default to CSV
	}
}
