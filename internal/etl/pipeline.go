// Package etl anonymizes datasets in bulk. Input records are read from CSV,
// Parquet, or JSON-lines files; output is JSON lines where each record
// carries its anonymized text and its own entities map.
package etl

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/parquet-go"
	"go.uber.org/zap"

	"github.com/piivault/piivault/internal/anonymizer"
)

// Pipeline handles bulk anonymization of dataset files
type Pipeline struct {
	anonymizer *anonymizer.Anonymizer
	config     *Config
	logger     *zap.Logger
	stats      *ProcessingStats
	mu         sync.RWMutex
}

// NewPipeline creates a new ETL pipeline
func NewPipeline(anon *anonymizer.Anonymizer, config *Config, logger *zap.Logger) *Pipeline {
	if config == nil {
		config = DefaultConfig()
	}
	return &Pipeline{
		anonymizer: anon,
		config:     config,
		logger:     logger,
		stats: &ProcessingStats{
			StartTime: time.Now(),
		},
	}
}

// ProcessFile anonymizes a dataset file and writes JSON-lines output
func (p *Pipeline) ProcessFile(ctx context.Context, inputPath, outputPath string) (*ProcessingResult, error) {
	p.logger.Info("Starting ETL pipeline",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
		zap.Int("batch_size", p.config.BatchSize),
		zap.Int("workers", p.config.WorkerCount))

	start := time.Now()
	result := &ProcessingResult{}

	format := DetectFileFormat(inputPath)
	p.logger.Info("Detected file format", zap.String("format", string(format)))

	p.resetStats()

	out, err := os.Create(outputPath)
	if err != nil {
		return result, fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()
	writer := bufio.NewWriter(out)

	switch format {
	case FormatCSV:
		err = p.processCSV(ctx, inputPath, writer, result)
	case FormatParquet:
		err = p.processParquet(ctx, inputPath, writer, result)
	case FormatJSON:
		err = p.processJSON(ctx, inputPath, writer, result)
	default:
		return result, fmt.Errorf("unsupported file format: %s", format)
	}
	if err != nil {
		return result, fmt.Errorf("%s processing failed: %w", format, err)
	}

	if err := writer.Flush(); err != nil {
		return result, fmt.Errorf("failed to flush output: %w", err)
	}

	result.Duration = time.Since(start)

	p.logger.Info("ETL pipeline completed",
		zap.Int64("total_records", result.TotalRecords),
		zap.Int64("processed_ok", result.ProcessedOK),
		zap.Int64("processed_failed", result.ProcessedFailed),
		zap.Int64("entities_found", result.EntitiesFound),
		zap.Duration("total_duration", result.Duration),
		zap.Duration("analysis_time", result.AnalysisTime))

	return result, nil
}

// processCSV processes CSV files with a text column and optional source column
func (p *Pipeline) processCSV(ctx context.Context, filePath string, writer *bufio.Writer, result *ProcessingResult) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	textCol, sourceCol := columnIndexes(header)
	if textCol < 0 {
		return fmt.Errorf("CSV header has no text column: %v", header)
	}
	p.logger.Info("CSV header detected", zap.Strings("columns", header))

	return p.processBatches(ctx, func() ([]*DataRecord, error) {
		var batch []*DataRecord

		for len(batch) < p.config.BatchSize {
			record, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				p.logger.Warn("Failed to read CSV record", zap.Error(err))
				continue
			}
			if textCol >= len(record) {
				p.logger.Warn("Invalid CSV record length", zap.Int("length", len(record)))
				continue
			}

			dataRecord := &DataRecord{Text: strings.TrimSpace(record[textCol])}
			if sourceCol >= 0 && sourceCol < len(record) {
				dataRecord.Source = strings.TrimSpace(record[sourceCol])
			}

			if p.validateRecord(dataRecord) {
				batch = append(batch, dataRecord)
			}
		}

		return batch, nil
	}, writer, result)
}

// processParquet processes Parquet files
func (p *Pipeline) processParquet(ctx context.Context, filePath string, writer *bufio.Writer, result *ProcessingResult) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open Parquet file: %w", err)
	}
	defer file.Close()

	reader := parquet.NewReader(file)
	defer reader.Close()

	return p.processBatches(ctx, func() ([]*DataRecord, error) {
		var batch []*DataRecord

		for len(batch) < p.config.BatchSize {
			var record DataRecord
			err := reader.Read(&record)
			if err == io.EOF {
				break
			}
			if err != nil {
				p.logger.Warn("Failed to read Parquet record", zap.Error(err))
				continue
			}

			if p.validateRecord(&record) {
				batch = append(batch, &record)
			}
		}

		return batch, nil
	}, writer, result)
}

// processJSON processes JSON files (one JSON object per line)
func (p *Pipeline) processJSON(ctx context.Context, filePath string, writer *bufio.Writer, result *ProcessingResult) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open JSON file: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)

	return p.processBatches(ctx, func() ([]*DataRecord, error) {
		var batch []*DataRecord

		for len(batch) < p.config.BatchSize {
			var record DataRecord
			err := decoder.Decode(&record)
			if err == io.EOF {
				break
			}
			if err != nil {
				p.logger.Warn("Failed to read JSON record", zap.Error(err))
				continue
			}

			if p.validateRecord(&record) {
				batch = append(batch, &record)
			}
		}

		return batch, nil
	}, writer, result)
}

// processBatches reads, anonymizes, and writes batches until EOF
func (p *Pipeline) processBatches(ctx context.Context, readBatch func() ([]*DataRecord, error), writer *bufio.Writer, result *ProcessingResult) error {
	encoder := json.NewEncoder(writer)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		batch, err := readBatch()
		if err != nil {
			return fmt.Errorf("failed to read batch: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		outputs, err := p.anonymizeBatch(ctx, batch, result)
		if err != nil {
			if p.config.FailFast {
				return err
			}
			p.logger.Error("Batch processing failed", zap.Error(err))
			result.TotalRecords += int64(len(batch))
			result.ProcessedFailed += int64(len(batch))
			result.Errors = append(result.Errors, err.Error())
			continue
		}

		writeStart := time.Now()
		for _, output := range outputs {
			if err := encoder.Encode(output); err != nil {
				return fmt.Errorf("failed to write output record: %w", err)
			}
		}
		result.WriteTime += time.Since(writeStart)

		result.TotalRecords += int64(len(batch))
		result.ProcessedOK += int64(len(outputs))
		p.advanceStats()

		if p.config.ProgressReport > 0 && result.TotalRecords%int64(p.config.ProgressReport) == 0 {
			p.reportProgress(result)
		}
	}

	return nil
}

// anonymizeBatch runs the pipeline over one batch with bounded concurrency.
// Output order matches input order.
func (p *Pipeline) anonymizeBatch(ctx context.Context, batch []*DataRecord, result *ProcessingResult) ([]*OutputRecord, error) {
	analysisStart := time.Now()
	defer func() {
		result.AnalysisTime += time.Since(analysisStart)
	}()

	outputs := make([]*OutputRecord, len(batch))
	errs := make([]error, len(batch))

	sem := make(chan struct{}, p.config.WorkerCount)
	var wg sync.WaitGroup

	for i, record := range batch {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, record *DataRecord) {
			defer wg.Done()
			defer func() { <-sem }()

			res, err := p.anonymizer.AnonymizeText(ctx, record.Text)
			if err != nil {
				errs[i] = fmt.Errorf("record %d: %w", i, err)
				return
			}
			outputs[i] = &OutputRecord{
				Text:        res.AnonymizedData,
				Source:      record.Source,
				EntitiesMap: res.EntitiesMap,
				EntityCount: res.Metrics.EntityCount,
			}
		}(i, record)
	}
	wg.Wait()

	kept := outputs[:0]
	var entities int64
	for i, output := range outputs {
		if errs[i] != nil {
			if p.config.FailFast {
				return nil, errs[i]
			}
			p.logger.Warn("Record anonymization failed", zap.Error(errs[i]))
			result.ProcessedFailed++
			continue
		}
		entities += int64(output.EntityCount)
		kept = append(kept, output)
	}
	result.EntitiesFound += entities

	return kept, nil
}

// validateRecord validates a data record
func (p *Pipeline) validateRecord(record *DataRecord) bool {
	if !p.config.ValidateData {
		return true
	}

	if strings.TrimSpace(record.Text) == "" {
		p.logger.Debug("Invalid record: empty text")
		p.countInvalid()
		return false
	}

	if p.config.MaxTextLength > 0 && len(record.Text) > p.config.MaxTextLength {
		p.logger.Debug("Invalid record: text too long", zap.Int("length", len(record.Text)))
		p.countInvalid()
		return false
	}

	p.countValid()
	return true
}

// reportProgress reports current processing progress
func (p *Pipeline) reportProgress(result *ProcessingResult) {
	elapsed := time.Since(p.stats.StartTime)
	rate := float64(result.TotalRecords) / elapsed.Seconds()

	p.logger.Info("Processing progress",
		zap.Int64("records_processed", result.TotalRecords),
		zap.Int64("records_ok", result.ProcessedOK),
		zap.Int64("records_failed", result.ProcessedFailed),
		zap.Int64("entities_found", result.EntitiesFound),
		zap.Float64("rate_per_sec", rate),
		zap.Duration("elapsed", elapsed))
}

func (p *Pipeline) resetStats() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats = &ProcessingStats{StartTime: time.Now()}
}

func (p *Pipeline) countValid() {
	p.mu.Lock()
	p.stats.RecordsRead++
	p.stats.RecordsValid++
	p.mu.Unlock()
}

func (p *Pipeline) countInvalid() {
	p.mu.Lock()
	p.stats.RecordsRead++
	p.stats.RecordsInvalid++
	p.mu.Unlock()
}

func (p *Pipeline) advanceStats() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.CurrentBatch++
	elapsed := time.Since(p.stats.StartTime).Seconds()
	if elapsed > 0 {
		p.stats.ProcessingRate = float64(p.stats.RecordsValid) / elapsed
	}
}

// GetStats returns current processing statistics
func (p *Pipeline) GetStats() *ProcessingStats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	stats := *p.stats
	return &stats
}

// columnIndexes finds the text and source column positions in a CSV header
func columnIndexes(header []string) (textCol, sourceCol int) {
	textCol, sourceCol = -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "text":
			textCol = i
		case "source":
			sourceCol = i
		}
	}
	return textCol, sourceCol
}
