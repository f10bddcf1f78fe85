package etl

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piivault/piivault/internal/anonymizer"
	"github.com/piivault/piivault/internal/config"
	"github.com/piivault/piivault/internal/deanon"
	"github.com/piivault/piivault/internal/logger"
)

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()

	cfg := config.GetDefaults()
	cfg.Processing.Seed = 42

	log, err := logger.New(logger.Config{Level: "error", Format: "console"})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	anon, err := anonymizer.New(cfg, log)
	if err != nil {
		t.Fatalf("Failed to create anonymizer: %v", err)
	}
	t.Cleanup(func() { anon.Close() })

	etlConfig := DefaultConfig()
	etlConfig.BatchSize = 10
	etlConfig.WorkerCount = 2
	return NewPipeline(anon, etlConfig, log.Logger)
}

func readOutput(t *testing.T, path string) []OutputRecord {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	defer f.Close()

	var records []OutputRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		var rec OutputRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("Invalid output line: %v", err)
		}
		records = append(records, rec)
	}
	return records
}

// TestProcessFileCSV tests the CSV ingestion path end to end
func TestProcessFileCSV(t *testing.T) {
	p := newTestPipeline(t)
	dir := t.TempDir()

	input := filepath.Join(dir, "dataset.csv")
	csvData := "text,source\n" +
		"\"Contact alice@corp.com today\",crm\n" +
		"\"Server at 192.168.1.100 is down\",ops\n" +
		"\"Nothing sensitive here\",notes\n" +
		",empty\n"
	if err := os.WriteFile(input, []byte(csvData), 0644); err != nil {
		t.Fatalf("Failed to write input: %v", err)
	}

	output := filepath.Join(dir, "out.jsonl")
	result, err := p.ProcessFile(context.Background(), input, output)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	if result.TotalRecords != 3 {
		t.Errorf("Expected 3 valid records, got %d", result.TotalRecords)
	}
	if result.ProcessedOK != 3 {
		t.Errorf("Expected 3 processed records, got %d", result.ProcessedOK)
	}
	if result.EntitiesFound == 0 {
		t.Error("Expected entities in the dataset")
	}

	records := readOutput(t, output)
	if len(records) != 3 {
		t.Fatalf("Expected 3 output records, got %d", len(records))
	}

	if strings.Contains(records[0].Text, "alice@corp.com") {
		t.Errorf("Original email leaked into output: %q", records[0].Text)
	}
	if records[0].Source != "crm" {
		t.Errorf("Source column lost: %q", records[0].Source)
	}

	// Each output line restores independently through its own map
	restored := deanon.Restore(records[0].Text, records[0].EntitiesMap)
	if restored.Text != "Contact alice@corp.com today" {
		t.Errorf("Round trip failed: %q", restored.Text)
	}

	if records[2].Text != "Nothing sensitive here" {
		t.Errorf("Clean record should pass through unchanged: %q", records[2].Text)
	}
}

// TestProcessFileJSON tests the JSON-lines ingestion path
func TestProcessFileJSON(t *testing.T) {
	p := newTestPipeline(t)
	dir := t.TempDir()

	input := filepath.Join(dir, "dataset.json")
	jsonData := `{"text":"Reach me at bob@example.org","source":"mail"}` + "\n" +
		`{"text":"Totally clean line"}` + "\n"
	if err := os.WriteFile(input, []byte(jsonData), 0644); err != nil {
		t.Fatalf("Failed to write input: %v", err)
	}

	output := filepath.Join(dir, "out.jsonl")
	result, err := p.ProcessFile(context.Background(), input, output)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if result.ProcessedOK != 2 {
		t.Errorf("Expected 2 processed records, got %d", result.ProcessedOK)
	}

	records := readOutput(t, output)
	if len(records) != 2 {
		t.Fatalf("Expected 2 output records, got %d", len(records))
	}
	if strings.Contains(records[0].Text, "bob@example.org") {
		t.Errorf("Original email leaked: %q", records[0].Text)
	}
}

// TestProcessFileCancelled tests context cancellation
func TestProcessFileCancelled(t *testing.T) {
	p := newTestPipeline(t)
	dir := t.TempDir()

	input := filepath.Join(dir, "dataset.csv")
	var sb strings.Builder
	sb.WriteString("text\n")
	for i := 0; i < 100; i++ {
		sb.WriteString("\"a line of text\"\n")
	}
	os.WriteFile(input, []byte(sb.String()), 0644)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ProcessFile(ctx, input, filepath.Join(dir, "out.jsonl"))
	if err == nil {
		t.Fatal("Expected error for cancelled context")
	}
}

// TestDetectFileFormat tests format detection from extensions
func TestDetectFileFormat(t *testing.T) {
	cases := map[string]FileFormat{
		"data.csv":     FormatCSV,
		"data.parquet": FormatParquet,
		"data.json":    FormatJSON,
		"data.jsonl":   FormatJSON,
		"data.txt":     FormatCSV,
	}
	for filename, want := range cases {
		if got := DetectFileFormat(filename); got != want {
			t.Errorf("DetectFileFormat(%q) = %s, want %s", filename, got, want)
		}
	}
}
