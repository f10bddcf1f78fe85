package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/piivault/piivault/internal/anonymizer"
	"github.com/piivault/piivault/internal/config"
	"github.com/piivault/piivault/internal/core"
	"github.com/piivault/piivault/internal/etl"
	"github.com/piivault/piivault/internal/logger"
)

func main() {
	var (
		configPath = flag.String("config", "", "Configuration file path")
		inputFile  = flag.String("input", "", "Input dataset file (CSV, Parquet, or JSON lines)")
		outputFile = flag.String("output", "", "Output file path (defaults to <input>.anonymized.jsonl)")
		language   = flag.String("language", "", "Override processing language (en or de)")
		batchSize  = flag.Int("batch-size", 1000, "Batch size for processing")
		workers    = flag.Int("workers", 4, "Number of worker goroutines")
		failFast   = flag.Bool("fail-fast", false, "Abort on the first record failure")
	)
	flag.Parse()

	if *inputFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --input dataset.csv --batch-size 500\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --input dataset.parquet --workers 8 --language de\n", os.Args[0])
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *language != "" {
		cfg.Processing.Language = *language
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting PIIVault ETL pipeline",
		zap.String("version", "0.1.0"),
		zap.String("input", *inputFile))

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, cancelling operations...")
		cancel()
	}()

	anon, err := anonymizer.New(cfg, log.WithComponent("anonymizer"))
	if err != nil {
		log.Fatal("Failed to initialize anonymizer", zap.Error(err))
	}
	defer anon.Close()

	if !core.Language(cfg.Processing.Language).Valid() {
		log.Fatal("Unsupported language", zap.String("language", cfg.Processing.Language))
	}

	etlConfig := etl.DefaultConfig()
	etlConfig.BatchSize = *batchSize
	etlConfig.WorkerCount = *workers
	etlConfig.FailFast = *failFast

	output := *outputFile
	if output == "" {
		output = defaultOutputPath(*inputFile)
	}

	pipeline := etl.NewPipeline(anon, etlConfig, log.WithComponent("etl").Logger)
	result, err := pipeline.ProcessFile(ctx, *inputFile, output)
	if err != nil {
		log.Fatal("ETL processing failed", zap.Error(err))
	}

	log.Info("ETL pipeline completed successfully",
		zap.Int64("total_records", result.TotalRecords),
		zap.Int64("processed_ok", result.ProcessedOK),
		zap.Int64("processed_failed", result.ProcessedFailed),
		zap.Int64("entities_found", result.EntitiesFound),
		zap.String("output", output))
}

// defaultOutputPath derives the output path from the input file name
func defaultOutputPath(inputPath string) string {
	base := inputPath
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	return base + ".anonymized.jsonl"
}
