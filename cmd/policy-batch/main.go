package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/insurelens/policy-extract/internal/batch"
	"github.com/insurelens/policy-extract/internal/common"
	"github.com/insurelens/policy-extract/internal/export"
	"github.com/insurelens/policy-extract/internal/extract"
	"github.com/insurelens/policy-extract/internal/llm/openai"
	"github.com/insurelens/policy-extract/internal/pipeline"
	"github.com/insurelens/policy-extract/internal/runlog"
	"github.com/insurelens/policy-extract/internal/schema"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir        = flag.String("dir", "", "directory to process policy documents from (required)")
		out        = flag.String("out", "", "output XLSX file path (optional, defaults to parent directory)")
		appendRows = flag.Bool("append", false, "append rows to an existing output table")
		runLog     = flag.String("runlog", "", "run log database path (optional, overrides RUN_LOG_PATH)")
		inmem      = flag.Bool("inmem", false, "use an in-memory run log instead of a file")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), "consolidated_policies.xlsx")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	fieldSchema := schema.Default()

	textExtractor := extract.NewPDFExtractor(logger)
	client := openai.NewClient(openai.Config{
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	pipe := pipeline.New(logger, textExtractor, client, fieldSchema)
	pipe.Timeout = cfg.Batch.DocumentTimeout

	runLogPath := cfg.Batch.RunLogPath
	if *runLog != "" {
		runLogPath = *runLog
	}
	if *inmem {
		runLogPath = ":memory:"
	}
	store, err := runlog.Open(runLogPath, logger)
	if err != nil {
		logger.Error("failed to open run log", "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	paths, err := batch.ListDocuments(*dir)
	if err != nil {
		logger.Error("failed to list documents", "dir", *dir, "error", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		printError("No policy documents found in %s\n", *dir)
		os.Exit(1)
	}

	consolidator := batch.NewConsolidator(logger, pipe)
	result := consolidator.Run(ctx, paths)

	if err := store.RecordBatch(ctx, result); err != nil {
		logger.Error("failed to record batch in run log", "error", err)
	}

	writer := export.NewWriter(logger)
	totalRows, err := writer.WriteTable(result.Records, fieldSchema, *out, *appendRows)
	if err != nil {
		logger.Error("failed to write output table", "output", *out, "error", err)
		os.Exit(1)
	}

	allTime, err := store.TotalPremium(ctx, nil)
	if err != nil {
		logger.Error("failed to read premium totals", "error", err)
	}

	logger.Info("batch complete",
		"batch_id", result.BatchID,
		"documents", len(paths),
		"succeeded", result.Succeeded,
		"text_empty", result.TextEmpty,
		"extraction_failed", result.ExtractionFailed,
		"rows_written", totalRows,
		"output_file", *out,
	)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Documents found: %d\n", len(paths))
	fmt.Printf("- Succeeded: %d\n", result.Succeeded)
	fmt.Printf("- Empty text: %d\n", result.TextEmpty)
	fmt.Printf("- Extraction failures: %d\n", result.ExtractionFailed)
	fmt.Printf("- Rows in table: %d\n", totalRows)
	fmt.Printf("- All-time premium recorded: %.2f\n", allTime)
	fmt.Printf("- Output: %s\n", *out)
}
