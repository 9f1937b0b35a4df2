package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/platinummonkey/outliner/internal/batch"
	"github.com/platinummonkey/outliner/internal/extract"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <input-dir>",
	Short: "Process every PDF in a directory concurrently",
	Long: `Process all valid PDF files in a directory with a bounded worker
pool, writing one outline JSON file per document to the output directory.

Files that are not valid PDFs are silently skipped. A failure in one
document never affects the others; the batch succeeds as long as at
least one valid document exists. Press Ctrl-C to stop dispatching new
documents and let in-flight ones finish.

Examples:
  # Process a directory of English documents
  outliner batch ./docs

  # Japanese documents, four workers, custom output directory
  outliner batch ./docs --language japanese --workers 4 --output ./outlines

  # Let each document pick its own language
  outliner batch ./docs --auto-detect`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntP("workers", "w", 0, "worker pool size (default min(8, CPUs))")
	_ = viper.BindPFlag("workers", batchCmd.Flags().Lookup("workers"))
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = viper.GetInt("workers")
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	overlay, err := loadOverlay(cfg)
	if err != nil {
		return err
	}

	processor, err := batch.New(&batch.Config{
		Language:           cfg.Language,
		AutoDetectLanguage: cfg.AutoDetectLanguage,
		Workers:            cfg.Workers,
		Overlay:            overlay,
		Logger:             log,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := processor.ProcessBatch(ctx, args[0], cfg.OutputDir)
	if err != nil {
		return err
	}

	printReport(report)

	if report.Interrupted {
		return errInterrupted
	}
	if len(report.Failed) > 0 {
		return fmt.Errorf("batch completed with %d failures", len(report.Failed))
	}
	return nil
}

// printReport writes the human-readable batch summary to stdout.
func printReport(report *batch.Report) {
	fmt.Println()
	fmt.Println("=== Batch Complete ===")
	fmt.Printf("Total files: %d\n", report.TotalFiles)
	fmt.Printf("Successful: %d\n", len(report.Successful))
	fmt.Printf("Failed: %d\n", len(report.Failed))
	fmt.Printf("Success rate: %.1f%%\n", report.SuccessRate())
	fmt.Printf("Total time: %s\n", extract.FormatDuration(report.TotalTime))
	fmt.Printf("Average time per file: %s\n", extract.FormatDuration(report.AverageTime()))
	fmt.Printf("Throughput: %.2f MB/s\n", report.Throughput())

	if len(report.Successful) > 0 {
		fmt.Printf("Headings found: %d (%.1f per document)\n",
			report.TotalHeadings(), report.AverageHeadings())
	}
	if len(report.Languages) > 0 {
		fmt.Printf("Languages: %v\n", report.Languages)
	}

	if len(report.Failed) > 0 {
		fmt.Println("\nFailures:")
		for _, failure := range report.Failed {
			fmt.Printf("  - %s: %s\n", filepath.Base(failure.Path), failure.Error)
		}
	}
}
