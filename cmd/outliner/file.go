package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/platinummonkey/outliner/internal/batch"
	"github.com/platinummonkey/outliner/internal/extract"
	"github.com/platinummonkey/outliner/internal/pdf"
)

// fileCmd represents the file command
var fileCmd = &cobra.Command{
	Use:   "file <document.pdf>",
	Short: "Extract the outline of a single PDF document",
	Long: `Extract the heading outline of one PDF document and write it as
JSON to the output directory.

Unlike batch mode, an invalid or unreadable document is a fatal error
here, and the document's structure is validated before extraction.

Examples:
  # Extract with the default English rules
  outliner file report.pdf

  # A scanned Japanese document
  outliner file scan.pdf --language japanese`,
	Args: cobra.ExactArgs(1),
	RunE: runFile,
}

func init() {
	rootCmd.AddCommand(fileCmd)
}

func runFile(_ *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
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

	if err := pdf.ValidateFile(path); err != nil {
		return err
	}
	pageCount, err := pdf.ValidateStructure(path)
	if err != nil {
		return err
	}
	log.WithFile(filepath.Base(path)).WithFields("pages", pageCount).Debug("Document validated")

	processor, err := batch.New(&batch.Config{
		Language:           cfg.Language,
		AutoDetectLanguage: cfg.AutoDetectLanguage,
		Workers:            1,
		Overlay:            overlay,
		Logger:             log,
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	result := processor.ProcessFile(path, cfg.OutputDir)
	if !result.Success {
		return fmt.Errorf("failed to process %s: %s", filepath.Base(path), result.Error)
	}

	fmt.Printf("Title: %s\n", result.Title)
	fmt.Printf("Headings: %d\n", result.HeadingsFound)
	if result.DetectedLanguage != "" {
		fmt.Printf("Detected language: %s\n", result.DetectedLanguage)
	}
	fmt.Printf("Output: %s\n", result.OutputFile)
	fmt.Printf("Time: %s\n", extract.FormatDuration(result.ProcessingTime))

	return nil
}
