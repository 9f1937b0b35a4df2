// Package batch implements the bounded-concurrency orchestration layer:
// input discovery, fan-out over independent documents, per-task error
// containment, and completion-ordered aggregation into a batch report.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/platinummonkey/outliner/internal/extract"
	"github.com/platinummonkey/outliner/internal/language"
	"github.com/platinummonkey/outliner/internal/logger"
	"github.com/platinummonkey/outliner/internal/ocr"
	"github.com/platinummonkey/outliner/internal/pdf"
)

// defaultWorkerCap bounds the default pool size on large machines.
const defaultWorkerCap = 8

// Processor dispatches documents to a bounded worker pool and aggregates
// per-document results. Each task owns its extractor and profile
// exclusively; only the result collector is shared.
type Processor struct {
	language   string
	autoDetect bool
	workers    int
	overlay    *language.Overlay
	engine     ocr.Engine
	logger     *logger.Logger

	// processFile runs one document task. Injectable for tests.
	processFile func(path, outputDir string) FileResult
}

// Config holds configuration for the batch processor
type Config struct {
	// Language is the configured language for all documents.
	Language string

	// AutoDetectLanguage enables per-document language detection.
	AutoDetectLanguage bool

	// Workers is the pool size (default: min(8, NumCPU)).
	Workers int

	// Overlay optionally adds custom heading rules.
	Overlay *language.Overlay

	// Engine is the OCR collaborator shared config (each task still
	// creates its own client).
	Engine ocr.Engine

	Logger *logger.Logger
}

// New creates a batch processor. Fails immediately on an unsupported
// language name.
func New(cfg *Config) (*Processor, error) {
	if !language.IsSupported(strings.ToLower(cfg.Language)) {
		return nil, &language.UnsupportedError{Language: cfg.Language}
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Get()
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers > defaultWorkerCap {
			workers = defaultWorkerCap
		}
	}

	p := &Processor{
		language:   strings.ToLower(cfg.Language),
		autoDetect: cfg.AutoDetectLanguage,
		workers:    workers,
		overlay:    cfg.Overlay,
		engine:     cfg.Engine,
		logger:     log,
	}
	p.processFile = p.runDocumentTask

	log.WithFields("language", p.language, "workers", workers, "auto_detect", cfg.AutoDetectLanguage).
		Info("Initialized batch processor")

	return p, nil
}

// Workers returns the configured pool size.
func (p *Processor) Workers() int {
	return p.workers
}

// DiscoverInputs enumerates valid PDF files in a directory. Files failing
// the structural check are silently excluded, not counted as failures.
func (p *Processor) DiscoverInputs(inputDir string) ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(inputDir, entry.Name())
		if err := pdf.ValidateFile(path); err != nil {
			p.logger.WithFile(entry.Name()).WithError(err).Debug("Skipping invalid file")
			continue
		}
		files = append(files, path)
	}
	return files, nil
}

// ProcessBatch processes every valid document in inputDir, writing one
// JSON file per document to outputDir. Per-document failures are
// contained; the batch itself fails only when no valid inputs exist.
// Cancelling ctx stops dispatching new documents and lets in-flight ones
// finish.
func (p *Processor) ProcessBatch(ctx context.Context, inputDir, outputDir string) (*Report, error) {
	files, err := p.DiscoverInputs(inputDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, &EmptyBatchError{Dir: inputDir}
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	report := &Report{TotalFiles: len(files)}
	for _, f := range files {
		report.TotalSizeMB += pdf.FileSizeMB(f)
	}

	p.logger.WithFields(
		"files", len(files),
		"total_size_mb", report.TotalSizeMB,
		"output_dir", outputDir,
	).Info("Starting batch processing")

	start := time.Now()
	progress := newProgressTracker(len(files), p.logger)

	jobs := make(chan string)
	results := make(chan FileResult)
	interrupted := false

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				results <- p.processFile(path, outputDir)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, path := range files {
			select {
			case <-ctx.Done():
				interrupted = true
				return
			case jobs <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Aggregation runs in completion order; no ordering guarantee holds
	// across documents.
	for result := range results {
		progress.update(filepath.Base(result.Path))
		report.addResult(result)

		if result.Success {
			p.logger.WithFile(filepath.Base(result.Path)).WithFields(
				"headings", result.HeadingsFound,
				"language", result.Language,
				"duration", extract.FormatDuration(result.ProcessingTime),
			).Info("Processed")
		} else {
			p.logger.WithFile(filepath.Base(result.Path)).
				WithFields("error", result.Error).Error("Failed")
		}
	}

	report.TotalTime = time.Since(start).Seconds()
	report.Interrupted = interrupted
	report.finalize()

	progress.finish()
	p.logSummary(report)

	return report, nil
}

// ProcessFile runs one document task. Exported for single-file mode.
func (p *Processor) ProcessFile(path, outputDir string) FileResult {
	return p.processFile(path, outputDir)
}

// runDocumentTask processes one document with full error containment:
// any failure, including collaborator panics, becomes a failed result.
func (p *Processor) runDocumentTask(path, outputDir string) (result FileResult) {
	start := time.Now()
	sizeMB := pdf.FileSizeMB(path)

	fail := func(err error) FileResult {
		return FileResult{
			Path:           path,
			Error:          err.Error(),
			ProcessingTime: time.Since(start).Seconds(),
			FileSizeMB:     sizeMB,
		}
	}

	defer func() {
		if r := recover(); r != nil {
			result = fail(fmt.Errorf("panic while processing %s: %v", filepath.Base(path), r))
		}
	}()

	if err := pdf.ValidateFile(path); err != nil {
		return fail(err)
	}

	extractor, err := extract.New(&extract.Config{
		Language:           p.language,
		AutoDetectLanguage: p.autoDetect,
		Overlay:            p.overlay,
		Engine:             p.engine,
		Logger:             p.logger,
	})
	if err != nil {
		return fail(err)
	}

	outcome, err := extractor.ExtractOutline(path)
	if err != nil {
		return fail(err)
	}

	outputFile, err := p.writeResult(path, outputDir, outcome, sizeMB)
	if err != nil {
		return fail(err)
	}

	return FileResult{
		Success:          true,
		Path:             path,
		OutputFile:       outputFile,
		ProcessingTime:   time.Since(start).Seconds(),
		HeadingsFound:    outcome.Stats.HeadingsFound,
		Title:            outcome.Title,
		Language:         outcome.Stats.Language,
		DetectedLanguage: outcome.Stats.DetectedLanguage,
		FileSizeMB:       sizeMB,
	}
}

// writeResult serializes one document's outline to <stem>.json in the
// output directory.
func (p *Processor) writeResult(path, outputDir string, outcome *extract.Result, sizeMB float64) (string, error) {
	outline := outcome.Outline
	if outline == nil {
		outline = []extract.OutlineEntry{}
	}

	var detected *string
	if outcome.Stats.DetectedLanguage != "" {
		detected = &outcome.Stats.DetectedLanguage
	}

	doc := outputDocument{
		Title:   outcome.Title,
		Outline: outline,
		Metadata: outputMetadata{
			SourceFile:          filepath.Base(path),
			ProcessingTime:      outcome.Stats.ProcessingTime,
			Language:            outcome.Stats.Language,
			DetectedLanguage:    detected,
			TotalLinesProcessed: outcome.Stats.TotalLines,
			HeadingsFound:       outcome.Stats.HeadingsFound,
			FileSizeMB:          sizeMB,
		},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}

	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	outputFile := filepath.Join(outputDir, stem+".json")
	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write result file: %w", err)
	}
	return outputFile, nil
}

// logSummary logs the aggregate statistics for a finished batch.
func (p *Processor) logSummary(report *Report) {
	p.logger.WithFields(
		"total_files", report.TotalFiles,
		"successful", len(report.Successful),
		"failed", len(report.Failed),
		"success_rate", fmt.Sprintf("%.1f%%", report.SuccessRate()),
		"total_time", extract.FormatDuration(report.TotalTime),
		"avg_time", extract.FormatDuration(report.AverageTime()),
		"total_size_mb", report.TotalSizeMB,
		"throughput_mb_s", report.Throughput(),
	).Info("Batch processing summary")

	if len(report.Successful) > 0 {
		p.logger.WithFields(
			"total_headings", report.TotalHeadings(),
			"avg_headings", report.AverageHeadings(),
		).Info("Heading statistics")
	}
	if len(report.Languages) > 0 {
		p.logger.WithFields("languages", strings.Join(report.Languages, ", ")).
			Info("Languages seen")
	}
	for errText, count := range report.ErrorHistogram() {
		p.logger.WithFields("error", errText, "files", count).Warn("Error summary")
	}
	if report.Interrupted {
		p.logger.Warn("Batch interrupted before all files were dispatched")
	}
}
