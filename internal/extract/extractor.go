// Package extract implements the heading classification engine: line
// assembly from the text layer or OCR, confidence-scored heading
// classification, and outline construction for one document.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/platinummonkey/outliner/internal/language"
	"github.com/platinummonkey/outliner/internal/logger"
	"github.com/platinummonkey/outliner/internal/ocr"
	"github.com/platinummonkey/outliner/internal/pdf"
)

// Language auto-detection sampling bounds: up to the first three pages,
// at most 1000 characters per page, stopping once 2000 are collected.
const (
	detectMaxPages     = 3
	detectPerPageChars = 1000
	detectSampleChars  = 2000
)

// titleSeedConfidence: an H1 accepted above this confidence seeds an
// empty title.
const titleSeedConfidence = 0.5

// Extractor extracts a structured outline from a single document. Create
// one Extractor per document: the active profile may be switched by
// auto-detection and must never be shared across documents.
type Extractor struct {
	profile    *language.Profile
	overlay    *language.Overlay
	autoDetect bool
	detected   string
	engine     ocr.Engine
	logger     *logger.Logger
	open       func(path string) (Document, error)
}

// Config holds configuration for an Extractor
type Config struct {
	// Language is the configured language name.
	Language string

	// AutoDetectLanguage enables per-document script detection.
	AutoDetectLanguage bool

	// Overlay optionally adds custom heading rules.
	Overlay *language.Overlay

	// Engine is the OCR collaborator (default: Tesseract).
	Engine ocr.Engine

	// OpenDocument opens a document by path (default: pdf.Open).
	// Injectable for tests.
	OpenDocument func(path string) (Document, error)

	Logger *logger.Logger
}

// New creates an extractor for one document. Fails immediately on an
// unsupported language name.
func New(cfg *Config) (*Extractor, error) {
	profile, err := language.Resolve(cfg.Language)
	if err != nil {
		return nil, err
	}
	profile = cfg.Overlay.Apply(profile)

	log := cfg.Logger
	if log == nil {
		log = logger.Get()
	}

	engine := cfg.Engine
	if engine == nil {
		engine = ocr.NewTesseractEngine(&ocr.Config{Logger: log})
	}

	open := cfg.OpenDocument
	if open == nil {
		open = func(path string) (Document, error) { return pdf.Open(path) }
	}

	return &Extractor{
		profile:    profile,
		overlay:    cfg.Overlay,
		autoDetect: cfg.AutoDetectLanguage,
		engine:     engine,
		logger:     log,
		open:       open,
	}, nil
}

// DetectedLanguage returns the auto-detected language name, or empty if
// detection never switched the profile.
func (e *Extractor) DetectedLanguage() string {
	return e.detected
}

// ExtractOutline processes one document end to end: line assembly,
// classification, and outline construction.
func (e *Extractor) ExtractOutline(path string) (*Result, error) {
	start := time.Now()

	log := e.logger.WithFile(filepath.Base(path)).WithLanguage(e.profile.Name)
	log.WithFields("engine_code", e.profile.EngineCode).Info("Extracting outline")

	doc, err := e.open(path)
	if err != nil {
		return nil, &ExtractionError{Stage: "open", Err: err}
	}
	defer func() { _ = doc.Close() }()

	lines, err := e.assembleLines(doc)
	if err != nil {
		return nil, err
	}

	result := e.buildOutline(lines, path)
	result.Stats.ProcessingTime = time.Since(start).Seconds()
	result.Stats.TotalLines = len(lines)
	result.Stats.Language = e.profile.Name
	result.Stats.DetectedLanguage = e.detected

	log.WithFields(
		"headings", result.Stats.HeadingsFound,
		"lines", result.Stats.TotalLines,
		"duration", FormatDuration(result.Stats.ProcessingTime),
	).Info("Extraction complete")

	return result, nil
}

// assembleLines walks the document in page order, taking the direct path
// for pages with an embedded text layer and the OCR path otherwise.
func (e *Extractor) assembleLines(doc Document) ([]TextLine, error) {
	if e.autoDetect && e.detected == "" {
		e.detectDocumentLanguage(doc)
	}

	assembler := newLineAssembler(e.profile, e.engine, e.logger)

	var all []TextLine
	for pageIndex := 0; pageIndex < doc.PageCount(); pageIndex++ {
		pageWidth, err := doc.PageWidth(pageIndex)
		if err != nil {
			return nil, &ExtractionError{Stage: "page geometry", Err: err}
		}

		pageLines, err := doc.PageLines(pageIndex)
		if err != nil {
			return nil, &ExtractionError{Stage: "text extraction", Err: err}
		}

		if len(pageLines) > 0 {
			all = append(all, assembler.fromPageLines(pageLines, pageIndex, pageWidth)...)
			continue
		}

		ocrLines, err := assembler.fromOCR(doc, pageIndex, pageWidth)
		if err != nil {
			return nil, err
		}
		all = append(all, ocrLines...)
	}
	return all, nil
}

// detectDocumentLanguage samples the first pages' embedded text and
// switches the active profile when the script heuristic disagrees with
// the configured language. The switch holds for this document only.
func (e *Extractor) detectDocumentLanguage(doc Document) {
	var sample strings.Builder
	pages := doc.PageCount()
	if pages > detectMaxPages {
		pages = detectMaxPages
	}

	for pageIndex := 0; pageIndex < pages; pageIndex++ {
		pageLines, err := doc.PageLines(pageIndex)
		if err != nil {
			continue
		}
		var text strings.Builder
		for _, line := range pageLines {
			for _, span := range line.Spans {
				text.WriteString(span.Text)
			}
			text.WriteString("\n")
		}
		sample.WriteString(truncateRunes(text.String(), detectPerPageChars))
		if sample.Len() > detectSampleChars {
			break
		}
	}

	if sample.Len() == 0 {
		return
	}

	detected := language.Detect(sample.String())
	if detected == e.profile.Name {
		return
	}

	profile, err := language.Resolve(detected)
	if err != nil {
		return
	}
	e.logger.WithFields("detected", detected, "configured", e.profile.Name).
		Info("Auto-detected document language")
	e.detected = detected
	e.profile = e.overlay.Apply(profile)
}

// buildOutline classifies each line and assembles the outline. The first
// accepted TITLE becomes the document title and is not emitted; later
// TITLEs demote to H1. A strong early H1 seeds an empty title. With no
// accepted title at all, the first entry's text and then the base
// filename serve as fallbacks.
func (e *Extractor) buildOutline(lines []TextLine, path string) *Result {
	classifier := newHeadingClassifier(e.profile)

	var title string
	var outline []OutlineEntry

	for _, line := range lines {
		level, confidence := classifier.classify(line)
		if level == language.LevelBody || confidence <= e.profile.AcceptConfidence {
			continue
		}

		if level == language.LevelTitle {
			if title == "" {
				title = line.Text
				continue
			}
			level = language.LevelH1
		}

		outline = append(outline, OutlineEntry{
			Level: string(level),
			Text:  line.Text,
			Page:  line.Page + 1,
		})

		if title == "" && level == language.LevelH1 && confidence > titleSeedConfidence {
			title = line.Text
		}
	}

	if title == "" {
		if len(outline) > 0 {
			title = outline[0].Text
		} else {
			base := filepath.Base(path)
			title = strings.TrimSuffix(base, filepath.Ext(base))
		}
	}

	return &Result{
		Title:   title,
		Outline: outline,
		Stats:   Stats{HeadingsFound: len(outline)},
	}
}

// truncateRunes returns at most n runes of s.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// FormatDuration renders a processing time in seconds as a compact
// human-readable string.
func FormatDuration(seconds float64) string {
	switch {
	case seconds < 1:
		return fmt.Sprintf("%.0fms", seconds*1000)
	case seconds < 60:
		return fmt.Sprintf("%.2fs", seconds)
	default:
		minutes := int(seconds) / 60
		return fmt.Sprintf("%dm %.1fs", minutes, seconds-float64(minutes*60))
	}
}
