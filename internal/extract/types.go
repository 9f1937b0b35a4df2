package extract

import (
	"fmt"
	"image"

	"github.com/platinummonkey/outliner/internal/pdf"
)

// SourceMethod identifies how a text line was obtained.
type SourceMethod string

// Text line sources: the embedded text layer, OCR word grouping, or the
// whole-page OCR transcription fallback.
const (
	SourceDirect      SourceMethod = "direct"
	SourceOCR         SourceMethod = "ocr"
	SourceOCRFallback SourceMethod = "ocr_fallback"
)

// TextLine is one detected line of text on a page, with the formatting
// signals the classifier scores against. Lines are created per page and
// consumed immediately; they are never persisted.
type TextLine struct {
	// Text is the line's text content.
	Text string

	// Page is the 0-based page index. Outline entries emit it 1-based.
	Page int

	// FontSize is the measured (direct) or estimated (OCR) font size.
	FontSize float64

	// Bold reports whether any span of the line is bold.
	Bold bool

	// X is the line's left edge in page coordinates.
	X float64

	// Centered reports whether the line's left edge falls in the
	// center zone of the page.
	Centered bool

	// Method records how the line was obtained.
	Method SourceMethod

	// Confidence is the average OCR word confidence (0-100); zero for
	// direct lines.
	Confidence float64
}

// OutlineEntry is one emitted heading. Page is 1-based.
type OutlineEntry struct {
	Level string `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// Stats summarizes one document extraction.
type Stats struct {
	// ProcessingTime is the extraction wall time in seconds.
	ProcessingTime float64

	// TotalLines is the number of text lines assembled.
	TotalLines int

	// HeadingsFound is the number of outline entries emitted.
	HeadingsFound int

	// Language is the configured language name.
	Language string

	// DetectedLanguage is set when auto-detection switched the active
	// profile for this document.
	DetectedLanguage string
}

// Result is the extracted outline for one document.
type Result struct {
	Title   string
	Outline []OutlineEntry
	Stats   Stats
}

// Document is the rendering/parsing collaborator consumed by the
// extractor. *pdf.Document implements it; tests supply fakes.
type Document interface {
	// PageCount returns the number of pages.
	PageCount() int

	// PageWidth returns the page width in points.
	PageWidth(pageIndex int) (float64, error)

	// PageLines returns the embedded text layer as positioned lines;
	// empty means the page needs OCR.
	PageLines(pageIndex int) ([]pdf.Line, error)

	// Render rasterizes the page at the given zoom factor.
	Render(pageIndex int, zoom float64) (image.Image, error)

	// Close releases document resources.
	Close() error
}

// ExtractionError wraps a failure while processing one document. It is
// contained at the batch task boundary and never propagates to sibling
// documents.
type ExtractionError struct {
	Stage string
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed during %s: %v", e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
