// Package pdf binds the document rendering and parsing collaborator. It
// exposes page counts, positioned text runs from the embedded text layer,
// and page rasterization for the OCR path.
package pdf

import (
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/unidoc/unipdf/v3/common"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
	"github.com/unidoc/unipdf/v3/render"
)

func init() {
	common.SetLogger(common.NewConsoleLogger(common.LogLevelError))
}

// Span is one styled run of text within a line.
type Span struct {
	// Text is the run's text content.
	Text string

	// FontSize is the run's font size in points.
	FontSize float64

	// Bold reports whether the run's font carries a bold style.
	Bold bool

	// X is the run's left edge in page coordinates.
	X float64
}

// Line is a sequence of spans sharing a baseline, in reading order.
type Line struct {
	Spans []Span
}

// Document provides page-level access to one open PDF file. A Document is
// owned by a single processing task and is not safe for concurrent use.
type Document struct {
	file   *os.File
	reader *model.PdfReader
	pages  int
}

// Open opens a PDF file for reading. The caller must Close it.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	reader, err := model.NewPdfReaderLazy(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create PDF reader: %w", err)
	}

	pages, err := reader.GetNumPages()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to get page count: %w", err)
	}

	return &Document{file: f, reader: reader, pages: pages}, nil
}

// Close releases the underlying file handle.
func (d *Document) Close() error {
	return d.file.Close()
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return d.pages
}

func (d *Document) page(pageIndex int) (*model.PdfPage, error) {
	if pageIndex < 0 || pageIndex >= d.pages {
		return nil, fmt.Errorf("page index %d out of range (document has %d pages)", pageIndex, d.pages)
	}
	// unipdf pages are 1-based.
	page, err := d.reader.GetPage(pageIndex + 1)
	if err != nil {
		return nil, fmt.Errorf("failed to get page %d: %w", pageIndex+1, err)
	}
	return page, nil
}

// PageWidth returns the page width in points.
func (d *Document) PageWidth(pageIndex int) (float64, error) {
	page, err := d.page(pageIndex)
	if err != nil {
		return 0, err
	}
	mediaBox, err := page.GetMediaBox()
	if err != nil {
		return 0, fmt.Errorf("failed to get media box: %w", err)
	}
	return mediaBox.Urx - mediaBox.Llx, nil
}

// PageLines extracts the embedded text layer of a page as positioned
// lines. An empty result means the page has no extractable text and the
// caller should fall back to OCR.
func (d *Document) PageLines(pageIndex int) ([]Line, error) {
	page, err := d.page(pageIndex)
	if err != nil {
		return nil, err
	}

	ex, err := extractor.New(page)
	if err != nil {
		return nil, fmt.Errorf("failed to create text extractor: %w", err)
	}
	pageText, _, _, err := ex.ExtractPageText()
	if err != nil {
		return nil, fmt.Errorf("failed to extract page text: %w", err)
	}

	return groupMarks(pageText.Marks().Elements()), nil
}

// groupMarks folds the extractor's text marks into lines and spans. Line
// breaks come from the extractor's inserted newline marks; consecutive
// marks with the same size and weight merge into one span.
func groupMarks(marks []extractor.TextMark) []Line {
	var lines []Line
	var current Line
	var span *Span

	flushLine := func() {
		if span != nil {
			current.Spans = append(current.Spans, *span)
			span = nil
		}
		if len(current.Spans) > 0 {
			lines = append(lines, current)
		}
		current = Line{}
	}

	for _, mark := range marks {
		if strings.Contains(mark.Text, "\n") {
			flushLine()
			continue
		}
		if mark.Meta || mark.Text == "" {
			continue
		}

		bold := fontIsBold(mark.Font)
		x := mark.BBox.Llx
		if span != nil && span.FontSize == mark.FontSize && span.Bold == bold {
			span.Text += mark.Text
			if x < span.X {
				span.X = x
			}
			continue
		}
		if span != nil {
			current.Spans = append(current.Spans, *span)
		}
		span = &Span{Text: mark.Text, FontSize: mark.FontSize, Bold: bold, X: x}
	}
	flushLine()

	return lines
}

// fontIsBold inspects the font descriptor name for a bold weight.
func fontIsBold(font *model.PdfFont) bool {
	if font == nil {
		return false
	}
	desc := font.FontDescriptor()
	if desc == nil || desc.FontName == nil {
		return false
	}
	name := strings.ToLower(desc.FontName.String())
	return strings.Contains(name, "bold") ||
		strings.Contains(name, "black") ||
		strings.Contains(name, "heavy")
}

// Render rasterizes a page at the given zoom factor (pixels per point).
func (d *Document) Render(pageIndex int, zoom float64) (image.Image, error) {
	page, err := d.page(pageIndex)
	if err != nil {
		return nil, err
	}
	width, err := d.PageWidth(pageIndex)
	if err != nil {
		return nil, err
	}

	device := render.NewImageDevice()
	device.OutputWidth = int(width * zoom)

	img, err := device.Render(page)
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", pageIndex+1, err)
	}
	return img, nil
}
