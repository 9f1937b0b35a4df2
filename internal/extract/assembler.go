package extract

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/platinummonkey/outliner/internal/language"
	"github.com/platinummonkey/outliner/internal/logger"
	"github.com/platinummonkey/outliner/internal/ocr"
	"github.com/platinummonkey/outliner/internal/pdf"
)

// Font size estimation bounds for OCR lines, and the synthetic font size
// assigned to fallback transcription lines.
const (
	fontSizeScale    = 0.8
	fontSizeMin      = 8
	fontSizeMax      = 28
	fallbackFontSize = 12

	// centerZoneRatio is the fraction of page width around the center
	// within which a line counts as centered.
	centerZoneRatio = 0.3

	// boldFontSize marks OCR lines above this size as bold.
	boldFontSize = 14

	// boldUpperMinLength is the shortest all-caps English line treated
	// as bold.
	boldUpperMinLength = 3
)

// lineAssembler converts page content into TextLines: directly from the
// embedded text layer, or from OCR word tuples grouped into lines.
type lineAssembler struct {
	profile *language.Profile
	engine  ocr.Engine
	logger  *logger.Logger
}

func newLineAssembler(profile *language.Profile, engine ocr.Engine, log *logger.Logger) *lineAssembler {
	return &lineAssembler{profile: profile, engine: engine, logger: log}
}

// fromPageLines converts embedded-text lines into TextLines. Lines whose
// trimmed text is one character or shorter are dropped.
func (a *lineAssembler) fromPageLines(pageLines []pdf.Line, pageIndex int, pageWidth float64) []TextLine {
	var lines []TextLine
	for _, pl := range pageLines {
		var text strings.Builder
		var maxFont float64
		bold := false
		x := math.Inf(1)

		for _, span := range pl.Spans {
			t := strings.TrimSpace(span.Text)
			if t == "" {
				continue
			}
			text.WriteString(t)
			text.WriteString(" ")
			if span.FontSize > maxFont {
				maxFont = span.FontSize
			}
			if span.Bold {
				bold = true
			}
			if span.X < x {
				x = span.X
			}
		}

		lineText := strings.TrimSpace(text.String())
		if utf8.RuneCountInString(lineText) <= 1 {
			continue
		}

		lines = append(lines, TextLine{
			Text:     lineText,
			Page:     pageIndex,
			FontSize: maxFont,
			Bold:     bold,
			X:        x,
			Centered: isCentered(x, pageWidth),
			Method:   SourceDirect,
		})
	}
	return lines
}

// fromOCR renders the page, runs OCR, and groups the word tuples into
// lines. If grouping yields nothing, a whole-page transcription supplies
// fallback lines with synthetic metadata.
func (a *lineAssembler) fromOCR(doc Document, pageIndex int, pageWidth float64) ([]TextLine, error) {
	zoom := a.profile.ZoomFactor
	img, err := doc.Render(pageIndex, zoom)
	if err != nil {
		return nil, &ExtractionError{Stage: "render", Err: err}
	}

	processed, err := ocr.Preprocess(img, a.profile.DenseScript)
	if err != nil {
		return nil, &ExtractionError{Stage: "preprocess", Err: err}
	}

	req := ocr.Request{
		Image:         processed,
		EngineCode:    a.profile.EngineCode,
		CharWhitelist: a.profile.CharWhitelist,
	}

	words, err := a.engine.RecognizeWords(req)
	if err != nil {
		a.logger.WithFields("page", pageIndex, "error", err).Warn("OCR failed for page")
		return nil, nil
	}

	lines := a.groupWords(words, pageIndex, pageWidth, zoom)
	if len(lines) > 0 {
		return lines, nil
	}

	// Row-oriented whole-page transcription as a last resort.
	text, err := a.engine.RecognizeText(req)
	if err != nil {
		a.logger.WithFields("page", pageIndex, "error", err).Error("Fallback OCR also failed for page")
		return nil, nil
	}
	return a.fallbackLines(text, pageIndex), nil
}

// wordGroup accumulates one line of OCR words during grouping.
type wordGroup struct {
	words       []string
	confidences []float64
	x, y, w, h  float64
}

// groupWords folds OCR word tuples into lines. A new line starts when a
// word's top offset exceeds the language tolerance; word coordinates are
// scaled back to page space by the zoom factor.
func (a *lineAssembler) groupWords(words []ocr.Word, pageIndex int, pageWidth, zoom float64) []TextLine {
	var lines []TextLine
	var current *wordGroup

	flush := func() {
		if current == nil || len(current.words) == 0 {
			return
		}
		if line, ok := a.finalizeGroup(current, pageIndex, pageWidth); ok {
			lines = append(lines, line)
		}
		current = nil
	}

	for _, word := range words {
		text := strings.TrimSpace(word.Text)
		if text == "" || word.Confidence <= a.profile.MinWordConfidence {
			continue
		}

		x := float64(word.BoundingBox.X) / zoom
		y := float64(word.BoundingBox.Y) / zoom
		w := float64(word.BoundingBox.Width) / zoom
		h := float64(word.BoundingBox.Height) / zoom

		if current != nil && math.Abs(y-current.y) >= a.profile.LineTolerance {
			flush()
		}
		if current == nil {
			current = &wordGroup{x: x, y: y, w: w, h: h}
		} else {
			// Extend the line's bounding box.
			right := math.Max(current.x+current.w, x+w)
			current.w = right - current.x
			current.h = math.Max(current.h, h)
		}
		current.words = append(current.words, text)
		current.confidences = append(current.confidences, word.Confidence)
	}
	flush()

	return lines
}

// finalizeGroup joins a word group per the language's token policy and
// applies the length and confidence floors.
func (a *lineAssembler) finalizeGroup(g *wordGroup, pageIndex int, pageWidth float64) (TextLine, bool) {
	var text string
	if a.profile.ConcatenateTokens {
		text = strings.Join(g.words, "")
	} else {
		text = strings.Join(g.words, " ")
	}

	var sum float64
	for _, c := range g.confidences {
		sum += c
	}
	avgConfidence := sum / float64(len(g.confidences))

	if utf8.RuneCountInString(text) < a.profile.MinLineLength ||
		avgConfidence < a.profile.MinLineConfidence {
		return TextLine{}, false
	}

	fontSize := estimateFontSize(g.h)
	return TextLine{
		Text:       text,
		Page:       pageIndex,
		FontSize:   fontSize,
		Bold:       a.detectBold(text, fontSize),
		X:          g.x,
		Centered:   isCentered(g.x, pageWidth),
		Method:     SourceOCR,
		Confidence: avgConfidence,
	}, true
}

// fallbackLines splits a whole-page transcription into lines with
// synthetic metadata.
func (a *lineAssembler) fallbackLines(text string, pageIndex int) []TextLine {
	var lines []TextLine
	for _, raw := range strings.Split(text, "\n") {
		ln := strings.TrimSpace(raw)
		if utf8.RuneCountInString(ln) <= 1 {
			continue
		}
		lines = append(lines, TextLine{
			Text:     ln,
			Page:     pageIndex,
			FontSize: fallbackFontSize,
			Method:   SourceOCRFallback,
		})
	}
	return lines
}

// estimateFontSize derives a font size estimate from word height.
func estimateFontSize(height float64) float64 {
	return math.Max(fontSizeMin, math.Min(fontSizeMax, height*fontSizeScale))
}

// detectBold infers boldness for OCR lines: a heading pattern match,
// a large font, or (English) an all-caps line.
func (a *lineAssembler) detectBold(text string, fontSize float64) bool {
	for _, rule := range a.profile.Rules {
		if rule.Pattern.MatchString(text) {
			return true
		}
	}
	if fontSize > boldFontSize {
		return true
	}
	if a.profile.Name == "english" && isAllUpper(text) &&
		utf8.RuneCountInString(text) > boldUpperMinLength {
		return true
	}
	return false
}

// isAllUpper reports whether the text has at least one letter and no
// lowercase letters.
func isAllUpper(s string) bool {
	hasUpper := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}

// isCentered reports whether x falls within the center zone of the page.
func isCentered(x, pageWidth float64) bool {
	if pageWidth <= 0 {
		return false
	}
	return math.Abs(x-pageWidth/2) < centerZoneRatio*pageWidth
}
