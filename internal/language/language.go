// Package language defines per-language extraction profiles: OCR engine
// codes, heading rule tables, font thresholds, and tokenization settings.
// Profiles are plain data so adding a language means adding a table entry,
// not new control flow.
package language

import (
	"fmt"
	"regexp"
	"strings"
)

// Level is a flat heading tag assigned to a classified line.
type Level string

// Heading levels in decreasing significance. LevelBody marks ordinary text.
const (
	LevelTitle Level = "TITLE"
	LevelH1    Level = "H1"
	LevelH2    Level = "H2"
	LevelH3    Level = "H3"
	LevelBody  Level = "BODY"
)

// Rule is one heading pattern with its level and base confidence.
type Rule struct {
	// Pattern is matched case-insensitively anywhere in the line text.
	Pattern *regexp.Regexp

	// Level is the heading level assigned when the pattern matches.
	Level Level

	// Confidence is the base score in (0,1] before formatting boosts.
	Confidence float64
}

// Profile bundles every language-dependent knob used during extraction.
// Profiles are immutable after construction; the numeric fields are the
// empirically chosen thresholds of the extraction heuristics and are kept
// here, per language, rather than inlined at call sites.
type Profile struct {
	// Name is the canonical language name, e.g. "japanese".
	Name string

	// EngineCode is the Tesseract language code, e.g. "jpn".
	EngineCode string

	// Rules is the ordered heading rule table.
	Rules []Rule

	// FontThresholds maps a heading level to the minimum font size that
	// earns the font-size confidence boost for that level.
	FontThresholds map[Level]float64

	// CharWhitelist restricts Tesseract to the given character set.
	CharWhitelist string

	// ConcatenateTokens joins adjacent OCR words without a space
	// (Japanese and Chinese); otherwise words are space-joined.
	ConcatenateTokens bool

	// ZoomFactor is the raster scale applied before OCR.
	ZoomFactor float64

	// LineTolerance is the max vertical offset (page px) between a word
	// and the current line before a new line starts.
	LineTolerance float64

	// MinWordConfidence drops individual OCR words below this score (0-100).
	MinWordConfidence float64

	// MinLineLength drops assembled OCR lines shorter than this.
	MinLineLength int

	// MinLineConfidence drops assembled OCR lines whose average word
	// confidence is below this score (0-100).
	MinLineConfidence float64

	// MinHeadingLength is the shortest text the classifier will consider.
	MinHeadingLength int

	// AcceptConfidence is the outline acceptance floor for classified lines.
	AcceptConfidence float64

	// DenseScript marks CJK/Hangul profiles, which use higher raster
	// zoom and Otsu binarization during OCR preprocessing.
	DenseScript bool
}

// supportedLanguages maps language names to Tesseract engine codes, in
// presentation order.
var supportedLanguages = []struct {
	name string
	code string
}{
	{"english", "eng"},
	{"japanese", "jpn"},
	{"chinese_simplified", "chi_sim"},
	{"chinese_traditional", "chi_tra"},
	{"korean", "kor"},
	{"spanish", "spa"},
	{"french", "fra"},
	{"german", "deu"},
	{"portuguese", "por"},
	{"italian", "ita"},
	{"russian", "rus"},
	{"arabic", "ara"},
	{"hindi", "hin"},
}

// UnsupportedError reports a language name outside the supported set.
type UnsupportedError struct {
	Language string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported language: %s (supported: %s)",
		e.Language, strings.Join(Supported(), ", "))
}

// Supported returns the supported language names in registry order.
func Supported() []string {
	names := make([]string, len(supportedLanguages))
	for i, l := range supportedLanguages {
		names[i] = l.name
	}
	return names
}

// EngineCode returns the Tesseract code for a supported language name.
func EngineCode(name string) (string, bool) {
	for _, l := range supportedLanguages {
		if l.name == name {
			return l.code, true
		}
	}
	return "", false
}

// IsSupported reports whether name is in the supported set.
func IsSupported(name string) bool {
	_, ok := EngineCode(name)
	return ok
}

// Resolve returns the immutable profile for the named language. Languages
// without a dedicated rule set use the English rule table with their own
// engine code.
func Resolve(name string) (*Profile, error) {
	name = strings.ToLower(name)
	code, ok := EngineCode(name)
	if !ok {
		return nil, &UnsupportedError{Language: name}
	}

	switch name {
	case "english":
		return englishProfile(), nil
	case "japanese":
		return japaneseProfile(), nil
	case "chinese_simplified", "chinese_traditional":
		return chineseProfile(name, code), nil
	case "korean":
		return koreanProfile(), nil
	default:
		return defaultProfile(name, code), nil
	}
}

// mustRule compiles a case-insensitive rule pattern at profile
// construction time.
func mustRule(pattern string, level Level, confidence float64) Rule {
	return Rule{
		Pattern:    regexp.MustCompile("(?i)" + pattern),
		Level:      level,
		Confidence: confidence,
	}
}
