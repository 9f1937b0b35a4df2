package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/platinummonkey/outliner/internal/language"
)

// Confidence scoring constants. Formatting signals boost a rule's base
// confidence; the result is capped below 1 because the score is a
// heuristic rank, not a probability.
const (
	boldBoost          = 0.10
	fontBoost          = 0.15
	centeredTitleBoost = 0.20
	directBoost        = 0.05
	maxConfidence      = 0.98

	// bodyConfidence is the score assigned to lines rejected outright.
	bodyConfidence = 0.1

	// fallbackGate: rule matches scoring below this yield to the
	// formatting-only cascade.
	fallbackGate = 0.25

	// defaultFontThreshold applies when a profile has no threshold for
	// a rule's level.
	defaultFontThreshold = 12

	// fallbackTitleMinLength is the shortest centered line the cascade
	// will promote to TITLE.
	fallbackTitleMinLength = 8
)

var numericOnly = regexp.MustCompile(`^[\d\s]+$`)

// headingClassifier scores text lines against a language profile's rule
// table, with a formatting-based fallback for headings the vocabulary
// misses.
type headingClassifier struct {
	profile *language.Profile
}

func newHeadingClassifier(profile *language.Profile) *headingClassifier {
	return &headingClassifier{profile: profile}
}

// classify returns the heading level and confidence for one line.
func (c *headingClassifier) classify(line TextLine) (language.Level, float64) {
	text := strings.TrimSpace(line.Text)

	if utf8.RuneCountInString(text) < c.profile.MinHeadingLength {
		return language.LevelBody, bodyConfidence
	}
	if numericOnly.MatchString(text) {
		return language.LevelBody, bodyConfidence
	}

	bestLevel, bestConfidence := language.LevelBody, 0.0

	for _, rule := range c.profile.Rules {
		if !rule.Pattern.MatchString(text) {
			continue
		}

		confidence := rule.Confidence
		if line.Bold {
			confidence += boldBoost
		}
		if line.FontSize >= c.fontThreshold(rule.Level) {
			confidence += fontBoost
		}
		if line.Centered && rule.Level == language.LevelTitle {
			confidence += centeredTitleBoost
		}
		if line.Method == SourceDirect {
			confidence += directBoost
		}
		if confidence > maxConfidence {
			confidence = maxConfidence
		}

		// Ties keep the first match found.
		if confidence > bestConfidence {
			bestLevel, bestConfidence = rule.Level, confidence
		}
	}

	// A weak rule match (even a legitimate one just under the gate) is
	// replaced wholesale by the formatting cascade.
	if bestConfidence < fallbackGate {
		if level, confidence, ok := c.formattingFallback(line, text); ok {
			return level, confidence
		}
	}

	return bestLevel, bestConfidence
}

func (c *headingClassifier) fontThreshold(level language.Level) float64 {
	if threshold, ok := c.profile.FontThresholds[level]; ok {
		return threshold
	}
	return defaultFontThreshold
}

// formattingFallback classifies by typographic salience alone, first hit
// wins.
func (c *headingClassifier) formattingFallback(line TextLine, text string) (language.Level, float64, bool) {
	switch {
	case line.FontSize >= 18 && (line.Bold || line.Centered):
		return language.LevelTitle, 0.5, true
	case line.FontSize >= 16 && line.Bold:
		return language.LevelH1, 0.4, true
	case line.FontSize >= 14 && line.Bold:
		return language.LevelH2, 0.35, true
	case line.FontSize >= 12 && line.Bold:
		return language.LevelH3, 0.25, true
	case line.Centered && utf8.RuneCountInString(text) > fallbackTitleMinLength:
		return language.LevelTitle, 0.3, true
	}
	return language.LevelBody, 0, false
}
