package extract

import (
	"regexp"
	"testing"

	"github.com/platinummonkey/outliner/internal/language"
)

func englishClassifier(t *testing.T) *headingClassifier {
	t.Helper()
	profile, err := language.Resolve("english")
	if err != nil {
		t.Fatalf("Resolve(english) error = %v", err)
	}
	return newHeadingClassifier(profile)
}

func TestClassify_ChapterHeading(t *testing.T) {
	c := englishClassifier(t)

	line := TextLine{Text: "Chapter 1: Introduction", FontSize: 18, Bold: true, Method: SourceDirect}
	level, confidence := c.classify(line)

	if level != language.LevelH1 {
		t.Errorf("level = %s, want H1", level)
	}
	// 0.9 base, boosted by bold, font size, and direct source, capped.
	if confidence != 0.98 {
		t.Errorf("confidence = %v, want 0.98", confidence)
	}
}

func TestClassify_NumberedSections(t *testing.T) {
	c := englishClassifier(t)

	tests := []struct {
		text  string
		level language.Level
	}{
		{"2.1 Background Material", language.LevelH2},
		{"3.1.4 Implementation Notes", language.LevelH3},
		{"b) second point raised", language.LevelH3},
	}
	for _, tt := range tests {
		level, confidence := c.classify(TextLine{Text: tt.text, FontSize: 10, Method: SourceOCR})
		if level != tt.level {
			t.Errorf("classify(%q) level = %s, want %s", tt.text, level, tt.level)
		}
		if confidence <= 0.25 {
			t.Errorf("classify(%q) confidence = %v, should clear the acceptance floor", tt.text, confidence)
		}
	}
}

func TestClassify_TooShort(t *testing.T) {
	c := englishClassifier(t)

	level, confidence := c.classify(TextLine{Text: "ab", FontSize: 20, Bold: true})
	if level != language.LevelBody {
		t.Errorf("level = %s, want BODY", level)
	}
	if confidence != 0.1 {
		t.Errorf("confidence = %v, want 0.1", confidence)
	}
}

func TestClassify_NumericOnly(t *testing.T) {
	c := englishClassifier(t)

	for _, text := range []string{"123", "42 17", "  2024  "} {
		level, _ := c.classify(TextLine{Text: text, FontSize: 20, Bold: true})
		if level != language.LevelBody {
			t.Errorf("classify(%q) level = %s, want BODY", text, level)
		}
	}
}

func TestClassify_BoostsAreAdditive(t *testing.T) {
	c := englishClassifier(t)

	// Matches only the H2 numbered-section rule (base 0.8).
	base := TextLine{Text: "2.1 Background Material", FontSize: 10, Method: SourceOCR}

	_, plain := c.classify(base)
	if !approx(plain, 0.8) {
		t.Fatalf("plain confidence = %v, want 0.8", plain)
	}

	bold := base
	bold.Bold = true
	if _, got := c.classify(bold); !approx(got, 0.9) {
		t.Errorf("bold confidence = %v, want 0.9", got)
	}

	big := base
	big.FontSize = 12 // H2 font threshold
	if _, got := c.classify(big); !approx(got, 0.95) {
		t.Errorf("large-font confidence = %v, want 0.95", got)
	}

	direct := base
	direct.Method = SourceDirect
	if _, got := c.classify(direct); !approx(got, 0.85) {
		t.Errorf("direct confidence = %v, want 0.85", got)
	}
}

func approx(got, want float64) bool {
	diff := got - want
	return diff < 1e-9 && diff > -1e-9
}

func TestClassify_ConfidenceCap(t *testing.T) {
	c := englishClassifier(t)

	line := TextLine{Text: "Chapter 2: Methods", FontSize: 20, Bold: true, Centered: true, Method: SourceDirect}
	if _, confidence := c.classify(line); confidence > 0.98 {
		t.Errorf("confidence = %v, must not exceed 0.98", confidence)
	}
}

func TestClassify_CenteredBoostOnlyForTitles(t *testing.T) {
	c := englishClassifier(t)

	// H1 rule match; centering must not add its boost.
	line := TextLine{Text: "Chapter 3: Results", FontSize: 10, Method: SourceOCR}
	_, plain := c.classify(line)

	line.Centered = true
	_, centered := c.classify(line)

	if centered != plain {
		t.Errorf("centered confidence = %v, plain = %v; centering should not boost non-titles", centered, plain)
	}
}

func TestClassify_FormattingFallback(t *testing.T) {
	c := englishClassifier(t)

	// None of these match a vocabulary or structural rule.
	tests := []struct {
		name       string
		line       TextLine
		level      language.Level
		confidence float64
	}{
		{"large bold title", TextLine{Text: "Quarterly Revenue Figures", FontSize: 18, Bold: true}, language.LevelTitle, 0.5},
		{"large centered title", TextLine{Text: "Quarterly Revenue Figures", FontSize: 18, Centered: true}, language.LevelTitle, 0.5},
		{"bold h1", TextLine{Text: "Quarterly Revenue Figures", FontSize: 16, Bold: true}, language.LevelH1, 0.4},
		{"bold h2", TextLine{Text: "Quarterly Revenue Figures", FontSize: 14, Bold: true}, language.LevelH2, 0.35},
		{"bold h3", TextLine{Text: "Quarterly Revenue Figures", FontSize: 12, Bold: true}, language.LevelH3, 0.25},
		{"centered long title", TextLine{Text: "A Centered Document Name", FontSize: 10, Centered: true}, language.LevelTitle, 0.3},
		{"no signal", TextLine{Text: "just some body text here", FontSize: 10}, language.LevelBody, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, confidence := c.classify(tt.line)
			if level != tt.level {
				t.Errorf("level = %s, want %s", level, tt.level)
			}
			if confidence != tt.confidence {
				t.Errorf("confidence = %v, want %v", confidence, tt.confidence)
			}
		})
	}
}

func TestClassify_WeakRuleMatchKeptWhenFallbackDeclines(t *testing.T) {
	// A rule scoring under the fallback gate survives when the line has
	// no typographic salience either. The outline acceptance floor
	// rejects it later.
	profile := &language.Profile{
		Name:       "english",
		EngineCode: "eng",
		Rules: []language.Rule{
			{Pattern: regexp.MustCompile(`(?i)^notes`), Level: language.LevelH3, Confidence: 0.2},
		},
		FontThresholds:   map[language.Level]float64{language.LevelH3: 10},
		MinHeadingLength: 3,
		AcceptConfidence: 0.25,
	}
	c := newHeadingClassifier(profile)

	level, confidence := c.classify(TextLine{Text: "Notes on usage", FontSize: 8, Method: SourceOCR})
	if level != language.LevelH3 {
		t.Errorf("level = %s, want H3", level)
	}
	if confidence != 0.2 {
		t.Errorf("confidence = %v, want 0.2", confidence)
	}
}

func TestClassify_JapaneseChapterMarker(t *testing.T) {
	profile, err := language.Resolve("japanese")
	if err != nil {
		t.Fatalf("Resolve(japanese) error = %v", err)
	}
	c := newHeadingClassifier(profile)

	// A bare chapter marker is a heading even without a trailing title.
	level, confidence := c.classify(TextLine{Text: "第1章", FontSize: 12, Method: SourceOCR})
	if level != language.LevelH1 {
		t.Errorf("level = %s, want H1", level)
	}
	if confidence <= profile.AcceptConfidence {
		t.Errorf("confidence = %v, should clear the acceptance floor %v", confidence, profile.AcceptConfidence)
	}
}
