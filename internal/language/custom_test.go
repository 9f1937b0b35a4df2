package language

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRulesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write rules file: %v", err)
	}
	return path
}

func TestLoadOverlay(t *testing.T) {
	path := writeRulesFile(t, `
languages:
  japanese:
    - pattern: "^付録"
      level: H1
      confidence: 0.8
  english:
    - pattern: "^Appendix"
      level: H1
      confidence: 0.85
    - pattern: "^Glossary"
      level: H2
      confidence: 0.7
`)

	overlay, err := LoadOverlay(path)
	if err != nil {
		t.Fatalf("LoadOverlay() error = %v", err)
	}

	if len(overlay.rules["japanese"]) != 1 {
		t.Errorf("expected 1 japanese rule, got %d", len(overlay.rules["japanese"]))
	}
	if len(overlay.rules["english"]) != 2 {
		t.Errorf("expected 2 english rules, got %d", len(overlay.rules["english"]))
	}
}

func TestLoadOverlay_UnsupportedLanguage(t *testing.T) {
	path := writeRulesFile(t, `
languages:
  klingon:
    - pattern: "^foo"
      level: H1
      confidence: 0.5
`)

	if _, err := LoadOverlay(path); err == nil {
		t.Fatal("expected error for unsupported language")
	}
}

func TestLoadOverlay_InvalidLevel(t *testing.T) {
	path := writeRulesFile(t, `
languages:
  english:
    - pattern: "^foo"
      level: H9
      confidence: 0.5
`)

	if _, err := LoadOverlay(path); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestLoadOverlay_InvalidConfidence(t *testing.T) {
	path := writeRulesFile(t, `
languages:
  english:
    - pattern: "^foo"
      level: H1
      confidence: 1.5
`)

	if _, err := LoadOverlay(path); err == nil {
		t.Fatal("expected error for out-of-range confidence")
	}
}

func TestLoadOverlay_InvalidPattern(t *testing.T) {
	path := writeRulesFile(t, `
languages:
  english:
    - pattern: "(["
      level: H1
      confidence: 0.5
`)

	if _, err := LoadOverlay(path); err == nil {
		t.Fatal("expected error for invalid regexp")
	}
}

func TestLoadOverlay_MissingFile(t *testing.T) {
	if _, err := LoadOverlay(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestOverlay_Apply(t *testing.T) {
	path := writeRulesFile(t, `
languages:
  english:
    - pattern: "^Appendix"
      level: H1
      confidence: 0.85
`)
	overlay, err := LoadOverlay(path)
	if err != nil {
		t.Fatalf("LoadOverlay() error = %v", err)
	}

	base, _ := Resolve("english")
	merged := overlay.Apply(base)

	if len(merged.Rules) != len(base.Rules)+1 {
		t.Fatalf("merged rule count = %d, want %d", len(merged.Rules), len(base.Rules)+1)
	}
	// The base profile stays untouched.
	if len(base.Rules) == len(merged.Rules) {
		t.Error("Apply mutated the base profile")
	}

	added := merged.Rules[len(merged.Rules)-1]
	if !added.Pattern.MatchString("appendix B") {
		t.Error("overlay pattern should match case-insensitively")
	}
	if added.Level != LevelH1 || added.Confidence != 0.85 {
		t.Errorf("overlay rule = %v/%v, want H1/0.85", added.Level, added.Confidence)
	}
}

func TestOverlay_ApplyOtherLanguageUnchanged(t *testing.T) {
	path := writeRulesFile(t, `
languages:
  english:
    - pattern: "^Appendix"
      level: H1
      confidence: 0.85
`)
	overlay, _ := LoadOverlay(path)

	base, _ := Resolve("japanese")
	if merged := overlay.Apply(base); merged != base {
		t.Error("profile without overlay entries should be returned as is")
	}
}

func TestOverlay_NilApply(t *testing.T) {
	var overlay *Overlay
	base, _ := Resolve("english")
	if merged := overlay.Apply(base); merged != base {
		t.Error("nil overlay should return the profile unchanged")
	}
}
