package language

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Overlay holds user-supplied heading rules loaded from a YAML file,
// keyed by language name. Overlay rules are appended after the built-in
// table, so they participate in the same max-score scan.
type Overlay struct {
	rules map[string][]Rule
}

type overlayFile struct {
	Languages map[string][]overlayRule `yaml:"languages"`
}

type overlayRule struct {
	Pattern    string  `yaml:"pattern"`
	Level      string  `yaml:"level"`
	Confidence float64 `yaml:"confidence"`
}

// LoadOverlay parses a rule overlay file. Example:
//
//	languages:
//	  japanese:
//	    - pattern: "^付録"
//	      level: H1
//	      confidence: 0.8
func LoadOverlay(path string) (*Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var file overlayFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}

	overlay := &Overlay{rules: make(map[string][]Rule)}
	for lang, raw := range file.Languages {
		if !IsSupported(lang) {
			return nil, &UnsupportedError{Language: lang}
		}
		for i, r := range raw {
			rule, err := compileOverlayRule(r)
			if err != nil {
				return nil, fmt.Errorf("rule %d for %s: %w", i+1, lang, err)
			}
			overlay.rules[lang] = append(overlay.rules[lang], rule)
		}
	}
	return overlay, nil
}

func compileOverlayRule(r overlayRule) (Rule, error) {
	level := Level(r.Level)
	switch level {
	case LevelTitle, LevelH1, LevelH2, LevelH3:
	default:
		return Rule{}, fmt.Errorf("invalid level %q", r.Level)
	}
	if r.Confidence <= 0 || r.Confidence > 1 {
		return Rule{}, fmt.Errorf("confidence %v out of range (0,1]", r.Confidence)
	}
	pattern, err := regexp.Compile("(?i)" + r.Pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("invalid pattern %q: %w", r.Pattern, err)
	}
	return Rule{Pattern: pattern, Level: level, Confidence: r.Confidence}, nil
}

// Apply returns a copy of the profile with the overlay's rules for that
// language appended. Profiles without overlay entries are returned as is.
func (o *Overlay) Apply(p *Profile) *Profile {
	if o == nil {
		return p
	}
	extra, ok := o.rules[p.Name]
	if !ok || len(extra) == 0 {
		return p
	}
	merged := *p
	merged.Rules = make([]Rule, 0, len(p.Rules)+len(extra))
	merged.Rules = append(merged.Rules, p.Rules...)
	merged.Rules = append(merged.Rules, extra...)
	return &merged
}
