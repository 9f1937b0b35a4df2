package language

import "unicode"

// Script detection thresholds. A script whose character fraction of the
// alphabetic sample exceeds detectThreshold wins, checked in order:
// Japanese, Korean, Chinese. Mixed or Latin samples fall back to English.
const detectThreshold = 0.3

func isHiraganaKatakana(r rune) bool {
	return (r >= 0x3040 && r <= 0x309F) || (r >= 0x30A0 && r <= 0x30FF)
}

func isCJKIdeograph(r rune) bool {
	return r >= 0x4E00 && r <= 0x9FAF
}

func isHangul(r rune) bool {
	return r >= 0xAC00 && r <= 0xD7AF
}

// Detect guesses the document language from a text sample using a coarse
// majority-script heuristic. It is not a language identifier: Japanese is
// reported before Chinese because kana is unambiguous while ideographs are
// shared, and traditional Chinese is never auto-selected.
func Detect(sample string) string {
	var japanese, chinese, korean, alphabetic int

	for _, r := range sample {
		if isHiraganaKatakana(r) || isCJKIdeograph(r) {
			japanese++
		}
		if isCJKIdeograph(r) {
			chinese++
		}
		if isHangul(r) {
			korean++
		}
		if unicode.IsLetter(r) {
			alphabetic++
		}
	}

	if alphabetic == 0 {
		return "english"
	}

	total := float64(alphabetic)
	switch {
	case float64(japanese)/total > detectThreshold:
		return "japanese"
	case float64(korean)/total > detectThreshold:
		return "korean"
	case float64(chinese)/total > detectThreshold:
		return "chinese_simplified"
	default:
		return "english"
	}
}
