package language

// Threshold presets shared by the profile constructors. Latin-script
// languages and CJK/Hangul languages need different OCR settings: denser
// scripts get a higher raster zoom, looser grouping tolerances, and lower
// confidence floors.
const (
	latinZoom           = 3
	latinLineTolerance  = 12
	latinWordConfidence = 30
	latinLineLength     = 2
	latinLineConfidence = 25
	latinHeadingLength  = 3
	latinAcceptFloor    = 0.25

	cjkZoom           = 4
	cjkLineTolerance  = 15
	cjkWordConfidence = 20
	cjkLineLength     = 1
	cjkLineConfidence = 20
	cjkHeadingLength  = 1
	cjkAcceptFloor    = 0.20
)

func defaultThresholds() map[Level]float64 {
	return map[Level]float64{
		LevelTitle: 16,
		LevelH1:    14,
		LevelH2:    12,
		LevelH3:    10,
	}
}

func applyLatinSettings(p *Profile) *Profile {
	p.ZoomFactor = latinZoom
	p.LineTolerance = latinLineTolerance
	p.MinWordConfidence = latinWordConfidence
	p.MinLineLength = latinLineLength
	p.MinLineConfidence = latinLineConfidence
	p.MinHeadingLength = latinHeadingLength
	p.AcceptConfidence = latinAcceptFloor
	return p
}

func applyCJKSettings(p *Profile) *Profile {
	p.ZoomFactor = cjkZoom
	p.LineTolerance = cjkLineTolerance
	p.MinWordConfidence = cjkWordConfidence
	p.MinLineLength = cjkLineLength
	p.MinLineConfidence = cjkLineConfidence
	p.MinHeadingLength = cjkHeadingLength
	p.AcceptConfidence = cjkAcceptFloor
	p.DenseScript = true
	return p
}

func englishRules() []Rule {
	return []Rule{
		// Chapter markers
		mustRule(`^(Chapter|CHAPTER)\s+(\d+|[IVX]+)[:.]?\s*(.+)`, LevelH1, 0.9),
		mustRule(`^([IVX]+\.)\s+(.+)`, LevelH1, 0.85),
		mustRule(`^(\d+\.)\s+([A-Z].*)`, LevelH1, 0.8),

		// Numbered sections
		mustRule(`^(\d+\.\d+)\s+(.+)`, LevelH2, 0.8),
		mustRule(`^([A-Z]\.|[a-z]\.)\s+(.+)`, LevelH2, 0.7),
		mustRule(`^(\d+\.\d+\.\d+)\s+(.+)`, LevelH3, 0.75),

		// Subsection markers and bullets
		mustRule(`^([a-z]\)|[A-Z]\)|\d+\))\s+(.+)`, LevelH3, 0.6),
		mustRule(`^(•|\*|-|\+)\s+(.+)`, LevelH3, 0.5),

		// All-caps title lines
		mustRule(`^[A-Z\s\d]{8,}$`, LevelTitle, 0.7),
		mustRule(`^[A-Z][A-Z\s\d:,-]{10,}$`, LevelTitle, 0.6),

		// Common section vocabulary
		mustRule(`\b(education|experience|projects|skills|technical|summary|objective)\b`, LevelH1, 0.6),
		mustRule(`\b(introduction|overview|conclusion|abstract)\b`, LevelH1, 0.5),
	}
}

func englishProfile() *Profile {
	p := &Profile{
		Name:           "english",
		EngineCode:     "eng",
		Rules:          englishRules(),
		FontThresholds: defaultThresholds(),
		CharWhitelist: `ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz` +
			`0123456789.,!?:;()[]{}/-'"@ `,
	}
	return applyLatinSettings(p)
}

func japaneseProfile() *Profile {
	p := &Profile{
		Name:       "japanese",
		EngineCode: "jpn",
		Rules: []Rule{
			// Chapter and numbered section markers
			mustRule(`^(第|だい)[0-9０-９一二三四五六七八九十百]+[章節][:：]?\s*(.*)`, LevelH1, 0.9),
			mustRule(`^[0-9０-９]+[\.．]\s*(.+)`, LevelH1, 0.8),
			mustRule(`^[0-9０-９]+[\.．][0-9０-９]+[\.．]\s*(.+)`, LevelH2, 0.8),
			mustRule(`^[0-9０-９]+[\.．][0-9０-９]+[\.．][0-9０-９]+[\.．]\s*(.+)`, LevelH3, 0.75),

			// Bullet glyphs and circled numerals
			mustRule(`^[・●○◎◆▲■□△▽▼▶◀▮☆★※]\s*(.+)`, LevelH3, 0.6),
			mustRule(`^[①②③④⑤⑥⑦⑧⑨⑩]\s*(.+)`, LevelH3, 0.6),

			// Common heading vocabulary
			mustRule(`^(目次|もくじ|概要|がいよう|はじめに|終わりに|まとめ|結論|けつろん)`, LevelH1, 0.8),
			mustRule(`^(序論|本論|結論|序文|まえがき|あとがき)`, LevelH1, 0.7),
			mustRule(`^(背景|目的|方法|結果|考察|参考文献)`, LevelH1, 0.6),

			// Long kana/kanji runs as titles
			mustRule(`^[ァ-ヶー一-龯]{8,}$`, LevelTitle, 0.6),
		},
		FontThresholds: defaultThresholds(),
		CharWhitelist: `あいうえおかきくけこさしすせそたちつてとなにぬねのはひふへほまみむめもやゆよらりるれろわをん` +
			`アイウエオカキクケコサシスセソタチツテトナニヌネノハヒフヘホマミムメモヤユヨラリルレロワヲン` +
			`一二三四五六七八九十百千万億兆` +
			`0123456789０１２３４５６７８９` +
			`.,!?:;()[]{}/-'"@・ー～｜「」『』【】〈〉《》〔〕（）｛｝ `,
		ConcatenateTokens: true,
	}
	return applyCJKSettings(p)
}

func chineseProfile(name, code string) *Profile {
	p := &Profile{
		Name:       name,
		EngineCode: code,
		Rules: []Rule{
			// Chapter and numbered section markers
			mustRule(`^第[0-9一二三四五六七八九十百千万]+[章节部分]\s*(.*)`, LevelH1, 0.9),
			mustRule(`^[0-9]+[\.．]\s*(.+)`, LevelH1, 0.8),
			mustRule(`^[0-9]+[\.．][0-9]+[\.．]\s*(.+)`, LevelH2, 0.8),

			// Bullet glyphs
			mustRule(`^[·•○●◎◆▲■□△▽▼]\s*(.+)`, LevelH3, 0.6),

			// Common heading vocabulary
			mustRule(`^(目录|概述|概要|前言|序言|结论|总结|参考文献)`, LevelH1, 0.8),
			mustRule(`^(背景|目的|方法|结果|讨论|分析)`, LevelH1, 0.6),
		},
		FontThresholds: defaultThresholds(),
		CharWhitelist: `一二三四五六七八九十百千万亿` +
			`0123456789` +
			`.,!?:;()[]{}/-'"@·～｜「」『』【】〈〉《》〔〕（）｛｝ `,
		ConcatenateTokens: true,
	}
	return applyCJKSettings(p)
}

func koreanProfile() *Profile {
	p := &Profile{
		Name:       "korean",
		EngineCode: "kor",
		Rules: []Rule{
			// Chapter and numbered section markers
			mustRule(`^제[0-9]+[장절부]\s*(.*)`, LevelH1, 0.9),
			mustRule(`^[0-9]+[\.]\s*(.+)`, LevelH1, 0.8),
			mustRule(`^[0-9]+[\.][0-9]+[\.]\s*(.+)`, LevelH2, 0.8),

			// Bullet glyphs
			mustRule(`^[·•○●◎◆▲■□△▽▼]\s*(.+)`, LevelH3, 0.6),

			// Common heading vocabulary
			mustRule(`^(목차|개요|서론|결론|요약|참고문헌)`, LevelH1, 0.8),
			mustRule(`^(배경|목적|방법|결과|논의|분석)`, LevelH1, 0.6),
		},
		FontThresholds: defaultThresholds(),
		CharWhitelist: `ㄱㄴㄷㄹㅁㅂㅅㅇㅈㅊㅋㅌㅍㅎㅏㅑㅓㅕㅗㅛㅜㅠㅡㅣ가나다라마바사아자차카타파하` +
			`0123456789` +
			`.,!?:;()[]{}/-'"@ `,
		// Korean text keeps spaces between words.
		ConcatenateTokens: false,
	}
	return applyCJKSettings(p)
}

// defaultProfile serves languages without a dedicated rule set: English
// rules and thresholds with the language's own engine code. The whitelist
// is left empty so Tesseract uses its full character set for the script.
func defaultProfile(name, code string) *Profile {
	p := &Profile{
		Name:           name,
		EngineCode:     code,
		Rules:          englishRules(),
		FontThresholds: defaultThresholds(),
	}
	return applyLatinSettings(p)
}
