package analyzer

// Анализаторы формы слова не обращаются к словарю: они узнают числа,
// латиницу, знаки препинания и римские числа по написанию.

// addShaped добавляет разбор формы слова с её фиксированной оценкой.
func addShaped(m *MorphAnalyzer, result *ParseResult, seen SeenSet, wordLower string, kind ShapeKind) {
	src := &Shaped{WordLower: wordLower, Kind: kind}
	addParsedIfNotSeen(result, seen, NewParsed(m.lexFromSource(src), src.Score()))
}

// NumberAnalyzer помечает числа: "42" - NUMB,intg; "3.14" - NUMB,real.
// Не путать с числительными: "тридцать" разбирает словарь.
type NumberAnalyzer struct{}

func (*NumberAnalyzer) Name() string { return "number" }

func (*NumberAnalyzer) Parse(m *MorphAnalyzer, result *ParseResult, _, wordLower string, seen SeenSet) {
	switch {
	case IsInteger(wordLower):
		addShaped(m, result, seen, wordLower, ShapeInteger)
	case IsRealNumber(wordLower):
		addShaped(m, result, seen, wordLower, ShapeReal)
	}
}

// PunctuationAnalyzer помечает знаки препинания тегом PNCT.
type PunctuationAnalyzer struct{}

func (*PunctuationAnalyzer) Name() string { return "punctuation" }

func (*PunctuationAnalyzer) Parse(m *MorphAnalyzer, result *ParseResult, _, wordLower string, seen SeenSet) {
	if IsPunctuation(wordLower) {
		addShaped(m, result, seen, wordLower, ShapePunctuation)
	}
}

// RomanAnalyzer помечает римские числа тегом ROMN.
type RomanAnalyzer struct{}

func (*RomanAnalyzer) Name() string { return "roman" }

func (*RomanAnalyzer) Parse(m *MorphAnalyzer, result *ParseResult, _, wordLower string, seen SeenSet) {
	if IsRomanNumber(wordLower) {
		addShaped(m, result, seen, wordLower, ShapeRoman)
	}
}

// LatinAnalyzer помечает слова латиницей тегом LATN.
type LatinAnalyzer struct{}

func (*LatinAnalyzer) Name() string { return "latin" }

func (*LatinAnalyzer) Parse(m *MorphAnalyzer, result *ParseResult, _, wordLower string, seen SeenSet) {
	if IsLatin(wordLower) {
		addShaped(m, result, seen, wordLower, ShapeLatin)
	}
}
