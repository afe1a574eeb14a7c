package analyzer

// Unit - один анализатор конвейера разбора.
//
// Parse добавляет в result ноль или больше разборов, пропуская уже виденные
// через seen. Удалять или переставлять существующие разборы нельзя.
// word - исходное слово, wordLower - оно же в нижнем регистре.
type Unit interface {
	Name() string
	Parse(m *MorphAnalyzer, result *ParseResult, word, wordLower string, seen SeenSet)
}

// DefaultUnits - стандартный конвейер. Порядок важен: UnknownAnalyzer
// срабатывает, только если все предыдущие ничего не нашли, поэтому идет последним.
func DefaultUnits(dict *DictionaryAnalyzer, cfg Config) []Unit {
	return []Unit{
		dict,
		&NumberAnalyzer{},
		&PunctuationAnalyzer{},
		&RomanAnalyzer{},
		&LatinAnalyzer{},
		&HyphenParticleAnalyzer{
			Dictionary: dict,
			Particles:  DefaultParticles,
			Decay:      cfg.ParticleDecay,
		},
		&KnownPrefixAnalyzer{
			Dictionary:  dict,
			Prefixes:    DefaultKnownPrefixes,
			Decay:       cfg.KnownPrefixDecay,
			MinReminder: cfg.MinReminder,
		},
		&UnknownPrefixAnalyzer{
			Dictionary:      dict,
			Decay:           cfg.UnknownPrefixDecay,
			MinReminder:     cfg.MinReminder,
			MaxPrefixLength: cfg.MaxPrefixLength,
		},
		&KnownSuffixAnalyzer{Decay: cfg.KnownSuffixDecay},
		&UnknownAnalyzer{},
	}
}

// DictionaryAnalyzer ищет слово в словаре. Оценка разбора - доля частоты
// этой формы среди всех разборов того же слова.
type DictionaryAnalyzer struct{}

func (*DictionaryAnalyzer) Name() string { return "dictionary" }

func (*DictionaryAnalyzer) Parse(m *MorphAnalyzer, result *ParseResult, _, wordLower string, seen SeenSet) {
	infos := m.lookup(wordLower)
	if len(infos) == 0 {
		return
	}

	var total float64
	for _, info := range infos {
		total += float64(info.Frequency)
	}

	for _, info := range infos {
		score := Real(1.0 / float64(len(infos)))
		if total > 0 {
			score = Real(float64(info.Frequency) / total)
		}
		lex := m.lexFromSource(&Dictionary{
			WordLower: wordLower,
			Paradigm:  info.ParadigmID,
			FormIdx:   info.FormIdx,
			TagsID:    info.TagsID,
		})
		addParsedIfNotSeen(result, seen, NewParsed(lex, score))
	}
}

// UnknownAnalyzer - последний анализатор: если никто ничего не нашел,
// слово помечается как неизвестное (UNKN).
type UnknownAnalyzer struct{}

func (*UnknownAnalyzer) Name() string { return "unknown" }

func (*UnknownAnalyzer) Parse(m *MorphAnalyzer, result *ParseResult, _, wordLower string, seen SeenSet) {
	if !seen.IsEmpty() {
		return
	}
	src := &Unknown{WordLower: wordLower}
	addParsedIfNotSeen(result, seen, NewParsed(m.lexFromSource(src), src.Score()))
}

var (
	_ Unit = (*DictionaryAnalyzer)(nil)
	_ Unit = (*UnknownAnalyzer)(nil)
	_ Unit = (*NumberAnalyzer)(nil)
	_ Unit = (*PunctuationAnalyzer)(nil)
	_ Unit = (*RomanAnalyzer)(nil)
	_ Unit = (*LatinAnalyzer)(nil)
	_ Unit = (*HyphenParticleAnalyzer)(nil)
	_ Unit = (*KnownPrefixAnalyzer)(nil)
	_ Unit = (*UnknownPrefixAnalyzer)(nil)
	_ Unit = (*KnownSuffixAnalyzer)(nil)
)
