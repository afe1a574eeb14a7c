package analyzer

import (
	"strings"
	"unicode/utf8"
)

// DefaultKnownPrefixes - продуктивные приставки и первые части сложных слов.
var DefaultKnownPrefixes = []string{
	"авиа", "авто", "агро", "анти", "архи", "астро", "аудио", "био",
	"вело", "видео", "гео", "гидро", "евро", "интер", "квази", "кино",
	"контр", "макро", "медиа", "мега", "метео", "микро", "мини", "мото",
	"моно", "мульти", "нано", "нео", "пост", "псевдо", "радио", "само",
	"сверх", "супер", "теле", "термо", "транс", "ультра", "фото", "экс",
	"эко", "электро", "энерго",
}

// wrapLeft заменяет аффикс левой части разбора.
func wrapLeft(m *MorphAnalyzer, inner Lex, affix *Affix) Lex {
	return m.lexFromStack(StackHyphenated{
		Left: StackAffix{Source: inner.Stack.Left.Source, Affix: affix},
	})
}

// productiveSubParses разбирает остаток слова словарем и оставляет
// только разборы открытых словоизменяемых классов.
func productiveSubParses(m *MorphAnalyzer, dict Unit, rest string) ParseResult {
	var sub ParseResult
	dict.Parse(m, &sub, rest, rest, NewSeenSet())
	productive := sub[:0]
	for _, parsed := range sub {
		tag, err := parsed.Lex.Tag()
		if err != nil || !tag.IsProductive() {
			continue
		}
		productive = append(productive, parsed)
	}
	return productive
}

// UnknownPrefixAnalyzer разбирает слово, отбрасывая неизвестный префикс.
//
// Пример: байткод -> (байт) + код
type UnknownPrefixAnalyzer struct {
	Dictionary      Unit
	Decay           float64
	MinReminder     int
	MaxPrefixLength int
}

func (*UnknownPrefixAnalyzer) Name() string { return "unknown_prefix" }

func (u *UnknownPrefixAnalyzer) Parse(m *MorphAnalyzer, result *ParseResult, _, wordLower string, seen SeenSet) {
	for prefix, rest := range WordSplits(wordLower, u.MinReminder, u.MaxPrefixLength) {
		for _, parsed := range productiveSubParses(m, u.Dictionary, rest) {
			lex := wrapLeft(m, parsed.Lex, UnknownPrefix(prefix))
			addParsedIfNotSeen(result, seen, NewParsed(lex, parsed.Score.Mul(u.Decay)))
		}
	}
}

// KnownPrefixAnalyzer разбирает слово с известной продуктивной приставкой.
//
// Пример: псевдокоролева -> (псевдо) + королева
type KnownPrefixAnalyzer struct {
	Dictionary  Unit
	Prefixes    []string
	Decay       float64
	MinReminder int
}

func (*KnownPrefixAnalyzer) Name() string { return "known_prefix" }

func (u *KnownPrefixAnalyzer) Parse(m *MorphAnalyzer, result *ParseResult, _, wordLower string, seen SeenSet) {
	for _, prefix := range u.Prefixes {
		rest, ok := strings.CutPrefix(wordLower, prefix)
		if !ok || utf8.RuneCountInString(rest) < u.MinReminder {
			continue
		}
		for _, parsed := range productiveSubParses(m, u.Dictionary, rest) {
			lex := wrapLeft(m, parsed.Lex, KnownPrefix(prefix))
			addParsedIfNotSeen(result, seen, NewParsed(lex, parsed.Score.Mul(u.Decay)))
		}
	}
}

// KnownSuffixAnalyzer угадывает несловарное слово по окончанию.
// Для самого длинного известного суффикса берутся правила предсказателя:
// слово склоняется как словоформа-образец, у которой основа заменена.
// Работает, только если словарных разборов еще нет.
type KnownSuffixAnalyzer struct {
	Decay float64
}

func (*KnownSuffixAnalyzer) Name() string { return "known_suffix" }

func (u *KnownSuffixAnalyzer) Parse(m *MorphAnalyzer, result *ParseResult, _, wordLower string, seen SeenSet) {
	if result.HasKnown() {
		return
	}

	candidates := m.findPredictions(wordLower)
	var total float64
	for _, c := range candidates {
		total += float64(c.Frequency)
	}

	for _, c := range candidates {
		forms := m.paradigmForms(c.ParadigmID)
		if int(c.FormIdx) >= len(forms) {
			continue
		}
		template := forms[c.FormIdx]
		suffix := suffixOf(wordLower, c.SuffixLen)
		templateStem, ok := strings.CutSuffix(template.Word, suffix)
		if !ok {
			continue
		}
		stem := strings.TrimSuffix(wordLower, suffix)

		src := &Dictionary{
			WordLower: template.Word,
			Paradigm:  c.ParadigmID,
			FormIdx:   c.FormIdx,
			TagsID:    c.TagsID,
		}
		if tag, err := src.Tag(m); err != nil || !tag.IsProductive() {
			continue
		}

		score := Real(1.0 / float64(len(candidates)))
		if total > 0 {
			score = Real(float64(c.Frequency) / total)
		}
		lex := m.lexFromStack(StackHyphenated{
			Left: StackAffix{Source: src, Affix: UnknownSuffix(stem, templateStem)},
		})
		addParsedIfNotSeen(result, seen, NewParsed(lex, score.Mul(u.Decay)))
	}
}
