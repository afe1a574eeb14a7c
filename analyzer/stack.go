package analyzer

import (
	"io"
	"strings"
)

// AffixKind - способ, которым аффикс присоединен к разбору.
type AffixKind uint8

const (
	// AffixKnown - известный продуктивный префикс ("авиа", "анти").
	AffixKnown AffixKind = iota
	// AffixUnknownPrefix - неизвестный префикс ("байт" в "байткод").
	AffixUnknownPrefix
	// AffixUnknownSuffix - слово угадано по окончанию: неизвестная основа Part
	// заменяет основу Replaced словоформы-образца.
	AffixUnknownSuffix
)

// Affix - описание аффикса вокруг вложенного разбора.
type Affix struct {
	Kind     AffixKind
	Part     string
	Replaced string // Только для AffixUnknownSuffix.
}

// KnownPrefix создает аффикс известного префикса.
func KnownPrefix(prefix string) *Affix { return &Affix{Kind: AffixKnown, Part: prefix} }

// UnknownPrefix создает аффикс неизвестного префикса.
func UnknownPrefix(prefix string) *Affix { return &Affix{Kind: AffixUnknownPrefix, Part: prefix} }

// UnknownSuffix создает аффикс замены основы: stem вместо templateStem.
func UnknownSuffix(stem, templateStem string) *Affix {
	return &Affix{Kind: AffixUnknownSuffix, Part: stem, Replaced: templateStem}
}

// apply переносит аффикс на словоформу вложенного разбора.
// Для замены основы форма без основы образца возвращается как есть.
func (a *Affix) apply(inner string) string {
	if a.Kind == AffixUnknownSuffix {
		rest, ok := strings.CutPrefix(inner, a.Replaced)
		if !ok {
			return inner
		}
		return a.Part + rest
	}
	return a.Part + inner
}

// clone копирует аффикс, чтобы каждый узел владел своим.
func (a *Affix) clone() *Affix {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// StackAffix - терминальный узел, возможно обернутый аффиксом.
// Узел единолично владеет вложенным источником.
type StackAffix struct {
	Source StackSource
	Affix  *Affix
}

func (s StackAffix) Score() Score { return s.Source.Score() }
func (s StackAffix) IsLemma() bool { return s.Source.IsLemma() }

// IsKnown: разбор с аффиксом всегда догадка.
func (s StackAffix) IsKnown() bool { return s.Affix == nil && s.Source.IsKnown() }

func (s StackAffix) Word() string {
	if s.Affix == nil {
		return s.Source.Word()
	}
	return s.Affix.apply(s.Source.Word())
}

func (s StackAffix) NormalForm(m *MorphAnalyzer) string {
	nf := s.Source.NormalForm(m)
	if s.Affix == nil {
		return nf
	}
	if s.suppletiveLemma(m) {
		return s.Word()
	}
	return s.Affix.apply(nf)
}

// suppletiveLemma: лемма образца не начинается с заменяемой основы,
// и аналогия по окончанию для лексемы не работает. Слово тогда само себе лемма.
func (s StackAffix) suppletiveLemma(m *MorphAnalyzer) bool {
	return s.Affix != nil && s.Affix.Kind == AffixUnknownSuffix &&
		!strings.HasPrefix(s.Source.NormalForm(m), s.Affix.Replaced)
}

func (s StackAffix) Tag(m *MorphAnalyzer) (*Tag, error) { return s.Source.Tag(m) }

func (s StackAffix) ParadigmID() (ParadigmID, bool) { return s.Source.ParadigmID() }

func (s StackAffix) WriteWord(w io.StringWriter) error { return writeString(w, s.Word()) }

func (s StackAffix) WriteNormalForm(w io.StringWriter, m *MorphAnalyzer) error {
	return writeString(w, s.NormalForm(m))
}

// Lexeme переносит аффикс на каждую форму вложенной лексемы.
// При замене основы формы без основы образца пропускаются,
// а при супплетивной лемме образца лексема состоит из самого слова.
func (s StackAffix) Lexeme(m *MorphAnalyzer) []Lex {
	inner := s.Source.Lexeme(m)
	if s.Affix == nil {
		return inner
	}
	if s.suppletiveLemma(m) {
		return []Lex{m.lexFromStack(StackHyphenated{Left: *s.clone()})}
	}
	lexeme := make([]Lex, 0, len(inner))
	for _, lex := range inner {
		src := lex.Stack.Left.Source
		if s.Affix.Kind == AffixUnknownSuffix && !strings.HasPrefix(src.Word(), s.Affix.Replaced) {
			continue
		}
		lexeme = append(lexeme, m.lexFromStack(StackHyphenated{
			Left: StackAffix{Source: src, Affix: s.Affix.clone()},
		}))
	}
	if len(lexeme) == 0 {
		return []Lex{m.lexFromStack(StackHyphenated{Left: *s.clone()})}
	}
	return lexeme
}

func (s StackAffix) Lemma(m *MorphAnalyzer) Lex { return firstLex(s.Lexeme(m)) }

func (s *StackAffix) clone() *StackAffix {
	if s == nil {
		return nil
	}
	return &StackAffix{Source: cloneSource(s.Source), Affix: s.Affix.clone()}
}

// StackHyphenated - вершина стека: левая часть и, возможно, правая часть
// через дефис. Без правой части узел прозрачен и ведет себя как левая часть.
type StackHyphenated struct {
	Left  StackAffix
	Right *StackAffix
}

// rightIsParticle сообщает, что правая часть - неизменяемая частица.
// Грамматика такого слова определяется левой частью ("кого-то" - как "кого").
func (s StackHyphenated) rightIsParticle() bool {
	if s.Right == nil || s.Right.Affix != nil {
		return false
	}
	_, ok := s.Right.Source.(*HyphenParticle)
	return ok
}

// Score: у частей через дефис оценки перемножаются, вид берется от левой части.
func (s StackHyphenated) Score() Score {
	if s.Right == nil {
		return s.Left.Score()
	}
	return s.Left.Score().Mul(s.Right.Score().Value)
}

func (s StackHyphenated) IsLemma() bool {
	if s.Right == nil {
		return s.Left.IsLemma()
	}
	return s.Left.IsLemma() && s.Right.IsLemma()
}

func (s StackHyphenated) IsKnown() bool {
	if s.Right == nil {
		return s.Left.IsKnown()
	}
	return s.Left.IsKnown() && s.Right.IsKnown()
}

func (s StackHyphenated) Word() string {
	if s.Right == nil {
		return s.Left.Word()
	}
	var b strings.Builder
	_ = s.WriteWord(&b)
	return b.String()
}

func (s StackHyphenated) NormalForm(m *MorphAnalyzer) string {
	if s.Right == nil {
		return s.Left.NormalForm(m)
	}
	var b strings.Builder
	_ = s.WriteNormalForm(&b, m)
	return b.String()
}

// Tag определен только для слова без правой части или с частицей справа.
// Для двух изменяемых частей возвращается ErrUnsupportedCompound.
func (s StackHyphenated) Tag(m *MorphAnalyzer) (*Tag, error) {
	if s.Right == nil || s.rightIsParticle() {
		return s.Left.Tag(m)
	}
	return nil, ErrUnsupportedCompound
}

func (s StackHyphenated) ParadigmID() (ParadigmID, bool) {
	if s.Right == nil || s.rightIsParticle() {
		return s.Left.ParadigmID()
	}
	return 0, false
}

func (s StackHyphenated) WriteWord(w io.StringWriter) error {
	if err := s.Left.WriteWord(w); err != nil {
		return err
	}
	if s.Right == nil {
		return nil
	}
	if err := writeString(w, "-"); err != nil {
		return err
	}
	return s.Right.WriteWord(w)
}

func (s StackHyphenated) WriteNormalForm(w io.StringWriter, m *MorphAnalyzer) error {
	if err := s.Left.WriteNormalForm(w, m); err != nil {
		return err
	}
	if s.Right == nil {
		return nil
	}
	if err := writeString(w, "-"); err != nil {
		return err
	}
	return s.Right.WriteNormalForm(w, m)
}

// Lexeme: частица справа сохраняется у каждой формы левой части.
// Слово из двух изменяемых частей считается неизменяемым.
func (s StackHyphenated) Lexeme(m *MorphAnalyzer) []Lex {
	if s.Right != nil && !s.rightIsParticle() {
		return []Lex{m.lexFromStack(StackHyphenated{Left: *s.Left.clone(), Right: s.Right.clone()})}
	}
	left := s.Left.Lexeme(m)
	lexeme := make([]Lex, 0, len(left))
	for _, lex := range left {
		lexeme = append(lexeme, m.lexFromStack(StackHyphenated{
			Left:  lex.Stack.Left,
			Right: s.Right.clone(),
		}))
	}
	return lexeme
}

func (s StackHyphenated) Lemma(m *MorphAnalyzer) Lex { return firstLex(s.Lexeme(m)) }

var (
	_ Source = StackAffix{}
	_ Source = StackHyphenated{}
	_ Source = (*Dictionary)(nil)
	_ Source = (*Shaped)(nil)
	_ Source = (*Unknown)(nil)
	_ Source = (*HyphenParticle)(nil)
)
