package analyzer

import (
	"io"
)

// StackSource - терминальный узел стека: словарная форма, форма слова,
// неизвестное слово или частица через дефис. Набор вариантов закрыт.
type StackSource interface {
	Source
	isStackSource()
}

// Dictionary - словоформа, найденная в словаре.
type Dictionary struct {
	WordLower string
	Paradigm  ParadigmID
	FormIdx   uint16 // Индекс в канонической лексеме парадигмы, 0 - лемма.
	TagsID    uint32
}

// ShapeKind - вид формы слова, распознанной без словаря.
type ShapeKind uint8

const (
	ShapeLatin ShapeKind = iota
	ShapeInteger
	ShapeReal
	ShapePunctuation
	ShapeRoman
)

// Shaped - слово, распознанное по написанию (латиница, число, знаки, римское число).
type Shaped struct {
	WordLower string
	Kind      ShapeKind
}

// Unknown - слово, о котором ничего не удалось выяснить.
type Unknown struct {
	WordLower string
}

// HyphenParticle - частица, присоединенная через дефис ("то" в "кто-то").
type HyphenParticle struct {
	Particle string
}

func (*Dictionary) isStackSource() {}
func (*Shaped) isStackSource() {}
func (*Unknown) isStackSource() {}
func (*HyphenParticle) isStackSource() {}

// --- Dictionary ---

func (d *Dictionary) Score() Score { return Real(1.0) }
func (d *Dictionary) IsLemma() bool { return d.FormIdx == 0 }
func (d *Dictionary) IsKnown() bool { return true }
func (d *Dictionary) Word() string { return d.WordLower }

func (d *Dictionary) NormalForm(m *MorphAnalyzer) string {
	if lemma, ok := m.lemmaOf(d.Paradigm); ok {
		return lemma
	}
	return d.WordLower
}

func (d *Dictionary) Tag(m *MorphAnalyzer) (*Tag, error) { return m.tagByID(d.TagsID) }

func (d *Dictionary) ParadigmID() (ParadigmID, bool) { return d.Paradigm, true }

func (d *Dictionary) WriteWord(w io.StringWriter) error { return writeString(w, d.WordLower) }

func (d *Dictionary) WriteNormalForm(w io.StringWriter, m *MorphAnalyzer) error {
	return writeString(w, d.NormalForm(m))
}

// Lexeme строит словоформы парадигмы обходом словаря от её основ.
func (d *Dictionary) Lexeme(m *MorphAnalyzer) []Lex {
	forms := m.paradigmForms(d.Paradigm)
	if len(forms) == 0 {
		return []Lex{m.lexFromSource(cloneSource(d))}
	}
	lexeme := make([]Lex, 0, len(forms))
	for i, f := range forms {
		lexeme = append(lexeme, m.lexFromSource(&Dictionary{
			WordLower: f.Word,
			Paradigm:  d.Paradigm,
			FormIdx:   uint16(i),
			TagsID:    f.TagsID,
		}))
	}
	return lexeme
}

func (d *Dictionary) Lemma(m *MorphAnalyzer) Lex { return firstLex(d.Lexeme(m)) }

// --- Shaped ---

// shapeScore - эвристическая уверенность анализаторов формы слова.
const shapeScore = 0.9

func (s *Shaped) Score() Score { return Fake(shapeScore) }
func (s *Shaped) IsLemma() bool { return true }
func (s *Shaped) IsKnown() bool { return true }
func (s *Shaped) Word() string { return s.WordLower }

func (s *Shaped) NormalForm(*MorphAnalyzer) string { return s.WordLower }

func (s *Shaped) Tag(m *MorphAnalyzer) (*Tag, error) { return m.shapeTag(s.Kind), nil }

func (s *Shaped) ParadigmID() (ParadigmID, bool) { return 0, false }

func (s *Shaped) WriteWord(w io.StringWriter) error { return writeString(w, s.WordLower) }

func (s *Shaped) WriteNormalForm(w io.StringWriter, _ *MorphAnalyzer) error {
	return writeString(w, s.WordLower)
}

func (s *Shaped) Lexeme(m *MorphAnalyzer) []Lex { return []Lex{m.lexFromSource(cloneSource(s))} }
func (s *Shaped) Lemma(m *MorphAnalyzer) Lex { return m.lexFromSource(cloneSource(s)) }

// --- Unknown ---

func (u *Unknown) Score() Score { return Fake(1.0) }

// IsLemma: если мы не выяснили, как слово изменяется, считаем его неизменяемым.
func (u *Unknown) IsLemma() bool { return true }
func (u *Unknown) IsKnown() bool { return false }
func (u *Unknown) Word() string { return u.WordLower }

func (u *Unknown) NormalForm(*MorphAnalyzer) string { return u.WordLower }

func (u *Unknown) Tag(m *MorphAnalyzer) (*Tag, error) { return m.tagUnknown, nil }

func (u *Unknown) ParadigmID() (ParadigmID, bool) { return 0, false }

func (u *Unknown) WriteWord(w io.StringWriter) error { return writeString(w, u.WordLower) }

func (u *Unknown) WriteNormalForm(w io.StringWriter, _ *MorphAnalyzer) error {
	return writeString(w, u.WordLower)
}

func (u *Unknown) Lexeme(m *MorphAnalyzer) []Lex { return []Lex{m.lexFromSource(cloneSource(u))} }
func (u *Unknown) Lemma(m *MorphAnalyzer) Lex { return m.lexFromSource(cloneSource(u)) }

// --- HyphenParticle ---

func (p *HyphenParticle) Score() Score { return Fake(1.0) }
func (p *HyphenParticle) IsLemma() bool { return true }
func (p *HyphenParticle) IsKnown() bool { return true }
func (p *HyphenParticle) Word() string { return p.Particle }

func (p *HyphenParticle) NormalForm(*MorphAnalyzer) string { return p.Particle }

func (p *HyphenParticle) Tag(m *MorphAnalyzer) (*Tag, error) { return m.tagParticle, nil }

func (p *HyphenParticle) ParadigmID() (ParadigmID, bool) { return 0, false }

func (p *HyphenParticle) WriteWord(w io.StringWriter) error { return writeString(w, p.Particle) }

func (p *HyphenParticle) WriteNormalForm(w io.StringWriter, _ *MorphAnalyzer) error {
	return writeString(w, p.Particle)
}

func (p *HyphenParticle) Lexeme(m *MorphAnalyzer) []Lex { return []Lex{m.lexFromSource(cloneSource(p))} }
func (p *HyphenParticle) Lemma(m *MorphAnalyzer) Lex { return m.lexFromSource(cloneSource(p)) }

// cloneSource копирует терминальный узел, чтобы новый стек им владел.
func cloneSource(src StackSource) StackSource {
	switch s := src.(type) {
	case *Dictionary:
		c := *s
		return &c
	case *Shaped:
		c := *s
		return &c
	case *Unknown:
		c := *s
		return &c
	case *HyphenParticle:
		c := *s
		return &c
	}
	return src
}
