package analyzer

import (
	"cmp"
	"encoding/json"
	"slices"
)

// Lex - один вариант разбора: стек вывода вместе со словарем,
// в контексте которого он интерпретируется. Словарь Lex не принадлежит.
type Lex struct {
	Stack StackHyphenated
	morph *MorphAnalyzer
}

func (m *MorphAnalyzer) lexFromStack(stack StackHyphenated) Lex {
	return Lex{Stack: stack, morph: m}
}

func (m *MorphAnalyzer) lexFromSource(src StackSource) Lex {
	return Lex{Stack: StackHyphenated{Left: StackAffix{Source: src}}, morph: m}
}

func (l Lex) Score() Score { return l.Stack.Score() }
func (l Lex) IsLemma() bool { return l.Stack.IsLemma() }
func (l Lex) IsKnown() bool { return l.Stack.IsKnown() }
func (l Lex) Word() string { return l.Stack.Word() }
func (l Lex) NormalForm() string { return l.Stack.NormalForm(l.morph) }
func (l Lex) Tag() (*Tag, error) { return l.Stack.Tag(l.morph) }
func (l Lex) ParadigmID() (ParadigmID, bool) { return l.Stack.ParadigmID() }
func (l Lex) Lexeme() []Lex { return l.Stack.Lexeme(l.morph) }
func (l Lex) Lemma() Lex { return l.Stack.Lemma(l.morph) }

// Encode возвращает внешнее текстовое представление стека.
func (l Lex) Encode() string { return Encode(l.Stack) }

func (l Lex) String() string { return l.Encode() }

// AsSeen строит ключ дедупликации разбора.
func (l Lex) AsSeen() Seen {
	seen := Seen{Word: l.Word()}
	if tag, err := l.Tag(); err == nil {
		seen.Tags = tag.Tags
	}
	seen.ParadigmID, seen.HasParadigm = l.ParadigmID()
	return seen
}

// Parsed - вариант разбора с оценкой.
type Parsed struct {
	Lex   Lex
	Score Score
}

// NewParsed связывает разбор с оценкой.
func NewParsed(lex Lex, score Score) Parsed { return Parsed{Lex: lex, Score: score} }

// parsedJSON - плоское представление разбора для JSON.
type parsedJSON struct {
	Word  string `json:"word"`  // Исходное слово
	Lemma string `json:"lemma"` // Нормальная форма (лемма)
	*Tag
	Score     float64 `json:"score"`
	FakeScore bool    `json:"fake_score,omitempty"`
	Known     bool    `json:"known"`
	Stack     string  `json:"stack"` // Стек вывода в текстовом виде
}

// MarshalJSON раскладывает тег по категориям, как это удобно клиентам.
// Для составного слова без определенного тега категории остаются пустыми.
func (p Parsed) MarshalJSON() ([]byte, error) {
	tag, err := p.Lex.Tag()
	if err != nil {
		tag = &Tag{OtherTags: GrammemeSet{}}
	}
	return json.Marshal(parsedJSON{
		Word:      p.Lex.Word(),
		Lemma:     p.Lex.NormalForm(),
		Tag:       tag,
		Score:     p.Score.Value,
		FakeScore: p.Score.IsFake(),
		Known:     p.Lex.IsKnown(),
		Stack:     p.Lex.Encode(),
	})
}

// ParseResult - упорядоченный по вставке список вариантов разбора слова.
type ParseResult []Parsed

// Push добавляет разбор в конец списка.
func (r *ParseResult) Push(p Parsed) { *r = append(*r, p) }

// SortByScore стабильно сортирует разборы по убыванию оценки.
func (r ParseResult) SortByScore() {
	slices.SortStableFunc(r, func(a, b Parsed) int {
		return b.Score.Compare(a.Score)
	})
}

// HasKnown сообщает, есть ли среди разборов словарный.
func (r ParseResult) HasKnown() bool {
	return slices.ContainsFunc(r, func(p Parsed) bool { return p.Lex.IsKnown() })
}

// Words возвращает слова разборов в порядке списка.
func (r ParseResult) Words() []string {
	words := make([]string, len(r))
	for i, p := range r {
		words[i] = p.Lex.Word()
	}
	return words
}

// sortLexByWord упорядочивает словоформы по слову, затем по тегам.
func sortLexByWord(forms []Lex) {
	slices.SortStableFunc(forms, func(a, b Lex) int {
		if c := cmp.Compare(a.Word(), b.Word()); c != 0 {
			return c
		}
		return cmp.Compare(a.AsSeen().Tags, b.AsSeen().Tags)
	})
}
