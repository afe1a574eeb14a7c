package analyzer

import (
	"errors"
	"io"
)

// ParadigmID - непрозрачный идентификатор парадигмы словаря.
type ParadigmID = uint32

// ErrUnsupportedCompound возвращается при запросе тега у составного слова
// из двух изменяемых частей ("интернет-магазин"): общий тег для таких слов
// не определен.
var ErrUnsupportedCompound = errors.New("тег составного слова не определен")

// Source - общий набор операций любого узла стека разбора,
// как терминального, так и составного.
//
// Все операции только читают узел и словарь. Словарь передается явно
// и не хранится в узлах.
type Source interface {
	// Score - собственная оценка узла.
	Score() Score
	IsLemma() bool
	IsKnown() bool

	Word() string
	NormalForm(m *MorphAnalyzer) string
	Tag(m *MorphAnalyzer) (*Tag, error)
	// ParadigmID возвращает false для узлов без известной парадигмы.
	ParadigmID() (ParadigmID, bool)

	WriteWord(w io.StringWriter) error
	WriteNormalForm(w io.StringWriter, m *MorphAnalyzer) error

	// Lexeme - все словоформы парадигмы узла. Первая из них - лемма.
	Lexeme(m *MorphAnalyzer) []Lex
	Lemma(m *MorphAnalyzer) Lex
}

// writeString пишет строку в w, отбрасывая количество байт.
func writeString(w io.StringWriter, s string) error {
	_, err := w.WriteString(s)
	return err
}

// firstLex возвращает первый элемент лексемы. Лексема никогда не бывает
// пустой: у вырожденных узлов она состоит из самого узла.
func firstLex(lexeme []Lex) Lex {
	return lexeme[0]
}
