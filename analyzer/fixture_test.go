package analyzer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixtureLexicon - маленький лексикон, на котором собирается тестовый словарь.
var fixtureLexicon = filepath.Join("testdata", "lexicon.txt")

func readFixtureLexicon(tb testing.TB) []Lexeme {
	tb.Helper()
	in, err := os.Open(fixtureLexicon)
	require.NoError(tb, err)
	defer in.Close()

	lexemes, err := ReadLexicon(in)
	require.NoError(tb, err)
	return lexemes
}

// buildFixtureBytes собирает тестовый словарь в память.
func buildFixtureBytes(tb testing.TB) []byte {
	tb.Helper()
	var buf bytes.Buffer
	require.NoError(tb, BuildDictionary(&buf, readFixtureLexicon(tb)))
	return buf.Bytes()
}

// buildFixture собирает тестовый словарь во временный файл.
func buildFixture(tb testing.TB) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), defaultDictName)
	require.NoError(tb, os.WriteFile(path, buildFixtureBytes(tb), 0o644))
	return path
}

// loadFixture загружает тестовый словарь через mmap.
func loadFixture(tb testing.TB) *MorphAnalyzer {
	tb.Helper()
	m, err := Load(buildFixture(tb), DefaultConfig())
	require.NoError(tb, err)
	tb.Cleanup(func() { _ = m.Close() })
	return m
}

// findParse ищет разбор с нужной нормальной формой и частью речи.
func findParse(result ParseResult, lemma, pos string) (Parsed, bool) {
	for _, p := range result {
		tag, err := p.Lex.Tag()
		if err != nil {
			continue
		}
		if p.Lex.NormalForm() == lemma && tag.PartOfSpeech == pos {
			return p, true
		}
	}
	return Parsed{}, false
}

// lexWords возвращает слова словоформ в порядке списка.
func lexWords(forms []Lex) []string {
	words := make([]string, len(forms))
	for i, lex := range forms {
		words[i] = lex.Word()
	}
	return words
}
