package analyzer

import (
	"iter"
	"unicode/utf8"
)

const (
	// DefaultMinReminder - минимальная длина остатка слова (в символах).
	DefaultMinReminder = 3
	// DefaultMaxPrefixLength - максимальная длина отрезаемого префикса.
	DefaultMaxPrefixLength = 5
)

// WordSplits возвращает все разбиения слова на (префикс, остаток),
// начиная с префикса из одного символа. Разбиения идут по границам рун,
// а не байт. Остаток всегда не короче minReminder символов,
// префикс не длиннее maxPrefixLength символов.
// Последовательность ленивая, и её можно обходить повторно.
func WordSplits(word string, minReminder, maxPrefixLength int) iter.Seq2[string, string] {
	charLen := utf8.RuneCountInString(word)
	maxSplit := 0
	if charLen > minReminder {
		maxSplit = min(maxPrefixLength, charLen-minReminder)
	}

	return func(yield func(string, string) bool) {
		pos := 0
		for range maxSplit {
			_, size := utf8.DecodeRuneInString(word[pos:])
			pos += size
			if !yield(word[:pos], word[pos:]) {
				return
			}
		}
	}
}
