package analyzer

import (
	"errors"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var romanNumberRe = regexp.MustCompile(`(?i)^M{0,4}(CM|CD|D?C{0,3})(XC|XL|L?X{0,3})(IX|IV|V?I{0,3})$`)

// IsLatin - слово из латинских букв; допускаются дефис и апостроф.
func IsLatin(word string) bool {
	hasLetter := false
	for _, r := range word {
		switch {
		case unicode.Is(unicode.Latin, r) && unicode.IsLetter(r):
			hasLetter = true
		case r == '-' || r == '\'':
		default:
			return false
		}
	}
	return hasLetter
}

// IsPunctuation - слово целиком из знаков препинания.
func IsPunctuation(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsPunct(r) {
			return false
		}
	}
	return true
}

// IsRomanNumber - непустое римское число (до MMMM).
func IsRomanNumber(word string) bool {
	return word != "" && romanNumberRe.MatchString(word)
}

// IsInteger - десятичное целое число любой длины, возможно со знаком.
func IsInteger(word string) bool {
	if word == "" || word == "+" || word == "-" {
		return false
	}
	_, ok := new(big.Int).SetString(word, 10)
	return ok
}

// IsRealNumber - десятичная запись вещественного числа ("3.14", "-2e10").
// Специальные значения вроде "inf" и "nan" числами не считаются.
func IsRealNumber(word string) bool {
	if !strings.ContainsFunc(word, unicode.IsDigit) {
		return false
	}
	if strings.ContainsFunc(word, func(r rune) bool { return !strings.ContainsRune("0123456789+-.eE", r) }) {
		return false
	}
	_, err := strconv.ParseFloat(word, 64)
	return err == nil || errors.Is(err, strconv.ErrRange)
}
