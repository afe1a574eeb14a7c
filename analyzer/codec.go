// codec.go реализует текстовую сериализацию стека разбора.
//
// Грамматика:
//
//	token   := "hw:" affixed ";-" affixed | affixed
//	affixed := source [ ";" affix ]
//	source  := "d:" field ";" hex ";" hex ";" hex   (слово, парадигма, индекс формы, теги)
//	         | "s:" field ";" shape                (l, ni, nr, p, r)
//	         | "u:" field
//	         | "hp:" field
//	affix   := "ak:" field | "au:" field | "as:" field ";" field
//
// Поле читается до первой неэкранированной ';'. Внутри поля '\' и ';'
// экранируются обратной косой чертой. Числа записываются в нижнем регистре
// шестнадцатеричной системы без ведущих нулей.
//
// Формат внешний и должен оставаться стабильным между версиями.
package analyzer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Ошибки декодирования.
var (
	// ErrDoesntMatch - вход не начинается с тега данного вида узла.
	// Вызывающий пробует следующий вид.
	ErrDoesntMatch     = errors.New("тег узла не совпадает")
	ErrUnknownPartType = errors.New("неизвестный тип части")
	ErrBadEscape       = errors.New("неверная escape-последовательность")
	ErrUnexpectedEnd   = errors.New("неожиданный конец ввода")
	ErrMalformed       = errors.New("нарушена структура записи")
	ErrBadNumber       = errors.New("неверное число")
	ErrTrailingInput   = errors.New("лишние данные после записи")
)

// DecodeError - ошибка декодирования с позицией (в байтах) во входной строке.
type DecodeError struct {
	Pos int
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("ошибка декодирования в позиции %d: %v", e.Pos, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

const (
	tagHyphenated = "hw:"
	tagHyphenSep  = ";-"
	tagDictionary = "d:"
	tagShaped     = "s:"
	tagUnknown    = "u:"
	tagParticle   = "hp:"
	tagKnown      = "ak:"
	tagUnknownPre = "au:"
	tagUnknownSuf = "as:"
)

var shapeCodes = map[ShapeKind]string{
	ShapeLatin:       "l",
	ShapeInteger:     "ni",
	ShapeReal:        "nr",
	ShapePunctuation: "p",
	ShapeRoman:       "r",
}

var escaper = strings.NewReplacer(`\`, `\\`, `;`, `\;`)

func escape(s string) string { return escaper.Replace(s) }

// --- Кодирование ---

// Encode кодирует стек в строку.
func Encode(s StackHyphenated) string {
	var b strings.Builder
	encodeHyphenated(&b, s)
	return b.String()
}

func encodeHyphenated(b *strings.Builder, s StackHyphenated) {
	if s.Right == nil {
		encodeAffixed(b, s.Left)
		return
	}
	b.WriteString(tagHyphenated)
	encodeAffixed(b, s.Left)
	b.WriteString(tagHyphenSep)
	encodeAffixed(b, *s.Right)
}

func encodeAffixed(b *strings.Builder, s StackAffix) {
	encodeSource(b, s.Source)
	if s.Affix == nil {
		return
	}
	b.WriteByte(';')
	encodeAffix(b, s.Affix)
}

func encodeSource(b *strings.Builder, src StackSource) {
	switch n := src.(type) {
	case *Dictionary:
		b.WriteString(tagDictionary)
		b.WriteString(escape(n.WordLower))
		b.WriteByte(';')
		b.WriteString(strconv.FormatUint(uint64(n.Paradigm), 16))
		b.WriteByte(';')
		b.WriteString(strconv.FormatUint(uint64(n.FormIdx), 16))
		b.WriteByte(';')
		b.WriteString(strconv.FormatUint(uint64(n.TagsID), 16))
	case *Shaped:
		b.WriteString(tagShaped)
		b.WriteString(escape(n.WordLower))
		b.WriteByte(';')
		b.WriteString(shapeCodes[n.Kind])
	case *Unknown:
		b.WriteString(tagUnknown)
		b.WriteString(escape(n.WordLower))
	case *HyphenParticle:
		b.WriteString(tagParticle)
		b.WriteString(escape(n.Particle))
	default:
		panic(fmt.Sprintf("analyzer: неизвестный узел стека %T", src))
	}
}

func encodeAffix(b *strings.Builder, a *Affix) {
	switch a.Kind {
	case AffixKnown:
		b.WriteString(tagKnown)
		b.WriteString(escape(a.Part))
	case AffixUnknownPrefix:
		b.WriteString(tagUnknownPre)
		b.WriteString(escape(a.Part))
	case AffixUnknownSuffix:
		b.WriteString(tagUnknownSuf)
		b.WriteString(escape(a.Part))
		b.WriteByte(';')
		b.WriteString(escape(a.Replaced))
	default:
		panic(fmt.Sprintf("analyzer: неизвестный вид аффикса %d", a.Kind))
	}
}

// --- Декодирование ---

// Decode восстанавливает стек из строки. Строка должна быть прочитана целиком.
func Decode(token string) (StackHyphenated, error) {
	rest, stack, err := decodeHyphenated(token)
	if err == nil && rest != "" {
		err = ErrTrailingInput
	}
	if err != nil {
		return StackHyphenated{}, &DecodeError{Pos: len(token) - len(rest), Err: err}
	}
	return stack, nil
}

// Все функции декодирования возвращают непрочитанный остаток.
// При ошибке остаток указывает на место ошибки.

func decodeHyphenated(s string) (string, StackHyphenated, error) {
	rest, err := follow(s, tagHyphenated)
	if err != nil {
		rest, left, err := decodeAffixed(s)
		return rest, StackHyphenated{Left: left}, err
	}

	rest, left, err := decodeAffixed(rest)
	if err != nil {
		return rest, StackHyphenated{}, err
	}
	if rest, err = expect(rest, tagHyphenSep); err != nil {
		return rest, StackHyphenated{}, err
	}
	rest, right, err := decodeAffixed(rest)
	if err != nil {
		return rest, StackHyphenated{}, err
	}
	return rest, StackHyphenated{Left: left, Right: &right}, nil
}

func decodeAffixed(s string) (string, StackAffix, error) {
	rest, src, err := decodeSource(s)
	if err != nil {
		return rest, StackAffix{}, err
	}
	// ";-" принадлежит составному слову, а не аффиксу.
	if !strings.HasPrefix(rest, ";") || strings.HasPrefix(rest, tagHyphenSep) {
		return rest, StackAffix{Source: src}, nil
	}
	rest, affix, err := decodeAffix(rest[1:])
	if err != nil {
		return rest, StackAffix{}, err
	}
	return rest, StackAffix{Source: src, Affix: affix}, nil
}

// sourceDecoders перебираются по порядку, пока один из них не узнает свой тег.
var sourceDecoders = []func(string) (string, StackSource, error){
	decodeDictionary,
	decodeShaped,
	decodeUnknown,
	decodeParticle,
}

func decodeSource(s string) (string, StackSource, error) {
	if s == "" {
		return s, nil, ErrUnexpectedEnd
	}
	for _, decode := range sourceDecoders {
		rest, src, err := decode(s)
		if errors.Is(err, ErrDoesntMatch) {
			continue
		}
		return rest, src, err
	}
	return s, nil, ErrUnknownPartType
}

func decodeDictionary(s string) (string, StackSource, error) {
	rest, err := follow(s, tagDictionary)
	if err != nil {
		return s, nil, err
	}
	rest, word, err := takeField(rest)
	if err != nil {
		return rest, nil, err
	}
	var nums [3]uint64
	bits := [3]int{32, 16, 32}
	for i := range nums {
		if rest, err = expect(rest, ";"); err != nil {
			return rest, nil, err
		}
		if rest, nums[i], err = takeHex(rest, bits[i]); err != nil {
			return rest, nil, err
		}
	}
	return rest, &Dictionary{
		WordLower: word,
		Paradigm:  ParadigmID(nums[0]),
		FormIdx:   uint16(nums[1]),
		TagsID:    uint32(nums[2]),
	}, nil
}

func decodeShaped(s string) (string, StackSource, error) {
	rest, err := follow(s, tagShaped)
	if err != nil {
		return s, nil, err
	}
	rest, word, err := takeField(rest)
	if err != nil {
		return rest, nil, err
	}
	if rest, err = expect(rest, ";"); err != nil {
		return rest, nil, err
	}
	at := rest
	rest, code, err := takeField(rest)
	if err != nil {
		return rest, nil, err
	}
	for kind, c := range shapeCodes {
		if c == code {
			return rest, &Shaped{WordLower: word, Kind: kind}, nil
		}
	}
	return at, nil, ErrMalformed
}

func decodeUnknown(s string) (string, StackSource, error) {
	rest, err := follow(s, tagUnknown)
	if err != nil {
		return s, nil, err
	}
	rest, word, err := takeField(rest)
	if err != nil {
		return rest, nil, err
	}
	return rest, &Unknown{WordLower: word}, nil
}

func decodeParticle(s string) (string, StackSource, error) {
	rest, err := follow(s, tagParticle)
	if err != nil {
		return s, nil, err
	}
	rest, particle, err := takeField(rest)
	if err != nil {
		return rest, nil, err
	}
	return rest, &HyphenParticle{Particle: particle}, nil
}

func decodeAffix(s string) (string, *Affix, error) {
	kinds := []struct {
		tag  string
		kind AffixKind
	}{
		{tagKnown, AffixKnown},
		{tagUnknownPre, AffixUnknownPrefix},
		{tagUnknownSuf, AffixUnknownSuffix},
	}
	for _, k := range kinds {
		rest, err := follow(s, k.tag)
		if err != nil {
			continue
		}
		rest, part, err := takeField(rest)
		if err != nil {
			return rest, nil, err
		}
		affix := &Affix{Kind: k.kind, Part: part}
		if k.kind == AffixUnknownSuffix {
			if rest, err = expect(rest, ";"); err != nil {
				return rest, nil, err
			}
			if rest, affix.Replaced, err = takeField(rest); err != nil {
				return rest, nil, err
			}
		}
		return rest, affix, nil
	}
	if s == "" {
		return s, nil, ErrUnexpectedEnd
	}
	return s, nil, ErrUnknownPartType
}

// follow отрезает обязательный тег. Несовпадение - не ошибка формата,
// а сигнал попробовать другой вид узла.
func follow(s, prefix string) (string, error) {
	rest, ok := strings.CutPrefix(s, prefix)
	if !ok {
		return s, ErrDoesntMatch
	}
	return rest, nil
}

// expect отрезает разделитель внутри уже опознанного узла.
func expect(s, prefix string) (string, error) {
	if rest, ok := strings.CutPrefix(s, prefix); ok {
		return rest, nil
	}
	if strings.HasPrefix(prefix, s) {
		return s, ErrUnexpectedEnd
	}
	return s, ErrMalformed
}

// takeField читает экранированное поле до первой неэкранированной ';'.
func takeField(s string) (string, string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case ';':
			return s[i:], b.String(), nil
		case '\\':
			if i+1 >= len(s) {
				return s[i:], "", ErrBadEscape
			}
			next := s[i+1]
			if next != '\\' && next != ';' {
				return s[i:], "", ErrBadEscape
			}
			b.WriteByte(next)
			i++
		default:
			b.WriteByte(c)
		}
	}
	return "", b.String(), nil
}

// takeHex читает шестнадцатеричное поле. Принимается только каноническая
// запись, чтобы повторное кодирование давало ту же строку.
func takeHex(s string, bitSize int) (string, uint64, error) {
	rest, field, err := takeField(s)
	if err != nil {
		return rest, 0, err
	}
	v, err := strconv.ParseUint(field, 16, bitSize)
	if err != nil || strconv.FormatUint(v, 16) != field {
		return s, 0, ErrBadNumber
	}
	return rest, v, nil
}
