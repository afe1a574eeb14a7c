package analyzer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrBadLexicon - ошибка в текстовом описании словаря.
var ErrBadLexicon = errors.New("ошибка в лексиконе")

// ReadLexicon читает лексемы в текстовом формате:
//
//	# комментарий
//	кот	Существительное,Одушевленное,Мужской,Единственное,Именительный	120
//	кота	Существительное,Одушевленное,Мужской,Единственное,Родительный
//
//	бежать	Глагол,Несовершенный,Инфинитив
//
// Лексемы разделяются пустой строкой, первая строка лексемы - лемма.
// Поля разделяются табуляцией, частота необязательна и по умолчанию равна 1.
func ReadLexicon(r io.Reader) ([]Lexeme, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lexemes []Lexeme
	var current Lexeme
	flush := func() {
		if len(current.Forms) > 0 {
			lexemes = append(lexemes, current)
			current = Lexeme{}
		}
	}

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			continue
		}

		form, err := parseLexiconLine(trimmed)
		if err != nil {
			return nil, fmt.Errorf("строка %d: %w", lineNo, err)
		}
		current.Forms = append(current.Forms, form)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения лексикона: %w", err)
	}
	flush()
	return lexemes, nil
}

func parseLexiconLine(line string) (WordForm, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 2 || len(fields) > 3 {
		return WordForm{}, fmt.Errorf("%w: ожидается 2 или 3 поля, получено %d", ErrBadLexicon, len(fields))
	}

	form := WordForm{
		Word:      strings.TrimSpace(fields[0]),
		Tags:      strings.TrimSpace(fields[1]),
		Frequency: 1,
	}
	if form.Word == "" || form.Tags == "" {
		return WordForm{}, fmt.Errorf("%w: пустое слово или теги", ErrBadLexicon)
	}
	if len(fields) == 3 {
		freq, err := strconv.ParseUint(strings.TrimSpace(fields[2]), 10, 16)
		if err != nil {
			return WordForm{}, fmt.Errorf("%w: частота %q: %w", ErrBadLexicon, fields[2], err)
		}
		form.Frequency = uint16(freq)
	}
	return form, nil
}
