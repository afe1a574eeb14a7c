package main

// #include <stdlib.h>
import "C"

import (
	"encoding/json"
	"unsafe"

	"github.com/steosofficial/steosmorphy/v2/analyzer"
)

var morphAnalyzer *analyzer.MorphAnalyzer

// analysis - ответ AnalyzeWord: разборы слова и все его словоформы.
type analysis struct {
	Parses analyzer.ParseResult `json:"parses"`
	Forms  []analyzer.Parsed    `json:"forms"`
}

//export CreateAnalyzer
func CreateAnalyzer() C.int {
	m, err := analyzer.LoadMorphAnalyzer()
	if err != nil {
		return 0
	}
	morphAnalyzer = m
	return 1
}

//export AnalyzeWord
func AnalyzeWord(word *C.char) *C.char {
	if morphAnalyzer == nil {
		return nil
	}
	parses, lexemes := morphAnalyzer.Analyze(C.GoString(word))
	forms := make([]analyzer.Parsed, 0, len(lexemes))
	for _, lex := range lexemes {
		forms = append(forms, analyzer.NewParsed(lex, lex.Score()))
	}

	result, err := json.Marshal(analysis{Parses: parses, Forms: forms})
	if err != nil {
		return nil
	}
	return C.CString(string(result))
}

//export DecodeStack
func DecodeStack(token *C.char) *C.char {
	if morphAnalyzer == nil {
		return nil
	}
	lex, err := morphAnalyzer.Decode(C.GoString(token))
	if err != nil {
		return nil
	}
	result, err := json.Marshal(analyzer.NewParsed(lex, lex.Score()))
	if err != nil {
		return nil
	}
	return C.CString(string(result))
}

//export FreeString
func FreeString(str *C.char) {
	if str != nil {
		C.free(unsafe.Pointer(str))
	}
}

//export ReleaseAnalyzer
func ReleaseAnalyzer() {
	if morphAnalyzer != nil {
		_ = morphAnalyzer.Close()
	}
	morphAnalyzer = nil
}

func main() {}
