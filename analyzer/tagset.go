// tagset.go определяет грамматический тег и реестр тегов словаря.
// Строка тегов из словаря раскладывается в структурированный `Tag`,
// с которым удобно работать как в Go, так и после сериализации в JSON.
package analyzer

import (
	"strings"
)

// GrammemeSet - это множество для хранения грамматических тегов.
type GrammemeSet map[string]struct{}

// Теги, которые назначают анализаторы формы слова.
const (
	GrammemeLatin   = "LATN"
	GrammemeNumber  = "NUMB"
	GrammemePunct   = "PNCT"
	GrammemeRoman   = "ROMN"
	GrammemeUnknown = "UNKN"
	GrammemeInt     = "intg"
	GrammemeReal    = "real"
	// GrammemeParticle - часть речи частицы, отделенной дефисом ("кто-то").
	GrammemeParticle = "Частица"
)

// Tag - полный набор граммем одной словоформы.
type Tag struct {
	Tags         string      `json:"tags"`           // Полная строка тегов для отладки
	PartOfSpeech string      `json:"part_of_speech"` // Часть речи
	Animacy      string      `json:"animacy"`        // Одушевленность
	Aspect       string      `json:"aspect"`         // Вид
	Case         string      `json:"case"`           // Падеж
	Gender       string      `json:"gender"`         // Род
	Mood         string      `json:"mood"`           // Наклонение
	Number       string      `json:"number"`         // Число
	Person       string      `json:"person"`         // Лицо
	Tense        string      `json:"tense"`          // Время
	Transitivity string      `json:"transitivity"`   // Переходность
	Voice        string      `json:"voice"`          // Залог
	OtherTags    GrammemeSet `json:"other_tags"`     // Остальные теги, не вошедшие в основные категории
}

var (
	// posTags соответствует атрибуту "Часть речи" (ID 1)
	posTags = GrammemeSet{
		"Существительное": {},
		"Прилагательное":  {},
		"Глагол":          {},
		"Наречие":         {},
		"Причастие":       {},
		"Деепричастие":    {},
		"Местоимение":     {},
		"Числительное":    {},
		"Предлог":         {},
		"Частица":         {},
		"Союз":            {},
		"Междометие":      {},
		"Вводное слово":   {},

		// Теги анализаторов формы слова.
		GrammemeLatin:   {},
		GrammemeNumber:  {},
		GrammemePunct:   {},
		GrammemeRoman:   {},
		GrammemeUnknown: {},
	}

	// animacyTags соответствует атрибуту "Одушевленность" (ID 2)
	animacyTags = GrammemeSet{
		"Одушевленное":                  {},
		"Неодушевленное":                {},
		"одушевленное и неодушевленное": {},
	}

	// aspectTags соответствует атрибуту "Вид глагола" (ID 11)
	aspectTags = GrammemeSet{
		"Совершенный":   {},
		"Несовершенный": {},
		"Двувидовой":    {},
	}

	// caseTags соответствует атрибуту "Падеж" (ID 6)
	caseTags = GrammemeSet{
		"Именительный": {},
		"Родительный":  {},
		"Дательный":    {},
		"Винительный":  {},
		"Творительный": {},
		"Предложный":   {},
		"Звательный":   {},
		"Местный":      {},
		"Счетный":      {},
		"Партитивный":  {},
		"Несклоняемый": {},
		"Ждательный":   {},
	}

	// genderTags соответствует атрибуту "Род" (ID 4)
	genderTags = GrammemeSet{
		"Мужской": {},
		"Женский": {},
		"Средний": {},
		"Общий":   {},
		"Парный":  {},
	}

	// moodTags соответствует атрибуту "Наклонение глагола" (ID 15)
	moodTags = GrammemeSet{
		"Повелительное": {},
	}

	// numberTags соответствует атрибутам "Число" (ID 5, 36)
	numberTags = GrammemeSet{
		"Единственное число":  {},
		"Множественное число": {},
	}

	// personTags соответствует атрибутам "Лицо глагола" (ID 17), "Лицо местоимения" (ID 29)
	personTags = GrammemeSet{
		"1-е лицо": {},
		"2-е лицо": {},
		"3-е лицо": {},
		"нет лица": {},
	}

	// tenseTags соответствует атрибуту "Время глагола" (ID 14)
	tenseTags = GrammemeSet{
		"Прошедшее":             {},
		"Настоящее":             {},
		"Будущее":               {},
		"Будущее аналитическое": {},
	}

	// transTags соответствует атрибуту "Переходность глагола" (ID 12)
	transTags = GrammemeSet{
		"Переходный":   {},
		"Непереходный": {},
		"Лабильный":    {},
	}

	// voiceTags соответствует атрибуту "Залог причастия" (ID 18)
	voiceTags = GrammemeSet{
		"Действительный": {},
		"Страдательный":  {},
	}
)

// unproductivePOS - закрытые классы слов. Новые слова в них не появляются,
// поэтому угадывать их по аналогии бессмысленно.
var unproductivePOS = GrammemeSet{
	"Числительное":  {},
	"Местоимение":   {},
	"Предлог":       {},
	"Частица":       {},
	"Союз":          {},
	"Междометие":    {},
	"Вводное слово": {},
}

// NewTag раскладывает строку тегов (граммемы через запятую) по категориям.
func NewTag(tagString string) *Tag {
	t := &Tag{Tags: tagString, OtherTags: make(GrammemeSet)}

	grammemes := strings.Split(tagString, ",")

	// Часть речи всегда идет первой.
	if len(grammemes) > 0 {
		if _, ok := posTags[grammemes[0]]; ok {
			t.PartOfSpeech = grammemes[0]
		}
	}

	for _, g := range grammemes {
		switch {
		case g == "":
		case g == t.PartOfSpeech:
		case inMap(g, animacyTags):
			t.Animacy = g
		case inMap(g, aspectTags):
			t.Aspect = g
		case inMap(g, caseTags):
			t.Case = g
		case inMap(g, genderTags):
			t.Gender = g
		case inMap(g, moodTags):
			t.Mood = g
		case inMap(g, numberTags):
			t.Number = g
		case inMap(g, personTags):
			t.Person = g
		case inMap(g, tenseTags):
			t.Tense = g
		case inMap(g, transTags):
			t.Transitivity = g
		case inMap(g, voiceTags):
			t.Voice = g
		default:
			t.OtherTags[g] = struct{}{}
		}
	}
	return t
}

// String возвращает исходную строку тегов.
func (t *Tag) String() string { return t.Tags }

// Has сообщает, содержит ли тег граммему.
func (t *Tag) Has(grammeme string) bool {
	for _, g := range strings.Split(t.Tags, ",") {
		if g == grammeme {
			return true
		}
	}
	return false
}

// IsProductive - относится ли слово к открытому, словоизменяемому классу.
// Только такие разборы годятся для угадывания по аналогии.
func (t *Tag) IsProductive() bool {
	if t.PartOfSpeech == "" || inMap(t.PartOfSpeech, unproductivePOS) {
		return false
	}
	switch t.PartOfSpeech {
	case GrammemeLatin, GrammemeNumber, GrammemePunct, GrammemeRoman, GrammemeUnknown:
		return false
	}
	return true
}

func inMap(key string, set GrammemeSet) bool {
	_, ok := set[key]
	return ok
}
