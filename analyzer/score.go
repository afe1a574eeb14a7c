package analyzer

import (
	"cmp"
	"fmt"
)

// ScoreKind - происхождение оценки разбора.
type ScoreKind uint8

const (
	// ScoreReal - вероятность, полученная из корпуса (частоты словаря).
	ScoreReal ScoreKind = iota
	// ScoreFake - уверенность, назначенная эвристикой. Это не вероятность.
	ScoreFake
)

// Score - оценка разбора с пометкой о её происхождении.
// Fake-оценки упорядочиваются по числовому значению вместе с Real,
// но не должны трактоваться как откалиброванная вероятность.
type Score struct {
	Kind  ScoreKind
	Value float64
}

// Real создает оценку, полученную из корпуса.
func Real(p float64) Score { return Score{Kind: ScoreReal, Value: p} }

// Fake создает эвристическую оценку.
func Fake(c float64) Score { return Score{Kind: ScoreFake, Value: c} }

// IsFake сообщает, что оценка эвристическая.
func (s Score) IsFake() bool { return s.Kind == ScoreFake }

// Mul умножает оценку на коэффициент затухания, сохраняя её вид.
func (s Score) Mul(decay float64) Score {
	return Score{Kind: s.Kind, Value: s.Value * decay}
}

// Compare упорядочивает оценки по значению. При равных значениях
// Real считается выше Fake, чтобы порядок был полным.
func (s Score) Compare(other Score) int {
	if c := cmp.Compare(s.Value, other.Value); c != 0 {
		return c
	}
	switch {
	case s.Kind == other.Kind:
		return 0
	case s.Kind == ScoreReal:
		return 1
	default:
		return -1
	}
}

// Less - сокращение для Compare(other) < 0.
func (s Score) Less(other Score) bool { return s.Compare(other) < 0 }

func (s Score) String() string {
	if s.Kind == ScoreFake {
		return fmt.Sprintf("Fake(%g)", s.Value)
	}
	return fmt.Sprintf("Real(%g)", s.Value)
}
