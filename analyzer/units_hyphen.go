package analyzer

import (
	"strings"
)

// DefaultParticles - частицы, которые пишутся через дефис.
var DefaultParticles = []string{"-то", "-ка", "-таки", "-де", "-тко", "-тка", "-с", "-ста"}

// HyphenParticleAnalyzer разбирает слова с частицей через дефис:
// левая часть разбирается словарем, частица добавляется справа.
//
// Пример: кого-то -> кого + (то)
type HyphenParticleAnalyzer struct {
	Dictionary Unit
	Particles  []string
	Decay      float64
}

func (*HyphenParticleAnalyzer) Name() string { return "hyphen_particle" }

func (u *HyphenParticleAnalyzer) Parse(m *MorphAnalyzer, result *ParseResult, _, wordLower string, seen SeenSet) {
	for _, particle := range u.Particles {
		base, ok := strings.CutSuffix(wordLower, particle)
		if !ok || base == "" {
			continue
		}

		var sub ParseResult
		u.Dictionary.Parse(m, &sub, base, base, NewSeenSet())
		for _, parsed := range sub {
			right := &StackAffix{Source: &HyphenParticle{Particle: strings.TrimPrefix(particle, "-")}}
			lex := m.lexFromStack(StackHyphenated{Left: parsed.Lex.Stack.Left, Right: right})
			addParsedIfNotSeen(result, seen, NewParsed(lex, parsed.Score.Mul(u.Decay)))
		}
	}
}
