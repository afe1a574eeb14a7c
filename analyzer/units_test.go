package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultUnits_Order(t *testing.T) {
	m := loadFixture(t)
	assert.Equal(t, []string{
		"dictionary", "number", "punctuation", "roman", "latin",
		"hyphen_particle", "known_prefix", "unknown_prefix", "known_suffix", "unknown",
	}, m.Units())
}

func TestShapeUnits(t *testing.T) {
	m := loadFixture(t)

	testCases := []struct {
		name    string
		word    string
		wantPOS []string
		wantTag string
	}{
		{"Латиница", "pdf", []string{GrammemeLatin}, "LATN"},
		{"Латиница в верхнем регистре", "PDF", []string{GrammemeLatin}, "LATN"},
		{"Целое число", "42", []string{GrammemeNumber}, "NUMB,intg"},
		{"Вещественное число", "3.14", []string{GrammemeNumber}, "NUMB,real"},
		{"Экспоненциальная запись", "1e5", []string{GrammemeNumber}, "NUMB,real"},
		{"Слово inf не число", "inf", []string{GrammemeLatin}, "LATN"},
		{"Слово NaN не число", "NaN", []string{GrammemeLatin}, "LATN"},
		{"Знак препинания", ",", []string{GrammemePunct}, "PNCT"},
		{"Римское число и латиница", "xiv", []string{GrammemeRoman, GrammemeLatin}, "ROMN"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := m.RunPipeline(tc.word)
			require.Len(t, result, len(tc.wantPOS))

			for i, p := range result {
				tag, err := p.Lex.Tag()
				require.NoError(t, err)
				assert.Equal(t, tc.wantPOS[i], tag.PartOfSpeech)
				assert.Equal(t, Fake(shapeScore), p.Score)
				assert.True(t, p.Lex.IsKnown())
				assert.True(t, p.Lex.IsLemma())
			}
			tag, _ := result[0].Lex.Tag()
			assert.Equal(t, tc.wantTag, tag.Tags)
			assert.Equal(t, toLower(tc.word), result[0].Lex.NormalForm())
		})
	}
}

func TestUnknownAnalyzer(t *testing.T) {
	m := loadFixture(t)

	result := m.Parse("x1y")
	require.Len(t, result, 1)

	tag, err := result[0].Lex.Tag()
	require.NoError(t, err)
	assert.Equal(t, GrammemeUnknown, tag.PartOfSpeech)
	assert.Equal(t, Fake(1.0), result[0].Score)
	assert.False(t, result[0].Lex.IsKnown())
	assert.Equal(t, "x1y", result[0].Lex.NormalForm())
	assert.Equal(t, "u:x1y", result[0].Lex.Encode())
}

func TestUnknownAnalyzer_NotAddedForKnownWords(t *testing.T) {
	m := loadFixture(t)

	for _, word := range []string{"кот", "pdf", "42", "нейросетей"} {
		for _, p := range m.Parse(word) {
			tag, err := p.Lex.Tag()
			require.NoError(t, err)
			assert.NotEqual(t, GrammemeUnknown, tag.PartOfSpeech, word)
		}
	}
}

func TestDictionaryAnalyzer_Scores(t *testing.T) {
	m := loadFixture(t)

	var result ParseResult
	m.dictionary.Parse(m, &result, "кота", "кота", NewSeenSet())
	require.Len(t, result, 2)

	var total float64
	for _, p := range result {
		assert.False(t, p.Score.IsFake())
		total += p.Score.Value
	}
	assert.InDelta(t, 1.0, total, 1e-9)

	result.SortByScore()
	tag, err := result[0].Lex.Tag()
	require.NoError(t, err)
	assert.Equal(t, "Родительный", tag.Case)
	assert.InDelta(t, 5.0/9.0, result[0].Score.Value, 1e-9)
}

func TestUnits_Idempotent(t *testing.T) {
	m := loadFixture(t)

	for _, word := range []string{"кота", "кого-то", "суперкот", "байткод", "скилловым", "pdf"} {
		t.Run(word, func(t *testing.T) {
			wordLower := toLower(word)
			result := ParseResult{}
			seen := NewSeenSet()
			for _, unit := range m.units {
				unit.Parse(m, &result, word, wordLower, seen)
			}
			before := len(result)
			require.NotZero(t, before)

			// Повторный прогон с тем же множеством ничего не добавляет.
			for _, unit := range m.units {
				unit.Parse(m, &result, word, wordLower, seen)
			}
			assert.Len(t, result, before)
		})
	}
}

func TestPrefixUnits_Decay(t *testing.T) {
	m := loadFixture(t)
	cfg := m.Config()

	testCases := []struct {
		name  string
		unit  Unit
		word  string
		inner string
		decay float64
	}{
		{
			name: "Неизвестный префикс",
			unit: &UnknownPrefixAnalyzer{
				Dictionary:      m.dictionary,
				Decay:           cfg.UnknownPrefixDecay,
				MinReminder:     cfg.MinReminder,
				MaxPrefixLength: cfg.MaxPrefixLength,
			},
			word:  "байткод",
			inner: "код",
			decay: cfg.UnknownPrefixDecay,
		},
		{
			name: "Известная приставка",
			unit: &KnownPrefixAnalyzer{
				Dictionary:  m.dictionary,
				Prefixes:    DefaultKnownPrefixes,
				Decay:       cfg.KnownPrefixDecay,
				MinReminder: cfg.MinReminder,
			},
			word:  "суперкот",
			inner: "кот",
			decay: cfg.KnownPrefixDecay,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var inner ParseResult
			m.dictionary.Parse(m, &inner, tc.inner, tc.inner, NewSeenSet())
			require.NotEmpty(t, inner)
			best := inner[0].Score
			for _, p := range inner[1:] {
				if best.Less(p.Score) {
					best = p.Score
				}
			}

			var result ParseResult
			tc.unit.Parse(m, &result, tc.word, tc.word, NewSeenSet())
			require.Len(t, result, len(inner))
			for _, p := range result {
				assert.Equal(t, tc.word, p.Lex.Word())
				assert.False(t, p.Lex.IsKnown())
				assert.True(t, p.Score.Less(best))
				assert.LessOrEqual(t, p.Score.Value, best.Value*tc.decay+1e-9)
			}
		})
	}
}

func TestUnknownPrefixAnalyzer(t *testing.T) {
	m := loadFixture(t)

	result := m.Parse("байткод")
	require.Len(t, result, 2)
	for _, p := range result {
		assert.Equal(t, "байткод", p.Lex.Word())
		assert.Equal(t, "байткод", p.Lex.NormalForm())
		assert.Equal(t, AffixUnknownPrefix, p.Lex.Stack.Left.Affix.Kind)
		assert.Equal(t, "байт", p.Lex.Stack.Left.Affix.Part)
	}

	forms := m.Inflect("байткод")
	assert.Contains(t, lexWords(forms), "байткода")
	assert.Contains(t, lexWords(forms), "байткодами")
}

func TestKnownPrefixAnalyzer(t *testing.T) {
	m := loadFixture(t)

	result := m.Parse("суперкот")
	require.Len(t, result, 1)

	p := result[0]
	assert.Equal(t, "суперкот", p.Lex.NormalForm())
	assert.Equal(t, KnownPrefix("супер"), p.Lex.Stack.Left.Affix)
	assert.Equal(t, Real(0.75), p.Score)

	tag, err := p.Lex.Tag()
	require.NoError(t, err)
	assert.Equal(t, "Существительное", tag.PartOfSpeech)
	assert.Equal(t, "Именительный", tag.Case)
}

func TestPrefixUnits_SkipUnproductive(t *testing.T) {
	m := loadFixture(t)

	// "кого" - местоимение, по нему угадывать нельзя.
	for _, p := range m.Parse("суперкого") {
		tag, err := p.Lex.Tag()
		require.NoError(t, err)
		assert.NotEqual(t, "Местоимение", tag.PartOfSpeech)
	}
}

func TestHyphenParticleAnalyzer(t *testing.T) {
	m := loadFixture(t)

	result := m.Parse("кого-то")
	require.Len(t, result, 2)

	var cases []string
	for _, p := range result {
		assert.Equal(t, "кого-то", p.Lex.Word())
		assert.Equal(t, "кто-то", p.Lex.NormalForm())
		assert.True(t, p.Lex.IsKnown())
		assert.InDelta(t, 0.5*0.9, p.Score.Value, 1e-9)

		tag, err := p.Lex.Tag()
		require.NoError(t, err)
		assert.Equal(t, "Местоимение", tag.PartOfSpeech)
		cases = append(cases, tag.Case)
	}
	assert.ElementsMatch(t, []string{"Родительный", "Винительный"}, cases)

	forms := lexWords(m.Inflect("кого-то"))
	assert.Equal(t, []string{"кем-то", "кого-то", "кого-то", "ком-то", "кому-то", "кто-то"}, forms)
}

func TestHyphenParticleAnalyzer_UnknownBase(t *testing.T) {
	m := loadFixture(t)

	var result ParseResult
	unit := &HyphenParticleAnalyzer{Dictionary: m.dictionary, Particles: DefaultParticles, Decay: 0.9}
	unit.Parse(m, &result, "ыыы-то", "ыыы-то", NewSeenSet())
	assert.Empty(t, result)

	unit.Parse(m, &result, "-то", "-то", NewSeenSet())
	assert.Empty(t, result)
}

func TestKnownSuffixAnalyzer(t *testing.T) {
	m := loadFixture(t)

	testCases := []struct {
		name      string
		word      string
		lemma     string
		pos       string
		wantForms []string
	}{
		{
			name:      "Прилагательное по образцу 'новым'",
			word:      "скилловым",
			lemma:     "скилловый",
			pos:       "Прилагательное",
			wantForms: []string{"скилловый", "скилловая", "скиллового", "скилловыми"},
		},
		{
			name:      "Глагол по образцу 'макал'",
			word:      "чекал",
			lemma:     "чекать",
			pos:       "Глагол",
			wantForms: []string{"чекать", "чекаю", "чекала", "чекайте"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := m.Parse(tc.word)
			require.NotEmpty(t, result)

			for _, p := range result {
				assert.Equal(t, tc.word, p.Lex.Word())
				assert.Equal(t, tc.lemma, p.Lex.NormalForm())
				assert.False(t, p.Lex.IsKnown())
				assert.False(t, p.Score.IsFake())
				assert.Equal(t, AffixUnknownSuffix, p.Lex.Stack.Left.Affix.Kind)

				tag, err := p.Lex.Tag()
				require.NoError(t, err)
				assert.Equal(t, tc.pos, tag.PartOfSpeech)
			}

			forms := m.Inflect(tc.word)
			assert.Subset(t, lexWords(forms), tc.wantForms)
			assert.Equal(t, tc.lemma, result[0].Lex.Lemma().Word())
		})
	}
}

func TestKnownSuffixAnalyzer_Scores(t *testing.T) {
	m := loadFixture(t)

	result := m.Parse("скилловым")
	require.Len(t, result, 2)

	var total float64
	for _, p := range result {
		total += p.Score.Value
	}
	assert.InDelta(t, m.Config().KnownSuffixDecay, total, 1e-9)
}

func TestKnownSuffixAnalyzer_SkippedForKnownWords(t *testing.T) {
	m := loadFixture(t)

	var result ParseResult
	m.dictionary.Parse(m, &result, "новым", "новым", NewSeenSet())
	before := len(result)

	(&KnownSuffixAnalyzer{Decay: 0.5}).Parse(m, &result, "новым", "новым", NewSeenSet())
	assert.Len(t, result, before)
}

func TestAnalogyUnits_Deduplicate(t *testing.T) {
	m := loadFixture(t)

	// Неизвестный префикс и окончание дают один и тот же разбор.
	result := m.Parse("нейросетей")
	require.Len(t, result, 1)

	p := result[0]
	assert.Equal(t, "нейросеть", p.Lex.NormalForm())
	assert.Equal(t, UnknownPrefix("нейро"), p.Lex.Stack.Left.Affix)

	tag, err := p.Lex.Tag()
	require.NoError(t, err)
	assert.Equal(t, "Множественное число", tag.Number)
	assert.Equal(t, "Родительный", tag.Case)
}

func TestWithUnits(t *testing.T) {
	m := loadFixture(t)

	onlyDict := m.WithUnits(m.dictionary, &UnknownAnalyzer{})
	assert.Equal(t, []string{"dictionary", "unknown"}, onlyDict.Units())

	result := onlyDict.Parse("pdf")
	require.Len(t, result, 1)
	tag, err := result[0].Lex.Tag()
	require.NoError(t, err)
	assert.Equal(t, GrammemeUnknown, tag.PartOfSpeech)

	// Исходный анализатор не изменился.
	assert.Len(t, m.Units(), 10)
}
