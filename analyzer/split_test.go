package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type split struct{ prefix, rest string }

func collectSplits(word string, minReminder, maxPrefixLength int) []split {
	var out []split
	for prefix, rest := range WordSplits(word, minReminder, maxPrefixLength) {
		out = append(out, split{prefix, rest})
	}
	return out
}

func TestWordSplits(t *testing.T) {
	testCases := []struct {
		name string
		word string
		want []split
	}{
		{
			name: "Слово из 4 букв - одно разбиение",
			word: "abcd",
			want: []split{{"a", "bcd"}},
		},
		{
			name: "Длинное слово ограничено длиной префикса",
			word: "abcdefghij",
			want: []split{{"a", "bcdefghij"}, {"ab", "cdefghij"}, {"abc", "defghij"}, {"abcd", "efghij"}, {"abcde", "fghij"}},
		},
		{
			name: "Короткое слово не разбивается",
			word: "ab",
			want: nil,
		},
		{
			name: "Остаток не короче минимального",
			word: "abc",
			want: nil,
		},
		{
			name: "Кириллица режется по символам",
			word: "байткод",
			want: []split{{"б", "айткод"}, {"ба", "йткод"}, {"бай", "ткод"}, {"байт", "код"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, collectSplits(tc.word, DefaultMinReminder, DefaultMaxPrefixLength))
		})
	}
}

func TestWordSplits_Reiterable(t *testing.T) {
	seq := WordSplits("нейросетей", DefaultMinReminder, DefaultMaxPrefixLength)

	var first, second []string
	for prefix := range seq {
		first = append(first, prefix)
	}
	for prefix := range seq {
		second = append(second, prefix)
	}
	assert.Equal(t, []string{"н", "не", "ней", "нейр", "нейро"}, first)
	assert.Equal(t, first, second)
}

func TestWordSplits_EarlyBreak(t *testing.T) {
	var got []string
	for prefix := range WordSplits("абвгдежз", DefaultMinReminder, DefaultMaxPrefixLength) {
		got = append(got, prefix)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"а", "аб"}, got)
}
