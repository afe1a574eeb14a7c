package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestBuildAndParse(t *testing.T) {
	dict := filepath.Join(t.TempDir(), "morph.dawg")
	lexicon := filepath.Join("..", "..", "analyzer", "testdata", "lexicon.txt")

	execute(t, "", "build", lexicon, "-o", dict)

	var parses []struct {
		Word  string `json:"word"`
		Lemma string `json:"lemma"`
		Stack string `json:"stack"`
	}
	require.NoError(t, json.Unmarshal([]byte(execute(t, "", "--dict", dict, "parse", "кота", "шёл")), &parses))
	require.Len(t, parses, 3)
	assert.Equal(t, "кот", parses[0].Lemma)
	assert.Equal(t, "идти", parses[2].Lemma)

	// Без аргументов слова читаются из stdin.
	require.NoError(t, json.Unmarshal([]byte(execute(t, "коту\n\nмама\n", "--dict", dict, "parse")), &parses))
	assert.Len(t, parses, 2)

	var forms []struct {
		Word string `json:"word"`
	}
	require.NoError(t, json.Unmarshal([]byte(execute(t, "", "--dict", dict, "inflect", "коту")), &forms))
	assert.NotEmpty(t, forms)

	var decoded struct {
		Word  string `json:"word"`
		Lemma string `json:"lemma"`
	}
	require.NoError(t, json.Unmarshal([]byte(execute(t, "", "--dict", dict, "decode", parses[0].Stack)), &decoded))
	assert.Equal(t, parses[0].Word, decoded.Word)
	assert.Equal(t, parses[0].Lemma, decoded.Lemma)
}
