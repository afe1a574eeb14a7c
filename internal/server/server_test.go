package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steosofficial/steosmorphy/v2/analyzer"
	"github.com/steosofficial/steosmorphy/v2/internal/config"
)

// parsedBody - поля разбора, которые проверяют тесты.
type parsedBody struct {
	Word         string  `json:"word"`
	Lemma        string  `json:"lemma"`
	PartOfSpeech string  `json:"part_of_speech"`
	Case         string  `json:"case"`
	Score        float64 `json:"score"`
	FakeScore    bool    `json:"fake_score"`
	Known        bool    `json:"known"`
	Stack        string  `json:"stack"`
}

type parseBody struct {
	Word   string       `json:"word"`
	Parses []parsedBody `json:"parses"`
}

func newTestServer(t *testing.T, cfg config.Server) *Server {
	t.Helper()
	in, err := os.Open(filepath.Join("..", "..", "analyzer", "testdata", "lexicon.txt"))
	require.NoError(t, err)
	defer in.Close()

	lexemes, err := analyzer.ReadLexicon(in)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, analyzer.BuildDictionary(&buf, lexemes))

	morph, err := analyzer.New(buf.Bytes(), analyzer.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = morph.Close() })

	return New(morph, cfg, log.New(io.Discard))
}

func do(t *testing.T, s *Server, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHandleParse(t *testing.T) {
	s := newTestServer(t, config.Default().Server)

	rec := do(t, s, http.MethodGet, "/api/parse?word="+url.QueryEscape("кота"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeBody[parseBody](t, rec)
	assert.Equal(t, "кота", body.Word)
	require.Len(t, body.Parses, 2)
	for _, p := range body.Parses {
		assert.Equal(t, "кот", p.Lemma)
		assert.Equal(t, "Существительное", p.PartOfSpeech)
		assert.True(t, p.Known)
		assert.False(t, p.FakeScore)
	}
	assert.Equal(t, "Родительный", body.Parses[0].Case)
	assert.Greater(t, body.Parses[0].Score, body.Parses[1].Score)
}

func TestHandleParse_Unknown(t *testing.T) {
	s := newTestServer(t, config.Default().Server)

	rec := do(t, s, http.MethodGet, "/api/parse?word=x1y", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[parseBody](t, rec)
	require.Len(t, body.Parses, 1)
	assert.Equal(t, analyzer.GrammemeUnknown, body.Parses[0].PartOfSpeech)
	assert.True(t, body.Parses[0].FakeScore)
	assert.False(t, body.Parses[0].Known)
	assert.Equal(t, "u:x1y", body.Parses[0].Stack)
}

func TestHandleParse_BadRequests(t *testing.T) {
	s := newTestServer(t, config.Default().Server)

	rec := do(t, s, http.MethodGet, "/api/parse", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[errorResponse](t, rec).Error, "word")

	rec = do(t, s, http.MethodPost, "/api/parse?word=кот", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleParseText(t *testing.T) {
	s := newTestServer(t, config.Default().Server)

	rec := do(t, s, http.MethodPost, "/api/parse/text", strings.NewReader(`{"words":["стали","pdf"]}`))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[struct {
		Results []parseBody `json:"results"`
	}](t, rec)
	require.Len(t, body.Results, 2)
	assert.Equal(t, "стали", body.Results[0].Word)
	assert.Equal(t, "стать", body.Results[0].Parses[0].Lemma)
	assert.Equal(t, "pdf", body.Results[1].Word)
	assert.Equal(t, analyzer.GrammemeLatin, body.Results[1].Parses[0].PartOfSpeech)
}

func TestHandleParseText_Errors(t *testing.T) {
	cfg := config.Default().Server
	cfg.MaxWords = 2
	s := newTestServer(t, cfg)

	testCases := []struct {
		name   string
		method string
		body   string
		code   int
	}{
		{"Не POST", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"Не JSON", http.MethodPost, "кот", http.StatusBadRequest},
		{"Пустой список", http.MethodPost, `{"words":[]}`, http.StatusBadRequest},
		{"Слишком много слов", http.MethodPost, `{"words":["а","б","в"]}`, http.StatusRequestEntityTooLarge},
		// Одно слово, но тело больше предела для двух слов.
		{"Слишком большое тело", http.MethodPost, `{"words":["` + strings.Repeat("я", 2000) + `"]}`, http.StatusRequestEntityTooLarge},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, s, tc.method, "/api/parse/text", strings.NewReader(tc.body))
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestHandleInflect(t *testing.T) {
	s := newTestServer(t, config.Default().Server)

	rec := do(t, s, http.MethodGet, "/api/inflect?word="+url.QueryEscape("коту"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[struct {
		Word  string       `json:"word"`
		Forms []parsedBody `json:"forms"`
	}](t, rec)
	assert.Equal(t, "коту", body.Word)

	var words []string
	for _, f := range body.Forms {
		assert.Equal(t, "кот", f.Lemma)
		words = append(words, f.Word)
	}
	assert.Contains(t, words, "котами")
	assert.Contains(t, words, "кот")

	rec = do(t, s, http.MethodGet, "/api/inflect", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDecode(t *testing.T) {
	s := newTestServer(t, config.Default().Server)

	parse := decodeBody[parseBody](t, do(t, s, http.MethodGet, "/api/parse?word="+url.QueryEscape("кого-то"), nil))
	require.NotEmpty(t, parse.Parses)
	token := parse.Parses[0].Stack

	rec := do(t, s, http.MethodGet, "/api/decode?token="+url.QueryEscape(token), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[parsedBody](t, rec)
	assert.Equal(t, "кого-то", body.Word)
	assert.Equal(t, "кто-то", body.Lemma)
	assert.Equal(t, token, body.Stack)

	rec = do(t, s, http.MethodGet, "/api/decode?token="+url.QueryEscape("z:кот"), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/decode", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, config.Default().Server)

	rec := do(t, s, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody[map[string]string](t, rec)["status"])

	do(t, s, http.MethodGet, "/api/parse?word="+url.QueryEscape("кот"), nil)

	rec = do(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "steosmorphy_words_parsed_total")
	assert.Contains(t, rec.Body.String(), `steosmorphy_http_requests_total{code="200",handler="parse"}`)
}

func TestCORS(t *testing.T) {
	cfg := config.Default().Server
	cfg.AllowedOrigins = []string{"https://example.org"}
	s := newTestServer(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://example.org")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "https://example.org", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestListenAndServe_Shutdown(t *testing.T) {
	cfg := config.Default().Server
	cfg.Addr = "127.0.0.1:0"
	s := newTestServer(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("сервер не остановился")
	}
}
