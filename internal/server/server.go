// Package server отдает морфологический анализатор как JSON REST API.
//
// Обработчики:
//
//	GET  /api/parse?word=<слово>
//	POST /api/parse/text   тело: {"words":["...", ...]}
//	GET  /api/inflect?word=<слово>
//	GET  /api/decode?token=<стек>
//	GET  /metrics
//	GET  /healthz
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/steosofficial/steosmorphy/v2/analyzer"
	"github.com/steosofficial/steosmorphy/v2/internal/config"
)

const (
	shutdownTimeout = 10 * time.Second

	// maxWordBytes - запас на одно слово в теле /api/parse/text
	// вместе с кавычками и запятой.
	maxWordBytes = 256
	// bodyOverhead - запас на обрамление JSON.
	bodyOverhead = 1024
)

// ---- JSON response types ------------------------------------------------

type parseResponse struct {
	Word   string               `json:"word"`
	Parses analyzer.ParseResult `json:"parses"`
}

type parseTextResponse struct {
	Results []parseResponse `json:"results"`
}

type inflectResponse struct {
	Word  string            `json:"word"`
	Forms []analyzer.Parsed `json:"forms"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server - HTTP API поверх загруженного анализатора.
type Server struct {
	morph  *analyzer.MorphAnalyzer
	cfg    config.Server
	logger *log.Logger
	mux    *http.ServeMux
}

// New регистрирует обработчики. Анализатор остается во владении вызывающего.
func New(morph *analyzer.MorphAnalyzer, cfg config.Server, logger *log.Logger) *Server {
	s := &Server{morph: morph, cfg: cfg, logger: logger, mux: http.NewServeMux()}

	s.mux.Handle("/api/parse/text", instrument("parse_text", s.handleParseText()))
	s.mux.Handle("/api/parse", instrument("parse", s.handleParse()))
	s.mux.Handle("/api/inflect", instrument("inflect", s.handleInflect()))
	s.mux.Handle("/api/decode", instrument("decode", s.handleDecode()))
	s.mux.Handle("/metrics", promhttp.Handler())
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return s
}

// Handler возвращает корневой обработчик с CORS.
func (s *Server) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(s.mux)
}

// ListenAndServe слушает cfg.Addr до отмены ctx, затем плавно останавливается.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ---- helpers ------------------------------------------------------------

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode error", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) parse(word string) parseResponse {
	result := s.morph.Parse(word)
	observeParse(result)
	return parseResponse{Word: word, Parses: result}
}

// ---- handlers -----------------------------------------------------------

func (s *Server) handleParse() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			s.writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		word := r.URL.Query().Get("word")
		if word == "" {
			s.writeError(w, http.StatusBadRequest, "missing 'word' query parameter")
			return
		}
		s.writeJSON(w, http.StatusOK, s.parse(word))
	}
}

func (s *Server) handleParseText() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			s.writeError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, s.maxTextBody())
		var body struct {
			Words []string `json:"words"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				s.writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("body exceeds %d bytes", tooLarge.Limit))
				return
			}
			s.writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty 'words' array")
			return
		}
		if len(body.Words) == 0 {
			s.writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty 'words' array")
			return
		}
		if len(body.Words) > s.cfg.MaxWords {
			s.writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("at most %d words per request", s.cfg.MaxWords))
			return
		}

		out := make([]parseResponse, 0, len(body.Words))
		for _, word := range body.Words {
			out = append(out, s.parse(word))
		}
		s.writeJSON(w, http.StatusOK, parseTextResponse{Results: out})
	}
}

// maxTextBody - предел размера тела /api/parse/text, выведенный из MaxWords.
func (s *Server) maxTextBody() int64 {
	return int64(s.cfg.MaxWords)*maxWordBytes + bodyOverhead
}

func (s *Server) handleInflect() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			s.writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		word := r.URL.Query().Get("word")
		if word == "" {
			s.writeError(w, http.StatusBadRequest, "missing 'word' query parameter")
			return
		}

		lexemes := s.morph.Inflect(word)
		forms := make([]analyzer.Parsed, 0, len(lexemes))
		for _, lex := range lexemes {
			forms = append(forms, analyzer.NewParsed(lex, lex.Score()))
		}
		s.writeJSON(w, http.StatusOK, inflectResponse{Word: word, Forms: forms})
	}
}

func (s *Server) handleDecode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			s.writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		token := r.URL.Query().Get("token")
		if token == "" {
			s.writeError(w, http.StatusBadRequest, "missing 'token' query parameter")
			return
		}
		lex, err := s.morph.Decode(token)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, analyzer.NewParsed(lex, lex.Score()))
	}
}
