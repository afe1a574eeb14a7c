package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steosmorphy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
analyzer:
  dict_path: /var/lib/steosmorphy/morph.dawg
  known_prefix_decay: 0.6
  workers: 4
server:
  addr: ":9090"
  allowed_origins:
    - https://example.org
  max_words: 500
log_level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/steosmorphy/morph.dawg", cfg.Analyzer.DictPath)
	assert.InDelta(t, 0.6, cfg.Analyzer.KnownPrefixDecay, 1e-9)
	assert.Equal(t, 4, cfg.Analyzer.Workers)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"https://example.org"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 500, cfg.Server.MaxWords)
	assert.Equal(t, "debug", cfg.LogLevel)

	// Остальное берется из значений по умолчанию.
	assert.Equal(t, Default().Analyzer.UnknownPrefixDecay, cfg.Analyzer.UnknownPrefixDecay)
	assert.Equal(t, Default().Analyzer.MinReminder, cfg.Analyzer.MinReminder)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("STEOSMORPHY_SERVER_ADDR", ":7070")
	t.Setenv("STEOSMORPHY_ANALYZER_PARTICLE_DECAY", "0.8")
	t.Setenv("STEOSMORPHY_LOG_LEVEL", "info")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.InDelta(t, 0.8, cfg.Analyzer.ParticleDecay, 1e-9)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("analyzer:\n  unknown_prefix_decay: 1.5\n"), 0o644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "analyzer.unknown_prefix_decay")
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Default().Validate())

	cfg := Default()
	cfg.Analyzer.KnownSuffixDecay = 0
	cfg.Analyzer.MinReminder = 0
	cfg.Server.MaxWords = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "analyzer.known_suffix_decay")
	assert.ErrorContains(t, err, "analyzer.min_reminder")
	assert.ErrorContains(t, err, "server.max_words")
}

func TestValidate_StableOrder(t *testing.T) {
	cfg := Default()
	cfg.Analyzer.UnknownPrefixDecay = 2
	cfg.Analyzer.KnownPrefixDecay = -1
	cfg.Analyzer.KnownSuffixDecay = 0
	cfg.Analyzer.ParticleDecay = 5

	first := cfg.Validate().Error()
	lines := strings.Split(first, "\n")
	require.Len(t, lines, 4)
	for i, name := range []string{
		"analyzer.unknown_prefix_decay",
		"analyzer.known_prefix_decay",
		"analyzer.known_suffix_decay",
		"analyzer.particle_decay",
	} {
		assert.True(t, strings.HasPrefix(lines[i], name), lines[i])
	}

	for range 20 {
		assert.Equal(t, first, cfg.Validate().Error())
	}
}
