// Package config загружает настройки steosmorphy из файла, переменных
// окружения и значений по умолчанию.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/steosofficial/steosmorphy/v2/analyzer"
)

const (
	// EnvPrefix - префикс переменных окружения: STEOSMORPHY_ANALYZER_DICT_PATH и т.д.
	EnvPrefix = "STEOSMORPHY"
	// DefaultAddr - адрес HTTP-сервера по умолчанию.
	DefaultAddr = ":8080"
)

// Server - настройки HTTP API.
type Server struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// MaxWords ограничивает размер пакета в /api/parse/text.
	MaxWords int `mapstructure:"max_words"`
}

// Config - полная конфигурация приложения.
type Config struct {
	Analyzer analyzer.Config `mapstructure:"analyzer"`
	Server   Server          `mapstructure:"server"`
	LogLevel string          `mapstructure:"log_level"`
}

// Default возвращает конфигурацию по умолчанию.
func Default() Config {
	return Config{
		Analyzer: analyzer.DefaultConfig(),
		Server: Server{
			Addr:           DefaultAddr,
			AllowedOrigins: []string{"*"},
			MaxWords:       10000,
		},
		LogLevel: "warn",
	}
}

// Load читает конфигурацию. Пустой path - только окружение и значения
// по умолчанию. Формат файла определяется по расширению (yaml, toml, json).
func Load(path string) (Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("analyzer.dict_path", defaults.Analyzer.DictPath)
	v.SetDefault("analyzer.unknown_prefix_decay", defaults.Analyzer.UnknownPrefixDecay)
	v.SetDefault("analyzer.known_prefix_decay", defaults.Analyzer.KnownPrefixDecay)
	v.SetDefault("analyzer.known_suffix_decay", defaults.Analyzer.KnownSuffixDecay)
	v.SetDefault("analyzer.particle_decay", defaults.Analyzer.ParticleDecay)
	v.SetDefault("analyzer.min_reminder", defaults.Analyzer.MinReminder)
	v.SetDefault("analyzer.max_prefix_length", defaults.Analyzer.MaxPrefixLength)
	v.SetDefault("analyzer.workers", defaults.Analyzer.Workers)
	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.allowed_origins", defaults.Server.AllowedOrigins)
	v.SetDefault("server.max_words", defaults.Server.MaxWords)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, fmt.Errorf("файл конфигурации не найден: %w", err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("ошибка чтения конфигурации %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("ошибка разбора конфигурации: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate проверяет значения, которые нельзя выразить значениями по умолчанию.
func (c Config) Validate() error {
	var errs []error
	decays := []struct {
		name  string
		value float64
	}{
		{"analyzer.unknown_prefix_decay", c.Analyzer.UnknownPrefixDecay},
		{"analyzer.known_prefix_decay", c.Analyzer.KnownPrefixDecay},
		{"analyzer.known_suffix_decay", c.Analyzer.KnownSuffixDecay},
		{"analyzer.particle_decay", c.Analyzer.ParticleDecay},
	}
	for _, d := range decays {
		if d.value <= 0 || d.value > 1 {
			errs = append(errs, fmt.Errorf("%s должен быть в (0, 1], получено %g", d.name, d.value))
		}
	}
	if c.Analyzer.MinReminder < 1 {
		errs = append(errs, fmt.Errorf("analyzer.min_reminder должен быть положительным, получено %d", c.Analyzer.MinReminder))
	}
	if c.Analyzer.MaxPrefixLength < 0 {
		errs = append(errs, fmt.Errorf("analyzer.max_prefix_length не может быть отрицательным, получено %d", c.Analyzer.MaxPrefixLength))
	}
	if c.Server.MaxWords < 1 {
		errs = append(errs, fmt.Errorf("server.max_words должен быть положительным, получено %d", c.Server.MaxWords))
	}
	return errors.Join(errs...)
}
