package analyzer

// Config - настройки анализатора. Нулевое значение не годится для работы,
// используйте DefaultConfig и меняйте нужные поля.
type Config struct {
	// DictPath - путь к скомпилированному словарю. Пустая строка означает
	// поиск через EnvDictPath и рядом с пакетом.
	DictPath string `mapstructure:"dict_path"`

	// Коэффициенты затухания оценок для разборов по аналогии.
	UnknownPrefixDecay float64 `mapstructure:"unknown_prefix_decay"`
	KnownPrefixDecay   float64 `mapstructure:"known_prefix_decay"`
	KnownSuffixDecay   float64 `mapstructure:"known_suffix_decay"`
	ParticleDecay      float64 `mapstructure:"particle_decay"`

	// Ограничения разбиения слова на префикс и остаток.
	MinReminder     int `mapstructure:"min_reminder"`
	MaxPrefixLength int `mapstructure:"max_prefix_length"`

	// Workers - число горутин в ParseList и InflectList. 0 - по числу CPU.
	Workers int `mapstructure:"workers"`
}

// DefaultConfig возвращает настройки по умолчанию.
func DefaultConfig() Config {
	return Config{
		UnknownPrefixDecay: 0.5,
		KnownPrefixDecay:   0.75,
		KnownSuffixDecay:   0.5,
		ParticleDecay:      0.9,
		MinReminder:        DefaultMinReminder,
		MaxPrefixLength:    DefaultMaxPrefixLength,
	}
}
