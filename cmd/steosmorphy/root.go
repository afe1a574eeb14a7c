package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/steosofficial/steosmorphy/v2/analyzer"
	"github.com/steosofficial/steosmorphy/v2/internal/config"
)

var (
	// verbose включает отладочный вывод.
	verbose bool
	// cfgFile - путь к файлу конфигурации.
	cfgFile string
	// dictPath переопределяет путь к словарю из конфигурации.
	dictPath string

	// cfg заполняется в PersistentPreRunE.
	cfg    config.Config
	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "steosmorphy"})

	rootCmd = &cobra.Command{
		Use:   "steosmorphy",
		Short: "Морфологический анализатор русского языка",
		Long: `steosmorphy разбирает русские слова: находит леммы и грамматические теги,
склоняет слова и угадывает разбор несловарных слов по аналогии.`,
		SilenceUsage:      true,
		PersistentPreRunE: initRootConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "отладочный вывод")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "файл конфигурации (yaml, toml, json)")
	rootCmd.PersistentFlags().StringVar(&dictPath, "dict", "", "путь к скомпилированному словарю")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(inflectCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(serveCmd)
}

// initRootConfig читает конфигурацию и настраивает логгер.
func initRootConfig(*cobra.Command, []string) error {
	var err error
	if cfg, err = config.Load(cfgFile); err != nil {
		return err
	}
	if dictPath != "" {
		cfg.Analyzer.DictPath = dictPath
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if verbose {
		level = log.DebugLevel
	}
	logger.SetLevel(level)
	analyzer.SetLogger(logger)
	return nil
}

// loadAnalyzer загружает словарь по текущей конфигурации.
func loadAnalyzer() (*analyzer.MorphAnalyzer, error) {
	morph, err := analyzer.LoadWithConfig(cfg.Analyzer)
	if err != nil {
		return nil, fmt.Errorf("загрузка словаря: %w", err)
	}
	return morph, nil
}

// printJSON печатает значение как JSON с отступами.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
