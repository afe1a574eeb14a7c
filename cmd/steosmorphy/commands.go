package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/steosofficial/steosmorphy/v2/analyzer"
	"github.com/steosofficial/steosmorphy/v2/internal/server"
)

var (
	parseCmd = &cobra.Command{
		Use:   "parse [слово...]",
		Short: "Разобрать слова (без аргументов - по слову в строке из stdin)",
		RunE:  runParse,
	}

	inflectCmd = &cobra.Command{
		Use:   "inflect слово",
		Short: "Все словоформы слова",
		Args:  cobra.ExactArgs(1),
		RunE:  runInflect,
	}

	decodeCmd = &cobra.Command{
		Use:   "decode стек",
		Short: "Восстановить разбор из текстового представления стека",
		Args:  cobra.ExactArgs(1),
		RunE:  runDecode,
	}

	buildCmd = &cobra.Command{
		Use:   "build лексикон",
		Short: "Собрать бинарный словарь из текстового лексикона",
		Args:  cobra.ExactArgs(1),
		RunE:  runBuild,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP API",
		RunE:  runServe,
	}

	buildOutput string
	serveAddr   string
)

func init() {
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "morph.dawg", "куда записать словарь")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "адрес для прослушивания (по умолчанию из конфигурации)")
}

func runParse(cmd *cobra.Command, args []string) error {
	morph, err := loadAnalyzer()
	if err != nil {
		return err
	}
	defer morph.Close()

	words := args
	if len(words) == 0 {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			if word := scanner.Text(); word != "" {
				words = append(words, word)
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("чтение stdin: %w", err)
		}
	}
	return printJSON(cmd.OutOrStdout(), morph.ParseList(words))
}

func runInflect(cmd *cobra.Command, args []string) error {
	morph, err := loadAnalyzer()
	if err != nil {
		return err
	}
	defer morph.Close()

	lexemes := morph.Inflect(args[0])
	forms := make([]analyzer.Parsed, 0, len(lexemes))
	for _, lex := range lexemes {
		forms = append(forms, analyzer.NewParsed(lex, lex.Score()))
	}
	return printJSON(cmd.OutOrStdout(), forms)
}

func runDecode(cmd *cobra.Command, args []string) error {
	morph, err := loadAnalyzer()
	if err != nil {
		return err
	}
	defer morph.Close()

	lex, err := morph.Decode(args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), analyzer.NewParsed(lex, lex.Score()))
}

func runBuild(_ *cobra.Command, args []string) error {
	in, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	lexemes, err := analyzer.ReadLexicon(in)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	out, err := os.Create(buildOutput)
	if err != nil {
		return err
	}
	if err := analyzer.BuildDictionary(out, lexemes); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	logger.Info("словарь записан", "path", buildOutput, "lexemes", len(lexemes))
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	morph, err := loadAnalyzer()
	if err != nil {
		return err
	}
	defer morph.Close()

	serverCfg := cfg.Server
	if serveAddr != "" {
		serverCfg.Addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.New(morph, serverCfg, logger).ListenAndServe(ctx)
}
