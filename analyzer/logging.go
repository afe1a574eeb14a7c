package analyzer

import (
	"os"

	"github.com/charmbracelet/log"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "steosmorphy",
	Level:  log.WarnLevel,
})

// SetLogger заменяет логгер пакета. Вызывать до загрузки анализатора.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// Logger возвращает текущий логгер пакета.
func Logger() *log.Logger { return logger }
