package bootstrap

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/EternisAI/persona/pkg/config"
)

// NewBootstrapLogger is used before configuration is loaded.
func NewBootstrapLogger() *log.Logger {
	return newLogger(os.Stderr, log.InfoLevel, log.TextFormatter)
}

// NewLogger builds the base logger from LOG_LEVEL and LOG_FORMAT. Unknown
// levels fall back to info and unknown formats to text. Logs go to stderr so
// stdout stays free for command output.
func NewLogger(cfg *config.Config) *log.Logger {
	level, err := log.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = log.InfoLevel
	}
	return newLogger(os.Stderr, level, parseFormatter(cfg.LogFormat))
}

func parseFormatter(format string) log.Formatter {
	switch strings.ToLower(format) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

func newLogger(w io.Writer, level log.Level, formatter log.Formatter) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Level:           level,
		TimeFormat:      time.Kitchen,
		Formatter:       formatter,
	})

	if formatter == log.TextFormatter {
		logger.SetColorProfile(lipgloss.ColorProfile())
	}

	return logger
}
