package testing

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/EternisAI/persona/pkg/logging"
)

// TestLoggerFactory provides a test-scoped logger factory that discards output.
var TestLoggerFactory = func() *logging.Factory {
	baseLogger := log.NewWithOptions(io.Discard, log.Options{Level: log.DebugLevel})
	return logging.NewFactory(baseLogger)
}()

// GetTestLogger returns a test logger for a specific component.
func GetTestLogger(componentID string) *log.Logger {
	return TestLoggerFactory.ForComponent(componentID)
}
