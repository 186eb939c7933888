package logging

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func newBase(buf *bytes.Buffer) *log.Logger {
	return log.NewWithOptions(buf, log.Options{Level: log.InfoLevel})
}

func TestFactoryAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	factory := NewFactory(newBase(&buf))

	factory.ForAI("ai.completions").Info("test message")

	assert.Contains(t, buf.String(), "component=ai.completions")
	typ, ok := factory.Registry().Type("ai.completions")
	assert.True(t, ok)
	assert.Equal(t, ComponentTypeAI, typ)
}

func TestComponentLevelOverrides(t *testing.T) {
	var buf bytes.Buffer
	factory := NewFactoryWithConfig(newBase(&buf), map[string]string{
		"profile.pipeline": "debug",
		"ai.embeddings":    "error",
		"broken":           "nope",
	})

	assert.Equal(t, log.DebugLevel, factory.ForProcessor("profile.pipeline").GetLevel())
	assert.Equal(t, log.ErrorLevel, factory.ForEmbedding("ai.embeddings").GetLevel())
	assert.Equal(t, log.InfoLevel, factory.ForComponent("broken").GetLevel())

	factory.ForEmbedding("ai.embeddings").Warn("suppressed")
	assert.Empty(t, buf.String())
}

func TestLoadLogLevelsFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL_EMBEDDING_CACHE", "warn")
	registry := NewComponentRegistry()

	registry.LoadLogLevelsFromEnv()

	logger := registry.GetLoggerForComponent(newBase(&bytes.Buffer{}), "embedding.cache")
	assert.Equal(t, log.WarnLevel, logger.GetLevel())
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	factory := NewFactory(newBase(&buf))
	logger := factory.ForComponent("test.component")

	assert.Equal(t, logger, factory.WithError(logger, nil))

	factory.WithError(logger, errors.New("database connection failed")).Error("boom")
	assert.Contains(t, buf.String(), "database connection failed")
	assert.Contains(t, buf.String(), "error_type")
}
