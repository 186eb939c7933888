package logging

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Factory provides component-aware loggers with consistent field naming.
type Factory struct {
	baseLogger        *log.Logger
	componentRegistry *ComponentRegistry
}

// NewFactory creates a new logger factory.
func NewFactory(baseLogger *log.Logger) *Factory {
	return &Factory{
		baseLogger:        baseLogger,
		componentRegistry: NewComponentRegistry(),
	}
}

// NewFactoryWithConfig creates a new logger factory and loads component log levels from config.
func NewFactoryWithConfig(baseLogger *log.Logger, componentLogLevels map[string]string) *Factory {
	registry := NewComponentRegistry()
	registry.LoadLogLevelsFromConfig(componentLogLevels)

	return &Factory{
		baseLogger:        baseLogger,
		componentRegistry: registry,
	}
}

func (lf *Factory) logger(id string, typ ComponentType) *log.Logger {
	lf.componentRegistry.RegisterComponent(id, typ)
	return lf.componentRegistry.GetLoggerForComponent(lf.baseLogger, id)
}

// ForComponent creates a logger for a specific component.
func (lf *Factory) ForComponent(id string) *log.Logger {
	return lf.logger(id, ComponentTypeUtility)
}

// AI and ML specific loggers.
func (lf *Factory) ForAI(id string) *log.Logger {
	return lf.logger(id, ComponentTypeAI)
}

func (lf *Factory) ForEmbedding(id string) *log.Logger {
	return lf.logger(id, ComponentTypeEmbedding)
}

func (lf *Factory) ForCompletions(id string) *log.Logger {
	return lf.logger(id, ComponentTypeCompletions)
}

// Data processing specific loggers.
func (lf *Factory) ForProcessor(id string) *log.Logger {
	return lf.logger(id, ComponentTypeProcessor)
}

func (lf *Factory) ForDatabase(id string) *log.Logger {
	return lf.logger(id, ComponentTypeDatabase)
}

// WithError adds error and error_type fields. A nil error returns logger unchanged.
func (lf *Factory) WithError(logger *log.Logger, err error) *log.Logger {
	if err == nil {
		return logger
	}
	return logger.With("error", err.Error(), "error_type", fmt.Sprintf("%T", err))
}

// WithContext adds a single key/value pair.
func (lf *Factory) WithContext(logger *log.Logger, key string, value any) *log.Logger {
	return logger.With(key, value)
}

// Registry exposes the component registry.
func (lf *Factory) Registry() *ComponentRegistry {
	return lf.componentRegistry
}
