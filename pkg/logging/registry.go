package logging

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// ComponentType groups components for filtering in log output.
type ComponentType string

const (
	ComponentTypeUtility     ComponentType = "utility"
	ComponentTypeAI          ComponentType = "ai"
	ComponentTypeEmbedding   ComponentType = "embedding"
	ComponentTypeCompletions ComponentType = "completions"
	ComponentTypeProcessor   ComponentType = "processor"
	ComponentTypeDatabase    ComponentType = "database"
)

const envLevelPrefix = "LOG_LEVEL_"

// ComponentRegistry remembers registered components and their level overrides.
type ComponentRegistry struct {
	mu         sync.RWMutex
	components map[string]ComponentType
	levels     map[string]log.Level
}

func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		components: make(map[string]ComponentType),
		levels:     make(map[string]log.Level),
	}
}

// RegisterComponent records id under typ. Re-registering keeps the first type.
func (r *ComponentRegistry) RegisterComponent(id string, typ ComponentType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.components[id]; !ok {
		r.components[id] = typ
	}
}

// SetLevel overrides the level for id. Invalid levels are ignored.
func (r *ComponentRegistry) SetLevel(id, level string) bool {
	parsed, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.levels[normalizeID(id)] = parsed
	return true
}

// LoadLogLevelsFromConfig applies a component id to level map.
func (r *ComponentRegistry) LoadLogLevelsFromConfig(levels map[string]string) {
	for id, level := range levels {
		r.SetLevel(id, level)
	}
}

// LoadLogLevelsFromEnv applies LOG_LEVEL_<COMPONENT> variables, e.g.
// LOG_LEVEL_PROFILE_PIPELINE=debug for the component "profile.pipeline".
func (r *ComponentRegistry) LoadLogLevelsFromEnv() {
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, envLevelPrefix) || len(key) == len(envLevelPrefix) {
			continue
		}
		r.SetLevel(strings.TrimPrefix(key, envLevelPrefix), value)
	}
}

// Type returns the registered type of id.
func (r *ComponentRegistry) Type(id string) (ComponentType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	typ, ok := r.components[id]
	return typ, ok
}

// GetLoggerForComponent derives a logger tagged with the component id, at the
// overridden level when one is configured.
func (r *ComponentRegistry) GetLoggerForComponent(base *log.Logger, id string) *log.Logger {
	logger := base.With("component", id)

	r.mu.RLock()
	level, ok := r.levels[normalizeID(id)]
	r.mu.RUnlock()
	if ok {
		logger.SetLevel(level)
	}
	return logger
}

// normalizeID maps "profile.pipeline" and "PROFILE_PIPELINE" to the same key.
func normalizeID(id string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(strings.ToUpper(id))
}
