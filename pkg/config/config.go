package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const componentLevelPrefix = "LOG_LEVEL_"

type Config struct {
	CompletionsAPIURL string
	CompletionsAPIKey string
	CompletionsModel  string

	EmbeddingsAPIURL    string
	EmbeddingsAPIKey    string
	EmbeddingsModel     string
	EmbeddingsBatchSize int

	ProfileItemLimit   int
	SummaryConcurrency int

	ProviderTimeout    time.Duration
	ProviderMaxRetries int
	ProviderRateLimit  float64

	EmbeddingCachePath string
	WriteDebugOutputs  bool
	AppDataPath        string

	LogLevel           string
	LogFormat          string
	ComponentLogLevels map[string]string
}

func getEnv(key, defaultValue string, printEnv bool) string {
	value := os.Getenv(key)
	if printEnv {
		shown := value
		if strings.HasSuffix(key, "_KEY") && shown != "" {
			shown = "***"
		}
		log.Default().Info("Env", "key", key, "value", shown)
	}
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int, printEnv bool) int {
	value, err := cast.ToIntE(getEnv(key, "", printEnv))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64, printEnv bool) float64 {
	value, err := cast.ToFloat64E(getEnv(key, "", printEnv))
	if err != nil || value < 0 {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool, printEnv bool) bool {
	raw := getEnv(key, "", printEnv)
	if raw == "" {
		return defaultValue
	}
	value, err := cast.ToBoolE(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration, printEnv bool) time.Duration {
	value, err := cast.ToDurationE(getEnv(key, "", printEnv))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

// loadEnvFile loads the first .env found in the working directory or up to
// maxDepth parents. ENV_FILE names an explicit file instead.
func loadEnvFile(maxDepth int) {
	if path := os.Getenv("ENV_FILE"); path != "" {
		if err := godotenv.Load(path); err == nil {
			return
		}
	}

	path := ".env"
	for i := 0; i <= maxDepth; i++ {
		if err := godotenv.Load(path); err == nil {
			return
		}
		path = filepath.Join("..", path)
	}
}

// componentLogLevels collects LOG_LEVEL_<COMPONENT> overrides keyed by the
// lower-cased component suffix.
func componentLogLevels() map[string]string {
	levels := make(map[string]string)
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, componentLevelPrefix) || key == componentLevelPrefix {
			continue
		}
		levels[strings.ToLower(strings.TrimPrefix(key, componentLevelPrefix))] = value
	}
	return levels
}

func LoadConfig(printEnv bool) (*Config, error) {
	loadEnvFile(3)

	conf := &Config{
		CompletionsAPIURL: getEnv("COMPLETIONS_API_URL", "https://api.openai.com/v1", printEnv),
		CompletionsAPIKey: getEnv("COMPLETIONS_API_KEY", "", printEnv),
		CompletionsModel:  getEnv("COMPLETIONS_MODEL", "gpt-4.1-mini", printEnv),

		EmbeddingsAPIURL:    getEnv("EMBEDDINGS_API_URL", "https://api.openai.com/v1", printEnv),
		EmbeddingsAPIKey:    getEnv("EMBEDDINGS_API_KEY", "", printEnv),
		EmbeddingsModel:     getEnv("EMBEDDINGS_MODEL", "text-embedding-3-small", printEnv),
		EmbeddingsBatchSize: getEnvInt("EMBEDDINGS_BATCH_SIZE", 256, printEnv),

		ProfileItemLimit:   getEnvInt("PROFILE_ITEM_LIMIT", 250, printEnv),
		SummaryConcurrency: getEnvInt("SUMMARY_CONCURRENCY", 1, printEnv),

		ProviderTimeout:    getEnvDuration("PROVIDER_TIMEOUT", 30*time.Second, printEnv),
		ProviderMaxRetries: getEnvInt("PROVIDER_MAX_RETRIES", 2, printEnv),
		ProviderRateLimit:  getEnvFloat("PROVIDER_RATE_LIMIT", 0, printEnv),

		EmbeddingCachePath: getEnv("EMBEDDING_CACHE_PATH", "", printEnv),
		WriteDebugOutputs:  getEnvBool("WRITE_DEBUG_OUTPUTS", false, printEnv),
		AppDataPath:        getEnv("APP_DATA_PATH", "./output", printEnv),

		LogLevel:           getEnv("LOG_LEVEL", "info", printEnv),
		LogFormat:          getEnv("LOG_FORMAT", "text", printEnv),
		ComponentLogLevels: componentLogLevels(),
	}

	// zero retries is a valid choice the positive-only getter would discard
	if raw := os.Getenv("PROVIDER_MAX_RETRIES"); raw != "" {
		if retries, err := cast.ToIntE(raw); err == nil && retries >= 0 {
			conf.ProviderMaxRetries = retries
		}
	}

	return conf, nil
}
