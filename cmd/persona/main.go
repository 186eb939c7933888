package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/EternisAI/persona/pkg/ai"
	"github.com/EternisAI/persona/pkg/bootstrap"
	"github.com/EternisAI/persona/pkg/config"
	"github.com/EternisAI/persona/pkg/content"
	"github.com/EternisAI/persona/pkg/embedcache"
	"github.com/EternisAI/persona/pkg/helpers"
	"github.com/EternisAI/persona/pkg/jsonrepair"
	"github.com/EternisAI/persona/pkg/logging"
	"github.com/EternisAI/persona/pkg/profile"
	"github.com/EternisAI/persona/pkg/prompts"
)

const (
	traceFileName = "cluster_artifacts.json"
	bioFileName   = "avatar_profile.json"
)

type options struct {
	Input    string `short:"i" long:"input" description:"JSON array or JSONL file of content records" required:"true"`
	Output   string `short:"o" long:"output" description:"Where to write the profile artifact (stdout when empty)"`
	Limit    int    `long:"limit" description:"Maximum items reaching the embedding stage (defaults to PROFILE_ITEM_LIMIT)"`
	Seed     int64  `long:"seed" description:"Pin k-means initialization for reproducible clusters"`
	Trace    bool   `long:"trace" description:"Write the debug trace to the app data directory"`
	Verbose  bool   `short:"v" long:"verbose" description:"Enable debug logging"`
	PrintEnv bool   `long:"print-env" description:"Log the resolved configuration"`

	Bio         bool     `long:"bio" description:"Also request an avatar profile built from the artifact"`
	Name        string   `long:"name" description:"Known name for the avatar profile"`
	Affiliation string   `long:"affiliation" description:"Affiliation for the avatar profile"`
	JobTitle    string   `long:"job-title" description:"Job title for the avatar profile"`
	Skills      []string `long:"skill" description:"Work skill for the avatar profile, repeatable"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.ShortDescription = "persona"
	parser.LongDescription = "Builds a compact personal profile from a user's posts, comments and other short-form content."
	if _, err := parser.Parse(); err != nil {
		if fe, ok := err.(*flags.Error); ok && fe.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, parser, opts); err != nil {
		bootstrap.NewBootstrapLogger().Error("persona failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, parser *flags.Parser, opts options) error {
	envs, err := config.LoadConfig(opts.PrintEnv)
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if opts.Verbose {
		envs.LogLevel = "debug"
	}

	factory := logging.NewFactoryWithConfig(bootstrap.NewLogger(envs), envs.ComponentLogLevels)
	logger := factory.ForComponent("cmd.persona")

	records, err := helpers.ReadJSONOrJSONL[content.Record](opts.Input)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", opts.Input)
	}
	items := content.FromRecords(records)
	logger.Info("Loaded records", "input", opts.Input, "count", len(items))

	embedder, closeEmbedder, err := newEmbedder(factory, envs)
	if err != nil {
		return err
	}
	defer closeEmbedder()

	completions := ai.NewOpenAIService(factory.ForCompletions("ai.completions"), ai.Config{
		APIKey:            envs.CompletionsAPIKey,
		BaseURL:           envs.CompletionsAPIURL,
		Timeout:           envs.ProviderTimeout,
		MaxRetries:        envs.ProviderMaxRetries,
		RequestsPerSecond: envs.ProviderRateLimit,
	})

	pipeline, err := profile.NewPipeline(profile.PipelineConfig{
		Embedder:        embedder,
		Generator:       completions,
		EmbeddingModel:  envs.EmbeddingsModel,
		CompletionModel: envs.CompletionsModel,
		Logger:          factory.ForProcessor("profile.pipeline"),
		Concurrency:     envs.SummaryConcurrency,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create pipeline")
	}

	runOpts := profile.Options{
		Limit: lo.Ternary(opts.Limit > 0, opts.Limit, envs.ProfileItemLimit),
		Debug: opts.Trace || envs.WriteDebugOutputs,
	}
	if seed := parser.FindOptionByLongName("seed"); seed != nil && seed.IsSet() {
		runOpts.Seed = helpers.Ptr(opts.Seed)
	}

	artifact, trace := pipeline.Synthesize(ctx, items, runOpts)
	if artifact.Error != "" {
		logger.Warn("Profile built with errors", "error", artifact.Error)
	}
	logger.Info("Profile built",
		"interests", len(artifact.PersonalInterests),
		"seeds", len(artifact.SeedInterests),
		"evidence", len(artifact.Evidence))

	if err := writeJSON(opts.Output, artifact); err != nil {
		return errors.Wrap(err, "failed to write artifact")
	}

	if trace != nil {
		path := filepath.Join(envs.AppDataPath, traceFileName)
		if err := writeJSON(path, trace); err != nil {
			return errors.Wrap(err, "failed to write trace")
		}
		logger.Info("Wrote trace", "path", path, "run_id", trace.RunID)
	}

	if opts.Bio {
		path := filepath.Join(envs.AppDataPath, bioFileName)
		if err := writeBio(ctx, logger, completions, envs.CompletionsModel, opts, artifact, path); err != nil {
			return err
		}
		logger.Info("Wrote avatar profile", "path", path)
	}
	return nil
}

// newEmbedder returns the embeddings client, wrapped in the SQLite cache when
// EMBEDDING_CACHE_PATH is set.
func newEmbedder(factory *logging.Factory, envs *config.Config) (ai.Embedder, func(), error) {
	service := ai.NewOpenAIService(factory.ForEmbedding("ai.embeddings"), ai.Config{
		APIKey:            envs.EmbeddingsAPIKey,
		BaseURL:           envs.EmbeddingsAPIURL,
		Timeout:           envs.ProviderTimeout,
		MaxRetries:        envs.ProviderMaxRetries,
		RequestsPerSecond: envs.ProviderRateLimit,
		BatchSize:         envs.EmbeddingsBatchSize,
	})
	if envs.EmbeddingCachePath == "" {
		return service, func() {}, nil
	}

	dbLogger := factory.ForDatabase("embedcache")
	store, err := embedcache.NewStore(envs.EmbeddingCachePath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open embedding cache")
	}
	dbLogger.Debug("Opened embedding cache", "path", envs.EmbeddingCachePath)
	closer := func() {
		if err := store.Close(); err != nil {
			dbLogger.Error("Failed to close embedding cache", "error", err)
		}
	}
	return embedcache.NewCachedEmbedder(service, store, dbLogger), closer, nil
}

func writeBio(ctx context.Context, logger *log.Logger, generator ai.TextGenerator, model string, opts options, artifact profile.Artifact, path string) error {
	prompt, err := prompts.BuildAvatarProfilePrompt(prompts.AvatarProfilePrompt{
		Name:              opts.Name,
		Affiliation:       opts.Affiliation,
		JobTitle:          opts.JobTitle,
		WorkSkills:        opts.Skills,
		PersonalSummary:   artifact.PersonalSummary,
		PersonalInterests: artifact.PersonalInterests,
		SeedInterests:     artifact.SeedInterests,
		EvidenceExcerpts: lo.Map(artifact.Evidence, func(e profile.Evidence, _ int) string {
			return e.Excerpt
		}),
	})
	if err != nil {
		return errors.Wrap(err, "failed to build avatar profile prompt")
	}

	raw, err := generator.Generate(ctx, prompt, ai.GenerateOptions{Model: model, MaxTokens: 400, Temperature: 0.3})
	if err != nil {
		return errors.Wrap(err, "avatar profile request failed")
	}

	var bio map[string]any
	if err := json.Unmarshal([]byte(jsonrepair.Repair(raw)), &bio); err != nil {
		logger.Warn("Avatar profile is not valid JSON, writing raw text", "error", err)
		return writeFile(path, []byte(raw))
	}
	return writeJSON(path, bio)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if path == "" {
		_, err = fmt.Fprintln(os.Stdout, string(data))
		return err
	}
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
