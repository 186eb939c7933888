package ai

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pkg/errors"

	"github.com/EternisAI/persona/pkg/helpers"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultBatchSize = 256
)

type Config struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration // per attempt
	MaxRetries        int
	RequestsPerSecond float64 // 0 disables throttling
	BatchSize         int     // inputs per embeddings request
}

var (
	_ Embedder      = (*Service)(nil)
	_ TextGenerator = (*Service)(nil)
)

// Service talks to an OpenAI-compatible endpoint. Every request goes through
// the rate limiter, a per-attempt timeout and a retry policy for transient
// failures; failures that survive those surface as *ProviderError.
type Service struct {
	client     *openai.Client
	logger     *log.Logger
	limiter    *RateLimiter
	timeout    time.Duration
	maxRetries int
	batchSize  int

	retryDelay    time.Duration
	maxRetryDelay time.Duration
}

func NewOpenAIService(logger *log.Logger, cfg Config) *Service {
	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithMaxRetries(0),
	)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &Service{
		client:        &client,
		logger:        logger,
		limiter:       NewRateLimiter(cfg.RequestsPerSecond, 1),
		timeout:       timeout,
		maxRetries:    max(cfg.MaxRetries, 0),
		batchSize:     batchSize,
		retryDelay:    500 * time.Millisecond,
		maxRetryDelay: 5 * time.Second,
	}
}

// Generate sends prompt as a single user message and returns the first
// choice with any reasoning block removed.
func (s *Service) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       opts.Model,
		Temperature: openai.Float(opts.Temperature),
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(opts.MaxTokens)
	}

	completion, err := execute(ctx, s, "completion", opts.Model, func(ctx context.Context) (*openai.ChatCompletion, error) {
		return s.client.Chat.Completions.New(ctx, params)
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", &ProviderError{Op: "completion", Model: opts.Model, Err: errors.New("no completion choices returned")}
	}

	return StripThinkingTags(completion.Choices[0].Message.Content), nil
}

// Embeddings embeds inputs in batches and returns the vectors in input order.
func (s *Service) Embeddings(ctx context.Context, inputs []string, model string) ([][]float64, error) {
	vectors := make([][]float64, 0, len(inputs))
	for i, batch := range helpers.Batch(inputs, s.batchSize) {
		resp, err := execute(ctx, s, "embeddings", model, func(ctx context.Context) (*openai.CreateEmbeddingResponse, error) {
			return s.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
				Model: model,
				Input: openai.EmbeddingNewParamsInputUnion{
					OfArrayOfStrings: batch,
				},
			})
		})
		if err != nil {
			return nil, err
		}

		ordered, err := orderEmbeddings(resp.Data, len(batch))
		if err != nil {
			return nil, &ProviderError{Op: "embeddings", Model: model, Err: err}
		}
		vectors = append(vectors, ordered...)
		s.logger.Debug("Embedded batch", "batch", i, "size", len(batch))
	}
	return vectors, nil
}

func orderEmbeddings(data []openai.Embedding, expected int) ([][]float64, error) {
	if len(data) != expected {
		return nil, errors.Errorf("expected %d embeddings, got %d", expected, len(data))
	}
	ordered := make([][]float64, expected)
	for _, d := range data {
		if d.Index < 0 || int(d.Index) >= expected || ordered[d.Index] != nil {
			return nil, errors.Errorf("unexpected embedding index %d", d.Index)
		}
		ordered[d.Index] = d.Embedding
	}
	return ordered, nil
}

func execute[R any](ctx context.Context, s *Service, op, model string, call func(context.Context) (R, error)) (R, error) {
	policy := retrypolicy.NewBuilder[R]().
		WithBackoff(s.retryDelay, s.maxRetryDelay).
		WithMaxRetries(s.maxRetries).
		WithJitterFactor(0.1).
		HandleIf(func(_ R, err error) bool {
			return ctx.Err() == nil && isRetryable(err)
		}).
		ReturnLastFailure().
		Build()

	attempt := 0
	result, err := failsafe.With(policy).WithContext(ctx).Get(func() (R, error) {
		attempt++
		if attempt > 1 {
			s.logger.Warn("Retrying provider call", "op", op, "model", model, "attempt", attempt)
		}
		if err := s.limiter.Wait(ctx); err != nil {
			var zero R
			return zero, err
		}
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		return call(callCtx)
	})
	if err != nil {
		var zero R
		return zero, newProviderError(op, model, err)
	}
	return result, nil
}

func isRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		default:
			return false
		}
	}
	// network failures and per-attempt timeouts
	return true
}
