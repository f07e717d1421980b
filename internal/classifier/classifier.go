package classifier

import (
	"context"
	"strings"
	"time"

	"github.com/aleister1102/tosmonitor/internal/config"
	"github.com/aleister1102/tosmonitor/internal/differ"
	"github.com/aleister1102/tosmonitor/internal/httpclient"
	"github.com/aleister1102/tosmonitor/internal/models"
	"github.com/rs/zerolog"
)

// Request carries what a provider needs to describe one change.
type Request struct {
	ServiceName string
	OldText     string
	NewText     string
	Sections    []differ.DiffSection
}

// Classification is the title, summary and severity attached to a Change.
type Classification struct {
	Title    string          `json:"title"`
	Summary  string          `json:"summary"`
	Severity models.Severity `json:"severity"`
}

// Provider turns a prompt into a classification. Implementations return an
// error for any transport, status or parsing failure.
type Provider interface {
	Name() string
	Complete(ctx context.Context, systemPrompt, userPrompt string) (Classification, error)
}

// Classifier wraps a Provider with a deadline and a fallback. Classify never
// fails.
type Classifier struct {
	provider Provider
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewClassifier builds the provider named in cfg. A provider without an API
// key leaves the classifier in fallback-only mode.
func NewClassifier(cfg config.ClassifierConfig, client *httpclient.HTTPClient, logger zerolog.Logger) *Classifier {
	moduleLogger := logger.With().Str("component", "Classifier").Logger()

	var provider Provider
	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey != "" {
			provider = NewChatCompletionsProvider(ProviderOpenAI, cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg, client)
		}
	case ProviderGroq:
		if cfg.GroqAPIKey != "" {
			provider = NewChatCompletionsProvider(ProviderGroq, cfg.GroqBaseURL, cfg.GroqAPIKey, cfg.GroqModel, cfg, client)
		}
	case ProviderAnthropic:
		if cfg.AnthropicAPIKey != "" {
			provider = NewAnthropicProvider(cfg.AnthropicBaseURL, cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg, client)
		}
	}

	if provider == nil {
		moduleLogger.Warn().Str("provider", cfg.Provider).Msg("No API key configured for classifier provider, using fallback summaries")
	} else {
		moduleLogger.Info().Str("provider", provider.Name()).Msg("Classifier initialized")
	}

	return &Classifier{provider: provider, timeout: cfg.Timeout(), logger: moduleLogger}
}

// WithProvider replaces the provider. Passing nil forces fallback mode.
func (c *Classifier) WithProvider(p Provider) *Classifier {
	c.provider = p
	return c
}

// Classify asks the provider for a classification under the configured
// deadline. Any failure yields Fallback(req.ServiceName).
func (c *Classifier) Classify(ctx context.Context, req Request) Classification {
	if c.provider == nil {
		return Fallback(req.ServiceName)
	}

	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	result, err := c.provider.Complete(callCtx, SystemPrompt, BuildPrompt(req))
	if err != nil {
		c.logger.Error().Err(err).
			Str("provider", c.provider.Name()).
			Str("service", req.ServiceName).
			Msg("LLM classification failed, using fallback")
		return Fallback(req.ServiceName)
	}
	return result
}
