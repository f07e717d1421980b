package classifier

import (
	"context"
	"strings"

	"github.com/aleister1102/tosmonitor/internal/common"
	"github.com/aleister1102/tosmonitor/internal/config"
	"github.com/aleister1102/tosmonitor/internal/httpclient"
)

const (
	ProviderOpenAI    = "openai"
	ProviderGroq      = "groq"
	ProviderAnthropic = "anthropic"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature"`
	MaxTokens      int               `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// ChatCompletionsProvider talks to any OpenAI-compatible chat completions
// endpoint. OpenAI and Groq both use it.
type ChatCompletionsProvider struct {
	name        string
	endpoint    string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	client      *httpclient.HTTPClient
}

func NewChatCompletionsProvider(name, baseURL, apiKey, model string, cfg config.ClassifierConfig, client *httpclient.HTTPClient) *ChatCompletionsProvider {
	return &ChatCompletionsProvider{
		name:        name,
		endpoint:    strings.TrimRight(baseURL, "/") + "/chat/completions",
		apiKey:      apiKey,
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		client:      client,
	}
}

func (p *ChatCompletionsProvider) Name() string { return p.name }

func (p *ChatCompletionsProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (Classification, error) {
	req := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    p.temperature,
		MaxTokens:      p.maxTokens,
	}

	var resp chatResponse
	headers := map[string]string{"Authorization": "Bearer " + p.apiKey}
	if err := p.client.PostJSON(ctx, p.endpoint, headers, req, &resp); err != nil {
		return Classification{}, common.WrapErrorf(err, "%s chat completion failed", p.name)
	}
	if len(resp.Choices) == 0 {
		return Classification{}, common.NewError("%s returned no choices", p.name)
	}
	return parseReply(resp.Choices[0].Message.Content)
}
