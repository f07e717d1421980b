package classifier

import (
	"context"
	"strings"

	"github.com/aleister1102/tosmonitor/internal/common"
	"github.com/aleister1102/tosmonitor/internal/config"
	"github.com/aleister1102/tosmonitor/internal/httpclient"
)

const anthropicVersion = "2023-06-01"

type anthropicRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	System    string        `json:"system"`
	Messages  []chatMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// AnthropicProvider calls the Anthropic messages API.
type AnthropicProvider struct {
	endpoint  string
	apiKey    string
	model     string
	maxTokens int
	client    *httpclient.HTTPClient
}

func NewAnthropicProvider(baseURL, apiKey, model string, cfg config.ClassifierConfig, client *httpclient.HTTPClient) *AnthropicProvider {
	return &AnthropicProvider{
		endpoint:  strings.TrimRight(baseURL, "/") + "/messages",
		apiKey:    apiKey,
		model:     model,
		maxTokens: cfg.MaxTokens,
		client:    client,
	}
}

func (p *AnthropicProvider) Name() string { return ProviderAnthropic }

func (p *AnthropicProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (Classification, error) {
	req := anthropicRequest{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		System:    systemPrompt,
		Messages:  []chatMessage{{Role: "user", Content: userPrompt}},
	}
	headers := map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": anthropicVersion,
	}

	var resp anthropicResponse
	if err := p.client.PostJSON(ctx, p.endpoint, headers, req, &resp); err != nil {
		return Classification{}, common.WrapError(err, "anthropic messages call failed")
	}
	if len(resp.Content) == 0 {
		return Classification{}, common.NewError("anthropic returned no content")
	}
	return parseReply(resp.Content[0].Text)
}
