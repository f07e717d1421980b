package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aleister1102/tosmonitor/internal/config"
	"github.com/aleister1102/tosmonitor/internal/differ"
	"github.com/aleister1102/tosmonitor/internal/httpclient"
	"github.com/aleister1102/tosmonitor/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	result Classification
	err    error
	delay  time.Duration
	prompt string
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(ctx context.Context, _, userPrompt string) (Classification, error) {
	s.prompt = userPrompt
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return Classification{}, ctx.Err()
		}
	}
	return s.result, s.err
}

func newTestClient(t *testing.T) *httpclient.HTTPClient {
	t.Helper()
	client, err := httpclient.NewHTTPClientBuilder(zerolog.Nop()).WithTimeout(5 * time.Second).Build()
	require.NoError(t, err)
	return client
}

func TestClassify_NoAPIKeyFallsBack(t *testing.T) {
	cfg := config.NewDefaultClassifierConfig()
	c := NewClassifier(cfg, newTestClient(t), zerolog.Nop())

	got := c.Classify(context.Background(), Request{ServiceName: "Stripe"})

	assert.Equal(t, "Stripe policy updated", got.Title)
	assert.Equal(t, "A change was detected in Stripe's policy. Review the diff for details.", got.Summary)
	assert.Equal(t, models.SeverityMinor, got.Severity)
}

func TestClassify_ProviderErrorFallsBack(t *testing.T) {
	c := NewClassifier(config.NewDefaultClassifierConfig(), nil, zerolog.Nop()).
		WithProvider(&stubProvider{err: errors.New("boom")})

	got := c.Classify(context.Background(), Request{ServiceName: "Slack"})
	assert.Equal(t, Fallback("Slack"), got)
}

func TestClassify_TimeoutFallsBack(t *testing.T) {
	cfg := config.NewDefaultClassifierConfig()
	cfg.TimeoutSecs = 1
	stub := &stubProvider{delay: 5 * time.Second, result: Classification{Title: "late"}}
	c := NewClassifier(cfg, nil, zerolog.Nop()).WithProvider(stub)

	start := time.Now()
	got := c.Classify(context.Background(), Request{ServiceName: "AWS"})

	assert.Less(t, time.Since(start), 3*time.Second)
	assert.Equal(t, Fallback("AWS"), got)
}

func TestClassify_ProviderResult(t *testing.T) {
	want := Classification{Title: "AI training added", Summary: "s", Severity: models.SeverityCritical}
	stub := &stubProvider{result: want}
	c := NewClassifier(config.NewDefaultClassifierConfig(), nil, zerolog.Nop()).WithProvider(stub)

	got := c.Classify(context.Background(), Request{ServiceName: "OpenAI", OldText: "a", NewText: "b"})

	assert.Equal(t, want, got)
	assert.True(t, strings.HasPrefix(stub.prompt, "Service: OpenAI\n"))
}

func TestBuildPrompt_Sections(t *testing.T) {
	sections := make([]differ.DiffSection, 12)
	for i := range sections {
		sections[i] = differ.DiffSection{OldText: "old", NewText: "new"}
	}
	sections[0].OldText = strings.Repeat("x", 600)
	sections[1].NewText = ""

	prompt := BuildPrompt(Request{ServiceName: "GitHub", Sections: sections})

	assert.True(t, strings.HasPrefix(prompt, "Service: GitHub\nChanged sections:\nREMOVED:\n"+strings.Repeat("x", 500)+"\nADDED:\nnew\n---\n"))
	assert.Equal(t, 10, strings.Count(prompt, "---\n"))
	assert.Equal(t, 9, strings.Count(prompt, "ADDED:\n"))
}

func TestBuildPrompt_Excerpts(t *testing.T) {
	oldText := strings.Repeat("é", 2000)
	prompt := BuildPrompt(Request{ServiceName: "Notion", OldText: oldText, NewText: "short"})

	want := "Service: Notion\nPrevious version (excerpt):\n" + strings.Repeat("é", 1500) +
		"\n\nNew version (excerpt):\nshort\n"
	assert.Equal(t, want, prompt)
}

func TestParseReply(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    Classification
		wantErr bool
	}{
		{
			name: "full reply",
			text: `{"title":"New arbitration clause","summary":"Disputes go to arbitration.","severity":"CRITICAL"}`,
			want: Classification{Title: "New arbitration clause", Summary: "Disputes go to arbitration.", Severity: models.SeverityCritical},
		},
		{
			name: "wrapped in prose with defaults",
			text: "Here you go:\n{\"severity\": \"urgent\"}\nThanks",
			want: Classification{Title: defaultTitle, Summary: defaultSummary, Severity: models.SeverityMinor},
		},
		{name: "no json", text: "I cannot help", wantErr: true},
		{name: "broken json", text: `{"title": }`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseReply(tt.text)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_TruncatesTitle(t *testing.T) {
	long := strings.Repeat("ß", 600)
	got := normalize(rawClassification{Title: &long})
	assert.Equal(t, 500, len([]rune(got.Title)))
}

func TestChatCompletionsProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama-test", req.Model)
		assert.Equal(t, "json_object", req.ResponseFormat["type"])
		assert.Equal(t, 500, req.MaxTokens)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, SystemPrompt, req.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"title\":\"Price change\",\"summary\":\"Fees rise.\",\"severity\":\"major\"}"}}]}`))
	}))
	defer server.Close()

	cfg := config.NewDefaultClassifierConfig()
	cfg.Provider = ProviderGroq
	cfg.GroqAPIKey = "gsk_test"
	cfg.GroqModel = "llama-test"
	cfg.GroqBaseURL = server.URL + "/v1/"

	c := NewClassifier(cfg, newTestClient(t), zerolog.Nop())
	got := c.Classify(context.Background(), Request{ServiceName: "Twilio", OldText: "a", NewText: "b"})

	assert.Equal(t, Classification{Title: "Price change", Summary: "Fees rise.", Severity: models.SeverityMajor}, got)
}

func TestAnthropicProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "sk-ant", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, SystemPrompt, req.System)

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Sure. {\"title\":\"Typo fix\",\"summary\":\"Cosmetic.\",\"severity\":\"patch\"}"}]}`))
	}))
	defer server.Close()

	cfg := config.NewDefaultClassifierConfig()
	cfg.Provider = ProviderAnthropic
	cfg.AnthropicAPIKey = "sk-ant"
	cfg.AnthropicBaseURL = server.URL

	c := NewClassifier(cfg, newTestClient(t), zerolog.Nop())
	got := c.Classify(context.Background(), Request{ServiceName: "Anthropic"})

	assert.Equal(t, models.SeverityPatch, got.Severity)
	assert.Equal(t, "Typo fix", got.Title)
}

func TestAnthropicProvider_HTTPErrorFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	cfg := config.NewDefaultClassifierConfig()
	cfg.Provider = ProviderAnthropic
	cfg.AnthropicAPIKey = "bad"
	cfg.AnthropicBaseURL = server.URL

	c := NewClassifier(cfg, newTestClient(t), zerolog.Nop())
	assert.Equal(t, Fallback("Heroku"), c.Classify(context.Background(), Request{ServiceName: "Heroku"}))
}
