// Package anthropic implements the ai.Provider contract against the
// Anthropic messages API.
package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/forgekit/forge/internal/utils"
	"github.com/forgekit/forge/providers/ai"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	messagesEndpoint = "/v1/messages"
	apiVersion       = "2023-06-01"

	// defaultMaxTokens is applied when the caller's settings carry no
	// max_tokens; the messages API rejects requests without one.
	defaultMaxTokens = 1024
)

// AnthropicProvider sends prompt text to the Anthropic messages API and
// returns the first text content block of the reply.
type AnthropicProvider struct {
	model   string
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates an Anthropic provider for the given model. The API key is read
// from ANTHROPIC_API_KEY and the base URL from ANTHROPIC_API_BASE_URL when
// set; both can be overridden with the builder methods.
func New(model string) *AnthropicProvider {
	baseURL := os.Getenv("ANTHROPIC_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &AnthropicProvider{
		model:   model,
		apiKey:  os.Getenv("ANTHROPIC_API_KEY"),
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// WithAPIKey sets the API key for the provider.
func (p *AnthropicProvider) WithAPIKey(apiKey string) ai.Provider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL sets the base URL for the API.
func (p *AnthropicProvider) WithBaseURL(baseURL string) ai.Provider {
	p.baseURL = baseURL
	return p
}

// WithHttpClient sets a custom HTTP client.
func (p *AnthropicProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.client = httpClient
	return p
}

// Send implements the ai.Provider interface.
func (p *AnthropicProvider) Send(ctx context.Context, input string, settings ai.Settings) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("anthropic: API key is not set")
	}

	payload := map[string]any{
		"model":      p.model,
		"max_tokens": defaultMaxTokens,
		"messages": []map[string]any{
			{"role": "user", "content": input},
		},
	}
	// Caller settings win, including max_tokens.
	settings.Merge(payload)

	headers := map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": apiVersion,
	}

	resp, err := utils.DoPostSync[response](ctx, p.client, p.baseURL+messagesEndpoint, headers, payload)
	if err != nil {
		return "", err
	}

	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}

	return "", fmt.Errorf("anthropic: no text content in response")
}

// response mirrors the fields of the messages reply the provider actually
// reads.
type response struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}
