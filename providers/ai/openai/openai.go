// Package openai implements the ai.Provider contract against the OpenAI
// chat completions API.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/forgekit/forge/internal/utils"
	"github.com/forgekit/forge/providers/ai"
)

const (
	defaultBaseURL          = "https://api.openai.com/v1"
	chatCompletionsEndpoint = "/chat/completions"
)

// OpenAIProvider sends prompt text to the OpenAI chat completions API and
// returns the first choice's message content.
type OpenAIProvider struct {
	model   string
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates an OpenAI provider for the given model. The API key is read
// from OPENAI_API_KEY and the base URL from OPENAI_API_BASE_URL when set;
// both can be overridden with the builder methods.
func New(model string) *OpenAIProvider {
	baseURL := os.Getenv("OPENAI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &OpenAIProvider{
		model:   model,
		apiKey:  os.Getenv("OPENAI_API_KEY"),
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// WithAPIKey sets the API key for the provider.
func (p *OpenAIProvider) WithAPIKey(apiKey string) ai.Provider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL sets the base URL for the API.
func (p *OpenAIProvider) WithBaseURL(baseURL string) ai.Provider {
	p.baseURL = baseURL
	return p
}

// WithHttpClient sets a custom HTTP client.
func (p *OpenAIProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.client = httpClient
	return p
}

// Send implements the ai.Provider interface.
func (p *OpenAIProvider) Send(ctx context.Context, input string, settings ai.Settings) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("openai: API key is not set")
	}

	payload := map[string]any{
		"model": p.model,
		"messages": []map[string]any{
			{"role": "user", "content": input},
		},
	}
	settings.Merge(payload)

	headers := map[string]string{"Authorization": "Bearer " + p.apiKey}

	resp, err := utils.DoPostSync[response](ctx, p.client, p.baseURL+chatCompletionsEndpoint, headers, payload)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}

// response mirrors the fields of the chat completions reply the provider
// actually reads.
type response struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}
