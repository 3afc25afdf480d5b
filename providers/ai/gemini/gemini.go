// Package gemini implements the ai.Provider contract against the Google
// Gemini generateContent API.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/forgekit/forge/internal/utils"
	"github.com/forgekit/forge/providers/ai"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// GeminiProvider sends prompt text to the Gemini generateContent endpoint and
// returns the text parts of the first candidate.
type GeminiProvider struct {
	model   string
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates a Gemini provider for the given model. The API key is read from
// GEMINI_API_KEY and the base URL from GEMINI_API_BASE_URL when set; both can
// be overridden with the builder methods.
func New(model string) *GeminiProvider {
	baseURL := os.Getenv("GEMINI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &GeminiProvider{
		model:   model,
		apiKey:  os.Getenv("GEMINI_API_KEY"),
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// WithAPIKey sets the API key for the provider.
func (p *GeminiProvider) WithAPIKey(apiKey string) ai.Provider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL sets the base URL for the API.
func (p *GeminiProvider) WithBaseURL(baseURL string) ai.Provider {
	p.baseURL = baseURL
	return p
}

// WithHttpClient sets a custom HTTP client.
func (p *GeminiProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.client = httpClient
	return p
}

// Send implements the ai.Provider interface. Settings map onto the request's
// generationConfig object.
func (p *GeminiProvider) Send(ctx context.Context, input string, settings ai.Settings) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("gemini: API key is not set")
	}

	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]any{{"text": input}}},
		},
	}
	if len(settings) > 0 {
		payload["generationConfig"] = map[string]any(settings)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", p.baseURL, p.model)
	headers := map[string]string{"x-goog-api-key": p.apiKey}

	resp, err := utils.DoPostSync[response](ctx, p.client, url, headers, payload)
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini: no candidates in response")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	return text.String(), nil
}

// response mirrors the fields of the generateContent reply the provider
// actually reads.
type response struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}
