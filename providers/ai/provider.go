package ai

import (
	"context"
	"net/http"
)

// Provider is the capability every text-generation client must offer: deliver
// rendered prompt text, return the provider's response text. The forge core
// depends only on this interface, never on concrete provider types.
type Provider interface {
	// Send delivers the input text to the backend and returns its response
	// text. Settings are provider-specific generation options forwarded
	// opaquely into the request payload. Transport and provider-level
	// failures are returned as-is; Send performs no retries.
	Send(ctx context.Context, input string, settings Settings) (string, error)

	// WithAPIKey sets the API key used for authenticating requests.
	WithAPIKey(apiKey string) Provider

	// WithBaseURL overrides the default base URL for API requests.
	WithBaseURL(baseURL string) Provider

	// WithHttpClient sets the HTTP client used for outbound requests.
	WithHttpClient(httpClient *http.Client) Provider
}

// Settings is an opaque bag of provider-specific generation options
// (temperature, max_tokens, top_p, ...). Each client merges it into its
// request payload without interpreting the keys, except where a provider
// requires a default for a missing key.
type Settings map[string]any

// Merge copies the settings into payload, overwriting existing keys. A nil
// receiver is a no-op.
func (s Settings) Merge(payload map[string]any) {
	for key, value := range s {
		payload[key] = value
	}
}
