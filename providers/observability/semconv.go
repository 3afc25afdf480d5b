package observability

// Semantic conventions for attribute names, kept consistent across the forge
// pipeline and the provider clients.

// --- Forge pipeline attributes ---

const (
	// AttrForgeAttempt is the 1-based attempt number within a Generate call.
	AttrForgeAttempt = "forge.attempt"

	// AttrForgeMaxRetries is the configured attempt budget.
	AttrForgeMaxRetries = "forge.max_retries"

	// AttrForgeCandidates is the number of candidate substrings extracted
	// from a response.
	AttrForgeCandidates = "forge.candidates"

	// AttrForgePrompt is the rendered prompt text (truncated when logged).
	AttrForgePrompt = "forge.prompt"

	// AttrForgeResponse is the raw response text (truncated when logged).
	AttrForgeResponse = "forge.response"
)

// --- LLM provider attributes ---

const (
	// AttrLLMProvider is the provider name (e.g. "openai", "anthropic").
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the model identifier.
	AttrLLMModel = "llm.model"

	// AttrLLMEndpoint is the API endpoint URL.
	AttrLLMEndpoint = "llm.endpoint"
)

// --- HTTP attributes ---

const (
	// AttrHTTPMethod is the HTTP method.
	AttrHTTPMethod = "http.method"

	// AttrHTTPStatusCode is the HTTP response status code.
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPURL is the full request URL.
	AttrHTTPURL = "http.url"

	// AttrHTTPRequestBodySize is the request body size in bytes.
	AttrHTTPRequestBodySize = "http.request.body.size"

	// AttrHTTPResponseBodySize is the response body size in bytes.
	AttrHTTPResponseBodySize = "http.response.body.size"
)
