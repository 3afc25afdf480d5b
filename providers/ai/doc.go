// Package ai defines the collaborator contract between the forge core and
// text-generation backends: a single [Provider] interface whose Send method
// turns rendered prompt text into response text. Concrete clients for OpenAI,
// Anthropic and Google Gemini live in the subpackages.
package ai
