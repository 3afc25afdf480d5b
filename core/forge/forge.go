package forge

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/forgekit/forge/core/extract"
	"github.com/forgekit/forge/core/prompt"
	"github.com/forgekit/forge/core/schema"
	"github.com/forgekit/forge/core/validate"
	"github.com/forgekit/forge/internal/htmltext"
	"github.com/forgekit/forge/providers/ai"
	"github.com/forgekit/forge/providers/observability"
)

const defaultMaxRetries = 3

// feedbackPrefix introduces the validation failure appended to the prompt
// before the next attempt.
const feedbackPrefix = "\nTry again and fix the errors that occurred: "

// Forge derives values of type T from provider responses. All collaborators
// are built once in New; a Forge is read-only afterwards and safe for
// concurrent Generate calls.
type Forge[T any] struct {
	provider ai.Provider

	prompt    *prompt.Prompt
	model     *schema.ResponseModel[T]
	validator *validate.Validator[T]
	patterns  []*regexp.Regexp

	maxRetries     int
	raiseOnFailure bool
	normalizeHTML  bool

	obs observability.Provider
}

// Option customises Forge construction.
type Option func(*config)

type config struct {
	promptText       string
	patterns         []string
	maxRetries       int
	raiseOnFailure   bool
	valueDescription string
	normalizeHTML    bool
	obs              observability.Provider
}

// WithPrompt sets the prompt template text. An empty text keeps the built-in
// default template.
func WithPrompt(text string) Option {
	return func(c *config) {
		c.promptText = text
	}
}

// WithMatchPatterns replaces the default candidate extraction patterns. The
// patterns are regular expressions compiled with multi-line matching; a
// pattern with a capture group contributes its first group.
func WithMatchPatterns(patterns ...string) Option {
	return func(c *config) {
		c.patterns = patterns
	}
}

// WithMaxRetries sets the total number of send attempts. It must be at
// least 1; the default is 3.
func WithMaxRetries(n int) Option {
	return func(c *config) {
		c.maxRetries = n
	}
}

// WithRaiseOnFailure controls what Generate returns when every attempt
// failed: true (the default) returns a *DerivationError, false suppresses
// the failure and returns a nil value with a nil error.
func WithRaiseOnFailure(raise bool) Option {
	return func(c *config) {
		c.raiseOnFailure = raise
	}
}

// WithValueDescription sets the description of the synthesized value field
// when T is a plain value rather than a struct.
func WithValueDescription(description string) Option {
	return func(c *config) {
		c.valueDescription = description
	}
}

// WithHTMLNormalization converts HTML user input to Markdown before it is
// placed into the prompt.
func WithHTMLNormalization() Option {
	return func(c *config) {
		c.normalizeHTML = true
	}
}

// WithObserver sets the observability provider for traces, metrics and logs.
// The default is a no-op.
func WithObserver(obs observability.Provider) Option {
	return func(c *config) {
		c.obs = obs
	}
}

// New builds a Forge for target type T backed by the given provider.
func New[T any](provider ai.Provider, opts ...Option) (*Forge[T], error) {
	if provider == nil {
		return nil, errors.New("forge: provider must not be nil")
	}

	cfg := config{
		maxRetries:     defaultMaxRetries,
		raiseOnFailure: true,
		obs:            observability.Noop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.maxRetries < 1 {
		return nil, fmt.Errorf("forge: max retries must be at least 1, got %d", cfg.maxRetries)
	}

	p, err := prompt.New(cfg.promptText)
	if err != nil {
		return nil, err
	}

	var modelOpts []schema.Option
	if cfg.valueDescription != "" {
		modelOpts = append(modelOpts, schema.WithValueDescription(cfg.valueDescription))
	}
	model, err := schema.New[T](modelOpts...)
	if err != nil {
		return nil, err
	}

	patterns := extract.DefaultPatterns()
	if len(cfg.patterns) > 0 {
		if patterns, err = extract.Compile(cfg.patterns...); err != nil {
			return nil, fmt.Errorf("forge: compiling match patterns: %w", err)
		}
	}

	return &Forge[T]{
		provider:       provider,
		prompt:         p,
		model:          model,
		validator:      validate.NewValidator(model),
		patterns:       patterns,
		maxRetries:     cfg.maxRetries,
		raiseOnFailure: cfg.raiseOnFailure,
		normalizeHTML:  cfg.normalizeHTML,
		obs:            cfg.obs,
	}, nil
}

// GenerateOption customises a single Generate call.
type GenerateOption func(*generateConfig)

type generateConfig struct {
	promptValues map[string]any
	settings     ai.Settings
}

// WithPromptValues supplies values for variables the prompt template
// references beyond the user input and schema.
func WithPromptValues(values map[string]any) GenerateOption {
	return func(c *generateConfig) {
		c.promptValues = values
	}
}

// WithSettings forwards provider-specific generation options (temperature,
// max_tokens, ...) to the backend.
func WithSettings(settings ai.Settings) GenerateOption {
	return func(c *generateConfig) {
		c.settings = settings
	}
}

// Prompt returns the Forge's prompt template.
func (f *Forge[T]) Prompt() *prompt.Prompt {
	return f.prompt
}

// ResponseModel returns the adapted schema descriptor for T.
func (f *Forge[T]) ResponseModel() *schema.ResponseModel[T] {
	return f.model
}

// Generate sends the rendered prompt to the provider and returns the first
// response value that extracts, validates and decodes into T. On a
// recoverable failure the validation details are appended to the prompt and
// the attempt repeats, up to the configured number of send attempts.
// Transport errors from the provider propagate immediately and are never
// retried. When every attempt failed, the result is a *DerivationError, or
// (nil, nil) when failure raising is disabled.
func (f *Forge[T]) Generate(ctx context.Context, userInput string, opts ...GenerateOption) (*T, error) {
	var cfg generateConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx, span := f.obs.StartSpan(ctx, "forge.generate",
		observability.Int(observability.AttrForgeMaxRetries, f.maxRetries),
	)
	defer span.End()
	ctx = observability.ContextWithSpan(ctx, span)

	start := time.Now()
	defer func() {
		f.obs.Histogram("forge.generate.duration").Record(ctx, time.Since(start).Seconds())
	}()

	prepared, err := f.prepare(userInput, cfg.promptValues)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(observability.StatusError, "prompt preparation failed")
		return nil, err
	}

	var lastFailure error
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		f.obs.Counter("forge.generate.attempts").Add(ctx, 1)
		span.AddEvent("forge.attempt", observability.Int(observability.AttrForgeAttempt, attempt))

		response, err := f.provider.Send(ctx, prepared, cfg.settings)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(observability.StatusError, "provider send failed")
			return nil, err
		}

		candidates := extract.Find(response, f.patterns)
		span.SetAttributes(observability.Int(observability.AttrForgeCandidates, len(candidates)))

		value, err := f.validator.Validate(candidates)
		if err == nil {
			span.SetStatus(observability.StatusOK, "")
			f.obs.Counter("forge.generate.success").Add(ctx, 1)
			return &value, nil
		}

		lastFailure = err
		f.obs.Warn(ctx, "attempt did not validate",
			observability.Int(observability.AttrForgeAttempt, attempt),
			observability.String(observability.AttrForgeResponse, observability.TruncateString(response, 500)),
			observability.Error(err),
		)
		prepared += feedbackPrefix + err.Error()
	}

	f.obs.Counter("forge.generate.failure").Add(ctx, 1)
	span.RecordError(lastFailure)
	span.SetStatus(observability.StatusError, "retry budget exhausted")

	if !f.raiseOnFailure {
		f.obs.Info(ctx, "derivation failed, failure raising disabled",
			observability.Int(observability.AttrForgeMaxRetries, f.maxRetries),
		)
		return nil, nil
	}

	return nil, &DerivationError{
		Prompt:   prepared,
		Attempts: f.maxRetries,
		Err:      lastFailure,
	}
}

// prepare normalizes the user input when configured and renders the prompt
// once. Feedback accumulates on the returned text, never on the template.
func (f *Forge[T]) prepare(userInput string, promptValues map[string]any) (string, error) {
	if f.normalizeHTML {
		normalized, err := htmltext.Normalize(userInput)
		if err != nil {
			return "", err
		}
		userInput = normalized
	}

	schemaJSON, err := f.model.SchemaJSON()
	if err != nil {
		return "", err
	}

	values := make(map[string]any, len(promptValues)+2)
	for key, value := range promptValues {
		values[key] = value
	}
	values[prompt.VarUserInput] = userInput
	values[prompt.VarResponseModelJSON] = schemaJSON

	return f.prompt.Render(values)
}
