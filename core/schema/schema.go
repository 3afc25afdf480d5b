// Package schema adapts an arbitrary target type into a validatable JSON
// schema descriptor. Struct targets pass through unchanged; plain value
// targets (primitives, slices, maps) are wrapped in a synthesized one-field
// object schema holding the value, so the backend always has a JSON object to
// produce.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/forgekit/forge/internal/jsonschema"
)

// Kind says whether the caller's target type was already a structured record
// or a plain value that needed wrapping. It is fixed at construction.
type Kind int

const (
	// KindStructured targets decode directly into the caller's type.
	KindStructured Kind = iota
	// KindPlainValue targets decode through a one-field wrapper object and
	// unwrap to its value field.
	KindPlainValue
)

func (k Kind) String() string {
	if k == KindStructured {
		return "structured"
	}
	return "plain-value"
}

// defaultValueDescription annotates the synthesized value field when the
// caller attaches no description of their own.
const defaultValueDescription = "JSON schema the response should adhere to."

// ResponseModel is the adapted, validatable descriptor of a target type T.
// It is immutable after construction and safe to share across goroutines.
type ResponseModel[T any] struct {
	kind   Kind
	schema *jsonschema.Schema
}

// Option customises descriptor construction.
type Option func(*options)

type options struct {
	valueDescription string
}

// WithValueDescription sets the description of the synthesized value field
// for plain value targets. It has no effect on structured targets, which
// carry their own schema.
func WithValueDescription(description string) Option {
	return func(o *options) {
		o.valueDescription = description
	}
}

// New builds a ResponseModel for T. Struct targets (including pointers to
// structs) keep their generated schema unchanged; every other kind is wrapped
// in a one-field object schema named "value".
func New[T any](opts ...Option) (*ResponseModel[T], error) {
	var cfg options
	for _, opt := range opts {
		opt(&cfg)
	}

	generated, err := jsonschema.Generate[T]()
	if err != nil {
		return nil, fmt.Errorf("schema: generating schema for %v: %w", reflect.TypeFor[T](), err)
	}

	if isStructured[T]() {
		return &ResponseModel[T]{kind: KindStructured, schema: generated}, nil
	}

	description := cfg.valueDescription
	if description == "" {
		description = defaultValueDescription
	}

	// Lift any $defs produced for the inner type up to the wrapper root,
	// where schema consumers expect them.
	defs := generated.Defs
	generated.Defs = nil
	generated.Description = description

	wrapper := &jsonschema.Schema{
		Type:       "object",
		Properties: map[string]*jsonschema.Schema{"value": generated},
		Required:   []string{"value"},
		Defs:       defs,
	}

	return &ResponseModel[T]{kind: KindPlainValue, schema: wrapper}, nil
}

// isStructured reports whether T already satisfies the structured-record
// contract: a struct or pointer-to-struct type.
func isStructured[T any]() bool {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// Kind returns the descriptor's kind, computed once at construction.
func (m *ResponseModel[T]) Kind() Kind {
	return m.kind
}

// Schema returns the validatable schema: the target's own schema for
// structured kinds, the synthesized wrapper for plain values.
func (m *ResponseModel[T]) Schema() *jsonschema.Schema {
	return m.schema
}

// SchemaJSON renders the validatable schema as indented JSON, the form
// embedded into prompts.
func (m *ResponseModel[T]) SchemaJSON() (string, error) {
	return m.schema.JSONString(true)
}

// valueWrapper is the decode shape for plain value targets.
type valueWrapper[T any] struct {
	Value T `json:"value"`
}

// Decode parses validated candidate JSON into the target type, unwrapping the
// value field for plain value kinds. Structured kinds decode as-is.
func (m *ResponseModel[T]) Decode(jsonText string) (T, error) {
	if m.kind == KindStructured {
		var value T
		if err := json.Unmarshal([]byte(jsonText), &value); err != nil {
			return value, fmt.Errorf("schema: decoding into %T: %w", value, err)
		}
		return value, nil
	}

	var wrapper valueWrapper[T]
	if err := json.Unmarshal([]byte(jsonText), &wrapper); err != nil {
		return wrapper.Value, fmt.Errorf("schema: decoding wrapped value: %w", err)
	}
	return wrapper.Value, nil
}
