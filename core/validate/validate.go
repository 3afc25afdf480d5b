// Package validate tries extracted candidate substrings against a response
// model in order, returning the first one that parses and validates. When a
// candidate is not valid JSON it is run through jsonrepair before being
// rejected; structural validation uses the generated JSON schema.
package validate

import (
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/kaptinlin/jsonrepair"

	"github.com/forgekit/forge/core/schema"
	"github.com/forgekit/forge/internal/jsonschema"
)

// Validator checks candidates against the schema of one response model. The
// structural schema is compiled once at construction; a Validator is
// immutable and safe to share.
type Validator[T any] struct {
	model      *schema.ResponseModel[T]
	structural *openapi3.Schema
}

// NewValidator builds a Validator for the given response model. Schemas that
// use $ref/$defs (recursive target types) fall back to decode-only
// validation, since the structural checker cannot resolve local references.
func NewValidator[T any](model *schema.ResponseModel[T]) *Validator[T] {
	return &Validator[T]{
		model:      model,
		structural: compileStructural(model.Schema()),
	}
}

func compileStructural(s *jsonschema.Schema) *openapi3.Schema {
	if s.Ref != "" || len(s.Defs) > 0 {
		return nil
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return nil
	}

	var compiled openapi3.Schema
	if err := compiled.UnmarshalJSON(raw); err != nil {
		return nil
	}

	return &compiled
}

// Validate tries each candidate in order and returns the decoded value of the
// first that passes. Zero candidates is the distinct ErrNoJSONFound failure,
// reported before any validation. When candidates exist but none validates,
// every per-candidate failure is returned together as an *AggregateError.
func (v *Validator[T]) Validate(candidates []string) (T, error) {
	var zero T

	if len(candidates) == 0 {
		return zero, ErrNoJSONFound
	}

	var failures []error
	for i, candidate := range candidates {
		value, err := v.validateOne(candidate)
		if err == nil {
			return value, nil
		}
		failures = append(failures, fmt.Errorf("candidate %d: %w", i+1, err))
	}

	return zero, &AggregateError{Causes: failures}
}

// validateOne parses, structurally validates and decodes a single candidate.
func (v *Validator[T]) validateOne(candidate string) (T, error) {
	var zero T

	parsed := candidate
	var document any
	if err := json.Unmarshal([]byte(candidate), &document); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(candidate)
		if repairErr != nil {
			return zero, fmt.Errorf("invalid JSON and repair failed: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &document); err != nil {
			return zero, fmt.Errorf("invalid JSON after repair: %w", err)
		}
		parsed = repaired
	}

	if v.structural != nil {
		if err := v.structural.VisitJSON(document, openapi3.MultiErrors()); err != nil {
			return zero, fmt.Errorf("schema validation failed: %w", err)
		}
	}

	value, err := v.model.Decode(parsed)
	if err != nil {
		return zero, err
	}

	return value, nil
}
