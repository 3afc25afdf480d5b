package validate

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/forgekit/forge/core/schema"
)

func mustModel[T any](t *testing.T) *schema.ResponseModel[T] {
	t.Helper()
	model, err := schema.New[T]()
	if err != nil {
		t.Fatalf("schema.New failed: %v", err)
	}
	return model
}

func TestFirstValidCandidateWins(t *testing.T) {
	validator := NewValidator(mustModel[int](t))

	got, err := validator.Validate([]string{`{bad json}`, `{"value": 5}`})
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
}

func TestLaterCandidatesIgnoredAfterSuccess(t *testing.T) {
	validator := NewValidator(mustModel[int](t))

	got, err := validator.Validate([]string{`{"value": 1}`, `{"value": 2}`})
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if got != 1 {
		t.Errorf("first validating candidate must win, got %d", got)
	}
}

func TestNoCandidatesIsDistinctFailure(t *testing.T) {
	validator := NewValidator(mustModel[int](t))

	_, err := validator.Validate(nil)
	if !errors.Is(err, ErrNoJSONFound) {
		t.Fatalf("expected ErrNoJSONFound, got %v", err)
	}
}

func TestAllInvalidAggregatesEveryFailure(t *testing.T) {
	type user struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}
	validator := NewValidator(mustModel[user](t))

	_, err := validator.Validate([]string{`{"name": 1}`, `{"age": "thirty"}`})
	if err == nil {
		t.Fatal("expected aggregate failure")
	}

	var aggregate *AggregateError
	if !errors.As(err, &aggregate) {
		t.Fatalf("expected *AggregateError, got %T", err)
	}
	if len(aggregate.Causes) != 2 {
		t.Errorf("expected 2 causes, got %d: %v", len(aggregate.Causes), aggregate.Causes)
	}
	if !strings.Contains(aggregate.Causes[0].Error(), "candidate 1") {
		t.Errorf("causes must stay in candidate order, got %v", aggregate.Causes[0])
	}
}

func TestStructuralValidationCatchesMissingFields(t *testing.T) {
	type user struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}
	validator := NewValidator(mustModel[user](t))

	// Valid JSON, wrong shape: both fields are required.
	_, err := validator.Validate([]string{`{"name": "Ada"}`})
	if err == nil {
		t.Fatal("expected validation failure for missing required field")
	}
}

func TestRepairedCandidatePasses(t *testing.T) {
	type pair struct {
		A string `json:"a"`
		B string `json:"b"`
	}
	validator := NewValidator(mustModel[pair](t))

	// Single quotes and unquoted keys: jsonrepair territory.
	got, err := validator.Validate([]string{`{a: 'x', b: 'y'}`})
	if err != nil {
		t.Fatalf("expected repaired candidate to validate, got %v", err)
	}
	if got.A != "x" || got.B != "y" {
		t.Errorf("unexpected decode %+v", got)
	}
}

func TestPlainValueListDecodes(t *testing.T) {
	validator := NewValidator(mustModel[[]string](t))

	got, err := validator.Validate([]string{`{"value": ["a", "b"]}`})
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("expected [a b], got %v", got)
	}
}

func TestWrongValueTypeFails(t *testing.T) {
	validator := NewValidator(mustModel[int](t))

	_, err := validator.Validate([]string{`{"value": "not a number"}`})
	if err == nil {
		t.Fatal("expected type mismatch failure")
	}
	var aggregate *AggregateError
	if !errors.As(err, &aggregate) {
		t.Fatalf("expected *AggregateError, got %T", err)
	}
}

func TestRecursiveTargetFallsBackToDecode(t *testing.T) {
	type node struct {
		Value    string `json:"value"`
		Children []node `json:"children,omitempty"`
	}
	validator := NewValidator(mustModel[node](t))

	got, err := validator.Validate([]string{`{"value": "root", "children": [{"value": "leaf"}]}`})
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if got.Value != "root" || len(got.Children) != 1 {
		t.Errorf("unexpected decode %+v", got)
	}
}
