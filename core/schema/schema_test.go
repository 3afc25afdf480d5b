package schema

import (
	"reflect"
	"strings"
	"testing"
)

type user struct {
	Name    string `json:"name"`
	Age     int    `json:"age"`
	City    string `json:"city"`
	Country string `json:"country"`
}

func TestStructTargetIsStructured(t *testing.T) {
	model, err := New[user]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if model.Kind() != KindStructured {
		t.Errorf("expected KindStructured, got %v", model.Kind())
	}
	if model.Schema().Properties["name"] == nil {
		t.Error("expected target schema to pass through unchanged")
	}
	if _, wrapped := model.Schema().Properties["value"]; wrapped {
		t.Error("structured targets must not be wrapped")
	}
}

func TestStructuredDecodeIsIdentity(t *testing.T) {
	model, err := New[user]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got, err := model.Decode(`{"name":"Ada","age":36,"city":"London","country":"UK"}`)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := user{Name: "Ada", Age: 36, City: "London", Country: "UK"}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestSliceTargetIsPlainValue(t *testing.T) {
	model, err := New[[]string]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if model.Kind() != KindPlainValue {
		t.Errorf("expected KindPlainValue, got %v", model.Kind())
	}

	value := model.Schema().Properties["value"]
	if value == nil || value.Type != "array" {
		t.Fatalf("expected wrapper with array value field, got %s", model.Schema())
	}
	if value.Description != "JSON schema the response should adhere to." {
		t.Errorf("expected default value description, got %q", value.Description)
	}
	if len(model.Schema().Required) != 1 || model.Schema().Required[0] != "value" {
		t.Errorf("expected value to be required, got %v", model.Schema().Required)
	}

	got, err := model.Decode(`{"value": ["a","b"]}`)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("expected [a b], got %v", got)
	}
}

func TestPrimitiveTargetUnwraps(t *testing.T) {
	model, err := New[int]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if model.Kind() != KindPlainValue {
		t.Errorf("expected KindPlainValue, got %v", model.Kind())
	}

	got, err := model.Decode(`{"value": 5}`)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
}

func TestMapTargetIsPlainValue(t *testing.T) {
	model, err := New[map[string]int]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if model.Kind() != KindPlainValue {
		t.Errorf("maps are generic aliases and must be plain values, got %v", model.Kind())
	}
}

func TestWithValueDescription(t *testing.T) {
	model, err := New[[]string](WithValueDescription("List of extracted names."))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if got := model.Schema().Properties["value"].Description; got != "List of extracted names." {
		t.Errorf("expected custom description, got %q", got)
	}
}

func TestSchemaJSONIsIndented(t *testing.T) {
	model, err := New[user]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	out, err := model.SchemaJSON()
	if err != nil {
		t.Fatalf("SchemaJSON failed: %v", err)
	}
	if !strings.Contains(out, "\n  ") {
		t.Error("expected indented JSON")
	}
	if !strings.Contains(out, `"name"`) {
		t.Errorf("expected field names in schema, got %s", out)
	}
}

func TestKindIsStableAcrossCalls(t *testing.T) {
	model, err := New[int]()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	first := model.Kind()
	if _, err := model.Decode(`{"value": 1}`); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if model.Kind() != first {
		t.Error("kind must never change after construction")
	}
}
