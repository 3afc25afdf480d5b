package jsonschema

import (
	"strings"
	"testing"
)

func TestGenerateStruct(t *testing.T) {
	type User struct {
		Name    string `json:"name"`
		Age     int    `json:"age"`
		City    string `json:"city"`
		Country string `json:"country"`
	}

	schema, err := Generate[User]()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if schema.Type != "object" {
		t.Errorf("expected type object, got %q", schema.Type)
	}
	if len(schema.Properties) != 4 {
		t.Errorf("expected 4 properties, got %d", len(schema.Properties))
	}
	if schema.Properties["age"].Type != "integer" {
		t.Errorf("expected age to be integer, got %q", schema.Properties["age"].Type)
	}
	if len(schema.Required) != 4 {
		t.Errorf("expected all fields required, got %v", schema.Required)
	}
}

func TestGeneratePrimitivesAndCollections(t *testing.T) {
	intSchema, err := Generate[int]()
	if err != nil {
		t.Fatalf("Generate[int] failed: %v", err)
	}
	if intSchema.Type != "integer" {
		t.Errorf("expected integer, got %q", intSchema.Type)
	}

	listSchema, err := Generate[[]string]()
	if err != nil {
		t.Fatalf("Generate[[]string] failed: %v", err)
	}
	if listSchema.Type != "array" || listSchema.Items == nil || listSchema.Items.Type != "string" {
		t.Errorf("unexpected list schema: %s", listSchema)
	}

	mapSchema, err := Generate[map[string]float64]()
	if err != nil {
		t.Fatalf("Generate[map] failed: %v", err)
	}
	if mapSchema.Type != "object" {
		t.Errorf("expected object, got %q", mapSchema.Type)
	}
	values, ok := mapSchema.AdditionalProperties.(*Schema)
	if !ok || values.Type != "number" {
		t.Errorf("unexpected map value schema: %#v", mapSchema.AdditionalProperties)
	}
}

func TestGenerateOmitEmptyAndSkippedFields(t *testing.T) {
	type Record struct {
		ID       string  `json:"id"`
		Note     string  `json:"note,omitempty"`
		Internal string  `json:"-"`
		Score    *int    `json:"score"`
		Label    float64 `json:"label,omitempty" jsonschema:"required"`
	}

	schema, err := Generate[Record]()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, exists := schema.Properties["Internal"]; exists {
		t.Error("json:\"-\" field should be skipped")
	}
	if len(schema.Properties) != 4 {
		t.Errorf("expected 4 properties, got %d", len(schema.Properties))
	}

	requiredSet := map[string]bool{}
	for _, name := range schema.Required {
		requiredSet[name] = true
	}
	if !requiredSet["id"] {
		t.Error("id should be required")
	}
	if requiredSet["note"] {
		t.Error("omitempty field should not be required")
	}
	if requiredSet["score"] {
		t.Error("pointer field should not be required")
	}
	if !requiredSet["label"] {
		t.Error("jsonschema:\"required\" should force required despite omitempty")
	}
}

func TestGenerateSchemaTags(t *testing.T) {
	type Ticket struct {
		Priority string `json:"priority" jsonschema:"description=Ticket priority,enum=low,enum=high"`
		Weight   int    `json:"weight" jsonschema:"enum=1,enum=2"`
	}

	schema, err := Generate[Ticket]()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	priority := schema.Properties["priority"]
	if priority.Description != "Ticket priority" {
		t.Errorf("unexpected description %q", priority.Description)
	}
	if len(priority.Enum) != 2 || priority.Enum[0] != "low" || priority.Enum[1] != "high" {
		t.Errorf("unexpected enum %v", priority.Enum)
	}

	weight := schema.Properties["weight"]
	if len(weight.Enum) != 2 || weight.Enum[0] != int64(1) {
		t.Errorf("unexpected int enum %v", weight.Enum)
	}
}

func TestGenerateBadEnumTag(t *testing.T) {
	type Broken struct {
		Count int `json:"count" jsonschema:"enum=notanumber"`
	}

	if _, err := Generate[Broken](); err == nil {
		t.Fatal("expected error for non-numeric enum on int field")
	}
}

func TestGenerateRecursiveType(t *testing.T) {
	type Node struct {
		Value    string `json:"value"`
		Children []Node `json:"children,omitempty"`
	}

	schema, err := Generate[Node]()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(schema.Defs) == 0 {
		t.Fatal("expected $defs for recursive type")
	}
	if schema.Properties["children"].Items.Ref != "#/$defs/node" {
		t.Errorf("expected children items to reference #/$defs/node, got %q", schema.Properties["children"].Items.Ref)
	}

	// The document must marshal without cycling.
	out, err := schema.JSONString(true)
	if err != nil {
		t.Fatalf("JSONString failed: %v", err)
	}
	if !strings.Contains(out, "$defs") {
		t.Errorf("expected $defs in output, got %s", out)
	}
}

func TestGeneratePointerTarget(t *testing.T) {
	type Inner struct {
		A string `json:"a"`
	}

	schema, err := Generate[*Inner]()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if schema.Type != "object" || schema.Properties["a"] == nil {
		t.Errorf("pointer target should unwrap to struct schema, got %s", schema)
	}
}
