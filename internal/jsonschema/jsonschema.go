package jsonschema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Schema is a JSON Schema document (or fragment of one). It covers the subset
// of the standard needed to describe Go types: object properties with required
// lists, array items, enums, map values via additionalProperties, and
// $ref/$defs for recursive types.
type Schema struct {
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Required    []string `json:"required,omitempty"`
	// Properties maps object field names to their schemas.
	Properties map[string]*Schema `json:"properties,omitempty"`
	// Items describes array elements.
	Items *Schema `json:"items,omitempty"`
	// AdditionalProperties describes map values, or constrains unknown keys.
	AdditionalProperties any `json:"additionalProperties,omitempty"`
	Default              any `json:"default,omitempty"`
	Enum                 []any `json:"enum,omitempty"`
	// Ref points into Defs for recursive types.
	Ref  string             `json:"$ref,omitempty"`
	Defs map[string]*Schema `json:"$defs,omitempty"`
}

// Generate derives a Schema from the type parameter T. Pointer types are
// unwrapped to their element type. An error is returned when a jsonschema
// struct tag cannot be parsed.
func Generate[T any]() (*Schema, error) {
	g := &generator{
		visited: map[reflect.Type]string{},
		defs:    map[string]*Schema{},
	}

	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	schema, err := g.schemaFor(t, true)
	if err != nil {
		return nil, err
	}

	if len(g.defs) > 0 {
		// Copy so the root's Defs entry never points back at a schema that
		// itself carries Defs, which would cycle during marshalling.
		root := *schema
		root.Defs = g.defs
		return &root, nil
	}

	return schema, nil
}

// generator tracks visited struct types so recursive fields resolve to a
// $ref instead of looping forever.
type generator struct {
	visited map[reflect.Type]string
	defs    map[string]*Schema
}

func (g *generator) schemaFor(t reflect.Type, isRoot bool) (*Schema, error) {
	switch t.Kind() {
	case reflect.String:
		return &Schema{Type: "string"}, nil
	case reflect.Bool:
		return &Schema{Type: "boolean"}, nil
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}, nil

	case reflect.Slice, reflect.Array:
		items, err := g.schemaFor(t.Elem(), false)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "array", Items: items}, nil

	case reflect.Map:
		values, err := g.schemaFor(t.Elem(), false)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "object", AdditionalProperties: values}, nil

	case reflect.Ptr:
		return g.schemaFor(t.Elem(), isRoot)

	case reflect.Struct:
		return g.structSchema(t, isRoot)

	default:
		return &Schema{Type: "object"}, nil
	}
}

func (g *generator) structSchema(t reflect.Type, isRoot bool) (*Schema, error) {
	if name, ok := g.visited[t]; ok {
		return &Schema{Ref: "#/$defs/" + name}, nil
	}

	recursive := referencesItself(t, t, map[reflect.Type]bool{})
	var defName string
	if recursive {
		defName = definitionName(t)
		g.visited[t] = defName
	}

	schema := &Schema{Type: "object", Properties: map[string]*Schema{}}
	var required []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, omitEmpty, skip := jsonFieldName(field)
		if skip {
			continue
		}

		fieldSchema, err := g.schemaFor(field.Type, false)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", t.Name(), field.Name, err)
		}

		requiredByTag := false
		if fieldSchema.Ref == "" {
			requiredByTag, err = applySchemaTag(field.Type, field.Tag, fieldSchema)
			if err != nil {
				return nil, fmt.Errorf("field %s.%s: %w", t.Name(), field.Name, err)
			}
		}

		if (field.Type.Kind() != reflect.Ptr && !omitEmpty) || requiredByTag {
			required = append(required, name)
		}

		schema.Properties[name] = fieldSchema
	}

	schema.Required = required

	if recursive {
		g.defs[defName] = schema
		if !isRoot {
			return &Schema{Ref: "#/$defs/" + defName}, nil
		}
	}

	return schema, nil
}

// jsonFieldName resolves the JSON property name for a struct field, honouring
// the json tag. skip is true for fields tagged json:"-".
func jsonFieldName(field reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}

	name = field.Name
	if tag != "" {
		if comma := strings.Index(tag, ","); comma != -1 {
			if tag[:comma] != "" {
				name = tag[:comma]
			}
			omitEmpty = strings.Contains(tag[comma:], "omitempty")
		} else {
			name = tag
		}
	}

	return name, omitEmpty, false
}

// applySchemaTag parses a `jsonschema:"..."` struct tag and applies it to the
// field schema. Supported entries: description=..., enum=... (repeatable,
// converted to the field's kind), and the bare flag "required".
func applySchemaTag(fieldType reflect.Type, tag reflect.StructTag, schema *Schema) (requiredByTag bool, err error) {
	raw := tag.Get("jsonschema")
	if raw == "" {
		return false, nil
	}

	for _, item := range strings.Split(raw, ",") {
		key, value, hasValue := strings.Cut(item, "=")
		switch {
		case !hasValue && key == "required":
			requiredByTag = true
		case hasValue && key == "description":
			schema.Description = value
		case hasValue && key == "enum":
			enumValue, convErr := convertEnumValue(fieldType, value)
			if convErr != nil {
				return false, convErr
			}
			schema.Enum = append(schema.Enum, enumValue)
		}
	}

	return requiredByTag, nil
}

func convertEnumValue(fieldType reflect.Type, value string) (any, error) {
	switch fieldType.Kind() {
	case reflect.String:
		return value, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("enum value %q is not an integer: %w", value, err)
		}
		return v, nil
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("enum value %q is not a number: %w", value, err)
		}
		return v, nil
	case reflect.Bool:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("enum value %q is not a bool: %w", value, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("enum tag unsupported for field type %v", fieldType)
	}
}

// referencesItself reports whether target appears (possibly through pointers,
// slices, arrays or nested structs) in the fields of current.
func referencesItself(target, current reflect.Type, seen map[reflect.Type]bool) bool {
	if seen[current] {
		return false
	}
	seen[current] = true

	elem := func(t reflect.Type) reflect.Type {
		for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
			t = t.Elem()
		}
		return t
	}

	switch current.Kind() {
	case reflect.Struct:
		for i := 0; i < current.NumField(); i++ {
			ft := elem(current.Field(i).Type)
			if ft == target {
				return true
			}
			if ft.Kind() == reflect.Struct && referencesItself(target, ft, seen) {
				return true
			}
		}
	case reflect.Ptr, reflect.Slice, reflect.Array:
		ft := elem(current)
		if ft == target {
			return true
		}
		if ft.Kind() == reflect.Struct && referencesItself(target, ft, seen) {
			return true
		}
	}

	return false
}

func definitionName(t reflect.Type) string {
	if t.Name() != "" {
		return strings.ToLower(t.Name())
	}
	return "anonymousStruct"
}

// JSONString renders the schema as JSON. Pass true to indent.
func (s *Schema) JSONString(indent ...bool) (string, error) {
	var (
		b   []byte
		err error
	)
	if len(indent) > 0 && indent[0] {
		b, err = json.MarshalIndent(s, "", "  ")
	} else {
		b, err = json.Marshal(s)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema to JSON: %w", err)
	}
	return string(b), nil
}

// String returns the compact JSON representation, or an error message when
// marshalling fails.
func (s *Schema) String() string {
	out, err := s.JSONString()
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return out
}
