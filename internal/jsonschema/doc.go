// Package jsonschema derives JSON Schema documents from Go types using
// reflection. It is the structural half of the validation engine: the schemas
// it produces are rendered into prompts and used to check candidate JSON
// before it is decoded into the caller's target type.
//
// Structs, primitives, slices, arrays, maps and pointers are supported.
// Non-recursive struct types are inlined; recursive types are lifted into
// $defs and referenced with $ref so generation always terminates.
//
// The main entry point is [Generate], which derives a [Schema] from a type
// parameter without requiring a runtime value.
package jsonschema
