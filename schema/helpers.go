package schema

import "github.com/google/jsonschema-go/jsonschema"

// TrueSchema returns a schema that validates everything (marshals to JSON
// true), used wherever a field's value shape is not statically knowable —
// e.g. Calculate's predicate-derived values or an Enum's arbitrary mapped
// values.
func TrueSchema() *jsonschema.Schema {
	return &jsonschema.Schema{}
}

// FalseSchema returns a schema that validates nothing (marshals to JSON
// false), used for additionalProperties on objects whose field set is
// fully declared at construction time.
func FalseSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Not: &jsonschema.Schema{}}
}
