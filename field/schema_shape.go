package field

// SchemaShape describes the JSON Schema shape a field's parsed value takes.
// An empty Type means "no constraint known" (the schema package falls back
// to a permissive schema), matching the fail-open principle this type
// carries over from the schema-generation tooling it is descended from.
type SchemaShape struct {
	Type      string
	MinLength *int64
	MaxLength *int64
}

// SchemaShaper is implemented by primitives that know the JSON Schema shape
// of their own parsed value at construction time, without needing to parse
// actual data. schema.Describe checks for this interface before falling
// back to structural recursion through WrapperField/ContainerField.
type SchemaShaper interface {
	Field
	SchemaShape() SchemaShape
}
