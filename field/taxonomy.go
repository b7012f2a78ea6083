package field

// WrapperField identifies a field that wraps exactly one child field and
// otherwise inherits its shape: Rename, Adapter, Validator, and Embed in
// the combinator package all implement this. Generic tree-walkers (e.g.
// schema.Describe) recurse through Unwrap rather than special-casing each
// wrapper kind.
type WrapperField interface {
	Field
	// Unwrap returns the wrapped child field.
	Unwrap() Field
}

// ContainerField identifies a field with more than one ordered child:
// Structure and Union in the combinator package implement this. The
// primitives in this package (integers, Bytes, String, Padding, NullField,
// Anchor, Calculate) implement neither interface, and neither do the
// combinators that expose their parts another way (Array, RepeatUntil,
// Switch, Select, BitwiseStructure, FormatStructure, Assertion).
type ContainerField interface {
	Field
	// Children returns the ordered child fields.
	Children() []Field
}
