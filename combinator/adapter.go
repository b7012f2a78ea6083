package combinator

import (
	"errors"
	"fmt"

	"go.binlayout.dev/binlayout/field"
	"go.binlayout.dev/binlayout/scope"
	"go.binlayout.dev/binlayout/stream"
)

// transform maps a parsed child value to an adapted value. It sees only the
// value, not the parse context.
type transform func(value any) (any, error)

// adapterField parses its child, then applies an immutable transform to
// the value.
type adapterField struct {
	child      field.Field
	fn         transform
	schemaType string // JSON Schema type of the adapted value; "" means unknown
}

func newAdapter(child field.Field, fn transform) *adapterField {
	if child == nil {
		panic(fmt.Errorf("%w: adapter: nil child", field.ErrInvalidChildField))
	}

	return &adapterField{child: child, fn: fn}
}

func (f *adapterField) Name() string        { return f.child.Name() }
func (f *adapterField) IsEmbedded() bool    { return f.child.IsEmbedded() }
func (f *adapterField) IsNested() bool      { return false }
func (f *adapterField) Unwrap() field.Field { return f.child }

// SchemaShape reports the adapted value's own JSON Schema type rather than
// the wrapped child's, since an adapter changes the value's shape (Hex/Bin
// turn an integer into a string; Boolean turns any value into a bool).
// schema.Describe checks for this before falling back to WrapperField
// recursion. Enum's mapped values are arbitrary, so it leaves schemaType
// unset and schema.Describe falls back to a permissive schema.
func (f *adapterField) SchemaShape() field.SchemaShape {
	return field.SchemaShape{Type: f.schemaType}
}

func (f *adapterField) Sizeof(ctx scope.Context) (int64, error) { return f.child.Sizeof(ctx) }

func (f *adapterField) Parse(s stream.Stream, parent scope.Context) (any, error) {
	offset, _ := s.Tell()

	v, err := f.child.Parse(s, parent)
	if err != nil {
		return nil, err
	}

	out, err := f.fn(v)
	if err != nil {
		if errors.Is(err, field.ErrInvalidEnumValue) {
			return nil, &field.ParseError{Offset: offset, Name: f.child.Name(), Err: err}
		}

		return nil, field.NewParseError(offset, f.child.Name(), field.ErrValidationError, err.Error())
	}

	return out, nil
}

// Hex adapts an integer-valued child into its lowercase "0x..." hex string
// representation.
func Hex(child field.Field) field.Field {
	f := newAdapter(child, func(v any) (any, error) {
		n, err := asInt64(v)
		if err != nil {
			return nil, err
		}

		if n < 0 {
			return fmt.Sprintf("-0x%x", -n), nil
		}

		return fmt.Sprintf("0x%x", n), nil
	})
	f.schemaType = "string"

	return f
}

// Bin adapts an integer-valued child into its "0b..." binary string
// representation.
func Bin(child field.Field) field.Field {
	f := newAdapter(child, func(v any) (any, error) {
		n, err := asInt64(v)
		if err != nil {
			return nil, err
		}

		if n < 0 {
			return fmt.Sprintf("-0b%b", -n), nil
		}

		return fmt.Sprintf("0b%b", n), nil
	})
	f.schemaType = "string"

	return f
}

// Boolean adapts any child value into its truthiness: zero numeric values,
// empty strings, and empty/nil byte slices are false; everything else is
// true.
func Boolean(child field.Field) field.Field {
	f := newAdapter(child, func(v any) (any, error) {
		switch t := v.(type) {
		case int64:
			return t != 0, nil
		case uint64:
			return t != 0, nil
		case bool:
			return t, nil
		case string:
			return t != "", nil
		case []byte:
			return len(t) != 0, nil
		default:
			return v != nil, nil
		}
	})
	f.schemaType = "boolean"

	return f
}

// Enum adapts a child's value through a construct-time lookup table.
// EnumOption configures the default used when a value is missing from the
// table.
type EnumOption func(*enumConfig)

type enumConfig struct {
	hasDefault bool
	def        any
}

// WithEnumDefault supplies the value returned when a parsed key is absent
// from the enum's mapping, instead of failing with
// field.ErrInvalidEnumValue.
func WithEnumDefault(def any) EnumOption {
	return func(c *enumConfig) { c.hasDefault = true; c.def = def }
}

// Enum constructs a field that parses child, then looks the resulting
// value up in mapping (keyed by the child's decoded value) and yields the
// looked-up value. Duplicate mapping values are rejected at construction;
// an unresolved lookup without a default fails with
// field.ErrInvalidEnumValue.
func Enum(child field.Field, mapping map[any]any, opts ...EnumOption) field.Field {
	seenValues := make(map[any]bool, len(mapping))

	for _, out := range mapping {
		if seenValues[out] {
			panic(fmt.Errorf("%w: enum: duplicate value %v", field.ErrInvalidFieldParameter, out))
		}

		seenValues[out] = true
	}

	cfg := &enumConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return newAdapter(child, func(v any) (any, error) {
		if out, ok := mapping[v]; ok {
			return out, nil
		}

		if cfg.hasDefault {
			return cfg.def, nil
		}

		return nil, fmt.Errorf("%w: %v", field.ErrInvalidEnumValue, v)
	})
}

func asInt64(v any) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case uint64:
		return int64(t), nil
	default:
		return 0, fmt.Errorf("%w: expected an integer value, got %T", field.ErrInvalidFieldParameter, v)
	}
}
