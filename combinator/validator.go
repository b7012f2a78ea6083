package combinator

import (
	"bytes"
	"fmt"

	"go.binlayout.dev/binlayout/field"
	"go.binlayout.dev/binlayout/scope"
	"go.binlayout.dev/binlayout/stream"
)

// check decides whether a parsed value is acceptable; a non-nil error
// becomes a field.ErrValidationError.
type check func(value any, ctx scope.Context) error

// validatorField parses its child, then requires a check to hold.
type validatorField struct {
	child field.Field
	fn    check
}

func newValidator(child field.Field, fn check) *validatorField {
	if child == nil {
		panic(fmt.Errorf("%w: validator: nil child", field.ErrInvalidChildField))
	}

	return &validatorField{child: child, fn: fn}
}

func (f *validatorField) Name() string        { return f.child.Name() }
func (f *validatorField) IsEmbedded() bool    { return f.child.IsEmbedded() }
func (f *validatorField) IsNested() bool      { return f.child.IsNested() }
func (f *validatorField) Unwrap() field.Field { return f.child }

func (f *validatorField) Sizeof(ctx scope.Context) (int64, error) { return f.child.Sizeof(ctx) }

func (f *validatorField) Parse(s stream.Stream, parent scope.Context) (any, error) {
	offset, _ := s.Tell()

	v, err := f.child.Parse(s, parent)
	if err != nil {
		return nil, err
	}

	if err := f.fn(v, parent); err != nil {
		return nil, field.NewParseError(offset, f.child.Name(), field.ErrValidationError, err.Error())
	}

	return v, nil
}

// valuesEqual compares two parsed values, treating []byte specially since
// Go's == operator cannot compare slices.
func valuesEqual(a, b any) bool {
	ab, aIsBytes := a.([]byte)
	bb, bIsBytes := b.([]byte)

	if aIsBytes || bIsBytes {
		return aIsBytes && bIsBytes && bytes.Equal(ab, bb)
	}

	return a == b
}

// Constant requires the child's parsed value to equal literal exactly.
func Constant(child field.Field, literal any) field.Field {
	return newValidator(child, func(v any, _ scope.Context) error {
		if !valuesEqual(v, literal) {
			return fmt.Errorf("value %v does not equal constant %v", v, literal)
		}

		return nil
	})
}

// AssertEqual requires the child's parsed value to equal pred(context).
func AssertEqual(child field.Field, pred field.ValuePredicate) field.Field {
	if pred == nil {
		panic(fmt.Errorf("%w: assert_equal: nil predicate", field.ErrInvalidFunctor))
	}

	return newValidator(child, func(v any, ctx scope.Context) error {
		want, err := scope.Invoke(func(c scope.Context) any { return pred(c) }, ctx)
		if err != nil {
			return err
		}

		if !valuesEqual(v, want) {
			return fmt.Errorf("value %v does not equal %v", v, want)
		}

		return nil
	})
}

// Contains requires the child's parsed value to be a member of set.
func Contains(child field.Field, set []any) field.Field {
	return newValidator(child, func(v any, _ scope.Context) error {
		for _, item := range set {
			if valuesEqual(v, item) {
				return nil
			}
		}

		return fmt.Errorf("value %v is not in %v", v, set)
	})
}

// assertionField evaluates a predicate over the context alone and yields
// nothing: a detached check with no wrapped value.
type assertionField struct {
	fn field.BoolPredicate
}

// Assertion constructs a field that consumes nothing, requires
// pred(context) to be true, and yields no value.
func Assertion(pred field.BoolPredicate) field.Field {
	if pred == nil {
		panic(fmt.Errorf("%w: assertion: nil predicate", field.ErrInvalidFunctor))
	}

	return &assertionField{fn: pred}
}

func (f *assertionField) Name() string     { return "" }
func (f *assertionField) IsEmbedded() bool { return false }
func (f *assertionField) IsNested() bool   { return false }

func (*assertionField) Sizeof(scope.Context) (int64, error) { return 0, nil }

func (f *assertionField) Parse(_ stream.Stream, parent scope.Context) (any, error) {
	ok, err := scope.Invoke(func(c scope.Context) bool { return f.fn(c) }, parent)
	if err != nil {
		return nil, field.NewParseError(0, "", field.ErrValidationError, err.Error())
	}

	if !ok {
		return nil, field.NewParseError(0, "", field.ErrValidationError, "assertion failed")
	}

	return nil, nil
}
