package combinator

import (
	"errors"
	"fmt"

	"go.binlayout.dev/binlayout/field"
	"go.binlayout.dev/binlayout/scope"
	"go.binlayout.dev/binlayout/stream"
)

// arrayField repeats a single element field a determined number of times,
// consulting the parent context (not the array's own in-progress context)
// when the count is a predicate, since the count may reference fields of
// the enclosing structure parsed before the array.
type arrayField struct {
	name    string
	element field.Field
	fixed   int64
	sized   field.SizePredicate
	hasLen  bool
}

// Array constructs a field that repeats element exactly count times.
func Array(name string, element field.Field, count int64) field.Field {
	if element == nil {
		panic(fmt.Errorf("%w: array: nil element field", field.ErrInvalidChildField))
	}

	if count < 0 {
		panic(fmt.Errorf("%w: array: negative count %d", field.ErrInvalidFieldSize, count))
	}

	return &arrayField{name: name, element: element, fixed: count, hasLen: true}
}

// ArrayFunc constructs a field that repeats element a count computed from
// the parent context at parse time.
func ArrayFunc(name string, element field.Field, count field.SizePredicate) field.Field {
	if element == nil {
		panic(fmt.Errorf("%w: array: nil element field", field.ErrInvalidChildField))
	}

	if count == nil {
		panic(fmt.Errorf("%w: array: nil count predicate", field.ErrInvalidFunctor))
	}

	return &arrayField{name: name, element: element, sized: count}
}

func (f *arrayField) Name() string      { return f.name }
func (f *arrayField) IsEmbedded() bool  { return false }
func (f *arrayField) IsNested() bool    { return true }
func (f *arrayField) Element() field.Field { return f.element }

func (f *arrayField) count(ctx scope.Context) (int64, error) {
	if f.hasLen {
		return f.fixed, nil
	}

	n, err := scope.Invoke(func(c scope.Context) int64 { return f.sized(c) }, ctx)
	if err != nil {
		return 0, err
	}

	return n, nil
}

func (f *arrayField) Sizeof(ctx scope.Context) (int64, error) {
	n, err := f.count(ctx)
	if err != nil {
		return 0, field.NewSizeofError(f.name, err.Error())
	}

	elemSize, err := f.element.Sizeof(ctx)
	if err != nil {
		return 0, fmt.Errorf("array %q: %w", f.name, err)
	}

	return n * elemSize, nil
}

func (f *arrayField) Parse(s stream.Stream, parent scope.Context) (any, error) {
	n, err := f.count(parent)
	if err != nil {
		return nil, field.NewParseError(0, f.name, field.ErrStreamError, err.Error())
	}

	arr := scope.NewArrayContext(f.name, parent)

	for i := int64(0); i < n; i++ {
		v, err := f.element.Parse(s, parent)
		if err != nil {
			return nil, err
		}

		arr.Append(v)
	}

	return arr, nil
}

// repeatUntilField repeats its element field until a predicate over the
// in-progress ArrayContext returns true, checked before each element is
// read.
type repeatUntilField struct {
	name      string
	element   field.Field
	until     field.ArrayPredicate
	stopOnEOF bool
}

// RepeatUntilOption configures a RepeatUntil field.
type RepeatUntilOption func(*repeatUntilField)

// StopOnEOF selects the behavior when the element parse raises
// field.ErrStreamExhausted: terminate the array and return what has been
// collected, instead of propagating the error.
func StopOnEOF() RepeatUntilOption {
	return func(f *repeatUntilField) { f.stopOnEOF = true }
}

// RepeatUntil constructs a field that parses element repeatedly, checking
// until(arrayContext) before each iteration (including before the first)
// and stopping once it returns true.
func RepeatUntil(name string, until field.ArrayPredicate, element field.Field, opts ...RepeatUntilOption) field.Field {
	if element == nil {
		panic(fmt.Errorf("%w: repeat_until: nil element field", field.ErrInvalidChildField))
	}

	if until == nil {
		panic(fmt.Errorf("%w: repeat_until: nil predicate", field.ErrInvalidFunctor))
	}

	f := &repeatUntilField{name: name, element: element, until: until}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

func (f *repeatUntilField) Name() string          { return f.name }
func (f *repeatUntilField) IsEmbedded() bool      { return false }
func (f *repeatUntilField) IsNested() bool        { return true }
func (f *repeatUntilField) Element() field.Field { return f.element }

func (f *repeatUntilField) Sizeof(scope.Context) (int64, error) {
	return 0, field.NewSizeofError(f.name, "repeat_until length is data-dependent")
}

func (f *repeatUntilField) Parse(s stream.Stream, parent scope.Context) (any, error) {
	arr := scope.NewArrayContext(f.name, parent)

	for {
		done, err := scope.Invoke(func(scope.Context) bool { return f.until(arr) }, arr)
		if err != nil {
			return nil, field.NewParseError(0, f.name, field.ErrStreamError, err.Error())
		}

		if done {
			break
		}

		v, err := f.element.Parse(s, parent)
		if err != nil {
			if f.stopOnEOF && errors.Is(err, field.ErrStreamExhausted) {
				break
			}

			return nil, err
		}

		arr.Append(v)
	}

	return arr, nil
}
